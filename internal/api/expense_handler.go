package api

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"spendbook.com/internal/domain"
)

// ExpenseHandler handles the owner-scoped expense CRUD routes.
type ExpenseHandler struct {
	expenseSvc domain.ExpenseService
}

func NewExpenseHandler(expenseSvc domain.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseSvc: expenseSvc}
}

// ListExpenses returns one page of the caller's expenses.
// GET /api/v1/expenses/expenses?page=N
func (h *ExpenseHandler) ListExpenses(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	expenses, total, err := h.expenseSvc.List(context.Background(), caller, page)
	if err != nil {
		return handleError(c, err)
	}

	return SendPaginatedResponse(c, expenses, page, domain.ExpensePageSize, total)
}

// CreateExpense records a new expense owned by the caller.
// POST /api/v1/expenses/expenses
func (h *ExpenseHandler) CreateExpense(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var input domain.ExpenseInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	expense, err := h.expenseSvc.Create(context.Background(), caller, input)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Expense created successfully.",
		"data":    expense,
	})
}

// GetExpense fetches a single expense.
// GET /api/v1/expenses/expenses/:id
func (h *ExpenseHandler) GetExpense(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	expenseID, err := parseExpenseID(c)
	if err != nil {
		return handleError(c, err)
	}

	expense, err := h.expenseSvc.Get(context.Background(), caller, expenseID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(expense)
}

// UpdateExpense rewrites an expense; PATCH skips absent fields.
// PUT/PATCH /api/v1/expenses/expenses/:id
func (h *ExpenseHandler) UpdateExpense(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	expenseID, err := parseExpenseID(c)
	if err != nil {
		return handleError(c, err)
	}

	var input domain.ExpenseInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	partial := c.Method() == fiber.MethodPatch
	expense, err := h.expenseSvc.Update(context.Background(), caller, expenseID, input, partial)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Expense updated successfully.",
		"data":    expense,
	})
}

// DeleteExpense removes an expense.
// DELETE /api/v1/expenses/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	expenseID, err := parseExpenseID(c)
	if err != nil {
		return handleError(c, err)
	}

	if err := h.expenseSvc.Delete(context.Background(), caller, expenseID); err != nil {
		return handleError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseExpenseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, domain.NewNotFoundError("expense not found")
	}
	return uint(id), nil
}
