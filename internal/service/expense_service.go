package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"spendbook.com/internal/domain"
	"spendbook.com/internal/model"
)

// ExpenseServiceImpl implements domain.ExpenseService.
type ExpenseServiceImpl struct {
	db *gorm.DB
}

func NewExpenseService(db *gorm.DB) *ExpenseServiceImpl {
	return &ExpenseServiceImpl{db: db}
}

// scoped returns the query visible to the caller: superusers see every
// record, everyone else only their own.
func (s *ExpenseServiceImpl) scoped(ctx context.Context, caller *model.User) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&model.Expense{})
	if caller.IsSuperuser {
		return query
	}
	return query.Where("user_id = ?", caller.ID)
}

func (s *ExpenseServiceImpl) List(ctx context.Context, caller *model.User, page int) ([]model.Expense, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := s.scoped(ctx, caller).Count(&total).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to count expenses", err)
	}

	expenses := make([]model.Expense, 0, domain.ExpensePageSize)
	if err := s.scoped(ctx, caller).
		Order("created_at DESC, id DESC").
		Limit(domain.ExpensePageSize).
		Offset((page - 1) * domain.ExpensePageSize).
		Find(&expenses).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to fetch expenses", err)
	}
	return expenses, total, nil
}

// Create records a new expense. The authenticated caller always becomes
// the owner; client-supplied owner fields do not exist in the input shape.
func (s *ExpenseServiceImpl) Create(ctx context.Context, caller *model.User, input domain.ExpenseInput) (*model.Expense, error) {
	if fields := validateExpenseInput(input, false); len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	expense := model.Expense{
		UserID:          caller.ID,
		Title:           strings.TrimSpace(*input.Title),
		Amount:          *input.Amount,
		TransactionType: model.TransactionDebit,
		TaxType:         model.TaxFlat,
	}
	if input.Description != nil {
		expense.Description = *input.Description
	}
	if input.TransactionType != nil {
		expense.TransactionType = *input.TransactionType
	}
	if input.Tax != nil {
		expense.Tax = *input.Tax
	}
	if input.TaxType != nil {
		expense.TaxType = *input.TaxType
	}

	if err := s.db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, domain.NewInternalError("failed to create expense", err)
	}

	expense.Total = expense.ComputeTotal()
	return &expense, nil
}

func (s *ExpenseServiceImpl) Get(ctx context.Context, caller *model.User, expenseID uint) (*model.Expense, error) {
	var expense model.Expense
	if err := s.db.WithContext(ctx).First(&expense, expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("expense not found")
		}
		return nil, domain.NewInternalError("failed to fetch expense", err)
	}
	if err := authorizeExpenseAccess(caller, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *ExpenseServiceImpl) Update(ctx context.Context, caller *model.User, expenseID uint, input domain.ExpenseInput, partial bool) (*model.Expense, error) {
	expense, err := s.Get(ctx, caller, expenseID)
	if err != nil {
		return nil, err
	}

	if fields := validateExpenseInput(input, partial); len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Amount != nil {
		updates["amount"] = *input.Amount
	}
	if input.TransactionType != nil {
		updates["transaction_type"] = *input.TransactionType
	}
	if input.Tax != nil {
		updates["tax"] = *input.Tax
	}
	if input.TaxType != nil {
		updates["tax_type"] = *input.TaxType
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(expense).Updates(updates).Error; err != nil {
			return nil, domain.NewInternalError("failed to update expense", err)
		}
	}

	// Reload so timestamps and the derived total reflect the stored row.
	if err := s.db.WithContext(ctx).First(expense, expense.ID).Error; err != nil {
		return nil, domain.NewInternalError("failed to reload expense", err)
	}
	return expense, nil
}

func (s *ExpenseServiceImpl) Delete(ctx context.Context, caller *model.User, expenseID uint) error {
	expense, err := s.Get(ctx, caller, expenseID)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Delete(&model.Expense{}, expense.ID)
	if result.Error != nil {
		return domain.NewInternalError("failed to delete expense", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("expense not found")
	}
	return nil
}

// authorizeExpenseAccess is the ownership predicate: owners always pass,
// staff and superusers may act on any record.
func authorizeExpenseAccess(caller *model.User, expense *model.Expense) error {
	if expense.UserID == caller.ID || caller.IsStaff || caller.IsSuperuser {
		return nil
	}
	return domain.NewForbiddenError("you do not have permission to perform this action")
}

// validateExpenseInput checks the client-supplied fields. For partial
// updates, absent fields are skipped instead of required.
func validateExpenseInput(input domain.ExpenseInput, partial bool) map[string]string {
	fields := map[string]string{}

	if input.Title == nil {
		if !partial {
			fields["title"] = "This field is required."
		}
	} else {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			fields["title"] = "This field may not be blank."
		} else if len(title) > 200 {
			fields["title"] = "Ensure this field has no more than 200 characters."
		}
	}

	if input.Amount == nil && !partial {
		fields["amount"] = "This field is required."
	}

	if input.TransactionType != nil {
		switch *input.TransactionType {
		case model.TransactionCredit, model.TransactionDebit:
		default:
			fields["transaction_type"] = fmt.Sprintf("%q is not a valid choice.", *input.TransactionType)
		}
	}

	if input.TaxType != nil {
		switch *input.TaxType {
		case model.TaxFlat, model.TaxPercentage:
		default:
			fields["tax_type"] = fmt.Sprintf("%q is not a valid choice.", *input.TaxType)
		}
	}

	return fields
}
