package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"spendbook.com/internal/api/middleware"
	"spendbook.com/internal/auth"
	"spendbook.com/internal/config"
	"spendbook.com/internal/domain"
)

// Router registers all business routes.
type Router struct {
	app *fiber.App
	cfg *config.Config
	db  *gorm.DB

	authSvc    domain.AuthService
	tokenSvc   domain.TokenService
	expenseSvc domain.ExpenseService
}

func NewRouter(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authSvc domain.AuthService,
	tokenSvc domain.TokenService,
	expenseSvc domain.ExpenseService,
) *Router {
	return &Router{
		app:        app,
		cfg:        cfg,
		db:         db,
		authSvc:    authSvc,
		tokenSvc:   tokenSvc,
		expenseSvc: expenseSvc,
	}
}

// RegisterRoutes wires the public auth routes, then everything behind the
// bearer-token middleware.
func (r *Router) RegisterRoutes() error {
	enforcer, err := auth.InitCasbin(r.db)
	if err != nil {
		return fmt.Errorf("initialize casbin: %w", err)
	}

	authHandler := NewAuthHandler(r.authSvc, r.tokenSvc)
	expenseHandler := NewExpenseHandler(r.expenseSvc)

	v1 := r.app.Group("/api/v1")

	// Public routes
	v1.Post("/auth/register", authHandler.Register)
	v1.Post("/auth/login", authHandler.Login)
	v1.Post("/auth/refresh", authHandler.RefreshToken)

	// Everything registered below requires a bearer token
	v1.Use(middleware.JWTAuth(r.db, r.tokenSvc, enforcer))

	v1.Post("/auth/logout", authHandler.Logout)
	v1.Get("/auth/profile", authHandler.GetProfile)
	v1.Put("/auth/profile", authHandler.UpdateProfile)
	v1.Patch("/auth/profile", authHandler.UpdateProfile)

	expenses := v1.Group("/expenses")
	expenses.Get("/expenses", expenseHandler.ListExpenses)
	expenses.Post("/expenses", expenseHandler.CreateExpense)
	expenses.Get("/expenses/:id", expenseHandler.GetExpense)
	expenses.Put("/expenses/:id", expenseHandler.UpdateExpense)
	expenses.Patch("/expenses/:id", expenseHandler.UpdateExpense)
	expenses.Delete("/expenses/:id", expenseHandler.DeleteExpense)

	return nil
}
