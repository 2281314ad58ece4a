package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"spendbook.com/internal/model"
)

// Expense listings use a fixed page size.
const ExpensePageSize = 10

// TokenPair is the credential set issued on login.
type TokenPair struct {
	Access  string
	Refresh string
}

// RegisterInput carries the fields accepted on registration.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ProfileUpdateInput carries the mutable profile fields. Nil means the
// field was absent from the request.
type ProfileUpdateInput struct {
	FirstName *string
	LastName  *string
}

// ExpenseInput carries client-supplied expense fields. Nil pointers mean
// the field was absent from the request body; the owner is never part of
// the input.
type ExpenseInput struct {
	Title           *string          `json:"title"`
	Description     *string          `json:"description"`
	Amount          *decimal.Decimal `json:"amount"`
	TransactionType *string          `json:"transaction_type"`
	Tax             *decimal.Decimal `json:"tax"`
	TaxType         *string          `json:"tax_type"`
}

// AuthService covers registration, the session lifecycle and profile access.
type AuthService interface {
	// Create a new account
	Register(ctx context.Context, input RegisterInput) error
	// Verify credentials, reactivate the account and issue a token pair
	Login(ctx context.Context, username, password string) (*model.User, *TokenPair, error)
	// Blacklist the refresh token and deactivate the account
	Logout(ctx context.Context, userID uint, refreshToken string) error
	// Load the caller's profile
	GetProfile(ctx context.Context, userID uint) (*model.User, error)
	// Change first/last name; identity fields stay server-controlled
	UpdateProfile(ctx context.Context, userID uint, input ProfileUpdateInput) (*model.User, error)
}

// TokenService issues, validates and revokes signed bearer tokens.
type TokenService interface {
	// Issue an access/refresh pair for the user
	IssuePair(userID uint) (*TokenPair, error)
	// Check an access token and return the user id claim
	ValidateAccess(tokenString string) (uint, error)
	// Exchange a valid refresh token for a new access token
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// Blacklist a refresh token for the remainder of its lifetime
	Revoke(ctx context.Context, refreshToken string) error
}

// TokenBlacklist is the set of revoked refresh token ids. Entries expire
// together with the token they belong to.
type TokenBlacklist interface {
	Add(ctx context.Context, tokenID string, ttl time.Duration) error
	Contains(ctx context.Context, tokenID string) (bool, error)
}

// ExpenseService is the owner-scoped expense CRUD surface.
type ExpenseService interface {
	// List the caller's expenses (all expenses for superusers), one page at a time
	List(ctx context.Context, caller *model.User, page int) ([]model.Expense, int64, error)
	// Record a new expense owned by the caller
	Create(ctx context.Context, caller *model.User, input ExpenseInput) (*model.Expense, error)
	// Fetch a single expense, enforcing ownership
	Get(ctx context.Context, caller *model.User, expenseID uint) (*model.Expense, error)
	// Update an expense; partial updates skip absent fields
	Update(ctx context.Context, caller *model.User, expenseID uint, input ExpenseInput, partial bool) (*model.Expense, error)
	// Remove an expense
	Delete(ctx context.Context, caller *model.User, expenseID uint) error
}
