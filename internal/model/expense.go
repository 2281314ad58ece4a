package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"

	TaxFlat       = "flat"
	TaxPercentage = "percentage"
)

// Expense is a single tracked transaction owned by a user.
type Expense struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"index;not null" json:"user_id"`
	User            User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title           string          `gorm:"type:varchar(200);not null" json:"title"`
	Description     string          `gorm:"type:text" json:"description"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	TransactionType string          `gorm:"type:varchar(10);default:'debit'" json:"transaction_type"`
	Tax             decimal.Decimal `gorm:"type:decimal(5,2)" json:"tax"`
	TaxType         string          `gorm:"type:varchar(10);default:'flat'" json:"tax_type"`
	Total           decimal.Decimal `gorm:"-" json:"total"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (Expense) TableName() string {
	return "expenses"
}

// ComputeTotal derives the tax-adjusted total. An unrecognized tax type
// leaves the amount untouched.
func (e *Expense) ComputeTotal() decimal.Decimal {
	switch e.TaxType {
	case TaxFlat:
		return e.Amount.Add(e.Tax).Round(2)
	case TaxPercentage:
		return e.Amount.Add(e.Amount.Mul(e.Tax).Div(decimal.NewFromInt(100))).Round(2)
	default:
		return e.Amount
	}
}

// AfterFind keeps the derived total in sync on every read path.
func (e *Expense) AfterFind(*gorm.DB) error {
	e.Total = e.ComputeTotal()
	return nil
}
