package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultExpenseUnit   = "PCS"
	UncategorizedExpense = "Uncategorized"
)

type Expense struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	Description   string              `gorm:"type:text;not null" json:"description"`
	Amount        decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"amount"`
	Category      *string             `gorm:"type:varchar(100);index" json:"category"`
	PaymentMethod PaymentMethod       `gorm:"type:varchar(20);not null" json:"payment_method"`
	Quantity      decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"quantity"`
	Unit          string              `gorm:"type:varchar(20);not null" json:"unit"`
	UnitPrice     decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"unit_price"`
	ExpenseDate   time.Time           `gorm:"not null;index" json:"expense_date"`
	CreatedBy     *uuid.UUID          `gorm:"type:uuid" json:"created_by"`
	CreatedAt     time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.PaymentMethod == "" {
		e.PaymentMethod = PaymentMethodCash
	}
	if e.Quantity.IsZero() {
		e.Quantity = decimal.NewFromInt(1)
	}
	if e.Unit == "" {
		e.Unit = DefaultExpenseUnit
	}
	if e.ExpenseDate.IsZero() {
		e.ExpenseDate = time.Now()
	}
	e.ExpenseDate = e.ExpenseDate.UTC()
	return nil
}

// CategoryName falls back to Uncategorized for expenses filed without one.
func (e Expense) CategoryName() string {
	if e.Category == nil || *e.Category == "" {
		return UncategorizedExpense
	}
	return *e.Category
}
