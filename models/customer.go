package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer totals are derived from non-cancelled delivery orders and are
// recomputed, never incremented.
type Customer struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string            `gorm:"type:varchar(100);not null" json:"name"`
	Phone       string            `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
	BackupPhone *string           `gorm:"type:varchar(20)" json:"backup_phone"`
	Address     *string           `gorm:"type:text" json:"address"`
	Notes       *string           `gorm:"type:text" json:"notes"`
	TotalOrders int               `gorm:"not null;default:0" json:"total_orders"`
	TotalSpent  decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0" json:"total_spent"`
	Addresses   []CustomerAddress `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type CustomerAddress struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Address    string    `gorm:"type:text;not null" json:"address"`
	IsDefault  bool      `gorm:"not null" json:"is_default"`
	Notes      *string   `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (a *CustomerAddress) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
