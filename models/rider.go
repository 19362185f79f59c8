package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RiderStatus string

const (
	RiderStatusActive   RiderStatus = "active"
	RiderStatusInactive RiderStatus = "inactive"
)

type Rider struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string          `gorm:"type:varchar(100);not null" json:"name"`
	Phone              string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
	CNIC               *string         `gorm:"column:cnic;type:varchar(20);uniqueIndex" json:"cnic"`
	Status             RiderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalDeliveries    int             `gorm:"not null;default:0" json:"total_deliveries"`
	TotalCashCollected decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_cash_collected"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (r *Rider) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = RiderStatusActive
	}
	return nil
}
