package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Keys that every install needs and that cannot be removed.
const (
	BusinessKeyName    = "business_name"
	BusinessKeyAddress = "business_address"
	BusinessKeyPhone   = "business_phone"
)

var CriticalBusinessKeys = []string{BusinessKeyName, BusinessKeyAddress, BusinessKeyPhone}

type BusinessInfo struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Key         string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"key"`
	Value       string    `gorm:"type:text;not null" json:"value"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (BusinessInfo) TableName() string {
	return "business_info"
}

func (b *BusinessInfo) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func IsCriticalBusinessKey(key string) bool {
	for _, k := range CriticalBusinessKeys {
		if k == key {
			return true
		}
	}
	return false
}
