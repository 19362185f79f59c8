package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Password  string         `gorm:"not null" json:"-"`
	FullName  string         `gorm:"type:varchar(100)" json:"full_name"`
	Email     *string        `gorm:"type:varchar(150)" json:"email"`
	Phone     *string        `gorm:"type:varchar(20)" json:"phone"`
	Role      UserRole       `gorm:"type:varchar(20);not null" json:"role"`
	Status    UserStatus     `gorm:"type:varchar(20);not null" json:"status"`
	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleManager
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}

// DisplayName is what gets stamped on orders and edit history.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleManager
}
