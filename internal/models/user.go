package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin       = "admin"
	RoleUnderwriter = "underwriter"
	RoleBroker      = "broker"
	RoleSales       = "sales"
)

type User struct {
	gorm.Model
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Password     string     `gorm:"not null" json:"-"`
	Name         string     `gorm:"not null" json:"name"`
	Role         string     `gorm:"default:'sales'" json:"role"`
	Status       string     `gorm:"default:'active'" json:"status"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	TokenVersion int        `gorm:"default:1" json:"-"`
}

func (u *User) IsActive() bool {
	return u.Status == "active"
}
