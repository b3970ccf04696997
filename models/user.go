package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role identifiers mirror the roles table.
const (
	RoleResearcher = 1
	RoleReviewer   = 2
	RoleAdmin      = 3
)

type User struct {
	UserID    string     `gorm:"primaryKey;column:user_id;size:36" json:"user_id"`
	FullName  string     `gorm:"column:full_name" json:"full_name"`
	Email     string     `gorm:"column:email;unique;size:191" json:"email"`
	Password  string     `gorm:"column:password" json:"-"`
	RoleID    int        `gorm:"column:role_id" json:"role_id"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
	LastLogin *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

// IsPrivilegedRole reports whether roleID may review submissions.
func IsPrivilegedRole(roleID int) bool {
	return roleID == RoleReviewer || roleID == RoleAdmin
}

// BeforeSave stores e-mail addresses in their lookup form.
func (u *User) BeforeSave(*gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}
