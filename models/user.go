package models

import (
	"errors"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole validates a role string at the boundary. Unknown values are
// rejected rather than cast through.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(s) {
	case string(RoleAdmin):
		return RoleAdmin, nil
	case string(RoleCustomer):
		return RoleCustomer, nil
	default:
		return "", errors.New("invalid role: " + s)
	}
}

type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"type:VARCHAR(20);default:'CUSTOMER'" json:"role"`
	Cart      Cart      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders    []Order   `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
