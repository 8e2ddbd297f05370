package domain

import (
	"context"
	"errors"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// CRM roles, as stored in the usuarios worksheet.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleTechnician = "tecnico"
	RoleOffice     = "oficina"
	RoleReadOnly   = "consulta"
)

// User is an operator account. Passwords are stored as bcrypt hashes in
// the worksheet.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Active       bool   `json:"active"`
	Email        string `json:"email,omitempty"`
	Sector       string `json:"sector,omitempty"`
}

// UserRepository looks up operator accounts.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
}
