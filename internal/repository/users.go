package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/cablesur/crm-backend/internal/domain"
)

// userColumns is the usuarios worksheet layout.
var userColumns = []string{
	"username", "password", "nombre", "rol", "activo", "modo_oscuro",
	"email", "telefono", "sector_asignado", "ultimo_acceso", "permisos_especiales",
}

// UserRepository implements domain.UserRepository over the usuarios
// worksheet.
type UserRepository struct {
	store     RowStore
	worksheet string
}

func NewUserRepository(store RowStore, worksheet string) *UserRepository {
	return &UserRepository{store: store, worksheet: worksheet}
}

// GetByUsername finds one account by username, case-insensitively.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	data, err := r.store.Rows(ctx, r.worksheet)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	if len(data) <= 1 {
		return nil, domain.ErrUserNotFound
	}

	username = strings.ToLower(strings.TrimSpace(username))
	for _, raw := range data[1:] {
		row := padRow(raw, len(userColumns))
		if strings.ToLower(strings.TrimSpace(row[0])) != username {
			continue
		}
		return &domain.User{
			Username:     strings.TrimSpace(row[0]),
			PasswordHash: strings.TrimSpace(row[1]),
			Name:         row[2],
			Role:         strings.TrimSpace(row[3]),
			Active:       parseBool(row[4]),
			Email:        strings.TrimSpace(row[6]),
			Sector:       strings.TrimSpace(row[8]),
		}, nil
	}
	return nil, domain.ErrUserNotFound
}
