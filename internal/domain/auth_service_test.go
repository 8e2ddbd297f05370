package domain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/cablesur/crm-backend/internal/auth"
	"github.com/cablesur/crm-backend/internal/domain"
	"github.com/cablesur/crm-backend/internal/repository"
	"github.com/cablesur/crm-backend/internal/testutil"
)

const userWorksheet = "usuarios"

func userHeader() []string {
	return []string{"username", "password", "nombre", "rol", "activo", "modo_oscuro", "email", "telefono", "sector_asignado", "ultimo_acceso", "permisos_especiales"}
}

func newAuthService(t *testing.T, rows [][]string) *domain.AuthService {
	t.Helper()
	store := testutil.NewFakeSheetStore()
	store.Seed(userWorksheet, append([][]string{userHeader()}, rows...))

	users := repository.NewUserRepository(store, userWorksheet)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	return domain.NewAuthService(users, jwtManager, zap.NewNop())
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	return hash
}

func TestLogin(t *testing.T) {
	hash := mustHash(t, "secreto123")
	svc := newAuthService(t, [][]string{
		{"Maria", hash, "María García", "admin", "TRUE", "FALSE", "maria@cablesur.ar", "", "Centro", "", ""},
	})

	// username match is case-insensitive
	result, err := svc.Login(context.Background(), "maria", "secreto123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Error("Login() returned empty token")
	}
	if result.User.Role != "admin" {
		t.Errorf("role = %q, want admin", result.User.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t, [][]string{
		{"maria", mustHash(t, "secreto123"), "María", "admin", "TRUE", "", "", "", "", "", ""},
	})

	if _, err := svc.Login(context.Background(), "maria", "incorrecta"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newAuthService(t, nil)

	if _, err := svc.Login(context.Background(), "nadie", "loquesea1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	svc := newAuthService(t, [][]string{
		{"carlos", mustHash(t, "secreto123"), "Carlos", "tecnico", "FALSO", "", "", "", "", "", ""},
	})

	if _, err := svc.Login(context.Background(), "carlos", "secreto123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}
