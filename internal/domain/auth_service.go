package domain

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cablesur/crm-backend/internal/auth"
)

// AuthService verifies operator credentials against the usuarios
// worksheet and issues access tokens.
type AuthService struct {
	users  UserRepository
	jwt    *auth.JWTManager
	logger *zap.Logger
}

func NewAuthService(users UserRepository, jwt *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, logger: logger}
}

// LoginResult carries the issued token and the authenticated account.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Login authenticates an operator. Unknown usernames, inactive accounts
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		s.logger.Warn("login attempt on inactive account", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		s.logger.Warn("failed login attempt", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateAccessToken(user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("operator logged in", zap.String("username", user.Username), zap.String("role", user.Role))
	return &LoginResult{Token: token, User: user}, nil
}
