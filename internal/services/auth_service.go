package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"bilancio/internal/auth"
	"bilancio/internal/core"
	"bilancio/internal/log"
	"bilancio/internal/storage"
)

type AuthService struct {
	repo   *storage.SQLiteRepository
	tokens *auth.TokenIssuer
	logger *log.Logger
}

func NewAuthService(repo *storage.SQLiteRepository, tokens *auth.TokenIssuer, logger *log.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		logger: logger.WithComponent(log.ComponentAuth),
	}
}

// Register creates a user account. Emails are stored lowercased; a second
// registration with the same email is a Conflict.
func (s *AuthService) Register(ctx context.Context, email, password string) (core.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return core.User{}, core.Invalidf("invalid email")
	}
	if len(password) < 8 {
		return core.User{}, core.Invalidf("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return core.User{}, err
	}

	u := core.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return core.User{}, err
	}

	s.logger.InfoContext(ctx, "User registered", log.FieldUserID, u.ID)
	return u, nil
}

// Login verifies the credentials and returns a signed token. An unknown
// email and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, core.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return "", core.User{}, core.Unauthorizedf("invalid credentials")
	}
	if err != nil {
		return "", core.User{}, err
	}

	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return "", core.User{}, err
	}

	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return "", core.User{}, err
	}

	s.logger.InfoContext(ctx, "User logged in", log.FieldUserID, u.ID)
	return token, u, nil
}
