// Package service provides business logic for authentication, authorization,
// and the classification request pipeline, delegating persistence to
// repository interfaces.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdeyev/burnscan/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// GetByUsername fetches a user by username; sql.ErrNoRows when absent.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetByID fetches a user by id; sql.ErrNoRows when absent.
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// Create inserts a new user and returns its id;
	// models.ErrUsernameTaken on duplicates.
	Create(ctx context.Context, username, passwordHash string) (int64, error)
}

// TokenCodec issues and verifies bearer tokens.
type TokenCodec interface {
	Issue(subject string) (string, error)
	Verify(token string) (string, error)
}

// AuthService implements registration, login, and per-request authorization.
type AuthService struct {
	repo  UserRepository
	codec TokenCodec
}

// NewAuthService constructs an AuthService using the provided repository and
// token codec.
func NewAuthService(repo UserRepository, codec TokenCodec) *AuthService {
	return &AuthService{repo: repo, codec: codec}
}

// Register creates a new user with a bcrypt-hashed password and returns the
// new user id. An existing username fails with models.ErrUsernameTaken;
// empty input fails with models.ErrInvalidCredentials.
func (s *AuthService) Register(ctx context.Context, username, password string) (int64, error) {
	if username == "" || password == "" {
		return 0, models.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, username, string(hash))
}

// Login verifies the given credentials and issues a bearer token. An unknown
// username and a wrong password both fail with models.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, int64, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, models.ErrInvalidCredentials
		}
		return "", 0, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", 0, models.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.Username)
	if err != nil {
		return "", 0, fmt.Errorf("issue token: %w", err)
	}
	return token, user.ID, nil
}

// ResolveCaller verifies the token and re-resolves its subject to a live
// user, returning the caller's user id. A subject that no longer resolves to
// a user fails with models.ErrInvalidToken; users are never deleted in
// practice, but the check still runs.
func (s *AuthService) ResolveCaller(ctx context.Context, token string) (int64, error) {
	subject, err := s.codec.Verify(token)
	if err != nil {
		return 0, err
	}

	user, err := s.repo.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, models.ErrInvalidToken
		}
		return 0, err
	}
	return user.ID, nil
}

// AuthorizeOwnerAccess resolves the caller from the token and fails with
// models.ErrUnauthorized unless the caller is the claimed owner. This is the
// owner-isolation check: no caller may read another caller's records.
func (s *AuthService) AuthorizeOwnerAccess(ctx context.Context, token string, ownerID int64) error {
	callerID, err := s.ResolveCaller(ctx, token)
	if err != nil {
		return err
	}
	if callerID != ownerID {
		return models.ErrUnauthorized
	}
	return nil
}
