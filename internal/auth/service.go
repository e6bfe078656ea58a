// Package auth handles email/password authentication and JWT issuance.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"

	"github.com/flowbeat/service/internal/config"
	"github.com/flowbeat/service/internal/user"
)

// ErrInvalidCredentials is returned when the email or password is wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrInactiveUser is returned when the account has been deactivated.
var ErrInactiveUser = errors.New("user account is inactive")

// ErrEmailTaken is returned when the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// Service contains the business logic for authentication.
type Service struct {
	users *user.Repository
	cfg   *config.Config
}

// NewService creates a new auth Service.
func NewService(users *user.Repository, cfg *config.Config) *Service {
	return &Service{users: users, cfg: cfg}
}

// Register creates a new user account with a hashed password and issues a JWT.
func (s *Service) Register(ctx context.Context, email, password string, fullName *string) (string, *user.User, error) {
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, email, hash, fullName)
	if err != nil {
		if errors.Is(err, user.ErrAlreadyExists) {
			return "", nil, ErrEmailTaken
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueToken(u)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, u, nil
}

// Login verifies the credentials and issues a JWT for the user.
// A missing user and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("verify password: %w", err)
	}
	if !match {
		return "", nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		return "", nil, ErrInactiveUser
	}

	token, err := s.issueToken(u)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, u, nil
}

// issueToken creates a signed JWT for the given user.
func (s *Service) issueToken(u *user.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":         u.ID,
		"email":       u.Email,
		"isSuperuser": u.IsSuperuser,
		"iat":         time.Now().Unix(),
		"exp":         time.Now().Add(s.cfg.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
