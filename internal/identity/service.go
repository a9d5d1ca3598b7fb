// Package identity provides authentication: credential handling, session
// token issuance, and request gating by role.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/campus-sentry/campus-sentry/internal/domain"
	"github.com/campus-sentry/campus-sentry/internal/identity/jwt"
	"github.com/campus-sentry/campus-sentry/internal/pkg/metrics"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service provides signup and signin against the user record store.
type Service struct {
	repo  Repository
	codec *jwt.Codec
}

// NewService creates a new credential service.
func NewService(repo Repository, codec *jwt.Codec) *Service {
	return &Service{
		repo:  repo,
		codec: codec,
	}
}

// SignupInput contains signup parameters.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// Signup validates input, hashes the password, and persists a new user.
// Hashing happens here, before persist, so the contract is visible at the
// call site. Returns only the public fields of the created record.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*domain.PublicUser, error) {
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	if _, err := s.repo.GetUserByEmail(ctx, input.Email); err == nil {
		metrics.RecordSignup("duplicate")
		return nil, ErrEmailExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		// The store's uniqueness constraint is the authority for concurrent
		// signups with the same email.
		if errors.Is(err, ErrEmailExists) {
			metrics.RecordSignup("duplicate")
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.RecordSignup("success")
	public := user.Public()
	return &public, nil
}

// Signin verifies credentials and issues a session token carrying the
// user's id and role. Unknown email and wrong password are deliberately
// indistinguishable to avoid user enumeration.
func (s *Service) Signin(ctx context.Context, email, password string) (*domain.PublicUser, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			metrics.RecordSignin("invalid_credentials")
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.RecordSignin("invalid_credentials")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	metrics.RecordSignin("success")
	public := user.Public()
	return &public, token, nil
}

// GetUserByID returns the public fields of a user.
func (s *Service) GetUserByID(ctx context.Context, id string) (*domain.PublicUser, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	public := user.Public()
	return &public, nil
}
