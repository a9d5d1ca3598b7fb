package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campus-sentry/campus-sentry/internal/domain"
	"github.com/campus-sentry/campus-sentry/internal/identity/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	users         map[string]*domain.User
	createUserErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockRepository) CreateUser(_ context.Context, user *domain.User) error {
	if m.createUserErr != nil {
		return m.createUserErr
	}
	if _, ok := m.users[user.Email]; ok {
		return ErrEmailExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockRepository) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func newTestService(repo Repository) *Service {
	codec := jwt.NewCodec(jwt.Config{SecretKey: "test-secret", TokenDuration: time.Hour})
	return NewService(repo, codec)
}

func TestSignup_CreatesUser(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	user, err := service.Signup(context.Background(), SignupInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
		Role:     domain.RoleStudent,
	})

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, domain.RoleStudent, user.Role)

	// The stored record carries a bcrypt hash, never the plaintext.
	stored := repo.users["test@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestSignup_InvalidRole(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	user, err := service.Signup(context.Background(), SignupInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
		Role:     "admin",
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.Empty(t, repo.users)
}

func TestSignup_EmailAlreadyExists(t *testing.T) {
	repo := newMockRepository()
	repo.users["existing@example.com"] = &domain.User{Email: "existing@example.com"}
	service := newTestService(repo)

	user, err := service.Signup(context.Background(), SignupInput{
		Name:     "Test User",
		Email:    "existing@example.com",
		Password: "password123",
		Role:     domain.RoleStudent,
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestSignup_DuplicateFromStore(t *testing.T) {
	// The store's uniqueness constraint wins the race between two concurrent
	// signups; its error surfaces as ErrEmailExists.
	repo := newMockRepository()
	repo.createUserErr = ErrEmailExists
	service := newTestService(repo)

	user, err := service.Signup(context.Background(), SignupInput{
		Name:     "Test User",
		Email:    "race@example.com",
		Password: "password123",
		Role:     domain.RoleAmbulance,
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestSignup_CreateUserFails(t *testing.T) {
	repo := newMockRepository()
	repo.createUserErr = errors.New("database error")
	service := newTestService(repo)

	user, err := service.Signup(context.Background(), SignupInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
		Role:     domain.RoleStudent,
	})

	assert.Nil(t, user)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailExists)
}

func TestSignin_AfterSignup(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	_, err := service.Signup(context.Background(), SignupInput{
		Name:     "Guard",
		Email:    "guard@example.com",
		Password: "password123",
		Role:     domain.RoleSecurityGuard,
	})
	require.NoError(t, err)

	user, token, err := service.Signin(context.Background(), "guard@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSecurityGuard, user.Role)
	require.NotEmpty(t, token)

	// The issued token decodes to the role passed to signup.
	codec := jwt.NewCodec(jwt.Config{SecretKey: "test-secret", TokenDuration: time.Hour})
	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSecurityGuard, claims.Role)
	assert.Equal(t, user.ID, claims.ID)
}

func TestSignin_WrongPasswordAndUnknownEmailAreIndistinguishable(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	_, err := service.Signup(context.Background(), SignupInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
		Role:     domain.RoleStudent,
	})
	require.NoError(t, err)

	_, _, wrongPassword := service.Signin(context.Background(), "test@example.com", "nope")
	_, _, unknownEmail := service.Signin(context.Background(), "nobody@example.com", "password123")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestGetUserByID(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	created, err := service.Signup(context.Background(), SignupInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
		Role:     domain.RoleAmbulance,
	})
	require.NoError(t, err)

	user, err := service.GetUserByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, user.Email)

	_, err = service.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
