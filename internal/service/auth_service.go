package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
	"taskboard/internal/store"
	"taskboard/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost  = 12
	passwordMin = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService handles registration and login. Passwords are stored as
// bcrypt hashes; sessions are stateless signed tokens.
type AuthService struct {
	users store.UserStore
}

func NewAuthService(users store.UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates a new account. Validation failures come back as
// field-level errors, a duplicate email as domain.ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	errs := validation.FieldErrors{}
	if !emailPattern.MatchString(email) {
		errs["email"] = []string{"Please provide a valid email address"}
	}
	if len(password) < passwordMin {
		errs["password"] = []string{"Password must be at least 6 characters long"}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		logger.Error("user creation failed", "error", err)
		return nil, domain.ErrStorage
	}
	return u, nil
}

// Login verifies credentials and returns a signed token. The same error is
// returned for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		logger.Error("user lookup failed", "error", err)
		return "", nil, domain.ErrStorage
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := GenerateJWT(u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// CurrentUser resolves the user behind a verified token subject.
func (s *AuthService) CurrentUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindUserByID(ctx, id)
}
