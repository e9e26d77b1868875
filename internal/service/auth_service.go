package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/pkg/util/errorutil"
)

const minPasswordLength = 6

// Session is the result of a successful registration or login.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService issues credentials for registered users.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	isAdmin    func(email string) bool
	// compared against when the email is unknown so both login failures cost one bcrypt run
	dummyHash string
	compare   func(hashed, plain string) error
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	dummyHash, _ := auth.HashPassword(uuid.NewString(), cfg.BcryptCost)
	return &AuthService{
		users:      users,
		tokenMgr:   tokens,
		bcryptCost: cfg.BcryptCost,
		isAdmin:    cfg.IsAdminEmail,
		dummyHash:  dummyHash,
		compare:    auth.ComparePassword,
	}
}

// Register creates a new account and signs a token for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	details := map[string]any{}
	if name == "" {
		details["name"] = "required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		details["email"] = "must be a valid email"
	}
	if len(password) < minPasswordLength {
		details["password"] = "must be at least 6 characters"
	}
	if len(details) > 0 {
		return nil, errorutil.NewValidationError("invalid registration", details)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}

	role := domain.RoleUser
	if s.isAdmin != nil && s.isAdmin(email) {
		role = domain.RoleAdmin
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, errorutil.NewConflict("email already registered", nil)
		}
		return nil, errorutil.NewInternalError(err)
	}
	return s.session(user)
}

// Login verifies credentials. Unknown emails and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = s.compare(s.dummyHash, password)
			return nil, errorutil.NewUnauthorized("invalid credentials")
		}
		return nil, errorutil.NewInternalError(err)
	}
	if err := s.compare(user.PasswordHash, password); err != nil {
		return nil, errorutil.NewUnauthorized("invalid credentials")
	}
	return s.session(user)
}

func (s *AuthService) session(user *domain.User) (*Session, error) {
	token, exp, err := s.tokenMgr.Issue(user.ID, user.Role)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
