package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/pkg/util/errorutil"
)

type brokenUsers struct {
	*repository.MemoryUserRepository
}

func (brokenUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, errors.New("connection refused")
}

func newAuthService(users repository.UserRepository) (*AuthService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", 10)
	cfg := config.AuthConfig{BcryptCost: 4, AdminEmails: []string{"boss@example.com"}}
	return NewAuthService(cfg, users, tokens), tokens
}

func TestRegister_IssuesVerifiableToken(t *testing.T) {
	svc, tokens := newAuthService(repository.NewMemoryUserRepository())

	session, err := svc.Register(context.Background(), "Una", " Una@Example.com ", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if session.User.Email != "una@example.com" {
		t.Fatalf("email not normalized: %q", session.User.Email)
	}
	if session.User.PasswordHash == "secret1" || session.User.PasswordHash == "" {
		t.Fatalf("password not hashed")
	}

	identity, err := tokens.Verify(session.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.SubjectID != session.User.ID || identity.Role != domain.RoleUser {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestRegister_AdminEmailGetsAdminRole(t *testing.T) {
	svc, tokens := newAuthService(repository.NewMemoryUserRepository())

	session, err := svc.Register(context.Background(), "Boss", "BOSS@example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	identity, err := tokens.Verify(session.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.Role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %q", identity.Role)
	}
}

func TestRegister_Rejects(t *testing.T) {
	svc, _ := newAuthService(repository.NewMemoryUserRepository())
	ctx := context.Background()

	cases := []struct{ name, email, password string }{
		{"", "a@example.com", "secret1"},
		{"A", "not-an-email", "secret1"},
		{"A", "a@example.com", "short"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, tc.name, tc.email, tc.password); !errorutil.HasCode(err, errorutil.CodeValidation) {
			t.Fatalf("%+v: expected validation error, got %v", tc, err)
		}
	}

	if _, err := svc.Register(ctx, "A", "a@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "B", "A@example.com", "secret2"); !errorutil.HasCode(err, errorutil.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(repository.NewMemoryUserRepository())
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Una", "una@example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	session, err := svc.Login(ctx, "UNA@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.User.ID != registered.User.ID || session.Token == "" {
		t.Fatalf("unexpected session %+v", session)
	}

	if _, err := svc.Login(ctx, "una@example.com", "wrong"); !errorutil.HasCode(err, errorutil.CodeUnauthorized) {
		t.Fatalf("wrong password: expected unauthorized, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "secret1"); !errorutil.HasCode(err, errorutil.CodeUnauthorized) {
		t.Fatalf("unknown email: expected unauthorized, got %v", err)
	}
}

func TestLogin_StoreFailure(t *testing.T) {
	svc, _ := newAuthService(brokenUsers{repository.NewMemoryUserRepository()})
	if _, err := svc.Login(context.Background(), "a@example.com", "secret1"); !errorutil.HasCode(err, errorutil.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestLogin_UnknownEmailStillComparesHash(t *testing.T) {
	svc, _ := newAuthService(repository.NewMemoryUserRepository())
	ctx := context.Background()
	if _, err := svc.Register(ctx, "Una", "una@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	var compared []string
	svc.compare = func(hashed, plain string) error {
		compared = append(compared, hashed)
		return auth.ComparePassword(hashed, plain)
	}

	if _, err := svc.Login(ctx, "nobody@example.com", "secret1"); !errorutil.HasCode(err, errorutil.CodeUnauthorized) {
		t.Fatalf("unknown email: expected unauthorized, got %v", err)
	}
	if _, err := svc.Login(ctx, "una@example.com", "wrong1"); !errorutil.HasCode(err, errorutil.CodeUnauthorized) {
		t.Fatalf("wrong password: expected unauthorized, got %v", err)
	}
	if len(compared) != 2 {
		t.Fatalf("expected a hash comparison for both failures, got %d", len(compared))
	}
	if compared[0] != svc.dummyHash || compared[0] == "" {
		t.Fatalf("unknown email should be checked against the placeholder hash")
	}
	if cost, err := bcrypt.Cost([]byte(svc.dummyHash)); err != nil || cost != 4 {
		t.Fatalf("placeholder hash should use the configured cost: %d, %v", cost, err)
	}
}
