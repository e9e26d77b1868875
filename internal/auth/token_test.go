package auth

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/support-desk/internal/domain"
)

func TestTokenManager_IssueVerify(t *testing.T) {
	tm := NewTokenManager("secret", 30)

	token, exp, err := tm.Issue("user-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(exp) <= 29*time.Minute {
		t.Fatalf("unexpected expiry %s", exp)
	}

	identity, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.SubjectID != "user-1" {
		t.Fatalf("expected subject user-1, got %q", identity.SubjectID)
	}
	if identity.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", identity.Role)
	}
	if identity.IssuedAt.IsZero() || !identity.ExpiresAt.Equal(exp.Truncate(time.Second)) {
		t.Fatalf("unexpected timestamps: %+v (exp %s)", identity, exp)
	}
}

func TestTokenManager_IssueRejectsUnknownRole(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	if _, _, err := tm.Issue("user-1", domain.Role("root")); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestTokenManager_VerifyExpired(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := tm.Issue("user-1", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tm.now = time.Now
	if _, err := tm.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenManager_VerifyRejects(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	cases := map[string]string{
		"empty":     "",
		"garbage":   "not-a-token",
		"wrong key": sign(jwt.SigningMethodHS256, []byte("other"), &Claims{Role: "user", RegisteredClaims: jwt.RegisteredClaims{Subject: "u", ExpiresAt: future}}),
		"hs512":     sign(jwt.SigningMethodHS512, []byte("secret"), &Claims{Role: "user", RegisteredClaims: jwt.RegisteredClaims{Subject: "u", ExpiresAt: future}}),
		"none alg":  sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, &Claims{Role: "user", RegisteredClaims: jwt.RegisteredClaims{Subject: "u", ExpiresAt: future}}),
		"no expiry": sign(jwt.SigningMethodHS256, []byte("secret"), &Claims{Role: "user", RegisteredClaims: jwt.RegisteredClaims{Subject: "u"}}),
		"no sub":    sign(jwt.SigningMethodHS256, []byte("secret"), &Claims{Role: "user", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future}}),
		"bad role":  sign(jwt.SigningMethodHS256, []byte("secret"), &Claims{Role: "superuser", RegisteredClaims: jwt.RegisteredClaims{Subject: "u", ExpiresAt: future}}),
		"no role":   sign(jwt.SigningMethodHS256, []byte("secret"), &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u", ExpiresAt: future}}),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := tm.Verify(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestPassword_HashCompare(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := ComparePassword(hash, "hunter22"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := ComparePassword(hash, "hunter23"); err == nil {
		t.Fatalf("expected mismatch")
	}
}
