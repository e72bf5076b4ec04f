package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/crtrstudio/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func newTestTokenService(t *testing.T, secret string, validity time.Duration) *TokenService {
	t.Helper()
	s, err := NewTokenService([]byte(secret), validity)
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}
	return s
}

func TestNewTokenService_MissingSecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService(nil, time.Hour)
	if !errors.Is(err, common.ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestNewTokenService_DefaultValidity(t *testing.T) {
	t.Parallel()

	s := newTestTokenService(t, "k", 0)
	if s.validityDuration != 7*24*time.Hour {
		t.Fatalf("expected 7 days default, got %v", s.validityDuration)
	}
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	s := newTestTokenService(t, "super-secret", time.Hour)

	tok, err := s.Issue("user-123", "a@b.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := s.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != "user-123" || claims.Email != "a@b.com" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("subject mismatch: %q", claims.Subject)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		t.Fatalf("iat/exp must be set: %+v", claims.RegisteredClaims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("lifetime mismatch: %v", got)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	s := newTestTokenService(t, "secret", -1*time.Second)

	tok, err := s.Issue("u1", "u1@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = s.Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_ExpiredWithValidSignature(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	past := time.Now().Add(-time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u1",
		Email:  "u1@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(past),
		},
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	s := newTestTokenService(t, string(secret), time.Hour)
	if _, err := s.Verify(tok); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_ClockSeam(t *testing.T) {
	t.Parallel()

	s := newTestTokenService(t, "secret", time.Hour)
	tok, err := s.Issue("u1", "u1@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := s.Verify(tok); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired after lifetime, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newTestTokenService(t, "right-secret", time.Hour).Issue("u2", "u2@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = newTestTokenService(t, "wrong-secret", time.Hour).Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("signature failure must not be reported as expiry")
	}
}

func TestVerify_NoExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u1"}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	if _, err := newTestTokenService(t, string(secret), time.Hour).Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for token without exp, got %v", err)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	if _, err := newTestTokenService(t, "secret", time.Hour).Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"not.a.jwt", "", "abc"} {
		if _, err := newTestTokenService(t, "k", time.Hour).Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", tok, err)
		}
	}
}

func TestExtractBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi", ok: true},
		{header: "bearer abc", want: "abc", ok: true},
		{header: "  Bearer   abc  ", want: "abc", ok: true},
		{header: "", ok: false},
		{header: "Bearer", ok: false},
		{header: "Bearer ", ok: false},
		{header: "Basic dXNlcjpwYXNz", ok: false},
		{header: "abc.def.ghi", ok: false},
		{header: "Bearer a b", ok: false},
	}

	for _, tt := range tests {
		got, ok := ExtractBearerToken(tt.header)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ExtractBearerToken(%q) = (%q, %v), want (%q, %v)", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}
