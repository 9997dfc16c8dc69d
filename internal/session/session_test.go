package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("error signing token: %v", err)
	}
	return token
}

func TestVendorIdentityPrefersCustomClaim(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub":              "user-123",
		"custom:vendor_id": "vendor-9",
		"exp":              time.Now().Add(time.Hour).Unix(),
	})

	a := NewAccessor(StaticProvider{Token: token}, "")
	id, err := a.VendorIdentity(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "vendor-9" {
		t.Errorf("expected vendor-9, got %q", id)
	}
}

func TestVendorIdentityFallsBackToSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	a := NewAccessor(StaticProvider{Token: token}, "")
	id, err := a.VendorIdentity(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "user-123" {
		t.Errorf("expected user-123, got %q", id)
	}
}

func TestVendorIdentityUnavailable(t *testing.T) {
	expired := signedToken(t, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	noSubject := signedToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not-a-jwt"},
		{"expired token", expired},
		{"no subject", noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAccessor(StaticProvider{Token: tt.token}, "")
			_, err := a.VendorIdentity(context.Background())
			if !errors.Is(err, ErrAuthUnavailable) {
				t.Errorf("expected ErrAuthUnavailable, got %v", err)
			}
		})
	}
}

func TestAccessorResolvesOnEveryCall(t *testing.T) {
	calls := 0
	ids := []string{"vendor-a", "vendor-b"}
	p := ProviderFunc(func(ctx context.Context) (Session, error) {
		s := Session{IDToken: "tok", Claims: jwt.MapClaims{"sub": ids[calls]}}
		calls++
		return s, nil
	})

	a := NewAccessor(p, "")
	first, _ := a.VendorIdentity(context.Background())
	second, _ := a.VendorIdentity(context.Background())

	if first != "vendor-a" || second != "vendor-b" {
		t.Errorf("expected rotated identities, got %q then %q", first, second)
	}
	if calls != 2 {
		t.Errorf("expected provider to be called twice, got %d", calls)
	}
}

func TestProviderErrorsBecomeAuthUnavailable(t *testing.T) {
	p := ProviderFunc(func(ctx context.Context) (Session, error) {
		return Session{}, errors.New("identity provider offline")
	})

	_, err := NewAccessor(p, "").VendorIdentity(context.Background())
	if !errors.Is(err, ErrAuthUnavailable) {
		t.Errorf("expected ErrAuthUnavailable, got %v", err)
	}
}

func TestContextProvider(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	token := signedToken(t, jwt.MapClaims{
		"sub": "user-1",
		"exp": now.Add(time.Minute).Unix(),
	})

	p := ContextProvider{Now: func() time.Time { return now }}

	if _, err := p.Session(context.Background()); !errors.Is(err, ErrAuthUnavailable) {
		t.Errorf("expected ErrAuthUnavailable without token, got %v", err)
	}

	ctx := WithToken(context.Background(), token)
	s, err := p.Session(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.IDToken != token {
		t.Errorf("expected token to round trip")
	}

	later := ContextProvider{Now: func() time.Time { return now.Add(2 * time.Minute) }}
	if _, err := later.Session(ctx); !errors.Is(err, ErrAuthUnavailable) {
		t.Errorf("expected expired session to be rejected, got %v", err)
	}
}
