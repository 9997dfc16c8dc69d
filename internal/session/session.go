// Package session resolves the authenticated vendor session issued by the
// hosted identity provider. Nothing is cached: every call re-resolves the
// session because the provider may rotate tokens at any time.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrAuthUnavailable is returned when no valid session exists.
var ErrAuthUnavailable = errors.New("auth unavailable")

// DefaultVendorClaim is the custom claim carrying the vendor id.
const DefaultVendorClaim = "custom:vendor_id"

// Session is the current authenticated session: the raw ID token and its
// decoded claims.
type Session struct {
	IDToken string
	Claims  jwt.MapClaims
}

// Provider resolves the current session.
type Provider interface {
	Session(ctx context.Context) (Session, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (Session, error)

func (f ProviderFunc) Session(ctx context.Context) (Session, error) {
	return f(ctx)
}

// Decode parses an ID token without verifying its signature and rejects it
// when it is expired at now. Signatures are checked by the identity provider
// and the upstream API.
func Decode(token string, now time.Time) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, fmt.Errorf("%w: empty token", ErrAuthUnavailable)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrAuthUnavailable, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrAuthUnavailable, err)
	}
	if exp != nil && !now.Before(exp.Time) {
		return Session{}, fmt.Errorf("%w: token expired at %s", ErrAuthUnavailable, exp.Time.Format(time.RFC3339))
	}

	return Session{IDToken: token, Claims: claims}, nil
}

// VendorIdentity returns the vendor claim when present, otherwise the subject.
func (s Session) VendorIdentity(vendorClaim string) (string, error) {
	if vendorClaim != "" {
		if v, ok := s.Claims[vendorClaim].(string); ok && v != "" {
			return v, nil
		}
	}
	sub, err := s.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: session has no subject", ErrAuthUnavailable)
	}
	return sub, nil
}

// Accessor derives the bearer token and the vendor identity from a Provider.
type Accessor struct {
	provider    Provider
	vendorClaim string
}

func NewAccessor(p Provider, vendorClaim string) *Accessor {
	if vendorClaim == "" {
		vendorClaim = DefaultVendorClaim
	}
	return &Accessor{provider: p, vendorClaim: vendorClaim}
}

// Token returns the ID token of the current session.
func (a *Accessor) Token(ctx context.Context) (string, error) {
	s, err := a.provider.Session(ctx)
	if err != nil {
		return "", err
	}
	return s.IDToken, nil
}

// VendorIdentity returns the current vendor identity or ErrAuthUnavailable.
func (a *Accessor) VendorIdentity(ctx context.Context) (string, error) {
	s, err := a.provider.Session(ctx)
	if err != nil {
		if errors.Is(err, ErrAuthUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrAuthUnavailable, err)
	}
	return s.VendorIdentity(a.vendorClaim)
}
