package session

import (
	"context"
	"time"
)

type contextKey string

const tokenKey = contextKey("id_token")

// WithToken returns a copy of ctx carrying the raw ID token of the caller.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext returns the raw ID token stored by WithToken.
func TokenFromContext(ctx context.Context) string {
	if val, ok := ctx.Value(tokenKey).(string); ok {
		return val
	}
	return ""
}

// ContextProvider decodes the token placed on the context by WithToken.
type ContextProvider struct {
	Now func() time.Time
}

func (p ContextProvider) Session(ctx context.Context) (Session, error) {
	return Decode(TokenFromContext(ctx), now(p.Now))
}

// StaticProvider always decodes the same token.
type StaticProvider struct {
	Token string
	Now   func() time.Time
}

func (p StaticProvider) Session(_ context.Context) (Session, error) {
	return Decode(p.Token, now(p.Now))
}

func now(f func() time.Time) time.Time {
	if f != nil {
		return f()
	}
	return time.Now()
}
