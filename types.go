package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Authenticator holds methods to deal with the token lifecycle
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	Introspect(ctx context.Context, token string) IntrospectResult
	Logout(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string) (string, error)
}

// IntrospectResult is the query-shaped outcome of token introspection.
// Expected validity failures never surface as control-flow errors; they
// come back as Active=false with a descriptive Error instead.
type IntrospectResult struct {
	Active bool   `json:"active"`
	Error  string `json:"error,omitempty"`
}

// Identity holds the attributes of an identity
type Identity interface {
	ID() string
	Email() string
	Role() string
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetTokenExpiration() int
}

// IdentityProvider ensures we have a store to retrieve auth identities
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, email, password string) (Identity, error)
	FindIdentityByEmail(ctx context.Context, email string) (Identity, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// RevocationStore tracks revoked token identifiers (jti values). Entries are
// append-only: inserted on logout/refresh, removed only by expiry sweeps.
type RevocationStore interface {
	// Exists reports whether the jti has been revoked.
	Exists(ctx context.Context, jti string) (bool, error)
	// Insert records a revoked jti. Inserting an already-present jti must
	// succeed as a no-op so double logout stays idempotent.
	Insert(ctx context.Context, jti string, expiresAt time.Time) error
	// DeleteExpiredBefore drops entries whose token would have expired
	// anyway. Stale entries only cost storage, never correctness.
	DeleteExpiredBefore(ctx context.Context, now time.Time) (int64, error)
}

type config struct {
	signingKey string
	issuer     string
	expiration int
}

func (c config) GetSigningKey() string   { return c.signingKey }
func (c config) GetIssuer() string       { return c.issuer }
func (c config) GetTokenExpiration() int { return c.expiration }

// NewConfig builds a Config from explicit values. Expiration is in hours;
// zero or negative falls back to the 24h default.
func NewConfig(signingKey, issuer string, expirationHours int) Config {
	if issuer == "" {
		issuer = DefaultIssuer
	}
	if expirationHours <= 0 {
		expirationHours = DefaultTokenExpirationHours
	}
	return config{
		signingKey: signingKey,
		issuer:     issuer,
		expiration: expirationHours,
	}
}

// NewDefaultLogger returns the stdout fallback logger used when no logger
// has been configured.
func NewDefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
