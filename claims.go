package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents structured JWT claims with scope-based permission checking
type AuthClaims interface {
	Subject() string
	TokenID() string
	Permissions() []string
	HasScope(permission string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	// Scope is a space-separated set of permission strings derived from the
	// holder's role at issuance time.
	Scope string `json:"scope,omitempty"`
	// Metadata is the extension payload decorators may enrich before signing.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim (the user's email)
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// TokenID returns the jti claim, the revocation key for this token instance
func (c *JWTClaims) TokenID() string {
	return c.RegisteredClaims.ID
}

// Permissions splits the scope claim into individual permission strings
func (c *JWTClaims) Permissions() []string {
	return strings.Fields(c.Scope)
}

// HasScope checks if the token grants a specific permission
func (c *JWTClaims) HasScope(permission string) bool {
	for _, p := range c.Permissions() {
		if p == permission {
			return true
		}
	}
	return false
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
