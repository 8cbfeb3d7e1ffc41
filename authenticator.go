package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// Auther orchestrates the token lifecycle: Issued -> Active -> {Expired |
// Revoked}. There is no transition back to Active.
type Auther struct {
	provider        IdentityProvider
	revocations     RevocationStore
	signingKey      []byte
	tokenExpiration int
	issuer          string
	logger          Logger
	tokenService    TokenService
	activitySink    ActivitySink
	claimsDecorator ClaimsDecorator
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, revocations RevocationStore, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		defLogger{},
	)

	return &Auther{
		provider:        provider,
		revocations:     revocations,
		signingKey:      []byte(opts.GetSigningKey()),
		tokenExpiration: opts.GetTokenExpiration(),
		issuer:          opts.GetIssuer(),
		logger:          defLogger{},
		tokenService:    tokenService,
		activitySink:    noopActivitySink{},
		claimsDecorator: noopClaimsDecorator{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	// Update the TokenService logger as well
	s.tokenService = NewTokenService(
		s.signingKey,
		s.tokenExpiration,
		s.issuer,
		logger,
	)
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithClaimsDecorator configures a ClaimsDecorator for enriching JWTs.
func (s *Auther) WithClaimsDecorator(decorator ClaimsDecorator) *Auther {
	s.claimsDecorator = normalizeClaimsDecorator(decorator)
	return s
}

// WithTokenService overrides the token codec used by this Authenticator.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies credentials and issues a fresh token with the role-derived
// scope. Issuance is stateless: no record is written.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login verify identity error", "email", email, "error", err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, ActorRef{Type: "unknown"}, "", map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return "", err
	}

	token, err := s.generateJWT(ctx, identity)
	if err != nil {
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, s.actorFromIdentity(identity), identity.ID(), map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return "", err
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, s.actorFromIdentity(identity), identity.ID(), map[string]any{
		"email": email,
	})

	return token, nil
}

// Introspect reports whether a token is active. It is a query, not a
// command: expected validity failures come back as Active=false with a
// descriptive error instead of propagating.
func (s *Auther) Introspect(ctx context.Context, tokenString string) IntrospectResult {
	if strings.TrimSpace(tokenString) == "" {
		return IntrospectResult{Active: false, Error: ErrTokenMissing.Message}
	}

	claims, err := s.tokenService.Parse(tokenString)
	if err != nil {
		return IntrospectResult{Active: false, Error: ErrTokenMalformed.Message}
	}

	// Expiry is cheap, check it before the HMAC as a fast reject.
	if claims.Expires().Before(time.Now()) {
		return IntrospectResult{Active: false, Error: ErrTokenExpired.Message}
	}

	// The signature must verify before any claim, including the jti used
	// for the revocation lookup, can be trusted.
	if err := s.tokenService.VerifySignature(tokenString); err != nil {
		if IsMalformedError(err) {
			return IntrospectResult{Active: false, Error: ErrTokenMalformed.Message}
		}
		return IntrospectResult{Active: false, Error: ErrInvalidSignature.Message}
	}

	if jti := claims.TokenID(); jti != "" {
		revoked, err := s.revocations.Exists(ctx, jti)
		if err != nil {
			s.logger.Error("Introspect revocation lookup failed", "jti", jti, "error", err)
			return IntrospectResult{Active: false, Error: ErrUnexpected.Message + ": " + err.Error()}
		}
		if revoked {
			s.logger.Warn("Introspect found revoked token", "jti", jti)
			return IntrospectResult{Active: false}
		}
	}

	return IntrospectResult{Active: true}
}

// Logout verifies the token and inserts its jti into the revocation store.
// Unlike Introspect, verification failures propagate: an unauthenticated
// logout request is a client error. Revoking an already-revoked token is
// reported as expired.
func (s *Auther) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.verifyToken(ctx, tokenString)
	if err != nil {
		return err
	}

	if err := s.revocations.Insert(ctx, claims.TokenID(), claims.Expires()); err != nil {
		return s.wrapUnexpected(err, "failed to record token revocation")
	}

	s.emitAuthEvent(ctx, ActivityEventLogout, ActorRef{ID: claims.Subject(), Type: "user"}, claims.Subject(), map[string]any{
		"jti": claims.TokenID(),
	})

	return nil
}

// Refresh rotates a token: it verifies the old one, revokes it, and only
// then issues a replacement with the scope re-derived from the user's
// current role. Revoke-before-issue is a deliberate invariant: a crash
// between the two steps leaves the old token safely revoked.
func (s *Auther) Refresh(ctx context.Context, tokenString string) (string, error) {
	claims, err := s.verifyToken(ctx, tokenString)
	if err != nil {
		return "", err
	}

	if err := s.revocations.Insert(ctx, claims.TokenID(), claims.Expires()); err != nil {
		return "", s.wrapUnexpected(err, "failed to revoke token during rotation")
	}

	identity, err := s.provider.FindIdentityByEmail(ctx, claims.Subject())
	if err != nil {
		s.logger.Warn("Refresh subject lookup failed", "subject", claims.Subject(), "error", err)
		s.emitAuthEvent(ctx, ActivityEventTokenRefreshFailure, ActorRef{Type: "unknown"}, "", map[string]any{
			"subject": claims.Subject(),
			"error":   err.Error(),
		})
		return "", err
	}

	token, err := s.generateJWT(ctx, identity)
	if err != nil {
		return "", err
	}

	s.emitAuthEvent(ctx, ActivityEventTokenRefreshed, s.actorFromIdentity(identity), identity.ID(), map[string]any{
		"rotated_jti": claims.TokenID(),
	})

	return token, nil
}

// verifyToken runs the full command-path validation: presence, structure,
// expiry, signature, then the deny-list. A revoked jti reports as expired,
// exactly like a past exp: both mean the token may no longer be used.
func (s *Auther) verifyToken(ctx context.Context, tokenString string) (*JWTClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrTokenMissing
	}

	claims, err := s.tokenService.Parse(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Expires().Before(time.Now()) {
		return nil, ErrTokenExpired
	}

	if err := s.tokenService.VerifySignature(tokenString); err != nil {
		return nil, err
	}

	jti := claims.TokenID()
	if jti == "" {
		return nil, ErrTokenMalformed
	}

	revoked, err := s.revocations.Exists(ctx, jti)
	if err != nil {
		return nil, s.wrapUnexpected(err, "failed to check token revocation")
	}
	if revoked {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

// generateJWT generates a JWT token using structured claims with the
// role-derived scope
func (s *Auther) generateJWT(ctx context.Context, identity Identity) (string, error) {
	claims := s.newJWTClaims(identity)
	snapshot := captureImmutableClaims(claims)

	decorator := normalizeClaimsDecorator(s.claimsDecorator)
	if err := decorator.Decorate(ctx, identity, claims); err != nil {
		s.logger.Error("claims decorator failed", "error", err)
		return "", err
	}

	if err := snapshot.validate(claims); err != nil {
		s.logger.Error("claims decorator mutated immutable claims", "error", err)
		return "", err
	}

	return s.tokenService.SignClaims(claims)
}

func (s *Auther) newJWTClaims(identity Identity) *JWTClaims {
	now := time.Now()

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   identity.Email(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.tokenExpiration) * time.Hour)),
		},
		Scope: ScopeForRole(identity.Role()),
	}

	ensureTokenID(&claims.RegisteredClaims)

	return claims
}

func (s *Auther) wrapUnexpected(err error, msg string) error {
	return goerrors.Wrap(err, ErrUnexpected.Category, msg).
		WithTextCode(ErrUnexpected.TextCode)
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, actor ActorRef, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		Actor:     actor,
		UserID:    userID,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}

func (s *Auther) actorFromIdentity(identity Identity) ActorRef {
	if identity == nil {
		return ActorRef{Type: "unknown"}
	}

	return ActorRef{
		ID:   identity.ID(),
		Type: "user",
	}
}

var _ Authenticator = (*Auther)(nil)
