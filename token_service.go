package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	goerrors "github.com/goliatone/go-errors"
)

const (
	// DefaultIssuer is the fixed iss claim stamped on every token.
	DefaultIssuer = "webmovie"
	// DefaultTokenExpirationHours is the fixed access-token TTL.
	DefaultTokenExpirationHours = 24
)

// TokenService owns the bearer token wire format: three-part compact JWT,
// HMAC-SHA-512 over a single shared secret.
type TokenService interface {
	// Issue builds and signs a fresh token for the subject with the given
	// scope. A zero ttl uses the service default.
	Issue(subject, scope string, ttl time.Duration) (string, error)
	// SignClaims signs arbitrary prepared claims with the shared secret.
	SignClaims(claims *JWTClaims) (string, error)
	// Parse decodes the token structure without verifying the signature or
	// enforcing expiry. Pure format decode.
	Parse(tokenString string) (*JWTClaims, error)
	// VerifySignature recomputes the HMAC over the encoded header+claims and
	// compares it to the embedded signature.
	VerifySignature(tokenString string) error
	// Validate is the full parse+verify used by command operations.
	Validate(tokenString string) (AuthClaims, error)
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey      []byte
	tokenExpiration int
	issuer          string
	logger          Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, tokenExpiration int, issuer string, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	if tokenExpiration <= 0 {
		tokenExpiration = DefaultTokenExpirationHours
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &TokenServiceImpl{
		signingKey:      signingKey,
		tokenExpiration: tokenExpiration,
		issuer:          issuer,
		logger:          logger,
	}
}

// Issue creates a signed JWT carrying sub/iss/iat/exp/jti/scope
func (ts *TokenServiceImpl) Issue(subject, scope string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", goerrors.New("token subject must not be empty", goerrors.CategoryBadInput)
	}

	if ttl <= 0 {
		ttl = time.Duration(ts.tokenExpiration) * time.Hour
	}

	now := time.Now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scope: scope,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Parse decodes the three-part structure and checks the required claims are
// present. It does NOT verify the signature and does NOT enforce expiry.
func (ts *TokenServiceImpl) Parse(tokenString string) (*JWTClaims, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	claims := &JWTClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims.RegisteredClaims.ExpiresAt == nil || claims.RegisteredClaims.Subject == "" {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// VerifySignature is the cryptographic trust boundary. The underlying HMAC
// comparison is constant-time.
func (ts *TokenServiceImpl) VerifySignature(tokenString string) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	_, err := parser.Parse(tokenString, ts.keyfunc)
	if err == nil {
		return nil
	}

	switch {
	case goerrors.Is(err, jwt.ErrTokenMalformed):
		return goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	case goerrors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	default:
		return goerrors.Wrap(err, ErrInvalidSignature.Category, ErrInvalidSignature.Message).
			WithTextCode(ErrInvalidSignature.TextCode)
	}
}

// Validate parses and fully validates a token string, returning structured claims
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, ts.keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
	)

	if err != nil {
		switch {
		case goerrors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case goerrors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
				WithTextCode(ErrTokenMalformed.TextCode)
		}
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		if claims.RegisteredClaims.ExpiresAt == nil || claims.RegisteredClaims.Subject == "" {
			return nil, ErrTokenMalformed
		}
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode claims")
	return nil, ErrTokenMalformed
}

func (ts *TokenServiceImpl) keyfunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		ts.logger.Error("TokenService encountered unexpected signing method", "alg", t.Header["alg"])
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return ts.signingKey, nil
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
