package auth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// TextCodeTokenExpired is shared with downstream error mappers.
const TextCodeTokenExpired = "TOKEN_EXPIRED"

var (
	// ErrTokenMissing is returned when no token was supplied where one is required.
	ErrTokenMissing = goerrors.New("token is missing", goerrors.CategoryBadInput).
			WithTextCode("TOKEN_MISSING")

	// ErrTokenMalformed means the token string could not be decoded into the
	// expected three-part structure, or required claims are absent.
	ErrTokenMalformed = goerrors.New("malformed token", goerrors.CategoryBadInput).
				WithTextCode("MALFORMED_TOKEN")

	// ErrInvalidSignature means the HMAC did not verify against the shared secret.
	ErrInvalidSignature = goerrors.New("invalid signature", goerrors.CategoryAuth).
				WithTextCode("INVALID_SIGNATURE")

	// ErrTokenExpired covers both a past expiration claim and a jti found in
	// the revocation store; either way the token may no longer be used.
	ErrTokenExpired = goerrors.New("token expired", goerrors.CategoryAuth).
			WithTextCode(TextCodeTokenExpired)

	// ErrUserNotFound means the subject/email has no matching credential record.
	ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
			WithTextCode("USER_NOT_FOUND")

	// ErrInvalidCredentials is returned on a password mismatch at login.
	// HTTP layers typically collapse this and ErrUserNotFound into a single
	// unauthorized response; the library keeps them distinct for logging.
	ErrInvalidCredentials = goerrors.New("invalid credentials", goerrors.CategoryAuth).
				WithTextCode("INVALID_CREDENTIALS")

	// ErrResetTokenInvalid collapses "no such reset token", "already used",
	// and "expired" into one kind so callers cannot tell which check failed.
	ErrResetTokenInvalid = goerrors.New("invalid or expired password reset token", goerrors.CategoryAuth).
				WithTextCode("RESET_TOKEN_INVALID")

	// ErrUnexpected marks infrastructure/storage failures that are not
	// attributable to the token or the credentials, so operators can tell
	// outages apart from genuine auth failures.
	ErrUnexpected = goerrors.New("unexpected error", goerrors.CategoryInternal).
			WithTextCode("UNEXPECTED_ERROR")

	// ErrNoEmptyString rejects empty passwords before hashing.
	ErrNoEmptyString = goerrors.New("value must not be empty", goerrors.CategoryValidation).
				WithTextCode("EMPTY_VALUE")

	// ErrMismatchedHashAndPassword is the bcrypt comparison failure.
	ErrMismatchedHashAndPassword = goerrors.New("mismatched hash and password", goerrors.CategoryAuth).
					WithTextCode("PASSWORD_MISMATCH")

	// ErrTooManyLoginAttempts enforces the login cool-down window.
	ErrTooManyLoginAttempts = goerrors.New("too many login attempts", goerrors.CategoryAuth).
				WithTextCode("TOO_MANY_ATTEMPTS")

	// ErrImmutableClaimMutation is raised when a claims decorator touches a
	// protected claim (sub, iss, iat, exp, jti, scope).
	ErrImmutableClaimMutation = goerrors.New("immutable claim mutated", goerrors.CategoryInternal).
					WithTextCode("IMMUTABLE_CLAIM_MUTATION")
)

// HasTextCode reports whether err carries the given rich-error text code
// anywhere in its chain.
func HasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == code
	}
	return false
}

// IsTokenExpiredError will check for expired (or revoked) tokens.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.Is(err, ErrTokenExpired) ||
		HasTextCode(err, TextCodeTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for structurally invalid tokens.
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.Is(err, ErrTokenMalformed) ||
		HasTextCode(err, "MALFORMED_TOKEN") ||
		strings.Contains(err.Error(), "token is malformed")
}

// IsInvalidSignatureError will check for signature verification failures.
func IsInvalidSignatureError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.Is(err, ErrInvalidSignature) ||
		HasTextCode(err, "INVALID_SIGNATURE") ||
		strings.Contains(err.Error(), "signature is invalid")
}

// IsResetTokenInvalidError will check for the collapsed reset-token failure.
func IsResetTokenInvalidError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.Is(err, ErrResetTokenInvalid) ||
		HasTextCode(err, "RESET_TOKEN_INVALID")
}
