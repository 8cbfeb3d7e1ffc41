package auth_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"

	"github.com/quizapp/go-auth"
)

func TestErrorCategories(t *testing.T) {
	tests := []struct {
		name     string
		err      *goerrors.Error
		category goerrors.Category
		textCode string
	}{
		{"token missing", auth.ErrTokenMissing, goerrors.CategoryBadInput, "TOKEN_MISSING"},
		{"token malformed", auth.ErrTokenMalformed, goerrors.CategoryBadInput, "MALFORMED_TOKEN"},
		{"invalid signature", auth.ErrInvalidSignature, goerrors.CategoryAuth, "INVALID_SIGNATURE"},
		{"token expired", auth.ErrTokenExpired, goerrors.CategoryAuth, auth.TextCodeTokenExpired},
		{"user not found", auth.ErrUserNotFound, goerrors.CategoryNotFound, "USER_NOT_FOUND"},
		{"invalid credentials", auth.ErrInvalidCredentials, goerrors.CategoryAuth, "INVALID_CREDENTIALS"},
		{"reset token invalid", auth.ErrResetTokenInvalid, goerrors.CategoryAuth, "RESET_TOKEN_INVALID"},
		{"unexpected", auth.ErrUnexpected, goerrors.CategoryInternal, "UNEXPECTED_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.textCode, tt.err.TextCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestHasTextCode(t *testing.T) {
	assert.True(t, auth.HasTextCode(auth.ErrTokenExpired, auth.TextCodeTokenExpired))
	assert.False(t, auth.HasTextCode(auth.ErrTokenExpired, "SOMETHING_ELSE"))
	assert.False(t, auth.HasTextCode(nil, auth.TextCodeTokenExpired))
	assert.False(t, auth.HasTextCode(errors.New("plain"), auth.TextCodeTokenExpired))

	wrapped := goerrors.Wrap(auth.ErrTokenExpired, goerrors.CategoryAuth, "outer").
		WithTextCode(auth.TextCodeTokenExpired)
	assert.True(t, auth.HasTextCode(wrapped, auth.TextCodeTokenExpired))
}

func TestErrorClassifiers(t *testing.T) {
	t.Run("expired", func(t *testing.T) {
		assert.True(t, auth.IsTokenExpiredError(auth.ErrTokenExpired))
		assert.True(t, auth.IsTokenExpiredError(errors.New("token is expired")))
		assert.False(t, auth.IsTokenExpiredError(auth.ErrTokenMalformed))
		assert.False(t, auth.IsTokenExpiredError(nil))
	})

	t.Run("malformed", func(t *testing.T) {
		assert.True(t, auth.IsMalformedError(auth.ErrTokenMalformed))
		assert.True(t, auth.IsMalformedError(errors.New("token is malformed")))
		assert.False(t, auth.IsMalformedError(auth.ErrTokenExpired))
		assert.False(t, auth.IsMalformedError(nil))
	})

	t.Run("invalid signature", func(t *testing.T) {
		assert.True(t, auth.IsInvalidSignatureError(auth.ErrInvalidSignature))
		assert.True(t, auth.IsInvalidSignatureError(errors.New("signature is invalid")))
		assert.False(t, auth.IsInvalidSignatureError(auth.ErrTokenMalformed))
		assert.False(t, auth.IsInvalidSignatureError(nil))
	})

	t.Run("reset token invalid", func(t *testing.T) {
		assert.True(t, auth.IsResetTokenInvalidError(auth.ErrResetTokenInvalid))
		assert.False(t, auth.IsResetTokenInvalidError(auth.ErrTokenExpired))
		assert.False(t, auth.IsResetTokenInvalidError(nil))
	})
}

func TestErrorsAreDistinguishable(t *testing.T) {
	// Callers branch on these sentinels, they must not alias each other.
	sentinels := []*goerrors.Error{
		auth.ErrTokenMissing,
		auth.ErrTokenMalformed,
		auth.ErrInvalidSignature,
		auth.ErrTokenExpired,
		auth.ErrUserNotFound,
		auth.ErrInvalidCredentials,
		auth.ErrResetTokenInvalid,
		auth.ErrUnexpected,
	}

	seen := map[string]bool{}
	for _, s := range sentinels {
		assert.False(t, seen[s.TextCode], "duplicate text code %s", s.TextCode)
		seen[s.TextCode] = true
	}
}
