package auth

import (
	"os"
	"strconv"

	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// Environment variables read by NewConfigFromEnv.
const (
	EnvSigningKey      = "AUTH_SIGNING_KEY"
	EnvIssuer          = "AUTH_ISSUER"
	EnvTokenExpiration = "AUTH_TOKEN_EXPIRATION"
)

// NewConfigFromEnv builds a Config from the process environment. Any env
// files given are loaded first via godotenv without overriding variables
// already set; with no arguments a local .env is loaded if present.
// Issuer and expiration fall back to their defaults when unset.
func NewConfigFromEnv(envFiles ...string) (Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, goerrors.Wrap(
				err,
				goerrors.CategoryBadInput,
				"failed to load env file",
			).WithTextCode("ENV_FILE_UNREADABLE")
		}
	} else {
		// Optional convenience load, a missing .env is not an error.
		_ = godotenv.Load()
	}

	signingKey := os.Getenv(EnvSigningKey)
	if signingKey == "" {
		return nil, goerrors.New(
			EnvSigningKey+" is required",
			goerrors.CategoryBadInput,
		).WithTextCode("MISSING_SIGNING_KEY")
	}

	expiration := DefaultTokenExpirationHours
	if raw := os.Getenv(EnvTokenExpiration); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, goerrors.Wrap(
				err,
				goerrors.CategoryBadInput,
				EnvTokenExpiration+" must be an integer hour count",
			).WithTextCode("INVALID_TOKEN_EXPIRATION").
				WithMetadata(map[string]any{"value": raw})
		}
		expiration = parsed
	}

	return NewConfig(signingKey, os.Getenv(EnvIssuer), expiration), nil
}
