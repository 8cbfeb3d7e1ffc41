package auth_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizapp/go-auth"
)

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("reads signing key, issuer and expiration from the environment", func(t *testing.T) {
		t.Setenv(auth.EnvSigningKey, "env-secret")
		t.Setenv(auth.EnvIssuer, "quizapp")
		t.Setenv(auth.EnvTokenExpiration, "12")

		cfg, err := auth.NewConfigFromEnv()
		require.NoError(t, err)

		assert.Equal(t, "env-secret", cfg.GetSigningKey())
		assert.Equal(t, "quizapp", cfg.GetIssuer())
		assert.Equal(t, 12, cfg.GetTokenExpiration())
	})

	t.Run("falls back to defaults for issuer and expiration", func(t *testing.T) {
		t.Setenv(auth.EnvSigningKey, "env-secret")
		t.Setenv(auth.EnvIssuer, "")
		t.Setenv(auth.EnvTokenExpiration, "")

		cfg, err := auth.NewConfigFromEnv()
		require.NoError(t, err)

		assert.Equal(t, auth.DefaultIssuer, cfg.GetIssuer())
		assert.Equal(t, auth.DefaultTokenExpirationHours, cfg.GetTokenExpiration())
	})

	t.Run("loads variables from an env file", func(t *testing.T) {
		t.Setenv(auth.EnvSigningKey, "")
		os.Unsetenv(auth.EnvSigningKey)

		envFile := filepath.Join(t.TempDir(), ".env")
		contents := auth.EnvSigningKey + "=file-secret\n" +
			auth.EnvIssuer + "=quizapp\n"
		require.NoError(t, os.WriteFile(envFile, []byte(contents), 0o600))

		cfg, err := auth.NewConfigFromEnv(envFile)
		require.NoError(t, err)

		assert.Equal(t, "file-secret", cfg.GetSigningKey())
		assert.Equal(t, "quizapp", cfg.GetIssuer())
	})

	t.Run("fails when the signing key is missing", func(t *testing.T) {
		t.Setenv(auth.EnvSigningKey, "")
		os.Unsetenv(auth.EnvSigningKey)

		cfg, err := auth.NewConfigFromEnv()
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.True(t, auth.HasTextCode(err, "MISSING_SIGNING_KEY"))
	})

	t.Run("fails on a non-numeric expiration", func(t *testing.T) {
		t.Setenv(auth.EnvSigningKey, "env-secret")
		t.Setenv(auth.EnvTokenExpiration, "a-day-ish")

		cfg, err := auth.NewConfigFromEnv()
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.True(t, auth.HasTextCode(err, "INVALID_TOKEN_EXPIRATION"))
	})

	t.Run("fails on an unreadable env file", func(t *testing.T) {
		t.Setenv(auth.EnvSigningKey, "env-secret")

		cfg, err := auth.NewConfigFromEnv(filepath.Join(t.TempDir(), "missing.env"))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.True(t, auth.HasTextCode(err, "ENV_FILE_UNREADABLE"))
	})
}
