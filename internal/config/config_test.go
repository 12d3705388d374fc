package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Empty(t, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 10.0, cfg.Limits.RateLimitRPS)
	assert.Equal(t, 20, cfg.Limits.RateLimitBurst)
	assert.Equal(t, int64(1<<20), cfg.Limits.MaxBodyBytes)
	assert.False(t, cfg.Limits.TrustProxy)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("DB_QUERY_TIMEOUT", "750ms")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,,")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 750*time.Millisecond, cfg.Database.QueryTimeout)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 2.5, cfg.Limits.RateLimitRPS)
	assert.True(t, cfg.Limits.TrustProxy)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoadCommand_NoSecretRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DSN", "postgres://u:p@db.test:5432/reviews")

	cfg := LoadCommand()
	assert.Equal(t, "postgres://u:p@db.test:5432/reviews", cfg.Database.DSN)
	assert.Equal(t, 2*time.Second, cfg.Database.PingTimeout)
	assert.Empty(t, cfg.Auth.JWTSecret)
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, ".env")

	require.NoError(t, os.WriteFile(p, []byte("DB_DSN=from_file\nCACHE_TTL=1m\n"), 0o644))

	t.Setenv("DB_DSN", "from_env")
	t.Setenv("CACHE_TTL", "")
	require.NoError(t, os.Unsetenv("CACHE_TTL"))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() {
		_ = os.Chdir(cwd)
		_ = os.Unsetenv("CACHE_TTL")
	})

	LoadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("DB_DSN"))
	assert.Equal(t, "1m", os.Getenv("CACHE_TTL"))
}

func TestSplitList(t *testing.T) {
	assert.Empty(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,b, "))
}
