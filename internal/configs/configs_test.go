package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"S3_BUCKET_NAME":       "avatars",
		"S3_ENDPOINT":          "http://minio:9000/",
		"S3_ACCESS_KEY_ID":     "key",
		"S3_SECRET_ACCESS_KEY": "secret",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(envFrom(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 96, cfg.AvatarDefaultSize)
	assert.Equal(t, 512, cfg.AvatarMaxSize)
	assert.True(t, cfg.AvatarLazyLoading)
	assert.Equal(t, "http://minio:9000/avatars", cfg.AssetBaseURL)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, 25, cfg.DBMaxConns)
	assert.Equal(t, 5, cfg.DBMinConns)
	assert.Equal(t, 30*time.Minute, cfg.DBMaxConnLifetime)
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["PORT"] = "9090"
	env["ALLOWED_ORIGINS"] = "https://a.example, ,https://b.example"
	env["ASSET_BASE_URL"] = "https://cdn.example/"
	env["AVATAR_DEFAULT_SIZE"] = "48"
	env["AVATAR_MAX_SIZE"] = "256"
	env["AVATAR_LAZY_LOADING"] = "false"
	env["AVATAR_CSS_CLASS"] = " round "
	env["DB_MAX_CONNS"] = "8"
	env["DB_MIN_CONNS"] = "0"
	env["DB_MAX_CONN_LIFETIME"] = "10m"

	cfg, err := load(envFrom(env))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "https://cdn.example", cfg.AssetBaseURL)
	assert.Equal(t, 48, cfg.AvatarDefaultSize)
	assert.Equal(t, 256, cfg.AvatarMaxSize)
	assert.False(t, cfg.AvatarLazyLoading)
	assert.Equal(t, "round", cfg.AvatarCSSClass)
	assert.Equal(t, 8, cfg.DBMaxConns)
	assert.Equal(t, 0, cfg.DBMinConns)
	assert.Equal(t, 10*time.Minute, cfg.DBMaxConnLifetime)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"privileged port", func(m map[string]string) { m["PORT"] = "80" }},
		{"non numeric port", func(m map[string]string) { m["PORT"] = "http" }},
		{"missing bucket", func(m map[string]string) { delete(m, "S3_BUCKET_NAME") }},
		{"production without secret", func(m map[string]string) {
			m["ENVIRONMENT"] = "production"
			m["DATABASE_URL"] = "postgres://x"
		}},
		{"production without database", func(m map[string]string) {
			m["ENVIRONMENT"] = "production"
			m["JWT_SECRET"] = "s3cr3t"
		}},
		{"zero default size", func(m map[string]string) { m["AVATAR_DEFAULT_SIZE"] = "0" }},
		{"default above max", func(m map[string]string) {
			m["AVATAR_DEFAULT_SIZE"] = "600"
		}},
		{"bad lazy flag", func(m map[string]string) { m["AVATAR_LAZY_LOADING"] = "sometimes" }},
		{"min conns above max", func(m map[string]string) {
			m["DB_MAX_CONNS"] = "4"
			m["DB_MIN_CONNS"] = "6"
		}},
		{"zero max conns", func(m map[string]string) { m["DB_MAX_CONNS"] = "0" }},
		{"bad conn lifetime", func(m map[string]string) { m["DB_MAX_CONN_LIFETIME"] = "forever" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			tt.mutate(env)
			_, err := load(envFrom(env))
			assert.Error(t, err)
		})
	}
}
