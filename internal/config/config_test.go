package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DSN", "DB_HOST", "AUTH_REQUIRED", "SESSION_TTL", "CORS_ALLOWED_ORIGINS", "MAX_UPLOAD_MB"} {
		t.Setenv(k, "")
	}

	c := Load()
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "", c.DatabaseDSN())
	assert.False(t, c.AuthRequired)
	assert.Equal(t, 8*time.Hour, c.SessionTTL)
	assert.Equal(t, int64(10), c.MaxUploadMB)
	assert.NotEmpty(t, c.AllowedOrigins)
	assert.False(t, c.S3Enabled())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("AUTH_REQUIRED", "yes")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("DB_MAX_OPEN_CONNS", "nope")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.mx , ,http://b.mx")

	c := Load()
	assert.True(t, c.AuthRequired)
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Equal(t, 10, c.DBMaxOpenConns)
	assert.Equal(t, []string{"http://a.mx", "http://b.mx"}, c.AllowedOrigins)
}

func TestDatabaseDSN(t *testing.T) {
	c := &Config{DBDSN: "postgres://x"}
	assert.Equal(t, "postgres://x", c.DatabaseDSN())

	c = &Config{DBHost: "db", DBPort: "5432", DBName: "sistpec_cfpp", DBUser: "app", DBPassword: "p@ss", DBSSLMode: "disable", DBCharset: "UTF8"}
	dsn := c.DatabaseDSN()
	assert.True(t, strings.HasPrefix(dsn, "postgres://app:p%40ss@db:5432/sistpec_cfpp?"), dsn)
	assert.Contains(t, dsn, "sslmode=disable")
	assert.Contains(t, dsn, "client_encoding=UTF8")
}

func TestValidate(t *testing.T) {
	dev := &Config{Environment: "development", SessionTTL: time.Hour}
	assert.NoError(t, dev.Validate())

	prod := &Config{Environment: "production", SessionTTL: time.Hour, JWTSecret: "secret"}
	assert.Error(t, prod.Validate())

	prod.JWTSecret = "corto-pero-no-default"
	assert.Error(t, prod.Validate())

	prod.JWTSecret = strings.Repeat("x", MinJWTSecretLength)
	require.NoError(t, prod.Validate())

	assert.Error(t, (&Config{SessionTTL: 0}).Validate())
}
