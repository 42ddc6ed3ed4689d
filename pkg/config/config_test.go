package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.HTTP.Addr())
	assert.Equal(t, "0.0.0.0:5000", cfg.Web.Addr())
	assert.Equal(t, 60, cfg.JWT.Expiration)
	assert.Equal(t, "climate.requests", cfg.RabbitMQ.Exchange)
	assert.NotEmpty(t, cfg.Feedback.URL)
	assert.Equal(t, 2*time.Hour, cfg.Web.SessionTTL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("WEB_API_URL", "http://api:8000/")
	t.Setenv("WEB_API_TIMEOUT_SECONDS", "3")
	t.Setenv("LOGIN_RATE_PER_SECOND", "0.5")
	t.Setenv("DB_MIGRATE", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "http://api:8000", cfg.Web.APIURL, "sin barra final")
	assert.Equal(t, 3*time.Second, cfg.Web.APITimeout)
	assert.Equal(t, 0.5, cfg.Login.RatePerSecond)
	assert.False(t, cfg.DB.Migrate)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidNumberFallsBack(t *testing.T) {
	t.Setenv("DB_PORT", "cinco")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.DB.Port)
}

func TestValidate(t *testing.T) {
	cfg := &Config{JWT: JWTConfig{Expiration: 60}}
	assert.Error(t, cfg.Validate())
	cfg.JWT.Secret = "x"
	assert.NoError(t, cfg.Validate())
	cfg.JWT.Expiration = 0
	assert.Error(t, cfg.Validate())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss word", DBName: "climate", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%20word@db:5432/climate?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
