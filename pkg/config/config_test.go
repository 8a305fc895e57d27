package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAppEnv, "development")
	t.Setenv(EnvPort, "8080")
	t.Setenv(EnvPublicBaseURL, "https://console.example.com")
	t.Setenv(EnvGatewayName, "login")
	t.Setenv(EnvGatewayKey, "key")
	t.Setenv(EnvStaffEmail, "ops@example.com")
	t.Setenv(EnvStaffPasswordArg, "$argon2id$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA")
	t.Setenv("MCONSOLE_JWT_SECRET", "secret")
	t.Setenv("MCONSOLE_JWT_ISSUER", "merchant-console")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "sandbox", cfg.Gateway.Environment())
	require.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	require.Equal(t, 480, cfg.JWT.ExpirationMinutes)
	require.Equal(t, "info", cfg.App.LogLevel)
	require.True(t, cfg.App.IsDev())
	require.False(t, cfg.Redis.Enabled())
	require.Equal(t, time.Minute, cfg.AuthRateLimit.LoginWindow)
	require.Equal(t, 5, cfg.AuthRateLimit.LoginEmailLimit)
	require.NoError(t, cfg.App.ValidatePublicBaseURL())
}

func TestLoadRejectsUnknownGatewayEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(EnvGatewayEnv, "staging")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), EnvGatewayEnv)
}

func TestGatewayEnvironmentNormalized(t *testing.T) {
	require.Equal(t, "production", GatewayConfig{Env: " Production "}.Environment())
	require.Equal(t, "sandbox", GatewayConfig{}.Environment())
}

func TestRedisEnabled(t *testing.T) {
	require.False(t, RedisConfig{}.Enabled())
	require.True(t, RedisConfig{URL: "redis://localhost:6379"}.Enabled())
	require.True(t, RedisConfig{Address: "localhost:6379"}.Enabled())
}

func TestValidatePublicBaseURL(t *testing.T) {
	require.Error(t, AppConfig{PublicBaseURL: "not a url"}.ValidatePublicBaseURL())
	require.Error(t, AppConfig{PublicBaseURL: "/relative"}.ValidatePublicBaseURL())
	require.NoError(t, AppConfig{PublicBaseURL: "https://console.example.com"}.ValidatePublicBaseURL())
}
