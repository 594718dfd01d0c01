package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boddenberg/rastreio-bfa-go/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, "memory", cfg.ConfigStore)
	assert.False(t, cfg.AsaasUseProxy)
	assert.Equal(t, "https://sandbox.asaas.com/api/v3", cfg.AsaasSandboxURL)
	assert.Equal(t, "https://api.asaas.com/v3", cfg.AsaasProductionURL)
	assert.Equal(t, 7*24*time.Hour, cfg.SignatureTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ASAAS_USE_PROXY", "true")
	t.Setenv("GATEWAY_TIMEOUT", "3s")
	t.Setenv("CONFIG_STORE", "redis")
	t.Setenv("REDIS_DB", "4")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com,")
	t.Setenv("PUBLIC_BASE_URL", "https://app.example.com/")

	cfg := config.Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.AsaasUseProxy)
	assert.Equal(t, 3*time.Second, cfg.GatewayTimeout)
	assert.Equal(t, "redis", cfg.ConfigStore)
	assert.Equal(t, 4, cfg.RedisDB)
	assert.Equal(t, "http://localhost:9090/api/proxy", cfg.AsaasProxyURL)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "https://app.example.com", cfg.PublicBaseURL)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("ASAAS_USE_PROXY", "maybe")
	t.Setenv("CACHE_TTL", "ten minutes")

	cfg := config.Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.AsaasUseProxy)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WHATSAPP_INSTANCE=from-file\nWHATSAPP_API_KEY=\"secret\"\n"), 0o600))

	t.Setenv("WHATSAPP_INSTANCE", "from-env")
	t.Setenv("WHATSAPP_API_KEY", "")
	os.Unsetenv("WHATSAPP_API_KEY")

	require.NoError(t, config.LoadDotEnv(path))
	t.Cleanup(func() { os.Unsetenv("WHATSAPP_API_KEY") })

	assert.Equal(t, "from-env", os.Getenv("WHATSAPP_INSTANCE"))
	assert.Equal(t, "secret", os.Getenv("WHATSAPP_API_KEY"))
}
