package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	GatewayTimeout time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache
	CacheTTL time.Duration

	// Observability
	OTLPEndpoint string

	// Gateway config store: "redis" or "memory"
	ConfigStore   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Asaas gateway
	AsaasUseProxy      bool
	AsaasProxyURL      string
	AsaasSandboxURL    string
	AsaasProductionURL string

	// Templates
	TemplateAliasesFile string

	// WhatsApp (Evolution API)
	WhatsAppAPIURL   string
	WhatsAppInstance string
	WhatsAppAPIKey   string

	// Contract signature links
	SignatureSecret string
	SignatureTTL    time.Duration
	PublicBaseURL   string

	// CORS
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	port := getEnvInt("PORT", 8080)

	return &Config{
		Port:     port,
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		GatewayTimeout: getEnvDuration("GATEWAY_TIMEOUT", 15*time.Second),
		MaxRetries:     getEnvInt("GATEWAY_MAX_RETRIES", 2),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 200*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 20),

		CacheTTL: getEnvDuration("CACHE_TTL", 10*time.Minute),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		ConfigStore:   getEnv("CONFIG_STORE", "memory"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AsaasUseProxy:      getEnvBool("ASAAS_USE_PROXY", false),
		AsaasProxyURL:      getEnv("ASAAS_PROXY_URL", "http://localhost:"+strconv.Itoa(port)+"/api/proxy"),
		AsaasSandboxURL:    getEnv("ASAAS_SANDBOX_URL", "https://sandbox.asaas.com/api/v3"),
		AsaasProductionURL: getEnv("ASAAS_PRODUCTION_URL", "https://api.asaas.com/v3"),

		TemplateAliasesFile: getEnv("TEMPLATE_ALIASES_FILE", ""),

		WhatsAppAPIURL:   getEnv("WHATSAPP_API_URL", ""),
		WhatsAppInstance: getEnv("WHATSAPP_INSTANCE", "instance1"),
		WhatsAppAPIKey:   getEnv("WHATSAPP_API_KEY", ""),

		SignatureSecret: getEnv("SIGNATURE_SECRET", "rastreio-default-dev-secret-change-me"),
		SignatureTTL:    getEnvDuration("SIGNATURE_TTL", 7*24*time.Hour),
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:5173"), "/"),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
