package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/port"
)

var tracer = otel.Tracer("service")

const (
	activeConfigKey        = "asaas_config"
	companyConfigKeyPrefix = "asaas_config_"
)

func companyConfigKey(companyID string) string {
	return companyConfigKeyPrefix + companyID
}

// GatewayConfigService persists the gateway credentials: one active config
// plus one entry per company. It implements port.GatewayConfigProvider.
type GatewayConfigService struct {
	store  port.KeyValueStore
	logger *zap.Logger
}

// NewGatewayConfigService creates the service on top of a key/value store.
func NewGatewayConfigService(store port.KeyValueStore, logger *zap.Logger) *GatewayConfigService {
	return &GatewayConfigService{store: store, logger: logger}
}

// SetConfig replaces the active config. When companyID is set, that
// company's entry is rewritten too so both stay consistent.
func (s *GatewayConfigService) SetConfig(ctx context.Context, apiKey string, env domain.Environment, companyID, companyName string) (*domain.GatewayConfig, error) {
	ctx, span := tracer.Start(ctx, "GatewayConfigService.SetConfig")
	defer span.End()

	cfg, err := newGatewayConfig(apiKey, env, companyID, companyName)
	if err != nil {
		return nil, err
	}

	if err := s.put(ctx, activeConfigKey, cfg); err != nil {
		return nil, err
	}
	if companyID != "" {
		if err := s.put(ctx, companyConfigKey(companyID), cfg); err != nil {
			return nil, err
		}
	}

	s.logger.Info("gateway config updated",
		zap.String("environment", string(cfg.Environment)),
		zap.String("company_id", companyID),
		zap.String("api_key", cfg.Redacted().APIKey),
	)
	return cfg, nil
}

// GetConfig returns the active config. A store without one yields an empty,
// unconfigured sandbox config rather than an error.
func (s *GatewayConfigService) GetConfig(ctx context.Context) (*domain.GatewayConfig, error) {
	cfg, err := s.get(ctx, activeConfigKey)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return &domain.GatewayConfig{Environment: domain.EnvironmentSandbox}, nil
	}
	return cfg, nil
}

// IsConfigured reports whether the active config carries an API key. Store
// failures count as not configured.
func (s *GatewayConfigService) IsConfigured(ctx context.Context) bool {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		s.logger.Warn("gateway config unreadable", zap.Error(err))
		return false
	}
	return cfg.Configured()
}

// SetCompanyConfig stores a company's credentials. When that company is
// the active one the active config is rewritten as well.
func (s *GatewayConfigService) SetCompanyConfig(ctx context.Context, companyID, companyName, apiKey string, env domain.Environment) (*domain.GatewayConfig, error) {
	ctx, span := tracer.Start(ctx, "GatewayConfigService.SetCompanyConfig")
	defer span.End()

	if companyID == "" {
		return nil, &domain.ErrValidation{Field: "companyId", Message: "empresa não informada"}
	}
	cfg, err := newGatewayConfig(apiKey, env, companyID, companyName)
	if err != nil {
		return nil, err
	}

	if err := s.put(ctx, companyConfigKey(companyID), cfg); err != nil {
		return nil, err
	}

	active, err := s.get(ctx, activeConfigKey)
	if err != nil {
		return nil, err
	}
	if active != nil && active.CompanyID == companyID {
		if err := s.put(ctx, activeConfigKey, cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// GetCompanyConfig returns a company's config, or nil when none is stored.
func (s *GatewayConfigService) GetCompanyConfig(ctx context.Context, companyID string) (*domain.GatewayConfig, error) {
	if companyID == "" {
		return nil, nil
	}
	return s.get(ctx, companyConfigKey(companyID))
}

// SetActiveCompany copies a company's config into the active slot. It
// returns false when the company has no config or the store fails.
func (s *GatewayConfigService) SetActiveCompany(ctx context.Context, companyID string) bool {
	ctx, span := tracer.Start(ctx, "GatewayConfigService.SetActiveCompany")
	defer span.End()

	cfg, err := s.GetCompanyConfig(ctx, companyID)
	if err != nil {
		s.logger.Warn("company config unreadable", zap.String("company_id", companyID), zap.Error(err))
		return false
	}
	if cfg == nil {
		return false
	}
	if err := s.put(ctx, activeConfigKey, cfg); err != nil {
		s.logger.Warn("activate company failed", zap.String("company_id", companyID), zap.Error(err))
		return false
	}

	s.logger.Info("active company changed", zap.String("company_id", companyID))
	return true
}

func newGatewayConfig(apiKey string, env domain.Environment, companyID, companyName string) (*domain.GatewayConfig, error) {
	if env == "" {
		env = domain.EnvironmentSandbox
	}
	if !env.Valid() {
		return nil, &domain.ErrValidation{Field: "environment", Message: fmt.Sprintf("ambiente inválido: %s", env)}
	}
	return &domain.GatewayConfig{
		APIKey:      apiKey,
		Environment: env,
		CompanyID:   companyID,
		CompanyName: companyName,
	}, nil
}

func (s *GatewayConfigService) get(ctx context.Context, key string) (*domain.GatewayConfig, error) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var cfg domain.GatewayConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if cfg.Environment == "" {
		cfg.Environment = domain.EnvironmentSandbox
	}
	return &cfg, nil
}

func (s *GatewayConfigService) put(ctx context.Context, key string, cfg *domain.GatewayConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.store.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
