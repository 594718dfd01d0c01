package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/configstore"
	"github.com/boddenberg/rastreio-bfa-go/internal/service"
)

func newConfigService() (*service.GatewayConfigService, *configstore.MemoryStore) {
	store := configstore.NewMemoryStore()
	return service.NewGatewayConfigService(store, zap.NewNop()), store
}

func TestGatewayConfig_EmptyStore(t *testing.T) {
	svc, _ := newConfigService()
	ctx := context.Background()

	cfg, err := svc.GetConfig(ctx)
	require.NoError(t, err)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, domain.EnvironmentSandbox, cfg.Environment)
	assert.False(t, svc.IsConfigured(ctx))
}

func TestGatewayConfig_SetConfigPersistsJSON(t *testing.T) {
	svc, store := newConfigService()
	ctx := context.Background()

	_, err := svc.SetConfig(ctx, "$aact_key", "", "", "")
	require.NoError(t, err)
	assert.True(t, svc.IsConfigured(ctx))

	raw, ok, err := store.Get(ctx, "asaas_config")
	require.NoError(t, err)
	require.True(t, ok)

	var persisted map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, "$aact_key", persisted["apiKey"])
	assert.Equal(t, "sandbox", persisted["environment"])
}

func TestGatewayConfig_IsConfiguredIffKeyPresent(t *testing.T) {
	svc, _ := newConfigService()
	ctx := context.Background()

	_, err := svc.SetConfig(ctx, "", domain.EnvironmentProduction, "", "")
	require.NoError(t, err)
	assert.False(t, svc.IsConfigured(ctx))

	_, err = svc.SetConfig(ctx, "k", domain.EnvironmentProduction, "", "")
	require.NoError(t, err)
	assert.True(t, svc.IsConfigured(ctx))
}

func TestGatewayConfig_UnknownEnvironment(t *testing.T) {
	svc, _ := newConfigService()

	_, err := svc.SetConfig(context.Background(), "k", "staging", "", "")

	var v *domain.ErrValidation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "environment", v.Field)
}

func TestGatewayConfig_SetConfigWithCompanyWritesBothKeys(t *testing.T) {
	svc, _ := newConfigService()
	ctx := context.Background()

	_, err := svc.SetConfig(ctx, "k1", domain.EnvironmentProduction, "acme", "ACME Rastreio")
	require.NoError(t, err)

	company, err := svc.GetCompanyConfig(ctx, "acme")
	require.NoError(t, err)
	require.NotNil(t, company)
	assert.Equal(t, "k1", company.APIKey)
	assert.Equal(t, "ACME Rastreio", company.CompanyName)
}

func TestGatewayConfig_CompanyConfigOfActiveCompanyUpdatesActive(t *testing.T) {
	svc, _ := newConfigService()
	ctx := context.Background()

	_, err := svc.SetConfig(ctx, "old", domain.EnvironmentSandbox, "acme", "ACME")
	require.NoError(t, err)

	_, err = svc.SetCompanyConfig(ctx, "acme", "ACME", "new", domain.EnvironmentProduction)
	require.NoError(t, err)

	active, err := svc.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", active.APIKey)
	assert.Equal(t, domain.EnvironmentProduction, active.Environment)
}

func TestGatewayConfig_CompanyConfigOfOtherCompanyLeavesActive(t *testing.T) {
	svc, _ := newConfigService()
	ctx := context.Background()

	_, err := svc.SetConfig(ctx, "active", domain.EnvironmentSandbox, "acme", "ACME")
	require.NoError(t, err)
	_, err = svc.SetCompanyConfig(ctx, "other", "Other", "other-key", "")
	require.NoError(t, err)

	active, err := svc.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "active", active.APIKey)
}

func TestGatewayConfig_SetActiveCompany(t *testing.T) {
	svc, _ := newConfigService()
	ctx := context.Background()

	assert.False(t, svc.SetActiveCompany(ctx, "ghost"))

	_, err := svc.SetCompanyConfig(ctx, "beta", "Beta", "beta-key", domain.EnvironmentProduction)
	require.NoError(t, err)
	assert.True(t, svc.SetActiveCompany(ctx, "beta"))

	active, err := svc.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "beta-key", active.APIKey)
	assert.Equal(t, "beta", active.CompanyID)
}

func TestGatewayConfig_GetCompanyConfigMissing(t *testing.T) {
	svc, _ := newConfigService()

	cfg, err := svc.GetCompanyConfig(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestGatewayConfig_StoreFailure(t *testing.T) {
	svc := service.NewGatewayConfigService(failingStore{}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.GetConfig(ctx)
	assert.ErrorIs(t, err, errStoreDown)
	assert.False(t, svc.IsConfigured(ctx))
	assert.False(t, svc.SetActiveCompany(ctx, "acme"))

	_, err = svc.SetConfig(ctx, "k", "", "", "")
	assert.ErrorIs(t, err, errStoreDown)
}
