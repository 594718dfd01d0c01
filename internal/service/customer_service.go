package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/observability"
	"github.com/boddenberg/rastreio-bfa-go/internal/port"
)

// CustomerService keeps back-office clients and gateway customers in step.
type CustomerService struct {
	gateway port.CustomerGateway
	cache   port.Cache[string] // digits-only tax id -> gateway customer id
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewCustomerService creates the customer service.
func NewCustomerService(gateway port.CustomerGateway, cache port.Cache[string], metrics *observability.Metrics, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		gateway: gateway,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// FindByTaxID looks a customer up by CPF/CNPJ. It returns nil, nil when the
// gateway has none.
func (s *CustomerService) FindByTaxID(ctx context.Context, taxID string) (*domain.GatewayCustomer, error) {
	ctx, span := tracer.Start(ctx, "CustomerService.FindByTaxID")
	defer span.End()

	c, err := s.gateway.FindByTaxID(ctx, taxID)
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return c, nil
}

// Create registers client at the gateway unconditionally and returns the
// new customer id.
func (s *CustomerService) Create(ctx context.Context, client *domain.Client) (string, error) {
	ctx, span := tracer.Start(ctx, "CustomerService.Create")
	defer span.End()

	if err := validateClient(client); err != nil {
		return "", err
	}

	created, err := s.gateway.Create(ctx, client)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return created.ID, nil
}

// Sync returns the gateway customer id for client, creating the customer
// only when the lookup by tax id finds none. The id is written back to
// client.AsaasID.
func (s *CustomerService) Sync(ctx context.Context, client *domain.Client) (string, error) {
	ctx, span := tracer.Start(ctx, "CustomerService.Sync")
	defer span.End()

	if err := validateClient(client); err != nil {
		return "", err
	}

	taxID := domain.OnlyDigits(client.Document)
	span.SetAttributes(attribute.String("client.id", client.ID))

	if id, ok := s.cache.Get(taxID); ok {
		s.metrics.IncrCacheHit(observability.CacheGatewayCustomer)
		client.AsaasID = id
		return id, nil
	}
	s.metrics.IncrCacheMiss(observability.CacheGatewayCustomer)

	existing, err := s.gateway.FindByTaxID(ctx, taxID)
	if err != nil {
		return "", fmt.Errorf("find customer: %w", err)
	}

	var id string
	if existing != nil {
		id = existing.ID
	} else {
		created, err := s.gateway.Create(ctx, client)
		if err != nil {
			return "", fmt.Errorf("create customer: %w", err)
		}
		id = created.ID
		s.logger.Info("gateway customer created",
			zap.String("client_id", client.ID),
			zap.String("customer_id", id),
		)
	}

	s.cache.Set(taxID, id)
	client.AsaasID = id
	return id, nil
}

func validateClient(client *domain.Client) error {
	if client == nil {
		return &domain.ErrValidation{Field: "client", Message: "Cliente não informado"}
	}
	if domain.OnlyDigits(client.Document) == "" {
		return &domain.ErrValidation{Field: "document", Message: "CPF/CNPJ do cliente não informado"}
	}
	return nil
}
