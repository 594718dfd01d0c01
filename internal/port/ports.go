// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
)

// KeyValueStore persists small JSON blobs under string keys.
// Implemented by the Redis and in-memory config stores.
type KeyValueStore interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// GatewayConfigProvider resolves the active gateway credential per call.
type GatewayConfigProvider interface {
	GetConfig(ctx context.Context) (*domain.GatewayConfig, error)
}

// GatewayCaller performs one authenticated call against the payment gateway
// and decodes the JSON response into out (when non-nil).
type GatewayCaller interface {
	Call(ctx context.Context, method, endpoint string, body, out any) error
}

// CustomerGateway is the remote customer API.
type CustomerGateway interface {
	// FindByTaxID returns nil, nil when no customer carries the tax id.
	FindByTaxID(ctx context.Context, taxID string) (*domain.GatewayCustomer, error)
	Create(ctx context.Context, client *domain.Client) (*domain.GatewayCustomer, error)
}

// PaymentGateway is the remote payment API.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req *domain.PaymentRequest) (*domain.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error)
	GetPixQrCode(ctx context.Context, paymentID string) (*domain.PixQrCode, error)
	GetIdentificationField(ctx context.Context, paymentID string) (string, error)
	ListPayments(ctx context.Context, filter domain.PaymentFilter) (*domain.PaymentList, error)
	CancelPayment(ctx context.Context, paymentID string) (*domain.Payment, error)
	RefundPayment(ctx context.Context, paymentID string, req *domain.RefundRequest) (*domain.Payment, error)
}

// Notifier pushes user-facing notifications to connected sessions.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// MessageSender delivers a plain text message to a phone number.
type MessageSender interface {
	SendText(ctx context.Context, to, text string) (*domain.MessageReceipt, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
