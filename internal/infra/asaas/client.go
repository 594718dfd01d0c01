// Package asaas is the adapter for the Asaas billing gateway: an
// authenticated transport with proxy fallback plus the customer and payment
// APIs built on it.
package asaas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/observability"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/resilience"
	"github.com/boddenberg/rastreio-bfa-go/internal/port"
)

var tracer = otel.Tracer("asaas")

const (
	serviceName = domain.ServiceAsaas

	// maxResponseBytes bounds what is read from a gateway response.
	maxResponseBytes = 4 << 20
)

// Options selects base URLs and the transport mode.
type Options struct {
	SandboxURL    string
	ProductionURL string
	UseProxy      bool
	ProxyURL      string
	// Timeout bounds one logical call, retries and fallbacks included.
	Timeout time.Duration
}

// Client performs authenticated calls against the gateway. The credential
// is read from the config provider on every call.
type Client struct {
	httpClient *http.Client
	configs    port.GatewayConfigProvider
	opts       Options
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	bulkhead   *resilience.Bulkhead
	notifier   port.Notifier
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient creates a gateway client. Only connectivity failures are
// retried, whatever cfg.ShouldRetry says. A positive cfg.MaxConcurrency
// caps the calls in flight.
func NewClient(
	httpClient *http.Client,
	configs port.GatewayConfigProvider,
	opts Options,
	cb *gobreaker.CircuitBreaker,
	cfg resilience.Config,
	notifier port.Notifier,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Client {
	cfg.ShouldRetry = isConnectivity
	opts.SandboxURL = strings.TrimRight(opts.SandboxURL, "/")
	opts.ProductionURL = strings.TrimRight(opts.ProductionURL, "/")

	c := &Client{
		httpClient: httpClient,
		configs:    configs,
		opts:       opts,
		cb:         cb,
		cfg:        cfg,
		notifier:   notifier,
		metrics:    metrics,
		logger:     logger,
	}
	if cfg.MaxConcurrency > 0 {
		c.bulkhead = resilience.NewBulkhead(cfg.MaxConcurrency)
	}
	return c
}

// NewCircuitBreaker returns a breaker that ignores 4xx answers from a
// healthy gateway.
func NewCircuitBreaker() *gobreaker.CircuitBreaker {
	return resilience.NewCircuitBreakerWith("asaas", resilience.BreakerSettings{
		IsSuccessful: healthyRemote,
	})
}

// Call performs one gateway operation and decodes the JSON response into out
// (when non-nil). Every failure is logged and notified before being
// returned.
func (c *Client) Call(ctx context.Context, method, endpoint string, body, out any) error {
	operation := operationOf(method, endpoint)

	ctx, span := tracer.Start(ctx, "AsaasClient.Call")
	defer span.End()
	span.SetAttributes(
		attribute.String("gateway.operation", operation),
		attribute.Bool("gateway.proxy", c.opts.UseProxy),
	)

	start := time.Now()
	err := c.call(ctx, method, endpoint, body, out)
	c.metrics.RecordGatewayCall(operation, time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.ErrorClass(err))
		c.report(ctx, operation, method, endpoint, err)
	}
	return err
}

func (c *Client) call(ctx context.Context, method, endpoint string, body, out any) error {
	gw, err := c.configs.GetConfig(ctx)
	if err != nil {
		return &domain.ErrExternalService{Service: serviceName, Err: fmt.Errorf("load config: %w", err)}
	}
	if !gw.Configured() {
		return &domain.ErrNotConfigured{Service: serviceName}
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return &domain.ErrExternalService{Service: serviceName, Err: fmt.Errorf("encode body: %w", err)}
		}
	}

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	target := c.baseURL(gw.Environment) + endpoint

	if c.bulkhead != nil {
		if err := c.bulkhead.Acquire(ctx); err != nil {
			return &domain.ErrTimeout{Operation: operationOf(method, endpoint)}
		}
		defer c.bulkhead.Release()
	}

	_, err = c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			return c.exchange(ctx, method, target, gw.APIKey, payload, out)
		})
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &domain.ErrCircuitOpen{Service: serviceName}
	case errors.Is(err, context.DeadlineExceeded):
		return &domain.ErrTimeout{Operation: operationOf(method, endpoint)}
	case errors.Is(err, context.Canceled):
		return &domain.ErrExternalService{Service: serviceName, Err: err}
	}
	return err
}

// exchange runs the transport state machine for one attempt.
func (c *Client) exchange(ctx context.Context, method, target, apiKey string, payload []byte, out any) error {
	strategy := initialStrategy(c.opts.UseProxy)

	for {
		req, err := c.newRequest(ctx, strategy, method, target, apiKey, payload)
		if err != nil {
			return &domain.ErrExternalService{Service: serviceName, Err: err}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return &domain.ErrConnectivity{Service: serviceName, Strategy: strategy.String(), Err: err}
		}

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		if err != nil {
			return &domain.ErrConnectivity{Service: serviceName, Strategy: strategy.String(), Err: err}
		}

		if next, ok := nextStrategy(strategy, resp.StatusCode); ok {
			c.logger.Debug("asaas: proxy query shape not accepted, retrying with envelope",
				zap.Int("status", resp.StatusCode),
			)
			c.metrics.IncrEnvelopeFallback()
			strategy = next
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return parseRemoteError(resp.StatusCode, respBody)
		}

		if out != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return &domain.ErrExternalService{Service: serviceName, Err: fmt.Errorf("decode response: %w", err)}
			}
		}
		return nil
	}
}

func (c *Client) baseURL(env domain.Environment) string {
	if env == domain.EnvironmentProduction {
		return c.opts.ProductionURL
	}
	return c.opts.SandboxURL
}

// report logs the failure and pushes the user-facing message.
func (c *Client) report(ctx context.Context, operation, method, endpoint string, err error) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.String("class", domain.ErrorClass(err)),
		zap.Error(err),
	}
	var conn *domain.ErrConnectivity
	if errors.As(err, &conn) {
		fields = append(fields, zap.String("strategy", conn.Strategy))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
	}
	c.logger.Error("asaas: call failed", fields...)

	if c.notifier == nil {
		return
	}
	c.notifier.Notify(ctx, domain.Notification{
		Level:     domain.NotificationError,
		Title:     "Erro na integração Asaas",
		Message:   domain.UserMessage(err),
		Operation: operation,
		Timestamp: time.Now(),
	})
}

// operationOf names a call for metrics and traces with ids collapsed:
// "GET /payments/{id}/pixQrCode".
func operationOf(method, endpoint string) string {
	path, _, _ := strings.Cut(endpoint, "?")
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i := 1; i < len(segs); i++ {
		if segs[i-1] == "payments" || segs[i-1] == "customers" {
			segs[i] = "{id}"
		}
	}
	return method + " /" + strings.Join(segs, "/")
}
