// Package whatsapp sends text messages through an Evolution-API compatible
// WhatsApp gateway.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/observability"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/resilience"
)

var tracer = otel.Tracer("whatsapp")

const serviceName = domain.ServiceWhatsApp

// Client calls the WhatsApp gateway.
type Client struct {
	httpClient *http.Client
	baseURL    string
	instance   string
	apiKey     string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient creates a WhatsApp client. An empty baseURL yields a client that
// reports ErrNotConfigured on every send.
func NewClient(httpClient *http.Client, baseURL, instance, apiKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, metrics *observability.Metrics, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		instance:   instance,
		apiKey:     apiKey,
		cb:         cb,
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger,
	}
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
	Delay  int    `json:"delay,omitempty"`
}

type sendTextResponse struct {
	Key struct {
		ID        string `json:"id"`
		RemoteJID string `json:"remoteJid"`
	} `json:"key"`
	Status string `json:"status"`
}

// SendText sends text to the phone number `to` (digits with country code).
func (c *Client) SendText(ctx context.Context, to, text string) (*domain.MessageReceipt, error) {
	ctx, span := tracer.Start(ctx, "WhatsAppClient.SendText")
	defer span.End()
	span.SetAttributes(attribute.String("whatsapp.instance", c.instance))

	if c.baseURL == "" || c.apiKey == "" {
		return nil, &domain.ErrNotConfigured{Service: serviceName}
	}

	body, err := json.Marshal(sendTextRequest{Number: to, Text: text, Delay: 1200})
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/message/sendText/%s", c.baseURL, url.PathEscape(c.instance))

	var out sendTextResponse

	_, err = c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
			if err != nil {
				return resilience.Permanent(err)
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("apikey", c.apiKey)

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			if err != nil {
				return err
			}
			if resp.StatusCode >= 500 {
				return fmt.Errorf("whatsapp API returned status %d", resp.StatusCode)
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return resilience.Permanent(&domain.ErrRemoteAPI{
					Service:     serviceName,
					StatusCode:  resp.StatusCode,
					StatusText:  http.StatusText(resp.StatusCode),
					Description: strings.TrimSpace(string(raw)),
				})
			}
			if len(raw) == 0 {
				return nil
			}
			return json.Unmarshal(raw, &out)
		})
	})
	if err != nil {
		c.logger.Error("whatsapp: send failed", zap.String("instance", c.instance), zap.Error(err))
		var remote *domain.ErrRemoteAPI
		if errors.As(err, &remote) {
			return nil, err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &domain.ErrCircuitOpen{Service: serviceName}
		}
		return nil, &domain.ErrExternalService{Service: serviceName, Err: err}
	}

	c.metrics.IncrNotification(observability.ChannelWhatsApp)

	status := out.Status
	if status == "" {
		status = "SENT"
	}
	return &domain.MessageReceipt{MessageID: out.Key.ID, To: to, Status: status}, nil
}
