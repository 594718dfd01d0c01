package whatsapp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/observability"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/resilience"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/whatsapp"
	"github.com/boddenberg/rastreio-bfa-go/internal/port"
)

var _ port.MessageSender = (*whatsapp.Client)(nil)

func newClient(baseURL string) *whatsapp.Client {
	return whatsapp.NewClient(
		&http.Client{Timeout: 2 * time.Second},
		baseURL, "instance1", "evo-key",
		resilience.NewCircuitBreaker("whatsapp-test"),
		resilience.Config{MaxRetries: 2, InitialBackoff: time.Millisecond},
		observability.NewMetrics(),
		zap.NewNop(),
	)
}

func TestSendText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/message/sendText/instance1", r.URL.Path)
		assert.Equal(t, "evo-key", r.Header.Get("apikey"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "5512998765432", body["number"])
		assert.Equal(t, "Olá", body["text"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"key":{"id":"BAE5F1","remoteJid":"5512998765432@s.whatsapp.net"},"status":"PENDING"}`))
	}))
	defer srv.Close()

	receipt, err := newClient(srv.URL+"/").SendText(context.Background(), "5512998765432", "Olá")
	require.NoError(t, err)

	assert.Equal(t, "BAE5F1", receipt.MessageID)
	assert.Equal(t, "PENDING", receipt.Status)
	assert.Equal(t, "5512998765432", receipt.To)
}

func TestSendText_NotConfigured(t *testing.T) {
	_, err := newClient("").SendText(context.Background(), "5512998765432", "Olá")

	var nc *domain.ErrNotConfigured
	require.ErrorAs(t, err, &nc)
	assert.Contains(t, domain.UserMessage(err), "WhatsApp não configurado")
}

func TestSendText_ClientErrorNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"number not on whatsapp"}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).SendText(context.Background(), "5500000000000", "x")

	var remote *domain.ErrRemoteAPI
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, int32(1), hits.Load())
}

func TestSendText_ServerErrorRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"key":{"id":"OK1"}}`))
	}))
	defer srv.Close()

	receipt, err := newClient(srv.URL).SendText(context.Background(), "5512998765432", "x")
	require.NoError(t, err)
	assert.Equal(t, "OK1", receipt.MessageID)
	assert.Equal(t, "SENT", receipt.Status)
	assert.Equal(t, int32(3), hits.Load())
}
