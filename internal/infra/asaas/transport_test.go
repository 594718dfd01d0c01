package asaas

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
)

func TestNextStrategy(t *testing.T) {
	tests := []struct {
		name   string
		from   Strategy
		status int
		want   Strategy
		moved  bool
	}{
		{"query 404 moves to envelope", StrategyProxyQuery, http.StatusNotFound, StrategyProxyEnvelope, true},
		{"query 405 moves to envelope", StrategyProxyQuery, http.StatusMethodNotAllowed, StrategyProxyEnvelope, true},
		{"query 501 moves to envelope", StrategyProxyQuery, http.StatusNotImplemented, StrategyProxyEnvelope, true},
		{"query 200 is terminal", StrategyProxyQuery, http.StatusOK, StrategyProxyQuery, false},
		{"query 500 is terminal", StrategyProxyQuery, http.StatusInternalServerError, StrategyProxyQuery, false},
		{"envelope 404 is terminal", StrategyProxyEnvelope, http.StatusNotFound, StrategyProxyEnvelope, false},
		{"direct 404 is terminal", StrategyDirect, http.StatusNotFound, StrategyDirect, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, moved := nextStrategy(tt.from, tt.status)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.moved, moved)
		})
	}
}

func TestInitialStrategy(t *testing.T) {
	assert.Equal(t, StrategyDirect, initialStrategy(false))
	assert.Equal(t, StrategyProxyQuery, initialStrategy(true))
	assert.Equal(t, "proxy_envelope", StrategyProxyEnvelope.String())
}

func TestOperationOf(t *testing.T) {
	assert.Equal(t, "GET /payments/{id}/pixQrCode", operationOf(http.MethodGet, "/payments/pay_9f2/pixQrCode"))
	assert.Equal(t, "GET /customers", operationOf(http.MethodGet, "/customers?cpfCnpj=111"))
	assert.Equal(t, "POST /payments", operationOf(http.MethodPost, "/payments"))
}

func TestEncodePaymentFilter(t *testing.T) {
	raw := encodePaymentFilter(domain.PaymentFilter{
		Customer:    "cus_1",
		BillingType: domain.BillingBoleto,
		Status:      domain.PaymentStatusOverdue,
		DateField:   "dueDate",
		From:        "2024-01-01",
		To:          "2024-01-31",
		Limit:       50,
	})

	q, err := url.ParseQuery(raw)
	require.NoError(t, err)

	assert.Equal(t, "cus_1", q.Get("customer"))
	assert.Equal(t, "BOLETO", q.Get("billingType"))
	assert.Equal(t, "OVERDUE", q.Get("status"))
	assert.Equal(t, "2024-01-01", q.Get("dueDate[ge]"))
	assert.Equal(t, "2024-01-31", q.Get("dueDate[le]"))
	assert.Equal(t, "50", q.Get("limit"))
	assert.False(t, q.Has("offset"))
}

func TestEncodePaymentFilter_DefaultsToDateCreated(t *testing.T) {
	q, err := url.ParseQuery(encodePaymentFilter(domain.PaymentFilter{From: "2024-02-01"}))
	require.NoError(t, err)

	assert.Equal(t, "2024-02-01", q.Get("dateCreated[ge]"))
	assert.Empty(t, encodePaymentFilter(domain.PaymentFilter{}))
}

func TestParseRemoteError(t *testing.T) {
	e := parseRemoteError(http.StatusBadRequest, []byte(`{"errors":[{"code":"c1","description":"d1"}]}`))
	assert.Equal(t, "c1", e.Code)
	assert.Equal(t, "d1", e.Description)

	e = parseRemoteError(http.StatusBadGateway, nil)
	assert.Empty(t, e.Description)
	assert.Equal(t, "Bad Gateway", e.StatusText)
}

func TestHealthyRemote(t *testing.T) {
	assert.True(t, healthyRemote(&domain.ErrRemoteAPI{StatusCode: http.StatusBadRequest}))
	assert.False(t, healthyRemote(&domain.ErrRemoteAPI{StatusCode: http.StatusServiceUnavailable}))
	assert.False(t, healthyRemote(&domain.ErrConnectivity{}))
}
