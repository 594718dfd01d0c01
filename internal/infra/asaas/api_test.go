package asaas_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/asaas"
)

// fakeCaller records calls and answers with a canned JSON response.
type fakeCaller struct {
	calls    []recordedCall
	response string
	err      error
}

type recordedCall struct {
	method   string
	endpoint string
	body     map[string]any
}

func (f *fakeCaller) Call(_ context.Context, method, endpoint string, body, out any) error {
	rc := recordedCall{method: method, endpoint: endpoint}
	if body != nil {
		raw, _ := json.Marshal(body)
		_ = json.Unmarshal(raw, &rc.body)
	}
	f.calls = append(f.calls, rc)

	if f.err != nil {
		return f.err
	}
	if out != nil && f.response != "" {
		return json.Unmarshal([]byte(f.response), out)
	}
	return nil
}

// --- customers ---

func TestFindByTaxID_QueriesDigitsOnly(t *testing.T) {
	caller := &fakeCaller{response: `{"totalCount":1,"data":[{"id":"cus_42","name":"Ana","cpfCnpj":"11122233344"}]}`}
	c := asaas.NewCustomerClient(caller)

	got, err := c.FindByTaxID(context.Background(), "111.222.333-44")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "cus_42", got.ID)

	require.Len(t, caller.calls, 1)
	assert.Equal(t, http.MethodGet, caller.calls[0].method)
	u, err := url.Parse(caller.calls[0].endpoint)
	require.NoError(t, err)
	assert.Equal(t, "/customers", u.Path)
	assert.Equal(t, "11122233344", u.Query().Get("cpfCnpj"))
}

func TestFindByTaxID_NoneFound(t *testing.T) {
	c := asaas.NewCustomerClient(&fakeCaller{response: `{"totalCount":0,"data":[]}`})

	got, err := c.FindByTaxID(context.Background(), "11122233344")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindByTaxID_PropagatesErrors(t *testing.T) {
	c := asaas.NewCustomerClient(&fakeCaller{err: &domain.ErrConnectivity{Service: "asaas"}})

	got, err := c.FindByTaxID(context.Background(), "11122233344")
	assert.Nil(t, got)
	var conn *domain.ErrConnectivity
	assert.ErrorAs(t, err, &conn)
}

func TestFindByTaxID_EmptyTaxID(t *testing.T) {
	caller := &fakeCaller{}
	_, err := asaas.NewCustomerClient(caller).FindByTaxID(context.Background(), "--")

	var v *domain.ErrValidation
	require.ErrorAs(t, err, &v)
	assert.Empty(t, caller.calls)
}

func TestCreateCustomer_StripsNonDigits(t *testing.T) {
	caller := &fakeCaller{response: `{"id":"cus_new"}`}
	c := asaas.NewCustomerClient(caller)

	created, err := c.Create(context.Background(), &domain.Client{
		ID:           "cli-7",
		Name:         "Ana Silva",
		Email:        "ana@example.com",
		Phone:        "(12) 99876-5432",
		Document:     "111.222.333-44",
		Address:      "Rua das Flores",
		Number:       "42",
		Neighborhood: "Centro",
		City:         "Taubaté",
		State:        "SP",
		ZipCode:      "12125-030",
	})
	require.NoError(t, err)
	assert.Equal(t, "cus_new", created.ID)

	require.Len(t, caller.calls, 1)
	call := caller.calls[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/customers", call.endpoint)
	assert.Equal(t, "11122233344", call.body["cpfCnpj"])
	assert.Equal(t, "12125030", call.body["postalCode"])
	assert.Equal(t, "12998765432", call.body["phone"])
	assert.Equal(t, "cli-7", call.body["externalReference"])
	assert.Equal(t, false, call.body["notificationDisabled"])
}

// --- payments ---

func TestCreatePayment_WireBody(t *testing.T) {
	caller := &fakeCaller{response: `{"id":"pay_1","status":"PENDING","value":150.5,"billingType":"PIX"}`}
	c := asaas.NewPaymentClient(caller)

	p, err := c.CreatePayment(context.Background(), &domain.PaymentRequest{
		Customer:          "cus_1",
		BillingType:       domain.BillingPix,
		Value:             decimal.RequireFromString("150.50"),
		DueDate:           "2024-04-10",
		Description:       "Fatura #2024-001",
		ExternalReference: "inv-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "pay_1", p.ID)

	body := caller.calls[0].body
	assert.Equal(t, 150.5, body["value"])
	assert.Equal(t, "PIX", body["billingType"])
	assert.Equal(t, "2024-04-10", body["dueDate"])
	assert.Equal(t, false, body["postalService"])
}

func TestPaymentEndpoints(t *testing.T) {
	caller := &fakeCaller{response: `{"id":"pay_1","identificationField":"23793.38128 60000.000003","payload":"000201","data":[]}`}
	c := asaas.NewPaymentClient(caller)
	ctx := context.Background()

	_, err := c.GetPayment(ctx, "pay_1")
	require.NoError(t, err)
	qr, err := c.GetPixQrCode(ctx, "pay_1")
	require.NoError(t, err)
	field, err := c.GetIdentificationField(ctx, "pay_1")
	require.NoError(t, err)
	_, err = c.CancelPayment(ctx, "pay_1")
	require.NoError(t, err)
	_, err = c.RefundPayment(ctx, "pay_1", nil)
	require.NoError(t, err)
	_, err = c.ListPayments(ctx, domain.PaymentFilter{Customer: "cus_1"})
	require.NoError(t, err)

	assert.Equal(t, "000201", qr.Payload)
	assert.Equal(t, "23793.38128 60000.000003", field)

	want := []struct{ method, endpoint string }{
		{http.MethodGet, "/payments/pay_1"},
		{http.MethodGet, "/payments/pay_1/pixQrCode"},
		{http.MethodGet, "/payments/pay_1/identificationField"},
		{http.MethodPost, "/payments/pay_1/cancel"},
		{http.MethodPost, "/payments/pay_1/refund"},
		{http.MethodGet, "/payments?customer=cus_1"},
	}
	require.Len(t, caller.calls, len(want))
	for i, w := range want {
		assert.Equal(t, w.method, caller.calls[i].method)
		assert.Equal(t, w.endpoint, caller.calls[i].endpoint)
	}
	assert.Empty(t, caller.calls[4].body, "full refund sends no value")
}

func TestRefundPayment_Partial(t *testing.T) {
	caller := &fakeCaller{response: `{"id":"pay_1","status":"REFUNDED"}`}
	v := decimal.RequireFromString("10.25")

	_, err := asaas.NewPaymentClient(caller).RefundPayment(context.Background(), "pay_1", &domain.RefundRequest{Value: &v})
	require.NoError(t, err)

	assert.Equal(t, 10.25, caller.calls[0].body["value"])
}
