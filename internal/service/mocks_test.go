package service_test

import (
	"context"
	"errors"
	"sync"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
)

// --- Mocks ---

type mockCustomerGateway struct {
	mu        sync.Mutex
	calls     []string
	existing  *domain.GatewayCustomer
	findErr   error
	created   *domain.GatewayCustomer
	createErr error
}

func (m *mockCustomerGateway) FindByTaxID(_ context.Context, taxID string) (*domain.GatewayCustomer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "find:"+taxID)
	return m.existing, m.findErr
}

func (m *mockCustomerGateway) Create(_ context.Context, c *domain.Client) (*domain.GatewayCustomer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "create:"+c.ID)
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.created, nil
}

func (m *mockCustomerGateway) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

type mockPaymentGateway struct {
	mu      sync.Mutex
	calls   []string
	lastReq *domain.PaymentRequest
	payment *domain.Payment
	qr      *domain.PixQrCode
	field   string
	list    *domain.PaymentList
	refund  *domain.RefundRequest
	filter  domain.PaymentFilter
	err     error
}

func (m *mockPaymentGateway) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockPaymentGateway) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockPaymentGateway) CreatePayment(_ context.Context, req *domain.PaymentRequest) (*domain.Payment, error) {
	m.record("create")
	m.mu.Lock()
	m.lastReq = req
	m.mu.Unlock()
	return m.payment, m.err
}

func (m *mockPaymentGateway) GetPayment(_ context.Context, id string) (*domain.Payment, error) {
	m.record("get:" + id)
	return m.payment, m.err
}

func (m *mockPaymentGateway) GetPixQrCode(_ context.Context, id string) (*domain.PixQrCode, error) {
	m.record("pix:" + id)
	return m.qr, m.err
}

func (m *mockPaymentGateway) GetIdentificationField(_ context.Context, id string) (string, error) {
	m.record("field:" + id)
	return m.field, m.err
}

func (m *mockPaymentGateway) ListPayments(_ context.Context, f domain.PaymentFilter) (*domain.PaymentList, error) {
	m.record("list")
	m.mu.Lock()
	m.filter = f
	m.mu.Unlock()
	return m.list, m.err
}

func (m *mockPaymentGateway) CancelPayment(_ context.Context, id string) (*domain.Payment, error) {
	m.record("cancel:" + id)
	return m.payment, m.err
}

func (m *mockPaymentGateway) RefundPayment(_ context.Context, id string, req *domain.RefundRequest) (*domain.Payment, error) {
	m.record("refund:" + id)
	m.mu.Lock()
	m.refund = req
	m.mu.Unlock()
	return m.payment, m.err
}

type mockSender struct {
	to   string
	text string
	err  error
	sent int
}

func (m *mockSender) SendText(_ context.Context, to, text string) (*domain.MessageReceipt, error) {
	m.sent++
	m.to, m.text = to, text
	if m.err != nil {
		return nil, m.err
	}
	return &domain.MessageReceipt{MessageID: "msg-1", To: to, Status: "SENT"}, nil
}

// failingStore fails every read and write.
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Get(context.Context, string) (string, bool, error) { return "", false, errStoreDown }
func (failingStore) Set(context.Context, string, string) error { return errStoreDown }
