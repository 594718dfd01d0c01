package asaas

import (
	"context"
	"net/http"
	"net/url"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/port"
)

// PaymentClient is the gateway payment API.
type PaymentClient struct {
	caller port.GatewayCaller
}

// NewPaymentClient creates a PaymentClient on top of a gateway caller.
func NewPaymentClient(caller port.GatewayCaller) *PaymentClient {
	return &PaymentClient{caller: caller}
}

// paymentBody is the wire form of a payment request; the gateway expects
// value as a JSON number.
type paymentBody struct {
	Customer          string             `json:"customer"`
	BillingType       domain.BillingType `json:"billingType"`
	Value             float64            `json:"value"`
	DueDate           string             `json:"dueDate"`
	Description       string             `json:"description"`
	ExternalReference string             `json:"externalReference"`
	PostalService     bool               `json:"postalService"`
}

type refundBody struct {
	Value *float64 `json:"value,omitempty"`
}

type identificationField struct {
	IdentificationField string `json:"identificationField"`
	NossoNumero         string `json:"nossoNumero"`
	BarCode             string `json:"barCode"`
}

// CreatePayment creates a payment. The billing type is passed through.
func (c *PaymentClient) CreatePayment(ctx context.Context, req *domain.PaymentRequest) (*domain.Payment, error) {
	body := paymentBody{
		Customer:          req.Customer,
		BillingType:       req.BillingType,
		Value:             req.Value.InexactFloat64(),
		DueDate:           req.DueDate,
		Description:       req.Description,
		ExternalReference: req.ExternalReference,
		PostalService:     req.PostalService,
	}

	var p domain.Payment
	if err := c.caller.Call(ctx, http.MethodPost, "/payments", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPayment fetches one payment.
func (c *PaymentClient) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := c.caller.Call(ctx, http.MethodGet, paymentPath(paymentID, ""), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPixQrCode fetches the PIX payload and QR image of a payment.
func (c *PaymentClient) GetPixQrCode(ctx context.Context, paymentID string) (*domain.PixQrCode, error) {
	var qr domain.PixQrCode
	if err := c.caller.Call(ctx, http.MethodGet, paymentPath(paymentID, "pixQrCode"), nil, &qr); err != nil {
		return nil, err
	}
	return &qr, nil
}

// GetIdentificationField fetches the boleto typeable line.
func (c *PaymentClient) GetIdentificationField(ctx context.Context, paymentID string) (string, error) {
	var f identificationField
	if err := c.caller.Call(ctx, http.MethodGet, paymentPath(paymentID, "identificationField"), nil, &f); err != nil {
		return "", err
	}
	return f.IdentificationField, nil
}

// ListPayments lists payments matching filter.
func (c *PaymentClient) ListPayments(ctx context.Context, filter domain.PaymentFilter) (*domain.PaymentList, error) {
	endpoint := "/payments"
	if q := encodePaymentFilter(filter); q != "" {
		endpoint += "?" + q
	}

	var list domain.PaymentList
	if err := c.caller.Call(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CancelPayment cancels a pending payment.
func (c *PaymentClient) CancelPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := c.caller.Call(ctx, http.MethodPost, paymentPath(paymentID, "cancel"), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// RefundPayment refunds a received payment, fully when req.Value is nil.
func (c *PaymentClient) RefundPayment(ctx context.Context, paymentID string, req *domain.RefundRequest) (*domain.Payment, error) {
	body := refundBody{}
	if req != nil && req.Value != nil {
		v := req.Value.InexactFloat64()
		body.Value = &v
	}

	var p domain.Payment
	if err := c.caller.Call(ctx, http.MethodPost, paymentPath(paymentID, "refund"), body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func paymentPath(paymentID, action string) string {
	p := "/payments/" + url.PathEscape(paymentID)
	if action != "" {
		p += "/" + action
	}
	return p
}
