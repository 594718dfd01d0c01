package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/asaas"
	"github.com/boddenberg/rastreio-bfa-go/internal/port"
)

const gatewayDateLayout = "2006-01-02"

// PaymentService creates invoice payments at the gateway and reads them
// back.
type PaymentService struct {
	gateway   port.PaymentGateway
	customers *CustomerService
	logger    *zap.Logger
}

// NewPaymentService creates the payment service.
func NewPaymentService(gateway port.PaymentGateway, customers *CustomerService, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		gateway:   gateway,
		customers: customers,
		logger:    logger,
	}
}

// CreatePayment creates a payment for invoice. The client must already be
// synced; without an AsaasID nothing is sent.
func (s *PaymentService) CreatePayment(ctx context.Context, invoice *domain.Invoice, client *domain.Client, billingType domain.BillingType) (*domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "PaymentService.CreatePayment")
	defer span.End()

	if client == nil || client.AsaasID == "" {
		return nil, &domain.ErrValidation{Field: "client.asaas_id", Message: "Cliente não sincronizado com o Asaas"}
	}
	if invoice == nil {
		return nil, &domain.ErrValidation{Field: "invoice", Message: "Fatura não informada"}
	}
	if !billingType.Valid() {
		return nil, &domain.ErrValidation{Field: "billingType", Message: fmt.Sprintf("Forma de pagamento inválida: %s", billingType)}
	}
	span.SetAttributes(
		attribute.String("invoice.id", invoice.ID),
		attribute.String("payment.billing_type", string(billingType)),
	)

	p, err := s.gateway.CreatePayment(ctx, &domain.PaymentRequest{
		Customer:          client.AsaasID,
		BillingType:       billingType,
		Value:             invoiceValue(invoice),
		DueDate:           invoice.DueDate.Format(gatewayDateLayout),
		Description:       "Fatura #" + invoice.InvoiceNumber,
		ExternalReference: invoice.ID,
		PostalService:     false,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return p, nil
}

// ChargeInvoice syncs the client, creates the payment and attaches what the
// payer needs for the chosen billing type.
func (s *PaymentService) ChargeInvoice(ctx context.Context, invoice *domain.Invoice, client *domain.Client, billingType domain.BillingType) (*domain.ChargeResult, error) {
	ctx, span := tracer.Start(ctx, "PaymentService.ChargeInvoice")
	defer span.End()

	customerID, err := s.customers.Sync(ctx, client)
	if err != nil {
		return nil, err
	}

	p, err := s.CreatePayment(ctx, invoice, client, billingType)
	if err != nil {
		return nil, err
	}

	result := &domain.ChargeResult{
		PaymentID:   p.ID,
		CustomerID:  customerID,
		Status:      p.Status,
		Value:       p.Value,
		BillingType: billingType,
	}

	switch billingType {
	case domain.BillingPix:
		qr, err := s.gateway.GetPixQrCode(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("pix qr code: %w", err)
		}
		result.Pix = qr

	case domain.BillingBoleto:
		boleto, err := s.boleto(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		result.Boleto = boleto

	case domain.BillingCreditCard:
		result.InvoiceURL = p.InvoiceURL
		if result.InvoiceURL == "" {
			full, err := s.gateway.GetPayment(ctx, p.ID)
			if err != nil {
				return nil, fmt.Errorf("payment: %w", err)
			}
			result.InvoiceURL = full.InvoiceURL
		}
	}

	s.logger.Info("invoice charged",
		zap.String("invoice_id", invoice.ID),
		zap.String("payment_id", p.ID),
		zap.String("billing_type", string(billingType)),
	)
	return result, nil
}

// boleto fetches the bank slip URL and the typeable line concurrently.
func (s *PaymentService) boleto(ctx context.Context, paymentID string) (*domain.BoletoInfo, error) {
	var info domain.BoletoInfo

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.gateway.GetPayment(gCtx, paymentID)
		if err != nil {
			return fmt.Errorf("boleto url: %w", err)
		}
		info.BankSlipURL = p.BankSlipURL
		return nil
	})
	g.Go(func() error {
		field, err := s.gateway.GetIdentificationField(gCtx, paymentID)
		if err != nil {
			return fmt.Errorf("identification field: %w", err)
		}
		info.IdentificationField = field
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetPixQrCode returns the PIX payload and QR image of a payment.
func (s *PaymentService) GetPixQrCode(ctx context.Context, paymentID string) (*domain.PixQrCode, error) {
	ctx, span := tracer.Start(ctx, "PaymentService.GetPixQrCode")
	defer span.End()

	if err := requirePaymentID(paymentID); err != nil {
		return nil, err
	}
	return s.gateway.GetPixQrCode(ctx, paymentID)
}

// GetBoletoURL returns the bank slip link of a payment.
func (s *PaymentService) GetBoletoURL(ctx context.Context, paymentID string) (string, error) {
	ctx, span := tracer.Start(ctx, "PaymentService.GetBoletoURL")
	defer span.End()

	if err := requirePaymentID(paymentID); err != nil {
		return "", err
	}
	p, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return "", err
	}
	return p.BankSlipURL, nil
}

// GetBoletoIdentificationField returns the typeable line of a boleto.
func (s *PaymentService) GetBoletoIdentificationField(ctx context.Context, paymentID string) (string, error) {
	ctx, span := tracer.Start(ctx, "PaymentService.GetBoletoIdentificationField")
	defer span.End()

	if err := requirePaymentID(paymentID); err != nil {
		return "", err
	}
	return s.gateway.GetIdentificationField(ctx, paymentID)
}

// GetBoleto returns the bank slip URL and typeable line together.
func (s *PaymentService) GetBoleto(ctx context.Context, paymentID string) (*domain.BoletoInfo, error) {
	ctx, span := tracer.Start(ctx, "PaymentService.GetBoleto")
	defer span.End()

	if err := requirePaymentID(paymentID); err != nil {
		return nil, err
	}
	return s.boleto(ctx, paymentID)
}

// GetPaymentStatus returns the gateway status of a payment as is.
func (s *PaymentService) GetPaymentStatus(ctx context.Context, paymentID string) (*domain.PaymentStatusResponse, error) {
	ctx, span := tracer.Start(ctx, "PaymentService.GetPaymentStatus")
	defer span.End()

	if err := requirePaymentID(paymentID); err != nil {
		return nil, err
	}
	p, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return &domain.PaymentStatusResponse{PaymentID: p.ID, Status: p.Status}, nil
}

// ListPayments lists payments matching filter.
func (s *PaymentService) ListPayments(ctx context.Context, filter domain.PaymentFilter) (*domain.PaymentList, error) {
	ctx, span := tracer.Start(ctx, "PaymentService.ListPayments")
	defer span.End()

	if filter.DateField != "" && !asaas.ValidDateField(filter.DateField) {
		return nil, &domain.ErrValidation{Field: "dateField", Message: fmt.Sprintf("Campo de data inválido: %s", filter.DateField)}
	}
	if filter.BillingType != "" && !filter.BillingType.Valid() {
		return nil, &domain.ErrValidation{Field: "billingType", Message: fmt.Sprintf("Forma de pagamento inválida: %s", filter.BillingType)}
	}
	if filter.Offset < 0 || filter.Limit < 0 {
		return nil, &domain.ErrValidation{Field: "offset", Message: "Paginação inválida"}
	}
	return s.gateway.ListPayments(ctx, filter)
}

// CancelPayment cancels a pending payment.
func (s *PaymentService) CancelPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "PaymentService.CancelPayment")
	defer span.End()

	if err := requirePaymentID(paymentID); err != nil {
		return nil, err
	}
	p, err := s.gateway.CancelPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("payment cancelled", zap.String("payment_id", paymentID))
	return p, nil
}

// RefundPayment refunds a payment; a nil amount refunds it fully.
func (s *PaymentService) RefundPayment(ctx context.Context, paymentID string, amount *decimal.Decimal) (*domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "PaymentService.RefundPayment")
	defer span.End()

	if err := requirePaymentID(paymentID); err != nil {
		return nil, err
	}
	if amount != nil && !amount.IsPositive() {
		return nil, &domain.ErrValidation{Field: "value", Message: "Valor de estorno deve ser positivo"}
	}
	p, err := s.gateway.RefundPayment(ctx, paymentID, &domain.RefundRequest{Value: amount})
	if err != nil {
		return nil, err
	}
	s.logger.Info("payment refunded", zap.String("payment_id", paymentID))
	return p, nil
}

// invoiceValue is the total due, falling back to the base amount for
// invoices created before taxes were tracked.
func invoiceValue(inv *domain.Invoice) decimal.Decimal {
	if inv.TotalAmount.IsZero() {
		return inv.Amount
	}
	return inv.TotalAmount
}

func requirePaymentID(id string) error {
	if id == "" {
		return &domain.ErrValidation{Field: "paymentId", Message: "Pagamento não informado"}
	}
	return nil
}
