package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/observability"
	"github.com/boddenberg/rastreio-bfa-go/internal/port"
	"github.com/boddenberg/rastreio-bfa-go/internal/templating"
)

// MessageService sends the stock WhatsApp notices (welcome, invoice,
// overdue, payment received).
type MessageService struct {
	engine    *templating.Engine
	templates map[templating.MessageKind]templating.MessageTemplate
	sender    port.MessageSender
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewMessageService creates the message service with the default templates.
func NewMessageService(engine *templating.Engine, sender port.MessageSender, metrics *observability.Metrics, logger *zap.Logger) *MessageService {
	return &MessageService{
		engine:    engine,
		templates: templating.DefaultMessageTemplates(),
		sender:    sender,
		metrics:   metrics,
		logger:    logger,
	}
}

// Templates returns the available notice templates.
func (s *MessageService) Templates() map[templating.MessageKind]templating.MessageTemplate {
	return s.templates
}

// RenderNotice renders the notice of the given kind without sending it.
func (s *MessageService) RenderNotice(req *domain.InvoiceNoticeRequest) (string, error) {
	tpl, ok := s.templates[templating.MessageKind(req.Kind)]
	if !ok {
		return "", &domain.ErrValidation{Field: "kind", Message: fmt.Sprintf("Modelo de mensagem desconhecido: %s", req.Kind)}
	}
	vars := templating.InvoiceVariables(&req.Client, &req.Invoice, req.PaymentLink)
	return s.engine.Render(tpl.Content, vars), nil
}

// SendInvoiceNotice renders and sends an invoice notice over WhatsApp.
func (s *MessageService) SendInvoiceNotice(ctx context.Context, req *domain.InvoiceNoticeRequest) (*domain.MessageReceipt, error) {
	ctx, span := tracer.Start(ctx, "MessageService.SendInvoiceNotice")
	defer span.End()

	text, err := s.RenderNotice(req)
	if err != nil {
		return nil, err
	}
	number, err := normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrTemplateRender(observability.RenderMessage)

	receipt, err := s.sender.SendText(ctx, number, text)
	if err != nil {
		return nil, fmt.Errorf("send notice: %w", err)
	}

	s.logger.Info("invoice notice sent",
		zap.String("kind", req.Kind),
		zap.String("invoice_id", req.Invoice.ID),
		zap.String("message_id", receipt.MessageID),
	)
	return receipt, nil
}
