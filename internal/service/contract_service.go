package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/observability"
	"github.com/boddenberg/rastreio-bfa-go/internal/port"
	"github.com/boddenberg/rastreio-bfa-go/internal/templating"
)

// ContractService renders contract documents and delivers signature links.
type ContractService struct {
	engine  *templating.Engine
	signer  *SignatureSigner
	sender  port.MessageSender
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewContractService creates the contract service.
func NewContractService(
	engine *templating.Engine,
	signer *SignatureSigner,
	sender port.MessageSender,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ContractService {
	return &ContractService{
		engine:  engine,
		signer:  signer,
		sender:  sender,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Preview renders the form's content and lists tokens left unresolved.
func (s *ContractService) Preview(form *domain.ContractForm) *domain.ContractPreview {
	if form == nil {
		return &domain.ContractPreview{UnresolvedTokens: []string{}}
	}
	content := s.render(form)
	s.metrics.IncrTemplateRender(observability.RenderPreview)

	unresolved := s.engine.Unresolved(content)
	if unresolved == nil {
		unresolved = []string{}
	}
	return &domain.ContractPreview{
		Title:            form.Title,
		Content:          content,
		UnresolvedTokens: unresolved,
	}
}

// Render returns the final contract text for the form.
func (s *ContractService) Render(form *domain.ContractForm) string {
	return s.render(form)
}

func (s *ContractService) render(form *domain.ContractForm) string {
	if form == nil {
		return ""
	}
	return s.engine.Render(form.Content, templating.ContractVariables(form, s.now()))
}

// DefaultContent returns the stock contract template.
func (s *ContractService) DefaultContent() string {
	return templating.DefaultContractContent
}

// Variables lists the tokens documented for contract authors.
func (s *ContractService) Variables() []domain.TemplateVariable {
	aliases := s.engine.Documented(templating.VocabularySnake)
	out := make([]domain.TemplateVariable, 0, len(aliases))
	for _, a := range aliases {
		out = append(out, domain.TemplateVariable{Key: a.Token, Description: a.Description})
	}
	return out
}

// SignatureLink issues the online signature link for a contract.
func (s *ContractService) SignatureLink(contractID string) (*domain.SignatureLink, error) {
	return s.signer.Link(contractID)
}

// VerifySignature returns the contract id a signature token belongs to.
func (s *ContractService) VerifySignature(token string) (string, error) {
	return s.signer.Verify(token)
}

// SendViaWhatsApp sends the signature link of a contract to phone. An empty
// contractID gets a fresh one.
func (s *ContractService) SendViaWhatsApp(ctx context.Context, phone string, form *domain.ContractForm, contractID string) (*domain.SendContractResponse, error) {
	ctx, span := tracer.Start(ctx, "ContractService.SendViaWhatsApp")
	defer span.End()

	if form == nil {
		return nil, &domain.ErrValidation{Field: "contract", Message: "Contrato não informado"}
	}
	number, err := normalizePhone(phone)
	if err != nil {
		return nil, err
	}
	if contractID == "" {
		contractID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("contract.id", contractID))

	link, err := s.signer.Link(contractID)
	if err != nil {
		return nil, err
	}

	text := signatureMessage(form.Title, form.ClientName, link.URL)
	s.metrics.IncrTemplateRender(observability.RenderSend)

	receipt, err := s.sender.SendText(ctx, number, text)
	if err != nil {
		return nil, fmt.Errorf("send contract: %w", err)
	}

	s.logger.Info("contract sent",
		zap.String("contract_id", contractID),
		zap.String("message_id", receipt.MessageID),
	)
	return &domain.SendContractResponse{
		ContractID: contractID,
		Phone:      number,
		MessageID:  receipt.MessageID,
		Link:       link.URL,
	}, nil
}

func signatureMessage(title, clientName, link string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n\n", title)
	fmt.Fprintf(&b, "Olá %s,\n\n", clientName)
	b.WriteString("Seu contrato de rastreamento veicular está pronto para assinatura. ")
	b.WriteString("Para assinar online, clique no link abaixo:\n\n")
	b.WriteString(link + "\n\n")
	b.WriteString("O link é válido por 7 dias. Se precisar de ajuda, entre em contato conosco.\n\n")
	b.WriteString("Atenciosamente,\n")
	b.WriteString("Equipe de Rastreamento")
	return b.String()
}

// normalizePhone keeps digits only and adds the Brazil country code when
// it is missing.
func normalizePhone(phone string) (string, error) {
	digits := domain.OnlyDigits(phone)
	if len(digits) < 10 {
		return "", &domain.ErrValidation{Field: "phone", Message: "Telefone inválido"}
	}
	if !strings.HasPrefix(digits, "55") {
		digits = "55" + digits
	}
	return digits, nil
}
