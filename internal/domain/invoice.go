package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice status values owned by the back office (not the gateway).
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice is a monthly tracking-service bill.
type Invoice struct {
	ID            string          `json:"id" validate:"required"`
	InvoiceNumber string          `json:"invoice_number" validate:"required"`
	ContractID    string          `json:"contract_id"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes,omitempty"`
}

// InvoiceNoticeRequest is the body of POST /v1/messages/invoice-notice.
type InvoiceNoticeRequest struct {
	Kind        string  `json:"kind" validate:"required,oneof=welcome invoice overdue payment_received"`
	Phone       string  `json:"phone" validate:"required,min=10"`
	Client      Client  `json:"client"`
	Invoice     Invoice `json:"invoice" validate:"-"`
	PaymentLink string  `json:"paymentLink"`
}
