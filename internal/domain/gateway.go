package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ============================================================
// Gateway configuration
// ============================================================

// Environment selects the Asaas base URL.
type Environment string

const (
	EnvironmentSandbox    Environment = "sandbox"
	EnvironmentProduction Environment = "production"
)

// Valid reports whether e is a known environment.
func (e Environment) Valid() bool {
	return e == EnvironmentSandbox || e == EnvironmentProduction
}

// GatewayConfig is the persisted Asaas credential set. The JSON shape is
// shared with the legacy front end and must not change.
type GatewayConfig struct {
	APIKey      string      `json:"apiKey"`
	Environment Environment `json:"environment"`
	CompanyID   string      `json:"companyId,omitempty"`
	CompanyName string      `json:"companyName,omitempty"`
}

// Configured reports whether the config carries a credential.
func (c *GatewayConfig) Configured() bool {
	return c != nil && c.APIKey != ""
}

// Redacted returns a copy safe to log or return to the UI.
func (c GatewayConfig) Redacted() GatewayConfig {
	if len(c.APIKey) > 8 {
		c.APIKey = c.APIKey[:4] + "****" + c.APIKey[len(c.APIKey)-4:]
	} else if c.APIKey != "" {
		c.APIKey = "****"
	}
	return c
}

// GatewayConfigRequest is the body of the config endpoints.
type GatewayConfigRequest struct {
	APIKey      string      `json:"apiKey" validate:"required"`
	Environment Environment `json:"environment" validate:"omitempty,oneof=sandbox production"`
	CompanyID   string      `json:"companyId,omitempty"`
	CompanyName string      `json:"companyName,omitempty"`
}

// ============================================================
// Customers
// ============================================================

// GatewayCustomer is the remote customer entity, keyed by cpfCnpj.
type GatewayCustomer struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Email                string `json:"email,omitempty"`
	Phone                string `json:"phone,omitempty"`
	MobilePhone          string `json:"mobilePhone,omitempty"`
	Address              string `json:"address,omitempty"`
	AddressNumber        string `json:"addressNumber,omitempty"`
	Complement           string `json:"complement,omitempty"`
	Province             string `json:"province,omitempty"`
	PostalCode           string `json:"postalCode,omitempty"`
	CpfCnpj              string `json:"cpfCnpj"`
	PersonType           string `json:"personType,omitempty"` // FISICA | JURIDICA
	City                 string `json:"city,omitempty"`
	State                string `json:"state,omitempty"`
	Country              string `json:"country,omitempty"`
	ExternalReference    string `json:"externalReference,omitempty"`
	NotificationDisabled bool   `json:"notificationDisabled"`
}

// SyncCustomerResponse is returned by POST /v1/gateway/customers/sync.
type SyncCustomerResponse struct {
	ClientID   string `json:"clientId"`
	CustomerID string `json:"customerId"`
}

// ============================================================
// Payments
// ============================================================

// BillingType selects how the gateway collects a payment.
type BillingType string

const (
	BillingPix        BillingType = "PIX"
	BillingBoleto     BillingType = "BOLETO"
	BillingCreditCard BillingType = "CREDIT_CARD"
)

// Valid reports whether b is a supported billing type.
func (b BillingType) Valid() bool {
	switch b {
	case BillingPix, BillingBoleto, BillingCreditCard:
		return true
	}
	return false
}

// Payment statuses reported by the gateway. The BFA never drives these
// transitions; it only reads and forwards them.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusReceived  = "RECEIVED"
	PaymentStatusConfirmed = "CONFIRMED"
	PaymentStatusOverdue   = "OVERDUE"
	PaymentStatusRefunded  = "REFUNDED"
	PaymentStatusCanceled  = "CANCELED"
)

// Payment is the remote payment entity (the subset the back office reads).
type Payment struct {
	ID                    string          `json:"id"`
	Status                string          `json:"status"`
	Customer              string          `json:"customer,omitempty"`
	BillingType           BillingType     `json:"billingType,omitempty"`
	Value                 decimal.Decimal `json:"value"`
	NetValue              decimal.Decimal `json:"netValue,omitempty"`
	DueDate               string          `json:"dueDate"`
	Description           string          `json:"description,omitempty"`
	ExternalReference     string          `json:"externalReference,omitempty"`
	DateCreated           string          `json:"dateCreated,omitempty"`
	PaymentDate           string          `json:"paymentDate,omitempty"`
	ClientPaymentDate     string          `json:"clientPaymentDate,omitempty"`
	InvoiceURL            string          `json:"invoiceUrl,omitempty"`
	BankSlipURL           string          `json:"bankSlipUrl,omitempty"`
	InvoiceNumber         string          `json:"invoiceNumber,omitempty"`
	NossoNumero           string          `json:"nossoNumero,omitempty"`
	TransactionReceiptURL string          `json:"transactionReceiptUrl,omitempty"`
	Deleted               bool            `json:"deleted,omitempty"`
	Refunds               []Refund        `json:"refunds,omitempty"`
}

// Refund is one refund entry on a payment.
type Refund struct {
	DateCreated           string          `json:"dateCreated"`
	Status                string          `json:"status"`
	Value                 decimal.Decimal `json:"value"`
	Description           string          `json:"description,omitempty"`
	EffectiveDate         string          `json:"effectiveDate,omitempty"`
	TransactionReceiptURL string          `json:"transactionReceiptUrl,omitempty"`
}

// PaymentList is a page of payments.
type PaymentList struct {
	HasMore    bool      `json:"hasMore"`
	TotalCount int       `json:"totalCount"`
	Limit      int       `json:"limit"`
	Offset     int       `json:"offset"`
	Data       []Payment `json:"data"`
}

// PixQrCode is the PIX copy-and-paste payload and QR image.
type PixQrCode struct {
	EncodedImage   string `json:"encodedImage"`
	Payload        string `json:"payload"`
	ExpirationDate string `json:"expirationDate"`
}

// BoletoInfo groups the bank slip link and its typeable line.
type BoletoInfo struct {
	BankSlipURL         string `json:"bankSlipUrl"`
	IdentificationField string `json:"identificationField"`
}

// PaymentRequest is what the BFA sends to create a payment.
type PaymentRequest struct {
	Customer          string          `json:"customer"`
	BillingType       BillingType     `json:"billingType"`
	Value             decimal.Decimal `json:"value"`
	DueDate           string          `json:"dueDate"`
	Description       string          `json:"description"`
	ExternalReference string          `json:"externalReference"`
	PostalService     bool            `json:"postalService"`
}

// PaymentFilter holds the list filters of GET /payments. Date bounds use the
// gateway's `[ge]`/`[le]` operators and YYYY-MM-DD values.
type PaymentFilter struct {
	Customer          string
	ExternalReference string
	BillingType       BillingType
	Status            string
	DateField         string // dateCreated | dueDate | paymentDate
	From              string
	To                string
	Offset            int
	Limit             int
}

// ChargeInvoiceRequest is the body of POST /v1/gateway/invoices/charge and
// POST /v1/gateway/payments.
type ChargeInvoiceRequest struct {
	Invoice     Invoice     `json:"invoice"`
	Client      Client      `json:"client"`
	BillingType BillingType `json:"billingType" validate:"required,oneof=PIX BOLETO CREDIT_CARD"`
}

// ChargeResult is returned by the invoice charge flow: the created payment
// plus the billing-type specific enrichment.
type ChargeResult struct {
	PaymentID   string          `json:"payment_id"`
	CustomerID  string          `json:"customer_id"`
	Status      string          `json:"status"`
	Value       decimal.Decimal `json:"value"`
	BillingType BillingType     `json:"billing_type"`
	Pix         *PixQrCode      `json:"pix,omitempty"`
	Boleto      *BoletoInfo     `json:"boleto,omitempty"`
	InvoiceURL  string          `json:"invoice_url,omitempty"`
}

// RefundRequest is the body of POST /v1/gateway/payments/{id}/refund.
type RefundRequest struct {
	Value *decimal.Decimal `json:"value,omitempty"`
}

// PaymentStatusResponse is returned by GET /v1/gateway/payments/{id}.
type PaymentStatusResponse struct {
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
}

// ============================================================
// Proxy relay
// ============================================================

// ProxyEnvelope is the POST body understood by the proxy relay when the
// target cannot travel in the query string.
type ProxyEnvelope struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Data    json.RawMessage   `json:"data,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}
