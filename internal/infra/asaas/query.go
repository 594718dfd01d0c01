package asaas

import (
	"net/url"
	"strconv"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
)

// Date fields accepted by the payment list range filters.
var paymentDateFields = map[string]bool{
	"dateCreated": true,
	"dueDate":     true,
	"paymentDate": true,
}

// ValidDateField reports whether f can be used with the [ge]/[le] filters.
func ValidDateField(f string) bool {
	return paymentDateFields[f]
}

// encodePaymentFilter renders f as the GET /payments query string, without
// the leading "?". Range bounds become `<field>[ge]` and `<field>[le]`.
func encodePaymentFilter(f domain.PaymentFilter) string {
	q := url.Values{}

	if f.Customer != "" {
		q.Set("customer", f.Customer)
	}
	if f.ExternalReference != "" {
		q.Set("externalReference", f.ExternalReference)
	}
	if f.BillingType != "" {
		q.Set("billingType", string(f.BillingType))
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}

	field := f.DateField
	if field == "" {
		field = "dateCreated"
	}
	if f.From != "" {
		q.Set(field+"[ge]", f.From)
	}
	if f.To != "" {
		q.Set(field+"[le]", f.To)
	}

	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	return q.Encode()
}
