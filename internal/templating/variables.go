package templating

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
)

// DateLayout is the pt-BR date format used in rendered documents.
const DateLayout = "02/01/2006"

// Variables is the resolved variable table. Absent keys read as "".
type Variables map[string]string

// Get returns the value for key, or "" when absent.
func (v Variables) Get(key string) string {
	if v == nil {
		return ""
	}
	return v[key]
}

// WithDerived returns a copy with the derived keys filled in: first and last
// name split on the first space, and "<address>, <number>". Derived keys
// already present are kept.
func (v Variables) WithDerived() Variables {
	out := make(Variables, len(v)+3)
	for k, val := range v {
		out[k] = val
	}

	name := strings.TrimSpace(v.Get(VarClientName))
	first, last, _ := strings.Cut(name, " ")
	setDefault(out, VarClientFirstName, first)
	setDefault(out, VarClientLastName, strings.TrimSpace(last))

	address := v.Get(VarClientAddress)
	if number := v.Get(VarClientNumber); number != "" && address != "" {
		address = address + ", " + number
	}
	setDefault(out, VarClientFullAddress, address)

	return out
}

func setDefault(v Variables, key, value string) {
	if _, ok := v[key]; !ok {
		v[key] = value
	}
}

// ContractVariables builds the table for a contract form. now supplies the
// current date.
func ContractVariables(form *domain.ContractForm, now time.Time) Variables {
	if form == nil {
		return Variables{VarCurrentDate: now.Format(DateLayout)}.WithDerived()
	}

	return Variables{
		VarClientName:         form.ClientName,
		VarClientDocument:     form.ClientDocument,
		VarClientEmail:        form.ClientEmail,
		VarClientPhone:        form.ClientPhone,
		VarClientAddress:      form.ClientAddress,
		VarClientNumber:       form.ClientNumber,
		VarClientNeighborhood: form.ClientNeighborhood,
		VarClientCity:         form.ClientCity,
		VarClientState:        form.ClientState,
		VarClientZipCode:      form.ClientZipCode,
		VarVehicleModel:       form.VehicleModel,
		VarVehiclePlate:       form.VehiclePlate,
		VarTrackerModel:       form.TrackerModel,
		VarTrackerIMEI:        form.TrackerIMEI,
		VarInstallLocation:    form.InstallationLocation,
		VarMonthlyAmount:      form.ServiceMonthlyAmount,
		VarCurrentDate:        now.Format(DateLayout),
	}.WithDerived()
}

// ClientVariables builds the client part of the table from a client record.
func ClientVariables(c *domain.Client) Variables {
	if c == nil {
		return Variables{}
	}
	return Variables{
		VarClientName:         c.Name,
		VarClientDocument:     c.Document,
		VarClientEmail:        c.Email,
		VarClientPhone:        c.Phone,
		VarClientAddress:      c.Address,
		VarClientNumber:       c.Number,
		VarClientNeighborhood: c.Neighborhood,
		VarClientCity:         c.City,
		VarClientState:        c.State,
		VarClientZipCode:      c.ZipCode,
	}.WithDerived()
}

// InvoiceVariables builds the table used by invoice messages.
func InvoiceVariables(c *domain.Client, inv *domain.Invoice, paymentLink string) Variables {
	vars := ClientVariables(c)
	vars[VarPaymentLink] = paymentLink
	if inv != nil {
		amount := inv.TotalAmount
		if amount.IsZero() {
			amount = inv.Amount
		}
		vars[VarInvoiceAmount] = FormatBRL(amount)
		if !inv.DueDate.IsZero() {
			vars[VarInvoiceDueDate] = inv.DueDate.Format(DateLayout)
		}
	}
	return vars
}

// FormatBRL formats an amount as pt-BR currency digits: 1.234,56.
func FormatBRL(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
