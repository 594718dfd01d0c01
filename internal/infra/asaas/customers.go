package asaas

import (
	"context"
	"net/http"
	"net/url"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/port"
)

// CustomerClient is the gateway customer API.
type CustomerClient struct {
	caller port.GatewayCaller
}

// NewCustomerClient creates a CustomerClient on top of a gateway caller.
func NewCustomerClient(caller port.GatewayCaller) *CustomerClient {
	return &CustomerClient{caller: caller}
}

type customerList struct {
	TotalCount int                      `json:"totalCount"`
	Data       []domain.GatewayCustomer `json:"data"`
}

// customerRequest is the create body. Tax id and postal code go digits-only.
type customerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email,omitempty"`
	Phone                string `json:"phone,omitempty"`
	CpfCnpj              string `json:"cpfCnpj"`
	Address              string `json:"address,omitempty"`
	AddressNumber        string `json:"addressNumber"`
	Province             string `json:"province"`
	PostalCode           string `json:"postalCode,omitempty"`
	City                 string `json:"city,omitempty"`
	State                string `json:"state,omitempty"`
	ExternalReference    string `json:"externalReference,omitempty"`
	NotificationDisabled bool   `json:"notificationDisabled"`
}

// FindByTaxID returns the first customer registered with taxID, or nil when
// there is none. Remote failures are returned as errors.
func (c *CustomerClient) FindByTaxID(ctx context.Context, taxID string) (*domain.GatewayCustomer, error) {
	digits := domain.OnlyDigits(taxID)
	if digits == "" {
		return nil, &domain.ErrValidation{Field: "cpfCnpj", Message: "CPF/CNPJ do cliente é obrigatório"}
	}

	var list customerList
	if err := c.caller.Call(ctx, http.MethodGet, "/customers?cpfCnpj="+url.QueryEscape(digits), nil, &list); err != nil {
		return nil, err
	}
	if len(list.Data) == 0 {
		return nil, nil
	}
	return &list.Data[0], nil
}

// Create registers client as a new gateway customer. Callers should go
// through the find-or-create sync instead of calling this directly.
func (c *CustomerClient) Create(ctx context.Context, client *domain.Client) (*domain.GatewayCustomer, error) {
	if client == nil {
		return nil, &domain.ErrValidation{Field: "client", Message: "Cliente não informado"}
	}

	body := customerRequest{
		Name:                 client.Name,
		Email:                client.Email,
		Phone:                domain.OnlyDigits(client.Phone),
		CpfCnpj:              domain.OnlyDigits(client.Document),
		Address:              client.Address,
		AddressNumber:        client.Number,
		Province:             client.Neighborhood,
		PostalCode:           domain.OnlyDigits(client.ZipCode),
		City:                 client.City,
		State:                client.State,
		ExternalReference:    client.ID,
		NotificationDisabled: false,
	}
	if body.CpfCnpj == "" {
		return nil, &domain.ErrValidation{Field: "cpfCnpj", Message: "CPF/CNPJ do cliente é obrigatório"}
	}

	var created domain.GatewayCustomer
	if err := c.caller.Call(ctx, http.MethodPost, "/customers", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
