package domain

// ============================================================
// Contracts
// ============================================================

// ContractForm carries everything the contract editor collects: the
// template body plus the client, vehicle, tracker and service fields used to
// fill it.
type ContractForm struct {
	Title   string `json:"title" validate:"required,min=3"`
	Content string `json:"content" validate:"required,min=10"`
	Status  string `json:"status"`

	ClientID             string `json:"clientId,omitempty"`
	ClientName           string `json:"clientName" validate:"required,min=3"`
	ClientDocument       string `json:"clientDocument" validate:"required,min=11"`
	ClientEmail          string `json:"clientEmail" validate:"omitempty,email"`
	ClientPhone          string `json:"clientPhone"`
	ClientAddress        string `json:"clientAddress"`
	ClientNumber         string `json:"clientNumber"`
	ClientNeighborhood   string `json:"clientNeighborhood"`
	ClientCity           string `json:"clientCity"`
	ClientState          string `json:"clientState"`
	ClientZipCode        string `json:"clientZipCode"`
	VehicleModel         string `json:"vehicleModel"`
	VehiclePlate         string `json:"vehiclePlate"`
	TrackerModel         string `json:"trackerModel"`
	TrackerIMEI          string `json:"trackerIMEI"`
	InstallationLocation string `json:"installationLocation"`
	ServiceMonthlyAmount string `json:"serviceMonthlyAmount"`
}

// ContractPreview is the rendered contract returned to the editor.
type ContractPreview struct {
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	UnresolvedTokens []string `json:"unresolvedTokens"`
}

// TemplateVariable documents one token available to contract authors.
type TemplateVariable struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

// SignatureLink is the link sent to the client to sign a contract online.
type SignatureLink struct {
	ContractID string `json:"contractId"`
	URL        string `json:"url"`
	ExpiresAt  string `json:"expiresAt"`
}

// SendContractRequest is the body of POST /v1/contracts/{contractId}/send-whatsapp.
type SendContractRequest struct {
	Phone    string       `json:"phone" validate:"required,min=10"`
	Contract ContractForm `json:"contract"`
}

// SendContractResponse reports a delivered signature link.
type SendContractResponse struct {
	ContractID string `json:"contractId"`
	Phone      string `json:"phone"`
	MessageID  string `json:"messageId,omitempty"`
	Link       string `json:"link"`
}
