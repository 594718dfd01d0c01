package domain

// Client is the back-office customer record (the person or company that
// owns the tracked vehicle).
type Client struct {
	ID           string `json:"id"`
	Name         string `json:"name" validate:"required,min=3"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone"`
	Document     string `json:"document" validate:"required,min=11"` // CPF/CNPJ
	Address      string `json:"address"`
	Number       string `json:"number,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`

	// AsaasID caches the remote customer id once the client was synced.
	AsaasID string `json:"asaas_id,omitempty"`
}

// Vehicle identifies the tracked vehicle.
type Vehicle struct {
	Model string `json:"model"`
	Plate string `json:"plate"`
}

// Tracker identifies the installed tracking device.
type Tracker struct {
	Model string `json:"model"`
	IMEI  string `json:"imei"`
}

// OnlyDigits strips every non-digit from s (CPF/CNPJ, CEP, phone).
func OnlyDigits(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b = append(b, s[i])
		}
	}
	return string(b)
}
