// Package templating renders contract and message templates by substituting
// placeholder tokens from a fixed, declared alias table.
//
// Four token vocabularies coexist and all resolve through the same table:
// `{snake_case}` contract tokens, `{{dotted.case}}` contract tokens, the
// legacy billing-system names (`{cliente_firstname}`, ...) and the
// `{{message}}` tokens used by WhatsApp templates. Adding a token is adding a
// row to the table, never a new code path.
package templating

// Variable keys of the variable table.
const (
	VarClientName         = "cliente_nome"
	VarClientDocument     = "cliente_documento"
	VarClientEmail        = "cliente_email"
	VarClientPhone        = "cliente_telefone"
	VarClientAddress      = "cliente_endereco"
	VarClientNumber       = "cliente_numero"
	VarClientNeighborhood = "cliente_bairro"
	VarClientCity         = "cliente_cidade"
	VarClientState        = "cliente_estado"
	VarClientZipCode      = "cliente_cep"
	VarVehicleModel       = "veiculo_modelo"
	VarVehiclePlate       = "veiculo_placa"
	VarTrackerModel       = "rastreador_modelo"
	VarTrackerIMEI        = "rastreador_imei"
	VarInstallLocation    = "instalacao_local"
	VarMonthlyAmount      = "servico_valor_mensal"
	VarCurrentDate        = "data_atual"

	// Derived from the fields above by Variables.WithDerived.
	VarClientFirstName   = "cliente_primeiro_nome"
	VarClientLastName    = "cliente_sobrenome"
	VarClientFullAddress = "cliente_endereco_completo"

	// Invoice message fields.
	VarInvoiceAmount  = "fatura_valor"
	VarInvoiceDueDate = "fatura_vencimento"
	VarPaymentLink    = "fatura_link"
)

// Vocabulary names the grammar a token belongs to.
type Vocabulary string

const (
	VocabularySnake   Vocabulary = "snake"
	VocabularyDotted  Vocabulary = "dotted"
	VocabularyLegacy  Vocabulary = "legacy"
	VocabularyMessage Vocabulary = "message"
)

// Alias maps one literal token to a variable of the table.
type Alias struct {
	Token       string     `yaml:"token" json:"token"`
	Variable    string     `yaml:"variable" json:"variable"`
	Vocabulary  Vocabulary `yaml:"vocabulary,omitempty" json:"vocabulary,omitempty"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
}

// DefaultAliases returns the built-in alias table. The tokens are part of the
// stored contract templates and must be kept verbatim.
func DefaultAliases() []Alias {
	return []Alias{
		// {snake_case}
		{Token: "{cliente_nome}", Variable: VarClientName, Vocabulary: VocabularySnake, Description: "Nome completo do cliente"},
		{Token: "{cliente_documento}", Variable: VarClientDocument, Vocabulary: VocabularySnake, Description: "CPF/CNPJ do cliente"},
		{Token: "{cliente_email}", Variable: VarClientEmail, Vocabulary: VocabularySnake, Description: "Email do cliente"},
		{Token: "{cliente_telefone}", Variable: VarClientPhone, Vocabulary: VocabularySnake, Description: "Telefone do cliente"},
		{Token: "{cliente_endereco}", Variable: VarClientAddress, Vocabulary: VocabularySnake, Description: "Endereço do cliente"},
		{Token: "{cliente_numero}", Variable: VarClientNumber, Vocabulary: VocabularySnake, Description: "Número do endereço"},
		{Token: "{cliente_bairro}", Variable: VarClientNeighborhood, Vocabulary: VocabularySnake, Description: "Bairro do cliente"},
		{Token: "{cliente_cidade}", Variable: VarClientCity, Vocabulary: VocabularySnake, Description: "Cidade do cliente"},
		{Token: "{cliente_estado}", Variable: VarClientState, Vocabulary: VocabularySnake, Description: "Estado do cliente"},
		{Token: "{cliente_cep}", Variable: VarClientZipCode, Vocabulary: VocabularySnake, Description: "CEP do cliente"},
		{Token: "{veiculo_modelo}", Variable: VarVehicleModel, Vocabulary: VocabularySnake, Description: "Modelo do veículo"},
		{Token: "{veiculo_placa}", Variable: VarVehiclePlate, Vocabulary: VocabularySnake, Description: "Placa do veículo"},
		{Token: "{rastreador_modelo}", Variable: VarTrackerModel, Vocabulary: VocabularySnake, Description: "Modelo do rastreador"},
		{Token: "{rastreador_imei}", Variable: VarTrackerIMEI, Vocabulary: VocabularySnake, Description: "IMEI do rastreador"},
		{Token: "{instalacao_local}", Variable: VarInstallLocation, Vocabulary: VocabularySnake, Description: "Local de instalação"},
		{Token: "{servico_valor_mensal}", Variable: VarMonthlyAmount, Vocabulary: VocabularySnake, Description: "Valor mensal do serviço"},
		{Token: "{data_atual}", Variable: VarCurrentDate, Vocabulary: VocabularySnake, Description: "Data atual"},

		// {{dotted.case}}
		{Token: "{{cliente.nome}}", Variable: VarClientName, Vocabulary: VocabularyDotted},
		{Token: "{{cliente.documento}}", Variable: VarClientDocument, Vocabulary: VocabularyDotted},
		{Token: "{{cliente.email}}", Variable: VarClientEmail, Vocabulary: VocabularyDotted},
		{Token: "{{cliente.telefone}}", Variable: VarClientPhone, Vocabulary: VocabularyDotted},
		{Token: "{{cliente.endereco}}", Variable: VarClientAddress, Vocabulary: VocabularyDotted},
		{Token: "{{cliente.numero}}", Variable: VarClientNumber, Vocabulary: VocabularyDotted},
		{Token: "{{cliente.bairro}}", Variable: VarClientNeighborhood, Vocabulary: VocabularyDotted},
		{Token: "{{cliente.cidade}}", Variable: VarClientCity, Vocabulary: VocabularyDotted},
		{Token: "{{cliente.estado}}", Variable: VarClientState, Vocabulary: VocabularyDotted},
		{Token: "{{cliente.cep}}", Variable: VarClientZipCode, Vocabulary: VocabularyDotted},
		{Token: "{{veiculo.modelo}}", Variable: VarVehicleModel, Vocabulary: VocabularyDotted},
		{Token: "{{veiculo.placa}}", Variable: VarVehiclePlate, Vocabulary: VocabularyDotted},
		{Token: "{{rastreador.modelo}}", Variable: VarTrackerModel, Vocabulary: VocabularyDotted},
		{Token: "{{rastreador.imei}}", Variable: VarTrackerIMEI, Vocabulary: VocabularyDotted},
		{Token: "{{instalacao.local}}", Variable: VarInstallLocation, Vocabulary: VocabularyDotted},
		{Token: "{{servico.valor_mensal}}", Variable: VarMonthlyAmount, Vocabulary: VocabularyDotted},
		{Token: "{{data.atual}}", Variable: VarCurrentDate, Vocabulary: VocabularyDotted},

		// legacy billing-system field names
		{Token: "{cliente_firstname}", Variable: VarClientFirstName, Vocabulary: VocabularyLegacy},
		{Token: "{cliente_lastname}", Variable: VarClientLastName, Vocabulary: VocabularyLegacy},
		{Token: "{cliente_name}", Variable: VarClientName, Vocabulary: VocabularyLegacy},
		{Token: "{cliente_address1}", Variable: VarClientFullAddress, Vocabulary: VocabularyLegacy},
		{Token: "{cliente_customfields1}", Variable: VarClientDocument, Vocabulary: VocabularyLegacy},
		{Token: "{cliente_city}", Variable: VarClientCity, Vocabulary: VocabularyLegacy},
		{Token: "{cliente_state}", Variable: VarClientState, Vocabulary: VocabularyLegacy},
		{Token: "{cliente_postcode}", Variable: VarClientZipCode, Vocabulary: VocabularyLegacy},
		{Token: "{servico_recurringamount}", Variable: VarMonthlyAmount, Vocabulary: VocabularyLegacy},
		{Token: "{servico_regdate}", Variable: VarCurrentDate, Vocabulary: VocabularyLegacy},

		// WhatsApp message templates
		{Token: "{{client_name}}", Variable: VarClientName, Vocabulary: VocabularyMessage, Description: "Nome do cliente"},
		{Token: "{{amount}}", Variable: VarInvoiceAmount, Vocabulary: VocabularyMessage, Description: "Valor da fatura/transação"},
		{Token: "{{due_date}}", Variable: VarInvoiceDueDate, Vocabulary: VocabularyMessage, Description: "Data de vencimento"},
		{Token: "{{payment_link}}", Variable: VarPaymentLink, Vocabulary: VocabularyMessage, Description: "Link para pagamento"},
	}
}
