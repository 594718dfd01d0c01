package templating

// MessageKind identifies one of the WhatsApp notice templates.
type MessageKind string

const (
	MessageWelcome         MessageKind = "welcome"
	MessageInvoice         MessageKind = "invoice"
	MessageOverdue         MessageKind = "overdue"
	MessagePaymentReceived MessageKind = "payment_received"
)

// MessageTemplate is a named WhatsApp text template.
type MessageTemplate struct {
	Kind    MessageKind `json:"kind"`
	Name    string      `json:"name"`
	Content string      `json:"content"`
}

// DefaultMessageTemplates returns the stock WhatsApp notices.
func DefaultMessageTemplates() map[MessageKind]MessageTemplate {
	return map[MessageKind]MessageTemplate{
		MessageWelcome: {
			Kind:    MessageWelcome,
			Name:    "Novo Cliente",
			Content: "Olá {{client_name}}, bem-vindo(a) à nossa empresa! Agradecemos por escolher nossos serviços.",
		},
		MessageInvoice: {
			Kind:    MessageInvoice,
			Name:    "Fatura Gerada",
			Content: "Olá {{client_name}}, sua fatura no valor de R$ {{amount}} foi gerada e vence em {{due_date}}. Acesse o link para pagamento: {{payment_link}}",
		},
		MessageOverdue: {
			Kind:    MessageOverdue,
			Name:    "Fatura em Atraso",
			Content: "Olá {{client_name}}, sua fatura no valor de R$ {{amount}} com vencimento em {{due_date}} está em atraso. Regularize seu pagamento: {{payment_link}}",
		},
		MessagePaymentReceived: {
			Kind:    MessagePaymentReceived,
			Name:    "Fatura Paga",
			Content: "Olá {{client_name}}, recebemos seu pagamento de R$ {{amount}}. Obrigado!",
		},
	}
}

// DefaultContractContent is the stock equipment-loan and monitoring
// contract offered by the editor for new contracts.
const DefaultContractContent = `CONTRATO DE COMODATO DE EQUIPAMENTO, MONITORAMENTO DE VEÍCULO, SISTEMA DE AUTO-GESTÃO E OUTRAS AVENÇAS

Por este instrumento particular, de um lado a empresa de rastreamento, aqui denominada "CONTRATADA", e de outro lado {cliente_nome}, inscrito(a) no CPF/CNPJ sob o nº {cliente_documento}, residente à {cliente_endereco}, nº {cliente_numero}, bairro {cliente_bairro}, na cidade de {cliente_cidade}, estado de {cliente_estado}, CEP {cliente_cep}, aqui denominado(a) "CONTRATANTE", têm entre si justo e acertado o presente INSTRUMENTO PARTICULAR DE CONTRATO DE COMODATO, PRESTAÇÃO DE SERVIÇOS E OUTRAS AVENÇAS, que se regerá pelas cláusulas e condições a seguir.

1 DO OBJETO DO CONTRATO

1.1 A CONTRATADA cede em comodato ao CONTRATANTE o rastreador modelo {rastreador_modelo}, IMEI {rastreador_imei}, instalado no veículo {veiculo_modelo}, placa {veiculo_placa}, local de instalação: {instalacao_local}, bem como a prestação de serviços de rastreamento e localização do veículo por GSM/GPRS pela sua Central 24 (vinte e quatro) horas.

2 DO VALOR

2.1 Pela prestação dos serviços o CONTRATANTE pagará à CONTRATADA o valor mensal de R$ {servico_valor_mensal}.

{cliente_cidade}, {data_atual}.

_______________________________
{cliente_nome}
`
