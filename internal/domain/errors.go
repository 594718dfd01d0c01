package domain

import (
	"errors"
	"fmt"
)

// Error types for consistent error handling across the BFA.

// External service names carried by the errors below.
const (
	ServiceAsaas    = "asaas"
	ServiceWhatsApp = "whatsapp"
)

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrExternalService indicates a failure in an external service call that
// does not fit a more specific class.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error raised locally, before any
// remote call is attempted.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrNotConfigured indicates the gateway has no credential configured.
// It is always raised before any network call.
type ErrNotConfigured struct {
	Service string
}

func (e *ErrNotConfigured) Error() string {
	return fmt.Sprintf("%s is not configured: missing access token", e.Service)
}

// ErrConnectivity indicates a transport-level failure: DNS, refused
// connection, TLS, reset, or a cross-origin rejection on the browser side.
type ErrConnectivity struct {
	Service  string
	Strategy string
	Err      error
}

func (e *ErrConnectivity) Error() string {
	return fmt.Sprintf("connectivity failure [%s via %s]: %v", e.Service, e.Strategy, e.Err)
}

func (e *ErrConnectivity) Unwrap() error {
	return e.Err
}

// ErrRemoteAPI is a non-success HTTP response carrying the gateway's
// structured error payload.
type ErrRemoteAPI struct {
	Service     string
	StatusCode  int
	StatusText  string
	Code        string
	Description string
}

func (e *ErrRemoteAPI) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("%s API error: %s", e.Service, e.Description)
	}
	return fmt.Sprintf("%s API error: %d %s", e.Service, e.StatusCode, e.StatusText)
}

// UserMessage translates an error into the short pt-BR message shown to the
// back-office user. Each error class gets a distinct message; raw statuses
// and stack traces never reach the UI.
func UserMessage(err error) string {
	var notConfigured *ErrNotConfigured
	var connectivity *ErrConnectivity
	var remote *ErrRemoteAPI
	var validation *ErrValidation
	var notFound *ErrNotFound
	var circuitOpen *ErrCircuitOpen
	var timeout *ErrTimeout

	switch {
	case err == nil:
		return ""
	case errors.As(err, &notConfigured):
		if notConfigured.Service == ServiceWhatsApp {
			return "WhatsApp não configurado. Configure a URL da API, a instância e a chave nas configurações."
		}
		return "API Asaas não configurada. Configure o token de acesso nas configurações."
	case errors.As(err, &connectivity):
		return "Erro de conexão com a API Asaas. Possível problema de CORS ou rede. Ative o modo proxy nas configurações e tente novamente."
	case errors.As(err, &remote):
		if remote.Service == ServiceWhatsApp {
			return fmt.Sprintf("Erro ao enviar mensagem pelo WhatsApp: %d %s", remote.StatusCode, remote.StatusText)
		}
		if remote.Description != "" {
			return "Erro API Asaas: " + remote.Description
		}
		return fmt.Sprintf("Erro na API Asaas: %d %s", remote.StatusCode, remote.StatusText)
	case errors.As(err, &validation):
		return validation.Message
	case errors.As(err, &notFound):
		return fmt.Sprintf("Registro não encontrado: %s", notFound.Resource)
	case errors.As(err, &circuitOpen):
		return "Serviço temporariamente indisponível. Tente novamente em alguns instantes."
	case errors.As(err, &timeout):
		return "A operação excedeu o tempo limite. Tente novamente."
	default:
		return "Erro inesperado ao processar a solicitação."
	}
}

// Error class labels used in logs and metrics.
const (
	ClassNotConfigured = "not_configured"
	ClassConnectivity  = "connectivity"
	ClassRemoteAPI     = "remote_api"
	ClassValidation    = "validation"
	ClassCircuitOpen   = "circuit_open"
	ClassTimeout       = "timeout"
	ClassGeneric       = "generic"
)

// ErrorClasses lists every label ErrorClass can return.
var ErrorClasses = []string{
	ClassNotConfigured, ClassConnectivity, ClassRemoteAPI, ClassValidation,
	ClassCircuitOpen, ClassTimeout, ClassGeneric,
}

// ErrorClass returns the taxonomy label of err.
func ErrorClass(err error) string {
	var notConfigured *ErrNotConfigured
	var connectivity *ErrConnectivity
	var remote *ErrRemoteAPI
	var validation *ErrValidation
	var circuitOpen *ErrCircuitOpen
	var timeout *ErrTimeout

	switch {
	case errors.As(err, &notConfigured):
		return ClassNotConfigured
	case errors.As(err, &connectivity):
		return ClassConnectivity
	case errors.As(err, &remote):
		return ClassRemoteAPI
	case errors.As(err, &validation):
		return ClassValidation
	case errors.As(err, &circuitOpen):
		return ClassCircuitOpen
	case errors.As(err, &timeout):
		return ClassTimeout
	default:
		return ClassGeneric
	}
}
