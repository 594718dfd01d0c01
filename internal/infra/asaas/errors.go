package asaas

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
)

// errorPayload is the gateway's structured error body.
type errorPayload struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}

// parseRemoteError builds the remote-API error for a non-2xx response,
// keeping the first reported description when the body carries one.
func parseRemoteError(status int, body []byte) *domain.ErrRemoteAPI {
	e := &domain.ErrRemoteAPI{
		Service:    serviceName,
		StatusCode: status,
		StatusText: http.StatusText(status),
	}

	var p errorPayload
	if err := json.Unmarshal(body, &p); err == nil && len(p.Errors) > 0 {
		e.Code = p.Errors[0].Code
		e.Description = p.Errors[0].Description
	}
	return e
}

// isConnectivity reports whether err is a transport-level failure, the only
// class worth retrying.
func isConnectivity(err error) bool {
	var c *domain.ErrConnectivity
	return errors.As(err, &c)
}

// healthyRemote reports errors that prove the gateway is up, so the circuit
// breaker does not count them as failures.
func healthyRemote(err error) bool {
	var remote *domain.ErrRemoteAPI
	if errors.As(err, &remote) {
		return remote.StatusCode < http.StatusInternalServerError
	}
	var validation *domain.ErrValidation
	return errors.As(err, &validation)
}
