package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
)

// ============================================================
// Shared helper functions
// ============================================================

var validate = validator.New()

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Class string `json:"class,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// On failure the 400 response is already written.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

// validationMessage lists the failing fields as "field (rule)".
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return "campos inválidos: " + strings.Join(parts, ", ")
}

func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, &domain.ErrValidation{Field: key, Message: fmt.Sprintf("Parâmetro inválido: %s", key)}
	}
	return n, nil
}

// handleServiceError maps domain errors to HTTP responses. The body carries
// the pt-BR message shown to the user and the error class.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var circuitOpen *domain.ErrCircuitOpen
	var timeout *domain.ErrTimeout
	var validation *domain.ErrValidation
	var notConfigured *domain.ErrNotConfigured
	var remote *domain.ErrRemoteAPI
	var connectivity *domain.ErrConnectivity
	var external *domain.ErrExternalService

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		status = http.StatusNotFound
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		status = http.StatusBadRequest
	case errors.As(err, &notConfigured):
		logger.Warn("integration not configured", zap.String("service", notConfigured.Service))
		status = http.StatusPreconditionFailed
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		status = http.StatusServiceUnavailable
	case errors.As(err, &timeout):
		logger.Error("request timeout", zap.Error(err))
		status = http.StatusGatewayTimeout
	case errors.As(err, &remote):
		logger.Warn("remote api error", zap.Int("status", remote.StatusCode), zap.String("error", err.Error()))
		status = http.StatusBadGateway
		if remote.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
		}
	case errors.As(err, &connectivity), errors.As(err, &external):
		logger.Error("external service failure", zap.Error(err))
		status = http.StatusBadGateway
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, status, errorResponse{
		Error: domain.UserMessage(err),
		Class: domain.ErrorClass(err),
	})
}
