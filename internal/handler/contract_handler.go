package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/service"
)

// ============================================================
// Contracts
// ============================================================

func contractVariablesHandler(contracts *service.ContractService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, contracts.Variables())
	}
}

func defaultContentHandler(contracts *service.ContractService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"content": contracts.DefaultContent()})
	}
}

func previewContractHandler(contracts *service.ContractService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/contracts/preview")
		defer span.End()

		var form domain.ContractForm
		if !decodeAndValidate(w, r, &form) {
			return
		}
		writeJSON(w, http.StatusOK, contracts.Preview(&form))
	}
}

func sendContractHandler(contracts *service.ContractService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/contracts/{contractId}/send-whatsapp")
		defer span.End()

		contractID := chi.URLParam(r, "contractId")
		span.SetAttributes(attribute.String("contract.id", contractID))

		var req domain.SendContractRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		resp, err := contracts.SendViaWhatsApp(ctx, req.Phone, &req.Contract, contractID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func verifySignatureHandler(contracts *service.ContractService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contractID, err := contracts.VerifySignature(r.URL.Query().Get("token"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"contractId": contractID})
	}
}
