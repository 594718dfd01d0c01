package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/service"
)

func messageTemplatesHandler(messages *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, messages.Templates())
	}
}

func invoiceNoticeHandler(messages *service.MessageService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/messages/invoice-notice")
		defer span.End()

		var req domain.InvoiceNoticeRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		receipt, err := messages.SendInvoiceNotice(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, receipt)
	}
}
