package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/service"
)

// ============================================================
// Gateway configuration
// ============================================================

func getGatewayConfigHandler(configs *service.GatewayConfigService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/gateway/config")
		defer span.End()

		cfg, err := configs.GetConfig(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, configView(cfg))
	}
}

func putGatewayConfigHandler(configs *service.GatewayConfigService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/gateway/config")
		defer span.End()

		var req domain.GatewayConfigRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		cfg, err := configs.SetConfig(ctx, req.APIKey, req.Environment, req.CompanyID, req.CompanyName)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, configView(cfg))
	}
}

func getCompanyConfigHandler(configs *service.GatewayConfigService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/gateway/companies/{companyId}/config")
		defer span.End()

		companyID := chi.URLParam(r, "companyId")
		cfg, err := configs.GetCompanyConfig(ctx, companyID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if cfg == nil {
			handleServiceError(w, &domain.ErrNotFound{Resource: "configuração da empresa", ID: companyID}, logger)
			return
		}
		writeJSON(w, http.StatusOK, configView(cfg))
	}
}

func putCompanyConfigHandler(configs *service.GatewayConfigService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/gateway/companies/{companyId}/config")
		defer span.End()

		companyID := chi.URLParam(r, "companyId")
		span.SetAttributes(attribute.String("company.id", companyID))

		var req domain.GatewayConfigRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		cfg, err := configs.SetCompanyConfig(ctx, companyID, req.CompanyName, req.APIKey, req.Environment)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, configView(cfg))
	}
}

func activateCompanyHandler(configs *service.GatewayConfigService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/gateway/companies/{companyId}/activate")
		defer span.End()

		companyID := chi.URLParam(r, "companyId")
		if !configs.SetActiveCompany(ctx, companyID) {
			handleServiceError(w, &domain.ErrNotFound{Resource: "configuração da empresa", ID: companyID}, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "Empresa ativada", ID: companyID})
	}
}

// gatewayConfigView is the config as returned to the UI: the key is masked.
type gatewayConfigView struct {
	domain.GatewayConfig
	Configured bool `json:"configured"`
}

func configView(cfg *domain.GatewayConfig) gatewayConfigView {
	return gatewayConfigView{GatewayConfig: cfg.Redacted(), Configured: cfg.Configured()}
}

// ============================================================
// Customers
// ============================================================

func syncCustomerHandler(customers *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/gateway/customers/sync")
		defer span.End()

		var client domain.Client
		if !decodeAndValidate(w, r, &client) {
			return
		}

		customerID, err := customers.Sync(ctx, &client)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SyncCustomerResponse{ClientID: client.ID, CustomerID: customerID})
	}
}

func findCustomerHandler(customers *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/gateway/customers")
		defer span.End()

		taxID := r.URL.Query().Get("cpfCnpj")
		c, err := customers.FindByTaxID(ctx, taxID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if c == nil {
			handleServiceError(w, &domain.ErrNotFound{Resource: "cliente Asaas", ID: taxID}, logger)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// ============================================================
// Payments
// ============================================================

func chargeInvoiceHandler(payments *service.PaymentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/gateway/invoices/charge")
		defer span.End()

		var req domain.ChargeInvoiceRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		span.SetAttributes(attribute.String("invoice.id", req.Invoice.ID))

		res, err := payments.ChargeInvoice(ctx, &req.Invoice, &req.Client, req.BillingType)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

func listPaymentsHandler(payments *service.PaymentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/gateway/payments")
		defer span.End()

		q := r.URL.Query()
		offset, err := queryInt(r, "offset")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		limit, err := queryInt(r, "limit")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		list, err := payments.ListPayments(ctx, domain.PaymentFilter{
			Customer:          q.Get("customer"),
			ExternalReference: q.Get("externalReference"),
			BillingType:       domain.BillingType(q.Get("billingType")),
			Status:            q.Get("status"),
			DateField:         q.Get("dateField"),
			From:              q.Get("from"),
			To:                q.Get("to"),
			Offset:            offset,
			Limit:             limit,
		})
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func paymentStatusHandler(payments *service.PaymentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/gateway/payments/{paymentId}")
		defer span.End()

		st, err := payments.GetPaymentStatus(ctx, chi.URLParam(r, "paymentId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func pixQrCodeHandler(payments *service.PaymentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/gateway/payments/{paymentId}/pix-qrcode")
		defer span.End()

		qr, err := payments.GetPixQrCode(ctx, chi.URLParam(r, "paymentId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, qr)
	}
}

func boletoHandler(payments *service.PaymentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/gateway/payments/{paymentId}/boleto")
		defer span.End()

		info, err := payments.GetBoleto(ctx, chi.URLParam(r, "paymentId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func cancelPaymentHandler(payments *service.PaymentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/gateway/payments/{paymentId}/cancel")
		defer span.End()

		p, err := payments.CancelPayment(ctx, chi.URLParam(r, "paymentId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func refundPaymentHandler(payments *service.PaymentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/gateway/payments/{paymentId}/refund")
		defer span.End()

		// An empty body means a full refund.
		var req domain.RefundRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		p, err := payments.RefundPayment(ctx, chi.URLParam(r, "paymentId"), req.Value)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}
