package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/notify"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/observability"
	"github.com/boddenberg/rastreio-bfa-go/internal/service"
)

var tracer = otel.Tracer("handler")

// Pinger is a dependency the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies groups what the router wires into handlers. Nil services
// leave their routes unmounted.
type Dependencies struct {
	Configs   *service.GatewayConfigService
	Customers *service.CustomerService
	Payments  *service.PaymentService
	Contracts *service.ContractService
	Messages  *service.MessageService
	Hub       *notify.Hub
	Proxy     *ProxyHandler
	Store     Pinger

	Metrics        *observability.Metrics
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(d Dependencies) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization", "access_token", "X-Target-URL"},
		MaxAge:         3600,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(d.Configs, d.Store, d.Hub))
	r.Get("/readyz", readyzHandler(d.Store))
	if d.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{}))
	}

	// --- Proxy relay ---
	if d.Proxy != nil {
		r.Handle("/api/proxy", d.Proxy)
	}

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// 1. Gateway configuration
		// =============================================
		if d.Configs != nil {
			r.Get("/gateway/config", getGatewayConfigHandler(d.Configs, logger))
			r.Put("/gateway/config", putGatewayConfigHandler(d.Configs, logger))
			r.Get("/gateway/companies/{companyId}/config", getCompanyConfigHandler(d.Configs, logger))
			r.Put("/gateway/companies/{companyId}/config", putCompanyConfigHandler(d.Configs, logger))
			r.Post("/gateway/companies/{companyId}/activate", activateCompanyHandler(d.Configs, logger))
		}

		// =============================================
		// 2. Gateway customers & payments
		// =============================================
		r.Group(func(r chi.Router) {
			if d.Configs != nil {
				r.Use(RequireGatewayConfigured(d.Configs, logger))
			}
			if d.Customers != nil {
				r.Post("/gateway/customers/sync", syncCustomerHandler(d.Customers, logger))
				r.Get("/gateway/customers", findCustomerHandler(d.Customers, logger))
			}
			if d.Payments != nil {
				r.Post("/gateway/payments", chargeInvoiceHandler(d.Payments, logger))
				r.Post("/gateway/invoices/charge", chargeInvoiceHandler(d.Payments, logger))
				r.Get("/gateway/payments", listPaymentsHandler(d.Payments, logger))
				r.Get("/gateway/payments/{paymentId}", paymentStatusHandler(d.Payments, logger))
				r.Get("/gateway/payments/{paymentId}/pix-qrcode", pixQrCodeHandler(d.Payments, logger))
				r.Get("/gateway/payments/{paymentId}/boleto", boletoHandler(d.Payments, logger))
				r.Post("/gateway/payments/{paymentId}/cancel", cancelPaymentHandler(d.Payments, logger))
				r.Post("/gateway/payments/{paymentId}/refund", refundPaymentHandler(d.Payments, logger))
			}
		})

		// =============================================
		// 3. Contracts
		// =============================================
		if d.Contracts != nil {
			r.Get("/contracts/variables", contractVariablesHandler(d.Contracts))
			r.Get("/contracts/default-content", defaultContentHandler(d.Contracts))
			r.Post("/contracts/preview", previewContractHandler(d.Contracts))
			r.Post("/contracts/{contractId}/send-whatsapp", sendContractHandler(d.Contracts, logger))
			r.Get("/contracts/signature/verify", verifySignatureHandler(d.Contracts, logger))
		}

		// =============================================
		// 4. WhatsApp notices
		// =============================================
		if d.Messages != nil {
			r.Get("/messages/templates", messageTemplatesHandler(d.Messages))
			r.Post("/messages/invoice-notice", invoiceNoticeHandler(d.Messages, logger))
		}

		// =============================================
		// 5. Notifications & metrics
		// =============================================
		if d.Hub != nil {
			r.Get("/notifications/stream", notificationStreamHandler(d.Hub, logger))
		}
		if d.Metrics != nil {
			r.Get("/metrics/gateway", gatewayMetricsHandler(d.Metrics))
		}
	})

	return r
}

// ============================================================
// Operational
// ============================================================

func healthzHandler(configs *service.GatewayConfigService, store Pinger, hub *notify.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "bfa-api", Status: "healthy", LastChecked: now},
		}

		if store != nil {
			start := time.Now()
			err := store.Ping(ctx)
			s := domain.ServiceHealth{Name: "config-store", Status: "healthy", LatencyMs: time.Since(start).Milliseconds(), LastChecked: now}
			if err != nil {
				s.Status = "unhealthy"
				s.Detail = err.Error()
			}
			services = append(services, s)
		}

		if configs != nil {
			s := domain.ServiceHealth{Name: "asaas", Status: "healthy", LastChecked: now}
			if !configs.IsConfigured(ctx) {
				s.Status = "degraded"
				s.Detail = "not configured"
			}
			services = append(services, s)
		}

		if hub != nil {
			services = append(services, domain.ServiceHealth{
				Name: "notifications", Status: "healthy", LastChecked: now,
				Detail: strconv.Itoa(hub.ClientCount()) + " clients",
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready", "reason": "config store unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func gatewayMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetGatewaySnapshot())
	}
}
