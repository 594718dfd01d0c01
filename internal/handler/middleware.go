package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
	"github.com/boddenberg/rastreio-bfa-go/internal/service"
)

// RequireGatewayConfigured rejects gateway requests with 412 while no API key
// is stored, before any handler or network call runs.
func RequireGatewayConfigured(configs *service.GatewayConfigService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !configs.IsConfigured(r.Context()) {
				logger.Warn("gateway: request rejected, not configured",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				handleServiceError(w, &domain.ErrNotConfigured{Service: domain.ServiceAsaas}, logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
