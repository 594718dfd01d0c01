package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/infra/notify"
)

// ssePingInterval keeps idle connections open through proxies.
const ssePingInterval = 30 * time.Second

// notificationStreamHandler streams user notifications over SSE:
// GET /v1/notifications/stream
func notificationStreamHandler(hub *notify.Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}

		clientID := "ui-" + uuid.NewString()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		client := hub.Register(clientID)
		defer hub.Unregister(clientID)

		writeEvent(w, "connected", fmt.Sprintf(`{"clientId":%q,"timestamp":%q}`, clientID, time.Now().Format(time.RFC3339)))
		flusher.Flush()

		logger.Debug("notification stream started", zap.String("client_id", clientID))

		ticker := time.NewTicker(ssePingInterval)
		defer ticker.Stop()

		for {
			select {
			case data, ok := <-client.Events:
				if !ok {
					return
				}
				writeEvent(w, "notification", string(data))
				flusher.Flush()
			case <-ticker.C:
				writeEvent(w, "ping", fmt.Sprintf(`{"timestamp":%q}`, time.Now().Format(time.RFC3339)))
				flusher.Flush()
			case <-r.Context().Done():
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, event, data string) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
