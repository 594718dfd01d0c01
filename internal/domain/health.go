package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
	Detail      string `json:"detail,omitempty"`
}

// GatewayMetrics is returned by GET /v1/metrics/gateway.
type GatewayMetrics struct {
	TotalCalls        int64            `json:"totalCalls"`
	FailedCalls       int64            `json:"failedCalls"`
	ErrorRate         float64          `json:"errorRate"`
	ErrorsByClass     map[string]int64 `json:"errorsByClass"`
	EnvelopeFallbacks int64            `json:"envelopeFallbacks"`
	CustomerCacheHit  float64          `json:"customerCacheHitRate"`
	TemplatesRendered int64            `json:"templatesRendered"`
	NotificationsSent int64            `json:"notificationsSent"`
	Period            string           `json:"period"`
}

// ============================================================
// Generic API Response wrappers
// ============================================================

// SuccessResponse wraps a successful single-entity response.
type SuccessResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
