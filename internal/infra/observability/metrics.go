package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
)

// Metrics holds all Prometheus metrics for the BFA.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	gatewayDuration   *prometheus.HistogramVec
	gatewayCalls      *prometheus.CounterVec
	gatewayErrors     *prometheus.CounterVec
	envelopeFallbacks prometheus.Counter
	cacheHits         *prometheus.CounterVec
	cacheMisses       *prometheus.CounterVec
	templateRenders   *prometheus.CounterVec
	notificationsSent *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		gatewayDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bfa_gateway_call_duration_seconds",
				Help:    "Duration of payment gateway calls by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		gatewayCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_gateway_calls_total",
				Help: "Total payment gateway calls by outcome.",
			},
			[]string{"outcome"},
		),
		gatewayErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_gateway_errors_total",
				Help: "Total payment gateway errors by class.",
			},
			[]string{"class"},
		),
		envelopeFallbacks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bfa_gateway_envelope_fallbacks_total",
				Help: "Times the proxy query shape answered not-found and the envelope shape was used.",
			},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		templateRenders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_template_renders_total",
				Help: "Total template renders by source.",
			},
			[]string{"source"},
		),
		notificationsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_notifications_sent_total",
				Help: "Total user notifications by channel.",
			},
			[]string{"channel"},
		),
	}
}

// Label values.
const (
	CacheGatewayCustomer = "gateway_customer"

	RenderPreview = "preview"
	RenderSend    = "send"
	RenderMessage = "message"

	ChannelSSE      = "sse"
	ChannelWhatsApp = "whatsapp"
)

// RecordGatewayCall records one gateway call: its duration and, when err is
// non-nil, its error class.
func (m *Metrics) RecordGatewayCall(operation string, d time.Duration, err error) {
	m.gatewayDuration.WithLabelValues(operation).Observe(d.Seconds())
	if err == nil {
		m.gatewayCalls.WithLabelValues("success").Inc()
		return
	}
	m.gatewayCalls.WithLabelValues("error").Inc()
	m.gatewayErrors.WithLabelValues(domain.ErrorClass(err)).Inc()
}

// IncrEnvelopeFallback counts a proxy query -> envelope transition.
func (m *Metrics) IncrEnvelopeFallback() {
	m.envelopeFallbacks.Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrTemplateRender counts a template render.
func (m *Metrics) IncrTemplateRender(source string) {
	m.templateRenders.WithLabelValues(source).Inc()
}

// IncrNotification counts a notification delivered on a channel.
func (m *Metrics) IncrNotification(channel string) {
	m.notificationsSent.WithLabelValues(channel).Inc()
}

// GetGatewaySnapshot returns a snapshot of gateway-related metrics suitable
// for the GET /v1/metrics/gateway endpoint.
func (m *Metrics) GetGatewaySnapshot() *domain.GatewayMetrics {
	// Prometheus counters expose cumulative values.
	success := getCounterValue(m.gatewayCalls, "success")
	failed := getCounterValue(m.gatewayCalls, "error")
	total := success + failed

	byClass := make(map[string]int64, len(domain.ErrorClasses))
	for _, class := range domain.ErrorClasses {
		if v := getCounterValue(m.gatewayErrors, class); v > 0 {
			byClass[class] = int64(v)
		}
	}

	errorRate := float64(0)
	if total > 0 {
		errorRate = failed / total
	}

	hits := getCounterValue(m.cacheHits, CacheGatewayCustomer)
	misses := getCounterValue(m.cacheMisses, CacheGatewayCustomer)
	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	renders := getCounterValue(m.templateRenders, RenderPreview) +
		getCounterValue(m.templateRenders, RenderSend) +
		getCounterValue(m.templateRenders, RenderMessage)
	notifications := getCounterValue(m.notificationsSent, ChannelSSE) +
		getCounterValue(m.notificationsSent, ChannelWhatsApp)

	return &domain.GatewayMetrics{
		TotalCalls:        int64(total),
		FailedCalls:       int64(failed),
		ErrorRate:         errorRate,
		ErrorsByClass:     byClass,
		EnvelopeFallbacks: int64(readCounter(m.envelopeFallbacks)),
		CustomerCacheHit:  hitRate,
		TemplatesRendered: int64(renders),
		NotificationsSent: int64(notifications),
		Period:            "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	return readCounter(cv.WithLabelValues(label))
}

func readCounter(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
