package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes used as the "outcome" label
const (
	OutcomeCreated   = "created"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

// Metrics exposes counters/histograms for the contact intake flow.
// All methods are safe on a nil receiver so callers may run without metrics.
type Metrics struct {
	submissions  *prometheus.CounterVec
	storeLatency *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
	storeUp      prometheus.Gauge
	notifyErrors prometheus.Counter
}

// New registers the collectors on reg, falling back to the default registerer
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contactforms",
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Contact form submissions by website and outcome",
		}, []string{"website", "outcome"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "contactforms",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Latency of document store operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contactforms",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		storeUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "contactforms",
			Subsystem: "store",
			Name:      "up",
			Help:      "1 when the last periodic store ping succeeded",
		}),
		notifyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "contactforms",
			Subsystem: "notify",
			Name:      "failures_total",
			Help:      "New-contact notifications that could not be delivered",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissions, m.storeLatency, m.httpRequests, m.storeUp, m.notifyErrors)
	return m
}

func (m *Metrics) ObserveSubmission(website, outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(website, outcome).Inc()
}

func (m *Metrics) ObserveStoreOperation(operation string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.storeLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) SetStoreUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.storeUp.Set(1)
	} else {
		m.storeUp.Set(0)
	}
}

func (m *Metrics) ObserveNotifyFailure() {
	if m == nil {
		return
	}
	m.notifyErrors.Inc()
}
