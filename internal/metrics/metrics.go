package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"donationhub/internal/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "donationhub"

	// UnmatchedPath labels requests that match no declared route.
	UnmatchedPath = "unmatched"
)

// Metrics holds the application's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	leaderboardRecomputes *prometheus.CounterVec
	leaderboardDuration   prometheus.Histogram
	leaderboardEntries    prometheus.Gauge

	routes map[string]struct{}
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		routes:   make(map[string]struct{}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "path"}),
		leaderboardRecomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leaderboard",
			Name:      "recomputes_total",
			Help:      "Total number of leaderboard recomputations.",
		}, []string{"success"}),
		leaderboardDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "leaderboard",
			Name:      "recompute_duration_seconds",
			Help:      "Duration of leaderboard recomputations.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}),
		leaderboardEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "leaderboard",
			Name:      "entries",
			Help:      "Number of entries in the last successfully written leaderboard.",
		}),
	}

	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.leaderboardRecomputes,
		m.leaderboardDuration,
		m.leaderboardEntries,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)

	return m
}

// Routes declares the route templates, in ":id" form, that request metrics
// are labelled with. It must be called before serving.
func (m *Metrics) Routes(templates ...string) {
	for _, template := range templates {
		m.routes[template] = struct{}{}
	}
}

// Handler exposes the registered collectors.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps next with HTTP request metrics.
func (m *Metrics) InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		path := m.pathLabel(r.URL.Path)
		m.httpRequests.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) ObserveRecompute(duration time.Duration, entries int, err error) {
	m.leaderboardRecomputes.WithLabelValues(strconv.FormatBool(err == nil)).Inc()
	m.leaderboardDuration.Observe(duration.Seconds())
	if err == nil {
		m.leaderboardEntries.Set(float64(entries))
	}
}

// pathLabel maps a request path onto a declared route template so the
// label set stays bounded.
func (m *Metrics) pathLabel(path string) string {
	template := normalizePath(path)
	if _, ok := m.routes[template]; ok {
		return template
	}
	return UnmatchedPath
}

// normalizePath collapses document ids, and whatever sits in the id slot of
// a donation path, into ":id".
func normalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if utils.ValidNanoID(segment) || (i > 0 && segments[i-1] == "donations" && segment != "") {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
