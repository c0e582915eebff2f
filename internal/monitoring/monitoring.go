package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	nuts "github.com/vaudience/go-nuts"
)

// Config holds monitoring configuration
type Config struct {
	Namespace string
}

// Service provides monitoring functionality
type Service struct {
	config          Config
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	events          *prometheus.CounterVec
}

// NewService creates a new monitoring service with its own registry
func NewService(config Config) (*Service, error) {
	if config.Namespace == "" {
		config.Namespace = "relayhub"
	}
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for inbound HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of inbound HTTP requests.",
	}, []string{"route", "method", "status"})

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      "events_total",
		Help:      "Domain events recorded by the service.",
	}, []string{"event"})

	for _, c := range []prometheus.Collector{requestDuration, requestTotal, events} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Service{
		config:          config,
		registry:        registry,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		events:          events,
	}, nil
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	s.events.WithLabelValues(eventName).Inc()
	nuts.L.Infof("[Monitoring] Event %s recorded at %v with labels: %v", eventName, time.Now(), labels)
}

// Handler exposes the registry in the Prometheus text format
func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

// Instrument wraps next and records count and latency under the given route name
func (s *Service) Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		status := strconv.Itoa(rw.status)
		s.requestTotal.WithLabelValues(route, r.Method, status).Inc()
		s.requestDuration.WithLabelValues(route, r.Method, status).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
