package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds the service's Prometheus collectors.
type MetricsManager struct {
	Registry             *prometheus.Registry
	ListingsCreatedTotal prometheus.Counter
	ListingUpdatesTotal  prometheus.Counter
	ListingDeletesTotal  prometheus.Counter
	ImageUploadsTotal    *prometheus.CounterVec
	ImageUploadLatency   prometheus.Histogram
	APIErrorsTotal       *prometheus.CounterVec
	APILatency           *prometheus.HistogramVec
}

func NewMetricsManager(serviceName string) *MetricsManager {
	namespace := sanitize(serviceName)
	registry := prometheus.NewRegistry()

	m := &MetricsManager{
		Registry: registry,
		ListingsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_created_total",
			Help:      "Total number of listings created.",
		}),
		ListingUpdatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listing_updates_total",
			Help:      "Total number of listings updated.",
		}),
		ListingDeletesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listing_deletes_total",
			Help:      "Total number of listings deleted.",
		}),
		ImageUploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_uploads_total",
			Help:      "Image uploads to the object store by outcome.",
		}, []string{"outcome"}),
		ImageUploadLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "image_upload_latency_seconds",
			Help:      "Latency of single image uploads.",
			Buckets:   prometheus.DefBuckets,
		}),
		APIErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_errors_total",
			Help:      "Total number of API errors by route and status.",
		}, []string{"route", "status"}),
		APILatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_latency_seconds",
			Help:      "Latency of API requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	registry.MustRegister(
		m.ListingsCreatedTotal,
		m.ListingUpdatesTotal,
		m.ListingDeletesTotal,
		m.ImageUploadsTotal,
		m.ImageUploadLatency,
		m.APIErrorsTotal,
		m.APILatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveUpload records a single object store upload.
func (m *MetricsManager) ObserveUpload(d time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.ImageUploadsTotal.WithLabelValues(outcome).Inc()
	m.ImageUploadLatency.Observe(d.Seconds())
}

// ObserveRequest records one HTTP request. Only 4xx and 5xx responses count
// as errors.
func (m *MetricsManager) ObserveRequest(route string, status int, d time.Duration) {
	m.APILatency.WithLabelValues(route).Observe(d.Seconds())
	if status >= 400 {
		m.APIErrorsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	}
}

func (m *MetricsManager) ListingCreated() { m.ListingsCreatedTotal.Inc() }
func (m *MetricsManager) ListingUpdated() { m.ListingUpdatesTotal.Inc() }
func (m *MetricsManager) ListingDeleted() { m.ListingDeletesTotal.Inc() }

// Handler exposes the registry in the Prometheus text format.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// StartMetricsServer blocks serving /metrics on the given port.
// An empty port disables the server.
func StartMetricsServer(port string, appLogger *logger.Logger, m *MetricsManager) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}

func sanitize(name string) string {
	out := []byte(name)
	for i, c := range out {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			out[i] = '_'
		}
	}
	return string(out)
}
