// FILE: src/internal/metrics/metrics.go
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Prometheus metrics for the telemetry path
var (
	ingestRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "instaroid_ingest_requests_total",
		Help: "Ingest requests by response status code",
	}, []string{"code"})

	ingestedEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "instaroid_ingested_entries_total",
		Help: "Client entries accepted by the ingress, by level",
	}, []string{"level"})

	filteredEntries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "instaroid_filtered_entries_total",
		Help: "Client entries dropped by the ingest filter chain",
	})

	retainedEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "instaroid_retained_entries",
		Help: "Entries currently held in the server sink",
	})

	activeRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "instaroid_active_requests",
		Help: "Current number of in-flight ingress requests",
	})

	clientFlushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "instaroid_client_flushes_total",
		Help: "Client buffer flush attempts by result",
	}, []string{"result"})

	clientDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "instaroid_client_dropped_entries_total",
		Help: "Client entries dropped because the pending queue was full",
	})
)

// Handler returns the Prometheus exposition handler for fasthttp
func Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
}

// IngestRequest records a finished ingest request
func IngestRequest(code int) {
	ingestRequests.WithLabelValues(strconv.Itoa(code)).Inc()
}

// IngestedEntry records one accepted client entry
func IngestedEntry(level string) {
	ingestedEntries.WithLabelValues(level).Inc()
}

func FilteredEntry() {
	filteredEntries.Inc()
}

// SetRetained publishes the sink occupancy
func SetRetained(n int) {
	retainedEntries.Set(float64(n))
}

// TrackRequest increments the in-flight gauge; call the returned func when done
func TrackRequest() func() {
	activeRequests.Inc()
	return activeRequests.Dec
}

// ClientFlush records a flush attempt: "success" or "failure"
func ClientFlush(ok bool) {
	if ok {
		clientFlushes.WithLabelValues("success").Inc()
		return
	}
	clientFlushes.WithLabelValues("failure").Inc()
}

func ClientDropped(n int) {
	if n > 0 {
		clientDropped.Add(float64(n))
	}
}
