// FILE: src/internal/metrics/metrics_test.go
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(ingestRequests.WithLabelValues("200"))
	IngestRequest(200)
	assert.Equal(t, before+1, testutil.ToFloat64(ingestRequests.WithLabelValues("200")))

	IngestedEntry("WARN")
	assert.GreaterOrEqual(t, testutil.ToFloat64(ingestedEntries.WithLabelValues("WARN")), 1.0)

	SetRetained(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(retainedEntries))

	failures := testutil.ToFloat64(clientFlushes.WithLabelValues("failure"))
	ClientFlush(false)
	assert.Equal(t, failures+1, testutil.ToFloat64(clientFlushes.WithLabelValues("failure")))

	dropped := testutil.ToFloat64(clientDropped)
	ClientDropped(0)
	ClientDropped(3)
	assert.Equal(t, dropped+3, testutil.ToFloat64(clientDropped))

	done := TrackRequest()
	assert.Equal(t, 1.0, testutil.ToFloat64(activeRequests))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(activeRequests))
}

func TestHandler(t *testing.T) {
	IngestRequest(400)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("/metrics")
	Handler()(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `instaroid_ingest_requests_total{code="400"}`)
}
