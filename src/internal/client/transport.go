// FILE: src/internal/client/transport.go
package client

import (
	"context"
	"fmt"
	"net"
	"time"

	"instaroid/src/internal/core"
	"instaroid/src/internal/format"
	"instaroid/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/valyala/fasthttp"
)

// Transport delivers one batch. A nil error means the ingress accepted it.
type Transport interface {
	Send(ctx context.Context, batch []core.LogEntry) error
}

// StatusError is returned when the ingress answers with a non-2xx status
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("ingress rejected batch: status %d", e.Code)
	}
	return fmt.Sprintf("ingress rejected batch: status %d: %s", e.Code, e.Body)
}

// HTTPTransport POSTs {"logs": [...]} batches to the ingress endpoint
type HTTPTransport struct {
	endpoint  string
	timeout   time.Duration
	client    *fasthttp.Client
	formatter *format.JSONFormatter
	logger    *log.Logger
}

// TransportOption customizes an HTTPTransport
type TransportOption func(*HTTPTransport)

// WithDial replaces the network dialer, used to reach in-memory listeners
func WithDial(dial func(addr string) (net.Conn, error)) TransportOption {
	return func(t *HTTPTransport) {
		t.client.Dial = dial
	}
}

// NewHTTPTransport creates a transport for endpoint with a per-attempt timeout
func NewHTTPTransport(endpoint string, timeout time.Duration, logger *log.Logger, opts ...TransportOption) *HTTPTransport {
	t := &HTTPTransport{
		endpoint:  endpoint,
		timeout:   timeout,
		formatter: format.NewJSONFormatter(false, logger),
		logger:    logger,
		client: &fasthttp.Client{
			MaxConnsPerHost:               10,
			MaxIdleConnDuration:           10 * time.Second,
			ReadTimeout:                   timeout,
			WriteTimeout:                  timeout,
			DisableHeaderNamesNormalizing: true,
		},
	}

	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send posts the batch, bounded by the transport timeout or ctx deadline, whichever is earlier
func (t *HTTPTransport) Send(ctx context.Context, batch []core.LogEntry) error {
	body, err := t.formatter.FormatBatch(batch)
	if err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}

	deadline := time.Now().Add(t.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(t.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	req.SetBody(body)

	if err := t.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	code := resp.StatusCode()
	if code < 200 || code >= 300 {
		return &StatusError{Code: code, Body: string(resp.Body())}
	}

	t.logger.Debug("msg", "Batch delivered",
		"component", "client_transport",
		"endpoint", t.endpoint,
		"batch_size", len(batch),
		"status_code", code)
	return nil
}

// CloseIdleConnections releases pooled connections
func (t *HTTPTransport) CloseIdleConnections() {
	t.client.CloseIdleConnections()
}
