// FILE: src/internal/client/transport_test.go
package client

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"instaroid/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"github.com/valyala/fastjson"
)

type capturedRequest struct {
	method      string
	contentType string
	userAgent   string
	body        []byte
}

func startTestServer(t *testing.T, status int) (*fasthttputil.InmemoryListener, *[]capturedRequest, *sync.Mutex) {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	var mu sync.Mutex
	var reqs []capturedRequest

	srv := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			mu.Lock()
			reqs = append(reqs, capturedRequest{
				method:      string(ctx.Method()),
				contentType: string(ctx.Request.Header.ContentType()),
				userAgent:   string(ctx.UserAgent()),
				body:        append([]byte(nil), ctx.PostBody()...),
			})
			mu.Unlock()
			ctx.SetStatusCode(status)
			ctx.SetBodyString(`{"error":"nope"}`)
		},
	}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() {
		_ = srv.Shutdown()
		_ = ln.Close()
	})

	return ln, &reqs, &mu
}

func inmemoryDial(ln *fasthttputil.InmemoryListener) TransportOption {
	return WithDial(func(string) (net.Conn, error) { return ln.Dial() })
}

func TestHTTPTransport_Send(t *testing.T) {
	ln, reqs, mu := startTestServer(t, fasthttp.StatusOK)
	tr := NewHTTPTransport("http://instaroid.test/api/logs", time.Second, newTestLogger(), inmemoryDial(ln))

	batch := []core.LogEntry{
		{Timestamp: "2024-01-01T00:00:00.000Z", Level: "INFO", Message: "one"},
		{Timestamp: "2024-01-01T00:00:01.000Z", Level: "ERROR", Message: "two", Data: core.Data{"k": "v"}},
	}
	require.NoError(t, tr.Send(context.Background(), batch))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, fasthttp.MethodPost, got.method)
	assert.Equal(t, "application/json", got.contentType)
	assert.Contains(t, got.userAgent, "Instaroid/")

	v, err := fastjson.ParseBytes(got.body)
	require.NoError(t, err)
	logs := v.GetArray("logs")
	require.Len(t, logs, 2)
	assert.Equal(t, "two", string(logs[1].GetStringBytes("message")))
	assert.Equal(t, "v", string(logs[1].GetStringBytes("data", "k")))
}

func TestHTTPTransport_StatusError(t *testing.T) {
	ln, _, _ := startTestServer(t, fasthttp.StatusBadRequest)
	tr := NewHTTPTransport("http://instaroid.test/api/logs", time.Second, newTestLogger(), inmemoryDial(ln))

	err := tr.Send(context.Background(), []core.LogEntry{{Level: "INFO", Message: "x"}})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, fasthttp.StatusBadRequest, statusErr.Code)
	assert.Contains(t, statusErr.Error(), "nope")
}

func TestHTTPTransport_CanceledContext(t *testing.T) {
	tr := NewHTTPTransport("http://instaroid.test/api/logs", time.Second, newTestLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tr.Send(ctx, []core.LogEntry{{Level: "INFO", Message: "x"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPTransport_Unreachable(t *testing.T) {
	ln := fasthttputil.NewInmemoryListener()
	require.NoError(t, ln.Close())
	tr := NewHTTPTransport("http://instaroid.test/api/logs", 100*time.Millisecond, newTestLogger(), inmemoryDial(ln))

	err := tr.Send(context.Background(), []core.LogEntry{{Level: "INFO", Message: "x"}})
	assert.Error(t, err)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}
