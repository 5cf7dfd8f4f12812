// FILE: src/internal/ingress/server.go
package ingress

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"instaroid/src/internal/auth"
	"instaroid/src/internal/config"
	"instaroid/src/internal/filter"
	"instaroid/src/internal/limit"
	"instaroid/src/internal/metrics"
	"instaroid/src/internal/sink"
	"instaroid/src/internal/tls"
	"instaroid/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fastjson"
)

// Server is the HTTP boundary in front of the sink: it accepts client batches
// and serves the inspection API over the retained window.
type Server struct {
	config     *config.ServerConfig
	ingestPath string
	statsPath  string
	sink       *sink.Sink
	chain      *filter.Chain
	auth       *auth.Authenticator
	limiter    *limit.RateLimiter
	tls        *tls.ServerManager
	metrics    fasthttp.RequestHandler
	parsers    fastjson.ParserPool
	logger     *log.Logger

	server *fasthttp.Server
	wg     sync.WaitGroup

	// Statistics
	startTime       time.Time
	totalRequests   atomic.Uint64
	totalBatches    atomic.Uint64
	totalEntries    atomic.Uint64
	filteredEntries atomic.Uint64
	skippedEntries  atomic.Uint64
	invalidBatches  atomic.Uint64
	failedBatches   atomic.Uint64
	rateLimited     atomic.Uint64
	unauthorized    atomic.Uint64
	lastBatchTime   atomic.Value // time.Time
}

// New creates the ingress server. Nothing listens until Start.
func New(cfg *config.ServerConfig, s *sink.Sink, logger *log.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("server config cannot be nil")
	}
	if s == nil {
		return nil, fmt.Errorf("sink cannot be nil")
	}

	chain, err := filter.NewChain(cfg.Filters, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build filter chain: %w", err)
	}

	authenticator, err := auth.New(cfg.Auth, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	tlsManager, err := tls.NewServerManager(cfg.TLS, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to configure TLS: %w", err)
	}

	srv := &Server{
		config:     cfg,
		ingestPath: cfg.IngestPath,
		statsPath:  cfg.IngestPath + "/stats",
		sink:       s,
		chain:      chain,
		auth:       authenticator,
		limiter:    limit.New(cfg.RateLimit, logger),
		tls:        tlsManager,
		logger:     logger,
		startTime:  time.Now(),
	}
	if cfg.MetricsPath != "" {
		srv.metrics = metrics.Handler()
	}
	srv.lastBatchTime.Store(time.Time{})

	srv.server = &fasthttp.Server{
		Name:               version.Name,
		Handler:            srv.requestHandler,
		ReadTimeout:        time.Duration(cfg.ReadTimeoutMS) * time.Millisecond,
		WriteTimeout:       time.Duration(cfg.WriteTimeoutMS) * time.Millisecond,
		MaxRequestBodySize: int(cfg.MaxRequestBodyKB) * 1024,
		CloseOnShutdown:    true,
	}

	return srv, nil
}

// Handler exposes the request router, used for in-memory serving
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.requestHandler
}

// Addr returns the listen address configured for the server
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start binds the configured address, wrapped in TLS when enabled, and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	s.Serve(s.tls.Listener(ln))
	return nil
}

// Serve accepts connections from ln in the background
func (s *Server) Serve(ln net.Listener) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Info("msg", "Ingress server starting",
			"component", "ingress",
			"address", ln.Addr().String(),
			"ingest_path", s.ingestPath,
			"metrics_path", s.config.MetricsPath,
			"auth", s.auth != nil,
			"rate_limit", s.limiter != nil,
			"tls", s.tls != nil)

		if err := s.server.Serve(ln); err != nil {
			s.logger.Error("msg", "Ingress server failed",
				"component", "ingress",
				"address", ln.Addr().String(),
				"error", err)
		}
	}()
}

// Shutdown stops accepting requests and waits for in-flight handlers
func (s *Server) Shutdown() {
	s.logger.Info("msg", "Stopping ingress server", "component", "ingress")

	if err := s.server.Shutdown(); err != nil {
		s.logger.Error("msg", "Error shutting down ingress server",
			"component", "ingress",
			"error", err)
	}
	s.limiter.Stop()
	s.wg.Wait()

	s.logger.Info("msg", "Ingress server stopped",
		"component", "ingress",
		"total_batches", s.totalBatches.Load(),
		"total_entries", s.totalEntries.Load())
}

// GetStats returns ingress statistics including its collaborators
func (s *Server) GetStats() map[string]any {
	lastBatch, _ := s.lastBatchTime.Load().(time.Time)

	return map[string]any{
		"start_time":       s.startTime,
		"uptime_seconds":   int64(time.Since(s.startTime).Seconds()),
		"ingest_path":      s.ingestPath,
		"total_requests":   s.totalRequests.Load(),
		"total_batches":    s.totalBatches.Load(),
		"total_entries":    s.totalEntries.Load(),
		"filtered_entries": s.filteredEntries.Load(),
		"invalid_batches":  s.invalidBatches.Load(),
		"skipped_entries":  s.skippedEntries.Load(),
		"failed_batches":   s.failedBatches.Load(),
		"rate_limited":     s.rateLimited.Load(),
		"unauthorized":     s.unauthorized.Load(),
		"last_batch":       lastBatch,
		"sink":             s.sink.GetStats(),
		"filters":          s.chain.GetStats(),
		"auth":             s.auth.GetStats(),
		"rate_limit":       s.limiter.GetStats(),
		"tls":              s.tls.GetStats(),
	}
}

func (s *Server) requestHandler(ctx *fasthttp.RequestCtx) {
	s.totalRequests.Add(1)
	done := metrics.TrackRequest()
	defer done()

	path := string(ctx.Path())
	method := string(ctx.Method())

	switch {
	case path == s.ingestPath && method == fasthttp.MethodPost:
		s.handleIngest(ctx)
	case path == s.ingestPath && method == fasthttp.MethodGet:
		s.authorized(ctx, s.handleInspect)
	case path == s.ingestPath && method == fasthttp.MethodDelete:
		s.authorized(ctx, s.handleClear)
	case path == s.statsPath && method == fasthttp.MethodGet:
		s.authorized(ctx, s.handleStats)
	case path == "/health" && method == fasthttp.MethodGet:
		s.handleHealth(ctx)
	case s.metrics != nil && path == s.config.MetricsPath && method == fasthttp.MethodGet:
		s.metrics(ctx)
	default:
		s.handleNotFound(ctx)
	}
}

// authorized runs next only when the request passes authentication
func (s *Server) authorized(ctx *fasthttp.RequestCtx, next fasthttp.RequestHandler) {
	if s.auth == nil {
		next(ctx)
		return
	}

	header := string(ctx.Request.Header.Peek("Authorization"))
	if _, err := s.auth.AuthenticateHTTP(header, ctx.RemoteAddr().String()); err != nil {
		s.unauthorized.Add(1)
		if challenge := s.auth.Challenge(); challenge != "" {
			ctx.Response.Header.Set("WWW-Authenticate", challenge)
		}
		status := fasthttp.StatusUnauthorized
		if errors.Is(err, auth.ErrTooManyAttempts) {
			status = fasthttp.StatusTooManyRequests
		}
		writeJSON(ctx, status, map[string]string{"error": "Unauthorized"})
		return
	}

	next(ctx)
}
