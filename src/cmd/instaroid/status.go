// FILE: src/cmd/instaroid/status.go
package main

import (
	"context"
	"os"
	"time"

	"instaroid/src/internal/ingress"
)

const statusInterval = 30 * time.Second

// statusReporter logs ingress and sink counters until ctx is done
func statusReporter(ctx context.Context, srv *ingress.Server) {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logStatus(srv)
		}
	}
}

func logStatus(srv *ingress.Server) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("msg", "Panic in status reporter",
				"component", "status_reporter",
				"panic", r)
		}
	}()

	stats := srv.GetStats()
	fields := []any{
		"msg", "Status report",
		"component", "status_reporter",
		"uptime_seconds", stats["uptime_seconds"],
		"total_requests", stats["total_requests"],
		"total_batches", stats["total_batches"],
		"total_entries", stats["total_entries"],
		"filtered_entries", stats["filtered_entries"],
		"rate_limited", stats["rate_limited"],
	}

	if sinkStats, ok := stats["sink"].(map[string]any); ok {
		fields = append(fields,
			"retained", sinkStats["retained"],
			"evicted", sinkStats["evicted"])
	}

	logger.Info(fields...)
}

func enableStatusReporter() bool {
	return os.Getenv("INSTAROID_DISABLE_STATUS_REPORTER") != "1"
}
