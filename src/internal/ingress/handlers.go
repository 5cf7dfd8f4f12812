// FILE: src/internal/ingress/handlers.go
package ingress

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"instaroid/src/internal/core"
	"instaroid/src/internal/filter"
	"instaroid/src/internal/metrics"
	"instaroid/src/internal/sink"
	"instaroid/src/internal/version"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fastjson"
)

const clientPrefix = "[CLIENT] "

// handleIngest accepts {"logs": [...]} from client buffers
func (s *Server) handleIngest(ctx *fasthttp.RequestCtx) {
	status := s.ingest(ctx)
	metrics.IngestRequest(status)
}

func (s *Server) ingest(ctx *fasthttp.RequestCtx) int {
	ip := clientIP(ctx)
	if !s.limiter.Allow(limitKey(ctx, ip)) {
		s.rateLimited.Add(1)
		code := s.limiter.ResponseCode()
		writeJSON(ctx, code, map[string]any{
			"error":       "Too many requests",
			"retry_after": "1",
		})
		return code
	}

	reqInfo := requestInfo(ctx, ip)

	processed, err := s.processBatch(ctx, reqInfo)
	switch {
	case errors.Is(err, errInvalidFormat):
		s.invalidBatches.Add(1)
		writeJSON(ctx, fasthttp.StatusBadRequest, map[string]string{"error": "Invalid logs format"})
		return fasthttp.StatusBadRequest

	case err != nil:
		s.failedBatches.Add(1)
		s.sink.Error("Error processing client logs", core.Data{"error": err.Error()}, "LogsAPI", reqInfo)
		s.logger.Error("msg", "Error processing client logs",
			"component", "ingress",
			"ip", ip,
			"error", err)
		writeJSON(ctx, fasthttp.StatusInternalServerError, map[string]string{"error": "Failed to process logs"})
		return fasthttp.StatusInternalServerError
	}

	s.totalBatches.Add(1)
	s.lastBatchTime.Store(time.Now())
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"success":   true,
		"processed": processed,
	})
	return fasthttp.StatusOK
}

// processBatch parses the body and hands every object element to the sink.
// Elements that are not objects are skipped and not counted as processed.
// A panic anywhere in processing is reported as an ordinary error.
func (s *Server) processBatch(ctx *fasthttp.RequestCtx, reqInfo *sink.RequestInfo) (processed int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	p := s.parsers.Get()
	defer s.parsers.Put(p)

	v, err := p.ParseBytes(ctx.PostBody())
	if err != nil {
		return 0, fmt.Errorf("invalid JSON body: %w", err)
	}

	logs := v.Get("logs")
	if logs == nil || logs.Type() != fastjson.TypeArray {
		return 0, errInvalidFormat
	}
	items, _ := logs.Array()

	for _, item := range items {
		if item.Type() != fastjson.TypeObject {
			s.skippedEntries.Add(1)
			continue
		}

		entry, err := s.clientEntry(item, reqInfo)
		if err != nil {
			return processed, err
		}

		s.totalEntries.Add(1)
		processed++

		if !s.chain.Apply(entry) {
			s.filteredEntries.Add(1)
			metrics.FilteredEntry()
			continue
		}

		metrics.IngestedEntry(entry.Level)
		s.sink.LogEntry(entry, reqInfo)

		s.logger.Debug("msg", entry.Message,
			"component", "ingress",
			"client_component", entry.Component,
			"level", entry.Level)
	}

	return processed, nil
}

// clientEntry builds the sink entry for one element of the logs array
func (s *Server) clientEntry(item *fastjson.Value, reqInfo *sink.RequestInfo) (core.LogEntry, error) {
	data := core.Data{}
	if raw := item.Get("data"); raw != nil && raw.Type() == fastjson.TypeObject {
		if err := json.Unmarshal(raw.MarshalTo(nil), &data); err != nil {
			return core.LogEntry{}, fmt.Errorf("invalid data object: %w", err)
		}
	}

	clientInfo := map[string]any{
		"userAgent": orNil(reqInfo.UserAgent),
		"ip":        reqInfo.IP,
		"referer":   orNil(reqInfo.Referer),
	}
	for _, key := range []string{"userId", "sessionId"} {
		if val := item.Get(key); val != nil {
			clientInfo[key] = jsonValue(val)
		}
	}
	if ts := item.Get("timestamp"); ts != nil {
		clientInfo["originalTimestamp"] = jsonValue(ts)
	}
	data["clientInfo"] = clientInfo

	return core.LogEntry{
		Level:     core.NormalizeLevel(string(item.GetStringBytes("level"))).String(),
		Message:   clientPrefix + text(item.Get("message")),
		Data:      data,
		Component: string(item.GetStringBytes("component")),
		UserID:    string(item.GetStringBytes("userId")),
		SessionID: string(item.GetStringBytes("sessionId")),
	}, nil
}

// handleInspect returns retained entries matching the query arguments
func (s *Server) handleInspect(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	q := filter.ParseQuery(func(key string) string { return string(args.Peek(key)) })

	all := s.sink.Logs()
	matched := q.Apply(all)

	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"logs":    matched,
		"total":   len(all),
		"matched": len(matched),
	})
}

// handleStats summarizes the retained window
func (s *Server) handleStats(ctx *fasthttp.RequestCtx) {
	summary := filter.Summarize(s.sink.Logs())
	writeJSON(ctx, fasthttp.StatusOK, summary)
}

// handleClear discards the retained window
func (s *Server) handleClear(ctx *fasthttp.RequestCtx) {
	cleared := s.sink.Clear()
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"success": true,
		"cleared": cleared,
	})
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"status":   "ok",
		"version":  version.Short(),
		"retained": s.sink.Len(),
	})
}

func (s *Server) handleNotFound(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusNotFound, map[string]string{
		"error": "Not Found",
		"hint":  fmt.Sprintf("POST logs to %s", s.ingestPath),
	})
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, body any) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	if err := json.NewEncoder(ctx).Encode(body); err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	}
}
