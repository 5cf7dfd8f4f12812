// FILE: src/internal/ingress/request.go
package ingress

import (
	"encoding/json"
	"errors"
	"net"

	"instaroid/src/internal/sink"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fastjson"
)

var errInvalidFormat = errors.New("logs is not an array")

const unknownIP = "unknown"

// clientIP is x-forwarded-for, then x-real-ip, then "unknown". Header values are used verbatim.
func clientIP(ctx *fasthttp.RequestCtx) string {
	if v := ctx.Request.Header.Peek("X-Forwarded-For"); len(v) > 0 {
		return string(v)
	}
	if v := ctx.Request.Header.Peek("X-Real-Ip"); len(v) > 0 {
		return string(v)
	}
	return unknownIP
}

// limitKey identifies the client for rate limiting, falling back to the socket address
func limitKey(ctx *fasthttp.RequestCtx, ip string) string {
	if ip != unknownIP {
		return ip
	}
	host, _, err := net.SplitHostPort(ctx.RemoteAddr().String())
	if err != nil {
		return ctx.RemoteAddr().String()
	}
	return host
}

func requestInfo(ctx *fasthttp.RequestCtx, ip string) *sink.RequestInfo {
	return &sink.RequestInfo{
		Method:    string(ctx.Method()),
		URL:       string(ctx.URI().FullURI()),
		UserAgent: string(ctx.Request.Header.UserAgent()),
		IP:        ip,
		Referer:   string(ctx.Request.Header.Referer()),
	}
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// text renders message values; non-strings keep their JSON form
func text(v *fastjson.Value) string {
	if v == nil {
		return ""
	}
	if v.Type() == fastjson.TypeString {
		return string(v.GetStringBytes())
	}
	return v.String()
}

// jsonValue converts a fastjson value to its encoding/json equivalent
func jsonValue(v *fastjson.Value) any {
	var out any
	if err := json.Unmarshal(v.MarshalTo(nil), &out); err != nil {
		return nil
	}
	return out
}
