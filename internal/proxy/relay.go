// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package proxy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/ManuGH/streamflix/internal/log"
	"github.com/ManuGH/streamflix/internal/metrics"
	platformnet "github.com/ManuGH/streamflix/internal/platform/net"
	"github.com/ManuGH/streamflix/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
)

type relayKey struct{}

// relayState carries the located target through the reverse proxy hooks.
// It is owned by a single request.
type relayState struct {
	target  *url.URL
	start   time.Time
	outcome string
}

func relayStateFrom(ctx context.Context) *relayState {
	st, _ := ctx.Value(relayKey{}).(*relayState)
	return st
}

// serveRelay bounds the relay by the max stream duration and records the outcome.
// A panic raised by the reverse proxy on a broken body copy is counted as aborted
// and propagates unchanged.
func (s *Server) serveRelay(w http.ResponseWriter, r *http.Request, target *url.URL) {
	ctx, cancel := context.WithTimeout(r.Context(), s.maxStreamDuration)
	defer cancel()

	st := &relayState{target: target, start: time.Now()}
	ctx = context.WithValue(ctx, relayKey{}, st)

	done := metrics.RelayStarted()
	defer done()
	defer func() {
		outcome := st.outcome
		if outcome == "" {
			outcome = outcomeAborted
		}
		metrics.IncProxyRequest(outcome)
	}()

	s.relay.ServeHTTP(w, r.WithContext(ctx))
	if st.outcome == "" {
		st.outcome = outcomeRelayed
	}
}

// rewrite points the outbound request at the located object. Only Range is
// forwarded; cookies, authorization and client identity stay on this side.
func (s *Server) rewrite(pr *httputil.ProxyRequest) {
	st := relayStateFrom(pr.In.Context())
	if st == nil {
		return
	}
	target := *st.target
	pr.Out.URL = &target
	pr.Out.Host = ""

	pr.Out.Header = make(http.Header)
	if ranges := pr.In.Header.Values("Range"); len(ranges) > 0 {
		pr.Out.Header["Range"] = append([]string(nil), ranges...)
	}
}

// modifyResponse drops upstream CORS headers; the stamped set is authoritative.
// Status, Content-Range and body pass through untouched.
func (s *Server) modifyResponse(resp *http.Response) error {
	stripCORS(resp.Header)

	st := relayStateFrom(resp.Request.Context())
	if st == nil {
		return nil
	}
	metrics.ObserveUpstreamResponse(resp.StatusCode, time.Since(st.start))
	trace.SpanFromContext(resp.Request.Context()).SetAttributes(
		telemetry.UpstreamAttributes(st.target.Host, resp.StatusCode, resp.Request.Header.Get("Range"))...)

	logger := log.WithContext(resp.Request.Context(), s.logger)
	evt := logger.Debug()
	if resp.StatusCode >= http.StatusInternalServerError {
		evt = logger.Warn()
	}
	evt.
		Str(log.FieldEvent, "proxy.upstream_response").
		Str(log.FieldUpstreamHost, st.target.Host).
		Int(log.FieldUpstreamStatus, resp.StatusCode).
		Str("content_range", resp.Header.Get("Content-Range")).
		Int64("content_length", resp.ContentLength).
		Msg("upstream responded")
	return nil
}

// handleUpstreamError converts transport failures into plain-text 5xx responses.
// CORS headers were stamped before routing and survive.
func (s *Server) handleUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	class := ClassifyUpstreamError(err)
	metrics.IncUpstreamError(class)
	trace.SpanFromContext(r.Context()).SetAttributes(telemetry.ErrorAttributes(class)...)

	st := relayStateFrom(r.Context())
	upstream := ""
	if st != nil {
		upstream = platformnet.SanitizeURL(st.target.String())
	}
	logger := log.WithContext(r.Context(), s.logger)

	status, msg, outcome := http.StatusBadGateway, MsgUpstreamFailed, outcomeUpstreamErr
	switch {
	case class == ErrorClassCanceled:
		outcome = outcomeCanceled
		logger.Debug().
			Str(log.FieldEvent, "proxy.client_gone").
			Str("upstream", upstream).
			Msg("client canceled relay")
	case class == ErrorClassTimeout || errors.Is(r.Context().Err(), context.DeadlineExceeded):
		status, msg, outcome = http.StatusGatewayTimeout, MsgUpstreamTimedOut, outcomeTimeout
		logger.Warn().Err(err).
			Str(log.FieldEvent, "proxy.upstream_timeout").
			Str(log.FieldErrorClass, class).
			Str("upstream", upstream).
			Msg("upstream timed out")
	default:
		logger.Error().Err(err).
			Str(log.FieldEvent, "proxy.upstream_failed").
			Str(log.FieldErrorClass, class).
			Str("upstream", upstream).
			Msg("upstream fetch failed")
	}
	if st != nil {
		st.outcome = outcome
	}
	writeText(w, status, msg)
}
