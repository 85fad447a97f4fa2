// Package middleware provides net/http middleware for the Imaginify service.
//
// # Prometheus Metrics
//
// Prometheus records request counts, durations and in-flight requests,
// labeled by chi route pattern so path parameters do not explode label
// cardinality:
//
//	reg := prometheus.NewRegistry()
//	r.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// Metrics collected (default namespace "imaginify"):
//   - imaginify_http_requests_total{method,route,status}
//   - imaginify_http_request_duration_seconds{method,route}
//   - imaginify_http_requests_in_flight
//
// # OpenTelemetry Tracing
//
// Tracing starts a server span per request using the global tracer
// provider. Configure the provider in main() before starting the server:
//
//	otel.SetTracerProvider(tp)
//	r.Use(middleware.Tracing())
//
// # Rate Limiting
//
// RateLimit applies a token bucket per client IP:
//
//	limiter := middleware.NewIPRateLimiter(10, 20)
//	go limiter.Run(ctx)
//	r.Use(middleware.RateLimit(limiter))
package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
)

// statusRecorder captures the status code written by the next handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack supports the WebSocket upgrade on /ws routes.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("middleware: response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) code() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}
