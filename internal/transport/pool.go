package transport

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// ConnectionPool shares one keep-alive transport across every outbound
// request. The client carries no timeout; callers bound requests through ctx.
type ConnectionPool struct {
	maxIdle     int
	maxActive   int
	idleTimeout time.Duration

	transport *http.Transport
	client    *http.Client
	headers   map[string]string

	requests int64
	failures int64
	inFlight int64
}

// NewConnectionPool creates a pool that stamps defaultHeaders on every request
func NewConnectionPool(maxIdle, maxActive int, idleTimeout time.Duration, defaultHeaders map[string]string) *ConnectionPool {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          maxIdle,
		MaxConnsPerHost:       maxActive,
		MaxIdleConnsPerHost:   max(maxIdle/2, 1),
		IdleConnTimeout:       idleTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	headers := make(map[string]string, len(defaultHeaders))
	for k, v := range defaultHeaders {
		headers[k] = v
	}

	return &ConnectionPool{
		maxIdle:     maxIdle,
		maxActive:   maxActive,
		idleTimeout: idleTimeout,
		transport:   transport,
		client:      &http.Client{Transport: transport},
		headers:     headers,
	}
}

// DoRequest executes one request. Per-call headers override the defaults.
// The caller owns the response body.
func (cp *ConnectionPool) DoRequest(ctx context.Context, method, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}

	for key, value := range cp.headers {
		req.Header.Set(key, value)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	atomic.AddInt64(&cp.requests, 1)
	atomic.AddInt64(&cp.inFlight, 1)
	defer atomic.AddInt64(&cp.inFlight, -1)

	start := time.Now()
	resp, err := cp.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		atomic.AddInt64(&cp.failures, 1)
		slog.Warn("Request failed", "url", url, "error", err, "duration_ms", duration.Milliseconds())
		return nil, err
	}

	slog.Debug("Request completed", "url", url, "status", resp.StatusCode, "duration_ms", duration.Milliseconds())
	return resp, nil
}

// GetStats returns connection pool statistics
func (cp *ConnectionPool) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"requests":        atomic.LoadInt64(&cp.requests),
		"failures":        atomic.LoadInt64(&cp.failures),
		"in_flight":       atomic.LoadInt64(&cp.inFlight),
		"max_idle":        cp.maxIdle,
		"max_active":      cp.maxActive,
		"idle_timeout_ms": cp.idleTimeout.Milliseconds(),
	}
}

// Close drops every idle connection
func (cp *ConnectionPool) Close() error {
	cp.transport.CloseIdleConnections()
	slog.Info("Connection pool closed")
	return nil
}
