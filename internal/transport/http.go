package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// HTTPTransport implements Transport on top of net/http.
// Every Fetch runs on its own goroutine.
type HTTPTransport struct {
	client  *http.Client
	logger  *zap.Logger
	withJar bool
}

var _ Transport = (*HTTPTransport)(nil)

// Option configures an HTTPTransport
type Option func(*options)

type options struct {
	timeout   time.Duration
	jar       bool
	roundTrip http.RoundTripper
}

// WithTimeout bounds each request. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithCookieJar keeps cookies in the transport instead of explicit headers
func WithCookieJar() Option {
	return func(o *options) { o.jar = true }
}

// WithRoundTripper replaces the base round tripper
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *options) { o.roundTrip = rt }
}

// NewHTTPTransport creates a new HTTP transport
func NewHTTPTransport(logger *zap.Logger, opts ...Option) (*HTTPTransport, error) {
	o := &options{roundTrip: http.DefaultTransport}
	for _, opt := range opts {
		opt(o)
	}

	client := &http.Client{
		Transport: otelhttp.NewTransport(o.roundTrip),
		Timeout:   o.timeout,
	}
	if o.jar {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		client.Jar = jar
	}

	return &HTTPTransport{
		client:  client,
		logger:  logger.Named("transport.http"),
		withJar: o.jar,
	}, nil
}

// ManagesCookies implements CookieManager
func (t *HTTPTransport) ManagesCookies() bool {
	return t.withJar
}

// Fetch implements Transport.Fetch
func (t *HTTPTransport) Fetch(req *Request, done func(Result)) {
	go func() {
		done(t.do(req))
	}()
}

func (t *HTTPTransport) do(r *Request) Result {
	method := r.Method
	if method == "" {
		method = http.MethodPost
	}
	ctx := context.Background()
	if r.Ctx != nil {
		ctx = trace.ContextWithSpanContext(ctx, trace.SpanContextFromContext(r.Ctx))
	}
	req, err := http.NewRequestWithContext(ctx, method, r.URL, bytes.NewReader(r.Body))
	if err != nil {
		return Result{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for _, h := range r.Headers {
		req.Header.Add(h.Name, h.Value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Debug("request failed",
			zap.String("url", r.URL),
			zap.Error(err))
		return Result{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return Result{Response: &Response{
		URL:        r.URL,
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		Headers:    flattenHeaders(resp.Header),
		Bytes:      data,
	}}
}

// statusText returns the reason phrase, "OK" from "200 OK"
func statusText(resp *http.Response) string {
	if _, reason, ok := strings.Cut(resp.Status, " "); ok && reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}

// flattenHeaders turns the header map into an ordered list, sorted by name
func flattenHeaders(h http.Header) []Header {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Header, 0, len(h))
	for _, name := range names {
		for _, v := range h[name] {
			out = append(out, Header{Name: name, Value: v})
		}
	}
	return out
}
