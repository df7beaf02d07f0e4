// Package transport runs single HTTP requests off the caller's goroutine and
// reports each outcome to a completion callback.
package transport

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Header is one response or request header line. Order is preserved.
type Header struct {
	Name  string
	Value string
}

// Request is a single outgoing request. Ctx only carries tracing data,
// it does not cancel the request.
type Request struct {
	Ctx     context.Context
	Method  string
	URL     string
	Headers []Header
	Body    []byte
}

// Response is what the server answered
type Response struct {
	URL        string
	Status     int
	StatusText string
	OK         bool
	Headers    []Header
	Bytes      []byte
}

// Text returns the body as a string when it is valid, non-empty UTF-8
func (r *Response) Text() (string, bool) {
	if r == nil || len(r.Bytes) == 0 || !utf8.Valid(r.Bytes) {
		return "", false
	}
	return string(r.Bytes), true
}

// HeaderValues returns every value of the named header, matched case-insensitively
func (r *Response) HeaderValues(name string) []string {
	if r == nil {
		return nil
	}
	var values []string
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			values = append(values, h.Value)
		}
	}
	return values
}

// Result is the outcome of a request: a response, or the reason none was obtained
type Result struct {
	Response *Response
	Err      error
}

// Transport executes one request asynchronously and calls done exactly once.
// Fetch never blocks the caller. done runs on a goroutine owned by the transport.
type Transport interface {
	Fetch(req *Request, done func(Result))
}

// CookieManager is implemented by transports that keep the session cookie
// themselves, the way a browser does. Callers must not add a Cookie header then.
type CookieManager interface {
	ManagesCookies() bool
}

// ManagesCookies reports whether t propagates cookies on its own
func ManagesCookies(t Transport) bool {
	cm, ok := t.(CookieManager)
	return ok && cm.ManagesCookies()
}

// FuncTransport adapts a blocking function into a Transport.
// Each call runs on its own goroutine.
type FuncTransport func(req *Request) Result

// Fetch implements Transport.Fetch
func (f FuncTransport) Fetch(req *Request, done func(Result)) {
	go func() {
		done(f(req))
	}()
}
