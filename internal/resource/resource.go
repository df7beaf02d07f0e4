// Package resource decodes raw transport outcomes into typed results.
// The payload schema is picked from the operation that was submitted,
// never from the content of the payload.
package resource

import (
	"errors"
	"net/http"

	"github.com/amoylab/npipe-admin/internal/proto"
	"github.com/amoylab/npipe-admin/internal/transport"
)

// Kind tags which variant of Result is populated
type Kind int

const (
	KindError Kind = iota
	KindAck
	KindPayload
)

func (k Kind) String() string {
	switch k {
	case KindAck:
		return "ack"
	case KindPayload:
		return "payload"
	default:
		return "error"
	}
}

// Result is the decoded outcome of one request. Exactly one of Ack, Payload
// or Err is meaningful, according to Kind.
type Result struct {
	Kind    Kind
	Ack     proto.GeneralResponse
	Payload any
	Err     error
	// Code is the application code when an acknowledgment was decoded
	Code    int
	HasCode bool
}

// Message returns the error text, or "" for successful results
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Outcome is a short label of the result, used for metrics and logs
func (r Result) Outcome() string {
	var (
		te *TransportError
		he *HTTPStatusError
		de *DecodeError
		ae *ApplicationError
	)
	switch {
	case r.Kind != KindError:
		return r.Kind.String()
	case errors.As(r.Err, &te):
		return "transport_error"
	case errors.As(r.Err, &he):
		return "status_error"
	case errors.As(r.Err, &de):
		return "decode_error"
	case errors.As(r.Err, &ae):
		return "app_error"
	default:
		return "error"
	}
}

// Resource is a completed request: the raw response, when one was obtained,
// plus its decoded result.
type Resource struct {
	Op       proto.Operation
	Response *transport.Response
	Result   Result
}

// Status returns the HTTP status, or 0 when the transport failed
func (r *Resource) Status() int {
	if r == nil || r.Response == nil {
		return 0
	}
	return r.Response.Status
}

// Headers returns the response headers, or nil when the transport failed
func (r *Resource) Headers() []transport.Header {
	if r == nil || r.Response == nil {
		return nil
	}
	return r.Response.Headers
}

// SessionExpired reports whether the server signalled an invalid session,
// either by status 401 or by the sentinel application code.
func (r *Resource) SessionExpired(sentinel int) bool {
	if r == nil {
		return false
	}
	if r.Status() == http.StatusUnauthorized {
		return true
	}
	return r.Result.HasCode && r.Result.Code == sentinel
}

// PlayerList returns the decoded player page, if that is what the result holds
func (r *Resource) PlayerList() (*proto.ListResponse[proto.Player], bool) {
	return payloadAs[*proto.ListResponse[proto.Player]](r)
}

// TunnelList returns the decoded tunnel page, if that is what the result holds
func (r *Resource) TunnelList() (*proto.ListResponse[proto.Tunnel], bool) {
	return payloadAs[*proto.ListResponse[proto.Tunnel]](r)
}

func payloadAs[T any](r *Resource) (T, bool) {
	var zero T
	if r == nil || r.Result.Kind != KindPayload {
		return zero, false
	}
	v, ok := r.Result.Payload.(T)
	return v, ok
}
