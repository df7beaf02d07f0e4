package resource

import (
	"fmt"
	"net/http"
)

// DefaultTransportMessage replaces an empty transport failure message
const DefaultTransportMessage = "request failed"

// TransportError means no response was obtained at all
type TransportError struct {
	Msg string
}

func (e *TransportError) Error() string {
	if e.Msg == "" {
		return DefaultTransportMessage
	}
	return e.Msg
}

// HTTPStatusError means a response arrived with a status outside 2xx
type HTTPStatusError struct {
	Status int
	Reason string
	Body   string
}

func (e *HTTPStatusError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = http.StatusText(e.Status)
	}
	if e.Body != "" {
		return fmt.Sprintf("status:%d (%s)\nerror: %s", e.Status, reason, e.Body)
	}
	return fmt.Sprintf("status:%d (%s)", e.Status, reason)
}

// DecodeError means the payload matched neither the operation schema nor the acknowledgment
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "json decode: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ApplicationError is a well-formed acknowledgment with a nonzero code
type ApplicationError struct {
	Code int
	Msg  string
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("code:%d (%s)", e.Code, e.Msg)
}

// SessionExpired reports whether the code is the server's "session invalid" sentinel
func (e *ApplicationError) SessionExpired(sentinel int) bool {
	return e.Code == sentinel
}
