package console

import (
	"errors"

	"github.com/amoylab/npipe-admin/internal/resource"
)

const unknownError = "Unknown error"

// RowState is the progress of an operation started from a page
type RowState int

const (
	RowNone RowState = iota
	RowWait
	RowError
)

func (s RowState) String() string {
	switch s {
	case RowWait:
		return "wait"
	case RowError:
		return "error"
	default:
		return "none"
	}
}

// RowStatus is a RowState plus the message shown next to the row on error
type RowStatus struct {
	State RowState
	Err   string
}

// errorText returns what a page shows for a failed result. A transport
// failure without a message is shown as fallback.
func errorText(res *resource.Resource, fallback string) string {
	var te *resource.TransportError
	if errors.As(res.Result.Err, &te) && te.Msg == "" {
		return fallback
	}
	if msg := res.Result.Message(); msg != "" {
		return msg
	}
	return unknownError
}
