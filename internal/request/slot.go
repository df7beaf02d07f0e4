package request

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/amoylab/npipe-admin/internal/resource"
)

// Slot is a one-shot cell that receives the decoded outcome of one request.
// It is written once from the transport goroutine and read from the UI thread.
type Slot struct {
	key         Key
	id          string
	submittedAt time.Time

	done     chan struct{}
	res      *resource.Resource
	orphaned atomic.Bool

	// UI thread only
	checked bool
}

func newSlot(key Key, id string) *Slot {
	return &Slot{
		key:         key,
		id:          id,
		submittedAt: time.Now(),
		done:        make(chan struct{}),
	}
}

func (s *Slot) Key() Key {
	return s.key
}

// ID is the request id used in logs and spans
func (s *Slot) ID() string {
	return s.id
}

func (s *Slot) SubmittedAt() time.Time {
	return s.submittedAt
}

// Ready reports whether the slot has been resolved
func (s *Slot) Ready() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Resource returns the decoded outcome, or nil while the request is pending
func (s *Slot) Resource() *resource.Resource {
	if !s.Ready() {
		return nil
	}
	return s.res
}

// Done is closed once the slot is resolved
func (s *Slot) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the slot resolves or ctx is done. The UI thread never
// calls it. Headless callers do.
func (s *Slot) Wait(ctx context.Context) (*resource.Resource, error) {
	select {
	case <-s.done:
		return s.res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Checked reports whether the expiry sweep has already inspected the slot
func (s *Slot) Checked() bool {
	return s.checked
}

func (s *Slot) MarkChecked() {
	s.checked = true
}

// Orphaned reports whether the slot was replaced or cleared while pending
func (s *Slot) Orphaned() bool {
	return s.orphaned.Load()
}

func (s *Slot) orphan() {
	if !s.Ready() {
		s.orphaned.Store(true)
	}
}

func (s *Slot) resolve(res *resource.Resource) {
	s.res = res
	close(s.done)
}
