// Package request keeps the in-flight registry: one slot per logical
// operation key, filled asynchronously by the transport and polled from the
// UI thread.
package request

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amoylab/npipe-admin/internal/common/cnst"
	"github.com/amoylab/npipe-admin/internal/resource"
	"github.com/amoylab/npipe-admin/internal/transport"
	"github.com/amoylab/npipe-admin/pkg/metrics"
	"github.com/amoylab/npipe-admin/pkg/trace"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrInFlight is returned by TrySubmit when the key already has a pending slot
var ErrInFlight = errors.New("request already in flight")

// CookieSource returns the cookies to attach to the next request
type CookieSource func() []string

// Registry maps operation keys to slots. It is owned by the UI thread and
// is not safe for concurrent use. Completion callbacks only touch the slot
// they were created for and the dirty flag.
type Registry struct {
	transport transport.Transport
	baseURL   string
	dirty     *DirtyFlag

	cookies CookieSource
	wake    func()
	logger  *zap.Logger
	metrics *metrics.Metrics
	tracer  *trace.Builder

	slots map[Key]*Slot
}

// Option configures a Registry
type Option func(*Registry)

// WithCookies sets where explicit Cookie headers come from
func WithCookies(src CookieSource) Option {
	return func(r *Registry) { r.cookies = src }
}

// WithWaker sets the redraw request made after each completion
func WithWaker(wake func()) Option {
	return func(r *Registry) { r.wake = wake }
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// New creates a registry that submits through t to endpoints under baseURL
func New(t transport.Transport, baseURL string, dirty *DirtyFlag, opts ...Option) *Registry {
	r := &Registry{
		transport: t,
		baseURL:   baseURL,
		dirty:     dirty,
		cookies:   func() []string { return nil },
		wake:      func() {},
		logger:    zap.NewNop(),
		tracer:    trace.Tracer(cnst.TraceClient),
		slots:     make(map[Key]*Slot),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named("request")
	return r
}

// CanRequest reports whether no slot exists for key or its slot is resolved.
// The answer is advisory, Submit does not enforce it.
func (r *Registry) CanRequest(key Key) bool {
	s, ok := r.slots[key]
	return !ok || s.Ready()
}

// TrySubmit submits only when CanRequest(key) holds
func (r *Registry) TrySubmit(key Key, params url.Values, body []byte) (*Slot, error) {
	if !r.CanRequest(key) {
		return nil, ErrInFlight
	}
	return r.Submit(key, params, body), nil
}

// Submit dispatches a POST to the key's endpoint and binds a fresh slot to
// key. A pending slot previously bound to key is orphaned and its result is
// never observed. Nothing is resolved and the dirty flag is not touched
// before the transport completes.
func (r *Registry) Submit(key Key, params url.Values, body []byte) *Slot {
	slot := newSlot(key, uuid.NewString())
	if prev, ok := r.slots[key]; ok {
		prev.orphan()
	}
	r.slots[key] = slot

	req := &transport.Request{
		Method: http.MethodPost,
		URL:    BuildURL(r.baseURL, key.Path(), params),
		Body:   body,
	}
	if !transport.ManagesCookies(r.transport) {
		if cookies := r.cookies(); len(cookies) > 0 {
			req.Headers = append(req.Headers, transport.Header{
				Name:  "Cookie",
				Value: strings.Join(cookies, "; "),
			})
		}
	}

	op := key.Op.String()
	span := r.tracer.Start(context.Background(), cnst.SpanRequestSubmit).
		WithAttrs(
			attribute.String(cnst.AttrOperation, op),
			attribute.String(cnst.AttrOperationKey, key.String()),
			attribute.String(cnst.AttrRequestID, slot.id),
		)
	req.Ctx = span.Ctx

	r.logger.Debug("submitting request",
		zap.String("key", key.String()),
		zap.String("request_id", slot.id),
		zap.String("url", req.URL))
	r.metrics.RequestStart(op)

	r.transport.Fetch(req, func(out transport.Result) {
		res := resource.Decode(key.Op, out)
		// dirty must be visible before the slot turns ready
		r.dirty.Set()
		slot.resolve(res)
		r.wake()

		r.observe(slot, res, span)
	})
	return slot
}

func (r *Registry) observe(slot *Slot, res *resource.Resource, span *trace.SpanScope) {
	op := slot.key.Op.String()
	outcome := res.Result.Outcome()
	r.metrics.RequestDone(op, outcome, slot.submittedAt)

	if status := res.Status(); status != 0 {
		span.WithAttrs(attribute.Int(cnst.AttrHTTPStatusCode, status))
	}
	if res.Result.HasCode {
		span.WithAttrs(attribute.Int(cnst.AttrAppCode, res.Result.Code))
	}
	span.Fail(res.Result.Err).End()

	fields := []zap.Field{
		zap.String("key", slot.key.String()),
		zap.String("request_id", slot.id),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", time.Since(slot.submittedAt)),
	}
	if slot.Orphaned() {
		r.metrics.RequestOrphaned(op)
		r.logger.Debug("discarding result of replaced request", fields...)
		return
	}
	if res.Result.Err != nil {
		fields = append(fields, zap.Error(res.Result.Err))
	}
	r.logger.Debug("request completed", fields...)
}

// Clear drops every slot. Pending ones are orphaned.
func (r *Registry) Clear() {
	for _, s := range r.slots {
		s.orphan()
	}
	clear(r.slots)
}

// Slot returns the slot bound to key, if any
func (r *Registry) Slot(key Key) (*Slot, bool) {
	s, ok := r.slots[key]
	return s, ok
}

// Remove drops the slot bound to key. A pending slot is orphaned.
func (r *Registry) Remove(key Key) {
	if s, ok := r.slots[key]; ok {
		s.orphan()
		delete(r.slots, key)
	}
}

func (r *Registry) Len() int {
	return len(r.slots)
}

// Range calls fn for every slot until fn returns false. Order is unspecified.
func (r *Registry) Range(fn func(Key, *Slot) bool) {
	for k, s := range r.slots {
		if !fn(k, s) {
			return
		}
	}
}

// BuildURL appends path to base, adding a trailing slash to base when it
// lacks one, then appends the encoded params when there are any.
func BuildURL(base, path string, params url.Values) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	u := base + path
	if q := params.Encode(); q != "" {
		u += "?" + q
	}
	return u
}
