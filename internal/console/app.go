// Package console drives the admin client: it owns the request registry and
// the session state on a single goroutine, runs the expiry sweep once per
// tick and polls the pages that render request outcomes.
package console

import (
	"context"
	"net/url"
	"time"

	"github.com/amoylab/npipe-admin/internal/common/cnst"
	"github.com/amoylab/npipe-admin/internal/common/config"
	"github.com/amoylab/npipe-admin/internal/proto"
	"github.com/amoylab/npipe-admin/internal/request"
	"github.com/amoylab/npipe-admin/internal/session"
	"github.com/amoylab/npipe-admin/internal/transport"
	"github.com/amoylab/npipe-admin/pkg/metrics"
	"github.com/amoylab/npipe-admin/pkg/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	LogoutReasonUser    = "user"
	LogoutReasonExpired = "session_expired"
)

// Page is polled once per tick after the sweep and reset whenever the
// session changes
type Page interface {
	Poll()
	Reset()
}

// App is the client core. Every method must be called from the goroutine
// that runs the console loop.
type App struct {
	cfg     *config.ClientConfig
	logger  *zap.Logger
	metrics *metrics.Metrics
	tracer  *trace.Builder

	state    session.State
	dirty    request.DirtyFlag
	registry *request.Registry
	wake     chan struct{}
	pages    []Page
}

// Option configures an App
type Option func(*App)

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// New creates an App that submits requests through t
func New(cfg *config.ClientConfig, t transport.Transport, logger *zap.Logger, opts ...Option) *App {
	a := &App{
		cfg:    cfg,
		logger: logger.Named("console"),
		tracer: trace.Tracer(cnst.TraceClient),
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.registry = request.New(t, cfg.APIURL, &a.dirty,
		request.WithCookies(a.state.Cookies),
		request.WithWaker(a.notify),
		request.WithLogger(logger),
		request.WithMetrics(a.metrics),
	)
	return a
}

func (a *App) notify() {
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

func (a *App) Config() *config.ClientConfig {
	return a.cfg
}

// AddPage registers p to be polled every tick
func (a *App) AddPage(p Page) {
	a.pages = append(a.pages, p)
}

func (a *App) Submit(key request.Key, params url.Values, body []byte) *request.Slot {
	return a.registry.Submit(key, params, body)
}

func (a *App) TrySubmit(key request.Key, params url.Values, body []byte) (*request.Slot, error) {
	return a.registry.TrySubmit(key, params, body)
}

func (a *App) CanRequest(key request.Key) bool {
	return a.registry.CanRequest(key)
}

func (a *App) Slot(key request.Key) (*request.Slot, bool) {
	return a.registry.Slot(key)
}

// Forget drops the slot of key
func (a *App) Forget(key request.Key) {
	a.registry.Remove(key)
}

func (a *App) Clear() {
	a.registry.Clear()
}

func (a *App) Authenticated() bool {
	return a.state.Authenticated()
}

func (a *App) Cookies() []string {
	return a.state.Cookies()
}

// Restore adopts a saved session without touching the network
func (a *App) Restore(p *session.Profile) {
	a.state.Restore(p)
}

// Snapshot returns the current session as a profile
func (a *App) Snapshot(username string) *session.Profile {
	return a.state.Snapshot(a.cfg.APIURL, username)
}

// LoginSuccess starts a new session. Results of requests issued before it
// are dropped.
func (a *App) LoginSuccess(cookies []string) {
	a.registry.Clear()
	a.state.LoginSuccess(cookies)
	a.resetPages()
	a.logger.Info("logged in", zap.Int("cookies", len(cookies)))
}

// Logout ends the session locally
func (a *App) Logout() {
	a.logout(LogoutReasonUser)
}

func (a *App) logout(reason string) {
	span := a.tracer.Start(context.Background(), cnst.SpanSessionLogout).
		WithAttrs(attribute.String(cnst.AttrLogoutReason, reason))
	defer span.End()

	a.registry.Clear()
	a.state.Logout()
	a.resetPages()
	a.metrics.Logout(reason)
	a.logger.Info("logged out", zap.String("reason", reason))
}

func (a *App) resetPages() {
	for _, p := range a.pages {
		p.Reset()
	}
}

// RequestLogout asks the server to end the session. The local session ends
// once the request completes, whatever the outcome.
func (a *App) RequestLogout() *request.Slot {
	key := request.For(proto.OpLogout)
	if slot, ok := a.registry.Slot(key); ok && !slot.Ready() {
		return slot
	}
	return a.registry.Submit(key, nil, nil)
}

// TestAuth probes the session. An expired session is picked up by the sweep.
func (a *App) TestAuth() *request.Slot {
	key := request.For(proto.OpTestAuth)
	if slot, ok := a.registry.Slot(key); ok && !slot.Ready() {
		return slot
	}
	return a.registry.Submit(key, nil, nil)
}

// Tick runs one iteration of the console loop
func (a *App) Tick() {
	a.sweep()
	a.pollLogout()
	for _, p := range a.pages {
		p.Poll()
	}
}

func (a *App) pollLogout() {
	slot, ok := a.registry.Slot(request.For(proto.OpLogout))
	if !ok || !slot.Ready() {
		return
	}
	if err := slot.Resource().Result.Err; err != nil {
		a.logger.Warn("server logout failed", zap.Error(err))
	}
	a.logout(LogoutReasonUser)
}

// Run ticks until frame returns false or ctx is done. A tick happens right
// away, then whenever a request completes or the tick interval elapses.
func (a *App) Run(ctx context.Context, frame func() bool) error {
	interval := a.cfg.TickInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		a.Tick()
		if !frame() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.wake:
		case <-ticker.C:
		}
	}
}
