package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/amoylab/npipe-admin/internal/common/cnst"
	"github.com/amoylab/npipe-admin/internal/common/config"
	"github.com/amoylab/npipe-admin/internal/console"
	"github.com/amoylab/npipe-admin/internal/session"
	"github.com/amoylab/npipe-admin/internal/transport"
	"github.com/amoylab/npipe-admin/pkg/helper"
	"github.com/amoylab/npipe-admin/pkg/logger"
	"github.com/amoylab/npipe-admin/pkg/metrics"
	"github.com/amoylab/npipe-admin/pkg/trace"
	"go.uber.org/zap"
)

var (
	errNotLoggedIn    = errors.New("not logged in, run `npipe-admin login` first")
	errSessionExpired = errors.New("session expired, run `npipe-admin login` again")
)

// client wires the console core for a single command invocation
type client struct {
	cfg      *config.ClientConfig
	logger   *zap.Logger
	app      *console.App
	profiles *session.ProfileStore
	username string
	restored bool

	metricsSrv    *http.Server
	shutdownTrace trace.ShutdownFunc
}

func loadClientConfig() (*config.ClientConfig, error) {
	cfg, path, err := config.LoadConfig[config.ClientConfig](configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = config.DefaultClientConfig()
	case err != nil:
		return nil, fmt.Errorf("failed to load configuration %s: %w", path, err)
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newClient() (*client, error) {
	cfg, err := loadClientConfig()
	if err != nil {
		return nil, err
	}

	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	shutdownTrace, err := trace.InitTracing(context.Background(), &cfg.Tracing, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}

	opts := []transport.Option{transport.WithTimeout(cfg.HTTPTimeout)}
	if cfg.CookieMode == cnst.CookieModeJar {
		lg.Warn("cookie_mode jar keeps the session in memory only, it is lost when the command exits")
		opts = append(opts, transport.WithCookieJar())
	}
	tr, err := transport.NewHTTPTransport(lg, opts...)
	if err != nil {
		return nil, err
	}

	c := &client{
		cfg:           cfg,
		logger:        lg,
		profiles:      session.NewProfileStore(helper.GetProfilePath(cfg.ProfilePath), lg),
		shutdownTrace: shutdownTrace,
	}

	var appOpts []console.Option
	if cfg.Metrics.Enabled {
		m := metrics.New(cfg.Metrics)
		appOpts = append(appOpts, console.WithMetrics(m))
		c.serveMetrics(m)
	}
	c.app = console.New(cfg, tr, lg, appOpts...)

	if err := c.restore(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *client) serveMetrics(m *metrics.Metrics) {
	if c.cfg.Metrics.Addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	c.metricsSrv = &http.Server{Addr: c.cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := c.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
}

// restore adopts the saved session when it belongs to the configured server
func (c *client) restore() error {
	p, err := c.profiles.Load()
	if errors.Is(err, session.ErrNoProfile) {
		return nil
	}
	if err != nil {
		return err
	}
	if p.APIURL != c.cfg.APIURL {
		c.logger.Debug("ignoring profile of another server", zap.String("api_url", p.APIURL))
		return nil
	}
	c.username = p.Username
	c.restored = true
	c.app.Restore(p)
	return nil
}

// persist writes the session back. A restored session that ended is removed,
// a profile of another server is left alone.
func (c *client) persist() error {
	if !c.app.Authenticated() {
		if !c.restored {
			return nil
		}
		return c.profiles.Delete()
	}
	return c.profiles.Save(c.app.Snapshot(c.username))
}

func (c *client) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if c.metricsSrv != nil {
		_ = c.metricsSrv.Shutdown(ctx)
	}
	if err := c.shutdownTrace(ctx); err != nil {
		c.logger.Warn("failed to flush traces", zap.Error(err))
	}
	_ = c.logger.Sync()
}

func (c *client) requireLogin() error {
	if !c.app.Authenticated() {
		return errNotLoggedIn
	}
	return nil
}

// run drives the console loop until done holds, then settles so completions
// that landed after the last sweep are still inspected.
func (c *client) run(ctx context.Context, done func() bool) error {
	ctx, cancel := context.WithTimeout(ctx, waitFor)
	defer cancel()

	err := c.app.Run(ctx, func() bool { return !done() })
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("no answer from %s within %s", c.cfg.APIURL, waitFor)
	}
	if err != nil {
		return err
	}
	return c.app.Settle(ctx)
}

// wait is run for commands that need a session. Losing it on the way is
// reported as errSessionExpired.
func (c *client) wait(ctx context.Context, done func() bool) error {
	if err := c.run(ctx, func() bool { return done() || !c.app.Authenticated() }); err != nil {
		return err
	}
	if !c.app.Authenticated() {
		return errSessionExpired
	}
	return nil
}

// withClient runs fn with a ready client and persists the session afterwards
func withClient(ctx context.Context, fn func(ctx context.Context, c *client) error) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	defer c.close()

	err = fn(ctx, c)
	if perr := c.persist(); perr != nil {
		c.logger.Warn("failed to persist session", zap.String("path", c.profiles.Path()), zap.Error(perr))
	}
	return err
}
