// Package mockserver is a small npipe admin backend used to run the client
// end to end: login with a cookie session, paginated players and tunnels.
package mockserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/amoylab/npipe-admin/internal/common/cnst"
	"github.com/amoylab/npipe-admin/internal/common/config"
	"github.com/amoylab/npipe-admin/internal/mockserver/database"
	"github.com/amoylab/npipe-admin/internal/mockserver/session"
	"github.com/amoylab/npipe-admin/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Server serves the admin API
type Server struct {
	cfg      *config.MockServerConfig
	logger   *zap.Logger
	db       database.Database
	sessions session.Store
	tokens   *TokenService
	metrics  *metrics.Metrics

	adminHash []byte
	router    *gin.Engine
	srv       *http.Server
	now       func() time.Time
}

// New creates a server on top of db and sessions. m may be nil.
func New(cfg *config.MockServerConfig, logger *zap.Logger, db database.Database, sessions session.Store, m *metrics.Metrics) (*Server, error) {
	logger = logger.Named("mockserver")

	secret := cfg.JWT.SecretKey
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
		logger.Warn("jwt.secret_key is empty, using a random key; sessions will not survive a restart")
	}
	tokens, err := NewTokenService(secret, cfg.JWT.Duration)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SuperAdmin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash super admin password: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		sessions:  sessions,
		tokens:    tokens,
		metrics:   m,
		adminHash: hash,
		now:       time.Now,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cnst.TraceMockServer))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api")
	api.POST("/login", s.handleLogin)

	authed := api.Group("", s.requireSession())
	authed.POST("/logout", s.handleLogout)
	authed.POST("/test_auth", s.handleTestAuth)
	authed.POST("/player_list", s.handlePlayerList)
	authed.POST("/add_player", s.handleAddPlayer)
	authed.POST("/update_player", s.handleUpdatePlayer)
	authed.POST("/remove_player", s.handleRemovePlayer)
	authed.POST("/tunnel_list", s.handleTunnelList)
	authed.POST("/add_tunnel", s.handleAddTunnel)
	authed.POST("/update_tunnel", s.handleUpdateTunnel)
	authed.POST("/remove_tunnel", s.handleRemoveTunnel)
	return r
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting mock server", zap.String("addr", addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
