package mockserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/amoylab/npipe-admin/internal/common/cnst"
	"github.com/amoylab/npipe-admin/internal/mockserver/database"
	"github.com/amoylab/npipe-admin/internal/mockserver/session"
	"github.com/amoylab/npipe-admin/internal/proto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const maxPageSize = 100

func respond(c *gin.Context, code int, msg string) {
	c.JSON(http.StatusOK, proto.GeneralResponse{Code: code, Msg: msg})
}

func ok(c *gin.Context) {
	respond(c, cnst.CodeSuccess, "")
}

// fail maps a storage error to an application code
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respond(c, cnst.CodeNotFound, "not found")
	case errors.Is(err, database.ErrDuplicated):
		respond(c, cnst.CodeInvalidRequest, "already exists")
	default:
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		respond(c, cnst.CodeInternal, err.Error())
	}
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respond(c, cnst.CodeInvalidRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleLogin(c *gin.Context) {
	var req proto.LoginReq
	if !bind(c, &req) {
		return
	}

	if req.Username != s.cfg.SuperAdmin.Username ||
		bcrypt.CompareHashAndPassword(s.adminHash, []byte(req.Password)) != nil {
		respond(c, cnst.CodeLoginFailed, "invalid username or password")
		return
	}

	now := s.now()
	sess := &session.Session{
		ID:        uuid.NewString(),
		Username:  req.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.Session.TTL),
	}
	if err := s.sessions.Save(c.Request.Context(), sess); err != nil {
		s.fail(c, err)
		return
	}
	token, err := s.tokens.Generate(sess.ID, sess.Username, now)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cnst.CookieName, token, int(s.cfg.Session.TTL.Seconds()), "/", "", false, true)
	s.logger.Info("login", zap.String("username", req.Username), zap.String("session", sess.ID))
	ok(c)
}

func (s *Server) handleLogout(c *gin.Context) {
	sess := c.MustGet(sessionKey).(*session.Session)
	if err := s.sessions.Delete(c.Request.Context(), sess.ID); err != nil {
		s.fail(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cnst.CookieName, "", -1, "/", "", false, true)
	s.logger.Info("logout", zap.String("username", sess.Username), zap.String("session", sess.ID))
	ok(c)
}

func (s *Server) handleTestAuth(c *gin.Context) {
	ok(c)
}

// pageBounds turns a list request into an offset and limit
func pageBounds(req proto.ListRequest) (offset, limit int) {
	limit = int(req.PageSize)
	if limit <= 0 {
		limit = cnst.DefaultPageSize
	}
	limit = min(limit, maxPageSize)
	return int(req.PageNumber) * limit, limit
}

func (s *Server) handlePlayerList(c *gin.Context) {
	var req proto.PlayerListRequest
	if !bind(c, &req) {
		return
	}
	offset, limit := pageBounds(req)
	players, total, err := s.db.ListPlayers(c.Request.Context(), offset, limit)
	if err != nil {
		s.fail(c, err)
		return
	}

	items := make([]proto.Player, 0, len(players))
	for _, p := range players {
		items = append(items, p.ToProto())
	}
	c.JSON(http.StatusOK, gin.H{
		"cur_page_number": req.PageNumber,
		"total_count":     total,
		"players":         items,
	})
}

func (s *Server) handleAddPlayer(c *gin.Context) {
	var req proto.PlayerAddReq
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		respond(c, cnst.CodeInvalidRequest, "username and password are required")
		return
	}
	if err := s.db.CreatePlayer(c.Request.Context(), &database.Player{
		Username: req.Username,
		Password: req.Password,
	}); err != nil {
		s.fail(c, err)
		return
	}
	ok(c)
}

func (s *Server) handleUpdatePlayer(c *gin.Context) {
	var req proto.PlayerUpdateReq
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		respond(c, cnst.CodeInvalidRequest, "username and password are required")
		return
	}
	if err := s.db.UpdatePlayer(c.Request.Context(), &database.Player{
		ID:       req.ID,
		Username: req.Username,
		Password: req.Password,
	}); err != nil {
		s.fail(c, err)
		return
	}
	ok(c)
}

func (s *Server) handleRemovePlayer(c *gin.Context) {
	var req proto.PlayerRemoveReq
	if !bind(c, &req) {
		return
	}
	if err := s.db.DeletePlayer(c.Request.Context(), req.ID); err != nil {
		s.fail(c, err)
		return
	}
	ok(c)
}

func (s *Server) handleTunnelList(c *gin.Context) {
	var req proto.TunnelListRequest
	if !bind(c, &req) {
		return
	}
	offset, limit := pageBounds(req)
	tunnels, total, err := s.db.ListTunnels(c.Request.Context(), offset, limit)
	if err != nil {
		s.fail(c, err)
		return
	}

	items := make([]proto.Tunnel, 0, len(tunnels))
	for _, t := range tunnels {
		items = append(items, t.ToProto())
	}
	c.JSON(http.StatusOK, gin.H{
		"cur_page_number": req.PageNumber,
		"total_count":     total,
		"tunnels":         items,
	})
}

func validTunnel(source, endpoint string) bool {
	return strings.TrimSpace(source) != "" && strings.TrimSpace(endpoint) != ""
}

func (s *Server) handleAddTunnel(c *gin.Context) {
	var req proto.TunnelAddReq
	if !bind(c, &req) {
		return
	}
	if !validTunnel(req.Source, req.Endpoint) {
		respond(c, cnst.CodeInvalidRequest, "source and endpoint are required")
		return
	}
	if err := s.db.CreateTunnel(c.Request.Context(), &database.Tunnel{
		Source:      req.Source,
		Endpoint:    req.Endpoint,
		Enabled:     req.Enabled != 0,
		Sender:      req.Sender,
		Receiver:    req.Receiver,
		Description: req.Description,
	}); err != nil {
		s.fail(c, err)
		return
	}
	ok(c)
}

func (s *Server) handleUpdateTunnel(c *gin.Context) {
	var req proto.TunnelUpdateReq
	if !bind(c, &req) {
		return
	}
	if !validTunnel(req.Source, req.Endpoint) {
		respond(c, cnst.CodeInvalidRequest, "source and endpoint are required")
		return
	}
	if err := s.db.UpdateTunnel(c.Request.Context(), &database.Tunnel{
		ID:          req.ID,
		Source:      req.Source,
		Endpoint:    req.Endpoint,
		Enabled:     req.Enabled != 0,
		Sender:      req.Sender,
		Receiver:    req.Receiver,
		Description: req.Description,
	}); err != nil {
		s.fail(c, err)
		return
	}
	ok(c)
}

func (s *Server) handleRemoveTunnel(c *gin.Context) {
	var req proto.TunnelRemoveReq
	if !bind(c, &req) {
		return
	}
	if err := s.db.DeleteTunnel(c.Request.Context(), req.ID); err != nil {
		s.fail(c, err)
		return
	}
	ok(c)
}
