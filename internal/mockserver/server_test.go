package mockserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/amoylab/npipe-admin/internal/common/cnst"
	"github.com/amoylab/npipe-admin/internal/common/config"
	"github.com/amoylab/npipe-admin/internal/mockserver/database"
	"github.com/amoylab/npipe-admin/internal/mockserver/session"
	"github.com/amoylab/npipe-admin/internal/proto"
	"github.com/amoylab/npipe-admin/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, mutate func(*config.MockServerConfig)) *Server {
	t.Helper()
	cfg := &config.MockServerConfig{
		SuperAdmin: config.SuperAdminConfig{Username: "admin", Password: "secret"},
		Database:   config.DatabaseConfig{Type: "sqlite", DBName: filepath.Join(t.TempDir(), "mock.db")},
		Session:    config.SessionConfig{Type: "memory", TTL: time.Hour},
		JWT:        config.JWTConfig{SecretKey: testSecret, Duration: time.Hour},
		Metrics:    config.MetricsConfig{Enabled: true, Namespace: "npipe_mock"},
	}
	if mutate != nil {
		mutate(cfg)
	}

	db, err := database.NewDatabase(&cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	srv, err := New(cfg, zap.NewNop(), db, session.NewMemoryStore(), metrics.New(cfg.Metrics))
	require.NoError(t, err)
	return srv
}

func post(t *testing.T, srv *Server, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/"+path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decodeAck(t *testing.T, w *httptest.ResponseRecorder) proto.GeneralResponse {
	t.Helper()
	var ack proto.GeneralResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	return ack
}

func login(t *testing.T, srv *Server) *http.Cookie {
	t.Helper()
	w := post(t, srv, "login", proto.LoginReq{Username: "admin", Password: "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, cnst.CodeSuccess, decodeAck(t, w).Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == cnst.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t, nil)

	w := post(t, srv, "login", proto.LoginReq{Username: "admin", Password: "wrong"})
	assert.Equal(t, cnst.CodeLoginFailed, decodeAck(t, w).Code)
	assert.Empty(t, w.Result().Cookies())

	w = post(t, srv, "login", proto.LoginReq{Username: "admin", Password: "secret"})
	setCookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, setCookie, cnst.CookieName+"=")
	assert.Contains(t, setCookie, "HttpOnly")
	assert.Contains(t, setCookie, "SameSite=Lax")
	assert.Contains(t, setCookie, "Max-Age=3600")
}

func TestRequireSession(t *testing.T) {
	srv := newTestServer(t, nil)

	w := post(t, srv, "test_auth", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, cnst.CodeSessionExpired, decodeAck(t, w).Code)

	w = post(t, srv, "test_auth", nil, &http.Cookie{Name: cnst.CookieName, Value: "garbage"})
	assert.Equal(t, cnst.CodeSessionExpired, decodeAck(t, w).Code)

	cookie := login(t, srv)
	w = post(t, srv, "test_auth", nil, cookie)
	assert.Equal(t, cnst.CodeSuccess, decodeAck(t, w).Code)

	w = post(t, srv, "logout", nil, cookie)
	assert.Equal(t, cnst.CodeSuccess, decodeAck(t, w).Code)
	w = post(t, srv, "test_auth", nil, cookie)
	assert.Equal(t, cnst.CodeSessionExpired, decodeAck(t, w).Code)
}

func TestRequireSession_RejectWithStatus(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.MockServerConfig) {
		cfg.Auth.RejectWithStatus = true
	})

	w := post(t, srv, "player_list", proto.ListRequest{PageSize: 20})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPlayers(t *testing.T) {
	srv := newTestServer(t, nil)
	cookie := login(t, srv)

	for _, name := range []string{"alice", "bob", "carol"} {
		w := post(t, srv, "add_player", proto.PlayerAddReq{Username: name, Password: "pw"}, cookie)
		require.Equal(t, cnst.CodeSuccess, decodeAck(t, w).Code)
	}
	w := post(t, srv, "add_player", proto.PlayerAddReq{Username: "bob", Password: "pw"}, cookie)
	assert.Equal(t, cnst.CodeInvalidRequest, decodeAck(t, w).Code)
	w = post(t, srv, "add_player", proto.PlayerAddReq{Username: " "}, cookie)
	assert.Equal(t, cnst.CodeInvalidRequest, decodeAck(t, w).Code)

	w = post(t, srv, "player_list", proto.ListRequest{PageNumber: 1, PageSize: 2}, cookie)
	var page struct {
		CurPageNumber uint32         `json:"cur_page_number"`
		TotalCount    uint32         `json:"total_count"`
		Players       []proto.Player `json:"players"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, uint32(1), page.CurPageNumber)
	assert.Equal(t, uint32(3), page.TotalCount)
	require.Len(t, page.Players, 1)
	carol := page.Players[0]
	assert.Equal(t, "carol", carol.Username)

	w = post(t, srv, "update_player", proto.PlayerUpdateReq{ID: carol.ID, Username: "caroline", Password: "pw2"}, cookie)
	assert.Equal(t, cnst.CodeSuccess, decodeAck(t, w).Code)
	w = post(t, srv, "update_player", proto.PlayerUpdateReq{ID: 999, Username: "x", Password: "y"}, cookie)
	assert.Equal(t, cnst.CodeNotFound, decodeAck(t, w).Code)

	w = post(t, srv, "remove_player", proto.PlayerRemoveReq{ID: carol.ID}, cookie)
	assert.Equal(t, cnst.CodeSuccess, decodeAck(t, w).Code)
	w = post(t, srv, "remove_player", proto.PlayerRemoveReq{ID: carol.ID}, cookie)
	assert.Equal(t, cnst.CodeNotFound, decodeAck(t, w).Code)
}

func TestTunnels(t *testing.T) {
	srv := newTestServer(t, nil)
	cookie := login(t, srv)

	w := post(t, srv, "add_tunnel", proto.TunnelAddReq{Source: "0.0.0.0:8080", Endpoint: "127.0.0.1:80", Enabled: 1}, cookie)
	require.Equal(t, cnst.CodeSuccess, decodeAck(t, w).Code)
	w = post(t, srv, "add_tunnel", proto.TunnelAddReq{Source: ""}, cookie)
	assert.Equal(t, cnst.CodeInvalidRequest, decodeAck(t, w).Code)

	w = post(t, srv, "tunnel_list", proto.ListRequest{PageSize: 20}, cookie)
	var page struct {
		TotalCount uint32         `json:"total_count"`
		Tunnels    []proto.Tunnel `json:"tunnels"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Tunnels, 1)
	tun := page.Tunnels[0]
	assert.True(t, tun.Enabled)

	tun.Enabled = false
	w = post(t, srv, "update_tunnel", proto.NewTunnelUpdateReq(tun), cookie)
	assert.Equal(t, cnst.CodeSuccess, decodeAck(t, w).Code)

	w = post(t, srv, "remove_tunnel", proto.TunnelRemoveReq{ID: tun.ID}, cookie)
	assert.Equal(t, cnst.CodeSuccess, decodeAck(t, w).Code)
}

func TestInvalidBody(t *testing.T) {
	srv := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, cnst.CodeInvalidRequest, decodeAck(t, w).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	post(t, srv, "test_auth", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "npipe_mock_http_requests_total")
}
