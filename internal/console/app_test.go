package console

import (
	"context"
	"testing"
	"time"

	"github.com/amoylab/npipe-admin/internal/proto"
	"github.com/amoylab/npipe-admin/internal/request"
	"github.com/amoylab/npipe-admin/internal/session"
	"github.com/amoylab/npipe-admin/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Success(t *testing.T) {
	b := newFakeBackend()
	b.handle("login", func(*transport.Request) transport.Result {
		return jsonResult(map[string]any{"code": 0, "msg": ""},
			transport.Header{Name: "Set-Cookie", Value: "auth-id=ABC; HttpOnly"})
	})
	b.handle("test_auth", func(*transport.Request) transport.Result { return ackResult(0, "") })

	app := newTestApp(t, b)
	page := NewLoginPage(app)
	require.NoError(t, page.Submit("admin", "secret"))
	assert.True(t, page.Waiting())
	assert.ErrorIs(t, page.Submit("admin", "secret"), request.ErrInFlight)

	runUntil(t, app, app.Authenticated)
	assert.Equal(t, []string{"auth-id=ABC"}, app.Cookies())
	assert.Equal(t, 0, app.registry.Len())
	assert.Empty(t, page.Err())

	slot := app.TestAuth()
	runUntil(t, app, slot.Ready)
	req := b.last("test_auth")
	require.NotNil(t, req)
	require.Len(t, req.Headers, 1)
	assert.Equal(t, "auth-id=ABC", req.Headers[0].Value)
	assert.True(t, app.Authenticated())
}

func TestLogin_Failure(t *testing.T) {
	b := newFakeBackend()
	b.handle("login", func(*transport.Request) transport.Result { return ackResult(1002, "invalid credentials") })

	app := newTestApp(t, b)
	page := NewLoginPage(app)
	require.NoError(t, page.Submit("admin", "wrong"))
	runUntil(t, app, func() bool { return page.Err() != "" })

	assert.Equal(t, "code:1002 (invalid credentials)", page.Err())
	assert.False(t, app.Authenticated())
}

func TestLogin_EmptyTransportError(t *testing.T) {
	b := newFakeBackend()
	b.handle("login", func(*transport.Request) transport.Result { return transport.Result{} })

	app := newTestApp(t, b)
	page := NewLoginPage(app)
	require.NoError(t, page.Submit("admin", "secret"))
	runUntil(t, app, func() bool { return page.Err() != "" })
	assert.Equal(t, "Login failed", page.Err())
}

func TestLogin_UnauthorizedReplyShowsError(t *testing.T) {
	b := newFakeBackend()
	b.handle("login", func(*transport.Request) transport.Result {
		return statusResult(401, "Unauthorized", `{"code":1,"msg":"bad password"}`)
	})

	app := newTestApp(t, b)
	page := NewLoginPage(app)
	require.NoError(t, page.Submit("admin", "wrong"))
	runUntil(t, app, func() bool { return app.Authenticated() || (!page.Waiting() && page.Err() != "") })

	assert.Contains(t, page.Err(), "status:401")
	assert.Contains(t, page.Err(), "bad password")
	assert.False(t, app.Authenticated())
	assert.Equal(t, 1, b.count("login"))
}

func TestSweep_IgnoredWhileLoggedOut(t *testing.T) {
	b := newFakeBackend()
	b.handle("login", func(*transport.Request) transport.Result { return ackResult(10086, "expired") })

	app := newTestApp(t, b)
	page := NewLoginPage(app)
	require.NoError(t, page.Submit("admin", "secret"))
	runUntil(t, app, func() bool { return page.Err() != "" })

	require.NoError(t, app.Settle(context.Background()))
	assert.Equal(t, "code:10086 (expired)", page.Err())
	assert.False(t, app.Authenticated())
	slot, ok := app.Slot(loginKey)
	require.True(t, ok)
	assert.True(t, slot.Checked())
}

func TestSweep_UnauthorizedLogsOut(t *testing.T) {
	b := newFakeBackend()
	b.handle("test_auth", func(*transport.Request) transport.Result {
		return statusResult(401, "Unauthorized", "whatever")
	})

	app := newTestApp(t, b)
	app.LoginSuccess([]string{"auth-id=old"})
	app.TestAuth()

	runUntil(t, app, func() bool { return !app.Authenticated() })
	assert.Empty(t, app.Cookies())
	assert.Equal(t, 0, app.registry.Len())
}

func TestSweep_SentinelCodeLogsOut(t *testing.T) {
	b := newFakeBackend()
	b.handle("player_list", func(*transport.Request) transport.Result { return ackResult(10086, "expired") })

	app := newTestApp(t, b)
	app.LoginSuccess([]string{"auth-id=old"})
	app.Submit(request.For(proto.OpPlayerList), nil, nil)

	runUntil(t, app, func() bool { return !app.Authenticated() })
	assert.Empty(t, app.Cookies())
	assert.Equal(t, 0, app.registry.Len())
}

func TestSweep_SkippedWhileClean(t *testing.T) {
	app := newTestApp(t, newFakeBackend())
	app.LoginSuccess([]string{"auth-id=1"})

	var pending []func(transport.Result)
	app.registry = request.New(manualFetch(func(done func(transport.Result)) {
		pending = append(pending, done)
	}), testAPIURL, &app.dirty)

	slot := app.Submit(request.For(proto.OpTestAuth), nil, nil)
	require.Len(t, pending, 1)
	pending[0](ackResult(10086, "expired"))
	require.True(t, slot.Ready())

	app.dirty.Clear()
	app.Tick()
	assert.True(t, app.Authenticated())
	assert.False(t, slot.Checked())

	app.dirty.Set()
	app.Tick()
	assert.False(t, app.Authenticated())
	assert.False(t, app.dirty.IsSet())
}

func TestSettle_SweepsLateCompletion(t *testing.T) {
	app := newTestApp(t, newFakeBackend())
	app.LoginSuccess([]string{"auth-id=1"})

	var pending []func(transport.Result)
	app.registry = request.New(manualFetch(func(done func(transport.Result)) {
		pending = append(pending, done)
	}), testAPIURL, &app.dirty)

	slot := app.Submit(request.For(proto.OpTestAuth), nil, nil)
	require.NoError(t, app.Settle(context.Background()))
	assert.True(t, app.Authenticated())

	require.Len(t, pending, 1)
	pending[0](ackResult(10086, "expired"))
	require.True(t, slot.Ready())
	// the pass that should have seen the completion already cleared the flag
	app.dirty.Clear()

	require.NoError(t, app.Settle(context.Background()))
	assert.False(t, app.Authenticated())
	assert.False(t, app.dirty.IsSet())
}

func TestSettle_KeepsValidSession(t *testing.T) {
	b := newFakeBackend()
	b.handle("test_auth", func(*transport.Request) transport.Result { return ackResult(0, "") })

	app := newTestApp(t, b)
	app.LoginSuccess([]string{"auth-id=1"})
	slot := app.TestAuth()
	runUntil(t, app, slot.Ready)

	require.NoError(t, app.Settle(context.Background()))
	assert.True(t, slot.Checked())
	assert.True(t, app.Authenticated())
}

func TestSweep_MarksCheckedAndKeepsSession(t *testing.T) {
	b := newFakeBackend()
	b.handle("test_auth", func(*transport.Request) transport.Result { return ackResult(1004, "boom") })

	app := newTestApp(t, b)
	app.LoginSuccess([]string{"auth-id=1"})
	slot := app.TestAuth()

	runUntil(t, app, slot.Checked)
	assert.True(t, app.Authenticated())
	assert.False(t, app.dirty.IsSet())
	assert.Equal(t, 1, app.registry.Len())
}

func TestSweep_CustomSentinel(t *testing.T) {
	b := newFakeBackend()
	b.handle("test_auth", func(*transport.Request) transport.Result { return ackResult(10086, "") })

	app := newTestApp(t, b)
	app.cfg.SentinelCode = 401001
	app.LoginSuccess([]string{"auth-id=1"})
	slot := app.TestAuth()

	runUntil(t, app, slot.Checked)
	assert.True(t, app.Authenticated())
}

func TestRequestLogout(t *testing.T) {
	b := newFakeBackend()
	release := make(chan struct{})
	b.handle("logout", func(*transport.Request) transport.Result {
		<-release
		return statusResult(500, "Internal Server Error", "")
	})

	app := newTestApp(t, b)
	app.LoginSuccess([]string{"auth-id=1"})
	first := app.RequestLogout()
	assert.Same(t, first, app.RequestLogout())
	close(release)

	runUntil(t, app, func() bool { return !app.Authenticated() })
	assert.Equal(t, 1, b.count("logout"))
	assert.Equal(t, 0, app.registry.Len())
}

func TestRestoreAndSnapshot(t *testing.T) {
	app := newTestApp(t, newFakeBackend())
	app.Restore(&session.Profile{Authenticated: true, Cookies: []string{"auth-id=9"}})
	assert.True(t, app.Authenticated())

	p := app.Snapshot("admin")
	assert.Equal(t, testAPIURL, p.APIURL)
	assert.Equal(t, "admin", p.Username)
	assert.Equal(t, []string{"auth-id=9"}, p.Cookies)

	app.Logout()
	assert.False(t, app.Snapshot("admin").Authenticated)
}

func TestRun_StopsOnContext(t *testing.T) {
	app := newTestApp(t, newFakeBackend())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := app.Run(ctx, func() bool { return true })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// manualFetch hands the completion callback to the test
type manualFetch func(done func(transport.Result))

func (m manualFetch) Fetch(_ *transport.Request, done func(transport.Result)) {
	m(done)
}
