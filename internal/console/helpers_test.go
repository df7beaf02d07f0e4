package console

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/amoylab/npipe-admin/internal/common/config"
	"github.com/amoylab/npipe-admin/internal/transport"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAPIURL = "http://backend.test/api/"

type handlerFunc func(req *transport.Request) transport.Result

// fakeBackend answers requests by endpoint path
type fakeBackend struct {
	mu       sync.Mutex
	handlers map[string]handlerFunc
	requests []*transport.Request
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{handlers: make(map[string]handlerFunc)}
}

func (b *fakeBackend) handle(path string, h handlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[path] = h
}

func (b *fakeBackend) serve(req *transport.Request) transport.Result {
	u, err := url.Parse(req.URL)
	if err != nil {
		return transport.Result{Err: err}
	}
	path := strings.TrimPrefix(u.Path, "/api/")

	b.mu.Lock()
	b.requests = append(b.requests, req)
	h, ok := b.handlers[path]
	b.mu.Unlock()

	if !ok {
		return statusResult(404, "Not Found", "")
	}
	return h(req)
}

func (b *fakeBackend) count(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if strings.HasSuffix(strings.SplitN(r.URL, "?", 2)[0], "/"+path) {
			n++
		}
	}
	return n
}

func (b *fakeBackend) last(path string) *transport.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		if strings.HasSuffix(b.requests[i].URL, "/"+path) {
			return b.requests[i]
		}
	}
	return nil
}

func jsonResult(v any, headers ...transport.Header) transport.Result {
	body, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return transport.Result{Response: &transport.Response{
		Status:     200,
		StatusText: "OK",
		OK:         true,
		Headers:    headers,
		Bytes:      body,
	}}
}

func ackResult(code int, msg string) transport.Result {
	return jsonResult(map[string]any{"code": code, "msg": msg})
}

func statusResult(status int, reason, body string) transport.Result {
	return transport.Result{Response: &transport.Response{
		Status:     status,
		StatusText: reason,
		OK:         status >= 200 && status < 300,
		Bytes:      []byte(body),
	}}
}

func newTestApp(t *testing.T, b *fakeBackend) *App {
	t.Helper()
	cfg := config.DefaultClientConfig()
	cfg.APIURL = testAPIURL
	cfg.TickInterval = 5 * time.Millisecond
	return New(cfg, transport.FuncTransport(b.serve), zap.NewNop())
}

// runUntil drives the console loop until cond holds
func runUntil(t *testing.T, app *App, cond func() bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := app.Run(ctx, func() bool { return !cond() })
	require.NoError(t, err, "condition not reached")
}

func playerPage(page, total uint32, ids ...uint32) map[string]any {
	players := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		players = append(players, map[string]any{
			"id":       id,
			"username": fmt.Sprintf("player%d", id),
			"password": "pw",
			"online":   false,
		})
	}
	return map[string]any{"cur_page_number": page, "total_count": total, "players": players}
}
