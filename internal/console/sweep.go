package console

import (
	"context"

	"github.com/amoylab/npipe-admin/internal/request"
	"go.uber.org/zap"
)

// sweep inspects slots resolved since the last pass and logs out when one of
// them reports an invalid session. At most one expiry is handled per pass.
// Without a session there is nothing to expire, so a rejected login is left
// to its page.
// The dirty flag is cleared even when completions land during the pass.
func (a *App) sweep() {
	if !a.dirty.IsSet() {
		return
	}

	var expired *request.Slot
	a.registry.Range(func(_ request.Key, s *request.Slot) bool {
		if !s.Ready() || s.Checked() {
			return true
		}
		s.MarkChecked()
		if a.state.Authenticated() && s.Resource().SessionExpired(a.cfg.SentinelCode) {
			expired = s
			return false
		}
		return true
	})

	if expired != nil {
		a.logger.Warn("session expired",
			zap.Stringer("key", expired.Key()),
			zap.String("request_id", expired.ID()),
			zap.Int("status", expired.Resource().Status()))
		a.logout(LogoutReasonExpired)
	}
	a.dirty.Clear()
}

// unswept reports whether a resolved slot has not been through the sweep yet
func (a *App) unswept() bool {
	found := false
	a.registry.Range(func(_ request.Key, s *request.Slot) bool {
		found = s.Ready() && !s.Checked()
		return !found
	})
	return found
}

// Settle ticks until every resolved slot has been through the sweep. It does
// not wait for requests still in flight.
func (a *App) Settle(ctx context.Context) error {
	for a.dirty.IsSet() || a.unswept() {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.dirty.Set()
		a.Tick()
	}
	return nil
}
