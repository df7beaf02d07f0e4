package console

import (
	"encoding/json"
	"fmt"

	"github.com/amoylab/npipe-admin/internal/proto"
	"github.com/amoylab/npipe-admin/internal/request"
	"github.com/amoylab/npipe-admin/internal/resource"
	"github.com/amoylab/npipe-admin/internal/session"
)

var loginKey = request.For(proto.OpLogin)

// LoginPage submits credentials and turns a successful login into a session
type LoginPage struct {
	app *App
	err string
}

func NewLoginPage(app *App) *LoginPage {
	p := &LoginPage{app: app}
	app.AddPage(p)
	return p
}

// Submit sends the credentials unless a login is already in flight
func (p *LoginPage) Submit(username, password string) error {
	body, err := json.Marshal(proto.LoginReq{Username: username, Password: password})
	if err != nil {
		return fmt.Errorf("failed to encode login request: %w", err)
	}
	if _, err := p.app.TrySubmit(loginKey, nil, body); err != nil {
		return err
	}
	p.err = ""
	return nil
}

func (p *LoginPage) Poll() {
	slot, ok := p.app.Slot(loginKey)
	if !ok || !slot.Ready() {
		return
	}

	res := slot.Resource()
	switch res.Result.Kind {
	case resource.KindAck:
		p.app.LoginSuccess(session.ExtractCookies(res.Headers()))
	case resource.KindError:
		p.err = errorText(res, "Login failed")
	default:
		p.err = unknownError
	}
}

func (p *LoginPage) Reset() {
	p.err = ""
}

// Waiting reports whether a login request is in flight
func (p *LoginPage) Waiting() bool {
	return !p.app.CanRequest(loginKey)
}

// Err is the message of the last failed login
func (p *LoginPage) Err() string {
	return p.err
}
