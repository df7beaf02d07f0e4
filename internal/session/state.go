// Package session holds the client's authentication state and persists it
// between command invocations.
package session

import "slices"

// State is the authentication state. It is owned by the UI thread.
type State struct {
	cookies       []string
	authenticated bool
}

// LoginSuccess stores the session cookies and marks the state authenticated
func (s *State) LoginSuccess(cookies []string) {
	s.cookies = slices.Clone(cookies)
	s.authenticated = true
}

// Logout forgets the cookies and marks the state unauthenticated
func (s *State) Logout() {
	s.cookies = nil
	s.authenticated = false
}

func (s *State) Authenticated() bool {
	return s.authenticated
}

// Cookies returns a copy of the session cookies
func (s *State) Cookies() []string {
	return slices.Clone(s.cookies)
}

// Restore loads the state from a saved profile
func (s *State) Restore(p *Profile) {
	if p == nil || !p.Authenticated {
		s.Logout()
		return
	}
	s.LoginSuccess(p.Cookies)
}
