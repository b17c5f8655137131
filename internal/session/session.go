// Package session holds the in-memory authentication state for the process.
package session

import "encoding/json"

// Session carries the bearer token and cached user identity obtained from a
// successful login. It is created empty at process start, never persisted,
// and read by every tool handler to gate access.
//
// Single-writer discipline: only the login handler writes a Session, and there
// is no lock. A login racing another tool call may observe either the old or
// the new token; the remote API decides whether a token is valid, not this
// process.
type Session struct {
	token string
	user  json.RawMessage
}

// New returns an empty, unauthenticated session.
func New() *Session {
	return &Session{}
}

// Establish records the bearer token and user identity from a login response.
func (s *Session) Establish(token string, user json.RawMessage) {
	s.token = token
	s.user = user
}

// Authenticated reports whether a login has succeeded.
func (s *Session) Authenticated() bool {
	return s.token != ""
}

// Token returns the bearer token, or "" when unauthenticated.
func (s *Session) Token() string {
	return s.token
}

// User returns the raw user identity from the login response.
func (s *Session) User() json.RawMessage {
	return s.user
}
