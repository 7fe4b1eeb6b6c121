// Package session contains domain-level types for the dashboard's
// client-side authentication state. It is pure and free of storage or
// transport concerns.
package session

// User is the identity snapshot persisted alongside the access token.
type User struct {
	Email string `json:"email"`
}

// State is the authentication state the rest of the dashboard consumes.
// User is nil whenever the session is unauthenticated or the persisted
// snapshot could not be decoded.
type State struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

// Anonymous is the state of a signed-out session.
func Anonymous() State { return State{} }

// Email returns the signed-in user's address, or the empty string when
// no identity snapshot is available.
func (s State) Email() string {
	if s.User == nil {
		return ""
	}
	return s.User.Email
}
