// Package session keeps per-client authentication state on the server,
// addressed by a signed session cookie.
package session

// Kind tags which variant a State holds.
type Kind string

const (
	KindAnonymous Kind = "anonymous"
	KindUser      Kind = "user"
	KindAdmin     Kind = "admin"
)

// State is the authentication state of a session. Exactly one variant holds:
// Anonymous carries no name, User and Admin carry the account name.
type State struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name,omitempty"`
}

// Anonymous is the state of a client that has not logged in.
func Anonymous() State {
	return State{Kind: KindAnonymous}
}

// User is the state after a successful user login.
func User(name string) State {
	return State{Kind: KindUser, Name: name}
}

// Admin is the state after a successful admin login.
func Admin(name string) State {
	return State{Kind: KindAdmin, Name: name}
}

func (s State) IsAnonymous() bool { return s.Kind != KindUser && s.Kind != KindAdmin }
func (s State) IsUser() bool      { return s.Kind == KindUser }
func (s State) IsAdmin() bool     { return s.Kind == KindAdmin }
