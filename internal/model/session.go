package model

// Session is the state of the auth gate for one caller.
//
// The zero value is Anonymous. Only the auth service constructs an
// authenticated session, after a successful register or login.
type Session struct {
	email string
}

// Anonymous returns the unauthenticated session.
func Anonymous() Session { return Session{} }

// AuthenticatedAs returns a session holding the given identity.
func AuthenticatedAs(email string) Session { return Session{email: email} }

// Authenticated reports whether the session holds an identity.
func (s Session) Authenticated() bool { return s.email != "" }

// Email returns the held identity, or "" for an anonymous session.
func (s Session) Email() string { return s.email }
