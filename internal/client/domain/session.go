package domain

import "github.com/productrhq/productr/pkg/productr"

// Session is the authenticated identity and credential held by the client
// for the current process. There is exactly one live Session, owned by the
// session store; everything else reads snapshots.
type Session struct {
	// User is the identity record, nil while logged out
	User *productr.User

	// Token is the bearer credential, empty while logged out
	Token string

	// Loading is true only while the persisted session is being restored
	// at process start
	Loading bool
}

// Authenticated reports whether the session holds a complete identity:
// both a user record and a non-empty credential.
func (s Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}
