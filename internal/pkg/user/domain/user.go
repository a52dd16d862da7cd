package user

import "errors"

// User is a directory entry for a known participant. Credential material is
// owned by the (external) auth service; this record only carries identity.
type User struct {
	ID                string
	Name              string
	Email             string
	PlatformConnected bool
}

// ErrNotFound signals an unknown user id or an unmatched name lookup.
var ErrNotFound = errors.New("user: not found")
