// Package auth resolves a bearer token to a user identity. An absent or
// unknown token is not an error: the caller gets a nil user and the service
// keeps working with session-only history.
package auth

import "context"

// User is a signed-in identity.
type User struct {
	ID   string
	Name string
}

// Authenticator resolves a token to a user, or nil when the token is empty
// or unknown.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*User, error)
}
