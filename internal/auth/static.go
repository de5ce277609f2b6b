package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
)

// StaticAuthenticator checks tokens against a fixed table loaded from
// configuration ("token:user" pairs, comma separated).
type StaticAuthenticator struct {
	tokens map[string]User
}

func NewStatic(pairs string) (*StaticAuthenticator, error) {
	tokens := make(map[string]User)
	if pairs != "" {
		for _, pair := range strings.Split(pairs, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			token, user, ok := strings.Cut(pair, ":")
			if !ok || token == "" || user == "" {
				return nil, fmt.Errorf("invalid token pair %q", pair)
			}
			tokens[token] = User{ID: user, Name: user}
		}
	}
	return &StaticAuthenticator{tokens: tokens}, nil
}

func (a *StaticAuthenticator) Authenticate(_ context.Context, token string) (*User, error) {
	if token == "" {
		return nil, nil
	}
	for known, user := range a.tokens {
		if subtle.ConstantTimeCompare([]byte(known), []byte(token)) == 1 {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}
