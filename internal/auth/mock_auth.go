package auth

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAuthenticator is a mock implementation of Authenticator using testify/mock.
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, token string) (*User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}
