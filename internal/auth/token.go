// Package auth provides credential management for the Fizzy client. The
// request pipeline only ever reads a credential; refreshing or acquiring one
// (PAT entry, magic-link exchange) happens in the CLI layer.
package auth

import (
	"context"
	"errors"

	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
)

// Static errors for err113 compliance.
var (
	ErrEmptyToken = errors.New("credential token is empty")
)

// TokenManager supplies the credential attached to outgoing requests.
type TokenManager interface {
	// GetToken returns the current token.
	GetToken(ctx context.Context) (string, error)

	// Credential returns the full credential, including its type. The type
	// decides whether the token travels as a Bearer header or a session
	// cookie.
	Credential() fizzy.Credential
}

// StaticTokenManager holds an immutable credential supplied at construction.
type StaticTokenManager struct {
	credential fizzy.Credential
}

// NewStaticTokenManager creates a token manager for a fixed credential.
func NewStaticTokenManager(credential fizzy.Credential) (*StaticTokenManager, error) {
	if credential.Token == "" {
		return nil, ErrEmptyToken
	}

	return &StaticTokenManager{credential: credential}, nil
}

// GetToken returns the stored token.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.credential.Token, nil
}

// Credential returns the stored credential.
func (m *StaticTokenManager) Credential() fizzy.Credential {
	return m.credential
}
