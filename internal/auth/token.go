package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// tokenBytes is the entropy of a random bearer token: 32 bytes = 256 bits.
const tokenBytes = 32

// TokenIssuer mints bearer tokens for new sessions.
//
// A token is only ever valid while the SessionStore holds it. Verify is a
// cheap pre-check that lets the store reject malformed or forged tokens
// without touching the session map.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
	Verify(token string) error
}

// RandomIssuer issues opaque tokens read from crypto/rand and encoded as
// unpadded base64url (43 characters).
type RandomIssuer struct{}

func NewRandomIssuer() RandomIssuer {
	return RandomIssuer{}
}

func (RandomIssuer) Issue(int64) (string, error) {
	return randomString(tokenBytes)
}

// Verify checks the token has the shape Issue produces.
func (RandomIssuer) Verify(token string) error {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return fmt.Errorf("auth: malformed token: %w", err)
	}
	if len(b) != tokenBytes {
		return errors.New("auth: malformed token: wrong length")
	}
	return nil
}

func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth: reading random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
