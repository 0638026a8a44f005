package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
)

// TokenManager issues and verifies fernet session tokens. The token payload
// is just the user ID; expiry is enforced by fernet's built-in TTL check.
type TokenManager struct {
	key *fernet.Key
	ttl time.Duration
}

// NewTokenManager creates a TokenManager from a base64-encoded fernet key.
func NewTokenManager(encodedKey string, ttl time.Duration) (*TokenManager, error) {
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode session key: %w", err)
	}
	return &TokenManager{key: key, ttl: ttl}, nil
}

// Issue creates a session token carrying the user ID.
func (m *TokenManager) Issue(userID string) (string, error) {
	token, err := fernet.EncryptAndSign([]byte(userID), m.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return string(token), nil
}

// Verify checks a session token and returns the user ID it carries.
// Expired or tampered tokens return apperrors.ErrInvalidToken.
func (m *TokenManager) Verify(token string) (string, error) {
	payload := fernet.VerifyAndDecrypt([]byte(token), m.ttl, []*fernet.Key{m.key})
	if payload == nil {
		return "", apperrors.ErrInvalidToken
	}
	return string(payload), nil
}

// TTL returns the session lifetime, used to set the cookie max age.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// NewRSSToken generates a random feed token as 32 hex characters.
func NewRSSToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate rss token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashRSSToken returns the sha256 hex digest of a feed token, the form
// stored when tokens are kept hash-only.
func HashRSSToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
