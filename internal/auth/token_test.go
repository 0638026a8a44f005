package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
)

func testManager(t *testing.T, ttl time.Duration) *TokenManager {
	t.Helper()

	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	m, err := NewTokenManager(key.Encode(), ttl)
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	return m
}

// TestSessionTokenRoundTrip verifies issued tokens resolve back to the same
// user ID.
//
// WHY: the session cookie is the only thing tying a request to a user;
// a token that does not round-trip locks everyone out.
func TestSessionTokenRoundTrip(t *testing.T) {
	m := testManager(t, time.Hour)

	token, err := m.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	userID, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("expected user-1, got %s", userID)
	}
}

// TestSessionTokenRejection verifies tampered and foreign tokens fail with
// the invalid-token sentinel rather than resolving to a user.
func TestSessionTokenRejection(t *testing.T) {
	m := testManager(t, time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		if _, err := m.Verify("not-a-token"); !errors.Is(err, apperrors.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("token from another key", func(t *testing.T) {
		other := testManager(t, time.Hour)
		token, err := other.Issue("user-1")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if _, err := m.Verify(token); !errors.Is(err, apperrors.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		short := testManager(t, time.Nanosecond)
		token, err := short.Issue("user-1")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
		if _, err := short.Verify(token); !errors.Is(err, apperrors.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

// TestRSSTokenGeneration verifies token shape and that hashing is stable.
func TestRSSTokenGeneration(t *testing.T) {
	token, err := NewRSSToken()
	if err != nil {
		t.Fatalf("NewRSSToken failed: %v", err)
	}
	if len(token) != 32 {
		t.Errorf("expected 32 hex chars, got %d", len(token))
	}

	other, err := NewRSSToken()
	if err != nil {
		t.Fatalf("NewRSSToken failed: %v", err)
	}
	if token == other {
		t.Error("expected distinct tokens on successive generation")
	}

	if HashRSSToken(token) != HashRSSToken(token) {
		t.Error("expected hash to be deterministic")
	}
	if HashRSSToken(token) == HashRSSToken(other) {
		t.Error("expected distinct tokens to hash differently")
	}
}
