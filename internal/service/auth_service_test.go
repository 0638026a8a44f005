package service_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/auth"
	"github.com/cuixiaoyuan/fundflow/internal/repository"
	"github.com/cuixiaoyuan/fundflow/internal/service"
	"github.com/cuixiaoyuan/fundflow/internal/testutil"
	"github.com/cuixiaoyuan/fundflow/internal/validation"
)

func newAuthService(t *testing.T, db *sql.DB, hashOnly bool) *service.AuthService {
	t.Helper()

	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	tokens, err := auth.NewTokenManager(key.Encode(), time.Hour)
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	return service.NewAuthService(repository.NewUserRepository(db), tokens, hashOnly)
}

// TestAuthService_Register tests account creation in both token storage modes.
//
// WHY: in hash-only mode the plain token is shown exactly once; losing it
// at registration time would leave the feed permanently unreachable.
func TestAuthService_Register(t *testing.T) {
	t.Run("creates user with plain rss token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newAuthService(t, db, false)

		user, token, err := svc.Register("alice", "secret123")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if token == "" {
			t.Fatal("expected a plain rss token")
		}
		if user.RSSToken != token {
			t.Error("plain mode must store the token itself")
		}
		if user.RSSTokenHash != "" {
			t.Error("plain mode must not store a hash")
		}
	})

	t.Run("hash-only mode stores only the digest", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newAuthService(t, db, true)

		user, token, err := svc.Register("bob", "secret123")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.RSSToken != "" {
			t.Error("hash-only mode must not store the plain token")
		}
		if user.RSSTokenHash != auth.HashRSSToken(token) {
			t.Error("stored hash must match the returned token")
		}
	})

	t.Run("rejects weak credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newAuthService(t, db, false)

		_, _, err := svc.Register("al", "123")
		var verr *validation.Error
		if !errors.As(err, &verr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newAuthService(t, db, false)

		if _, _, err := svc.Register("carol", "secret123"); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		_, _, err := svc.Register("carol", "othersecret")
		if !errors.Is(err, apperrors.ErrUsernameTaken) {
			t.Errorf("expected ErrUsernameTaken, got %v", err)
		}
	})
}

// TestAuthService_Login tests credential checks and session issuance.
func TestAuthService_Login(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAuthService(t, db, false)

	if _, _, err := svc.Register("dave", "secret123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	t.Run("valid credentials open a session", func(t *testing.T) {
		user, token, err := svc.Login("dave", "secret123")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		resolved, err := svc.VerifySession(token)
		if err != nil {
			t.Fatalf("VerifySession failed: %v", err)
		}
		if resolved.ID != user.ID {
			t.Error("session must resolve to the logged-in user")
		}
	})

	t.Run("wrong password fails closed", func(t *testing.T) {
		if _, _, err := svc.Login("dave", "wrong"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user fails with the same error", func(t *testing.T) {
		if _, _, err := svc.Login("nobody", "secret123"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

// TestAuthService_ResetRSSToken tests token rotation.
//
// WHY: a leaked feed URL is revoked by rotating; the old token must stop
// resolving the moment the new one is stored.
func TestAuthService_ResetRSSToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAuthService(t, db, false)
	userRepo := repository.NewUserRepository(db)

	user, oldToken, err := svc.Register("erin", "secret123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	newToken, err := svc.ResetRSSToken(user.ID)
	if err != nil {
		t.Fatalf("ResetRSSToken failed: %v", err)
	}
	if newToken == oldToken {
		t.Fatal("expected a fresh token")
	}

	if _, err := userRepo.GetUserByRSSToken(oldToken, auth.HashRSSToken(oldToken)); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("old token must stop resolving, got %v", err)
	}
	if _, err := userRepo.GetUserByRSSToken(newToken, auth.HashRSSToken(newToken)); err != nil {
		t.Errorf("new token must resolve: %v", err)
	}
}
