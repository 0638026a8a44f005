package service_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/auth"
	"github.com/cuixiaoyuan/fundflow/internal/model"
	"github.com/cuixiaoyuan/fundflow/internal/repository"
	"github.com/cuixiaoyuan/fundflow/internal/service"
	"github.com/cuixiaoyuan/fundflow/internal/testutil"
)

func newFeedService(t *testing.T, db *sql.DB, market service.FlowProvider, prefix string) *service.FeedService {
	t.Helper()

	reports := testutil.NewTestReportService(t, db, market)
	return service.NewFeedService(
		repository.NewUserRepository(db),
		repository.NewWatchlistRepository(db),
		reports,
		market,
		prefix,
	)
}

// TestFeedService_ResolveToken tests token lookup by plain value and hash.
//
// WHY: feeds are the only unauthenticated surface; resolving a token to
// the wrong user would leak someone else's positions.
func TestFeedService_ResolveToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	market := &testutil.MockMarket{}
	svc := newFeedService(t, db, market, "username")

	plain := testutil.NewUser().WithRSSToken("plaintoken0123").Build(t, db)
	hashed := testutil.NewUser().WithRSSTokenHash(auth.HashRSSToken("hashedtoken456")).Build(t, db)

	t.Run("plain token resolves", func(t *testing.T) {
		user, err := svc.ResolveToken("plaintoken0123")
		if err != nil {
			t.Fatalf("ResolveToken failed: %v", err)
		}
		if user.ID != plain.ID {
			t.Error("resolved wrong user")
		}
	})

	t.Run("hash-only token resolves", func(t *testing.T) {
		user, err := svc.ResolveToken("hashedtoken456")
		if err != nil {
			t.Fatalf("ResolveToken failed: %v", err)
		}
		if user.ID != hashed.ID {
			t.Error("resolved wrong user")
		}
	})

	t.Run("unknown token fails", func(t *testing.T) {
		if _, err := svc.ResolveToken("nosuchtoken"); !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

// TestFeedService_PrefixAllowed tests both prefix policies.
func TestFeedService_PrefixAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	market := &testutil.MockMarket{}
	user := model.User{Username: "alice"}

	t.Run("username policy matches the owner only", func(t *testing.T) {
		svc := newFeedService(t, db, market, "username")
		if !svc.PrefixAllowed("alice", user) {
			t.Error("owner's name must be allowed")
		}
		if svc.PrefixAllowed("bob", user) {
			t.Error("other names must be rejected")
		}
	})

	t.Run("fixed policy matches the literal prefix", func(t *testing.T) {
		svc := newFeedService(t, db, market, "feeds")
		if !svc.PrefixAllowed("feeds", user) {
			t.Error("fixed prefix must be allowed")
		}
		if svc.PrefixAllowed("alice", user) {
			t.Error("usernames must be rejected under a fixed prefix")
		}
	})
}

// TestFeedService_BuildFeed tests feed rendering with partial provider
// failures.
func TestFeedService_BuildFeed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.NewUser().WithRSSToken("feedtoken").Build(t, db)
	testutil.AddWatchItem(t, db, user.ID, "600519.SH", "茅台")
	testutil.AddWatchItem(t, db, user.ID, "000001.SZ", "平安银行")

	// 000001.SZ has no minute flow and must be skipped entirely;
	// 600519.SH has flow but no quote and must degrade to dashes.
	market := &testutil.MockMarket{
		Flows: map[string]*model.MinuteFlow{
			"600519.SH": {
				Symbol: "600519.SH",
				Name:   "贵州茅台",
				Time:   "2026-08-03 15:00",
				Main:   1.23e8,
			},
		},
	}
	svc := newFeedService(t, db, market, "username")

	feed, err := svc.BuildFeed(context.Background(), user)
	if err != nil {
		t.Fatalf("BuildFeed failed: %v", err)
	}

	doc := string(feed)
	if !strings.Contains(doc, "资金流RSS - "+user.Username) {
		t.Error("feed missing channel title")
	}
	if !strings.Contains(doc, "600519.SH_2026-08-03 15:00") {
		t.Error("feed missing item for the stock with flow data")
	}
	if strings.Contains(doc, "000001.SZ") {
		t.Error("stock without flow data must be skipped")
	}
	if !strings.Contains(doc, "最新价:-") {
		t.Error("missing quote must degrade to a dash")
	}
}
