package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cuixiaoyuan/fundflow/internal/model"
	"github.com/cuixiaoyuan/fundflow/internal/ratelimit"
	"github.com/cuixiaoyuan/fundflow/internal/repository"
	"github.com/cuixiaoyuan/fundflow/internal/service"
	"github.com/cuixiaoyuan/fundflow/internal/testutil"
)

func setupRSSHandler(t *testing.T, rateLimit int) (*RSSHandler, model.User) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	user := testutil.NewUser().WithUsername("alice").WithRSSToken("feedtoken123").Build(t, db)
	testutil.AddWatchItem(t, db, user.ID, "600519.SH", "茅台")

	market := &testutil.MockMarket{
		Flows: map[string]*model.MinuteFlow{
			"600519.SH": {Symbol: "600519.SH", Name: "贵州茅台", Time: "2026-08-03 15:00"},
		},
		Quotes: map[string]*model.Quote{
			"600519.SH": {Symbol: "600519.SH", Name: "贵州茅台", Price: 1700, PrevClose: 1690},
		},
	}

	feedService := service.NewFeedService(
		repository.NewUserRepository(db),
		repository.NewWatchlistRepository(db),
		testutil.NewTestReportService(t, db, market),
		market,
		"username",
	)

	return NewRSSHandler(feedService, ratelimit.New(rateLimit, time.Minute)), user
}

func feedRequest(token string, params map[string]string) *http.Request {
	req := testutil.NewRequestWithURLParams(http.MethodGet, "/u/"+token+".rss", params)
	req.RemoteAddr = "10.0.0.1:54321"
	return req
}

func TestRSSHandler_UserFeed(t *testing.T) {
	t.Run("serves the feed for a valid token", func(t *testing.T) {
		handler, _ := setupRSSHandler(t, 10)

		w := httptest.NewRecorder()
		handler.UserFeed(w, feedRequest("feedtoken123", map[string]string{"token": "feedtoken123"}))

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
			t.Errorf("unexpected content type %s", ct)
		}
		if !strings.Contains(w.Body.String(), "600519.SH_2026-08-03 15:00") {
			t.Error("feed body missing the watchlist item")
		}
	})

	t.Run("unknown token yields 404", func(t *testing.T) {
		handler, _ := setupRSSHandler(t, 10)

		w := httptest.NewRecorder()
		handler.UserFeed(w, feedRequest("wrong", map[string]string{"token": "wrong"}))

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("rate limits with Retry-After", func(t *testing.T) {
		handler, _ := setupRSSHandler(t, 1)

		w := httptest.NewRecorder()
		handler.UserFeed(w, feedRequest("feedtoken123", map[string]string{"token": "feedtoken123"}))
		if w.Code != http.StatusOK {
			t.Fatalf("first request should pass, got %d", w.Code)
		}

		w = httptest.NewRecorder()
		handler.UserFeed(w, feedRequest("feedtoken123", map[string]string{"token": "feedtoken123"}))
		if w.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", w.Code)
		}
		if w.Header().Get("Retry-After") == "" {
			t.Error("expected a Retry-After header")
		}
	})
}

func TestRSSHandler_PrefixedFeed(t *testing.T) {
	t.Run("owner's username prefix is allowed", func(t *testing.T) {
		handler, _ := setupRSSHandler(t, 10)

		req := feedRequest("feedtoken123", map[string]string{
			"prefix": "alice",
			"token":  "feedtoken123",
		})
		w := httptest.NewRecorder()
		handler.PrefixedFeed(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("foreign prefix yields 404", func(t *testing.T) {
		handler, _ := setupRSSHandler(t, 10)

		req := feedRequest("feedtoken123", map[string]string{
			"prefix": "bob",
			"token":  "feedtoken123",
		})
		w := httptest.NewRecorder()
		handler.PrefixedFeed(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}
