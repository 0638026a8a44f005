package service_test

import (
	"errors"
	"testing"

	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/testutil"
	"github.com/cuixiaoyuan/fundflow/internal/validation"
)

// TestWatchlistService_ReplaceWatchlist tests the replace-all save.
//
// WHY: the save is all-or-nothing; a partial write after a failed
// validation would silently truncate the user's list.
func TestWatchlistService_ReplaceWatchlist(t *testing.T) {
	t.Run("saves normalized symbols in order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.NewUser().Build(t, db)
		svc := testutil.NewTestWatchlistService(t, db)

		items, err := svc.ReplaceWatchlist(user.ID, []validation.WatchEntry{
			{Name: "茅台", Symbol: "sh600519"},
			{Symbol: "000001"},
		})
		if err != nil {
			t.Fatalf("ReplaceWatchlist failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if items[0].Symbol != "600519.SH" || items[1].Symbol != "000001.SZ" {
			t.Errorf("unexpected symbols: %s, %s", items[0].Symbol, items[1].Symbol)
		}
		if items[1].Name != "000001.SZ" {
			t.Errorf("name must default to the symbol, got %s", items[1].Name)
		}

		stored, err := svc.GetWatchlist(user.ID)
		if err != nil {
			t.Fatalf("GetWatchlist failed: %v", err)
		}
		if len(stored) != 2 || stored[0].Symbol != "600519.SH" {
			t.Errorf("stored list does not match save: %+v", stored)
		}
	})

	t.Run("one bad symbol rejects the whole save", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.NewUser().Build(t, db)
		svc := testutil.NewTestWatchlistService(t, db)

		if _, err := svc.ReplaceWatchlist(user.ID, []validation.WatchEntry{{Symbol: "600519"}}); err != nil {
			t.Fatalf("ReplaceWatchlist failed: %v", err)
		}

		_, err := svc.ReplaceWatchlist(user.ID, []validation.WatchEntry{
			{Symbol: "000001"},
			{Symbol: "not-a-code"},
		})
		if !errors.Is(err, apperrors.ErrStockCodeInvalid) {
			t.Fatalf("expected ErrStockCodeInvalid, got %v", err)
		}

		stored, err := svc.GetWatchlist(user.ID)
		if err != nil {
			t.Fatalf("GetWatchlist failed: %v", err)
		}
		if len(stored) != 1 || stored[0].Symbol != "600519.SH" {
			t.Errorf("failed save must leave the previous list intact: %+v", stored)
		}
	})

	t.Run("replaces via text format", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.NewUser().Build(t, db)
		svc := testutil.NewTestWatchlistService(t, db)

		items, err := svc.ReplaceWatchlistText(user.ID, "茅台=sh600519\n\n300750\n")
		if err != nil {
			t.Fatalf("ReplaceWatchlistText failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if items[0].Name != "茅台" || items[1].Symbol != "300750.SZ" {
			t.Errorf("unexpected parse result: %+v", items)
		}
	})

	t.Run("empty save clears the list", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.NewUser().Build(t, db)
		svc := testutil.NewTestWatchlistService(t, db)

		if _, err := svc.ReplaceWatchlist(user.ID, []validation.WatchEntry{{Symbol: "600519"}}); err != nil {
			t.Fatalf("ReplaceWatchlist failed: %v", err)
		}
		if _, err := svc.ReplaceWatchlist(user.ID, nil); err != nil {
			t.Fatalf("ReplaceWatchlist failed: %v", err)
		}

		stored, err := svc.GetWatchlist(user.ID)
		if err != nil {
			t.Fatalf("GetWatchlist failed: %v", err)
		}
		if len(stored) != 0 {
			t.Errorf("expected empty watchlist, got %d items", len(stored))
		}
	})
}
