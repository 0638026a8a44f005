package scheduler

import (
	"testing"
	"time"

	"github.com/cuixiaoyuan/fundflow/internal/config"
	"github.com/cuixiaoyuan/fundflow/internal/model"
	"github.com/cuixiaoyuan/fundflow/internal/repository"
	"github.com/cuixiaoyuan/fundflow/internal/testutil"
)

// TestCapture verifies the sweep stores rows for every watchlisted symbol
// and that one failing symbol does not stop the others.
//
// WHY: the capture job is the only writer of fund_flow_daily; a sweep that
// aborts on the first provider error slowly starves the history.
func TestCapture(t *testing.T) {
	market := &testutil.MockMarket{
		Daily: map[string][]model.FundFlowDaily{
			"600519.SH": {
				{Code: "600519", Exchange: "SH", Date: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC), MainNet: 1e8},
				{Code: "600519", Exchange: "SH", Date: time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC), MainNet: 2e8},
			},
			// 000001.SZ deliberately absent: provider failure.
		},
	}

	db := testutil.SetupTestDB(t)
	watchlistRepo := repository.NewWatchlistRepository(db)
	flowRepo := repository.NewFundFlowRepository(db)

	user := testutil.NewUser().Build(t, db)
	testutil.AddWatchItem(t, db, user.ID, "600519.SH", "茅台")
	testutil.AddWatchItem(t, db, user.ID, "000001.SZ", "平安银行")

	s, err := New(config.SchedulerConfig{
		CaptureSpec:   "15 15 * * 1-5",
		PurgeSpec:     "30 3 * * *",
		RetentionDays: 365,
	}, watchlistRepo, flowRepo, market)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	s.runCapture()

	records, err := flowRepo.GetDaily("600519", "SH", time.Time{}, time.Time{}, 0)
	if err != nil {
		t.Fatalf("GetDaily failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 captured rows, got %d", len(records))
	}

	// Re-running is idempotent thanks to the upsert.
	s.runCapture()
	records, err = flowRepo.GetDaily("600519", "SH", time.Time{}, time.Time{}, 0)
	if err != nil {
		t.Fatalf("GetDaily failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 rows after rerun, got %d", len(records))
	}
}

// TestPurge verifies the retention job deletes only rows past the cutoff.
func TestPurge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	watchlistRepo := repository.NewWatchlistRepository(db)
	flowRepo := repository.NewFundFlowRepository(db)

	old := model.FundFlowDaily{Code: "600519", Exchange: "SH", Date: time.Now().UTC().AddDate(0, 0, -400)}
	recent := model.FundFlowDaily{Code: "600519", Exchange: "SH", Date: time.Now().UTC().AddDate(0, 0, -5)}
	if err := flowRepo.UpsertDaily([]model.FundFlowDaily{old, recent}); err != nil {
		t.Fatalf("UpsertDaily failed: %v", err)
	}

	s, err := New(config.SchedulerConfig{
		CaptureSpec:   "15 15 * * 1-5",
		PurgeSpec:     "30 3 * * *",
		RetentionDays: 365,
	}, watchlistRepo, flowRepo, &testutil.MockMarket{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	s.runPurge()

	records, err := flowRepo.GetDaily("600519", "SH", time.Time{}, time.Time{}, 0)
	if err != nil {
		t.Fatalf("GetDaily failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 surviving row, got %d", len(records))
	}
	if records[0].Date.Format("2006-01-02") != recent.Date.Format("2006-01-02") {
		t.Error("purge removed the wrong row")
	}
}
