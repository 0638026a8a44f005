package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/model"
	"github.com/cuixiaoyuan/fundflow/internal/repository"
	"github.com/cuixiaoyuan/fundflow/internal/service"
	"github.com/cuixiaoyuan/fundflow/internal/testutil"
)

func seedFlowRows(t *testing.T, repo *repository.FundFlowRepository, code, exchange string, days int) {
	t.Helper()

	rows := make([]model.FundFlowDaily, 0, days)
	for i := 0; i < days; i++ {
		rows = append(rows, model.FundFlowDaily{
			Code:     code,
			Exchange: exchange,
			Date:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Close:    10 + float64(i),
			MainNet:  float64(i) * 1e6,
		})
	}
	if err := repo.UpsertDaily(rows); err != nil {
		t.Fatalf("UpsertDaily failed: %v", err)
	}
}

// TestFundFlowService_GetDaily tests stored-snapshot queries with code
// normalization and range filters.
func TestFundFlowService_GetDaily(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFundFlowRepository(db)
	svc := testutil.NewTestFundFlowService(t, db)

	seedFlowRows(t, repo, "600519", "SH", 5)

	t.Run("accepts any symbol form and returns newest first", func(t *testing.T) {
		records, err := svc.GetDaily(service.FlowQuery{Code: "sh600519"})
		if err != nil {
			t.Fatalf("GetDaily failed: %v", err)
		}
		if len(records) != 5 {
			t.Fatalf("expected 5 rows, got %d", len(records))
		}
		if !records[0].Date.After(records[1].Date) {
			t.Error("expected newest-first ordering")
		}
	})

	t.Run("date range bounds are inclusive", func(t *testing.T) {
		records, err := svc.GetDaily(service.FlowQuery{
			Code:  "600519.SH",
			Start: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("GetDaily failed: %v", err)
		}
		if len(records) != 3 {
			t.Errorf("expected 3 rows in range, got %d", len(records))
		}
	})

	t.Run("limit truncates after ordering", func(t *testing.T) {
		records, err := svc.GetDaily(service.FlowQuery{Code: "600519", Limit: 2})
		if err != nil {
			t.Fatalf("GetDaily failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(records))
		}
		if records[0].Date.Format("2006-01-02") != "2026-08-05" {
			t.Errorf("expected newest row first, got %s", records[0].Date.Format("2006-01-02"))
		}
	})

	t.Run("rejects malformed codes", func(t *testing.T) {
		if _, err := svc.GetDaily(service.FlowQuery{Code: "12345"}); !errors.Is(err, apperrors.ErrStockCodeInvalid) {
			t.Errorf("expected ErrStockCodeInvalid, got %v", err)
		}
	})
}

// TestFundFlowService_GetLatest tests the single-row lookup.
func TestFundFlowService_GetLatest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFundFlowRepository(db)
	svc := testutil.NewTestFundFlowService(t, db)

	seedFlowRows(t, repo, "600519", "SH", 3)

	t.Run("returns the newest stored row", func(t *testing.T) {
		record, err := svc.GetLatest("600519", "")
		if err != nil {
			t.Fatalf("GetLatest failed: %v", err)
		}
		if record.Date.Format("2006-01-02") != "2026-08-03" {
			t.Errorf("expected 2026-08-03, got %s", record.Date.Format("2006-01-02"))
		}
	})

	t.Run("unknown code yields not found", func(t *testing.T) {
		if _, err := svc.GetLatest("000001", ""); !errors.Is(err, apperrors.ErrFlowRecordNotFound) {
			t.Errorf("expected ErrFlowRecordNotFound, got %v", err)
		}
	})
}

// TestFundFlowRepository_Purge tests the retention delete.
func TestFundFlowRepository_Purge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFundFlowRepository(db)

	seedFlowRows(t, repo, "600519", "SH", 5)

	purged, err := repo.PurgeOlderThan(time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PurgeOlderThan failed: %v", err)
	}
	if purged != 2 {
		t.Errorf("expected 2 purged rows, got %d", purged)
	}

	remaining, err := repo.GetDaily("600519", "SH", time.Time{}, time.Time{}, 0)
	if err != nil {
		t.Fatalf("GetDaily failed: %v", err)
	}
	if len(remaining) != 3 {
		t.Errorf("expected 3 remaining rows, got %d", len(remaining))
	}
}
