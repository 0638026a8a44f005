package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cuixiaoyuan/fundflow/internal/accounting"
	"github.com/cuixiaoyuan/fundflow/internal/model"
)

func quote(price, prevClose float64) *model.Quote {
	return &model.Quote{
		Symbol:    "600519.SH",
		Name:      "贵州茅台",
		Price:     price,
		PrevClose: prevClose,
		AsOf:      baseTime,
	}
}

// TestAggregate_MarkToMarket verifies that today's MTM P&L depends only on
// price movement since previous close, not on cost basis.
func TestAggregate_MarkToMarket(t *testing.T) {
	lots := []accounting.Lot{
		{StockCode: "600519.SH", Remaining: decimal.NewFromInt(100), UnitCost: decimal.NewFromFloat(7.3)},
	}

	report := accounting.Aggregate(lots, nil, quote(10.5, 10.0), baseTime.AddDate(0, -1, 0), baseTime)

	if !report.TodayMTM.Equal(decimal.NewFromInt(50)) {
		t.Errorf("TodayMTM = %s, want 50", report.TodayMTM)
	}
	// (10.5 - 7.3) x 100 = 320
	if !report.Unrealized.Equal(decimal.NewFromInt(320)) {
		t.Errorf("Unrealized = %s, want 320", report.Unrealized)
	}
}

// TestAggregate_TodayVsPeriodRealized verifies the realized split: today's
// total counts only today's settlements, the period total counts records
// since periodStart.
func TestAggregate_TodayVsPeriodRealized(t *testing.T) {
	now := baseTime
	realized := []accounting.RealizedRecord{
		{StockCode: "600519.SH", SettledAt: now.AddDate(0, 0, -10), Amount: decimal.NewFromInt(200)},
		{StockCode: "600519.SH", SettledAt: now.AddDate(0, 0, -2), Amount: decimal.NewFromInt(100)},
		{StockCode: "600519.SH", SettledAt: now, Amount: decimal.NewFromInt(30)},
	}
	periodStart := now.AddDate(0, 0, -5)

	report := accounting.Aggregate(nil, realized, nil, periodStart, now)

	if !report.TodayRealized.Equal(decimal.NewFromInt(30)) {
		t.Errorf("TodayRealized = %s, want 30", report.TodayRealized)
	}
	// 100 + 30 inside the period; the -10d record is out.
	if !report.PeriodRealized.Equal(decimal.NewFromInt(130)) {
		t.Errorf("PeriodRealized = %s, want 130", report.PeriodRealized)
	}
}

// TestAggregate_NoQuote verifies graceful degradation: with no quote the
// report keeps realized P&L but marks the price unavailable.
func TestAggregate_NoQuote(t *testing.T) {
	lots := []accounting.Lot{
		{StockCode: "600519.SH", Remaining: decimal.NewFromInt(100), UnitCost: decimal.NewFromInt(10)},
	}
	realized := []accounting.RealizedRecord{
		{StockCode: "600519.SH", SettledAt: baseTime, Amount: decimal.NewFromInt(42)},
	}

	report := accounting.Aggregate(lots, realized, nil, baseTime.AddDate(0, -1, 0), baseTime)

	if report.PriceAvailable {
		t.Error("PriceAvailable = true, want false")
	}
	if !report.Unrealized.IsZero() || !report.TodayMTM.IsZero() {
		t.Errorf("expected zero MTM fields, got unrealized=%s mtm=%s", report.Unrealized, report.TodayMTM)
	}
	if !report.TodayRealized.Equal(decimal.NewFromInt(42)) {
		t.Errorf("TodayRealized = %s, want 42", report.TodayRealized)
	}
	if !report.Quantity.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Quantity = %s, want 100", report.Quantity)
	}
}

// TestAggregate_UnrealizedPct verifies the unrealized percentage against
// the cost base.
func TestAggregate_UnrealizedPct(t *testing.T) {
	lots := []accounting.Lot{
		{StockCode: "600519.SH", Remaining: decimal.NewFromInt(100), UnitCost: decimal.NewFromInt(10)},
	}

	report := accounting.Aggregate(lots, nil, quote(11, 10.5), baseTime.AddDate(0, -1, 0), baseTime)

	// (11-10)x100 / (10x100) = 10%
	if !report.UnrealizedPct.Equal(decimal.NewFromInt(10)) {
		t.Errorf("UnrealizedPct = %s, want 10", report.UnrealizedPct)
	}
}

// TestTopN verifies ranking by absolute market value with the stock-code
// tiebreak, and the size cap.
func TestTopN(t *testing.T) {
	mk := func(symbol string, value int64) model.PositionReport {
		return model.PositionReport{Symbol: symbol, MarketValue: decimal.NewFromInt(value)}
	}
	reports := []model.PositionReport{
		mk("300661.SZ", 500),
		mk("000981.SZ", -800), // abs ranks above 500
		mk("603019.SH", 500),  // ties with 300661.SZ, loses on code order
	}

	top := accounting.TopN(reports, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(top))
	}
	if top[0].Symbol != "000981.SZ" || top[1].Symbol != "300661.SZ" {
		t.Errorf("ranking = [%s %s], want [000981.SZ 300661.SZ]", top[0].Symbol, top[1].Symbol)
	}

	all := accounting.TopN(reports, 0)
	if len(all) != 3 {
		t.Fatalf("n=0 should return all reports, got %d", len(all))
	}
	if all[2].Symbol != "603019.SH" {
		t.Errorf("last = %s, want 603019.SH", all[2].Symbol)
	}
}

// TestSummarize verifies the aggregate summary skips failed lines.
func TestSummarize(t *testing.T) {
	reports := []model.PositionReport{
		{Unrealized: decimal.NewFromInt(100), TodayMTM: decimal.NewFromInt(10), MarketValue: decimal.NewFromInt(1000)},
		{Unrealized: decimal.NewFromInt(50), TodayMTM: decimal.NewFromInt(-5), MarketValue: decimal.NewFromInt(500)},
		{Failed: true, Unrealized: decimal.NewFromInt(999)},
	}

	sum := accounting.Summarize(reports)
	if !sum.Unrealized.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Unrealized = %s, want 150", sum.Unrealized)
	}
	if !sum.TodayMTM.Equal(decimal.NewFromInt(5)) {
		t.Errorf("TodayMTM = %s, want 5", sum.TodayMTM)
	}
	if !sum.MarketValue.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("MarketValue = %s, want 1500", sum.MarketValue)
	}
}

// TestRoundingConvention verifies the presentation convention: monetary
// amounts to integer yuan, prices and percentages to two decimals.
func TestRoundingConvention(t *testing.T) {
	report := model.PositionReport{
		Symbol:        "600519.SH",
		Quantity:      decimal.NewFromInt(100),
		AvgCost:       decimal.NewFromFloat(10.456),
		LatestPrice:   decimal.NewFromFloat(10.5),
		Unrealized:    decimal.NewFromFloat(123.49),
		UnrealizedPct: decimal.NewFromFloat(1.2345),
		TodayMTM:      decimal.NewFromFloat(49.5),
	}

	wire := report.Rounded()
	if wire.Unrealized != 123 {
		t.Errorf("Unrealized = %d, want 123", wire.Unrealized)
	}
	if wire.TodayMTM != 50 {
		t.Errorf("TodayMTM = %d, want 50 (half away from zero)", wire.TodayMTM)
	}
	if wire.UnrealizedPct != 1.23 {
		t.Errorf("UnrealizedPct = %v, want 1.23", wire.UnrealizedPct)
	}
	if wire.AvgCost != 10.46 {
		t.Errorf("AvgCost = %v, want 10.46", wire.AvgCost)
	}
}
