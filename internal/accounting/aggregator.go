package accounting

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cuixiaoyuan/fundflow/internal/model"
)

// Aggregate combines lot tracker output with a market snapshot into a
// PositionReport for one stock.
//
// quote may be nil when the provider failed; the report then carries
// PriceAvailable=false with zeroed mark-to-market fields while realized
// P&L (which needs no quote) is still populated.
//
// periodStart bounds the period realized total. now fixes "today" for the
// today-realized and mark-to-market splits. The carried-forward baseline is
// a portfolio-level figure and is applied to the summary by the caller,
// never to individual stocks.
//
// No rounding happens here. Presentation rounding is applied once, by
// model.PositionReport.Rounded.
func Aggregate(
	lots []Lot,
	realized []RealizedRecord,
	quote *model.Quote,
	periodStart time.Time,
	now time.Time,
) model.PositionReport {
	pos := PositionFromLots(lots)

	report := model.PositionReport{
		Quantity:       pos.Quantity,
		AvgCost:        pos.AvgCost,
		TodayRealized:  decimal.Zero,
		PeriodRealized: decimal.Zero,
		LatestPrice:    decimal.Zero,
		MarketValue:    decimal.Zero,
		Unrealized:     decimal.Zero,
		UnrealizedPct:  decimal.Zero,
		TodayMTM:       decimal.Zero,
	}
	if pos.StockCode != "" {
		report.Symbol = pos.StockCode
	}

	today := now.Format("2006-01-02")
	for _, rec := range realized {
		if report.Symbol == "" {
			report.Symbol = rec.StockCode
		}
		if rec.SettledAt.In(now.Location()).Format("2006-01-02") == today {
			report.TodayRealized = report.TodayRealized.Add(rec.Amount)
		}
		if !rec.SettledAt.Before(periodStart) {
			report.PeriodRealized = report.PeriodRealized.Add(rec.Amount)
		}
	}

	if quote == nil {
		return report
	}

	report.PriceAvailable = true
	report.Name = quote.Name
	report.QuoteAsOf = quote.AsOf
	report.LatestPrice = decimal.NewFromFloat(quote.Price)
	report.MarketValue = report.LatestPrice.Mul(report.Quantity)
	report.Unrealized = report.LatestPrice.Sub(report.AvgCost).Mul(report.Quantity)

	costBase := report.AvgCost.Mul(report.Quantity)
	if costBase.IsPositive() {
		report.UnrealizedPct = report.Unrealized.Div(costBase).Mul(decimal.NewFromInt(100))
	}

	// Today's mark-to-market on still-open holdings is price movement only;
	// it is independent of cost basis.
	prevClose := decimal.NewFromFloat(quote.PrevClose)
	if prevClose.IsPositive() {
		report.TodayMTM = report.LatestPrice.Sub(prevClose).Mul(report.Quantity)
	}

	return report
}

// Summarize folds per-stock reports into the single aggregate record that
// accompanies a report batch. Failed lines contribute nothing.
func Summarize(reports []model.PositionReport) model.ReportSummary {
	sum := model.ReportSummary{
		Unrealized:     decimal.Zero,
		TodayRealized:  decimal.Zero,
		PeriodRealized: decimal.Zero,
		TodayMTM:       decimal.Zero,
		MarketValue:    decimal.Zero,
	}
	for _, r := range reports {
		if r.Failed {
			continue
		}
		sum.Unrealized = sum.Unrealized.Add(r.Unrealized)
		sum.TodayRealized = sum.TodayRealized.Add(r.TodayRealized)
		sum.PeriodRealized = sum.PeriodRealized.Add(r.PeriodRealized)
		sum.TodayMTM = sum.TodayMTM.Add(r.TodayMTM)
		sum.MarketValue = sum.MarketValue.Add(r.MarketValue)
	}
	return sum
}

// TopN returns the n largest holdings by absolute current market value,
// ties broken by stock code ascending so the ranking is deterministic.
// n <= 0 or n >= len(reports) returns all reports, still ranked.
func TopN(reports []model.PositionReport, n int) []model.PositionReport {
	ranked := make([]model.PositionReport, len(reports))
	copy(ranked, reports)
	sort.SliceStable(ranked, func(i, j int) bool {
		vi, vj := ranked[i].MarketValue.Abs(), ranked[j].MarketValue.Abs()
		if !vi.Equal(vj) {
			return vi.GreaterThan(vj)
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
