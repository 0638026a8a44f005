package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionReport is the aggregator output for one watchlisted stock.
// All decimal fields carry full precision; rounding happens only in
// Rounded() at presentation time.
type PositionReport struct {
	Symbol         string
	Name           string
	PriceAvailable bool
	Failed         bool
	FailReason     string
	Quantity       decimal.Decimal
	AvgCost        decimal.Decimal
	LatestPrice    decimal.Decimal
	MarketValue    decimal.Decimal
	Unrealized     decimal.Decimal
	UnrealizedPct  decimal.Decimal
	TodayRealized  decimal.Decimal
	PeriodRealized decimal.Decimal
	TodayMTM       decimal.Decimal
	QuoteAsOf      time.Time
}

// PositionReportJSON is the wire form of a PositionReport. Monetary amount
// fields are rounded to integer yuan; per-share prices keep two decimals
// (the exchange quotes prices in fen); percentage fields keep two decimals.
type PositionReportJSON struct {
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	PriceAvailable bool    `json:"priceAvailable"`
	Failed         bool    `json:"failed,omitempty"`
	FailReason     string  `json:"failReason,omitempty"`
	Quantity       float64 `json:"quantity"`
	AvgCost        float64 `json:"avgCost"`
	LatestPrice    float64 `json:"latestPrice"`
	MarketValue    int64   `json:"marketValue"`
	Unrealized     int64   `json:"unrealized"`
	UnrealizedPct  float64 `json:"unrealizedPct"`
	TodayRealized  int64   `json:"todayRealized"`
	PeriodRealized int64   `json:"periodRealized"`
	TodayMTM       int64   `json:"todayMtm"`
	QuoteAsOf      string  `json:"quoteAsOf,omitempty"`
}

// Rounded converts the report to its wire form, applying the numeric
// rounding convention exactly once.
func (r PositionReport) Rounded() PositionReportJSON {
	out := PositionReportJSON{
		Symbol:         r.Symbol,
		Name:           r.Name,
		PriceAvailable: r.PriceAvailable,
		Failed:         r.Failed,
		FailReason:     r.FailReason,
		Quantity:       r.Quantity.InexactFloat64(),
		AvgCost:        RoundPct(r.AvgCost),
		LatestPrice:    RoundPct(r.LatestPrice),
		MarketValue:    RoundMoney(r.MarketValue),
		Unrealized:     RoundMoney(r.Unrealized),
		UnrealizedPct:  RoundPct(r.UnrealizedPct),
		TodayRealized:  RoundMoney(r.TodayRealized),
		PeriodRealized: RoundMoney(r.PeriodRealized),
		TodayMTM:       RoundMoney(r.TodayMTM),
	}
	if !r.QuoteAsOf.IsZero() {
		out.QuoteAsOf = r.QuoteAsOf.Format(time.RFC3339)
	}
	return out
}

// ReportSummary aggregates all of a user's holdings into one record.
type ReportSummary struct {
	Unrealized     decimal.Decimal
	TodayRealized  decimal.Decimal
	PeriodRealized decimal.Decimal
	TodayMTM       decimal.Decimal
	MarketValue    decimal.Decimal
}

// ReportSummaryJSON is the wire form of a ReportSummary.
type ReportSummaryJSON struct {
	Unrealized     int64 `json:"unrealized"`
	TodayRealized  int64 `json:"todayRealized"`
	PeriodRealized int64 `json:"periodRealized"`
	TodayMTM       int64 `json:"todayMtm"`
	MarketValue    int64 `json:"marketValue"`
}

// Rounded converts the summary to its wire form.
func (s ReportSummary) Rounded() ReportSummaryJSON {
	return ReportSummaryJSON{
		Unrealized:     RoundMoney(s.Unrealized),
		TodayRealized:  RoundMoney(s.TodayRealized),
		PeriodRealized: RoundMoney(s.PeriodRealized),
		TodayMTM:       RoundMoney(s.TodayMTM),
		MarketValue:    RoundMoney(s.MarketValue),
	}
}

// RoundMoney rounds a monetary amount to integer yuan, half away from zero.
func RoundMoney(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// RoundPct rounds a percentage (or per-share price) to two decimals.
func RoundPct(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
