package model

import "time"

// FundFlowDaily is one stored daily fund-flow snapshot for a stock. Net
// amounts are in yuan; percentages in percent with provider precision.
// Rows are upserted by the capture job, keyed on (code, exchange, date).
type FundFlowDaily struct {
	Code          string    `json:"code"`
	Exchange      string    `json:"exchange"`
	Date          time.Time `json:"date"`
	Close         float64   `json:"close"`
	PctChange     float64   `json:"pctChange"`
	MainNet       float64   `json:"mainNet"`
	MainPct       float64   `json:"mainPct"`
	SuperLargeNet float64   `json:"superLargeNet"`
	SuperLargePct float64   `json:"superLargePct"`
	LargeNet      float64   `json:"largeNet"`
	LargePct      float64   `json:"largePct"`
	MediumNet     float64   `json:"mediumNet"`
	MediumPct     float64   `json:"mediumPct"`
	SmallNet      float64   `json:"smallNet"`
	SmallPct      float64   `json:"smallPct"`
	Name          string    `json:"name"`
}
