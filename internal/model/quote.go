package model

import "time"

// Quote is a market snapshot for one stock. It is treated as a pure
// function of (symbol, time); the accounting core never mutates it.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	PrevClose float64   `json:"prevClose"`
	PctChange float64   `json:"pctChange"`
	MarketCap float64   `json:"marketCap"`
	AsOf      time.Time `json:"asOf"`
}

// MinuteFlow is the latest minute-level fund-flow bucket breakdown for one
// stock. Amounts are in yuan as returned by the provider.
type MinuteFlow struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Time       string  `json:"time"`
	Main       float64 `json:"main"`
	SuperLarge float64 `json:"superLarge"`
	Large      float64 `json:"large"`
	Medium     float64 `json:"medium"`
	Small      float64 `json:"small"`
}
