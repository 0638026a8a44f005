package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction enumerates the trade event kinds the ledger accepts.
type Direction string

const (
	DirectionBuy      Direction = "buy"
	DirectionSell     Direction = "sell"
	DirectionDividend Direction = "dividend"
)

// Valid reports whether d is one of the enumerated directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionBuy, DirectionSell, DirectionDividend:
		return true
	}
	return false
}

// TradeEvent is one immutable row of the trade ledger. Events are never
// updated or deleted; corrections are recorded as new offsetting events.
//
// For buy/sell events UnitPrice is the execution price per share; for
// dividend events it is the dividend amount per share. Fee and StampTax are
// absolute amounts attributed to this event.
type TradeEvent struct {
	ID        string          `json:"id"`
	UserID    string          `json:"-"`
	StockCode string          `json:"stockCode"`
	Direction Direction       `json:"direction"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Fee       decimal.Decimal `json:"fee"`
	StampTax  decimal.Decimal `json:"stampTax"`
	TradeTime time.Time       `json:"tradeTime"`
	CreatedAt time.Time       `json:"createdAt,omitempty"`
}

// GrossAmount returns quantity x unit price, before fees and taxes.
func (e TradeEvent) GrossAmount() decimal.Decimal {
	return e.Quantity.Mul(e.UnitPrice)
}

// Charges returns the total fee and stamp tax attributed to the event.
func (e TradeEvent) Charges() decimal.Decimal {
	return e.Fee.Add(e.StampTax)
}
