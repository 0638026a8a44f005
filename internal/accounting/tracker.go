// Package accounting implements the position accounting core: a FIFO lot
// tracker over an ordered trade history and a P&L aggregator that combines
// tracker state with a market snapshot.
//
// Everything in this package is a pure function over its inputs. Re-running
// Apply on the same ordered event sequence yields identical lots and
// realized records, which is what makes report generation idempotent.
package accounting

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/model"
)

// Lot is a discrete acquired quantity at a fixed cost basis. Fees and stamp
// tax of the opening buy are folded into UnitCost at acquisition, so they
// are never counted again when the lot is consumed.
type Lot struct {
	StockCode string
	EventID   string
	OpenedAt  time.Time
	Remaining decimal.Decimal
	UnitCost  decimal.Decimal
}

// RealizedRecord is profit or loss locked in by a sell (one record per lot
// consumed, proportional to the quantity taken from that lot) or by a
// dividend (zero quantity impact). It is attributed to the triggering
// ledger event and its settlement time.
type RealizedRecord struct {
	EventID   string
	StockCode string
	SettledAt time.Time
	Quantity  decimal.Decimal
	Amount    decimal.Decimal
}

// InsufficientPositionError reports a sell that exceeds the open quantity
// at its point in the trade history. It identifies the offending event and
// the shortfall so the caller can surface a precise data-entry error.
type InsufficientPositionError struct {
	EventID   string
	StockCode string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientPositionError) Error() string {
	return fmt.Sprintf(
		"insufficient position for sale: event %s stock %s requested %s available %s (short %s)",
		e.EventID, e.StockCode, e.Requested, e.Available, e.Requested.Sub(e.Available),
	)
}

// Unwrap makes the error match apperrors.ErrInsufficientPosition with errors.Is.
func (e *InsufficientPositionError) Unwrap() error {
	return apperrors.ErrInsufficientPosition
}

// Apply folds an event sequence for one (user, stock) pair into the open
// lots and realized P&L records it implies.
//
// Events are processed in non-decreasing TradeTime order; ties keep their
// input order, so the caller's insertion order is the tiebreaker. Buys open
// lots, sells consume lots oldest-first, dividends realize their net amount
// without touching lots. A sell that exceeds the total open quantity fails
// with *InsufficientPositionError; nothing is silently clamped.
func Apply(events []model.TradeEvent) ([]Lot, []RealizedRecord, error) {
	ordered := make([]model.TradeEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TradeTime.Before(ordered[j].TradeTime)
	})

	var lots []Lot
	var realized []RealizedRecord

	for _, ev := range ordered {
		switch ev.Direction {
		case model.DirectionBuy:
			lots = append(lots, openLot(ev))
		case model.DirectionSell:
			consumed, remaining, err := consumeFIFO(lots, ev)
			if err != nil {
				return nil, nil, err
			}
			lots = remaining
			realized = append(realized, consumed...)
		case model.DirectionDividend:
			realized = append(realized, RealizedRecord{
				EventID:   ev.ID,
				StockCode: ev.StockCode,
				SettledAt: ev.TradeTime,
				Quantity:  decimal.Zero,
				Amount:    ev.GrossAmount().Sub(ev.Charges()),
			})
		default:
			return nil, nil, fmt.Errorf("%w: event %s has direction %q",
				apperrors.ErrComputationError, ev.ID, ev.Direction)
		}
	}

	return lots, realized, nil
}

// openLot builds the lot a buy event creates. The acquisition charges are
// spread across the bought quantity: unit cost = (gross + fee + tax) / qty.
func openLot(ev model.TradeEvent) Lot {
	unitCost := ev.GrossAmount().Add(ev.Charges()).Div(ev.Quantity)
	return Lot{
		StockCode: ev.StockCode,
		EventID:   ev.ID,
		OpenedAt:  ev.TradeTime,
		Remaining: ev.Quantity,
		UnitCost:  unitCost,
	}
}

// consumeFIFO walks the open lots oldest-first and consumes ev.Quantity,
// emitting one realized record per lot touched. The sell's charges are
// prorated over the sold quantity, so each record carries exactly its share
// and the charges are never double-counted.
func consumeFIFO(lots []Lot, ev model.TradeEvent) ([]RealizedRecord, []Lot, error) {
	available := decimal.Zero
	for _, lot := range lots {
		available = available.Add(lot.Remaining)
	}
	if ev.Quantity.GreaterThan(available) {
		return nil, nil, &InsufficientPositionError{
			EventID:   ev.ID,
			StockCode: ev.StockCode,
			Requested: ev.Quantity,
			Available: available,
		}
	}

	var records []RealizedRecord
	toSell := ev.Quantity

	remaining := make([]Lot, 0, len(lots))
	for _, lot := range lots {
		if toSell.IsZero() {
			remaining = append(remaining, lot)
			continue
		}

		take := decimal.Min(lot.Remaining, toSell)
		chargeShare := ev.Charges().Mul(take).Div(ev.Quantity)
		records = append(records, RealizedRecord{
			EventID:   ev.ID,
			StockCode: ev.StockCode,
			SettledAt: ev.TradeTime,
			Quantity:  take,
			Amount:    ev.UnitPrice.Sub(lot.UnitCost).Mul(take).Sub(chargeShare),
		})

		lot.Remaining = lot.Remaining.Sub(take)
		toSell = toSell.Sub(take)
		if lot.Remaining.IsPositive() {
			remaining = append(remaining, lot)
		}
	}

	return records, remaining, nil
}

// Position is the derived holding for one stock: total remaining quantity
// and the quantity-weighted average of the lot cost bases. It is recomputed
// on demand and never stored.
type Position struct {
	StockCode string
	Quantity  decimal.Decimal
	AvgCost   decimal.Decimal
}

// PositionFromLots collapses open lots into the derived position.
func PositionFromLots(lots []Lot) Position {
	pos := Position{Quantity: decimal.Zero, AvgCost: decimal.Zero}
	cost := decimal.Zero
	for _, lot := range lots {
		pos.StockCode = lot.StockCode
		pos.Quantity = pos.Quantity.Add(lot.Remaining)
		cost = cost.Add(lot.Remaining.Mul(lot.UnitCost))
	}
	if pos.Quantity.IsPositive() {
		pos.AvgCost = cost.Div(pos.Quantity)
	}
	return pos
}
