package repository

import (
	"database/sql"
	"fmt"

	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/model"
)

// TradeRepository provides data access methods for the append-only
// trade_event table. Events are only ever inserted; read order is
// trade_time, then created_at, then rowid so replays are deterministic.
type TradeRepository struct {
	db *sql.DB
}

// NewTradeRepository creates a new TradeRepository with the provided database connection.
func NewTradeRepository(db *sql.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

const tradeEventColumns = `id, user_id, stock_code, direction, quantity, unit_price, fee, stamp_tax, trade_time, created_at`

// InsertTradeEvent appends one event to the ledger.
func (r *TradeRepository) InsertTradeEvent(event model.TradeEvent) error {
	query := `
          INSERT INTO trade_event (` + tradeEventColumns + `)
          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
      `

	_, err := r.db.Exec(query,
		event.ID,
		event.UserID,
		event.StockCode,
		string(event.Direction),
		event.Quantity.String(),
		event.UnitPrice.String(),
		event.Fee.String(),
		event.StampTax.String(),
		event.TradeTime.UTC().Format("2006-01-02 15:04:05"),
		event.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade event: %w", err)
	}

	return nil
}

// GetTradeEvents retrieves every event for a user in replay order.
func (r *TradeRepository) GetTradeEvents(userID string) ([]model.TradeEvent, error) {
	query := `
          SELECT ` + tradeEventColumns + `
          FROM trade_event
          WHERE user_id = ?
          ORDER BY trade_time, created_at, rowid
      `
	return r.queryEvents(query, userID)
}

// GetTradeEventsForStock retrieves a user's events for one stock in replay order.
func (r *TradeRepository) GetTradeEventsForStock(userID, stockCode string) ([]model.TradeEvent, error) {
	query := `
          SELECT ` + tradeEventColumns + `
          FROM trade_event
          WHERE user_id = ? AND stock_code = ?
          ORDER BY trade_time, created_at, rowid
      `
	return r.queryEvents(query, userID, stockCode)
}

// GetTradeEventsByStock retrieves a user's events grouped per stock code,
// each group in replay order. Report building consumes this so the ledger
// is read once per request regardless of position count.
func (r *TradeRepository) GetTradeEventsByStock(userID string) (map[string][]model.TradeEvent, error) {
	events, err := r.GetTradeEvents(userID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]model.TradeEvent)
	for _, event := range events {
		grouped[event.StockCode] = append(grouped[event.StockCode], event)
	}

	return grouped, nil
}

// GetTradeEventOnID retrieves a single event by ID, scoped to its owner.
func (r *TradeRepository) GetTradeEventOnID(userID, eventID string) (model.TradeEvent, error) {
	query := `
          SELECT ` + tradeEventColumns + `
          FROM trade_event
          WHERE user_id = ? AND id = ?
      `

	events, err := r.queryEvents(query, userID, eventID)
	if err != nil {
		return model.TradeEvent{}, err
	}
	if len(events) == 0 {
		return model.TradeEvent{}, apperrors.ErrTradeEventNotFound
	}

	return events[0], nil
}

func (r *TradeRepository) queryEvents(query string, args ...any) ([]model.TradeEvent, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade_event table: %w", err)
	}
	defer rows.Close()

	events := []model.TradeEvent{}

	for rows.Next() {
		var e model.TradeEvent
		var direction, quantity, unitPrice, fee, stampTax string
		var tradeTime, createdAt string

		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.StockCode,
			&direction,
			&quantity,
			&unitPrice,
			&fee,
			&stampTax,
			&tradeTime,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade_event table results: %w", err)
		}

		e.Direction = model.Direction(direction)

		if e.Quantity, err = ParseDecimal(quantity); err != nil {
			return nil, fmt.Errorf("failed to parse trade event quantity: %w", err)
		}
		if e.UnitPrice, err = ParseDecimal(unitPrice); err != nil {
			return nil, fmt.Errorf("failed to parse trade event unit price: %w", err)
		}
		if e.Fee, err = ParseDecimal(fee); err != nil {
			return nil, fmt.Errorf("failed to parse trade event fee: %w", err)
		}
		if e.StampTax, err = ParseDecimal(stampTax); err != nil {
			return nil, fmt.Errorf("failed to parse trade event stamp tax: %w", err)
		}
		if e.TradeTime, err = ParseTime(tradeTime); err != nil {
			return nil, fmt.Errorf("failed to parse trade event time: %w", err)
		}
		if e.CreatedAt, err = ParseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse trade event created_at: %w", err)
		}

		events = append(events, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade_event table: %w", err)
	}

	return events, nil
}
