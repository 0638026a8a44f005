package repository

import (
	"database/sql"
	"fmt"

	"github.com/cuixiaoyuan/fundflow/internal/model"
)

// WatchlistRepository provides data access methods for the watchlist table.
type WatchlistRepository struct {
	db *sql.DB
}

// NewWatchlistRepository creates a new WatchlistRepository with the provided database connection.
func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// GetWatchlist retrieves a user's watchlist in insertion order.
// Returns an empty slice when the user watches nothing.
func (r *WatchlistRepository) GetWatchlist(userID string) ([]model.WatchItem, error) {
	query := `
          SELECT id, user_id, symbol, name
          FROM watchlist
          WHERE user_id = ?
          ORDER BY rowid
      `

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist table: %w", err)
	}
	defer rows.Close()

	items := []model.WatchItem{}

	for rows.Next() {
		var item model.WatchItem
		var name sql.NullString

		if err := rows.Scan(&item.ID, &item.UserID, &item.Symbol, &name); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist table results: %w", err)
		}

		item.Name = name.String
		if item.Name == "" {
			item.Name = item.Symbol
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist table: %w", err)
	}

	return items, nil
}

// ReplaceWatchlist atomically swaps a user's watchlist for the given items.
// The whole replacement runs in one transaction so a failed save never
// leaves a half-written list behind.
func (r *WatchlistRepository) ReplaceWatchlist(userID string, items []model.WatchItem) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin watchlist transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM watchlist WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear watchlist: %w", err)
	}

	insert := `INSERT INTO watchlist (id, user_id, symbol, name) VALUES (?, ?, ?, ?)`
	for _, item := range items {
		if _, err := tx.Exec(insert, item.ID, userID, item.Symbol, nullable(item.Name)); err != nil {
			return fmt.Errorf("failed to insert watchlist item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit watchlist transaction: %w", err)
	}

	return nil
}

// GetAllSymbols returns the distinct set of symbols watched by any user,
// used by the daily fund-flow capture job.
func (r *WatchlistRepository) GetAllSymbols() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT symbol FROM watchlist ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist symbols: %w", err)
	}
	defer rows.Close()

	symbols := []string{}

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist symbols: %w", err)
	}

	return symbols, nil
}
