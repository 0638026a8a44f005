package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/model"
)

// maxFlowRows caps a single query so an unbounded date range cannot drag
// the whole retained history through one response.
const maxFlowRows = 1000

// FundFlowRepository provides data access methods for the fund_flow_daily table.
type FundFlowRepository struct {
	db *sql.DB
}

// NewFundFlowRepository creates a new FundFlowRepository with the provided database connection.
func NewFundFlowRepository(db *sql.DB) *FundFlowRepository {
	return &FundFlowRepository{db: db}
}

const fundFlowColumns = `code, exchange, date, close, pct_change, main_net, main_pct, xl_net, xl_pct, l_net, l_pct, m_net, m_pct, s_net, s_pct, name`

// UpsertDaily inserts or replaces daily snapshots in one transaction.
// Re-running the capture job for a date it already stored is a no-op
// beyond refreshing the values.
func (r *FundFlowRepository) UpsertDaily(records []model.FundFlowDaily) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin fund flow transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
          INSERT INTO fund_flow_daily (` + fundFlowColumns + `)
          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
          ON CONFLICT(code, exchange, date) DO UPDATE SET
              close = excluded.close,
              pct_change = excluded.pct_change,
              main_net = excluded.main_net,
              main_pct = excluded.main_pct,
              xl_net = excluded.xl_net,
              xl_pct = excluded.xl_pct,
              l_net = excluded.l_net,
              l_pct = excluded.l_pct,
              m_net = excluded.m_net,
              m_pct = excluded.m_pct,
              s_net = excluded.s_net,
              s_pct = excluded.s_pct,
              name = excluded.name
      `

	for _, rec := range records {
		_, err := tx.Exec(query,
			rec.Code,
			rec.Exchange,
			rec.Date.Format("2006-01-02"),
			rec.Close,
			rec.PctChange,
			rec.MainNet,
			rec.MainPct,
			rec.SuperLargeNet,
			rec.SuperLargePct,
			rec.LargeNet,
			rec.LargePct,
			rec.MediumNet,
			rec.MediumPct,
			rec.SmallNet,
			rec.SmallPct,
			nullable(rec.Name),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert fund flow row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit fund flow transaction: %w", err)
	}

	return nil
}

// GetDaily retrieves stored snapshots for one stock, newest first. Zero
// start/end leave that bound open. A non-positive or oversized limit
// falls back to maxFlowRows.
func (r *FundFlowRepository) GetDaily(code, exchange string, start, end time.Time, limit int) ([]model.FundFlowDaily, error) {
	query := `
          SELECT ` + fundFlowColumns + `
          FROM fund_flow_daily
          WHERE code = ? AND exchange = ?
      `
	args := []any{code, exchange}

	if !start.IsZero() {
		query += " AND date >= ?"
		args = append(args, start.Format("2006-01-02"))
	}
	if !end.IsZero() {
		query += " AND date <= ?"
		args = append(args, end.Format("2006-01-02"))
	}

	if limit <= 0 || limit > maxFlowRows {
		limit = maxFlowRows
	}
	query += " ORDER BY date DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_flow_daily table: %w", err)
	}
	defer rows.Close()

	records := []model.FundFlowDaily{}

	for rows.Next() {
		rec, err := scanFlowRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_flow_daily table: %w", err)
	}

	return records, nil
}

// GetLatest retrieves the most recent stored snapshot for one stock.
func (r *FundFlowRepository) GetLatest(code, exchange string) (model.FundFlowDaily, error) {
	records, err := r.GetDaily(code, exchange, time.Time{}, time.Time{}, 1)
	if err != nil {
		return model.FundFlowDaily{}, err
	}
	if len(records) == 0 {
		return model.FundFlowDaily{}, apperrors.ErrFlowRecordNotFound
	}
	return records[0], nil
}

// PurgeOlderThan deletes snapshots dated strictly before the cutoff and
// returns how many rows went.
func (r *FundFlowRepository) PurgeOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM fund_flow_daily WHERE date < ?`, cutoff.Format("2006-01-02"))
	if err != nil {
		return 0, fmt.Errorf("failed to purge fund_flow_daily table: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected, nil
}

func scanFlowRow(rows *sql.Rows) (model.FundFlowDaily, error) {
	var rec model.FundFlowDaily
	var date string
	var name sql.NullString

	err := rows.Scan(
		&rec.Code,
		&rec.Exchange,
		&date,
		&rec.Close,
		&rec.PctChange,
		&rec.MainNet,
		&rec.MainPct,
		&rec.SuperLargeNet,
		&rec.SuperLargePct,
		&rec.LargeNet,
		&rec.LargePct,
		&rec.MediumNet,
		&rec.MediumPct,
		&rec.SmallNet,
		&rec.SmallPct,
		&name,
	)
	if err != nil {
		return model.FundFlowDaily{}, fmt.Errorf("failed to scan fund_flow_daily table results: %w", err)
	}

	rec.Name = name.String

	if rec.Date, err = ParseTime(date); err != nil {
		return model.FundFlowDaily{}, fmt.Errorf("failed to parse fund flow date: %w", err)
	}

	return rec, nil
}
