package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the goose migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
	    id VARCHAR(36) NOT NULL PRIMARY KEY,
	    username VARCHAR(100) NOT NULL UNIQUE,
	    password_hash TEXT NOT NULL,
	    rss_token TEXT UNIQUE,
	    rss_token_hash TEXT,
	    serverchan_send_key VARCHAR(255),
	    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS watchlist (
	    id VARCHAR(36) NOT NULL PRIMARY KEY,
	    user_id VARCHAR(36) NOT NULL,
	    symbol VARCHAR(12) NOT NULL,
	    name VARCHAR(100),
	    FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_watchlist_user ON watchlist(user_id);

	CREATE TABLE IF NOT EXISTS trade_event (
	    id VARCHAR(36) NOT NULL PRIMARY KEY,
	    user_id VARCHAR(36) NOT NULL,
	    stock_code VARCHAR(12) NOT NULL,
	    direction VARCHAR(10) NOT NULL,
	    quantity TEXT NOT NULL,
	    unit_price TEXT NOT NULL,
	    fee TEXT NOT NULL,
	    stamp_tax TEXT NOT NULL,
	    trade_time DATETIME NOT NULL,
	    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	    FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_trade_event_user_stock
	    ON trade_event(user_id, stock_code, trade_time);

	CREATE TABLE IF NOT EXISTS fund_flow_daily (
	    code VARCHAR(6) NOT NULL,
	    exchange VARCHAR(2) NOT NULL,
	    date DATE NOT NULL,
	    close FLOAT,
	    pct_change FLOAT,
	    main_net FLOAT,
	    main_pct FLOAT,
	    xl_net FLOAT,
	    xl_pct FLOAT,
	    l_net FLOAT,
	    l_pct FLOAT,
	    m_net FLOAT,
	    m_pct FLOAT,
	    s_net FLOAT,
	    s_pct FLOAT,
	    name VARCHAR(100),
	    PRIMARY KEY (code, exchange, date)
	);
	`

	_, err := db.Exec(schema)
	return err
}
