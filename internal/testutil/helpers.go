package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/cuixiaoyuan/fundflow/internal/repository"
	"github.com/cuixiaoyuan/fundflow/internal/service"
)

// NewTestLedgerService wires a LedgerService against the test database.
func NewTestLedgerService(t *testing.T, db *sql.DB) *service.LedgerService {
	t.Helper()

	return service.NewLedgerService(repository.NewTradeRepository(db))
}

// NewTestWatchlistService wires a WatchlistService against the test database.
func NewTestWatchlistService(t *testing.T, db *sql.DB) *service.WatchlistService {
	t.Helper()

	return service.NewWatchlistService(repository.NewWatchlistRepository(db))
}

// NewTestReportService wires a ReportService with the given quote source.
func NewTestReportService(t *testing.T, db *sql.DB, quotes service.QuoteProvider) *service.ReportService {
	t.Helper()

	return service.NewReportService(
		repository.NewTradeRepository(db),
		repository.NewWatchlistRepository(db),
		quotes,
	)
}

// NewTestFundFlowService wires a FundFlowService against the test database.
func NewTestFundFlowService(t *testing.T, db *sql.DB) *service.FundFlowService {
	t.Helper()

	return service.NewFundFlowService(repository.NewFundFlowRepository(db))
}

// MakeID generates a UUID string for use in tests.
func MakeID() string {
	return uuid.New().String()
}

// MakeUsername generates a unique username for testing.
//
// Example usage:
//
//	name := testutil.MakeUsername("alice")
//	// Returns: "alice_a1b2c3"
func MakeUsername(base string) string {
	if base == "" {
		base = "user"
	}
	return base + "_" + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
