package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseTime parses a date string in "2006-01-02", RFC3339 or SQLite
// datetime format.
func ParseTime(str string) (time.Time, error) {
	for _, format := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(format, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date: %q", str)
}

// ParseDecimal parses a decimal column stored as TEXT. Amounts are stored
// textually so no binary float precision is lost round-tripping the ledger.
func ParseDecimal(str string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse decimal: %w", err)
	}
	return d, nil
}

// isUniqueViolation reports whether a driver error came from a UNIQUE
// constraint. Matched on message text since the sqlite driver does not
// export a typed constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
