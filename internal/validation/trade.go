package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/cuixiaoyuan/fundflow/internal/api/request"
	"github.com/cuixiaoyuan/fundflow/internal/model"
)

// Timestamp formats accepted for trade events, tried in order.
var tradeTimeFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ValidateCreateTrade validates a trade event submission before it reaches
// the ledger. Any failure here is an InvalidTradeEvent: the event is
// rejected before storage.
//
// Constraints:
//   - stockCode: normalizable to CODE.EXCHANGE
//   - direction: one of buy, sell, dividend
//   - quantity: > 0
//   - unitPrice: >= 0
//   - fee, stampTax: >= 0
//   - tradeTime: RFC3339, "2006-01-02 15:04:05" or "2006-01-02"
//
// Returns a field-keyed *Error if validation fails.
func ValidateCreateTrade(req request.CreateTradeRequest) error {
	errors := make(map[string]string)

	if _, err := NormalizeSymbol(req.StockCode); err != nil {
		errors["stockCode"] = fmt.Sprintf("invalid stock code: %s", req.StockCode)
	}

	if strings.TrimSpace(req.Direction) == "" {
		errors["direction"] = "direction is required"
	} else if !model.Direction(req.Direction).Valid() {
		errors["direction"] = fmt.Sprintf("invalid direction: %s", req.Direction)
	}

	if req.Quantity <= 0 {
		errors["quantity"] = "quantity must be positive"
	}
	if req.UnitPrice < 0 {
		errors["unitPrice"] = "unitPrice must not be negative"
	}
	if req.Fee < 0 {
		errors["fee"] = "fee must not be negative"
	}
	if req.StampTax < 0 {
		errors["stampTax"] = "stampTax must not be negative"
	}

	if _, err := ParseTradeTime(req.TradeTime); err != nil {
		errors["tradeTime"] = err.Error()
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ParseTradeTime parses a trade timestamp in any accepted format.
func ParseTradeTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("tradeTime is required")
	}
	for _, format := range tradeTimeFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized tradeTime: %s", value)
}
