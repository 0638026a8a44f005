package validation

import (
	"fmt"
	"strings"

	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
)

// Exchange inference by code prefix. Anything that is neither a known
// Shenzhen nor Beijing prefix defaults to Shanghai, matching the behavior
// users expect from quote sites.
var (
	shPrefixes = []string{"600", "601", "603", "605", "688"}
	szPrefixes = []string{"000", "001", "002", "003", "300", "301"}
	bjPrefixes = []string{"430", "830", "831", "833", "835", "836", "838", "839", "870", "871", "872"}
)

// NormalizeSymbol canonicalizes user stock-code input to CODE.EXCHANGE.
// Accepted forms: "600519.SH", "sh600519", bare 6-digit "600519" (exchange
// inferred from the code prefix). Anything else fails with
// apperrors.ErrStockCodeInvalid.
func NormalizeSymbol(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", fmt.Errorf("%w: empty symbol", apperrors.ErrStockCodeInvalid)
	}

	if code, exch, ok := strings.Cut(s, "."); ok {
		if !isSixDigit(code) || !validExchange(exch) {
			return "", fmt.Errorf("%w: %s", apperrors.ErrStockCodeInvalid, raw)
		}
		return code + "." + exch, nil
	}

	for _, prefix := range []string{"SH", "SZ", "BJ"} {
		if strings.HasPrefix(s, prefix) {
			code := s[len(prefix):]
			if !isSixDigit(code) {
				return "", fmt.Errorf("%w: %s", apperrors.ErrStockCodeInvalid, raw)
			}
			return code + "." + prefix, nil
		}
	}

	if !isSixDigit(s) {
		return "", fmt.Errorf("%w: %s", apperrors.ErrStockCodeInvalid, raw)
	}
	return s + "." + InferExchange(s), nil
}

// NormalizeCode reduces any accepted symbol form to the bare 6-digit code,
// used for fund-flow queries keyed on code.
func NormalizeCode(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", fmt.Errorf("%w: empty code", apperrors.ErrStockCodeInvalid)
	}
	if code, _, ok := strings.Cut(s, "."); ok {
		s = code
	}
	for _, prefix := range []string{"SH", "SZ", "BJ"} {
		s = strings.TrimPrefix(s, prefix)
	}
	if len(s) > 6 {
		s = s[len(s)-6:]
	}
	if !isSixDigit(s) {
		return "", fmt.Errorf("%w: %s", apperrors.ErrStockCodeInvalid, raw)
	}
	return s, nil
}

// InferExchange maps a bare 6-digit code to its exchange by prefix.
func InferExchange(code string) string {
	for _, p := range szPrefixes {
		if strings.HasPrefix(code, p) {
			return "SZ"
		}
	}
	for _, p := range bjPrefixes {
		if strings.HasPrefix(code, p) {
			return "BJ"
		}
	}
	for _, p := range shPrefixes {
		if strings.HasPrefix(code, p) {
			return "SH"
		}
	}
	return "SH"
}

// WatchEntry is one parsed watchlist line.
type WatchEntry struct {
	Name   string
	Symbol string
}

// ParseWatchlist parses the watchlist text format: one entry per line,
// either "Name=Symbol" or a bare symbol (name defaults to the normalized
// symbol). Blank lines are skipped; a bad symbol fails the whole parse so
// the user can fix the input.
func ParseWatchlist(text string) ([]WatchEntry, error) {
	var entries []WatchEntry
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name, rawSymbol, ok := strings.Cut(line, "=")
		if !ok {
			rawSymbol = line
			name = ""
		}
		symbol, err := NormalizeSymbol(rawSymbol)
		if err != nil {
			return nil, err
		}
		if name = strings.TrimSpace(name); name == "" {
			name = symbol
		}
		entries = append(entries, WatchEntry{Name: name, Symbol: symbol})
	}
	return entries, nil
}

func isSixDigit(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func validExchange(exch string) bool {
	switch exch {
	case "SH", "SZ", "BJ":
		return true
	}
	return false
}
