package testutil

import (
	"context"
	"sync"

	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/model"
)

// MockMarket is a canned market data source for tests. Symbols absent from
// the maps fail with ErrQuoteUnavailable, mirroring provider behavior.
// Safe for concurrent use; quote fetches run in parallel.
type MockMarket struct {
	Quotes map[string]*model.Quote
	Flows  map[string]*model.MinuteFlow
	Daily  map[string][]model.FundFlowDaily

	mu sync.Mutex
	// QuoteCalls records the symbols requested, in call order.
	QuoteCalls []string
}

// GetQuote returns the canned quote for a symbol.
func (m *MockMarket) GetQuote(_ context.Context, symbol string) (*model.Quote, error) {
	m.mu.Lock()
	m.QuoteCalls = append(m.QuoteCalls, symbol)
	m.mu.Unlock()
	if q, ok := m.Quotes[symbol]; ok {
		return q, nil
	}
	return nil, apperrors.ErrQuoteUnavailable
}

// LatestMinuteFlow returns the canned minute flow for a symbol.
func (m *MockMarket) LatestMinuteFlow(_ context.Context, symbol string) (*model.MinuteFlow, error) {
	if f, ok := m.Flows[symbol]; ok {
		return f, nil
	}
	return nil, apperrors.ErrQuoteUnavailable
}

// DailyFlow returns the canned daily history for a symbol.
func (m *MockMarket) DailyFlow(_ context.Context, symbol string, limit int) ([]model.FundFlowDaily, error) {
	records, ok := m.Daily[symbol]
	if !ok {
		return nil, apperrors.ErrQuoteUnavailable
	}
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}
