package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cuixiaoyuan/fundflow/internal/accounting"
	"github.com/cuixiaoyuan/fundflow/internal/api/request"
	"github.com/cuixiaoyuan/fundflow/internal/model"
	"github.com/cuixiaoyuan/fundflow/internal/repository"
	"github.com/cuixiaoyuan/fundflow/internal/validation"
)

// LedgerService handles the append-only trade event ledger. Writes for one
// user are serialized through a keyed mutex so the availability check and
// the insert see a consistent ledger; reads take no lock.
type LedgerService struct {
	tradeRepo *repository.TradeRepository
	locks     keyedMutex
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(tradeRepo *repository.TradeRepository) *LedgerService {
	return &LedgerService{tradeRepo: tradeRepo}
}

// RecordTrade validates and appends one event. A sell that would consume
// more than the open lots hold is rejected with an
// accounting.InsufficientPositionError before anything is stored.
func (s *LedgerService) RecordTrade(userID string, req request.CreateTradeRequest) (model.TradeEvent, error) {
	if err := validation.ValidateCreateTrade(req); err != nil {
		return model.TradeEvent{}, err
	}

	stockCode, err := validation.NormalizeSymbol(req.StockCode)
	if err != nil {
		return model.TradeEvent{}, err
	}
	tradeTime, err := validation.ParseTradeTime(req.TradeTime)
	if err != nil {
		return model.TradeEvent{}, err
	}

	event := model.TradeEvent{
		ID:        uuid.New().String(),
		UserID:    userID,
		StockCode: stockCode,
		Direction: model.Direction(req.Direction),
		Quantity:  decimal.NewFromFloat(req.Quantity),
		UnitPrice: decimal.NewFromFloat(req.UnitPrice),
		Fee:       decimal.NewFromFloat(req.Fee),
		StampTax:  decimal.NewFromFloat(req.StampTax),
		TradeTime: tradeTime.UTC(),
		CreatedAt: time.Now().UTC(),
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	// Replay the stock's history with the new event included. Apply is
	// pure, so a rejected event leaves the stored ledger untouched.
	history, err := s.tradeRepo.GetTradeEventsForStock(userID, stockCode)
	if err != nil {
		return model.TradeEvent{}, err
	}
	if _, _, err := accounting.Apply(append(history, event)); err != nil {
		return model.TradeEvent{}, err
	}

	if err := s.tradeRepo.InsertTradeEvent(event); err != nil {
		return model.TradeEvent{}, err
	}

	return event, nil
}

// ListTrades returns a user's events in replay order, optionally filtered
// to one stock.
func (s *LedgerService) ListTrades(userID, stockCode string) ([]model.TradeEvent, error) {
	if stockCode == "" {
		return s.tradeRepo.GetTradeEvents(userID)
	}

	normalized, err := validation.NormalizeSymbol(stockCode)
	if err != nil {
		return nil, err
	}
	return s.tradeRepo.GetTradeEventsForStock(userID, normalized)
}

// GetTrade returns one event scoped to its owner.
func (s *LedgerService) GetTrade(userID, eventID string) (model.TradeEvent, error) {
	if err := validation.ValidateUUID(eventID); err != nil {
		return model.TradeEvent{}, err
	}
	return s.tradeRepo.GetTradeEventOnID(userID, eventID)
}

// keyedMutex hands out one mutex per key. Entries are never reaped; the
// population is bounded by the number of users that have ever written.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
