package service

import (
	"github.com/google/uuid"

	"github.com/cuixiaoyuan/fundflow/internal/model"
	"github.com/cuixiaoyuan/fundflow/internal/repository"
	"github.com/cuixiaoyuan/fundflow/internal/validation"
)

// WatchlistService handles watchlist reads and the replace-all save.
type WatchlistService struct {
	watchlistRepo *repository.WatchlistRepository
}

// NewWatchlistService creates a new WatchlistService.
func NewWatchlistService(watchlistRepo *repository.WatchlistRepository) *WatchlistService {
	return &WatchlistService{watchlistRepo: watchlistRepo}
}

// GetWatchlist returns a user's watchlist in insertion order.
func (s *WatchlistService) GetWatchlist(userID string) ([]model.WatchItem, error) {
	return s.watchlistRepo.GetWatchlist(userID)
}

// ReplaceWatchlist validates and saves a full watchlist. Saving is
// all-or-nothing: one bad symbol rejects the whole submission so the user
// never ends up with a silently truncated list.
func (s *WatchlistService) ReplaceWatchlist(userID string, entries []validation.WatchEntry) ([]model.WatchItem, error) {
	items := make([]model.WatchItem, 0, len(entries))
	for _, entry := range entries {
		symbol, err := validation.NormalizeSymbol(entry.Symbol)
		if err != nil {
			return nil, err
		}
		name := entry.Name
		if name == "" {
			name = symbol
		}
		items = append(items, model.WatchItem{
			ID:     uuid.New().String(),
			UserID: userID,
			Symbol: symbol,
			Name:   name,
		})
	}

	if err := s.watchlistRepo.ReplaceWatchlist(userID, items); err != nil {
		return nil, err
	}

	return items, nil
}

// ReplaceWatchlistText parses the line-oriented watchlist format
// ("Name=Symbol" or bare symbol per line) and saves it.
func (s *WatchlistService) ReplaceWatchlistText(userID, text string) ([]model.WatchItem, error) {
	entries, err := validation.ParseWatchlist(text)
	if err != nil {
		return nil, err
	}
	return s.ReplaceWatchlist(userID, entries)
}
