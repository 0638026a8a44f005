package service

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cuixiaoyuan/fundflow/internal/auth"
	"github.com/cuixiaoyuan/fundflow/internal/model"
	"github.com/cuixiaoyuan/fundflow/internal/repository"
	"github.com/cuixiaoyuan/fundflow/internal/rss"
)

// FlowProvider is the market data source used by feed building.
// Implemented by eastmoney.Client; tests substitute a stub.
type FlowProvider interface {
	QuoteProvider
	LatestMinuteFlow(ctx context.Context, symbol string) (*model.MinuteFlow, error)
}

// FeedService renders per-user RSS feeds of watchlist fund flow.
type FeedService struct {
	userRepo      *repository.UserRepository
	watchlistRepo *repository.WatchlistRepository
	reports       *ReportService
	market        FlowProvider
	prefix        string
	now           func() time.Time
}

// NewFeedService creates a new FeedService. prefix is the feed URL prefix
// policy: the literal "username" matches each user's own name, any other
// value is enforced verbatim.
func NewFeedService(
	userRepo *repository.UserRepository,
	watchlistRepo *repository.WatchlistRepository,
	reports *ReportService,
	market FlowProvider,
	prefix string,
) *FeedService {
	return &FeedService{
		userRepo:      userRepo,
		watchlistRepo: watchlistRepo,
		reports:       reports,
		market:        market,
		prefix:        prefix,
		now:           time.Now,
	}
}

// ResolveToken finds the user owning a feed token, matching the stored
// plain token or its sha256 hash.
func (s *FeedService) ResolveToken(token string) (model.User, error) {
	return s.userRepo.GetUserByRSSToken(token, auth.HashRSSToken(token))
}

// PrefixAllowed reports whether a feed URL prefix is valid for the user.
func (s *FeedService) PrefixAllowed(prefix string, user model.User) bool {
	if s.prefix == "username" {
		return prefix == user.Username
	}
	return prefix == s.prefix
}

// BuildFeed renders the RSS document for one user's watchlist. Stocks
// whose minute flow cannot be fetched are skipped; quote and position
// annotations degrade per stock.
func (s *FeedService) BuildFeed(ctx context.Context, user model.User) ([]byte, error) {
	items, err := s.watchlistRepo.GetWatchlist(user.ID)
	if err != nil {
		return nil, err
	}

	type marketData struct {
		flow  *model.MinuteFlow
		quote *model.Quote
	}

	var mu sync.Mutex
	data := make(map[string]marketData, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxQuoteFetches)

	for _, item := range items {
		g.Go(func() error {
			flow, err := s.market.LatestMinuteFlow(gctx, item.Symbol)
			if err != nil {
				log.Printf("feed: minute flow fetch failed for %s: %v", item.Symbol, err)
				return nil
			}
			quote, err := s.market.GetQuote(gctx, item.Symbol)
			if err != nil {
				log.Printf("feed: quote fetch failed for %s: %v", item.Symbol, err)
				quote = nil
			}
			mu.Lock()
			data[item.Symbol] = marketData{flow: flow, quote: quote}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	now := s.now()
	feed := rss.NewFeed(user.Username, now)

	for _, item := range items {
		md, ok := data[item.Symbol]
		if !ok || md.flow == nil {
			continue
		}
		position := s.reports.PositionFor(ctx, user.ID, item.Symbol, md.quote)
		feed.Append(rss.FlowItem(item.Name, item.Symbol, *md.flow, md.quote, position, now))
	}

	return feed.Marshal()
}
