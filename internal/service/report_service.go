package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/cuixiaoyuan/fundflow/internal/accounting"
	"github.com/cuixiaoyuan/fundflow/internal/model"
	"github.com/cuixiaoyuan/fundflow/internal/repository"
)

// maxQuoteFetches bounds concurrent calls against the quote provider.
const maxQuoteFetches = 8

// QuoteProvider is the market snapshot source used by report building.
// Implemented by eastmoney.Client; tests substitute a stub.
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (*model.Quote, error)
}

// ReportOptions are the caller-supplied report parameters.
type ReportOptions struct {
	// Top keeps only the n largest holdings by absolute market value.
	// Zero means all.
	Top int
	// PeriodStart bounds the period realized total. Zero means all history.
	PeriodStart time.Time
	// InitialProfit is a carried-forward realized baseline. It is a
	// portfolio-level figure: added exactly once to the summary's period
	// realized total, never to individual position lines.
	InitialProfit decimal.Decimal
}

// Report is one computed report batch.
type Report struct {
	Positions []model.PositionReportJSON `json:"positions"`
	Summary   model.ReportSummaryJSON    `json:"summary"`
	AsOf      string                     `json:"asOf"`
}

// ReportService computes position reports by replaying the ledger and
// marking open lots to market. Computation is request-scoped and pure;
// nothing is cached or stored.
type ReportService struct {
	tradeRepo     *repository.TradeRepository
	watchlistRepo *repository.WatchlistRepository
	quotes        QuoteProvider
	now           func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(
	tradeRepo *repository.TradeRepository,
	watchlistRepo *repository.WatchlistRepository,
	quotes QuoteProvider,
) *ReportService {
	return &ReportService{
		tradeRepo:     tradeRepo,
		watchlistRepo: watchlistRepo,
		quotes:        quotes,
		now:           time.Now,
	}
}

// BuildReport computes the full position report for a user. Stocks are
// isolated from each other: a quote failure degrades that line to
// price-unavailable, an accounting failure marks the line failed, and in
// both cases every other stock still reports normally.
func (s *ReportService) BuildReport(ctx context.Context, userID string, opts ReportOptions) (Report, error) {
	eventsByStock, err := s.tradeRepo.GetTradeEventsByStock(userID)
	if err != nil {
		return Report{}, err
	}

	names, err := s.watchlistNames(userID)
	if err != nil {
		return Report{}, err
	}

	quotes := s.fetchQuotes(ctx, stockCodes(eventsByStock))

	now := s.now()
	reports := make([]model.PositionReport, 0, len(eventsByStock))

	for stockCode, events := range eventsByStock {
		lots, realized, err := accounting.Apply(events)
		if err != nil {
			log.Printf("report: replay failed for %s: %v", stockCode, err)
			reports = append(reports, model.PositionReport{
				Symbol:     stockCode,
				Name:       names[stockCode],
				Failed:     true,
				FailReason: err.Error(),
			})
			continue
		}

		report := accounting.Aggregate(lots, realized, quotes[stockCode], opts.PeriodStart, now)
		if report.Symbol == "" {
			report.Symbol = stockCode
		}
		if report.Name == "" {
			report.Name = names[stockCode]
		}
		reports = append(reports, report)
	}

	ranked := accounting.TopN(reports, opts.Top)
	summary := accounting.Summarize(reports)
	// The baseline is a portfolio-level carry: counted once in the summary,
	// regardless of how many holdings the report has.
	summary.PeriodRealized = summary.PeriodRealized.Add(opts.InitialProfit)

	out := Report{
		Positions: make([]model.PositionReportJSON, 0, len(ranked)),
		Summary:   summary.Rounded(),
		AsOf:      now.Format(time.RFC3339),
	}
	for _, r := range ranked {
		out.Positions = append(out.Positions, r.Rounded())
	}

	return out, nil
}

// PositionFor replays one stock's ledger and aggregates it, used by the
// feed to annotate held stocks. Returns nil when the user has no events
// for the stock or the replay fails.
func (s *ReportService) PositionFor(ctx context.Context, userID, stockCode string, quote *model.Quote) *model.PositionReport {
	events, err := s.tradeRepo.GetTradeEventsForStock(userID, stockCode)
	if err != nil || len(events) == 0 {
		return nil
	}

	lots, realized, err := accounting.Apply(events)
	if err != nil {
		log.Printf("report: replay failed for %s: %v", stockCode, err)
		return nil
	}

	report := accounting.Aggregate(lots, realized, quote, time.Time{}, s.now())
	return &report
}

// fetchQuotes retrieves market snapshots for all symbols concurrently.
// Failures are logged and the symbol is simply absent from the result;
// the caller degrades those lines instead of failing the report.
func (s *ReportService) fetchQuotes(ctx context.Context, symbols []string) map[string]*model.Quote {
	var mu sync.Mutex
	quotes := make(map[string]*model.Quote, len(symbols))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxQuoteFetches)

	for _, symbol := range symbols {
		g.Go(func() error {
			quote, err := s.quotes.GetQuote(ctx, symbol)
			if err != nil {
				log.Printf("report: quote fetch failed for %s: %v", symbol, err)
				return nil
			}
			mu.Lock()
			quotes[symbol] = quote
			mu.Unlock()
			return nil
		})
	}

	// Errors never propagate out of the group; the wait is just a barrier.
	_ = g.Wait()

	return quotes
}

func (s *ReportService) watchlistNames(userID string) (map[string]string, error) {
	items, err := s.watchlistRepo.GetWatchlist(userID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(items))
	for _, item := range items {
		names[item.Symbol] = item.Name
	}
	return names, nil
}

func stockCodes(eventsByStock map[string][]model.TradeEvent) []string {
	codes := make([]string, 0, len(eventsByStock))
	for code := range eventsByStock {
		codes = append(codes, code)
	}
	return codes
}
