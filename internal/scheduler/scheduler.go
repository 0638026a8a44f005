// Package scheduler runs the background cron jobs: the weekday post-close
// capture of daily fund-flow rows for every watchlisted stock, and the
// nightly retention purge.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cuixiaoyuan/fundflow/internal/config"
	"github.com/cuixiaoyuan/fundflow/internal/model"
	"github.com/cuixiaoyuan/fundflow/internal/repository"
)

// captureDays is how many trailing daily rows each capture pulls. Covers
// holidays and missed runs without refetching the whole history.
const captureDays = 10

// HistoryProvider supplies daily fund-flow history for one symbol.
// Implemented by eastmoney.Client.
type HistoryProvider interface {
	DailyFlow(ctx context.Context, symbol string, limit int) ([]model.FundFlowDaily, error)
}

// Scheduler owns the cron runner and its jobs.
type Scheduler struct {
	cron          *cron.Cron
	cfg           config.SchedulerConfig
	watchlistRepo *repository.WatchlistRepository
	flowRepo      *repository.FundFlowRepository
	market        HistoryProvider
}

// New creates a Scheduler with jobs registered but not started.
func New(
	cfg config.SchedulerConfig,
	watchlistRepo *repository.WatchlistRepository,
	flowRepo *repository.FundFlowRepository,
	market HistoryProvider,
) (*Scheduler, error) {
	s := &Scheduler{
		cron:          cron.New(),
		cfg:           cfg,
		watchlistRepo: watchlistRepo,
		flowRepo:      flowRepo,
		market:        market,
	}

	if _, err := s.cron.AddFunc(cfg.CaptureSpec, s.runCapture); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(cfg.PurgeSpec, s.runPurge); err != nil {
		return nil, err
	}

	return s, nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("scheduler started (capture %q, purge %q)", s.cfg.CaptureSpec, s.cfg.PurgeSpec)
}

// Stop stops the runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// runCapture stores recent daily flow rows for every watchlisted symbol.
// Symbols fail independently; one provider error does not stop the sweep.
func (s *Scheduler) runCapture() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	symbols, err := s.watchlistRepo.GetAllSymbols()
	if err != nil {
		log.Printf("capture: failed to list symbols: %v", err)
		return
	}

	var stored int
	for _, symbol := range symbols {
		records, err := s.market.DailyFlow(ctx, symbol, captureDays)
		if err != nil {
			log.Printf("capture: daily flow fetch failed for %s: %v", symbol, err)
			continue
		}
		if err := s.flowRepo.UpsertDaily(records); err != nil {
			log.Printf("capture: store failed for %s: %v", symbol, err)
			continue
		}
		stored += len(records)
	}

	log.Printf("capture: stored %d rows for %d symbols", stored, len(symbols))
}

// runPurge deletes snapshots older than the retention window.
func (s *Scheduler) runPurge() {
	if s.cfg.RetentionDays <= 0 {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	purged, err := s.flowRepo.PurgeOlderThan(cutoff)
	if err != nil {
		log.Printf("purge: %v", err)
		return
	}

	log.Printf("purge: removed %d rows older than %s", purged, cutoff.Format("2006-01-02"))
}
