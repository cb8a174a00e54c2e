package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/housesplit/internal/calculator"
	"github.com/mmynk/housesplit/internal/metrics"
	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/storage"
)

// LedgerService processes the ledger of one house.
type LedgerService struct {
	source  storage.Source
	workers int
	metrics *metrics.Recorder
}

// Result is a fully processed ledger.
type Result struct {
	House     models.House
	Steps     []calculator.Step
	Totals    models.Dues
	Transfers []calculator.Transfer
}

// NewLedgerService creates a LedgerService reading from source. With more
// than one worker, entries are allocated concurrently. recorder may be nil.
func NewLedgerService(source storage.Source, workers int, recorder *metrics.Recorder) *LedgerService {
	return &LedgerService{source: source, workers: workers, metrics: recorder}
}

// Run loads the house and its ledger, allocates every entry and suggests
// the transfers that settle the final balances. Any error aborts the run.
func (s *LedgerService) Run(ctx context.Context) (*Result, error) {
	result, err := s.run(ctx)
	if err != nil {
		slog.Error("Ledger run failed", "error", err, "class", metrics.Classify(err))
		if s.metrics != nil {
			s.metrics.ObserveFailure(err)
		}
		return nil, err
	}
	return result, nil
}

func (s *LedgerService) run(ctx context.Context) (*Result, error) {
	house, err := s.source.House(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load house: %w", err)
	}
	entries, err := s.source.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	slog.Info("Ledger loaded",
		"house", house.Name,
		"people", len(house.People),
		"entries", len(entries),
	)

	start := time.Now()
	var steps []calculator.Step
	if s.workers > 1 {
		slog.Debug("Allocating entries concurrently", "workers", s.workers)
		steps, err = calculator.RunLedgerConcurrently(ctx, house, entries, s.workers)
	} else {
		steps, err = calculator.RunLedger(house, entries)
	}
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	totals := calculator.Totals(steps)
	transfers := calculator.Settle(totals)

	if s.metrics != nil {
		for _, step := range steps {
			s.metrics.ObserveEntry(step.Entry.Kind())
		}
		s.metrics.SetBalances(house.Name, totals)
		s.metrics.ObserveRun(elapsed)
	}

	slog.Info("Ledger processed",
		"house", house.Name,
		"participants", len(totals),
		"transfers", len(transfers),
		"duration_ms", elapsed.Milliseconds(),
	)

	return &Result{
		House:     house,
		Steps:     steps,
		Totals:    totals,
		Transfers: transfers,
	}, nil
}
