package usecase

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"FxScore/internal/domain/models"
	domrepo "FxScore/internal/domain/repository"
	domsvc "FxScore/internal/domain/service"
	applogger "FxScore/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// Recalculator runs a full pass: regime, weights, per-currency scores, ranked pair signals.
type Recalculator struct {
	regime  domsvc.RegimeDetector
	scorer  domsvc.CurrencyScorer
	signals domsvc.SignalGenerator
	metrics domrepo.Metrics
	l       *applogger.Logger
	workers int
	now     func() time.Time
}

type RecalculatorOption func(*Recalculator)

// WithWorkers bounds how many currencies are scored concurrently.
func WithWorkers(n int) RecalculatorOption {
	return func(r *Recalculator) {
		if n > 0 {
			r.workers = n
		}
	}
}

func WithRecalculatorLogger(l *applogger.Logger) RecalculatorOption {
	return func(r *Recalculator) { r.l = l }
}

func WithClock(now func() time.Time) RecalculatorOption {
	return func(r *Recalculator) { r.now = now }
}

func NewRecalculator(regime domsvc.RegimeDetector, scorer domsvc.CurrencyScorer, signals domsvc.SignalGenerator, metrics domrepo.Metrics, opts ...RecalculatorOption) *Recalculator {
	r := &Recalculator{
		regime:  regime,
		scorer:  scorer,
		signals: signals,
		metrics: metrics,
		l:       applogger.Nop(),
		workers: runtime.GOMAXPROCS(0),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recalculate scores snap. The returned result is freshly allocated and never mutated afterwards.
func (r *Recalculator) Recalculate(ctx context.Context, snap models.MarketSnapshot) (*models.ScoringResult, error) {
	start := time.Now()
	res, err := r.recalculate(ctx, snap)
	r.metrics.RecordLatency("recalculate", time.Since(start).Seconds())
	if err != nil {
		r.metrics.RecordError("recalculate")
		return nil, err
	}

	r.metrics.RecordRecalculation(string(res.Regime))
	for _, s := range res.Scores {
		r.metrics.RecordCurrencyScore(s.Currency, s.TotalScore)
	}
	r.l.Debug("recalculated",
		applogger.String("regime", string(res.Regime)),
		applogger.Int("currencies", len(res.Scores)),
		applogger.Int("signals", len(res.Signals)),
		applogger.Duration("elapsed_ms", time.Since(start)))
	return res, nil
}

func (r *Recalculator) recalculate(ctx context.Context, snap models.MarketSnapshot) (*models.ScoringResult, error) {
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("validate snapshot: %w", err)
	}

	regime, err := r.regime.DetectRegime(snap.Volatility, snap.CrossAsset, snap.CentralBankWeek)
	if err != nil {
		return nil, err
	}

	scores, err := r.scoreAll(ctx, snap, regime)
	if err != nil {
		return nil, err
	}

	return &models.ScoringResult{
		Regime:       regime,
		Weights:      r.regime.Weights(regime),
		Scores:       scores,
		Signals:      r.signals.PairSignals(scores),
		CalculatedAt: r.now().UTC(),
	}, nil
}

// scoreAll fans out one goroutine per currency; each writes only its own slot.
func (r *Recalculator) scoreAll(ctx context.Context, snap models.MarketSnapshot, regime models.MarketRegime) ([]models.CompositeCurrencyScore, error) {
	scores := make([]models.CompositeCurrencyScore, len(snap.Currencies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, in := range snap.Currencies {
		i, in := i, in
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := r.scorer.ScoreCurrency(in, snap.Volatility, snap.CrossAsset, regime)
			if err != nil {
				return fmt.Errorf("score %s: %w", in.Currency, err)
			}
			scores[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}
