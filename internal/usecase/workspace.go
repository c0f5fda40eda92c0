package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"FxScore/internal/domain/models"
	domrepo "FxScore/internal/domain/repository"
	applogger "FxScore/pkg/logger"
)

var (
	// ErrUnknownCurrency is returned when a lookup names a currency the workspace does not hold.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrEmptyPatch is returned by UpdateCurrency when the patch changes nothing.
	ErrEmptyPatch = fmt.Errorf("%w: empty currency patch", models.ErrInvalidInput)
)

// Workspace holds the current inputs and recalculates on every change. The
// new snapshot and result are stored only when recalculation succeeds.
type Workspace struct {
	mu          sync.Mutex
	store       domrepo.SnapshotStore
	calc        *Recalculator
	sinks       []domrepo.ResultSink
	metrics     domrepo.Metrics
	l           *applogger.Logger
	seed        bool
	sinkTimeout time.Duration
	topN        int
}

type WorkspaceOption func(*Workspace)

func WithSinks(sinks ...domrepo.ResultSink) WorkspaceOption {
	return func(w *Workspace) {
		for _, s := range sinks {
			if s != nil {
				w.sinks = append(w.sinks, s)
			}
		}
	}
}

// WithSeedDefaults makes an empty store start from DefaultSnapshot.
func WithSeedDefaults(seed bool) WorkspaceOption {
	return func(w *Workspace) { w.seed = seed }
}

func WithWorkspaceLogger(l *applogger.Logger) WorkspaceOption {
	return func(w *Workspace) { w.l = l }
}

func WithSinkTimeout(d time.Duration) WorkspaceOption {
	return func(w *Workspace) {
		if d > 0 {
			w.sinkTimeout = d
		}
	}
}

// WithTopSignals changes how many signals TopSignals returns when asked for none.
func WithTopSignals(n int) WorkspaceOption {
	return func(w *Workspace) {
		if n > 0 {
			w.topN = n
		}
	}
}

func NewWorkspace(store domrepo.SnapshotStore, calc *Recalculator, metrics domrepo.Metrics, opts ...WorkspaceOption) *Workspace {
	w := &Workspace{
		store:       store,
		calc:        calc,
		metrics:     metrics,
		l:           applogger.Nop(),
		seed:        true,
		sinkTimeout: 5 * time.Second,
		topN:        DefaultTopSignals,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Init computes a first result from whatever the store holds (or the defaults).
func (w *Workspace) Init(ctx context.Context) error {
	_, err := w.Recalculate(ctx)
	return err
}

// Snapshot returns a copy of the current inputs.
func (w *Workspace) Snapshot(ctx context.Context) (models.MarketSnapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.base(ctx)
}

func (w *Workspace) base(ctx context.Context) (models.MarketSnapshot, error) {
	snap, err := w.store.LoadSnapshot(ctx)
	if errors.Is(err, domrepo.ErrNotFound) {
		if w.seed {
			return DefaultSnapshot(), nil
		}
		return models.MarketSnapshot{}, nil
	}
	if err != nil {
		return models.MarketSnapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return snap.Clone(), nil
}

func (w *Workspace) UpdateVolatility(ctx context.Context, v models.VolatilityObservation) (*models.ScoringResult, error) {
	return w.apply(ctx, "volatility", func(s *models.MarketSnapshot) error {
		s.Volatility = models.VolatilityObservation{
			Current:        v.Current,
			TrailingWindow: append([]float64(nil), v.TrailingWindow...),
		}
		return nil
	})
}

func (w *Workspace) UpdateCrossAsset(ctx context.Context, c models.CrossAssetReturn) (*models.ScoringResult, error) {
	return w.apply(ctx, "cross_asset", func(s *models.MarketSnapshot) error {
		s.CrossAsset = c
		return nil
	})
}

// UpdateMarket replaces volatility and cross-asset inputs in a single recalculation.
func (w *Workspace) UpdateMarket(ctx context.Context, v models.VolatilityObservation, c models.CrossAssetReturn) (*models.ScoringResult, error) {
	return w.apply(ctx, "market", func(s *models.MarketSnapshot) error {
		s.Volatility = models.VolatilityObservation{
			Current:        v.Current,
			TrailingWindow: append([]float64(nil), v.TrailingWindow...),
		}
		s.CrossAsset = c
		return nil
	})
}

func (w *Workspace) SetCentralBankWeek(ctx context.Context, on bool) (*models.ScoringResult, error) {
	return w.apply(ctx, "central_bank_week", func(s *models.MarketSnapshot) error {
		s.CentralBankWeek = on
		return nil
	})
}

// UpdateCurrency merges patch into the currency's inputs. A currency the
// workspace does not hold yet is added, starting from DefaultCurrencyInput.
func (w *Workspace) UpdateCurrency(ctx context.Context, currency string, patch models.CurrencyPatch) (*models.ScoringResult, error) {
	code := NormalizeCurrency(currency)
	if code == "" {
		return nil, fmt.Errorf("%w: currency code is empty", models.ErrInvalidInput)
	}
	if patch.Empty() {
		return nil, ErrEmptyPatch
	}
	return w.apply(ctx, "currency", func(s *models.MarketSnapshot) error {
		if i := s.Currency(code); i >= 0 {
			s.Currencies[i] = patch.Apply(s.Currencies[i])
			return nil
		}
		s.Currencies = append(s.Currencies, patch.Apply(DefaultCurrencyInput(code)))
		return nil
	})
}

// RemoveCurrency drops a currency from the universe.
func (w *Workspace) RemoveCurrency(ctx context.Context, currency string) (*models.ScoringResult, error) {
	code := NormalizeCurrency(currency)
	return w.apply(ctx, "remove_currency", func(s *models.MarketSnapshot) error {
		i := s.Currency(code)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
		}
		s.Currencies = append(s.Currencies[:i], s.Currencies[i+1:]...)
		return nil
	})
}

// Replace swaps in a whole snapshot. Currency codes are normalized first.
func (w *Workspace) Replace(ctx context.Context, snap models.MarketSnapshot) (*models.ScoringResult, error) {
	return w.apply(ctx, "replace", func(s *models.MarketSnapshot) error {
		*s = snap.Clone()
		for i := range s.Currencies {
			s.Currencies[i].Currency = NormalizeCurrency(s.Currencies[i].Currency)
		}
		return nil
	})
}

// Recalculate rescores the current inputs without changing them.
func (w *Workspace) Recalculate(ctx context.Context) (*models.ScoringResult, error) {
	return w.apply(ctx, "recalculate", func(*models.MarketSnapshot) error { return nil })
}

func (w *Workspace) apply(ctx context.Context, op string, mutate func(*models.MarketSnapshot) error) (*models.ScoringResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap, err := w.base(ctx)
	if err != nil {
		return nil, err
	}
	if err := mutate(&snap); err != nil {
		return nil, err
	}

	res, err := w.calc.Recalculate(ctx, snap)
	if err != nil {
		w.l.Warn("workspace update rejected", applogger.String("op", op), applogger.Error(err))
		return nil, err
	}

	if err := w.store.Save(ctx, snap, res); err != nil {
		w.metrics.RecordError("workspace_save")
		return nil, fmt.Errorf("save workspace: %w", err)
	}

	w.publish(ctx, res)
	w.l.Info("workspace recalculated",
		applogger.String("op", op),
		applogger.String("regime", string(res.Regime)),
		applogger.Int("currencies", len(res.Scores)))
	return res, nil
}

// publish fans the result out; sink failures are logged, never returned.
func (w *Workspace) publish(ctx context.Context, res *models.ScoringResult) {
	if len(w.sinks) == 0 {
		return
	}
	var wg sync.WaitGroup
	for _, sink := range w.sinks {
		wg.Add(1)
		go func(sink domrepo.ResultSink) {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.sinkTimeout)
			defer cancel()
			start := time.Now()
			err := sink.Publish(sctx, res)
			w.metrics.RecordLatency("sink_"+sink.Name(), time.Since(start).Seconds())
			if err != nil {
				w.metrics.RecordError("sink_" + sink.Name())
				w.l.Error("publish result failed", applogger.String("sink", sink.Name()), applogger.Error(err))
			}
		}(sink)
	}
	wg.Wait()
}

// Latest returns the stored result, computing one if none exists yet.
func (w *Workspace) Latest(ctx context.Context) (*models.ScoringResult, error) {
	res, err := w.store.LoadResult(ctx)
	if errors.Is(err, domrepo.ErrNotFound) {
		return w.Recalculate(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load result: %w", err)
	}
	return res, nil
}

func (w *Workspace) CurrencyScore(ctx context.Context, currency string) (models.CompositeCurrencyScore, error) {
	res, err := w.Latest(ctx)
	if err != nil {
		return models.CompositeCurrencyScore{}, err
	}
	code := NormalizeCurrency(currency)
	s, ok := res.Score(code)
	if !ok {
		return models.CompositeCurrencyScore{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	return s, nil
}

// TopSignals returns the n strongest signals; n <= 0 means the configured default.
func (w *Workspace) TopSignals(ctx context.Context, n int) ([]models.PairSignal, error) {
	res, err := w.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = w.topN
	}
	if n > len(res.Signals) {
		n = len(res.Signals)
	}
	return append([]models.PairSignal(nil), res.Signals[:n]...), nil
}

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
