package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"FxScore/internal/domain/models"
	domrepo "FxScore/internal/domain/repository"
	"FxScore/internal/services/scoring"
)

var fixedNow = time.Date(2024, 6, 12, 9, 30, 0, 0, time.UTC)

type memStore struct {
	mu      sync.Mutex
	snap    *models.MarketSnapshot
	res     *models.ScoringResult
	saveErr error
	saves   int
}

func (s *memStore) LoadSnapshot(context.Context) (models.MarketSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return models.MarketSnapshot{}, domrepo.ErrNotFound
	}
	return s.snap.Clone(), nil
}

func (s *memStore) LoadResult(context.Context) (*models.ScoringResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.res == nil {
		return nil, domrepo.ErrNotFound
	}
	return s.res, nil
}

func (s *memStore) Save(_ context.Context, snap models.MarketSnapshot, r *models.ScoringResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	c := snap.Clone()
	s.snap, s.res = &c, r
	s.saves++
	return nil
}

type recordingSink struct {
	name    string
	mu      sync.Mutex
	results []*models.ScoringResult
	err     error
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Publish(_ context.Context, r *models.ScoringResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

type countingMetrics struct {
	mu      sync.Mutex
	regimes map[string]int
	errs    map[string]int
	scores  map[string]float64
	ops     map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{
		regimes: map[string]int{},
		errs:    map[string]int{},
		scores:  map[string]float64{},
		ops:     map[string]int{},
	}
}

func (m *countingMetrics) RecordRecalculation(regime string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regimes[regime]++
}

func (m *countingMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[kind]++
}

func (m *countingMetrics) RecordCurrencyScore(currency string, total float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[currency] = total
}

func (m *countingMetrics) RecordLatency(op string, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops[op]++
}

func (m *countingMetrics) errors(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errs[kind]
}

func newRecalculator(m domrepo.Metrics) *Recalculator {
	engine := scoring.NewEngine()
	return NewRecalculator(engine, engine, engine, m, WithWorkers(3), WithClock(func() time.Time { return fixedNow }))
}

type workspaceFixture struct {
	ws      *Workspace
	store   *memStore
	sink    *recordingSink
	metrics *countingMetrics
}

func newWorkspace(opts ...WorkspaceOption) *workspaceFixture {
	f := &workspaceFixture{store: &memStore{}, sink: &recordingSink{name: "rec"}, metrics: newCountingMetrics()}
	opts = append([]WorkspaceOption{WithSinks(f.sink)}, opts...)
	f.ws = NewWorkspace(f.store, newRecalculator(f.metrics), f.metrics, opts...)
	return f
}

var errBoom = errors.New("boom")
