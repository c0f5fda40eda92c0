package repository

import (
	"context"
	"errors"
	"time"

	"FxScore/internal/domain/models"
)

// ErrNotFound is returned by stores when nothing has been saved yet.
var ErrNotFound = errors.New("not found")

// SnapshotStore keeps the current workspace inputs and the latest result.
// Save writes both or neither.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context) (models.MarketSnapshot, error)
	LoadResult(ctx context.Context) (*models.ScoringResult, error)
	Save(ctx context.Context, s models.MarketSnapshot, r *models.ScoringResult) error
}

// ResultSink receives every result the workspace produces.
type ResultSink interface {
	Name() string
	Publish(ctx context.Context, r *models.ScoringResult) error
}

// ScoreHistory persists results for later queries.
type ScoreHistory interface {
	ResultSink
	Init(ctx context.Context) error
	QueryScores(ctx context.Context, currency string, from, to time.Time, limit int) ([]models.ScoreRecord, error)
	QuerySignals(ctx context.Context, pair string, from, to time.Time, limit int) ([]models.SignalRecord, error)
	Health(ctx context.Context) error
	Close() error
}

type Metrics interface {
	RecordRecalculation(regime string)
	RecordError(kind string)
	RecordCurrencyScore(currency string, total float64)
	RecordLatency(op string, seconds float64)
}
