package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"FxScore/internal/domain/models"
	domrepo "FxScore/internal/domain/repository"
	pkgch "FxScore/pkg/clickhouse"
	applogger "FxScore/pkg/logger"
)

// Schema returns the idempotent DDL for the history tables.
func Schema(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.currency_scores (
    calculated_at DateTime64(3, 'UTC'),
    regime LowCardinality(String),
    currency LowCardinality(String),
    rate_policy Float64,
    growth_momentum Float64,
    real_rate_edge Float64,
    risk_appetite Float64,
    positioning Float64,
    total_score Float64
) ENGINE = MergeTree
PARTITION BY toYYYYMM(calculated_at)
ORDER BY (currency, calculated_at)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.pair_signals (
    calculated_at DateTime64(3, 'UTC'),
    regime LowCardinality(String),
    pair String,
    currency_a LowCardinality(String),
    currency_b LowCardinality(String),
    score_differential Float64,
    direction LowCardinality(String),
    bias String,
    strength LowCardinality(String),
    confidence LowCardinality(String)
) ENGINE = MergeTree
PARTITION BY toYYYYMM(calculated_at)
ORDER BY (pair, calculated_at)`, database),
	}
}

// ClickHouseHistory appends every result to ClickHouse and answers history queries.
type ClickHouseHistory struct {
	ch       *pkgch.Client
	db       *sql.DB
	database string
	l        *applogger.Logger
}

func NewClickHouseHistory(ch *pkgch.Client, database string, l *applogger.Logger) *ClickHouseHistory {
	if l == nil {
		l = applogger.Nop()
	}
	return &ClickHouseHistory{ch: ch, db: ch.DB(), database: database, l: l}
}

func (h *ClickHouseHistory) Name() string { return "clickhouse" }

func (h *ClickHouseHistory) Init(ctx context.Context) error {
	if err := h.ch.InitSchema(ctx, Schema(h.database)); err != nil {
		return fmt.Errorf("init history schema: %w", err)
	}
	return nil
}

// Publish writes one row per currency and one per pair, each table in a single insert.
func (h *ClickHouseHistory) Publish(ctx context.Context, r *models.ScoringResult) error {
	start := time.Now()
	if err := h.insertScores(ctx, r); err != nil {
		return err
	}
	if err := h.insertSignals(ctx, r); err != nil {
		return err
	}
	h.l.Debug("clickhouse history appended",
		applogger.Int("scores", len(r.Scores)),
		applogger.Int("signals", len(r.Signals)),
		applogger.Duration("duration_ms", time.Since(start)))
	return nil
}

var (
	scoreColumns  = []string{"calculated_at", "regime", "currency", "rate_policy", "growth_momentum", "real_rate_edge", "risk_appetite", "positioning", "total_score"}
	signalColumns = []string{"calculated_at", "regime", "pair", "currency_a", "currency_b", "score_differential", "direction", "bias", "strength", "confidence"}
)

func (h *ClickHouseHistory) insertScores(ctx context.Context, r *models.ScoringResult) error {
	rows := make([][]interface{}, 0, len(r.Scores))
	for _, s := range r.Scores {
		rows = append(rows, []interface{}{r.CalculatedAt, string(r.Regime), s.Currency,
			s.RatePolicy, s.GrowthMomentum, s.RealRateEdge, s.RiskAppetite, s.Positioning, s.TotalScore})
	}
	if err := h.ch.InsertRows(ctx, h.database+".currency_scores", scoreColumns, rows); err != nil {
		return fmt.Errorf("insert currency scores: %w", err)
	}
	return nil
}

func (h *ClickHouseHistory) insertSignals(ctx context.Context, r *models.ScoringResult) error {
	rows := make([][]interface{}, 0, len(r.Signals))
	for _, s := range r.Signals {
		rows = append(rows, []interface{}{r.CalculatedAt, string(r.Regime), s.Pair, s.CurrencyA, s.CurrencyB,
			s.ScoreDifferential, string(s.Direction), s.Bias, string(s.Strength), string(s.Confidence)})
	}
	if err := h.ch.InsertRows(ctx, h.database+".pair_signals", signalColumns, rows); err != nil {
		return fmt.Errorf("insert pair signals: %w", err)
	}
	return nil
}

// QueryScores returns the newest records first.
func (h *ClickHouseHistory) QueryScores(ctx context.Context, currency string, from, to time.Time, limit int) ([]models.ScoreRecord, error) {
	q := fmt.Sprintf(`SELECT calculated_at, regime, currency, rate_policy, growth_momentum, real_rate_edge, risk_appetite, positioning, total_score
FROM %s.currency_scores
WHERE currency = ? AND calculated_at >= ? AND calculated_at <= ?
ORDER BY calculated_at DESC
LIMIT ?`, h.database)
	rows, err := h.db.QueryContext(ctx, q, currency, from, to, limit)
	if err != nil {
		h.l.Error("clickhouse query_scores error", applogger.String("currency", currency), applogger.Error(err))
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	out := make([]models.ScoreRecord, 0, limit)
	for rows.Next() {
		var rec models.ScoreRecord
		var regime string
		if err := rows.Scan(&rec.CalculatedAt, &regime, &rec.Currency,
			&rec.RatePolicy, &rec.GrowthMomentum, &rec.RealRateEdge, &rec.RiskAppetite, &rec.Positioning, &rec.TotalScore); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		rec.Regime = models.MarketRegime(regime)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// QuerySignals returns the newest records first.
func (h *ClickHouseHistory) QuerySignals(ctx context.Context, pair string, from, to time.Time, limit int) ([]models.SignalRecord, error) {
	q := fmt.Sprintf(`SELECT calculated_at, regime, pair, currency_a, currency_b, score_differential, direction, bias, strength, confidence
FROM %s.pair_signals
WHERE pair = ? AND calculated_at >= ? AND calculated_at <= ?
ORDER BY calculated_at DESC
LIMIT ?`, h.database)
	rows, err := h.db.QueryContext(ctx, q, pair, from, to, limit)
	if err != nil {
		h.l.Error("clickhouse query_signals error", applogger.String("pair", pair), applogger.Error(err))
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	out := make([]models.SignalRecord, 0, limit)
	for rows.Next() {
		var rec models.SignalRecord
		var regime, direction, strength, confidence string
		if err := rows.Scan(&rec.CalculatedAt, &regime, &rec.Pair, &rec.CurrencyA, &rec.CurrencyB,
			&rec.ScoreDifferential, &direction, &rec.Bias, &strength, &confidence); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		rec.Regime = models.MarketRegime(regime)
		rec.Direction = models.Direction(direction)
		rec.Strength = models.Strength(strength)
		rec.Confidence = models.Confidence(confidence)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (h *ClickHouseHistory) Health(ctx context.Context) error {
	return h.ch.Health(ctx)
}

// Close is a no-op; the pool belongs to pkg/clickhouse.Client.
func (h *ClickHouseHistory) Close() error { return nil }

var _ domrepo.ScoreHistory = (*ClickHouseHistory)(nil)
