package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"FxScore/internal/domain/models"
	domrepo "FxScore/internal/domain/repository"
	"FxScore/pkg/cache"
	pkgch "FxScore/pkg/clickhouse"
	pkgkafka "FxScore/pkg/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var calculatedAt = time.Date(2024, 5, 2, 14, 0, 0, 0, time.UTC)

func sampleResult() *models.ScoringResult {
	return &models.ScoringResult{
		Regime:  models.RegimeRiskOn,
		Weights: models.FactorWeights{RatePolicy: 0.25, GrowthMomentum: 0.30, RealRateEdge: 0.25, RiskAppetite: 0.20},
		Scores: []models.CompositeCurrencyScore{
			{Currency: "USD", TotalScore: 0.4},
			{Currency: "JPY", TotalScore: -0.3},
		},
		Signals: []models.PairSignal{{
			Pair: "USD/JPY", CurrencyA: "USD", CurrencyB: "JPY", ScoreDifferential: 0.7,
			Direction: models.DirectionLong, Bias: "BUY_USD_SELL_JPY",
			Strength: models.StrengthModerate, Confidence: models.ConfidenceMedium,
		}},
		CalculatedAt: calculatedAt,
	}
}

func TestCacheSnapshotStoreRoundTrip(t *testing.T) {
	mc := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	defer mc.Close()
	s := NewCacheSnapshotStore(mc, 0)
	ctx := context.Background()

	_, err := s.LoadSnapshot(ctx)
	assert.ErrorIs(t, err, domrepo.ErrNotFound)
	_, err = s.LoadResult(ctx)
	assert.ErrorIs(t, err, domrepo.ErrNotFound)

	snap := models.MarketSnapshot{
		Volatility:      models.VolatilityObservation{Current: 22.5, TrailingWindow: []float64{20, 21}},
		CentralBankWeek: true,
		Currencies:      []models.CurrencyInput{{Currency: "USD"}},
	}
	require.Error(t, s.Save(ctx, snap, nil))
	_, err = s.LoadSnapshot(ctx)
	assert.ErrorIs(t, err, domrepo.ErrNotFound)

	require.NoError(t, s.Save(ctx, snap, sampleResult()))
	got, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
	res, err := s.LoadResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleResult(), res)
}

type rejectingCache struct{ cache.Service }

func (rejectingCache) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("oom")
}

func TestCacheSnapshotStoreSaveFailureWritesNothing(t *testing.T) {
	mc := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	defer mc.Close()
	ctx := context.Background()
	good := NewCacheSnapshotStore(mc, 0)
	first := models.MarketSnapshot{Currencies: []models.CurrencyInput{{Currency: "USD"}}}
	require.NoError(t, good.Save(ctx, first, sampleResult()))

	bad := NewCacheSnapshotStore(rejectingCache{mc}, 0)
	err := bad.Save(ctx, models.MarketSnapshot{CentralBankWeek: true}, &models.ScoringResult{Regime: models.RegimeCentralBankWeek})
	require.Error(t, err)

	got, err := good.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got)
	res, err := good.LoadResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RegimeRiskOn, res.Regime)
}

type failingCache struct{ cache.Service }

func (failingCache) Get(context.Context, string, interface{}) error { return errors.New("conn refused") }

func TestCacheSnapshotStoreKeepsBackendErrors(t *testing.T) {
	s := NewCacheSnapshotStore(failingCache{}, 0)
	_, err := s.LoadSnapshot(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domrepo.ErrNotFound)
}

type recordingProducer struct {
	topic string
	msgs  []pkgkafka.Message
	err   error
}

func (p *recordingProducer) PublishBatch(_ context.Context, topic string, msgs []pkgkafka.Message) error {
	p.topic = topic
	p.msgs = append(p.msgs, msgs...)
	return p.err
}

func TestKafkaResultPublisherKeysByRegime(t *testing.T) {
	p := &recordingProducer{}
	pub := NewKafkaResultPublisher(p, "fxscore.results")

	require.NoError(t, pub.Publish(context.Background(), sampleResult()))
	assert.Equal(t, "kafka", pub.Name())
	assert.Equal(t, "fxscore.results", p.topic)
	require.Len(t, p.msgs, 1)
	assert.Equal(t, []byte("RISK_ON"), p.msgs[0].Key)

	b, err := json.Marshal(p.msgs[0].Value)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"regime":"RISK_ON"`)

	p.err = errors.New("broker down")
	assert.ErrorContains(t, pub.Publish(context.Background(), sampleResult()), "publish result")
}

func TestClickHouseHistoryInit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	h := NewClickHouseHistory(pkgch.NewClientFromDB(db), "fxscore", nil)

	mock.ExpectExec(regexp.QuoteMeta("CREATE DATABASE IF NOT EXISTS fxscore")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS fxscore.currency_scores")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS fxscore.pair_signals")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, h.Init(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClickHouseHistoryPublishInsertsRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	h := NewClickHouseHistory(pkgch.NewClientFromDB(db), "fxscore", nil)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO fxscore.currency_scores")).
		WithArgs(calculatedAt, "RISK_ON", "USD", 0.0, 0.0, 0.0, 0.0, 0.0, 0.4,
			calculatedAt, "RISK_ON", "JPY", 0.0, 0.0, 0.0, 0.0, 0.0, -0.3).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO fxscore.pair_signals")).
		WithArgs(calculatedAt, "RISK_ON", "USD/JPY", "USD", "JPY", 0.7, "LONG", "BUY_USD_SELL_JPY", "MODERATE", "MEDIUM").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, h.Publish(context.Background(), sampleResult()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClickHouseHistoryPublishStopsOnScoreFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	h := NewClickHouseHistory(pkgch.NewClientFromDB(db), "fxscore", nil)

	mock.ExpectExec("INSERT INTO fxscore.currency_scores").WillReturnError(errors.New("table missing"))

	err = h.Publish(context.Background(), sampleResult())
	assert.ErrorContains(t, err, "insert currency scores")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClickHouseHistoryQueryScores(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	h := NewClickHouseHistory(pkgch.NewClientFromDB(db), "fxscore", nil)

	from, to := calculatedAt.Add(-time.Hour), calculatedAt
	rows := sqlmock.NewRows([]string{"calculated_at", "regime", "currency", "rate_policy", "growth_momentum", "real_rate_edge", "risk_appetite", "positioning", "total_score"}).
		AddRow(calculatedAt, "RISK_ON", "USD", 0.5, 0.2, 0.1, 0.3, 0.0, 0.4)
	mock.ExpectQuery(regexp.QuoteMeta("FROM fxscore.currency_scores")).
		WithArgs("USD", from, to, 10).
		WillReturnRows(rows)

	got, err := h.QueryScores(context.Background(), "USD", from, to, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.RegimeRiskOn, got[0].Regime)
	assert.Equal(t, "USD", got[0].Currency)
	assert.Equal(t, 0.5, got[0].RatePolicy)
	assert.Equal(t, 0.4, got[0].TotalScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClickHouseHistoryQuerySignals(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	h := NewClickHouseHistory(pkgch.NewClientFromDB(db), "fxscore", nil)

	rows := sqlmock.NewRows([]string{"calculated_at", "regime", "pair", "currency_a", "currency_b", "score_differential", "direction", "bias", "strength", "confidence"}).
		AddRow(calculatedAt, "NEUTRAL", "EUR/USD", "EUR", "USD", -1.2, "SHORT", "BUY_USD_SELL_EUR", "STRONG", "MEDIUM_HIGH")
	mock.ExpectQuery(regexp.QuoteMeta("FROM fxscore.pair_signals")).WillReturnRows(rows)

	got, err := h.QuerySignals(context.Background(), "EUR/USD", calculatedAt.Add(-time.Hour), calculatedAt, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.DirectionShort, got[0].Direction)
	assert.Equal(t, models.StrengthStrong, got[0].Strength)
	assert.Equal(t, models.ConfidenceMediumHigh, got[0].Confidence)
	assert.NoError(t, mock.ExpectationsWereMet())
}
