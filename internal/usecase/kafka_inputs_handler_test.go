package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"FxScore/internal/domain/models"
	pkgkafka "FxScore/pkg/kafka"
	"FxScore/pkg/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(t *testing.T, ev InputEvent) []byte {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return b
}

func TestKafkaInputsHandlerRejectsGarbage(t *testing.T) {
	f := newWorkspace()
	h := NewKafkaInputsHandler("fx.inputs", f.ws, f.metrics)
	assert.Equal(t, "fx.inputs", h.Topic())

	err := h.Handle(context.Background(), []byte(`{"type":`))
	require.Error(t, err)
	assert.True(t, pkgkafka.IsPermanent(err))
	assert.Equal(t, 1, f.metrics.errors("inputs_unmarshal"))

	err = h.Handle(context.Background(), event(t, InputEvent{Type: "gossip"}))
	require.Error(t, err)
	assert.True(t, pkgkafka.IsPermanent(err))

	err = h.Handle(context.Background(), event(t, InputEvent{Type: EventVolatility}))
	require.Error(t, err)
	assert.True(t, pkgkafka.IsPermanent(err))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Zero(t, f.sink.count())
}

func TestKafkaInputsHandlerAppliesEvents(t *testing.T) {
	f := newWorkspace()
	h := NewKafkaInputsHandler("fx.inputs", f.ws, f.metrics)
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, event(t, InputEvent{
		Type:       EventVolatility,
		Volatility: &models.VolatilityObservation{Current: 40, TrailingWindow: []float64{15, 16, 17, 18}},
	})))
	res, err := f.ws.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RegimeRiskOff, res.Regime)

	on := true
	require.NoError(t, h.Handle(ctx, event(t, InputEvent{Type: EventCentralBankWeek, CentralBankWeek: &on})))
	res, err = f.ws.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RegimeCentralBankWeek, res.Regime)

	err = h.Handle(ctx, event(t, InputEvent{Type: EventCurrency, Currency: "SEK", Patch: &models.CurrencyPatch{}}))
	assert.True(t, pkgkafka.IsPermanent(err), "empty patch")

	require.NoError(t, h.Handle(ctx, event(t, InputEvent{Type: EventRecalculate})))
	assert.Equal(t, 3, f.sink.count())
}

func TestKafkaInputsHandlerMarketSeries(t *testing.T) {
	f := newWorkspace()
	h := NewKafkaInputsHandler("fx.inputs", f.ws, f.metrics)
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, event(t, InputEvent{
		Type: EventMarketSeries,
		Series: &models.MarketSeries{
			VolatilityIndex: []float64{15, 16, 17, 18, 40},
			Equity:          []float64{100, 101},
			SafeHaven:       []float64{50, 50},
			Window:          20,
		},
	})))
	snap, err := f.ws.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40.0, snap.Volatility.Current)
	assert.Equal(t, []float64{15, 16, 17, 18}, snap.Volatility.TrailingWindow)
	assert.InDelta(t, 1.0, snap.CrossAsset.EquityReturn, 1e-12)
	assert.InDelta(t, 100.5, snap.CrossAsset.EquityMovingAverage20, 1e-12)

	err = h.Handle(ctx, event(t, InputEvent{
		Type:   EventMarketSeries,
		Series: &models.MarketSeries{VolatilityIndex: []float64{20}, Equity: []float64{1, 2}, SafeHaven: []float64{1, 2}},
	}))
	assert.True(t, pkgkafka.IsPermanent(err))
}

func TestKafkaInputsHandlerStoreFailureIsRetryable(t *testing.T) {
	f := newWorkspace()
	f.store.saveErr = errBoom
	h := NewKafkaInputsHandler("fx.inputs", f.ws, f.metrics)

	err := h.Handle(context.Background(), event(t, InputEvent{Type: EventRecalculate}))
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, pkgkafka.IsPermanent(err))
	assert.Equal(t, 1, f.metrics.errors("inputs_recalculate"))
}

func TestKafkaInputsHandlerInvalidSnapshotIsPermanent(t *testing.T) {
	f := newWorkspace()
	h := NewKafkaInputsHandler("fx.inputs", f.ws, f.metrics)

	err := h.Handle(context.Background(), event(t, InputEvent{
		Type:     EventSnapshot,
		Snapshot: &models.MarketSnapshot{Volatility: models.VolatilityObservation{Current: 1}},
	}))
	assert.True(t, pkgkafka.IsPermanent(err))
	assert.ErrorIs(t, err, models.ErrEmptyWindow)
	assert.Equal(t, 1, f.metrics.errors("inputs_snapshot"))
}

func TestKafkaInputsHandlerSnapshotNormalizesCodes(t *testing.T) {
	f := newWorkspace()
	h := NewKafkaInputsHandler("fx.inputs", f.ws, f.metrics)
	ctx := context.Background()

	snap := DefaultSnapshot()
	for i := range snap.Currencies {
		snap.Currencies[i].Currency = " " + strings.ToLower(snap.Currencies[i].Currency)
	}
	require.NoError(t, h.Handle(ctx, event(t, InputEvent{Type: EventSnapshot, Snapshot: &snap})))

	stored, err := f.ws.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Currency("USD"))

	got, err := f.ws.CurrencyScore(ctx, "usd")
	require.NoError(t, err)
	want, err := f.ws.calc.Recalculate(ctx, DefaultSnapshot())
	require.NoError(t, err)
	usd, ok := want.Score("USD")
	require.True(t, ok)
	assert.InDelta(t, usd.TotalScore, got.TotalScore, 1e-9)
}

func TestRecalculateJob(t *testing.T) {
	f := newWorkspace()
	job := NewRecalculateJob(f.ws)
	assert.Equal(t, RecalculateJobType, job.Type())

	require.NoError(t, job.Handle(context.Background(), json.RawMessage(`{"reason":"http"}`)))
	require.NoError(t, job.Handle(context.Background(), RecalculateRequest{Reason: "cron"}))
	assert.Equal(t, 2, f.sink.count())

	assert.True(t, queue.IsPermanent(job.Handle(context.Background(), 42)))

	f.store.saveErr = errBoom
	err := job.Handle(context.Background(), nil)
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, queue.IsPermanent(err))
}
