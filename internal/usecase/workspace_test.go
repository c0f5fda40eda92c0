package usecase

import (
	"context"
	"testing"

	"FxScore/internal/domain/models"
	"FxScore/internal/services/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceInitSeedsDefaults(t *testing.T) {
	f := newWorkspace()
	ctx := context.Background()
	require.NoError(t, f.ws.Init(ctx))

	snap, err := f.ws.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Currencies, len(DefaultCurrencies))
	assert.Equal(t, 1, f.store.saves)
	assert.Equal(t, 1, f.sink.count())

	res, err := f.ws.Latest(ctx)
	require.NoError(t, err)
	assert.Same(t, f.sink.results[0], res)
}

func TestWorkspaceWithoutSeedNeedsInputs(t *testing.T) {
	f := newWorkspace(WithSeedDefaults(false))
	err := f.ws.Init(context.Background())
	assert.ErrorIs(t, err, models.ErrEmptyWindow)
	assert.Nil(t, f.store.snap)
	assert.Zero(t, f.sink.count())
}

func TestWorkspaceCentralBankWeekOverridesRegime(t *testing.T) {
	f := newWorkspace()
	res, err := f.ws.SetCentralBankWeek(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, models.RegimeCentralBankWeek, res.Regime)
	assert.Equal(t, scoring.Weights(models.RegimeCentralBankWeek), res.Weights)

	res, err = f.ws.SetCentralBankWeek(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, models.RegimeNeutral, res.Regime)
}

func TestWorkspaceUpdateVolatilityChangesRegime(t *testing.T) {
	f := newWorkspace()
	res, err := f.ws.UpdateVolatility(context.Background(), models.VolatilityObservation{
		Current:        40,
		TrailingWindow: []float64{15, 16, 17, 18},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RegimeRiskOff, res.Regime)
}

func TestWorkspaceRejectedUpdateKeepsState(t *testing.T) {
	f := newWorkspace()
	ctx := context.Background()
	before, err := f.ws.Recalculate(ctx)
	require.NoError(t, err)

	_, err = f.ws.UpdateVolatility(ctx, models.VolatilityObservation{Current: 20})
	assert.ErrorIs(t, err, models.ErrEmptyWindow)

	after, err := f.ws.Latest(ctx)
	require.NoError(t, err)
	assert.Same(t, before, after)
	snap, err := f.ws.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.Volatility.TrailingWindow)
	assert.Equal(t, 1, f.sink.count())
}

func TestWorkspaceUpdateCurrency(t *testing.T) {
	f := newWorkspace()
	ctx := context.Background()

	rate := models.RatePolicyInput{CurrentRate: 4, TerminalRate: 5, HawkishMentions: 3}
	res, err := f.ws.UpdateCurrency(ctx, " usd ", models.CurrencyPatch{RatePolicy: &rate})
	require.NoError(t, err)
	usd, ok := res.Score("USD")
	require.True(t, ok)
	assert.InDelta(t, scoring.RatePolicyScore("USD", rate), usd.RatePolicy, 1e-12)

	snap, err := f.ws.Snapshot(ctx)
	require.NoError(t, err)
	i := snap.Currency("USD")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, rate, snap.Currencies[i].RatePolicy)
	assert.Equal(t, DefaultCurrencyInput("USD").Growth, snap.Currencies[i].Growth, "other sections are untouched")

	res, err = f.ws.UpdateCurrency(ctx, "nzd", models.CurrencyPatch{Positioning: &models.PositioningInput{PercentileRank: 95}})
	require.NoError(t, err)
	require.Len(t, res.Scores, len(DefaultCurrencies)+1)
	assert.Equal(t, "NZD", res.Scores[len(res.Scores)-1].Currency)
	assert.Equal(t, 1.0, res.Scores[len(res.Scores)-1].Positioning)

	_, err = f.ws.UpdateCurrency(ctx, "USD", models.CurrencyPatch{})
	assert.ErrorIs(t, err, ErrEmptyPatch)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = f.ws.UpdateCurrency(ctx, "  ", models.CurrencyPatch{RatePolicy: &rate})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestWorkspaceRemoveCurrency(t *testing.T) {
	f := newWorkspace()
	ctx := context.Background()

	res, err := f.ws.RemoveCurrency(ctx, "jpy")
	require.NoError(t, err)
	_, ok := res.Score("JPY")
	assert.False(t, ok)
	n := len(DefaultCurrencies) - 1
	assert.Len(t, res.Signals, n*(n-1)/2)

	_, err = f.ws.RemoveCurrency(ctx, "JPY")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestWorkspaceReplaceAndLookups(t *testing.T) {
	f := newWorkspace()
	ctx := context.Background()

	snap := DefaultSnapshot()
	snap.Currencies = []models.CurrencyInput{DefaultCurrencyInput("USD"), DefaultCurrencyInput("JPY"), DefaultCurrencyInput("AUD")}
	snap.Currencies[0].RealRate = models.RealRateInput{TwoYearYield: 5, FiveYearFiveYearBreakeven: 2}
	snap.Currencies[1].RealRate = models.RealRateInput{TwoYearYield: 0, FiveYearFiveYearBreakeven: 1}
	_, err := f.ws.Replace(ctx, snap)
	require.NoError(t, err)

	usd, err := f.ws.CurrencyScore(ctx, "usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", usd.Currency)
	_, err = f.ws.CurrencyScore(ctx, "EUR")
	assert.ErrorIs(t, err, ErrUnknownCurrency)

	top, err := f.ws.TopSignals(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, top, 3, "fewer pairs than the default")

	one, err := f.ws.TopSignals(ctx, 1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	want := one[0].Pair
	assert.Equal(t, top[0].Pair, want)
	one[0].Pair = "mutated"
	again, err := f.ws.TopSignals(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, want, again[0].Pair, "callers get a copy")
}

func TestWorkspaceSinkFailureIsSoft(t *testing.T) {
	f := newWorkspace()
	bad := &recordingSink{name: "bad", err: errBoom}
	f.ws = NewWorkspace(f.store, newRecalculator(f.metrics), f.metrics, WithSinks(f.sink, bad, nil))

	_, err := f.ws.Recalculate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.sink.count())
	assert.Equal(t, 1, bad.count())
	assert.Equal(t, 1, f.metrics.errors("sink_bad"))
}

func TestWorkspaceStoreFailureFailsUpdate(t *testing.T) {
	f := newWorkspace()
	f.store.saveErr = errBoom
	_, err := f.ws.Recalculate(context.Background())
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, f.metrics.errors("workspace_save"))
	assert.Zero(t, f.sink.count())
}

func TestWorkspaceFailedSaveKeepsSnapshotAndResultTogether(t *testing.T) {
	f := newWorkspace()
	ctx := context.Background()
	require.NoError(t, f.ws.Init(ctx))

	f.store.saveErr = errBoom
	_, err := f.ws.SetCentralBankWeek(ctx, true)
	require.ErrorIs(t, err, errBoom)

	snap, err := f.ws.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, snap.CentralBankWeek)
	latest, err := f.ws.Latest(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, models.RegimeCentralBankWeek, latest.Regime)

	f.store.saveErr = nil
	res, err := f.ws.SetCentralBankWeek(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, models.RegimeCentralBankWeek, res.Regime)
	snap, err = f.ws.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.CentralBankWeek)
}

func TestWorkspaceUpdateMarket(t *testing.T) {
	f := newWorkspace()
	res, err := f.ws.UpdateMarket(context.Background(),
		models.VolatilityObservation{Current: 10, TrailingWindow: []float64{12, 14, 16, 18, 20}},
		models.CrossAssetReturn{EquityReturn: 1, SafeHavenReturn: 0, EquityPrice: 110, EquityMovingAverage20: 100})
	require.NoError(t, err)
	assert.Equal(t, models.RegimeRiskOn, res.Regime)
}

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, "USD", NormalizeCurrency(" usd\t"))
	assert.Equal(t, "", NormalizeCurrency("   "))
}
