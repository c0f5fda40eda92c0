package features

import (
	"math"
	"testing"

	"FxScore/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentReturn(t *testing.T) {
	r, err := PercentReturn([]float64{100, 200, 210})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, r, 1e-12)

	_, err = PercentReturn([]float64{1})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = PercentReturn([]float64{0, 1})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestSimpleMovingAverage(t *testing.T) {
	ma, err := SimpleMovingAverage([]float64{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.5, ma)

	_, err = SimpleMovingAverage([]float64{1}, 2)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestTrailingWindowExcludesCurrent(t *testing.T) {
	assert.Equal(t, []float64{2, 3}, TrailingWindow([]float64{1, 2, 3, 4}, 2))
	assert.Equal(t, []float64{1, 2, 3}, TrailingWindow([]float64{1, 2, 3, 4}, 20))
	assert.Nil(t, TrailingWindow([]float64{1}, 20))
}

func TestVolatilityFromSeries(t *testing.T) {
	vol, err := VolatilityFromSeries([]float64{18, 19, 20, 22.5}, DefaultWindow)
	require.NoError(t, err)
	assert.Equal(t, 22.5, vol.Current)
	assert.Equal(t, []float64{18, 19, 20}, vol.TrailingWindow)

	_, err = VolatilityFromSeries([]float64{18}, DefaultWindow)
	assert.ErrorIs(t, err, models.ErrEmptyWindow)

	_, err = VolatilityFromSeries([]float64{18, math.NaN()}, DefaultWindow)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestCrossAssetFromSeries(t *testing.T) {
	equity := []float64{400, 410, 420, 430, 440, 451}
	gold := []float64{2000, 1990}
	cross, err := CrossAssetFromSeries(equity, gold)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, cross.EquityReturn, 1e-9)
	assert.InDelta(t, -0.5, cross.SafeHavenReturn, 1e-9)
	assert.Equal(t, 451.0, cross.EquityPrice)
	assert.InDelta(t, 2551.0/6, cross.EquityMovingAverage20, 1e-9)

	_, err = CrossAssetFromSeries(equity, []float64{1})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestMarketDefaultsWindow(t *testing.T) {
	series := models.MarketSeries{
		VolatilityIndex: make([]float64, 30),
		Equity:          []float64{100, 101},
		SafeHaven:       []float64{50, 50},
	}
	for i := range series.VolatilityIndex {
		series.VolatilityIndex[i] = float64(i)
	}
	vol, cross, err := Market(series)
	require.NoError(t, err)
	assert.Len(t, vol.TrailingWindow, DefaultWindow)
	assert.Equal(t, 29.0, vol.Current)
	assert.Equal(t, 0.0, cross.SafeHavenReturn)
}
