package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthlySeries(start time.Time, values ...float64) ([]time.Time, []float64) {
	ts := make([]time.Time, len(values))
	for i := range values {
		ts[i] = start.AddDate(0, i, 0)
	}
	return ts, values
}

func TestFitRejectsBadInput(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	m := New(DefaultOptions())
	assert.ErrorIs(t, m.Fit([]time.Time{start}, []float64{1}), ErrInsufficientData)
	assert.ErrorIs(t, m.Fit([]time.Time{start, start}, []float64{1, 2}), ErrInsufficientData)
	assert.ErrorIs(t, m.Fit([]time.Time{start, start.AddDate(0, 1, 0)}, []float64{1}), ErrLengthMismatch)
	assert.ErrorIs(t, m.Fit([]time.Time{start, start.AddDate(0, 1, 0)}, []float64{1, math.NaN()}), ErrNonFinite)

	opts := DefaultOptions()
	opts.SeasonalityMode = "bogus"
	assert.ErrorIs(t, New(opts).Fit([]time.Time{start, start.AddDate(0, 1, 0)}, []float64{1, 2}), ErrInvalidOptions)
}

func TestPredictBeforeFit(t *testing.T) {
	m := New(DefaultOptions())
	_, err := m.Predict([]time.Time{time.Now()})
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = m.MakeFuture(3, MonthStart)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestMakeFutureMonthStart(t *testing.T) {
	ts, ys := monthlySeries(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 10, 12, 14, 16, 18, 20)
	m := New(DefaultOptions())
	require.NoError(t, m.Fit(ts, ys))

	future, err := m.MakeFuture(3, MonthStart)
	require.NoError(t, err)
	require.Len(t, future, 9)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), future[6])
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), future[7])
	assert.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), future[8])
}

func TestLinearTrendIsExtrapolated(t *testing.T) {
	// Daily spacing keeps the series exactly linear in time.
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var ts []time.Time
	var ys []float64
	for i := 0; i < 30; i++ {
		ts = append(ts, start.AddDate(0, 0, i))
		ys = append(ys, 100+5*float64(i))
	}

	opts := DefaultOptions()
	opts.ChangepointPriorScale = 0.001
	opts.Seed = 7
	m := New(opts)
	require.NoError(t, m.Fit(ts, ys))

	future, err := m.MakeFuture(3, Day)
	require.NoError(t, err)
	res, err := m.Predict(future)
	require.NoError(t, err)
	require.Equal(t, 33, res.Len())

	for i := 30; i < 33; i++ {
		want := 100 + 5*float64(i)
		assert.InDelta(t, want, res.Forecast[i], 1.0, "day %d", i)
		assert.LessOrEqual(t, res.Lower[i], res.Forecast[i]+1e-9)
		assert.GreaterOrEqual(t, res.Upper[i], res.Forecast[i]-1e-9)
	}
}

func TestIntervalsAreReproducibleWithSeed(t *testing.T) {
	ts, ys := monthlySeries(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		120, 135, 128, 150, 161, 149, 170, 182, 175, 190, 205, 198)

	run := func() *Results {
		opts := DefaultOptions()
		opts.Seed = 42
		m := New(opts)
		require.NoError(t, m.Fit(ts, ys))
		future, err := m.MakeFuture(3, MonthStart)
		require.NoError(t, err)
		res, err := m.Predict(future)
		require.NoError(t, err)
		return res
	}

	a, b := run(), run()
	assert.Equal(t, a.Lower, b.Lower)
	assert.Equal(t, a.Upper, b.Upper)
	for i := range a.T {
		assert.LessOrEqual(t, a.Lower[i], a.Upper[i])
	}
}

func TestIntervalsWidenWithHorizon(t *testing.T) {
	// Slope doubles halfway through, so the fitted trend has real changepoints
	// and future trend draws dominate the interval.
	var ys []float64
	for i := 0; i < 16; i++ {
		if i < 8 {
			ys = append(ys, 100+10*float64(i))
		} else {
			ys = append(ys, 170+20*float64(i-7))
		}
	}
	ts, _ := monthlySeries(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), ys...)

	opts := DefaultOptions()
	opts.ChangepointPriorScale = 0.5
	opts.Seed = 3
	m := New(opts)
	require.NoError(t, m.Fit(ts, ys))
	future, err := m.MakeFuture(6, MonthStart)
	require.NoError(t, err)
	res, err := m.Predict(future)
	require.NoError(t, err)

	n := res.Len()
	first := res.Upper[n-6] - res.Lower[n-6]
	last := res.Upper[n-1] - res.Lower[n-1]
	assert.Greater(t, last, first)
}

func TestMultiplicativeYearlySeasonality(t *testing.T) {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	var ys []float64
	for i := 0; i < 36; i++ {
		season := 1 + 0.3*math.Sin(2*math.Pi*float64(i)/12)
		ys = append(ys, (1000+20*float64(i))*season)
	}
	ts, _ := monthlySeries(start, ys...)

	opts := DefaultOptions()
	opts.YearlySeasonality = true
	opts.SeasonalityMode = Multiplicative
	opts.Seed = 11
	m := New(opts)
	require.NoError(t, m.Fit(ts, ys))

	future, err := m.MakeFuture(3, MonthStart)
	require.NoError(t, err)
	res, err := m.Predict(future)
	require.NoError(t, err)

	for i := range res.T {
		assert.False(t, math.IsNaN(res.Forecast[i]))
		assert.False(t, math.IsInf(res.Forecast[i], 0))
	}
	// In-sample fit should follow the seasonal swing.
	peak, trough := res.Forecast[3], res.Forecast[9]
	assert.Greater(t, peak, trough)
}

func TestUnsortedHistoryIsSorted(t *testing.T) {
	a := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := a.AddDate(0, 1, 0)
	c := a.AddDate(0, 2, 0)

	opts := DefaultOptions()
	opts.UncertaintySamples = 0
	m := New(opts)
	require.NoError(t, m.Fit([]time.Time{c, a, b}, []float64{30, 10, 20}))

	future, err := m.MakeFuture(1, MonthStart)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{a, b, c, c.AddDate(0, 1, 0)}, future)

	res, err := m.Predict(future)
	require.NoError(t, err)
	assert.Equal(t, res.Forecast, res.Lower)
	assert.Equal(t, res.Forecast, res.Upper)
}

func TestPlaceChangepointsShortHistory(t *testing.T) {
	tt := []float64{0, 0.2, 0.4, 0.6, 0.8, 1}
	cps := placeChangepoints(tt, 25, 0.8)
	assert.Equal(t, []float64{0.2, 0.4, 0.6}, cps)

	assert.Nil(t, placeChangepoints([]float64{0, 1}, 25, 0.8))
}
