// Package forecast fits decomposable time-series models: a piecewise linear
// trend with automatic changepoints plus optional Fourier seasonalities,
// combined additively or multiplicatively.
//
// Basic usage:
//
//	opts := forecast.DefaultOptions()
//	opts.YearlySeasonality = true
//	m := forecast.New(opts)
//	if err := m.Fit(ts, ys); err != nil {
//	    return err
//	}
//	future, _ := m.MakeFuture(3, forecast.MonthStart)
//	res, _ := m.Predict(future)
//
// Uncertainty intervals combine the observation noise estimated from the
// residuals with simulated future trend changes, so they widen with the
// horizon.
package forecast

import (
	"errors"
	"fmt"
)

// SeasonalityMode controls how seasonal components combine with the trend.
type SeasonalityMode string

const (
	Additive       SeasonalityMode = "additive"
	Multiplicative SeasonalityMode = "multiplicative"
)

// Frequency is the spacing of generated future timestamps.
type Frequency int

const (
	MonthStart Frequency = iota
	Day
)

var (
	ErrNotFitted        = errors.New("forecast: model has not been fitted")
	ErrInsufficientData = errors.New("forecast: history has less than 2 distinct rows")
	ErrLengthMismatch   = errors.New("forecast: timestamps and values differ in length")
	ErrNonFinite        = errors.New("forecast: history contains NaN or Inf")
	ErrInvalidOptions   = errors.New("forecast: invalid options")
)

// Options configures a Model.
type Options struct {
	YearlySeasonality bool
	WeeklySeasonality bool
	DailySeasonality  bool
	SeasonalityMode   SeasonalityMode

	// ChangepointPriorScale bounds how much the trend slope may change at
	// each changepoint. Small values give a stiffer trend.
	ChangepointPriorScale float64
	SeasonalityPriorScale float64

	// NChangepoints potential changepoints are spread uniformly over the
	// first ChangepointRange fraction of the history.
	NChangepoints    int
	ChangepointRange float64

	// IntervalWidth is the coverage of the [lower, upper] interval.
	IntervalWidth      float64
	UncertaintySamples int

	// Seed makes interval sampling reproducible. Zero picks a random seed.
	Seed uint64
}

// DefaultOptions returns the options used when nothing is customised.
func DefaultOptions() Options {
	return Options{
		SeasonalityMode:       Additive,
		ChangepointPriorScale: 0.05,
		SeasonalityPriorScale: 10,
		NChangepoints:         25,
		ChangepointRange:      0.8,
		IntervalWidth:         0.8,
		UncertaintySamples:    1000,
	}
}

func (o Options) validate() error {
	switch {
	case o.SeasonalityMode != Additive && o.SeasonalityMode != Multiplicative:
		return fmt.Errorf("%w: unknown seasonality mode %q", ErrInvalidOptions, o.SeasonalityMode)
	case o.ChangepointPriorScale <= 0:
		return fmt.Errorf("%w: changepoint prior scale must be positive", ErrInvalidOptions)
	case o.SeasonalityPriorScale <= 0:
		return fmt.Errorf("%w: seasonality prior scale must be positive", ErrInvalidOptions)
	case o.NChangepoints < 0:
		return fmt.Errorf("%w: negative changepoint count", ErrInvalidOptions)
	case o.ChangepointRange <= 0 || o.ChangepointRange > 1:
		return fmt.Errorf("%w: changepoint range must be in (0, 1]", ErrInvalidOptions)
	case o.IntervalWidth <= 0 || o.IntervalWidth >= 1:
		return fmt.Errorf("%w: interval width must be in (0, 1)", ErrInvalidOptions)
	case o.UncertaintySamples < 0:
		return fmt.Errorf("%w: negative uncertainty samples", ErrInvalidOptions)
	}
	return nil
}

type seasonality struct {
	name   string
	period float64 // days
	order  int
}

func (o Options) seasonalities() []seasonality {
	var out []seasonality
	if o.YearlySeasonality {
		out = append(out, seasonality{name: "yearly", period: 365.25, order: 10})
	}
	if o.WeeklySeasonality {
		out = append(out, seasonality{name: "weekly", period: 7, order: 3})
	}
	if o.DailySeasonality {
		out = append(out, seasonality{name: "daily", period: 1, order: 4})
	}
	return out
}
