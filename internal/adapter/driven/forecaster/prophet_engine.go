package forecaster

import (
	"context"
	"fmt"
	"time"

	"github.com/diillson/revenue-forecast-go/internal/domain/entity"
	"github.com/diillson/revenue-forecast-go/internal/domain/repository"
	"github.com/diillson/revenue-forecast-go/pkg/forecast"
)

const ProphetEngineName = "prophet"

// ProphetEngine fits pkg/forecast models.
type ProphetEngine struct {
	opts EngineOptions
}

// NewProphetEngine creates the default engine.
func NewProphetEngine(opts EngineOptions) repository.Forecaster {
	return &ProphetEngine{opts: opts}
}

// Name implements repository.Forecaster.
func (e *ProphetEngine) Name() string {
	return ProphetEngineName
}

// Forecast implements repository.Forecaster.
func (e *ProphetEngine) Forecast(ctx context.Context, history []entity.MonthlyRevenue, spec entity.ModelSpec, horizon int) ([]entity.ForecastPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ts := make([]time.Time, len(history))
	ys := make([]float64, len(history))
	for i, row := range history {
		ts[i] = row.Period
		ys[i] = row.Revenue
	}

	model := forecast.New(e.modelOptions(spec))
	if err := model.Fit(ts, ys); err != nil {
		return nil, fmt.Errorf("fitting %s model: %w", spec.Name, err)
	}

	future, err := model.MakeFuture(horizon, forecast.MonthStart)
	if err != nil {
		return nil, err
	}
	res, err := model.Predict(future)
	if err != nil {
		return nil, err
	}

	points := make([]entity.ForecastPoint, res.Len())
	for i := range points {
		points[i] = entity.ForecastPoint{
			Period: res.T[i],
			Yhat:   res.Forecast[i],
			Lower:  res.Lower[i],
			Upper:  res.Upper[i],
		}
	}
	return points, nil
}

func (e *ProphetEngine) modelOptions(spec entity.ModelSpec) forecast.Options {
	opts := forecast.DefaultOptions()
	opts.YearlySeasonality = spec.YearlySeasonality
	opts.WeeklySeasonality = spec.WeeklySeasonality
	opts.DailySeasonality = spec.DailySeasonality
	opts.ChangepointPriorScale = spec.ChangepointPriorScale
	opts.SeasonalityMode = forecast.Additive
	if spec.SeasonalityMode == entity.SeasonalityMultiplicative {
		opts.SeasonalityMode = forecast.Multiplicative
	}

	if e.opts.IntervalWidth > 0 {
		opts.IntervalWidth = e.opts.IntervalWidth
	}
	if e.opts.UncertaintySamples > 0 {
		opts.UncertaintySamples = e.opts.UncertaintySamples
	}
	opts.Seed = e.opts.Seed
	return opts
}
