package repository

import (
	"context"

	"github.com/diillson/revenue-forecast-go/internal/domain/entity"
)

// Forecaster fits a model on a monthly series and predicts ahead.
type Forecaster interface {
	// Name identifies the engine in logs and reports.
	Name() string

	// Forecast fits history with the given spec and returns one point per
	// history month followed by horizon month-start points after the last one.
	Forecast(ctx context.Context, history []entity.MonthlyRevenue, spec entity.ModelSpec, horizon int) ([]entity.ForecastPoint, error)
}
