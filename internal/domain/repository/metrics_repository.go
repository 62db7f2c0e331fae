package repository

import (
	"time"

	"github.com/diillson/revenue-forecast-go/internal/domain/entity"
)

// MetricsRepository records run metrics and persists them once per run.
type MetricsRepository interface {
	ObserveRun(summary entity.RunSummary, outcome string, duration time.Duration)
	Flush() error
}
