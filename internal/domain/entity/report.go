package entity

import "time"

// RunSummary describes how a forecast was produced.
type RunSummary struct {
	RunID          string     `json:"run_id"`
	Source         DataSource `json:"source"`
	RealMonths     int        `json:"real_months"`
	SyntheticRows  int        `json:"synthetic_rows"`
	Model          ModelSpec  `json:"model"`
	Horizon        int        `json:"horizon"`
	Engine         string     `json:"engine"`
	GeneratedAt    time.Time  `json:"generated_at"`
	PredictedTotal float64    `json:"predicted_total"`
}

// ForecastReport is what gets exported to CSV, JSON or PDF files.
type ForecastReport struct {
	Summary RunSummary       `json:"summary"`
	Records []ForecastRecord `json:"records"`
}
