package entity

import "time"

// RecordType tags an output record.
type RecordType string

const (
	RecordHistorical RecordType = "historical"
	RecordPredicted  RecordType = "predicted"
)

// ForecastRecord is one row of the forecast output. Historical rows carry the
// observed value in both Y and Yhat; predicted rows carry a null Y and an
// uncertainty interval.
type ForecastRecord struct {
	Ds        string     `json:"ds"`
	Y         *float64   `json:"y"`
	Yhat      float64    `json:"yhat"`
	YhatLower *float64   `json:"yhat_lower,omitempty"`
	YhatUpper *float64   `json:"yhat_upper,omitempty"`
	Type      RecordType `json:"type"`
}

// ForecastPoint is a fitted or predicted value returned by a Forecaster.
type ForecastPoint struct {
	Period time.Time
	Yhat   float64
	Lower  float64
	Upper  float64
}

// ErrorResult is printed instead of the records when the run fails.
type ErrorResult struct {
	Error string `json:"error"`
}

// NewHistoricalRecord builds the record for an observed (or backfilled) month.
func NewHistoricalRecord(row MonthlyRevenue) ForecastRecord {
	value := row.Revenue
	return ForecastRecord{
		Ds:   row.Period.Format(PeriodLayout),
		Y:    &value,
		Yhat: value,
		Type: RecordHistorical,
	}
}

// NewPredictedRecord builds the record for a future month. Negative values
// are floored at zero.
func NewPredictedRecord(p ForecastPoint) ForecastRecord {
	lower := nonNegative(p.Lower)
	upper := nonNegative(p.Upper)
	return ForecastRecord{
		Ds:        p.Period.Format(PeriodLayout),
		Y:         nil,
		Yhat:      nonNegative(p.Yhat),
		YhatLower: &lower,
		YhatUpper: &upper,
		Type:      RecordPredicted,
	}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
