package entity

import "time"

// PeriodLayout is the date format used for periods in every output.
const PeriodLayout = "2006-01-02"

// MonthlyRevenue is the revenue summed over one calendar month.
type MonthlyRevenue struct {
	Period    time.Time `json:"period"`
	Revenue   float64   `json:"revenue"`
	Synthetic bool      `json:"synthetic,omitempty"`
}

// DataSource tells where the history fed to the model came from.
type DataSource string

const (
	SourceDatabase   DataSource = "database"
	SourceBackfilled DataSource = "backfilled"
	SourceDemo       DataSource = "demo"
)

// MonthStart truncates t to the first day of its month at midnight UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
