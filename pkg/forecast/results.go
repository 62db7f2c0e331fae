package forecast

import "time"

// Results returns the input time points with their predicted forecast, upper,
// lower and trend values. Slices are of the same length.
type Results struct {
	T        []time.Time `json:"time"`
	Forecast []float64   `json:"forecast"`
	Upper    []float64   `json:"upper"`
	Lower    []float64   `json:"lower"`
	Trend    []float64   `json:"trend"`
}

// Len returns the number of predicted points.
func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.T)
}
