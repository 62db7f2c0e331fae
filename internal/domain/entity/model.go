package entity

// SeasonalityMode combines trend and seasonal components.
type SeasonalityMode string

const (
	SeasonalityAdditive       SeasonalityMode = "additive"
	SeasonalityMultiplicative SeasonalityMode = "multiplicative"
)

// ModelSpec holds the hyperparameters chosen for a run.
type ModelSpec struct {
	Name                  string          `json:"name"`
	YearlySeasonality     bool            `json:"yearly_seasonality"`
	WeeklySeasonality     bool            `json:"weekly_seasonality"`
	DailySeasonality      bool            `json:"daily_seasonality"`
	ChangepointPriorScale float64         `json:"changepoint_prior_scale"`
	SeasonalityMode       SeasonalityMode `json:"seasonality_mode"`
}

// SimplifiedModel is used when the history is too short for seasonality.
func SimplifiedModel() ModelSpec {
	return ModelSpec{
		Name:                  "simplified",
		ChangepointPriorScale: 0.001,
		SeasonalityMode:       SeasonalityAdditive,
	}
}

// StandardModel enables yearly seasonality once enough months exist.
func StandardModel() ModelSpec {
	return ModelSpec{
		Name:                  "standard",
		YearlySeasonality:     true,
		ChangepointPriorScale: 0.05,
		SeasonalityMode:       SeasonalityMultiplicative,
	}
}
