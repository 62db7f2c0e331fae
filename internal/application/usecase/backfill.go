package usecase

import (
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/diillson/revenue-forecast-go/internal/domain/entity"
	"github.com/diillson/revenue-forecast-go/internal/shared/types"
)

// BackfillPolicy controls how sparse histories are padded before fitting.
type BackfillPolicy struct {
	MinMonths      int
	Months         int
	Decay          float64
	DemoWindowDays int
	DemoBase       float64
	DemoGrowth     float64
	DemoJitter     float64
}

// BackfillPolicyFromConfig extracts the backfill settings from the config.
func BackfillPolicyFromConfig(cfg *types.Config) BackfillPolicy {
	return BackfillPolicy{
		MinMonths:      cfg.MinMonths,
		Months:         cfg.BackfillMonths,
		Decay:          cfg.BackfillDecay,
		DemoWindowDays: cfg.DemoWindowDays,
		DemoBase:       cfg.DemoBase,
		DemoGrowth:     cfg.DemoGrowth,
		DemoJitter:     cfg.DemoJitter,
	}
}

// BackfillHistory returns the series the model is fitted on. With enough real
// months the rows are returned untouched. With a few, synthetic months decaying
// backwards from the latest real value are prepended. With none, a demo series
// ending at now is generated.
func BackfillHistory(rows []entity.MonthlyRevenue, policy BackfillPolicy, now time.Time, rng *rand.Rand) ([]entity.MonthlyRevenue, entity.DataSource) {
	switch {
	case len(rows) >= policy.MinMonths:
		return rows, entity.SourceDatabase
	case len(rows) == 0:
		return generateDemoSeries(now, policy, rng), entity.SourceDemo
	default:
		return synthesizeHistory(rows, policy), entity.SourceBackfilled
	}
}

// synthesizeHistory always adds policy.Months rows. A synthetic month that
// lands on an existing real month is kept next to it, ordered first.
func synthesizeHistory(rows []entity.MonthlyRevenue, policy BackfillPolicy) []entity.MonthlyRevenue {
	latest := rows[0]
	for _, r := range rows[1:] {
		if !r.Period.Before(latest.Period) {
			latest = r
		}
	}
	anchor := entity.MonthStart(latest.Period)

	out := make([]entity.MonthlyRevenue, 0, policy.Months+len(rows))
	for i := policy.Months; i >= 1; i-- {
		out = append(out, entity.MonthlyRevenue{
			Period:    anchor.AddDate(0, -i, 0),
			Revenue:   latest.Revenue * math.Pow(policy.Decay, float64(i)),
			Synthetic: true,
		})
	}
	out = append(out, rows...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Period.Before(out[j].Period)
	})
	return out
}

// generateDemoSeries emits one row per first-of-month between now minus the
// demo window and now, both ends inclusive.
func generateDemoSeries(now time.Time, policy BackfillPolicy, rng *rand.Rand) []entity.MonthlyRevenue {
	now = now.UTC()
	start := now.AddDate(0, 0, -policy.DemoWindowDays)
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	month := entity.MonthStart(start)
	if month.Before(startDay) {
		month = month.AddDate(0, 1, 0)
	}

	var out []entity.MonthlyRevenue
	for i := 0; !month.After(now); i++ {
		jitter := 1 - policy.DemoJitter + 2*policy.DemoJitter*rng.Float64()
		out = append(out, entity.MonthlyRevenue{
			Period:    month,
			Revenue:   policy.DemoBase * math.Pow(policy.DemoGrowth, float64(i)) * jitter,
			Synthetic: true,
		})
		month = month.AddDate(0, 1, 0)
	}
	return out
}

// SelectModel picks the hyperparameters from the number of rows to fit.
func SelectModel(rows, seasonalityMinMonths int) entity.ModelSpec {
	if rows < seasonalityMinMonths {
		return entity.SimplifiedModel()
	}
	return entity.StandardModel()
}

// AssembleRecords turns every history row into a historical record and every
// forecast point after the last history month into a predicted record.
func AssembleRecords(history []entity.MonthlyRevenue, points []entity.ForecastPoint) []entity.ForecastRecord {
	records := make([]entity.ForecastRecord, 0, len(history)+len(points))

	var last time.Time
	for _, row := range history {
		records = append(records, entity.NewHistoricalRecord(row))
		if row.Period.After(last) {
			last = row.Period
		}
	}

	for _, p := range points {
		if p.Period.After(last) {
			records = append(records, entity.NewPredictedRecord(p))
		}
	}
	return records
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
