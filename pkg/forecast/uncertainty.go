package forecast

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"
)

type changepoint struct {
	at    float64
	delta float64
}

// intervals fills res.Lower and res.Upper from simulated samples. Each sample
// draws new trend changepoints beyond the history at the historical rate,
// with Laplace distributed slope changes, and adds observation noise.
func (m *Model) intervals(t, seas []float64, res *Results) {
	rng := m.newRand()
	samples := m.opts.UncertaintySamples

	tMax := 1.0
	for _, v := range t {
		if v > tMax {
			tMax = v
		}
	}
	rate := float64(len(m.changepoints)) * (tMax - 1)
	scale := meanAbs(m.deltas) + 1e-8

	draws := make([][]float64, len(t))
	for i := range draws {
		draws[i] = make([]float64, samples)
	}

	var extra []changepoint
	for s := 0; s < samples; s++ {
		extra = extra[:0]
		for c := poisson(rng, rate); c > 0; c-- {
			extra = append(extra, changepoint{
				at:    1 + rng.Float64()*(tMax-1),
				delta: laplace(rng, scale),
			})
		}
		for i := range t {
			g := m.trendAt(t[i], extra)
			y := m.combine(g, seas[i]) + m.sigma*rng.NormFloat64()
			draws[i][s] = y * m.yScale
		}
	}

	lo := (1 - m.opts.IntervalWidth) / 2
	hi := 1 - lo
	for i, d := range draws {
		sort.Float64s(d)
		res.Lower[i] = stat.Quantile(lo, stat.Empirical, d, nil)
		res.Upper[i] = stat.Quantile(hi, stat.Empirical, d, nil)
	}
}

func (m *Model) newRand() *rand.Rand {
	seed := m.opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func poisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	if lambda > 30 {
		n := int(math.Round(lambda + math.Sqrt(lambda)*rng.NormFloat64()))
		if n < 0 {
			return 0
		}
		return n
	}
	limit := math.Exp(-lambda)
	p := 1.0
	k := 0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

func laplace(rng *rand.Rand, scale float64) float64 {
	u := rng.Float64() - 0.5
	for u == -0.5 {
		u = rng.Float64() - 0.5
	}
	if u < 0 {
		return scale * math.Log(1+2*u)
	}
	return -scale * math.Log(1-2*u)
}

func meanAbs(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += math.Abs(x)
	}
	return sum / float64(len(v))
}
