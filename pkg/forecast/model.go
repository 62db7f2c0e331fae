package forecast

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// noisePrior is the assumed observation noise, in scaled units, used to turn
// prior scales into ridge penalties: penalty = noisePrior² / scale².
const noisePrior = 0.1

// baseTrendPriorScale is the prior scale of the trend offset and base slope.
const baseTrendPriorScale = 5.0

// Model is a trend + seasonality forecaster. It is not safe for concurrent use.
type Model struct {
	opts          Options
	seasonalities []seasonality

	fitted  bool
	history []time.Time
	start   time.Time
	span    float64 // seconds between first and last history point
	yScale  float64

	changepoints []float64 // scaled time
	offset       float64
	slope        float64
	deltas       []float64
	beta         []float64 // seasonal coefficients
	sigma        float64   // residual std in scaled units
}

// New creates an unfitted model.
func New(opts Options) *Model {
	return &Model{
		opts:          opts,
		seasonalities: opts.seasonalities(),
	}
}

// Fit estimates the model from the history. Timestamps need not be sorted;
// duplicates are allowed.
func (m *Model) Fit(ts []time.Time, ys []float64) error {
	if err := m.opts.validate(); err != nil {
		return err
	}
	if len(ts) != len(ys) {
		return fmt.Errorf("%w: %d timestamps, %d values", ErrLengthMismatch, len(ts), len(ys))
	}
	if len(ts) < 2 {
		return ErrInsufficientData
	}
	for _, y := range ys {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return ErrNonFinite
		}
	}

	order := make([]int, len(ts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return ts[order[a]].Before(ts[order[b]]) })

	n := len(ts)
	history := make([]time.Time, n)
	y := make([]float64, n)
	for i, idx := range order {
		history[i] = ts[idx]
		y[i] = ys[idx]
	}

	span := history[n-1].Sub(history[0]).Seconds()
	if span <= 0 {
		return ErrInsufficientData
	}

	m.history = history
	m.start = history[0]
	m.span = span
	m.yScale = absMax(y)
	floats.Scale(1/m.yScale, y)

	t := make([]float64, n)
	days := make([]float64, n)
	for i, tp := range history {
		t[i] = m.scaleTime(tp)
		days[i] = dayNumber(tp)
	}

	m.changepoints = placeChangepoints(t, m.opts.NChangepoints, m.opts.ChangepointRange)

	trendX, trendPen := m.trendDesign(t)
	seasX, seasPen := m.seasonalDesign(days)

	switch m.opts.SeasonalityMode {
	case Additive:
		x, pen := hstack(trendX, seasX), append(append([]float64{}, trendPen...), seasPen...)
		coef, err := ridge(x, y, pen)
		if err != nil {
			return err
		}
		nt := len(trendPen)
		m.setTrend(coef[:nt])
		m.beta = coef[nt:]
	case Multiplicative:
		coef, err := ridge(trendX, y, trendPen)
		if err != nil {
			return err
		}
		m.setTrend(coef)
		m.beta = nil
		if seasX != nil {
			z := make([]float64, n)
			for i := range z {
				g := m.trendAt(t[i], nil)
				if math.Abs(g) > 1e-9 {
					z[i] = y[i]/g - 1
				}
			}
			if m.beta, err = ridge(seasX, z, seasPen); err != nil {
				return err
			}
		}
	}

	var sq float64
	for i := range y {
		r := y[i] - m.combine(m.trendAt(t[i], nil), m.seasonalAt(days[i]))
		sq += r * r
	}
	m.sigma = math.Sqrt(sq / float64(n))
	m.fitted = true
	return nil
}

// MakeFuture returns the fitted history followed by periods future timestamps.
func (m *Model) MakeFuture(periods int, freq Frequency) ([]time.Time, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if periods < 0 {
		return nil, fmt.Errorf("%w: negative periods", ErrInvalidOptions)
	}
	out := make([]time.Time, 0, len(m.history)+periods)
	out = append(out, m.history...)
	last := m.history[len(m.history)-1]
	for i := 1; i <= periods; i++ {
		switch freq {
		case MonthStart:
			ms := time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, last.Location())
			out = append(out, ms.AddDate(0, i, 0))
		case Day:
			out = append(out, last.AddDate(0, 0, i))
		default:
			return nil, fmt.Errorf("%w: unknown frequency %d", ErrInvalidOptions, freq)
		}
	}
	return out, nil
}

// Predict evaluates the model at ts.
func (m *Model) Predict(ts []time.Time) (*Results, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	n := len(ts)
	res := &Results{
		T:        append([]time.Time(nil), ts...),
		Forecast: make([]float64, n),
		Upper:    make([]float64, n),
		Lower:    make([]float64, n),
		Trend:    make([]float64, n),
	}

	t := make([]float64, n)
	seas := make([]float64, n)
	for i, tp := range ts {
		t[i] = m.scaleTime(tp)
		seas[i] = m.seasonalAt(dayNumber(tp))
		g := m.trendAt(t[i], nil)
		res.Trend[i] = g * m.yScale
		res.Forecast[i] = m.combine(g, seas[i]) * m.yScale
	}

	if m.opts.UncertaintySamples == 0 {
		copy(res.Lower, res.Forecast)
		copy(res.Upper, res.Forecast)
		return res, nil
	}
	m.intervals(t, seas, res)
	return res, nil
}

func (m *Model) setTrend(coef []float64) {
	m.offset = coef[0]
	m.slope = coef[1]
	m.deltas = append([]float64(nil), coef[2:]...)
}

func (m *Model) scaleTime(ts time.Time) float64 {
	return ts.Sub(m.start).Seconds() / m.span
}

// trendAt evaluates the piecewise linear trend at scaled time t. Extra
// changepoints (used when sampling future trends) are added on top.
func (m *Model) trendAt(t float64, extra []changepoint) float64 {
	g := m.offset + m.slope*t
	for j, s := range m.changepoints {
		if t > s {
			g += m.deltas[j] * (t - s)
		}
	}
	for _, c := range extra {
		if t > c.at {
			g += c.delta * (t - c.at)
		}
	}
	return g
}

func (m *Model) seasonalAt(day float64) float64 {
	if len(m.beta) == 0 {
		return 0
	}
	var s float64
	for j, f := range m.fourierRow(day) {
		s += m.beta[j] * f
	}
	return s
}

func (m *Model) combine(trend, seasonal float64) float64 {
	if m.opts.SeasonalityMode == Multiplicative {
		return trend * (1 + seasonal)
	}
	return trend + seasonal
}

func (m *Model) trendDesign(t []float64) (*mat.Dense, []float64) {
	p := 2 + len(m.changepoints)
	x := mat.NewDense(len(t), p, nil)
	for i, ti := range t {
		x.Set(i, 0, 1)
		x.Set(i, 1, ti)
		for j, s := range m.changepoints {
			if ti > s {
				x.Set(i, 2+j, ti-s)
			}
		}
	}
	pen := make([]float64, p)
	pen[0] = penalty(baseTrendPriorScale)
	pen[1] = penalty(baseTrendPriorScale)
	for j := 2; j < p; j++ {
		pen[j] = penalty(m.opts.ChangepointPriorScale)
	}
	return x, pen
}

func (m *Model) seasonalDesign(days []float64) (*mat.Dense, []float64) {
	p := m.fourierWidth()
	if p == 0 {
		return nil, nil
	}
	x := mat.NewDense(len(days), p, nil)
	for i, d := range days {
		x.SetRow(i, m.fourierRow(d))
	}
	pen := make([]float64, p)
	for j := range pen {
		pen[j] = penalty(m.opts.SeasonalityPriorScale)
	}
	return x, pen
}

func (m *Model) fourierWidth() int {
	var w int
	for _, s := range m.seasonalities {
		w += 2 * s.order
	}
	return w
}

func (m *Model) fourierRow(day float64) []float64 {
	row := make([]float64, 0, m.fourierWidth())
	for _, s := range m.seasonalities {
		for k := 1; k <= s.order; k++ {
			arg := 2 * math.Pi * float64(k) * day / s.period
			row = append(row, math.Sin(arg), math.Cos(arg))
		}
	}
	return row
}

// placeChangepoints spreads n changepoints over the first frac of the history,
// skipping the first point. Short histories get fewer changepoints.
func placeChangepoints(t []float64, n int, frac float64) []float64 {
	histSize := int(math.Floor(float64(len(t)) * frac))
	if n+1 > histSize {
		n = histSize - 1
	}
	if n <= 0 {
		return nil
	}
	out := make([]float64, 0, n)
	step := float64(histSize-1) / float64(n)
	for i := 1; i <= n; i++ {
		idx := int(math.Round(step * float64(i)))
		out = append(out, t[idx])
	}
	return out
}

// ridge solves (XᵀX + diag(pen)) β = Xᵀy.
func ridge(x *mat.Dense, y []float64, pen []float64) ([]float64, error) {
	_, p := x.Dims()
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for j := 0; j < p; j++ {
		xtx.Set(j, j, xtx.At(j, j)+pen[j])
	}
	var xty mat.VecDense
	xty.MulVec(x.T(), mat.NewVecDense(len(y), y))

	var coef mat.VecDense
	if err := coef.SolveVec(&xtx, &xty); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("forecast: solving normal equations: %w", err)
		}
	}
	return mat.Col(nil, 0, &coef), nil
}

func hstack(a, b *mat.Dense) *mat.Dense {
	if b == nil {
		return a
	}
	var out mat.Dense
	out.Augment(a, b)
	return &out
}

func penalty(scale float64) float64 {
	return (noisePrior * noisePrior) / (scale * scale)
}

func absMax(y []float64) float64 {
	var mx float64
	for _, v := range y {
		if a := math.Abs(v); a > mx {
			mx = a
		}
	}
	if mx == 0 {
		return 1
	}
	return mx
}

func dayNumber(t time.Time) float64 {
	return float64(t.Unix()) / 86400
}
