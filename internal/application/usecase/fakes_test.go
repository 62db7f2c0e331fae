package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/diillson/revenue-forecast-go/internal/domain/entity"
	"github.com/diillson/revenue-forecast-go/internal/shared/types"
)

type fakeRevenueRepo struct {
	rows []entity.MonthlyRevenue
	err  error
}

func (f *fakeRevenueRepo) FetchMonthlyRevenue(ctx context.Context) ([]entity.MonthlyRevenue, error) {
	return f.rows, f.err
}

// fakeForecaster echoes the history and extends it linearly by step per
// month. offset shifts every future value, which lets tests push predictions
// below zero.
type fakeForecaster struct {
	step    float64
	offset  float64
	err     error
	panics  bool
	gotSpec entity.ModelSpec
	gotRows int
}

func (f *fakeForecaster) Name() string { return "fake" }

func (f *fakeForecaster) Forecast(ctx context.Context, history []entity.MonthlyRevenue, spec entity.ModelSpec, horizon int) ([]entity.ForecastPoint, error) {
	if f.panics {
		panic("model exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	f.gotSpec = spec
	f.gotRows = len(history)

	points := make([]entity.ForecastPoint, 0, len(history)+horizon)
	for _, row := range history {
		points = append(points, entity.ForecastPoint{Period: row.Period, Yhat: row.Revenue, Lower: row.Revenue, Upper: row.Revenue})
	}
	last := history[len(history)-1]
	for i := 1; i <= horizon; i++ {
		yhat := last.Revenue + f.step*float64(i) + f.offset
		points = append(points, entity.ForecastPoint{
			Period: last.Period.AddDate(0, i, 0),
			Yhat:   yhat,
			Lower:  yhat - 5,
			Upper:  yhat + 5,
		})
	}
	return points, nil
}

type fakeExporter struct {
	calls []string
	fail  map[string]bool
}

func (f *fakeExporter) export(kind, name, dir string) (string, error) {
	f.calls = append(f.calls, kind)
	if f.fail[kind] {
		return "", fmt.Errorf("%s export failed", kind)
	}
	return filepath.Join(dir, name+"."+kind), nil
}

func (f *fakeExporter) ExportToCSV(report entity.ForecastReport, filename string, outputDir string) (string, error) {
	return f.export("csv", filename, outputDir)
}

func (f *fakeExporter) ExportToJSON(report entity.ForecastReport, filename string, outputDir string) (string, error) {
	return f.export("json", filename, outputDir)
}

func (f *fakeExporter) ExportToPDF(report entity.ForecastReport, filename string, outputDir string) (string, error) {
	return f.export("pdf", filename, outputDir)
}

type fakeAWS struct {
	identityErr error
	uploaded    []string
}

func (f *fakeAWS) GetAccountID(ctx context.Context) (string, error) {
	if f.identityErr != nil {
		return "", f.identityErr
	}
	return "123456789012", nil
}

func (f *fakeAWS) UploadReport(ctx context.Context, path string) (string, error) {
	f.uploaded = append(f.uploaded, path)
	return "s3://bucket/" + filepath.Base(path), nil
}

type fakeMetrics struct {
	outcome  string
	summary  entity.RunSummary
	flushed  bool
	flushErr error
}

func (f *fakeMetrics) ObserveRun(summary entity.RunSummary, outcome string, duration time.Duration) {
	f.summary = summary
	f.outcome = outcome
}

func (f *fakeMetrics) Flush() error {
	f.flushed = true
	return f.flushErr
}

type fakeConsole struct {
	errors []string
	trend  []types.TrendPoint
	tables int
}

func (c *fakeConsole) LogInfo(format string, a ...interface{})    {}
func (c *fakeConsole) LogWarning(format string, a ...interface{}) {}
func (c *fakeConsole) LogSuccess(format string, a ...interface{}) {}

func (c *fakeConsole) LogError(format string, a ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, a...))
}

func (c *fakeConsole) Status(message string) types.StatusHandle { return nopStatus{} }

func (c *fakeConsole) CreateTable() types.TableInterface { return &nopTable{} }

func (c *fakeConsole) PrintTable(table types.TableInterface) { c.tables++ }

func (c *fakeConsole) DisplayTrendBars(points []types.TrendPoint) { c.trend = points }

type nopStatus struct{}

func (nopStatus) Update(string) {}
func (nopStatus) Stop()         {}

type nopTable struct{}

func (*nopTable) AddColumn(name string, options ...interface{}) {}
func (*nopTable) AddRow(cells ...interface{})                   {}
func (*nopTable) Render() string                                { return "" }

var errBoom = errors.New("boom")

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func testConfig() *types.Config {
	cfg := types.DefaultConfig()
	cfg.Seed = 42
	return cfg
}
