package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/diillson/revenue-forecast-go/internal/domain/entity"
	"github.com/diillson/revenue-forecast-go/internal/domain/repository"
	"github.com/diillson/revenue-forecast-go/internal/shared/types"
	"github.com/diillson/revenue-forecast-go/pkg/logger"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// ForecastUseCase handles the revenue forecast pipeline.
type ForecastUseCase struct {
	revenueRepo repository.RevenueRepository
	forecaster  repository.Forecaster
	exportRepo  repository.ExportRepository
	awsRepo     repository.AWSRepository
	metrics     repository.MetricsRepository
	console     types.ConsoleInterface
	log         *logger.Logger
	now         func() time.Time
}

// NewForecastUseCase creates a new forecast use case. exportRepo, awsRepo and
// metrics may be nil when the matching feature is disabled.
func NewForecastUseCase(
	revenueRepo repository.RevenueRepository,
	forecaster repository.Forecaster,
	exportRepo repository.ExportRepository,
	awsRepo repository.AWSRepository,
	metrics repository.MetricsRepository,
	console types.ConsoleInterface,
	log *logger.Logger,
) *ForecastUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ForecastUseCase{
		revenueRepo: revenueRepo,
		forecaster:  forecaster,
		exportRepo:  exportRepo,
		awsRepo:     awsRepo,
		metrics:     metrics,
		console:     console,
		log:         log,
		now:         time.Now,
	}
}

// WithClock replaces the clock used for demo data and timestamps.
func (uc *ForecastUseCase) WithClock(now func() time.Time) *ForecastUseCase {
	uc.now = now
	return uc
}

// GenerateForecast fetches the history, pads it when sparse, fits the model
// and assembles the output records. The summary is filled as far as the run
// got, even on error.
func (uc *ForecastUseCase) GenerateForecast(ctx context.Context, cfg *types.Config) (report entity.ForecastReport, err error) {
	report.Summary = entity.RunSummary{
		RunID:       uuid.NewString(),
		Horizon:     cfg.Horizon,
		Engine:      uc.forecaster.Name(),
		GeneratedAt: uc.now().UTC(),
	}
	ctx = uc.log.WithRunID(ctx, report.Summary.RunID)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
			uc.log.Error(ctx, "forecast pipeline panicked", err)
		}
	}()

	status := uc.console.Status("Fetching monthly revenue...")
	defer status.Stop()

	// Busca o histórico mensal
	rows, err := uc.revenueRepo.FetchMonthlyRevenue(ctx)
	if err != nil {
		return report, err
	}
	report.Summary.RealMonths = len(rows)

	uc.log.Info(uc.log.WithField(ctx, "months", len(rows)), fmt.Sprintf("Fetched %d months of data", len(rows)))
	for _, row := range rows {
		uc.log.Debug(uc.log.WithFields(ctx, map[string]any{
			"month":   row.Period.Format(entity.PeriodLayout),
			"revenue": row.Revenue,
		}), "monthly revenue")
	}

	policy := BackfillPolicyFromConfig(cfg)
	if len(rows) < policy.MinMonths {
		uc.log.Info(ctx, fmt.Sprintf("Insufficient data (%d months). Generating synthetic historical data...", len(rows)))
	}

	// Completa o histórico quando necessário
	rng := newRand(cfg.Seed)
	history, source := BackfillHistory(rows, policy, uc.now(), rng)
	report.Summary.Source = source
	report.Summary.SyntheticRows = countSynthetic(history)

	spec := SelectModel(len(history), cfg.SeasonalityMinMonths)
	report.Summary.Model = spec

	ctx = uc.log.WithFields(ctx, map[string]any{
		"source": string(source),
		"rows":   len(history),
		"model":  spec.Name,
	})
	uc.log.Info(ctx, "fitting model")
	status.Update(fmt.Sprintf("Fitting %s model on %d months...", spec.Name, len(history)))

	points, err := uc.forecaster.Forecast(ctx, history, spec, cfg.Horizon)
	if err != nil {
		return report, err
	}

	report.Records = AssembleRecords(history, points)
	for _, rec := range report.Records {
		if rec.Type == entity.RecordPredicted {
			report.Summary.PredictedTotal += rec.Yhat
		}
	}

	return report, nil
}

// RunForecast executes the pipeline, writes the JSON document to out and then
// runs the optional trend display, exports, uploads and metrics. A failed
// forecast is reported in the document, so the returned error only covers
// writing to out.
func (uc *ForecastUseCase) RunForecast(ctx context.Context, out io.Writer, cfg *types.Config) error {
	started := time.Now()

	report, err := uc.GenerateForecast(ctx, cfg)
	ctx = uc.log.WithRunID(ctx, report.Summary.RunID)

	if err != nil {
		message := DescribeError(err)
		uc.log.Error(ctx, "forecast failed", err)
		uc.console.LogError("%s", message)
		uc.recordMetrics(ctx, report.Summary, OutcomeError, time.Since(started))
		return writeJSON(out, entity.ErrorResult{Error: message})
	}

	if err := writeJSON(out, report.Records); err != nil {
		return err
	}

	uc.displaySummary(report.Summary)
	if cfg.Trend {
		uc.console.DisplayTrendBars(trendPoints(report.Records))
	}

	paths := uc.exportReports(report, cfg)
	uc.publishReports(ctx, paths)
	uc.recordMetrics(ctx, report.Summary, OutcomeSuccess, time.Since(started))

	return nil
}

// DescribeError maps a pipeline error to the message placed in the error
// document.
func DescribeError(err error) string {
	if errors.Is(err, types.ErrDatabase) {
		var dbErr *types.DatabaseError
		if errors.As(err, &dbErr) {
			return "Database error: " + dbErr.Error()
		}
		return "Database error: " + err.Error()
	}
	return "Unexpected error: " + err.Error()
}

func writeJSON(out io.Writer, v any) error {
	if err := json.NewEncoder(out).Encode(v); err != nil {
		return fmt.Errorf("writing forecast output: %w", err)
	}
	return nil
}

// displaySummary mostra um resumo da execução no console.
func (uc *ForecastUseCase) displaySummary(summary entity.RunSummary) {
	table := uc.console.CreateTable()
	table.AddColumn("Source")
	table.AddColumn("Real Months")
	table.AddColumn("Synthetic Rows")
	table.AddColumn("Model")
	table.AddColumn("Engine")
	table.AddColumn("Horizon")
	table.AddColumn("Predicted Total")

	table.AddRow(
		string(summary.Source),
		summary.RealMonths,
		summary.SyntheticRows,
		summary.Model.Name,
		summary.Engine,
		summary.Horizon,
		fmt.Sprintf("$%.2f", summary.PredictedTotal),
	)

	uc.console.PrintTable(table)
}

// exportReports grava os relatórios solicitados e retorna os caminhos gerados.
func (uc *ForecastUseCase) exportReports(report entity.ForecastReport, cfg *types.Config) []string {
	if uc.exportRepo == nil || cfg.ReportName == "" || len(cfg.ReportType) == 0 {
		return nil
	}

	var paths []string
	for _, reportType := range cfg.ReportType {
		switch reportType {
		case "csv":
			csvPath, err := uc.exportRepo.ExportToCSV(report, cfg.ReportName, cfg.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to CSV: %s", csvPath)
				paths = append(paths, csvPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportToJSON(report, cfg.ReportName, cfg.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to JSON: %s", jsonPath)
				paths = append(paths, jsonPath)
			}
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportToPDF(report, cfg.ReportName, cfg.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to PDF: %s", pdfPath)
				paths = append(paths, pdfPath)
			}
		}
	}
	return paths
}

// publishReports envia os relatórios exportados para o S3.
func (uc *ForecastUseCase) publishReports(ctx context.Context, paths []string) {
	if uc.awsRepo == nil || len(paths) == 0 {
		return
	}

	accountID, err := uc.awsRepo.GetAccountID(ctx)
	if err != nil {
		uc.log.Error(ctx, "resolving AWS identity", err)
		uc.console.LogError("Error checking AWS account: %s", err)
		return
	}
	uc.log.Info(uc.log.WithField(ctx, "account_id", accountID), "publishing reports")

	for _, path := range paths {
		uri, err := uc.awsRepo.UploadReport(ctx, path)
		if err != nil {
			uc.log.Error(uc.log.WithField(ctx, "path", path), "report upload failed", err)
			uc.console.LogError("Failed to upload %s: %s", path, err)
			continue
		}
		uc.console.LogSuccess("Uploaded report to %s", uri)
	}
}

func (uc *ForecastUseCase) recordMetrics(ctx context.Context, summary entity.RunSummary, outcome string, elapsed time.Duration) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.ObserveRun(summary, outcome, elapsed)
	if err := uc.metrics.Flush(); err != nil {
		uc.log.Error(ctx, "writing metrics", err)
		uc.console.LogWarning("Failed to write metrics: %s", err)
	}
}

func trendPoints(records []entity.ForecastRecord) []types.TrendPoint {
	points := make([]types.TrendPoint, 0, len(records))
	for _, rec := range records {
		month := rec.Ds
		if len(month) >= 7 {
			month = month[:7]
		}
		points = append(points, types.TrendPoint{
			Month:     month,
			Value:     rec.Yhat,
			Predicted: rec.Type == entity.RecordPredicted,
		})
	}
	return points
}

func countSynthetic(rows []entity.MonthlyRevenue) int {
	n := 0
	for _, r := range rows {
		if r.Synthetic {
			n++
		}
	}
	return n
}
