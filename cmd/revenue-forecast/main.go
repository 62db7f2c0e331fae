package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/diillson/revenue-forecast-go/internal/adapter/driven/aws"
	"github.com/diillson/revenue-forecast-go/internal/adapter/driven/config"
	"github.com/diillson/revenue-forecast-go/internal/adapter/driven/database"
	"github.com/diillson/revenue-forecast-go/internal/adapter/driven/export"
	"github.com/diillson/revenue-forecast-go/internal/adapter/driven/forecaster"
	"github.com/diillson/revenue-forecast-go/internal/adapter/driven/metrics"
	"github.com/diillson/revenue-forecast-go/internal/adapter/driving/cli"
	"github.com/diillson/revenue-forecast-go/internal/application/usecase"
	"github.com/diillson/revenue-forecast-go/internal/domain/repository"
	"github.com/diillson/revenue-forecast-go/internal/shared/types"
	"github.com/diillson/revenue-forecast-go/pkg/console"
	"github.com/diillson/revenue-forecast-go/pkg/logger"
)

const serviceName = "revenue-forecast"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(config.NewConfigRepository(), newForecastRunner)

	// Executa o aplicativo
	if err := app.Execute(ctx); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			stop()
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// newForecastRunner monta o caso de uso a partir da configuração carregada.
func newForecastRunner(cfg *types.Config) (cli.Runner, error) {
	level := logger.ParseLevel(cfg.LogLevel)
	if cfg.Quiet {
		level = zerolog.Disabled
	}
	log := logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       level,
		Format:      cfg.LogFormat,
		Output:      os.Stderr,
	})

	// O motor de previsão é resolvido antes de qualquer consulta
	engine, err := forecaster.NewEngine(cfg.Model, forecaster.EngineOptions{
		IntervalWidth:      cfg.IntervalWidth,
		UncertaintySamples: cfg.UncertaintySamples,
		Seed:               cfg.Seed,
	})
	if err != nil {
		return nil, err
	}

	// Inicializa os repositórios
	revenueRepo := database.NewRevenueRepository(database.Options{
		Driver: cfg.DatabaseDriver,
		DSN:    cfg.DatabaseDSN,
	}, cfg.ItemType, log)
	exportRepo := export.NewExportRepository()

	var awsRepo repository.AWSRepository
	if cfg.S3Bucket != "" {
		awsRepo = aws.NewAWSRepository(aws.Options{
			Bucket:  cfg.S3Bucket,
			Prefix:  cfg.S3Prefix,
			Profile: cfg.AWSProfile,
			Region:  cfg.AWSRegion,
		})
	}

	var metricsRepo repository.MetricsRepository
	if cfg.MetricsFile != "" {
		metricsRepo = metrics.NewRunMetrics(cfg.MetricsFile)
	}

	consoleImpl := console.NewConsole(os.Stderr, cfg.Quiet)

	return usecase.NewForecastUseCase(
		revenueRepo,
		engine,
		exportRepo,
		awsRepo,
		metricsRepo,
		consoleImpl,
		log,
	), nil
}
