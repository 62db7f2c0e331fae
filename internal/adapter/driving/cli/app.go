package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/diillson/revenue-forecast-go/internal/domain/entity"
	"github.com/diillson/revenue-forecast-go/internal/domain/repository"
	"github.com/diillson/revenue-forecast-go/internal/shared/types"
	"github.com/diillson/revenue-forecast-go/pkg/version"
)

// Runner executes the forecast and writes the JSON document to out.
type Runner interface {
	RunForecast(ctx context.Context, out io.Writer, cfg *types.Config) error
}

// RunnerFactory wires a Runner for the loaded configuration. It fails when a
// required dependency, such as the forecasting engine, is unavailable.
type RunnerFactory func(cfg *types.Config) (Runner, error)

// ExitError asks main to exit with Code. The message was already printed.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	configRepo repository.ConfigRepository
	newRunner  RunnerFactory
	stdout     io.Writer
	stderr     io.Writer
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(configRepo repository.ConfigRepository, newRunner RunnerFactory) *CLIApp {
	app := &CLIApp{
		configRepo: configRepo,
		newRunner:  newRunner,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}

	rootCmd := &cobra.Command{
		Use:           "revenue-forecast",
		Short:         "Forecast monthly shop revenue from order history",
		Long:          "Reads monthly revenue from the orders database, fits a trend and seasonality model and prints historical and predicted months as JSON on stdout.",
		Version:       version.FormatVersion(),
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "Revenue Forecast version: %s\n" .Version}}`)

	// Adiciona flags de linha de comando
	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.String("db-dsn", "", "Database connection string (default: $REVFORECAST_DB_DSN)")
	flags.String("db-driver", "pgx", "Database driver: pgx, pq, sqlite")
	flags.String("item-type", "shop", "Order item type whose revenue is forecast")
	flags.IntP("horizon", "H", 3, "Number of future months to predict")
	flags.StringP("model", "m", "prophet", "Forecasting engine")
	flags.Uint64("seed", 0, "Random seed for demo data and intervals (0 = random)")
	flags.StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	flags.StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, pdf")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	flags.Bool("trend", false, "Display the historical and predicted months as bars")
	flags.BoolP("quiet", "q", false, "Disable console output on stderr")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "console", "Log format: console, json")
	flags.String("s3-bucket", "", "Upload exported reports to this S3 bucket")
	flags.String("s3-prefix", "", "Key prefix for uploaded reports")
	flags.StringP("aws-profile", "p", "", "AWS profile used for S3 uploads")
	flags.StringP("aws-region", "r", "", "AWS region used for S3 uploads")
	flags.String("metrics-file", "", "Write Prometheus run metrics to this textfile")

	app.rootCmd = rootCmd
	return app
}

// SetOutput redirects stdout and stderr, mostly for tests.
func (app *CLIApp) SetOutput(stdout, stderr io.Writer) {
	app.stdout = stdout
	app.stderr = stderr
	app.rootCmd.SetOut(stdout)
	app.rootCmd.SetErr(stderr)
}

// SetArgs overrides os.Args[1:].
func (app *CLIApp) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

// Execute runs the CLI application.
func (app *CLIApp) Execute(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// parseArgs converte as flags em CLIArgs. Só flags informadas explicitamente
// são preenchidas, para não sobrescrever arquivo e ambiente com os padrões.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	flags := app.rootCmd.Flags()

	args := &types.CLIArgs{}
	args.ConfigFile, _ = flags.GetString("config-file")

	args.DatabaseDSN = changedString(flags, "db-dsn")
	args.DatabaseDriver = changedString(flags, "db-driver")
	args.ItemType = changedString(flags, "item-type")
	args.Model = changedString(flags, "model")
	args.ReportName = changedString(flags, "report-name")
	args.LogLevel = changedString(flags, "log-level")
	args.LogFormat = changedString(flags, "log-format")
	args.S3Bucket = changedString(flags, "s3-bucket")
	args.S3Prefix = changedString(flags, "s3-prefix")
	args.AWSProfile = changedString(flags, "aws-profile")
	args.AWSRegion = changedString(flags, "aws-region")
	args.MetricsFile = changedString(flags, "metrics-file")
	args.Trend = changedBool(flags, "trend")
	args.Quiet = changedBool(flags, "quiet")

	if flags.Changed("horizon") {
		horizon, _ := flags.GetInt("horizon")
		args.Horizon = &horizon
	}
	if flags.Changed("seed") {
		seed, _ := flags.GetUint64("seed")
		args.Seed = &seed
	}
	if flags.Changed("report-type") {
		args.ReportType, _ = flags.GetStringSlice("report-type")
	}

	// Converte o diretório para caminho absoluto
	if dir := changedString(flags, "dir"); dir != nil {
		absDir, err := filepath.Abs(*dir)
		if err != nil {
			return nil, err
		}
		args.Dir = &absDir
	}

	return args, nil
}

func changedString(flags *pflag.FlagSet, name string) *string {
	if !flags.Changed(name) {
		return nil
	}
	value, _ := flags.GetString(name)
	return &value
}

func changedBool(flags *pflag.FlagSet, name string) *bool {
	if !flags.Changed(name) {
		return nil
	}
	value, _ := flags.GetBool(name)
	return &value
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, _ []string) error {
	cliArgs, err := app.parseArgs()
	if err != nil {
		return app.fail(err)
	}

	// Carrega e valida a configuração
	cfg, err := app.configRepo.Load(cliArgs)
	if err != nil {
		return app.fail(err)
	}

	if !cfg.Quiet {
		displayWelcomeBanner(app.stderr)
	}

	// Resolve as dependências antes de qualquer trabalho
	runner, err := app.newRunner(cfg)
	if err != nil {
		return app.fail(err)
	}

	return runner.RunForecast(cmd.Context(), app.stdout, cfg)
}

// fail prints err as the JSON error document and asks for exit status 1.
func (app *CLIApp) fail(err error) error {
	if encErr := json.NewEncoder(app.stdout).Encode(entity.ErrorResult{Error: err.Error()}); encErr != nil {
		return fmt.Errorf("writing error output: %w", encErr)
	}
	return &ExitError{Code: 1, Err: err}
}
