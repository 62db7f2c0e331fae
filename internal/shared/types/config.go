package types

// Config represents the application configuration. It is assembled from
// defaults, an optional TOML/YAML/JSON file, the environment and CLI flags.
type Config struct {
	DatabaseDSN    string `json:"database_dsn" yaml:"database_dsn" toml:"database_dsn" envconfig:"REVFORECAST_DB_DSN"`
	DatabaseDriver string `json:"database_driver" yaml:"database_driver" toml:"database_driver" envconfig:"REVFORECAST_DB_DRIVER" validate:"required,oneof=pgx pq sqlite"`
	ItemType       string `json:"item_type" yaml:"item_type" toml:"item_type" envconfig:"REVFORECAST_ITEM_TYPE" validate:"required"`

	MinMonths            int     `json:"min_months" yaml:"min_months" toml:"min_months" envconfig:"REVFORECAST_MIN_MONTHS" validate:"min=0"`
	BackfillMonths       int     `json:"backfill_months" yaml:"backfill_months" toml:"backfill_months" envconfig:"REVFORECAST_BACKFILL_MONTHS" validate:"min=1,max=120"`
	BackfillDecay        float64 `json:"backfill_decay" yaml:"backfill_decay" toml:"backfill_decay" envconfig:"REVFORECAST_BACKFILL_DECAY" validate:"gt=0,lte=1"`
	DemoWindowDays       int     `json:"demo_window_days" yaml:"demo_window_days" toml:"demo_window_days" envconfig:"REVFORECAST_DEMO_WINDOW_DAYS" validate:"min=31"`
	DemoBase             float64 `json:"demo_base" yaml:"demo_base" toml:"demo_base" envconfig:"REVFORECAST_DEMO_BASE" validate:"gt=0"`
	DemoGrowth           float64 `json:"demo_growth" yaml:"demo_growth" toml:"demo_growth" envconfig:"REVFORECAST_DEMO_GROWTH" validate:"gt=0"`
	DemoJitter           float64 `json:"demo_jitter" yaml:"demo_jitter" toml:"demo_jitter" envconfig:"REVFORECAST_DEMO_JITTER" validate:"gte=0,lt=1"`
	SeasonalityMinMonths int     `json:"seasonality_min_months" yaml:"seasonality_min_months" toml:"seasonality_min_months" envconfig:"REVFORECAST_SEASONALITY_MIN_MONTHS" validate:"min=2"`

	Horizon            int     `json:"horizon" yaml:"horizon" toml:"horizon" envconfig:"REVFORECAST_HORIZON" validate:"min=1,max=36"`
	Model              string  `json:"model" yaml:"model" toml:"model" envconfig:"REVFORECAST_MODEL" validate:"required"`
	IntervalWidth      float64 `json:"interval_width" yaml:"interval_width" toml:"interval_width" envconfig:"REVFORECAST_INTERVAL_WIDTH" validate:"gt=0,lt=1"`
	UncertaintySamples int     `json:"uncertainty_samples" yaml:"uncertainty_samples" toml:"uncertainty_samples" envconfig:"REVFORECAST_UNCERTAINTY_SAMPLES" validate:"min=0,max=100000"`
	Seed               uint64  `json:"seed" yaml:"seed" toml:"seed" envconfig:"REVFORECAST_SEED"`

	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level" envconfig:"REVFORECAST_LOG_LEVEL"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format" envconfig:"REVFORECAST_LOG_FORMAT" validate:"oneof=json console"`
	Quiet     bool   `json:"quiet" yaml:"quiet" toml:"quiet" envconfig:"REVFORECAST_QUIET"`
	Trend     bool   `json:"trend" yaml:"trend" toml:"trend" envconfig:"REVFORECAST_TREND"`

	ReportName  string   `json:"report_name" yaml:"report_name" toml:"report_name" envconfig:"REVFORECAST_REPORT_NAME"`
	ReportType  []string `json:"report_type" yaml:"report_type" toml:"report_type" envconfig:"REVFORECAST_REPORT_TYPE" validate:"dive,oneof=csv json pdf"`
	Dir         string   `json:"dir" yaml:"dir" toml:"dir" envconfig:"REVFORECAST_DIR"`
	S3Bucket    string   `json:"s3_bucket" yaml:"s3_bucket" toml:"s3_bucket" envconfig:"REVFORECAST_S3_BUCKET"`
	S3Prefix    string   `json:"s3_prefix" yaml:"s3_prefix" toml:"s3_prefix" envconfig:"REVFORECAST_S3_PREFIX"`
	AWSProfile  string   `json:"aws_profile" yaml:"aws_profile" toml:"aws_profile" envconfig:"REVFORECAST_AWS_PROFILE"`
	AWSRegion   string   `json:"aws_region" yaml:"aws_region" toml:"aws_region" envconfig:"REVFORECAST_AWS_REGION"`
	MetricsFile string   `json:"metrics_file" yaml:"metrics_file" toml:"metrics_file" envconfig:"REVFORECAST_METRICS_FILE"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		DatabaseDriver: "pgx",
		ItemType:       "shop",

		MinMonths:            3,
		BackfillMonths:       6,
		BackfillDecay:        0.85,
		DemoWindowDays:       180,
		DemoBase:             1000,
		DemoGrowth:           1.08,
		DemoJitter:           0.1,
		SeasonalityMinMonths: 12,

		Horizon:            3,
		Model:              "prophet",
		IntervalWidth:      0.8,
		UncertaintySamples: 1000,

		LogLevel:   "info",
		LogFormat:  "console",
		ReportType: []string{"csv"},
	}
}
