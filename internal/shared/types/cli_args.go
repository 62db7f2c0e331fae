package types

// CLIArgs represents the command-line arguments.
// Pointer fields are nil when the flag was not given, so they only override
// configuration that was explicitly requested on the command line.
type CLIArgs struct {
	ConfigFile string

	DatabaseDSN    *string
	DatabaseDriver *string
	ItemType       *string
	Horizon        *int
	Model          *string
	Seed           *uint64

	ReportName  *string
	ReportType  []string
	Dir         *string
	Trend       *bool
	Quiet       *bool
	LogLevel    *string
	LogFormat   *string
	S3Bucket    *string
	S3Prefix    *string
	AWSProfile  *string
	AWSRegion   *string
	MetricsFile *string
}
