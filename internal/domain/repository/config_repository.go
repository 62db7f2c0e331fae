package repository

import (
	"github.com/diillson/revenue-forecast-go/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	Load(args *types.CLIArgs) (*types.Config, error)
}
