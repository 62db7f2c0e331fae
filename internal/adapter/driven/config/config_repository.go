package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/diillson/revenue-forecast-go/internal/domain/repository"
	"github.com/diillson/revenue-forecast-go/internal/shared/types"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct {
	envFiles []string
	validate *validator.Validate
}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
// envFiles são carregados com godotenv antes de ler o ambiente; sem
// argumentos, tenta o .env do diretório atual.
func NewConfigRepository(envFiles ...string) repository.ConfigRepository {
	return &ConfigRepositoryImpl{
		envFiles: envFiles,
		validate: newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Load monta a configuração: padrões, arquivo, ambiente e, por último, as
// flags informadas explicitamente. O resultado é validado.
func (r *ConfigRepositoryImpl) Load(args *types.CLIArgs) (*types.Config, error) {
	if args == nil {
		args = &types.CLIArgs{}
	}

	cfg := types.DefaultConfig()
	if args.ConfigFile != "" {
		fileCfg, err := r.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrInvalidConfig, err)
		}
		cfg = fileCfg
	}

	// .env ausente não é erro
	_ = godotenv.Load(r.envFiles...)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing environment: %v", types.ErrInvalidConfig, err)
	}

	applyArgs(cfg, args)

	if err := r.validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidConfig, formatValidationErrors(err))
	}

	return cfg, nil
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON sobre
// os valores padrão.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := filepath.Ext(filePath)
	fileExtension = strings.ToLower(fileExtension)

	// Verifica se o arquivo existe
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	// Lê o arquivo
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := types.DefaultConfig()

	switch fileExtension {
	case ".toml":
		tree, err := toml.LoadBytes(fileData)
		if err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
		// Passa pelo JSON para preservar os padrões das chaves ausentes.
		raw, err := json.Marshal(tree.ToMap())
		if err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
		if err := json.Unmarshal(raw, config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	return config, nil
}

func applyArgs(cfg *types.Config, args *types.CLIArgs) {
	setString(&cfg.DatabaseDSN, args.DatabaseDSN)
	setString(&cfg.DatabaseDriver, args.DatabaseDriver)
	setString(&cfg.ItemType, args.ItemType)
	setString(&cfg.Model, args.Model)
	setString(&cfg.ReportName, args.ReportName)
	setString(&cfg.Dir, args.Dir)
	setString(&cfg.LogLevel, args.LogLevel)
	setString(&cfg.LogFormat, args.LogFormat)
	setString(&cfg.S3Bucket, args.S3Bucket)
	setString(&cfg.S3Prefix, args.S3Prefix)
	setString(&cfg.AWSProfile, args.AWSProfile)
	setString(&cfg.AWSRegion, args.AWSRegion)
	setString(&cfg.MetricsFile, args.MetricsFile)

	if args.Horizon != nil {
		cfg.Horizon = *args.Horizon
	}
	if args.Seed != nil {
		cfg.Seed = *args.Seed
	}
	if args.Trend != nil {
		cfg.Trend = *args.Trend
	}
	if args.Quiet != nil {
		cfg.Quiet = *args.Quiet
	}
	if len(args.ReportType) > 0 {
		cfg.ReportType = args.ReportType
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func formatValidationErrors(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	messages := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		messages = append(messages, fmt.Sprintf("%s %s", fieldErr.Field(), validationMessage(fieldErr)))
	}
	return strings.Join(messages, "; ")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	}
	return "is invalid"
}
