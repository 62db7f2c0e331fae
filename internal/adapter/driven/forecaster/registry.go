package forecaster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/diillson/revenue-forecast-go/internal/domain/repository"
	"github.com/diillson/revenue-forecast-go/internal/shared/types"
)

// EngineOptions are the settings shared by every engine.
type EngineOptions struct {
	IntervalWidth      float64
	UncertaintySamples int
	Seed               uint64
}

// Factory builds a Forecaster.
type Factory func(opts EngineOptions) repository.Forecaster

var engines = map[string]Factory{
	ProphetEngineName: NewProphetEngine,
}

// NewEngine resolves name in the engine registry.
func NewEngine(name string, opts EngineOptions) (repository.Forecaster, error) {
	factory, ok := engines[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", types.ErrEngineUnavailable, name, strings.Join(Engines(), ", "))
	}
	return factory(opts), nil
}

// Engines lists the registered engine names.
func Engines() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
