package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/revenue-forecast-go/internal/shared/types"
)

type fakeConfigRepo struct {
	err     error
	gotArgs *types.CLIArgs
}

func (f *fakeConfigRepo) LoadConfigFile(string) (*types.Config, error) {
	return types.DefaultConfig(), nil
}

func (f *fakeConfigRepo) Load(args *types.CLIArgs) (*types.Config, error) {
	f.gotArgs = args
	if f.err != nil {
		return nil, f.err
	}
	cfg := types.DefaultConfig()
	if args.Quiet != nil {
		cfg.Quiet = *args.Quiet
	}
	if args.Horizon != nil {
		cfg.Horizon = *args.Horizon
	}
	return cfg, nil
}

type fakeRunner struct {
	called bool
	cfg    *types.Config
}

func (r *fakeRunner) RunForecast(_ context.Context, out io.Writer, cfg *types.Config) error {
	r.called = true
	r.cfg = cfg
	_, err := fmt.Fprintln(out, "[]")
	return err
}

func newTestApp(repo *fakeConfigRepo, runner *fakeRunner, factoryErr error, args ...string) (*CLIApp, *bytes.Buffer, *bytes.Buffer) {
	app := NewCLIApp(repo, func(*types.Config) (Runner, error) {
		if factoryErr != nil {
			return nil, factoryErr
		}
		return runner, nil
	})
	var stdout, stderr bytes.Buffer
	app.SetOutput(&stdout, &stderr)
	app.SetArgs(args)
	return app, &stdout, &stderr
}

func TestRunPassesExplicitFlagsOnly(t *testing.T) {
	repo := &fakeConfigRepo{}
	runner := &fakeRunner{}
	app, stdout, stderr := newTestApp(repo, runner, nil, "--horizon", "5", "-d", "reports", "-y", "csv,pdf", "--seed", "7")

	require.NoError(t, app.Execute(context.Background()))

	assert.True(t, runner.called)
	assert.Equal(t, 5, runner.cfg.Horizon)
	assert.Equal(t, "[]\n", stdout.String())
	assert.Contains(t, stderr.String(), "Revenue Forecast CLI")

	args := repo.gotArgs
	require.NotNil(t, args.Horizon)
	assert.Equal(t, 5, *args.Horizon)
	require.NotNil(t, args.Seed)
	assert.Equal(t, uint64(7), *args.Seed)
	assert.Equal(t, []string{"csv", "pdf"}, args.ReportType)
	require.NotNil(t, args.Dir)
	assert.True(t, filepath.IsAbs(*args.Dir))
	assert.Equal(t, "reports", filepath.Base(*args.Dir))

	assert.Nil(t, args.DatabaseDSN)
	assert.Nil(t, args.DatabaseDriver)
	assert.Nil(t, args.Model)
	assert.Nil(t, args.Quiet)
	assert.Nil(t, args.Trend)
}

func TestRunQuietSkipsBanner(t *testing.T) {
	runner := &fakeRunner{}
	app, stdout, stderr := newTestApp(&fakeConfigRepo{}, runner, nil, "-q")

	require.NoError(t, app.Execute(context.Background()))

	assert.True(t, runner.called)
	assert.Equal(t, "[]\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunInvalidConfigPrintsJSONError(t *testing.T) {
	repo := &fakeConfigRepo{err: fmt.Errorf("%w: horizon must be at least 1", types.ErrInvalidConfig)}
	runner := &fakeRunner{}
	app, stdout, _ := newTestApp(repo, runner, nil, "--horizon", "0")

	err := app.Execute(context.Background())

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
	assert.ErrorIs(t, err, types.ErrInvalidConfig)
	assert.JSONEq(t, `{"error":"invalid configuration: horizon must be at least 1"}`, stdout.String())
	assert.False(t, runner.called)
}

func TestRunUnavailableEngineExitsWithError(t *testing.T) {
	runner := &fakeRunner{}
	factoryErr := fmt.Errorf("%w: %q (available: prophet)", types.ErrEngineUnavailable, "arima")
	app, stdout, _ := newTestApp(&fakeConfigRepo{}, runner, factoryErr, "-q", "-m", "arima")

	err := app.Execute(context.Background())

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
	assert.ErrorIs(t, err, types.ErrEngineUnavailable)
	assert.Contains(t, stdout.String(), `"error":`)
	assert.Contains(t, stdout.String(), "arima")
	assert.False(t, runner.called)
}

func TestRunRejectsPositionalArgs(t *testing.T) {
	app, _, _ := newTestApp(&fakeConfigRepo{}, &fakeRunner{}, nil, "extra")
	assert.Error(t, app.Execute(context.Background()))
}
