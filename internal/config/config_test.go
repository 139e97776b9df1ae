package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SalaryPrep/internal/prep"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")

	cfg := Load()

	assert.Equal(t, "csv", cfg.Source.Format)
	assert.Equal(t, 3, cfg.Source.MaxAttempts)
	require.NotNil(t, cfg.Prep.TrainFraction)
	assert.Equal(t, 0.8, *cfg.Prep.TrainFraction)

	opts := cfg.Prep.Options()
	assert.Equal(t, 0.8, opts.TrainFraction)
	assert.Equal(t, 100, opts.RemoteThreshold)
	assert.Equal(t, prep.SizeScale{"S": 1, "M": 2, "L": 3}, opts.CompanySizeScale)
	assert.Equal(t, prep.MissingDrop, opts.MissingSalary)
	assert.NotNil(t, opts.Source)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source:
  url: https://example.org/salaries.html
  format: html
  timeout: 5s
prep:
  trainFraction: 0.5
  remoteThreshold: 50
  companySizeScale:
    S: 10
    L: 30
  missingSalary: impute
logging:
  format: json
`), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv(seedEnv, "7")
	t.Setenv(databaseDSNEnv, "postgres://prep@localhost/features")
	t.Setenv(trainFractionEnv, "")

	cfg := Load()

	assert.Equal(t, "https://example.org/salaries.html", cfg.Source.URL)
	assert.Equal(t, "html", cfg.Source.Format)
	assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
	assert.Equal(t, "ds_salaries", cfg.Source.Name)
	assert.Equal(t, "postgres://prep@localhost/features", cfg.Database.DSN)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)

	opts := cfg.Prep.Options()
	assert.Equal(t, 0.5, opts.TrainFraction)
	assert.Equal(t, 50, opts.RemoteThreshold)
	assert.Equal(t, prep.SizeScale{"S": 10, "L": 30}, opts.CompanySizeScale)
	assert.Equal(t, prep.MissingImpute, opts.MissingSalary)
	require.NotNil(t, cfg.Prep.Seed)
	assert.Equal(t, uint64(7), *cfg.Prep.Seed)
}

func TestLoadUnreadableFileFallsBack(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()
	assert.Equal(t, defaultConfig().Source.URL, cfg.Source.URL)
}

func TestInvalidMissingPolicyFallsBack(t *testing.T) {
	t.Parallel()

	opts := PrepConfig{MissingSalary: "median"}.Options()
	assert.Equal(t, prep.MissingDrop, opts.MissingSalary)
	assert.Equal(t, prep.DefaultTrainFraction, opts.TrainFraction)
}

func TestOutOfRangeTrainFractionFallsBack(t *testing.T) {
	for _, raw := range []string{"1.5", "-1", "NaN"} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv(configPathEnv, "")
			t.Setenv(trainFractionEnv, raw)

			opts := Load().Prep.Options()
			assert.Equal(t, prep.DefaultTrainFraction, opts.TrainFraction)
		})
	}

	fraction := 1.0
	assert.Equal(t, 1.0, PrepConfig{TrainFraction: &fraction}.Options().TrainFraction)
}
