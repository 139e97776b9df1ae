package config

import (
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"SalaryPrep/internal/prep"
)

const (
	configPathEnv      = "SALARYPREP_CONFIG"
	sourceURLEnv       = "SALARYPREP_SOURCE_URL"
	sourceFormatEnv    = "SALARYPREP_SOURCE_FORMAT"
	seedEnv            = "SALARYPREP_SEED"
	trainFractionEnv   = "SALARYPREP_TRAIN_FRACTION"
	missingSalaryEnv   = "SALARYPREP_MISSING_SALARY"
	logLevelEnv        = "SALARYPREP_LOG_LEVEL"
	logFormatEnv       = "SALARYPREP_LOG_FORMAT"
	databaseDSNEnv     = "DATABASE_DSN"
	trainerEndpointEnv = "TRAINER_ENDPOINT"
	trainerAPIKeyEnv   = "TRAINER_API_KEY"
	pushgatewayURLEnv  = "PUSHGATEWAY_URL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Prep     PrepConfig     `yaml:"prep"`
	Database DatabaseConfig `yaml:"database"`
	Trainer  TrainerConfig  `yaml:"trainer"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SourceConfig describes where the raw dataset lives and how it is encoded.
type SourceConfig struct {
	Name        string        `yaml:"name"`
	URL         string        `yaml:"url"`
	Format      string        `yaml:"format"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"maxAttempts"`
}

// PrepConfig tunes the preparation stages.
type PrepConfig struct {
	TrainFraction    *float64       `yaml:"trainFraction"`
	Seed             *uint64        `yaml:"seed"`
	RemoteThreshold  int            `yaml:"remoteThreshold"`
	CompanySizeScale map[string]int `yaml:"companySizeScale"`
	MissingSalary    string         `yaml:"missingSalary"`
}

// DatabaseConfig describes Postgres connection details. An empty DSN disables
// persistence.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// TrainerConfig points at the downstream training service. An empty endpoint
// disables publishing.
type TrainerConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
}

// MetricsConfig configures the Prometheus Pushgateway.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgatewayUrl"`
	Job            string `yaml:"job"`
}

// LoggingConfig controls the log level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Options converts the prep section into pipeline options. Invalid settings
// fall back to their defaults.
func (p PrepConfig) Options() prep.Options {
	opts := prep.DefaultOptions(p.seed())
	if f := p.TrainFraction; f != nil {
		if math.IsNaN(*f) || *f < 0 || *f > 1 {
			log.Printf("config: train fraction %v outside [0, 1] (using %v)", *f, prep.DefaultTrainFraction)
		} else {
			opts.TrainFraction = *f
		}
	}
	if p.RemoteThreshold != 0 {
		opts.RemoteThreshold = p.RemoteThreshold
	}
	if len(p.CompanySizeScale) > 0 {
		opts.CompanySizeScale = prep.SizeScale(p.CompanySizeScale)
	}
	if policy, err := prep.ParseMissingPolicy(p.MissingSalary); err == nil {
		opts.MissingSalary = policy
	} else {
		log.Printf("config: %v (using %s)", err, prep.MissingDrop)
	}
	return opts
}

func (p PrepConfig) seed() uint64 {
	if p.Seed == nil {
		return defaultSeed
	}
	return *p.Seed
}

const defaultSeed = 42

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(sourceURLEnv); v != "" {
		c.Source.URL = v
	}
	if v := os.Getenv(sourceFormatEnv); v != "" {
		c.Source.Format = v
	}

	if v := os.Getenv(seedEnv); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Prep.Seed = &seed
		} else {
			log.Printf("config: invalid %s=%q: %v", seedEnv, v, err)
		}
	}
	if v := os.Getenv(trainFractionEnv); v != "" {
		if fraction, err := strconv.ParseFloat(v, 64); err == nil {
			c.Prep.TrainFraction = &fraction
		} else {
			log.Printf("config: invalid %s=%q: %v", trainFractionEnv, v, err)
		}
	}
	if v := os.Getenv(missingSalaryEnv); v != "" {
		c.Prep.MissingSalary = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(trainerEndpointEnv); v != "" {
		c.Trainer.Endpoint = v
	}
	if v := os.Getenv(trainerAPIKeyEnv); v != "" {
		c.Trainer.APIKey = v
	}

	if v := os.Getenv(pushgatewayURLEnv); v != "" {
		c.Metrics.PushgatewayURL = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Source.Name != "" {
		base.Source.Name = override.Source.Name
	}
	if override.Source.URL != "" {
		base.Source.URL = override.Source.URL
	}
	if override.Source.Format != "" {
		base.Source.Format = override.Source.Format
	}
	if override.Source.Timeout > 0 {
		base.Source.Timeout = override.Source.Timeout
	}
	if override.Source.MaxAttempts > 0 {
		base.Source.MaxAttempts = override.Source.MaxAttempts
	}

	if override.Prep.TrainFraction != nil {
		base.Prep.TrainFraction = override.Prep.TrainFraction
	}
	if override.Prep.Seed != nil {
		base.Prep.Seed = override.Prep.Seed
	}
	if override.Prep.RemoteThreshold != 0 {
		base.Prep.RemoteThreshold = override.Prep.RemoteThreshold
	}
	if len(override.Prep.CompanySizeScale) > 0 {
		base.Prep.CompanySizeScale = override.Prep.CompanySizeScale
	}
	if override.Prep.MissingSalary != "" {
		base.Prep.MissingSalary = override.Prep.MissingSalary
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Trainer.Endpoint != "" {
		base.Trainer.Endpoint = override.Trainer.Endpoint
	}
	if override.Trainer.APIKey != "" {
		base.Trainer.APIKey = override.Trainer.APIKey
	}

	if override.Metrics.PushgatewayURL != "" {
		base.Metrics.PushgatewayURL = override.Metrics.PushgatewayURL
	}
	if override.Metrics.Job != "" {
		base.Metrics.Job = override.Metrics.Job
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	return base
}

func defaultConfig() Config {
	fraction := prep.DefaultTrainFraction
	seed := uint64(defaultSeed)
	return Config{
		Source: SourceConfig{
			Name:        "ds_salaries",
			URL:         "https://raw.githubusercontent.com/kittenpub/database-repository/main/ds_salaries.csv",
			Format:      "csv",
			Timeout:     30 * time.Second,
			MaxAttempts: 3,
		},
		Prep: PrepConfig{
			TrainFraction:    &fraction,
			Seed:             &seed,
			RemoteThreshold:  prep.FullyRemote,
			CompanySizeScale: map[string]int{"S": 1, "M": 2, "L": 3},
			MissingSalary:    string(prep.MissingDrop),
		},
		Metrics: MetricsConfig{Job: "salaryprep"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}
