package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "taskgraph.yaml"

// DefaultEnvFile is loaded into the process environment before the
// overlay. Variables already set in the environment win.
const DefaultEnvFile = ".env"

// Generator modes.
const (
	GeneratorMock = "mock"
	GeneratorLLM  = "llm"
)

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// Both the YAML file and .env are optional.
func Load() (*Config, error) {
	if err := loadDotEnv(DefaultEnvFile); err != nil {
		return nil, fmt.Errorf("config env file: %w", err)
	}
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv reads KEY=VALUE pairs from path without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "TASKGRAPH_PORT")
	setString(&cfg.Server.CORSOrigin, "TASKGRAPH_CORS_ORIGIN")
	setInt64(&cfg.Server.MaxRequestBodySize, "TASKGRAPH_MAX_BODY_SIZE")
	setDuration(&cfg.Server.RequestTimeout, "TASKGRAPH_REQUEST_TIMEOUT")
	setDuration(&cfg.Server.ShutdownTimeout, "TASKGRAPH_SHUTDOWN_TIMEOUT")

	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "TASKGRAPH_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "TASKGRAPH_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "TASKGRAPH_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "TASKGRAPH_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "TASKGRAPH_PG_HEALTH_CHECK")

	setString(&cfg.NATS.URL, "NATS_URL")

	setString(&cfg.LiteLLM.URL, "LITELLM_URL")
	setString(&cfg.LiteLLM.MasterKey, "LITELLM_MASTER_KEY")
	setDuration(&cfg.LiteLLM.Timeout, "LITELLM_TIMEOUT")

	setString(&cfg.Generator.Mode, "TASKGRAPH_GENERATOR")
	setString(&cfg.Generator.Model, "TASKGRAPH_GENERATOR_MODEL")
	setInt(&cfg.Generator.MaxTokens, "TASKGRAPH_GENERATOR_MAX_TOKENS")
	setFloat64(&cfg.Generator.Temperature, "TASKGRAPH_GENERATOR_TEMPERATURE")
	setInt(&cfg.Generator.MaxConcurrent, "TASKGRAPH_GENERATOR_MAX_CONCURRENT")

	setInt(&cfg.Delegation.MaxParallel, "TASKGRAPH_DELEGATION_MAX_PARALLEL")
	setBool(&cfg.Delegation.Async, "TASKGRAPH_DELEGATION_ASYNC")

	setBool(&cfg.Cache.Enabled, "TASKGRAPH_CACHE_ENABLED")
	setInt64(&cfg.Cache.L1MaxSizeMB, "TASKGRAPH_CACHE_L1_SIZE_MB")
	setDuration(&cfg.Cache.L1TTL, "TASKGRAPH_CACHE_L1_TTL")
	setString(&cfg.Cache.L2Bucket, "TASKGRAPH_CACHE_L2_BUCKET")
	setDuration(&cfg.Cache.L2TTL, "TASKGRAPH_CACHE_L2_TTL")

	setString(&cfg.Logging.Level, "TASKGRAPH_LOG_LEVEL")
	setString(&cfg.Logging.Service, "TASKGRAPH_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "TASKGRAPH_LOG_ASYNC")

	setInt(&cfg.Breaker.MaxFailures, "TASKGRAPH_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "TASKGRAPH_BREAKER_TIMEOUT")

	setFloat64(&cfg.Rate.RequestsPerSecond, "TASKGRAPH_RATE_RPS")
	setInt(&cfg.Rate.Burst, "TASKGRAPH_RATE_BURST")
	setDuration(&cfg.Rate.CleanupInterval, "TASKGRAPH_RATE_CLEANUP_INTERVAL")
	setDuration(&cfg.Rate.MaxIdleTime, "TASKGRAPH_RATE_MAX_IDLE_TIME")

	setBool(&cfg.Telemetry.Enabled, "TASKGRAPH_OTEL_ENABLED")
	setString(&cfg.Telemetry.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setBool(&cfg.Telemetry.Insecure, "TASKGRAPH_OTEL_INSECURE")
	setFloat64(&cfg.Telemetry.SampleRate, "TASKGRAPH_OTEL_SAMPLE_RATE")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.NATS.URL == "" {
		return errors.New("nats.url is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	if cfg.Generator.MaxConcurrent < 1 {
		return errors.New("generator.max_concurrent must be >= 1")
	}
	if cfg.Delegation.MaxParallel < 1 {
		return errors.New("delegation.max_parallel must be >= 1")
	}
	switch cfg.Generator.Mode {
	case GeneratorMock:
	case GeneratorLLM:
		if cfg.LiteLLM.URL == "" {
			return errors.New("litellm.url is required when generator.mode is llm")
		}
	default:
		return fmt.Errorf("generator.mode must be %q or %q, got %q", GeneratorMock, GeneratorLLM, cfg.Generator.Mode)
	}
	if cfg.Cache.Enabled && cfg.Cache.L1MaxSizeMB < 1 {
		return errors.New("cache.l1_max_size_mb must be >= 1 when the cache is enabled")
	}
	if cfg.Telemetry.SampleRate < 0 || cfg.Telemetry.SampleRate > 1 {
		return errors.New("telemetry.sample_rate must be within [0, 1]")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
