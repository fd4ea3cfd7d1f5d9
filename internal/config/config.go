// Package config loads the settings a simulation run needs: which
// eviction policy and pool capacity to use, the cold-start cost model,
// where to write the performance log, and the optional
// observability/persistence add-ons (tracing, metrics, run-history
// store). It follows the same JSON-file-plus-env-override pattern the
// rest of this codebase's config layer uses.
package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"
)

// PoolConfig holds the simulated container pool's fixed parameters.
type PoolConfig struct {
	MemCapacity int `json:"mem_capacity"` // Total memory budget for warm containers
}

// PolicyConfig selects and parameterizes the eviction policy.
type PolicyConfig struct {
	Name                string  `json:"name"`                  // RAND, LEAST_USED, MAX_MEM, CLOUD21
	RandSeed            int64   `json:"rand_seed"`              // Used only by RAND
	ProviderOverheadBase float64 `json:"provider_overhead_base"` // Fixed cold-start overhead, ms
	ProviderOverheadPct  float64 `json:"provider_overhead_pct"`  // Proportional cold-start overhead
}

// RunConfig identifies a single simulation run for log naming and
// run-history persistence.
type RunConfig struct {
	Label string `json:"label"`   // Human-readable run name
	RunID string `json:"run_id"`  // Unique id embedded in the performance log filename
	LogDir string `json:"log_dir"` // Directory performance logs are written to
}

// TracingConfig holds OpenTelemetry tracing settings.
type TracingConfig struct {
	Enabled     bool    `json:"enabled"`
	Exporter    string  `json:"exporter"`     // otlp-http, stdout
	Endpoint    string  `json:"endpoint"`     // localhost:4318
	ServiceName string  `json:"service_name"` // cachesim
	SampleRate  float64 `json:"sample_rate"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace"`
	Addr      string `json:"addr"` // HTTP listen address for /metrics, e.g. ":9090"
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // text, json
}

// StoreConfig holds optional run-history persistence settings.
type StoreConfig struct {
	Enabled bool   `json:"enabled"`
	DSN     string `json:"dsn"`
}

// CacheConfig selects the backend StatsCache reads/replay commands use
// to memoize eventsink.MissStats lookups.
type CacheConfig struct {
	Backend  string        `json:"backend"` // memory, redis
	Addr     string        `json:"addr"`    // Redis address, e.g. localhost:6379
	Password string        `json:"password"`
	DB       int           `json:"db"`
	TTL      time.Duration `json:"ttl"`
}

// ObservabilityConfig aggregates the optional cross-cutting concerns.
type ObservabilityConfig struct {
	Tracing TracingConfig `json:"tracing"`
	Metrics MetricsConfig `json:"metrics"`
	Logging LoggingConfig `json:"logging"`
}

// Config is the central configuration for a cachesim run.
type Config struct {
	Pool          PoolConfig          `json:"pool"`
	Policy        PolicyConfig        `json:"policy"`
	Run           RunConfig           `json:"run"`
	Observability ObservabilityConfig `json:"observability"`
	Store         StoreConfig         `json:"store"`
	Cache         CacheConfig         `json:"cache"`
}

// DefaultConfig returns a Config with sensible defaults matching the
// simulator's documented cold-start cost model.
func DefaultConfig() *Config {
	return &Config{
		Pool: PoolConfig{
			MemCapacity: 8192,
		},
		Policy: PolicyConfig{
			Name:                 "LEAST_USED",
			RandSeed:             0,
			ProviderOverheadBase: 3000.0,
			ProviderOverheadPct:  0.2,
		},
		Run: RunConfig{
			Label:  "default",
			RunID:  "run",
			LogDir: "./logs",
		},
		Observability: ObservabilityConfig{
			Tracing: TracingConfig{
				Enabled:     false,
				Exporter:    "otlp-http",
				Endpoint:    "localhost:4318",
				ServiceName: "cachesim",
				SampleRate:  1.0,
			},
			Metrics: MetricsConfig{
				Enabled:   false,
				Namespace: "cachesim",
				Addr:      ":9090",
			},
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
		},
		Store: StoreConfig{
			Enabled: false,
		},
		Cache: CacheConfig{
			Backend: "memory",
			Addr:    "localhost:6379",
			TTL:     5 * time.Minute,
		},
	}
}

// LoadFromFile loads configuration from a JSON file, starting from
// DefaultConfig so an incomplete file only overrides what it sets.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv applies environment variable overrides to cfg in place.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("CACHESIM_POLICY"); v != "" {
		cfg.Policy.Name = v
	}
	if v := os.Getenv("CACHESIM_RAND_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Policy.RandSeed = n
		}
	}
	if v := os.Getenv("CACHESIM_PROVIDER_OVERHEAD_BASE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Policy.ProviderOverheadBase = f
		}
	}
	if v := os.Getenv("CACHESIM_PROVIDER_OVERHEAD_PCT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Policy.ProviderOverheadPct = f
		}
	}
	if v := os.Getenv("CACHESIM_MEM_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pool.MemCapacity = n
		}
	}
	if v := os.Getenv("CACHESIM_LABEL"); v != "" {
		cfg.Run.Label = v
	}
	if v := os.Getenv("CACHESIM_RUN_ID"); v != "" {
		cfg.Run.RunID = v
	}
	if v := os.Getenv("CACHESIM_LOG_DIR"); v != "" {
		cfg.Run.LogDir = v
	}

	if v := os.Getenv("CACHESIM_TRACING_ENABLED"); v != "" {
		cfg.Observability.Tracing.Enabled = parseBool(v)
	}
	if v := os.Getenv("CACHESIM_TRACING_ENDPOINT"); v != "" {
		cfg.Observability.Tracing.Endpoint = v
	}
	if v := os.Getenv("CACHESIM_TRACING_EXPORTER"); v != "" {
		cfg.Observability.Tracing.Exporter = v
	}
	if v := os.Getenv("CACHESIM_TRACING_SAMPLE_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Observability.Tracing.SampleRate = f
		}
	}
	if v := os.Getenv("CACHESIM_METRICS_ENABLED"); v != "" {
		cfg.Observability.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("CACHESIM_METRICS_NAMESPACE"); v != "" {
		cfg.Observability.Metrics.Namespace = v
	}
	if v := os.Getenv("CACHESIM_METRICS_ADDR"); v != "" {
		cfg.Observability.Metrics.Addr = v
	}
	if v := os.Getenv("CACHESIM_LOG_LEVEL"); v != "" {
		cfg.Observability.Logging.Level = v
	}
	if v := os.Getenv("CACHESIM_LOG_FORMAT"); v != "" {
		cfg.Observability.Logging.Format = v
	}

	if v := os.Getenv("CACHESIM_STORE_ENABLED"); v != "" {
		cfg.Store.Enabled = parseBool(v)
	}
	if v := os.Getenv("CACHESIM_STORE_DSN"); v != "" {
		cfg.Store.DSN = v
		cfg.Store.Enabled = true
	}

	if v := os.Getenv("CACHESIM_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("CACHESIM_CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("CACHESIM_CACHE_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("CACHESIM_CACHE_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.DB = n
		}
	}
	if v := os.Getenv("CACHESIM_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = d
		}
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes"
}
