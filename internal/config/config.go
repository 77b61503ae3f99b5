// Package config loads the master's environment-variable configuration,
// adapted from the teacher's internal/config (same Load()-returns-struct-
// or-error shape, same os.Getenv + strconv.Atoi pattern) and extended with
// the master-specific fields SPEC_FULL's ambient stack section calls for:
// bind host/port, notification worker pool sizing, the reaper schedule,
// and the optional seed/bridge/livefeed toggles.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds every environment-derived setting the master needs.
type Config struct {
	Environment string // "production" or "development"
	LogLevel    string

	BindHost string
	BindPort int // 0 picks an ephemeral port

	NotifyWorkers  int
	NotifyQueueLen int

	ReaperSchedule string // robfig/cron/v3 expression, e.g. "@every 1m"

	ParamSeedPath  string // optional: static parameter seed file (JSON)
	ParamSeedWatch bool   // optional: hot-reload the seed file on change

	MQTTBrokerURL string // optional: enables internal/bridge when non-empty
	LivefeedAddr  string // optional: enables internal/livefeed's /debug/live when non-empty

	TracingEndpoint string // OTLP gRPC endpoint; empty disables tracing
	MetricsAddr     string // Prometheus /metrics listen address
}

// Load reads Config from the environment, applying the same sane defaults
// the teacher's config.Load applies for its own fields.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: os.Getenv("ENVIRONMENT"),
		LogLevel:    os.Getenv("LOG_LEVEL"),

		BindHost: os.Getenv("MASTER_BIND_HOST"),

		ReaperSchedule: os.Getenv("MASTER_REAPER_SCHEDULE"),

		ParamSeedPath: os.Getenv("MASTER_PARAM_SEED"),

		MQTTBrokerURL: os.Getenv("MASTER_MQTT_BROKER_URL"),
		LivefeedAddr:  os.Getenv("MASTER_LIVEFEED_ADDR"),

		TracingEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		MetricsAddr:     os.Getenv("MASTER_METRICS_ADDR"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.BindHost == "" {
		cfg.BindHost = "0.0.0.0"
	}
	if cfg.ReaperSchedule == "" {
		cfg.ReaperSchedule = "@every 1m"
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = ":9090"
	}

	var err error
	cfg.BindPort, err = intEnv("MASTER_BIND_PORT", 11311)
	if err != nil {
		return nil, err
	}
	cfg.NotifyWorkers, err = intEnv("MASTER_NOTIFY_WORKERS", 16)
	if err != nil {
		return nil, err
	}
	cfg.NotifyQueueLen, err = intEnv("MASTER_NOTIFY_QUEUE_LEN", 256)
	if err != nil {
		return nil, err
	}
	cfg.ParamSeedWatch = boolEnv("MASTER_PARAM_SEED_WATCH", false)

	return cfg, nil
}

func intEnv(name string, def int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return n, nil
}

func boolEnv(name string, def bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
