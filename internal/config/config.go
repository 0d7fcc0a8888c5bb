// Package config loads the client configuration from an optional YAML file
// with environment-variable overrides. The backend reader/writer property
// maps are opaque here: they are carried through to the log service backend
// unchanged.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"

	"github.com/shrtyk/cmdlog/api"
	"github.com/shrtyk/cmdlog/pkg/logger"
)

type Config struct {
	Logger  LoggerConfig  `yaml:"logger"`
	Stream  StreamConfig  `yaml:"stream"`
	Backend BackendConfig `yaml:"backend"`
	Timings TimingsConfig `yaml:"timings"`
}

type LoggerConfig struct {
	// Env is one of: prod, dev, staging.
	Env       string `yaml:"env" env:"CMDLOG_LOG_ENV"`
	AddSource bool   `yaml:"add_source" env:"CMDLOG_LOG_SOURCE"`
}

type StreamConfig struct {
	Name  string `yaml:"name" env:"CMDLOG_STREAM"`
	Shard int    `yaml:"shard" env:"CMDLOG_SHARD"`
}

type BackendConfig struct {
	Brokers []string          `yaml:"brokers" env:"CMDLOG_BROKERS"`
	Reader  map[string]string `yaml:"reader"`
	Writer  map[string]string `yaml:"writer"`
}

type TimingsConfig struct {
	PollTimeout       time.Duration `yaml:"poll_timeout" env:"CMDLOG_POLL_TIMEOUT"`
	ReplayPollTimeout time.Duration `yaml:"replay_poll_timeout" env:"CMDLOG_REPLAY_POLL_TIMEOUT"`
	AppendTimeout     time.Duration `yaml:"append_timeout" env:"CMDLOG_APPEND_TIMEOUT"`
	DialTimeout       time.Duration `yaml:"dial_timeout" env:"CMDLOG_DIAL_TIMEOUT"`
}

// Default returns a baseline development config.
func Default() *Config {
	return &Config{
		Logger: LoggerConfig{
			Env: "dev",
		},
		Stream: StreamConfig{
			Name:  "commands",
			Shard: 0,
		},
		Backend: BackendConfig{
			Brokers: []string{"localhost:9092"},
		},
		Timings: TimingsConfig{
			PollTimeout:       5 * time.Second,
			ReplayPollTimeout: 500 * time.Millisecond,
			AppendTimeout:     30 * time.Second,
			DialTimeout:       10 * time.Second,
		},
	}
}

// Load reads the YAML file at path (skipped when path is empty), then
// applies environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ClientConfig converts the loaded configuration into the client's form.
func (c *Config) ClientConfig() (*api.ClientConfig, error) {
	logEnv, err := parseLogEnv(c.Logger.Env)
	if err != nil {
		return nil, err
	}

	return &api.ClientConfig{
		Log:   api.LoggerCfg{Env: logEnv},
		Shard: c.Stream.Shard,
		Timings: api.Timings{
			PollTimeout:       c.Timings.PollTimeout,
			ReplayPollTimeout: c.Timings.ReplayPollTimeout,
			AppendTimeout:     c.Timings.AppendTimeout,
			DialTimeout:       c.Timings.DialTimeout,
		},
		Backend: api.BackendCfg{
			Brokers: c.Backend.Brokers,
			Reader:  c.Backend.Reader,
			Writer:  c.Backend.Writer,
		},
	}, nil
}

func parseLogEnv(s string) (logger.Environment, error) {
	switch s {
	case "prod":
		return logger.Prod, nil
	case "dev", "":
		return logger.Dev, nil
	case "staging":
		return logger.Staging, nil
	default:
		return 0, fmt.Errorf("unknown logger env %q", s)
	}
}
