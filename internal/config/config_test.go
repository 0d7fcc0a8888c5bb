package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrtyk/cmdlog/pkg/logger"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "commands", cfg.Stream.Name)
	assert.Equal(t, 0, cfg.Stream.Shard)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Backend.Brokers)
	assert.Equal(t, 500*time.Millisecond, cfg.Timings.ReplayPollTimeout)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmdlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logger:
  env: prod
stream:
  name: ddl-commands
  shard: 0
backend:
  brokers: ["kafka-1:9092", "kafka-2:9092"]
  reader:
    client.id: node-7-reader
  writer:
    client.id: node-7-writer
timings:
  replay_poll_timeout: 250ms
  append_timeout: 10s
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ddl-commands", cfg.Stream.Name)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Backend.Brokers)
	assert.Equal(t, "node-7-reader", cfg.Backend.Reader["client.id"])
	assert.Equal(t, 250*time.Millisecond, cfg.Timings.ReplayPollTimeout)
	assert.Equal(t, 10*time.Second, cfg.Timings.AppendTimeout)
	// Values the file does not mention keep their defaults.
	assert.Equal(t, 5*time.Second, cfg.Timings.PollTimeout)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmdlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
stream:
  name: from-file
`), 0o644))

	t.Setenv("CMDLOG_STREAM", "from-env")
	t.Setenv("CMDLOG_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CMDLOG_POLL_TIMEOUT", "2s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Stream.Name)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Backend.Brokers)
	assert.Equal(t, 2*time.Second, cfg.Timings.PollTimeout)
}

func TestClientConfig(t *testing.T) {
	cfg := Default()
	cfg.Logger.Env = "staging"
	cfg.Stream.Shard = 0

	ccfg, err := cfg.ClientConfig()
	require.NoError(t, err)
	assert.Equal(t, logger.Staging, ccfg.Log.Env)
	assert.Equal(t, cfg.Timings.AppendTimeout, ccfg.Timings.AppendTimeout)
	assert.Equal(t, cfg.Backend.Brokers, ccfg.Backend.Brokers)
}

func TestClientConfigRejectsUnknownEnv(t *testing.T) {
	cfg := Default()
	cfg.Logger.Env = "qa"

	_, err := cfg.ClientConfig()
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
