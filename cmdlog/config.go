package cmdlog

import (
	"time"

	"github.com/shrtyk/cmdlog/api"
	"github.com/shrtyk/cmdlog/pkg/logger"
)

func DefaultConfig() *api.ClientConfig {
	return &api.ClientConfig{
		Log: api.LoggerCfg{
			Env: logger.Dev,
		},
		Shard: 0,
		Timings: api.Timings{
			PollTimeout:       5 * time.Second,
			ReplayPollTimeout: 500 * time.Millisecond,
			AppendTimeout:     30 * time.Second,
			DialTimeout:       10 * time.Second,
		},
		Backend: api.BackendCfg{
			Brokers: []string{"localhost:9092"},
		},
	}
}

func TestsConfig() *api.ClientConfig {
	return &api.ClientConfig{
		Log: api.LoggerCfg{
			Env: logger.Dev,
		},
		Shard: 0,
		Timings: api.Timings{
			PollTimeout:       50 * time.Millisecond,
			ReplayPollTimeout: 20 * time.Millisecond,
			AppendTimeout:     time.Second,
			DialTimeout:       time.Second,
		},
	}
}
