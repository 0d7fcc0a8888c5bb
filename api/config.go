package api

import (
	"time"

	"github.com/shrtyk/cmdlog/pkg/logger"
)

type ClientConfig struct {
	Log     LoggerCfg
	Shard   int
	Timings Timings
	Backend BackendCfg
}

type LoggerCfg struct {
	Env logger.Environment
}

type Timings struct {
	// PollTimeout bounds a single live poll issued by helpers like CatchUp.
	PollTimeout time.Duration
	// ReplayPollTimeout bounds each poll of the replay drain loop.
	ReplayPollTimeout time.Duration
	// AppendTimeout bounds the wait for an append acknowledgment.
	AppendTimeout time.Duration
	// DialTimeout bounds establishing a backend connection.
	DialTimeout time.Duration
}

// BackendCfg carries connection settings for the log service. Reader and
// Writer are opaque property maps handed through to the backend unchanged;
// the client itself never interprets them.
type BackendCfg struct {
	Brokers []string
	Reader  map[string]string
	Writer  map[string]string
}
