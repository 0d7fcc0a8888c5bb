// Package kafka implements the shard consumer and producer contracts on a
// Kafka topic partition, using github.com/segmentio/kafka-go.
//
// The read side is a connection dialed straight to the partition leader, so
// the shard assignment is static: no consumer group, no rebalancing, which
// is what makes deterministic full-history replay possible.
package kafka

import (
	"errors"
	"net"
	"os"
	"strconv"
	"time"
)

// Config carries the settings of one shard-bound connection. Props is the
// opaque property map from the client configuration; only keys listed below
// are interpreted, everything else is ignored.
//
//	client.id        client identifier reported to the brokers
//	fetch.min.bytes  minimum bytes a poll waits for (read side)
//	fetch.max.bytes  maximum bytes fetched per poll (read side)
type Config struct {
	Brokers       []string
	Stream        string
	Shard         int
	DialTimeout   time.Duration
	AppendTimeout time.Duration
	Props         map[string]string
}

const (
	defaultMinBytes = 1
	defaultMaxBytes = 10 << 20 // 10MB
)

func (c Config) fetchBytes() (minBytes, maxBytes int) {
	minBytes, maxBytes = defaultMinBytes, defaultMaxBytes
	if v, ok := c.Props["fetch.min.bytes"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			minBytes = n
		}
	}
	if v, ok := c.Props["fetch.max.bytes"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxBytes = n
		}
	}
	return minBytes, maxBytes
}

// isTimeout reports whether a read failed only because the poll deadline
// passed, which is an empty poll rather than an error.
func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
