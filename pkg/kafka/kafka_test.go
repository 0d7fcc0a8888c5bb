package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrtyk/cmdlog/pkg/logger"
)

func TestFetchBytes(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		minBytes, maxBytes := Config{}.fetchBytes()
		assert.Equal(t, defaultMinBytes, minBytes)
		assert.Equal(t, defaultMaxBytes, maxBytes)
	})

	t.Run("overridden by props", func(t *testing.T) {
		cfg := Config{Props: map[string]string{
			"fetch.min.bytes": "1024",
			"fetch.max.bytes": "65536",
		}}
		minBytes, maxBytes := cfg.fetchBytes()
		assert.Equal(t, 1024, minBytes)
		assert.Equal(t, 65536, maxBytes)
	})

	t.Run("garbage props are ignored", func(t *testing.T) {
		cfg := Config{Props: map[string]string{
			"fetch.min.bytes": "lots",
			"fetch.max.bytes": "-1",
		}}
		minBytes, maxBytes := cfg.fetchBytes()
		assert.Equal(t, defaultMinBytes, minBytes)
		assert.Equal(t, defaultMaxBytes, maxBytes)
	})
}

type timeoutErr struct{}

func (timeoutErr) Error() string { return "i/o timeout" }
func (timeoutErr) Timeout() bool { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsTimeout(t *testing.T) {
	assert.True(t, isTimeout(os.ErrDeadlineExceeded))
	assert.True(t, isTimeout(fmt.Errorf("poll: %w", os.ErrDeadlineExceeded)))

	var ne net.Error = timeoutErr{}
	assert.True(t, isTimeout(ne))

	assert.False(t, isTimeout(errors.New("broker gone")))
	assert.False(t, isTimeout(context.Canceled))
}

func TestNewConsumerValidation(t *testing.T) {
	_, log := logger.NewTestLogger()

	t.Run("no brokers", func(t *testing.T) {
		_, err := NewConsumer(context.Background(), Config{Stream: "commands"}, log)
		require.Error(t, err)
	})

	t.Run("unreachable broker fails within dial timeout", func(t *testing.T) {
		// Reserve a port and close the listener so the address refuses
		// connections.
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := l.Addr().String()
		require.NoError(t, l.Close())

		start := time.Now()
		_, err = NewConsumer(context.Background(), Config{
			Brokers:     []string{addr},
			Stream:      "commands",
			DialTimeout: 200 * time.Millisecond,
		}, log)
		require.Error(t, err)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestNewProducerValidation(t *testing.T) {
	_, err := NewProducer(Config{Stream: "commands"})
	require.Error(t, err)
}
