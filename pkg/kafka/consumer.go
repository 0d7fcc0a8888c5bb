package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	kgo "github.com/segmentio/kafka-go"

	"github.com/shrtyk/cmdlog/api"
	"github.com/shrtyk/cmdlog/internal/retry"
)

var _ api.ShardConsumer = (*Consumer)(nil)

// Consumer is the read side: one connection dialed to the leader of the
// configured partition. The consumption offset lives on the connection and
// is single-owner state; only Wakeup and Close are safe to call while a
// Poll is in flight.
type Consumer struct {
	logger *slog.Logger
	conn   *kgo.Conn

	minBytes int
	maxBytes int

	woken  atomic.Bool
	closed atomic.Bool
}

// NewConsumer dials the partition leader through the first reachable broker
// and binds the connection to exactly cfg.Shard of cfg.Stream. Dialing is
// retried with backoff within cfg.DialTimeout.
func NewConsumer(ctx context.Context, cfg Config, log *slog.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	var conn *kgo.Conn
	err := retry.Do(dialCtx, func(ctx context.Context) error {
		var lastErr error
		for _, broker := range cfg.Brokers {
			c, err := kgo.DialLeader(ctx, "tcp", broker, cfg.Stream, cfg.Shard)
			if err == nil {
				conn = c
				return nil
			}
			lastErr = err
		}
		return lastErr
	})
	if err != nil {
		return nil, fmt.Errorf("kafka: dial shard %d of %q: %w", cfg.Shard, cfg.Stream, err)
	}

	minBytes, maxBytes := cfg.fetchBytes()
	log.Debug("read side bound to shard",
		slog.String("stream", cfg.Stream), slog.Int("shard", cfg.Shard))

	return &Consumer{
		logger:   log,
		conn:     conn,
		minBytes: minBytes,
		maxBytes: maxBytes,
	}, nil
}

func (c *Consumer) Poll(timeout time.Duration) ([]api.RawRecord, error) {
	if c.closed.Load() {
		return nil, api.ErrClosed
	}
	if c.woken.Load() {
		return nil, api.ErrWakeup
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("kafka: set poll deadline: %w", err)
	}

	batch := c.conn.ReadBatch(c.minBytes, c.maxBytes)
	var records []api.RawRecord
	for {
		msg, err := batch.ReadMessage()
		if err != nil {
			_ = batch.Close()
			if c.woken.Load() {
				return nil, api.ErrWakeup
			}
			// An exhausted batch or the deadline cutting off an in-progress
			// fetch is the normal end of a poll, not a failure.
			if errors.Is(err, io.EOF) || isTimeout(err) || errors.Is(err, kgo.RequestTimedOut) {
				return records, nil
			}
			return nil, err
		}
		records = append(records, api.RawRecord{
			Key:    msg.Key,
			Value:  msg.Value,
			Offset: msg.Offset,
		})
	}
}

func (c *Consumer) SeekToBeginning() error {
	if c.closed.Load() {
		return api.ErrClosed
	}
	if _, err := c.conn.Seek(0, kgo.SeekStart); err != nil {
		return fmt.Errorf("kafka: seek to beginning: %w", err)
	}
	return nil
}

func (c *Consumer) Position() (int64, error) {
	if c.closed.Load() {
		return 0, api.ErrClosed
	}
	offset, _ := c.conn.Offset()
	return offset, nil
}

func (c *Consumer) EndOffset() (int64, error) {
	if c.closed.Load() {
		return 0, api.ErrClosed
	}
	end, err := c.conn.ReadLastOffset()
	if err != nil {
		return 0, fmt.Errorf("kafka: read end offset: %w", err)
	}
	return end, nil
}

// Wakeup fails the in-flight poll fast by expiring the connection's read
// deadline immediately. The flag is sticky so a wakeup raised between polls
// fails the next one instead of getting lost.
func (c *Consumer) Wakeup() {
	c.woken.Store(true)
	_ = c.conn.SetReadDeadline(time.Now())
}

func (c *Consumer) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.conn.Close()
}
