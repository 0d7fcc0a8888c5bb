// Package memlog provides an in-process, single-shard, append-only log
// implementing the same contracts as a broker-backed shard. It backs the
// client's unit tests and embedded setups that need no external service.
package memlog

import (
	"bytes"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shrtyk/cmdlog/api"
)

// Log is one shard: an ordered sequence of records with offsets starting
// at zero. It is safe for concurrent use.
type Log struct {
	mu       sync.Mutex
	records  []api.RawRecord
	appended chan struct{} // closed and replaced on every append
}

func New() *Log {
	return &Log{
		appended: make(chan struct{}),
	}
}

// Append appends one raw record and returns its offset. A nil value is a
// tombstone. Exposed so tests can seed records written by other producers.
func (l *Log) Append(key, value []byte) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	off := int64(len(l.records))
	l.records = append(l.records, api.RawRecord{
		Key:    bytes.Clone(key),
		Value:  bytes.Clone(value),
		Offset: off,
	})
	close(l.appended)
	l.appended = make(chan struct{})
	return off
}

// snapshot returns copies of the records at and past pos, plus the channel
// that will be closed by the next append.
func (l *Log) snapshot(pos int64) ([]api.RawRecord, chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if pos >= int64(len(l.records)) {
		return nil, l.appended
	}
	batch := make([]api.RawRecord, len(l.records)-int(pos))
	copy(batch, l.records[pos:])
	return batch, l.appended
}

func (l *Log) end() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return int64(len(l.records))
}

var _ api.ShardConsumer = (*Consumer)(nil)

// Consumer reads the shard starting at offset zero. Its position is
// single-owner state; only Wakeup and Close may be called concurrently
// with Poll.
type Consumer struct {
	log      *Log
	pos      int64
	closed   atomic.Bool
	wakeOnce sync.Once
	wake     chan struct{}
}

func (l *Log) NewConsumer() *Consumer {
	return &Consumer{
		log:  l,
		wake: make(chan struct{}),
	}
}

func (c *Consumer) Poll(timeout time.Duration) ([]api.RawRecord, error) {
	if c.closed.Load() {
		return nil, api.ErrClosed
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-c.wake:
			return nil, api.ErrWakeup
		default:
		}

		batch, appended := c.log.snapshot(c.pos)
		if len(batch) > 0 {
			c.pos += int64(len(batch))
			return batch, nil
		}

		select {
		case <-appended:
		case <-timer.C:
			return nil, nil
		case <-c.wake:
			return nil, api.ErrWakeup
		}
	}
}

func (c *Consumer) SeekToBeginning() error {
	if c.closed.Load() {
		return api.ErrClosed
	}
	c.pos = 0
	return nil
}

func (c *Consumer) Position() (int64, error) {
	if c.closed.Load() {
		return 0, api.ErrClosed
	}
	return c.pos, nil
}

func (c *Consumer) EndOffset() (int64, error) {
	if c.closed.Load() {
		return 0, api.ErrClosed
	}
	return c.log.end(), nil
}

func (c *Consumer) Wakeup() {
	c.wakeOnce.Do(func() {
		close(c.wake)
	})
}

func (c *Consumer) Close() error {
	c.closed.Store(true)
	return nil
}

var _ api.ShardProducer = (*Producer)(nil)

// Producer appends to the shard. Safe for concurrent use.
type Producer struct {
	log    *Log
	closed atomic.Bool
}

func (l *Log) NewProducer() *Producer {
	return &Producer{log: l}
}

func (p *Producer) Send(key, value []byte) (int64, error) {
	if p.closed.Load() {
		return 0, api.ErrClosed
	}
	return p.log.Append(key, value), nil
}

func (p *Producer) Close() error {
	p.closed.Store(true)
	return nil
}
