package cmdlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/shrtyk/cmdlog/api"
)

var _ api.CommandLog = (*CommandLog)(nil)

// CommandLog is a client for a single shard of a command log stream. It owns
// one read-side and one write-side connection for its whole lifetime and
// releases both exactly once, on Close.
//
// Append may be called concurrently; the read-side operations share one
// consumer position and belong to a single goroutine at a time (see
// api.CommandLog).
type CommandLog struct {
	logger *slog.Logger
	cfg    *api.ClientConfig

	consumer api.ShardConsumer
	producer api.ShardProducer

	closed int32 // set by Close
}

// Append durably appends a command keyed by its identifier, blocking until
// the log service acknowledges it. It returns the offset the record was
// assigned. Failures are classified into api.SendError; nothing is retried.
func (l *CommandLog) Append(id api.CommandID, cmd api.Command) (int64, error) {
	if l.isClosed() {
		return 0, api.ErrClosed
	}
	if id == (api.CommandID{}) {
		return 0, api.ErrEmptyCommandID
	}

	key, err := encodeCommandID(id)
	if err != nil {
		return 0, classifySendErr(err)
	}
	value, err := encodeCommand(cmd)
	if err != nil {
		return 0, classifySendErr(err)
	}

	offset, err := l.producer.Send(key, value)
	if err != nil {
		return 0, classifySendErr(err)
	}

	l.logger.Debug("command appended",
		slog.String("id", id.String()), slog.Int64("offset", offset))
	return offset, nil
}

// classifySendErr maps an append failure cause into the documented closed
// set of failure kinds. Already-classified errors pass through unchanged;
// an interrupted wait for the acknowledgment is marked fatal; everything
// else is wrapped with its cause preserved.
func classifySendErr(err error) error {
	var se *api.SendError
	if errors.As(err, &se) || errors.Is(err, api.ErrClosed) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &api.SendError{Interrupted: true, Cause: err}
	}
	return &api.SendError{Cause: err}
}

// PollNew returns the batch of newly appended records the log service
// yielded within timeout, in log order; the batch may be empty. Tombstones
// are not filtered. Poll, decode and position failures propagate unchanged.
// A non-positive timeout falls back to the configured poll timeout.
func (l *CommandLog) PollNew(timeout time.Duration) ([]api.Record, error) {
	if l.isClosed() {
		return nil, api.ErrClosed
	}
	if timeout <= 0 {
		timeout = l.cfg.Timings.PollTimeout
	}

	raw, err := l.consumer.Poll(timeout)
	if err != nil {
		return nil, err
	}

	records := make([]api.Record, 0, len(raw))
	for _, r := range raw {
		rec, err := decodeRecord(r)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Replay rewinds the read side to the shard's beginning and drains it in
// polls each bounded by timeout, stopping at the first empty poll.
// Tombstones are skipped silently. Because appends may race the drain, the
// result covers what existed when the drain converged, nothing stricter.
// A non-positive timeout falls back to the configured replay poll timeout.
func (l *CommandLog) Replay(timeout time.Duration) ([]api.QueuedCommand, error) {
	if l.isClosed() {
		return nil, api.ErrClosed
	}
	if timeout <= 0 {
		timeout = l.cfg.Timings.ReplayPollTimeout
	}

	if err := l.consumer.SeekToBeginning(); err != nil {
		return nil, err
	}

	l.logger.Debug("reading prior command records")
	var restored []api.QueuedCommand
	for {
		raw, err := l.consumer.Poll(timeout)
		if err != nil {
			return nil, err
		}
		if len(raw) == 0 {
			return restored, nil
		}

		l.logger.Debug("received records from poll", slog.Int("count", len(raw)))
		for _, r := range raw {
			rec, err := decodeRecord(r)
			if err != nil {
				return nil, err
			}
			cmd, ok := rec.Payload.Command()
			if !ok {
				continue
			}
			offset := rec.Offset
			restored = append(restored, api.QueuedCommand{
				ID:      rec.ID,
				Command: cmd,
				Offset:  &offset,
			})
		}
	}
}

// Position returns the read side's current consumption offset.
func (l *CommandLog) Position() (int64, error) {
	if l.isClosed() {
		return 0, api.ErrClosed
	}
	return l.consumer.Position()
}

// EndOffset returns the shard's current end offset. Every call queries
// the log service; nothing is cached.
func (l *CommandLog) EndOffset() (int64, error) {
	if l.isClosed() {
		return 0, api.ErrClosed
	}
	return l.consumer.EndOffset()
}

// Close wakes any in-flight blocking poll so shutdown never waits out a poll
// timeout, then closes the read side, then the write side.
func (l *CommandLog) Close() error {
	if !atomic.CompareAndSwapInt32(&l.closed, 0, 1) {
		return api.ErrClosed
	}

	l.logger.Info("closing command log client")
	l.consumer.Wakeup()

	var errs []error
	if err := l.consumer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close read side: %w", err))
	}
	if err := l.producer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close write side: %w", err))
	}
	return errors.Join(errs...)
}

func (l *CommandLog) isClosed() bool {
	return atomic.LoadInt32(&l.closed) == 1
}

func decodeRecord(r api.RawRecord) (api.Record, error) {
	id, err := decodeCommandID(r.Key)
	if err != nil {
		return api.Record{}, fmt.Errorf("record at offset %d: %w", r.Offset, err)
	}
	payload, err := decodeCommand(r.Value)
	if err != nil {
		return api.Record{}, fmt.Errorf("record at offset %d: %w", r.Offset, err)
	}
	return api.Record{ID: id, Payload: payload, Offset: r.Offset}, nil
}
