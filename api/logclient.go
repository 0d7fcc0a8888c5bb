package api

import "time"

// RawRecord is one record as carried by the log service. A nil Value is a
// tombstone on the wire.
type RawRecord struct {
	Key    []byte
	Value  []byte
	Offset int64
}

// ShardConsumer is the read-side connection to the log service, bound at
// construction to exactly one shard of one stream. No group-based dynamic
// assignment is involved, which is what makes deterministic full-history
// replay possible.
//
// Implementations need not be safe for concurrent use: the consumer position
// is single-owner state (see CommandLog).
type ShardConsumer interface {
	// Poll blocks up to timeout and returns zero or more records, in log
	// order. A poll interrupted by Wakeup fails with ErrWakeup.
	Poll(timeout time.Duration) ([]RawRecord, error)

	// SeekToBeginning repositions the consumer to the shard's earliest
	// retained record.
	SeekToBeginning() error

	// Position returns the current consumption offset.
	Position() (int64, error)

	// EndOffset returns the shard's current end offset.
	EndOffset() (int64, error)

	// Wakeup interrupts an in-flight blocking Poll, causing it to fail fast
	// with ErrWakeup instead of waiting out its timeout. The signal is
	// sticky: a wakeup raised with no poll in flight fails the next one.
	Wakeup()

	// Close releases the connection.
	Close() error
}

// ShardProducer is the write-side connection to the log service, bound to
// the same single shard as the consumer. Send is safe for concurrent use.
type ShardProducer interface {
	// Send durably appends one record and blocks until the service
	// acknowledges it, returning the assigned offset.
	Send(key, value []byte) (int64, error)

	// Close releases the connection.
	Close() error
}
