/*
Package api defines the core public interfaces of the command log client.
It provides the contract exposed to the nodes consuming the log and the
contracts the underlying log service must satisfy.

# The command log

A cluster of cooperating nodes shares one shard of one named log stream as a
strictly ordered, durable sequence of administrative commands. Every record
of the system lives on that single shard, which is what gives commands a
total order; the client never relaxes this.

# Mandatory backend implementations

The client is built on two connections to the log service:

  - ShardConsumer: the read side, statically bound to exactly one shard.
    A Kafka-backed implementation is provided in
    `github.com/shrtyk/cmdlog/pkg/kafka`, and an in-process one in
    `github.com/shrtyk/cmdlog/pkg/memlog`.

  - ShardProducer: the write side. Same packages provide implementations.
*/
package api

import "time"

// CommandLog is a client for a single shard of a command log stream.
//
// The write side (Append) is safe for concurrent use. The read side
// (PollNew, Replay, Position, EndOffset) shares one consumer position and
// must be owned by a single goroutine at a time; interleaving those calls
// from multiple goroutines without external synchronization is caller error.
type CommandLog interface {
	// Append durably appends a command keyed by its identifier and blocks
	// until the log service acknowledges it, returning the assigned offset.
	// No retry is performed; retry policy belongs to the caller, which must
	// not assume the command was or was not recorded on failure.
	Append(id CommandID, cmd Command) (int64, error)

	// PollNew returns whatever newly appended records arrived within
	// timeout, in log order. The batch may be empty. Tombstones are NOT
	// filtered here; live consumers apply their own policy to them.
	PollNew(timeout time.Duration) ([]Record, error)

	// Replay rewinds to the beginning of the shard and drains it in polls
	// each bounded by timeout, until the first empty poll. Tombstones are
	// skipped. Records appended concurrently with the drain may or may not
	// be included: the result is "caught up to what existed when the drain
	// converged", not a linearizable snapshot.
	Replay(timeout time.Duration) ([]QueuedCommand, error)

	// Position returns the read side's current consumption offset.
	Position() (int64, error)

	// EndOffset returns the shard's current end offset, one past the last
	// durably appended record. Queried from the service on every call.
	EndOffset() (int64, error)

	// Close wakes any in-flight blocking poll, then releases the read
	// connection followed by the write connection. All operations on a
	// closed client, including a second Close, return ErrClosed.
	Close() error
}
