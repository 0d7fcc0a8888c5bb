package cmdlog

import (
	"context"
	"time"

	"github.com/shrtyk/cmdlog/api"
)

// CatchUp rebuilds a node's state from the shard and returns once the node
// is live: it replays the full history into apply, then keeps polling until
// the read position has reached the shard's end offset. Tombstones met while
// tailing are skipped, same as during replay.
//
// CatchUp drives the read side of the client and must be its single owner
// for the whole call. Cancelling ctx stops the loop between polls; an error
// from apply aborts immediately.
func CatchUp(
	ctx context.Context,
	clog api.CommandLog,
	apply func(api.QueuedCommand) error,
	pollTimeout time.Duration,
) error {
	restored, err := clog.Replay(pollTimeout)
	if err != nil {
		return err
	}
	for _, qc := range restored {
		if err := apply(qc); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		pos, err := clog.Position()
		if err != nil {
			return err
		}
		end, err := clog.EndOffset()
		if err != nil {
			return err
		}
		if pos >= end {
			return nil
		}

		records, err := clog.PollNew(pollTimeout)
		if err != nil {
			return err
		}
		for _, rec := range records {
			cmd, ok := rec.Payload.Command()
			if !ok {
				continue
			}
			offset := rec.Offset
			if err := apply(api.QueuedCommand{ID: rec.ID, Command: cmd, Offset: &offset}); err != nil {
				return err
			}
		}
	}
}
