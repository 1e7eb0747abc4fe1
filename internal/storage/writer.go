package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// InsertFn abstracts a backend's InsertRows for the write loop, keeping
// the loop testable without a database.
type InsertFn func(ctx context.Context, columns []string, rows [][]any) (WriteStats, error)

// WriteBatches drains encoded rows from in, groups them into batches of
// batchSize, and calls insert per non-empty batch. It is the serialized
// write stage: one goroutine runs it, and each row's success or failure is
// independent of its siblings.
//
// On every flush a progress line is logged with running totals and
// instantaneous rows/sec since the previous flush. Returns the cumulative
// stats and the first fatal error; cancellation returns ctx.Err().
func WriteBatches(
	ctx context.Context,
	log zerolog.Logger,
	columns []string,
	in <-chan []any,
	batchSize int,
	insert InsertFn,
) (WriteStats, error) {
	var total WriteStats
	if batchSize <= 0 {
		return total, fmt.Errorf("batchSize must be > 0")
	}
	if insert == nil {
		return total, fmt.Errorf("insert must not be nil")
	}

	var (
		batches   int64
		batch     = make([][]any, 0, batchSize)
		start     = time.Now()
		lastFlush = start
		lastRows  int64
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		stats, err := insert(ctx, columns, batch)
		total.Add(stats)
		batch = batch[:0]
		if err != nil {
			return err
		}

		batches++
		now := time.Now()
		sinceLast := now.Sub(lastFlush)
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(total.Inserted-lastRows) / sinceLast.Seconds()
		}
		log.Info().
			Int64("batch", batches).
			Float64("rps", rps).
			Int64("inserted", total.Inserted).
			Int64("duplicates", total.Duplicates).
			Int64("failed", total.Failed).
			Str("elapsed", now.Sub(start).Truncate(time.Millisecond).String()).
			Msg("batch flushed")
		lastFlush = now
		lastRows = total.Inserted
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()

		case row, ok := <-in:
			if !ok {
				if err := flush(); err != nil {
					return total, err
				}
				return total, nil
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}
}
