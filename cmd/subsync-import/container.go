package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Krishneshvar/subsync-import/internal/config"
	"github.com/Krishneshvar/subsync-import/internal/datasource"
	"github.com/Krishneshvar/subsync-import/internal/encode"
	"github.com/Krishneshvar/subsync-import/internal/mapper"
	"github.com/Krishneshvar/subsync-import/internal/metrics"
	csvparser "github.com/Krishneshvar/subsync-import/internal/parser/csv"
	"github.com/Krishneshvar/subsync-import/internal/records"
	"github.com/Krishneshvar/subsync-import/internal/schema"
	"github.com/Krishneshvar/subsync-import/internal/storage"
	"github.com/Krishneshvar/subsync-import/internal/transform"
)

// errSampleLimit caps how many example messages each error aggregator
// keeps for the end-of-run summary.
const errSampleLimit = 5

// counters holds cross-goroutine statistics for the streaming run.
// All fields are updated atomically.
type counters struct {
	read         atomic.Int64 // rows leaving the parser
	parseErrors  atomic.Int64 // lines the CSV reader could not parse
	rejected     atomic.Int64 // rows dropped by a cleaning gate
	invalid      atomic.Int64 // rows failing required-field validation after cleaning
	deduplicated atomic.Int64 // rows dropped as in-batch GSTIN duplicates
	encoded      atomic.Int64 // rows handed to the write stage
	batches      atomic.Int64 // insert batches flushed
}

// runtimeConfig is the resolved concurrency and buffering configuration.
// Values come from the pipeline file with environment-variable fallbacks.
type runtimeConfig struct {
	cleanWorkers int
	batchSize    int
	bufferSize   int
}

// Function variables used to introduce test seams. In production these
// point at real implementations; tests override them.
var (
	newRepositoryFn = storage.New
	openSourceFn    = datasource.Open
	streamRecordsFn = csvparser.StreamRecords
)

// run executes the full source → parse → clean → validate → encode →
// store pipeline in a streaming, batched fashion.
//
// Concurrency model:
//
//	Reader (1)
//	    → N clean workers (header mapping + normalization chain)
//	    → Finalizer (1: validation, dedup, encoding; keeps dedup state
//	      and ID generation single-threaded)
//	    → Writer (1: batched inserts)
//
// Bad rows are dropped before the destination; parse errors and
// rejections are counted and summarized at the end. Back-pressure comes
// from bounded channels, so peak memory stays around
// O(batchSize + bufferSize). A fatal writer error cancels upstream work.
func run(ctx context.Context, log zerolog.Logger, p config.Pipeline) error {
	rt := newRuntimeConfig(p)
	exporting := p.Storage.Kind == "csv"

	columns := schema.InsertColumns
	if exporting {
		columns = schema.ExportColumns
	}

	log.Debug().
		Int("clean_workers", rt.cleanWorkers).
		Int("batch_size", rt.batchSize).
		Int("buffer", rt.bufferSize).
		Msg("stream runtime")

	repo, err := newRepositoryFn(ctx, storageConfig(p))
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer repo.Close()

	if err := repo.EnsureTable(ctx); err != nil {
		return err
	}

	seed := p.Cleaning.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	domain := p.Cleaning.EmailDomain
	if domain == "" {
		domain = "gmail.com"
	}

	var stats counters
	parseAgg := newErrAgg(errSampleLimit)
	rejectAgg := newErrAgg(errSampleLimit)
	validateAgg := newErrAgg(errSampleLimit)

	rawCh := make(chan csvparser.Row, rt.bufferSize)
	cleanCh := make(chan records.Record, rt.bufferSize)
	outCh := make(chan []any, rt.bufferSize)

	g, ctx := errgroup.WithContext(ctx)
	job := p.Job

	// Reader: source bytes → raw records.
	g.Go(func() error {
		start := time.Now()
		defer close(rawCh)

		src, err := openSourceFn(ctx, p.Source)
		if err != nil {
			err = fmt.Errorf("open source: %w", err)
			metrics.RecordStage(job, "read", err, time.Since(start))
			return err
		}
		err = streamRecordsFn(ctx, src, p.Parser.Options, rawCh, func(line int, perr error) {
			stats.parseErrors.Add(1)
			parseAgg.add(fmt.Sprintf("line %d: %v", line, perr))
		})
		metrics.RecordStage(job, "read", err, time.Since(start))
		return err
	})

	// Clean workers: header mapping plus the normalization chain. Each
	// worker owns its own chain because the title caser and the seeded
	// random source are not safe to share.
	g.Go(func() error {
		start := time.Now()
		defer close(cleanCh)

		var wg sync.WaitGroup
		for i := 0; i < rt.cleanWorkers; i++ {
			wg.Add(1)
			go func(worker int) {
				defer wg.Done()

				m := mapper.New(p.Cleaning.HeaderOverrides)
				rng := rand.New(rand.NewPCG(seed, uint64(worker)))
				chain := transform.Default(rng, domain)

				for row := range rawCh {
					stats.read.Add(1)
					rec, err := chain.Apply(m.Map(row.Rec))
					if err != nil {
						stats.rejected.Add(1)
						rejectAgg.add(fmt.Sprintf("line %d: %v", row.Line, err))
						continue
					}
					select {
					case cleanCh <- rec:
					case <-ctx.Done():
						return
					}
				}
			}(i)
		}
		wg.Wait()
		metrics.RecordStage(job, "clean", nil, time.Since(start))
		return nil
	})

	// Finalizer: validation, in-batch dedup, and encoding run on a
	// single goroutine so the dedup set needs no locking and customer
	// IDs are generated in arrival order.
	g.Go(func() error {
		start := time.Now()
		defer close(outCh)

		enc := encode.New()
		dedup := transform.NewDedup()

		for rec := range cleanCh {
			if err := transform.Validate(rec); err != nil {
				stats.invalid.Add(1)
				validateAgg.add(err.Error())
				continue
			}
			if err := dedup.Check(rec); err != nil {
				stats.deduplicated.Add(1)
				validateAgg.add(err.Error())
				continue
			}
			row, err := enc.Encode(rec)
			if err != nil {
				stats.invalid.Add(1)
				validateAgg.add(err.Error())
				continue
			}

			var vals []any
			if exporting {
				ev := row.ExportValues()
				vals = make([]any, len(ev))
				for i, v := range ev {
					vals[i] = v
				}
			} else {
				vals = row.Values()
			}

			stats.encoded.Add(1)
			select {
			case outCh <- vals:
			case <-ctx.Done():
				metrics.RecordStage(job, "finalize", ctx.Err(), time.Since(start))
				return ctx.Err()
			}
		}
		metrics.RecordStage(job, "finalize", nil, time.Since(start))
		return nil
	})

	// Writer: one goroutine batches and inserts.
	var writeStats storage.WriteStats
	g.Go(func() error {
		start := time.Now()
		ws, err := storage.WriteBatches(ctx, log, columns, outCh, rt.batchSize,
			func(ctx context.Context, cols []string, rows [][]any) (storage.WriteStats, error) {
				stats.batches.Add(1)
				return repo.InsertRows(ctx, cols, rows)
			})
		writeStats = ws
		metrics.RecordStage(job, "write", err, time.Since(start))
		return err
	})

	runErr := g.Wait()

	logErrSummaries(log, parseAgg, rejectAgg, validateAgg)
	logSummary(log, &stats, writeStats)
	recordRunMetrics(job, &stats, writeStats)

	return runErr
}

// storageConfig maps the pipeline's storage section onto the backend
// config, applying the SUBSYNC_DB_DSN environment override.
func storageConfig(p config.Pipeline) storage.Config {
	dsn := p.Storage.DB.DSN
	if env := os.Getenv("SUBSYNC_DB_DSN"); env != "" {
		dsn = env
	}
	var comma rune
	for _, r := range p.Storage.File.Comma {
		comma = r
		break
	}
	return storage.Config{
		Kind:            p.Storage.Kind,
		DSN:             dsn,
		Table:           p.Storage.DB.Table,
		AutoCreateTable: p.Storage.DB.AutoCreateTable,
		Path:            p.Storage.File.Path,
		Comma:           comma,
	}
}

// newRuntimeConfig resolves concurrency settings from the pipeline file
// with environment-variable fallbacks.
func newRuntimeConfig(p config.Pipeline) runtimeConfig {
	return runtimeConfig{
		cleanWorkers: pickInt(p.Runtime.CleanWorkers, getenvInt("SUBSYNC_CLEAN_WORKERS", 4)),
		batchSize:    pickInt(p.Runtime.BatchSize, getenvInt("SUBSYNC_BATCH_SIZE", 500)),
		bufferSize:   pickInt(p.Runtime.ChannelBuffer, getenvInt("SUBSYNC_CH_BUFFER", 1024)),
	}
}

func logErrSummaries(log zerolog.Logger, parseAgg, rejectAgg, validateAgg *errAgg) {
	logAgg := func(agg *errAgg, what string) {
		if agg.count == 0 {
			return
		}
		log.Warn().Int("total", agg.count).Int("showing", len(agg.first)).Msg(what)
		for _, s := range agg.first {
			log.Warn().Msg("  " + s)
		}
	}
	logAgg(parseAgg, "parse errors")
	logAgg(rejectAgg, "cleaning rejections")
	logAgg(validateAgg, "validation drops")
}

// logSummary prints final statistics for the run. Row conservation
// holds for data rows:
//
//	read == rejected + invalid + deduplicated + encoded
//	encoded == inserted + duplicates + failed
//
// A mismatch (barring early cancellation) indicates an accounting bug.
func logSummary(log zerolog.Logger, c *counters, ws storage.WriteStats) {
	read := c.read.Load()
	accounted := c.rejected.Load() + c.invalid.Load() + c.deduplicated.Load() + c.encoded.Load()

	log.Info().
		Int64("read", read).
		Int64("parse_errors", c.parseErrors.Load()).
		Int64("rejected", c.rejected.Load()).
		Int64("invalid", c.invalid.Load()).
		Int64("deduplicated", c.deduplicated.Load()).
		Int64("encoded", c.encoded.Load()).
		Int64("inserted", ws.Inserted).
		Int64("duplicates", ws.Duplicates).
		Int64("failed", ws.Failed).
		Int64("batches", c.batches.Load()).
		Msg("summary")

	if accounted != read {
		log.Warn().
			Int64("read", read).
			Int64("accounted", accounted).
			Msg("row accounting mismatch")
	}
}

func recordRunMetrics(job string, c *counters, ws storage.WriteStats) {
	metrics.RecordRow(job, "read", c.read.Load())
	metrics.RecordRow(job, "parse_errors", c.parseErrors.Load())
	metrics.RecordRow(job, "rejected", c.rejected.Load())
	metrics.RecordRow(job, "invalid", c.invalid.Load())
	metrics.RecordRow(job, "deduplicated", c.deduplicated.Load())
	metrics.RecordRow(job, "inserted", ws.Inserted)
	metrics.RecordRow(job, "duplicates", ws.Duplicates)
	metrics.RecordRow(job, "failed", ws.Failed)
	metrics.RecordBatches(job, c.batches.Load())
}

// errAgg aggregates error messages, keeping the first few as samples.
type errAgg struct {
	mu    sync.Mutex
	limit int
	count int
	first []string
}

func newErrAgg(limit int) *errAgg {
	return &errAgg{limit: limit}
}

func (a *errAgg) add(msg string) {
	a.mu.Lock()
	if a.count < a.limit {
		a.first = append(a.first, msg)
	}
	a.count++
	a.mu.Unlock()
}

// getenvInt reads an int from the environment, returning def when unset
// or invalid.
func getenvInt(k string, def int) int {
	if s := os.Getenv(k); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

// pickInt chooses a when positive, otherwise b.
func pickInt(a, b int) int {
	if a > 0 {
		return a
	}
	return b
}
