// Package ingest implements the Ingestion Worker and Coordinator: one
// worker consumes a single source file in strict sequential order,
// applying each event to a per-symbol Order Book Engine and persisting the
// resulting snapshot; the coordinator runs one worker per configured
// source concurrently and joins them unconditionally at the end.
package ingest

import (
	"bufio"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quantsnap/obsnap/internal/book"
	"github.com/quantsnap/obsnap/internal/feedparser"
	"github.com/quantsnap/obsnap/internal/model"
	"github.com/quantsnap/obsnap/internal/progress"
)

// appender is the subset of *store.Store a worker needs, kept narrow for
// testing with a fake.
type appender interface {
	Append(symbol string, rec model.SnapshotRecord) error
}

// Source names one ingestion input: a symbol and the path to its feed
// file. Two sources may legitimately name the same symbol.
type Source struct {
	Symbol string
	Path   string
}

// Worker consumes a single Source to completion, strictly single-threaded
// and sequential within itself (SPEC_FULL.md §5): events are applied in
// file order, and a snapshot is persisted after every event before the
// next line is read.
type Worker struct {
	source   Source
	store    appender
	progress *progress.Counter
	logger   *zap.Logger
}

// NewWorker creates a Worker. counter and logger may be nil.
func NewWorker(source Source, store appender, counter *progress.Counter, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{source: source, store: store, progress: counter, logger: logger}
}

// Run opens the source file, folds every line into a fresh Order Book
// Engine for the source's symbol, and persists a snapshot after each
// applied event. A malformed line is logged and skipped; the worker never
// aborts on a recoverable parse error, per spec.md §7.
func (w *Worker) Run() error {
	f, err := os.Open(w.source.Path)
	if err != nil {
		w.logger.Error("open source", zap.String("symbol", w.source.Symbol), zap.String("path", w.source.Path), zap.Error(err))
		return err
	}
	defer f.Close()

	bk := book.New(w.source.Symbol, w.logger)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if w.progress != nil {
			w.progress.Add(uint64(len(line)) + 1)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		order, err := feedparser.ParseLine(line)
		if err != nil {
			w.logger.Warn("skipping malformed feed line",
				zap.String("symbol", w.source.Symbol),
				zap.String("path", w.source.Path),
				zap.Error(err),
			)
			continue
		}

		bk.Apply(order)
		rec := bk.Snapshot(order.Epoch)
		if err := w.store.Append(order.Symbol, rec); err != nil {
			w.logger.Error("append snapshot",
				zap.String("symbol", order.Symbol),
				zap.Int64("epoch", order.Epoch),
				zap.Error(err),
			)
		}
	}

	if err := scanner.Err(); err != nil {
		w.logger.Error("read source", zap.String("symbol", w.source.Symbol), zap.String("path", w.source.Path), zap.Error(err))
		return err
	}
	return nil
}

// Coordinator spawns one Worker per configured source and runs them
// concurrently, joining unconditionally at the end (no cancellation, no
// timeouts — SPEC_FULL.md §5).
type Coordinator struct {
	store    appender
	progress *progress.Counter
	logger   *zap.Logger
}

// NewCoordinator creates a Coordinator. counter and logger may be nil.
func NewCoordinator(store appender, counter *progress.Counter, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{store: store, progress: counter, logger: logger}
}

// Run starts one worker per source and waits for all of them to finish.
// It returns the first worker error, if any, but every worker still runs
// to completion (errgroup.Group does not cancel siblings without a
// context, and none is threaded here — cancellation is out of scope).
func (c *Coordinator) Run(sources []Source) error {
	if c.progress != nil {
		c.progress.SetTotal(totalBytes(sources, c.logger))
	}

	var g errgroup.Group
	for _, src := range sources {
		src := src
		g.Go(func() error {
			w := NewWorker(src, c.store, c.progress, c.logger)
			return w.Run()
		})
	}
	return g.Wait()
}

func totalBytes(sources []Source, logger *zap.Logger) uint64 {
	var total uint64
	for _, src := range sources {
		info, err := os.Stat(src.Path)
		if err != nil {
			logger.Warn("stat source for progress total", zap.String("path", src.Path), zap.Error(err))
			continue
		}
		total += uint64(info.Size())
	}
	return total
}
