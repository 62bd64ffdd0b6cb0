// Package query implements the Query Engine: for each requested symbol it
// delegates to the Snapshot Store's range scan, then merges and sorts the
// per-symbol results into one ascending-epoch sequence.
package query

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/quantsnap/obsnap/internal/model"
)

// rangeScanner is the subset of *store.Store the query engine depends on,
// kept narrow so tests can supply a fake store.
type rangeScanner interface {
	ScanRange(symbol string, start, end int64) ([]model.SnapshotRecord, error)
}

// Criteria describes one query: an inclusive epoch window and the symbols
// to search. An empty Symbols list means "every known symbol".
type Criteria struct {
	StartEpoch int64
	EndEpoch   int64
	Symbols    []string
}

// Engine answers range queries against a Snapshot Store.
type Engine struct {
	store        rangeScanner
	knownSymbols []string
	logger       *zap.Logger
}

// New creates an Engine. knownSymbols is used when a Criteria's Symbols
// list is empty. logger may be nil.
func New(store rangeScanner, knownSymbols []string, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, knownSymbols: knownSymbols, logger: logger}
}

// Query returns every snapshot record across the requested symbols whose
// epoch falls in [c.StartEpoch, c.EndEpoch], merged and sorted ascending by
// epoch (S6 — cross-symbol merge). An inverted window (start > end) returns
// an empty result and an error; a missing/unreadable symbol file yields an
// empty sub-result for that symbol without failing the whole query.
func (e *Engine) Query(c Criteria) ([]model.SnapshotRecord, error) {
	if c.StartEpoch > c.EndEpoch {
		e.logger.Error("invalid query window",
			zap.Int64("start_epoch", c.StartEpoch),
			zap.Int64("end_epoch", c.EndEpoch),
		)
		return nil, fmt.Errorf("query: start epoch %d is greater than end epoch %d", c.StartEpoch, c.EndEpoch)
	}

	symbols := c.Symbols
	if len(symbols) == 0 {
		symbols = e.knownSymbols
	}

	var results []model.SnapshotRecord
	for _, symbol := range symbols {
		recs, err := e.store.ScanRange(symbol, c.StartEpoch, c.EndEpoch)
		if err != nil {
			e.logger.Error("scan symbol", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		results = append(results, recs...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Epoch < results[j].Epoch
	})
	return results, nil
}
