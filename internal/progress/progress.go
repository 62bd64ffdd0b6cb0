// Package progress holds the process-wide byte counters ingestion workers
// advance as they consume their sources, and that an optional reporter
// reads to render a loading bar. It mirrors the pair of atomic globals
// (g_totalBytes, g_bytesProcessed) in the original implementation, but
// scoped to a struct handed by reference instead of package globals.
package progress

import "sync/atomic"

// Counter tracks total expected bytes and bytes processed so far across
// every ingestion worker. All methods are safe for concurrent use.
type Counter struct {
	total     atomic.Uint64
	processed atomic.Uint64
}

// SetTotal records the total number of bytes ingestion expects to read,
// typically the combined size of all source files.
func (c *Counter) SetTotal(n uint64) {
	c.total.Store(n)
}

// Add advances the processed count by n bytes. Called by each worker after
// consuming a line from its source.
func (c *Counter) Add(n uint64) {
	c.processed.Add(n)
}

// Total returns the configured total byte count.
func (c *Counter) Total() uint64 {
	return c.total.Load()
}

// Processed returns the number of bytes processed so far.
func (c *Counter) Processed() uint64 {
	return c.processed.Load()
}

// Fraction returns Processed()/Total() in [0,1], or 0 if Total() is 0.
func (c *Counter) Fraction() float64 {
	total := c.total.Load()
	if total == 0 {
		return 0
	}
	return float64(c.processed.Load()) / float64(total)
}
