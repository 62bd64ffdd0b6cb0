// Package store implements the Snapshot Store: a pair of append-only,
// per-symbol files — "<symbol>.snap" holding fixed-size snapshot records
// and "<symbol>.idx" holding the parallel (epoch, offset) index — plus the
// concurrency discipline that lets multiple ingestion workers append
// safely and a reader scan a consistent range.
package store

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/quantsnap/obsnap/internal/codec"
	"github.com/quantsnap/obsnap/internal/model"
)

// Store manages the snapshot/index file pairs for every symbol under a
// single directory.
type Store struct {
	dir    string
	logger *zap.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New creates a Store rooted at dir. dir is created (including parents) on
// the first Append if it does not already exist. logger may be nil.
func New(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		dir:    dir,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// lockFor returns the per-symbol mutex guarding that symbol's append
// critical section, creating it on first use. SPEC_FULL.md §4.2 chooses
// per-symbol locks over one process-wide lock: appends to different
// symbols never contend with each other, and the single-mutex reference
// design exists mainly because its critical sections are short.
func (s *Store) lockFor(symbol string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[symbol]
	if !ok {
		l = &sync.Mutex{}
		s.locks[symbol] = l
	}
	return l
}

func (s *Store) snapPath(symbol string) string {
	return filepath.Join(s.dir, symbol+".snap")
}

func (s *Store) idxPath(symbol string) string {
	return filepath.Join(s.dir, symbol+".idx")
}

// Append writes rec to symbol's snapshot file and a matching entry to its
// index file. The two writes are atomic with respect to any other Append
// on the same symbol (but not with respect to Appends on other symbols,
// nor across a process crash between the two writes).
//
// On any I/O failure the call is logged and returns an error; the caller
// is expected to log/skip and continue, per SPEC_FULL.md §7 — a failed
// Append never panics or aborts ingestion.
func (s *Store) Append(symbol string, rec model.SnapshotRecord) error {
	lock := s.lockFor(symbol)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.logger.Error("create store directory", zap.String("dir", s.dir), zap.Error(err))
		return err
	}

	snapFile, err := os.OpenFile(s.snapPath(symbol), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		s.logger.Error("open snapshot file", zap.String("symbol", symbol), zap.Error(err))
		return err
	}
	defer snapFile.Close()

	info, err := snapFile.Stat()
	if err != nil {
		s.logger.Error("stat snapshot file", zap.String("symbol", symbol), zap.Error(err))
		return err
	}
	offset := info.Size()

	buf := codec.EncodeRecord(rec)
	if n, err := snapFile.Write(buf); err != nil || n != len(buf) {
		s.logger.Error("write snapshot record", zap.String("symbol", symbol), zap.Error(err))
		if err == nil {
			err = io.ErrShortWrite
		}
		return err
	}

	idxFile, err := os.OpenFile(s.idxPath(symbol), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		s.logger.Error("open index file", zap.String("symbol", symbol), zap.Error(err))
		return err
	}
	defer idxFile.Close()

	idxBuf := codec.EncodeIndexEntry(model.IndexEntry{Epoch: rec.Epoch, Offset: offset})
	if n, err := idxFile.Write(idxBuf); err != nil || n != len(idxBuf) {
		s.logger.Error("write index entry", zap.String("symbol", symbol), zap.Error(err))
		if err == nil {
			err = io.ErrShortWrite
		}
		return err
	}

	return nil
}

// ScanRange loads symbol's index into memory, binary-searches for the
// first entry with epoch >= start, and sequentially decodes records from
// that offset while epoch <= end. It returns (nil, nil) — not an error —
// for a missing or unreadable file, matching SPEC_FULL.md §7: other
// symbols must still be queryable.
func (s *Store) ScanRange(symbol string, start, end int64) ([]model.SnapshotRecord, error) {
	entries, err := s.readIndex(symbol)
	if err != nil {
		s.logger.Warn("read index file", zap.String("symbol", symbol), zap.Error(err))
		return nil, nil
	}
	if len(entries) == 0 {
		return nil, nil
	}

	first := sort.Search(len(entries), func(i int) bool { return entries[i].Epoch >= start })
	if first == len(entries) {
		return nil, nil
	}

	snapFile, err := os.Open(s.snapPath(symbol))
	if err != nil {
		s.logger.Warn("open snapshot file", zap.String("symbol", symbol), zap.Error(err))
		return nil, nil
	}
	defer snapFile.Close()

	if _, err := snapFile.Seek(entries[first].Offset, io.SeekStart); err != nil {
		s.logger.Warn("seek snapshot file", zap.String("symbol", symbol), zap.Error(err))
		return nil, nil
	}

	var results []model.SnapshotRecord
	buf := make([]byte, codec.RecordSize)
	for {
		if _, err := io.ReadFull(snapFile, buf); err != nil {
			if err != io.EOF {
				s.logger.Warn("short read on snapshot file, stopping at last whole record",
					zap.String("symbol", symbol), zap.Error(err))
			}
			break
		}
		rec, err := codec.DecodeRecord(buf)
		if err != nil {
			break
		}
		if rec.Epoch > end {
			break
		}
		if rec.Epoch >= start {
			results = append(results, rec)
		}
	}
	return results, nil
}

func (s *Store) readIndex(symbol string) ([]model.IndexEntry, error) {
	data, err := os.ReadFile(s.idxPath(symbol))
	if err != nil {
		return nil, err
	}

	n := len(data) / codec.IndexEntrySize
	entries := make([]model.IndexEntry, 0, n)
	for i := 0; i < n; i++ {
		chunk := data[i*codec.IndexEntrySize : (i+1)*codec.IndexEntrySize]
		entry, err := codec.DecodeIndexEntry(chunk)
		if err != nil {
			break
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
