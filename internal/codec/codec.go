// Package codec implements the fixed-width binary encoding of
// model.SnapshotRecord and model.IndexEntry described in SPEC_FULL.md §6.2.
//
// Encoding is done field-by-field with explicit little-endian widths rather
// than by reinterpreting Go struct memory: Go gives no portable guarantee
// that a struct's in-memory layout matches any particular wire shape, so
// the only safe way to produce a stable cross-build format is to write
// each field out by hand.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/quantsnap/obsnap/internal/model"
)

// RecordSize is the fixed, on-disk size in bytes of one SnapshotRecord.
//
//	symbol(8) + epoch(8) + bidPrices(5*8) + bidQty(5*4) +
//	askPrices(5*8) + askQty(5*4) + lastTradePrice(8) + lastTradeQty(4)
const RecordSize = 8 + 8 + 5*8 + 5*4 + 5*8 + 5*4 + 8 + 4

// IndexEntrySize is the fixed, on-disk size in bytes of one IndexEntry.
const IndexEntrySize = 8 + 8

const symbolFieldWidth = 8

var byteOrder = binary.LittleEndian

// EncodeRecord serializes r into the fixed RecordSize layout.
//
// Symbols longer than 8 bytes are truncated; this mirrors the upstream
// feed guarantee (SPEC_FULL.md: symbol is printable, <=7 bytes) rather
// than being treated as an error here.
func EncodeRecord(r model.SnapshotRecord) []byte {
	buf := make([]byte, RecordSize)
	off := 0

	var symBytes [symbolFieldWidth]byte
	copy(symBytes[:], r.Symbol)
	copy(buf[off:off+symbolFieldWidth], symBytes[:])
	off += symbolFieldWidth

	byteOrder.PutUint64(buf[off:], uint64(r.Epoch))
	off += 8

	for _, lvl := range r.Bids {
		byteOrder.PutUint64(buf[off:], math.Float64bits(lvl.Price))
		off += 8
	}
	for _, lvl := range r.Bids {
		byteOrder.PutUint32(buf[off:], uint32(lvl.Quantity))
		off += 4
	}

	for _, lvl := range r.Asks {
		byteOrder.PutUint64(buf[off:], math.Float64bits(lvl.Price))
		off += 8
	}
	for _, lvl := range r.Asks {
		byteOrder.PutUint32(buf[off:], uint32(lvl.Quantity))
		off += 4
	}

	byteOrder.PutUint64(buf[off:], math.Float64bits(r.LastTradePrice))
	off += 8
	byteOrder.PutUint32(buf[off:], uint32(r.LastTradeQuantity))
	off += 4

	return buf
}

// DecodeRecord parses a RecordSize-length buffer produced by EncodeRecord.
// decode(encode(r)) == r for every representable record.
func DecodeRecord(buf []byte) (model.SnapshotRecord, error) {
	if len(buf) != RecordSize {
		return model.SnapshotRecord{}, fmt.Errorf("codec: record buffer has %d bytes, want %d", len(buf), RecordSize)
	}

	var r model.SnapshotRecord
	off := 0

	r.Symbol = trimSymbol(buf[off : off+symbolFieldWidth])
	off += symbolFieldWidth

	r.Epoch = int64(byteOrder.Uint64(buf[off:]))
	off += 8

	var bidPrices [5]float64
	for i := range bidPrices {
		bidPrices[i] = math.Float64frombits(byteOrder.Uint64(buf[off:]))
		off += 8
	}
	var bidQty [5]int32
	for i := range bidQty {
		bidQty[i] = int32(byteOrder.Uint32(buf[off:]))
		off += 4
	}
	for i := range r.Bids {
		r.Bids[i] = model.PriceLevel{Price: bidPrices[i], Quantity: bidQty[i]}
	}

	var askPrices [5]float64
	for i := range askPrices {
		askPrices[i] = math.Float64frombits(byteOrder.Uint64(buf[off:]))
		off += 8
	}
	var askQty [5]int32
	for i := range askQty {
		askQty[i] = int32(byteOrder.Uint32(buf[off:]))
		off += 4
	}
	for i := range r.Asks {
		r.Asks[i] = model.PriceLevel{Price: askPrices[i], Quantity: askQty[i]}
	}

	r.LastTradePrice = math.Float64frombits(byteOrder.Uint64(buf[off:]))
	off += 8
	r.LastTradeQuantity = int32(byteOrder.Uint32(buf[off:]))
	off += 4

	return r, nil
}

// trimSymbol strips the trailing zero padding from a fixed-width symbol field.
func trimSymbol(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return string(b[:n])
}

// EncodeIndexEntry serializes e into the fixed IndexEntrySize layout.
func EncodeIndexEntry(e model.IndexEntry) []byte {
	buf := make([]byte, IndexEntrySize)
	byteOrder.PutUint64(buf[0:8], uint64(e.Epoch))
	byteOrder.PutUint64(buf[8:16], uint64(e.Offset))
	return buf
}

// DecodeIndexEntry parses an IndexEntrySize-length buffer produced by EncodeIndexEntry.
func DecodeIndexEntry(buf []byte) (model.IndexEntry, error) {
	if len(buf) != IndexEntrySize {
		return model.IndexEntry{}, fmt.Errorf("codec: index entry buffer has %d bytes, want %d", len(buf), IndexEntrySize)
	}
	return model.IndexEntry{
		Epoch:  int64(byteOrder.Uint64(buf[0:8])),
		Offset: int64(byteOrder.Uint64(buf[8:16])),
	}, nil
}
