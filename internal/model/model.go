// Package model defines the value types shared across the ingestion and
// query paths: the transient per-event Order, and the persisted
// SnapshotRecord and IndexEntry.
package model

// Side is the direction of a resting or incoming order.
type Side int

const (
	// Buy identifies a bid-side order.
	Buy Side = iota
	// Sell identifies an ask-side order.
	Sell
)

// String renders the side the way the feed and the renderer expect it.
func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Category is the kind of event carried by an Order.
type Category int

const (
	// New introduces a resting order.
	New Category = iota
	// Cancel removes (fully or partially) a resting order.
	Cancel
	// Trade fills (fully or partially) a resting order and records a last-trade print.
	Trade
)

// String renders the category the way the feed and the renderer expect it.
func (c Category) String() string {
	switch c {
	case New:
		return "NEW"
	case Cancel:
		return "CANCEL"
	case Trade:
		return "TRADE"
	default:
		return "UNKNOWN"
	}
}

// Order is a single NEW/CANCEL/TRADE event parsed from the feed. It is
// transient: the book folds it into resting/ladder state and discards it.
type Order struct {
	Epoch    int64
	ID       string
	Symbol   string
	Side     Side
	Category Category
	Price    float64
	Quantity int32
}

// NoTradePrice is the sentinel last-trade price meaning "no trade yet".
const NoTradePrice = -1.0

// NoLevelPrice is the sentinel price for an unpopulated bid/ask level.
const NoLevelPrice = -1.0

// PriceLevel is one aggregated price/quantity pair on one side of a snapshot.
type PriceLevel struct {
	Price    float64
	Quantity int32
}

// SnapshotRecord is the fixed-shape, top-of-book view of a symbol's book at
// a specific epoch. It is the unit persisted by the Snapshot Store and
// returned by the Query Engine.
type SnapshotRecord struct {
	Symbol            string
	Epoch             int64
	Bids              [5]PriceLevel
	Asks              [5]PriceLevel
	LastTradePrice    float64
	LastTradeQuantity int32
}

// IndexEntry is one (epoch, offset) pair in a symbol's .idx file, pointing
// at the byte offset of the corresponding record in the .snap file.
type IndexEntry struct {
	Epoch  int64
	Offset int64
}
