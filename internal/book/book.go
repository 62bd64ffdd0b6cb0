// Package book implements the per-symbol Order Book Engine: the state
// machine that folds NEW/CANCEL/TRADE events into a resting-order table and
// an aggregated price ladder per side, and materializes top-of-book
// snapshots on demand.
package book

import (
	"go.uber.org/zap"

	"github.com/quantsnap/obsnap/internal/model"
)

// restingOrder is the current state of one order still on the book:
// its price (which may differ from the price carried by a later CANCEL/
// TRADE event) and its remaining quantity.
type restingOrder struct {
	Price    float64
	Quantity int32
}

// Book is the order book state for a single symbol. It is not safe for
// concurrent use: per SPEC_FULL.md §3, one Book is owned exclusively by the
// Ingestion Worker that created it.
type Book struct {
	symbol string
	logger *zap.Logger

	buyOrders  map[string]restingOrder
	sellOrders map[string]restingOrder
	bids       *ladder
	asks       *ladder

	lastTradePrice    float64
	lastTradeQuantity int32
}

// New creates an empty Book for symbol. logger may be nil, in which case a
// no-op logger is used.
func New(symbol string, logger *zap.Logger) *Book {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Book{
		symbol:            symbol,
		logger:            logger,
		buyOrders:         make(map[string]restingOrder),
		sellOrders:        make(map[string]restingOrder),
		bids:              newBidLadder(),
		asks:              newAskLadder(),
		lastTradePrice:    model.NoTradePrice,
		lastTradeQuantity: 0,
	}
}

// Apply folds one event into the book's state. It never fails: malformed
// categories are rejected upstream by the parser, and unknown order ids on
// CANCEL/TRADE are silently ignored as a feed anomaly.
func (b *Book) Apply(o model.Order) {
	switch o.Category {
	case model.New:
		b.applyNew(o)
	case model.Cancel:
		b.applyRemove(o, o.Quantity)
	case model.Trade:
		if b.applyRemove(o, o.Quantity) {
			b.lastTradePrice = o.Price
			b.lastTradeQuantity = o.Quantity
		}
	}
}

func (b *Book) applyNew(o model.Order) {
	table, lad := b.sideState(o.Side)
	if _, exists := table[o.ID]; exists {
		b.logger.Warn("duplicate order id on NEW, overwriting resting entry",
			zap.String("symbol", b.symbol),
			zap.String("order_id", o.ID),
		)
	}
	table[o.ID] = restingOrder{Price: o.Price, Quantity: o.Quantity}
	lad.add(o.Price, o.Quantity)
}

// applyRemove reduces the resting order o.ID by up to requestedQty and
// reports whether that order was on the book.
func (b *Book) applyRemove(o model.Order, requestedQty int32) bool {
	table, lad := b.sideState(o.Side)
	existing, ok := table[o.ID]
	if !ok {
		return false // unknown id: feed anomaly, not an error
	}

	removeQty := requestedQty
	if existing.Quantity < removeQty {
		removeQty = existing.Quantity
	}

	lad.remove(existing.Price, removeQty)
	existing.Quantity -= removeQty

	if existing.Quantity <= 0 {
		delete(table, o.ID)
		return true
	}
	table[o.ID] = existing
	return true
}

func (b *Book) sideState(side model.Side) (map[string]restingOrder, *ladder) {
	if side == model.Buy {
		return b.buyOrders, b.bids
	}
	return b.sellOrders, b.asks
}

// Snapshot materializes the current top-of-book state at the given epoch.
// Unpopulated levels carry the sentinel (model.NoLevelPrice, 0).
func (b *Book) Snapshot(epoch int64) model.SnapshotRecord {
	rec := model.SnapshotRecord{
		Symbol:            b.symbol,
		Epoch:             epoch,
		LastTradePrice:    b.lastTradePrice,
		LastTradeQuantity: b.lastTradeQuantity,
	}
	for i := range rec.Bids {
		rec.Bids[i] = model.PriceLevel{Price: model.NoLevelPrice, Quantity: 0}
	}
	for i := range rec.Asks {
		rec.Asks[i] = model.PriceLevel{Price: model.NoLevelPrice, Quantity: 0}
	}

	for i, lvl := range b.bids.top(5) {
		rec.Bids[i] = model.PriceLevel{Price: lvl.Price, Quantity: lvl.Quantity}
	}
	for i, lvl := range b.asks.top(5) {
		rec.Asks[i] = model.PriceLevel{Price: lvl.Price, Quantity: lvl.Quantity}
	}

	return rec
}
