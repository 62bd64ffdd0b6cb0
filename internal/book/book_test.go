package book

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantsnap/obsnap/internal/model"
)

func noLevel() model.PriceLevel {
	return model.PriceLevel{Price: model.NoLevelPrice, Quantity: 0}
}

// S1 — single NEW per side.
func TestSingleNewPerSide(t *testing.T) {
	b := New("TEST", nil)
	b.Apply(model.Order{Epoch: 0, ID: "1", Symbol: "TEST", Side: model.Buy, Category: model.New, Price: 10.0, Quantity: 100})
	b.Apply(model.Order{Epoch: 1, ID: "2", Symbol: "TEST", Side: model.Sell, Category: model.New, Price: 11.0, Quantity: 150})

	snap := b.Snapshot(1)
	assert.Equal(t, model.PriceLevel{Price: 10.0, Quantity: 100}, snap.Bids[0])
	for i := 1; i < 5; i++ {
		assert.Equal(t, noLevel(), snap.Bids[i])
	}
	assert.Equal(t, model.PriceLevel{Price: 11.0, Quantity: 150}, snap.Asks[0])
	for i := 1; i < 5; i++ {
		assert.Equal(t, noLevel(), snap.Asks[i])
	}
	assert.Equal(t, model.NoTradePrice, snap.LastTradePrice)
	assert.Equal(t, int32(0), snap.LastTradeQuantity)
}

// S2 — cancel a resting order.
func TestCancelRestingOrder(t *testing.T) {
	b := New("TEST", nil)
	b.Apply(model.Order{ID: "1", Side: model.Buy, Category: model.New, Price: 10.0, Quantity: 100})
	b.Apply(model.Order{ID: "2", Side: model.Sell, Category: model.New, Price: 11.0, Quantity: 150})

	b.Apply(model.Order{Epoch: 2, ID: "1", Side: model.Buy, Category: model.Cancel, Price: 10.0, Quantity: 100})

	snap := b.Snapshot(2)
	for i := 0; i < 5; i++ {
		assert.Equal(t, noLevel(), snap.Bids[i])
	}
	assert.Equal(t, model.PriceLevel{Price: 11.0, Quantity: 150}, snap.Asks[0])
}

// S3 — partial trade.
func TestPartialTrade(t *testing.T) {
	b := New("TEST", nil)
	b.Apply(model.Order{ID: "s1", Side: model.Sell, Category: model.New, Price: 9.7, Quantity: 5})
	b.Apply(model.Order{ID: "s2", Side: model.Sell, Category: model.New, Price: 9.7, Quantity: 10})

	b.Apply(model.Order{ID: "s1", Side: model.Sell, Category: model.Trade, Price: 9.7, Quantity: 4})

	snap := b.Snapshot(5)
	assert.Equal(t, model.PriceLevel{Price: 9.7, Quantity: 11}, snap.Asks[0])
	assert.Equal(t, 9.7, snap.LastTradePrice)
	assert.Equal(t, int32(4), snap.LastTradeQuantity)
}

// S4 — aggregation at equal price.
func TestAggregationAtEqualPrice(t *testing.T) {
	b := New("TEST", nil)
	b.Apply(model.Order{ID: "b1", Side: model.Buy, Category: model.New, Price: 9.5, Quantity: 6})
	b.Apply(model.Order{ID: "b2", Side: model.Buy, Category: model.New, Price: 9.5, Quantity: 4})

	snap := b.Snapshot(0)
	assert.Equal(t, model.PriceLevel{Price: 9.5, Quantity: 10}, snap.Bids[0])
	assert.Equal(t, noLevel(), snap.Bids[1])
}

func TestTradeUsesStoredPriceNotEventPrice(t *testing.T) {
	b := New("TEST", nil)
	b.Apply(model.Order{ID: "1", Side: model.Buy, Category: model.New, Price: 10.0, Quantity: 100})

	// Event carries a different (fill) price; the aggregate at the stored
	// price (10.0) must be the one adjusted, not a nonexistent level at 9.0.
	b.Apply(model.Order{ID: "1", Side: model.Buy, Category: model.Trade, Price: 9.0, Quantity: 40})

	snap := b.Snapshot(0)
	assert.Equal(t, model.PriceLevel{Price: 10.0, Quantity: 60}, snap.Bids[0])
	assert.Equal(t, 9.0, snap.LastTradePrice)
}

func TestCancelOvershootClampedToRemaining(t *testing.T) {
	b := New("TEST", nil)
	b.Apply(model.Order{ID: "1", Side: model.Buy, Category: model.New, Price: 10.0, Quantity: 10})
	b.Apply(model.Order{ID: "1", Side: model.Buy, Category: model.Cancel, Price: 10.0, Quantity: 999})

	snap := b.Snapshot(0)
	assert.Equal(t, noLevel(), snap.Bids[0])
}

func TestUnknownIDIgnored(t *testing.T) {
	b := New("TEST", nil)
	b.Apply(model.Order{ID: "ghost", Side: model.Buy, Category: model.Cancel, Price: 10.0, Quantity: 5})
	b.Apply(model.Order{ID: "ghost", Side: model.Sell, Category: model.Trade, Price: 10.0, Quantity: 5})

	snap := b.Snapshot(0)
	assert.Equal(t, model.NoTradePrice, snap.LastTradePrice, "TRADE against an unknown id must not record a last trade")
}

func TestDuplicateNewOverwritesAndInflatesLadder(t *testing.T) {
	b := New("TEST", nil)
	b.Apply(model.Order{ID: "1", Side: model.Buy, Category: model.New, Price: 10.0, Quantity: 100})
	b.Apply(model.Order{ID: "1", Side: model.Buy, Category: model.New, Price: 11.0, Quantity: 50})

	snap := b.Snapshot(0)
	// Reference behavior: old level at 10.0 is left inflated, new level at
	// 11.0 gets the duplicate NEW's quantity.
	assert.Equal(t, model.PriceLevel{Price: 11.0, Quantity: 50}, snap.Bids[0])
	assert.Equal(t, model.PriceLevel{Price: 10.0, Quantity: 100}, snap.Bids[1])
}

func TestBidAskOrdering(t *testing.T) {
	b := New("TEST", nil)
	prices := []float64{9.0, 9.5, 10.0, 10.5, 11.0, 11.5}
	for i, p := range prices {
		b.Apply(model.Order{ID: string(rune('a' + i)), Side: model.Buy, Category: model.New, Price: p, Quantity: 1})
		b.Apply(model.Order{ID: string(rune('A' + i)), Side: model.Sell, Category: model.New, Price: p + 100, Quantity: 1})
	}

	snap := b.Snapshot(0)
	for i := 0; i < 4; i++ {
		assert.Greater(t, snap.Bids[i].Price, snap.Bids[i+1].Price)
		assert.Less(t, snap.Asks[i].Price, snap.Asks[i+1].Price)
	}
}
