package book

import "github.com/google/btree"

// level is one (price, aggregated quantity) entry in a ladder. Ordering
// within the tree is determined entirely by the ladder's less function, so
// Quantity never participates in tree comparisons.
type level struct {
	Price    float64
	Quantity int32
}

// ladder is an ordered price->quantity map realizing Design Note §9's
// "single generic ordered map with a direction flag": the same btree.BTreeG
// type serves both sides of the book, with the comparator encoding which
// direction is "best".
type ladder struct {
	tree *btree.BTreeG[level]
}

const ladderDegree = 32

func newBidLadder() *ladder {
	return &ladder{tree: btree.NewG(ladderDegree, func(a, b level) bool {
		return a.Price > b.Price // descending: best bid first
	})}
}

func newAskLadder() *ladder {
	return &ladder{tree: btree.NewG(ladderDegree, func(a, b level) bool {
		return a.Price < b.Price // ascending: best ask first
	})}
}

// add increases the aggregated quantity at price by qty, creating the level
// if it did not already exist.
func (l *ladder) add(price float64, qty int32) {
	key := level{Price: price}
	if existing, ok := l.tree.Get(key); ok {
		existing.Quantity += qty
		l.tree.ReplaceOrInsert(existing)
		return
	}
	l.tree.ReplaceOrInsert(level{Price: price, Quantity: qty})
}

// remove decreases the aggregated quantity at price by qty, deleting the
// level outright once its quantity would fall to zero or below. A price
// with no existing level is a no-op.
func (l *ladder) remove(price float64, qty int32) {
	key := level{Price: price}
	existing, ok := l.tree.Get(key)
	if !ok {
		return
	}
	existing.Quantity -= qty
	if existing.Quantity <= 0 {
		l.tree.Delete(key)
		return
	}
	l.tree.ReplaceOrInsert(existing)
}

// top returns up to n levels in the ladder's best-first order.
func (l *ladder) top(n int) []level {
	out := make([]level, 0, n)
	l.tree.Ascend(func(item level) bool {
		out = append(out, item)
		return len(out) < n
	})
	return out
}
