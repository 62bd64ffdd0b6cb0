// Package render formats Snapshot Records for display: a default grouped
// view that lines up each side's five levels around the spread, and a
// selective-field CSV view driven by a caller-supplied field list.
package render

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quantsnap/obsnap/internal/model"
)

// naSentinel is printed in place of a missing price level or a no-trade
// field, matching the original renderer's placeholder.
const naSentinel = "N.A"

// Fields lists the 24 selectable output fields in their canonical order.
var Fields = []string{
	"symbol", "epoch",
	"bid1p", "bid2p", "bid3p", "bid4p", "bid5p",
	"bid1q", "bid2q", "bid3q", "bid4q", "bid5q",
	"ask1p", "ask2p", "ask3p", "ask4p", "ask5p",
	"ask1q", "ask2q", "ask3q", "ask4q", "ask5q",
	"lastTradePrice", "lastTradeQuantity",
}

var validFields = func() map[string]bool {
	m := make(map[string]bool, len(Fields))
	for _, f := range Fields {
		m[f] = true
	}
	return m
}()

// UnknownFieldError reports a requested output field that is not among
// the 24 named fields (spec.md §7, "Unknown output field").
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("render: unknown output field %q", e.Field)
}

func roundPrice(p float64) string {
	if p == model.NoLevelPrice {
		return naSentinel
	}
	return decimal.NewFromFloat(p).Round(2).String()
}

func quantityOrNA(missing bool, q int32) string {
	if missing {
		return naSentinel
	}
	return fmt.Sprintf("%d", q)
}

// Grouped renders the default view: five ask levels (best last), a spread
// marker, then five bid levels (best first), each as "qty@price".
func Grouped(rec model.SnapshotRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s @ %d\n", rec.Symbol, rec.Epoch)

	for i := 4; i >= 0; i-- {
		lvl := rec.Asks[i]
		if lvl.Price == model.NoLevelPrice {
			fmt.Fprintf(&b, "%s@%s\n", naSentinel, naSentinel)
			continue
		}
		fmt.Fprintf(&b, "%d@%s\n", lvl.Quantity, roundPrice(lvl.Price))
	}

	b.WriteString("X\n")

	for i := 0; i < 5; i++ {
		lvl := rec.Bids[i]
		if lvl.Price == model.NoLevelPrice {
			fmt.Fprintf(&b, "%s@%s\n", naSentinel, naSentinel)
			continue
		}
		fmt.Fprintf(&b, "%d@%s\n", lvl.Quantity, roundPrice(lvl.Price))
	}

	if rec.LastTradePrice == model.NoTradePrice {
		fmt.Fprintf(&b, "last trade: %s\n", naSentinel)
	} else {
		fmt.Fprintf(&b, "last trade: %d@%s\n", rec.LastTradeQuantity, roundPrice(rec.LastTradePrice))
	}

	return b.String()
}

// ValidateFields checks that every name in fields is one of the 24 known
// output fields, without needing a record to render against.
func ValidateFields(fields []string) error {
	for _, f := range fields {
		if !validFields[f] {
			return &UnknownFieldError{Field: f}
		}
	}
	return nil
}

// Selective renders rec as one CSV line restricted to fields, in the order
// given. It returns an UnknownFieldError if any requested field name is
// not one of Fields.
func Selective(rec model.SnapshotRecord, fields []string) (string, error) {
	values := make([]string, 0, len(fields))
	for _, f := range fields {
		v, err := fieldValue(rec, f)
		if err != nil {
			return "", err
		}
		values = append(values, v)
	}
	return strings.Join(values, ","), nil
}

func fieldValue(rec model.SnapshotRecord, field string) (string, error) {
	if !validFields[field] {
		return "", &UnknownFieldError{Field: field}
	}

	switch field {
	case "symbol":
		return rec.Symbol, nil
	case "epoch":
		return fmt.Sprintf("%d", rec.Epoch), nil
	case "lastTradePrice":
		if rec.LastTradePrice == model.NoTradePrice {
			return naSentinel, nil
		}
		return roundPrice(rec.LastTradePrice), nil
	case "lastTradeQuantity":
		return quantityOrNA(rec.LastTradePrice == model.NoTradePrice, rec.LastTradeQuantity), nil
	}

	if idx, qty, side, ok := parseLevelField(field); ok {
		var lvl model.PriceLevel
		if side == model.Buy {
			lvl = rec.Bids[idx]
		} else {
			lvl = rec.Asks[idx]
		}
		missing := lvl.Price == model.NoLevelPrice
		if qty {
			return quantityOrNA(missing, lvl.Quantity), nil
		}
		return roundPrice(lvl.Price), nil
	}

	return "", &UnknownFieldError{Field: field}
}

// parseLevelField decodes names like "bid3p" or "ask1q" into a zero-based
// index, whether it's a quantity field, and which side it belongs to.
func parseLevelField(field string) (idx int, qty bool, side model.Side, ok bool) {
	var prefix string
	switch {
	case strings.HasPrefix(field, "bid"):
		prefix, side = "bid", model.Buy
	case strings.HasPrefix(field, "ask"):
		prefix, side = "ask", model.Sell
	default:
		return 0, false, 0, false
	}

	rest := strings.TrimPrefix(field, prefix)
	if len(rest) != 2 {
		return 0, false, 0, false
	}
	digit, kind := rest[0], rest[1]
	if digit < '1' || digit > '5' {
		return 0, false, 0, false
	}
	switch kind {
	case 'p':
		qty = false
	case 'q':
		qty = true
	default:
		return 0, false, 0, false
	}
	return int(digit - '1'), qty, side, true
}
