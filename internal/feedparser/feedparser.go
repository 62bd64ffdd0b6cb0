// Package feedparser tokenizes one line of the raw order feed into a
// model.Order. It is deliberately trivial: the parser is an external
// collaborator to the core (SPEC_FULL.md §1), and this implementation
// exists only so the ingestion path has something real to call.
package feedparser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quantsnap/obsnap/internal/model"
)

// ParseLine tokenizes a single feed line of the form:
//
//	<epoch> <order_id> <symbol> <BUY|SELL> <NEW|CANCEL|TRADE> <price> <quantity>
//
// It returns an error for any line that doesn't split into exactly seven
// whitespace-separated fields, or whose numeric/enum fields don't parse.
func ParseLine(line string) (model.Order, error) {
	fields := strings.Fields(line)
	if len(fields) != 7 {
		return model.Order{}, fmt.Errorf("feedparser: expected 7 fields, got %d", len(fields))
	}

	epoch, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return model.Order{}, fmt.Errorf("feedparser: invalid epoch %q: %w", fields[0], err)
	}

	side, err := parseSide(fields[3])
	if err != nil {
		return model.Order{}, err
	}

	category, err := parseCategory(fields[4])
	if err != nil {
		return model.Order{}, err
	}

	price, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return model.Order{}, fmt.Errorf("feedparser: invalid price %q: %w", fields[5], err)
	}

	quantity, err := strconv.ParseInt(fields[6], 10, 32)
	if err != nil {
		return model.Order{}, fmt.Errorf("feedparser: invalid quantity %q: %w", fields[6], err)
	}

	return model.Order{
		Epoch:    epoch,
		ID:       fields[1],
		Symbol:   fields[2],
		Side:     side,
		Category: category,
		Price:    price,
		Quantity: int32(quantity),
	}, nil
}

func parseSide(tok string) (model.Side, error) {
	switch tok {
	case "BUY":
		return model.Buy, nil
	case "SELL":
		return model.Sell, nil
	default:
		return 0, fmt.Errorf("feedparser: unknown side %q", tok)
	}
}

func parseCategory(tok string) (model.Category, error) {
	switch tok {
	case "NEW":
		return model.New, nil
	case "CANCEL":
		return model.Cancel, nil
	case "TRADE":
		return model.Trade, nil
	default:
		return 0, fmt.Errorf("feedparser: unknown category %q", tok)
	}
}
