package feedparser

import (
	"testing"

	"github.com/quantsnap/obsnap/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineValid(t *testing.T) {
	order, err := ParseLine("0 1 TEST BUY NEW 10.0 100")
	require.NoError(t, err)
	assert.Equal(t, model.Order{
		Epoch:    0,
		ID:       "1",
		Symbol:   "TEST",
		Side:     model.Buy,
		Category: model.New,
		Price:    10.0,
		Quantity: 100,
	}, order)
}

func TestParseLineWhitespaceVariants(t *testing.T) {
	order, err := ParseLine("  1   s1  TEST   SELL  TRADE  9.7   4 ")
	require.NoError(t, err)
	assert.Equal(t, model.Sell, order.Side)
	assert.Equal(t, model.Trade, order.Category)
	assert.Equal(t, int32(4), order.Quantity)
}

func TestParseLineRejectsWrongFieldCount(t *testing.T) {
	_, err := ParseLine("0 1 TEST BUY NEW 10.0")
	assert.Error(t, err)
}

func TestParseLineRejectsUnknownSide(t *testing.T) {
	_, err := ParseLine("0 1 TEST HOLD NEW 10.0 100")
	assert.Error(t, err)
}

func TestParseLineRejectsUnknownCategory(t *testing.T) {
	_, err := ParseLine("0 1 TEST BUY MODIFY 10.0 100")
	assert.Error(t, err)
}

func TestParseLineRejectsBadNumbers(t *testing.T) {
	_, err := ParseLine("x 1 TEST BUY NEW 10.0 100")
	assert.Error(t, err)

	_, err = ParseLine("0 1 TEST BUY NEW notaprice 100")
	assert.Error(t, err)

	_, err = ParseLine("0 1 TEST BUY NEW 10.0 notaqty")
	assert.Error(t, err)
}
