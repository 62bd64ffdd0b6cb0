package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsnap/obsnap/internal/model"
)

func fullRecord() model.SnapshotRecord {
	rec := model.SnapshotRecord{
		Symbol:            "TEST",
		Epoch:             1000,
		LastTradePrice:    model.NoTradePrice,
		LastTradeQuantity: 0,
	}
	for i := range rec.Bids {
		rec.Bids[i] = model.PriceLevel{Price: model.NoLevelPrice}
		rec.Asks[i] = model.PriceLevel{Price: model.NoLevelPrice}
	}
	rec.Bids[0] = model.PriceLevel{Price: 10.125, Quantity: 100}
	rec.Asks[0] = model.PriceLevel{Price: 11.0, Quantity: 50}
	return rec
}

func TestGroupedIncludesSpreadMarkerAndSentinels(t *testing.T) {
	rec := fullRecord()
	out := Grouped(rec)
	assert.Contains(t, out, "X\n")
	assert.Contains(t, out, "100@10.13") // decimal.Round(2) half-away-from-zero
	assert.Contains(t, out, "50@11")
	assert.Contains(t, out, "last trade: N.A")
	assert.Equal(t, 8, strings.Count(out, naSentinel+"@"+naSentinel)) // four missing levels per side
}

func TestSelectiveOrdersFieldsAsRequested(t *testing.T) {
	rec := fullRecord()
	out, err := Selective(rec, []string{"epoch", "symbol", "bid1p", "bid1q"})
	require.NoError(t, err)
	assert.Equal(t, "1000,TEST,10.13,100", out)
}

func TestSelectiveMissingLevelRendersNA(t *testing.T) {
	rec := fullRecord()
	out, err := Selective(rec, []string{"bid2p", "bid2q"})
	require.NoError(t, err)
	assert.Equal(t, "N.A,N.A", out)
}

func TestSelectiveNoTradeRendersNA(t *testing.T) {
	rec := fullRecord()
	out, err := Selective(rec, []string{"lastTradePrice", "lastTradeQuantity"})
	require.NoError(t, err)
	assert.Equal(t, "N.A,N.A", out)
}

func TestSelectiveUnknownFieldErrors(t *testing.T) {
	rec := fullRecord()
	_, err := Selective(rec, []string{"bogus"})
	require.Error(t, err)
	var unknown *UnknownFieldError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, "bogus", unknown.Field)
}

func TestAllNamedFieldsAreIndividuallyValid(t *testing.T) {
	rec := fullRecord()
	for _, f := range Fields {
		_, err := Selective(rec, []string{f})
		assert.NoError(t, err, "field %s should be valid", f)
	}
}
