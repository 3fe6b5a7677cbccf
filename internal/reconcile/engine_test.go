package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbis-trading/invoice-extractor/internal/entity"
	"github.com/orbis-trading/invoice-extractor/internal/numfmt"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newEngine() *Engine {
	return NewEngine(numfmt.NewNormalizer(2), nil, nil)
}

func TestReconcileCleanInvoice(t *testing.T) {
	inv := &entity.Invoice{
		SubTotalAmount: dec("100.00"),
		LineItems: []entity.LineItem{
			{ProductCode: "11111", TotalPrice: "60,00"},
			{ProductCode: "22222", TotalPrice: "40.00"},
		},
	}

	ok := newEngine().Reconcile(inv)
	assert.True(t, ok)
	assert.False(t, inv.Flag)
	assert.Len(t, inv.LineItems, 2)
}

func TestReconcileDedupRecoversDuplicatedLine(t *testing.T) {
	// 60 + 40 + 40 = 140 vs subtotal 100; dropping the duplicated
	// product code makes the sum match.
	inv := &entity.Invoice{
		SubTotalAmount: dec("100.00"),
		LineItems: []entity.LineItem{
			{ProductCode: "11111", TotalPrice: "60,00"},
			{ProductCode: "22222", TotalPrice: "40,00"},
			{ProductCode: "22222", TotalPrice: "40,00"},
		},
	}

	ok := newEngine().Reconcile(inv)
	assert.True(t, ok)
	assert.False(t, inv.Flag)
	require.Len(t, inv.LineItems, 2, "repaired items must replace the originals")
	assert.Equal(t, "11111", inv.LineItems[0].ProductCode)
	assert.Equal(t, "22222", inv.LineItems[1].ProductCode)
}

func TestReconcilePersistentMismatchFlags(t *testing.T) {
	inv := &entity.Invoice{
		SubTotalAmount: dec("100.00"),
		LineItems: []entity.LineItem{
			{ProductCode: "11111", TotalPrice: "95.00"},
		},
	}

	ok := newEngine().Reconcile(inv)
	assert.False(t, ok)
	assert.True(t, inv.Flag)
	// the original items stay on the invoice for inspection
	assert.Len(t, inv.LineItems, 1)
}

func TestReconcileMissingSubtotalFlags(t *testing.T) {
	inv := &entity.Invoice{
		LineItems: []entity.LineItem{{ProductCode: "11111", TotalPrice: "10.00"}},
	}

	ok := newEngine().Reconcile(inv)
	assert.False(t, ok)
	assert.True(t, inv.Flag)
}

func TestReconcileUnparseableTotalFlags(t *testing.T) {
	inv := &entity.Invoice{
		SubTotalAmount: dec("10.00"),
		LineItems: []entity.LineItem{
			{ProductCode: "11111", TotalPrice: "ten"},
		},
	}

	ok := newEngine().Reconcile(inv)
	assert.False(t, ok)
	assert.True(t, inv.Flag)
}

func TestReconcileCustomStrategyOrder(t *testing.T) {
	dropLast := RepairStrategy{
		Name: "drop-last-item",
		Apply: func(items []entity.LineItem) []entity.LineItem {
			if len(items) == 0 {
				return items
			}
			return items[:len(items)-1]
		},
	}
	engine := NewEngine(numfmt.NewNormalizer(2), []RepairStrategy{DedupeByProductCode(), dropLast}, nil)

	// dedupe does not help (codes differ); dropping the trailing noise row does
	inv := &entity.Invoice{
		SubTotalAmount: dec("100.00"),
		LineItems: []entity.LineItem{
			{ProductCode: "11111", TotalPrice: "100.00"},
			{ProductCode: "22222", TotalPrice: "3.00"},
		},
	}

	ok := engine.Reconcile(inv)
	assert.True(t, ok)
	assert.False(t, inv.Flag)
	require.Len(t, inv.LineItems, 1)
}
