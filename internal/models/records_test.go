package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInvoiceTotal(t *testing.T) {
	inv := Invoice{
		Amount:   decimal.NewFromFloat(120.50),
		Discount: decimal.NewFromInt(10),
		Service:  decimal.NewFromInt(5),
		VAT:      decimal.NewFromInt(6),
	}
	assert.True(t, inv.Total().Equal(decimal.NewFromFloat(121.50)), "got %s", inv.Total())
}

func TestInvoiceTotal_ZeroAdjustments(t *testing.T) {
	inv := Invoice{Amount: decimal.NewFromInt(80)}
	assert.True(t, inv.Total().Equal(decimal.NewFromInt(80)))
}

func TestLineItemProfit(t *testing.T) {
	li := LineItem{Amount: decimal.NewFromInt(84), Cost: decimal.NewFromFloat(33.6)}
	assert.True(t, li.Profit().Equal(decimal.NewFromFloat(50.4)))
}

func TestSnapshotHasActivity(t *testing.T) {
	assert.False(t, (&Snapshot{}).HasActivity())
	assert.True(t, (&Snapshot{Invoices: InvoiceMetrics{TransactionCount: 1}}).HasActivity())
}
