package analyze

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tornadohq/posreport/internal/models"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func invoice(ts string, amount string, method string) models.Invoice {
	t, err := time.ParseInLocation("2006-01-02 15:04", ts, time.Local)
	if err != nil {
		panic(err)
	}
	return models.Invoice{
		Date:          t,
		Amount:        d(amount),
		PaymentMethod: method,
		ServiceType:   "DINE IN",
	}
}

func TestAggregateInvoices_Empty(t *testing.T) {
	m := AggregateInvoices(nil)

	assert.True(t, m.TotalRevenue.IsZero())
	assert.Equal(t, 0, m.TransactionCount)
	assert.True(t, m.AverageTransaction.IsZero())
	assert.True(t, m.TotalVAT.IsZero())
	assert.Empty(t, m.PaymentBreakdown)
	assert.Empty(t, m.ServiceBreakdown)
	assert.Empty(t, m.DailySales)
}

func TestAggregateInvoices_SumsAndBreakdown(t *testing.T) {
	invoices := []models.Invoice{
		invoice("2025-11-19 15:00", "100", "cash"),
		invoice("2025-11-19 18:30", "200", "cash"),
		invoice("2025-11-19 22:00", "50", "cash"),
	}

	m := AggregateInvoices(invoices)

	assert.True(t, m.TotalRevenue.Equal(d("350")), "total revenue %s", m.TotalRevenue)
	assert.Equal(t, 3, m.TransactionCount)
	assert.Equal(t, "116.67", m.AverageTransaction.StringFixed(2))

	require.Len(t, m.PaymentBreakdown, 1)
	assert.Equal(t, "cash", m.PaymentBreakdown[0].Label)
	assert.Equal(t, 3, m.PaymentBreakdown[0].Count)
	assert.True(t, m.PaymentBreakdown[0].Amount.Equal(d("350")))
}

func TestAggregateInvoices_VAT(t *testing.T) {
	invoices := []models.Invoice{
		{Date: time.Now(), Amount: d("100"), VAT: d("5"), PaymentMethod: "cash"},
		{Date: time.Now(), Amount: d("40"), VAT: d("2"), PaymentMethod: "card"},
	}

	m := AggregateInvoices(invoices)
	assert.True(t, m.TotalVAT.Equal(d("7")))
}

func TestAggregateInvoices_GroupsOnlyLabelsPresent(t *testing.T) {
	invoices := []models.Invoice{
		invoice("2025-11-19 15:00", "80", "CARD"),
		invoice("2025-11-19 16:00", "20", "CASH"),
		invoice("2025-11-19 17:00", "60", "CARD"),
	}

	m := AggregateInvoices(invoices)

	require.Len(t, m.PaymentBreakdown, 2)
	// Descending by amount.
	assert.Equal(t, "CARD", m.PaymentBreakdown[0].Label)
	assert.Equal(t, 2, m.PaymentBreakdown[0].Count)
	assert.True(t, m.PaymentBreakdown[0].Amount.Equal(d("140")))
	assert.Equal(t, "CASH", m.PaymentBreakdown[1].Label)
}

func TestAggregateInvoices_DailyGroupingIgnoresTimeOfDay(t *testing.T) {
	invoices := []models.Invoice{
		invoice("2025-11-19 15:00", "100", "cash"),
		invoice("2025-11-19 23:30", "50", "cash"),
		invoice("2025-11-20 01:00", "30", "cash"),
	}

	m := AggregateInvoices(invoices)

	require.Len(t, m.DailySales, 2)
	assert.Equal(t, 19, m.DailySales[0].Date.Day())
	assert.True(t, m.DailySales[0].Amount.Equal(d("150")))
	assert.Equal(t, 20, m.DailySales[1].Date.Day())
	assert.True(t, m.DailySales[1].Amount.Equal(d("30")))
}

func lineItem(inv, name, category string, qty, amount, cost string) models.LineItem {
	return models.LineItem{
		InvoiceID: inv,
		ItemName:  name,
		Category:  category,
		Quantity:  d(qty),
		Amount:    d(amount),
		Cost:      d(cost),
	}
}

func TestAggregateSales_TopNTruncationAndOrdering(t *testing.T) {
	items := []models.LineItem{
		lineItem("1", "A", "X", "5", "500", "200"),
		lineItem("1", "B", "X", "9", "900", "300"),
		lineItem("2", "C", "Y", "1", "100", "40"),
	}

	m := AggregateSales(items, 2)

	require.Len(t, m.TopItems, 2)
	assert.Equal(t, "B", m.TopItems[0].Name)
	assert.Equal(t, "A", m.TopItems[1].Name)
}

func TestAggregateSales_TieBreakByNameAscending(t *testing.T) {
	items := []models.LineItem{
		lineItem("1", "Zucchini", "X", "1", "100", "10"),
		lineItem("1", "Apple Pie", "X", "1", "100", "10"),
	}

	m := AggregateSales(items, 10)

	require.Len(t, m.TopItems, 2)
	assert.Equal(t, "Apple Pie", m.TopItems[0].Name)
	assert.Equal(t, "Zucchini", m.TopItems[1].Name)
}

func TestAggregateSales_CategoryRankingUntruncated(t *testing.T) {
	var items []models.LineItem
	for i := 0; i < 15; i++ {
		items = append(items, lineItem("1", "item", string(rune('A'+i)), "1", "10", "4"))
	}

	m := AggregateSales(items, 2)

	assert.Len(t, m.CategoryPerformance, 15)
	// Descending by amount; equal amounts fall back to name order.
	for i := 1; i < len(m.CategoryPerformance); i++ {
		assert.LessOrEqual(t,
			m.CategoryPerformance[i].Amount.InexactFloat64(),
			m.CategoryPerformance[i-1].Amount.InexactFloat64())
	}
}

func TestAggregateSales_ProfitDerivation(t *testing.T) {
	items := []models.LineItem{
		lineItem("1", "Kebab", "GRILL", "2", "300", "120"),
	}

	m := AggregateSales(items, 10)

	require.Len(t, m.TopItems, 1)
	assert.True(t, m.TopItems[0].Profit.Equal(d("180")))
	require.Len(t, m.CategoryPerformance, 1)
	assert.True(t, m.CategoryPerformance[0].Profit.Equal(d("180")))
	assert.True(t, m.TotalProfit.Equal(d("180")))
}

func TestAggregateSales_GroupsAccumulateAcrossRows(t *testing.T) {
	items := []models.LineItem{
		lineItem("1", "Pizza", "PIZZA", "1", "12", "5"),
		lineItem("2", "Pizza", "PIZZA", "2", "24", "10"),
	}

	m := AggregateSales(items, 10)

	require.Len(t, m.TopItems, 1)
	top := m.TopItems[0]
	assert.True(t, top.Quantity.Equal(d("3")))
	assert.True(t, top.Amount.Equal(d("36")))
	assert.True(t, top.Cost.Equal(d("15")))
	assert.True(t, top.Profit.Equal(d("21")))
}

func TestAggregateSales_AvgItemsPerInvoice(t *testing.T) {
	items := []models.LineItem{
		lineItem("1", "A", "X", "2", "20", "8"),
		lineItem("1", "B", "X", "1", "10", "4"),
		lineItem("2", "A", "X", "3", "30", "12"),
	}

	m := AggregateSales(items, 10)
	// Invoice 1 has 3 items, invoice 2 has 3 items.
	assert.True(t, m.AvgItemsPerInvoice.Equal(d("3")))
}

func TestAggregateSales_EmptyInput(t *testing.T) {
	m := AggregateSales(nil, 10)

	assert.True(t, m.TotalItemsSold.IsZero())
	assert.True(t, m.TotalCost.IsZero())
	assert.True(t, m.TotalProfit.IsZero())
	assert.True(t, m.AvgItemsPerInvoice.IsZero())
	assert.Empty(t, m.TopItems)
	assert.Empty(t, m.CategoryPerformance)
}

func TestComputeGrowth(t *testing.T) {
	prev := d("1000")
	g := ComputeGrowth(d("1100"), &prev)
	require.NotNil(t, g)
	assert.Equal(t, "10.0", g.StringFixed(1))

	zero := decimal.Zero
	assert.Nil(t, ComputeGrowth(d("1100"), &zero))
	assert.Nil(t, ComputeGrowth(d("1100"), nil))

	negPrev := d("2000")
	g = ComputeGrowth(d("1500"), &negPrev)
	require.NotNil(t, g)
	assert.Equal(t, "-25.0", g.StringFixed(1))
}

func TestComputeGrowth_Rounding(t *testing.T) {
	prev := d("3000")
	g := ComputeGrowth(d("3100"), &prev)
	require.NotNil(t, g)
	// 3.333...% rounds to one decimal place.
	assert.Equal(t, "3.3", g.StringFixed(1))
}

func TestBuildSnapshot_PeriodBounds(t *testing.T) {
	invoices := []models.Invoice{
		invoice("2025-11-19 18:00", "100", "cash"),
		invoice("2025-11-05 15:00", "50", "cash"),
		invoice("2025-11-28 02:00", "75", "cash"),
	}

	snap := BuildSnapshot(invoices, nil, 10, nil)

	assert.Equal(t, 5, snap.Period.Start.Day())
	assert.Equal(t, 28, snap.Period.End.Day())
	assert.True(t, snap.HasActivity())
}

func TestBuildSnapshot_EmptyIsFlagged(t *testing.T) {
	snap := BuildSnapshot(nil, nil, 10, nil)

	assert.False(t, snap.HasActivity())
	assert.True(t, snap.Period.Start.IsZero())
	assert.True(t, snap.Period.End.IsZero())
	assert.Nil(t, snap.Growth)
}

func TestBuildSnapshot_GrowthFromPrevious(t *testing.T) {
	previous := BuildSnapshot([]models.Invoice{
		invoice("2025-10-10 18:00", "1000", "cash"),
	}, nil, 10, nil)

	snap := BuildSnapshot([]models.Invoice{
		invoice("2025-11-10 18:00", "1100", "cash"),
	}, nil, 10, previous)

	require.NotNil(t, snap.Growth)
	assert.Equal(t, "10.0", snap.Growth.StringFixed(1))
}

func TestBuildSnapshot_NoGrowthWhenPreviousEmpty(t *testing.T) {
	previous := BuildSnapshot(nil, nil, 10, nil)

	snap := BuildSnapshot([]models.Invoice{
		invoice("2025-11-10 18:00", "1100", "cash"),
	}, nil, 10, previous)

	assert.Nil(t, snap.Growth)
}

func TestBuildSnapshot_Deterministic(t *testing.T) {
	invoices := []models.Invoice{
		invoice("2025-11-19 15:00", "100", "CASH"),
		invoice("2025-11-19 16:00", "100", "CARD"),
		invoice("2025-11-20 17:00", "100", "VOUCHER"),
	}
	items := []models.LineItem{
		lineItem("1", "A", "X", "1", "50", "20"),
		lineItem("1", "B", "Y", "1", "50", "20"),
		lineItem("2", "C", "Z", "1", "50", "20"),
	}

	a := BuildSnapshot(invoices, items, 10, nil)
	b := BuildSnapshot(invoices, items, 10, nil)

	assert.Equal(t, a, b)
}

func TestBuildSnapshot_DoesNotMutateInputs(t *testing.T) {
	invoices := []models.Invoice{
		invoice("2025-11-19 15:00", "100", "CASH"),
	}
	items := []models.LineItem{
		lineItem("1", "A", "X", "1", "50", "20"),
	}
	wantInv := invoices[0]
	wantItem := items[0]

	BuildSnapshot(invoices, items, 10, nil)

	assert.Equal(t, wantInv, invoices[0])
	assert.Equal(t, wantItem, items[0])
}
