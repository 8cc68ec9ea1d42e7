package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessDayWindow(t *testing.T) {
	w := BusinessDay(2025, time.November, 19)

	assert.Equal(t, time.Date(2025, time.November, 19, 14, 0, 0, 0, time.Local), w.Start)
	assert.Equal(t, time.Date(2025, time.November, 20, 4, 0, 0, 0, time.Local), w.End)
}

func TestMonthWindow(t *testing.T) {
	w := Month(2025, time.November)

	assert.Equal(t, time.Date(2025, time.November, 1, 14, 0, 0, 0, time.Local), w.Start)
	assert.Equal(t, time.Date(2025, time.December, 1, 4, 0, 0, 0, time.Local), w.End)
}

func TestMonthWindow_DecemberRollsIntoNextYear(t *testing.T) {
	w := Month(2025, time.December)

	assert.Equal(t, time.Date(2026, time.January, 1, 4, 0, 0, 0, time.Local), w.End)
}

func TestPreviousMonth(t *testing.T) {
	year, month := PreviousMonth(time.Date(2025, time.January, 15, 0, 0, 0, 0, time.Local))
	assert.Equal(t, 2024, year)
	assert.Equal(t, time.December, month)

	year, month = PreviousMonth(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local))
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.May, month)
}

func TestWindowContains_BoundsInclusive(t *testing.T) {
	w := BusinessDay(2025, time.November, 19)

	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End))
	assert.False(t, w.Contains(w.Start.Add(-time.Second)))
	assert.False(t, w.Contains(w.End.Add(time.Second)))
}

const invoiceCSV = `INV_NO,DATE,TIME,AMOUNT,VAT,DISCOUNT,SERVICE,SALE_INFO,C_NO,TABLE_NO,WAITOR
101,11/19/25 00:00:00,11/19/25 15:30:00,120.50,6.00,0,0,CASH,DINE IN,4,Omar
102,11/19/25 00:00:00,11/19/25 23:45:00,80.00,4.00,5.00,2.00,CARD,TAKEAWAY,0,Sara
103,11/20/25 00:00:00,11/20/25 12:00:00,55.00,2.75,0,0,CASH,DINE IN,2,Omar
104,not-a-date,11/19/25 16:00:00,99.00,0,0,0,CASH,DINE IN,1,Omar
`

func TestDecodeInvoices_MergesDateAndTimeColumns(t *testing.T) {
	w := BusinessDay(2025, time.November, 19)

	invoices, err := decodeInvoices(strings.NewReader(invoiceCSV), w)
	require.NoError(t, err)

	// 103 is outside the window, 104 has an unparseable date.
	require.Len(t, invoices, 2)

	first := invoices[0]
	assert.Equal(t, "101", first.InvoiceID)
	assert.Equal(t, time.Date(2025, time.November, 19, 15, 30, 0, 0, time.Local), first.Date)
	assert.Equal(t, "120.5", first.Amount.String())
	assert.Equal(t, "CASH", first.PaymentMethod)
	assert.Equal(t, "DINE IN", first.ServiceType)
	assert.Equal(t, "Omar", first.Waiter)

	second := invoices[1]
	assert.Equal(t, "5", second.Discount.String())
	assert.Equal(t, "2", second.Service.String())
}

func TestDecodeInvoices_MissingOptionalColumnsAreZero(t *testing.T) {
	csv := `INV_NO,DATE,TIME,AMOUNT,VAT,SALE_INFO,C_NO
7,11/19/25 00:00:00,11/19/25 18:00:00,40.00,2.00,CASH,DINE IN
`
	w := BusinessDay(2025, time.November, 19)

	invoices, err := decodeInvoices(strings.NewReader(csv), w)
	require.NoError(t, err)
	require.Len(t, invoices, 1)

	assert.True(t, invoices[0].Discount.IsZero())
	assert.True(t, invoices[0].Service.IsZero())
}

func TestDecodeInvoices_EmptyExport(t *testing.T) {
	invoices, err := decodeInvoices(strings.NewReader(""), BusinessDay(2025, time.November, 19))
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

const saleCSV = `INV_NO,DATE,TIME,ITEMS,CATOGERY,QTY,AMOUNT,COST
101,11/19/25 00:00:00,11/19/25 15:30:00,Grilled Chicken,MAIN DISHES,2,29.00,11.60
101,11/19/25 00:00:00,11/19/25 15:30:00,Soft Drink,BEVERAGES,2,5.00,1.50
103,11/20/25 00:00:00,11/20/25 12:00:00,Baklava,DESSERTS,1,6.00,2.40
`

func TestDecodeLineItems_WindowFiltered(t *testing.T) {
	w := BusinessDay(2025, time.November, 19)

	items, err := decodeLineItems(strings.NewReader(saleCSV), w)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Grilled Chicken", items[0].ItemName)
	assert.Equal(t, "MAIN DISHES", items[0].Category)
	assert.Equal(t, "2", items[0].Quantity.String())
	assert.Equal(t, "29", items[0].Amount.String())
	assert.Equal(t, "11.6", items[0].Cost.String())
}

func TestDecodeLineItems_NoDateColumnSkipsFilter(t *testing.T) {
	csv := `INV_NO,ITEMS,CATOGERY,QTY,AMOUNT,COST
1,Pizza,PIZZA,1,12.00,5.00
`
	items, err := decodeLineItems(strings.NewReader(csv), BusinessDay(2025, time.November, 19))
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestDecodeInvoices_BadTimeColumnFallsBackToMidnight(t *testing.T) {
	csv := `INV_NO,DATE,TIME,AMOUNT,SALE_INFO,C_NO
9,11/19/25 14:30:00,garbage,10.00,CASH,DINE IN
`
	// Midnight on the 19th is outside the 14:00-04:00 trading window, so
	// the row drops out of a business-day extraction but survives a wider
	// window.
	dayWindow := BusinessDay(2025, time.November, 19)
	items, err := decodeInvoices(strings.NewReader(csv), dayWindow)
	require.NoError(t, err)
	assert.Empty(t, items)

	monthWide := Window{
		Start: time.Date(2025, time.November, 1, 0, 0, 0, 0, time.Local),
		End:   time.Date(2025, time.December, 1, 0, 0, 0, 0, time.Local),
	}
	items, err = decodeInvoices(strings.NewReader(csv), monthWide)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 0, items[0].Date.Hour())
}
