package archive

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tornadohq/posreport/internal/extract"
	"github.com/tornadohq/posreport/internal/models"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestCSVSink_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	sink := NewCSVSink(dir)

	ts := time.Date(2025, 11, 19, 18, 45, 0, 0, time.Local)
	invoices := []models.Invoice{
		{
			InvoiceID:     "101",
			Date:          ts,
			Amount:        d("120.5"),
			VAT:           d("6"),
			Discount:      d("10"),
			Service:       d("5"),
			PaymentMethod: "CASH",
			ServiceType:   "DINE IN",
			TableNo:       "4",
			Waiter:        "Omar",
		},
	}
	items := []models.LineItem{
		{InvoiceID: "101", ItemName: "Mixed Grill", Category: "MAIN DISHES", Quantity: d("2"), Amount: d("84"), Cost: d("33.6")},
	}

	ctx := context.Background()
	require.NoError(t, sink.ArchiveInvoices(ctx, "run-1", invoices))
	require.NoError(t, sink.ArchiveLineItems(ctx, "run-1", items))
	require.NoError(t, sink.Close())

	// Archived runs must be readable back through the CSV record source.
	source := extract.NewCSVDirSource(filepath.Join(dir, "run-1"))
	window := extract.Window{
		Start: time.Date(2025, 11, 19, 14, 0, 0, 0, time.Local),
		End:   time.Date(2025, 11, 20, 4, 0, 0, 0, time.Local),
	}
	gotInvoices, gotItems, err := source.Fetch(ctx, window)
	require.NoError(t, err)

	require.Len(t, gotInvoices, 1)
	got := gotInvoices[0]
	assert.Equal(t, "101", got.InvoiceID)
	assert.True(t, got.Date.Equal(ts), "got %v", got.Date)
	assert.True(t, got.Amount.Equal(d("120.5")))
	assert.True(t, got.VAT.Equal(d("6")))
	assert.True(t, got.Discount.Equal(d("10")))
	assert.True(t, got.Service.Equal(d("5")))
	assert.Equal(t, "CASH", got.PaymentMethod)
	assert.Equal(t, "DINE IN", got.ServiceType)
	assert.Equal(t, "Omar", got.Waiter)

	require.Len(t, gotItems, 1)
	assert.Equal(t, "Mixed Grill", gotItems[0].ItemName)
	assert.Equal(t, "MAIN DISHES", gotItems[0].Category)
	assert.True(t, gotItems[0].Quantity.Equal(d("2")))
	assert.True(t, gotItems[0].Cost.Equal(d("33.6")))
}

func TestNewRunEvent(t *testing.T) {
	growth := d("12.5")
	snap := &models.Snapshot{
		RunID: "run-7",
		Invoices: models.InvoiceMetrics{
			TotalRevenue:     d("15250.756"),
			TransactionCount: 320,
		},
		Sales: models.SalesMetrics{
			TotalItemsSold: d("900"),
		},
		Period: models.Period{
			Start: time.Date(2025, 11, 1, 14, 0, 0, 0, time.Local),
			End:   time.Date(2025, 11, 30, 23, 30, 0, 0, time.Local),
		},
		Growth: &growth,
	}
	generatedAt := time.Date(2025, 12, 1, 8, 0, 0, 0, time.Local)

	ev := NewRunEvent(snap, "monthly", "November 2025", generatedAt)

	assert.Equal(t, "run-7", ev.RunID)
	assert.Equal(t, "monthly", ev.Kind)
	assert.Equal(t, "November 2025", ev.PeriodLabel)
	assert.Equal(t, "15250.76", ev.TotalRevenue)
	assert.Equal(t, 320, ev.TransactionCount)
	assert.Equal(t, "900", ev.TotalItemsSold)
	assert.Equal(t, "12.5", ev.Growth)
	assert.True(t, ev.GeneratedAt.Equal(generatedAt))
}

func TestRunEvent_GrowthOmittedFromJSON(t *testing.T) {
	snap := &models.Snapshot{RunID: "run-8"}
	ev := NewRunEvent(snap, "daily", "November 19, 2025", time.Now())

	payload, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "growth")
	assert.Contains(t, string(payload), `"run_id":"run-8"`)
}

func TestNewKafkaPublisher_DisabledWithoutBrokers(t *testing.T) {
	pub, err := NewKafkaPublisher(models.ArchiveConfig{}, nil)
	require.NoError(t, err)
	assert.Nil(t, pub)
}

func TestBuildSinks_EmptyConfig(t *testing.T) {
	sinks, err := BuildSinks(models.ArchiveConfig{}, nil)
	require.NoError(t, err)
	assert.Empty(t, sinks)
}
