package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GroupTotal is the per-label slice of a categorical breakdown.
type GroupTotal struct {
	Label  string
	Count  int
	Amount decimal.Decimal
}

// ItemStat is the aggregate for one item or category: summed quantity,
// revenue and cost, with profit derived as revenue minus cost.
type ItemStat struct {
	Name     string
	Quantity decimal.Decimal
	Amount   decimal.Decimal
	Cost     decimal.Decimal
	Profit   decimal.Decimal
}

// DailyTotal is revenue summed over one calendar date.
type DailyTotal struct {
	Date   time.Time
	Amount decimal.Decimal
}

// InvoiceMetrics holds the invoice-derived aggregates for one period.
type InvoiceMetrics struct {
	TotalRevenue       decimal.Decimal
	TransactionCount   int
	AverageTransaction decimal.Decimal
	TotalVAT           decimal.Decimal
	PaymentBreakdown   []GroupTotal
	ServiceBreakdown   []GroupTotal
	DailySales         []DailyTotal
}

// SalesMetrics holds the line-item-derived aggregates for one period.
type SalesMetrics struct {
	TopItems            []ItemStat
	CategoryPerformance []ItemStat
	TotalItemsSold      decimal.Decimal
	TotalCost           decimal.Decimal
	TotalProfit         decimal.Decimal
	AvgItemsPerInvoice  decimal.Decimal
}

// Period is the window a snapshot covers. Start and End are the earliest and
// latest invoice timestamps seen; both are zero when the period had no
// invoices, so callers must check HasActivity before relying on them.
type Period struct {
	Start time.Time
	End   time.Time
}

// Snapshot is the immutable aggregated-metrics result for one reporting
// period. It is built once per run and never mutated or persisted; the
// rendered document is the durable artifact.
type Snapshot struct {
	RunID    string
	Invoices InvoiceMetrics
	Sales    SalesMetrics
	Period   Period

	// Growth is the revenue change vs the previous period in percent,
	// rounded to one decimal place. Nil when no previous snapshot was
	// supplied or the previous period's revenue was zero.
	Growth *decimal.Decimal
}

// HasActivity reports whether the period contained any transactions.
// Renderers use it to pick the "no sales" document over empty tables.
func (s *Snapshot) HasActivity() bool {
	return s.Invoices.TransactionCount > 0
}
