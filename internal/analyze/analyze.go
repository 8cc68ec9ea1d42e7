// Package analyze aggregates extracted POS records into a metrics snapshot.
// Everything here is a pure function of its inputs: no I/O, no mutation of
// the record slices, and deterministic ordering so results can be compared
// with exact-equality assertions.
package analyze

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tornadohq/posreport/internal/models"
)

// DefaultTopItems is the truncation size for the ranked item table when the
// configuration does not override it.
const DefaultTopItems = 10

// AggregateInvoices computes the invoice-derived metrics. Empty input yields
// zero totals, not an error; the average transaction guards division by zero.
//
// Breakdown ordering: descending by summed amount, ties by label ascending.
// Daily sales are ordered by calendar date ascending.
func AggregateInvoices(invoices []models.Invoice) models.InvoiceMetrics {
	m := models.InvoiceMetrics{
		TotalRevenue:       decimal.Zero,
		AverageTransaction: decimal.Zero,
		TotalVAT:           decimal.Zero,
		TransactionCount:   len(invoices),
	}

	payments := make(map[string]*groupBucket)
	services := make(map[string]*groupBucket)
	daily := make(map[time.Time]decimal.Decimal)

	for _, inv := range invoices {
		m.TotalRevenue = m.TotalRevenue.Add(inv.Amount)
		m.TotalVAT = m.TotalVAT.Add(inv.VAT)

		accumulate(payments, inv.PaymentMethod, inv.Amount)
		accumulate(services, inv.ServiceType, inv.Amount)

		// Bucket by calendar date only, discarding time-of-day.
		day := time.Date(inv.Date.Year(), inv.Date.Month(), inv.Date.Day(), 0, 0, 0, 0, inv.Date.Location())
		daily[day] = daily[day].Add(inv.Amount)
	}

	if m.TransactionCount > 0 {
		m.AverageTransaction = m.TotalRevenue.Div(decimal.NewFromInt(int64(m.TransactionCount)))
	}

	m.PaymentBreakdown = materializeGroups(payments)
	m.ServiceBreakdown = materializeGroups(services)
	m.DailySales = materializeDaily(daily)

	return m
}

type groupBucket struct {
	count  int
	amount decimal.Decimal
}

func accumulate(groups map[string]*groupBucket, label string, amount decimal.Decimal) {
	b, ok := groups[label]
	if !ok {
		b = &groupBucket{}
		groups[label] = b
	}
	b.count++
	b.amount = b.amount.Add(amount)
}

func materializeGroups(groups map[string]*groupBucket) []models.GroupTotal {
	out := make([]models.GroupTotal, 0, len(groups))
	for label, b := range groups {
		out = append(out, models.GroupTotal{Label: label, Count: b.count, Amount: b.amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func materializeDaily(daily map[time.Time]decimal.Decimal) []models.DailyTotal {
	out := make([]models.DailyTotal, 0, len(daily))
	for day, amount := range daily {
		out = append(out, models.DailyTotal{Date: day, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// AggregateSales computes the line-item-derived metrics. topN bounds the
// ranked item table; zero or negative falls back to DefaultTopItems. The
// category ranking is never truncated.
//
// Ranking order: descending by summed amount, ties by name ascending.
func AggregateSales(items []models.LineItem, topN int) models.SalesMetrics {
	if topN <= 0 {
		topN = DefaultTopItems
	}

	m := models.SalesMetrics{
		TotalItemsSold:     decimal.Zero,
		TotalCost:          decimal.Zero,
		TotalProfit:        decimal.Zero,
		AvgItemsPerInvoice: decimal.Zero,
	}

	byItem := make(map[string]*models.ItemStat)
	byCategory := make(map[string]*models.ItemStat)
	byInvoice := make(map[string]decimal.Decimal)

	totalAmount := decimal.Zero
	for _, li := range items {
		m.TotalItemsSold = m.TotalItemsSold.Add(li.Quantity)
		m.TotalCost = m.TotalCost.Add(li.Cost)
		totalAmount = totalAmount.Add(li.Amount)

		addStat(byItem, li.ItemName, li)
		addStat(byCategory, li.Category, li)
		byInvoice[li.InvoiceID] = byInvoice[li.InvoiceID].Add(li.Quantity)
	}

	m.TotalProfit = totalAmount.Sub(m.TotalCost)

	m.TopItems = rankStats(byItem)
	if len(m.TopItems) > topN {
		m.TopItems = m.TopItems[:topN]
	}
	m.CategoryPerformance = rankStats(byCategory)

	if len(byInvoice) > 0 {
		sum := decimal.Zero
		for _, qty := range byInvoice {
			sum = sum.Add(qty)
		}
		m.AvgItemsPerInvoice = sum.Div(decimal.NewFromInt(int64(len(byInvoice))))
	}

	return m
}

func addStat(stats map[string]*models.ItemStat, key string, li models.LineItem) {
	s, ok := stats[key]
	if !ok {
		s = &models.ItemStat{Name: key}
		stats[key] = s
	}
	s.Quantity = s.Quantity.Add(li.Quantity)
	s.Amount = s.Amount.Add(li.Amount)
	s.Cost = s.Cost.Add(li.Cost)
	s.Profit = s.Amount.Sub(s.Cost)
}

func rankStats(stats map[string]*models.ItemStat) []models.ItemStat {
	out := make([]models.ItemStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ComputeGrowth returns the revenue change vs the previous period in percent,
// rounded to one decimal place. Nil when previous is nil or zero.
func ComputeGrowth(current decimal.Decimal, previous *decimal.Decimal) *decimal.Decimal {
	if previous == nil || previous.IsZero() {
		return nil
	}
	growth := current.Sub(*previous).Div(*previous).Mul(decimal.NewFromInt(100)).Round(1)
	return &growth
}

// BuildSnapshot composes the aggregations into one immutable snapshot.
// Period bounds are the earliest and latest invoice timestamps; they stay
// zero when the period had no invoices. previous may be nil.
func BuildSnapshot(invoices []models.Invoice, items []models.LineItem, topN int, previous *models.Snapshot) *models.Snapshot {
	snap := &models.Snapshot{
		Invoices: AggregateInvoices(invoices),
		Sales:    AggregateSales(items, topN),
	}

	for _, inv := range invoices {
		if snap.Period.Start.IsZero() || inv.Date.Before(snap.Period.Start) {
			snap.Period.Start = inv.Date
		}
		if snap.Period.End.IsZero() || inv.Date.After(snap.Period.End) {
			snap.Period.End = inv.Date
		}
	}

	if previous != nil {
		snap.Growth = ComputeGrowth(snap.Invoices.TotalRevenue, &previous.Invoices.TotalRevenue)
	}

	return snap
}
