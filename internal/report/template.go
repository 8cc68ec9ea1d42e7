package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tornadohq/posreport/internal/models"
)

// Document is everything the layout needs for one report.
type Document struct {
	RestaurantName string
	Title          string
	PeriodLabel    string
	Snapshot       *models.Snapshot
	// DetailRows, when present, appends the per-invoice listing.
	DetailRows  []models.Invoice
	GeneratedAt time.Time
}

var funcMap = template.FuncMap{
	"money":   formatMoney,
	"count":   formatCount,
	"pct":     formatPercent,
	"date":    func(t time.Time) string { return t.Format("2006-01-02") },
	"share":   revenueShare,
	"margin":  profitMargin,
	"growth":  formatGrowth,
	"add1":    func(i int) int { return i + 1 },
	"qty":     func(d decimal.Decimal) string { return formatCount(int(d.IntPart())) },
	"invTotal": func(inv models.Invoice) decimal.Decimal { return inv.Total() },
}

var (
	fullTmpl    = template.Must(template.New("report").Funcs(funcMap).Parse(reportHTML))
	noSalesTmpl = template.Must(template.New("nosales").Parse(noSalesHTML))
)

// BuildHTML renders the document layout. Snapshots with no activity get the
// minimal "no sales" page instead of a full layout of empty tables.
func BuildHTML(doc *Document) (string, error) {
	var buf bytes.Buffer
	if doc.Snapshot == nil || !doc.Snapshot.HasActivity() {
		if err := noSalesTmpl.Execute(&buf, doc); err != nil {
			return "", fmt.Errorf("rendering no-sales template: %w", err)
		}
		return buf.String(), nil
	}
	if err := fullTmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("rendering report template: %w", err)
	}
	return buf.String(), nil
}

// formatMoney renders a currency amount with thousands separators and two
// decimal places.
func formatMoney(d decimal.Decimal) string {
	return groupThousands(d.StringFixed(2))
}

func formatCount(n int) string {
	return groupThousands(fmt.Sprintf("%d", n))
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

func formatPercent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

// revenueShare is amount as a percentage of total revenue, zero when the
// total is zero.
func revenueShare(amount, total decimal.Decimal) string {
	if total.IsZero() {
		return formatPercent(decimal.Zero)
	}
	return formatPercent(amount.Div(total).Mul(decimal.NewFromInt(100)).Round(1))
}

// profitMargin is profit as a percentage of revenue, zero when revenue is zero.
func profitMargin(profit, amount decimal.Decimal) string {
	if amount.IsZero() {
		return formatPercent(decimal.Zero)
	}
	return formatPercent(profit.Div(amount).Mul(decimal.NewFromInt(100)).Round(1))
}

func formatGrowth(g *decimal.Decimal) string {
	if g == nil {
		return ""
	}
	arrow := "↓"
	if g.IsPositive() {
		arrow = "↑"
	}
	sign := ""
	if !g.IsNegative() {
		sign = "+"
	}
	return fmt.Sprintf("%s%s%% %s", sign, g.StringFixed(1), arrow)
}

const reportHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1a1a1a; margin: 24px; }
  h1 { text-align: center; font-size: 24px; margin-bottom: 2px; }
  h2 { font-size: 15px; margin-top: 26px; border-bottom: 1px solid #4a4a4a; padding-bottom: 4px; }
  .subtitle { text-align: center; color: #666666; font-size: 15px; margin-top: 0; }
  table { border-collapse: collapse; width: 100%; margin-top: 8px; font-size: 12px; }
  th { background: #4a4a4a; color: #f5f5f5; padding: 7px; }
  td { border: 1px solid #999; padding: 6px; }
  tr:nth-child(even) td { background: #f5f0e6; }
  td.num { text-align: right; }
  .summary td { font-weight: bold; background: #f5f5f5; border: 1px solid #fff; padding: 10px; }
  .detail table { font-size: 10px; }
</style>
</head>
<body>
<h1>{{.RestaurantName}}</h1>
<p class="subtitle">{{.Title}} - {{.PeriodLabel}}</p>

<h2>EXECUTIVE SUMMARY</h2>
<table class="summary">
  <tr><td>Total Revenue</td><td class="num">{{money .Snapshot.Invoices.TotalRevenue}}</td></tr>
  <tr><td>Total Transactions</td><td class="num">{{count .Snapshot.Invoices.TransactionCount}}</td></tr>
  <tr><td>Average Transaction</td><td class="num">{{money .Snapshot.Invoices.AverageTransaction}}</td></tr>
  <tr><td>Total VAT Collected</td><td class="num">{{money .Snapshot.Invoices.TotalVAT}}</td></tr>
  {{- if .Snapshot.Growth}}
  <tr><td>Growth vs Previous Month</td><td class="num">{{growth .Snapshot.Growth}}</td></tr>
  {{- end}}
</table>

<h2>PAYMENT BREAKDOWN</h2>
<table>
  <tr><th>Payment Method</th><th>Transactions</th><th>Amount</th><th>Percentage</th></tr>
  {{- $total := .Snapshot.Invoices.TotalRevenue}}
  {{- range .Snapshot.Invoices.PaymentBreakdown}}
  <tr><td>{{.Label}}</td><td class="num">{{count .Count}}</td><td class="num">{{money .Amount}}</td><td class="num">{{share .Amount $total}}</td></tr>
  {{- end}}
</table>

<h2>SERVICE TYPE BREAKDOWN</h2>
<table>
  <tr><th>Service Type</th><th>Orders</th><th>Amount</th><th>Percentage</th></tr>
  {{- range .Snapshot.Invoices.ServiceBreakdown}}
  <tr><td>{{.Label}}</td><td class="num">{{count .Count}}</td><td class="num">{{money .Amount}}</td><td class="num">{{share .Amount $total}}</td></tr>
  {{- end}}
</table>

<h2>RANKED SELLING ITEMS</h2>
<table>
  <tr><th>Rank</th><th>Item</th><th>Qty Sold</th><th>Revenue</th><th>Profit</th></tr>
  {{- range $i, $item := .Snapshot.Sales.TopItems}}
  <tr><td class="num">{{add1 $i}}</td><td>{{$item.Name}}</td><td class="num">{{qty $item.Quantity}}</td><td class="num">{{money $item.Amount}}</td><td class="num">{{money $item.Profit}}</td></tr>
  {{- end}}
</table>

<h2>CATEGORY PERFORMANCE</h2>
<table>
  <tr><th>Category</th><th>Items Sold</th><th>Revenue</th><th>Profit</th><th>Margin %</th></tr>
  {{- range .Snapshot.Sales.CategoryPerformance}}
  <tr><td>{{.Name}}</td><td class="num">{{qty .Quantity}}</td><td class="num">{{money .Amount}}</td><td class="num">{{money .Profit}}</td><td class="num">{{margin .Profit .Amount}}</td></tr>
  {{- end}}
</table>

{{- if .DetailRows}}
<div class="detail">
<h2>DETAILED INVOICES</h2>
<table>
  <tr><th>Date</th><th>Table</th><th>Waiter</th><th>Amount</th><th>Discount</th><th>Service</th><th>VAT</th><th>Total</th></tr>
  {{- range .DetailRows}}
  <tr><td>{{date .Date}}</td><td>{{.TableNo}}</td><td>{{.Waiter}}</td><td class="num">{{money .Amount}}</td><td class="num">{{money .Discount}}</td><td class="num">{{money .Service}}</td><td class="num">{{money .VAT}}</td><td class="num">{{money (invTotal .)}}</td></tr>
  {{- end}}
</table>
</div>
{{- end}}
</body>
</html>`

const noSalesHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Helvetica, Arial, sans-serif; color: #333333;">
<div style="margin-top: 200px; text-align: center;">
  <h1>No sales today.</h1>
</div>
</body>
</html>`
