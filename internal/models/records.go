package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is one completed bill from the POS INVOICE table. Date carries the
// merged calendar date and time-of-day (the export stores them in separate
// columns). Optional adjustment columns missing from the export decode as zero.
type Invoice struct {
	InvoiceID     string
	Date          time.Time
	Amount        decimal.Decimal
	VAT           decimal.Decimal
	Discount      decimal.Decimal
	Service       decimal.Decimal
	PaymentMethod string
	ServiceType   string
	TableNo       string
	Waiter        string
}

// Total is the charged amount after adjustments. The export has no TOTAL
// column, so it is always derived.
func (inv Invoice) Total() decimal.Decimal {
	return inv.Amount.Sub(inv.Discount).Add(inv.Service).Add(inv.VAT)
}

// LineItem is one sold item within an invoice, from the POS SALE table.
type LineItem struct {
	InvoiceID string
	ItemName  string
	Category  string
	Quantity  decimal.Decimal
	Amount    decimal.Decimal
	Cost      decimal.Decimal
}

// Profit is the revenue attributed to this line less its cost of goods.
func (li LineItem) Profit() decimal.Decimal {
	return li.Amount.Sub(li.Cost)
}
