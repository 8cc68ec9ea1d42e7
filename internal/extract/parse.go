package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tornadohq/posreport/internal/models"
)

// table is one decoded CSV export: a header index plus raw rows.
type table struct {
	index map[string]int
	rows  [][]string
}

func readTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return &table{index: map[string]int{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export header: %w", err)
	}

	t := &table{index: make(map[string]int, len(header))}
	for i, name := range header {
		t.index[name] = i
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read export row: %w", err)
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func (t *table) field(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// money parses a currency column; missing or empty columns decode as zero,
// matching the optional-with-default-zero rule for DISCOUNT and SERVICE.
func (t *table) money(row []string, col string) decimal.Decimal {
	raw := t.field(row, col)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// timestamp merges the DATE column's calendar date with the TIME column's
// time-of-day. Rows whose DATE does not parse are dropped; a bad TIME keeps
// the row with midnight as time-of-day.
func (t *table) timestamp(row []string) (time.Time, bool) {
	datePart, err := time.ParseInLocation(mdbTimeLayout, t.field(row, ColDate), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	timePart, err := time.ParseInLocation(mdbTimeLayout, t.field(row, ColTime), time.Local)
	if err != nil {
		timePart = time.Time{}
	}
	return time.Date(
		datePart.Year(), datePart.Month(), datePart.Day(),
		timePart.Hour(), timePart.Minute(), timePart.Second(), 0,
		time.Local,
	), true
}

// decodeInvoices converts an INVOICE export into records, keeping only rows
// whose merged timestamp falls inside the window.
func decodeInvoices(r io.Reader, window Window) ([]models.Invoice, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	var invoices []models.Invoice
	for _, row := range t.rows {
		ts, ok := t.timestamp(row)
		if !ok || !window.Contains(ts) {
			continue
		}
		invoices = append(invoices, models.Invoice{
			InvoiceID:     t.field(row, ColInvoice),
			Date:          ts,
			Amount:        t.money(row, ColAmount),
			VAT:           t.money(row, ColVAT),
			Discount:      t.money(row, ColDiscount),
			Service:       t.money(row, ColService),
			PaymentMethod: t.field(row, ColPayment),
			ServiceType:   t.field(row, ColServType),
			TableNo:       t.field(row, ColTableNo),
			Waiter:        t.field(row, ColWaiter),
		})
	}
	return invoices, nil
}

// decodeLineItems converts a SALE export into records with the same window
// filter as decodeInvoices. Exports without a DATE column (archived runs are
// already window-scoped) skip the filter.
func decodeLineItems(r io.Reader, window Window) ([]models.LineItem, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	_, hasDate := t.index[ColDate]

	var items []models.LineItem
	for _, row := range t.rows {
		if hasDate {
			ts, ok := t.timestamp(row)
			if !ok || !window.Contains(ts) {
				continue
			}
		}
		items = append(items, models.LineItem{
			InvoiceID: t.field(row, ColInvoice),
			ItemName:  t.field(row, ColItem),
			Category:  t.field(row, ColCategory),
			Quantity:  t.money(row, ColQuantity),
			Amount:    t.money(row, ColAmount),
			Cost:      t.money(row, ColCost),
		})
	}
	return items, nil
}
