// Package extract pulls invoice and line-item records out of a POS backup.
// The production path shells out to mdb-export and parses its CSV output;
// a plain CSV directory source covers demo data and tests. Both apply the
// same inclusive window filter and drop rows with unparseable dates.
package extract

import (
	"context"
	"errors"
	"time"

	"github.com/tornadohq/posreport/internal/models"
)

// Table names inside the POS database.
const (
	InvoiceTable = "INVOICE"
	SaleTable    = "SALE"
)

// Column headers as the POS schema spells them (WAITOR and CATOGERY are the
// literal column names in the export).
const (
	ColDate     = "DATE"
	ColTime     = "TIME"
	ColAmount   = "AMOUNT"
	ColVAT      = "VAT"
	ColDiscount = "DISCOUNT"
	ColService  = "SERVICE"
	ColPayment  = "SALE_INFO"
	ColServType = "C_NO"
	ColTableNo  = "TABLE_NO"
	ColWaiter   = "WAITOR"
	ColInvoice  = "INV_NO"
	ColItem     = "ITEMS"
	ColCategory = "CATOGERY"
	ColQuantity = "QTY"
	ColCost     = "COST"
)

// mdbTimeLayout is the timestamp format the export emits for both the DATE
// and TIME columns (each carries a full timestamp; only one half is used).
const mdbTimeLayout = "1/2/06 15:04:05"

var (
	// ErrBackupNotFound means the backup artifact is missing at the
	// configured location.
	ErrBackupNotFound = errors.New("backup file not found")
	// ErrExportToolMissing means the export utility itself is not
	// installed or not on PATH.
	ErrExportToolMissing = errors.New("export tool not found")
)

// Source fetches the two record collections for a time window.
type Source interface {
	Fetch(ctx context.Context, window Window) ([]models.Invoice, []models.LineItem, error)
}

// Window is an inclusive time span to extract.
type Window struct {
	Start time.Time
	End   time.Time
}

// BusinessDay returns the trading window for one calendar day: 14:00 local
// time through 04:00 the following day.
func BusinessDay(year int, month time.Month, day int) Window {
	start := time.Date(year, month, day, 14, 0, 0, 0, time.Local)
	return Window{Start: start, End: start.Add(14 * time.Hour)}
}

// Month returns the trading window for a calendar month: the 1st at 14:00
// through the 1st of the next month at 04:00.
func Month(year int, month time.Month) Window {
	start := time.Date(year, month, 1, 14, 0, 0, 0, time.Local)
	end := time.Date(year, month, 1, 4, 0, 0, 0, time.Local).AddDate(0, 1, 0)
	return Window{Start: start, End: end}
}

// PreviousMonth resolves the calendar month before the given reference time.
func PreviousMonth(now time.Time) (int, time.Month) {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := firstOfMonth.AddDate(0, 0, -1)
	return last.Year(), last.Month()
}

// Contains reports whether t falls inside the window, bounds inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
