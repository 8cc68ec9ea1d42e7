// Package demo generates a plausible POS export so the whole pipeline can be
// exercised without a real MDB backup. The output matches the CSV layout the
// extract package reads.
package demo

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jaswdr/faker"
	"github.com/shopspring/decimal"

	"github.com/tornadohq/posreport/internal/models"
)

var (
	paymentMethods = []string{"CASH", "CARD"}
	serviceTypes   = []string{"DINE IN", "TAKEAWAY", "DELIVERY"}

	menu = []struct {
		name     string
		category string
		price    float64
	}{
		{"Grilled Chicken", "MAIN DISHES", 14.50},
		{"Mixed Grill", "MAIN DISHES", 21.00},
		{"Lamb Chops", "MAIN DISHES", 24.00},
		{"Margherita Pizza", "PIZZA", 11.00},
		{"Pepperoni Pizza", "PIZZA", 12.50},
		{"Caesar Salad", "SALADS", 8.50},
		{"Greek Salad", "SALADS", 7.50},
		{"French Fries", "SIDES", 4.00},
		{"Garlic Bread", "SIDES", 3.50},
		{"Lentil Soup", "SOUPS", 5.00},
		{"Fresh Orange Juice", "BEVERAGES", 4.50},
		{"Soft Drink", "BEVERAGES", 2.50},
		{"Turkish Coffee", "HOT DRINKS", 3.00},
		{"Baklava", "DESSERTS", 6.00},
		{"Rice Pudding", "DESSERTS", 5.50},
	}
)

// Generator produces deterministic demo exports for a seed.
type Generator struct {
	fake faker.Faker
	rng  *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	src := rand.NewSource(seed)
	return &Generator{
		fake: faker.NewWithSeed(src),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Generate writes INVOICE.csv and SALE.csv under dir covering `days`
// business days ending yesterday, with invoicesPerDay bills per day.
func (g *Generator) Generate(dir string, days, invoicesPerDay int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating demo dir: %w", err)
	}

	invoices, items := g.Records(days, invoicesPerDay)

	if err := writeCSV(filepath.Join(dir, "INVOICE.csv"), invoiceRows(invoices)); err != nil {
		return err
	}
	return writeCSV(filepath.Join(dir, "SALE.csv"), saleRows(items, invoices))
}

// Records builds in-memory demo records; tests use this directly to skip the
// filesystem.
func (g *Generator) Records(days, invoicesPerDay int) ([]models.Invoice, []models.LineItem) {
	var invoices []models.Invoice
	var items []models.LineItem

	end := time.Now().AddDate(0, 0, -1)
	invNo := 1000

	for d := days; d >= 1; d-- {
		day := end.AddDate(0, 0, -(d - 1))
		for i := 0; i < invoicesPerDay; i++ {
			invNo++
			// Spread across the 14:00-04:00 trading window.
			offset := time.Duration(g.rng.Intn(14*60)) * time.Minute
			ts := time.Date(day.Year(), day.Month(), day.Day(), 14, 0, 0, 0, time.Local).Add(offset)

			id := fmt.Sprintf("%d", invNo)
			lineCount := 1 + g.rng.Intn(4)
			total := decimal.Zero
			for l := 0; l < lineCount; l++ {
				dish := menu[g.rng.Intn(len(menu))]
				qty := int64(1 + g.rng.Intn(3))
				amount := decimal.NewFromFloat(dish.price).Mul(decimal.NewFromInt(qty))
				cost := amount.Mul(decimal.NewFromFloat(0.4)).Round(2)
				items = append(items, models.LineItem{
					InvoiceID: id,
					ItemName:  dish.name,
					Category:  dish.category,
					Quantity:  decimal.NewFromInt(qty),
					Amount:    amount,
					Cost:      cost,
				})
				total = total.Add(amount)
			}

			vat := total.Mul(decimal.NewFromFloat(0.05)).Round(2)
			invoices = append(invoices, models.Invoice{
				InvoiceID:     id,
				Date:          ts,
				Amount:        total,
				VAT:           vat,
				PaymentMethod: paymentMethods[g.rng.Intn(len(paymentMethods))],
				ServiceType:   serviceTypes[g.rng.Intn(len(serviceTypes))],
				TableNo:       fmt.Sprintf("%d", 1+g.rng.Intn(20)),
				Waiter:        g.fake.Person().FirstName(),
			})
		}
	}
	return invoices, items
}

func invoiceRows(invoices []models.Invoice) [][]string {
	rows := [][]string{{"INV_NO", "DATE", "TIME", "AMOUNT", "VAT", "DISCOUNT", "SERVICE", "SALE_INFO", "C_NO", "TABLE_NO", "WAITOR"}}
	for _, inv := range invoices {
		ts := inv.Date.Format("1/2/06 15:04:05")
		rows = append(rows, []string{
			inv.InvoiceID, ts, ts,
			inv.Amount.String(), inv.VAT.String(), inv.Discount.String(), inv.Service.String(),
			inv.PaymentMethod, inv.ServiceType, inv.TableNo, inv.Waiter,
		})
	}
	return rows
}

func saleRows(items []models.LineItem, invoices []models.Invoice) [][]string {
	// The real SALE table carries the invoice timestamp too; the window
	// filter needs it.
	dates := make(map[string]string, len(invoices))
	for _, inv := range invoices {
		dates[inv.InvoiceID] = inv.Date.Format("1/2/06 15:04:05")
	}

	rows := [][]string{{"INV_NO", "DATE", "TIME", "ITEMS", "CATOGERY", "QTY", "AMOUNT", "COST"}}
	for _, li := range items {
		ts := dates[li.InvoiceID]
		rows = append(rows, []string{
			li.InvoiceID, ts, ts, li.ItemName, li.Category,
			li.Quantity.String(), li.Amount.String(), li.Cost.String(),
		})
	}
	return rows
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}
