// Package report shapes transaction data into the dashboard's report
// views: customer visit frequency and sales over time.
package report

import (
	"sort"
	"time"

	"github.com/washboardhq/washboard/pkg/models"
)

// CustomerFrequency is one row of the customer-frequency report.
type CustomerFrequency struct {
	Customer   models.Customer `json:"customer"`
	Visits     int             `json:"visits"`
	TotalSpent float64         `json:"total_spent"`
	TotalItems float64         `json:"total_items"`
	LastVisit  time.Time       `json:"last_visit"`
}

// CustomerFrequencies aggregates transactions per customer and orders the
// report rows by visit count, then total spent, then total items, all
// descending. Rows equal on all three keys keep the relative order in which
// their customers first appeared in the input. Cancelled orders do not
// count as visits.
func CustomerFrequencies(txs []models.Transaction) []CustomerFrequency {
	index := make(map[int]int)
	rows := make([]CustomerFrequency, 0)

	for _, tx := range txs {
		if tx.Status == models.StatusCancelled {
			continue
		}
		i, ok := index[tx.Customer.ID]
		if !ok {
			i = len(rows)
			index[tx.Customer.ID] = i
			rows = append(rows, CustomerFrequency{Customer: tx.Customer})
		}
		rows[i].Visits++
		rows[i].TotalSpent += tx.TotalPrice
		rows[i].TotalItems += tx.Quantity
		if tx.CreatedAt.After(rows[i].LastVisit) {
			rows[i].LastVisit = tx.CreatedAt
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Visits != rows[j].Visits {
			return rows[i].Visits > rows[j].Visits
		}
		if rows[i].TotalSpent != rows[j].TotalSpent {
			return rows[i].TotalSpent > rows[j].TotalSpent
		}
		if rows[i].TotalItems != rows[j].TotalItems {
			return rows[i].TotalItems > rows[j].TotalItems
		}
		return false
	})
	return rows
}
