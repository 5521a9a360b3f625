package report

import (
	"time"

	"github.com/washboardhq/washboard/pkg/models"
)

// DailySales is one chart bucket of the sales report.
type DailySales struct {
	Date    time.Time `json:"date"`
	Orders  int       `json:"orders"`
	Revenue float64   `json:"revenue"`
}

// revenueStatuses are the lifecycle states that count toward revenue.
func countsTowardRevenue(s models.TransactionStatus) bool {
	return s == models.StatusCompleted || s == models.StatusPickedUp
}

// SalesByDay buckets completed and picked-up orders per calendar day over
// [from, to] inclusive, zero-filling days without sales so the chart axis
// is continuous. Days are resolved in the from value's location.
func SalesByDay(txs []models.Transaction, from, to time.Time) []DailySales {
	loc := from.Location()
	start := dayStart(from, loc)
	end := dayStart(to, loc)
	if end.Before(start) {
		return nil
	}

	// Index into days rather than holding pointers, which would go stale
	// if an append moved the backing array.
	index := make(map[time.Time]int)
	var days []DailySales
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		index[d] = len(days)
		days = append(days, DailySales{Date: d})
	}

	for _, tx := range txs {
		if !countsTowardRevenue(tx.Status) {
			continue
		}
		i, ok := index[dayStart(tx.CreatedAt, loc)]
		if !ok {
			continue
		}
		days[i].Orders++
		days[i].Revenue += tx.TotalPrice
	}
	return days
}

// TotalRevenue sums the revenue of the given report rows.
func TotalRevenue(days []DailySales) float64 {
	var total float64
	for _, d := range days {
		total += d.Revenue
	}
	return total
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
