// Package export renders spreadsheet downloads. Grid building is kept
// separate from workbook serialization so report contents are testable
// without touching xlsx plumbing.
package export

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pocketsalon/salon-manager/internal/models"
	"github.com/pocketsalon/salon-manager/internal/stats"
)

const dateLayout = "2006.01.02"

// Sheet is one named 2-D cell grid with per-column widths, the contract
// the spreadsheet writer consumes.
type Sheet struct {
	Name   string
	Widths []float64
	Rows   [][]any
}

// Filename builds the download name: prefix_range_yyyymmdd.xlsx.
func Filename(prefix string, rt stats.RangeType, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s.xlsx", prefix, stats.Label(rt), now.Format("20060102"))
}

// BuildCustomerList renders the full customer roster.
func BuildCustomerList(customers []models.Customer) Sheet {
	rows := [][]any{
		{"Name", "Phone", "Memo", "Last visit", "Registered"},
	}
	for _, c := range customers {
		lastVisit := "-"
		if c.LastVisitDate != nil {
			lastVisit = c.LastVisitDate.Format(dateLayout)
		}
		rows = append(rows, []any{
			c.Name,
			c.Phone,
			c.Memo,
			lastVisit,
			c.CreatedAt.Format(dateLayout),
		})
	}

	return Sheet{
		Name:   "Customers",
		Widths: []float64{14, 16, 22, 12, 12},
		Rows:   rows,
	}
}

// BuildRecordList renders service records newest-first. Records whose
// customer has since been deleted keep their row with a placeholder.
func BuildRecordList(records []models.ServiceRecord, customers []models.Customer) Sheet {
	names := make(map[uint]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}

	sorted := make([]models.ServiceRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	rows := [][]any{
		{"Date", "Customer", "Service", "Price", "Memo"},
	}
	for _, r := range sorted {
		name, ok := names[r.CustomerID]
		if !ok {
			name = "(deleted customer)"
		}
		rows = append(rows, []any{
			r.Date.Format(dateLayout),
			name,
			r.MenuName,
			r.Price,
			r.Memo,
		})
	}

	return Sheet{
		Name:   "Service records",
		Widths: []float64{12, 14, 16, 10, 22},
		Rows:   rows,
	}
}

// BuildMonthlyRevenue renders per-month revenue, newest month first,
// with a totals row at the bottom.
func BuildMonthlyRevenue(records []models.ServiceRecord) Sheet {
	rows := [][]any{
		{"Month", "Revenue", "Services", "Average price"},
	}

	for _, b := range stats.GroupByMonth(records) {
		rows = append(rows, []any{
			b.MonthKey(),
			b.Revenue,
			b.Visits,
			roundedAverage(b.Revenue, b.Visits),
		})
	}

	totalRevenue := stats.TotalRevenue(records)
	rows = append(rows, []any{
		"Total",
		totalRevenue,
		len(records),
		roundedAverage(totalRevenue, len(records)),
	})

	return Sheet{
		Name:   "Monthly revenue",
		Widths: []float64{10, 14, 12, 14},
		Rows:   rows,
	}
}

// BuildStylistReport renders two sheets: per-stylist totals and the
// per-stylist menu breakdown, both ordered by revenue.
func BuildStylistReport(records []models.ServiceRecord) []Sheet {
	summaries := stats.GroupByStylist(records)

	summaryRows := [][]any{
		{"Stylist", "Revenue", "Services", "Average price"},
	}
	detailRows := [][]any{
		{"Stylist", "Service", "Count", "Revenue"},
	}

	for _, s := range summaries {
		summaryRows = append(summaryRows, []any{
			s.Name,
			s.Revenue,
			s.Count,
			roundedAverage(s.Revenue, s.Count),
		})
		for _, m := range s.Menus {
			detailRows = append(detailRows, []any{s.Name, m.Name, m.Count, m.Revenue})
		}
	}

	return []Sheet{
		{
			Name:   "Stylist summary",
			Widths: []float64{14, 14, 12, 14},
			Rows:   summaryRows,
		},
		{
			Name:   "Service detail",
			Widths: []float64{14, 16, 10, 14},
			Rows:   detailRows,
		},
	}
}

func roundedAverage(revenue int64, count int) int64 {
	if count == 0 {
		return 0
	}
	return int64(math.Round(float64(revenue) / float64(count)))
}
