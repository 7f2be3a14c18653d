package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/pocketsalon/salon-manager/internal/models"
)

// MonthBucket is one calendar month of revenue.
type MonthBucket struct {
	Year    int        `json:"year"`
	Month   time.Month `json:"month"`
	Label   string     `json:"label"`
	Revenue int64      `json:"revenue"`
	Visits  int        `json:"visits"`
}

// MonthKey is the bucket's sortable "2006.01" form.
func (b MonthBucket) MonthKey() string {
	return fmt.Sprintf("%04d.%02d", b.Year, int(b.Month))
}

// MonthlyRevenue buckets the last months calendar months ending at now,
// oldest first. Months without records produce zero buckets, so the
// result always has exactly months entries; the dashboard bar chart
// relies on that.
func MonthlyRevenue(records []models.ServiceRecord, months int, now time.Time) []MonthBucket {
	buckets := make([]MonthBucket, 0, months)
	// Anchor at the first of the month before stepping back; AddDate on
	// a month-end date would skip short months.
	for i := months - 1; i >= 0; i-- {
		m := startOfMonth(now).AddDate(0, -i, 0)
		b := MonthBucket{
			Year:  m.Year(),
			Month: m.Month(),
			Label: fmt.Sprintf("%d/%02d", m.Year(), int(m.Month())),
		}
		for _, r := range records {
			if r.Date.Year() == m.Year() && r.Date.Month() == m.Month() {
				b.Revenue += r.Price
				b.Visits++
			}
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// GroupByMonth buckets records by calendar month, newest month first.
// Unlike MonthlyRevenue it only emits months that actually have records;
// the monthly export sheet uses it.
func GroupByMonth(records []models.ServiceRecord) []MonthBucket {
	byKey := map[string]*MonthBucket{}
	for _, r := range records {
		key := fmt.Sprintf("%04d.%02d", r.Date.Year(), int(r.Date.Month()))
		b, ok := byKey[key]
		if !ok {
			b = &MonthBucket{
				Year:  r.Date.Year(),
				Month: r.Date.Month(),
				Label: key,
			}
			byKey[key] = b
		}
		b.Revenue += r.Price
		b.Visits++
	}

	out := make([]MonthBucket, 0, len(byKey))
	for _, b := range byKey {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MonthKey() > out[j].MonthKey()
	})
	return out
}

// MenuTotals is one menu's share within a stylist summary.
type MenuTotals struct {
	MenuID  uint   `json:"menu_id"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Revenue int64  `json:"revenue"`
}

// StylistSummary aggregates one stylist's records, sub-grouped by menu.
type StylistSummary struct {
	StylistID uint         `json:"stylist_id"`
	Name      string       `json:"name"`
	Revenue   int64        `json:"revenue"`
	Count     int          `json:"count"`
	Menus     []MenuTotals `json:"menus"`
}

// GroupByStylist aggregates records per stylist, highest revenue first,
// with each stylist's menus likewise ordered by revenue. Records without
// a stylist are skipped.
func GroupByStylist(records []models.ServiceRecord) []StylistSummary {
	type acc struct {
		summary StylistSummary
		menus   map[uint]*MenuTotals
	}
	byStylist := map[uint]*acc{}

	for _, r := range records {
		if r.StylistID == nil || r.StylistName == "" {
			continue
		}
		id := *r.StylistID
		a, ok := byStylist[id]
		if !ok {
			a = &acc{
				summary: StylistSummary{StylistID: id, Name: r.StylistName},
				menus:   map[uint]*MenuTotals{},
			}
			byStylist[id] = a
		}
		a.summary.Revenue += r.Price
		a.summary.Count++

		m, ok := a.menus[r.MenuID]
		if !ok {
			m = &MenuTotals{MenuID: r.MenuID, Name: r.MenuName}
			a.menus[r.MenuID] = m
		}
		m.Count++
		m.Revenue += r.Price
	}

	out := make([]StylistSummary, 0, len(byStylist))
	for _, a := range byStylist {
		menus := make([]MenuTotals, 0, len(a.menus))
		for _, m := range a.menus {
			menus = append(menus, *m)
		}
		sort.Slice(menus, func(i, j int) bool {
			return menus[i].Revenue > menus[j].Revenue
		})
		a.summary.Menus = menus
		out = append(out, a.summary)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Revenue > out[j].Revenue
	})
	return out
}

// TotalRevenue sums prices across the record set.
func TotalRevenue(records []models.ServiceRecord) int64 {
	var sum int64
	for _, r := range records {
		sum += r.Price
	}
	return sum
}
