// Package stats derives per-customer visit metrics and revenue
// aggregates from service records. Everything here is pure: callers pass
// the record set and the reference time.
package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pocketsalon/salon-manager/internal/models"
	"github.com/pocketsalon/salon-manager/internal/timezone"
)

// regularVisitThreshold is a fixed business rule: three or more visits
// make a regular customer. It drives the "regular" badge and filter.
const regularVisitThreshold = 3

// imminentRevisitWindowDays bounds the "revisit expected soon" message.
const imminentRevisitWindowDays = 3

// CustomerStats is derived on demand and never persisted. Pointer fields
// are nil when undefined for the visit count (see Compute).
type CustomerStats struct {
	TotalVisits        int  `json:"total_visits"`
	IsRegular          bool `json:"is_regular"`
	AverageCycle       *int `json:"average_cycle"`
	DaysSinceLastVisit *int `json:"days_since_last_visit"`
	NextExpectedVisit  *int `json:"next_expected_visit"`
}

// Compute filters records to the given customer and derives visit
// metrics as of now.
//
// 0 visits: everything nil, not regular. 1 visit: only days-since-last.
// 2+ visits: average gap between consecutive visits (rounded to whole
// days) and the signed distance to the next expected visit; negative
// means overdue.
func Compute(records []models.ServiceRecord, customerID uint, now time.Time) CustomerStats {
	visits := make([]models.ServiceRecord, 0, len(records))
	for _, r := range records {
		if r.CustomerID == customerID {
			visits = append(visits, r)
		}
	}
	sort.SliceStable(visits, func(i, j int) bool {
		return visits[i].Date.Before(visits[j].Date)
	})

	totalVisits := len(visits)

	if totalVisits == 0 {
		return CustomerStats{}
	}

	last := visits[totalVisits-1].Date
	daysSince := timezone.DaysBetween(last, now)

	if totalVisits == 1 {
		return CustomerStats{
			TotalVisits:        1,
			DaysSinceLastVisit: &daysSince,
		}
	}

	gapSum := 0
	for i := 1; i < totalVisits; i++ {
		gapSum += timezone.DaysBetween(visits[i-1].Date, visits[i].Date)
	}
	averageCycle := int(math.Round(float64(gapSum) / float64(totalVisits-1)))

	nextExpected := averageCycle - daysSince

	return CustomerStats{
		TotalVisits:        totalVisits,
		IsRegular:          totalVisits >= regularVisitThreshold,
		AverageCycle:       &averageCycle,
		DaysSinceLastVisit: &daysSince,
		NextExpectedVisit:  &nextExpected,
	}
}

// VisitMessage renders the badge text for the stats. Empty string means
// no message (customer has never visited).
func VisitMessage(s CustomerStats) string {
	if s.TotalVisits == 0 {
		return ""
	}
	if s.TotalVisits == 1 {
		return fmt.Sprintf("Visited %d days ago", *s.DaysSinceLastVisit)
	}

	next := *s.NextExpectedVisit

	if next >= 0 && next <= imminentRevisitWindowDays {
		if next == 0 {
			return "Revisit expected today!"
		}
		return fmt.Sprintf("Revisit expected in %d days", next)
	}

	if next < 0 {
		return fmt.Sprintf("Revisit overdue by %d days", -next)
	}

	return fmt.Sprintf("Visited %d days ago", *s.DaysSinceLastVisit)
}
