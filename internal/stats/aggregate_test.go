package stats_test

import (
	"testing"
	"time"

	"github.com/pocketsalon/salon-manager/internal/models"
	"github.com/pocketsalon/salon-manager/internal/stats"
)

func record(customerID uint, on time.Time, price int64) models.ServiceRecord {
	r := visit(customerID, on)
	r.Price = price
	return r
}

func stylistRecord(stylistID uint, stylistName string, menuID uint, menuName string, price int64) models.ServiceRecord {
	return models.ServiceRecord{
		CustomerID:  1,
		StylistID:   &stylistID,
		StylistName: stylistName,
		MenuID:      menuID,
		MenuName:    menuName,
		Price:       price,
		Date:        day(0),
	}
}

// =============================================================================
// MONTHLY AGGREGATION
// =============================================================================

func TestMonthlyRevenue_SixMonthWindowSumsToTotal(t *testing.T) {
	now := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	records := []models.ServiceRecord{
		record(1, time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC), 10000),
		record(1, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), 20000),
		record(2, time.Date(2026, time.March, 28, 0, 0, 0, 0, time.UTC), 5000),
		record(2, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), 40000),
		// Outside the window: must not appear in any bucket.
		record(1, time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), 99999),
	}

	buckets := stats.MonthlyRevenue(records, 6, now)

	if len(buckets) != 6 {
		t.Fatalf("bucket count = %d, want 6", len(buckets))
	}
	if buckets[0].Month != time.January || buckets[5].Month != time.June {
		t.Errorf("window = %v..%v, want January..June", buckets[0].Month, buckets[5].Month)
	}

	var total int64
	for _, b := range buckets {
		total += b.Revenue
	}
	if total != 75000 {
		t.Errorf("window revenue = %d, want 75000", total)
	}

	if buckets[2].Revenue != 25000 || buckets[2].Visits != 2 {
		t.Errorf("March bucket = %d won / %d visits, want 25000 / 2", buckets[2].Revenue, buckets[2].Visits)
	}
	if buckets[1].Revenue != 0 || buckets[1].Visits != 0 {
		t.Error("empty month must produce a zero bucket")
	}
}

func TestGroupByMonth_NewestFirstSkipsEmpty(t *testing.T) {
	records := []models.ServiceRecord{
		record(1, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), 10000),
		record(1, time.Date(2026, time.April, 5, 0, 0, 0, 0, time.UTC), 20000),
		record(1, time.Date(2026, time.April, 20, 0, 0, 0, 0, time.UTC), 30000),
	}

	buckets := stats.GroupByMonth(records)

	if len(buckets) != 2 {
		t.Fatalf("bucket count = %d, want 2", len(buckets))
	}
	if buckets[0].MonthKey() != "2026.04" || buckets[1].MonthKey() != "2026.01" {
		t.Errorf("order = %s, %s; want 2026.04, 2026.01", buckets[0].MonthKey(), buckets[1].MonthKey())
	}
	if buckets[0].Revenue != 50000 {
		t.Errorf("April revenue = %d, want 50000", buckets[0].Revenue)
	}
}

// =============================================================================
// STYLIST AGGREGATION
// =============================================================================

func TestGroupByStylist(t *testing.T) {
	records := []models.ServiceRecord{
		stylistRecord(1, "Mina", 10, "Cut", 30000),
		stylistRecord(1, "Mina", 10, "Cut", 30000),
		stylistRecord(1, "Mina", 11, "Perm", 120000),
		stylistRecord(2, "Jun", 10, "Cut", 30000),
		// No stylist assigned: excluded from the report.
		record(1, day(0), 50000),
	}

	summaries := stats.GroupByStylist(records)

	if len(summaries) != 2 {
		t.Fatalf("summary count = %d, want 2", len(summaries))
	}

	mina := summaries[0]
	if mina.Name != "Mina" || mina.Revenue != 180000 || mina.Count != 3 {
		t.Errorf("top stylist = %s/%d/%d, want Mina/180000/3", mina.Name, mina.Revenue, mina.Count)
	}
	if len(mina.Menus) != 2 || mina.Menus[0].Name != "Perm" {
		t.Errorf("menus should be revenue-ordered, got %+v", mina.Menus)
	}
}

// =============================================================================
// DATE RANGES
// =============================================================================

func TestResolveRanges(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 30, 0, 0, time.UTC)

	start, end := stats.Resolve(stats.RangeThisMonth, now)
	if start.Day() != 1 || start.Month() != time.June {
		t.Errorf("thisMonth start = %v, want June 1", start)
	}
	if end.Month() != time.June || end.Day() != 30 {
		t.Errorf("thisMonth end = %v, want June 30", end)
	}

	start, end = stats.Resolve(stats.RangeLastMonth, now)
	if start.Month() != time.May || end.Month() != time.May {
		t.Errorf("lastMonth = [%v, %v], want May", start, end)
	}

	start, end = stats.Resolve(stats.RangeLast3Months, now)
	if start.Month() != time.March || !end.Equal(now) {
		t.Errorf("last3Months = [%v, %v]", start, end)
	}

	start, end = stats.Resolve(stats.RangeAll, now)
	if !start.Before(time.Date(1971, 1, 1, 0, 0, 0, 0, time.UTC)) || end.Year() != 2100 {
		t.Errorf("all = [%v, %v]", start, end)
	}
}

func TestResolveLastMonthAtMonthEnd(t *testing.T) {
	// May has 31 days, April only 30; stepping back must land in April,
	// not normalize to May 1.
	now := time.Date(2026, time.May, 31, 10, 0, 0, 0, time.UTC)

	start, end := stats.Resolve(stats.RangeLastMonth, now)
	if start.Month() != time.April || start.Day() != 1 {
		t.Errorf("lastMonth start = %v, want April 1", start)
	}
	if end.Month() != time.April || end.Day() != 30 {
		t.Errorf("lastMonth end = %v, want April 30", end)
	}
}

func TestResolveRollingRangesClampAtMonthEnd(t *testing.T) {
	now := time.Date(2026, time.May, 31, 0, 0, 0, 0, time.UTC)

	start, _ := stats.Resolve(stats.RangeLast3Months, now)
	if start.Month() != time.February || start.Day() != 28 {
		t.Errorf("last3Months start = %v, want February 28", start)
	}

	start, _ = stats.Resolve(stats.RangeLast6Months, now)
	if start.Month() != time.November || start.Day() != 30 || start.Year() != 2025 {
		t.Errorf("last6Months start = %v, want November 30 2025", start)
	}
}

func TestMonthlyRevenue_MonthEndKeepsEveryBucket(t *testing.T) {
	now := time.Date(2026, time.May, 31, 0, 0, 0, 0, time.UTC)

	records := []models.ServiceRecord{
		record(1, time.Date(2026, time.April, 18, 0, 0, 0, 0, time.UTC), 30000),
		record(1, time.Date(2026, time.May, 2, 0, 0, 0, 0, time.UTC), 10000),
	}

	buckets := stats.MonthlyRevenue(records, 6, now)

	if len(buckets) != 6 {
		t.Fatalf("bucket count = %d, want 6", len(buckets))
	}
	if buckets[0].Month != time.December || buckets[5].Month != time.May {
		t.Errorf("window = %v..%v, want December..May", buckets[0].Month, buckets[5].Month)
	}
	if buckets[4].Month != time.April || buckets[4].Revenue != 30000 {
		t.Errorf("April bucket = %v/%d, want April/30000", buckets[4].Month, buckets[4].Revenue)
	}

	var total int64
	for _, b := range buckets {
		total += b.Revenue
	}
	if total != 40000 {
		t.Errorf("window revenue = %d, want 40000", total)
	}
}

func TestResolveCustom(t *testing.T) {
	start, end, err := stats.ResolveCustom("2026-02-01", "2026-02-10", time.UTC)
	if err != nil {
		t.Fatalf("ResolveCustom: %v", err)
	}
	if start.Day() != 1 || start.Month() != time.February {
		t.Errorf("start = %v, want February 1", start)
	}
	// End bound covers the whole closing day.
	if end.Day() != 10 || end.Hour() != 23 {
		t.Errorf("end = %v, want end of February 10", end)
	}

	if _, _, err := stats.ResolveCustom("02/01/2026", "2026-02-10", time.UTC); err == nil {
		t.Error("malformed from bound should fail")
	}
	if _, _, err := stats.ResolveCustom("2026-02-01", "", time.UTC); err == nil {
		t.Error("missing to bound should fail")
	}
}

func TestFilterByRangeInclusive(t *testing.T) {
	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC)

	records := []models.ServiceRecord{
		record(1, start, 100),
		record(1, end, 200),
		record(1, start.AddDate(0, 0, -1), 400),
		record(1, end.AddDate(0, 0, 1), 800),
	}

	kept := stats.FilterByRange(records, start, end)
	if stats.TotalRevenue(kept) != 300 {
		t.Errorf("kept revenue = %d, want 300 (boundaries inclusive)", stats.TotalRevenue(kept))
	}
}

func TestParseRangeFallsBackToAll(t *testing.T) {
	if got := stats.ParseRange("bogus"); got != stats.RangeAll {
		t.Errorf("ParseRange(bogus) = %q, want all", got)
	}
	if got := stats.ParseRange("last6Months"); got != stats.RangeLast6Months {
		t.Errorf("ParseRange(last6Months) = %q", got)
	}
	if got := stats.ParseRange("custom"); got != stats.RangeCustom {
		t.Errorf("ParseRange(custom) = %q", got)
	}
}
