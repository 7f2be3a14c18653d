package export_test

import (
	"testing"
	"time"

	"github.com/pocketsalon/salon-manager/internal/export"
	"github.com/pocketsalon/salon-manager/internal/models"
	"github.com/pocketsalon/salon-manager/internal/stats"
)

func rec(customerID uint, date time.Time, menu string, price int64) models.ServiceRecord {
	return models.ServiceRecord{
		CustomerID: customerID,
		MenuName:   menu,
		Price:      price,
		Date:       date,
	}
}

func TestBuildRecordList(t *testing.T) {
	older := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	customers := []models.Customer{{ID: 1, Name: "Yuna Kim"}}
	records := []models.ServiceRecord{
		rec(1, older, "Cut", 30000),
		rec(2, newer, "Perm", 120000), // deleted customer
	}

	sheet := export.BuildRecordList(records, customers)

	if len(sheet.Rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(sheet.Rows))
	}
	if len(sheet.Widths) != len(sheet.Rows[0]) {
		t.Errorf("widths (%d) must match columns (%d)", len(sheet.Widths), len(sheet.Rows[0]))
	}

	// Newest first; deleted customers keep their rows.
	if sheet.Rows[1][0] != "2026.04.01" || sheet.Rows[1][1] != "(deleted customer)" {
		t.Errorf("first data row = %v", sheet.Rows[1])
	}
	if sheet.Rows[2][1] != "Yuna Kim" {
		t.Errorf("second data row = %v", sheet.Rows[2])
	}
}

func TestBuildMonthlyRevenueTotalsRow(t *testing.T) {
	records := []models.ServiceRecord{
		rec(1, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC), "Cut", 30000),
		rec(1, time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC), "Cut", 30000),
		rec(1, time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC), "Perm", 125000),
	}

	sheet := export.BuildMonthlyRevenue(records)

	// header, April, March, totals
	if len(sheet.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(sheet.Rows))
	}

	if sheet.Rows[1][0] != "2026.04" {
		t.Errorf("first month = %v, want 2026.04", sheet.Rows[1][0])
	}

	total := sheet.Rows[3]
	if total[0] != "Total" || total[1] != int64(185000) || total[2] != 3 {
		t.Errorf("totals row = %v", total)
	}
	// 185000 / 3 = 61666.67 → 61667
	if total[3] != int64(61667) {
		t.Errorf("average = %v, want 61667", total[3])
	}
}

func TestBuildStylistReportSheets(t *testing.T) {
	sid := uint(3)
	r := rec(1, time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC), "Cut", 30000)
	r.StylistID = &sid
	r.StylistName = "Mina"
	r.MenuID = 10

	sheets := export.BuildStylistReport([]models.ServiceRecord{r})

	if len(sheets) != 2 {
		t.Fatalf("sheets = %d, want 2", len(sheets))
	}
	if sheets[0].Name != "Stylist summary" || sheets[1].Name != "Service detail" {
		t.Errorf("sheet names = %s, %s", sheets[0].Name, sheets[1].Name)
	}
	if sheets[0].Rows[1][0] != "Mina" {
		t.Errorf("summary row = %v", sheets[0].Rows[1])
	}
	if sheets[1].Rows[1][1] != "Cut" {
		t.Errorf("detail row = %v", sheets[1].Rows[1])
	}
}

func TestWriteWorkbook(t *testing.T) {
	sheet := export.BuildCustomerList([]models.Customer{
		{ID: 1, Name: "Yuna Kim", Phone: "010-1234-5678", CreatedAt: time.Now()},
	})

	data, err := export.WriteWorkbook([]export.Sheet{sheet})
	if err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("workbook is empty")
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC)
	got := export.Filename("records", stats.RangeLast3Months, now)
	want := "records_last-3-months_20260402.xlsx"
	if got != want {
		t.Errorf("Filename = %q, want %q", got, want)
	}
}
