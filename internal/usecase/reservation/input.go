package reservation

import "time"

// Input carries one reservation form submission. Date is date-only; the
// handler parses and truncates it before the usecase runs.
type Input struct {
	CustomerID uint
	Date       time.Time
	Time       string
	MenuID     *uint
	StylistID  *uint
	Memo       string
	Status     string
}
