package reservation

import "github.com/pocketsalon/salon-manager/internal/httperr"

// ===============================
// Reservation Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func InitialStatus() Status {
	return StatusScheduled
}

// Parse validates a status coming from a form. The form may set any of
// the three values freely; only transitions across the completed
// boundary have record side effects.
func Parse(s string) (Status, error) {
	switch Status(s) {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", httperr.ErrBusiness("invalid_status")
	}
}

// ===============================
// Reconciliation transition table
// ===============================

// ShouldDeleteRecord reports whether the transition removes the linked
// service record. Only completed → cancelled does; editing a completed
// reservation back to scheduled keeps its record.
func ShouldDeleteRecord(prev, next Status) bool {
	return prev == StatusCompleted && next == StatusCancelled
}

// ShouldEnsureRecord reports whether the transition must end with
// exactly one linked service record. Fires on every save that lands on
// completed, which makes repeated saves idempotent.
func ShouldEnsureRecord(next Status) bool {
	return next == StatusCompleted
}
