package reservation_test

import (
	"testing"

	domain "github.com/pocketsalon/salon-manager/internal/domain/reservation"
)

func TestParse(t *testing.T) {
	for _, valid := range []string{"scheduled", "completed", "cancelled"} {
		if _, err := domain.Parse(valid); err != nil {
			t.Errorf("Parse(%q) failed: %v", valid, err)
		}
	}

	if _, err := domain.Parse("no-show"); err == nil {
		t.Error("Parse should reject unknown statuses")
	}
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		prev, next domain.Status
		wantDelete bool
		wantEnsure bool
	}{
		{domain.StatusCompleted, domain.StatusCancelled, true, false},
		{domain.StatusCompleted, domain.StatusScheduled, false, false},
		{domain.StatusScheduled, domain.StatusCompleted, false, true},
		{domain.StatusCancelled, domain.StatusCompleted, false, true},
		// Re-saving completed stays on the ensure path (idempotent).
		{domain.StatusCompleted, domain.StatusCompleted, false, true},
		{domain.StatusScheduled, domain.StatusCancelled, false, false},
		{domain.StatusCancelled, domain.StatusScheduled, false, false},
	}

	for _, tt := range tests {
		if got := domain.ShouldDeleteRecord(tt.prev, tt.next); got != tt.wantDelete {
			t.Errorf("ShouldDeleteRecord(%s, %s) = %v, want %v", tt.prev, tt.next, got, tt.wantDelete)
		}
		if got := domain.ShouldEnsureRecord(tt.next); got != tt.wantEnsure {
			t.Errorf("ShouldEnsureRecord(%s) = %v, want %v", tt.next, got, tt.wantEnsure)
		}
	}
}
