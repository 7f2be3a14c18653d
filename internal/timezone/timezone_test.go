package timezone

import (
	"testing"
	"time"
)

func TestStartOfDayTruncatesInLocation(t *testing.T) {
	loc := Location("Asia/Seoul")
	ts := time.Date(2026, 3, 14, 18, 45, 12, 0, loc)

	got := StartOfDay(ts)

	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
	if got.Day() != 14 {
		t.Fatalf("expected same calendar day, got %v", got)
	}
}

func TestDaysBetweenWholeCalendarDays(t *testing.T) {
	loc := Location("Asia/Seoul")

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{
			name:  "same day different hours",
			start: time.Date(2026, 1, 10, 9, 0, 0, 0, loc),
			end:   time.Date(2026, 1, 10, 23, 0, 0, 0, loc),
			want:  0,
		},
		{
			name:  "late evening to early morning is one day",
			start: time.Date(2026, 1, 10, 23, 30, 0, 0, loc),
			end:   time.Date(2026, 1, 11, 0, 30, 0, 0, loc),
			want:  1,
		},
		{
			name:  "ten days",
			start: time.Date(2026, 1, 1, 12, 0, 0, 0, loc),
			end:   time.Date(2026, 1, 11, 12, 0, 0, 0, loc),
			want:  10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.start, tt.end); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaysBetweenAcrossDSTTransition(t *testing.T) {
	// New York springs forward on 2026-03-08, so the two elapsed days
	// span only 47 wall-clock hours. The count must still be 2.
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	start := time.Date(2026, 3, 7, 12, 0, 0, 0, loc)
	end := time.Date(2026, 3, 9, 12, 0, 0, 0, loc)

	if got := DaysBetween(start, end); got != 2 {
		t.Errorf("DaysBetween() across spring forward = %d, want 2", got)
	}
}

func TestLocationFallsBackToDefault(t *testing.T) {
	loc := Location("Not/AZone")
	if loc.String() != DefaultTimezone {
		t.Fatalf("expected fallback to %s, got %s", DefaultTimezone, loc)
	}
}
