package billing

import "testing"

func TestParseUserReference(t *testing.T) {
	tests := []struct {
		ref    string
		wantID uint
		wantOK bool
	}{
		{"user:42", 42, true},
		{"user:1", 1, true},
		{"order:42", 0, false},
		{"user:", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			id, ok := ParseUserReference(tt.ref)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("ParseUserReference(%q) = (%d, %v), want (%d, %v)",
					tt.ref, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}
