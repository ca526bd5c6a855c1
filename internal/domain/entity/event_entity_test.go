package entity

import (
	"testing"
	"time"
)

func TestEventTemporalChecks(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name         string
		at           time.Time
		wantPast     bool
		wantUpcoming bool
	}{
		{"before", now.Add(-time.Second), true, false},
		{"exactly now", now, false, false},
		{"after", now.Add(time.Second), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Event{Datetime: tt.at}
			if got := e.IsPast(now); got != tt.wantPast {
				t.Fatalf("IsPast = %v, want %v", got, tt.wantPast)
			}
			if got := e.IsUpcoming(now); got != tt.wantUpcoming {
				t.Fatalf("IsUpcoming = %v, want %v", got, tt.wantUpcoming)
			}
		})
	}
}
