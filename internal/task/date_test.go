package task

import (
	"testing"
	"time"
)

func TestIsWithinHours(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want bool
	}{
		{"now", now, true},
		{"in one hour", now.Add(time.Hour), true},
		{"at window edge", now.Add(48 * time.Hour), true},
		{"just past window", now.Add(48*time.Hour + time.Second), false},
		{"in 100 hours", now.Add(100 * time.Hour), false},
		{"inside grace", now.Add(-4 * time.Minute), true},
		{"at grace edge", now.Add(-5 * time.Minute), true},
		{"past grace", now.Add(-5*time.Minute - time.Second), false},
		{"yesterday", now.Add(-24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWithinHours(tt.due, now, DefaultUrgentWindow, DefaultGrace); got != tt.want {
				t.Errorf("IsWithinHours(%v) = %v, want %v", tt.due.Sub(now), got, tt.want)
			}
		})
	}
}

func TestIsImportant(t *testing.T) {
	if !IsImportant(PriorityHigh) {
		t.Error("High should be important")
	}
	for _, p := range []Priority{PriorityMedium, PriorityLow, ""} {
		if IsImportant(p) {
			t.Errorf("%q should not be important", p)
		}
	}
}

func TestFormatShortDate(t *testing.T) {
	if got := FormatShortDate(nil); got != "No due date" {
		t.Errorf("FormatShortDate(nil) = %q", got)
	}
	due := time.Date(2024, 5, 2, 15, 4, 0, 0, time.Local)
	if got := FormatShortDate(&due); got != "May 2, 03:04 PM" {
		t.Errorf("FormatShortDate() = %q", got)
	}
}

func TestParseDue(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in      string
		want    *time.Time
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "  ", want: nil},
		{in: "now", want: &now},
		{in: "+36h", want: ptrTime(now.Add(36 * time.Hour))},
		{in: "+90m", want: ptrTime(now.Add(90 * time.Minute))},
		{in: "+2d", want: ptrTime(now.Add(48 * time.Hour))},
		{in: "today", want: ptrTime(time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC))},
		{in: "tomorrow", want: ptrTime(time.Date(2024, 5, 2, 23, 59, 0, 0, time.UTC))},
		{in: "2024-06-01", want: ptrTime(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))},
		{in: "2024-06-01 14:30", want: ptrTime(time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC))},
		{in: "2024-06-01T14:30", want: ptrTime(time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC))},
		{in: "2024-06-01T14:30:00+02:00", want: ptrTime(time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC))},
		{in: "+-3h", wantErr: true},
		{in: "+xd", wantErr: true},
		{in: "next week", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDue(tt.in, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDue(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ParseDue(%q) = %v, want nil", tt.in, got)
			case tt.want != nil && (got == nil || !got.Equal(*tt.want)):
				t.Errorf("ParseDue(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
