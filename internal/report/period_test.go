package report

import (
	"errors"
	"testing"
	"time"
)

func TestNewDateRange(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{name: "same_day_later_clock", start: day(2024, 5, 1, 18, 0), end: day(2024, 5, 1, 6, 0)},
		{name: "ordered", start: day(2024, 5, 1, 0, 0), end: day(2024, 5, 2, 0, 0)},
		{name: "reversed", start: day(2024, 5, 2, 0, 0), end: day(2024, 5, 1, 23, 59), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDateRange(tt.start, tt.end)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Fatalf("expected ErrInvalidRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewSalaryPeriod(t *testing.T) {
	now := day(2025, 6, 15, 12, 0)

	tests := []struct {
		name  string
		month int
		year  int
		want  error
	}{
		{name: "valid", month: 6, year: 2025},
		{name: "lower_bounds", month: 1, year: 2000},
		{name: "month_13", month: 13, year: 2024, want: ErrInvalidMonth},
		{name: "month_0", month: 0, year: 2024, want: ErrInvalidMonth},
		{name: "year_1999", month: 5, year: 1999, want: ErrInvalidYear},
		{name: "future_year", month: 1, year: 2026, want: ErrInvalidYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewSalaryPeriod(tt.month, tt.year, now)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if int(p.Month) != tt.month || p.Year != tt.year {
					t.Fatalf("unexpected period %+v", p)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("expected error to also match ErrInvalidRange")
			}
		})
	}
}
