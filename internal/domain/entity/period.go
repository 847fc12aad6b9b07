package entity

import (
	"fmt"
	"time"
)

// Period identifies the billing month being processed.
type Period struct {
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
}

// DefaultPeriod returns the calendar month preceding now.
func DefaultPeriod(now time.Time) Period {
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return Period{Month: prev.Month(), Year: prev.Year()}
}

// Validate checks month and year bounds.
func (p Period) Validate() error {
	if p.Month < time.January || p.Month > time.December {
		return fmt.Errorf("invalid month %d: expected 1 to 12", int(p.Month))
	}
	if p.Year < 1970 || p.Year > 9999 {
		return fmt.Errorf("invalid year %d", p.Year)
	}
	return nil
}

// DaysInMonth returns the real length of the month.
func (p Period) DaysInMonth() int {
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Contains reports whether t falls in the month of p.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// Label formats the period as MM-YYYY.
func (p Period) Label() string {
	return fmt.Sprintf("%02d-%d", int(p.Month), p.Year)
}

// FilePrefix formats the period as YYYYMM, used in report file names.
func (p Period) FilePrefix() string {
	return fmt.Sprintf("%d%02d", p.Year, int(p.Month))
}

// BillingFileName returns the name of the CSV expected inside the billing
// bundle, e.g. ZertoBilling_7_2025.csv.
func (p Period) BillingFileName(prefix string) string {
	return fmt.Sprintf("%s_%d_%d.csv", prefix, int(p.Month), p.Year)
}
