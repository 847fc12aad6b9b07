package entity

import (
	"fmt"
	"time"
)

// HistogramDays is the fixed number of day slots kept per histogram, one per
// possible day of a calendar month.
const HistogramDays = 31

// DayHistogram counts, for each day of the month, how many entities had usage
// active on that day. Index i holds day i+1.
type DayHistogram [HistogramDays]int

// Credit adds one usage unit to every day from start through end, inclusive.
// Callers validate the range first.
func (h *DayHistogram) Credit(start, end int) {
	for d := start; d <= end; d++ {
		h[d-1]++
	}
}

// Merge returns the element-wise sum of h and other.
func (h DayHistogram) Merge(other DayHistogram) DayHistogram {
	var out DayHistogram
	for i := range h {
		out[i] = h[i] + other[i]
	}
	return out
}

// Max returns the highest bucket value.
func (h DayHistogram) Max() int {
	m := 0
	for _, v := range h {
		if v > m {
			m = v
		}
	}
	return m
}

// Values returns the histogram as float64 values, used for charts.
func (h DayHistogram) Values(days int) []float64 {
	if days <= 0 || days > HistogramDays {
		days = HistogramDays
	}
	out := make([]float64, days)
	for i := 0; i < days; i++ {
		out[i] = float64(h[i])
	}
	return out
}

// UsageRecord is one billing interval for a single entity (VM).
type UsageRecord struct {
	EntityID    string    `json:"entity_id"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
}

// StartDay returns the day of month the interval begins on.
func (r UsageRecord) StartDay() int { return r.PeriodStart.Day() }

// EndDay returns the day of month the interval ends on.
func (r UsageRecord) EndDay() int { return r.PeriodEnd.Day() }

// SourceSummary is the usage tally of a single source file.
type SourceSummary struct {
	Source         string       `json:"source"`
	PerSourceMax   int          `json:"max"`
	EntityCount    int          `json:"count"`
	SkippedRecords int          `json:"skipped_records"`
	Histogram      DayHistogram `json:"histogram"`
	Error          string       `json:"error,omitempty"`
}

// Failed reports whether the source could not be read at all.
func (s SourceSummary) Failed() bool { return s.Error != "" }

// GlobalSummary aggregates every source of a batch.
type GlobalSummary struct {
	TotalHistogram   DayHistogram `json:"total_histogram"`
	TotalMax         int          `json:"total_max"`
	MaxDays          []int        `json:"max_days"`
	TotalEntityCount int          `json:"total_count"`
	SourceCount      int          `json:"source_count"`
	FailedSources    int          `json:"failed_sources"`
}

// SourceError is a per-source failure kept in the report instead of aborting
// the batch.
type SourceError struct {
	Source  string `json:"source"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// UsageReport is the complete result of one batch run.
type UsageReport struct {
	RunID       string          `json:"run_id"`
	Period      Period          `json:"period"`
	Sources     []SourceSummary `json:"sources"`
	Global      GlobalSummary   `json:"global"`
	Errors      []SourceError   `json:"errors,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Summary formats the one-line result: "Usage for 07-2025 ==> 12 [10 11]/40".
func (r *UsageReport) Summary() string {
	return fmt.Sprintf("Usage for %s ==> %d %v/%d",
		r.Period.Label(), r.Global.TotalMax, r.Global.MaxDays, r.Global.TotalEntityCount)
}
