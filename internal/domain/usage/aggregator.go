package usage

import (
	"errors"

	"github.com/diillson/billing-usage-report-go/internal/domain/entity"
)

// Aggregator collects per-source summaries of one batch in input order.
// It is a plain value: every run owns its own.
type Aggregator struct {
	period  entity.Period
	sources []entity.SourceSummary
	errors  []entity.SourceError
}

// NewAggregator creates an empty aggregator for a billing period.
func NewAggregator(period entity.Period) *Aggregator {
	return &Aggregator{period: period}
}

// Period returns the billing period being aggregated.
func (a *Aggregator) Period() entity.Period { return a.period }

// Add appends the summary of a successfully read source.
func (a *Aggregator) Add(summary entity.SourceSummary) {
	a.sources = append(a.sources, summary)
}

// AddFailure records a source that contributed nothing. The source still
// gets a zero row so the report accounts for every input.
func (a *Aggregator) AddFailure(source, stage string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	a.sources = append(a.sources, entity.SourceSummary{Source: source, Error: msg})
	a.errors = append(a.errors, entity.SourceError{Source: source, Stage: stage, Message: msg})
}

// Sources returns the per-source summaries in the order they were added.
func (a *Aggregator) Sources() []entity.SourceSummary {
	return append([]entity.SourceSummary(nil), a.sources...)
}

// Errors returns the per-source failures in the order they were recorded.
func (a *Aggregator) Errors() []entity.SourceError {
	return append([]entity.SourceError(nil), a.errors...)
}

// Summarize computes the global summary of everything added so far.
func (a *Aggregator) Summarize() entity.GlobalSummary {
	return Summarize(a.period.DaysInMonth(), a.sources)
}

// SummarizeSource turns the tally of one source into its summary.
func SummarizeSource(source string, t Tally) entity.SourceSummary {
	return entity.SourceSummary{
		Source:         source,
		PerSourceMax:   t.Histogram.Max(),
		EntityCount:    t.EntityCount,
		SkippedRecords: t.Skipped,
		Histogram:      t.Histogram,
	}
}

// Summarize merges the histograms of all summaries. The result does not
// depend on the order of summaries. MaxDays lists every day tied at the
// maximum, restricted to the first daysInMonth days, and is empty when no
// usage was recorded.
func Summarize(daysInMonth int, summaries []entity.SourceSummary) entity.GlobalSummary {
	if daysInMonth <= 0 || daysInMonth > entity.HistogramDays {
		daysInMonth = entity.HistogramDays
	}

	var g entity.GlobalSummary
	for _, s := range summaries {
		g.TotalHistogram = g.TotalHistogram.Merge(s.Histogram)
		g.TotalEntityCount += s.EntityCount
		g.SourceCount++
		if s.Failed() {
			g.FailedSources++
		}
	}

	g.TotalMax = g.TotalHistogram.Max()
	g.MaxDays = []int{}
	if g.TotalMax > 0 {
		for d := 1; d <= daysInMonth; d++ {
			if g.TotalHistogram[d-1] == g.TotalMax {
				g.MaxDays = append(g.MaxDays, d)
			}
		}
	}
	return g
}

// FailureStage extracts the stage name of an archive error, or fallback.
func FailureStage(err error, fallback string) string {
	var archiveErr *ArchiveAccessError
	if errors.As(err, &archiveErr) && archiveErr.Stage != "" {
		return archiveErr.Stage
	}
	return fallback
}
