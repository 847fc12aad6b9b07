package usage

import (
	"errors"
	"io"
	"time"

	"github.com/diillson/billing-usage-report-go/internal/domain/entity"
)

// RecordIterator yields usage records one at a time and returns io.EOF once
// the stream is exhausted.
type RecordIterator interface {
	Next() (entity.UsageRecord, error)
}

// Tally is the result of folding one source's records into a histogram.
type Tally struct {
	Histogram    entity.DayHistogram
	EntityCount  int
	Skipped      int
	RecordErrors []error
}

// HistogramBuilder folds usage records into a day histogram of one billing
// month. Records that start or end outside that month are rejected with an
// OutOfRangeDayError and leave the histogram untouched.
type HistogramBuilder struct {
	Period entity.Period

	tally Tally
}

// NewHistogramBuilder creates a builder for the given billing month.
func NewHistogramBuilder(period entity.Period) *HistogramBuilder {
	return &HistogramBuilder{Period: period}
}

// Add credits one record. A rejected record is not counted as an entity.
func (b *HistogramBuilder) Add(rec entity.UsageRecord) error {
	if rec.PeriodEnd.Before(rec.PeriodStart) {
		return &MalformedRecordError{
			EntityID: rec.EntityID,
			Field:    "range",
			Raw:      rec.PeriodStart.String(),
			Err:      errors.New("end before start"),
		}
	}
	for _, t := range []time.Time{rec.PeriodStart, rec.PeriodEnd} {
		if !b.Period.Contains(t) {
			return &OutOfRangeDayError{EntityID: rec.EntityID, Date: t, Period: b.Period}
		}
	}

	b.tally.Histogram.Credit(rec.StartDay(), rec.EndDay())
	b.tally.EntityCount++
	return nil
}

// Build drains it, skipping and recording malformed or out-of-range records.
// Any other error stops the fold and is returned.
func (b *HistogramBuilder) Build(it RecordIterator) (Tally, error) {
	for {
		rec, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err == nil {
			err = b.Add(rec)
		}
		if err != nil {
			if !IsRecordError(err) {
				return b.Tally(), err
			}
			b.tally.Skipped++
			b.tally.RecordErrors = append(b.tally.RecordErrors, err)
		}
	}
	return b.Tally(), nil
}

// Tally returns a copy of the current state.
func (b *HistogramBuilder) Tally() Tally {
	t := b.tally
	t.RecordErrors = append([]error(nil), b.tally.RecordErrors...)
	return t
}

// IsRecordError reports whether err concerns a single record rather than the
// whole stream.
func IsRecordError(err error) bool {
	var malformed *MalformedRecordError
	var outOfRange *OutOfRangeDayError
	return errors.As(err, &malformed) || errors.As(err, &outOfRange)
}
