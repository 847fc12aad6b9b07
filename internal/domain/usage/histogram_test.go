package usage

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/billing-usage-report-go/internal/domain/entity"
)

type sliceIterator struct {
	items []iterItem
	pos   int
}

type iterItem struct {
	rec entity.UsageRecord
	err error
}

func (s *sliceIterator) Next() (entity.UsageRecord, error) {
	if s.pos >= len(s.items) {
		return entity.UsageRecord{}, io.EOF
	}
	item := s.items[s.pos]
	s.pos++
	return item.rec, item.err
}

var july = entity.Period{Month: time.July, Year: 2025}

func record(id string, start, end int) entity.UsageRecord {
	return dated(id, july, start, end)
}

// dated builds a record inside p. Days past the month end roll over into the
// next month, as time.Date does.
func dated(id string, p entity.Period, start, end int) entity.UsageRecord {
	return entity.UsageRecord{
		EntityID:    id,
		PeriodStart: time.Date(p.Year, p.Month, start, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(p.Year, p.Month, end, 23, 59, 59, 0, time.UTC),
	}
}

func span(id string, from, to time.Time) entity.UsageRecord {
	return entity.UsageRecord{EntityID: id, PeriodStart: from, PeriodEnd: to}
}

func TestHistogramBuilder_SingleRecordCreditsInclusiveRange(t *testing.T) {
	for s := 1; s <= 31; s++ {
		for e := s; e <= 31; e++ {
			b := NewHistogramBuilder(july)
			require.NoError(t, b.Add(record("vm", s, e)))

			h := b.Tally().Histogram
			for d := 1; d <= 31; d++ {
				want := 0
				if d >= s && d <= e {
					want = 1
				}
				if h[d-1] != want {
					t.Fatalf("interval [%d,%d]: day %d = %d, want %d", s, e, d, h[d-1], want)
				}
			}
		}
	}
}

func TestHistogramBuilder_SameDayCreditsOneBucket(t *testing.T) {
	b := NewHistogramBuilder(july)
	require.NoError(t, b.Add(record("vm", 5, 5)))

	var want entity.DayHistogram
	want[4] = 1
	assert.Equal(t, want, b.Tally().Histogram)
	assert.Equal(t, 1, b.Tally().EntityCount)
}

func TestHistogramBuilder_RejectsDaysPastMonthEnd(t *testing.T) {
	june := entity.Period{Month: time.June, Year: 2025}
	b := NewHistogramBuilder(june)
	err := b.Add(dated("vm-31", june, 29, 31))

	var outOfRange *OutOfRangeDayError
	require.True(t, errors.As(err, &outOfRange))
	assert.Equal(t, time.July, outOfRange.Date.Month())
	assert.Equal(t, 1, outOfRange.Date.Day())
	assert.Equal(t, june, outOfRange.Period)
	assert.Equal(t, entity.DayHistogram{}, b.Tally().Histogram)
	assert.Zero(t, b.Tally().EntityCount)
}

func TestHistogramBuilder_RejectsRecordsOutsideTheMonth(t *testing.T) {
	june := entity.Period{Month: time.June, Year: 2025}
	tests := []struct {
		name string
		rec  entity.UsageRecord
	}{
		{"starts the month before", span("vm-1",
			time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.June, 5, 23, 59, 59, 0, time.UTC))},
		{"ends the month after", span("vm-2",
			time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC))},
		{"other month", dated("vm-3", entity.Period{Month: time.March, Year: 2025}, 10, 12)},
		{"same month other year", dated("vm-4", entity.Period{Month: time.June, Year: 2024}, 10, 12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewHistogramBuilder(june)
			err := b.Add(tt.rec)

			var outOfRange *OutOfRangeDayError
			require.True(t, errors.As(err, &outOfRange), "got %v", err)
			assert.True(t, IsRecordError(err))
			assert.Equal(t, entity.DayHistogram{}, b.Tally().Histogram)
			assert.Zero(t, b.Tally().EntityCount)
		})
	}
}

func TestHistogramBuilder_RejectsEndBeforeStart(t *testing.T) {
	b := NewHistogramBuilder(july)
	err := b.Add(span("vm", time.Date(2025, time.July, 9, 0, 0, 0, 0, time.UTC), time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC)))

	var malformed *MalformedRecordError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "range", malformed.Field)
}

func TestHistogramBuilder_BuildSkipsRecordErrors(t *testing.T) {
	it := &sliceIterator{items: []iterItem{
		{rec: record("vm-1", 10, 12)},
		{err: &MalformedRecordError{EntityID: "vm-2", Field: "from", Raw: "garbage"}},
		{rec: record("vm-3", 12, 32)},
		{rec: record("vm-4", 12, 12)},
	}}

	tally, err := NewHistogramBuilder(july).Build(it)
	require.NoError(t, err)

	assert.Equal(t, 2, tally.EntityCount)
	assert.Equal(t, 2, tally.Skipped)
	assert.Len(t, tally.RecordErrors, 2)
	assert.Equal(t, 1, tally.Histogram[9])
	assert.Equal(t, 2, tally.Histogram[11])
	assert.Equal(t, 2, tally.Histogram.Max())
}

func TestHistogramBuilder_BuildStopsOnStreamError(t *testing.T) {
	boom := errors.New("unexpected EOF in zip entry")
	it := &sliceIterator{items: []iterItem{
		{rec: record("vm-1", 1, 2)},
		{err: boom},
		{rec: record("vm-2", 3, 4)},
	}}

	tally, err := NewHistogramBuilder(july).Build(it)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, tally.EntityCount)
}

func TestHistogramBuilder_Deterministic(t *testing.T) {
	items := []iterItem{{rec: record("a", 1, 3)}, {rec: record("b", 2, 9)}, {rec: record("c", 9, 9)}}

	first, err := NewHistogramBuilder(july).Build(&sliceIterator{items: items})
	require.NoError(t, err)
	second, err := NewHistogramBuilder(july).Build(&sliceIterator{items: items})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
