package archive

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/diillson/billing-usage-report-go/internal/domain/entity"
	"github.com/diillson/billing-usage-report-go/internal/domain/usage"
)

// RecordReader yields UsageRecords from a billing CSV.
type RecordReader struct {
	reader    *csv.Reader
	closer    io.Closer
	entityIdx int
	fromIdx   int
	toIdx     int
	line      int
}

// NewRecordReader skips the preamble, reads the header and resolves the
// columns. When the header names none of the configured columns the first
// three columns are used in order.
func NewRecordReader(r io.ReadCloser, opts entity.RecordLayout) (*RecordReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	rr := &RecordReader{reader: cr, closer: r, entityIdx: 0, fromIdx: 1, toIdx: 2}

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := cr.Read(); err != nil {
			return nil, fmt.Errorf("error skipping preamble line %d: %w", i+1, err)
		}
		rr.line++
	}

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}
	rr.line++

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[normalizeColumn(name)] = i
	}

	wanted := []string{opts.EntityColumn, opts.FromColumn, opts.ToColumn}
	var found, missing []string
	idx := make([]int, len(wanted))
	for i, name := range wanted {
		pos, ok := columns[normalizeColumn(name)]
		if !ok {
			missing = append(missing, name)
			continue
		}
		found = append(found, name)
		idx[i] = pos
	}

	switch {
	case len(missing) == 0:
		rr.entityIdx, rr.fromIdx, rr.toIdx = idx[0], idx[1], idx[2]
	case len(found) > 0:
		return nil, fmt.Errorf("header is missing columns %s", strings.Join(missing, ", "))
	}

	return rr, nil
}

// Next returns the next record. Rows that cannot be parsed are returned as
// MalformedRecordError so callers can skip them; io.EOF ends the stream.
func (rr *RecordReader) Next() (entity.UsageRecord, error) {
	row, err := rr.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return entity.UsageRecord{}, io.EOF
		}
		return entity.UsageRecord{}, fmt.Errorf("error reading line %d: %w", rr.line+1, err)
	}
	rr.line++

	need := max(rr.entityIdx, rr.fromIdx, rr.toIdx)
	if len(row) <= need {
		return entity.UsageRecord{}, &usage.MalformedRecordError{
			Field: "row",
			Raw:   strings.Join(row, ","),
			Err:   fmt.Errorf("line %d has %d columns, need %d", rr.line, len(row), need+1),
		}
	}

	return usage.ParseInterval(row[rr.entityIdx], row[rr.fromIdx], row[rr.toIdx])
}

// Close closes the underlying file.
func (rr *RecordReader) Close() error {
	return rr.closer.Close()
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
}
