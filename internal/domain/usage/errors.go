package usage

import (
	"fmt"
	"time"

	"github.com/diillson/billing-usage-report-go/internal/domain/entity"
)

// MalformedRecordError reports a usage record that could not be parsed.
type MalformedRecordError struct {
	EntityID string
	Field    string
	Raw      string
	Err      error
}

func (e *MalformedRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed record %q: %s %q: %v", e.EntityID, e.Field, e.Raw, e.Err)
	}
	return fmt.Sprintf("malformed record %q: %s %q", e.EntityID, e.Field, e.Raw)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// OutOfRangeDayError reports a record that starts or ends outside the
// processed billing month.
type OutOfRangeDayError struct {
	EntityID string
	Date     time.Time
	Period   entity.Period
}

func (e *OutOfRangeDayError) Error() string {
	return fmt.Sprintf("record %q: %s is outside of %s", e.EntityID, e.Date.Format("2006-01-02"), e.Period.Label())
}

// ArchiveAccessError reports a failure opening one of the nested containers
// of a source. Stage names the step that failed.
type ArchiveAccessError struct {
	Outer  string
	Inner  string
	Target string
	Stage  string
	Err    error
}

func (e *ArchiveAccessError) Error() string {
	return fmt.Sprintf("error extracting %s or %s from %s (%s): %v", e.Inner, e.Target, e.Outer, e.Stage, e.Err)
}

func (e *ArchiveAccessError) Unwrap() error { return e.Err }
