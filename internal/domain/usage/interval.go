// Package usage implements the usage accounting core: interval parsing,
// per-source day histograms and the batch aggregation.
package usage

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/diillson/billing-usage-report-go/internal/domain/entity"
)

// Billing exports write dates as "7/31/2025 11:59:59 PM", sometimes with
// mangled separators. Once sanitized the value has no spaces at all.
var dateLayouts = []string{
	"1/2/20063:04:05PM",
	clock24Layout,
	"1/2/2006",
}

const clock24Layout = "1/2/200615:04:05"

// Strips blanks (ASCII and unicode no-break variants), '?' left behind by
// encoding conversions and the dots of "a.m."/"p.m.".
var dateNoiseRegex = regexp.MustCompile(`[\s?.\x{00A0}\x{2009}\x{202F}\x{FFFD}]`)

// SanitizeDate removes stray characters from a raw date value.
func SanitizeDate(raw string) string {
	return strings.ToUpper(dateNoiseRegex.ReplaceAllString(raw, ""))
}

// ParseDate parses a raw billing date after sanitizing it. Some exports
// write a 24-hour clock followed by AM/PM ("7/10/2025 13:00:00 PM"); the
// suffix is then ignored.
func ParseDate(raw string) (time.Time, error) {
	clean := SanitizeDate(raw)
	if clean == "" {
		return time.Time{}, errors.New("empty date")
	}
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, clean)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if bare, ok := trimMeridiem(clean); ok {
		if t, err := time.Parse(clock24Layout, bare); err == nil {
			return t, nil
		}
	}
	return time.Time{}, firstErr
}

func trimMeridiem(s string) (string, bool) {
	for _, suffix := range []string{"AM", "PM"} {
		if bare, ok := strings.CutSuffix(s, suffix); ok {
			return bare, true
		}
	}
	return s, false
}

// ParseInterval builds a UsageRecord from the raw columns of a billing line.
// Only the order of the two dates is checked here; whether they fall in the
// processed month is up to the HistogramBuilder.
func ParseInterval(entityID, rawFrom, rawTo string) (entity.UsageRecord, error) {
	id := strings.TrimSpace(entityID)
	if id == "" {
		return entity.UsageRecord{}, &MalformedRecordError{Field: "entity", Raw: entityID, Err: errors.New("empty entity id")}
	}

	from, err := ParseDate(rawFrom)
	if err != nil {
		return entity.UsageRecord{}, &MalformedRecordError{EntityID: id, Field: "from", Raw: rawFrom, Err: err}
	}
	to, err := ParseDate(rawTo)
	if err != nil {
		return entity.UsageRecord{}, &MalformedRecordError{EntityID: id, Field: "to", Raw: rawTo, Err: err}
	}

	rec := entity.UsageRecord{EntityID: id, PeriodStart: from, PeriodEnd: to}
	if to.Before(from) {
		return entity.UsageRecord{}, &MalformedRecordError{
			EntityID: id,
			Field:    "range",
			Raw:      rawFrom + " -> " + rawTo,
			Err:      errors.New("end before start"),
		}
	}
	return rec, nil
}
