package params

import (
	"regexp"
	"strings"
	"time"
)

// Accepted shapes: a bare date, or a date and clock time separated by "T" or
// a single space, with optional fractional seconds and an optional "Z" or
// ±HH:MM offset.
var (
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[T ](\d{2}:\d{2}:\d{2}(?:\.\d+)?)(Z|[+-]\d{2}:\d{2})?$`)
)

const (
	dateLayout          = "2006-01-02"
	localDateTimeLayout = "2006-01-02T15:04:05"
	zonedDateTimeLayout = "2006-01-02T15:04:05Z07:00"

	dateTimeFormatHint = `expected a date or date-time such as "2025-01-01", "2025-01-01T15:30:00" or "2025-01-01T15:30:00Z"`
	dateFormatHint     = `expected a date such as "2025-01-01"`
)

// NormalizeDateTime rewrites any accepted date/time shape into the single
// form the upstream API takes: "YYYY-MM-DDTHH:MM:SS[.fff]Z" or, when the
// caller already sent an explicit UTC offset, "...+00:00".
//
// A bare date becomes midnight UTC. A time without an offset is labelled UTC
// as-is; no conversion takes place. A non-UTC offset is removed by
// stripOffset.
func NormalizeDateTime(field string, raw any) (v string, ok bool, err error) {
	raw = normalizeAbsent(raw)
	if raw == nil {
		return "", false, nil
	}
	s, isString := raw.(string)
	if !isString {
		return "", false, fail(TypeMismatch, field, raw, dateTimeFormatHint)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false, fail(EmptyValue, field, raw, "cannot be empty; "+dateTimeFormatHint)
	}

	if datePattern.MatchString(s) {
		if _, perr := time.Parse(dateLayout, s); perr != nil {
			return "", false, fail(FormatViolation, field, raw, "not a real calendar date; "+dateTimeFormatHint)
		}
		return s + "T00:00:00Z", true, nil
	}

	m := dateTimePattern.FindStringSubmatch(s)
	if m == nil {
		return "", false, fail(FormatViolation, field, raw, dateTimeFormatHint)
	}
	local := m[1] + "T" + m[2]
	offset := m[3]

	layout := localDateTimeLayout
	if offset != "" {
		layout = zonedDateTimeLayout
	}
	if _, perr := time.Parse(layout, local+offset); perr != nil {
		return "", false, fail(FormatViolation, field, raw, "not a real calendar date/time; "+dateTimeFormatHint)
	}

	switch offset {
	case "Z", "+00:00":
		return local + offset, true, nil
	case "":
		return local + "Z", true, nil
	default:
		return stripOffset(local, offset), true, nil
	}
}

// stripOffset drops a non-UTC offset and labels the local clock time as UTC.
// This changes the instant the value denotes (10:00+02:00 becomes 10:00Z
// rather than 08:00Z). The upstream API rejects arbitrary offsets and
// existing callers depend on the literal clock time surviving, so the rule is
// kept in this one place.
// TODO: convert to UTC with time.Time.UTC once callers are audited for the
// clock-time assumption.
func stripOffset(local, _ string) string {
	return local + "Z"
}

// NormalizeDate accepts the same shapes as NormalizeDateTime and returns the
// calendar date portion, for endpoints whose filters are date-only.
func NormalizeDate(field string, raw any) (v string, ok bool, err error) {
	raw = normalizeAbsent(raw)
	if raw == nil {
		return "", false, nil
	}
	s, isString := raw.(string)
	if !isString {
		return "", false, fail(TypeMismatch, field, raw, dateFormatHint)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false, fail(EmptyValue, field, raw, "cannot be empty; "+dateFormatHint)
	}
	if !datePattern.MatchString(s) && !dateTimePattern.MatchString(s) {
		return "", false, fail(FormatViolation, field, raw, dateFormatHint)
	}
	dt, _, err := NormalizeDateTime(field, s)
	if err != nil {
		return "", false, fail(FormatViolation, field, raw, "not a real calendar date; "+dateFormatHint)
	}
	return dt[:len(dateLayout)], true, nil
}
