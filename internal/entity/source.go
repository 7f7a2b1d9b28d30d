package entity

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"labbook/internal/faults"
	"labbook/internal/gemd"
)

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// isoLayouts are tried in order. Offsets are optional and time.Parse accepts
// fractional seconds after the seconds field.
var isoLayouts = []struct {
	layout string
	zoned  bool
}{
	{"2006-01-02T15:04:05Z07:00", true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02T15:04Z07:00", true},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04:05Z07:00", true},
	{"2006-01-02 15:04:05", false},
	{time.DateOnly, false},
}

// ValidateEmail checks that email has a single "@" followed by a domain
// containing at least one ".".
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return faults.Wrap(faults.ErrValidation, component, "source",
			fmt.Sprintf("invalid email %q: must contain a single \"@\" and at least one \".\" after it", email), nil)
	}
	return nil
}

// ParseISODate parses an ISO-8601 date or date-time and returns it in
// canonical form: seconds precision, microseconds when present, and the
// offset only when one was given.
func ParseISODate(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, candidate := range isoLayouts {
		parsed, err := time.Parse(candidate.layout, value)
		if err != nil {
			continue
		}
		layout := "2006-01-02T15:04:05"
		if parsed.Nanosecond() != 0 {
			layout += ".000000"
		}
		if candidate.zoned {
			layout += "-07:00"
		}
		return parsed.Format(layout), nil
	}
	return "", faults.Wrap(faults.ErrValidation, component, "source", fmt.Sprintf("invalid ISO-8601 date %q", value), nil)
}

func buildSource(email, isoDate string) (*gemd.PerformedSource, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	src := &gemd.PerformedSource{PerformedBy: email}
	if isoDate != "" {
		date, err := ParseISODate(isoDate)
		if err != nil {
			return nil, err
		}
		src.PerformedDate = date
	}
	return src, nil
}

func sourceOf(src *gemd.PerformedSource) (gemd.PerformedSource, bool) {
	if src == nil {
		return gemd.PerformedSource{}, false
	}
	return *src, true
}
