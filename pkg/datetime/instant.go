// Package datetime parses publisher timestamps. Strict RFC 822/RFC 3339 layouts are tried first,
// then a lenient reconstruction that tolerates missing weekdays, two-digit years and named zones,
// then an optional retry with localized month and day names.
package datetime

import (
	"strings"
	"time"
)

// Instant pairs the original date string with its resolved UTC time, if any
type Instant struct {
	Raw  string     `json:"raw" yaml:"raw"`
	Time *time.Time `json:"time,omitempty" yaml:"time,omitempty"`
}

// Resolved reports whether the raw string was turned into a timestamp
func (i Instant) Resolved() bool {
	return i.Time != nil
}

// String returns the resolved time in RFC 3339 or the raw value if unresolved
func (i Instant) String() string {
	if i.Time == nil {
		return i.Raw
	}
	return i.Time.Format(time.RFC3339)
}

// Parse resolves s with the strict layouts and then the lenient reconstruction.
// It never fails, an unresolvable string produces an Instant without Time.
func Parse(s string) Instant {
	res := Instant{Raw: s}
	if t, ok := resolve(s); ok {
		res.Time = &t
	}
	return res
}

func resolve(s string) (time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, false
	}
	if t, ok := Strict(s); ok {
		return t, true
	}
	return Lenient(s)
}

// strictLayouts accept numeric offsets only, named zones are checked separately
var strictLayouts = []string{
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 02 Jan 2006 15:04:05 -07:00",
	"Mon, 2 Jan 2006 15:04:05 -07:00",
	time.RFC822Z,
	"02 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.999999999-0700",
}

// namedZoneLayouts are accepted only when the zone is one of utcNames
var namedZoneLayouts = []string{
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 MST",
	"02 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 MST",
}

// naiveLayouts carry no zone at all and are read as UTC
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var utcNames = map[string]bool{"GMT": true, "UTC": true, "UT": true, "Z": true}

// Strict parses s with standard RFC 822, RFC 1123 and RFC 3339 layouts, result is in UTC
func Strict(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range strictLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	for _, layout := range namedZoneLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		// go keeps unknown abbreviations with a zero offset, let the lenient path resolve them
		if name, _ := t.Zone(); utcNames[strings.ToUpper(name)] {
			return t.UTC(), true
		}
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
