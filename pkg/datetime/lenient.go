package datetime

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// tokenKind is the shape-derived role of a date token
type tokenKind int

const (
	kindUnknown tokenKind = iota
	kindDayOfWeek
	kindDay
	kindMonth
	kindYear
	kindDate
	kindTime
	kindOffset
	kindTimeZone
)

// canonical buffer layout: "ddd, dd MMM yyyy HH:mm:ss +hh:mm"
const (
	bufLen    = 32
	posDay    = 5
	posMonth  = 8
	posYear   = 12
	posTime   = 17
	posOffset = 26
)

// knownZones maps zone abbreviations to fixed offsets
var knownZones = map[string]string{
	"CST": "-06:00",
	"EDT": "-04:00",
	"EST": "-05:00",
	"GMT": "+00:00",
	"MDT": "-06:00",
	"MST": "-07:00",
	"PDT": "-07:00",
	"PST": "-08:00",
	"UT":  "+00:00",
	"UTC": "+00:00",
}

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// dateLayouts are tried for a single 10-character date token
var dateLayouts = []string{"2006-01-02", "2006/01/02", "02.01.2006", "01/02/2006"}

// Lenient reconstructs a malformed RFC 822 date into a fixed-width buffer and parses that.
// Tokens are classified by shape, an unclassifiable token stops tokenizing.
func Lenient(s string) (time.Time, bool) {
	b := newBuffer()
	suggested := kindUnknown
	for _, field := range strings.Fields(s) {
		tok := []rune(field)
		suggested++
		kind := classify(tok, suggested, b.hasDay)
		if kind == kindUnknown {
			break
		}
		suggested = kind
		if !b.place(tok, kind) {
			return time.Time{}, false
		}
	}
	return b.assemble()
}

// classify guesses a token's role from its shape, suggested is the role expected at this position
func classify(tok []rune, suggested tokenKind, hasDay bool) tokenKind {
	switch c := tok[0]; {
	case isDigit(c):
		switch n := len(tok); {
		case n <= 2:
			if suggested == kindYear && hasDay {
				return kindYear
			}
			return kindDay
		case n == 4:
			return kindYear
		case n == 5 && tok[2] == ':':
			return kindTime
		case n == 8:
			return kindTime
		case n == 10:
			return kindDate
		}
		return suggested
	case isLetter(c):
		switch n := len(tok); {
		case n == 2:
			return kindTimeZone
		case n == 3:
			if isUpper3(tok) {
				return kindTimeZone
			}
			if suggested == kindDay {
				return kindMonth
			}
			return suggested
		case n > 3:
			if isUpper3(tok) {
				return kindTimeZone
			}
			if tok[n-1] == ',' {
				return kindDayOfWeek
			}
			return kindMonth
		}
		return suggested
	case c == '+' || c == '-':
		return kindOffset
	}
	return kindUnknown
}

type buffer struct {
	data   []rune
	hasDay bool
}

func newBuffer() *buffer {
	data := make([]rune, bufLen)
	for i := range data {
		data[i] = ' '
	}
	return &buffer{data: data}
}

// put copies src at pos, truncating at the buffer end
func (b *buffer) put(pos int, src []rune) {
	copy(b.data[pos:], src)
}

// place writes a classified token into its slot, false means the whole date is unusable
func (b *buffer) place(tok []rune, kind tokenKind) bool {
	switch kind {
	case kindDayOfWeek:
		if len(tok) >= 3 {
			b.put(0, tok[:3])
			b.data[3] = ','
		}
	case kindDay:
		if len(tok) < 2 {
			b.put(posDay, []rune{'0', tok[0]})
		} else {
			b.put(posDay, tok[:2])
		}
		b.hasDay = true
	case kindMonth:
		b.put(posMonth, tok[:min(3, len(tok))])
	case kindYear:
		b.put(posYear, tok[:min(4, len(tok))])
	case kindDate:
		t, ok := parseDateToken(string(tok))
		if !ok {
			return false
		}
		b.put(0, []rune(t.Format("Mon, 02 Jan 2006 15:04:05 -07:00")))
		b.hasDay = true
	case kindTime:
		if len(tok) == 5 {
			b.put(posTime, append(append([]rune{}, tok...), ':', '0', '0'))
		} else {
			b.put(posTime, tok[:min(8, len(tok))])
		}
	case kindOffset:
		b.placeOffset(tok)
	case kindTimeZone:
		zone := strings.ToUpper(string(tok[:min(3, len(tok))]))
		if offset, ok := knownZones[zone]; ok {
			b.put(posOffset, []rune(offset))
		}
	}
	return true
}

// placeOffset normalizes +hh, +hhmm and +hh:mm into the +hh:mm slot
func (b *buffer) placeOffset(tok []rune) {
	switch len(tok) {
	case 3:
		b.put(posOffset, append(append([]rune{}, tok...), ':', '0', '0'))
	case 5, 6:
		b.put(posOffset, tok[:3])
		b.data[posOffset+3] = ':'
		b.put(posOffset+4, tok[len(tok)-2:])
	}
}

// assemble reads the fixed-width fields back and builds a UTC time
func (b *buffer) assemble() (time.Time, bool) {
	field := func(from, to int) string { return strings.TrimSpace(string(b.data[from:to])) }

	day, err := strconv.Atoi(field(posDay, posDay+2))
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	month, ok := months[strings.ToLower(field(posMonth, posMonth+3))]
	if !ok {
		return time.Time{}, false
	}

	year, ok := parseYear(field(posYear, posYear+4))
	if !ok {
		return time.Time{}, false
	}

	hour, minute, sec, ok := parseClock(field(posTime, posTime+8))
	if !ok {
		return time.Time{}, false
	}

	offset, ok := parseOffset(field(posOffset, bufLen))
	if !ok {
		return time.Time{}, false
	}

	t := time.Date(year, month, day, hour, minute, sec, 0, time.FixedZone("", offset))
	if t.Day() != day { // e.g. 31 Feb rolled over
		return time.Time{}, false
	}
	return t.UTC(), true
}

func parseDateToken(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseYear accepts four digits or two digits with the same pivot as the "06" layout
func parseYear(s string) (int, bool) {
	if len(s) != 2 && len(s) != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	if len(s) == 2 {
		if year >= 69 {
			return 1900 + year, true
		}
		return 2000 + year, true
	}
	return year, true
}

// parseClock reads HH:mm:ss, a blank clock means midnight
func parseClock(s string) (hour, minute, sec int, ok bool) {
	if s == "" {
		return 0, 0, 0, true
	}
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return 0, 0, 0, false
	}
	return t.Hour(), t.Minute(), t.Second(), true
}

// parseOffset reads +hh:mm into seconds east of UTC, a blank zone means UTC
func parseOffset(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	if len(s) != 6 || (s[0] != '+' && s[0] != '-') || s[3] != ':' {
		return 0, false
	}
	hh, err1 := strconv.Atoi(s[1:3])
	mm, err2 := strconv.Atoi(s[4:6])
	if err1 != nil || err2 != nil || mm > 59 {
		return 0, false
	}
	offset := hh*3600 + mm*60
	if s[0] == '-' {
		offset = -offset
	}
	return offset, true
}

func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }

func isUpper3(tok []rune) bool {
	return len(tok) >= 3 && unicode.IsUpper(tok[0]) && unicode.IsUpper(tok[1]) && unicode.IsUpper(tok[2]) &&
		isLetter(tok[0]) && isLetter(tok[1]) && isLetter(tok[2])
}
