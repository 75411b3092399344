package feed

import (
	"fmt"
	"strings"
)

// Dialect is one specific syndication format or version
type Dialect int

// enum of supported dialects
const (
	DialectUnknown Dialect = iota
	DialectAtom
	DialectRSS
	DialectRSS091
	DialectRSS092
	DialectRSS10
	DialectRSS20
	DialectMediaRSS
)

var dialectNames = map[Dialect]string{
	DialectUnknown:  "Unknown",
	DialectAtom:     "Atom",
	DialectRSS:      "Rss",
	DialectRSS091:   "Rss_0_91",
	DialectRSS092:   "Rss_0_92",
	DialectRSS10:    "Rss_1_0",
	DialectRSS20:    "Rss_2_0",
	DialectMediaRSS: "MediaRss",
}

func (d Dialect) String() string {
	if s, ok := dialectNames[d]; ok {
		return s
	}
	return fmt.Sprintf("Dialect(%d)", int(d))
}

// MarshalText implements encoding.TextMarshaler
func (d Dialect) MarshalText() ([]byte, error) {
	if _, ok := dialectNames[d]; !ok {
		return nil, fmt.Errorf("invalid dialect %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Dialect) UnmarshalText(text []byte) error {
	v, err := ParseDialect(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDialect converts a dialect name, as returned by String, back to Dialect
func ParseDialect(s string) (Dialect, error) {
	for d, name := range dialectNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return DialectUnknown, fmt.Errorf("unknown dialect %q", s)
}

// IsRSS reports whether d belongs to the rss family sharing the channel/item layout.
// Rss_1_0 is not part of it, its items live outside the channel.
func (d Dialect) IsRSS() bool {
	switch d {
	case DialectRSS, DialectRSS091, DialectRSS092, DialectRSS20, DialectMediaRSS:
		return true
	default:
		return false
	}
}
