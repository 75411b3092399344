package datetime

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/language"
)

// Locale holds localized spellings, full names and abbreviations, for months and weekdays.
// Months are indexed from January, Days from Sunday as in time.Weekday.
type Locale struct {
	Months [12][]string
	Days   [7][]string
}

// Locales maps a base language code (de, sv, ...) to its spellings
type Locales map[string]Locale

// DefaultLocales covers the languages most often seen with localized RFC 822 dates
var DefaultLocales = Locales{
	"de": {
		Months: [12][]string{
			{"januar", "jan", "jänner", "jän"}, {"februar", "feb"}, {"märz", "mär", "maerz", "mrz"}, {"april", "apr"},
			{"mai"}, {"juni", "jun"}, {"juli", "jul"}, {"august", "aug"},
			{"september", "sep", "sept"}, {"oktober", "okt"}, {"november", "nov"}, {"dezember", "dez"},
		},
		Days: [7][]string{
			{"sonntag", "so"}, {"montag", "mo"}, {"dienstag", "di"}, {"mittwoch", "mi"},
			{"donnerstag", "do"}, {"freitag", "fr"}, {"samstag", "sa", "sonnabend"},
		},
	},
	"sv": {
		Months: [12][]string{
			{"januari", "jan"}, {"februari", "feb"}, {"mars", "mar"}, {"april", "apr"},
			{"maj"}, {"juni", "jun"}, {"juli", "jul"}, {"augusti", "aug"},
			{"september", "sep"}, {"oktober", "okt"}, {"november", "nov"}, {"december", "dec"},
		},
		Days: [7][]string{
			{"söndag", "sön", "sö"}, {"måndag", "mån", "må"}, {"tisdag", "tis", "ti"}, {"onsdag", "ons", "on"},
			{"torsdag", "tors", "tor", "to"}, {"fredag", "fre", "fr"}, {"lördag", "lör", "lö"},
		},
	},
	"da": {
		Months: [12][]string{
			{"januar", "jan"}, {"februar", "feb"}, {"marts", "mar"}, {"april", "apr"},
			{"maj"}, {"juni", "jun"}, {"juli", "jul"}, {"august", "aug"},
			{"september", "sep"}, {"oktober", "okt"}, {"november", "nov"}, {"december", "dec"},
		},
		Days: [7][]string{
			{"søndag", "søn"}, {"mandag", "man"}, {"tirsdag", "tir"}, {"onsdag", "ons"},
			{"torsdag", "tor"}, {"fredag", "fre"}, {"lørdag", "lør"},
		},
	},
	"nb": {
		Months: [12][]string{
			{"januar", "jan"}, {"februar", "feb"}, {"mars", "mar"}, {"april", "apr"},
			{"mai"}, {"juni", "jun"}, {"juli", "jul"}, {"august", "aug"},
			{"september", "sep"}, {"oktober", "okt"}, {"november", "nov"}, {"desember", "des"},
		},
		Days: [7][]string{
			{"søndag", "søn"}, {"mandag", "man"}, {"tirsdag", "tir"}, {"onsdag", "ons"},
			{"torsdag", "tor"}, {"fredag", "fre"}, {"lørdag", "lør"},
		},
	},
	"nl": {
		Months: [12][]string{
			{"januari", "jan"}, {"februari", "feb"}, {"maart", "mrt", "mar"}, {"april", "apr"},
			{"mei"}, {"juni", "jun"}, {"juli", "jul"}, {"augustus", "aug"},
			{"september", "sep", "sept"}, {"oktober", "okt"}, {"november", "nov"}, {"december", "dec"},
		},
		Days: [7][]string{
			{"zondag", "zo"}, {"maandag", "ma"}, {"dinsdag", "di"}, {"woensdag", "wo"},
			{"donderdag", "do"}, {"vrijdag", "vr"}, {"zaterdag", "za"},
		},
	},
	"fr": {
		Months: [12][]string{
			{"janvier", "janv", "jan"}, {"février", "févr", "fév", "fevrier", "fevr"}, {"mars"}, {"avril", "avr"},
			{"mai"}, {"juin"}, {"juillet", "juil"}, {"août", "aout"},
			{"septembre", "sept"}, {"octobre", "oct"}, {"novembre", "nov"}, {"décembre", "déc", "decembre"},
		},
		Days: [7][]string{
			{"dimanche", "dim"}, {"lundi", "lun"}, {"mardi", "mar"}, {"mercredi", "mer"},
			{"jeudi", "jeu"}, {"vendredi", "ven"}, {"samedi", "sam"},
		},
	},
	"es": {
		Months: [12][]string{
			{"enero", "ene"}, {"febrero", "feb"}, {"marzo", "mar"}, {"abril", "abr"},
			{"mayo", "may"}, {"junio", "jun"}, {"julio", "jul"}, {"agosto", "ago"},
			{"septiembre", "sep", "sept", "setiembre"}, {"octubre", "oct"}, {"noviembre", "nov"}, {"diciembre", "dic"},
		},
		Days: [7][]string{
			{"domingo", "dom"}, {"lunes", "lun"}, {"martes", "mar"}, {"miércoles", "mié", "mie"},
			{"jueves", "jue"}, {"viernes", "vie"}, {"sábado", "sáb", "sab"},
		},
	},
	"it": {
		Months: [12][]string{
			{"gennaio", "gen"}, {"febbraio", "feb"}, {"marzo", "mar"}, {"aprile", "apr"},
			{"maggio", "mag"}, {"giugno", "giu"}, {"luglio", "lug"}, {"agosto", "ago"},
			{"settembre", "set"}, {"ottobre", "ott"}, {"novembre", "nov"}, {"dicembre", "dic"},
		},
		Days: [7][]string{
			{"domenica", "dom"}, {"lunedì", "lun"}, {"martedì", "mar"}, {"mercoledì", "mer"},
			{"giovedì", "gio"}, {"venerdì", "ven"}, {"sabato", "sab"},
		},
	},
	"pt": {
		Months: [12][]string{
			{"janeiro", "jan"}, {"fevereiro", "fev"}, {"março", "mar"}, {"abril", "abr"},
			{"maio", "mai"}, {"junho", "jun"}, {"julho", "jul"}, {"agosto", "ago"},
			{"setembro", "set"}, {"outubro", "out"}, {"novembro", "nov"}, {"dezembro", "dez"},
		},
		Days: [7][]string{
			{"domingo", "dom"}, {"segunda-feira", "segunda", "seg"}, {"terça-feira", "terça", "ter"},
			{"quarta-feira", "quarta", "qua"}, {"quinta-feira", "quinta", "qui"}, {"sexta-feira", "sexta", "sex"},
			{"sábado", "sáb", "sab"},
		},
	},
}

// Parser resolves dates for one feed language, retrying with localized names when the
// invariant parse fails. The zero value behaves like Parse.
type Parser struct {
	words map[string]string // localized word -> english abbreviation
}

// NewParser makes a Parser for lang using DefaultLocales
func NewParser(lang string) *Parser {
	return NewParserWithLocales(lang, DefaultLocales)
}

// NewParserWithLocales makes a Parser for lang with a custom locale table.
// An empty, malformed or unknown language yields a parser without the locale retry.
func NewParserWithLocales(lang string, locales Locales) *Parser {
	loc, ok := lookupLocale(lang, locales)
	if !ok {
		return &Parser{}
	}
	return &Parser{words: loc.index()}
}

// Localized reports whether the parser has a locale table to retry with
func (p *Parser) Localized() bool {
	return p != nil && len(p.words) > 0
}

// Parse resolves s, falling back to a localized retry when the invariant attempt fails
func (p *Parser) Parse(s string) Instant {
	res := Parse(s)
	if res.Time != nil || !p.Localized() {
		return res
	}
	if t, ok := resolve(p.translate(s)); ok {
		res.Time = &t
	}
	return res
}

// translate replaces localized month and day words with their english abbreviations
func (p *Parser) translate(s string) string {
	var sb strings.Builder
	word := make([]rune, 0, 16)
	flush := func() {
		if len(word) == 0 {
			return
		}
		if en, ok := p.words[strings.ToLower(string(word))]; ok {
			sb.WriteString(en)
		} else {
			sb.WriteString(string(word))
		}
		word = word[:0]
	}
	for _, r := range s {
		if unicode.IsLetter(r) || (r == '-' && len(word) > 0) {
			word = append(word, r)
			continue
		}
		flush()
		sb.WriteRune(r)
	}
	flush()
	return sb.String()
}

// index builds the lookup from localized words, months win over weekdays on conflicts
func (l Locale) index() map[string]string {
	res := map[string]string{}
	for i, names := range l.Days {
		en := time.Weekday(i).String()[:3]
		for _, n := range names {
			res[strings.ToLower(n)] = en
		}
	}
	for i, names := range l.Months {
		en := time.Month(i + 1).String()[:3]
		for _, n := range names {
			res[strings.ToLower(n)] = en
		}
	}
	return res
}

func lookupLocale(lang string, locales Locales) (Locale, bool) {
	lang = strings.TrimSpace(lang)
	if lang == "" || len(locales) == 0 {
		return Locale{}, false
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return Locale{}, false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return Locale{}, false
	}
	loc, ok := locales[base.String()]
	if !ok && base.String() == "no" {
		loc, ok = locales["nb"]
	}
	return loc, ok
}
