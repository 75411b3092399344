package feed

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/umputun/synfeed/pkg/datetime"
	"github.com/umputun/synfeed/pkg/markup"
)

// scope is the container element being extracted, it knows how to report missing fields
type scope struct {
	dialect Dialect
	el      *etree.Element
}

// opt returns the child value, nil when absent or empty
func (s scope) opt(n markup.Name) *string {
	v, ok := markup.ChildValue(s.el, n)
	if !ok {
		return nil
	}
	return &v
}

// text returns the child value, empty when absent
func (s scope) text(n markup.Name) string {
	v, _ := markup.ChildValue(s.el, n)
	return v
}

// req returns the child value or a RequiredElementError
func (s scope) req(n markup.Name) (string, error) {
	v, ok := markup.ChildValue(s.el, n)
	if !ok {
		return "", s.missing(n)
	}
	return v, nil
}

// list returns values of all children named n, each of them must be non-empty
func (s scope) list(n markup.Name) ([]string, error) {
	var res []string
	for _, c := range markup.Children(s.el, n) {
		v := markup.Value(c)
		if v == "" {
			return nil, s.missing(n)
		}
		res = append(res, v)
	}
	return res, nil
}

func (s scope) child(n markup.Name) *etree.Element {
	return markup.Child(s.el, n)
}

func (s scope) sub(n markup.Name) (scope, bool) {
	c := markup.Child(s.el, n)
	return scope{dialect: s.dialect, el: c}, c != nil
}

func (s scope) missing(n markup.Name) error {
	parent := ""
	if s.el != nil {
		parent = s.el.Tag
	}
	return &RequiredElementError{Dialect: s.dialect, Parent: parent, Element: n.String()}
}

func attrPtr(el *etree.Element, n markup.Name) *string {
	v, ok := markup.Attr(el, n)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	return &v
}

func attrValue(el *etree.Element, n markup.Name) string {
	v, _ := markup.Attr(el, n)
	return strings.TrimSpace(v)
}

func parseInt(s *string) *int {
	if s == nil {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &v
}

func parseInt64(s *string) *int64 {
	if s == nil {
		return nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(*s), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseBool accepts true and false only, in any case
func parseBool(s *string) *bool {
	if s == nil {
		return nil
	}
	var v bool
	switch strings.ToLower(strings.TrimSpace(*s)) {
	case "true":
		v = true
	case "false":
		v = false
	default:
		return nil
	}
	return &v
}

func parseDate(dates *datetime.Parser, s *string) *datetime.Instant {
	if s == nil {
		return nil
	}
	res := dates.Parse(*s)
	return &res
}

// firstString returns the first non-nil value
func firstString(vals ...*string) *string {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstInstant(vals ...*datetime.Instant) *datetime.Instant {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

var dcNames = struct {
	title, creator, subject, description, publisher markup.Name
	contributor, date, typ, format, identifier      markup.Name
	source, language, relation, coverage, rights    markup.Name
}{
	title:       markup.NS("dc", "title"),
	creator:     markup.NS("dc", "creator"),
	subject:     markup.NS("dc", "subject"),
	description: markup.NS("dc", "description"),
	publisher:   markup.NS("dc", "publisher"),
	contributor: markup.NS("dc", "contributor"),
	date:        markup.NS("dc", "date"),
	typ:         markup.NS("dc", "type"),
	format:      markup.NS("dc", "format"),
	identifier:  markup.NS("dc", "identifier"),
	source:      markup.NS("dc", "source"),
	language:    markup.NS("dc", "language"),
	relation:    markup.NS("dc", "relation"),
	coverage:    markup.NS("dc", "coverage"),
	rights:      markup.NS("dc", "rights"),
}

// extractDublinCore reads dc:* children, empty subjects are skipped
func extractDublinCore(s scope, dates *datetime.Parser) DublinCore {
	res := DublinCore{
		Title:       s.opt(dcNames.title),
		Creator:     s.opt(dcNames.creator),
		Description: s.opt(dcNames.description),
		Publisher:   s.opt(dcNames.publisher),
		Contributor: s.opt(dcNames.contributor),
		Date:        parseDate(dates, s.opt(dcNames.date)),
		Type:        s.opt(dcNames.typ),
		Format:      s.opt(dcNames.format),
		Identifier:  s.opt(dcNames.identifier),
		Source:      s.opt(dcNames.source),
		Language:    s.opt(dcNames.language),
		Relation:    s.opt(dcNames.relation),
		Coverage:    s.opt(dcNames.coverage),
		Rights:      s.opt(dcNames.rights),
	}
	for _, c := range markup.Children(s.el, dcNames.subject) {
		if v := markup.Value(c); v != "" {
			res.Subject = append(res.Subject, v)
		}
	}
	return res
}

var syNames = struct{ period, frequency, base markup.Name }{
	period:    markup.NS("sy", "updatePeriod"),
	frequency: markup.NS("sy", "updateFrequency"),
	base:      markup.NS("sy", "updateBase"),
}

func extractSyndication(s scope) Syndication {
	return Syndication{
		UpdatePeriod:    s.opt(syNames.period),
		UpdateFrequency: parseInt(s.opt(syNames.frequency)),
		UpdateBase:      s.opt(syNames.base),
	}
}

var itunesNames = struct {
	author, block, category, image, explicit, complete markup.Name
	newFeedURL, owner, name, email, subtitle, summary  markup.Name
	typ, duration, closedCaptioned, order              markup.Name
	episode, season, episodeType                       markup.Name
	text, href                                         markup.Name
}{
	author:          markup.NS("itunes", "author"),
	block:           markup.NS("itunes", "block"),
	category:        markup.NS("itunes", "category"),
	image:           markup.NS("itunes", "image"),
	explicit:        markup.NS("itunes", "explicit"),
	complete:        markup.NS("itunes", "complete"),
	newFeedURL:      markup.NS("itunes", "new-feed-url"),
	owner:           markup.NS("itunes", "owner"),
	name:            markup.NS("itunes", "name"),
	email:           markup.NS("itunes", "email"),
	subtitle:        markup.NS("itunes", "subtitle"),
	summary:         markup.NS("itunes", "summary"),
	typ:             markup.NS("itunes", "type"),
	duration:        markup.NS("itunes", "duration"),
	closedCaptioned: markup.NS("itunes", "isClosedCaptioned"),
	order:           markup.NS("itunes", "order"),
	episode:         markup.NS("itunes", "episode"),
	season:          markup.NS("itunes", "season"),
	episodeType:     markup.NS("itunes", "episodeType"),
	text:            markup.N("text"),
	href:            markup.N("href"),
}

// hasITunes reports whether el has any itunes:* child
func hasITunes(el *etree.Element) bool {
	if el == nil {
		return false
	}
	for _, c := range el.ChildElements() {
		if strings.EqualFold(c.Space, "itunes") {
			return true
		}
	}
	return false
}

// extractITunesChannel returns nil when the channel carries no itunes elements
func extractITunesChannel(s scope) *ITunesChannel {
	if !hasITunes(s.el) {
		return nil
	}
	res := &ITunesChannel{
		Author:     s.opt(itunesNames.author),
		Block:      isYes(s.text(itunesNames.block)),
		Categories: extractITunesCategories(s.el),
		Image:      itunesImage(s),
		Explicit:   isExplicit(s.text(itunesNames.explicit)),
		Complete:   isYes(s.text(itunesNames.complete)),
		Subtitle:   s.opt(itunesNames.subtitle),
		Summary:    s.opt(itunesNames.summary),
		Type:       s.opt(itunesNames.typ),
	}
	if u := s.opt(itunesNames.newFeedURL); u != nil {
		if parsed, err := url.Parse(*u); err == nil && parsed.IsAbs() {
			res.NewFeedURL = u
		}
	}
	if owner, ok := s.sub(itunesNames.owner); ok {
		res.Owner = &ITunesOwner{Name: owner.opt(itunesNames.name), Email: owner.opt(itunesNames.email)}
	}
	return res
}

func extractITunesCategories(el *etree.Element) []ITunesCategory {
	var res []ITunesCategory
	for _, c := range markup.Children(el, itunesNames.category) {
		res = append(res, ITunesCategory{
			Text:          attrValue(c, itunesNames.text),
			Subcategories: extractITunesCategories(c),
		})
	}
	return res
}

// extractITunesItem returns nil when the item carries no itunes elements
func extractITunesItem(s scope) *ITunesItem {
	if !hasITunes(s.el) {
		return nil
	}
	return &ITunesItem{
		Author:            s.opt(itunesNames.author),
		Block:             isYes(s.text(itunesNames.block)),
		Image:             itunesImage(s),
		Duration:          parseDuration(s.text(itunesNames.duration)),
		Explicit:          isExplicit(s.text(itunesNames.explicit)),
		IsClosedCaptioned: isYes(s.text(itunesNames.closedCaptioned)),
		Order:             parseInt(s.opt(itunesNames.order)),
		Subtitle:          s.opt(itunesNames.subtitle),
		Summary:           s.opt(itunesNames.summary),
		Episode:           parseInt(s.opt(itunesNames.episode)),
		Season:            parseInt(s.opt(itunesNames.season)),
		EpisodeType:       s.opt(itunesNames.episodeType),
	}
}

// itunesImage takes the href attribute, falling back to the element text some feeds use
func itunesImage(s scope) *string {
	img := s.child(itunesNames.image)
	if img == nil {
		return nil
	}
	if href := attrPtr(img, itunesNames.href); href != nil && *href != "" {
		return href
	}
	if v := markup.Value(img); v != "" {
		return &v
	}
	return nil
}

// parseDuration accepts seconds, m:s and h:m:s
func parseDuration(s string) *time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return nil
	}
	var total time.Duration
	for _, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || v < 0 {
			return nil
		}
		total = total*60 + time.Duration(v)
	}
	res := total * time.Second
	return &res
}

func isYes(s string) bool { return strings.EqualFold(strings.TrimSpace(s), "yes") }

func isExplicit(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "explicit", "true":
		return true
	default:
		return false
	}
}
