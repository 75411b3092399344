package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// Generator renders canonical feeds back to xml
type Generator struct {
	selfURL string
	now     func() time.Time
}

// Subscription is one OPML outline
type Subscription struct {
	Title   string
	XMLURL  string
	HTMLURL string
}

// NewGenerator creates a new feed generator, selfURL goes into the atom self link
func NewGenerator(selfURL string) *Generator {
	return &Generator{selfURL: strings.TrimRight(selfURL, "/"), now: time.Now}
}

// GenerateRSS renders a feed of any dialect as RSS 2.0
func (g *Generator) GenerateRSS(f *Feed) (string, error) {
	if f == nil {
		return "", fmt.Errorf("no feed to render")
	}

	ch := &rssDocChannel{
		Title:       f.Title,
		Link:        f.Link,
		Description: deref(f.Description),
		Language:    deref(f.Language),
		Copyright:   deref(f.Copyright),
		Generator:   "synfeed",
		Items:       make([]*rssDocItem, 0, len(f.Items)),
	}
	if ch.Description == "" {
		ch.Description = f.Title
	}
	if g.selfURL != "" {
		ch.AtomLink = &rssAtomLink{Href: g.selfURL, Rel: "self", Type: "application/rss+xml"}
	}
	if f.ImageURL != nil {
		ch.Image = &rssDocImage{URL: *f.ImageURL, Title: f.Title, Link: f.Link}
	}
	ch.LastBuildDate = g.now().UTC().Format(time.RFC1123Z)
	if f.LastUpdated != nil && f.LastUpdated.Time != nil {
		ch.LastBuildDate = f.LastUpdated.Time.Format(time.RFC1123Z)
	}

	for i := range f.Items {
		ch.Items = append(ch.Items, toRSSDocItem(&f.Items[i]))
	}

	output, err := xml.MarshalIndent(&rssDocument{Version: "2.0", Atom: "http://www.w3.org/2005/Atom", Channel: ch}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

func toRSSDocItem(it *Item) *rssDocItem {
	res := &rssDocItem{
		Title:       it.Title,
		Link:        it.Link,
		Description: deref(firstString(it.Content, it.Description)),
		Author:      deref(it.Author),
		Categories:  it.Categories,
	}
	if it.ID != "" {
		res.GUID = &rssDocGUID{Value: it.ID}
		if it.ID != it.Link {
			res.GUID.IsPermaLink = "false"
		}
	}
	if it.Published != nil {
		res.PubDate = it.Published.Raw
		if it.Published.Time != nil {
			res.PubDate = it.Published.Time.Format(time.RFC1123Z)
		}
	}
	res.Enclosure = itemEnclosure(it.SpecificItem)
	return res
}

// itemEnclosure carries an rss enclosure or an atom enclosure link
func itemEnclosure(ri *RawItem) *rssDocEnclosure {
	switch {
	case ri == nil:
		return nil
	case ri.RSS != nil && ri.RSS.Enclosure != nil:
		e := ri.RSS.Enclosure
		res := &rssDocEnclosure{URL: e.URL, Type: e.Type}
		if e.Length != nil {
			res.Length = *e.Length
		}
		return res
	case ri.Atom != nil:
		for _, l := range ri.Atom.Links {
			if l.Rel == nil || !strings.EqualFold(*l.Rel, "enclosure") {
				continue
			}
			res := &rssDocEnclosure{URL: l.Href, Type: deref(l.Type)}
			if l.Length != nil {
				res.Length = *l.Length
			}
			return res
		}
	}
	return nil
}

// GenerateOPML creates an OPML subscription list
func (g *Generator) GenerateOPML(title string, subs []Subscription) (string, error) {
	type outline struct {
		XMLName xml.Name `xml:"outline"`
		Text    string   `xml:"text,attr"`
		Title   string   `xml:"title,attr"`
		Type    string   `xml:"type,attr"`
		XMLUrl  string   `xml:"xmlUrl,attr"`
		HTMLUrl string   `xml:"htmlUrl,attr,omitempty"`
	}

	type body struct {
		XMLName  xml.Name  `xml:"body"`
		Outlines []outline `xml:"outline"`
	}

	type head struct {
		XMLName     xml.Name `xml:"head"`
		Title       string   `xml:"title"`
		DateCreated string   `xml:"dateCreated"`
	}

	type opml struct {
		XMLName xml.Name `xml:"opml"`
		Version string   `xml:"version,attr"`
		Head    head     `xml:"head"`
		Body    body     `xml:"body"`
	}

	outlines := make([]outline, 0, len(subs))
	for _, s := range subs {
		if s.XMLURL == "" {
			continue
		}
		outlines = append(outlines, outline{Text: s.Title, Title: s.Title, Type: "rss", XMLUrl: s.XMLURL, HTMLUrl: s.HTMLURL})
	}

	doc := opml{
		Version: "2.0",
		Head:    head{Title: title, DateCreated: g.now().UTC().Format(time.RFC1123Z)},
		Body:    body{Outlines: outlines},
	}
	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal OPML: %w", err)
	}
	return xml.Header + string(output), nil
}
