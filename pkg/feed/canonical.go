package feed

import (
	"github.com/umputun/synfeed/pkg/datetime"
)

// Feed is the dialect independent view of a parsed feed
type Feed struct {
	Dialect          Dialect           `json:"dialect"`
	Title            string            `json:"title"`
	Link             string            `json:"link"`
	Description      *string           `json:"description,omitempty"`
	Language         *string           `json:"language,omitempty"`
	Copyright        *string           `json:"copyright,omitempty"`
	ImageURL         *string           `json:"image_url,omitempty"`
	LastUpdated      *datetime.Instant `json:"last_updated,omitempty"`
	Items            []Item            `json:"items"`
	SpecificFeed     *RawFeed          `json:"-"`
	OriginalDocument string            `json:"-"`
}

// Item is the dialect independent view of a feed item or entry
type Item struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Link         string            `json:"link"`
	Description  *string           `json:"description,omitempty"`
	Content      *string           `json:"content,omitempty"`
	Author       *string           `json:"author,omitempty"`
	Categories   []string          `json:"categories,omitempty"`
	Published    *datetime.Instant `json:"published,omitempty"`
	SpecificItem *RawItem          `json:"-"`
}

// ToFeed maps a raw feed onto the canonical shape. It never fails, fields the
// dialect doesn't carry stay nil. Item order is kept.
func ToFeed(raw *RawFeed) *Feed {
	if raw == nil {
		return nil
	}
	f := &Feed{
		Dialect:          raw.Dialect,
		Title:            raw.Title,
		Link:             raw.Link,
		SpecificFeed:     raw,
		OriginalDocument: raw.OriginalDocument,
		Items:            make([]Item, 0, len(raw.Items)),
	}

	switch raw.Dialect {
	case DialectRSS, DialectRSS091, DialectRSS092, DialectRSS20, DialectMediaRSS:
		if ch := raw.RSS; ch != nil {
			f.Description = ch.Description
			f.Language = firstString(ch.Language, ch.DC.Language)
			f.Copyright = firstString(ch.Copyright, ch.DC.Rights)
			f.ImageURL = rssImageURL(ch)
			f.LastUpdated = firstInstant(ch.LastBuildDate, ch.DC.Date)
		}
		for i := range raw.Items {
			f.Items = append(f.Items, rssItem(&raw.Items[i]))
		}
	case DialectRSS10:
		if ch := raw.RDF; ch != nil {
			f.Description = firstString(ch.Description, ch.DC.Description)
			f.Language = ch.DC.Language
			f.Copyright = ch.DC.Rights
			f.LastUpdated = ch.DC.Date
			if ch.Image != nil && ch.Image.URL != "" {
				f.ImageURL = &ch.Image.URL
			}
		}
		for i := range raw.Items {
			f.Items = append(f.Items, rdfItem(&raw.Items[i]))
		}
	case DialectAtom:
		if af := raw.Atom; af != nil {
			f.Description = af.Subtitle
			f.Language = af.Lang
			f.Copyright = af.Rights
			f.ImageURL = firstString(af.Icon, af.Logo)
			updated := af.Updated
			f.LastUpdated = &updated
		}
		for i := range raw.Items {
			f.Items = append(f.Items, atomItem(&raw.Items[i]))
		}
	}
	return f
}

func rssImageURL(ch *RSSChannel) *string {
	if ch.Image != nil && ch.Image.URL != "" {
		return &ch.Image.URL
	}
	if ch.ITunes != nil {
		return ch.ITunes.Image
	}
	return nil
}

func rssItem(ri *RawItem) Item {
	res := Item{ID: ri.Link, Title: ri.Title, Link: ri.Link, SpecificItem: ri}
	it := ri.RSS
	if it == nil {
		return res
	}
	if it.GUID != nil {
		res.ID = *it.GUID
	}
	res.Description = it.Description
	res.Content = firstString(it.Content, it.Description)
	res.Author = firstString(it.Author, it.DC.Creator)
	res.Categories = it.Categories
	res.Published = firstInstant(it.PubDate, it.DC.Date)
	return res
}

func rdfItem(ri *RawItem) Item {
	res := Item{ID: ri.Link, Title: ri.Title, Link: ri.Link, SpecificItem: ri}
	it := ri.RDF
	if it == nil {
		return res
	}
	res.Description = it.Description
	res.Content = firstString(it.Content, it.DC.Description, it.Description)
	res.Author = it.DC.Creator
	res.Categories = it.DC.Subject
	res.Published = it.DC.Date
	return res
}

func atomItem(ri *RawItem) Item {
	res := Item{ID: ri.Link, Title: ri.Title, Link: ri.Link, SpecificItem: ri}
	e := ri.Atom
	if e == nil {
		return res
	}
	if e.ID != nil {
		res.ID = *e.ID
	}
	if len(e.Authors) > 0 {
		author := e.Authors[0].String()
		res.Author = &author
	}
	res.Description = e.Summary
	res.Content = firstString(e.Content, e.Summary)
	res.Categories = e.Categories
	res.Published = firstInstant(e.Published, e.Updated)
	return res
}
