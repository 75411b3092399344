package feed

import (
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/umputun/synfeed/pkg/datetime"
)

// ToGofeed converts a canonical feed into gofeed's universal feed type
func ToGofeed(f *Feed) *gofeed.Feed {
	if f == nil {
		return nil
	}
	res := &gofeed.Feed{
		Title:       f.Title,
		Link:        f.Link,
		Description: deref(f.Description),
		Language:    deref(f.Language),
		Copyright:   deref(f.Copyright),
		Items:       make([]*gofeed.Item, 0, len(f.Items)),
	}
	if f.Link != "" {
		res.Links = []string{f.Link}
	}
	res.FeedType, res.FeedVersion = gofeedType(f.Dialect)
	res.Updated, res.UpdatedParsed = gofeedTime(f.LastUpdated)
	if f.ImageURL != nil {
		res.Image = &gofeed.Image{URL: *f.ImageURL, Title: f.Title}
	}
	if raw := f.SpecificFeed; raw != nil && raw.Atom != nil {
		res.Generator = deref(raw.Atom.Generator)
		res.Categories = raw.Atom.Categories
		for _, p := range raw.Atom.Authors {
			res.Authors = append(res.Authors, &gofeed.Person{Name: p.Name, Email: deref(p.Email)})
		}
	}
	if raw := f.SpecificFeed; raw != nil && raw.RSS != nil {
		res.Generator = deref(raw.RSS.Generator)
		res.Categories = raw.RSS.Categories
	}

	for i := range f.Items {
		res.Items = append(res.Items, toGofeedItem(&f.Items[i]))
	}
	return res
}

func toGofeedItem(it *Item) *gofeed.Item {
	res := &gofeed.Item{
		Title:       it.Title,
		Link:        it.Link,
		GUID:        it.ID,
		Description: deref(it.Description),
		Content:     deref(it.Content),
		Categories:  it.Categories,
	}
	if it.Link != "" {
		res.Links = []string{it.Link}
	}
	if it.Author != nil {
		res.Authors = []*gofeed.Person{{Name: *it.Author}}
	}
	res.Published, res.PublishedParsed = gofeedTime(it.Published)

	ri := it.SpecificItem
	switch {
	case ri == nil:
	case ri.Atom != nil:
		res.Updated, res.UpdatedParsed = gofeedTime(ri.Atom.Updated)
		for _, l := range ri.Atom.Links {
			if l.Rel != nil && strings.EqualFold(*l.Rel, "enclosure") {
				res.Enclosures = append(res.Enclosures, &gofeed.Enclosure{URL: l.Href, Type: deref(l.Type), Length: formatLength(l.Length)})
			}
		}
	case ri.RSS != nil:
		if e := ri.RSS.Enclosure; e != nil {
			res.Enclosures = []*gofeed.Enclosure{{URL: e.URL, Type: e.Type, Length: formatLength(e.Length)}}
		}
		if ri.RSS.ITunes != nil && ri.RSS.ITunes.Image != nil {
			res.Image = &gofeed.Image{URL: *ri.RSS.ITunes.Image}
		}
	}
	return res
}

func gofeedType(d Dialect) (feedType, version string) {
	switch d {
	case DialectAtom:
		return "atom", "1.0"
	case DialectRSS091:
		return "rss", "0.91"
	case DialectRSS092:
		return "rss", "0.92"
	case DialectRSS10:
		return "rss", "1.0"
	case DialectRSS20, DialectMediaRSS:
		return "rss", "2.0"
	case DialectRSS:
		return "rss", ""
	default:
		return "", ""
	}
}

func gofeedTime(i *datetime.Instant) (string, *time.Time) {
	if i == nil {
		return "", nil
	}
	return i.Raw, i.Time
}

func formatLength(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}
