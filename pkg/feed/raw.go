package feed

import (
	"time"

	"github.com/beevik/etree"

	"github.com/umputun/synfeed/pkg/datetime"
)

// RawFeed is the dialect specific result of extraction. Exactly one of RSS, RDF and Atom is set,
// matching Dialect. Element points into the parsed tree and must not be modified.
type RawFeed struct {
	Dialect          Dialect        `json:"dialect"`
	Title            string         `json:"title"`
	Link             string         `json:"link"`
	OriginalDocument string         `json:"-"`
	Element          *etree.Element `json:"-"`

	RSS  *RSSChannel `json:"rss,omitempty"`
	RDF  *RDFChannel `json:"rdf,omitempty"`
	Atom *AtomFeed   `json:"atom,omitempty"`

	Items []RawItem `json:"items"`
}

// RawItem is one item or entry of a RawFeed, the payload set matches the feed's
type RawItem struct {
	Title   string         `json:"title"`
	Link    string         `json:"link"`
	Element *etree.Element `json:"-"`

	RSS  *RSSItem   `json:"rss,omitempty"`
	RDF  *RDFItem   `json:"rdf,omitempty"`
	Atom *AtomEntry `json:"atom,omitempty"`
}

// RSSChannel holds channel fields of the rss family. Fields a dialect doesn't define stay empty.
type RSSChannel struct {
	Description    *string           `json:"description,omitempty"`
	Language       *string           `json:"language,omitempty"`
	Copyright      *string           `json:"copyright,omitempty"`
	Docs           *string           `json:"docs,omitempty"`
	ManagingEditor *string           `json:"managing_editor,omitempty"`
	WebMaster      *string           `json:"web_master,omitempty"`
	Rating         *string           `json:"rating,omitempty"`
	Generator      *string           `json:"generator,omitempty"`
	TTL            *int              `json:"ttl,omitempty"`
	PubDate        *datetime.Instant `json:"pub_date,omitempty"`
	LastBuildDate  *datetime.Instant `json:"last_build_date,omitempty"`
	Categories     []string          `json:"categories,omitempty"`
	Image          *Image            `json:"image,omitempty"`
	TextInput      *TextInput        `json:"text_input,omitempty"`
	Cloud          *Cloud            `json:"cloud,omitempty"`
	SkipHours      []string          `json:"skip_hours,omitempty"`
	SkipDays       []string          `json:"skip_days,omitempty"`
	DC             DublinCore        `json:"dc"`
	Sy             Syndication       `json:"sy"`
	ITunes         *ITunesChannel    `json:"itunes,omitempty"`
}

// RSSItem holds item fields of the rss family
type RSSItem struct {
	Description *string           `json:"description,omitempty"`
	Author      *string           `json:"author,omitempty"`
	Comments    *string           `json:"comments,omitempty"`
	GUID        *string           `json:"guid,omitempty"`
	PubDate     *datetime.Instant `json:"pub_date,omitempty"`
	Content     *string           `json:"content,omitempty"` // content:encoded
	Categories  []string          `json:"categories,omitempty"`
	Enclosure   *Enclosure        `json:"enclosure,omitempty"`
	Source      *Source           `json:"source,omitempty"`
	DC          DublinCore        `json:"dc"`
	ITunes      *ITunesItem       `json:"itunes,omitempty"`
	Media       []Media           `json:"media,omitempty"`
	MediaGroups []MediaGroup      `json:"media_groups,omitempty"`
}

// RDFChannel holds the rss 1.0 channel together with its sibling image and textinput
type RDFChannel struct {
	About       *string     `json:"about,omitempty"`
	Description *string     `json:"description,omitempty"`
	Image       *Image      `json:"image,omitempty"`
	TextInput   *TextInput  `json:"text_input,omitempty"`
	DC          DublinCore  `json:"dc"`
	Sy          Syndication `json:"sy"`
}

// RDFItem holds rss 1.0 item fields
type RDFItem struct {
	About       *string    `json:"about,omitempty"`
	Description *string    `json:"description,omitempty"`
	Content     *string    `json:"content,omitempty"` // content:encoded
	DC          DublinCore `json:"dc"`
}

// AtomFeed holds atom feed fields. Updated is required, it carries published when updated is absent.
type AtomFeed struct {
	ID           string           `json:"id"`
	Updated      datetime.Instant `json:"updated"`
	Subtitle     *string          `json:"subtitle,omitempty"`
	Rights       *string          `json:"rights,omitempty"`
	Generator    *string          `json:"generator,omitempty"`
	Icon         *string          `json:"icon,omitempty"`
	Logo         *string          `json:"logo,omitempty"`
	Lang         *string          `json:"lang,omitempty"` // xml:lang of the feed element
	Authors      []Person         `json:"authors,omitempty"`
	Contributors []Person         `json:"contributors,omitempty"`
	Categories   []string         `json:"categories,omitempty"`
	Links        []AtomLink       `json:"links,omitempty"`
}

// AtomEntry holds atom entry fields
type AtomEntry struct {
	ID           *string           `json:"id,omitempty"`
	Published    *datetime.Instant `json:"published,omitempty"`
	Updated      *datetime.Instant `json:"updated,omitempty"`
	Summary      *string           `json:"summary,omitempty"`
	Content      *string           `json:"content,omitempty"`
	ContentType  *string           `json:"content_type,omitempty"`
	Rights       *string           `json:"rights,omitempty"`
	Source       *string           `json:"source,omitempty"`
	Authors      []Person          `json:"authors,omitempty"`
	Contributors []Person          `json:"contributors,omitempty"`
	Categories   []string          `json:"categories,omitempty"`
	Links        []AtomLink        `json:"links,omitempty"`
}

// Person is an atom author or contributor
type Person struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	URI   *string `json:"uri,omitempty"`
}

// String formats the person as "Name <email>", or just the name without email
func (p Person) String() string {
	if p.Email == nil || *p.Email == "" {
		return p.Name
	}
	return p.Name + " <" + *p.Email + ">"
}

// AtomLink is one atom link element
type AtomLink struct {
	Href     string  `json:"href"`
	Rel      *string `json:"rel,omitempty"`
	Type     *string `json:"type,omitempty"`
	HrefLang *string `json:"hreflang,omitempty"`
	Title    *string `json:"title,omitempty"`
	Length   *int64  `json:"length,omitempty"`
}

// Image is the channel image. About is set for rss 1.0 only.
type Image struct {
	About       *string `json:"about,omitempty"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Link        string  `json:"link"`
	Description *string `json:"description,omitempty"`
	Width       *int    `json:"width,omitempty"`
	Height      *int    `json:"height,omitempty"`
}

// TextInput is the channel text input box. About is set for rss 1.0 only.
type TextInput struct {
	About       *string `json:"about,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Name        string  `json:"name"`
	Link        string  `json:"link"`
}

// Cloud is the rss cloud registration, all values come from attributes
type Cloud struct {
	Domain            string `json:"domain"`
	Port              *int   `json:"port,omitempty"`
	Path              string `json:"path"`
	RegisterProcedure string `json:"register_procedure"`
	Protocol          string `json:"protocol"`
}

// Enclosure is a media object attached to an item
type Enclosure struct {
	URL    string `json:"url"`
	Length *int64 `json:"length,omitempty"`
	Type   string `json:"type"`
}

// Source is the channel an item came from
type Source struct {
	URL   string `json:"url"`
	Value string `json:"value"`
}

// DublinCore holds dc:* elements found directly under a channel or item
type DublinCore struct {
	Title       *string           `json:"title,omitempty"`
	Creator     *string           `json:"creator,omitempty"`
	Subject     []string          `json:"subject,omitempty"`
	Description *string           `json:"description,omitempty"`
	Publisher   *string           `json:"publisher,omitempty"`
	Contributor *string           `json:"contributor,omitempty"`
	Date        *datetime.Instant `json:"date,omitempty"`
	Type        *string           `json:"type,omitempty"`
	Format      *string           `json:"format,omitempty"`
	Identifier  *string           `json:"identifier,omitempty"`
	Source      *string           `json:"source,omitempty"`
	Language    *string           `json:"language,omitempty"`
	Relation    *string           `json:"relation,omitempty"`
	Coverage    *string           `json:"coverage,omitempty"`
	Rights      *string           `json:"rights,omitempty"`
}

// Syndication holds the sy:* update schedule hints
type Syndication struct {
	UpdatePeriod    *string `json:"update_period,omitempty"`
	UpdateFrequency *int    `json:"update_frequency,omitempty"`
	UpdateBase      *string `json:"update_base,omitempty"`
}

// ITunesChannel holds itunes:* channel elements
type ITunesChannel struct {
	Author     *string          `json:"author,omitempty"`
	Block      bool             `json:"block"`
	Categories []ITunesCategory `json:"categories,omitempty"`
	Image      *string          `json:"image,omitempty"`
	Explicit   bool             `json:"explicit"`
	Complete   bool             `json:"complete"`
	NewFeedURL *string          `json:"new_feed_url,omitempty"`
	Owner      *ITunesOwner     `json:"owner,omitempty"`
	Subtitle   *string          `json:"subtitle,omitempty"`
	Summary    *string          `json:"summary,omitempty"`
	Type       *string          `json:"type,omitempty"`
}

// ITunesCategory is a possibly nested itunes category
type ITunesCategory struct {
	Text          string           `json:"text"`
	Subcategories []ITunesCategory `json:"subcategories,omitempty"`
}

// ITunesOwner is the podcast owner contact
type ITunesOwner struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// ITunesItem holds itunes:* item elements
type ITunesItem struct {
	Author            *string        `json:"author,omitempty"`
	Block             bool           `json:"block"`
	Image             *string        `json:"image,omitempty"`
	Duration          *time.Duration `json:"duration,omitempty"`
	Explicit          bool           `json:"explicit"`
	IsClosedCaptioned bool           `json:"is_closed_captioned"`
	Order             *int           `json:"order,omitempty"`
	Subtitle          *string        `json:"subtitle,omitempty"`
	Summary           *string        `json:"summary,omitempty"`
	Episode           *int           `json:"episode,omitempty"`
	Season            *int           `json:"season,omitempty"`
	EpisodeType       *string        `json:"episode_type,omitempty"`
}
