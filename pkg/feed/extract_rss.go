package feed

import (
	"github.com/umputun/synfeed/pkg/datetime"
	"github.com/umputun/synfeed/pkg/markup"
)

var rssNames = struct {
	channel, item, title, link, description                       markup.Name
	language, copyright, docs, managingEditor, webMaster, rating  markup.Name
	generator, ttl, pubDate, lastBuildDate, category              markup.Name
	image, url, width, height, textInput, name                    markup.Name
	skipHours, hour, skipDays, day                                markup.Name
	cloud, domain, port, path, registerProcedure, protocol        markup.Name
	author, anyAuthor, anyName, comments, guid, anyUpdated        markup.Name
	enclosure, length, typ, source, contentEncoded                markup.Name
}{
	channel:           markup.N("channel"),
	item:              markup.N("item"),
	title:             markup.N("title"),
	link:              markup.N("link"),
	description:       markup.N("description"),
	language:          markup.N("language"),
	copyright:         markup.N("copyright"),
	docs:              markup.N("docs"),
	managingEditor:    markup.N("managingEditor"),
	webMaster:         markup.N("webMaster"),
	rating:            markup.N("rating"),
	generator:         markup.N("generator"),
	ttl:               markup.N("ttl"),
	pubDate:           markup.N("pubDate"),
	lastBuildDate:     markup.N("lastBuildDate"),
	category:          markup.N("category"),
	image:             markup.N("image"),
	url:               markup.N("url"),
	width:             markup.N("width"),
	height:            markup.N("height"),
	textInput:         markup.N("textInput"),
	name:              markup.N("name"),
	skipHours:         markup.N("skipHours"),
	hour:              markup.N("hour"),
	skipDays:          markup.N("skipDays"),
	day:               markup.N("day"),
	cloud:             markup.N("cloud"),
	domain:            markup.N("domain"),
	port:              markup.N("port"),
	path:              markup.N("path"),
	registerProcedure: markup.N("registerProcedure"),
	protocol:          markup.N("protocol"),
	author:            markup.N("author"),
	anyAuthor:         markup.Any("author"),
	anyName:           markup.Any("name"),
	comments:          markup.N("comments"),
	guid:              markup.N("guid"),
	anyUpdated:        markup.Any("updated"),
	enclosure:         markup.N("enclosure"),
	length:            markup.N("length"),
	typ:               markup.N("type"),
	source:            markup.N("source"),
	contentEncoded:    markup.NS("content", "encoded"),
}

// rssProfile switches on the parts of the rss field set a dialect defines
type rssProfile struct {
	dialect             Dialect
	descriptionRequired bool
	cloud               bool // channel cloud, 0.92 and later
	itemExtras          bool // item enclosure, source and categories, 0.92 and later
	v20                 bool // ttl, generator, channel categories, itunes, item author, comments, guid and content
	media               bool // media:content and media:group on items
}

var (
	rss091Profile     = rssProfile{dialect: DialectRSS091, descriptionRequired: true}
	rss092Profile     = rssProfile{dialect: DialectRSS092, descriptionRequired: true, cloud: true, itemExtras: true}
	rss20Profile      = rssProfile{dialect: DialectRSS20, descriptionRequired: true, cloud: true, itemExtras: true, v20: true}
	rssGenericProfile = rssProfile{dialect: DialectRSS, cloud: true, itemExtras: true, v20: true}
	mediaRSSProfile   = rssProfile{dialect: DialectMediaRSS, cloud: true, itemExtras: true, v20: true, media: true}
)

func extractRSS091(doc *markup.Document, dates datesFor) (*RawFeed, error) {
	return extractRSS(doc, rss091Profile, dates)
}

func extractRSS092(doc *markup.Document, dates datesFor) (*RawFeed, error) {
	return extractRSS(doc, rss092Profile, dates)
}

func extractRSS20(doc *markup.Document, dates datesFor) (*RawFeed, error) {
	return extractRSS(doc, rss20Profile, dates)
}

func extractGenericRSS(doc *markup.Document, dates datesFor) (*RawFeed, error) {
	return extractRSS(doc, rssGenericProfile, dates)
}

func extractMediaRSS(doc *markup.Document, dates datesFor) (*RawFeed, error) {
	return extractRSS(doc, mediaRSSProfile, dates)
}

func extractRSS(doc *markup.Document, prof rssProfile, dates datesFor) (*RawFeed, error) {
	root := scope{dialect: prof.dialect, el: doc.Root()}
	ch, ok := root.sub(rssNames.channel)
	if !ok {
		return nil, root.missing(rssNames.channel)
	}

	res := &RSSChannel{
		Language:       ch.opt(rssNames.language),
		Copyright:      ch.opt(rssNames.copyright),
		Docs:           ch.opt(rssNames.docs),
		ManagingEditor: ch.opt(rssNames.managingEditor),
		WebMaster:      ch.opt(rssNames.webMaster),
		Rating:         ch.opt(rssNames.rating),
		Sy:             extractSyndication(ch),
	}
	dp := dates(deref(firstString(res.Language, ch.opt(dcNames.language))))
	res.PubDate = parseDate(dp, ch.opt(rssNames.pubDate))
	res.LastBuildDate = parseDate(dp, ch.opt(rssNames.lastBuildDate))
	res.DC = extractDublinCore(ch, dp)

	if prof.descriptionRequired {
		desc, err := ch.req(rssNames.description)
		if err != nil {
			return nil, err
		}
		res.Description = &desc
	} else {
		res.Description = ch.opt(rssNames.description)
	}

	if img, ok := ch.sub(rssNames.image); ok {
		res.Image = extractImage(img)
	}
	if ti, ok := ch.sub(rssNames.textInput); ok {
		res.TextInput = extractTextInput(ti)
	}

	var err error
	if sh, ok := ch.sub(rssNames.skipHours); ok {
		if res.SkipHours, err = sh.list(rssNames.hour); err != nil {
			return nil, err
		}
	}
	if sd, ok := ch.sub(rssNames.skipDays); ok {
		if res.SkipDays, err = sd.list(rssNames.day); err != nil {
			return nil, err
		}
	}

	if prof.cloud {
		if c := ch.child(rssNames.cloud); c != nil {
			res.Cloud = &Cloud{
				Domain:            attrValue(c, rssNames.domain),
				Port:              parseInt(attrPtr(c, rssNames.port)),
				Path:              attrValue(c, rssNames.path),
				RegisterProcedure: attrValue(c, rssNames.registerProcedure),
				Protocol:          attrValue(c, rssNames.protocol),
			}
		}
	}

	if prof.v20 {
		res.Generator = ch.opt(rssNames.generator)
		res.TTL = parseInt(ch.opt(rssNames.ttl))
		if res.Categories, err = ch.list(rssNames.category); err != nil {
			return nil, err
		}
		res.ITunes = extractITunesChannel(ch)
	}

	// items belong to the channel, a few publishers put them next to it
	itemEls := markup.Children(ch.el, rssNames.item)
	if len(itemEls) == 0 {
		itemEls = markup.Children(root.el, rssNames.item)
	}
	items := make([]RawItem, 0, len(itemEls))
	for _, el := range itemEls {
		item, err := extractRSSItem(scope{dialect: prof.dialect, el: el}, prof, dp)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return &RawFeed{
		Dialect:          prof.dialect,
		Title:            ch.text(rssNames.title),
		Link:             ch.text(rssNames.link),
		OriginalDocument: doc.Text(),
		Element:          ch.el,
		RSS:              res,
		Items:            items,
	}, nil
}

func extractRSSItem(s scope, prof rssProfile, dp *datetime.Parser) (RawItem, error) {
	it := &RSSItem{
		Description: s.opt(rssNames.description),
		PubDate:     parseDate(dp, s.opt(rssNames.pubDate)),
		DC:          extractDublinCore(s, dp),
	}

	if prof.itemExtras {
		if e := s.child(rssNames.enclosure); e != nil {
			it.Enclosure = &Enclosure{
				URL:    attrValue(e, rssNames.url),
				Length: parseInt64(attrPtr(e, rssNames.length)),
				Type:   attrValue(e, rssNames.typ),
			}
		}
		if src := s.child(rssNames.source); src != nil {
			it.Source = &Source{URL: attrValue(src, rssNames.url), Value: markup.Value(src)}
		}
		var err error
		if it.Categories, err = s.list(rssNames.category); err != nil {
			return RawItem{}, err
		}
	}

	if prof.v20 {
		// an atom style <author><name> wins over the plain rss author text
		if a := s.child(rssNames.anyAuthor); a != nil {
			if name, ok := markup.ChildValue(a, rssNames.anyName); ok {
				it.Author = &name
			}
		}
		if it.Author == nil {
			it.Author = s.opt(rssNames.author)
		}
		it.Comments = s.opt(rssNames.comments)
		it.GUID = s.opt(rssNames.guid)
		it.Content = s.opt(rssNames.contentEncoded)
		if it.PubDate == nil {
			it.PubDate = parseDate(dp, s.opt(rssNames.anyUpdated))
		}
		it.ITunes = extractITunesItem(s)
	}

	if prof.media {
		for _, m := range markup.Children(s.el, mediaNames.content) {
			it.Media = append(it.Media, extractMedia(m))
		}
		for _, g := range markup.Children(s.el, mediaNames.group) {
			it.MediaGroups = append(it.MediaGroups, extractMediaGroup(g))
		}
	}

	return RawItem{Title: s.text(rssNames.title), Link: s.text(rssNames.link), Element: s.el, RSS: it}, nil
}

func extractImage(s scope) *Image {
	return &Image{
		Title:       s.text(rssNames.title),
		URL:         s.text(rssNames.url),
		Link:        s.text(rssNames.link),
		Description: s.opt(rssNames.description),
		Width:       parseInt(s.opt(rssNames.width)),
		Height:      parseInt(s.opt(rssNames.height)),
	}
}

func extractTextInput(s scope) *TextInput {
	return &TextInput{
		Title:       s.text(rssNames.title),
		Description: s.text(rssNames.description),
		Name:        s.text(rssNames.name),
		Link:        s.text(rssNames.link),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
