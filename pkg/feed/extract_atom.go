package feed

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/umputun/synfeed/pkg/markup"
)

// atomNames are atom element names under the prefix the feed element itself uses
type atomNames struct {
	entry, id, title, updated, published, link      markup.Name
	author, contributor, name, email, uri, category markup.Name
	generator, icon, logo, rights, subtitle         markup.Name
	summary, content, source                        markup.Name
}

func newAtomNames(space string) atomNames {
	n := func(local string) markup.Name { return markup.NS(space, local) }
	return atomNames{
		entry: n("entry"), id: n("id"), title: n("title"), updated: n("updated"), published: n("published"),
		link: n("link"), author: n("author"), contributor: n("contributor"), name: n("name"), email: n("email"),
		uri: n("uri"), category: n("category"), generator: n("generator"), icon: n("icon"), logo: n("logo"),
		rights: n("rights"), subtitle: n("subtitle"), summary: n("summary"), content: n("content"), source: n("source"),
	}
}

var atomAttrs = struct {
	href, rel, typ, hreflang, title, length, term, lang markup.Name
}{
	href:     markup.N("href"),
	rel:      markup.N("rel"),
	typ:      markup.N("type"),
	hreflang: markup.N("hreflang"),
	title:    markup.N("title"),
	length:   markup.N("length"),
	term:     markup.N("term"),
	lang:     markup.NS("xml", "lang"),
}

func extractAtom(doc *markup.Document, dates datesFor) (*RawFeed, error) {
	s := scope{dialect: DialectAtom, el: doc.Root()}
	n := newAtomNames(s.el.Space)

	id, err := s.req(n.id)
	if err != nil {
		return nil, err
	}
	updated := s.opt(n.updated)
	if updated == nil {
		updated = s.opt(n.published)
	}
	if updated == nil {
		return nil, s.missing(n.updated)
	}

	lang := attrPtr(s.el, atomAttrs.lang)
	dp := dates(deref(lang))
	res := &AtomFeed{
		ID:         id,
		Updated:    dp.Parse(*updated),
		Subtitle:   textConstruct(s.child(n.subtitle)),
		Rights:     textConstruct(s.child(n.rights)),
		Generator:  s.opt(n.generator),
		Icon:       s.opt(n.icon),
		Logo:       s.opt(n.logo),
		Lang:       lang,
		Categories: atomCategories(s, n),
		Links:      atomLinks(s, n),
	}
	if res.Authors, err = atomPersons(s, n, n.author); err != nil {
		return nil, err
	}
	if res.Contributors, err = atomPersons(s, n, n.contributor); err != nil {
		return nil, err
	}

	entryEls := markup.Children(s.el, n.entry)
	items := make([]RawItem, 0, len(entryEls))
	for _, el := range entryEls {
		es := scope{dialect: DialectAtom, el: el}
		entry := &AtomEntry{
			ID:         es.opt(n.id),
			Published:  parseDate(dp, es.opt(n.published)),
			Updated:    parseDate(dp, es.opt(n.updated)),
			Summary:    textConstruct(es.child(n.summary)),
			Rights:     textConstruct(es.child(n.rights)),
			Categories: atomCategories(es, n),
			Links:      atomLinks(es, n),
		}
		if c := es.child(n.content); c != nil {
			entry.Content = textConstruct(c)
			entry.ContentType = attrPtr(c, atomAttrs.typ)
		}
		if src := es.child(n.source); src != nil {
			if v, ok := markup.ChildValue(src, n.title); ok {
				entry.Source = &v
			} else if v := markup.Value(src); v != "" {
				entry.Source = &v
			}
		}
		if entry.Authors, err = atomPersons(es, n, n.author); err != nil {
			return nil, err
		}
		if entry.Contributors, err = atomPersons(es, n, n.contributor); err != nil {
			return nil, err
		}
		items = append(items, RawItem{
			Title:   es.text(n.title),
			Link:    pickLink(entry.Links, "self", false),
			Element: el,
			Atom:    entry,
		})
	}

	return &RawFeed{
		Dialect:          DialectAtom,
		Title:            s.text(n.title),
		Link:             pickLink(res.Links, "alternate", true),
		OriginalDocument: doc.Text(),
		Element:          s.el,
		Atom:             res,
		Items:            items,
	}, nil
}

// textConstruct returns the value of an atom text element, xhtml content keeps its markup
func textConstruct(el *etree.Element) *string {
	if el == nil {
		return nil
	}
	var v string
	if strings.EqualFold(attrValue(el, atomAttrs.typ), "xhtml") {
		v = markup.InnerXML(el)
	} else {
		v = markup.Value(el)
	}
	if v == "" {
		return nil
	}
	return &v
}

// pickLink returns the href of the first link with the preferred relation, a link without rel
// counts as preferred when relMissingMatches is set. Falls back to the first link.
func pickLink(links []AtomLink, preferred string, relMissingMatches bool) string {
	for _, l := range links {
		if l.Rel == nil || *l.Rel == "" {
			if relMissingMatches {
				return l.Href
			}
			continue
		}
		if strings.EqualFold(*l.Rel, preferred) {
			return l.Href
		}
	}
	if len(links) > 0 {
		return links[0].Href
	}
	return ""
}

func atomLinks(s scope, n atomNames) []AtomLink {
	var res []AtomLink
	for _, el := range markup.Children(s.el, n.link) {
		res = append(res, AtomLink{
			Href:     attrValue(el, atomAttrs.href),
			Rel:      attrPtr(el, atomAttrs.rel),
			Type:     attrPtr(el, atomAttrs.typ),
			HrefLang: attrPtr(el, atomAttrs.hreflang),
			Title:    attrPtr(el, atomAttrs.title),
			Length:   parseInt64(attrPtr(el, atomAttrs.length)),
		})
	}
	return res
}

// atomCategories takes the term attribute, falling back to the element text
func atomCategories(s scope, n atomNames) []string {
	var res []string
	for _, el := range markup.Children(s.el, n.category) {
		v := attrValue(el, atomAttrs.term)
		if v == "" {
			v = markup.Value(el)
		}
		if v != "" {
			res = append(res, v)
		}
	}
	return res
}

func atomPersons(s scope, n atomNames, which markup.Name) ([]Person, error) {
	var res []Person
	for _, el := range markup.Children(s.el, which) {
		ps := scope{dialect: DialectAtom, el: el}
		name, err := ps.req(n.name)
		if err != nil {
			return nil, err
		}
		res = append(res, Person{Name: name, Email: ps.opt(n.email), URI: ps.opt(n.uri)})
	}
	return res, nil
}
