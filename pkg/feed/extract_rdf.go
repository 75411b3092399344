package feed

import (
	"github.com/umputun/synfeed/pkg/markup"
)

var rdfNames = struct {
	about, channel, image, textInput, item markup.Name
}{
	about:     markup.NS("rdf", "about"),
	channel:   markup.N("channel"),
	image:     markup.N("image"),
	textInput: markup.N("textinput"),
	item:      markup.N("item"),
}

// extractRDF reads an rss 1.0 document. Channel, image, textinput and items are
// siblings under the rdf root, so everything but channel fields is looked up on the root.
func extractRDF(doc *markup.Document, dates datesFor) (*RawFeed, error) {
	root := scope{dialect: DialectRSS10, el: doc.Root()}
	ch, ok := root.sub(rdfNames.channel)
	if !ok {
		return nil, root.missing(rdfNames.channel)
	}

	dp := dates(ch.text(dcNames.language))
	res := &RDFChannel{
		About:       attrPtr(ch.el, rdfNames.about),
		Description: ch.opt(rssNames.description),
		DC:          extractDublinCore(ch, dp),
		Sy:          extractSyndication(ch),
	}
	if img, ok := root.sub(rdfNames.image); ok {
		res.Image = extractImage(img)
		res.Image.About = attrPtr(img.el, rdfNames.about)
	}
	if ti, ok := root.sub(rdfNames.textInput); ok {
		res.TextInput = extractTextInput(ti)
		res.TextInput.About = attrPtr(ti.el, rdfNames.about)
	}

	itemEls := markup.Children(root.el, rdfNames.item)
	items := make([]RawItem, 0, len(itemEls))
	for _, el := range itemEls {
		s := scope{dialect: DialectRSS10, el: el}
		items = append(items, RawItem{
			Title:   s.text(rssNames.title),
			Link:    s.text(rssNames.link),
			Element: el,
			RDF: &RDFItem{
				About:       attrPtr(el, rdfNames.about),
				Description: s.opt(rssNames.description),
				Content:     s.opt(rssNames.contentEncoded),
				DC:          extractDublinCore(s, dp),
			},
		})
	}

	return &RawFeed{
		Dialect:          DialectRSS10,
		Title:            ch.text(rssNames.title),
		Link:             ch.text(rssNames.link),
		OriginalDocument: doc.Text(),
		Element:          ch.el,
		RDF:              res,
		Items:            items,
	}, nil
}
