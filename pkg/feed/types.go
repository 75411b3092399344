package feed

import (
	"encoding/xml"
)

// rssDocument is the root element of a generated RSS 2.0 document
type rssDocument struct {
	XMLName xml.Name       `xml:"rss"`
	Version string         `xml:"version,attr"`
	Atom    string         `xml:"xmlns:atom,attr"`
	Channel *rssDocChannel `xml:"channel"`
}

type rssDocChannel struct {
	XMLName       xml.Name      `xml:"channel"`
	Title         string        `xml:"title"`
	Link          string        `xml:"link"`
	Description   string        `xml:"description"`
	Language      string        `xml:"language,omitempty"`
	Copyright     string        `xml:"copyright,omitempty"`
	AtomLink      *rssAtomLink  `xml:"http://www.w3.org/2005/Atom link"`
	LastBuildDate string        `xml:"lastBuildDate,omitempty"`
	Generator     string        `xml:"generator,omitempty"`
	Image         *rssDocImage  `xml:"image,omitempty"`
	Items         []*rssDocItem `xml:"item"`
}

type rssAtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssDocImage struct {
	URL   string `xml:"url"`
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

type rssDocGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink string `xml:"isPermaLink,attr,omitempty"`
}

type rssDocEnclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

type rssDocItem struct {
	Title       string           `xml:"title,omitempty"`
	Link        string           `xml:"link,omitempty"`
	GUID        *rssDocGUID      `xml:"guid,omitempty"`
	Description string           `xml:"description,omitempty"`
	Author      string           `xml:"author,omitempty"`
	PubDate     string           `xml:"pubDate,omitempty"`
	Categories  []string         `xml:"category"`
	Enclosure   *rssDocEnclosure `xml:"enclosure,omitempty"`
}
