package feed

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FeedLink is a feed reference found in an html page
type FeedLink struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Dialect Dialect `json:"dialect"`
}

var anchorFeedSuffixes = []string{"feed", "rss", "atom", ".xml"}

// Discover looks for feed links in an html page. Alternate links in head come first,
// body anchors that look like feeds are used only when head has none. Relative urls
// are resolved against base when it is set.
func Discover(page string, base *url.URL) []FeedLink {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil
	}

	var res []FeedLink
	if head := findElement(doc, atom.Head); head != nil {
		walkElements(head, func(n *html.Node) {
			if n.DataAtom != atom.Link || !hasToken(attrOf(n, "rel"), "alternate") {
				return
			}
			href := strings.TrimSpace(attrOf(n, "href"))
			typ := strings.ToLower(attrOf(n, "type"))
			var dialect Dialect
			switch {
			case strings.HasPrefix(typ, "application/rss"):
				dialect = DialectRSS
			case strings.HasPrefix(typ, "application/atom"):
				dialect = DialectAtom
			default:
				return
			}
			if href == "" {
				return
			}
			res = append(res, FeedLink{Title: strings.TrimSpace(attrOf(n, "title")), URL: resolveURL(base, href), Dialect: dialect})
		})
	}
	if len(res) > 0 {
		return res
	}

	if body := findElement(doc, atom.Body); body != nil {
		walkElements(body, func(n *html.Node) {
			if n.DataAtom != atom.A {
				return
			}
			href := strings.TrimSpace(attrOf(n, "href"))
			if href == "" {
				return
			}
			text := strings.TrimSpace(nodeText(n))
			lowHref, lowText := strings.ToLower(href), strings.ToLower(text)
			if !looksLikeFeedHref(lowHref) && !strings.Contains(lowText, "rss") {
				return
			}
			dialect := DialectUnknown
			switch {
			case strings.Contains(lowHref, "rss") || strings.Contains(lowText, "rss"):
				dialect = DialectRSS
			case strings.Contains(lowHref, "atom") || strings.Contains(lowText, "atom"):
				dialect = DialectAtom
			}
			res = append(res, FeedLink{Title: text, URL: resolveURL(base, href), Dialect: dialect})
		})
	}
	return res
}

func looksLikeFeedHref(href string) bool {
	href = strings.TrimSuffix(href, "/")
	for _, suffix := range anchorFeedSuffixes {
		if strings.HasSuffix(href, suffix) {
			return true
		}
	}
	return false
}

func resolveURL(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := findElement(c, a); res != nil {
			return res
		}
	}
	return nil
}

func walkElements(n *html.Node, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			fn(c)
		}
		walkElements(c, fn)
	}
}

func attrOf(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func hasToken(s, token string) bool {
	for _, f := range strings.Fields(s) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
