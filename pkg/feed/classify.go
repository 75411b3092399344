package feed

import (
	"strings"

	"github.com/umputun/synfeed/pkg/markup"
)

// Classify picks the dialect of a parsed document from its root element.
// An html root gives NonFeedContentError with discovered feed links, any other
// unknown root gives UnsupportedFeedTypeError.
func Classify(doc *markup.Document) (Dialect, error) {
	root := doc.Root()
	if root == nil {
		return DialectUnknown, &UnsupportedFeedTypeError{}
	}

	switch local := root.Tag; {
	case strings.EqualFold(local, "feed"):
		return DialectAtom, nil
	case strings.EqualFold(local, "rdf"):
		return DialectRSS10, nil
	case strings.EqualFold(local, "rss"):
		return rssVersion(attrValue(root, rssVersionAttr), markup.HasAttr(root, "media")), nil
	case strings.EqualFold(local, "html"):
		return DialectUnknown, &NonFeedContentError{Links: Discover(doc.Text(), nil)}
	default:
		return DialectUnknown, &UnsupportedFeedTypeError{Element: root.FullTag()}
	}
}

var rssVersionAttr = markup.N("version")

func rssVersion(version string, hasMedia bool) Dialect {
	switch version {
	case "2.0":
		if hasMedia {
			return DialectMediaRSS
		}
		return DialectRSS20
	case "0.91":
		return DialectRSS091
	case "0.92":
		return DialectRSS092
	default:
		return DialectRSS
	}
}
