package feed

import (
	"github.com/microcosm-cc/bluemonday"
)

var ugcPolicy = bluemonday.UGCPolicy()

// Sanitize returns a copy of f with item descriptions, item contents and the feed description
// cleaned by the bluemonday UGC policy. The dialect specific feed is shared, not copied.
func Sanitize(f *Feed) *Feed {
	if f == nil {
		return nil
	}
	res := *f
	res.Description = sanitizeString(f.Description)
	res.Items = make([]Item, len(f.Items))
	for i, it := range f.Items {
		it.Description = sanitizeString(it.Description)
		it.Content = sanitizeString(it.Content)
		res.Items[i] = it
	}
	return &res
}

func sanitizeString(s *string) *string {
	if s == nil {
		return nil
	}
	v := ugcPolicy.Sanitize(*s)
	return &v
}
