package feed

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/umputun/synfeed/pkg/markup"
)

// Medium is the media:content medium attribute
type Medium int

// enum of media kinds
const (
	MediumUnknown Medium = iota
	MediumImage
	MediumAudio
	MediumVideo
	MediumDocument
	MediumExecutable
)

var mediumNames = map[Medium]string{
	MediumUnknown:    "unknown",
	MediumImage:      "image",
	MediumAudio:      "audio",
	MediumVideo:      "video",
	MediumDocument:   "document",
	MediumExecutable: "executable",
}

func (m Medium) String() string {
	if s, ok := mediumNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Medium(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler
func (m Medium) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Medium) UnmarshalText(text []byte) error {
	v := parseMedium(string(text))
	if v == nil {
		return fmt.Errorf("unknown medium %q", string(text))
	}
	*m = *v
	return nil
}

// Media is one media:content element
type Media struct {
	URL        *string     `json:"url,omitempty"`
	FileSize   *int64      `json:"file_size,omitempty"`
	Type       *string     `json:"type,omitempty"`
	Medium     *Medium     `json:"medium,omitempty"`
	IsDefault  *bool       `json:"is_default,omitempty"`
	Duration   *int        `json:"duration,omitempty"`
	Height     *int        `json:"height,omitempty"`
	Width      *int        `json:"width,omitempty"`
	Lang       *string     `json:"lang,omitempty"`
	Thumbnails []Thumbnail `json:"thumbnails,omitempty"`
}

// MediaGroup bundles variants of the same asset
type MediaGroup struct {
	Contents   []Media     `json:"contents,omitempty"`
	Thumbnails []Thumbnail `json:"thumbnails,omitempty"`
}

// Thumbnail is a media:thumbnail element
type Thumbnail struct {
	URL    string  `json:"url"`
	Height *int    `json:"height,omitempty"`
	Width  *int    `json:"width,omitempty"`
	Time   *string `json:"time,omitempty"`
}

var mediaNames = struct {
	content, group, thumbnail markup.Name
	url, fileSize, typ        markup.Name
	medium, isDefault         markup.Name
	duration, height, width   markup.Name
	lang, time                markup.Name
}{
	content:   markup.NS("media", "content"),
	group:     markup.NS("media", "group"),
	thumbnail: markup.NS("media", "thumbnail"),
	url:       markup.N("url"),
	fileSize:  markup.N("fileSize"),
	typ:       markup.N("type"),
	medium:    markup.N("medium"),
	isDefault: markup.N("isDefault"),
	duration:  markup.N("duration"),
	height:    markup.N("height"),
	width:     markup.N("width"),
	lang:      markup.N("lang"),
	time:      markup.N("time"),
}

func extractMedia(el *etree.Element) Media {
	return Media{
		URL:        attrPtr(el, mediaNames.url),
		FileSize:   parseInt64(attrPtr(el, mediaNames.fileSize)),
		Type:       attrPtr(el, mediaNames.typ),
		Medium:     parseMedium(attrValue(el, mediaNames.medium)),
		IsDefault:  parseBool(attrPtr(el, mediaNames.isDefault)),
		Duration:   parseInt(attrPtr(el, mediaNames.duration)),
		Height:     parseInt(attrPtr(el, mediaNames.height)),
		Width:      parseInt(attrPtr(el, mediaNames.width)),
		Lang:       attrPtr(el, mediaNames.lang),
		Thumbnails: extractThumbnails(el),
	}
}

func extractMediaGroup(el *etree.Element) MediaGroup {
	res := MediaGroup{Thumbnails: extractThumbnails(el)}
	for _, c := range markup.Children(el, mediaNames.content) {
		res.Contents = append(res.Contents, extractMedia(c))
	}
	return res
}

func extractThumbnails(el *etree.Element) []Thumbnail {
	var res []Thumbnail
	for _, t := range markup.Children(el, mediaNames.thumbnail) {
		res = append(res, Thumbnail{
			URL:    attrValue(t, mediaNames.url),
			Height: parseInt(attrPtr(t, mediaNames.height)),
			Width:  parseInt(attrPtr(t, mediaNames.width)),
			Time:   attrPtr(t, mediaNames.time),
		})
	}
	return res
}

// parseMedium returns nil for an empty or unrecognized value, "unknown" is a valid medium
func parseMedium(s string) *Medium {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range mediumNames {
		if name == s {
			return &m
		}
	}
	return nil
}
