// Package markup wraps etree with the read-only lookups feed extraction needs:
// case-insensitive name matching, text value rules and an html sniff.
package markup

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
)

// Document is a parsed markup tree together with the exact text it was parsed from
type Document struct {
	root *etree.Element
	text string
}

// Parse builds a document from already decoded text.
// Empty input gives a document without root, broken markup is an error.
func Parse(text string) (*Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: passThrough,
		Permissive:    true,
		PreserveCData: true,
		Entity:        xml.HTMLEntity,
	}
	if err := doc.ReadFromString(text); err != nil {
		return nil, fmt.Errorf("read xml: %w", err)
	}
	return &Document{root: doc.Root(), text: text}, nil
}

// Root returns the root element, nil for a document without one
func (d *Document) Root() *etree.Element {
	if d == nil {
		return nil
	}
	return d.root
}

// Text returns the text the document was parsed from
func (d *Document) Text() string {
	if d == nil {
		return ""
	}
	return d.text
}

// Name identifies an element or attribute by optional prefix and local name.
// Matching is ASCII case-insensitive. An empty Space matches unprefixed nodes only,
// AnySpace ignores the prefix entirely.
type Name struct {
	Space    string
	Local    string
	AnySpace bool
}

// N makes an unprefixed name
func N(local string) Name { return Name{Local: local} }

// NS makes a prefixed name, like dc:creator
func NS(space, local string) Name { return Name{Space: space, Local: local} }

// Any makes a name matching local in any namespace
func Any(local string) Name { return Name{Local: local, AnySpace: true} }

// In returns the same local name under another prefix
func (n Name) In(space string) Name { return Name{Space: space, Local: n.Local} }

func (n Name) String() string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// Match reports whether e carries this name
func (n Name) Match(e *etree.Element) bool {
	if e == nil {
		return false
	}
	return n.match(e.Space, e.Tag)
}

func (n Name) match(space, local string) bool {
	if !strings.EqualFold(n.Local, local) {
		return false
	}
	return n.AnySpace || strings.EqualFold(n.Space, space)
}

// LocalName returns the element name without prefix
func LocalName(e *etree.Element) string {
	if e == nil {
		return ""
	}
	return e.Tag
}

// Child returns the first direct child element matching n
func Child(e *etree.Element, n Name) *etree.Element {
	if e == nil {
		return nil
	}
	for _, tok := range e.Child {
		if c, ok := tok.(*etree.Element); ok && n.Match(c) {
			return c
		}
	}
	return nil
}

// Children returns all direct child elements matching n in document order
func Children(e *etree.Element, n Name) []*etree.Element {
	if e == nil {
		return nil
	}
	var res []*etree.Element
	for _, tok := range e.Child {
		if c, ok := tok.(*etree.Element); ok && n.Match(c) {
			res = append(res, c)
		}
	}
	return res
}

// FirstDescendant walks the subtree depth first and returns the first element accepted by pred
func FirstDescendant(e *etree.Element, pred func(*etree.Element) bool) *etree.Element {
	if e == nil {
		return nil
	}
	for _, tok := range e.Child {
		c, ok := tok.(*etree.Element)
		if !ok {
			continue
		}
		if pred(c) {
			return c
		}
		if d := FirstDescendant(c, pred); d != nil {
			return d
		}
	}
	return nil
}

// Descendants returns all elements under e matching n, depth first
func Descendants(e *etree.Element, n Name) []*etree.Element {
	if e == nil {
		return nil
	}
	var res []*etree.Element
	for _, tok := range e.Child {
		c, ok := tok.(*etree.Element)
		if !ok {
			continue
		}
		if n.Match(c) {
			res = append(res, c)
		}
		res = append(res, Descendants(c, n)...)
	}
	return res
}

// Attr returns the value of the first attribute matching n
func Attr(e *etree.Element, n Name) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, a := range e.Attr {
		if n.match(a.Space, a.Key) {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttr reports whether any attribute of e has the given local name, whatever its prefix
func HasAttr(e *etree.Element, local string) bool {
	_, ok := Attr(e, Any(local))
	return ok
}

// Value returns the text value of e. An element whose only child is another element
// yields that child's value, a lone CDATA section is returned raw, anything else is
// the concatenated text trimmed of surrounding whitespace.
func Value(e *etree.Element) string {
	if e == nil {
		return ""
	}
	var only etree.Token
	count := 0
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			if t.IsWhitespace() {
				continue
			}
		case *etree.Comment, *etree.ProcInst, *etree.Directive:
			continue
		}
		only = tok
		count++
	}

	if count == 1 {
		switch t := only.(type) {
		case *etree.Element:
			return Value(t)
		case *etree.CharData:
			if t.IsCData() {
				return t.Data
			}
		}
	}

	var sb strings.Builder
	collectText(e, &sb)
	return strings.TrimSpace(sb.String())
}

func collectText(e *etree.Element, sb *strings.Builder) {
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			collectText(t, sb)
		}
	}
}

// ChildValue returns the value of the first child matching n, absent when
// there is no such child or its value is empty
func ChildValue(e *etree.Element, n Name) (string, bool) {
	c := Child(e, n)
	if c == nil {
		return "", false
	}
	v := Value(c)
	return v, v != ""
}

// InnerXML serializes the children of e, the element's own tags excluded
func InnerXML(e *etree.Element) string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	ws := etree.WriteSettings{}
	for _, tok := range e.Child {
		tok.WriteTo(&sb, &ws)
	}
	return strings.TrimSpace(sb.String())
}

// SniffRoot returns the lowercased name of the first start tag in text using the html tokenizer.
// It works on markup the xml reader rejects, like html with void elements.
func SniffRoot(text string) string {
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			local := string(name)
			if i := strings.IndexByte(local, ':'); i >= 0 {
				local = local[i+1:]
			}
			return strings.ToLower(local)
		}
	}
}

// passThrough is the charset reader, text reaching the tokenizer is already utf-8
func passThrough(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}
