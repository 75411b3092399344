package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// SampleSize is the number of leading bytes inspected for an encoding declaration
const SampleSize = 128

// UTF8 is the canonical name reported for utf-8 documents
const UTF8 = "utf-8"

// ErrUnsupportedEncoding is matched by errors.Is for any UnsupportedEncodingError
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// UnsupportedEncodingError reports a declared encoding that can't be resolved
type UnsupportedEncodingError struct {
	Name string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported encoding %q", e.Name)
}

// Is makes errors.Is(err, ErrUnsupportedEncoding) work
func (e *UnsupportedEncodingError) Is(target error) bool {
	return target == ErrUnsupportedEncoding
}

// Result is the outcome of encoding resolution
type Result struct {
	Encoding string // canonical encoding name
	Text     string // full document decoded to utf-8
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}

	// bom-less utf-32 documents start with a 4 byte '<'
	sigUTF32LE = []byte{'<', 0x00, 0x00, 0x00}
	sigUTF32BE = []byte{0x00, 0x00, 0x00, '<'}
)

// utf32Labels covers the utf-32 names ianaindex knows but has no decoder for
var utf32Labels = map[string]encoding.Encoding{
	"utf-32":   utf32.UTF32(utf32.BigEndian, utf32.UseBOM),
	"utf-32be": utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	"utf-32le": utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
}

// Resolve decides which encoding to decode data with and returns the decoded text.
// The declaration is looked up in the first SampleSize bytes read as utf-8, a declared
// encoding other than utf-8 triggers a full redecode, an unknown one is an error.
func Resolve(data []byte) (Result, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF32LE):
		return decodeWith(utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM), "utf-32le", data)
	case bytes.HasPrefix(data, bomUTF32BE):
		return decodeWith(utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM), "utf-32be", data)
	case bytes.HasPrefix(data, sigUTF32LE):
		return decodeWith(utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), "utf-32le", data)
	case bytes.HasPrefix(data, sigUTF32BE):
		return decodeWith(utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), "utf-32be", data)
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), "utf-16le", data)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), "utf-16be", data)
	}

	data = bytes.TrimPrefix(data, bomUTF8)
	name, ok := Declared(data)
	if !ok {
		return Result{Encoding: UTF8, Text: string(data)}, nil
	}

	enc, canonical := Lookup(name)
	if enc == nil {
		return Result{}, &UnsupportedEncodingError{Name: name}
	}
	if canonical == UTF8 {
		return Result{Encoding: UTF8, Text: string(data)}, nil
	}
	if strings.HasPrefix(canonical, "utf-16") || strings.HasPrefix(canonical, "utf-32") {
		// a wide declaration readable as utf-8 means the bytes are not really utf-16 or utf-32
		return Result{Encoding: UTF8, Text: string(data)}, nil
	}
	return decodeWith(enc, canonical, data)
}

// Lookup resolves an encoding name to its decoder and lower-cased canonical name.
// IANA names and aliases win, so iso-8859-1 stays latin-1. WHATWG labels are tried after
// that. A nil encoding means the name is unsupported.
func Lookup(name string) (encoding.Encoding, string) {
	label := strings.ToLower(strings.TrimSpace(name))
	if enc, err := ianaindex.IANA.Encoding(label); err == nil && enc != nil {
		canonical, err := ianaindex.MIME.Name(enc)
		if err != nil {
			canonical = label
		}
		return enc, strings.ToLower(canonical)
	}
	if enc, ok := utf32Labels[label]; ok {
		return enc, label
	}
	return charset.Lookup(label)
}

// Declared returns the encoding named by the xml declaration found in the leading sample
func Declared(data []byte) (string, bool) {
	sample := data
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}
	text := strings.ToValidUTF8(string(sample), string(utf8.RuneError))

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		Permissive:    true,
		CharsetReader: passThrough,
	}
	_ = doc.ReadFromString(text) // the sample is usually cut mid-element, only leading tokens matter

	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.ProcInst:
			if !strings.EqualFold(t.Target, "xml") {
				continue
			}
			name := pseudoAttr(t.Inst, "encoding")
			return name, name != ""
		case *etree.Element:
			return "", false
		}
	}
	return "", false
}

func decodeWith(enc encoding.Encoding, name string, data []byte) (Result, error) {
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return Result{}, fmt.Errorf("decode %s: %w", name, err)
	}
	return Result{Encoding: name, Text: strings.TrimPrefix(string(decoded), "\ufeff")}, nil
}

// pseudoAttr extracts a name="value" pair from processing instruction content
func pseudoAttr(inst, name string) string {
	rest := inst
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq < 0 {
			return ""
		}
		key := strings.TrimSpace(rest[:eq])
		if i := strings.LastIndexAny(key, " \t\r\n"); i >= 0 {
			key = key[i+1:]
		}
		rest = strings.TrimLeft(rest[eq+1:], " \t\r\n")
		if rest == "" || (rest[0] != '"' && rest[0] != '\'') {
			return ""
		}
		quote := rest[0]
		end := strings.IndexByte(rest[1:], quote)
		if end < 0 {
			return ""
		}
		value := rest[1 : end+1]
		rest = rest[end+2:]
		if strings.EqualFold(key, name) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// passThrough is used as charset reader, input handed to the tokenizer is already utf-8
func passThrough(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}
