package decode

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestResolve(t *testing.T) {
	t.Run("no declaration defaults to utf-8", func(t *testing.T) {
		data := []byte(`<rss version="2.0"><channel><title>Grüße</title></channel></rss>`)
		res, err := Resolve(data)
		require.NoError(t, err)
		assert.Equal(t, UTF8, res.Encoding)
		assert.Equal(t, string(data), res.Text)
	})

	t.Run("utf-8 declaration keeps buffer", func(t *testing.T) {
		data := []byte(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel/></rss>`)
		res, err := Resolve(data)
		require.NoError(t, err)
		assert.Equal(t, UTF8, res.Encoding)
		assert.Equal(t, string(data), res.Text)
	})

	t.Run("utf-8 bom stripped", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`<?xml version="1.0"?><feed/>`)...)
		res, err := Resolve(data)
		require.NoError(t, err)
		assert.Equal(t, `<?xml version="1.0"?><feed/>`, res.Text)
	})

	t.Run("iso-8859-1 redecoded", func(t *testing.T) {
		data := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
			"<rss version=\"2.0\"><channel><title>SVART M\xc5NAD - D\xd6DSOLYCKA i Vetlanda</title>" +
			"<description>H\xf6glandsnytt</description></channel></rss>")
		res, err := Resolve(data)
		require.NoError(t, err)
		assert.Equal(t, "iso-8859-1", res.Encoding)
		assert.Contains(t, res.Text, "SVART MÅNAD - DÖDSOLYCKA i Vetlanda")
		assert.Contains(t, res.Text, "Höglandsnytt")
		assert.True(t, strings.HasPrefix(res.Text, `<?xml version="1.0" encoding="ISO-8859-1"?>`))
	})

	t.Run("windows-1251 single quotes", func(t *testing.T) {
		body, err := charmap.Windows1251.NewEncoder().String("<rss version='2.0'><channel><title>Новости</title></channel></rss>")
		require.NoError(t, err)
		data := []byte("<?xml version='1.0' encoding='windows-1251'?>" + body)
		res, err := Resolve(data)
		require.NoError(t, err)
		assert.Equal(t, "windows-1251", res.Encoding)
		assert.Contains(t, res.Text, "Новости")
	})

	t.Run("utf-16 with bom", func(t *testing.T) {
		data := []byte{0xFF, 0xFE}
		for _, r := range `<feed/>` {
			data = append(data, byte(r), 0)
		}
		res, err := Resolve(data)
		require.NoError(t, err)
		assert.Equal(t, "utf-16le", res.Encoding)
		assert.Equal(t, "<feed/>", res.Text)
	})

	t.Run("iso-8859-1 keeps c1 range", func(t *testing.T) {
		data := []byte("<?xml version=\"1.0\" encoding=\"iso-8859-1\"?><rss><channel><title>\x80</title></channel></rss>")
		res, err := Resolve(data)
		require.NoError(t, err)
		assert.Equal(t, "iso-8859-1", res.Encoding)
		assert.Contains(t, res.Text, "<title>\u0080</title>", "latin-1 maps 0x80 to U+0080, not the euro sign")
	})

	t.Run("utf-32 with bom", func(t *testing.T) {
		data := []byte{0xFF, 0xFE, 0x00, 0x00}
		for _, r := range `<feed/>` {
			data = append(data, byte(r), 0, 0, 0)
		}
		res, err := Resolve(data)
		require.NoError(t, err)
		assert.Equal(t, "utf-32le", res.Encoding)
		assert.Equal(t, "<feed/>", res.Text)
	})

	t.Run("utf-32 big endian without bom", func(t *testing.T) {
		var data []byte
		for _, r := range `<?xml version="1.0" encoding="UTF-32"?><feed/>` {
			data = append(data, 0, 0, 0, byte(r))
		}
		res, err := Resolve(data)
		require.NoError(t, err)
		assert.Equal(t, "utf-32be", res.Encoding)
		assert.Equal(t, `<?xml version="1.0" encoding="UTF-32"?><feed/>`, res.Text)
	})

	t.Run("utf-32 declaration readable as utf-8", func(t *testing.T) {
		data := []byte(`<?xml version="1.0" encoding="UTF-32"?><feed/>`)
		res, err := Resolve(data)
		require.NoError(t, err)
		assert.Equal(t, UTF8, res.Encoding)
		assert.Equal(t, string(data), res.Text)
	})

	t.Run("unknown encoding is fatal", func(t *testing.T) {
		data := []byte(`<?xml version="1.0" encoding="x-klingon-42"?><rss/>`)
		_, err := Resolve(data)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedEncoding))
		var encErr *UnsupportedEncodingError
		require.ErrorAs(t, err, &encErr)
		assert.Equal(t, "x-klingon-42", encErr.Name)
		assert.Contains(t, err.Error(), "x-klingon-42")
	})

	t.Run("declaration beyond sample is ignored", func(t *testing.T) {
		data := []byte(strings.Repeat(" ", SampleSize) + `<?xml version="1.0" encoding="x-klingon-42"?><rss/>`)
		res, err := Resolve(data)
		require.NoError(t, err)
		assert.Equal(t, UTF8, res.Encoding)
	})
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "ISO-8859-1", want: "iso-8859-1"},
		{name: "latin1", want: "iso-8859-1"},
		{name: " Windows-1252 ", want: "windows-1252"},
		{name: "UTF-8", want: "utf-8"},
		{name: "UTF-16", want: "utf-16"},
		{name: "UTF-32", want: "utf-32"},
		{name: "utf-32le", want: "utf-32le"},
		{name: "KOI8-R", want: "koi8-r"},
		{name: "x-mac-cyrillic", want: "x-mac-cyrillic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, canonical := Lookup(tt.name)
			require.NotNil(t, enc)
			assert.Equal(t, tt.want, canonical)
		})
	}

	enc, _ := Lookup("x-klingon-42")
	assert.Nil(t, enc)
}

func TestDeclared(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{name: "double quotes", input: `<?xml version="1.0" encoding="ISO-8859-1"?><rss>`, want: "ISO-8859-1", found: true},
		{name: "single quotes", input: `<?xml version='1.0' encoding='koi8-r' standalone='yes'?>`, want: "koi8-r", found: true},
		{name: "spaces around equals", input: `<?xml version="1.0" encoding = "utf-8" ?>`, want: "utf-8", found: true},
		{name: "no encoding", input: `<?xml version="1.0"?><rss>`, found: false},
		{name: "no declaration", input: `<rss version="2.0"><channel>`, found: false},
		{name: "stylesheet first", input: `<?xml-stylesheet href="a.xsl"?><rss>`, found: false},
		{name: "empty", input: ``, found: false},
		{name: "garbage", input: "\x00\x01\x02<<<", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Declared([]byte(tt.input))
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPseudoAttr(t *testing.T) {
	assert.Equal(t, "1.0", pseudoAttr(`version="1.0" encoding="x"`, "version"))
	assert.Equal(t, "x", pseudoAttr(`version="1.0" encoding="x"`, "ENCODING"))
	assert.Empty(t, pseudoAttr(`version=1.0`, "version"))
	assert.Empty(t, pseudoAttr(`version="1.0`, "version"))
	assert.Empty(t, pseudoAttr(``, "encoding"))
}
