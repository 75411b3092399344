package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	assert.Nil(t, Sanitize(nil))

	f, err := ParseText(`<rss version="2.0"><channel><title>t</title><link>l</link>
<description><![CDATA[<b>bold</b><script>alert(1)</script>]]></description>
<item><title>i</title><description><![CDATA[<p onclick="x()">text</p>]]></description></item>
<item><title>plain</title></item>
</channel></rss>`)
	require.NoError(t, err)

	clean := Sanitize(f)
	require.NotNil(t, clean.Description)
	assert.Equal(t, "<b>bold</b>", *clean.Description)
	require.NotNil(t, clean.Items[0].Description)
	assert.Equal(t, "<p>text</p>", *clean.Items[0].Description)
	require.NotNil(t, clean.Items[0].Content, "content falls back to description")
	assert.Equal(t, "<p>text</p>", *clean.Items[0].Content)
	assert.Nil(t, clean.Items[1].Description)

	// the original is left untouched
	assert.Equal(t, "<b>bold</b><script>alert(1)</script>", *f.Description)
	assert.Equal(t, `<p onclick="x()">text</p>`, *f.Items[0].Description)
	assert.Equal(t, f.OriginalDocument, clean.OriginalDocument)
}

func TestToFeed_Nil(t *testing.T) {
	assert.Nil(t, ToFeed(nil))
	f := ToFeed(&RawFeed{Dialect: DialectRSS20, Title: "bare", Items: []RawItem{{Title: "x", Link: "http://x"}}})
	require.NotNil(t, f)
	assert.Nil(t, f.Description)
	require.Len(t, f.Items, 1)
	assert.Equal(t, "http://x", f.Items[0].ID)
}
