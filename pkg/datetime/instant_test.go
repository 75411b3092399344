package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	want := time.Date(2017, 1, 10, 19, 58, 13, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "rfc1123 numeric offset", input: "Tue, 10 Jan 2017 19:58:13 +0000", want: want},
		{name: "rfc1123 gmt", input: "Tue, 10 Jan 2017 19:58:13 GMT", want: want},
		{name: "two digit year named zone", input: "Tue, 10 Jan 17 19:58:13 GMT", want: want},
		{name: "no weekday", input: "10 Jan 2017 19:58:13 +0000", want: want},
		{name: "single digit day", input: "Tue, 3 Jan 2017 19:58:13 +0000", want: time.Date(2017, 1, 3, 19, 58, 13, 0, time.UTC)},
		{name: "pst abbreviation", input: "Tue, 10 Jan 2017 11:58:13 PST", want: want},
		{name: "est abbreviation", input: "Tue, 10 Jan 2017 14:58:13 EST", want: want},
		{name: "edt abbreviation", input: "Tue, 10 Jan 2017 15:58:13 EDT", want: want},
		{name: "lowercase ut", input: "Tue, 10 Jan 2017 19:58:13 ut", want: want},
		{name: "offset with colon", input: "Tue, 10 Jan 2017 21:58:13 +02:00", want: want},
		{name: "negative offset", input: "Tue, 10 Jan 2017 14:28:13 -0530", want: want},
		{name: "full month name", input: "Tuesday, 10 January 2017 19:58:13 GMT", want: want},
		{name: "extra spaces", input: "  Tue,  10  Jan   2017 19:58:13   +0000 ", want: want},
		{name: "missing seconds", input: "Tue, 10 Jan 2017 19:58 GMT", want: time.Date(2017, 1, 10, 19, 58, 0, 0, time.UTC)},
		{name: "missing zone assumed utc", input: "Tue, 10 Jan 2017 19:58:13", want: want},
		{name: "rfc3339", input: "2017-01-10T19:58:13Z", want: want},
		{name: "rfc3339 offset", input: "2017-01-10T20:58:13+01:00", want: want},
		{name: "rfc3339 fraction", input: "2017-01-10T19:58:13.000Z", want: want},
		{name: "iso without zone", input: "2017-01-10T19:58:13", want: want},
		{name: "date and time tokens", input: "2017-01-10 19:58:13", want: want},
		{name: "date only", input: "2017-01-10", want: time.Date(2017, 1, 10, 0, 0, 0, 0, time.UTC)},
		{name: "month before day", input: "Tue, Jan 10 2017 19:58:13 GMT", want: want},
		{name: "old two digit year", input: "Sun, 01 Mar 98 10:00:00 GMT", want: time.Date(1998, 3, 1, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.input)
			assert.Equal(t, tt.input, res.Raw)
			require.True(t, res.Resolved(), "expected %q to resolve", tt.input)
			assert.Equal(t, tt.want, *res.Time)
			assert.Equal(t, time.UTC, res.Time.Location())
		})
	}
}

func TestParse_Unresolved(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"yesterday",
		"not a date at all",
		"Tue, 10 Foo 2017 19:58:13 GMT",
		"Tue, 32 Jan 2017 19:58:13 GMT",
		"Tue, 31 Feb 2017 19:58:13 GMT",
		"Tue, 10 Jan 2017 25:58:13 GMT",
		"Tue, 10 Jan 2017 19:58:13 +99:99",
		"(10 Jan 2017)",
		"2017-13-45",
		"10",
		"+",
		"-",
		"Do, 22 Dez 2016 17:36:00 +0000",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			var res Instant
			require.NotPanics(t, func() { res = Parse(input) })
			assert.Equal(t, input, res.Raw)
			assert.False(t, res.Resolved())
			assert.Nil(t, res.Time)
		})
	}
}

func TestParse_NeverPanics(t *testing.T) {
	inputs := []string{
		"\x00\x01", "ÄÖÜ äöü", "+0", "-08", "GMT", "Mon,", "12345678901234567890 Jan 2017",
		"1 2 3 4 5 6 7 8 9 10 11 12", "Jan Jan Jan Jan", "99:99:99", "2017/02/30", "¡¿",
		"Tue, 10 Jan 2017 19:58:13 +1", "Tue, 10 Jan 2017 19:58:13 +012345",
	}
	for _, input := range inputs {
		assert.NotPanics(t, func() { Parse(input) }, "input %q", input)
	}
}

func TestStrict(t *testing.T) {
	_, ok := Strict("Tue, 10 Jan 2017 19:58:13 +0000")
	assert.True(t, ok)

	_, ok = Strict("Tue, 10 Jan 2017 19:58:13 PST")
	assert.False(t, ok, "named zones other than utc must not pass the strict layouts")

	_, ok = Strict("Tue, 10 Jan 17 19:58:13 GMT")
	assert.False(t, ok)
}

func TestLenient(t *testing.T) {
	res, ok := Lenient("Tue, 10 Jan 17 19:58:13 GMT")
	require.True(t, ok)
	assert.Equal(t, time.Date(2017, 1, 10, 19, 58, 13, 0, time.UTC), res)

	res, ok = Lenient("10 Jan 2017 19:58:13 CST")
	require.True(t, ok)
	assert.Equal(t, time.Date(2017, 1, 11, 1, 58, 13, 0, time.UTC), res)

	_, ok = Lenient("Tue, 10 Jan 2017 19:58:13 XYZ")
	assert.True(t, ok, "unknown zone leaves the offset slot blank")
}

func TestInstant_String(t *testing.T) {
	assert.Equal(t, "garbage", Parse("garbage").String())
	assert.Equal(t, "2017-01-10T19:58:13Z", Parse("Tue, 10 Jan 2017 19:58:13 GMT").String())
}
