package domain

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  VideoID
		ok    bool
	}{
		{name: "watch url", input: "https://youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ", ok: true},
		{name: "watch url with www and params", input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", want: "dQw4w9WgXcQ", ok: true},
		{name: "short url with query", input: "https://youtu.be/dQw4w9WgXcQ?t=30", want: "dQw4w9WgXcQ", ok: true},
		{name: "embed url", input: "https://www.youtube.com/embed/dQw4w9WgXcQ#start", want: "dQw4w9WgXcQ", ok: true},
		{name: "bare id", input: "dQw4w9WgXcQ", want: "dQw4w9WgXcQ", ok: true},
		{name: "bare id with whitespace", input: "  dQw4w9WgXcQ\n", want: "dQw4w9WgXcQ", ok: true},
		{name: "id with dash and underscore", input: "https://youtu.be/a-b_c-d_e-f", want: "a-b_c-d_e-f", ok: true},
		{name: "playlist with 11 char list", input: "https://www.youtube.com/playlist?list=ABCDEFGHIJK", want: "ABCDEFGHIJK", ok: true},
		{name: "real playlist id", input: "https://www.youtube.com/playlist?list=PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf", ok: false},
		{name: "empty", input: "", ok: false},
		{name: "too short", input: "abc", ok: false},
		{name: "whitespace only", input: "             ", ok: false},
		{name: "not a url", input: "not a url", ok: false},
		{name: "contains space", input: "dQw4w9 WgXcQ", ok: false},
		{name: "contains at sign", input: "dQw4w9@gXcQ", ok: false},
		{name: "captured segment too long", input: "https://youtube.com/watch?v=dQw4w9WgXcQQ", ok: false},
		{name: "captured segment too short", input: "https://youtube.com/watch?v=dQw4w9", ok: false},
		{name: "other host", input: "https://vimeo.com/watch?v=dQw4w9WgXcQ", ok: false},
		{name: "bare id too long", input: "dQw4w9WgXcQx", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractVideoID(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractVideoID_RoundTrip(t *testing.T) {
	ids := []string{"dQw4w9WgXcQ", "___________", "-----------", "aZ09_-aZ09_", "M7lc1UVf-VE"}

	for _, id := range ids {
		for _, input := range []string{
			"https://www.youtube.com/watch?v=" + id,
			"https://youtu.be/" + id,
			id,
		} {
			got, ok := ExtractVideoID(input)
			require.True(t, ok, "input %q", input)
			assert.Equal(t, VideoID(id), got, "input %q", input)
		}
	}
}

func TestIsValidYouTubeURL(t *testing.T) {
	assert.True(t, IsValidYouTubeURL("https://youtu.be/dQw4w9WgXcQ"))
	assert.False(t, IsValidYouTubeURL("https://example.com"))
}

func TestSanitizeYouTubeURL(t *testing.T) {
	got, ok := SanitizeYouTubeURL("https://youtu.be/dQw4w9WgXcQ?t=30")
	require.True(t, ok)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", got)

	got, ok = SanitizeYouTubeURL("javascript:alert(1)")
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestSanitizeYouTubeURL_NeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"\x00\xff\xfe\xfd garbage \x80\x81",
		strings.Repeat("a", 1<<20),
		"https://youtube.com/watch?v=" + strings.Repeat("\xff", 64),
		"<nil>",
		"undefined",
	}

	for _, input := range inputs {
		assert.NotPanics(t, func() {
			SanitizeYouTubeURL(input)
		})
	}
}

func TestVideoIDFromInput(t *testing.T) {
	inputs := []string{
		"https://youtube.com/watch?v=dQw4w9WgXcQ",
		"dQw4w9WgXcQ",
		"not a url",
		"",
		"https://youtu.be/short",
	}

	for _, input := range inputs {
		want, ok := ExtractVideoID(input)
		got, err := VideoIDFromInput(input)
		if ok {
			require.NoError(t, err, "input %q", input)
			assert.Equal(t, want, got)
			continue
		}
		require.Error(t, err, "input %q", input)
		assert.True(t, errors.Is(err, ErrInvalidVideoURL))
		assert.True(t, IsInvalidVideoURLError(err))
		assert.Empty(t, got)
	}
}

func TestVideoIDURLs(t *testing.T) {
	id := VideoID("dQw4w9WgXcQ")
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", id.WatchURL())
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", id.ThumbnailURL())
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ééé...", truncate("éééé", 3))

	got := truncate(strings.Repeat("日本", 40), 63)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 63+3, utf8.RuneCountInString(got))
}

func TestVideoIDFromInput_ErrorTextIsValidUTF8(t *testing.T) {
	_, err := VideoIDFromInput(strings.Repeat("a", 63) + "éééé")
	require.Error(t, err)
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Contains(t, err.Error(), "é...")
}
