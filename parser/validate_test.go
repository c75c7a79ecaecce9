package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyGalleryPage(t *testing.T) {
	cases := []struct {
		name string
		want Verdict
	}{
		{"gallery_185217.html", VerdictOK},
		{"challenge.html", VerdictBlocked},
		{"translate_error.html", VerdictBlocked},
		{"empty_shell.html", VerdictBlocked},
		{"gallery_404.html", VerdictNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, reason := ClassifyGalleryPage(fixture(t, tc.name))
			assert.Equal(t, tc.want, got, reason)
		})
	}
}

func TestClassifySearchPage(t *testing.T) {
	cases := []struct {
		name string
		want Verdict
	}{
		{"search_page2_of_12.html", VerdictOK},
		{"search_single_page.html", VerdictOK},
		{"search_no_results.html", VerdictNoResults},
		{"challenge.html", VerdictBlocked},
		{"translate_error.html", VerdictBlocked},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, reason := ClassifySearchPage(fixture(t, tc.name))
			assert.Equal(t, tc.want, got, reason)
		})
	}
}

func TestBlockedBeatsNotFound(t *testing.T) {
	// a challenge page that also mentions 404 must still be reported as blocked
	html := `<html><head><title>404 Just a moment...</title></head><body>No results found</body></html>`
	v, _ := ClassifyGalleryPage(html)
	assert.Equal(t, VerdictBlocked, v)
	v, _ = ClassifySearchPage(html)
	assert.Equal(t, VerdictBlocked, v)
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "not_found", VerdictNotFound.String())
}
