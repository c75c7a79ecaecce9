package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestParseGallery(t *testing.T) {
	g, err := ParseGallery(fixture(t, "gallery_185217.html"), "NHentai")
	require.NoError(t, err)

	assert.Equal(t, 185217, g.GalleryID)
	assert.Equal(t, "(C91) [HitenKei (Hiten)] R.E.I.N.A [English] [Scrubs]", g.Title)
	assert.Equal(t, "R.E.I.N.A", g.ShortTitle())
	assert.Equal(t, 1019423, g.ImageSetID)
	assert.Equal(t, "NHentai", g.Provider)

	require.Len(t, g.ImageURLs, 28)
	assert.Equal(t, "https://i3.nhentai.net/galleries/1019423/1.jpg", g.ImageURLs[0])
	assert.Equal(t, "https://i3.nhentai.net/galleries/1019423/7.png", g.ImageURLs[6])
	assert.Equal(t, "https://i3.nhentai.net/galleries/1019423/28.jpg", g.ImageURLs[27])
	assert.Equal(t, "https://t.nhentai.net/galleries/1019423/cover.jpg", g.CoverURL())

	assert.Equal(t, []string{"sole female", "full color", "stockings"}, g.Tags)
}

func TestParseGalleryMissingStructure(t *testing.T) {
	_, err := ParseGallery(fixture(t, "search_single_page.html"), "NHentai")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "gallery", pe.Page)

	_, err = ParseGallery(`<html><body><h1>t</h1><div id="cover"><a href="/g/1/"></a></div></body></html>`, "x")
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "image blocks", pe.Field)
}

func TestParseSearch(t *testing.T) {
	r, err := ParseSearch(fixture(t, "search_page2_of_12.html"))
	require.NoError(t, err)

	assert.Equal(t, 2, r.PageNumber)
	assert.Equal(t, []int{177013, 266745, 185217}, r.GalleryIDs)
	assert.Equal(t, "(C91) [HitenKei (Hiten)] R.E.I.N.A [English] [Scrubs]", r.Titles[2])
	assert.Equal(t, "R.E.I.N.A", r.ShortTitles()[2])
}

func TestParseSearchSinglePage(t *testing.T) {
	r, err := ParseSearch(fixture(t, "search_single_page.html"))
	require.NoError(t, err)
	assert.Equal(t, 1, r.PageNumber)
	assert.Equal(t, 2, r.Len())
}

func TestParseMaxPages(t *testing.T) {
	cases := map[string]int{
		"search_page2_of_12.html": 12,
		"search_last_page.html":   5,
		"search_single_page.html": 1,
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ParseMaxPages(fixture(t, name))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseMaxPagesCurrentIsLast(t *testing.T) {
	html := fixture(t, "search_last_page.html")
	r, err := ParseSearch(html)
	require.NoError(t, err)
	maxPages, err := ParseMaxPages(html)
	require.NoError(t, err)
	assert.Equal(t, r.PageNumber, maxPages)
}

func TestPageParamEncoded(t *testing.T) {
	m := PageParamRe.FindStringSubmatch("/search/?q=alp%2Blove%26page%3D9%26sort%3Dpopular")
	require.NotNil(t, m)
	assert.Equal(t, "9", m[1])
}
