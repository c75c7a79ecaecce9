package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGalleryDerivedFields(t *testing.T) {
	g := &Gallery{
		GalleryID:  185217,
		Title:      "(C91) [HitenKei (Hiten)] R.E.I.N.A [English] [Scrubs]",
		ImageSetID: 1019423,
		ImageURLs: []string{
			"https://i3.nhentai.net/galleries/1019423/1.png",
			"https://i3.nhentai.net/galleries/1019423/2.jpg",
		},
	}

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, "R.E.I.N.A", g.ShortTitle())
	assert.Equal(t, "https://nhentai.net/g/185217/", g.URL())
	assert.Equal(t, "https://t.nhentai.net/galleries/1019423/cover.png", g.CoverURL())
}

func TestSearchResultTitles(t *testing.T) {
	r := &SearchResult{
		PageNumber: 1,
		GalleryIDs: []int{1, 2},
		Titles:     []string{"[A] One [English]", "Two"},
	}
	assert.Equal(t, []string{"One", "Two"}, r.ShortTitles())
	assert.Equal(t, []string{"[A] [English]", ""}, r.TitleBlocks())
}

func TestParseSortOrder(t *testing.T) {
	cases := map[string]SortOrder{
		"":              SortRecent,
		"&sort=popular": SortPopularAllTime,
		"sort=popular":  SortPopularAllTime,
		"Popular Today": SortPopularToday,
		"week":          SortPopularWeek,
		"recent":        SortRecent,
	}
	for in, want := range cases {
		got, err := ParseSortOrder(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSortOrder("sideways")
	assert.Error(t, err)
}

func TestSourceKindValid(t *testing.T) {
	assert.True(t, KindTranslateProxy.Valid())
	assert.False(t, SourceKind("ftp").Valid())
}
