package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"comrade/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGallery(pages int) *models.Gallery {
	g := &models.Gallery{GalleryID: 185217, Title: "[Nori5rou] Test", ImageSetID: 1019423}
	for i := 1; i <= pages; i++ {
		ext := "jpg"
		if i == 2 {
			ext = "png"
		}
		g.ImageURLs = append(g.ImageURLs, fmt.Sprintf("%s/1019423/%d.%s", models.ImageBaseURL, i, ext))
	}
	return g
}

func TestGalleryNavigation(t *testing.T) {
	s := NewGallerySession("u1", testGallery(3), false)
	assert.Equal(t, 0, s.CurrentPage)
	assert.False(t, s.Previous())

	for i := 1; i <= 3; i++ {
		require.True(t, s.Advance())
		assert.Equal(t, i, s.CurrentPage)
	}
	assert.True(t, s.IsLastPage())
	assert.False(t, s.Advance())
	assert.Equal(t, 3, s.CurrentPage)

	assert.True(t, s.Previous())
	assert.True(t, s.Previous())
	assert.Equal(t, 1, s.CurrentPage)
	assert.False(t, s.Previous())
	assert.Equal(t, 1, s.CurrentPage)
}

func TestSetPage(t *testing.T) {
	s := NewGallerySession("u1", testGallery(3), false)

	for _, n := range []int{0, 1, 3} {
		assert.True(t, s.IsValidPage(n))
		assert.True(t, s.SetPage(n))
		assert.Equal(t, n, s.CurrentPage)
	}
	for _, n := range []int{-1, 4} {
		assert.False(t, s.IsValidPage(n))
		assert.False(t, s.SetPage(n))
	}
	assert.Equal(t, 3, s.CurrentPage)
}

func TestPageURLAndFilename(t *testing.T) {
	s := NewGallerySession("u1", testGallery(3), true)

	assert.Equal(t, "https://t.nhentai.net/galleries/1019423/cover.jpg", s.CurrentPageURL())
	assert.Equal(t, "185217_page_cover.jpg", s.CurrentPageFilename())

	assert.Equal(t, "https://i3.nhentai.net/galleries/1019423/2.png", s.PageURL(2))
	assert.Equal(t, "185217_page_2.png", s.PageFilename(2))
	assert.Equal(t, "185217_page_3.jpg", s.PageFilename(3))
	assert.Empty(t, s.PageURL(4))
}

func TestSearchSessionMemoises(t *testing.T) {
	ctx := context.Background()
	first := &models.SearchResult{PageNumber: 1, GalleryIDs: []int{1}, Titles: []string{"a"}}
	s := NewSearchSession("u1", "touhou", models.SortRecent, first, 3)

	calls := 0
	load := func(_ context.Context, n int) (*models.SearchResult, error) {
		calls++
		return &models.SearchResult{PageNumber: n, GalleryIDs: []int{n * 10}, Titles: []string{"t"}}, nil
	}

	r, err := s.Page(ctx, 1, load)
	require.NoError(t, err)
	assert.Same(t, first, r)
	assert.Equal(t, 0, calls)

	r2, err := s.Page(ctx, 2, load)
	require.NoError(t, err)
	r2again, err := s.Page(ctx, 2, load)
	require.NoError(t, err)
	assert.Same(t, r2, r2again)
	assert.Equal(t, 1, calls)

	_, err = s.Page(ctx, 4, load)
	assert.Error(t, err)
	_, err = s.Page(ctx, 0, load)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestSearchSessionLoadErrorNotCached(t *testing.T) {
	s := NewSearchSession("u1", "q", models.SortRecent, nil, 2)
	boom := errors.New("boom")
	_, err := s.Page(context.Background(), 2, func(context.Context, int) (*models.SearchResult, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.NotContains(t, s.Pages, 2)
}

func TestMemoryStore(t *testing.T) {
	st := NewMemoryStore[*GallerySession]()
	key := ConversationKey("g1", "c1")
	assert.Equal(t, "guild:g1:c1", key)
	assert.Equal(t, "dm:c9", ConversationKey("", "c9"))

	_, ok := st.Get(key)
	assert.False(t, ok)

	a := NewGallerySession("u1", testGallery(1), false)
	b := NewGallerySession("u2", testGallery(2), false)
	st.Put(key, a)
	st.Put(key, b)
	got, ok := st.Get(key)
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.Equal(t, 1, st.Len())

	st.Remove(key)
	_, ok = st.Get(key)
	assert.False(t, ok)
}
