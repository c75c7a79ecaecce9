package session

import (
	"fmt"
	"path"
	"strings"

	"comrade/models"
)

// GallerySession tracks one reader's position in a gallery. Page 0 is the
// cover; pages 1..Len() are the gallery's images.
type GallerySession struct {
	OwnerID     string
	Gallery     *models.Gallery
	CurrentPage int
	Spoiler     bool
}

// NewGallerySession starts at the cover.
func NewGallerySession(ownerID string, g *models.Gallery, spoiler bool) *GallerySession {
	return &GallerySession{OwnerID: ownerID, Gallery: g, Spoiler: spoiler}
}

func (s *GallerySession) Len() int {
	return s.Gallery.Len()
}

// IsValidPage reports whether n addresses the cover or a real page.
func (s *GallerySession) IsValidPage(n int) bool {
	return n >= 0 && n <= s.Len()
}

// Advance moves one page forward. It reports false, without moving, when
// already on the last page.
func (s *GallerySession) Advance() bool {
	if s.CurrentPage >= s.Len() {
		return false
	}
	s.CurrentPage++
	return true
}

// Previous moves one page back. It stops at page 1; the cover is reached only
// through SetPage(0).
func (s *GallerySession) Previous() bool {
	if s.CurrentPage-1 < 1 {
		return false
	}
	s.CurrentPage--
	return true
}

// SetPage jumps to page n. Out of range pages leave the session unchanged.
func (s *GallerySession) SetPage(n int) bool {
	if !s.IsValidPage(n) {
		return false
	}
	s.CurrentPage = n
	return true
}

// PageURL returns the cover URL for page 0 and the image URL otherwise.
func (s *GallerySession) PageURL(n int) string {
	if n == 0 {
		return s.Gallery.CoverURL()
	}
	if !s.IsValidPage(n) {
		return ""
	}
	return s.Gallery.ImageURLs[n-1]
}

// PageFilename is {gid}_page_cover.{ext} or {gid}_page_{n}.{ext}.
func (s *GallerySession) PageFilename(n int) string {
	u := s.PageURL(n)
	if u == "" {
		return ""
	}
	ext := strings.TrimPrefix(path.Ext(u), ".")
	if n == 0 {
		return fmt.Sprintf("%d_page_cover.%s", s.Gallery.GalleryID, ext)
	}
	return fmt.Sprintf("%d_page_%d.%s", s.Gallery.GalleryID, n, ext)
}

func (s *GallerySession) CurrentPageURL() string {
	return s.PageURL(s.CurrentPage)
}

func (s *GallerySession) CurrentPageFilename() string {
	return s.PageFilename(s.CurrentPage)
}

// IsLastPage reports whether the reader is on the final page.
func (s *GallerySession) IsLastPage() bool {
	return s.CurrentPage == s.Len()
}
