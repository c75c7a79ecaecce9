package models

import (
	"fmt"
	"path"
	"strings"
)

const (
	// GalleryBaseURL is the canonical gallery location on the primary site.
	GalleryBaseURL = "https://nhentai.net/g"
	// ImageBaseURL hosts full-size page images, keyed by image-set id.
	ImageBaseURL = "https://i3.nhentai.net/galleries"
	// ThumbBaseURL hosts covers and thumbnails, keyed by image-set id.
	ThumbBaseURL = "https://t.nhentai.net/galleries"
)

// SourceKind is the closed set of content source variants.
type SourceKind string

const (
	KindDirect         SourceKind = "direct"
	KindMirror         SourceKind = "mirror"
	KindWebProxy       SourceKind = "web_proxy"
	KindTranslateProxy SourceKind = "translate_proxy"
)

// Valid reports whether k is one of the known source kinds.
func (k SourceKind) Valid() bool {
	switch k {
	case KindDirect, KindMirror, KindWebProxy, KindTranslateProxy:
		return true
	}
	return false
}

// SourceConfig describes one content source as stored in sources.json.
type SourceConfig struct {
	Name    string     `json:"name"`     // Display name, also reported as the provider
	BaseURL string     `json:"base_url"` // Root URL every request is built from
	Kind    SourceKind `json:"kind"`     // Variant that decides URL assembly
}

// SourcesConfig is the root structure of the sources.json file.
type SourcesConfig struct {
	Sources []SourceConfig `json:"sources"`
}

// WebPage is a raw, already classified page along with the source that served it.
type WebPage struct {
	Provider string
	HTML     string
}

// Gallery is a parsed gallery page. It is never mutated after parsing.
type Gallery struct {
	GalleryID  int
	Title      string
	ImageSetID int
	ImageURLs  []string
	Tags       []string
	Provider   string
}

// Len returns the number of real pages, excluding the cover.
func (g *Gallery) Len() int {
	return len(g.ImageURLs)
}

// ShortTitle is the title with its bracketed decoration stripped.
func (g *Gallery) ShortTitle() string {
	return SplitTitle(g.Title)
}

// TitleBlockTags is the decoration removed by ShortTitle.
func (g *Gallery) TitleBlockTags() string {
	return TitleBlock(g.Title)
}

// URL returns the canonical gallery URL.
func (g *Gallery) URL() string {
	return fmt.Sprintf("%s/%d/", GalleryBaseURL, g.GalleryID)
}

// CoverURL is derived from the image-set id and the first page's extension.
func (g *Gallery) CoverURL() string {
	ext := "jpg"
	if len(g.ImageURLs) > 0 {
		if e := strings.TrimPrefix(path.Ext(g.ImageURLs[0]), "."); e != "" {
			ext = e
		}
	}
	return fmt.Sprintf("%s/%d/cover.%s", ThumbBaseURL, g.ImageSetID, ext)
}

// SearchResult is one page of search results.
type SearchResult struct {
	PageNumber int
	GalleryIDs []int
	Titles     []string
}

// Len returns the number of results on this page.
func (r *SearchResult) Len() int {
	return len(r.GalleryIDs)
}

func (r *SearchResult) ShortTitles() []string {
	out := make([]string, len(r.Titles))
	for i, t := range r.Titles {
		out[i] = SplitTitle(t)
	}
	return out
}

func (r *SearchResult) TitleBlocks() []string {
	out := make([]string, len(r.Titles))
	for i, t := range r.Titles {
		out[i] = TitleBlock(t)
	}
	return out
}

// BlobEntry maps an original remote URL to its mirrored copy.
type BlobEntry struct {
	SourceURL string `json:"source_url"`
	BlobURL   string `json:"blob_url"`
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
}
