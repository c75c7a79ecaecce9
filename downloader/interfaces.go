package downloader

import (
	"context"

	"comrade/models"
)

// Fetcher retrieves the body of a page. Implementations return the body for
// any response the caller should classify (including 404 pages) and an error
// for transport failures and anti-bot challenges.
type Fetcher interface {
	FetchHTML(ctx context.Context, targetURL string) (string, error)
}

// Source is one place gallery and search pages can be read from.
// Implementations perform exactly one fetch per call.
type Source interface {
	Name() string
	Kind() models.SourceKind
	SupportsSearch() bool

	GalleryURL(galleryID int) string
	SearchURL(query string, page int, sort models.SortOrder) string

	FetchGalleryPage(ctx context.Context, galleryID int) (string, error)
	FetchSearchPage(ctx context.Context, query string, page int, sort models.SortOrder) (string, error)
}
