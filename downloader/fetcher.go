package downloader

import (
	"context"
	"fmt"

	"comrade/models"
	"comrade/parser"
)

// FetchGallery retrieves and parses a gallery. Parse errors are returned as
// they are; another source would not help.
func (r *Retriever) FetchGallery(ctx context.Context, galleryID int) (*models.Gallery, error) {
	page, err := r.GetGalleryPage(ctx, galleryID)
	if err != nil {
		return nil, err
	}

	gallery, err := parser.ParseGallery(page.HTML, page.Provider)
	if err != nil {
		return nil, fmt.Errorf("gallery %d from %s: %w", galleryID, page.Provider, err)
	}
	return gallery, nil
}

// FetchSearch retrieves and parses one page of search results along with
// the total number of result pages.
func (r *Retriever) FetchSearch(ctx context.Context, query string, page int, sort models.SortOrder) (*models.SearchResult, int, error) {
	wp, err := r.GetSearchPage(ctx, query, page, sort)
	if err != nil {
		return nil, 0, err
	}

	result, err := parser.ParseSearch(wp.HTML)
	if err != nil {
		return nil, 0, fmt.Errorf("search %q from %s: %w", query, wp.Provider, err)
	}
	maxPages, err := parser.ParseMaxPages(wp.HTML)
	if err != nil {
		return nil, 0, fmt.Errorf("search %q from %s: %w", query, wp.Provider, err)
	}
	return result, maxPages, nil
}
