package sites

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"comrade/downloader"
	"comrade/models"
)

// searchURLFunc assembles a search URL for one source variant.
type searchURLFunc func(baseURL, query string, page int, sort models.SortOrder) string

// NHentaiSource is every source variant. Variants differ only in whether they
// can search and in how the search URL is assembled.
type NHentaiSource struct {
	name      string
	baseURL   string
	kind      models.SourceKind
	fetcher   downloader.Fetcher
	searchURL searchURLFunc
}

// Ensure NHentaiSource implements Source
var _ downloader.Source = (*NHentaiSource)(nil)

// NewSource builds the variant named by cfg.Kind.
func NewSource(cfg models.SourceConfig, fetcher downloader.Fetcher) (*NHentaiSource, error) {
	if !cfg.Kind.Valid() {
		return nil, fmt.Errorf("source %q: unknown kind %q", cfg.Name, cfg.Kind)
	}
	if cfg.Name == "" || cfg.BaseURL == "" {
		return nil, fmt.Errorf("source %+v: name and base_url are required", cfg)
	}

	s := &NHentaiSource{
		name:      cfg.Name,
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		kind:      cfg.Kind,
		fetcher:   fetcher,
		searchURL: plainSearchURL,
	}
	if cfg.Kind == models.KindTranslateProxy {
		s.searchURL = translateSearchURL
	}
	return s, nil
}

func (s *NHentaiSource) Name() string            { return s.name }
func (s *NHentaiSource) Kind() models.SourceKind { return s.kind }

// SupportsSearch is false for mirrors; their search pages differ from the
// primary site's markup.
func (s *NHentaiSource) SupportsSearch() bool {
	return s.kind != models.KindMirror
}

// GalleryURL returns {base}/g/{id}/.
func (s *NHentaiSource) GalleryURL(galleryID int) string {
	return fmt.Sprintf("%s/g/%d/", s.baseURL, galleryID)
}

func (s *NHentaiSource) SearchURL(query string, page int, sort models.SortOrder) string {
	return s.searchURL(s.baseURL, query, page, sort)
}

func (s *NHentaiSource) FetchGalleryPage(ctx context.Context, galleryID int) (string, error) {
	return s.fetcher.FetchHTML(ctx, s.GalleryURL(galleryID))
}

func (s *NHentaiSource) FetchSearchPage(ctx context.Context, query string, page int, sort models.SortOrder) (string, error) {
	if !s.SupportsSearch() {
		return "", fmt.Errorf("%s does not support search", s.name)
	}
	return s.fetcher.FetchHTML(ctx, s.SearchURL(query, page, sort))
}

// plainSearchURL: {base}/search/?q=alp+love+live&page=2&sort=popular
func plainSearchURL(baseURL, query string, page int, sort models.SortOrder) string {
	u := fmt.Sprintf("%s/search/?q=%s&page=%d", baseURL, url.QueryEscape(query), page)
	if sort != models.SortRecent {
		u += "&" + string(sort)
	}
	return u
}

// translateSearchURL encodes the query twice and the '&' separators once,
// since the translation service decodes the target URL once before
// fetching it:
// {base}/search/?q=alp%2Blove%2Blive%26page=2%26sort=popular
func translateSearchURL(baseURL, query string, page int, sort models.SortOrder) string {
	amp := url.QueryEscape("&")
	u := fmt.Sprintf("%s/search/?q=%s%spage=%d", baseURL, url.QueryEscape(url.QueryEscape(query)), amp, page)
	if sort != models.SortRecent {
		u += amp + string(sort)
	}
	return u
}
