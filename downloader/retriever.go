package downloader

import (
	"context"
	"errors"
	"log"
	"strings"

	"comrade/cf"
	"comrade/models"
	"comrade/parser"
)

// ErrNoSources is reported when there is nothing to try.
var ErrNoSources = errors.New("no sources available")

// Retriever walks an ordered list of sources until one returns a usable page.
// Sources are tried one at a time; the first good page wins.
type Retriever struct {
	sources []Source
}

// NewRetriever keeps sources in the given order.
func NewRetriever(sources []Source) *Retriever {
	return &Retriever{sources: sources}
}

// Sources returns the sources in the order they are tried.
func (r *Retriever) Sources() []Source {
	return r.sources
}

// GetGalleryPage returns the first gallery page any source serves for
// galleryID. Every source is tried before giving up; the returned
// *ExhaustedError wraps the last failure.
func (r *Retriever) GetGalleryPage(ctx context.Context, galleryID int) (*models.WebPage, error) {
	log.Printf("[Retriever] Retrieving gallery %d", galleryID)

	var failures attempts
	for _, src := range r.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		html, err := src.FetchGalleryPage(ctx, galleryID)
		if err != nil {
			failures.add(fetchFailure(src.Name(), src.GalleryURL(galleryID), err))
			continue
		}

		verdict, reason := parser.ClassifyGalleryPage(html)
		switch verdict {
		case parser.VerdictOK:
			log.Printf("[Retriever] %s served gallery %d", src.Name(), galleryID)
			return &models.WebPage{Provider: src.Name(), HTML: html}, nil
		case parser.VerdictNotFound:
			failures.add(&NotFoundError{Source: src.Name(), GalleryID: galleryID})
		default:
			failures.add(&BlockedError{Source: src.Name(), Reason: reason})
		}
	}

	return nil, failures.exhausted()
}

// GetSearchPage is GetGalleryPage for search pages, restricted to sources
// that support search.
func (r *Retriever) GetSearchPage(ctx context.Context, query string, page int, sort models.SortOrder) (*models.WebPage, error) {
	log.Printf("[Retriever] Searching %q page %d (%s)", query, page, sort.PrettyName())

	var failures attempts
	for _, src := range r.sources {
		if !src.SupportsSearch() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		html, err := src.FetchSearchPage(ctx, query, page, sort)
		if err != nil {
			failures.add(fetchFailure(src.Name(), src.SearchURL(query, page, sort), err))
			continue
		}

		verdict, reason := parser.ClassifySearchPage(html)
		switch verdict {
		case parser.VerdictOK:
			log.Printf("[Retriever] %s served search %q page %d", src.Name(), query, page)
			return &models.WebPage{Provider: src.Name(), HTML: html}, nil
		case parser.VerdictNoResults:
			failures.add(&NoResultsError{Source: src.Name(), Query: query})
		default:
			failures.add(&BlockedError{Source: src.Name(), Reason: reason})
		}
	}

	return nil, failures.exhausted()
}

func fetchFailure(source, url string, err error) error {
	if ce, ok := cf.IsChallenge(err); ok {
		return &BlockedError{Source: source, Reason: strings.Join(ce.Indicators, ", ")}
	}
	return &TransportError{Source: source, URL: url, Err: err}
}

type attempts struct {
	errs []error
}

func (a *attempts) add(err error) {
	log.Printf("[Retriever] %v", err)
	a.errs = append(a.errs, err)
}

func (a *attempts) exhausted() error {
	if len(a.errs) == 0 {
		return &ExhaustedError{Err: ErrNoSources}
	}
	return &ExhaustedError{Err: a.errs[len(a.errs)-1], Attempts: a.errs}
}
