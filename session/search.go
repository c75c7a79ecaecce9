package session

import (
	"context"
	"fmt"

	"comrade/models"
)

// PageLoader fetches one page of results for a query.
type PageLoader func(ctx context.Context, page int) (*models.SearchResult, error)

// SearchSession remembers every results page a user has already seen.
type SearchSession struct {
	OwnerID  string
	Query    string
	Sort     models.SortOrder
	Pages    map[int]*models.SearchResult
	MaxPages int
}

// NewSearchSession seeds the session with the first page fetched by the
// caller.
func NewSearchSession(ownerID, query string, sort models.SortOrder, first *models.SearchResult, maxPages int) *SearchSession {
	s := &SearchSession{
		OwnerID:  ownerID,
		Query:    query,
		Sort:     sort,
		Pages:    make(map[int]*models.SearchResult),
		MaxPages: maxPages,
	}
	if first != nil {
		s.Pages[first.PageNumber] = first
	}
	return s
}

// Page returns page n, calling load only the first time n is requested.
func (s *SearchSession) Page(ctx context.Context, n int, load PageLoader) (*models.SearchResult, error) {
	if n < 1 || n > s.MaxPages {
		return nil, fmt.Errorf("page %d is out of range (1-%d)", n, s.MaxPages)
	}
	if r, ok := s.Pages[n]; ok {
		return r, nil
	}

	r, err := load(ctx, n)
	if err != nil {
		return nil, err
	}
	s.Pages[n] = r
	return r, nil
}
