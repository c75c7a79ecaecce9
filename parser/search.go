package parser

import (
	"strconv"
	"strings"

	"comrade/models"

	"github.com/PuerkitoBio/goquery"
)

// ParseSearch extracts one page of results from a validated search page.
func ParseSearch(html string) (*models.SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{Page: "search", Field: "document", Err: err}
	}

	content := doc.Find("div#content").First()
	if content.Length() == 0 {
		return nil, &ParseError{Page: "search", Field: "results container"}
	}

	result := &models.SearchResult{PageNumber: 1}

	var parseErr error
	content.Find("div.gallery").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, _ := s.Find("a").First().Attr("href")
		id, err := captureInt(GalleryIDRe, href)
		if err != nil {
			parseErr = &ParseError{Page: "search", Field: "result " + strconv.Itoa(i+1) + " gallery id", Err: err}
			return false
		}
		result.GalleryIDs = append(result.GalleryIDs, id)
		result.Titles = append(result.Titles, strings.TrimSpace(s.Find("div.caption").Text()))
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	if cur, ok := currentPage(doc); ok {
		result.PageNumber = cur
	}
	return result, nil
}

// ParseMaxPages reads the number of result pages from the pagination bar.
// Without a "last" link the current page is the last one; without any
// pagination there is a single page.
func ParseMaxPages(html string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, &ParseError{Page: "search", Field: "document", Err: err}
	}

	pagination := doc.Find("section.pagination").First()
	if pagination.Length() == 0 {
		return 1, nil
	}

	if last := pagination.Find("a.last").First(); last.Length() > 0 {
		href, _ := last.Attr("href")
		n, err := captureInt(PageParamRe, href)
		if err != nil {
			return 0, &ParseError{Page: "search", Field: "last page number", Err: err}
		}
		return n, nil
	}

	if cur, ok := currentPage(doc); ok {
		return cur, nil
	}
	return 1, nil
}

func currentPage(doc *goquery.Document) (int, bool) {
	cur := doc.Find("section.pagination a.page.current").First()
	if cur.Length() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(cur.Text()))
	if err != nil {
		return 0, false
	}
	return n, true
}
