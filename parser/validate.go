package parser

import (
	"strings"

	"comrade/cf"

	"github.com/PuerkitoBio/goquery"
)

// Verdict is the outcome of classifying a fetched page.
type Verdict int

const (
	VerdictOK Verdict = iota
	VerdictBlocked
	VerdictNotFound
	VerdictNoResults
)

func (v Verdict) String() string {
	switch v {
	case VerdictOK:
		return "ok"
	case VerdictBlocked:
		return "blocked"
	case VerdictNotFound:
		return "not_found"
	case VerdictNoResults:
		return "no_results"
	}
	return "unknown"
}

// ClassifyGalleryPage decides whether html is a usable gallery page.
// The reason is empty for VerdictOK.
func ClassifyGalleryPage(html string) (Verdict, string) {
	doc, reason := blockedReason(html)
	if reason != "" {
		return VerdictBlocked, reason
	}
	if strings.Contains(doc.Find("title").First().Text(), NotFoundMarker) {
		return VerdictNotFound, "page title reports 404"
	}
	return VerdictOK, ""
}

// ClassifySearchPage decides whether html is a usable search page.
func ClassifySearchPage(html string) (Verdict, string) {
	doc, reason := blockedReason(html)
	if reason != "" {
		return VerdictBlocked, reason
	}
	if m := NoResultsRe.FindString(doc.Text()); m != "" {
		return VerdictNoResults, strings.TrimSpace(m)
	}
	return VerdictOK, ""
}

// blockedReason runs first for both page kinds: a challenge page says
// nothing about whether the gallery or query exists.
func blockedReason(html string) (*goquery.Document, string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, "unparseable document: " + err.Error()
	}

	if n := doc.Find("meta").Length(); n < MinMetaTags {
		return doc, "too few meta tags"
	}
	if markers := cf.BodyMarkers(html); len(markers) > 0 {
		return doc, strings.Join(markers, ", ")
	}
	if strings.Contains(strings.ToLower(doc.Text()), UnableToTranslateMark) {
		return doc, "translation proxy could not fetch the page"
	}
	return doc, ""
}
