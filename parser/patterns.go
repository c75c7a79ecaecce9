package parser

import "regexp"

// Every pattern the scraper depends on lives here, so an upstream markup
// change is a one-file fix.
var (
	// <a href="/g/185217/1"> -> 185217
	GalleryIDRe = regexp.MustCompile(`/g/(\d+)`)

	// .../galleries/1019423/cover.jpg -> 1019423
	ImageSetIDRe = regexp.MustCompile(`/galleries/(\d+)/cover`)

	// .../galleries/1019423/2t.jpg -> 2, jpg
	// Anything else in a <noscript> (ads, the cover itself) does not match.
	PageImageRe = regexp.MustCompile(`/galleries/\d+/(\d+)t?\.(jpg|jpeg|png|gif|webp)`)

	// <a href="/tag/sole-female/" class="tag tag-35762"> -> sole-female
	TagRe = regexp.MustCompile(`/tag/([\w-]+)/`)

	// /search/?q=foo&page=42 -> 42, also when the proxy left it encoded
	PageParamRe = regexp.MustCompile(`(?i)(?:[?&]|%26)page(?:=|%3D)(\d+)`)

	// "No results found" or a bare "0 results" (but not "120 results")
	NoResultsRe = regexp.MustCompile(`(?i)no results found|(?:^|[^\d,.])0 results`)
)

// Plain-text markers, matched case-insensitively.
const (
	NotFoundMarker        = "404"
	UnableToTranslateMark = "unable to translate"
	MinMetaTags           = 3
)
