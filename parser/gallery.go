package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"comrade/models"

	"github.com/PuerkitoBio/goquery"
)

// ParseGallery builds a Gallery from a validated gallery page.
//
// The title is the page's <h1>, the gallery id comes from the first link in
// #cover, and the image-set id from the first <noscript> (the cover image).
// Every other <noscript> holding a page thumbnail contributes one page URL, in
// document order. Tag slugs come from a.tag links with hyphens turned into
// spaces.
func ParseGallery(html, provider string) (*models.Gallery, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{Page: "gallery", Field: "document", Err: err}
	}

	h1 := doc.Find("h1").First()
	if h1.Length() == 0 {
		return nil, &ParseError{Page: "gallery", Field: "title"}
	}
	title := strings.TrimSpace(h1.Text())

	href, _ := doc.Find("div#cover a").First().Attr("href")
	galleryID, err := captureInt(GalleryIDRe, href)
	if err != nil {
		return nil, &ParseError{Page: "gallery", Field: "gallery id", Err: err}
	}

	noscripts := doc.Find("noscript")
	if noscripts.Length() == 0 {
		return nil, &ParseError{Page: "gallery", Field: "image blocks"}
	}
	imageSetID, err := captureInt(ImageSetIDRe, noscriptHTML(noscripts.First()))
	if err != nil {
		return nil, &ParseError{Page: "gallery", Field: "image set id", Err: err}
	}

	var imageURLs []string
	noscripts.Each(func(_ int, s *goquery.Selection) {
		m := PageImageRe.FindStringSubmatch(noscriptHTML(s))
		if m == nil {
			return
		}
		imageURLs = append(imageURLs, fmt.Sprintf("%s/%d/%s.%s", models.ImageBaseURL, imageSetID, m[1], m[2]))
	})
	if len(imageURLs) == 0 {
		return nil, &ParseError{Page: "gallery", Field: "page images"}
	}

	var tags []string
	doc.Find("a.tag").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if m := TagRe.FindStringSubmatch(href); m != nil {
			tags = append(tags, strings.ReplaceAll(m[1], "-", " "))
		}
	})

	return &models.Gallery{
		GalleryID:  galleryID,
		Title:      title,
		ImageSetID: imageSetID,
		ImageURLs:  imageURLs,
		Tags:       tags,
		Provider:   provider,
	}, nil
}

// noscript bodies are kept as raw text by the HTML parser, so the <img>
// markup inside is only visible in the rendered form.
func noscriptHTML(s *goquery.Selection) string {
	html, err := goquery.OuterHtml(s)
	if err != nil {
		return s.Text()
	}
	return html
}

func captureInt(re *regexp.Regexp, s string) (int, error) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("no match in %q", s)
	}
	return strconv.Atoi(m[1])
}
