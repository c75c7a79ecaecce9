package cf

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gocolly/colly"
)

// Info describes why a response was judged to be a challenge.
type Info struct {
	StatusCode   int
	Indicators   []string
	RayID        string
	ServerHeader string
	FormAction   string
	Turnstile    bool
	IsBIC        bool // Browser Integrity Check
}

// Each of these alone marks a challenge page.
var strongMarkers = []struct {
	substr string
	reason string
}{
	{"cloudflare-browser-verification", "JS browser verification challenge"},
	{"challenge-form", "Cloudflare challenge form"},
	{"cf-chl-", "Cloudflare challenge token"},
	{"attention required", "Cloudflare BIC"},
	{"checking your browser", "Cloudflare browser check"},
	{"verify you are human", "Cloudflare human verification"},
	{"cf-turnstile", "Turnstile CAPTCHA"},
}

var (
	// Only counts inside <title>; gallery comments say "just a moment" too.
	justAMomentRe = regexp.MustCompile(`(?i)<title[^>]*>[^<]*just a moment[^<]*</title>`)
	formActionRe  = regexp.MustCompile(`<form[^>]+id="challenge-form"[^>]+action="([^"]+)"`)
)

// BodyMarkers returns the challenge indicators found in a page body.
// An empty result means the body does not look like an interstitial.
func BodyMarkers(body string) []string {
	lower := strings.ToLower(body)

	var found []string
	for _, m := range strongMarkers {
		if strings.Contains(lower, m.substr) {
			found = append(found, m.reason)
		}
	}
	if justAMomentRe.MatchString(lower) {
		found = append(found, "Cloudflare challenge page")
	}

	// challenge-platform scripts ride along on normal pages, so they only
	// confirm an existing match
	if len(found) > 0 && strings.Contains(lower, "/cdn-cgi/challenge-platform/") {
		found = append(found, "Cloudflare challenge JS")
	}
	return found
}

// Detect inspects a response and reports whether it is an anti-bot challenge.
// A 403 or 503 status is enough on its own; otherwise the body must carry a
// challenge marker.
func Detect(statusCode int, header http.Header, body []byte) (bool, *Info) {
	info := &Info{
		StatusCode:   statusCode,
		ServerHeader: header.Get("Server"),
		RayID:        header.Get("CF-Ray"),
	}

	preview := string(body)
	if len(preview) > 500 {
		preview = preview[:500]
	}
	flat := make(map[string]string, len(header))
	for k, v := range header {
		if len(v) > 0 {
			flat[k] = v[0]
		}
	}
	LogCFResponse(statusCode, len(body), flat, preview)

	match := false
	switch statusCode {
	case http.StatusForbidden:
		info.Indicators = append(info.Indicators, "403 Forbidden")
		match = true
	case http.StatusServiceUnavailable:
		info.Indicators = append(info.Indicators, "503 Service Unavailable")
		match = true
	case http.StatusTooManyRequests:
		logCF("  Indicator: 429 Rate Limit (not a challenge)")
	}

	markers := BodyMarkers(string(body))
	if len(markers) > 0 {
		info.Indicators = append(info.Indicators, markers...)
		match = true
	}

	lower := strings.ToLower(string(body))
	info.IsBIC = strings.Contains(lower, "verify you are human")
	info.Turnstile = strings.Contains(lower, "cf-turnstile")
	if m := formActionRe.FindStringSubmatch(lower); len(m) > 1 {
		info.FormAction = m[1]
	}

	LogCFDetection(match, info)
	if !match {
		return false, nil
	}
	return true, info
}

// DetectFromColly wraps Detect for colly responses.
func DetectFromColly(r *colly.Response) (bool, *Info) {
	if r == nil {
		return false, nil
	}
	header := http.Header{}
	if r.Headers != nil {
		header = *r.Headers
	}
	return Detect(r.StatusCode, header, r.Body)
}
