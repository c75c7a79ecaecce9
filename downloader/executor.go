package downloader

import (
	"context"
	"log"
)

// RequestExecutor fetches over plain HTTP and, when a fallback is
// configured, retries a failed fetch once in a headless browser.
type RequestExecutor struct {
	http     Fetcher
	fallback Fetcher
}

// NewRequestExecutor wraps primary with an optional fallback (may be nil).
func NewRequestExecutor(primary, fallback Fetcher) *RequestExecutor {
	return &RequestExecutor{http: primary, fallback: fallback}
}

// FetchHTML implements Fetcher.
func (e *RequestExecutor) FetchHTML(ctx context.Context, targetURL string) (string, error) {
	html, err := e.http.FetchHTML(ctx, targetURL)
	if err == nil || e.fallback == nil || ctx.Err() != nil {
		return html, err
	}

	log.Printf("[Executor] HTTP fetch of %s failed (%v), trying browser", targetURL, err)
	bhtml, berr := e.fallback.FetchHTML(ctx, targetURL)
	if berr != nil {
		log.Printf("[Executor] Browser fetch failed too: %v", berr)
		// report the HTTP error, not the fallback one
		return "", err
	}
	return bhtml, nil
}
