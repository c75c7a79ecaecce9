package downloader

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"comrade/cf"

	"golang.org/x/net/publicsuffix"
)

// StatusError is an HTTP response the pipeline cannot use.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// HTTPClient fetches pages with browser-like headers, stored anti-bot
// cookies and transparent decompression. It makes a single attempt per call.
type HTTPClient struct {
	httpClient *http.Client

	// DebugSaveHTMLDir, when set, receives a copy of every fetched page.
	DebugSaveHTMLDir string
}

// NewHTTPClient creates a client whose requests time out after timeout.
func NewHTTPClient(timeout time.Duration) (*HTTPClient, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
				// we ask for br ourselves, so we also undo it ourselves
				DisableCompression: true,
			},
		},
	}, nil
}

// FetchHTML returns the page body for 200 and 404 responses. Challenge pages
// come back as *cf.ChallengeError and other statuses as *StatusError.
func (c *HTTPClient) FetchHTML(ctx context.Context, targetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	bypass, err := cf.LoadForURL(targetURL)
	if err != nil {
		log.Printf("[HTTPClient] Could not load bypass data: %v", err)
	}
	cf.ApplyToRequest(req, bypass)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	decompressed, wasCompressed, err := cf.DecompressResponseBody(body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return "", fmt.Errorf("failed to decompress response: %w", err)
	}
	if wasCompressed {
		body = decompressed
	}

	c.saveDebugHTML(targetURL, body)

	if isCF, info := cf.Detect(resp.StatusCode, resp.Header, body); isCF {
		log.Printf("[HTTPClient] Anti-bot challenge from %s: %v", req.URL.Host, info.Indicators)
		if bypass != nil {
			if err := cf.MarkCookieAsFailed(bypass.Domain); err != nil {
				cf.LogCFError("mark cookie failed", bypass.Domain, err)
			}
		}
		return "", &cf.ChallengeError{
			URL:        targetURL,
			StatusCode: info.StatusCode,
			Indicators: info.Indicators,
		}
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNotFound:
		return string(body), nil
	}
	return "", &StatusError{URL: targetURL, StatusCode: resp.StatusCode}
}

func (c *HTTPClient) saveDebugHTML(targetURL string, body []byte) {
	if c.DebugSaveHTMLDir == "" {
		return
	}
	name := targetURL
	if u, err := url.Parse(targetURL); err == nil {
		name = u.Host + u.Path
	}
	name = strings.NewReplacer("/", "_", ":", "_", "?", "_").Replace(strings.Trim(name, "/")) + ".html"

	path := filepath.Join(c.DebugSaveHTMLDir, name)
	if err := os.WriteFile(path, body, 0644); err != nil {
		log.Printf("[HTTPClient][DEBUG] Failed to save HTML: %v", err)
		return
	}
	log.Printf("[HTTPClient][DEBUG] Saved %d bytes to %s", len(body), path)
}
