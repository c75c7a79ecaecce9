package cf

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gocolly/colly"
)

// DefaultUserAgent is sent when no bypass data overrides it.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

// LoadForURL loads bypass data for the host of targetURL and checks it is
// still usable. It returns nil without error when there is nothing to apply.
func LoadForURL(targetURL string) (*BypassData, error) {
	parsedURL, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	domain := strings.TrimPrefix(parsedURL.Hostname(), "www.")

	data, err := LoadFromFile(domain)
	if err != nil {
		return nil, nil
	}
	if err := ValidateCookieData(data); err != nil {
		log.Printf("[CF] Ignoring stored bypass data for %s: %v", domain, err)
		return nil, nil
	}
	return data, nil
}

// SetBrowserHeaders makes a request look like it came from a normal browser
// navigation. data may be nil.
func SetBrowserHeaders(h http.Header, data *BypassData) {
	ua := DefaultUserAgent
	if data != nil && data.Entropy.UserAgent != "" {
		ua = data.Entropy.UserAgent
	}
	h.Set("User-Agent", ua)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Sec-Fetch-User", "?1")

	lang := "en-US,en;q=0.9"
	if data != nil && data.Headers["acceptLanguage"] != "" {
		lang = data.Headers["acceptLanguage"]
	}
	h.Set("Accept-Language", lang)

	if strings.Contains(ua, "Chrome") {
		platform := "Windows"
		if data != nil && data.Entropy.Platform != "" {
			platform = data.Entropy.Platform
		}
		h.Set("sec-ch-ua", `"Chromium";v="142", "Not_A Brand";v="99"`)
		h.Set("sec-ch-ua-mobile", "?0")
		h.Set("sec-ch-ua-platform", fmt.Sprintf(`"%s"`, platform))
	}
}

// ApplyToRequest adds stored cookies and browser headers to req.
func ApplyToRequest(req *http.Request, data *BypassData) {
	SetBrowserHeaders(req.Header, data)
	if data == nil {
		return
	}
	cookies := make([]string, 0, len(data.AllCookies))
	for _, c := range data.AllCookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		cookies = append(cookies, c.Name+"="+c.Value)
	}
	LogCFRequest(data.Domain, req.URL.String(), req.Header.Get("User-Agent"), cookies)
}

// ApplyToCollector applies stored bypass data for targetURL to a colly
// collector. Without stored data only the browser headers are set.
func ApplyToCollector(c *colly.Collector, targetURL string) error {
	data, err := LoadForURL(targetURL)
	if err != nil {
		return err
	}

	if data != nil {
		c.UserAgent = data.Entropy.UserAgent
		if err := c.SetCookies(targetURL, data.HTTPCookies()); err != nil {
			return fmt.Errorf("failed to set cookies: %w", err)
		}
	}

	c.OnRequest(func(r *colly.Request) {
		SetBrowserHeaders(*r.Headers, data)
	})
	return nil
}
