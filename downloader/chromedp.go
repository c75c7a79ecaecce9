package downloader

import (
	"context"
	"fmt"
	"log"
	"time"

	"comrade/cf"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// BrowserSession is a headless Chrome tab that replays stored anti-bot cookies.
type BrowserSession struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewBrowserSession starts a headless browser. Close must be called.
func NewBrowserSession(ctx context.Context) *BrowserSession {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(cf.DefaultUserAgent),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-gpu", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	return &BrowserSession{
		ctx:    browserCtx,
		cancel: func() { cancelBrowser(); cancelAlloc() },
	}
}

// Navigate loads targetURL, injecting stored cookies for its domain first,
// and waits for the body to be ready.
func (bs *BrowserSession) Navigate(targetURL string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(bs.ctx, timeout)
	defer cancel()

	var tasks []chromedp.Action
	injected := 0

	bypass, err := cf.LoadForURL(targetURL)
	if err != nil {
		log.Printf("[Browser] Could not load bypass data: %v", err)
	}
	if bypass != nil {
		var cookies []*network.CookieParam
		for _, ck := range bypass.AllCookies {
			if ck.Name == "" {
				continue
			}
			cookies = append(cookies, &network.CookieParam{
				Name:     ck.Name,
				Value:    ck.Value,
				Domain:   ck.Domain,
				Path:     ck.Path,
				Secure:   ck.Secure,
				HTTPOnly: ck.HTTPOnly,
			})
		}
		injected = len(cookies)
		tasks = append(tasks,
			chromedp.ActionFunc(func(ctx context.Context) error {
				return network.SetCookies(cookies).Do(ctx)
			}),
		)
	}

	tasks = append(tasks,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body"),
	)

	err = chromedp.Run(ctx, tasks...)
	cf.LogCFBrowserAction("navigate", targetURL, injected, err == nil, err)
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// GetHTML returns the current document.
func (bs *BrowserSession) GetHTML() (string, error) {
	var html string
	if err := chromedp.Run(bs.ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return html, nil
}

func (bs *BrowserSession) Close() {
	if bs.cancel != nil {
		bs.cancel()
	}
}

// BrowserFetcher fetches pages through a fresh headless browser per call.
type BrowserFetcher struct {
	Timeout time.Duration
}

// FetchHTML navigates to targetURL and returns the rendered document.
// Challenge pages are reported as *cf.ChallengeError like HTTPClient does.
func (b *BrowserFetcher) FetchHTML(ctx context.Context, targetURL string) (string, error) {
	timeout := b.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	session := NewBrowserSession(ctx)
	defer session.Close()

	if err := session.Navigate(targetURL, timeout); err != nil {
		return "", err
	}

	// let a valid clearance cookie redirect past the interstitial
	select {
	case <-time.After(2 * time.Second):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	html, err := session.GetHTML()
	if err != nil {
		return "", err
	}

	// status is unknown in the browser; judge on the body alone
	if markers := cf.BodyMarkers(html); len(markers) > 0 {
		return "", &cf.ChallengeError{URL: targetURL, StatusCode: 200, Indicators: markers}
	}
	return html, nil
}
