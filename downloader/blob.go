package downloader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"comrade/cf"

	"github.com/gocolly/colly"
)

// BlobClient downloads raw image bytes with colly, retrying transient
// failures with exponential backoff.
type BlobClient struct {
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
}

// NewBlobClient returns a client with the default retry policy.
func NewBlobClient(timeout time.Duration) *BlobClient {
	return &BlobClient{
		Timeout:    timeout,
		MaxRetries: 3,
		BaseDelay:  time.Second,
	}
}

// FetchRaw returns the body at url.
func (b *BlobClient) FetchRaw(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= b.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * b.BaseDelay
			log.Printf("[Blob] Retry %d/%d for %s in %v", attempt, b.MaxRetries, url, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		data, err := b.fetchOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err

		var se *StatusError
		if _, isCF := cf.IsChallenge(err); isCF || (errors.As(err, &se) && se.StatusCode == 404) {
			break
		}
	}

	return nil, fmt.Errorf("fetch %s: %w", url, lastErr)
}

// fetchOnce uses a fresh collector per call; collectors keep their callbacks
// for life.
func (b *BlobClient) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	c := colly.NewCollector(
		colly.UserAgent(cf.DefaultUserAgent),
		colly.AllowURLRevisit(),
	)
	if b.Timeout > 0 {
		c.SetRequestTimeout(b.Timeout)
	}
	if err := cf.ApplyToCollector(c, url); err != nil {
		log.Printf("[Blob] Could not apply bypass data: %v", err)
	}

	var (
		body     []byte
		fetchErr error
	)

	c.OnResponse(func(r *colly.Response) {
		if _, err := cf.DecompressResponse(r, "[Blob]"); err != nil {
			log.Printf("[Blob] Failed to decompress response: %v", err)
		}
		body = r.Body
	})

	c.OnError(func(r *colly.Response, err error) {
		if isCF, info := cf.DetectFromColly(r); isCF {
			fetchErr = &cf.ChallengeError{URL: url, StatusCode: info.StatusCode, Indicators: info.Indicators}
			return
		}
		if r != nil && r.StatusCode != 0 {
			fetchErr = &StatusError{URL: url, StatusCode: r.StatusCode}
			return
		}
		fetchErr = fmt.Errorf("request failed: %w", err)
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.Visit(url); err != nil && fetchErr == nil {
		fetchErr = err
	}
	c.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if len(body) == 0 {
		return nil, errors.New("empty response body")
	}
	return body, nil
}
