package cf

import (
	"net/http"
	"time"
)

// Cookie is a browser cookie as exported by the capture extension.
type Cookie struct {
	Name           string  `json:"name"`
	Value          string  `json:"value"`
	Domain         string  `json:"domain"`
	Path           string  `json:"path"`
	Secure         bool    `json:"secure"`
	HTTPOnly       bool    `json:"httpOnly"`
	SameSite       string  `json:"sameSite"`
	ExpirationDate float64 `json:"expirationDate"` // Unix timestamp
}

// Expires returns the cookie expiry, or the zero time for session cookies.
func (c Cookie) Expires() time.Time {
	if c.ExpirationDate <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(c.ExpirationDate), 0)
}

// HTTPCookie converts the captured cookie for use with net/http and colly.
func (c Cookie) HTTPCookie() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Secure:   c.Secure,
		HttpOnly: c.HTTPOnly,
		Expires:  c.Expires(),
	}
}

// Entropy is the slice of the browser fingerprint we replay on requests.
type Entropy struct {
	UserAgent string   `json:"userAgent"`
	Language  string   `json:"language"`
	Languages []string `json:"languages"`
	Platform  string   `json:"platform"`
}

// BypassData is what a solved challenge leaves behind for one domain:
// the cookies the browser was given and the identity it presented.
type BypassData struct {
	Domain     string            `json:"domain"`
	URL        string            `json:"url"`
	CapturedAt string            `json:"capturedAt"`
	AllCookies []Cookie          `json:"allCookies"`
	Entropy    Entropy           `json:"entropy"`
	Headers    map[string]string `json:"headers"`
}

// IsExpired checks if the bypass data is too old
func (b *BypassData) IsExpired(maxAge time.Duration) bool {
	capturedTime, err := time.Parse(time.RFC3339, b.CapturedAt)
	if err != nil {
		return true
	}
	return time.Since(capturedTime) > maxAge
}

func (b *BypassData) HasCookies() bool {
	return len(b.AllCookies) > 0
}

// Clearance returns the cf_clearance cookie, if one was captured.
func (b *BypassData) Clearance() *Cookie {
	for i := range b.AllCookies {
		if b.AllCookies[i].Name == "cf_clearance" {
			return &b.AllCookies[i]
		}
	}
	return nil
}

// HTTPCookies converts every captured cookie.
func (b *BypassData) HTTPCookies() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(b.AllCookies))
	for _, c := range b.AllCookies {
		out = append(out, c.HTTPCookie())
	}
	return out
}
