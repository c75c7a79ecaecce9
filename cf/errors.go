package cf

import (
	"errors"
	"fmt"
)

// ChallengeError is returned when a response turns out to be an anti-bot
// interstitial instead of the requested page.
type ChallengeError struct {
	URL        string
	StatusCode int
	Indicators []string
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("anti-bot challenge: status=%d url=%s indicators=%v", e.StatusCode, e.URL, e.Indicators)
}

// IsChallenge reports whether err, or anything it wraps, is a ChallengeError.
func IsChallenge(err error) (*ChallengeError, bool) {
	var ce *ChallengeError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
