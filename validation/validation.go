package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"comrade/models"
)

// MaxQueryLength bounds search queries before they are sent to a source.
const MaxQueryLength = 200

// ValidateGalleryID parses a user supplied gallery id. A leading '#' is
// accepted since ids are often pasted that way.
func ValidateGalleryID(raw string) (int, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if raw == "" {
		return 0, errors.New("please provide a gallery id")
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("gallery id %q is not a number", raw)
	}
	if id <= 0 {
		return 0, fmt.Errorf("gallery id must be positive, got %d", id)
	}
	return id, nil
}

// ValidateSearchQuery trims the query and rejects empty or oversized input.
func ValidateSearchQuery(raw string) (string, error) {
	q := strings.Join(strings.Fields(raw), " ")
	if q == "" {
		return "", errors.New("please provide a search query")
	}
	if utf8.RuneCountInString(q) > MaxQueryLength {
		return "", fmt.Errorf("search query is longer than %d characters", MaxQueryLength)
	}
	return q, nil
}

// ValidatePageNumber checks that page lies within [lo, hi].
func ValidatePageNumber(raw string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("page %q is not a number", raw)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("page must be between %d and %d", lo, hi)
	}
	return n, nil
}

// ValidateSortOrder accepts an empty string as the default order.
func ValidateSortOrder(raw string) (models.SortOrder, error) {
	if strings.TrimSpace(raw) == "" {
		return models.SortRecent, nil
	}
	return models.ParseSortOrder(raw)
}
