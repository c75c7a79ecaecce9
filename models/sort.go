package models

import (
	"fmt"
	"strings"
)

// SortOrder is the query fragment appended to a search URL.
type SortOrder string

const (
	SortRecent         SortOrder = ""
	SortPopularToday   SortOrder = "sort=popular-today"
	SortPopularWeek    SortOrder = "sort=popular-week"
	SortPopularAllTime SortOrder = "sort=popular"
)

// SortOrders lists every order in the order they are offered to users.
var SortOrders = []SortOrder{SortRecent, SortPopularToday, SortPopularWeek, SortPopularAllTime}

// PrettyName returns the user-facing label for the sort order.
func (s SortOrder) PrettyName() string {
	switch s {
	case SortRecent:
		return "Recent"
	case SortPopularToday:
		return "Popular Today"
	case SortPopularWeek:
		return "Popular This Week"
	case SortPopularAllTime:
		return "Popular All Time"
	}
	return string(s)
}

// ParseSortOrder accepts either the raw query fragment (with or without a
// leading '&') or a pretty name, case-insensitively.
func ParseSortOrder(raw string) (SortOrder, error) {
	v := strings.TrimPrefix(strings.TrimSpace(raw), "&")
	for _, s := range SortOrders {
		if v == string(s) || strings.EqualFold(v, s.PrettyName()) {
			return s, nil
		}
	}
	switch strings.ToLower(v) {
	case "recent":
		return SortRecent, nil
	case "popular-today", "today":
		return SortPopularToday, nil
	case "popular-week", "week":
		return SortPopularWeek, nil
	case "popular", "all-time":
		return SortPopularAllTime, nil
	}
	return SortRecent, fmt.Errorf("unknown sort order: %q", raw)
}
