package models

import (
	"strings"
	"unicode"
)

var closerFor = map[rune]rune{']': '[', ')': '('}

// SplitTitle returns the real title hidden among the bracketed circle,
// artist, event and language groups of a full gallery title.
//
// The first run of text outside any bracket group wins; scanning stops at the
// next opening bracket once that run holds something other than whitespace.
// A closing bracket with nothing open throws away whatever text was collected
// so far, and a closing bracket that does not match the innermost open group
// leaves the group open. When no usable text is found the full title is
// returned as-is.
func SplitTitle(full string) string {
	short, _ := splitTitle(full)
	return short
}

// splitTitle also returns the byte offset in full where short begins, or -1
// when full is returned unchanged.
func splitTitle(full string) (string, int) {
	var (
		stack []rune
		buf   strings.Builder
		start = -1
	)

	for i, c := range full {
		switch c {
		case '[', '(':
			stack = append(stack, c)
			if strings.TrimSpace(buf.String()) != "" {
				return strings.TrimSpace(buf.String()), start
			}
		case ']', ')':
			if len(stack) == 0 {
				buf.Reset()
				start = -1
				continue
			}
			if stack[len(stack)-1] == closerFor[c] {
				stack = stack[:len(stack)-1]
			}
		default:
			if len(stack) == 0 {
				if start < 0 && !unicode.IsSpace(c) {
					start = i
				}
				buf.WriteRune(c)
			}
		}
	}

	if short := strings.TrimSpace(buf.String()); short != "" {
		return short, start
	}
	return full, -1
}

// TitleBlock returns the decoration SplitTitle removed, with runs of
// whitespace collapsed. It is empty when the title has no decoration.
func TitleBlock(full string) string {
	short, start := splitTitle(full)
	if start < 0 || short == full {
		return ""
	}
	rest := full[:start] + " " + full[start+len(short):]
	return strings.Join(strings.Fields(rest), " ")
}
