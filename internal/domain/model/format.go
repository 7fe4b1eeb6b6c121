package model

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
)

// dateOnlyLayout matches the date prefix of the backend's RFC-3339 timestamps.
const dateOnlyLayout = "2006-01-02"

// FullName joins name parts with a single space, dropping empty parts.
func FullName(first, last string) string {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

// TitleCase renders a snake_case enum value for display:
// "in_progress" becomes "In Progress", "open" becomes "Open".
func TitleCase(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	words := strings.FieldsFunc(v, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// DateOnly truncates an ISO-8601 timestamp to its date part.
// Values shorter than a full date pass through unchanged.
func DateOnly(ts string) string {
	if len(ts) >= len(dateOnlyLayout) {
		return ts[:len(dateOnlyLayout)]
	}
	return ts
}

// InclusiveDays computes the inclusive day span between two ISO dates,
// rounding the millisecond difference to whole days and adding one, with a
// floor of a single day. Unparseable inputs clamp to the floor.
func InclusiveDays(start, end string) int {
	s, err := time.Parse(dateOnlyLayout, DateOnly(start))
	if err != nil {
		return 1
	}
	e, err := time.Parse(dateOnlyLayout, DateOnly(end))
	if err != nil {
		return 1
	}
	const dayMillis = 86_400_000
	diff := float64(e.Sub(s).Milliseconds()) / dayMillis
	days := int(math.Round(diff)) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Money renders a monthly cost for display, e.g. "$123.45".
func Money(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
