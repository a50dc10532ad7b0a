package helpers

import (
	"errors"
	"net/url"
	"strings"
	"unicode"
)

// CollapseWhitespace trims a string and collapses internal whitespace runs
// into single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TitleCase upper-cases the first letter of every word, lower-casing the
// rest, e.g. "NEW delhi" -> "New Delhi".
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// ResolveURL resolves href against base, returning href unchanged when it is
// already absolute or when base cannot be parsed.
func ResolveURL(base string, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

// GetSplitPart splits target around separate and returns the part at index.
func GetSplitPart(target string, separate string, index int) (string, error) {
	parts := strings.Split(target, separate)
	if index >= len(parts) {
		return "", errors.New("index out of range")
	}
	return parts[index], nil
}
