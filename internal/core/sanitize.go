package core

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const invalidFilenameChars = "<>:\"/\\|?*"

// SanitizeFileName turns a show name into a single safe directory name.
// Invalid and control characters collapse into one space, the result is
// NFC normalized, and a name that sanitizes to nothing is an error.
func SanitizeFileName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("name is empty after sanitization")
	}

	name = norm.NFC.String(name)

	var b strings.Builder
	b.Grow(len(name))

	lastSpace := false
	for _, r := range name {
		if r < 32 || r == 127 || strings.ContainsRune(invalidFilenameChars, r) {
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
			continue
		}
		if r == ' ' {
			if lastSpace {
				continue
			}
			lastSpace = true
			b.WriteRune(' ')
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}

	// Trailing dots are rejected by Windows shares.
	result := strings.TrimRight(strings.TrimSpace(b.String()), ".")
	result = strings.TrimSpace(result)
	if result == "" {
		return "", fmt.Errorf("name is empty after sanitization")
	}
	return result, nil
}

// FoldTerm reduces a search term to a comparison key: lower case, accents
// removed, whitespace collapsed.
func FoldTerm(term string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(term))
	if err != nil {
		folded = strings.ToLower(term)
	}
	return strings.Join(strings.Fields(folded), " ")
}
