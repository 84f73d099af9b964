package slug

import (
	"strings"
	"unicode"
)

// Make converts a display name into a URL-safe slug: lowercase ASCII letters,
// digits and single hyphens. Consecutive separators collapse into one hyphen
// and leading/trailing hyphens are trimmed.
func Make(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r), r == '-', r == '_', r == '/', r == '&', r == '+':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
		// Any other rune (punctuation, accents) is dropped.
	}
	return strings.TrimRight(b.String(), "-")
}
