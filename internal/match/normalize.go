package match

import "strings"

// Normalize converts raw answer text into its canonical comparable form:
// lowercase, letters/digits/whitespace only, single-spaced, trimmed.
// Idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	lower := strings.ToLower(raw)

	var b strings.Builder
	b.Grow(len(lower))
	space := false
	for _, r := range lower {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			space = true
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		default:
			// stripped
		}
	}
	return b.String()
}

// cleanText is the light form used for option comparison: lowercase and trim
// only, punctuation preserved.
func cleanText(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// stripChars removes every rune in cutset from s.
func stripChars(s, cutset string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !strings.ContainsRune(cutset, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
