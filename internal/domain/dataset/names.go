package dataset

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// NormalizeName folds case and drops whitespace, hyphens and underscores so
// that "Hans Sama", "hans-sama" and "HANS_SAMA" resolve to one key.
func NormalizeName(name string) string {
	folded := cases.Fold().String(name)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			return -1
		}
		return r
	}, folded)
}

// PlayerID derives the stable slug used to group a player's cards: lower
// case, whitespace runs become a single hyphen, anything outside
// [a-z0-9-] is dropped.
func PlayerID(name string) string {
	lowered := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lowered))
	inSpace := false
	for _, r := range lowered {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('-')
				inSpace = true
			}
			continue
		}
		inSpace = false
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
