package service

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// slugify lower-cases s and joins its alphanumeric runs with hyphens.
func slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	return b.String()
}

// uniqueSlug appends a short random suffix so posts with equal titles do
// not collide on the unique slug index.
func uniqueSlug(title string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	base := slugify(title)
	if base == "" {
		return suffix
	}
	if r := []rune(base); len(r) > 80 {
		base = strings.TrimRight(string(r[:80]), "-")
	}
	return base + "-" + suffix
}
