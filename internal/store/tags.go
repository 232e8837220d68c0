package store

import (
	"fmt"
	"strings"
	"time"
)

// SanitizeTag reduces a tag to lowercase ASCII alphanumerics and hyphens:
// whitespace becomes a hyphen, repeated separators collapse, and leading or
// trailing hyphens are trimmed. It is idempotent.
func SanitizeTag(tag string) string {
	var out strings.Builder
	lastDash := false

	for _, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out.WriteRune(r)
			lastDash = false
		case r >= 'A' && r <= 'Z':
			out.WriteRune(r + ('a' - 'A'))
			lastDash = false
		case r == '-' || r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if !lastDash {
				out.WriteRune('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(out.String(), "-")
}

// FallbackTag builds a deterministic tag from the first four words of the
// note, lowercased and hyphen-joined, or "untagged" when the note has no
// words.
func FallbackTag(note string) string {
	words := strings.Fields(note)
	if len(words) > 4 {
		words = words[:4]
	}
	if len(words) == 0 {
		return "untagged"
	}
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "-")
}

// EnsureUniqueTag deduplicates a candidate against the case-folded set of
// existing tags by appending -2 through -99; if all of those are taken the
// current timestamp is appended instead.
func EnsureUniqueTag(tag string, existing map[string]struct{}) string {
	if _, taken := existing[strings.ToLower(tag)]; !taken {
		return tag
	}

	for i := 2; i <= 99; i++ {
		candidate := fmt.Sprintf("%s-%d", tag, i)
		if _, taken := existing[strings.ToLower(candidate)]; !taken {
			return candidate
		}
	}

	return fmt.Sprintf("%s-%d", tag, time.Now().UnixMilli())
}
