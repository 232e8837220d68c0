package prompt

import (
	"fmt"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Resolve maps a user-typed command name to a canonical command name.
// Resolution order: exact match, unique prefix match, best fuzzy match.
// An ambiguous prefix lists the candidates on stderr and resolves to
// nothing. The empty string means no match.
func (s *Store) Resolve(input string) string {
	if _, ok := s.Prompts[input]; ok {
		return input
	}

	names := s.Names()

	var prefixMatches []string
	for _, name := range names {
		if strings.HasPrefix(name, input) {
			prefixMatches = append(prefixMatches, name)
		}
	}
	if len(prefixMatches) == 1 {
		return prefixMatches[0]
	}
	if len(prefixMatches) > 1 {
		fmt.Fprintf(os.Stderr, "Ambiguous command %q. Did you mean one of: %s?\n", input, strings.Join(prefixMatches, ", "))
		return ""
	}

	// Only a strictly positive score counts as a reasonable match, and
	// ties resolve to the lexicographically smallest name.
	best := ""
	bestScore := 0
	for _, match := range fuzzy.Find(input, names) {
		if match.Score <= 0 {
			continue
		}
		if best == "" || match.Score > bestScore || (match.Score == bestScore && match.Str < best) {
			best = match.Str
			bestScore = match.Score
		}
	}
	return best
}
