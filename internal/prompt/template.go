package prompt

import (
	"fmt"
	"strings"
	"unicode"
)

// Fill substitutes the entry's template placeholders:
//
//  1. every {input} occurrence with the primary input, verbatim;
//  2. each declared named argument at position i with the positional
//     argument at index i, or its default when absent;
//  3. numbered {argN} placeholders (one-indexed over the full positional
//     list) for positionals not consumed by a named-argument slot;
//  4. the catch-all {args} with all positionals joined by single spaces.
//
// Unknown placeholders are left untouched.
func (e Entry) Fill(input string, args []string) string {
	result := strings.ReplaceAll(e.Template, "{input}", input)

	for i, arg := range e.Args {
		value := arg.DefaultValue
		if i < len(args) {
			value = args[i]
		}
		result = strings.ReplaceAll(result, "{"+arg.Name+"}", value)
	}

	for i, value := range args {
		if i < len(e.Args) {
			continue
		}
		result = strings.ReplaceAll(result, fmt.Sprintf("{arg%d}", i+1), value)
	}

	if strings.Contains(result, "{args}") {
		result = strings.ReplaceAll(result, "{args}", strings.Join(args, " "))
	}

	return result
}

// ReorderTranslateArgs is the special-case pre-processing step for the
// translate command: when the input looks like a bare language code and a
// positional argument carries the actual text, swap the two so that the
// positional text becomes the input and the code becomes the sole
// target-language argument.
//
// This is a hand-tuned heuristic and intentionally scoped to one command so
// the generic filling path stays free of it.
func ReorderTranslateArgs(command string, input string, args []string) (string, []string) {
	if command != "translate" || len(args) == 0 || !looksLikeLanguageCode(input) {
		return input, args
	}
	return strings.Join(args, " "), []string{input}
}

// looksLikeLanguageCode reports whether s is a 2-3 letter alphabetic token.
func looksLikeLanguageCode(s string) bool {
	if len(s) < 2 || len(s) > 3 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
