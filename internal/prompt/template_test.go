package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFill_InputPlaceholder(t *testing.T) {
	entry := Entry{Template: "Say {input}, then {input} again."}
	assert.Equal(t, "Say hi, then hi again.", entry.Fill("hi", nil))
}

func TestFill_NamedArgs(t *testing.T) {
	entry := Entry{
		Template: "Translate into {target_lang}: {input}",
		Args: []Arg{
			{Name: "target_lang", DefaultValue: "zh"},
		},
	}

	t.Run("uses default when no positional given", func(t *testing.T) {
		assert.Equal(t, "Translate into zh: hello", entry.Fill("hello", nil))
	})

	t.Run("positional overrides default", func(t *testing.T) {
		assert.Equal(t, "Translate into fr: hello", entry.Fill("hello", []string{"fr"}))
	})
}

func TestFill_NumberedArgs(t *testing.T) {
	entry := Entry{Template: "{input} {arg1} {arg2}"}
	assert.Equal(t, "a b c", entry.Fill("a", []string{"b", "c"}))
}

func TestFill_NumberedArgsSkipNamedSlots(t *testing.T) {
	// The first positional feeds the named slot; only the second one is
	// available as {arg2}.
	entry := Entry{
		Template: "{tone} {arg1} {arg2}",
		Args:     []Arg{{Name: "tone", DefaultValue: "neutral"}},
	}
	assert.Equal(t, "casual {arg1} extra", entry.Fill("x", []string{"casual", "extra"}))
}

func TestFill_ArgsCatchAll(t *testing.T) {
	entry := Entry{Template: "{input}: {args}"}
	assert.Equal(t, "do: a b c", entry.Fill("do", []string{"a", "b", "c"}))
}

func TestFill_UnknownPlaceholdersLeftVerbatim(t *testing.T) {
	entry := Entry{Template: "keep {unknown} and {another} alone"}
	assert.Equal(t, "keep {unknown} and {another} alone", entry.Fill("x", nil))
}

func TestFill_NoPlaceholdersIsIdentity(t *testing.T) {
	entry := Entry{Template: "plain text with no placeholders"}
	assert.Equal(t, entry.Template, entry.Fill("ignored", []string{"also", "ignored"}))
}

func TestReorderTranslateArgs(t *testing.T) {
	t.Run("swaps when input is a language code", func(t *testing.T) {
		input, args := ReorderTranslateArgs("translate", "fr", []string{"hello world"})
		assert.Equal(t, "hello world", input)
		assert.Equal(t, []string{"fr"}, args)
	})

	t.Run("joins multiple positionals into the text", func(t *testing.T) {
		input, args := ReorderTranslateArgs("translate", "en", []string{"bonjour", "le", "monde"})
		assert.Equal(t, "bonjour le monde", input)
		assert.Equal(t, []string{"en"}, args)
	})

	t.Run("ignores other commands", func(t *testing.T) {
		input, args := ReorderTranslateArgs("polish", "fr", []string{"hello"})
		assert.Equal(t, "fr", input)
		assert.Equal(t, []string{"hello"}, args)
	})

	t.Run("ignores long or non-alphabetic input", func(t *testing.T) {
		input, _ := ReorderTranslateArgs("translate", "hello", []string{"text"})
		assert.Equal(t, "hello", input)

		input, _ = ReorderTranslateArgs("translate", "f1", []string{"text"})
		assert.Equal(t, "f1", input)
	})

	t.Run("ignores when no positionals", func(t *testing.T) {
		input, args := ReorderTranslateArgs("translate", "fr", nil)
		assert.Equal(t, "fr", input)
		assert.Empty(t, args)
	})
}
