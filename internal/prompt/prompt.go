// Package prompt manages the named prompt templates that back xa commands:
// persistence of the prompts file, resolution of user-typed command names,
// and filling of templates with input and arguments.
package prompt

import (
	"fmt"
	"os"
	"sort"

	"github.com/execanything/xa/internal/core"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Arg declares a named template argument with a default value.
type Arg struct {
	Name         string `yaml:"name"`
	DefaultValue string `yaml:"default_value"`
	Description  string `yaml:"description,omitempty"`
}

// Entry is a single named prompt template.
type Entry struct {
	Template    string `yaml:"template"`
	Description string `yaml:"description,omitempty"`
	Args        []Arg  `yaml:"args,omitempty"`
}

// Store is the full mapping of command names to prompt entries.
type Store struct {
	Prompts map[string]Entry `yaml:"prompts"`
}

// DefaultStore returns the seeded command set.
func DefaultStore() *Store {
	return &Store{
		Prompts: map[string]Entry{
			"translate": {
				Template:    "You are a professional translator, please translate the following text into natural, idiomatic {target_lang}:\n\n{input}. Avoid output anything else except the final result.",
				Description: "Translate text (default target: zh)",
				Args: []Arg{
					{Name: "target_lang", DefaultValue: "zh", Description: "Target language for translation"},
				},
			},
			"polish": {
				Template:    "You are an expert editor. Please polish the following text to make it more clear, concise, and natural in a {tone} tone:\n\n{input}. Avoid output anything else except the final result.",
				Description: "Polish text for clarity",
				Args: []Arg{
					{Name: "tone", DefaultValue: "professional", Description: "Tone for polishing (e.g., casual, professional, friendly)"},
				},
			},
			"rewrite": {
				Template:    "You are a skilled writer. Please rewrite the following text in a {style} style while preserving the meaning:\n\n{input}. Avoid output anything else except the final result.",
				Description: "Rewrite text in different style",
				Args: []Arg{
					{Name: "style", DefaultValue: "formal", Description: "Writing style for rewrite (e.g., casual, formal, creative)"},
				},
			},
			"summarize": {
				Template:    "You are an expert summarizer. Please provide a concise summary of the following text with a {length} length:\n\n{input}. Avoid output anything else except the final result.",
				Description: "Summarize text",
				Args: []Arg{
					{Name: "length", DefaultValue: "medium", Description: "Summary length (e.g., short, medium, long)"},
				},
			},
			"ask": {
				Template:    "You are a helpful assistant called xa, execute anything by your side. {input}",
				Description: "Interactive conversation mode",
			},
		},
	}
}

// Load reads the prompts file and reconciles it against the default command
// set: defaults absent from the stored document are overlaid, and the merged
// document is persisted only when the overlay changed something. A corrupted
// file is backed up and reseeded.
func Load() (*Store, error) {
	path := core.PromptsFile()

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			store := DefaultStore()
			if saveErr := store.Save(); saveErr != nil {
				return nil, saveErr
			}
			return store, nil
		}
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	store := &Store{}
	if err := yaml.Unmarshal(content, store); err != nil || store.Prompts == nil {
		backupPath := path + ".backup"
		if renameErr := os.Rename(path, backupPath); renameErr != nil {
			return nil, fmt.Errorf("failed to back up corrupted prompts file: %w", renameErr)
		}
		fmt.Fprintf(os.Stderr, "Warning: corrupted prompts file detected. Backed up to %s and reseeded defaults.\n", backupPath)

		store = DefaultStore()
		if saveErr := store.Save(); saveErr != nil {
			return nil, saveErr
		}
		return store, nil
	}

	changed := false
	for name, entry := range DefaultStore().Prompts {
		if _, ok := store.Prompts[name]; !ok {
			store.Prompts[name] = entry
			changed = true
		}
	}

	if changed {
		if err := store.Save(); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// Save writes the store to the prompts file.
func (s *Store) Save() error {
	content, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to serialize prompts: %w", err)
	}

	if err := os.MkdirAll(core.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(core.PromptsFile(), content, 0644); err != nil {
		return fmt.Errorf("failed to write prompts file: %w", err)
	}

	return nil
}

// Names returns the command names in lexicographic order.
func (s *Store) Names() []string {
	names := lo.Keys(s.Prompts)
	sort.Strings(names)
	return names
}

// Add inserts or overwrites a named entry and persists the store.
// Returns true when an existing entry was overwritten.
func (s *Store) Add(name string, entry Entry) (bool, error) {
	_, existed := s.Prompts[name]
	s.Prompts[name] = entry
	if err := s.Save(); err != nil {
		return existed, err
	}
	return existed, nil
}

// Remove deletes a named entry and persists the store.
func (s *Store) Remove(name string) error {
	if _, ok := s.Prompts[name]; !ok {
		return fmt.Errorf("command %q does not exist", name)
	}
	delete(s.Prompts, name)
	return s.Save()
}

// Reset replaces the store contents with the default command set.
func (s *Store) Reset() error {
	s.Prompts = DefaultStore().Prompts
	return s.Save()
}
