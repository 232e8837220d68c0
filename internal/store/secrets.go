package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/execanything/xa/internal/llm"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Completer is the text-generation boundary the store depends on. Both
// tagging and retrieval send one prompt and expect one full response.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Manager runs the add and search operations over the store file.
type Manager struct {
	completer Completer
	logger    *zap.Logger
}

// NewManager creates a manager backed by the given completer.
func NewManager(completer Completer, logger *zap.Logger) *Manager {
	return &Manager{completer: completer, logger: logger}
}

type tagResponse struct {
	Tag    string `json:"tag"`
	Reason string `json:"reason,omitempty"`
}

type searchResponse struct {
	Found  bool   `json:"found"`
	ID     *int64 `json:"id"`
	Reason string `json:"reason,omitempty"`
}

// Masked is a store entry with the secret replaced by an opaque placeholder,
// safe to include in prompts and listings.
type Masked struct {
	ID                int64  `json:"id"`
	Tag               string `json:"tag"`
	Note              string `json:"note"`
	CreatedAt         string `json:"created_at"`
	SecretPlaceholder string `json:"secret_placeholder"`
}

// Add stores a secret under a model-generated tag and returns the tag.
// An unusable model response falls back to a deterministic tag derived from
// the note; the final tag is always unique within the store.
func (m *Manager) Add(ctx context.Context, secret string, note string) (string, error) {
	secret = strings.TrimSpace(secret)
	note = strings.TrimSpace(note)

	if secret == "" {
		return "", errors.New("secret cannot be empty")
	}
	if note == "" {
		return "", errors.New("note cannot be empty")
	}

	file, err := LoadFile()
	if err != nil {
		return "", err
	}

	existing := make(map[string]struct{}, len(file.Entries))
	for _, entry := range file.Entries {
		existing[strings.ToLower(entry.Tag)] = struct{}{}
	}

	tag := ""
	response, err := m.completer.Complete(ctx, buildTagPrompt(note, existing))
	if err != nil {
		return "", err
	}
	if parsed, ok := llm.ExtractJSON[tagResponse](response); ok {
		tag = parsed.Tag
	} else {
		m.logger.Warn("unparseable tag response, using fallback tag", zap.String("response", response))
	}

	tag = SanitizeTag(tag)
	if tag == "" {
		tag = FallbackTag(note)
	}
	tag = EnsureUniqueTag(tag, existing)

	now := time.Now()
	file.Entries = append(file.Entries, Entry{
		ID:        now.UnixMilli(),
		Tag:       tag,
		Note:      note,
		Secret:    secret,
		CreatedAt: now.Format(time.RFC3339),
	})

	if err := file.Save(); err != nil {
		return "", err
	}

	m.logger.Info("stored secret", zap.String("tag", tag))
	return tag, nil
}

// Search resolves a natural-language query to a stored secret. The model
// only ever sees masked entries. Any parse failure, a found=false answer,
// or an id that does not exist in the store all yield the same not-found
// outcome.
func (m *Manager) Search(ctx context.Context, query string) (string, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false, errors.New("query cannot be empty")
	}

	file, err := LoadFile()
	if err != nil {
		return "", false, err
	}
	if len(file.Entries) == 0 {
		return "", false, nil
	}

	response, err := m.completer.Complete(ctx, buildSearchPrompt(query, maskEntries(file.Entries)))
	if err != nil {
		return "", false, err
	}

	parsed, ok := llm.ExtractJSON[searchResponse](response)
	if !ok {
		m.logger.Warn("unparseable search response", zap.String("response", response))
		return "", false, nil
	}
	if !parsed.Found || parsed.ID == nil {
		return "", false, nil
	}

	// Reveal only authentic ids. A hallucinated id falls through to
	// not-found without comment.
	for _, entry := range file.Entries {
		if entry.ID == *parsed.ID {
			return entry.Secret, true, nil
		}
	}
	m.logger.Warn("search response referenced unknown id", zap.Int64("id", *parsed.ID))
	return "", false, nil
}

// Tags returns the masked entries in storage order, for listings that must
// not expose secret values.
func Tags() ([]Masked, error) {
	file, err := LoadFile()
	if err != nil {
		return nil, err
	}
	return maskEntries(file.Entries), nil
}

func maskEntries(entries []Entry) []Masked {
	return lo.Map(entries, func(e Entry, _ int) Masked {
		return Masked{
			ID:                e.ID,
			Tag:               e.Tag,
			Note:              e.Note,
			CreatedAt:         e.CreatedAt,
			SecretPlaceholder: fmt.Sprintf("SECRET_%d", e.ID),
		}
	})
}

func buildTagPrompt(note string, existing map[string]struct{}) string {
	tags := lo.Keys(existing)
	sort.Strings(tags)

	return fmt.Sprintf(`You generate short, memorable tags for secret notes.

Rules:
- Return JSON only.
- JSON schema: {"tag": string, "reason": string}.
- tag must be 2-4 words max, lowercase, use hyphens instead of spaces.
- tag must not include any sensitive data (only use the note).
- tag must not duplicate existing tags.

Existing tags: %s

Note: %s

Return JSON only.`, strings.Join(tags, ", "), note)
}

func buildSearchPrompt(query string, masked []Masked) string {
	entriesJSON, err := json.MarshalIndent(masked, "", "  ")
	if err != nil {
		entriesJSON = []byte("[]")
	}

	return fmt.Sprintf(`You are a secret locator. Given a user query and a list of entries, find the best matching entry.

Rules:
- Return JSON only.
- JSON schema: {"found": boolean, "id": number|null, "reason": string}.
- If nothing matches well, set found=false and id=null.
- Do not invent ids.

Entries (secret is placeholder only):
%s

Query: %s

Return JSON only.`, entriesJSON, query)
}
