package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/execanything/xa/internal/llm"
	"github.com/execanything/xa/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChatter struct {
	responses []string
	err       error
	calls     [][]llm.Message
}

func (f *fakeChatter) Chat(ctx context.Context, messages []llm.Message, onDelta func(string)) (string, error) {
	// Chat mutates the history slice upstream; keep a snapshot per call.
	f.calls = append(f.calls, append([]llm.Message(nil), messages...))
	if f.err != nil {
		return "", f.err
	}
	response := f.responses[len(f.calls)-1]
	if onDelta != nil {
		onDelta(response)
	}
	return response, nil
}

func runSession(t *testing.T, chatter *fakeChatter, entry prompt.Entry, input string) (string, error) {
	t.Helper()
	var out strings.Builder
	session := NewSession(chatter, entry, strings.NewReader(input), &out, zap.NewNop())
	err := session.Run(context.Background())
	return out.String(), err
}

func askEntry() prompt.Entry {
	return prompt.Entry{Template: "{input}"}
}

func TestRun_ExitEndsSession(t *testing.T) {
	chatter := &fakeChatter{}
	out, err := runSession(t, chatter, askEntry(), "exit\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Goodbye!")
	assert.Empty(t, chatter.calls)
}

func TestRun_EndOfInputEndsSession(t *testing.T) {
	chatter := &fakeChatter{}
	_, err := runSession(t, chatter, askEntry(), "")
	require.NoError(t, err)
	assert.Empty(t, chatter.calls)
}

func TestRun_AccumulatesHistoryAcrossTurns(t *testing.T) {
	chatter := &fakeChatter{responses: []string{"four", "eight"}}
	out, err := runSession(t, chatter, askEntry(), "2+2?\ndouble it\nquit\n")
	require.NoError(t, err)

	require.Len(t, chatter.calls, 2)
	require.Len(t, chatter.calls[0], 1)
	assert.Equal(t, "2+2?", chatter.calls[0][0].Content)

	// The second call carries the whole conversation so far.
	require.Len(t, chatter.calls[1], 3)
	assert.Equal(t, llm.RoleUser, chatter.calls[1][0].Role)
	assert.Equal(t, llm.RoleAssistant, chatter.calls[1][1].Role)
	assert.Equal(t, "four", chatter.calls[1][1].Content)
	assert.Equal(t, "double it", chatter.calls[1][2].Content)

	assert.Contains(t, out, "four")
	assert.Contains(t, out, "eight")
}

func TestRun_WrapsInputInTemplate(t *testing.T) {
	chatter := &fakeChatter{responses: []string{"ok"}}
	entry := prompt.Entry{Template: "Answer briefly: {input}"}
	_, err := runSession(t, chatter, entry, "why is the sky blue\nexit\n")
	require.NoError(t, err)

	require.Len(t, chatter.calls, 1)
	assert.Equal(t, "Answer briefly: why is the sky blue", chatter.calls[0][0].Content)
}

func TestRun_SkipsEmptyLines(t *testing.T) {
	chatter := &fakeChatter{responses: []string{"ok"}}
	_, err := runSession(t, chatter, askEntry(), "\n   \nhello\nexit\n")
	require.NoError(t, err)
	require.Len(t, chatter.calls, 1)
}

func TestRun_ClearDropsHistory(t *testing.T) {
	chatter := &fakeChatter{responses: []string{"one", "two"}}
	out, err := runSession(t, chatter, askEntry(), "first\n/clear\nsecond\nexit\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Conversation history cleared.")
	require.Len(t, chatter.calls, 2)
	// After /clear the second exchange starts from scratch.
	require.Len(t, chatter.calls[1], 1)
	assert.Equal(t, "second", chatter.calls[1][0].Content)
}

func TestRun_HistoryCommandPrintsTurns(t *testing.T) {
	chatter := &fakeChatter{responses: []string{"four"}}
	out, err := runSession(t, chatter, askEntry(), "2+2?\n/history\nexit\n")
	require.NoError(t, err)

	assert.Contains(t, out, "[user] 2+2?")
	assert.Contains(t, out, "[assistant] four")
}

func TestRun_HistoryCommandOnEmptySession(t *testing.T) {
	chatter := &fakeChatter{}
	out, err := runSession(t, chatter, askEntry(), "/history\nexit\n")
	require.NoError(t, err)
	assert.Contains(t, out, "No conversation history yet.")
}

func TestRun_FailedTurnSurfacesError(t *testing.T) {
	chatter := &fakeChatter{err: assert.AnError}
	_, err := runSession(t, chatter, askEntry(), "hello\n")
	assert.ErrorIs(t, err, assert.AnError)
}
