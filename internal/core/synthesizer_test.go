package core_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/supriyakanse/agent-email-query/internal/core"
)

func scored(id, text string) core.ScoredDocument {
	return core.ScoredDocument{Document: core.Document{ID: id, Text: text}}
}

func TestSynthesizeEmptyResultsSkipsGeneration(t *testing.T) {
	gen := &fakeGenerator{response: "should never be used"}
	s := core.NewSynthesizer(gen, 0, 0.2, zap.NewNop())

	answer, included, err := s.Synthesize(context.Background(), "anything?", nil)
	require.NoError(t, err)
	assert.Equal(t, core.NoRelevantEmailsAnswer, answer)
	assert.Zero(t, included)
	assert.Zero(t, gen.calls)
}

func TestSynthesizePromptContainsContextAndQuestion(t *testing.T) {
	gen := &fakeGenerator{response: "The meeting is at 3pm."}
	s := core.NewSynthesizer(gen, 0, 0.2, zap.NewNop())

	answer, included, err := s.Synthesize(context.Background(), "When is the meeting?", []core.ScoredDocument{
		scored("meeting", "Sender: alice@example.com\nSubject: Meeting\n\nMeeting at 3pm"),
	})
	require.NoError(t, err)
	assert.Equal(t, "The meeting is at 3pm.", answer)
	assert.Equal(t, 1, included)
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.lastPrompt, "Meeting at 3pm")
	assert.Contains(t, gen.lastPrompt, "Question: When is the meeting?")
	assert.Contains(t, gen.lastPrompt, "--- Email 1 ---")
}

func TestSynthesizeBudgetDropsWholeDocuments(t *testing.T) {
	gen := &fakeGenerator{response: "ok"}
	docA := scored("a", strings.Repeat("A", 100))
	docB := scored("b", strings.Repeat("B", 100))
	docC := scored("c", strings.Repeat("C", 100))

	// Each rendered block is a bit over 100 bytes, so a 250 byte budget
	// fits exactly two documents.
	s := core.NewSynthesizer(gen, 250, 0.2, zap.NewNop())

	_, included, err := s.Synthesize(context.Background(), "q", []core.ScoredDocument{docA, docB, docC})
	require.NoError(t, err)

	assert.Equal(t, 2, included)
	assert.Contains(t, gen.lastPrompt, docA.Document.Text)
	assert.Contains(t, gen.lastPrompt, docB.Document.Text)
	// Documents are dropped whole, never cut mid-text
	assert.NotContains(t, gen.lastPrompt, "CC")
}

func TestSynthesizeUnboundedBudgetIncludesEverything(t *testing.T) {
	gen := &fakeGenerator{response: "ok"}
	s := core.NewSynthesizer(gen, 0, 0.2, zap.NewNop())

	_, included, err := s.Synthesize(context.Background(), "q", []core.ScoredDocument{
		scored("a", "first"), scored("b", "second"), scored("c", "third"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, included)
}

func TestSynthesizeTopDocumentAlwaysIncluded(t *testing.T) {
	gen := &fakeGenerator{response: "ok"}
	top := scored("top", strings.Repeat("X", 500))

	s := core.NewSynthesizer(gen, 10, 0.2, zap.NewNop())

	_, included, err := s.Synthesize(context.Background(), "q", []core.ScoredDocument{top})
	require.NoError(t, err)
	assert.Equal(t, 1, included)
	assert.Contains(t, gen.lastPrompt, top.Document.Text)
}

func TestSynthesizeTrimsAnswerWhitespace(t *testing.T) {
	gen := &fakeGenerator{response: "\n  The answer.  \n"}
	s := core.NewSynthesizer(gen, 0, 0.2, zap.NewNop())

	answer, _, err := s.Synthesize(context.Background(), "q", []core.ScoredDocument{scored("a", "text")})
	require.NoError(t, err)
	assert.Equal(t, "The answer.", answer)
}

func TestSynthesizeGeneratorFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model overloaded")}
	s := core.NewSynthesizer(gen, 0, 0.2, zap.NewNop())

	_, _, err := s.Synthesize(context.Background(), "q", []core.ScoredDocument{scored("a", "text")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate answer")
	assert.Contains(t, err.Error(), "model overloaded")
}
