package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// NoRelevantEmailsAnswer is returned for queries that retrieved nothing.
// It is produced without a generation call so the model cannot invent an
// answer from an empty context.
const NoRelevantEmailsAnswer = "No relevant emails found for this question."

const promptFormat = `You are an intelligent email assistant. Answer the user's question based only on the provided email context.
Be concise, accurate, and helpful. If the context does not contain enough information to answer the question, say so explicitly.
When counting or listing emails, be specific and accurate based on the provided context.

Context (Retrieved Emails):
%s

Question: %s

Answer:`

// Synthesizer assembles retrieved documents into a bounded context block,
// builds the generation prompt, and invokes the generation capability once.
type Synthesizer struct {
	generator     Generator
	contextBudget int
	temperature   float32
	logger        *zap.Logger
}

// NewSynthesizer creates a new Synthesizer. contextBudget is the maximum
// number of bytes of rendered context allowed into the prompt; zero or
// negative means unbounded.
func NewSynthesizer(generator Generator, contextBudget int, temperature float32, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		generator:     generator,
		contextBudget: contextBudget,
		temperature:   temperature,
		logger:        logger,
	}
}

// Synthesize produces an answer for the query from the retrieved documents.
// It also reports how many of the ranked documents made it into the
// generation context, so callers can attribute the answer to exactly those.
// Retry policy is the caller's concern; a generation failure is returned as is.
func (s *Synthesizer) Synthesize(ctx context.Context, queryText string, results []ScoredDocument) (string, int, error) {
	if len(results) == 0 {
		s.logger.Debug("No retrieval results, skipping generation")
		return NoRelevantEmailsAnswer, 0, nil
	}

	contextBlock, included := s.buildContext(results)
	if included < len(results) {
		s.logger.Debug("Context budget exceeded, dropped lowest-ranked documents",
			zap.Int("included", included),
			zap.Int("retrieved", len(results)))
	}

	prompt := fmt.Sprintf(promptFormat, contextBlock, queryText)

	answer, err := s.generator.Generate(ctx, prompt, s.temperature)
	if err != nil {
		return "", 0, fmt.Errorf("generate answer: %w", err)
	}
	return strings.TrimSpace(answer), included, nil
}

// buildContext renders the documents in ranked order, each with a labeled
// delimiter, and stops before the document that would exceed the budget.
// Documents are dropped whole, never cut mid-text, and the top-ranked
// document is always included. Returns the block and how many documents
// made it in.
func (s *Synthesizer) buildContext(results []ScoredDocument) (string, int) {
	var b strings.Builder
	included := 0
	for i, r := range results {
		block := fmt.Sprintf("\n--- Email %d ---\n%s\n", i+1, r.Document.Text)
		if s.contextBudget > 0 && included > 0 && b.Len()+len(block) > s.contextBudget {
			break
		}
		b.WriteString(block)
		included++
	}
	return b.String(), included
}
