package core_test

import (
	"context"
	"strings"
	"time"

	"github.com/supriyakanse/agent-email-query/internal/core"
)

// fakeEmbedder returns fixed vectors for known texts and records every
// batch it is asked to embed.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
	batches [][]string
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batches = append(f.batches, texts)
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := f.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 1}
		}
	}
	return out, nil
}

// keywordEmbedder produces one vector component per keyword, set when the
// text mentions it. Texts about the same topic therefore embed close
// together, which is all the ranking tests need.
type keywordEmbedder struct {
	keywords []string
}

func (f *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		vec := make([]float32, len(f.keywords)+1)
		for j, kw := range f.keywords {
			if strings.Contains(lower, kw) {
				vec[j] = 1
			}
		}
		// Keep vectors away from zero so cosine similarity stays defined
		vec[len(f.keywords)] = 0.1
		out[i] = vec
	}
	return out, nil
}

type fakeGenerator struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, _ float32) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeSource struct {
	messages []core.RawMessage
	err      error
}

func (f *fakeSource) Fetch(_ context.Context, _, _ time.Time) ([]core.RawMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.messages, nil
}
