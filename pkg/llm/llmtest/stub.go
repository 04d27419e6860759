// Package llmtest provides a scripted LLMProvider for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/likhit-sai/CogniFlow/pkg/llm"
)

// Stub returns Response (or Err) and records every prompt it receives.
type Stub struct {
	Response string
	Err      error

	mu      sync.Mutex
	Prompts []string
	Options []llm.Options
}

var _ llm.LLMProvider = &Stub{}

func (s *Stub) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := llm.Options{}
	for _, o := range options {
		o(&opts)
	}
	s.mu.Lock()
	if len(history) > 0 {
		s.Prompts = append(s.Prompts, history[len(history)-1].Content)
	}
	s.Options = append(s.Options, opts)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.Response, s.Err
}

func (s *Stub) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}
