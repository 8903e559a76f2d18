package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/logger"
	"github.com/custodia-labs/docuchat/internal/rag"
)

// Refinement is the outcome of refining a user message against the
// conversation so far.
type Refinement struct {
	// Message is the text the retrieval pipeline should use.
	Message string

	// Original is set when Message differs from the raw input.
	Original *string

	// Summary is the session summary the rewrite was grounded on.
	Summary *string
}

// Refiner rewrites follow-up messages into standalone queries.
//
// A follow-up like "how do I configure it?" embeds poorly on its own;
// the refiner summarises the conversation and rewrites the message
// against that summary so pronouns resolve. Refinement is best-effort:
// any model failure falls back to the raw message, because a chat turn
// must never fail on an optional quality stage.
type Refiner struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewRefiner creates a refiner. The prompt store may be nil, in which
// case embedded default prompts are used.
func NewRefiner(llm driven.LLMService, prompts driven.PromptStore) *Refiner {
	return &Refiner{llm: llm, prompts: prompts}
}

// Refine rewrites message against the conversation history. The first
// turn of a conversation passes through untouched.
func (r *Refiner) Refine(ctx context.Context, history domain.ChatHistory, message string) Refinement {
	raw := Refinement{Message: message}
	if len(history) == 0 {
		return raw
	}

	summary, err := r.summarise(ctx, history, message)
	if err != nil {
		logger.Warn("History summarisation failed, using raw message: %v", err)
		return raw
	}
	// The summary survives a failed rewrite: it was produced from the
	// history alone and still belongs on the persisted request.
	raw.Summary = &summary

	refined, err := r.rewrite(ctx, summary, message)
	if err != nil {
		logger.Warn("Message refinement failed, using raw message: %v", err)
		return raw
	}
	if refined == "" || refined == message {
		return raw
	}

	logger.Debug("Refined message: %q -> %q", message, refined)
	original := message
	return Refinement{Message: refined, Original: &original, Summary: &summary}
}

// summarise condenses the history into a short session summary.
func (r *Refiner) summarise(ctx context.Context, history domain.ChatHistory, newest string) (string, error) {
	system := fmt.Sprintf(rag.LoadPrompt(r.prompts, driven.PromptSummarise), newest)
	summary, err := r.llm.Complete(ctx, system, Transcript(history), driven.CompleteOptions{
		MaxTokens:   512,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("summarise history: %w", err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("summarise history: empty summary")
	}
	return summary, nil
}

// rewrite resolves pronouns in the message against the summary.
func (r *Refiner) rewrite(ctx context.Context, summary, message string) (string, error) {
	system := fmt.Sprintf(rag.LoadPrompt(r.prompts, driven.PromptRefine), summary)
	refined, err := r.llm.Complete(ctx, system, message, driven.CompleteOptions{
		MaxTokens:   512,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("rewrite message: %w", err)
	}
	return strings.TrimSpace(refined), nil
}

// Transcript renders a history as alternating "Human:"/"AI:" lines for
// prompting.
func Transcript(history domain.ChatHistory) string {
	var b strings.Builder
	for _, turn := range history {
		switch {
		case turn.Request != nil:
			fmt.Fprintf(&b, "Human: %s\n", turn.Request.Message)
		case turn.Response != nil:
			fmt.Fprintf(&b, "AI: %s\n", turn.Response.Response)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
