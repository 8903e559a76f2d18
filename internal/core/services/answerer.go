package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/logger"
	"github.com/custodia-labs/docuchat/internal/rag"
)

// answerMaxTokens bounds the generation stage; the prompt caps answers
// at roughly 80 words anyway.
const answerMaxTokens = 1024

// answerer runs the grounded generation stage.
type answerer struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// generate builds the grounding context from the retrieved chunks,
// calls the model, and validates its output against the answer schema.
func (a *answerer) generate(ctx context.Context, query string, results []domain.SimilarityResult) (rag.Answer, error) {
	system := fmt.Sprintf(rag.LoadPrompt(a.prompts, driven.PromptAnswer), rag.BuildContext(results))

	raw, err := a.llm.Complete(ctx, system, query, driven.CompleteOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return rag.Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	answer := rag.ParseAnswer(raw)
	if answer.Unparsed {
		logger.Warn("Model output failed schema validation, returning raw text")
	}
	if answer.Failed() {
		logger.Info("Model found nothing relevant in %d retrieved chunks", len(results))
	}
	return answer, nil
}
