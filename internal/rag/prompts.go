// Package rag implements the prompt/response contract between the chat
// pipeline and the language model: grounding-context assembly, the
// structured answer schema, and the repair policy for malformed model
// output.
package rag

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
)

// FailureMessage is the sentinel the model returns when the reference
// text contains nothing relevant to the question.
const FailureMessage = "FAILED"

// DefaultPrompts are the embedded prompt templates, used when no
// PromptStore is configured and as fallback when a load fails.
// Templates take one %s argument.
var DefaultPrompts = map[string]string{
	driven.PromptAnswer: `You are a helpful question-answering AI. You understand user question and
answer their question using the REFERENCE TEXT below.

You are going to write a JSON, whose TypeScript Interface is given below:

interface Response {
    extracted_info: string[];
    answer: string;
}

For "extracted_info", extract from the REFERENCE TEXT below the most useful
information related to the core question asked by the user, and list them
one by one. If no useful information is found, return an empty list.

For "answer", understand the extracted information and user question, solve
the question step by step, and then provide the answer.
If no useful information was found in REFERENCE TEXT, respond with "FAILED".

EXAMPLE RESPONSES:
{"extracted_info": ["Pineapples are a blend of pinecones and apples.", "Pineapples have the shape of a pinecone."], "answer": "The 'pine-' from pineapples likely come from the fact that pineapples are a hybrid of pinecones and apples and its pinecone-like shape."}
{"extracted_info": [], "answer": "FAILED"}

REFERENCE TEXT:
%s

IMPORTANT NOTES ON THE "answer" FIELD:
- Answer in the language of the question.
- Answer should be concise, to the point, and no longer than 80 words.
- Do not include any information that is not present in the REFERENCE TEXT.`,

	driven.PromptSummarise: `You are a conversation summariser. Read the chat transcript the user
provides and write a summary of a few sentences capturing what has been
discussed so far and what the user currently wants.

The user's newest message, for context, is:
%s

Return ONLY the summary, nothing else.`,

	driven.PromptRefine: `You are a query rewriter. Rewrite the user's message so that it can be
understood without the conversation: replace pronouns and other ambiguous
references with the explicit things they refer to. Do not answer the
message and do not add new information.

CONVERSATION SUMMARY:
%s

Return ONLY the rewritten message, nothing else.`,
}

// BuildContext concatenates retrieved chunks into the grounding context
// string, in input order: "{rank}. {file_name}\n{text}" joined by blank
// lines. Rank is positional, starting at zero.
func BuildContext(results []domain.SimilarityResult) string {
	parts := make([]string, 0, len(results))
	for i, r := range results {
		parts = append(parts, fmt.Sprintf("%d. %s\n%s", i, r.Chunk.FileName, r.Chunk.Text))
	}
	return strings.Join(parts, "\n\n")
}

// LoadPrompt loads a template from the store, falling back to the
// embedded default when the store is nil or the load fails.
func LoadPrompt(store driven.PromptStore, name string) string {
	fallback := DefaultPrompts[name]
	if store == nil {
		return fallback
	}
	prompt, err := store.Load(name)
	if err != nil || strings.TrimSpace(prompt) == "" {
		return fallback
	}
	return prompt
}
