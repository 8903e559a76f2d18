package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

func TestParseAnswer_ValidJSON(t *testing.T) {
	raw := `{"extracted_info": ["fact one", "fact two"], "answer": "The answer."}`

	answer := ParseAnswer(raw)
	assert.False(t, answer.Unparsed)
	assert.Equal(t, []string{"fact one", "fact two"}, answer.ExtractedInfo)
	assert.Equal(t, "The answer.", answer.AnswerText)
}

func TestParseAnswer_StripsCodeFences(t *testing.T) {
	raw := "```json\n{\"extracted_info\": [], \"answer\": \"FAILED\"}\n```"

	answer := ParseAnswer(raw)
	assert.False(t, answer.Unparsed)
	assert.True(t, answer.Failed())
	assert.Empty(t, answer.ExtractedInfo)
}

func TestParseAnswer_MalformedJSONDegradesToRaw(t *testing.T) {
	raw := "I could not produce JSON, sorry."

	answer := ParseAnswer(raw)
	assert.True(t, answer.Unparsed)
	assert.Equal(t, raw, answer.AnswerText)
	assert.Equal(t, []string{}, answer.ExtractedInfo)
}

func TestParseAnswer_MissingAnswerFieldDegradesToRaw(t *testing.T) {
	raw := `{"extracted_info": ["orphan fact"]}`

	answer := ParseAnswer(raw)
	assert.True(t, answer.Unparsed)
	assert.Equal(t, []string{}, answer.ExtractedInfo)
}

func TestParseAnswer_NullExtractedInfoBecomesEmpty(t *testing.T) {
	raw := `{"extracted_info": null, "answer": "ok"}`

	answer := ParseAnswer(raw)
	assert.False(t, answer.Unparsed)
	assert.NotNil(t, answer.ExtractedInfo)
	assert.Empty(t, answer.ExtractedInfo)
}

func TestStripJSONMarkdown_EscapedBraces(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, StripJSONMarkdown(`\{"a": 1\}`))
}

func TestBuildContext_OrderAndFormat(t *testing.T) {
	results := []domain.SimilarityResult{
		{Chunk: domain.DocumentChunk{FileName: "guide.pdf", Text: "First chunk."}},
		{Chunk: domain.DocumentChunk{FileName: "notes.txt", Text: "Second chunk."}},
	}

	context := BuildContext(results)
	assert.Equal(t, "0. guide.pdf\nFirst chunk.\n\n1. notes.txt\nSecond chunk.", context)
}

func TestBuildContext_Empty(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
}
