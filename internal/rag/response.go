package rag

import (
	"encoding/json"
	"strings"
)

// Answer is the structured model output for a grounded question.
//
// The contract is a strict tagged schema with an explicit fallback:
// when Unparsed is false the model's JSON validated and ExtractedInfo/
// AnswerText carry its fields; when Unparsed is true the model output
// failed validation and AnswerText carries the raw text verbatim with
// ExtractedInfo empty. An imperfect answer beats a failed request in a
// user-facing chat, so parsing never errors.
type Answer struct {
	ExtractedInfo []string
	AnswerText    string
	Unparsed      bool
}

// rawAnswer is the wire schema the model is instructed to emit.
type rawAnswer struct {
	ExtractedInfo []string `json:"extracted_info"`
	Answer        string   `json:"answer"`
}

// ParseAnswer validates raw model output against the answer schema,
// repairing what it can. Markdown code fences are stripped before
// parsing; anything that still fails validation degrades to the
// Unparsed variant.
func ParseAnswer(raw string) Answer {
	trimmed := StripJSONMarkdown(raw)

	var parsed rawAnswer
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return Answer{ExtractedInfo: []string{}, AnswerText: trimmed, Unparsed: true}
	}
	if parsed.Answer == "" {
		return Answer{ExtractedInfo: []string{}, AnswerText: trimmed, Unparsed: true}
	}

	info := parsed.ExtractedInfo
	if info == nil {
		info = []string{}
	}
	return Answer{ExtractedInfo: info, AnswerText: parsed.Answer}
}

// Failed reports whether the model signalled that the reference text
// contained nothing relevant.
func (a Answer) Failed() bool {
	return a.AnswerText == FailureMessage
}

// StripJSONMarkdown removes a markdown code-fence wrapper and escaped
// braces from model output.
func StripJSONMarkdown(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, `\{`, "{")
	s = strings.ReplaceAll(s, `\}`, "}")
	return s
}
