package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
)

// stubEmbedder returns canned vectors by exact text lookup; unknown
// texts get a constant fallback vector.
type stubEmbedder struct {
	dim     int
	vectors map[string][]float32
	err     error
	calls   []string
}

func newStubEmbedder(dim int) *stubEmbedder {
	return &stubEmbedder{dim: dim, vectors: make(map[string][]float32)}
}

func (s *stubEmbedder) set(text string, vec []float32) { s.vectors[text] = vec }

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.calls = append(s.calls, text)
	if vec, ok := s.vectors[text]; ok {
		return vec, nil
	}
	vec := make([]float32, s.dim)
	vec[0] = 1
	return vec, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int            { return s.dim }
func (s *stubEmbedder) ModelName() string          { return "stub-embed" }
func (s *stubEmbedder) Ping(context.Context) error { return nil }
func (s *stubEmbedder) Close() error               { return nil }

// stubLLM pops scripted responses in call order. An empty script
// errors, err short-circuits every call, and errsFirst fails the
// first N calls before the script starts.
type stubLLM struct {
	responses []string
	err       error
	errsFirst int

	// systems records the system prompt of every call.
	systems []string
	// users records the user message of every call.
	users []string
}

func (s *stubLLM) Complete(_ context.Context, system, user string, _ driven.CompleteOptions) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.errsFirst > 0 {
		s.errsFirst--
		return "", fmt.Errorf("stub llm: scripted failure")
	}
	s.systems = append(s.systems, system)
	s.users = append(s.users, user)
	if len(s.responses) == 0 {
		return "", fmt.Errorf("stub llm: script exhausted")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func (s *stubLLM) ModelName() string          { return "stub-llm" }
func (s *stubLLM) Ping(context.Context) error { return nil }
func (s *stubLLM) Close() error               { return nil }

// stubReranker scores candidates by lookup; unknown texts score zero.
type stubReranker struct {
	scores map[string]float64
	err    error
	calls  int
}

func (s *stubReranker) Score(_ context.Context, _ string, texts []string) ([]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]float64, len(texts))
	for i, t := range texts {
		out[i] = s.scores[t]
	}
	return out, nil
}

func (s *stubReranker) ModelName() string          { return "stub-rerank" }
func (s *stubReranker) Ping(context.Context) error { return nil }
func (s *stubReranker) Close() error               { return nil }

// answerJSON builds a well-formed model answer for scripts.
func answerJSON(answer string, info ...string) string {
	out := `{"extracted_info": [`
	for i, s := range info {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%q", s)
	}
	return out + fmt.Sprintf(`], "answer": %q}`, answer)
}

// testChunk builds a chunk with an embedding for retrieval tests.
func testChunk(fileID, fileName string, chunkID int, text string, vec []float32) domain.DocumentChunk {
	return domain.DocumentChunk{
		FileID:    fileID,
		FileName:  fileName,
		ChunkID:   chunkID,
		Text:      text,
		Embedding: vec,
	}
}
