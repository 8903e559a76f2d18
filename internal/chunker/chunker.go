// Package chunker splits raw document bytes into text chunks.
//
// Two policies apply, selected by format detection: PDF documents yield
// one chunk per page (page boundaries are semantic units), everything
// else is treated as UTF-8 text and split into fixed-size windows.
package chunker

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

// DefaultWindowSize is the number of characters per plain-text chunk.
const DefaultWindowSize = 1000

// pdfSignature marks the start of a PDF byte stream.
var pdfSignature = []byte("%PDF-")

// Chunker parses uploaded files into ordered text chunks.
type Chunker struct {
	windowSize int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithWindowSize sets the plain-text window size in runes.
func WithWindowSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.windowSize = size
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{windowSize: DefaultWindowSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parse splits file bytes into chunks. Chunk order is the zero-based
// chunk id. Returns domain.ErrUnsupportedFormat when the content is
// neither a PDF nor decodable text, and domain.ErrEmptyContent when no
// non-whitespace text is extracted.
func (c *Chunker) Parse(data []byte) ([]string, error) {
	if bytes.HasPrefix(data, pdfSignature) {
		return c.parsePDF(data)
	}
	return c.parseText(data)
}

// parsePDF extracts one chunk per page, trimmed, skipping empty pages.
func (c *Chunker) parsePDF(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedFormat, err)
	}

	var chunks []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		text = strings.TrimSpace(text)
		if text != "" {
			chunks = append(chunks, text)
		}
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: PDF contains no extractable text", domain.ErrEmptyContent)
	}
	return chunks, nil
}

// parseText splits UTF-8 text into fixed-size non-overlapping rune
// windows. The last window may be shorter.
func (c *Chunker) parseText(data []byte) ([]string, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8 text", domain.ErrUnsupportedFormat)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text file is empty", domain.ErrEmptyContent)
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)/c.windowSize)+1)
	for start := 0; start < len(runes); start += c.windowSize {
		end := start + c.windowSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks, nil
}
