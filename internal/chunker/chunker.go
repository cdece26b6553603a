// Package chunker splits document text into overlapping chunks.
//
// Chunking prefers token windows measured with the cl100k_base
// tokenizer. The tokenizer needs its BPE table which may not be
// obtainable in every environment, so availability is probed at
// construction time and the splitter degrades to an identical
// character-window strategy. Strategy failures never surface to
// callers.
package chunker

import (
	"errors"
	"strconv"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultChunkSize is the default window length in tokenizer units.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of overlapping units.
const DefaultChunkOverlap = 100

// encodingName is the reference tokenizer used for token windows.
const encodingName = "cl100k_base"

// minIDPadding is the minimum zero-padding width for chunk ordinals.
const minIDPadding = 4

// strategy turns text into overlapping windows of at most size units,
// advancing max(1, size-overlap) units per window.
type strategy interface {
	split(text string, size, overlap int) ([]string, error)
}

// Splitter splits text into overlapping chunks using the best
// available strategy.
type Splitter struct {
	chunkSize int
	overlap   int
	preferred strategy
	fallback  charStrategy
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in tokenizer units.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in tokenizer units.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options. The token strategy is
// probed here; when the tokenizer cannot be constructed the splitter
// runs on character windows alone.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	if enc, err := tiktoken.GetEncoding(encodingName); err == nil {
		s.preferred = tokenStrategy{enc: enc}
	}

	return s
}

// Split returns the ordered overlapping chunks of text. Empty input
// yields no chunks. The preferred strategy is tried first; any failure
// falls back silently to character windows.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}

	if s.preferred != nil {
		if chunks, err := s.preferred.split(text, s.chunkSize, s.overlap); err == nil {
			return chunks
		}
	}

	chunks, _ := s.fallback.split(text, s.chunkSize, s.overlap)
	return chunks
}

// AssignIDs returns identifiers for n chunks under the given prefix.
// Ordinals are 1-based and zero-padded so identifiers sort in
// insertion order; the width accommodates the largest ordinal, with a
// minimum of four digits.
func AssignIDs(n int, prefix string) []string {
	if n <= 0 {
		return nil
	}

	width := len(strconv.Itoa(n))
	if width < minIDPadding {
		width = minIDPadding
	}

	ids := make([]string, n)
	for i := range ids {
		ordinal := strconv.Itoa(i + 1)
		var b strings.Builder
		b.WriteString(prefix)
		b.WriteByte('-')
		for pad := width - len(ordinal); pad > 0; pad-- {
			b.WriteByte('0')
		}
		b.WriteString(ordinal)
		ids[i] = b.String()
	}
	return ids
}

// step returns the window advance, always at least one unit so the
// scan makes progress even when overlap >= size.
func step(size, overlap int) int {
	if s := size - overlap; s > 1 {
		return s
	}
	return 1
}

// tokenStrategy slides a window over tokenizer tokens and decodes each
// window back to text.
type tokenStrategy struct {
	enc *tiktoken.Tiktoken
}

func (t tokenStrategy) split(text string, size, overlap int) (chunks []string, err error) {
	// The tokenizer is an external library fed arbitrary crawled text;
	// treat a panic as strategy failure rather than crashing ingest.
	defer func() {
		if r := recover(); r != nil {
			chunks, err = nil, errStrategyFailed
		}
	}()

	tokens := t.enc.Encode(text, nil, nil)
	adv := step(size, overlap)

	for start := 0; start < len(tokens); start += adv {
		end := start + size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, t.enc.Decode(tokens[start:end]))
	}
	return chunks, nil
}

// charStrategy is the identical sliding window over runes.
type charStrategy struct{}

func (charStrategy) split(text string, size, overlap int) ([]string, error) {
	runes := []rune(text)
	adv := step(size, overlap)

	var chunks []string
	for start := 0; start < len(runes); start += adv {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks, nil
}

var errStrategyFailed = errors.New("chunking strategy failed")
