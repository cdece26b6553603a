package chunker

import (
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		s := New()
		if s.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, s.chunkSize)
		}
		if s.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, s.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		s := New(WithChunkSize(250))
		if s.chunkSize != 250 {
			t.Errorf("expected chunkSize 250, got %d", s.chunkSize)
		}
	})

	t.Run("custom overlap", func(t *testing.T) {
		s := New(WithOverlap(50))
		if s.overlap != 50 {
			t.Errorf("expected overlap 50, got %d", s.overlap)
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		s := New(WithChunkSize(0), WithOverlap(-1))
		if s.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", s.chunkSize)
		}
		if s.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", s.overlap)
		}
	})
}

// charSplitter returns a splitter pinned to the character strategy so
// tests do not depend on tokenizer availability.
func charSplitter(opts ...Option) *Splitter {
	s := New(opts...)
	s.preferred = nil
	return s
}

func TestSplitter_Split_EmptyText(t *testing.T) {
	s := charSplitter()
	if chunks := s.Split(""); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty text, got %d", len(chunks))
	}
}

func TestSplitter_Split_SmallText(t *testing.T) {
	s := charSplitter(WithChunkSize(100), WithOverlap(20))
	text := "This is a small piece of content."

	chunks := s.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for small text, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("expected chunk to equal input text")
	}
}

func TestSplitter_Split_OverlapExact(t *testing.T) {
	s := charSplitter(WithChunkSize(10), WithOverlap(3))

	// Step is 7: windows 0-9, 7-16, 14-19.
	chunks := s.Split("0123456789ABCDEFGHIJ")
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0] != "0123456789" {
		t.Errorf("unexpected first chunk %q", chunks[0])
	}
	if chunks[1] != "789ABCDEFG" {
		t.Errorf("unexpected second chunk %q", chunks[1])
	}
	if chunks[2] != "EFGHIJ" {
		t.Errorf("unexpected last chunk %q", chunks[2])
	}

	// Consecutive chunks overlap by exactly the configured amount.
	if got := chunks[0][7:]; got != chunks[1][:3] {
		t.Errorf("expected 3-unit overlap, got %q vs %q", got, chunks[1][:3])
	}
}

func TestSplitter_Split_CoversText(t *testing.T) {
	s := charSplitter(WithChunkSize(50), WithOverlap(10))
	text := strings.Repeat("abcdefghij", 30)

	chunks := s.Split(text)
	if len(chunks) == 0 {
		t.Fatal("expected chunks for non-empty text")
	}

	// Every chunk is the window starting at i*step, and the windows
	// jointly cover the whole text.
	for i, c := range chunks {
		start := i * 40
		end := start + 50
		if end > len(text) {
			end = len(text)
		}
		if c != text[start:end] {
			t.Fatalf("chunk %d is not the expected window", i)
		}
	}
	last := chunks[len(chunks)-1]
	if (len(chunks)-1)*40+len(last) != len(text) {
		t.Error("chunks do not cover the original text")
	}
}

func TestSplitter_Split_OverlapExceedsSize(t *testing.T) {
	// Overlap >= size must still terminate, advancing one unit per chunk.
	s := charSplitter(WithChunkSize(3), WithOverlap(5))

	chunks := s.Split("abcdef")
	if len(chunks) != 6 {
		t.Fatalf("expected 6 chunks with unit step, got %d", len(chunks))
	}
	if chunks[0] != "abc" || chunks[1] != "bcd" {
		t.Errorf("unexpected window contents: %q, %q", chunks[0], chunks[1])
	}
	if chunks[5] != "f" {
		t.Errorf("unexpected final chunk %q", chunks[5])
	}
}

func TestSplitter_Split_MultibyteRunes(t *testing.T) {
	s := charSplitter(WithChunkSize(4), WithOverlap(0))

	chunks := s.Split("héllø wörld")
	total := 0
	for _, c := range chunks {
		total += len([]rune(c))
	}
	if total != len([]rune("héllø wörld")) {
		t.Errorf("rune count mismatch after split: %d", total)
	}
}

// failingStrategy always errors to exercise the silent fallback.
type failingStrategy struct{}

func (failingStrategy) split(string, int, int) ([]string, error) {
	return nil, errors.New("boom")
}

func TestSplitter_Split_FallsBackOnStrategyFailure(t *testing.T) {
	s := New(WithChunkSize(5), WithOverlap(0))
	s.preferred = failingStrategy{}

	chunks := s.Split("abcdefghij")
	if len(chunks) != 2 {
		t.Fatalf("expected fallback to produce 2 chunks, got %d", len(chunks))
	}
	if chunks[0] != "abcde" || chunks[1] != "fghij" {
		t.Errorf("unexpected fallback chunks: %v", chunks)
	}
}

func TestAssignIDs_Empty(t *testing.T) {
	if ids := AssignIDs(0, "doc"); ids != nil {
		t.Errorf("expected nil for zero chunks, got %v", ids)
	}
}

func TestAssignIDs_PaddingWidths(t *testing.T) {
	tests := []struct {
		count int
		first string
		last  string
	}{
		{1, "doc-0001", "doc-0001"},
		{9, "doc-0001", "doc-0009"},
		{10, "doc-0001", "doc-0010"},
		{9999, "doc-0001", "doc-9999"},
		{10000, "doc-00001", "doc-10000"},
	}

	for _, tt := range tests {
		ids := AssignIDs(tt.count, "doc")
		if len(ids) != tt.count {
			t.Fatalf("count %d: expected %d ids, got %d", tt.count, tt.count, len(ids))
		}
		if ids[0] != tt.first {
			t.Errorf("count %d: expected first id %q, got %q", tt.count, tt.first, ids[0])
		}
		if ids[tt.count-1] != tt.last {
			t.Errorf("count %d: expected last id %q, got %q", tt.count, tt.last, ids[tt.count-1])
		}
	}
}

func TestAssignIDs_SortableAndUnique(t *testing.T) {
	ids := AssignIDs(12, "notes")

	seen := make(map[string]bool)
	for i, id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %s", id)
		}
		seen[id] = true
		if i > 0 && !(ids[i-1] < id) {
			t.Errorf("ids not sorted at %d: %s >= %s", i, ids[i-1], id)
		}
	}
}
