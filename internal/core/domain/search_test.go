package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchResult_Citation(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]any
		expected string
	}{
		{"title preferred", map[string]any{"title": "FAQ", "path": "/export/faq.md"}, "FAQ"},
		{"path fallback", map[string]any{"path": "/export/faq.md"}, "/export/faq.md"},
		{"empty title falls through", map[string]any{"title": "", "path": "/export/faq.md"}, "/export/faq.md"},
		{"non-string title ignored", map[string]any{"title": 42}, ""},
		{"no metadata", nil, ""},
		{"empty metadata", map[string]any{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := SearchResult{
				Chunk: Chunk{ID: "doc-0001", Metadata: tt.metadata},
				Score: 0.5,
			}
			assert.Equal(t, tt.expected, r.Citation())
		})
	}
}
