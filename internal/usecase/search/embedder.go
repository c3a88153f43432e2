package search

import (
	"strings"

	"github.com/kailas-cloud/matcher/internal/domain"
)

// BuildQueryEmbedding flattens an analysis into a single lexical string
// comparable to catalog embeddings. Field order is fixed; empty fields are
// skipped so they contribute no stray whitespace. Pure function.
func BuildQueryEmbedding(a domain.Analysis) string {
	fields := []string{
		a.Summary,
		a.Category,
		strings.Join(a.Colors, " "),
		strings.Join(a.Materials, " "),
		strings.Join(a.Style, " "),
		strings.Join(a.Objects, " "),
		strings.Join(a.SuggestedTags, " "),
	}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
