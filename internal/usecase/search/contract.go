package search

import (
	"context"

	"github.com/kailas-cloud/matcher/internal/domain"
)

// Analyzer produces a structured description of a normalized query image.
type Analyzer interface {
	Analyze(ctx context.Context, imageJPEG []byte) domain.AnalysisResult
}

// Catalog reads the immutable product list.
type Catalog interface {
	All() []domain.Product
}

// Embeddings supplies the lexical embedding for a product, deriving and
// caching it on first use.
type Embeddings interface {
	Embedding(p domain.Product) string
}
