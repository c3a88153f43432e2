// Package search ranks the product catalog against a query image.
package search

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/matcher/internal/domain"
	"github.com/kailas-cloud/matcher/internal/imaging"
)

const defaultTopN = 20

// Ranking is the outcome of one search request: the image analysis that
// produced the query plus the top-scored catalog matches.
type Ranking struct {
	Analysis domain.Analysis
	Source   domain.AnalysisSource
	Matches  []domain.Match
}

// Service is the search orchestrator.
type Service struct {
	catalog    Catalog
	embeddings Embeddings
	analyzer   Analyzer
	topN       int
}

// New creates a search service.
func New(catalog Catalog, embeddings Embeddings, analyzer Analyzer) *Service {
	return &Service{
		catalog:    catalog,
		embeddings: embeddings,
		analyzer:   analyzer,
		topN:       defaultTopN,
	}
}

// WithTopN overrides the result cutoff.
func (s *Service) WithTopN(topN int) *Service {
	if topN > 0 {
		s.topN = topN
	}
	return s
}

// Search runs the full pipeline on raw image bytes: decode and normalize,
// analyze, build the query embedding, score every catalog product, and
// return the top matches in descending score order (ties keep catalog
// order). An empty catalog produces an empty ranking, not an error.
func (s *Service) Search(ctx context.Context, rawImage []byte) (Ranking, error) {
	normalized, err := imaging.Normalize(rawImage)
	if err != nil {
		return Ranking{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	res := s.analyzer.Analyze(ctx, normalized)
	query := BuildQueryEmbedding(res.Analysis)

	products := s.catalog.All()
	matches := make([]domain.Match, 0, len(products))
	for _, p := range products {
		score := Score(query, s.embeddings.Embedding(p))
		matches = append(matches, domain.Match{
			Product:    p,
			Similarity: round4(score),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > s.topN {
		matches = matches[:s.topN]
	}

	return Ranking{
		Analysis: res.Analysis,
		Source:   res.Source,
		Matches:  matches,
	}, nil
}

// round4 rounds a score to 4 decimal places, the wire precision.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
