// Package analyze turns a query image into a structured description,
// degrading gracefully when the vision provider is absent or failing.
package analyze

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/matcher/internal/domain"
)

const (
	offlineSummary      = "Image uploaded. AI analysis is unavailable in offline mode."
	providerFailSummary = "Unable to analyze image at this time."
)

// Service is the image analyzer. A nil describer means no provider
// credential is configured, and every analysis short-circuits to the
// offline fallback without attempting a call.
type Service struct {
	describer Describer
	fallbacks *prometheus.CounterVec
	logger    *zap.Logger
}

// New creates an analyzer service. describer may be nil (offline mode).
// fallbacks is a counter vec with label "reason", passed explicitly.
func New(describer Describer, fallbacks *prometheus.CounterVec, logger *zap.Logger) *Service {
	return &Service{
		describer: describer,
		fallbacks: fallbacks,
		logger:    logger,
	}
}

// Configured reports whether a vision provider is wired in.
func (s *Service) Configured() bool {
	return s.describer != nil
}

// Analyze produces a structured description of the image. It never fails:
// provider and parse errors are converted to tagged fallback results so the
// search pipeline keeps working with degraded relevance.
func (s *Service) Analyze(ctx context.Context, imageJPEG []byte) domain.AnalysisResult {
	if s.describer == nil {
		s.incFallback("offline")
		return domain.AnalysisResult{
			Analysis: syntheticAnalysis(offlineSummary),
			Source:   domain.SourceOffline,
		}
	}

	raw, err := s.describer.Describe(ctx, imageJPEG)
	if err != nil {
		s.logger.Warn("vision provider call failed", zap.Error(err))
		s.incFallback("provider_error")
		return domain.AnalysisResult{
			Analysis: syntheticAnalysis(providerFailSummary),
			Source:   domain.SourceFallback,
		}
	}

	analysis, ok := parseAnalysis(raw)
	if !ok {
		s.logger.Warn("vision response was not parseable JSON",
			zap.String("raw_prefix", truncate(raw, 200)))
		s.incFallback("parse_error")
		return domain.AnalysisResult{Analysis: analysis, Source: domain.SourceFallback}
	}

	return domain.AnalysisResult{Analysis: analysis, Source: domain.SourceProvider}
}

func (s *Service) incFallback(reason string) {
	if s.fallbacks != nil {
		s.fallbacks.WithLabelValues(reason).Inc()
	}
}
