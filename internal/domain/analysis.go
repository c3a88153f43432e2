package domain

// Analysis is the structured description of a query image. All list-valued
// fields are non-nil after normalization, even when the provider returned
// malformed data for them.
type Analysis struct {
	Summary       string   `json:"summary"`
	Category      string   `json:"category"`
	Colors        []string `json:"colors"`
	Materials     []string `json:"materials"`
	Style         []string `json:"style"`
	Objects       []string `json:"objects"`
	SuggestedTags []string `json:"suggested_tags"`
}

// AnalysisSource records where an analysis came from.
type AnalysisSource string

const (
	// SourceProvider marks an analysis parsed from a real provider response.
	SourceProvider AnalysisSource = "provider"
	// SourceFallback marks a synthetic analysis built after a provider or
	// parse failure.
	SourceFallback AnalysisSource = "fallback"
	// SourceOffline marks the fixed analysis used when no provider
	// credential is configured.
	SourceOffline AnalysisSource = "offline"
)

// AnalysisResult tags an Analysis with its provenance so callers handle the
// degraded variants explicitly instead of treating every analysis as real.
type AnalysisResult struct {
	Analysis Analysis
	Source   AnalysisSource
}

// Degraded reports whether the analysis did not come from the provider.
func (r AnalysisResult) Degraded() bool {
	return r.Source != SourceProvider
}
