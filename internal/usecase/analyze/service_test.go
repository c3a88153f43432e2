package analyze

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/matcher/internal/domain"
)

type mockDescriber struct {
	raw    string
	err    error
	called bool
}

func (m *mockDescriber) Describe(_ context.Context, _ []byte) (string, error) {
	m.called = true
	return m.raw, m.err
}

func TestAnalyze_OfflineMode(t *testing.T) {
	svc := New(nil, nil, zap.NewNop())

	if svc.Configured() {
		t.Error("service without describer must report unconfigured")
	}

	res := svc.Analyze(context.Background(), []byte("img"))
	if res.Source != domain.SourceOffline {
		t.Errorf("source = %q, want %q", res.Source, domain.SourceOffline)
	}
	if res.Analysis.Summary != offlineSummary {
		t.Errorf("summary = %q, want offline placeholder", res.Analysis.Summary)
	}
	if res.Analysis.Category != "Unknown" {
		t.Errorf("category = %q, want Unknown", res.Analysis.Category)
	}
	if !res.Degraded() {
		t.Error("offline result must report degraded")
	}
}

func TestAnalyze_ProviderFailure(t *testing.T) {
	desc := &mockDescriber{err: errors.New("connection refused")}
	svc := New(desc, nil, zap.NewNop())

	res := svc.Analyze(context.Background(), []byte("img"))
	if !desc.called {
		t.Error("expected provider to be called")
	}
	if res.Source != domain.SourceFallback {
		t.Errorf("source = %q, want %q", res.Source, domain.SourceFallback)
	}
	if res.Analysis.Summary != providerFailSummary {
		t.Errorf("summary = %q, want provider failure placeholder", res.Analysis.Summary)
	}
}

func TestAnalyze_ProviderSuccess(t *testing.T) {
	desc := &mockDescriber{raw: `{"summary":"a chair","category":"Furniture","objects":["chair"]}`}
	svc := New(desc, nil, zap.NewNop())

	res := svc.Analyze(context.Background(), []byte("img"))
	if res.Source != domain.SourceProvider {
		t.Errorf("source = %q, want %q", res.Source, domain.SourceProvider)
	}
	if res.Degraded() {
		t.Error("provider result must not report degraded")
	}
	if res.Analysis.Category != "Furniture" {
		t.Errorf("category = %q, want Furniture", res.Analysis.Category)
	}
}

func TestAnalyze_UnparseableResponse(t *testing.T) {
	desc := &mockDescriber{raw: "sorry, I cannot describe this image"}
	svc := New(desc, nil, zap.NewNop())

	res := svc.Analyze(context.Background(), []byte("img"))
	if res.Source != domain.SourceFallback {
		t.Errorf("source = %q, want %q", res.Source, domain.SourceFallback)
	}
	if res.Analysis.Summary != desc.raw {
		t.Errorf("summary = %q, want raw model text", res.Analysis.Summary)
	}
	if res.Analysis.Colors == nil || res.Analysis.SuggestedTags == nil {
		t.Error("fallback analysis must have non-nil list fields")
	}
}
