package analyze

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/matcher/internal/domain"
)

const goodJSON = `{
	"summary": "A blue running shoe on a white background.",
	"category": "Footwear",
	"colors": ["blue", "white"],
	"materials": ["mesh", "rubber"],
	"style": ["athletic"],
	"objects": ["shoe"],
	"suggested_tags": ["running", "sneaker"]
}`

func TestParseAnalysis_PlainJSON(t *testing.T) {
	got, ok := parseAnalysis(goodJSON)
	if !ok {
		t.Fatal("expected successful parse")
	}
	if got.Category != "Footwear" {
		t.Errorf("category = %q, want Footwear", got.Category)
	}
	if len(got.Colors) != 2 || got.Colors[0] != "blue" {
		t.Errorf("colors = %v, want [blue white]", got.Colors)
	}
}

func TestParseAnalysis_FencedJSON(t *testing.T) {
	raw := "```json\n" + goodJSON + "\n```"
	got, ok := parseAnalysis(raw)
	if !ok {
		t.Fatal("expected successful parse of fenced JSON")
	}
	if got.Category != "Footwear" {
		t.Errorf("category = %q, want Footwear", got.Category)
	}
}

func TestParseAnalysis_ProseAroundJSON(t *testing.T) {
	raw := "Here is the analysis you asked for:\n" + goodJSON + "\nLet me know if you need more."
	got, ok := parseAnalysis(raw)
	if !ok {
		t.Fatal("expected successful parse of prose-wrapped JSON")
	}
	if got.Summary == "" {
		t.Error("expected summary to survive brace slicing")
	}
}

func TestParseAnalysis_NotJSON(t *testing.T) {
	raw := "I could not produce a structured answer for this image."
	got, ok := parseAnalysis(raw)
	if ok {
		t.Fatal("expected parse failure")
	}
	if got.Summary != raw {
		t.Errorf("fallback summary = %q, want raw text", got.Summary)
	}
	if got.Category != "Unknown" {
		t.Errorf("fallback category = %q, want Unknown", got.Category)
	}
	assertListsPresent(t, got)
}

func TestParseAnalysis_EmptyRaw(t *testing.T) {
	got, ok := parseAnalysis("")
	if ok {
		t.Fatal("expected parse failure")
	}
	if got.Summary != "Unable to analyze image." {
		t.Errorf("summary = %q, want fixed placeholder", got.Summary)
	}
}

func TestParseAnalysis_TruncatesLongRaw(t *testing.T) {
	raw := strings.Repeat("x", 700)
	got, _ := parseAnalysis(raw)
	if len([]rune(got.Summary)) != 600 {
		t.Errorf("fallback summary length = %d, want 600", len([]rune(got.Summary)))
	}
}

func TestParseAnalysis_MalformedListFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"null list", `{"summary":"s","category":"c","colors":null}`},
		{"scalar list", `{"summary":"s","category":"c","colors":"blue","materials":42}`},
		{"object list", `{"summary":"s","category":"c","style":{"a":1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseAnalysis(tt.raw)
			if !ok {
				t.Fatal("payload-level JSON is valid, parse must succeed")
			}
			assertListsPresent(t, got)
			if len(got.Colors) != 0 {
				t.Errorf("colors = %v, want empty after normalization", got.Colors)
			}
		})
	}
}

func TestParseAnalysis_StringifiesListElements(t *testing.T) {
	got, ok := parseAnalysis(`{"summary":"s","category":"c","colors":[1, "red", true]}`)
	if !ok {
		t.Fatal("expected successful parse")
	}
	want := []string{"1", "red", "true"}
	if len(got.Colors) != len(want) {
		t.Fatalf("colors = %v, want %v", got.Colors, want)
	}
	for i := range want {
		if got.Colors[i] != want[i] {
			t.Errorf("colors[%d] = %q, want %q", i, got.Colors[i], want[i])
		}
	}
}

func TestParseAnalysis_MissingDefaults(t *testing.T) {
	got, ok := parseAnalysis(`{"colors":["red"]}`)
	if !ok {
		t.Fatal("expected successful parse")
	}
	if got.Summary != "" {
		t.Errorf("missing summary = %q, want empty string", got.Summary)
	}
	if got.Category != "Unknown" {
		t.Errorf("missing category = %q, want Unknown", got.Category)
	}
}

func assertListsPresent(t *testing.T, a domain.Analysis) {
	t.Helper()
	lists := map[string][]string{
		"colors":         a.Colors,
		"materials":      a.Materials,
		"style":          a.Style,
		"objects":        a.Objects,
		"suggested_tags": a.SuggestedTags,
	}
	for name, l := range lists {
		if l == nil {
			t.Errorf("list field %s is nil, want non-nil", name)
		}
	}
}
