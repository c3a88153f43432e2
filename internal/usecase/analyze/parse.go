package analyze

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/matcher/internal/domain"
)

const (
	// fallbackSummaryLimit bounds how much raw model text is carried into a
	// synthetic summary when the response is not parseable JSON.
	fallbackSummaryLimit = 600

	unknownCategory    = "Unknown"
	unparseableSummary = "Unable to analyze image."
)

// analysisPayload is the tolerant wire shape of a provider response.
// Every field is raw so a malformed value degrades just that field, not the
// whole parse.
type analysisPayload struct {
	Summary       json.RawMessage `json:"summary"`
	Category      json.RawMessage `json:"category"`
	Colors        json.RawMessage `json:"colors"`
	Materials     json.RawMessage `json:"materials"`
	Style         json.RawMessage `json:"style"`
	Objects       json.RawMessage `json:"objects"`
	SuggestedTags json.RawMessage `json:"suggested_tags"`
}

// parseAnalysis extracts a structured analysis from raw model output.
// Ordered fallback chain: strip code fences, slice from the first '{' to the
// last '}', parse as JSON. On parse failure it returns a synthetic analysis
// whose summary is the leading raw text, and ok=false.
func parseAnalysis(raw string) (domain.Analysis, bool) {
	text := strings.TrimSpace(raw)
	text = stripFences(text)

	var payload analysisPayload
	if err := json.Unmarshal([]byte(sliceBraces(text)), &payload); err != nil {
		return fallbackAnalysis(text), false
	}

	return domain.Analysis{
		Summary:       stringField(payload.Summary, ""),
		Category:      stringField(payload.Category, unknownCategory),
		Colors:        listField(payload.Colors),
		Materials:     listField(payload.Materials),
		Style:         listField(payload.Style),
		Objects:       listField(payload.Objects),
		SuggestedTags: listField(payload.SuggestedTags),
	}, true
}

// stripFences removes a surrounding markdown code fence (```json ... ```).
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// sliceBraces narrows the text to the first '{' .. last '}' span, tolerating
// leading and trailing commentary from the provider.
func sliceBraces(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}
	return text
}

// stringField decodes a JSON string value, substituting def when the value
// is absent, null, or not a string.
func stringField(raw json.RawMessage, def string) string {
	if len(raw) == 0 {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return def
	}
	return s
}

// listField decodes a JSON array into strings, stringifying non-string
// elements. Absent, null, or scalar values become an empty list.
func listField(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

// fallbackAnalysis wraps unparseable model text into a synthetic analysis.
func fallbackAnalysis(text string) domain.Analysis {
	summary := unparseableSummary
	if text != "" {
		summary = truncate(text, fallbackSummaryLimit)
	}
	return syntheticAnalysis(summary)
}

// syntheticAnalysis builds a degraded analysis with the given summary,
// an Unknown category, and all list fields empty.
func syntheticAnalysis(summary string) domain.Analysis {
	return domain.Analysis{
		Summary:       summary,
		Category:      unknownCategory,
		Colors:        []string{},
		Materials:     []string{},
		Style:         []string{},
		Objects:       []string{},
		SuggestedTags: []string{},
	}
}

// truncate cuts a string to at most limit characters (runes, not bytes).
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
