package search

import (
	"math"
	"strings"
)

// boostFactor and categoryKeywords are ranking policy, not derived values:
// the boost rewards pairs that share product-domain vocabulary, as a cheap
// stand-in for a real taxonomy. Tune here, nowhere else.
const boostFactor = 1.3

var categoryKeywords = []string{
	"phone", "laptop", "camera", "shoes", "watch", "headphones",
	"tablet", "monitor", "keyboard", "mouse", "speaker", "jacket",
	"jeans", "sunglasses", "chair", "desk", "bottle", "vacuum",
	"smartphone", "computer", "footwear", "clothing", "furniture",
	"electronics", "accessory", "home", "device",
}

// Score computes the lexical similarity between two embeddings: the Jaccard
// coefficient over lowercase whitespace tokens, multiplied by boostFactor
// when a category keyword appears as a substring in both inputs, clamped to
// 1.0. An empty union scores 0.0.
func Score(a, b string) float64 {
	la := strings.ToLower(a)
	lb := strings.ToLower(b)

	setA := tokenSet(la)
	setB := tokenSet(lb)

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}

	score := float64(intersection) / float64(union)

	if keywordMatch(la, lb) {
		score *= boostFactor
	}

	return math.Min(score, 1.0)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

// keywordMatch reports whether any category keyword occurs as a substring
// in both lowercased inputs.
func keywordMatch(la, lb string) bool {
	for _, kw := range categoryKeywords {
		if strings.Contains(la, kw) && strings.Contains(lb, kw) {
			return true
		}
	}
	return false
}
