package recommend

import (
	"strings"
	"unicode"

	"shopRecs/domain"
)

// FeatureVector is the comparable representation of one catalog product.
// Built on demand, never persisted.
type FeatureVector struct {
	ProductID   uint64
	CategoryID  uint64
	TitleTokens map[string]struct{}
	Attributes  map[string]struct{}
}

// NewFeatureVector normalizes a product into a FeatureVector. An unresolved
// category (id 0) just leaves the category term out; it is not an error.
func NewFeatureVector(p domain.Product) FeatureVector {
	attrs := make(map[string]struct{}, len(p.Sizes))
	for _, size := range p.Sizes {
		size = strings.ToLower(strings.TrimSpace(size))
		if size == "" {
			continue
		}
		attrs[size] = struct{}{}
	}

	return FeatureVector{
		ProductID:   p.ID,
		CategoryID:  p.CategoryID,
		TitleTokens: tokenizeTitle(p.Title),
		Attributes:  attrs,
	}
}

// tokenizeTitle lower-cases and splits on whitespace and hyphens. No stemming.
func tokenizeTitle(title string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})

	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}

	return tokens
}

// jaccard = |a ∩ b| / |a ∪ b|, 0 when the union is empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}
