package usecase

import "strings"

// DefaultFallbackBrand is the bucket for names that match no known brand
const DefaultFallbackBrand = "Autre"

// DefaultBrands is the ordered candidate list. Order is the tie-break when a
// name contains more than one brand token.
var DefaultBrands = []string{
	"Apple", "Samsung", "Xiaomi", "Redmi", "Poco", "Huawei", "Honor",
	"Oppo", "Realme", "OnePlus", "Google", "Motorola", "Nokia", "Sony",
	"Vivo", "Hotwav", "Crosscall", "Fairphone", "Nothing", "TCL",
	"Alcatel", "Doro",
}

type brandToken struct {
	label string
	lower string
}

// BrandClassifier maps product names to a brand by case-insensitive
// substring match against an ordered candidate list
type BrandClassifier struct {
	tokens   []brandToken
	fallback string
}

// NewBrandClassifier creates a classifier. Empty arguments fall back to the defaults.
func NewBrandClassifier(brands []string, fallback string) *BrandClassifier {
	if len(brands) == 0 {
		brands = DefaultBrands
	}
	if strings.TrimSpace(fallback) == "" {
		fallback = DefaultFallbackBrand
	}

	tokens := make([]brandToken, 0, len(brands))
	for _, b := range brands {
		if b == "" {
			continue
		}
		tokens = append(tokens, brandToken{label: b, lower: strings.ToLower(b)})
	}

	return &BrandClassifier{tokens: tokens, fallback: fallback}
}

// Classify returns the first candidate contained in name, or the fallback label
func (c *BrandClassifier) Classify(name string) string {
	lower := strings.ToLower(name)
	for _, t := range c.tokens {
		if strings.Contains(lower, t.lower) {
			return t.label
		}
	}
	return c.fallback
}

// Fallback returns the label used for unmatched names
func (c *BrandClassifier) Fallback() string {
	return c.fallback
}

// Candidates returns a copy of the ordered candidate labels
func (c *BrandClassifier) Candidates() []string {
	out := make([]string, len(c.tokens))
	for i, t := range c.tokens {
		out[i] = t.label
	}
	return out
}
