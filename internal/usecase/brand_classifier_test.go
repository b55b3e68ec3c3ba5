package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBrandClassifier(t *testing.T) {
	t.Run("uses defaults when arguments are empty", func(t *testing.T) {
		c := NewBrandClassifier(nil, "  ")
		assert.Equal(t, DefaultBrands, c.Candidates())
		assert.Equal(t, DefaultFallbackBrand, c.Fallback())
	})

	t.Run("skips empty candidates", func(t *testing.T) {
		c := NewBrandClassifier([]string{"Apple", "", "Honor"}, "Other")
		assert.Equal(t, []string{"Apple", "Honor"}, c.Candidates())
		assert.Equal(t, "Other", c.Fallback())
	})

	t.Run("candidates are a copy", func(t *testing.T) {
		c := NewBrandClassifier([]string{"Apple"}, "")
		got := c.Candidates()
		got[0] = "Changed"
		assert.Equal(t, []string{"Apple"}, c.Candidates())
	})
}

func TestBrandClassifier_Classify(t *testing.T) {
	c := NewBrandClassifier(nil, "")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"exact brand prefix", "Apple iPhone 15 128Go", "Apple"},
		{"case insensitive", "SAMSUNG Galaxy S24", "Samsung"},
		{"brand inside the name", "Smartphone reconditionné Xiaomi 13", "Xiaomi"},
		{"earlier candidate wins over later one", "Honor case for Apple iPhone", "Apple"},
		{"xiaomi listed before redmi", "Xiaomi Redmi Note 13", "Xiaomi"},
		{"redmi alone", "Redmi 13C 4/128", "Redmi"},
		{"hotwav", "Hotwav Note 20", "Hotwav"},
		{"unknown brand falls back", "Coque universelle", DefaultFallbackBrand},
		{"empty name falls back", "", DefaultFallbackBrand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.input))
		})
	}

	t.Run("result is always a candidate or the fallback", func(t *testing.T) {
		allowed := map[string]bool{c.Fallback(): true}
		for _, b := range c.Candidates() {
			allowed[b] = true
		}
		for _, tt := range tests {
			assert.True(t, allowed[c.Classify(tt.input)], tt.input)
		}
	})

	t.Run("same input gives same output", func(t *testing.T) {
		for _, tt := range tests {
			assert.Equal(t, c.Classify(tt.input), c.Classify(tt.input))
		}
	})

	t.Run("custom order changes the tie-break", func(t *testing.T) {
		custom := NewBrandClassifier([]string{"Honor", "Apple"}, "")
		assert.Equal(t, "Honor", custom.Classify("Honor case for Apple iPhone"))
	})
}
