package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTaxonomy(t *testing.T) {
	tax := DefaultTaxonomy()

	assert.NotEmpty(t, tax.Urgency)
	assert.NotEmpty(t, tax.Action)
	assert.NotEmpty(t, tax.Power)
	assert.NotEmpty(t, tax.Authority)
	assert.Len(t, tax.ctaRegexps, len(tax.CTAPatterns))

	// phrases are stored lowercase, matching happens on lowered text
	for _, group := range [][]string{tax.Urgency, tax.Action, tax.Power, tax.Authority} {
		for _, phrase := range group {
			assert.Equal(t, strings.ToLower(phrase), phrase, "phrase %q must be lowercase", phrase)
		}
	}
}

func TestDefaultTaxonomy_CTAPatternsMatch(t *testing.T) {
	tax := DefaultTaxonomy()

	tests := []struct {
		text    string
		matches bool
	}{
		{"please sign this petition", true},
		{"sign  now to make it count", true},
		{"join us at the rally", true},
		{"act now or never", true},
		{"we designed this poster", false},
		{"a plain sentence", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			matched := false
			for _, re := range tax.ctaRegexps {
				if re.MatchString(tt.text) {
					matched = true
					break
				}
			}
			assert.Equal(t, tt.matches, matched)
		})
	}
}
