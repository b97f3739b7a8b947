package analysis

import "regexp"

// RulesVersion identifies the extraction rule set: the keyword taxonomy,
// the feature key list and the composite-score formulas below. A trained
// classifier is only valid against the exact version it was trained on,
// so artifact loading checks this tag and fails loudly on mismatch.
const RulesVersion = "petition-rules-v1"

// Taxonomy holds the fixed categorized phrase lists used for keyword
// counting. Phrases are lowercase; matching is case-insensitive substring
// matching over HTML-stripped text. The taxonomy is configuration data and
// is never mutated at runtime.
type Taxonomy struct {
	Urgency   []string `json:"urgency"`
	Action    []string `json:"action"`
	Power     []string `json:"power"`
	Authority []string `json:"authority"`

	// CTAPatterns are canonical call-to-action phrasings, matched as
	// regular expressions against lowercased raw text.
	CTAPatterns []string `json:"cta_patterns"`

	ctaRegexps []*regexp.Regexp
}

// DefaultTaxonomy returns the canonical taxonomy for RulesVersion.
func DefaultTaxonomy() *Taxonomy {
	t := &Taxonomy{
		Urgency: []string{
			"urgent", "immediate", "immediately", "now", "today", "emergency", "crisis",
			"deadline", "time running out", "before it's too late", "last chance",
			"act now", "breaking", "critical", "asap", "quickly", "rapidly", "soon",
		},
		Action: []string{
			"stop", "save", "protect", "demand", "fight", "defend", "prevent",
			"ban", "end", "cancel", "reverse", "change", "fix", "solve",
			"help", "support", "join", "sign", "act", "take action", "make",
			"force", "require", "ensure", "guarantee", "implement", "establish",
		},
		Power: []string{
			"justice", "freedom", "rights", "equality", "fair", "unfair", "wrong",
			"illegal", "violation", "abuse", "corruption", "scandal", "outrage",
			"discrimination", "injustice", "betrayal", "exploitation", "oppression",
		},
		Authority: []string{
			"government", "minister", "ministry", "department", "authority", "official",
			"court", "judge", "police", "administration", "commissioner", "director",
			"secretary", "chief", "president", "prime minister", "governor", "congress",
		},
		CTAPatterns: []string{
			`\bsign\s+this\b`, `\bsign\s+now\b`, `\bjoin\s+us\b`, `\bhelp\s+us\b`,
			`\btake\s+action\b`, `\bact\s+now\b`, `\bmake\s+a\s+difference\b`,
			`\bdemand\s+action\b`, `\bstop\s+this\b`, `\bforce\s+them\b`,
		},
	}
	t.ctaRegexps = make([]*regexp.Regexp, len(t.CTAPatterns))
	for i, p := range t.CTAPatterns {
		t.ctaRegexps[i] = regexp.MustCompile(p)
	}
	return t
}
