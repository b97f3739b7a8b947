package analysis

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/civicsignal/petition-meter/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestFeatureNames(t *testing.T) {
	names := FeatureNames()

	// 27 per-field features across 4 fields, plus html_tags for the
	// description, plus 5 composites
	assert.Len(t, names, 4*27+1+5)

	seen := make(map[string]bool)
	for _, name := range names {
		assert.False(t, seen[name], "duplicate feature name %q", name)
		seen[name] = true
	}

	assert.True(t, seen["title_length"])
	assert.True(t, seen["description_html_tags"])
	assert.False(t, seen["title_html_tags"])
	assert.False(t, seen["letter_body_html_tags"])
	assert.True(t, seen["targeting_description_caps_ratio"])
	assert.True(t, seen["message_coherence_score"])

	// the declared order is stable between calls
	assert.Equal(t, names, FeatureNames())
}

func TestExtractFeatures_EmptyDocument(t *testing.T) {
	e := NewExtractor(NullSentimentAnalyzer{})
	fv := e.ExtractFeatures(types.PetitionDocument{})

	assert.Len(t, fv, len(FeatureNames()))

	for _, name := range FeatureNames() {
		switch name {
		case "strategic_urgency_score":
			// neutral title mood contributes 0.5 * 0.3
			assert.InDelta(t, 0.15, fv[name], 1e-9)
		case "message_coherence_score":
			assert.InDelta(t, 0.5, fv[name], 1e-9)
		default:
			assert.Zero(t, fv[name], "feature %q should be zero for empty input", name)
		}
	}
}

func TestExtractFeatures_Deterministic(t *testing.T) {
	e := NewExtractor(NullSentimentAnalyzer{})
	doc := types.PetitionDocument{
		Title:       "Urgent: Stop the Demolition Now",
		Description: "<p>We demand action. Sign this petition today!</p>",
		LetterBody:  "Dear Council, we urge you to act.",
	}

	first := e.ExtractFeatures(doc)
	second := e.ExtractFeatures(doc)
	assert.Equal(t, first, second)
}

func TestExtractFeatures_KeywordCounting(t *testing.T) {
	e := NewExtractor(NullSentimentAnalyzer{})

	tests := []struct {
		name     string
		title    string
		expected map[string]float64
	}{
		{
			name:  "case insensitive urgency",
			title: "URGENT crisis response",
			expected: map[string]float64{
				"title_urgency_count": 2, // urgent, crisis
				"title_has_urgency":   1,
			},
		},
		{
			name:  "action keywords",
			title: "We demand they stop the project",
			expected: map[string]float64{
				"title_action_count": 2, // demand, stop
				"title_has_action":   1,
			},
		},
		{
			name:  "substring matching counts derived forms",
			title: "Act urgently",
			expected: map[string]float64{
				"title_urgency_count": 1, // urgent within urgently
			},
		},
		{
			name:  "authority and power",
			title: "Government corruption violates our rights",
			expected: map[string]float64{
				"title_authority_count": 1, // government
				"title_power_count":     2, // corruption, rights
			},
		},
		{
			name:  "no keywords",
			title: "A quiet afternoon walk",
			expected: map[string]float64{
				"title_urgency_count": 0,
				"title_has_urgency":   0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fv := e.ExtractFeatures(types.PetitionDocument{Title: tt.title})
			for key, want := range tt.expected {
				assert.Equal(t, want, fv[key], "feature %q", key)
			}
		})
	}
}

func TestExtractFeatures_MultibyteLengths(t *testing.T) {
	e := NewExtractor(NullSentimentAnalyzer{})

	doc := types.PetitionDocument{
		Title:       "सड़क सुरक्षा अभी",
		Description: strings.Repeat("ñ", 600),
	}
	fv := e.ExtractFeatures(doc)

	// Lengths are measured in code points, so a 600-character Latin-1
	// supplement string counts as 600 even though it is 1200 bytes.
	assert.Equal(t, 600.0, fv["description_length"])
	assert.Equal(t, 600.0, fv["description_clean_length"])
	assert.Equal(t, float64(utf8.RuneCountInString(doc.Title)), fv["title_length"])
	assert.Less(t, fv["title_length"], float64(len(doc.Title)))
}

func TestExtractFeatures_CallToAction(t *testing.T) {
	e := NewExtractor(NullSentimentAnalyzer{})

	fv := e.ExtractFeatures(types.PetitionDocument{
		Description: "Sign this petition and join us. Act now before it is too late.",
	})
	assert.Equal(t, 3.0, fv["description_cta_count"]) // sign this, join us, act now
	assert.Equal(t, 1.0, fv["description_has_cta"])

	fv = e.ExtractFeatures(types.PetitionDocument{Description: "A plain statement."})
	assert.Equal(t, 0.0, fv["description_cta_count"])
	assert.Equal(t, 0.0, fv["description_has_cta"])
}

func TestExtractFeatures_HTMLHandling(t *testing.T) {
	e := NewExtractor(NullSentimentAnalyzer{})
	doc := types.PetitionDocument{
		Description: "<p>Hello <strong>world</strong></p>",
	}
	fv := e.ExtractFeatures(doc)

	assert.Equal(t, 4.0, fv["description_html_tags"])
	assert.Equal(t, float64(len(doc.Description)), fv["description_length"])
	assert.Equal(t, float64(len("Hello world")), fv["description_clean_length"])
	assert.Equal(t, 2.0, fv["description_word_count"])
}

func TestExtractFeatures_NumbersAndStatistics(t *testing.T) {
	e := NewExtractor(NullSentimentAnalyzer{})

	tests := []struct {
		name          string
		text          string
		numbers       float64
		hasStatistics float64
	}{
		{"percentage", "Over 50% of residents object strongly", 1, 1},
		{"scale words", "This affects 5 million people nationwide", 1, 1},
		{"plain numbers only", "Built in 1987 at number 12", 2, 0},
		{"no numbers", "No figures here at all today", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fv := e.ExtractFeatures(types.PetitionDocument{LetterBody: tt.text})
			assert.Equal(t, tt.numbers, fv["letter_body_numbers_count"])
			assert.Equal(t, tt.hasStatistics, fv["letter_body_has_statistics"])
		})
	}
}

func TestExtractFeatures_ParagraphsAndQuestions(t *testing.T) {
	e := NewExtractor(NullSentimentAnalyzer{})
	fv := e.ExtractFeatures(types.PetitionDocument{
		LetterBody: "First paragraph here.\n\nSecond paragraph?\nThird line, still counts.",
	})
	assert.Equal(t, 3.0, fv["letter_body_paragraph_count"])
	assert.Equal(t, 1.0, fv["letter_body_question_count"])
}

func TestExtractFeatures_Composites(t *testing.T) {
	e := NewExtractor(NullSentimentAnalyzer{})

	title := "A reasonable petition title for the local council"
	description := "<p>" + strings.Repeat("The council must reconsider this decision carefully. ", 40) + "</p>"
	doc := types.PetitionDocument{
		Title:                title,
		Description:          description,
		TargetingDescription: "City Council Planning Committee and the Mayor",
	}
	fv := e.ExtractFeatures(doc)

	wantContent := fv["title_clean_length"] + fv["description_clean_length"] + fv["letter_body_clean_length"]
	assert.Equal(t, wantContent, fv["content_comprehensiveness_score"])

	assert.GreaterOrEqual(t, fv["professional_sophistication_score"], 0.0)
	assert.LessOrEqual(t, fv["professional_sophistication_score"], 1.0)

	assert.GreaterOrEqual(t, fv["strategic_urgency_score"], 0.0)
	assert.LessOrEqual(t, fv["strategic_urgency_score"], 1.0)

	wantAuthority := fv["title_authority_count"] + fv["description_authority_count"] +
		fv["targeting_description_word_count"]/10
	assert.Equal(t, wantAuthority, fv["authority_targeting_score"])

	assert.Equal(t, 0.5, fv["message_coherence_score"])
}

func TestExtractFeatures_MoreContentScoresHigherComposite(t *testing.T) {
	e := NewExtractor(NullSentimentAnalyzer{})

	short := e.ExtractFeatures(types.PetitionDocument{Description: "Brief note."})
	long := e.ExtractFeatures(types.PetitionDocument{
		Description: strings.Repeat("A much longer, more detailed description of the issue. ", 30),
	})

	assert.Greater(t,
		long["content_comprehensiveness_score"],
		short["content_comprehensiveness_score"])
	assert.Greater(t,
		long["professional_sophistication_score"],
		short["professional_sophistication_score"])
}

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"strips tags", "<p>Hello <b>world</b></p>", "Hello world"},
		{"collapses whitespace", "too   many\n\nspaces", "too many spaces"},
		{"plain text untouched", "already clean", "already clean"},
		{"empty", "", ""},
		{"only tags", "<div><br/></div>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanHTML(tt.input))
		})
	}
}

func TestCountHTMLTags(t *testing.T) {
	assert.Equal(t, 0, CountHTMLTags("no markup"))
	assert.Equal(t, 2, CountHTMLTags("<p>one</p>"))
	assert.Equal(t, 3, CountHTMLTags("<div><br/><span>"))
}

func TestNewExtractor_NilSentimentDefaultsToNull(t *testing.T) {
	e := NewExtractor(nil)
	fv := e.ExtractFeatures(types.PetitionDocument{Title: "A wonderful fantastic great title"})
	assert.Zero(t, fv["title_sentiment_compound"])
	assert.Zero(t, fv["title_emotional_intensity"])
}
