package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/civicsignal/petition-meter/internal/types"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<.*?>`)
	digitRunPattern   = regexp.MustCompile(`[0-9]+`)
	statisticsPattern = regexp.MustCompile(`(?i)[0-9]+%|[0-9]+\s*(percent|million|thousand|billion)`)
)

// textFields lists the document fields in extraction order. The order is
// part of the rules version: it fixes the declared feature-key sequence.
var textFields = []string{"title", "description", "letter_body", "targeting_description"}

// perFieldSuffixes lists the feature-key suffixes produced for every text
// field, in declaration order. description additionally carries html_tags.
var perFieldSuffixes = []string{
	"length", "clean_length", "word_count",
	"urgency_count", "action_count", "power_count", "authority_count",
	"has_urgency", "has_action",
	"cta_count", "has_cta",
	"numbers_count", "has_statistics",
	"paragraph_count", "question_count",
	"sentiment_compound", "sentiment_positive", "sentiment_negative", "emotional_intensity",
	"flesch_ease", "flesch_kincaid", "gunning_fog", "automated_readability",
	"avg_sentence_length", "avg_word_length", "vocab_diversity", "caps_ratio",
}

var compositeNames = []string{
	"content_comprehensiveness_score",
	"professional_sophistication_score",
	"strategic_urgency_score",
	"authority_targeting_score",
	"message_coherence_score",
}

// Extractor converts petition text into a fixed set of named numeric
// signals. It is a pure function of the document, the taxonomy and the
// injected sentiment capability; it never fails and never returns a
// partial vector. Safe for concurrent use.
type Extractor struct {
	taxonomy  *Taxonomy
	sentiment SentimentAnalyzer
}

// NewExtractor creates an extractor with the given sentiment analyzer and
// the canonical taxonomy. Pass NullSentimentAnalyzer{} to run without the
// sentiment subsystem; the sentiment feature group degrades to zeros.
func NewExtractor(sentiment SentimentAnalyzer) *Extractor {
	if sentiment == nil {
		sentiment = NullSentimentAnalyzer{}
	}
	return &Extractor{taxonomy: DefaultTaxonomy(), sentiment: sentiment}
}

// Taxonomy exposes the keyword taxonomy in use, for display surfaces.
func (e *Extractor) Taxonomy() *Taxonomy { return e.taxonomy }

// FeatureNames returns the declared feature keys for RulesVersion, in the
// order a classifier artifact would list them.
func FeatureNames() []string {
	names := make([]string, 0, len(textFields)*(len(perFieldSuffixes)+1)+len(compositeNames))
	for _, field := range textFields {
		names = append(names, field+"_length", field+"_clean_length", field+"_word_count")
		if field == "description" {
			names = append(names, field+"_html_tags")
		}
		for _, suffix := range perFieldSuffixes[3:] {
			names = append(names, field+"_"+suffix)
		}
	}
	names = append(names, compositeNames...)
	return names
}

// ExtractFeatures produces the complete FeatureVector for a document.
// Every declared key is present; degenerate input yields zeros.
func (e *Extractor) ExtractFeatures(doc types.PetitionDocument) FeatureVector {
	fv := make(FeatureVector, len(textFields)*(len(perFieldSuffixes)+1)+len(compositeNames))
	for _, name := range FeatureNames() {
		fv[name] = 0
	}

	fields := map[string]string{
		"title":                 doc.Title,
		"description":           doc.Description,
		"letter_body":           doc.LetterBody,
		"targeting_description": doc.TargetingDescription,
	}

	for _, field := range textFields {
		e.extractField(fv, field, fields[field])
	}
	e.extractComposites(fv)
	return fv
}

func (e *Extractor) extractField(fv FeatureVector, field, text string) {
	clean := CleanHTML(text)
	cleanLower := strings.ToLower(clean)
	rawLower := strings.ToLower(text)

	// Lengths count code points, not bytes, so multibyte scripts are
	// measured on the same scale as ASCII against the content thresholds.
	fv[field+"_length"] = float64(utf8.RuneCountInString(text))
	fv[field+"_clean_length"] = float64(utf8.RuneCountInString(clean))
	fv[field+"_word_count"] = float64(len(strings.Fields(clean)))

	if field == "description" {
		fv[field+"_html_tags"] = float64(CountHTMLTags(text))
	}

	fv[field+"_urgency_count"] = float64(countKeywords(cleanLower, e.taxonomy.Urgency))
	fv[field+"_action_count"] = float64(countKeywords(cleanLower, e.taxonomy.Action))
	fv[field+"_power_count"] = float64(countKeywords(cleanLower, e.taxonomy.Power))
	fv[field+"_authority_count"] = float64(countKeywords(cleanLower, e.taxonomy.Authority))
	fv[field+"_has_urgency"] = boolFeature(fv[field+"_urgency_count"] > 0)
	fv[field+"_has_action"] = boolFeature(fv[field+"_action_count"] > 0)

	ctaCount := 0
	for _, re := range e.taxonomy.ctaRegexps {
		ctaCount += len(re.FindAllString(rawLower, -1))
	}
	fv[field+"_cta_count"] = float64(ctaCount)
	fv[field+"_has_cta"] = boolFeature(ctaCount > 0)

	fv[field+"_numbers_count"] = float64(len(digitRunPattern.FindAllString(text, -1)))
	fv[field+"_has_statistics"] = boolFeature(statisticsPattern.MatchString(text))

	paragraphs := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			paragraphs++
		}
	}
	fv[field+"_paragraph_count"] = float64(paragraphs)
	fv[field+"_question_count"] = float64(strings.Count(text, "?"))

	sentiment := e.sentiment.Scores(clean)
	fv[field+"_sentiment_compound"] = sentiment.Compound
	fv[field+"_sentiment_positive"] = sentiment.Positive
	fv[field+"_sentiment_negative"] = sentiment.Negative
	fv[field+"_emotional_intensity"] = sentiment.Positive + sentiment.Negative

	r := computeReadability(clean)
	fv[field+"_flesch_ease"] = r.FleschEase
	fv[field+"_flesch_kincaid"] = r.FleschKincaid
	fv[field+"_gunning_fog"] = r.GunningFog
	fv[field+"_automated_readability"] = r.AutomatedReadability
	fv[field+"_avg_sentence_length"] = r.AvgSentenceLength
	fv[field+"_avg_word_length"] = r.AvgWordLength
	fv[field+"_vocab_diversity"] = r.VocabDiversity
	fv[field+"_caps_ratio"] = r.CapsRatio
}

func (e *Extractor) extractComposites(fv FeatureVector) {
	fv["content_comprehensiveness_score"] = fv["title_clean_length"] +
		fv["description_clean_length"] +
		fv["letter_body_clean_length"]

	titleComplexity := clamp01(fv["title_flesch_kincaid"] / 20)
	descLength := clamp01(fv["description_clean_length"] / 2000)
	htmlFormatting := clamp01(fv["description_html_tags"] / 25)
	fv["professional_sophistication_score"] = titleComplexity*0.4 + descLength*0.3 + htmlFormatting*0.3

	urgencyTotal := fv["title_urgency_count"] + fv["description_urgency_count"]
	actionTotal := fv["title_action_count"] + fv["description_action_count"]
	titleMood := clamp01((fv["title_sentiment_compound"] + 1) / 2)
	fv["strategic_urgency_score"] = clamp01((urgencyTotal+actionTotal)/10)*0.7 + titleMood*0.3

	fv["authority_targeting_score"] = fv["title_authority_count"] +
		fv["description_authority_count"] +
		fv["targeting_description_word_count"]/10

	// Placeholder: coherence was never a computed signal in the trained
	// feature set. Kept constant so the key stays stable for classifiers.
	fv["message_coherence_score"] = 0.5
}

// CleanHTML strips HTML tags and collapses whitespace.
func CleanHTML(text string) string {
	stripped := htmlTagPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(stripped), " ")
}

// CountHTMLTags counts tag-shaped substrings in the raw text.
func CountHTMLTags(text string) int {
	return len(htmlTagPattern.FindAllString(text, -1))
}

// countKeywords counts total phrase occurrences over pre-lowered text.
// Matching is substring-based: "urgently" counts for "urgent".
func countKeywords(lowered string, phrases []string) int {
	count := 0
	for _, phrase := range phrases {
		count += strings.Count(lowered, phrase)
	}
	return count
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
