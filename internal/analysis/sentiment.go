package analysis

import "github.com/jonreiter/govader"

// SentimentScores are lexicon-based polarity scores for a text.
type SentimentScores struct {
	Compound float64 `json:"compound"`
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// SentimentAnalyzer is the injected sentiment capability. Implementations
// must be safe for concurrent use; the extractor calls Scores once per
// text field.
type SentimentAnalyzer interface {
	Scores(text string) SentimentScores
}

type vaderAnalyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

// NewVaderAnalyzer returns a VADER-based sentiment analyzer, the same
// lexicon approach the model's training features were built with.
func NewVaderAnalyzer() SentimentAnalyzer {
	return &vaderAnalyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

func (v *vaderAnalyzer) Scores(text string) SentimentScores {
	if text == "" {
		return SentimentScores{}
	}
	s := v.sia.PolarityScores(text)
	return SentimentScores{
		Compound: s.Compound,
		Positive: s.Positive,
		Negative: s.Negative,
		Neutral:  s.Neutral,
	}
}

// NullSentimentAnalyzer returns all-zero scores. It stands in when the
// sentiment subsystem is disabled, keeping the extractor's contract that
// a complete FeatureVector is always produced.
type NullSentimentAnalyzer struct{}

func (NullSentimentAnalyzer) Scores(string) SentimentScores { return SentimentScores{} }
