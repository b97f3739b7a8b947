package analysis

import (
	"errors"
	"strings"
	"testing"

	"github.com/civicsignal/petition-meter/internal/types"
	"github.com/stretchr/testify/assert"
)

type stubClassifier struct {
	probability float64
	prediction  int
	err         error
	panics      bool
}

func (s *stubClassifier) PredictProba(features []float64) (float64, error) {
	if s.panics {
		panic("artifact blew up")
	}
	return s.probability, s.err
}

func (s *stubClassifier) Predict(features []float64) (int, error) {
	return s.prediction, s.err
}

func TestHeuristicScore(t *testing.T) {
	tests := []struct {
		name     string
		fv       FeatureVector
		expected float64
	}{
		{
			name:     "empty vector scores zero",
			fv:       FeatureVector{},
			expected: 0,
		},
		{
			name: "full content tier",
			fv: FeatureVector{
				"content_comprehensiveness_score": 2500,
			},
			expected: 0.40,
		},
		{
			name: "high content tier",
			fv: FeatureVector{
				"content_comprehensiveness_score": 1200,
			},
			expected: 0.25,
		},
		{
			name: "mid content tier",
			fv: FeatureVector{
				"content_comprehensiveness_score": 600,
			},
			expected: 0.15,
		},
		{
			name: "below all content tiers",
			fv: FeatureVector{
				"content_comprehensiveness_score": 499,
			},
			expected: 0,
		},
		{
			name: "html formatting capped at scale",
			fv: FeatureVector{
				"description_html_tags": 50,
			},
			expected: 0.20,
		},
		{
			name: "keyword contribution capped",
			fv: FeatureVector{
				"title_urgency_count":       5,
				"description_urgency_count": 5,
				"title_action_count":        5,
				"description_action_count":  5,
			},
			expected: 0.25,
		},
		{
			name: "sophistication weighted",
			fv: FeatureVector{
				"professional_sophistication_score": 1.0,
			},
			expected: 0.15,
		},
		{
			name: "everything maxed hits the ceiling",
			fv: FeatureVector{
				"content_comprehensiveness_score":   3000,
				"description_html_tags":             30,
				"title_urgency_count":               4,
				"description_urgency_count":         4,
				"title_action_count":                4,
				"description_action_count":          4,
				"professional_sophistication_score": 1.0,
			},
			expected: 0.95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, HeuristicScore(tt.fv), 1e-9)
		})
	}
}

func TestHeuristicScore_Bounds(t *testing.T) {
	e := NewExtractor(NullSentimentAnalyzer{})

	docs := []types.PetitionDocument{
		{},
		{Title: "Short"},
		{Description: strings.Repeat("<p>Urgent: stop this now, sign this petition! </p>", 100)},
	}

	for _, doc := range docs {
		p := HeuristicScore(e.ExtractFeatures(doc))
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 0.95)
	}
}

func TestScoreDocument_HeuristicWhenNoClassifier(t *testing.T) {
	scorer := NewScorer(nil, FeatureNames())
	assert.False(t, scorer.HasClassifier())

	fv := FeatureVector{"content_comprehensiveness_score": 2500}
	result := scorer.ScoreDocument(types.PetitionDocument{}, fv)

	assert.Equal(t, SourceHeuristic, result.Source)
	assert.InDelta(t, 0.40, result.Probability, 1e-9)
	assert.Equal(t, 0, result.Prediction)
	assert.Equal(t, "Needs Work", result.Feedback.Grade)
}

func TestScoreDocument_ClassifierPath(t *testing.T) {
	scorer := NewScorer(&stubClassifier{probability: 0.82, prediction: 1}, FeatureNames())
	assert.True(t, scorer.HasClassifier())

	result := scorer.ScoreDocument(types.PetitionDocument{}, FeatureVector{})

	assert.Equal(t, SourceClassifier, result.Source)
	assert.Equal(t, 0.82, result.Probability)
	assert.Equal(t, 1, result.Prediction)
	assert.Equal(t, "Excellent", result.Feedback.Grade)
}

func TestScoreDocument_FallsBackOnClassifierError(t *testing.T) {
	scorer := NewScorer(&stubClassifier{err: errors.New("bad vector")}, FeatureNames())

	fv := FeatureVector{"content_comprehensiveness_score": 1200}
	result := scorer.ScoreDocument(types.PetitionDocument{}, fv)

	assert.Equal(t, SourceHeuristic, result.Source)
	assert.InDelta(t, 0.25, result.Probability, 1e-9)
}

func TestScoreDocument_FallsBackOnClassifierPanic(t *testing.T) {
	scorer := NewScorer(&stubClassifier{panics: true}, FeatureNames())

	result := scorer.ScoreDocument(types.PetitionDocument{}, FeatureVector{})

	assert.Equal(t, SourceHeuristic, result.Source)
	assert.GreaterOrEqual(t, result.Probability, 0.0)
}

func TestScoreDocument_PredictionThreshold(t *testing.T) {
	scorer := NewScorer(nil, FeatureNames())

	low := scorer.ScoreDocument(types.PetitionDocument{}, FeatureVector{
		"content_comprehensiveness_score": 600,
	})
	assert.Equal(t, 0, low.Prediction)

	high := scorer.ScoreDocument(types.PetitionDocument{}, FeatureVector{
		"content_comprehensiveness_score":   2500,
		"description_html_tags":             25,
		"professional_sophistication_score": 1.0,
	})
	// 0.40 + 0.20 + 0.15 = 0.75
	assert.Equal(t, 1, high.Prediction)
	assert.InDelta(t, 0.75, high.Probability, 1e-9)
}

func TestScorePipeline_WeakPetition(t *testing.T) {
	e := NewExtractor(NullSentimentAnalyzer{})
	scorer := NewScorer(nil, FeatureNames())

	doc := types.PetitionDocument{
		Title:       "Stop pollution!",
		Description: "Pollution is bad for everyone and it harms the air and the water in our neighborhoods every single day.",
	}
	result := scorer.ScoreDocument(doc, e.ExtractFeatures(doc))

	assert.Less(t, result.Probability, 0.3)
	assert.Contains(t, []string{"Needs Work", "Major Revision Needed"}, result.Feedback.Grade)
	assert.Contains(t, result.Feedback.Improvements, "Increase content comprehensiveness")
}

func TestScorePipeline_StrongPetition(t *testing.T) {
	e := NewExtractor(NullSentimentAnalyzer{})
	scorer := NewScorer(nil, FeatureNames())

	paragraph := "<p>This is an urgent crisis that requires immediate attention from every resident today. " +
		"We must stop the damage, protect our families and demand real accountability before it's too late.</p>"
	doc := types.PetitionDocument{
		Title:       "Demand immediate action from the city council to stop industrial pollution poisoning our riverside neighborhoods",
		Description: strings.Repeat(paragraph, 15),
	}
	result := scorer.ScoreDocument(doc, e.ExtractFeatures(doc))

	assert.GreaterOrEqual(t, result.Probability, 0.6)
	assert.Contains(t, []string{"Excellent", "Very Good"}, result.Feedback.Grade)
	assert.Contains(t, result.Feedback.Strengths, "Excellent content comprehensiveness")
	assert.Contains(t, result.Feedback.Strengths, "Professional HTML formatting")
}

func TestScoreDocument_ResultCarriesFeatures(t *testing.T) {
	e := NewExtractor(NullSentimentAnalyzer{})
	scorer := NewScorer(nil, FeatureNames())

	doc := types.PetitionDocument{Title: "Stop the unfair decision now"}
	fv := e.ExtractFeatures(doc)
	result := scorer.ScoreDocument(doc, fv)

	assert.Equal(t, fv, result.Features)
	assert.NotEmpty(t, result.Feedback.Grade)
	assert.NotNil(t, result.Feedback.Metrics)
}
