package analysis

import (
	"log/slog"

	"github.com/civicsignal/petition-meter/internal/types"
)

// Heuristic weights and caps. Together with the taxonomy these constants
// are part of RulesVersion.
const (
	contentWeightFull = 0.40
	contentWeightHigh = 0.25
	contentWeightMid  = 0.15
	htmlWeight        = 0.20
	strategicWeight   = 0.25
	sophisticationWt  = 0.15

	contentFullThreshold = 2000
	contentHighThreshold = 1000
	contentMidThreshold  = 500

	htmlTagScale       = 25
	strategicScale     = 8
	probabilityCeiling = 0.95
)

// Scorer maps a FeatureVector to a success probability and feedback.
// The classifier and its expected feature-name list are injected at
// construction; when absent, or whenever classifier invocation fails,
// the deterministic heuristic takes over transparently. Safe for
// concurrent use: all state is read-only after construction.
type Scorer struct {
	classifier   Classifier
	featureNames []string
}

// NewScorer builds a scorer around an optional classifier artifact. Pass
// a nil classifier to run heuristic-only.
func NewScorer(classifier Classifier, featureNames []string) *Scorer {
	return &Scorer{classifier: classifier, featureNames: featureNames}
}

// HasClassifier reports whether a trained artifact is wired in.
func (s *Scorer) HasClassifier() bool { return s.classifier != nil }

// FeatureNames returns the ordered feature-name list the scorer was
// built with.
func (s *Scorer) FeatureNames() []string { return s.featureNames }

// ScoreDocument scores a document given its already-extracted features.
// It always returns a result; scoring itself never surfaces an error.
func (s *Scorer) ScoreDocument(doc types.PetitionDocument, fv FeatureVector) ScoreResult {
	probability, prediction, ok := s.classifierScore(fv)
	source := SourceClassifier
	if !ok {
		probability = HeuristicScore(fv)
		prediction = 0
		if probability >= 0.5 {
			prediction = 1
		}
		source = SourceHeuristic
	}

	return ScoreResult{
		Probability: probability,
		Prediction:  prediction,
		Source:      source,
		Features:    fv,
		Feedback:    GenerateFeedback(probability, fv),
	}
}

// classifierScore runs the primary path. Any failure, including a panic
// inside the artifact, degrades to the heuristic rather than propagating.
func (s *Scorer) classifierScore(fv FeatureVector) (probability float64, prediction int, ok bool) {
	if s.classifier == nil || len(s.featureNames) == 0 {
		return 0, 0, false
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("classifier panicked, falling back to heuristic", "panic", r)
			ok = false
		}
	}()

	vec := VectorFor(fv, s.featureNames)

	probability, err := s.classifier.PredictProba(vec)
	if err != nil {
		slog.Warn("classifier probability failed, falling back to heuristic", "error", err)
		return 0, 0, false
	}
	prediction, err = s.classifier.Predict(vec)
	if err != nil {
		slog.Warn("classifier prediction failed, falling back to heuristic", "error", err)
		return 0, 0, false
	}
	return probability, prediction, true
}

// HeuristicScore is the deterministic fallback: a weighted sum of four
// capped sub-scores, itself capped at 0.95 so the meter never reports
// certainty.
func HeuristicScore(fv FeatureVector) float64 {
	score := 0.0

	switch content := fv["content_comprehensiveness_score"]; {
	case content >= contentFullThreshold:
		score += contentWeightFull
	case content >= contentHighThreshold:
		score += contentWeightHigh
	case content >= contentMidThreshold:
		score += contentWeightMid
	}

	score += clamp01(fv["description_html_tags"]/htmlTagScale) * htmlWeight

	urgency := fv["title_urgency_count"] + fv["description_urgency_count"]
	action := fv["title_action_count"] + fv["description_action_count"]
	score += clamp01((urgency+action)/strategicScale) * strategicWeight

	score += fv["professional_sophistication_score"] * sophisticationWt

	if score > probabilityCeiling {
		score = probabilityCeiling
	}
	return score
}
