package analysis

// FeatureVector maps feature names to numeric values. Booleans are encoded
// as 0/1. For a given rules version the key set is fixed: every declared
// feature is always present, zero-valued when it cannot be computed.
type FeatureVector map[string]float64

// Classifier is the contract a trained artifact must satisfy: given a
// numeric vector built from the artifact's ordered feature-name list,
// return the probability of the positive (successful) class and a hard
// label. Any artifact satisfying this is interchangeable.
type Classifier interface {
	PredictProba(features []float64) (float64, error)
	Predict(features []float64) (int, error)
}

// Feedback is the qualitative report derived from a probability and a
// feature vector via fixed thresholds. It carries no learned component.
type Feedback struct {
	Grade           string            `json:"grade"`
	Overall         string            `json:"overall"`
	Strengths       []string          `json:"strengths"`
	Improvements    []string          `json:"improvements"`
	Recommendations []string          `json:"recommendations"`
	Metrics         map[string]string `json:"metrics"`
}

// ScoreResult is the scorer's output for one document.
type ScoreResult struct {
	Probability float64       `json:"probability"`
	Prediction  int           `json:"prediction"`
	Source      string        `json:"source"` // "classifier" or "heuristic"
	Features    FeatureVector `json:"features"`
	Feedback    Feedback      `json:"feedback"`
}

const (
	// SourceClassifier marks results produced by the trained artifact.
	SourceClassifier = "classifier"
	// SourceHeuristic marks results produced by the deterministic fallback.
	SourceHeuristic = "heuristic"
)

// VectorFor builds the ordered numeric vector a classifier expects,
// defaulting to 0 for any name the FeatureVector does not carry.
func VectorFor(fv FeatureVector, names []string) []float64 {
	vec := make([]float64, len(names))
	for i, name := range names {
		vec[i] = fv[name]
	}
	return vec
}
