// Package model loads trained classifier artifacts and exposes them
// through the scoring contract: an ordered feature-name list plus a
// probability/label predictor. The artifact is an export of the offline
// training run; it is loaded once at startup and treated as immutable.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Artifact is the serialized form of a trained binary classifier: a
// logistic model over a fixed, ordered feature-name list, tagged with the
// extraction rules version it was trained against.
type Artifact struct {
	RulesVersion string    `json:"rules_version"`
	FeatureNames []string  `json:"feature_names"`
	Intercept    float64   `json:"intercept"`
	Weights      []float64 `json:"weights"`
}

// Validate checks internal consistency of the artifact.
func (a *Artifact) Validate() error {
	if a.RulesVersion == "" {
		return fmt.Errorf("artifact missing rules_version")
	}
	if len(a.FeatureNames) == 0 {
		return fmt.Errorf("artifact declares no feature names")
	}
	if len(a.Weights) != len(a.FeatureNames) {
		return fmt.Errorf("artifact has %d weights for %d feature names",
			len(a.Weights), len(a.FeatureNames))
	}
	return nil
}

// LoadArtifact reads and validates an artifact file.
func LoadArtifact(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer f.Close()

	var a Artifact
	if err := json.NewDecoder(f).Decode(&a); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Load reads an artifact and checks its rules version against the version
// of the extraction rules compiled into this binary. A trained model is
// silently wrong against drifted extraction rules, so a mismatch is a
// hard load-time failure rather than a degraded score.
func Load(path, wantRulesVersion string) (*LogisticModel, []string, error) {
	a, err := LoadArtifact(path)
	if err != nil {
		return nil, nil, err
	}
	if a.RulesVersion != wantRulesVersion {
		return nil, nil, fmt.Errorf(
			"model artifact trained against rules %q but extractor implements %q",
			a.RulesVersion, wantRulesVersion)
	}
	return a.Model(), a.FeatureNames, nil
}

// Model builds the runnable classifier from the artifact.
func (a *Artifact) Model() *LogisticModel {
	weights := make([]float64, len(a.Weights))
	copy(weights, a.Weights)
	return &LogisticModel{intercept: a.Intercept, weights: weights}
}

// LogisticModel is a binary logistic-regression classifier. Immutable
// after construction; safe for concurrent use.
type LogisticModel struct {
	intercept float64
	weights   []float64
}

// PredictProba returns the probability of the positive class.
func (m *LogisticModel) PredictProba(features []float64) (float64, error) {
	if len(features) != len(m.weights) {
		return 0, fmt.Errorf("feature vector length %d does not match model dimension %d",
			len(features), len(m.weights))
	}
	z := m.intercept
	for i, w := range m.weights {
		z += w * features[i]
	}
	return 1 / (1 + math.Exp(-z)), nil
}

// Predict returns the hard label: 1 when the positive-class probability
// is at least 0.5.
func (m *LogisticModel) Predict(features []float64) (int, error) {
	p, err := m.PredictProba(features)
	if err != nil {
		return 0, err
	}
	if p >= 0.5 {
		return 1, nil
	}
	return 0, nil
}
