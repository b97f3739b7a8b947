package analysis

import "fmt"

// Feedback thresholds. Each rule is an independent check; a metric is
// never both a strength and an improvement for the same threshold.
const (
	contentStrongThreshold = 2000
	contentGoodThreshold   = 1000
	htmlStrengthThreshold  = 15
	urgencyTarget          = 2
	actionTarget           = 3
)

// GradeFor maps a probability to its qualitative grade band. Bands are
// contiguous closed-open intervals, so every probability in [0,1] maps to
// exactly one grade.
func GradeFor(probability float64) string {
	switch {
	case probability >= 0.8:
		return "Excellent"
	case probability >= 0.7:
		return "Very Good"
	case probability >= 0.6:
		return "Good"
	case probability >= 0.5:
		return "Moderate"
	case probability >= 0.4:
		return "Needs Work"
	default:
		return "Major Revision Needed"
	}
}

func overallFor(grade string) string {
	switch grade {
	case "Excellent":
		return "Your petition has exceptional success potential."
	case "Very Good":
		return "Your petition has strong success potential with minor optimizations."
	case "Good":
		return "Your petition shows good potential with some improvements needed."
	case "Moderate":
		return "Your petition has moderate potential; several improvements recommended."
	case "Needs Work":
		return "Your petition needs significant improvements to succeed."
	default:
		return "Your petition requires major restructuring for success."
	}
}

// GenerateFeedback derives the qualitative report from a probability and
// the feature vector. Pure function over fixed thresholds: no I/O, no
// randomness.
func GenerateFeedback(probability float64, fv FeatureVector) Feedback {
	grade := GradeFor(probability)
	fb := Feedback{
		Grade:           grade,
		Overall:         overallFor(grade),
		Strengths:       []string{},
		Improvements:    []string{},
		Recommendations: []string{},
	}

	content := fv["content_comprehensiveness_score"]
	htmlTags := fv["description_html_tags"]
	urgency := fv["title_urgency_count"] + fv["description_urgency_count"]
	action := fv["title_action_count"] + fv["description_action_count"]
	sophistication := fv["professional_sophistication_score"]

	switch {
	case content >= contentStrongThreshold:
		fb.Strengths = append(fb.Strengths, "Excellent content comprehensiveness")
	case content >= contentGoodThreshold:
		fb.Strengths = append(fb.Strengths, "Good content length")
	default:
		fb.Improvements = append(fb.Improvements, "Increase content comprehensiveness")
		fb.Recommendations = append(fb.Recommendations, fmt.Sprintf(
			"Expand total content to %d+ characters (%.0f more needed)",
			contentStrongThreshold, float64(contentStrongThreshold)-content))
	}

	if htmlTags >= htmlStrengthThreshold {
		fb.Strengths = append(fb.Strengths, "Professional HTML formatting")
	} else {
		fb.Improvements = append(fb.Improvements, "Improve formatting and structure")
		fb.Recommendations = append(fb.Recommendations, fmt.Sprintf(
			"Add HTML formatting such as <b>, <strong> and <h3> headers (current: %.0f tags)", htmlTags))
	}

	if urgency >= urgencyTarget {
		fb.Strengths = append(fb.Strengths, "Strong urgency language")
	} else {
		fb.Recommendations = append(fb.Recommendations,
			"Add urgency keywords: 'immediate', 'urgent', 'critical', 'emergency'")
	}

	if action >= actionTarget {
		fb.Strengths = append(fb.Strengths, "Strong action-oriented language")
	} else {
		fb.Recommendations = append(fb.Recommendations,
			"Include more action words: 'demand', 'stop', 'implement', 'enforce'")
	}

	fb.Metrics = map[string]string{
		"Content Length":      fmt.Sprintf("%.0f characters", content),
		"HTML Tags":           fmt.Sprintf("%.0f", htmlTags),
		"Urgency Words":       fmt.Sprintf("%.0f", urgency),
		"Action Words":        fmt.Sprintf("%.0f", action),
		"Professional Score":  fmt.Sprintf("%.2f", sophistication),
		"Success Probability": fmt.Sprintf("%.1f%%", probability*100),
	}
	return fb
}
