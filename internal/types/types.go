package types

// PetitionDocument holds the raw user-entered petition content. It is
// constructed from the request at analysis time and discarded afterwards;
// nothing in the core persists it.
type PetitionDocument struct {
	Title                string `json:"title"`
	Description          string `json:"description"`
	LetterBody           string `json:"letter_body"`
	TargetingDescription string `json:"targeting_description"`
	Locale               string `json:"locale,omitempty"`
	HasLocation          bool   `json:"has_location,omitempty"`
}

// AnalyzeRequest represents the request structure for the analyze endpoint.
// All text fields are free-form. The extractor and scorer accept any
// document, including an empty one, which bottoms out at the zero
// feature vector; the HTTP layer requires at least a title or a
// description before scoring.
type AnalyzeRequest struct {
	Title                string `json:"title"`
	Description          string `json:"description"`
	LetterBody           string `json:"letter_body"`
	TargetingDescription string `json:"targeting_description"`
	Locale               string `json:"locale"`
	HasLocation          bool   `json:"has_location"`
}

// Document converts the request into the document the core consumes.
func (r AnalyzeRequest) Document() PetitionDocument {
	return PetitionDocument{
		Title:                r.Title,
		Description:          r.Description,
		LetterBody:           r.LetterBody,
		TargetingDescription: r.TargetingDescription,
		Locale:               r.Locale,
		HasLocation:          r.HasLocation,
	}
}
