package analysis

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// readabilityScores holds the readability feature group for one field.
// All values are 0 for degenerate input (stripped text under 10 chars).
type readabilityScores struct {
	FleschEase           float64
	FleschKincaid        float64
	GunningFog           float64
	AutomatedReadability float64
	AvgSentenceLength    float64
	AvgWordLength        float64
	VocabDiversity       float64
	CapsRatio            float64
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// computeReadability derives readability statistics from HTML-stripped
// text. Inputs shorter than 10 characters produce all zeros rather than
// meaningless scores.
func computeReadability(clean string) readabilityScores {
	if utf8.RuneCountInString(strings.TrimSpace(clean)) < 10 {
		return readabilityScores{}
	}

	words := strings.Fields(clean)
	if len(words) == 0 {
		return readabilityScores{}
	}

	var sentences []string
	for _, s := range sentenceSplit.Split(clean, -1) {
		if strings.TrimSpace(s) != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		sentences = []string{clean}
	}

	nWords := float64(len(words))
	nSentences := float64(len(sentences))

	var chars, syllables, complexWords, capsWords int
	unique := make(map[string]struct{})
	for _, w := range words {
		chars += utf8.RuneCountInString(w)
		sy := countSyllables(w)
		syllables += sy
		if sy >= 3 {
			complexWords++
		}
		if len(w) > 1 && isAllUpper(w) {
			capsWords++
		}
		if isAlphabetic(w) {
			unique[strings.ToLower(w)] = struct{}{}
		}
	}

	wordsPerSentence := nWords / nSentences
	syllablesPerWord := float64(syllables) / nWords
	charsPerWord := float64(chars) / nWords

	return readabilityScores{
		FleschEase:           206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord,
		FleschKincaid:        0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59,
		GunningFog:           0.4 * (wordsPerSentence + 100*float64(complexWords)/nWords),
		AutomatedReadability: 4.71*charsPerWord + 0.5*wordsPerSentence - 21.43,
		AvgSentenceLength:    wordsPerSentence,
		AvgWordLength:        charsPerWord,
		VocabDiversity:       float64(len(unique)) / nWords,
		CapsRatio:            float64(capsWords) / nWords,
	}
}

// countSyllables estimates syllables as vowel groups, with the usual
// silent-e adjustment. Every word counts at least one.
func countSyllables(word string) int {
	w := strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range w {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if strings.HasSuffix(w, "e") && !strings.HasSuffix(w, "le") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// isAllUpper reports whether a token contains at least one letter and all
// of its letters are uppercase.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
