package analyzer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// linguisticAnalyzer penalizes surface features of scam copy: padded
// length, repeated tokens, punctuation overload.
type linguisticAnalyzer struct {
	lengthThreshold int
	lengthFactor    float64
	repeatFactor    float64
}

func newLinguisticAnalyzer() *linguisticAnalyzer {
	return &linguisticAnalyzer{
		lengthThreshold: 500,
		lengthFactor:    0.1,
		repeatFactor:    1.2,
	}
}

func (l *linguisticAnalyzer) analyze(text string) SubScore {
	out := SubScore{Factors: []string{}}

	length := utf8.RuneCountInString(text)
	if length > l.lengthThreshold {
		out.Score += float64(length-l.lengthThreshold) * l.lengthFactor
		out.Factors = append(out.Factors, "unusually long text, may hide a layered scam script")
	}

	// Tokens longer than one rune occurring more than twice.
	counts := make(map[string]int)
	var order []string
	for _, word := range strings.Fields(text) {
		if utf8.RuneCountInString(word) > 1 {
			if counts[word] == 0 {
				order = append(order, word)
			}
			counts[word]++
		}
	}
	var repeated []string
	for _, word := range order {
		if counts[word] > 2 {
			repeated = append(repeated, fmt.Sprintf("%s(%dx)", word, counts[word]))
		}
	}
	if len(repeated) > 0 {
		out.Score += float64(len(repeated)) * 5 * l.repeatFactor
		out.Factors = append(out.Factors, fmt.Sprintf("repeated tokens: %s", strings.Join(repeated, ", ")))
	}

	exclamations := strings.Count(text, "!")
	if exclamations > 3 {
		out.Score += float64(exclamations) * 2
		out.Factors = append(out.Factors, "excessive exclamation marks, emotionally charged wording")
	}

	questions := strings.Count(text, "?")
	if questions > 5 {
		out.Score += float64(questions) * 1.5
		out.Factors = append(out.Factors, "excessive question marks, possibly leading questions")
	}

	return out
}
