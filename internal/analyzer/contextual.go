package analyzer

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/amazon11335/fraudwatch/internal/detector"
)

// contextAnalyzer scores cross-signal combinations that individual
// dimensions miss: stacked fraud themes, keyword density, decorative
// character bursts.
type contextAnalyzer struct {
	specials *regexp.Regexp
}

func newContextAnalyzer() *contextAnalyzer {
	return &contextAnalyzer{
		specials: regexp.MustCompile(`[★☆♦♠♣♥※]`),
	}
}

func (c *contextAnalyzer) analyze(text string, basic *detector.DetectionResult) SubScore {
	out := SubScore{Factors: []string{}}

	if n := len(basic.Categories); n > 2 {
		out.Score += float64(n) * 15
		out.Factors = append(out.Factors, "multiple fraud themes combined")
	}

	length := utf8.RuneCountInString(text)
	if length > 0 {
		density := float64(len(basic.Keywords)) / float64(length) * 1000
		if density > 10 {
			out.Score += density * 2
			out.Factors = append(out.Factors, fmt.Sprintf("keyword density too high: %.2f‰", density))
		}
	}

	if specials := c.specials.FindAllString(text, -1); len(specials) > 3 {
		out.Score += float64(len(specials)) * 3
		out.Factors = append(out.Factors, "burst of decorative special characters")
	}

	return out
}
