package detector

import (
	"strings"

	"github.com/amazon11335/fraudwatch/internal/taxonomy"
)

// RiskLevel buckets a numeric score into a coarse severity.
type RiskLevel string

const (
	LevelSafe     RiskLevel = "safe"
	LevelLow      RiskLevel = "low"
	LevelMedium   RiskLevel = "medium"
	LevelHigh     RiskLevel = "high"
	LevelCritical RiskLevel = "critical"
)

// CategoryMatch reports one matched category and its contribution.
type CategoryMatch struct {
	Category *taxonomy.Category `json:"-"`
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Phrases  []string           `json:"phrases"`
	Score    float64            `json:"score"`
}

// DetectionResult is the output of one keyword scan. It is a value built
// fresh per call and never mutated after return.
type DetectionResult struct {
	TotalScore  float64         `json:"total_score"`
	RiskLevel   RiskLevel       `json:"risk_level"`
	Categories  []CategoryMatch `json:"categories"`
	Keywords    []string        `json:"keywords"`
	Suggestions []string        `json:"suggestions"`
}

// Detector scans text against the taxonomy and the auxiliary word lists.
// Detect is a pure function over the taxonomy snapshot: identical text and
// taxonomy state always yield an identical result.
type Detector struct {
	tax *taxonomy.Taxonomy

	// Flat-list per-match weights.
	sensitiveWeight float64
	urgencyWeight   float64
}

// New creates a Detector over the given taxonomy.
func New(tax *taxonomy.Taxonomy) *Detector {
	return &Detector{
		tax:             tax,
		sensitiveWeight: 15,
		urgencyWeight:   10,
	}
}

// Detect scores the text. Empty text yields a zero-score safe result.
func (d *Detector) Detect(text string) *DetectionResult {
	result := &DetectionResult{
		RiskLevel:  LevelSafe,
		Categories: []CategoryMatch{},
		Keywords:   []string{},
	}
	if strings.TrimSpace(text) == "" {
		result.Suggestions = suggestionsForLevel(LevelSafe)
		return result
	}

	folded := strings.ToLower(text)
	seen := make(map[string]bool)

	for _, c := range d.tax.Categories() {
		matches := findMatches(folded, c.Phrases)
		if len(matches) == 0 {
			continue
		}
		score := float64(len(matches)) * c.Weight
		result.TotalScore += score
		result.Categories = append(result.Categories, CategoryMatch{
			Category: c,
			ID:       c.ID,
			Name:     c.Name,
			Phrases:  matches,
			Score:    score,
		})
		appendKeywords(result, matches, seen)
	}

	if matches := findMatches(folded, d.tax.SensitivePhrases()); len(matches) > 0 {
		result.TotalScore += float64(len(matches)) * d.sensitiveWeight
		appendKeywords(result, matches, seen)
	}

	if matches := findMatches(folded, d.tax.UrgencyPhrases()); len(matches) > 0 {
		result.TotalScore += float64(len(matches)) * d.urgencyWeight
		appendKeywords(result, matches, seen)
	}

	if result.TotalScore > 100 {
		result.TotalScore = 100
	}

	result.RiskLevel = LevelForScore(result.TotalScore)
	result.Suggestions = d.buildSuggestions(result)
	return result
}

// findMatches returns the distinct phrases present in the folded text,
// preserving list order.
func findMatches(folded string, phrases []string) []string {
	var matches []string
	seen := make(map[string]bool)
	for _, p := range phrases {
		lp := strings.ToLower(p)
		if seen[lp] {
			continue
		}
		if strings.Contains(folded, lp) {
			matches = append(matches, p)
			seen[lp] = true
		}
	}
	return matches
}

func appendKeywords(result *DetectionResult, matches []string, seen map[string]bool) {
	for _, m := range matches {
		if !seen[m] {
			result.Keywords = append(result.Keywords, m)
			seen[m] = true
		}
	}
}

// LevelForScore maps a detection score to its bucket. Boundary values
// resolve to the higher bucket.
func LevelForScore(score float64) RiskLevel {
	switch {
	case score >= 100:
		return LevelCritical
	case score >= 70:
		return LevelHigh
	case score >= 40:
		return LevelMedium
	case score >= 20:
		return LevelLow
	default:
		return LevelSafe
	}
}
