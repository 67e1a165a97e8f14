package analyzer

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/amazon11335/fraudwatch/internal/detector"
)

// Combiner weights. The basic keyword score dominates, the cheap
// structural dimensions discount toward zero.
const (
	weightBasic      = 0.4
	weightPattern    = 0.25
	weightBehavior   = 0.2
	weightLinguistic = 0.1
	weightContext    = 0.05
)

// Advanced runs the four sub-analyzers over a text plus its keyword
// detection result and combines them into a bounded final score with a
// confidence estimate. All methods are pure; Advanced is safe for
// concurrent use.
type Advanced struct {
	pattern    *patternAnalyzer
	behavior   *behaviorAnalyzer
	linguistic *linguisticAnalyzer
	context    *contextAnalyzer
}

// NewAdvanced creates the multi-dimensional analyzer.
func NewAdvanced() *Advanced {
	return &Advanced{
		pattern:    newPatternAnalyzer(),
		behavior:   newBehaviorAnalyzer(),
		linguistic: newLinguisticAnalyzer(),
		context:    newContextAnalyzer(),
	}
}

// Analyze never fails: malformed or empty input yields all-zero sub-scores.
func (a *Advanced) Analyze(text string, basic *detector.DetectionResult) *Analysis {
	if basic == nil {
		basic = &detector.DetectionResult{RiskLevel: detector.LevelSafe}
	}

	analysis := &Analysis{
		BasicScore: basic.TotalScore,
	}
	if strings.TrimSpace(text) != "" {
		analysis.Pattern = a.pattern.analyze(text)
		analysis.Behavior = a.behavior.analyze(text)
		analysis.Linguistic = a.linguistic.analyze(text)
		analysis.Context = a.context.analyze(text, basic)
	} else {
		analysis.Pattern = SubScore{Factors: []string{}}
		analysis.Behavior = SubScore{Factors: []string{}}
		analysis.Linguistic = SubScore{Factors: []string{}}
		analysis.Context = SubScore{Factors: []string{}}
	}

	analysis.FinalScore = combine(analysis)
	analysis.Confidence = confidence(analysis, text)
	analysis.RiskFactors = riskFactors(analysis)
	return analysis
}

// Report produces the rounded external summary used as the offline verdict.
func (a *Advanced) Report(text string, basic *detector.DetectionResult) *Report {
	analysis := a.Analyze(text, basic)
	return &Report{
		FinalScore:     int(math.Round(analysis.FinalScore)),
		Confidence:     int(math.Round(analysis.Confidence)),
		RiskLevel:      LevelForScore(analysis.FinalScore),
		Recommendation: RecommendationForScore(analysis.FinalScore),
		Breakdown: Breakdown{
			Basic:      int(math.Round(analysis.BasicScore)),
			Pattern:    int(math.Round(analysis.Pattern.Score)),
			Behavior:   int(math.Round(analysis.Behavior.Score)),
			Linguistic: int(math.Round(analysis.Linguistic.Score)),
			Context:    int(math.Round(analysis.Context.Score)),
		},
		RiskFactors: analysis.RiskFactors,
	}
}

func combine(analysis *Analysis) float64 {
	score := analysis.BasicScore*weightBasic +
		analysis.Pattern.Score*weightPattern +
		analysis.Behavior.Score*weightBehavior +
		analysis.Linguistic.Score*weightLinguistic +
		analysis.Context.Score*weightContext
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// confidence starts at 50 and rewards factor count, text length and
// cross-dimension score agreement, capped at 95.
func confidence(analysis *Analysis, text string) float64 {
	conf := 50.0

	totalFactors := len(analysis.Pattern.Factors) +
		len(analysis.Behavior.Factors) +
		len(analysis.Linguistic.Factors) +
		len(analysis.Context.Factors)
	conf += math.Min(float64(totalFactors)*5, 30)

	length := utf8.RuneCountInString(text)
	if length > 50 {
		conf += math.Min(float64(length-50)/10, 15)
	}

	scores := []float64{analysis.BasicScore, analysis.Pattern.Score, analysis.Behavior.Score}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	avg := sum / float64(len(scores))
	var variance float64
	for _, s := range scores {
		variance += (s - avg) * (s - avg)
	}
	variance /= float64(len(scores))
	if variance < 100 {
		conf += 5
	}

	if conf > 95 {
		conf = 95
	}
	return conf
}

func riskFactors(analysis *Analysis) []string {
	factors := make([]string, 0,
		len(analysis.Pattern.Factors)+len(analysis.Behavior.Factors)+
			len(analysis.Linguistic.Factors)+len(analysis.Context.Factors)+1)
	factors = append(factors, analysis.Pattern.Factors...)
	factors = append(factors, analysis.Behavior.Factors...)
	factors = append(factors, analysis.Linguistic.Factors...)
	factors = append(factors, analysis.Context.Factors...)
	factors = append(factors, overallAssessment(analysis.FinalScore))
	return factors
}

func overallAssessment(score float64) string {
	switch {
	case score > 80:
		return "overall assessment: extreme risk, stop all contact"
	case score > 60:
		return "overall assessment: high risk, proceed with great caution"
	case score > 40:
		return "overall assessment: moderate risk, verify the information"
	case score > 20:
		return "overall assessment: low risk, stay alert"
	default:
		return "overall assessment: minimal risk, relatively safe"
	}
}
