package analyzer

import (
	"github.com/amazon11335/fraudwatch/internal/detector"
)

// SubScore is the output of one analysis dimension.
type SubScore struct {
	Score   float64  `json:"score"`
	Factors []string `json:"factors"`
}

// Analysis is the combined multi-dimensional result. It is derived solely
// from the detection result and the source text; the analyzer holds no
// per-call state.
type Analysis struct {
	BasicScore      float64  `json:"basic_score"`
	Pattern         SubScore `json:"pattern"`
	Behavior        SubScore `json:"behavior"`
	Linguistic      SubScore `json:"linguistic"`
	Context         SubScore `json:"context"`
	FinalScore      float64  `json:"final_score"`
	Confidence      float64  `json:"confidence"`
	RiskFactors     []string `json:"risk_factors"`
}

// Report is the rounded, externally consumable summary of an Analysis.
type Report struct {
	FinalScore     int                `json:"final_score"`
	Confidence     int                `json:"confidence"`
	RiskLevel      detector.RiskLevel `json:"risk_level"`
	Recommendation string             `json:"recommendation"`
	Breakdown      Breakdown          `json:"breakdown"`
	RiskFactors    []string           `json:"risk_factors"`
}

// Breakdown exposes the rounded per-dimension scores.
type Breakdown struct {
	Basic      int `json:"basic"`
	Pattern    int `json:"pattern"`
	Behavior   int `json:"behavior"`
	Linguistic int `json:"linguistic"`
	Context    int `json:"context"`
}

// LevelForScore maps a combined analysis score to its bucket. The cut
// points are tighter than the raw keyword buckets because the combiner
// already discounts each dimension.
func LevelForScore(score float64) detector.RiskLevel {
	switch {
	case score >= 80:
		return detector.LevelCritical
	case score >= 60:
		return detector.LevelHigh
	case score >= 40:
		return detector.LevelMedium
	case score >= 20:
		return detector.LevelLow
	default:
		return detector.LevelSafe
	}
}

// RecommendationForScore returns the action advice for a combined score.
func RecommendationForScore(score float64) string {
	switch {
	case score >= 80:
		return "Stop all contact immediately, this is very likely a serious scam"
	case score >= 60:
		return "Stay highly alert and consider reporting the content"
	case score >= 40:
		return "Proceed carefully and verify the source of the information"
	case score >= 20:
		return "Stay vigilant and watch for follow-up pressure"
	default:
		return "Relatively safe, keep your usual precautions"
	}
}
