package gateway

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/amazon11335/fraudwatch/internal/detector"
)

var scorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)risk\D{0,10}?(\d{1,3})`),
	regexp.MustCompile(`(?i)score\D{0,10}?(\d{1,3})`),
	regexp.MustCompile(`风险\D{0,10}?(\d{1,3})`),
	regexp.MustCompile(`评分\D{0,10}?(\d{1,3})`),
}

// parseLoose recovers a verdict from free-form model output. It never
// fails: missing pieces fall back to neutral values.
func parseLoose(content string) *Verdict {
	return &Verdict{
		RiskScore:      extractScore(content),
		RiskLevel:      inferLevel(content),
		FraudTypes:     extractFraudTypes(content),
		KeyIndicators:  extractIndicators(content),
		Recommendation: extractRecommendation(content),
	}
}

func extractScore(content string) float64 {
	for _, re := range scorePatterns {
		if m := re.FindStringSubmatch(content); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				if n > 100 {
					n = 100
				}
				return float64(n)
			}
		}
	}
	return 50
}

func inferLevel(content string) detector.RiskLevel {
	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, "critical") || strings.Contains(content, "高风险"):
		return detector.LevelHigh
	case strings.Contains(lower, "medium") || strings.Contains(content, "中风险"):
		return detector.LevelMedium
	case strings.Contains(lower, "low") || strings.Contains(content, "低风险"):
		return detector.LevelLow
	default:
		return detector.LevelSafe
	}
}

func extractFraudTypes(content string) []string {
	types := []string{}
	if strings.Contains(content, "占卜") || strings.Contains(content, "算命") {
		types = append(types, "fortune-telling fraud")
	}
	if strings.Contains(content, "投资") || strings.Contains(content, "理财") {
		types = append(types, "investment fraud")
	}
	if strings.Contains(content, "情感") || strings.Contains(content, "交友") {
		types = append(types, "romance fraud")
	}
	if strings.Contains(content, "身份") || strings.Contains(content, "冒充") {
		types = append(types, "impersonation fraud")
	}
	return types
}

func extractIndicators(content string) []string {
	indicators := []string{}
	if strings.Contains(content, "金额") {
		indicators = append(indicators, "mentions money")
	}
	if strings.Contains(content, "转账") {
		indicators = append(indicators, "requests a transfer")
	}
	if strings.Contains(content, "紧急") {
		indicators = append(indicators, "manufactures urgency")
	}
	if strings.Contains(content, "保密") {
		indicators = append(indicators, "demands secrecy")
	}
	return indicators
}

func extractRecommendation(content string) string {
	switch {
	case strings.Contains(content, "停止"):
		return "Stop the conversation immediately"
	case strings.Contains(content, "谨慎"):
		return "Proceed carefully and verify the information"
	case strings.Contains(content, "警惕"):
		return "Stay vigilant and watch for follow-up pressure"
	default:
		return "Keep your usual precautions"
	}
}
