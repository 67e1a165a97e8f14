package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amazon11335/fraudwatch/internal/detector"
)

func TestAnalyzeEmptyText(t *testing.T) {
	a := NewAdvanced()

	analysis := a.Analyze("", nil)
	assert.Equal(t, float64(0), analysis.BasicScore)
	assert.Equal(t, float64(0), analysis.Pattern.Score)
	assert.Equal(t, float64(0), analysis.Behavior.Score)
	assert.Equal(t, float64(0), analysis.Linguistic.Score)
	assert.Equal(t, float64(0), analysis.Context.Score)
	assert.Equal(t, float64(0), analysis.FinalScore)
}

func TestAnalyzeNilBasicResult(t *testing.T) {
	a := NewAdvanced()

	analysis := a.Analyze("今天必须马上转账，保密", nil)
	assert.Equal(t, float64(0), analysis.BasicScore)
	assert.Greater(t, analysis.Behavior.Score, float64(0))
}

func TestFinalScoreBounded(t *testing.T) {
	a := NewAdvanced()

	// Every dimension saturated: amounts, digit runs, manipulation
	// wording, repetition and symbols.
	text := strings.Repeat("今天马上赶紧保密删除秘密 求求救救可怜 ", 30) +
		"转账999999元 13812345678 6222021234567890123 ★★★★"
	analysis := a.Analyze(text, &detector.DetectionResult{TotalScore: 100})
	assert.LessOrEqual(t, analysis.FinalScore, float64(100))
	assert.GreaterOrEqual(t, analysis.FinalScore, float64(0))
}

func TestConfidenceBounds(t *testing.T) {
	a := NewAdvanced()

	empty := a.Analyze("", nil)
	assert.GreaterOrEqual(t, empty.Confidence, float64(50))

	loaded := a.Analyze(strings.Repeat("今天马上保密转账5000元求求你 ", 20), nil)
	assert.LessOrEqual(t, loaded.Confidence, float64(95))
}

func TestConfidenceRewardsFactors(t *testing.T) {
	a := NewAdvanced()

	plain := a.Analyze("你好", nil)
	// Urgency, secrecy and emotion all fire here.
	loaded := a.Analyze("今天马上保密，求求你帮帮我", nil)
	assert.Greater(t, loaded.Confidence, plain.Confidence)
}

func TestBehaviorFactorsNamed(t *testing.T) {
	a := NewAdvanced()

	analysis := a.Analyze("请立即处理，这件事要保密", nil)

	var hasUrgency, hasSecrecy bool
	for _, f := range analysis.Behavior.Factors {
		if strings.HasPrefix(f, "urgency wording:") {
			hasUrgency = true
		}
		if strings.HasPrefix(f, "secrecy demand:") {
			hasSecrecy = true
		}
	}
	assert.True(t, hasUrgency, "factors: %v", analysis.Behavior.Factors)
	assert.True(t, hasSecrecy, "factors: %v", analysis.Behavior.Factors)
}

func TestPatternRecognizers(t *testing.T) {
	a := NewAdvanced()

	cases := []struct {
		name   string
		text   string
		factor string
	}{
		{"high amount", "请转账50000元到我的账户", "high-value amount"},
		{"phone number", "联系电话13912345678", "contains a phone number"},
		{"bank card", "卡号6222021234567890", "contains a bank card number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			analysis := a.Analyze(tc.text, nil)
			found := false
			for _, f := range analysis.Pattern.Factors {
				if strings.Contains(f, tc.factor) {
					found = true
				}
			}
			assert.True(t, found, "factors: %v", analysis.Pattern.Factors)
			assert.Greater(t, analysis.Pattern.Score, float64(0))
		})
	}
}

func TestSmallAmountIgnored(t *testing.T) {
	a := NewAdvanced()

	analysis := a.Analyze("午饭花了30元", nil)
	assert.Equal(t, float64(0), analysis.Pattern.Score)
}

func TestBasicScoreDominatesCombination(t *testing.T) {
	a := NewAdvanced()

	low := a.Analyze("普通文本内容而已", &detector.DetectionResult{TotalScore: 0})
	high := a.Analyze("普通文本内容而已", &detector.DetectionResult{TotalScore: 100})
	assert.InDelta(t, 40, high.FinalScore-low.FinalScore, 0.001)
}

func TestRiskFactorsEndWithAssessment(t *testing.T) {
	a := NewAdvanced()

	analysis := a.Analyze("今天马上转账", nil)
	require.NotEmpty(t, analysis.RiskFactors)
	last := analysis.RiskFactors[len(analysis.RiskFactors)-1]
	assert.True(t, strings.HasPrefix(last, "overall assessment:"), "last factor: %s", last)
}

func TestReportRoundsAndBuckets(t *testing.T) {
	a := NewAdvanced()

	report := a.Report("您好，请立即转账到安全账户，验证码1234，保密！",
		&detector.DetectionResult{TotalScore: 100})
	assert.GreaterOrEqual(t, report.FinalScore, 40)
	assert.NotEmpty(t, report.Recommendation)
	assert.Equal(t, LevelForScore(float64(report.FinalScore)), report.RiskLevel)
	assert.Equal(t, 100, report.Breakdown.Basic)
}

func TestLevelForScoreBuckets(t *testing.T) {
	cases := []struct {
		score float64
		level detector.RiskLevel
	}{
		{10, detector.LevelSafe},
		{20, detector.LevelLow},
		{40, detector.LevelMedium},
		{60, detector.LevelHigh},
		{80, detector.LevelCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, LevelForScore(tc.score), "score %.0f", tc.score)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := NewAdvanced()

	text := "今天马上转账50000元，13812345678，保密！！！！"
	basic := &detector.DetectionResult{TotalScore: 75}
	first := a.Analyze(text, basic)
	for i := 0; i < 5; i++ {
		again := a.Analyze(text, basic)
		assert.Equal(t, first.FinalScore, again.FinalScore)
		assert.Equal(t, first.Confidence, again.Confidence)
		assert.Equal(t, first.RiskFactors, again.RiskFactors)
	}
}
