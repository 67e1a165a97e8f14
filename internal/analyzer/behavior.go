package analyzer

import (
	"fmt"
	"regexp"
	"strings"
)

// behaviorAnalyzer scores manipulation wording: time pressure, emotional
// appeals and secrecy demands.
type behaviorAnalyzer struct {
	urgency *regexp.Regexp
	emotion *regexp.Regexp
	secrecy *regexp.Regexp

	urgencyBase       float64
	urgencyMultiplier float64
	emotionBase       float64
	emotionMultiplier float64
	secrecyBase       float64
	secrecyMultiplier float64
}

func newBehaviorAnalyzer() *behaviorAnalyzer {
	return &behaviorAnalyzer{
		urgency: regexp.MustCompile(`今天|明天|立即|马上|赶紧|快点|截止|过期`),
		emotion: regexp.MustCompile(`可怜|救救|帮帮|求求|拜托|感谢|报答`),
		secrecy: regexp.MustCompile(`保密|不要告诉|删除|清空|秘密`),

		urgencyBase:       15,
		urgencyMultiplier: 1.5,
		emotionBase:       10,
		emotionMultiplier: 1.3,
		secrecyBase:       20,
		secrecyMultiplier: 2.0,
	}
}

func (b *behaviorAnalyzer) analyze(text string) SubScore {
	out := SubScore{Factors: []string{}}

	if matches := b.urgency.FindAllString(text, -1); len(matches) > 0 {
		out.Score += float64(len(matches)) * b.urgencyBase * b.urgencyMultiplier
		out.Factors = append(out.Factors, fmt.Sprintf("urgency wording: %s", strings.Join(matches, ", ")))
	}
	if matches := b.emotion.FindAllString(text, -1); len(matches) > 0 {
		out.Score += float64(len(matches)) * b.emotionBase * b.emotionMultiplier
		out.Factors = append(out.Factors, fmt.Sprintf("emotional appeal: %s", strings.Join(matches, ", ")))
	}
	if matches := b.secrecy.FindAllString(text, -1); len(matches) > 0 {
		out.Score += float64(len(matches)) * b.secrecyBase * b.secrecyMultiplier
		out.Factors = append(out.Factors, fmt.Sprintf("secrecy demand: %s", strings.Join(matches, ", ")))
	}

	return out
}
