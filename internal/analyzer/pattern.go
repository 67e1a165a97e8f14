package analyzer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// patternAnalyzer extracts fixed-structure recognizers: monetary amounts,
// phone-like, bank-card-like and national-ID-like digit runs.
type patternAnalyzer struct {
	money    *regexp.Regexp
	phone    *regexp.Regexp
	bankCard *regexp.Regexp
	idCard   *regexp.Regexp

	highRiskAmount float64
	phoneBonus     float64
	bankCardBonus  float64
	idCardBonus    float64
}

func newPatternAnalyzer() *patternAnalyzer {
	return &patternAnalyzer{
		money:    regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:元|块|万|千|百|¥|\$)`),
		phone:    regexp.MustCompile(`1[3-9]\d{9}`),
		bankCard: regexp.MustCompile(`\d{16,19}`),
		idCard:   regexp.MustCompile(`\d{17}[\dxX]`),

		highRiskAmount: 1000,
		phoneBonus:     20,
		bankCardBonus:  30,
		idCardBonus:    25,
	}
}

// analyze scores recognizer hits. Amounts above the high-risk threshold
// contribute min(amount/100, 50) each; digit-run recognizers contribute a
// fixed bonus at most once regardless of match count.
func (p *patternAnalyzer) analyze(text string) SubScore {
	out := SubScore{Factors: []string{}}

	for _, m := range p.money.FindAllStringSubmatch(text, -1) {
		amount, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if amount > p.highRiskAmount {
			contribution := amount / 100
			if contribution > 50 {
				contribution = 50
			}
			out.Score += contribution
			out.Factors = append(out.Factors, fmt.Sprintf("high-value amount: %s", strings.TrimSpace(m[0])))
		}
	}

	if p.phone.MatchString(text) {
		out.Score += p.phoneBonus
		out.Factors = append(out.Factors, "contains a phone number")
	}
	if p.bankCard.MatchString(text) {
		out.Score += p.bankCardBonus
		out.Factors = append(out.Factors, "contains a bank card number")
	}
	if p.idCard.MatchString(text) {
		out.Score += p.idCardBonus
		out.Factors = append(out.Factors, "contains a national ID number")
	}

	return out
}
