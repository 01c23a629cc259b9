package ocr

import (
	"regexp"
	"strings"
)

var (
	reDateish = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b20\d{2}\b|\b14\d{2}\b`)
	reCurrish = regexp.MustCompile(`\b(sar|sr|usd|eur|aed)\b|[$£€]|ر\.س|ريال`)
	reAmntish = regexp.MustCompile(`\b\d{1,3}(,\d{3})*(\.\d{2})\b|\b\d+[.٫]\d{2}\b|[٠-٩]+٫[٠-٩]{2}`)
	reTotalsh = regexp.MustCompile(`(?i)\btotal\b|الإجمالي|الاجمالي|المجموع`)
)

func hasDatePattern(s string) bool     { return reDateish.MatchString(s) }
func hasCurrencyPattern(s string) bool { return reCurrish.MatchString(s) }
func hasAmountPattern(s string) bool   { return reAmntish.MatchString(s) }
func hasTotalKeyword(s string) bool    { return reTotalsh.MatchString(s) }

// naive heuristic confidence based on decoded text characteristics
func heuristicConfidence(txt string) float32 {
	// boost when we see the artifacts a readable receipt must carry
	// (date-ish, currency-ish, amount-ish, a totals keyword).
	txtL := strings.ToLower(txt)
	score := float32(0.2) // base
	if hasDatePattern(txtL) {
		score += 0.2
	}
	if hasCurrencyPattern(txtL) {
		score += 0.15
	}
	if hasAmountPattern(txtL) {
		score += 0.15
	}
	if hasTotalKeyword(txtL) {
		score += 0.1
	}
	if len(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}
