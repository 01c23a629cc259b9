package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/masroof-app/receipt-parser/internal/entity"
)

// amountPat matches a decimal amount in ASCII or Arabic-Indic digits, with
// optional thousands grouping and either "." or the Arabic "٫" (or a lone
// European ",") as the decimal separator.
const amountPat = `(?:[0-9٠-٩۰-۹]{1,3}(?:[,٬][0-9٠-٩۰-۹]{3})+[.٫][0-9٠-٩۰-۹]{2}|[0-9٠-٩۰-۹]+[.,٫][0-9٠-٩۰-۹]{2})`

// currencyPat matches currency tokens seen on Saudi receipts plus the few
// foreign codes and symbols that show up on card slips.
const currencyPat = `(?:SAR|SR\.?|ر\.س\.?|ريال(?:\s*سعودي)?|USD|EUR|GBP|AED|KWD|BHD|QAR|OMR|EGP|\$|€|£)`

// Keyword alternations. \b only works against ASCII word characters, so the
// Arabic variants sit outside the \b-guarded group.
const (
	totalKeywordPat    = `(?:\b(?:grand\s+total|total|amount\s+due|amount|sum)\b|الإجمالي|الاجمالي|المجموع|المبلغ)`
	subtotalKeywordPat = `(?:\bsub\s*[- ]?total\b|المجموع\s*الفرعي|الاجمالي\s*الفرعي)`
	taxKeywordPat      = `(?:\bvat\b|\btax\b|ضريبة(?:\s*القيمة\s*المضافة)?|القيمة\s*المضافة)`
)

var (
	reAmount    = regexp.MustCompile(amountPat)
	reCurrency  = regexp.MustCompile(`(?i)` + currencyPat)
	reTotalKey  = regexp.MustCompile(`(?i)` + totalKeywordPat)
	reTotalAmt  = regexp.MustCompile(`(?i)` + totalKeywordPat + `\s*:?\s*` + currencyPat + `?\s*(` + amountPat + `)`)
	reSubtotAmt = regexp.MustCompile(`(?i)` + subtotalKeywordPat + `\s*:?\s*` + currencyPat + `?\s*(` + amountPat + `)`)
	reTaxAmt    = regexp.MustCompile(`(?i)` + taxKeywordPat + `\s*\(?[0-9٠-٩۰-۹]*\s*%?\)?\s*:?\s*` + currencyPat + `?\s*(` + amountPat + `)`)

	reCurrencyBefore = regexp.MustCompile(`(?i)(` + currencyPat + `)\s*(` + amountPat + `)`)
	reCurrencyAfter  = regexp.MustCompile(`(?i)(` + amountPat + `)\s*(` + currencyPat + `)`)
	reSymbolAmount   = regexp.MustCompile(`([$€£])\s*(` + amountPat + `)`)

	reLineItemAmt = regexp.MustCompile(`(?i)(` + amountPat + `)\s*` + currencyPat + `?\s*$`)
)

// currencyAliases folds the token variants down to ISO-like codes.
var currencyAliases = map[string]string{
	"sar": "SAR", "sr": "SAR", "sr.": "SAR",
	"ر.س": "SAR", "ر.س.": "SAR", "ريال": "SAR", "ريال سعودي": "SAR",
	"usd": "USD", "$": "USD",
	"eur": "EUR", "€": "EUR",
	"gbp": "GBP", "£": "GBP",
	"aed": "AED", "kwd": "KWD", "bhd": "BHD",
	"qar": "QAR", "omr": "OMR", "egp": "EGP",
}

// AmountExtractor finds and disambiguates monetary amounts in receipt text.
// Stateless apart from the configured fallback currency; safe for concurrent
// use.
type AmountExtractor struct {
	DefaultCurrency string
}

func NewAmountExtractor(defaultCurrency string) *AmountExtractor {
	if defaultCurrency == "" {
		defaultCurrency = "SAR"
	}
	return &AmountExtractor{DefaultCurrency: defaultCurrency}
}

// ExtractAmount returns the most likely total: a "total"-labeled amount
// first, then a "subtotal"-labeled one, then the largest amount in the text.
// Receipts print the total after discounts and tax, so a keyword match beats
// "biggest number". Returns "" when nothing matches.
func (e *AmountExtractor) ExtractAmount(text string) string {
	if text == "" {
		return ""
	}
	if m := reTotalAmt.FindStringSubmatch(text); m != nil {
		if v := formatAmount(m[1]); v != "" {
			return v
		}
	}
	if m := reSubtotAmt.FindStringSubmatch(text); m != nil {
		if v := formatAmount(m[1]); v != "" {
			return v
		}
	}
	return maxAmount(e.ExtractAllAmounts(text))
}

// ExtractAmountByPriority runs the same keyword cascade as ExtractAmount but
// falls back to the last amount in the text rather than the maximum; totals
// are conventionally printed last.
func (e *AmountExtractor) ExtractAmountByPriority(text string) string {
	if text == "" {
		return ""
	}
	if m := reTotalAmt.FindStringSubmatch(text); m != nil {
		if v := formatAmount(m[1]); v != "" {
			return v
		}
	}
	if m := reSubtotAmt.FindStringSubmatch(text); m != nil {
		if v := formatAmount(m[1]); v != "" {
			return v
		}
	}
	all := e.ExtractAllAmounts(text)
	if len(all) == 0 {
		return ""
	}
	return all[len(all)-1]
}

// ExtractAllAmounts returns every validated amount in the text, normalized
// and deduplicated, in order of appearance.
func (e *AmountExtractor) ExtractAllAmounts(text string) []string {
	if text == "" {
		return nil
	}
	matches := reAmount.FindAllString(text, -1)
	if matches == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		v := formatAmount(m)
		if v == "" || !IsValidAmount(v) {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ExtractAmountWithCurrency tries currency-before-amount, then
// amount-before-currency, then a symbol-prefixed amount, then a bare amount
// with the configured default currency. Nil when no amount exists at all.
func (e *AmountExtractor) ExtractAmountWithCurrency(text string) *entity.AmountWithCurrency {
	if text == "" {
		return nil
	}
	if m := reCurrencyBefore.FindStringSubmatch(text); m != nil {
		if v := formatAmount(m[2]); v != "" {
			return &entity.AmountWithCurrency{Amount: v, Currency: canonicalCurrency(m[1], e.DefaultCurrency)}
		}
	}
	if m := reCurrencyAfter.FindStringSubmatch(text); m != nil {
		if v := formatAmount(m[1]); v != "" {
			return &entity.AmountWithCurrency{Amount: v, Currency: canonicalCurrency(m[2], e.DefaultCurrency)}
		}
	}
	if m := reSymbolAmount.FindStringSubmatch(text); m != nil {
		if v := formatAmount(m[2]); v != "" {
			return &entity.AmountWithCurrency{Amount: v, Currency: canonicalCurrency(m[1], e.DefaultCurrency)}
		}
	}
	if v := e.ExtractAmount(text); v != "" {
		return &entity.AmountWithCurrency{Amount: v, Currency: e.DefaultCurrency}
	}
	return nil
}

// ExtractAmountWithConfidence scores the extracted amount: base 0.5, +0.3
// for a total-keyword context, +0.2 for a recognized currency token, +0.1
// for a well-formed two-decimal candidate, clamped to [0,1].
func (e *AmountExtractor) ExtractAmountWithConfidence(text string) *entity.AmountWithConfidence {
	amount := e.ExtractAmount(text)
	if amount == "" {
		return nil
	}
	confidence := 0.5
	if reTotalKey.MatchString(text) {
		confidence += 0.3
	}
	if reCurrency.MatchString(text) {
		confidence += 0.2
	}
	if raw := reAmount.FindString(text); raw != "" && IsValidAmount(NormalizeAmount(raw)) {
		confidence += 0.1
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return &entity.AmountWithConfidence{Amount: amount, Confidence: confidence}
}

// ExtractTaxAmount returns the VAT/tax amount, skipping over an inline rate
// like "VAT (15%): 3.68". Empty string when no tax line exists.
func (e *AmountExtractor) ExtractTaxAmount(text string) string {
	if text == "" {
		return ""
	}
	if m := reTaxAmt.FindStringSubmatch(text); m != nil {
		return formatAmount(m[1])
	}
	return ""
}

// ExtractSubtotalAmount returns the subtotal-labeled amount, if any.
func (e *AmountExtractor) ExtractSubtotalAmount(text string) string {
	if text == "" {
		return ""
	}
	if m := reSubtotAmt.FindStringSubmatch(text); m != nil {
		return formatAmount(m[1])
	}
	return ""
}

// ExtractItemAmounts returns the trailing amount of each line that carries
// one, validated and in line order. Duplicate prices are kept; two items may
// legitimately cost the same.
func (e *AmountExtractor) ExtractItemAmounts(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := reLineItemAmt.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if v := formatAmount(m[1]); v != "" && IsValidAmount(v) {
			out = append(out, v)
		}
	}
	return out
}

func canonicalCurrency(token, fallback string) string {
	key := strings.ToLower(strings.TrimSpace(token))
	key = collapseSpaces(key)
	if code, ok := currencyAliases[key]; ok {
		return code
	}
	if token != "" && len(token) == 3 {
		return strings.ToUpper(token)
	}
	return fallback
}

func maxAmount(amounts []string) string {
	best := ""
	bestVal := -1.0
	for _, a := range amounts {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			continue
		}
		if f > bestVal {
			bestVal = f
			best = a
		}
	}
	return best
}
