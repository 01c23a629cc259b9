package parse

import (
	"regexp"
	"strings"

	"github.com/masroof-app/receipt-parser/constants"
	"github.com/masroof-app/receipt-parser/internal/entity"
)

// merchantScanLines caps how deep the name search goes; merchant names are
// conventionally printed at the top of a receipt.
const merchantScanLines = 5

var (
	rePhone   = regexp.MustCompile(`(?:\+966|00966)[\s-]?\d(?:[\s-]?\d){8}|\b05\d{8}\b|\b0\d{2}[\s-]?\d{3}[\s-]?\d{4}\b`)
	reTaxID   = regexp.MustCompile(`\b3\d{14}\b`)
	reCRNum   = regexp.MustCompile(`(?i)(?:\bc\.?r\.?|commercial\s+registration|س\.ت)\s*:?\s*(\d{7,10})`)
	reBranch  = regexp.MustCompile(`(?i)(?:\bbranch\b|فرع)\s*:?\s*(\S[^\n]*)`)
	reStoreNo = regexp.MustCompile(`(?i)\bstore\s*(?:no\.?|#|number)?\s*:?\s*(\d+)`)
	reOrderNo = regexp.MustCompile(`(?i)\border\s*(?:no\.?|#|number)?\s*:?\s*([A-Za-z0-9][A-Za-z0-9-]{3,})`)
	reDomain  = regexp.MustCompile(`(?i)\b[a-z0-9-]+\.(?:com|sa|net)\b`)
	reDigits  = regexp.MustCompile(`[0-9٠-٩۰-۹]`)
)

// storeHeaderNouns flag a line as a store header even when the brand is not
// in the lexicon.
var storeHeaderNouns = []string{
	"hypermarket", "supermarket", "market", "store", "mart", "trading",
	"restaurant", "cafe", "coffee", "bakery", "pharmacy", "grocery",
	"سوبرماركت", "هايبر", "أسواق", "اسواق", "ماركت", "مطعم", "مقهى",
	"صيدلية", "بقالة", "متجر", "مخبز",
}

var addressTokens = []string{
	"road", "street", "district", "avenue", "p.o", "po box",
	"riyadh", "jeddah", "dammam", "makkah", "mecca", "medina", "madinah",
	"khobar", "tabuk", "abha", "taif",
	"شارع", "طريق", "حي", "الرياض", "جدة", "الدمام", "مكة", "المدينة", "الخبر",
}

var saudiCities = []string{
	"riyadh", "jeddah", "dammam", "makkah", "mecca", "medina", "madinah",
	"khobar", "tabuk", "abha", "taif",
	"الرياض", "جدة", "الدمام", "مكة", "المدينة", "الخبر", "تبوك", "أبها", "الطائف",
}

// merchantCategoryKeywords backs CategorizeMerchant for names outside the
// lexicon.
var merchantCategoryKeywords = []struct {
	token string
	cat   constants.MerchantCategory
}{
	{"hypermarket", constants.Grocery}, {"supermarket", constants.Grocery},
	{"market", constants.Grocery}, {"grocery", constants.Grocery},
	{"restaurant", constants.Restaurant}, {"grill", constants.Restaurant},
	{"kitchen", constants.Restaurant}, {"shawarma", constants.Restaurant},
	{"cafe", constants.Cafe}, {"coffee", constants.Cafe}, {"roaster", constants.Cafe},
	{"pharmacy", constants.Pharmacy}, {"صيدلية", constants.Pharmacy},
	{"gas", constants.GasStation}, {"petrol", constants.GasStation},
	{"fuel", constants.GasStation}, {"station", constants.GasStation},
	{"telecom", constants.Telecom}, {"mobile", constants.Telecom},
	{"bank", constants.Financial}, {"exchange", constants.Financial},
	{"clinic", constants.Healthcare}, {"hospital", constants.Healthcare},
	{"medical", constants.Healthcare},
	{"store", constants.Retail}, {"mart", constants.Retail},
	{"bookstore", constants.Retail},
}

// MerchantExtractor identifies the business name and metadata from noisy,
// possibly bilingual header text.
type MerchantExtractor struct {
	lexicon *MerchantLexicon
}

func NewMerchantExtractor(lexicon *MerchantLexicon) *MerchantExtractor {
	if lexicon == nil {
		lexicon = NewMerchantLexicon()
	}
	return &MerchantExtractor{lexicon: lexicon}
}

// ExtractMerchantName scans the top of the receipt: a lexicon hit wins,
// then a line containing a store-header noun, then the first sufficiently
// long non-numeric line. Returns "" when nothing qualifies.
func (e *MerchantExtractor) ExtractMerchantName(text string) string {
	lines := headLines(text, merchantScanLines)
	if len(lines) == 0 {
		return ""
	}
	for _, line := range lines {
		if canonical := e.lexicon.Match(line); canonical != "" {
			return canonical
		}
	}
	if hasStoreHeaderNoun(lines[0]) {
		return strings.ToUpper(collapseSpaces(lines[0]))
	}
	for _, line := range lines {
		if looksLikeName(line) {
			return collapseSpaces(line)
		}
	}
	return ""
}

// ExtractMerchantWithConfidence scores by match quality: lexicon hit on the
// first line 0.95, lexicon hit lower in the header 0.85, header-noun
// heuristic 0.6, generic first-line fallback 0.4.
func (e *MerchantExtractor) ExtractMerchantWithConfidence(text string) *entity.MerchantWithConfidence {
	lines := headLines(text, merchantScanLines)
	if len(lines) == 0 {
		return nil
	}
	for i, line := range lines {
		if canonical := e.lexicon.Match(line); canonical != "" {
			confidence := 0.85
			if i == 0 {
				confidence = 0.95
			}
			return &entity.MerchantWithConfidence{Name: canonical, Confidence: confidence}
		}
	}
	if hasStoreHeaderNoun(lines[0]) {
		return &entity.MerchantWithConfidence{
			Name:       strings.ToUpper(collapseSpaces(lines[0])),
			Confidence: 0.6,
		}
	}
	for _, line := range lines {
		if looksLikeName(line) {
			return &entity.MerchantWithConfidence{Name: collapseSpaces(line), Confidence: 0.4}
		}
	}
	return nil
}

// CategorizeMerchant maps a merchant name to its business category.
func (e *MerchantExtractor) CategorizeMerchant(name string) constants.MerchantCategory {
	if name == "" {
		return constants.OtherMerchant
	}
	if canonical := e.lexicon.Match(name); canonical != "" {
		return e.lexicon.Category(canonical)
	}
	lower := strings.ToLower(name)
	for _, kw := range merchantCategoryKeywords {
		if strings.Contains(lower, kw.token) {
			return kw.cat
		}
	}
	return constants.OtherMerchant
}

// ExtractMerchantInfo pulls the name plus address, phone, branch, store
// number, Saudi tax ID, CR number, and online-order metadata.
func (e *MerchantExtractor) ExtractMerchantInfo(text string) *entity.MerchantInfo {
	name := e.ExtractMerchantName(text)
	if name == "" {
		return nil
	}
	info := &entity.MerchantInfo{Name: name}

	normalized := NormalizeDigits(text)
	if m := rePhone.FindString(normalized); m != "" {
		info.Phone = collapseSpaces(m)
	}
	if m := reTaxID.FindString(normalized); m != "" {
		info.TaxID = m
	}
	if m := reCRNum.FindStringSubmatch(normalized); m != nil {
		info.RegistrationNumber = m[1]
	}
	if m := reBranch.FindStringSubmatch(text); m != nil {
		info.Branch = collapseSpaces(m[1])
	}
	if m := reStoreNo.FindStringSubmatch(normalized); m != nil {
		info.StoreNumber = m[1]
	}

	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if info.Address == "" {
			for _, tok := range addressTokens {
				if strings.Contains(lower, tok) {
					info.Address = collapseSpaces(line)
					break
				}
			}
		}
		if info.Location == "" {
			for _, city := range saudiCities {
				if strings.Contains(lower, city) {
					info.Location = capitalize(city)
					break
				}
			}
		}
	}

	if e.lexicon.IsOnline(name) || reDomain.MatchString(text) {
		info.IsOnline = true
		if m := reOrderNo.FindStringSubmatch(normalized); m != nil {
			info.OrderNumber = strings.ToUpper(m[1])
		}
	}
	return info
}

// NormalizeMerchantName collapses case, whitespace and aliases so "Lulu",
// "LULU" and "لولو" all land on one canonical token.
func (e *MerchantExtractor) NormalizeMerchantName(name string) string {
	trimmed := collapseSpaces(name)
	if trimmed == "" {
		return ""
	}
	if canonical := e.lexicon.Match(trimmed); canonical != "" {
		return canonical
	}
	return strings.ToUpper(trimmed)
}

func headLines(text string, n int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}

func hasStoreHeaderNoun(line string) bool {
	lower := strings.ToLower(line)
	for _, noun := range storeHeaderNouns {
		if strings.Contains(lower, noun) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] = r[0] - 'a' + 'A'
	}
	return string(r)
}

// looksLikeName accepts lines long enough to be a business name, carrying
// real letters and not dominated by digits (amounts, phone numbers, dates).
func looksLikeName(line string) bool {
	trimmed := collapseSpaces(line)
	if len([]rune(trimmed)) < 4 {
		return false
	}
	letters := len(reLetters.FindAllString(trimmed, -1))
	digits := len(reDigits.FindAllString(trimmed, -1))
	return letters >= 3 && digits*2 < len([]rune(trimmed))
}
