package parse

import (
	"regexp"
	"strings"

	"github.com/masroof-app/receipt-parser/constants"
	"github.com/masroof-app/receipt-parser/internal/entity"
)

// lookaheadLines is how far continuation data (SKU, barcode, weight, wrapped
// description) may trail an item line on printed receipts.
const lookaheadLines = 3

var (
	reItemPlain    = regexp.MustCompile(`(?i)^\s*(.+?)\s+(-?\s*` + amountPat + `)\s*` + currencyPat + `?\s*$`)
	reItemNumbered = regexp.MustCompile(`(?i)^\s*\d{1,3}[.)]\s+(.+?)\s+(-?\s*` + amountPat + `)\s*` + currencyPat + `?\s*$`)

	excludePatterns = []*regexp.Regexp{
		// totals, tax and payment lines
		regexp.MustCompile(`(?i)^\s*(?:sub\s*[- ]?total|grand\s+total|total|balance|change|cash|credit|debit|card|mada|visa|mastercard|amex|vat|tax|amount\s+due|amount|paid|payment|tender|rounding)\b`),
		regexp.MustCompile(`^\s*(?:الإجمالي|الاجمالي|المجموع|المبلغ|ضريبة|القيمة المضافة|نقدا|نقداً|مدى|بطاقة|المتبقي)`),
		// header and footer chatter
		regexp.MustCompile(`(?i)\b(?:thank\s*you|welcome|cashier|customer|receipt|invoice|tel|phone|fax|address|branch|c\.?r\.?\s*:|tax\s*id|vat\s*(?:no|reg)|pos|terminal)\b`),
		regexp.MustCompile(`شكرا|الكاشير|العميل|فاتورة|هاتف|فرع|عنوان`),
		// date and time lines
		regexp.MustCompile(`(?i)^\s*(?:(?:date|time)\b|التاريخ|الوقت)`),
		regexp.MustCompile(`^\s*[0-9٠-٩۰-۹]{1,2}[/-][0-9٠-٩۰-۹]{1,2}[/-][0-9٠-٩۰-۹]{2,4}`),
		regexp.MustCompile(`^\s*[0-9٠-٩۰-۹]{1,2}:[0-9٠-٩۰-۹]{2}`),
		// section dividers
		regexp.MustCompile(`^\s*[-=*_.#]{3,}\s*$`),
	}

	reQtyPrefix = regexp.MustCompile(`^([0-9٠-٩۰-۹]{1,3})\s*[xX×]\s*`)
	reQtySuffix = regexp.MustCompile(`(?:\s|^)[xX×]\s*([0-9٠-٩۰-۹]{1,3})\b`)
	reNumbering = regexp.MustCompile(`^\s*\d{1,3}[.)-]\s*`)

	reUnitPrice = regexp.MustCompile(`@\s*([0-9٠-٩۰-۹]+[.,٫][0-9٠-٩۰-۹]{2})\s*(?:/\s*(?:kg|g|lb|oz|ea|each))?`)
	reWeight    = regexp.MustCompile(`(?i)\b([0-9٠-٩۰-۹]+(?:[.,٫][0-9٠-٩۰-۹]+)?)\s*(kg|g|lb|oz)\b`)
	reSKU       = regexp.MustCompile(`(?i)\bsku\s*[:#]?\s*([A-Za-z0-9-]+)`)
	reBarcode   = regexp.MustCompile(`(?i)\bbarcode\s*[:#]?\s*([0-9٠-٩۰-۹]{6,14})`)
	reDiscount  = regexp.MustCompile(`(?i)(?:\bdiscount\b|\bsaved?\b|خصم)\s*:?\s*-?\s*(` + amountPat + `)`)
	reLoyalty   = regexp.MustCompile(`\(([0-9٠-٩۰-۹]{1,5})\s*(?:pts|points|نقاط|نقطة)\)`)
	reReturnKey = regexp.MustCompile(`(?i)\breturn\b|\brefund\b|مرتجع|استرجاع`)
	reRewardKey = regexp.MustCompile(`(?i)\b(?:free|reward|bonus)\b|مجانا|مجاناً|مجانية`)
	reLetters   = regexp.MustCompile(`\pL`)

	promoPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bbuy\s+\d+\s+get\s+\d+(?:\s+free)?\b`),
		regexp.MustCompile(`(?i)\b\d+\s+for\s+\d+[.,]\d{2}\b`),
		regexp.MustCompile(`(?i)\bbulk\s+discount\b`),
		regexp.MustCompile(`(?i)\bmember\s+price\b`),
		regexp.MustCompile(`اشتر\s*\d+\s*واحصل`),
	}
)

// LineItemExtractor segments the receipt body into purchased items. It holds
// only configuration and the shared merchant lexicon (used to skip header
// lines), so a single instance serves concurrent callers.
type LineItemExtractor struct {
	DefaultTaxRate float64
	lexicon        *MerchantLexicon
}

func NewLineItemExtractor(defaultTaxRate float64, lexicon *MerchantLexicon) *LineItemExtractor {
	if defaultTaxRate <= 0 {
		defaultTaxRate = 15.0 // Saudi standard VAT
	}
	if lexicon == nil {
		lexicon = NewMerchantLexicon()
	}
	return &LineItemExtractor{DefaultTaxRate: defaultTaxRate, lexicon: lexicon}
}

// ExtractLineItems walks the text line by line: excluded lines are skipped,
// item-shaped lines become ReceiptItems, and up to three following
// non-item lines are folded in as continuation data. The result is
// deduplicated by (description, price). Item-less input yields an empty
// slice, never an error.
func (e *LineItemExtractor) ExtractLineItems(text string) []entity.ReceiptItem {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	items := make([]entity.ReceiptItem, 0, len(lines)/2)

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || e.shouldExclude(line) || isAdjustmentLine(line) {
			continue
		}
		item, ok := e.parseItemLine(line)
		if !ok {
			continue
		}
		// continuation lines
		for j := i + 1; j <= i+lookaheadLines && j < len(lines); j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" {
				break
			}
			if e.isItemLine(next) && !isAdjustmentLine(next) {
				break
			}
			if e.shouldExclude(next) {
				break
			}
			e.applyContinuation(&item, next)
			i = j
		}
		if item.Description == "" || !IsValidAmount(item.Price) {
			continue
		}
		items = append(items, item)
	}

	return dedupeItems(items)
}

func (e *LineItemExtractor) parseItemLine(line string) (entity.ReceiptItem, bool) {
	var desc, rawPrice string
	if m := reItemNumbered.FindStringSubmatch(line); m != nil {
		desc, rawPrice = m[1], m[2]
	} else if m := reItemPlain.FindStringSubmatch(line); m != nil {
		desc, rawPrice = m[1], m[2]
	} else {
		return entity.ReceiptItem{}, false
	}

	negative := strings.HasPrefix(strings.TrimSpace(rawPrice), "-")
	price := formatAmount(strings.TrimLeft(strings.TrimSpace(rawPrice), "- "))
	if price == "" {
		return entity.ReceiptItem{}, false
	}

	quantity := 1
	if m := reQtyPrefix.FindStringSubmatch(desc); m != nil {
		if q := atoi(NormalizeDigits(m[1])); q >= 1 {
			quantity = q
		}
	} else if m := reQtySuffix.FindStringSubmatch(desc); m != nil {
		if q := atoi(NormalizeDigits(m[1])); q >= 1 {
			quantity = q
		}
	}

	cleaned := cleanDescription(reUnitPrice.ReplaceAllString(desc, " "))
	if cleaned == "" {
		return entity.ReceiptItem{}, false
	}

	item := entity.ReceiptItem{
		Description: cleaned,
		Price:       price,
		Quantity:    quantity,
		Category:    constants.CanonicalizeItemCategory(cleaned),
		TaxRate:     e.taxRateFor(line),
		IsReturn:    negative || reReturnKey.MatchString(line),
	}
	if reRewardKey.MatchString(line) && price == "0.00" {
		item.IsRewardItem = true
	}
	if m := reDiscount.FindStringSubmatch(line); m != nil {
		item.Discount = formatAmount(m[1])
	}
	if m := reLoyalty.FindStringSubmatch(line); m != nil {
		item.LoyaltyPoints = atoi(NormalizeDigits(m[1]))
	}
	for _, p := range promoPatterns {
		if m := p.FindString(line); m != "" {
			item.Promotion = collapseSpaces(m)
			break
		}
	}
	if m := reUnitPrice.FindStringSubmatch(line); m != nil {
		item.UnitPrice = formatAmount(m[1])
	}
	if m := reWeight.FindStringSubmatch(line); m != nil {
		item.Weight = collapseSpaces(NormalizeDigits(m[1]) + " " + strings.ToLower(m[2]))
	}
	return item, true
}

// applyContinuation folds a trailing non-item line into the current item:
// labeled SKU/barcode/weight/unit-price data when present, otherwise extra
// description text.
func (e *LineItemExtractor) applyContinuation(item *entity.ReceiptItem, line string) {
	matched := false
	if m := reSKU.FindStringSubmatch(line); m != nil {
		item.SKU = strings.ToUpper(m[1])
		matched = true
	}
	if m := reBarcode.FindStringSubmatch(line); m != nil {
		item.Barcode = NormalizeDigits(m[1])
		matched = true
	}
	if item.Weight == "" {
		if m := reWeight.FindStringSubmatch(line); m != nil {
			item.Weight = collapseSpaces(NormalizeDigits(m[1]) + " " + strings.ToLower(m[2]))
			matched = true
		}
	}
	if item.UnitPrice == "" {
		if m := reUnitPrice.FindStringSubmatch(line); m != nil {
			item.UnitPrice = formatAmount(m[1])
			matched = true
		}
	}
	if m := reDiscount.FindStringSubmatch(line); m != nil {
		item.Discount = formatAmount(m[1])
		matched = true
	}
	if m := reLoyalty.FindStringSubmatch(line); m != nil {
		item.LoyaltyPoints = atoi(NormalizeDigits(m[1]))
		matched = true
	}
	for _, p := range promoPatterns {
		if m := p.FindString(line); m != "" {
			item.Promotion = collapseSpaces(m)
			matched = true
			break
		}
	}
	if matched {
		return
	}
	// wrapped description text: alpha-heavy lines only
	trimmed := collapseSpaces(line)
	letters := len(reLetters.FindAllString(trimmed, -1))
	digits := len(reDigits.FindAllString(trimmed, -1))
	if letters >= 3 && letters > digits {
		item.Description = collapseSpaces(item.Description + " " + trimmed)
		item.Category = constants.CanonicalizeItemCategory(item.Description)
	}
}

// isAdjustmentLine reports whether the line carries only a discount or
// loyalty adjustment for the preceding item, e.g. "Discount: -5.00". Such
// lines end in an amount and would otherwise be mistaken for items.
func isAdjustmentLine(line string) bool {
	stripped := reDiscount.ReplaceAllString(line, " ")
	stripped = reLoyalty.ReplaceAllString(stripped, " ")
	if stripped == line {
		return false
	}
	return len(reLetters.FindAllString(stripped, -1)) < 3
}

func (e *LineItemExtractor) isItemLine(line string) bool {
	return reItemNumbered.MatchString(line) || reItemPlain.MatchString(line)
}

func (e *LineItemExtractor) shouldExclude(line string) bool {
	for _, p := range excludePatterns {
		if p.MatchString(line) {
			return true
		}
	}
	// store headers: known brands or generic store nouns
	if e.lexicon.Match(line) != "" && !reItemPlain.MatchString(line) {
		return true
	}
	if hasStoreHeaderNoun(line) && !reItemPlain.MatchString(line) {
		return true
	}
	for _, tok := range addressTokens {
		if strings.Contains(strings.ToLower(line), tok) {
			return true
		}
	}
	return false
}

// taxRateFor reads an explicit rate off the line; unstated lines get the
// configured default.
func (e *LineItemExtractor) taxRateFor(line string) float64 {
	compact := strings.ReplaceAll(NormalizeDigits(line), " ", "")
	switch {
	case strings.Contains(compact, "15%"):
		return 15.0
	case strings.Contains(compact, "5%"):
		return 5.0
	case strings.Contains(compact, "0%"),
		strings.Contains(strings.ToLower(line), "zero rated"),
		strings.Contains(strings.ToLower(line), "zero-rated"):
		return 0.0
	default:
		return e.DefaultTaxRate
	}
}

// cleanDescription strips numbering, quantity markers and stray punctuation.
func cleanDescription(desc string) string {
	s := reNumbering.ReplaceAllString(desc, "")
	s = reQtyPrefix.ReplaceAllString(s, "")
	s = reQtySuffix.ReplaceAllString(s, " ")
	s = collapseSpaces(s)
	s = strings.Trim(s, " .,;:-*_")
	return s
}

func dedupeItems(items []entity.ReceiptItem) []entity.ReceiptItem {
	if len(items) < 2 {
		return items
	}
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, it := range items {
		key := strings.ToLower(it.Description) + "|" + it.Price
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}
