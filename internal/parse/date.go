package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/masroof-app/receipt-parser/constants"
	"github.com/masroof-app/receipt-parser/internal/entity"
)

const monthAbbrevPat = `(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`

var (
	reDMY       = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
	reYMD       = regexp.MustCompile(`\b(\d{4})[/-](\d{1,2})[/-](\d{1,2})\b`)
	reMonDY     = regexp.MustCompile(`(?i)\b` + monthAbbrevPat + `[a-z]*\.?\s+(\d{1,2}),?\s+(\d{4})\b`)
	reDMonY     = regexp.MustCompile(`(?i)\b(\d{1,2})\s+` + monthAbbrevPat + `[a-z]*\.?\s+(\d{4})\b`)
	reMonthYear = regexp.MustCompile(`(?i)\b` + monthAbbrevPat + `[a-z]*\.?\s+(\d{4})\b`)
	reDateLabel = regexp.MustCompile(`(?i)(?:\bdate\b\s*[:#]|التاريخ\s*:?)`)
	reDayMonth  = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})\b`)

	reTime = regexp.MustCompile(`\b(\d{1,2}):(\d{2})(?::\d{2})?\s*([AaPp][Mm]|ص|م)?`)
)

var monthsByAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Gregorian month names as printed on Arabic receipts.
var arabicGregorianMonths = map[string]string{
	"يناير": "January", "فبراير": "February", "مارس": "March",
	"أبريل": "April", "ابريل": "April", "مايو": "May", "يونيو": "June",
	"يوليو": "July", "أغسطس": "August", "اغسطس": "August",
	"سبتمبر": "September", "أكتوبر": "October", "اكتوبر": "October",
	"نوفمبر": "November", "ديسمبر": "December",
}

// Hijri month names, Arabic and transliterated. Recognition is textual only:
// no Hijri/Gregorian conversion is attempted anywhere in this package.
var hijriMonths = []struct {
	english string
	aliases []string
}{
	{"Muharram", []string{"محرم", "muharram"}},
	{"Safar", []string{"صفر", "safar"}},
	{"Rabi al-Awwal", []string{"ربيع الأول", "ربيع الاول", "rabi al-awwal"}},
	{"Rabi al-Thani", []string{"ربيع الثاني", "ربيع الآخر", "rabi al-thani"}},
	{"Jumada al-Awwal", []string{"جمادى الأولى", "جمادى الاولى", "jumada al-awwal"}},
	{"Jumada al-Thani", []string{"جمادى الآخرة", "جمادى الثانية", "jumada al-thani"}},
	{"Rajab", []string{"رجب", "rajab"}},
	{"Shaban", []string{"شعبان", "shaban", "sha'ban"}},
	{"Ramadan", []string{"رمضان", "ramadan"}},
	{"Shawwal", []string{"شوال", "shawwal"}},
	{"Dhul Qadah", []string{"ذو القعدة", "ذي القعدة", "dhul qadah"}},
	{"Dhul Hijjah", []string{"ذو الحجة", "ذي الحجة", "dhul hijjah"}},
}

var reHijri = buildHijriPattern()

func buildHijriPattern() *regexp.Regexp {
	var names []string
	for _, m := range hijriMonths {
		for _, a := range m.aliases {
			names = append(names, regexp.QuoteMeta(a))
		}
	}
	// day, month name, 4-digit Hijri year, optional هـ marker
	return regexp.MustCompile(`(?i)(\d{1,2})\s+(` + strings.Join(names, "|") + `)\s+(\d{4})\s*(?:هـ|ه|AH)?`)
}

// dateContextKeywords in precedence order; first match wins.
var dateContextKeywords = []struct {
	tokens []string
	ctx    constants.DateContext
}{
	{[]string{"purchase", "purchased", "شراء"}, constants.DatePurchase},
	{[]string{"transaction", "معاملة", "عملية"}, constants.DateTransaction},
	{[]string{"expiry", "expires", "expiration", "انتهاء", "الصلاحية"}, constants.DateExpiry},
	{[]string{"return by", "return date", "إرجاع", "استرجاع"}, constants.DateReturn},
	{[]string{"valid until", "valid till", "valid thru", "صالح حتى", "صالحة حتى"}, constants.DateValidity},
	{[]string{"printed", "print date", "طباعة", "طبع"}, constants.DatePrinted},
}

type dateCandidate struct {
	day, month, year int
	context          constants.DateContext
	labeled          bool
	order            int
}

// DateExtractor locates and normalizes transaction dates. Handles Gregorian
// numeric and textual forms, Arabic-Indic digits, and Hijri month names.
type DateExtractor struct{}

func NewDateExtractor() *DateExtractor {
	return &DateExtractor{}
}

// ExtractDate returns the first valid date in the text, in DD/MM/YYYY form,
// or "" when none is found.
func (e *DateExtractor) ExtractDate(text string) string {
	cands := e.collectCandidates(text)
	if len(cands) == 0 {
		return ""
	}
	return displayDate(cands[0])
}

// ExtractMostLikelyDate picks the transaction date among several candidates:
// a purchase/transaction-tagged date wins, then any untagged date beats
// expiry/validity/printed ones, then the earliest non-future date.
func (e *DateExtractor) ExtractMostLikelyDate(text string) string {
	cands := e.collectCandidates(text)
	if len(cands) == 0 {
		return ""
	}
	for _, c := range cands {
		if c.context == constants.DatePurchase || c.context == constants.DateTransaction {
			return displayDate(c)
		}
	}
	untagged := make([]dateCandidate, 0, len(cands))
	for _, c := range cands {
		if c.context == constants.DateUnknown {
			untagged = append(untagged, c)
		}
	}
	pool := untagged
	if len(pool) == 0 {
		pool = cands
	}
	// receipts rarely carry future purchase dates
	now := time.Now()
	best := pool[0]
	bestTime := candidateTime(best)
	for _, c := range pool[1:] {
		ct := candidateTime(c)
		if bestTime.After(now) && !ct.After(now) {
			best, bestTime = c, ct
			continue
		}
		if !ct.After(now) && ct.Before(bestTime) {
			best, bestTime = c, ct
		}
	}
	return displayDate(best)
}

// ExtractPrimaryDate is an alias for ExtractMostLikelyDate.
func (e *DateExtractor) ExtractPrimaryDate(text string) string {
	return e.ExtractMostLikelyDate(text)
}

// ExtractHijriDate finds a Hijri date (day + month name + year) and returns
// it as an English-labeled string, e.g. "15 Ramadan 1445 AH". The Hijri year
// is preserved as written; callers must not assume a Gregorian value.
func (e *DateExtractor) ExtractHijriDate(text string) string {
	if text == "" {
		return ""
	}
	normalized := NormalizeDigits(text)
	m := reHijri.FindStringSubmatch(normalized)
	if m == nil {
		return ""
	}
	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 30 {
		return ""
	}
	year, err := strconv.Atoi(m[3])
	if err != nil || year < 1300 || year > 1500 {
		return ""
	}
	month := hijriMonthEnglish(m[2])
	if month == "" {
		return ""
	}
	return fmt.Sprintf("%d %s %d AH", day, month, year)
}

// ExtractDateTime splits a combined date+time expression into its date and
// time parts. Either may be "" independently.
func (e *DateExtractor) ExtractDateTime(text string) (date string, timeOfDay string) {
	date = e.ExtractDate(text)
	normalized := NormalizeDigits(text)
	for _, m := range reTime.FindAllStringSubmatch(normalized, -1) {
		hour, err1 := strconv.Atoi(m[1])
		minute, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil || minute > 59 {
			continue
		}
		meridiem := strings.ToUpper(m[3])
		switch meridiem {
		case "ص":
			meridiem = "AM"
		case "م":
			meridiem = "PM"
		}
		if meridiem != "" {
			if hour < 1 || hour > 12 {
				continue
			}
			timeOfDay = fmt.Sprintf("%d:%02d %s", hour, minute, meridiem)
		} else {
			if hour > 23 {
				continue
			}
			timeOfDay = fmt.Sprintf("%02d:%02d", hour, minute)
		}
		return date, timeOfDay
	}
	return date, ""
}

// IsValidDate reports whether s is a recognized date shape that is also a
// real calendar date within a plausible receipt window: month lengths and
// February leap rules apply, and the year must be 2000..next year.
func (e *DateExtractor) IsValidDate(s string) bool {
	if s == "" {
		return false
	}
	normalized := NormalizeDigits(strings.TrimSpace(s))
	if m := reDMY.FindStringSubmatch(normalized); m != nil && len(m[0]) == len(normalized) {
		return validYMD(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if m := reYMD.FindStringSubmatch(normalized); m != nil && len(m[0]) == len(normalized) {
		return validYMD(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := reMonDY.FindStringSubmatch(normalized); m != nil && len(m[0]) == len(normalized) {
		return validYMD(atoi(m[3]), int(monthsByAbbrev[strings.ToLower(m[1])]), atoi(m[2]))
	}
	if m := reDMonY.FindStringSubmatch(normalized); m != nil && len(m[0]) == len(normalized) {
		return validYMD(atoi(m[3]), int(monthsByAbbrev[strings.ToLower(m[2])]), atoi(m[1]))
	}
	return false
}

// DetectDateContext classifies what the date in the text refers to.
func (e *DateExtractor) DetectDateContext(text string) constants.DateContext {
	lower := strings.ToLower(text)
	for _, entry := range dateContextKeywords {
		for _, tok := range entry.tokens {
			if strings.Contains(lower, tok) {
				return entry.ctx
			}
		}
	}
	return constants.DateUnknown
}

// ExtractDateWithConfidence scores by specificity: an explicit "Date:" label
// 0.9, a bare recognized format 0.7, month+year only 0.4, a day/month
// fragment 0.3.
func (e *DateExtractor) ExtractDateWithConfidence(text string) *entity.DateWithConfidence {
	cands := e.collectCandidates(text)
	if len(cands) > 0 {
		best := cands[0]
		for _, c := range cands {
			if c.labeled {
				best = c
				break
			}
		}
		confidence := 0.7
		if best.labeled {
			confidence = 0.9
		}
		return &entity.DateWithConfidence{Date: displayDate(best), Confidence: confidence}
	}
	normalized := NormalizeDigits(text)
	if m := reMonthYear.FindStringSubmatch(normalized); m != nil {
		if year := atoi(m[2]); plausibleYear(year) {
			return &entity.DateWithConfidence{
				Date:       fmt.Sprintf("%s %d", monthsByAbbrev[strings.ToLower(m[1])], year),
				Confidence: 0.4,
			}
		}
	}
	if m := reDayMonth.FindStringSubmatch(normalized); m != nil {
		day, month := atoi(m[1]), atoi(m[2])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return &entity.DateWithConfidence{Date: m[0], Confidence: 0.3}
		}
	}
	return nil
}

// NormalizeDate canonicalizes any recognized Gregorian date to DD/MM/YYYY.
// Unrecognized input comes back unchanged.
func (e *DateExtractor) NormalizeDate(s string) string {
	cands := e.collectCandidates(s)
	if len(cands) == 0 {
		return s
	}
	return displayDate(cands[0])
}

// TranslateMonthNames replaces Arabic Gregorian and Hijri month names with
// their English labels for display consistency.
func (e *DateExtractor) TranslateMonthNames(s string) string {
	out := s
	for ar, en := range arabicGregorianMonths {
		out = strings.ReplaceAll(out, ar, en)
	}
	for _, m := range hijriMonths {
		for _, alias := range m.aliases {
			if isASCII(alias) {
				continue
			}
			out = strings.ReplaceAll(out, alias, m.english)
		}
	}
	return out
}

// collectCandidates scans per line so each date keeps its keyword context.
// Candidates are returned in order of appearance, invalid dates dropped.
func (e *DateExtractor) collectCandidates(text string) []dateCandidate {
	if text == "" {
		return nil
	}
	var cands []dateCandidate
	order := 0
	translated := e.TranslateMonthNames(text)
	for _, line := range strings.Split(translated, "\n") {
		normalized := NormalizeDigits(line)
		ctx := e.DetectDateContext(line)
		labeled := reDateLabel.MatchString(line)
		add := func(year, month, day int) {
			if !validYMD(year, month, day) {
				return
			}
			cands = append(cands, dateCandidate{
				day: day, month: month, year: year,
				context: ctx, labeled: labeled, order: order,
			})
			order++
		}
		for _, m := range reDMY.FindAllStringSubmatch(normalized, -1) {
			add(atoi(m[3]), atoi(m[2]), atoi(m[1]))
		}
		for _, m := range reYMD.FindAllStringSubmatch(normalized, -1) {
			add(atoi(m[1]), atoi(m[2]), atoi(m[3]))
		}
		for _, m := range reMonDY.FindAllStringSubmatch(normalized, -1) {
			add(atoi(m[3]), int(monthsByAbbrev[strings.ToLower(m[1])]), atoi(m[2]))
		}
		for _, m := range reDMonY.FindAllStringSubmatch(normalized, -1) {
			add(atoi(m[3]), int(monthsByAbbrev[strings.ToLower(m[2])]), atoi(m[1]))
		}
	}
	return cands
}

func displayDate(c dateCandidate) string {
	return fmt.Sprintf("%02d/%02d/%04d", c.day, c.month, c.year)
}

func candidateTime(c dateCandidate) time.Time {
	return time.Date(c.year, time.Month(c.month), c.day, 0, 0, 0, 0, time.UTC)
}

func validYMD(year, month, day int) bool {
	if !plausibleYear(year) {
		return false
	}
	if month < 1 || month > 12 {
		return false
	}
	return day >= 1 && day <= daysInMonth(year, month)
}

// plausibleYear guards against OCR digit misreads producing nonsense years.
func plausibleYear(year int) bool {
	return year >= 2000 && year <= time.Now().Year()+1
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	default:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	}
}

func hijriMonthEnglish(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, m := range hijriMonths {
		for _, a := range m.aliases {
			if lower == strings.ToLower(a) {
				return m.english
			}
		}
	}
	return ""
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}
