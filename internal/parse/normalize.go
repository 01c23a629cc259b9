package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reValidAmount = regexp.MustCompile(`^\d+\.\d{2}$`)
	reWhitespace  = regexp.MustCompile(`\s+`)
)

// arabicDigits maps Arabic-Indic and Eastern Arabic-Indic numerals to ASCII,
// plus the Arabic decimal (U+066B) and thousands (U+066C) separators.
var arabicDigits = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٫", ".", "٬", ",",
)

// NormalizeDigits converts Arabic-Indic numerals and separators to their
// ASCII equivalents. Non-numeric text passes through untouched.
func NormalizeDigits(s string) string {
	return arabicDigits.Replace(s)
}

// NormalizeAmount canonicalizes a raw amount string: Arabic-Indic digits to
// ASCII, Arabic decimal separator to ".", and comma disambiguation. A lone
// comma with no dot is a European decimal separator ("25,99" -> "25.99"),
// a comma alongside a dot is a thousands separator and gets stripped
// ("1,250.75" -> "1250.75"). Idempotent on already-normalized input.
func NormalizeAmount(raw string) string {
	s := strings.TrimSpace(NormalizeDigits(raw))
	s = strings.ReplaceAll(s, " ", "")

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		s = strings.ReplaceAll(s, ",", "")
	case hasComma:
		if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return s
}

// IsValidAmount reports whether s is a normalized non-negative decimal with
// exactly two fractional digits. Used to reject look-alikes (phone numbers,
// IDs) picked up by the generic amount scan.
func IsValidAmount(s string) bool {
	if !reValidAmount.MatchString(s) {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && f >= 0
}

// formatAmount normalizes raw and renders it with two fractional digits.
// Returns "" when raw does not parse as a non-negative number.
func formatAmount(raw string) string {
	s := NormalizeAmount(raw)
	if s == "" {
		return ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// collapseSpaces trims and folds runs of whitespace into single spaces.
func collapseSpaces(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}
