package receipts

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/masroof-app/receipt-parser/internal/entity"
)

// ValidationError represents a single cross-check failure
type ValidationError struct {
	Field    string `json:"field"`
	Code     string `json:"code"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ValidationWarning represents a non-critical issue
type ValidationWarning struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ComputedValues holds the expected figures the checks were made against
type ComputedValues struct {
	ExpectedTotal string `json:"expected_total,omitempty"`
	ExpectedVAT   string `json:"expected_vat,omitempty"`
	ItemsSum      string `json:"items_sum,omitempty"`
}

// ValidationResult is the outcome of cross-checking one parsed receipt
type ValidationResult struct {
	Valid       bool                `json:"valid"`
	NeedsReview bool                `json:"needs_review"`
	Errors      []ValidationError   `json:"errors"`
	Warnings    []ValidationWarning `json:"warnings"`
	Computed    ComputedValues      `json:"computed"`
}

// reVATRegistration matches Saudi VAT registration numbers: 15 digits
// starting with 3.
var reVATRegistration = regexp.MustCompile(`^3\d{14}$`)

// IsValidVATRegistration reports whether s is a plausible Saudi VAT number.
func IsValidVATRegistration(s string) bool {
	return reVATRegistration.MatchString(s)
}

// CrossChecker verifies the arithmetic of a parsed receipt. Tolerances absorb
// OCR digit noise: totals may drift up to one riyal when an item line was
// misread, VAT only by rounding.
type CrossChecker struct {
	totalTolerance decimal.Decimal // subtotal + tax vs total
	itemsTolerance decimal.Decimal // sum of items vs subtotal
	vatTolerance   decimal.Decimal // computed VAT vs printed VAT
}

func NewCrossChecker() *CrossChecker {
	return &CrossChecker{
		totalTolerance: decimal.NewFromFloat(0.02),
		itemsTolerance: decimal.NewFromFloat(1.00),
		vatTolerance:   decimal.NewFromFloat(0.01),
	}
}

// Check runs every applicable cross-validation. Checks whose inputs were not
// extracted are skipped, surfacing as warnings rather than errors.
func (c *CrossChecker) Check(data entity.ReceiptData, vatRate float64) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
	}

	total, hasTotal := parseDec(data.Total)
	subtotal, hasSubtotal := parseDec(data.Subtotal)
	tax, hasTax := parseDec(data.Tax)

	if !hasTotal {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field: "total", Code: "MISSING", Message: "no total extracted",
		})
	}

	// subtotal + tax must equal total
	if hasTotal && hasSubtotal && hasTax {
		expected := subtotal.Add(tax)
		result.Computed.ExpectedTotal = expected.StringFixed(2)
		if expected.Sub(total).Abs().GreaterThan(c.totalTolerance) {
			result.Errors = append(result.Errors, ValidationError{
				Field:    "total",
				Code:     "TOTAL_MISMATCH",
				Expected: expected.StringFixed(2),
				Actual:   total.StringFixed(2),
				Message:  "subtotal plus tax does not match total",
			})
		}
	}

	// printed VAT must match the market rate applied to the subtotal
	if hasSubtotal && hasTax && vatRate > 0 {
		rate := decimal.NewFromFloat(vatRate).Div(decimal.NewFromInt(100))
		expected := subtotal.Mul(rate).Round(2)
		result.Computed.ExpectedVAT = expected.StringFixed(2)
		if expected.Sub(tax).Abs().GreaterThan(c.vatTolerance) {
			result.Errors = append(result.Errors, ValidationError{
				Field:    "tax",
				Code:     "VAT_MISMATCH",
				Expected: expected.StringFixed(2),
				Actual:   tax.StringFixed(2),
				Message:  fmt.Sprintf("printed VAT differs from %.0f%% of subtotal", vatRate),
			})
		}
	}

	// item lines should add up to the subtotal (or total when no subtotal)
	if len(data.Items) > 0 {
		sum := decimal.Zero
		for _, it := range data.Items {
			p, ok := parseDec(it.Price)
			if !ok {
				continue
			}
			if it.IsReturn {
				sum = sum.Sub(p)
			} else {
				sum = sum.Add(p)
			}
		}
		result.Computed.ItemsSum = sum.StringFixed(2)

		ref, hasRef := subtotal, hasSubtotal
		field := "subtotal"
		if !hasRef {
			ref, hasRef = total, hasTotal
			field = "total"
		}
		if hasRef && sum.Sub(ref).Abs().GreaterThan(c.itemsTolerance) {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Field: field,
				Code:  "ITEMS_SUM_MISMATCH",
				Message: fmt.Sprintf("items add to %s but %s is %s",
					sum.StringFixed(2), field, ref.StringFixed(2)),
			})
		}
	}

	result.Valid = len(result.Errors) == 0
	result.NeedsReview = !result.Valid || len(result.Warnings) > 0
	return result
}

func parseDec(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
