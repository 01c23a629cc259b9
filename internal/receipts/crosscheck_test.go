package receipts

import (
	"testing"

	"github.com/masroof-app/receipt-parser/internal/entity"
)

func balancedReceipt() entity.ReceiptData {
	return entity.ReceiptData{
		MerchantName: "LULU HYPERMARKET",
		Date:         "15/01/2024",
		Subtotal:     "24.50",
		Tax:          "3.68", // 24.50 * 15% = 3.675, printed rounded
		Total:        "28.18",
		Currency:     "SAR",
		Items: []entity.ReceiptItem{
			{Description: "Milk", Price: "8.50", Quantity: 1},
			{Description: "Bread", Price: "3.25", Quantity: 1},
			{Description: "Tomatoes", Price: "12.75", Quantity: 1},
		},
		RawText: "x",
	}
}

func TestCrossCheckBalanced(t *testing.T) {
	res := NewCrossChecker().Check(balancedReceipt(), 15.0)
	if !res.Valid {
		t.Fatalf("balanced receipt marked invalid: %+v", res.Errors)
	}
	if res.NeedsReview {
		t.Fatalf("balanced receipt flagged for review: %+v", res.Warnings)
	}
	if res.Computed.ExpectedTotal != "28.18" {
		t.Errorf("ExpectedTotal = %q, want 28.18", res.Computed.ExpectedTotal)
	}
	if res.Computed.ItemsSum != "24.50" {
		t.Errorf("ItemsSum = %q, want 24.50", res.Computed.ItemsSum)
	}
}

func TestCrossCheckTotalMismatch(t *testing.T) {
	data := balancedReceipt()
	data.Total = "40.00"
	res := NewCrossChecker().Check(data, 15.0)
	if res.Valid {
		t.Fatal("mismatched total passed validation")
	}
	found := false
	for _, e := range res.Errors {
		if e.Code == "TOTAL_MISMATCH" {
			found = true
			if e.Expected != "28.18" || e.Actual != "40.00" {
				t.Errorf("error detail = %+v", e)
			}
		}
	}
	if !found {
		t.Fatalf("no TOTAL_MISMATCH in %+v", res.Errors)
	}
}

func TestCrossCheckVATMismatch(t *testing.T) {
	data := balancedReceipt()
	data.Tax = "5.00"
	data.Total = "29.50" // keeps subtotal+tax consistent
	res := NewCrossChecker().Check(data, 15.0)
	if res.Valid {
		t.Fatal("wrong VAT passed validation")
	}
	found := false
	for _, e := range res.Errors {
		if e.Code == "VAT_MISMATCH" {
			found = true
		}
	}
	if !found {
		t.Fatalf("no VAT_MISMATCH in %+v", res.Errors)
	}
}

func TestCrossCheckItemsSumWarning(t *testing.T) {
	data := balancedReceipt()
	// drop an item: sum falls 12.75 below the subtotal, past the 1.00 band
	data.Items = data.Items[:2]
	res := NewCrossChecker().Check(data, 15.0)
	if !res.Valid {
		t.Fatalf("items drift must warn, not fail: %+v", res.Errors)
	}
	if !res.NeedsReview {
		t.Fatal("items drift did not flag review")
	}
	found := false
	for _, w := range res.Warnings {
		if w.Code == "ITEMS_SUM_MISMATCH" {
			found = true
		}
	}
	if !found {
		t.Fatalf("no ITEMS_SUM_MISMATCH in %+v", res.Warnings)
	}
}

func TestCrossCheckReturnsSubtract(t *testing.T) {
	data := balancedReceipt()
	data.Items = append(data.Items, entity.ReceiptItem{
		Description: "Returned Juice", Price: "12.00", Quantity: 1, IsReturn: true,
	})
	res := NewCrossChecker().Check(data, 15.0)
	if res.Computed.ItemsSum != "12.50" {
		t.Errorf("ItemsSum with return = %q, want 12.50", res.Computed.ItemsSum)
	}
}

func TestCrossCheckMissingFields(t *testing.T) {
	res := NewCrossChecker().Check(entity.ReceiptData{Currency: "SAR", RawText: "x"}, 15.0)
	if !res.Valid {
		t.Fatalf("empty extraction must not error: %+v", res.Errors)
	}
	if !res.NeedsReview {
		t.Fatal("missing total did not flag review")
	}
}

func TestIsValidVATRegistration(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"310123456789003", true},
		{"300000000000003", true},
		{"410123456789003", false}, // wrong prefix
		{"31012345678900", false},  // 14 digits
		{"3101234567890031", false},
		{"", false},
		{"3abc23456789003", false},
	}
	for _, c := range cases {
		if got := IsValidVATRegistration(c.in); got != c.want {
			t.Errorf("IsValidVATRegistration(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
