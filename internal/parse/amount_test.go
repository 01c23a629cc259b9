package parse

import (
	"testing"
)

func TestExtractAmountKeywordPriority(t *testing.T) {
	e := NewAmountExtractor("SAR")
	// keyword match wins even when numerically smaller than other amounts
	text := "Item A 100.00\nItem B 200.00\nTotal: 50.00"
	if got := e.ExtractAmount(text); got != "50.00" {
		t.Fatalf("ExtractAmount = %q, want 50.00", got)
	}
}

func TestExtractAmountSubtotalFallback(t *testing.T) {
	e := NewAmountExtractor("SAR")
	text := "Item A 10.00\nSubtotal: 30.00"
	if got := e.ExtractAmount(text); got != "30.00" {
		t.Fatalf("ExtractAmount = %q, want 30.00", got)
	}
}

func TestExtractAmountMaxFallback(t *testing.T) {
	e := NewAmountExtractor("SAR")
	text := "12.50 then 99.99 then 45.00"
	if got := e.ExtractAmount(text); got != "99.99" {
		t.Fatalf("ExtractAmount = %q, want 99.99", got)
	}
}

func TestExtractAmountByPriorityLastFallback(t *testing.T) {
	e := NewAmountExtractor("SAR")
	text := "12.50 then 99.99 then 45.00"
	if got := e.ExtractAmountByPriority(text); got != "45.00" {
		t.Fatalf("ExtractAmountByPriority = %q, want 45.00", got)
	}
}

func TestExtractAmountArabicKeyword(t *testing.T) {
	e := NewAmountExtractor("SAR")
	if got := e.ExtractAmount("المجموع: ٤٥٫٥٠"); got != "45.50" {
		t.Fatalf("ExtractAmount arabic = %q, want 45.50", got)
	}
}

func TestExtractAmountEmpty(t *testing.T) {
	e := NewAmountExtractor("SAR")
	for _, in := range []string{"", "no numbers here", "@#$%"} {
		if got := e.ExtractAmount(in); got != "" {
			t.Errorf("ExtractAmount(%q) = %q, want empty", in, got)
		}
	}
}

func TestExtractAllAmounts(t *testing.T) {
	e := NewAmountExtractor("SAR")
	got := e.ExtractAllAmounts("a 12.50 b 1,250.75 c 12.50 d ١٢٣٫٤٥")
	want := []string{"12.50", "1250.75", "123.45"}
	if len(got) != len(want) {
		t.Fatalf("ExtractAllAmounts = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("amount[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	for _, a := range got {
		if !IsValidAmount(a) {
			t.Errorf("extracted amount %q fails IsValidAmount", a)
		}
	}
}

func TestExtractAmountWithCurrency(t *testing.T) {
	e := NewAmountExtractor("SAR")
	cases := []struct {
		in           string
		wantAmount   string
		wantCurrency string
	}{
		{"SAR 45.00", "45.00", "SAR"},
		{"45.00 SAR", "45.00", "SAR"},
		{"ر.س 45.00", "45.00", "SAR"},
		{"$ 19.99", "19.99", "USD"},
		{"€25.50", "25.50", "EUR"},
		{"45.00", "45.00", "SAR"}, // home-market default
	}
	for _, c := range cases {
		got := e.ExtractAmountWithCurrency(c.in)
		if got == nil {
			t.Errorf("ExtractAmountWithCurrency(%q) = nil", c.in)
			continue
		}
		if got.Amount != c.wantAmount || got.Currency != c.wantCurrency {
			t.Errorf("ExtractAmountWithCurrency(%q) = %+v, want %s %s", c.in, got, c.wantAmount, c.wantCurrency)
		}
	}
	if got := e.ExtractAmountWithCurrency("nothing here"); got != nil {
		t.Errorf("expected nil for amount-less text, got %+v", got)
	}
}

func TestExtractAmountWithConfidence(t *testing.T) {
	e := NewAmountExtractor("SAR")

	full := e.ExtractAmountWithConfidence("Total: 28.18 SAR")
	if full == nil {
		t.Fatal("expected a match")
	}
	if full.Amount != "28.18" {
		t.Fatalf("amount = %q, want 28.18", full.Amount)
	}
	// base 0.5 + total keyword 0.3 + currency 0.2 + well-formed 0.1, clamped
	if full.Confidence != 1.0 {
		t.Fatalf("confidence = %v, want 1.0", full.Confidence)
	}

	bare := e.ExtractAmountWithConfidence("28.18")
	if bare == nil {
		t.Fatal("expected a match")
	}
	if bare.Confidence >= full.Confidence {
		t.Fatalf("bare confidence %v should be below keyword+currency %v", bare.Confidence, full.Confidence)
	}

	if got := e.ExtractAmountWithConfidence("no amounts"); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestExtractTaxAmount(t *testing.T) {
	e := NewAmountExtractor("SAR")
	cases := []struct {
		in   string
		want string
	}{
		{"VAT (15%): 3.68", "3.68"},
		{"Tax: 1.50", "1.50"},
		{"ضريبة القيمة المضافة 7.25", "7.25"},
		{"no tax line", ""},
	}
	for _, c := range cases {
		if got := e.ExtractTaxAmount(c.in); got != c.want {
			t.Errorf("ExtractTaxAmount(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExtractItemAmounts(t *testing.T) {
	e := NewAmountExtractor("SAR")
	got := e.ExtractItemAmounts("Apples 12.50\nMilk 8.75 SAR\nheader line\nBread 3.25")
	want := []string{"12.50", "8.75", "3.25"}
	if len(got) != len(want) {
		t.Fatalf("ExtractItemAmounts = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item amount[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
