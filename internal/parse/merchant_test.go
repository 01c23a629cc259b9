package parse

import (
	"testing"

	"github.com/masroof-app/receipt-parser/constants"
)

func TestExtractMerchantNameLexicon(t *testing.T) {
	e := NewMerchantExtractor(nil)
	cases := []struct {
		in   string
		want string
	}{
		{"LULU HYPERMARKET\nRiyadh Branch\n15/01/2024", "LULU HYPERMARKET"},
		{"lulu hypermarket", "LULU HYPERMARKET"},
		{"لولو هايبر ماركت\nفرع الرياض", "LULU HYPERMARKET"},
		{"Welcome\nPanda Retail Co.\nDammam", "PANDA"},
		{"بندة", "PANDA"},
		{"Al Nahdi Pharmacy", "AL NAHDI PHARMACY"},
	}
	for _, c := range cases {
		if got := e.ExtractMerchantName(c.in); got != c.want {
			t.Errorf("ExtractMerchantName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExtractMerchantNameHeuristics(t *testing.T) {
	e := NewMerchantExtractor(nil)

	// unknown brand, but the header noun marks it as a store
	if got := e.ExtractMerchantName("Green Valley Supermarket\n12.50\n8.00"); got != "GREEN VALLEY SUPERMARKET" {
		t.Fatalf("header-noun name = %q, want GREEN VALLEY SUPERMARKET", got)
	}

	// generic fallback keeps the original casing
	if got := e.ExtractMerchantName("Corner Bakers\nitem one 5.00"); got != "Corner Bakers" {
		t.Fatalf("fallback name = %q, want Corner Bakers", got)
	}

	// number-dominated and too-short lines never qualify
	for _, in := range []string{"", "12345\n67890", "ab\ncd"} {
		if got := e.ExtractMerchantName(in); got != "" {
			t.Errorf("ExtractMerchantName(%q) = %q, want empty", in, got)
		}
	}
}

func TestExtractMerchantWithConfidence(t *testing.T) {
	e := NewMerchantExtractor(nil)

	top := e.ExtractMerchantWithConfidence("LULU HYPERMARKET\nRiyadh")
	if top == nil || top.Name != "LULU HYPERMARKET" || top.Confidence != 0.95 {
		t.Fatalf("first-line lexicon hit = %+v, want LULU HYPERMARKET @0.95", top)
	}

	deep := e.ExtractMerchantWithConfidence("Welcome!\nThank you\nLULU HYPERMARKET")
	if deep == nil || deep.Name != "LULU HYPERMARKET" || deep.Confidence != 0.85 {
		t.Fatalf("deeper lexicon hit = %+v, want LULU HYPERMARKET @0.85", deep)
	}

	noun := e.ExtractMerchantWithConfidence("Green Valley Supermarket\n12.50")
	if noun == nil || noun.Confidence != 0.6 {
		t.Fatalf("header-noun hit = %+v, want confidence 0.6", noun)
	}

	generic := e.ExtractMerchantWithConfidence("Corner Bakers\nitem 5.00")
	if generic == nil || generic.Confidence != 0.4 {
		t.Fatalf("fallback hit = %+v, want confidence 0.4", generic)
	}

	if got := e.ExtractMerchantWithConfidence("123\n456"); got != nil {
		t.Fatalf("expected nil for numeric noise, got %+v", got)
	}
}

func TestCategorizeMerchant(t *testing.T) {
	e := NewMerchantExtractor(nil)
	cases := []struct {
		name string
		want constants.MerchantCategory
	}{
		{"LULU HYPERMARKET", constants.Grocery},
		{"ALBAIK", constants.Restaurant},
		{"STARBUCKS", constants.Cafe},
		{"AL NAHDI PHARMACY", constants.Pharmacy},
		{"STC", constants.Telecom},
		{"Green Valley Supermarket", constants.Grocery},
		{"Desert Rose Clinic", constants.Healthcare},
		{"Unknown Business", constants.OtherMerchant},
		{"", constants.OtherMerchant},
	}
	for _, c := range cases {
		if got := e.CategorizeMerchant(c.name); got != c.want {
			t.Errorf("CategorizeMerchant(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestExtractMerchantInfo(t *testing.T) {
	e := NewMerchantExtractor(nil)
	text := "LULU HYPERMARKET\n" +
		"King Fahd Road, Riyadh\n" +
		"Branch: Olaya\n" +
		"Store No: 14\n" +
		"Tel: 0112345678\n" +
		"VAT Reg: 310123456789003\n" +
		"C.R: 1010012345\n"

	info := e.ExtractMerchantInfo(text)
	if info == nil {
		t.Fatal("expected merchant info")
	}
	if info.Name != "LULU HYPERMARKET" {
		t.Errorf("Name = %q", info.Name)
	}
	if info.Branch != "Olaya" {
		t.Errorf("Branch = %q, want Olaya", info.Branch)
	}
	if info.StoreNumber != "14" {
		t.Errorf("StoreNumber = %q, want 14", info.StoreNumber)
	}
	if info.Phone == "" {
		t.Error("Phone not extracted")
	}
	if info.TaxID != "310123456789003" {
		t.Errorf("TaxID = %q, want 310123456789003", info.TaxID)
	}
	if info.RegistrationNumber != "1010012345" {
		t.Errorf("RegistrationNumber = %q, want 1010012345", info.RegistrationNumber)
	}
	if info.Address == "" {
		t.Error("Address not extracted")
	}
	if info.Location != "Riyadh" {
		t.Errorf("Location = %q, want Riyadh", info.Location)
	}
	if info.IsOnline {
		t.Error("IsOnline = true for a physical store receipt")
	}
}

func TestExtractMerchantInfoOnline(t *testing.T) {
	e := NewMerchantExtractor(nil)
	text := "AMAZON.SA\nOrder #: 402-1234567\nTotal: 99.00"
	info := e.ExtractMerchantInfo(text)
	if info == nil {
		t.Fatal("expected merchant info")
	}
	if !info.IsOnline {
		t.Error("IsOnline = false, want true")
	}
	if info.OrderNumber != "402-1234567" {
		t.Errorf("OrderNumber = %q, want 402-1234567", info.OrderNumber)
	}
}

func TestNormalizeMerchantName(t *testing.T) {
	e := NewMerchantExtractor(nil)
	cases := []struct {
		in   string
		want string
	}{
		{"lulu", "LULU HYPERMARKET"},
		{"  LULU   ", "LULU HYPERMARKET"},
		{"لولو", "LULU HYPERMARKET"},
		{"Corner Bakers", "CORNER BAKERS"},
		{"", ""},
	}
	for _, c := range cases {
		if got := e.NormalizeMerchantName(c.in); got != c.want {
			t.Errorf("NormalizeMerchantName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
