package parse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/masroof-app/receipt-parser/constants"
)

func writeLexiconOverlay(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "merchants.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write overlay: %v", err)
	}
	return path
}

func TestLoadMerchantLexiconOverlay(t *testing.T) {
	path := writeLexiconOverlay(t, `
merchants:
  - canonical: GREEN VALLEY
    aliases: [green valley, الوادي الأخضر]
    category: GROCERY
`)
	lex, err := LoadMerchantLexicon(path)
	if err != nil {
		t.Fatalf("LoadMerchantLexicon: %v", err)
	}
	if got := lex.Match("Green Valley Supermarket"); got != "GREEN VALLEY" {
		t.Errorf("Match = %q, want GREEN VALLEY", got)
	}
	if got := lex.Category("GREEN VALLEY"); got != constants.Grocery {
		t.Errorf("Category = %q, want GROCERY", got)
	}
	// built-ins still present underneath the overlay
	if got := lex.Match("LULU HYPERMARKET RIYADH"); got != "LULU HYPERMARKET" {
		t.Errorf("built-in Match = %q, want LULU HYPERMARKET", got)
	}
}

func TestLoadMerchantLexiconBadCategoryFallsBack(t *testing.T) {
	path := writeLexiconOverlay(t, `
merchants:
  - canonical: MYSTERY MART
    aliases: [mystery mart]
    category: SUPERDUPER
  - canonical: NO CATEGORY MART
    aliases: [no category mart]
`)
	lex, err := LoadMerchantLexicon(path)
	if err != nil {
		t.Fatalf("LoadMerchantLexicon: %v", err)
	}
	if got := lex.Category("MYSTERY MART"); got != constants.OtherMerchant {
		t.Errorf("unknown category = %q, want OTHER", got)
	}
	if got := lex.Category("NO CATEGORY MART"); got != constants.OtherMerchant {
		t.Errorf("missing category = %q, want OTHER", got)
	}
}

func TestLoadMerchantLexiconRejectsMalformed(t *testing.T) {
	path := writeLexiconOverlay(t, "merchants: [not a mapping")
	if _, err := LoadMerchantLexicon(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
