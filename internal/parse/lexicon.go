package parse

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/masroof-app/receipt-parser/constants"
)

// merchantEntry binds one canonical merchant to its printed aliases (English
// and Arabic) and a business category.
type merchantEntry struct {
	Canonical string                     `yaml:"canonical"`
	Aliases   []string                   `yaml:"aliases"`
	Category  constants.MerchantCategory `yaml:"category"`
}

// defaultMerchants covers the major Saudi retail, restaurant, fuel, telecom
// and pharmacy chains. The target market is a closed, enumerable set, which
// is why recognition is lexicon-driven rather than model-driven.
var defaultMerchants = []merchantEntry{
	{"LULU HYPERMARKET", []string{"lulu", "لولو"}, constants.Grocery},
	{"PANDA", []string{"panda", "hyperpanda", "بندة", "هايبر بنده", "بنده"}, constants.Grocery},
	{"ABDULLAH AL-OTHAIM MARKETS", []string{"othaim", "العثيم"}, constants.Grocery},
	{"DANUBE", []string{"danube", "الدانوب"}, constants.Grocery},
	{"TAMIMI MARKETS", []string{"tamimi", "التميمي"}, constants.Grocery},
	{"CARREFOUR", []string{"carrefour", "كارفور"}, constants.Grocery},
	{"BINDAWOOD", []string{"bindawood", "بن داود"}, constants.Grocery},
	{"FARM SUPERSTORES", []string{"farm superstore", "أسواق المزرعة"}, constants.Grocery},

	{"ALBAIK", []string{"albaik", "al baik", "البيك"}, constants.Restaurant},
	{"HERFY", []string{"herfy", "هرفي"}, constants.Restaurant},
	{"KUDU", []string{"kudu", "كودو"}, constants.Restaurant},
	{"MCDONALD'S", []string{"mcdonald", "ماكدونالدز"}, constants.Restaurant},
	{"SHAWARMER", []string{"shawarmer", "شاورمر"}, constants.Restaurant},

	{"STARBUCKS", []string{"starbucks", "ستاربكس"}, constants.Cafe},
	{"DUNKIN", []string{"dunkin", "دانكن"}, constants.Cafe},
	{"BARNS", []string{"barns", "بارنز"}, constants.Cafe},

	{"JARIR BOOKSTORE", []string{"jarir", "جرير"}, constants.Retail},
	{"EXTRA", []string{"extra", "اكسترا", "إكسترا"}, constants.Retail},
	{"SACO", []string{"saco", "ساكو"}, constants.Retail},
	{"IKEA", []string{"ikea", "ايكيا"}, constants.Retail},
	{"AMAZON.SA", []string{"amazon", "أمازون"}, constants.Retail},
	{"NOON", []string{"noon.com", "noon", "نون"}, constants.Retail},

	{"ALDREES", []string{"aldrees", "الدريس"}, constants.GasStation},
	{"SASCO", []string{"sasco", "ساسكو"}, constants.GasStation},
	{"PETROMIN", []string{"petromin", "بترومين"}, constants.GasStation},

	{"STC", []string{"stc", "اس تي سي", "الاتصالات السعودية"}, constants.Telecom},
	{"MOBILY", []string{"mobily", "موبايلي"}, constants.Telecom},
	{"ZAIN", []string{"zain", "زين"}, constants.Telecom},

	{"AL NAHDI PHARMACY", []string{"nahdi", "النهدي"}, constants.Pharmacy},
	{"AL-DAWAA PHARMACY", []string{"dawaa", "الدواء"}, constants.Pharmacy},

	{"AL RAJHI BANK", []string{"rajhi", "الراجحي"}, constants.Financial},
	{"SAUDI NATIONAL BANK", []string{"snb", "الأهلي"}, constants.Financial},
}

// onlineMerchants are canonical names that operate without storefronts;
// their receipts carry order numbers instead of branch metadata.
var onlineMerchants = map[string]struct{}{
	"AMAZON.SA": {},
	"NOON":      {},
}

// MerchantLexicon is the compiled alias table. Built once at startup and
// read-only afterwards, so it is safe to share across goroutines.
type MerchantLexicon struct {
	entries []merchantEntry
}

// NewMerchantLexicon returns the built-in Saudi merchant table.
func NewMerchantLexicon() *MerchantLexicon {
	return &MerchantLexicon{entries: defaultMerchants}
}

// lexiconFile is the YAML overlay shape:
//
//	merchants:
//	  - canonical: MY STORE
//	    aliases: [my store, متجري]
//	    category: RETAIL
type lexiconFile struct {
	Merchants []merchantEntry `yaml:"merchants"`
}

// knownMerchantCategories guards overlay input; a typo'd category degrades
// to OTHER instead of leaking an out-of-enum value downstream.
var knownMerchantCategories = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, c := range constants.MerchantCategoriesAsStringSlice() {
		set[c] = struct{}{}
	}
	return set
}()

// LoadMerchantLexicon overlays extra merchants from a YAML file on top of
// the built-in table. Overlay entries are checked first so deployments can
// shadow a default alias.
func LoadMerchantLexicon(path string) (*MerchantLexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon overlay: %w", err)
	}
	var f lexiconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse lexicon overlay: %w", err)
	}
	entries := make([]merchantEntry, 0, len(f.Merchants)+len(defaultMerchants))
	for _, m := range f.Merchants {
		if m.Canonical == "" || len(m.Aliases) == 0 {
			continue
		}
		if _, ok := knownMerchantCategories[string(m.Category)]; !ok {
			m.Category = constants.OtherMerchant
		}
		entries = append(entries, m)
	}
	entries = append(entries, defaultMerchants...)
	return &MerchantLexicon{entries: entries}, nil
}

// Match returns the canonical name for the first alias contained in the
// given line, or "" when no known merchant appears.
func (l *MerchantLexicon) Match(line string) string {
	lower := strings.ToLower(line)
	for _, e := range l.entries {
		for _, a := range e.Aliases {
			if strings.Contains(lower, a) {
				return e.Canonical
			}
		}
	}
	return ""
}

// Category returns the business category of a canonical merchant name.
func (l *MerchantLexicon) Category(canonical string) constants.MerchantCategory {
	for _, e := range l.entries {
		if e.Canonical == canonical {
			return e.Category
		}
	}
	return constants.OtherMerchant
}

// IsOnline reports whether the canonical merchant operates online-only.
func (l *MerchantLexicon) IsOnline(canonical string) bool {
	_, ok := onlineMerchants[canonical]
	return ok
}
