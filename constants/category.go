package constants

import (
	"strings"
)

// ItemCategory classifies a single purchased line on a receipt.
type ItemCategory string

const (
	Dairy       ItemCategory = "DAIRY"
	Meat        ItemCategory = "MEAT"
	Seafood     ItemCategory = "SEAFOOD"
	Fruits      ItemCategory = "FRUITS"
	Vegetables  ItemCategory = "VEGETABLES"
	Bakery      ItemCategory = "BAKERY"
	Beverages   ItemCategory = "BEVERAGES"
	Snacks      ItemCategory = "SNACKS"
	Household   ItemCategory = "HOUSEHOLD"
	Electronics ItemCategory = "ELECTRONICS"
	Clothing    ItemCategory = "CLOTHING"
	Health      ItemCategory = "HEALTH"
	Beauty      ItemCategory = "BEAUTY"
	OtherItem   ItemCategory = "OTHER"
)

var allItemCategories = []ItemCategory{
	Dairy,
	Meat,
	Seafood,
	Fruits,
	Vegetables,
	Bakery,
	Beverages,
	Snacks,
	Household,
	Electronics,
	Clothing,
	Health,
	Beauty,
	OtherItem,
}

func ItemCategoriesAsStringSlice() []string {
	result := make([]string, len(allItemCategories))
	for i, cat := range allItemCategories {
		result[i] = string(cat)
	}
	return result
}

// itemKeywords maps lowercase description substrings to a category.
// Checked by linear scan; first hit wins, so more specific tokens go first.
var itemKeywords = []struct {
	token string
	cat   ItemCategory
}{
	{"milk", Dairy}, {"laban", Dairy}, {"yogurt", Dairy}, {"yoghurt", Dairy},
	{"cheese", Dairy}, {"butter", Dairy}, {"حليب", Dairy},
	{"لبن", Dairy}, {"جبن", Dairy}, {"زبدة", Dairy},

	{"chicken", Meat}, {"beef", Meat}, {"lamb", Meat}, {"mutton", Meat},
	{"meat", Meat}, {"kofta", Meat}, {"دجاج", Meat}, {"لحم", Meat},

	{"fish", Seafood}, {"shrimp", Seafood}, {"prawn", Seafood},
	{"salmon", Seafood}, {"tuna", Seafood}, {"سمك", Seafood}, {"روبيان", Seafood},

	{"apple", Fruits}, {"banana", Fruits}, {"orange", Fruits},
	{"grape", Fruits}, {"mango", Fruits}, {"dates", Fruits}, {"fruit", Fruits},
	{"تفاح", Fruits}, {"موز", Fruits}, {"برتقال", Fruits}, {"تمر", Fruits},

	{"tomato", Vegetables}, {"potato", Vegetables}, {"onion", Vegetables},
	{"cucumber", Vegetables}, {"lettuce", Vegetables}, {"carrot", Vegetables},
	{"vegetable", Vegetables}, {"طماطم", Vegetables}, {"بطاطس", Vegetables}, {"خيار", Vegetables},

	{"bread", Bakery}, {"croissant", Bakery}, {"bun", Bakery}, {"cake", Bakery},
	{"pastry", Bakery}, {"خبز", Bakery}, {"كيك", Bakery}, {"معجنات", Bakery},

	{"water", Beverages}, {"juice", Beverages}, {"cola", Beverages},
	{"pepsi", Beverages}, {"coffee", Beverages}, {"tea", Beverages},
	{"soda", Beverages}, {"ماء", Beverages}, {"عصير", Beverages}, {"قهوة", Beverages}, {"شاي", Beverages},

	{"chips", Snacks}, {"chocolate", Snacks}, {"biscuit", Snacks},
	{"candy", Snacks}, {"nuts", Snacks}, {"popcorn", Snacks},
	{"شوكولاتة", Snacks}, {"بسكويت", Snacks}, {"مكسرات", Snacks},

	{"detergent", Household}, {"tissue", Household}, {"soap", Household},
	{"cleaner", Household}, {"trash bag", Household}, {"foil", Household},
	{"منظف", Household}, {"مناديل", Household}, {"صابون", Household},

	{"charger", Electronics}, {"cable", Electronics}, {"phone", Electronics},
	{"battery", Electronics}, {"headphone", Electronics}, {"laptop", Electronics},
	{"شاحن", Electronics}, {"سماعة", Electronics},

	{"shirt", Clothing}, {"trouser", Clothing}, {"thobe", Clothing},
	{"abaya", Clothing}, {"shoes", Clothing}, {"socks", Clothing},
	{"ثوب", Clothing}, {"عباية", Clothing}, {"حذاء", Clothing},

	{"vitamin", Health}, {"panadol", Health}, {"medicine", Health},
	{"syrup", Health}, {"فيتامين", Health}, {"دواء", Health},

	{"shampoo", Beauty}, {"perfume", Beauty}, {"lotion", Beauty},
	{"makeup", Beauty}, {"شامبو", Beauty}, {"عطر", Beauty},
}

// CanonicalizeItemCategory maps a cleaned item description to a category.
// Unrecognized descriptions fall back to OTHER.
func CanonicalizeItemCategory(description string) ItemCategory {
	if description == "" {
		return OtherItem
	}
	normalized := strings.ToLower(strings.TrimSpace(description))
	for _, kw := range itemKeywords {
		if strings.Contains(normalized, kw.token) {
			return kw.cat
		}
	}
	return OtherItem
}
