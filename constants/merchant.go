package constants

// MerchantCategory classifies the business that issued a receipt.
type MerchantCategory string

const (
	Grocery       MerchantCategory = "GROCERY"
	Restaurant    MerchantCategory = "RESTAURANT"
	Cafe          MerchantCategory = "CAFE"
	Retail        MerchantCategory = "RETAIL"
	GasStation    MerchantCategory = "GAS_STATION"
	Telecom       MerchantCategory = "TELECOM"
	Financial     MerchantCategory = "FINANCIAL"
	Healthcare    MerchantCategory = "HEALTHCARE"
	Pharmacy      MerchantCategory = "PHARMACY"
	OtherMerchant MerchantCategory = "OTHER"
)

var allMerchantCategories = []MerchantCategory{
	Grocery,
	Restaurant,
	Cafe,
	Retail,
	GasStation,
	Telecom,
	Financial,
	Healthcare,
	Pharmacy,
	OtherMerchant,
}

func MerchantCategoriesAsStringSlice() []string {
	result := make([]string, len(allMerchantCategories))
	for i, cat := range allMerchantCategories {
		result[i] = string(cat)
	}
	return result
}
