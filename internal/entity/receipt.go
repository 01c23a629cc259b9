package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/masroof-app/receipt-parser/constants"
)

// ReceiptData is the structured result of parsing one block of OCR text.
// Monetary fields hold validated decimal strings ("\d+\.\d{2}"); the empty
// string means the field was not found. Absence is never encoded as "0.00".
type ReceiptData struct {
	MerchantName string        `json:"merchant_name,omitempty"`
	Date         string        `json:"date,omitempty"`
	Total        string        `json:"total,omitempty"`
	Currency     string        `json:"currency"`
	Tax          string        `json:"tax,omitempty"`
	Subtotal     string        `json:"subtotal,omitempty"`
	Items        []ReceiptItem `json:"items,omitempty"`
	RawText      string        `json:"raw_text"`
}

// ReceiptItem is one purchased line.
type ReceiptItem struct {
	Description   string                 `json:"description"`
	Price         string                 `json:"price"`
	Quantity      int                    `json:"quantity"`
	UnitPrice     string                 `json:"unit_price,omitempty"`
	Weight        string                 `json:"weight,omitempty"`
	SKU           string                 `json:"sku,omitempty"`
	Barcode       string                 `json:"barcode,omitempty"`
	Category      constants.ItemCategory `json:"category"`
	Discount      string                 `json:"discount,omitempty"`
	TaxRate       float64                `json:"tax_rate"`
	IsReturn      bool                   `json:"is_return,omitempty"`
	IsRewardItem  bool                   `json:"is_reward_item,omitempty"`
	LoyaltyPoints int                    `json:"loyalty_points,omitempty"`
	Promotion     string                 `json:"promotion,omitempty"`
}

// AmountWithCurrency pairs a normalized amount with its currency code.
type AmountWithCurrency struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// AmountWithConfidence pairs a normalized amount with a [0,1] score.
type AmountWithConfidence struct {
	Amount     string  `json:"amount"`
	Confidence float64 `json:"confidence"`
}

// DateWithConfidence pairs an extracted date with a [0,1] score.
type DateWithConfidence struct {
	Date       string  `json:"date"`
	Confidence float64 `json:"confidence"`
}

// MerchantWithConfidence pairs a merchant name with a [0,1] score.
type MerchantWithConfidence struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// MerchantInfo carries merchant metadata pulled from the receipt header
// and footer. Everything except Name is best-effort.
type MerchantInfo struct {
	Name               string `json:"name"`
	Location           string `json:"location,omitempty"`
	Address            string `json:"address,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Branch             string `json:"branch,omitempty"`
	StoreNumber        string `json:"store_number,omitempty"`
	TaxID              string `json:"tax_id,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	IsOnline           bool   `json:"is_online,omitempty"`
	OrderNumber        string `json:"order_number,omitempty"`
}

// Receipt represents a stored parse result for transfer between layers.
type Receipt struct {
	ID           uuid.UUID `json:"id"`
	MerchantName string    `json:"merchant_name"`
	TxDate       string    `json:"tx_date"`
	Total        string    `json:"total"`
	CurrencyCode string    `json:"currency_code"`
	Tax          string    `json:"tax,omitempty"`
	Subtotal     string    `json:"subtotal,omitempty"`
	ItemCount    int       `json:"item_count"`
	Confidence   float64   `json:"confidence"`
	RawText      string    `json:"raw_text,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
