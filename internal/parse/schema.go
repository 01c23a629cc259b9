package parse

// BuildReceiptJSONSchema returns a JSON-Schema (draft 2020-12 subset) for a
// serialized parse result, as a generic map. The server validates outgoing
// payloads against it and tests use it to pin the wire shape.
func BuildReceiptJSONSchema(allowedCategories []string) map[string]any {
	itemProps := map[string]any{
		"description":    map[string]any{"type": "string", "minLength": 1},
		"price":          decimalProp(),
		"quantity":       map[string]any{"type": "integer", "minimum": 1},
		"unit_price":     decimalProp(),
		"weight":         map[string]any{"type": "string"},
		"sku":            map[string]any{"type": "string"},
		"barcode":        map[string]any{"type": "string"},
		"category":       map[string]any{"type": "string"},
		"discount":       decimalProp(),
		"tax_rate":       map[string]any{"type": "number", "minimum": 0.0},
		"is_return":      map[string]any{"type": "boolean"},
		"is_reward_item": map[string]any{"type": "boolean"},
		"loyalty_points": map[string]any{"type": "integer", "minimum": 0},
		"promotion":      map[string]any{"type": "string"},
	}
	if len(allowedCategories) > 0 {
		itemProps["category"] = map[string]any{
			"type": "string",
			"enum": allowedCategories,
		}
	}

	props := map[string]any{
		"merchant_name": map[string]any{"type": "string", "minLength": 1},
		"date":          map[string]any{"type": "string"},
		"total":         decimalProp(),
		"currency":      map[string]any{"type": "string", "minLength": 3, "maxLength": 3},
		"tax":           decimalProp(),
		"subtotal":      decimalProp(),
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":       "object",
				"properties": itemProps,
				"required":   []string{"description", "price", "quantity", "category", "tax_rate"},
			},
		},
		"raw_text": map[string]any{"type": "string"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"currency", "raw_text"},
	}
}

func decimalProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^\d+\.\d{2}$`,
	}
}
