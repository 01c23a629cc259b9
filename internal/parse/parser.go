package parse

import (
	"log/slog"

	"github.com/masroof-app/receipt-parser/internal/entity"
)

// Config holds the market defaults. Saudi values are the shipped behavior;
// both knobs exist for broader-market reuse, not to be changed lightly.
type Config struct {
	DefaultCurrency string  // default "SAR"
	DefaultVATRate  float64 // default 15.0
}

// Parser runs each extractor against the full text and assembles one
// ReceiptData. Construct once at startup; all fields are read-only after
// that, so concurrent ParseReceiptText calls need no synchronization.
type Parser struct {
	amounts   *AmountExtractor
	dates     *DateExtractor
	merchants *MerchantExtractor
	items     *LineItemExtractor
	logger    *slog.Logger
}

func NewParser(cfg Config, lexicon *MerchantLexicon, logger *slog.Logger) *Parser {
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "SAR"
	}
	if cfg.DefaultVATRate <= 0 {
		cfg.DefaultVATRate = 15.0
	}
	if lexicon == nil {
		lexicon = NewMerchantLexicon()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		amounts:   NewAmountExtractor(cfg.DefaultCurrency),
		dates:     NewDateExtractor(),
		merchants: NewMerchantExtractor(lexicon),
		items:     NewLineItemExtractor(cfg.DefaultVATRate, lexicon),
		logger:    logger,
	}
}

// Amounts exposes the amount extractor for callers that need a single field.
func (p *Parser) Amounts() *AmountExtractor { return p.amounts }

// Dates exposes the date extractor.
func (p *Parser) Dates() *DateExtractor { return p.dates }

// Merchants exposes the merchant extractor.
func (p *Parser) Merchants() *MerchantExtractor { return p.merchants }

// Items exposes the line-item extractor.
func (p *Parser) Items() *LineItemExtractor { return p.items }

// ParseReceiptText turns one block of OCR text into structured receipt data.
// Extraction misses surface as empty fields, never as errors; a panic in any
// extractor is recovered here and whatever was assembled so far is returned.
func (p *Parser) ParseReceiptText(text string) (data entity.ReceiptData) {
	data = entity.ReceiptData{
		Currency: p.amounts.DefaultCurrency,
		RawText:  text,
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("receipt parse recovered", "panic", r, "text_bytes", len(text))
		}
	}()
	if text == "" {
		return data
	}
	// Digits-only input is OCR noise, not a receipt. Promoting a stray
	// number to the total would lift the score out of the noise band.
	if !reLetters.MatchString(text) {
		return data
	}

	data.MerchantName = p.merchants.ExtractMerchantName(text)
	data.Date = p.dates.ExtractMostLikelyDate(text)
	data.Total = p.amounts.ExtractAmount(text)
	data.Tax = p.amounts.ExtractTaxAmount(text)
	data.Subtotal = p.amounts.ExtractSubtotalAmount(text)
	if ac := p.amounts.ExtractAmountWithCurrency(text); ac != nil {
		data.Currency = ac.Currency
	}
	data.Items = p.items.ExtractLineItems(text)

	return data
}

// Confidence weights per field; completeness is the signal downstream
// consumers use to decide between auto-fill and manual review.
const (
	merchantWeight  = 0.20
	dateWeight      = 0.15
	totalWeight     = 0.25
	itemsWeight     = 0.20
	taxWeight       = 0.10
	subtotalWeight  = 0.10
	multiItemBonus  = 0.10
	currencyBonus   = 0.05
	multiItemsCount = 2
)

// ParsingConfidence scores how complete a parse result is, in [0,1].
// Strictly more populated fields never score lower.
func (p *Parser) ParsingConfidence(data entity.ReceiptData) float64 {
	score := 0.0
	if data.MerchantName != "" {
		score += merchantWeight
	}
	if data.Date != "" {
		score += dateWeight
	}
	if data.Total != "" {
		score += totalWeight
	}
	if len(data.Items) > 0 {
		score += itemsWeight
	}
	if data.Tax != "" {
		score += taxWeight
	}
	if data.Subtotal != "" {
		score += subtotalWeight
	}
	if len(data.Items) >= multiItemsCount {
		score += multiItemBonus
	}
	if data.Currency != "" {
		score += currencyBonus
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
