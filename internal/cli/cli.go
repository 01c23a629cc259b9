package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/masroof-app/receipt-parser/internal/common"
	"github.com/masroof-app/receipt-parser/internal/extract"
	"github.com/masroof-app/receipt-parser/internal/ocr"
	"github.com/masroof-app/receipt-parser/internal/parse"
	"github.com/masroof-app/receipt-parser/internal/receipts"
	"github.com/masroof-app/receipt-parser/internal/repository"
)

// quietLogger keeps service logs off the CLI output unless something is
// actually wrong.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

type parseOptions struct {
	currency string
	vatRate  float64
	lexicon  string
}

func buildParser(opts parseOptions, logger *slog.Logger) (*parse.Parser, error) {
	lexicon := parse.NewMerchantLexicon()
	if opts.lexicon != "" {
		var err error
		lexicon, err = parse.LoadMerchantLexicon(opts.lexicon)
		if err != nil {
			return nil, err
		}
	}
	return parse.NewParser(parse.Config{
		DefaultCurrency: opts.currency,
		DefaultVATRate:  opts.vatRate,
	}, lexicon, logger), nil
}

func buildService(opts parseOptions, withOCR bool, repo repository.ReceiptRepository) (*receipts.Service, error) {
	logger := quietLogger()
	parser, err := buildParser(opts, logger)
	if err != nil {
		return nil, err
	}

	var recognizer extract.TextRecognizer
	if withOCR {
		cfg := common.LoadConfig()
		recognizer = extract.NewOCRAdapter(ocr.NewExtractor(ocr.Config{
			Tesseract:   cfg.OCR.Tesseract,
			Lang:        cfg.OCR.Lang,
			TessdataDir: cfg.OCR.TessdataDir,
			PSM:         cfg.OCR.PSM,
			OEM:         cfg.OCR.OEM,
		}, logger), logger)
	}

	return receipts.NewService(parser, recognizer, repo, opts.vatRate, logger), nil
}

// printSummary writes a human-readable rendering of one parse result.
func printSummary(res *receipts.ParseResult) {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	merchant := res.Receipt.MerchantName
	if merchant == "" {
		merchant = dim.Sprint("(unknown merchant)")
	}
	bold.Println(merchant)

	printField("Date", res.Receipt.Date)
	printField("Subtotal", res.Receipt.Subtotal)
	printField("VAT", res.Receipt.Tax)
	printField("Total", res.Receipt.Total)
	printField("Currency", res.Receipt.Currency)

	if n := len(res.Receipt.Items); n > 0 {
		fmt.Printf("  %-10s %d\n", "Items", n)
		for _, it := range res.Receipt.Items {
			line := fmt.Sprintf("    %-28s x%d  %8s", it.Description, it.Quantity, it.Price)
			if it.IsReturn {
				line += color.New(color.FgRed).Sprint("  [return]")
			}
			if it.IsRewardItem {
				line += color.New(color.FgGreen).Sprint("  [reward]")
			}
			fmt.Println(line)
		}
	}

	fmt.Printf("  %-10s %s\n", "Confidence", confidenceColor(res.Confidence).Sprintf("%.2f", res.Confidence))

	if v := res.Validation; v != nil {
		for _, e := range v.Errors {
			color.New(color.FgRed).Printf("  ✗ %s\n", e.Message)
		}
		for _, w := range v.Warnings {
			color.New(color.FgYellow).Printf("  ! %s\n", w.Message)
		}
		if v.NeedsReview {
			color.New(color.FgYellow).Println("  needs review")
		}
	}
}

func printField(name, value string) {
	if value == "" {
		return
	}
	fmt.Printf("  %-10s %s\n", name, value)
}

func confidenceColor(c float64) *color.Color {
	switch {
	case c >= 0.7:
		return color.New(color.FgGreen)
	case c >= 0.4:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
