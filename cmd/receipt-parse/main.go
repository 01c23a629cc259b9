package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/masroof-app/receipt-parser/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "receipt-parse",
		Short: "Parse Saudi receipt OCR text into structured data",
		Long: `receipt-parse turns raw OCR output from bilingual (Arabic/English)
Saudi receipts into structured records: merchant, date, totals, VAT,
line items, and a confidence score.

Text can be parsed directly, or images can be scanned through tesseract
first. Batch mode processes a directory of images into a SQLite store
and optionally exports the results to XLSX.`,
	}

	rootCmd.AddCommand(cli.ParseCmd())
	rootCmd.AddCommand(cli.ScanCmd())
	rootCmd.AddCommand(cli.BatchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
