package cli

import (
	"github.com/spf13/cobra"
)

// ScanCmd returns the scan command
func ScanCmd() *cobra.Command {
	var (
		jsonOut bool
		opts    parseOptions
	)

	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Run OCR on a receipt image and parse the output",
		Long: `Run tesseract on a receipt image and parse the recognized text.

The tesseract binary and language data are configured through the same
environment variables the server uses (TESSERACT_BIN, TESSERACT_LANG,
TESSDATA_PREFIX, TESSERACT_PSM, TESSERACT_OEM).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(opts, true, nil)
			if err != nil {
				return err
			}
			res, err := svc.ScanFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(res)
			}
			printSummary(res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the full result as JSON")
	cmd.Flags().StringVar(&opts.currency, "currency", "", "default currency code (default SAR)")
	cmd.Flags().Float64Var(&opts.vatRate, "vat-rate", 0, "default VAT rate percent (default 15)")
	cmd.Flags().StringVar(&opts.lexicon, "lexicon", "", "path to a YAML merchant lexicon overlay")

	return cmd
}
