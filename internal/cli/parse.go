package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// ParseCmd returns the parse command
func ParseCmd() *cobra.Command {
	var (
		jsonOut bool
		opts    parseOptions
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse receipt text from a file or stdin",
		Long: `Parse a block of OCR text into structured receipt data.

Reads from the given file, or from stdin when no file (or "-") is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args)
			if err != nil {
				return err
			}

			svc, err := buildService(opts, false, nil)
			if err != nil {
				return err
			}
			res, err := svc.ParseText(cmd.Context(), text)
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

func readText(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
