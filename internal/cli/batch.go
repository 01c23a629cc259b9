package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/masroof-app/receipt-parser/internal/export"
	"github.com/masroof-app/receipt-parser/internal/repository"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
	".webp": true,
}

// BatchCmd returns the batch command
func BatchCmd() *cobra.Command {
	var (
		dbPath   string
		xlsxPath string
		opts     parseOptions
	)

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Scan a directory of receipt images into a SQLite store",
		Long: `Scan every receipt image in a directory, store the parsed results in a
SQLite database, and optionally export the whole store to an XLSX workbook.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := repository.OpenSQLite(ctx, dbPath, quietLogger())
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()
			repo := repository.NewSQLiteRepository(db, quietLogger())

			svc, err := buildService(opts, true, repo)
			if err != nil {
				return err
			}

			entries, err := os.ReadDir(args[0])
			if err != nil {
				return err
			}

			var done, failed int
			for _, entry := range entries {
				if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
					continue
				}
				path := filepath.Join(args[0], entry.Name())
				res, err := svc.ScanFile(ctx, path)
				if err != nil {
					failed++
					color.New(color.FgRed).Printf("✗ %s: %v\n", entry.Name(), err)
					continue
				}
				done++
				merchant := res.Receipt.MerchantName
				if merchant == "" {
					merchant = "(unknown)"
				}
				fmt.Printf("%s %-32s %-24s %s %s\n",
					color.New(color.FgGreen).Sprint("✓"),
					entry.Name(), merchant, res.Receipt.Total,
					confidenceColor(res.Confidence).Sprintf("(%.2f)", res.Confidence))
			}

			fmt.Printf("\n%d scanned, %d failed\n", done, failed)

			if xlsxPath != "" {
				out, err := export.NewService(repo, quietLogger()).ExportReceiptsXLSX(ctx, repository.ListFilter{})
				if err != nil {
					return fmt.Errorf("export: %w", err)
				}
				if err := os.WriteFile(xlsxPath, out, 0o644); err != nil {
					return fmt.Errorf("write workbook: %w", err)
				}
				fmt.Printf("wrote %s\n", xlsxPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "receipts.db", "SQLite database path")
	cmd.Flags().StringVar(&xlsxPath, "out", "", "also export the store to this XLSX file")
	cmd.Flags().StringVar(&opts.currency, "currency", "", "default currency code (default SAR)")
	cmd.Flags().Float64Var(&opts.vatRate, "vat-rate", 0, "default VAT rate percent (default 15)")
	cmd.Flags().StringVar(&opts.lexicon, "lexicon", "", "path to a YAML merchant lexicon overlay")

	return cmd
}
