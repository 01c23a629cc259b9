package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/masroof-app/receipt-parser/internal/common"
	"github.com/masroof-app/receipt-parser/internal/export"
	"github.com/masroof-app/receipt-parser/internal/extract"
	"github.com/masroof-app/receipt-parser/internal/ocr"
	"github.com/masroof-app/receipt-parser/internal/parse"
	"github.com/masroof-app/receipt-parser/internal/receipts"
	"github.com/masroof-app/receipt-parser/internal/repository"
	"github.com/masroof-app/receipt-parser/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, cleanup, err := openRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	lexicon, err := loadLexicon(cfg.Parser.LexiconPath)
	if err != nil {
		logger.Error("failed to load merchant lexicon", "path", cfg.Parser.LexiconPath, "error", err)
		os.Exit(1)
	}

	parser := parse.NewParser(parse.Config{
		DefaultCurrency: cfg.Parser.DefaultCurrency,
		DefaultVATRate:  cfg.Parser.DefaultVATRate,
	}, lexicon, logger)

	recognizer := extract.NewOCRAdapter(ocr.NewExtractor(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Lang:        cfg.OCR.Lang,
		TessdataDir: cfg.OCR.TessdataDir,
		PSM:         cfg.OCR.PSM,
		OEM:         cfg.OCR.OEM,
	}, logger), logger)

	svc := receipts.NewService(parser, recognizer, repo, cfg.Parser.DefaultVATRate, logger)
	exporter := export.NewService(repo, logger)
	handler := server.NewHandler(svc, exporter, logger)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: handler.SetupRoutes(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("stopped")
}

// openRepository picks the backend off the DSN: postgres URLs get a pgx pool,
// anything else is a sqlite path (empty means in-memory).
func openRepository(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repository.ReceiptRepository, func(), error) {
	dsn := cfg.Database.DSN
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		pool, err := repository.OpenPostgres(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repository.NewPostgresRepository(pool, logger), pool.Close, nil
	}

	db, err := repository.OpenSQLite(ctx, dsn, logger)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewSQLiteRepository(db, logger), func() { _ = db.Close() }, nil
}

func loadLexicon(path string) (*parse.MerchantLexicon, error) {
	if path == "" {
		return parse.NewMerchantLexicon(), nil
	}
	return parse.LoadMerchantLexicon(path)
}
