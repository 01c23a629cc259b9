package extract

import (
	"context"
	"log/slog"

	"github.com/masroof-app/receipt-parser/internal/ocr"
)

type OCRAdapter struct {
	e *ocr.Extractor
}

func NewOCRAdapter(e *ocr.Extractor, _ *slog.Logger) *OCRAdapter {
	return &OCRAdapter{e: e}
}

func (a *OCRAdapter) Recognize(ctx context.Context, path string) (TextResult, error) {
	r, err := a.e.Extract(ctx, path)
	return TextResult{
		Text:       r.Text,
		Language:   r.Language,
		Method:     "tesseract",
		Duration:   r.Duration,
		Warnings:   r.Warnings,
		Confidence: r.Confidence,
	}, err
}
