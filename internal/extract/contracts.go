package extract

import (
	"context"
	"time"
)

// TextRecognizer turns a receipt image into raw text.
type TextRecognizer interface {
	Recognize(ctx context.Context, path string) (TextResult, error)
}

type TextResult struct {
	Text       string
	Language   string
	Method     string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}
