package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	// Lang defaults to "ara+eng": Saudi receipts interleave Arabic and
	// English, and tesseract needs both models loaded to keep either
	// script from degrading the other.
	Lang        string
	TessdataDir string

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default
}

type Result struct {
	Text       string
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

// Extractor shells out to tesseract for image -> text.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "ara+eng"
	}
	return &Extractor{cfg: cfg, runner: newExecRunner(logger), logger: logger}
}

// reBoxNoise drops the vertical-bar runs tesseract produces from table rules
// and torn receipt edges.
var reBoxNoise = regexp.MustCompile(`(?m)^[|¦_]{2,}\s*$`)

// Extract runs tesseract on one receipt image and scores the output.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	e.logger.Debug("starting ocr extraction", "path", path, "lang", e.cfg.Lang)

	args := []string{path, "stdout", "-l", e.cfg.Lang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return Result{Language: e.cfg.Lang, Warnings: []string{string(errb)}}, fmt.Errorf("tesseract: %w", err)
	}

	txt := reBoxNoise.ReplaceAllString(string(out), "")
	txt = strings.TrimSpace(txt)

	res := Result{
		Text:       txt,
		Language:   e.cfg.Lang,
		Duration:   time.Since(start),
		Confidence: heuristicConfidence(txt),
	}
	if txt == "" {
		res.Warnings = append(res.Warnings, "ocr produced no text")
	}
	e.logger.Debug("ocr extraction done",
		"path", path,
		"text_bytes", len(txt),
		"confidence", res.Confidence,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
