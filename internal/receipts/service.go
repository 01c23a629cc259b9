package receipts

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/masroof-app/receipt-parser/internal/common"
	"github.com/masroof-app/receipt-parser/internal/entity"
	"github.com/masroof-app/receipt-parser/internal/extract"
	"github.com/masroof-app/receipt-parser/internal/parse"
	"github.com/masroof-app/receipt-parser/internal/repository"
)

// Service wires OCR, parsing, cross-checking and persistence into the two
// operations the API exposes: parse raw text, or scan an image file.
type Service struct {
	parser     *parse.Parser
	checker    *CrossChecker
	recognizer extract.TextRecognizer
	repo       repository.ReceiptRepository
	vatRate    float64
	logger     *slog.Logger
}

func NewService(parser *parse.Parser, recognizer extract.TextRecognizer,
	repo repository.ReceiptRepository, vatRate float64, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if vatRate <= 0 {
		vatRate = 15.0
	}
	return &Service{
		parser:     parser,
		checker:    NewCrossChecker(),
		recognizer: recognizer,
		repo:       repo,
		vatRate:    vatRate,
		logger:     logger,
	}
}

// ParseResult is the full outcome of one parse: the structured data, its
// completeness score, the arithmetic cross-check, and the stored row id.
type ParseResult struct {
	ID         uuid.UUID          `json:"id,omitempty"`
	Receipt    entity.ReceiptData `json:"receipt"`
	Confidence float64            `json:"confidence"`
	Validation *ValidationResult  `json:"validation"`
}

// ParseText parses one block of receipt text and, when a repository is
// configured, stores the summary row. Parsing itself never fails; the only
// errors are storage ones.
func (s *Service) ParseText(ctx context.Context, text string) (*ParseResult, error) {
	data := s.parser.ParseReceiptText(text)
	confidence := s.parser.ParsingConfidence(data)
	validation := s.checker.Check(data, s.vatRate)

	s.logger.Info("receipt parsed",
		"merchant", data.MerchantName,
		"total", data.Total,
		"items", len(data.Items),
		"confidence", confidence,
		"valid", validation.Valid,
	)

	result := &ParseResult{
		Receipt:    data,
		Confidence: confidence,
		Validation: validation,
	}
	if s.repo == nil {
		return result, nil
	}

	rec := &entity.Receipt{
		ID:           uuid.New(),
		MerchantName: data.MerchantName,
		TxDate:       data.Date,
		Total:        data.Total,
		CurrencyCode: data.Currency,
		Tax:          data.Tax,
		Subtotal:     data.Subtotal,
		ItemCount:    len(data.Items),
		Confidence:   confidence,
		RawText:      data.RawText,
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		s.logger.Error("failed to store receipt", "error", err)
		return nil, common.NewAppError("STORE_FAILED", "could not store parsed receipt", err)
	}
	result.ID = rec.ID
	return result, nil
}

// ScanFile runs OCR on an image file and parses the recognized text.
func (s *Service) ScanFile(ctx context.Context, path string) (*ParseResult, error) {
	if s.recognizer == nil {
		return nil, common.NewAppError("OCR_UNAVAILABLE", "no text recognizer configured", common.ErrInvalidInput)
	}
	if strings.TrimSpace(path) == "" {
		return nil, common.NewAppError("BAD_PATH", "file path is required", common.ErrInvalidInput)
	}

	txt, err := s.recognizer.Recognize(ctx, path)
	if err != nil {
		s.logger.Error("ocr failed", "path", path, "error", err)
		return nil, common.NewAppError("OCR_FAILED", "text recognition failed", err)
	}
	s.logger.Debug("ocr complete",
		"path", path,
		"text_bytes", len(txt.Text),
		"ocr_confidence", txt.Confidence,
	)
	return s.ParseText(ctx, txt.Text)
}

// Get returns one stored receipt.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	if s.repo == nil {
		return nil, common.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// List returns stored receipts, newest first.
func (s *Service) List(ctx context.Context, filter repository.ListFilter) ([]*entity.Receipt, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.List(ctx, filter)
}
