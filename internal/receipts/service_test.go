package receipts

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/masroof-app/receipt-parser/internal/extract"
	"github.com/masroof-app/receipt-parser/internal/parse"
	"github.com/masroof-app/receipt-parser/internal/repository"
)

const sampleText = "LULU HYPERMARKET\nDate: 15/01/2024\nMilk 8.50\nBread 3.25\nSubtotal: 11.75\nVAT (15%): 1.76\nTotal: 13.51 SAR"

type fakeRecognizer struct {
	text string
	err  error
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ string) (extract.TextResult, error) {
	return extract.TextResult{Text: f.text, Language: "ara+eng", Confidence: 0.9}, f.err
}

func newTestService(t *testing.T, recognizer extract.TextRecognizer) *Service {
	t.Helper()
	db, err := repository.OpenSQLite(context.Background(), "", slog.Default())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := repository.NewSQLiteRepository(db, nil)
	parser := parse.NewParser(parse.Config{}, nil, nil)
	return NewService(parser, recognizer, repo, 15.0, nil)
}

func TestParseTextStoresReceipt(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	res, err := svc.ParseText(ctx, sampleText)
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	if res.Receipt.MerchantName != "LULU HYPERMARKET" {
		t.Errorf("MerchantName = %q", res.Receipt.MerchantName)
	}
	if res.Receipt.Total != "13.51" {
		t.Errorf("Total = %q, want 13.51", res.Receipt.Total)
	}
	if res.Confidence < 0.8 {
		t.Errorf("Confidence = %v, want >= 0.8", res.Confidence)
	}
	if res.Validation == nil || !res.Validation.Valid {
		t.Errorf("Validation = %+v, want valid", res.Validation)
	}

	stored, err := svc.Get(ctx, res.ID)
	if err != nil {
		t.Fatalf("Get stored receipt: %v", err)
	}
	if stored.Total != "13.51" || stored.ItemCount != 2 {
		t.Errorf("stored = %+v", stored)
	}
}

func TestParseTextNoiseStillSucceeds(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.ParseText(context.Background(), "@#$%\n12345")
	if err != nil {
		t.Fatalf("ParseText on noise: %v", err)
	}
	if res.Confidence > 0.2 {
		t.Errorf("Confidence = %v, want <= 0.2 for noise", res.Confidence)
	}
	if !res.Validation.NeedsReview {
		t.Error("noise parse did not flag review")
	}
}

func TestScanFile(t *testing.T) {
	svc := newTestService(t, &fakeRecognizer{text: sampleText})

	res, err := svc.ScanFile(context.Background(), "receipt.jpg")
	if err != nil {
		t.Fatalf("ScanFile: %v", err)
	}
	if res.Receipt.MerchantName != "LULU HYPERMARKET" {
		t.Errorf("MerchantName = %q", res.Receipt.MerchantName)
	}
}

func TestScanFileOCRError(t *testing.T) {
	svc := newTestService(t, &fakeRecognizer{err: errors.New("tesseract missing")})
	if _, err := svc.ScanFile(context.Background(), "receipt.jpg"); err == nil {
		t.Fatal("expected error when OCR fails")
	}
}

func TestScanFileWithoutRecognizer(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.ScanFile(context.Background(), "receipt.jpg"); err == nil {
		t.Fatal("expected error without a recognizer")
	}
}

func TestListStoredReceipts(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.ParseText(ctx, sampleText); err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	if _, err := svc.ParseText(ctx, "بندة\nحليب ٦٫٠٠\nالإجمالي: ٦٫٠٠"); err != nil {
		t.Fatalf("ParseText: %v", err)
	}

	all, err := svc.List(ctx, repository.ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List returned %d rows, want 2", len(all))
	}

	lulu, err := svc.List(ctx, repository.ListFilter{Merchant: "lulu"})
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(lulu) != 1 || lulu[0].MerchantName != "LULU HYPERMARKET" {
		t.Errorf("filtered = %+v", lulu)
	}
}
