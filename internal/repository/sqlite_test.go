package repository

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/masroof-app/receipt-parser/internal/common"
	"github.com/masroof-app/receipt-parser/internal/entity"
)

func newTestRepo(t *testing.T) ReceiptRepository {
	t.Helper()
	db, err := OpenSQLite(context.Background(), "", slog.Default())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db, nil)
}

func sampleReceipt() *entity.Receipt {
	return &entity.Receipt{
		ID:           uuid.New(),
		MerchantName: "LULU HYPERMARKET",
		TxDate:       "15/01/2024",
		Total:        "28.18",
		CurrencyCode: "SAR",
		Tax:          "3.68",
		Subtotal:     "24.50",
		ItemCount:    3,
		Confidence:   0.95,
		RawText:      "LULU HYPERMARKET\nTotal: 28.18 SAR",
	}
}

func TestSQLiteSaveAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := sampleReceipt()
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Fatal("Save did not stamp timestamps")
	}

	got, err := repo.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.MerchantName != rec.MerchantName || got.Total != rec.Total ||
		got.CurrencyCode != rec.CurrencyCode || got.ItemCount != rec.ItemCount {
		t.Errorf("Get = %+v, want %+v", got, rec)
	}
	if got.Confidence != rec.Confidence {
		t.Errorf("Confidence = %v, want %v", got.Confidence, rec.Confidence)
	}
}

func TestSQLiteSaveUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := sampleReceipt()
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	rec.Total = "30.00"
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("Save again: %v", err)
	}

	got, err := repo.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Total != "30.00" {
		t.Errorf("Total after upsert = %q, want 30.00", got.Total)
	}

	all, err := repo.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("List returned %d rows, want 1", len(all))
	}
}

func TestSQLiteGetNotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Get(context.Background(), uuid.New())
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Get of missing id = %v, want ErrNotFound", err)
	}
}

func TestSQLiteListFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	lulu := sampleReceipt()
	panda := sampleReceipt()
	panda.ID = uuid.New()
	panda.MerchantName = "PANDA"
	for _, rec := range []*entity.Receipt{lulu, panda} {
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := repo.List(ctx, ListFilter{Merchant: "lulu"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].MerchantName != "LULU HYPERMARKET" {
		t.Errorf("filtered list = %+v, want only LULU HYPERMARKET", got)
	}

	limited, err := repo.List(ctx, ListFilter{Limit: 1})
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited list returned %d rows, want 1", len(limited))
	}
}

func TestSQLiteListDateWindow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	old := sampleReceipt()
	old.MerchantName = "OLD STORE"
	old.CreatedAt = now.Add(-48 * time.Hour)
	fresh := sampleReceipt()
	fresh.ID = uuid.New()
	fresh.MerchantName = "FRESH STORE"
	for _, rec := range []*entity.Receipt{old, fresh} {
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	recent, err := repo.List(ctx, ListFilter{From: now.Add(-time.Hour)})
	if err != nil {
		t.Fatalf("List from: %v", err)
	}
	if len(recent) != 1 || recent[0].MerchantName != "FRESH STORE" {
		t.Errorf("windowed list = %+v, want only FRESH STORE", recent)
	}

	older, err := repo.List(ctx, ListFilter{To: now.Add(-24 * time.Hour)})
	if err != nil {
		t.Fatalf("List to: %v", err)
	}
	if len(older) != 1 || older[0].MerchantName != "OLD STORE" {
		t.Errorf("windowed list = %+v, want only OLD STORE", older)
	}
}
