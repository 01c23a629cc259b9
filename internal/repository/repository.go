package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/masroof-app/receipt-parser/internal/entity"
)

// ListFilter narrows List results. Zero values mean "no constraint".
type ListFilter struct {
	Merchant string // case-insensitive substring match
	From     time.Time
	To       time.Time
	Limit    int
}

// ReceiptRepository persists parsed receipts.
type ReceiptRepository interface {
	Save(ctx context.Context, rec *entity.Receipt) error
	Get(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	List(ctx context.Context, filter ListFilter) ([]*entity.Receipt, error)
}
