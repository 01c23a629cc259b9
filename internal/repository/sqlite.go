package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/masroof-app/receipt-parser/internal/common"
	"github.com/masroof-app/receipt-parser/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS receipts (
	id            TEXT PRIMARY KEY,
	merchant_name TEXT NOT NULL DEFAULT '',
	tx_date       TEXT NOT NULL DEFAULT '',
	total         TEXT NOT NULL DEFAULT '',
	currency_code TEXT NOT NULL DEFAULT 'SAR',
	tax           TEXT NOT NULL DEFAULT '',
	subtotal      TEXT NOT NULL DEFAULT '',
	item_count    INTEGER NOT NULL DEFAULT 0,
	confidence    REAL NOT NULL DEFAULT 0,
	raw_text      TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMP NOT NULL,
	updated_at    TIMESTAMP NOT NULL
)`

// OpenSQLite opens (or creates) a sqlite database and ensures the schema.
// An empty path means in-memory, used by the CLI and tests.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	if path == "" {
		path = ":memory:"
	}
	logger.Info("opening sqlite database", "path", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite is single-writer; one connection also keeps :memory: coherent
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

type sqliteRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSQLiteRepository(db *sql.DB, logger *slog.Logger) ReceiptRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &sqliteRepository{db: db, logger: logger}
}

func (r *sqliteRepository) Save(ctx context.Context, rec *entity.Receipt) error {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO receipts
			(id, merchant_name, tx_date, total, currency_code, tax, subtotal,
			 item_count, confidence, raw_text, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT (id) DO UPDATE SET
			merchant_name = excluded.merchant_name,
			tx_date       = excluded.tx_date,
			total         = excluded.total,
			currency_code = excluded.currency_code,
			tax           = excluded.tax,
			subtotal      = excluded.subtotal,
			item_count    = excluded.item_count,
			confidence    = excluded.confidence,
			raw_text      = excluded.raw_text,
			updated_at    = excluded.updated_at`,
		rec.ID.String(), rec.MerchantName, rec.TxDate, rec.Total, rec.CurrencyCode,
		rec.Tax, rec.Subtotal, rec.ItemCount, rec.Confidence, rec.RawText,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to save receipt", "receipt_id", rec.ID, "error", err)
		return common.WrapError(err, "save receipt")
	}
	return nil
}

func (r *sqliteRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, merchant_name, tx_date, total, currency_code, tax, subtotal,
		       item_count, confidence, raw_text, created_at, updated_at
		FROM receipts WHERE id = ?`, id.String())

	rec, err := scanSQLiteReceipt(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("receipt %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapError(err, "get receipt")
	}
	return rec, nil
}

func (r *sqliteRepository) List(ctx context.Context, filter ListFilter) ([]*entity.Receipt, error) {
	q := `
		SELECT id, merchant_name, tx_date, total, currency_code, tax, subtotal,
		       item_count, confidence, raw_text, created_at, updated_at
		FROM receipts`
	var conds []string
	args := []any{}
	if filter.Merchant != "" {
		conds = append(conds, `merchant_name LIKE '%' || ? || '%' COLLATE NOCASE`)
		args = append(args, filter.Merchant)
	}
	if !filter.From.IsZero() {
		conds = append(conds, `created_at >= ?`)
		args = append(args, filter.From.UTC())
	}
	if !filter.To.IsZero() {
		conds = append(conds, `created_at < ?`)
		args = append(args, filter.To.UTC())
	}
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	q += ` ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		q += fmt.Sprintf(` LIMIT %d`, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		r.logger.Error("failed to list receipts", "error", err)
		return nil, common.WrapError(err, "list receipts")
	}
	defer rows.Close()

	var out []*entity.Receipt
	for rows.Next() {
		rec, err := scanSQLiteReceipt(rows.Scan)
		if err != nil {
			return nil, common.WrapError(err, "scan receipt")
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanSQLiteReceipt(scan func(dest ...any) error) (*entity.Receipt, error) {
	var rec entity.Receipt
	var id string
	err := scan(&id, &rec.MerchantName, &rec.TxDate, &rec.Total,
		&rec.CurrencyCode, &rec.Tax, &rec.Subtotal, &rec.ItemCount,
		&rec.Confidence, &rec.RawText, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("stored receipt id %q: %w", id, err)
	}
	rec.ID = parsed
	return &rec, nil
}
