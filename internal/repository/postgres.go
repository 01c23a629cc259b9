package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/masroof-app/receipt-parser/internal/common"
	"github.com/masroof-app/receipt-parser/internal/entity"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS receipts (
	id            UUID PRIMARY KEY,
	merchant_name TEXT NOT NULL DEFAULT '',
	tx_date       TEXT NOT NULL DEFAULT '',
	total         TEXT NOT NULL DEFAULT '',
	currency_code TEXT NOT NULL DEFAULT 'SAR',
	tax           TEXT NOT NULL DEFAULT '',
	subtotal      TEXT NOT NULL DEFAULT '',
	item_count    INTEGER NOT NULL DEFAULT 0,
	confidence    DOUBLE PRECISION NOT NULL DEFAULT 0,
	raw_text      TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
)`

// OpenPostgres creates a pgx pool and ensures the schema exists.
func OpenPostgres(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	logger.Info("connecting to database", "dsn", cfg.DSN)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database config", "error", err)
		return nil, err
	}

	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "receipt-parser"

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	logger.Info("successfully connected to database")
	return pool, nil
}

// HealthCheck pings the pool to catch DSN issues early.
func HealthCheck(ctx context.Context, pool *pgxpool.Pool, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return pool.Ping(ctx)
}

type postgresRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgresRepository(pool *pgxpool.Pool, logger *slog.Logger) ReceiptRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &postgresRepository{pool: pool, logger: logger}
}

func (r *postgresRepository) Save(ctx context.Context, rec *entity.Receipt) error {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO receipts
			(id, merchant_name, tx_date, total, currency_code, tax, subtotal,
			 item_count, confidence, raw_text, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			merchant_name = EXCLUDED.merchant_name,
			tx_date       = EXCLUDED.tx_date,
			total         = EXCLUDED.total,
			currency_code = EXCLUDED.currency_code,
			tax           = EXCLUDED.tax,
			subtotal      = EXCLUDED.subtotal,
			item_count    = EXCLUDED.item_count,
			confidence    = EXCLUDED.confidence,
			raw_text      = EXCLUDED.raw_text,
			updated_at    = EXCLUDED.updated_at`,
		rec.ID, rec.MerchantName, rec.TxDate, rec.Total, rec.CurrencyCode,
		rec.Tax, rec.Subtotal, rec.ItemCount, rec.Confidence, rec.RawText,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to save receipt", "receipt_id", rec.ID, "error", err)
		return common.WrapError(err, "save receipt")
	}
	return nil
}

func (r *postgresRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, merchant_name, tx_date, total, currency_code, tax, subtotal,
		       item_count, confidence, raw_text, created_at, updated_at
		FROM receipts WHERE id = $1`, id)

	var rec entity.Receipt
	err := row.Scan(&rec.ID, &rec.MerchantName, &rec.TxDate, &rec.Total,
		&rec.CurrencyCode, &rec.Tax, &rec.Subtotal, &rec.ItemCount,
		&rec.Confidence, &rec.RawText, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("receipt %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapError(err, "get receipt")
	}
	return &rec, nil
}

func (r *postgresRepository) List(ctx context.Context, filter ListFilter) ([]*entity.Receipt, error) {
	q := `
		SELECT id, merchant_name, tx_date, total, currency_code, tax, subtotal,
		       item_count, confidence, raw_text, created_at, updated_at
		FROM receipts`
	var conds []string
	args := []any{}
	if filter.Merchant != "" {
		args = append(args, filter.Merchant)
		conds = append(conds, fmt.Sprintf(`merchant_name ILIKE '%%' || $%d || '%%'`, len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From.UTC())
		conds = append(conds, fmt.Sprintf(`created_at >= $%d`, len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To.UTC())
		conds = append(conds, fmt.Sprintf(`created_at < $%d`, len(args)))
	}
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	q += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		q += fmt.Sprintf(` LIMIT %d`, filter.Limit)
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("failed to list receipts", "error", err)
		return nil, common.WrapError(err, "list receipts")
	}
	defer rows.Close()

	var out []*entity.Receipt
	for rows.Next() {
		var rec entity.Receipt
		if err := rows.Scan(&rec.ID, &rec.MerchantName, &rec.TxDate, &rec.Total,
			&rec.CurrencyCode, &rec.Tax, &rec.Subtotal, &rec.ItemCount,
			&rec.Confidence, &rec.RawText, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, common.WrapError(err, "scan receipt")
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
