package charges

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/alovak/pixflow-playground/charges/models"
	"github.com/jackc/pgconn"
	"github.com/lib/pq"
)

var (
	ErrNotFound = fmt.Errorf("not found")
	ErrConflict = fmt.Errorf("conflict")
)

const schema = `
CREATE SCHEMA IF NOT EXISTS pix;
CREATE TABLE IF NOT EXISTS pix.charges (
    charge_id     uuid PRIMARY KEY,
    pix_key       text NOT NULL,
    description   text NOT NULL,
    merchant_name text NOT NULL,
    merchant_city text NOT NULL,
    txid          text NOT NULL,
    amount        numeric(15,2) NOT NULL,
    payload       text NOT NULL,
    created_at    timestamptz NOT NULL,
    expires_at    timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS charges_created_at_idx ON pix.charges (created_at DESC);
`

// Repository stores charges in memory or, when built with NewPGRepository,
// in Postgres.
type Repository struct {
	mu      sync.RWMutex
	charges map[string]*models.Charge

	db *sql.DB
}

func NewRepository() *Repository {
	return &Repository{
		charges: make(map[string]*models.Charge),
	}
}

// NewPGRepository constructs a db-backed repository.
func NewPGRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the charges table when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.PingContext(ctx)
}

func (r *Repository) CreateCharge(ctx context.Context, charge *models.Charge) error {
	if r.db == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, ok := r.charges[charge.ID]; ok {
			return fmt.Errorf("charge %s exists: %w", charge.ID, ErrConflict)
		}
		c := *charge
		r.charges[charge.ID] = &c
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO pix.charges(charge_id, pix_key, description, merchant_name, merchant_city, txid, amount, payload, created_at, expires_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    `, charge.ID, charge.PixKey, charge.Description, charge.MerchantName, charge.MerchantCity, charge.TxID,
		charge.Amount, charge.Payload, charge.CreatedAt, charge.ExpiresAt)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *Repository) GetCharge(ctx context.Context, id string) (*models.Charge, error) {
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		c, ok := r.charges[id]
		if !ok {
			return nil, ErrNotFound
		}
		out := *c
		return &out, nil
	}

	row := r.db.QueryRowContext(ctx, `
        SELECT charge_id, pix_key, description, merchant_name, merchant_city, txid, amount, payload, created_at, expires_at
        FROM pix.charges WHERE charge_id=$1
    `, id)
	c, err := scanCharge(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pe *pq.Error
		// invalid_text_representation: not a uuid, so it cannot exist
		if errors.As(err, &pe) && pe.Code == "22P02" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListCharges returns charges newest first, at most limit of them when limit > 0.
func (r *Repository) ListCharges(ctx context.Context, limit int) ([]*models.Charge, error) {
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		out := make([]*models.Charge, 0, len(r.charges))
		for _, c := range r.charges {
			cc := *c
			out = append(out, &cc)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return out, nil
	}

	query := `
        SELECT charge_id, pix_key, description, merchant_name, merchant_city, txid, amount, payload, created_at, expires_at
        FROM pix.charges ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Charge
	for rows.Next() {
		c, err := scanCharge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCharge(s scanner) (*models.Charge, error) {
	var c models.Charge
	err := s.Scan(&c.ID, &c.PixKey, &c.Description, &c.MerchantName, &c.MerchantCity, &c.TxID,
		&c.Amount, &c.Payload, &c.CreatedAt, &c.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pe *pq.Error
	if errors.As(err, &pe) && pe.Code == "23505" {
		return true
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		return true
	}
	return false
}
