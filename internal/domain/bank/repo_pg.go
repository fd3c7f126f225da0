package bank

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `id, user_id, name, city, address, phone, email, created_at, updated_at`

func scanBank(row pgx.Row) (*Bank, error) {
	var b Bank
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.City, &b.Address, &b.Phone, &b.Email,
		&b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &b, err
}

func (p *repoPG) Create(ctx context.Context, b *Bank) error {
	b.ID = uuid.New()
	return p.pool.QueryRow(ctx, `
		INSERT INTO blood_bank (id, user_id, name, city, address, phone, email)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		b.ID, b.UserID, b.Name, b.City, b.Address, b.Phone, b.Email).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Bank, error) {
	return scanBank(p.pool.QueryRow(ctx, `SELECT `+cols+` FROM blood_bank WHERE id = $1`, id))
}

func (p *repoPG) GetByUserID(ctx context.Context, userID string) (*Bank, error) {
	return scanBank(p.pool.QueryRow(ctx, `SELECT `+cols+` FROM blood_bank WHERE user_id = $1`, userID))
}

func (p *repoPG) Update(ctx context.Context, b *Bank) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE blood_bank SET name=$2, city=$3, address=$4, phone=$5, email=$6, updated_at=NOW()
		WHERE id = $1`,
		b.ID, b.Name, b.City, b.Address, b.Phone, b.Email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM blood_bank WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *repoPG) List(ctx context.Context, city string, limit, offset int) ([]*Bank, int, error) {
	where := ""
	args := []interface{}{}
	if city != "" {
		args = append(args, city)
		where = ` WHERE city = $1`
	}

	var total int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blood_bank`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	q := `SELECT ` + cols + ` FROM blood_bank` + where + ` ORDER BY name`
	if city != "" {
		q += ` LIMIT $2 OFFSET $3`
	} else {
		q += ` LIMIT $1 OFFSET $2`
	}
	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Bank
	for rows.Next() {
		b, err := scanBank(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, rows.Err()
}

func (p *repoPG) SetStock(ctx context.Context, bankID uuid.UUID, group blood.Group, units int) (*StockEntry, error) {
	e := &StockEntry{BankID: bankID, Group: group, Units: units}
	err := p.pool.QueryRow(ctx, `
		INSERT INTO bank_stock (bank_id, blood_group, units)
		VALUES ($1,$2,$3)
		ON CONFLICT (bank_id, blood_group)
		DO UPDATE SET units = EXCLUDED.units, updated_at = NOW()
		RETURNING updated_at`,
		bankID, group, units).Scan(&e.UpdatedAt)
	return e, err
}

func (p *repoPG) AdjustStock(ctx context.Context, bankID uuid.UUID, group blood.Group, delta int) (*StockEntry, error) {
	e := &StockEntry{BankID: bankID, Group: group}
	// The WHERE guard keeps concurrent withdrawals from driving the count
	// negative; a filtered-out upsert returns no row.
	err := p.pool.QueryRow(ctx, `
		INSERT INTO bank_stock (bank_id, blood_group, units)
		VALUES ($1,$2,$3)
		ON CONFLICT (bank_id, blood_group)
		DO UPDATE SET units = bank_stock.units + $3, updated_at = NOW()
		WHERE bank_stock.units + $3 >= 0
		RETURNING units, updated_at`,
		bankID, group, delta).Scan(&e.Units, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInsufficientStock
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23514" {
		// CHECK (units >= 0) rejects a withdrawal with no existing row.
		return nil, ErrInsufficientStock
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (p *repoPG) ListStock(ctx context.Context, bankID uuid.UUID) ([]*StockEntry, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT bank_id, blood_group, units, updated_at
		FROM bank_stock WHERE bank_id = $1 ORDER BY blood_group`, bankID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*StockEntry
	for rows.Next() {
		var e StockEntry
		if err := rows.Scan(&e.BankID, &e.Group, &e.Units, &e.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &e)
	}
	return items, rows.Err()
}
