package hospital

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `id, user_id, name, city, address, phone, email, created_at, updated_at`

func scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.City, &h.Address, &h.Phone, &h.Email,
		&h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &h, err
}

func (p *repoPG) Create(ctx context.Context, h *Hospital) error {
	h.ID = uuid.New()
	return p.pool.QueryRow(ctx, `
		INSERT INTO hospital (id, user_id, name, city, address, phone, email)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		h.ID, h.UserID, h.Name, h.City, h.Address, h.Phone, h.Email).
		Scan(&h.CreatedAt, &h.UpdatedAt)
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return scanHospital(p.pool.QueryRow(ctx, `SELECT `+cols+` FROM hospital WHERE id = $1`, id))
}

func (p *repoPG) GetByUserID(ctx context.Context, userID string) (*Hospital, error) {
	return scanHospital(p.pool.QueryRow(ctx, `SELECT `+cols+` FROM hospital WHERE user_id = $1`, userID))
}

func (p *repoPG) Update(ctx context.Context, h *Hospital) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE hospital SET name=$2, city=$3, address=$4, phone=$5, email=$6, updated_at=NOW()
		WHERE id = $1`,
		h.ID, h.Name, h.City, h.Address, h.Phone, h.Email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM hospital WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *repoPG) List(ctx context.Context, city string, limit, offset int) ([]*Hospital, int, error) {
	where := ""
	args := []interface{}{}
	if city != "" {
		args = append(args, city)
		where = ` WHERE city = $1`
	}

	var total int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM hospital`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	q := `SELECT ` + cols + ` FROM hospital` + where + ` ORDER BY name`
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

	var items []*Hospital
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, h)
	}
	return items, total, rows.Err()
}
