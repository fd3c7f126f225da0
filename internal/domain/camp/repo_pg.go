package camp

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `id, name, organizer_id, city, address, description, starts_at, ends_at, created_at, updated_at`

func scanCamp(row pgx.Row) (*Camp, error) {
	var c Camp
	err := row.Scan(&c.ID, &c.Name, &c.OrganizerID, &c.City, &c.Address, &c.Description,
		&c.StartsAt, &c.EndsAt, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &c, err
}

func (p *repoPG) Create(ctx context.Context, c *Camp) error {
	c.ID = uuid.New()
	return p.pool.QueryRow(ctx, `
		INSERT INTO blood_camp (id, name, organizer_id, city, address, description, starts_at, ends_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.OrganizerID, c.City, c.Address, c.Description, c.StartsAt, c.EndsAt).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Camp, error) {
	return scanCamp(p.pool.QueryRow(ctx, `SELECT `+cols+` FROM blood_camp WHERE id = $1`, id))
}

func (p *repoPG) Update(ctx context.Context, c *Camp) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE blood_camp SET name=$2, city=$3, address=$4, description=$5,
			starts_at=$6, ends_at=$7, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.Name, c.City, c.Address, c.Description, c.StartsAt, c.EndsAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM blood_camp WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *repoPG) List(ctx context.Context, city string, limit, offset int) ([]*Camp, int, error) {
	where := ""
	args := []interface{}{}
	if city != "" {
		args = append(args, city)
		where = ` WHERE city = $1`
	}

	var total int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blood_camp`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	q := `SELECT ` + cols + ` FROM blood_camp` + where + ` ORDER BY starts_at`
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

	var items []*Camp
	for rows.Next() {
		c, err := scanCamp(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

func (p *repoPG) AddRegistration(ctx context.Context, r *Registration) error {
	r.ID = uuid.New()
	err := p.pool.QueryRow(ctx, `
		INSERT INTO camp_registration (id, camp_id, donor_user_id)
		VALUES ($1,$2,$3)
		RETURNING created_at`,
		r.ID, r.CampID, r.DonorUserID).Scan(&r.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 unique_violation on (camp_id, donor_user_id),
		// 23503 foreign_key_violation when the camp is gone.
		switch pgErr.Code {
		case "23505":
			return ErrAlreadyRegistered
		case "23503":
			return ErrNotFound
		}
	}
	return err
}

func (p *repoPG) ListRegistrations(ctx context.Context, campID uuid.UUID) ([]*Registration, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, camp_id, donor_user_id, created_at
		FROM camp_registration WHERE camp_id = $1 ORDER BY created_at`, campID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Registration
	for rows.Next() {
		var r Registration
		if err := rows.Scan(&r.ID, &r.CampID, &r.DonorUserID, &r.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &r)
	}
	return items, rows.Err()
}
