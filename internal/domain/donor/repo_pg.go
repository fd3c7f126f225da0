package donor

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `id, user_id, name, blood_group, phone, email, city,
	donations, lives_impacted, ranking, created_at, updated_at`

func scanDonor(row pgx.Row) (*Donor, error) {
	var d Donor
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.BloodGroup, &d.Phone, &d.Email, &d.City,
		&d.Donations, &d.LivesImpacted, &d.Ranking, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &d, err
}

func (p *repoPG) Create(ctx context.Context, d *Donor) error {
	d.ID = uuid.New()
	return p.pool.QueryRow(ctx, `
		INSERT INTO donor (id, user_id, name, blood_group, phone, email, city)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		d.ID, d.UserID, d.Name, d.BloodGroup, d.Phone, d.Email, d.City).
		Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Donor, error) {
	return scanDonor(p.pool.QueryRow(ctx, `SELECT `+cols+` FROM donor WHERE id = $1`, id))
}

func (p *repoPG) GetByUserID(ctx context.Context, userID string) (*Donor, error) {
	return scanDonor(p.pool.QueryRow(ctx, `SELECT `+cols+` FROM donor WHERE user_id = $1`, userID))
}

func (p *repoPG) Update(ctx context.Context, d *Donor) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE donor SET name=$2, blood_group=$3, phone=$4, email=$5, city=$6,
			donations=$7, lives_impacted=$8, ranking=$9, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.BloodGroup, d.Phone, d.Email, d.City,
		d.Donations, d.LivesImpacted, d.Ranking)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM donor WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *repoPG) List(ctx context.Context, limit, offset int) ([]*Donor, int, error) {
	var total int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM donor`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := p.pool.Query(ctx,
		`SELECT `+cols+` FROM donor ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectDonors(rows)
	return items, total, err
}

func (p *repoPG) ListByGroups(ctx context.Context, groups []blood.Group) ([]*Donor, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	gs := make([]string, len(groups))
	for i, g := range groups {
		gs[i] = string(g)
	}
	rows, err := p.pool.Query(ctx,
		`SELECT `+cols+` FROM donor WHERE blood_group = ANY($1) ORDER BY name`, gs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonors(rows)
}

func (p *repoPG) Leaderboard(ctx context.Context, limit int) ([]*Donor, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+cols+` FROM donor ORDER BY donations DESC, lives_impacted DESC, name LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonors(rows)
}

func collectDonors(rows pgx.Rows) ([]*Donor, error) {
	var items []*Donor
	for rows.Next() {
		d, err := scanDonor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
