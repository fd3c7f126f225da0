package sos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `id, patient_name, blood_group, units, urgency, notes, status,
	hospital_id, hospital_name, hospital_city,
	donor_availability, donor_delivery_choice, donor_address,
	donor_phone, donor_email, donor_note, responded_by, responded_at,
	created_at, updated_at`

func scanRequest(row pgx.Row) (*SosRequest, error) {
	var r SosRequest
	err := row.Scan(&r.ID, &r.PatientName, &r.BloodGroup, &r.Units, &r.Urgency, &r.Notes, &r.Status,
		&r.HospitalID, &r.HospitalName, &r.HospitalCity,
		&r.DonorAvailability, &r.DonorDeliveryChoice, &r.DonorAddress,
		&r.DonorPhone, &r.DonorEmail, &r.DonorNote, &r.RespondedBy, &r.RespondedAt,
		&r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &r, err
}

func (p *repoPG) Create(ctx context.Context, r *SosRequest) error {
	r.ID = uuid.New()
	return p.pool.QueryRow(ctx, `
		INSERT INTO sos_request (id, patient_name, blood_group, units, urgency, notes, status,
			hospital_id, hospital_name, hospital_city)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		r.ID, r.PatientName, r.BloodGroup, r.Units, r.Urgency, r.Notes, r.Status,
		r.HospitalID, r.HospitalName, r.HospitalCity).
		Scan(&r.CreatedAt, &r.UpdatedAt)
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*SosRequest, error) {
	return scanRequest(p.pool.QueryRow(ctx, `SELECT `+cols+` FROM sos_request WHERE id = $1`, id))
}

func (p *repoPG) Update(ctx context.Context, r *SosRequest) error {
	// Hospital-origin fields are immutable after creation; only the status
	// and donor-origin fields are written.
	tag, err := p.pool.Exec(ctx, `
		UPDATE sos_request SET status=$2, donor_availability=$3, donor_delivery_choice=$4,
			donor_address=$5, donor_phone=$6, donor_email=$7, donor_note=$8,
			responded_by=$9, responded_at=$10, updated_at=NOW()
		WHERE id = $1`,
		r.ID, r.Status, r.DonorAvailability, r.DonorDeliveryChoice,
		r.DonorAddress, r.DonorPhone, r.DonorEmail, r.DonorNote,
		r.RespondedBy, r.RespondedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*SosRequest, int, error) {
	where := ""
	args := []interface{}{}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.HospitalID != "" {
		args = append(args, f.HospitalID)
		where += fmt.Sprintf(" AND hospital_id = $%d", len(args))
	}

	var total int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sos_request WHERE 1=1`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := p.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM sos_request WHERE 1=1%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			cols, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectRequests(rows, total)
}

func (p *repoPG) ListPendingByGroups(ctx context.Context, groups []blood.Group, limit, offset int) ([]*SosRequest, int, error) {
	if len(groups) == 0 {
		return nil, 0, nil
	}
	gs := make([]string, len(groups))
	for i, g := range groups {
		gs[i] = string(g)
	}

	var total int
	if err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM sos_request WHERE status = $1 AND blood_group = ANY($2)`,
		StatusPending, gs).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := p.pool.Query(ctx,
		`SELECT `+cols+` FROM sos_request WHERE status = $1 AND blood_group = ANY($2)
		 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		StatusPending, gs, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectRequests(rows, total)
}

func collectRequests(rows pgx.Rows, total int) ([]*SosRequest, int, error) {
	var items []*SosRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, r)
	}
	return items, total, rows.Err()
}
