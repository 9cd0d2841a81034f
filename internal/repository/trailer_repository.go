package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/trailer-admin/internal/domain"
)

// TrailerFilter narrows fleet listings.
type TrailerFilter struct {
	Search string
	Status *domain.TrailerStatus
	Limit  int
	Offset int
}

// TrailerRepository persists trailers.
type TrailerRepository interface {
	Create(ctx context.Context, trailer *domain.Trailer) error
	Update(ctx context.Context, trailer *domain.Trailer) error
	GetByID(ctx context.Context, id string) (*domain.Trailer, error)
	List(ctx context.Context, filter TrailerFilter) ([]domain.Trailer, error)
	Delete(ctx context.Context, id string) error
}

type trailerRepository struct {
	pool *pgxpool.Pool
}

// NewTrailerRepository instantiates repository.
func NewTrailerRepository(pool *pgxpool.Pool) TrailerRepository {
	return &trailerRepository{pool: pool}
}

const trailerColumns = `id, trailer_no, description, vin_no, license_plate, registration_expiry, old_license_plate,
               value, rent, advance, status, leased_to, lease_start, lease_end, created_at, updated_at`

func (r *trailerRepository) Create(ctx context.Context, t *domain.Trailer) error {
	const query = `
        INSERT INTO trailers (trailer_no, description, vin_no, license_plate, registration_expiry, old_license_plate,
            value, rent, advance, status, leased_to, lease_start, lease_end)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		t.TrailerNo,
		t.Description,
		t.VinNo,
		t.LicensePlate,
		t.RegistrationExpiry,
		t.OldLicensePlate,
		t.Value,
		t.Rent,
		t.Advance,
		t.Status,
		t.LeasedTo,
		t.LeaseStart,
		t.LeaseEnd,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *trailerRepository) Update(ctx context.Context, t *domain.Trailer) error {
	const query = `
        UPDATE trailers SET trailer_no=$1, description=$2, vin_no=$3, license_plate=$4, registration_expiry=$5,
            old_license_plate=$6, value=$7, rent=$8, advance=$9, status=$10, leased_to=$11, lease_start=$12,
            lease_end=$13, updated_at=NOW()
        WHERE id=$14
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		t.TrailerNo,
		t.Description,
		t.VinNo,
		t.LicensePlate,
		t.RegistrationExpiry,
		t.OldLicensePlate,
		t.Value,
		t.Rent,
		t.Advance,
		t.Status,
		t.LeasedTo,
		t.LeaseStart,
		t.LeaseEnd,
		t.ID,
	).Scan(&t.UpdatedAt)
}

func (r *trailerRepository) GetByID(ctx context.Context, id string) (*domain.Trailer, error) {
	query := `SELECT ` + trailerColumns + ` FROM trailers WHERE id=$1`
	return scanTrailer(r.pool.QueryRow(ctx, query, id))
}

func (r *trailerRepository) List(ctx context.Context, filter TrailerFilter) ([]domain.Trailer, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if strings.TrimSpace(filter.Search) != "" {
		args = append(args, searchPattern(filter.Search))
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(trailer_no) LIKE %s OR LOWER(vin_no) LIKE %s OR LOWER(license_plate) LIKE %s OR LOWER(description) LIKE %s)",
			placeholder, placeholder, placeholder, placeholder))
	}

	limit, offset := normalizePage(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM trailers WHERE %s ORDER BY trailer_no ASC LIMIT %d OFFSET %d`,
		trailerColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Trailer
	for rows.Next() {
		trailer, err := scanTrailer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *trailer)
	}
	return result, rows.Err()
}

func (r *trailerRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM trailers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTrailer(row pgx.Row) (*domain.Trailer, error) {
	var t domain.Trailer
	if err := row.Scan(
		&t.ID,
		&t.TrailerNo,
		&t.Description,
		&t.VinNo,
		&t.LicensePlate,
		&t.RegistrationExpiry,
		&t.OldLicensePlate,
		&t.Value,
		&t.Rent,
		&t.Advance,
		&t.Status,
		&t.LeasedTo,
		&t.LeaseStart,
		&t.LeaseEnd,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}
