package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/trailer-admin/internal/domain"
)

// StaffRepository handles persistence for staff members.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffMember) error
	Update(ctx context.Context, staff *domain.StaffMember) error
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
	GetByUserID(ctx context.Context, userID string) (*domain.StaffMember, error)
	List(ctx context.Context, filter StaffFilter) ([]domain.StaffMember, error)
	Delete(ctx context.Context, id string) error
	SetActiveByUser(ctx context.Context, userID string, active bool) error
}

// StaffFilter defines query params for staff listing.
type StaffFilter struct {
	Search     string
	Department *domain.Department
	Active     *bool
	Limit      int
	Offset     int
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, name, role_label, department, contact, active_flag, user_id, created_at, updated_at`

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        INSERT INTO staff_members (name, role_label, department, contact, active_flag, user_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		staff.Name,
		staff.RoleLabel,
		staff.Department,
		staff.Contact,
		staff.Active,
		staff.UserID,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        UPDATE staff_members
        SET name=$1, role_label=$2, department=$3, contact=$4, active_flag=$5, user_id=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`

	return r.pool.QueryRow(ctx, query,
		staff.Name,
		staff.RoleLabel,
		staff.Department,
		staff.Contact,
		staff.Active,
		staff.UserID,
		staff.ID,
	).Scan(&staff.UpdatedAt)
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_members WHERE id=$1`
	return scanStaff(r.pool.QueryRow(ctx, query, id))
}

func (r *staffRepository) GetByUserID(ctx context.Context, userID string) (*domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_members WHERE user_id=$1 ORDER BY created_at LIMIT 1`
	return scanStaff(r.pool.QueryRow(ctx, query, userID))
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter) ([]domain.StaffMember, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if strings.TrimSpace(filter.Search) != "" {
		args = append(args, searchPattern(filter.Search))
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(role_label) LIKE %s OR LOWER(contact) LIKE %s)",
			placeholder, placeholder, placeholder))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active_flag=$%d", len(args)))
	}

	limit, offset := normalizePage(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM staff_members WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		staffColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffMember
	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *staff)
	}
	return result, rows.Err()
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM staff_members WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetActiveByUser toggles every staff record linked to the user. Users without a staff
// record are not an error.
func (r *staffRepository) SetActiveByUser(ctx context.Context, userID string, active bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE staff_members SET active_flag=$1, updated_at=NOW() WHERE user_id=$2`, active, userID)
	return err
}

func scanStaff(row pgx.Row) (*domain.StaffMember, error) {
	var staff domain.StaffMember
	if err := row.Scan(
		&staff.ID,
		&staff.Name,
		&staff.RoleLabel,
		&staff.Department,
		&staff.Contact,
		&staff.Active,
		&staff.UserID,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}
