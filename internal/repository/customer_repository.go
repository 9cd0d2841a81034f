package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/trailer-admin/internal/domain"
)

// CustomerFilter narrows customer listings.
type CustomerFilter struct {
	Search string
	Type   *domain.CustomerType
	Limit  int
	Offset int
}

// CustomerRepository persists customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, filter CustomerFilter) ([]domain.Customer, error)
	Delete(ctx context.Context, id string) error
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository instantiates repository.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

const customerColumns = `id, name, contact, customer_type, ssn, dl, work_permit, cab_card, truck_policy, created_at, updated_at`

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	const query = `
        INSERT INTO customers (name, contact, customer_type, ssn, dl, work_permit, cab_card, truck_policy)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		c.Name, c.Contact, c.Type, c.SSN, c.DL, c.WorkPermit, c.CabCard, c.TruckPolicy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	const query = `
        UPDATE customers SET name=$1, contact=$2, customer_type=$3, ssn=$4, dl=$5, work_permit=$6,
            cab_card=$7, truck_policy=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		c.Name, c.Contact, c.Type, c.SSN, c.DL, c.WorkPermit, c.CabCard, c.TruckPolicy, c.ID,
	).Scan(&c.UpdatedAt)
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id=$1`
	return scanCustomer(r.pool.QueryRow(ctx, query, id))
}

func (r *customerRepository) List(ctx context.Context, filter CustomerFilter) ([]domain.Customer, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("customer_type=$%d", len(args)))
	}
	if strings.TrimSpace(filter.Search) != "" {
		args = append(args, searchPattern(filter.Search))
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(contact) LIKE %s)", placeholder, placeholder))
	}

	limit, offset := normalizePage(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE %s ORDER BY name ASC LIMIT %d OFFSET %d`,
		customerColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *customer)
	}
	return result, rows.Err()
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Contact,
		&c.Type,
		&c.SSN,
		&c.DL,
		&c.WorkPermit,
		&c.CabCard,
		&c.TruckPolicy,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
