package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/trailer-admin/internal/domain"
)

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	CustomerID *string
	Type       *domain.DocumentType
	Limit      int
	Offset     int
}

// DocumentRepository persists uploaded document metadata.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, filter DocumentFilter) ([]domain.Document, error)
	Delete(ctx context.Context, id string) error
}

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository constructs repository.
func NewDocumentRepository(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepository{pool: pool}
}

const documentColumns = `id, customer_id, document_type, storage_key, original_name, mime_type, size_bytes, uploaded_by, created_at`

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) error {
	const query = `
        INSERT INTO documents (customer_id, document_type, storage_key, original_name, mime_type, size_bytes, uploaded_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		doc.CustomerID,
		doc.Type,
		doc.StorageKey,
		doc.OriginalName,
		doc.MimeType,
		doc.SizeBytes,
		doc.UploadedBy,
	).Scan(&doc.ID, &doc.CreatedAt)
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id=$1`
	return scanDocument(r.pool.QueryRow(ctx, query, id))
}

func (r *documentRepository) List(ctx context.Context, filter DocumentFilter) ([]domain.Document, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("document_type=$%d", len(args)))
	}

	limit, offset := normalizePage(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM documents WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		documentColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *doc)
	}
	return result, rows.Err()
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var doc domain.Document
	if err := row.Scan(
		&doc.ID,
		&doc.CustomerID,
		&doc.Type,
		&doc.StorageKey,
		&doc.OriginalName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.UploadedBy,
		&doc.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &doc, nil
}
