package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/trailer-admin/internal/domain"
)

// InsuranceFilter captures policy listing parameters.
type InsuranceFilter struct {
	Status             *domain.InsuranceStatus
	VerificationStatus *domain.VerificationStatus
	TrailerID          *string
	ExpiresFrom        *time.Time
	ExpiresTo          *time.Time
	Limit              int
	Offset             int
}

// InsuranceRepository persists insurance policies.
type InsuranceRepository interface {
	Create(ctx context.Context, policy *domain.InsurancePolicy) error
	Update(ctx context.Context, policy *domain.InsurancePolicy) error
	GetByID(ctx context.Context, id string) (*domain.InsurancePolicy, error)
	GetByPolicyNumber(ctx context.Context, number string) (*domain.InsurancePolicy, error)
	List(ctx context.Context, filter InsuranceFilter) ([]domain.InsurancePolicy, error)
	Delete(ctx context.Context, id string) error
	SetLastNotification(ctx context.Context, id string, at time.Time) error
	ListReminderCandidates(ctx context.Context, now time.Time, limit int) ([]domain.InsurancePolicy, error)
	Stats(ctx context.Context, now time.Time) (domain.InsuranceStats, error)
}

type insuranceRepository struct {
	pool *pgxpool.Pool
}

// NewInsuranceRepository instantiates repository.
func NewInsuranceRepository(pool *pgxpool.Pool) InsuranceRepository {
	return &insuranceRepository{pool: pool}
}

const insuranceColumns = `id, trailer_id, provider, policy_number, policy_type, start_date, expiry_date,
               premium, premium_frequency, coverage_amount, deductible, documents, docusign_envelope_id,
               verification_status, verified_by, verified_at, rejection_reason, status,
               notify_before_days, notify_by_email, notify_by_sms, last_notification_sent, notes,
               created_at, updated_at`

func (r *insuranceRepository) Create(ctx context.Context, p *domain.InsurancePolicy) error {
	const query = `
        INSERT INTO insurance_policies (trailer_id, provider, policy_number, policy_type, start_date, expiry_date,
            premium, premium_frequency, coverage_amount, deductible, documents, docusign_envelope_id,
            verification_status, verified_by, verified_at, rejection_reason, status,
            notify_before_days, notify_by_email, notify_by_sms, last_notification_sent, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		p.TrailerID,
		p.Provider,
		p.PolicyNumber,
		p.PolicyType,
		p.StartDate,
		p.ExpiryDate,
		p.Premium,
		p.PremiumFrequency,
		p.CoverageAmount,
		p.Deductible,
		documentsParam(p.Documents),
		p.DocusignEnvelopeID,
		p.VerificationStatus,
		p.VerifiedBy,
		p.VerifiedAt,
		p.RejectionReason,
		p.Status,
		p.NotifyBeforeDays,
		p.NotifyByEmail,
		p.NotifyBySMS,
		p.LastNotificationSent,
		p.Notes,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *insuranceRepository) Update(ctx context.Context, p *domain.InsurancePolicy) error {
	const query = `
        UPDATE insurance_policies SET trailer_id=$1, provider=$2, policy_number=$3, policy_type=$4,
            start_date=$5, expiry_date=$6, premium=$7, premium_frequency=$8, coverage_amount=$9,
            deductible=$10, documents=$11, docusign_envelope_id=$12, verification_status=$13,
            verified_by=$14, verified_at=$15, rejection_reason=$16, status=$17, notify_before_days=$18,
            notify_by_email=$19, notify_by_sms=$20, notes=$21, updated_at=NOW()
        WHERE id=$22
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		p.TrailerID,
		p.Provider,
		p.PolicyNumber,
		p.PolicyType,
		p.StartDate,
		p.ExpiryDate,
		p.Premium,
		p.PremiumFrequency,
		p.CoverageAmount,
		p.Deductible,
		documentsParam(p.Documents),
		p.DocusignEnvelopeID,
		p.VerificationStatus,
		p.VerifiedBy,
		p.VerifiedAt,
		p.RejectionReason,
		p.Status,
		p.NotifyBeforeDays,
		p.NotifyByEmail,
		p.NotifyBySMS,
		p.Notes,
		p.ID,
	).Scan(&p.UpdatedAt)
}

func (r *insuranceRepository) GetByID(ctx context.Context, id string) (*domain.InsurancePolicy, error) {
	query := `SELECT ` + insuranceColumns + ` FROM insurance_policies WHERE id=$1`
	return scanPolicy(r.pool.QueryRow(ctx, query, id))
}

func (r *insuranceRepository) GetByPolicyNumber(ctx context.Context, number string) (*domain.InsurancePolicy, error) {
	query := `SELECT ` + insuranceColumns + ` FROM insurance_policies WHERE policy_number=$1`
	return scanPolicy(r.pool.QueryRow(ctx, query, number))
}

func (r *insuranceRepository) List(ctx context.Context, filter InsuranceFilter) ([]domain.InsurancePolicy, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.VerificationStatus != nil {
		args = append(args, *filter.VerificationStatus)
		clauses = append(clauses, fmt.Sprintf("verification_status=$%d", len(args)))
	}
	if filter.TrailerID != nil {
		args = append(args, *filter.TrailerID)
		clauses = append(clauses, fmt.Sprintf("trailer_id=$%d", len(args)))
	}
	if filter.ExpiresFrom != nil {
		args = append(args, *filter.ExpiresFrom)
		clauses = append(clauses, fmt.Sprintf("expiry_date >= $%d", len(args)))
	}
	if filter.ExpiresTo != nil {
		args = append(args, *filter.ExpiresTo)
		clauses = append(clauses, fmt.Sprintf("expiry_date <= $%d", len(args)))
	}

	limit, offset := normalizePage(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM insurance_policies WHERE %s ORDER BY expiry_date ASC LIMIT %d OFFSET %d`,
		insuranceColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPolicies(rows)
}

func (r *insuranceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM insurance_policies WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetLastNotification touches only the reminder timestamp; status columns are left alone.
func (r *insuranceRepository) SetLastNotification(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE insurance_policies SET last_notification_sent=$1, updated_at=NOW() WHERE id=$2`, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListReminderCandidates returns policies inside their reminder window that have not been
// notified since the start of now's month.
func (r *insuranceRepository) ListReminderCandidates(ctx context.Context, now time.Time, limit int) ([]domain.InsurancePolicy, error) {
	limit, _ = normalizePage(limit, 0)
	query := fmt.Sprintf(`SELECT %s FROM insurance_policies
        WHERE expiry_date <= $1::timestamptz + make_interval(days => notify_before_days)
          AND (last_notification_sent IS NULL OR last_notification_sent < $2::timestamptz)
        ORDER BY expiry_date ASC LIMIT %d`, insuranceColumns, limit)

	rows, err := r.pool.Query(ctx, query, now, domain.StartOfMonth(now))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPolicies(rows)
}

func (r *insuranceRepository) Stats(ctx context.Context, now time.Time) (domain.InsuranceStats, error) {
	const query = `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE status = 'active'),
            COUNT(*) FILTER (WHERE status = 'expired'),
            COUNT(*) FILTER (WHERE expiry_date >= $1 AND expiry_date <= $1::timestamptz + INTERVAL '30 days' AND status <> 'expired'),
            COUNT(*) FILTER (WHERE last_notification_sent >= $2),
            COUNT(*) FILTER (WHERE expiry_date <= $1::timestamptz + make_interval(days => notify_before_days)
                             AND (last_notification_sent IS NULL OR last_notification_sent < $2::timestamptz)),
            COUNT(*) FILTER (WHERE verification_status = 'pending'),
            COUNT(*) FILTER (WHERE verification_status = 'verified'),
            COUNT(*) FILTER (WHERE verification_status = 'rejected'),
            COUNT(*) FILTER (WHERE verification_status = 'requires_update')
        FROM insurance_policies`

	var stats domain.InsuranceStats
	err := r.pool.QueryRow(ctx, query, now, domain.StartOfMonth(now)).Scan(
		&stats.TotalPolicies,
		&stats.ActivePolicies,
		&stats.ExpiredPolicies,
		&stats.ExpiringPolicies,
		&stats.RemindersSent,
		&stats.DueForReminder,
		&stats.PendingVerification,
		&stats.Verified,
		&stats.Rejected,
		&stats.RequiresUpdate,
	)
	return stats, err
}

func documentsParam(docs []domain.PolicyDocument) []domain.PolicyDocument {
	if docs == nil {
		return []domain.PolicyDocument{}
	}
	return docs
}

func scanPolicies(rows pgx.Rows) ([]domain.InsurancePolicy, error) {
	var result []domain.InsurancePolicy
	for rows.Next() {
		policy, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *policy)
	}
	return result, rows.Err()
}

func scanPolicy(row pgx.Row) (*domain.InsurancePolicy, error) {
	var p domain.InsurancePolicy
	if err := row.Scan(
		&p.ID,
		&p.TrailerID,
		&p.Provider,
		&p.PolicyNumber,
		&p.PolicyType,
		&p.StartDate,
		&p.ExpiryDate,
		&p.Premium,
		&p.PremiumFrequency,
		&p.CoverageAmount,
		&p.Deductible,
		&p.Documents,
		&p.DocusignEnvelopeID,
		&p.VerificationStatus,
		&p.VerifiedBy,
		&p.VerifiedAt,
		&p.RejectionReason,
		&p.Status,
		&p.NotifyBeforeDays,
		&p.NotifyByEmail,
		&p.NotifyBySMS,
		&p.LastNotificationSent,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
