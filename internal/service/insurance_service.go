package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/events"
	"github.com/spec-kit/trailer-admin/internal/repository"
	apperrors "github.com/spec-kit/trailer-admin/pkg/util"
)

const (
	expiringSoonWindow = 30 * 24 * time.Hour
	reminderBatchSize  = 200
)

// InsuranceInput carries client-writable policy fields. On update, empty strings and nil
// pointers leave the stored value unchanged.
type InsuranceInput struct {
	TrailerID        string
	Provider         string
	PolicyNumber     string
	PolicyType       domain.PolicyType
	StartDate        *time.Time
	ExpiryDate       *time.Time
	Premium          *decimal.Decimal
	PremiumFrequency domain.PremiumFrequency
	CoverageAmount   *decimal.Decimal
	Deductible       *decimal.Decimal
	NotifyBeforeDays *int
	NotifyByEmail    *bool
	NotifyBySMS      *bool
	Notes            *string
}

// InsuranceQuery filters policy listings.
type InsuranceQuery struct {
	Status             *domain.InsuranceStatus
	VerificationStatus *domain.VerificationStatus
	TrailerID          *string
	ExpiringSoon       bool
	Limit              int
	Offset             int
}

// StatsCache is the subset of the Redis cache the service needs.
type StatsCache interface {
	Get(ctx context.Context) (domain.InsuranceStats, bool)
	Set(ctx context.Context, stats domain.InsuranceStats)
	Invalidate(ctx context.Context)
}

// InsuranceService runs the policy lifecycle: status derivation on every write, the
// verification workflow, document attachment and expiry reminders.
type InsuranceService struct {
	policies   repository.InsuranceRepository
	trailers   repository.TrailerRepository
	documents  repository.DocumentRepository
	cache      StatsCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        Clock
}

// InsuranceDependencies bundles collaborators.
type InsuranceDependencies struct {
	PolicyRepo   repository.InsuranceRepository
	TrailerRepo  repository.TrailerRepository
	DocumentRepo repository.DocumentRepository
	Cache        StatsCache
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Clock        Clock
}

type noopStatsCache struct{}

func (noopStatsCache) Get(context.Context) (domain.InsuranceStats, bool) { return domain.InsuranceStats{}, false }
func (noopStatsCache) Set(context.Context, domain.InsuranceStats)        {}
func (noopStatsCache) Invalidate(context.Context)                        {}

// NewInsuranceService creates the service.
func NewInsuranceService(deps InsuranceDependencies) *InsuranceService {
	if deps.Cache == nil {
		deps.Cache = noopStatsCache{}
	}
	return &InsuranceService{
		policies:   deps.PolicyRepo,
		trailers:   deps.TrailerRepo,
		documents:  deps.DocumentRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     defaultLogger(deps.Logger),
		now:        defaultClock(deps.Clock),
	}
}

// lifecycleError maps domain lifecycle failures onto the error taxonomy.
func lifecycleError(err error) error {
	switch {
	case errors.Is(err, domain.ErrExpiryDateRequired):
		return apperrors.NewValidationError(err.Error(), map[string]any{"expiryDate": "is required"})
	case errors.Is(err, domain.ErrRejectionReasonRequired):
		return apperrors.NewValidationError(err.Error(), map[string]any{"reason": "is required"})
	case errors.Is(err, domain.ErrDocumentRequired):
		return apperrors.NewValidationError(err.Error(), map[string]any{"documentId": "is required"})
	}
	return apperrors.MapError(err)
}

// List returns policies matching the query.
func (s *InsuranceService) List(ctx context.Context, q InsuranceQuery) ([]domain.InsurancePolicy, error) {
	filter := repository.InsuranceFilter{
		Status:             q.Status,
		VerificationStatus: q.VerificationStatus,
		TrailerID:          q.TrailerID,
		Limit:              q.Limit,
		Offset:             q.Offset,
	}
	if q.ExpiringSoon {
		now := s.now()
		until := now.Add(expiringSoonWindow)
		filter.ExpiresFrom = &now
		filter.ExpiresTo = &until
	}
	policies, err := s.policies.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return policies, nil
}

// Get returns one policy.
func (s *InsuranceService) Get(ctx context.Context, id string) (*domain.InsurancePolicy, error) {
	policy, err := s.policies.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "insurance policy", map[string]any{"policy_id": id})
	}
	return policy, nil
}

// Create validates and stores a new policy for an existing trailer.
func (s *InsuranceService) Create(ctx context.Context, in InsuranceInput) (*domain.InsurancePolicy, error) {
	errs := fieldErrors{}
	errs.require("trailer", in.TrailerID)
	errs.require("provider", in.Provider)
	errs.require("policyNumber", in.PolicyNumber)
	if in.StartDate == nil {
		errs.add("startDate", "is required")
	}
	if in.ExpiryDate == nil {
		errs.add("expiryDate", "is required")
	}
	if in.Premium == nil {
		errs.add("premium", "is required")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	policy := &domain.InsurancePolicy{
		PolicyType:         domain.PolicyComprehensive,
		PremiumFrequency:   domain.PremiumAnnual,
		NotifyBeforeDays:   domain.DefaultNotifyBeforeDays,
		NotifyByEmail:      true,
		VerificationStatus: domain.VerificationPending,
		Status:             domain.InsuranceActive,
	}
	if err := s.apply(ctx, policy, in); err != nil {
		return nil, err
	}
	if err := policy.RefreshStatus(s.now()); err != nil {
		return nil, lifecycleError(err)
	}

	if err := s.policies.Create(ctx, policy); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx)
	return policy, nil
}

// Update applies the input to a stored policy and re-derives its status.
func (s *InsuranceService) Update(ctx context.Context, id string, in InsuranceInput) (*domain.InsurancePolicy, error) {
	policy, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, policy, in); err != nil {
		return nil, err
	}
	return s.save(ctx, policy)
}

// apply validates and copies input onto policy, checking trailer existence and policy
// number uniqueness when either changes.
func (s *InsuranceService) apply(ctx context.Context, p *domain.InsurancePolicy, in InsuranceInput) error {
	errs := fieldErrors{}
	if in.PolicyType != "" && !in.PolicyType.Valid() {
		errs.add("policyType", "is not a known policy type")
	}
	if in.PremiumFrequency != "" && !in.PremiumFrequency.Valid() {
		errs.add("premiumFrequency", "must be one of Monthly, Quarterly, Semi-Annual, Annual")
	}
	if in.Premium != nil && in.Premium.IsNegative() {
		errs.add("premium", "must not be negative")
	}
	if in.CoverageAmount != nil && in.CoverageAmount.IsNegative() {
		errs.add("coverageAmount", "must not be negative")
	}
	if in.Deductible != nil && in.Deductible.IsNegative() {
		errs.add("deductible", "must not be negative")
	}
	if in.NotifyBeforeDays != nil && *in.NotifyBeforeDays < 0 {
		errs.add("notifyBeforeDays", "must not be negative")
	}
	start, expiry := p.StartDate, p.ExpiryDate
	if in.StartDate != nil {
		start = *in.StartDate
	}
	if in.ExpiryDate != nil {
		expiry = *in.ExpiryDate
	}
	if !start.IsZero() && !expiry.IsZero() && !expiry.After(start) {
		errs.add("expiryDate", "must be after startDate")
	}
	if err := errs.err(); err != nil {
		return err
	}

	if in.TrailerID != "" && in.TrailerID != p.TrailerID {
		if _, err := s.trailers.GetByID(ctx, in.TrailerID); err != nil {
			return lookupError(err, "trailer", map[string]any{"trailer_id": in.TrailerID})
		}
		p.TrailerID = in.TrailerID
	}
	if number := strings.TrimSpace(in.PolicyNumber); number != "" && number != p.PolicyNumber {
		existing, err := s.policies.GetByPolicyNumber(ctx, number)
		if err != nil && !apperrors.IsNotFound(err) {
			return apperrors.MapError(err)
		}
		if existing != nil && existing.ID != p.ID {
			return apperrors.NewConflict("policy number already exists", map[string]any{"policyNumber": number})
		}
		p.PolicyNumber = number
	}

	if v := strings.TrimSpace(in.Provider); v != "" {
		p.Provider = v
	}
	if in.PolicyType != "" {
		p.PolicyType = in.PolicyType
	}
	p.StartDate, p.ExpiryDate = start, expiry
	if in.Premium != nil {
		p.Premium = *in.Premium
	}
	if in.PremiumFrequency != "" {
		p.PremiumFrequency = in.PremiumFrequency
	}
	if in.CoverageAmount != nil {
		p.CoverageAmount = in.CoverageAmount
	}
	if in.Deductible != nil {
		p.Deductible = in.Deductible
	}
	if in.NotifyBeforeDays != nil {
		p.NotifyBeforeDays = *in.NotifyBeforeDays
	}
	if in.NotifyByEmail != nil {
		p.NotifyByEmail = *in.NotifyByEmail
	}
	if in.NotifyBySMS != nil {
		p.NotifyBySMS = *in.NotifyBySMS
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
	return nil
}

// save re-derives status and persists the full policy.
func (s *InsuranceService) save(ctx context.Context, p *domain.InsurancePolicy) (*domain.InsurancePolicy, error) {
	if err := p.RefreshStatus(s.now()); err != nil {
		return nil, lifecycleError(err)
	}
	if err := s.policies.Update(ctx, p); err != nil {
		return nil, lookupError(err, "insurance policy", map[string]any{"policy_id": p.ID})
	}
	s.cache.Invalidate(ctx)
	return p, nil
}

// Delete removes a policy.
func (s *InsuranceService) Delete(ctx context.Context, id string) error {
	if err := s.policies.Delete(ctx, id); err != nil {
		return lookupError(err, "insurance policy", map[string]any{"policy_id": id})
	}
	s.cache.Invalidate(ctx)
	return nil
}

// Cancel applies the terminal override. It is stored as-is; later writes re-derive status
// and keep it only while the policy is outside its reminder window.
func (s *InsuranceService) Cancel(ctx context.Context, id string) (*domain.InsurancePolicy, error) {
	policy, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	policy.Cancel()
	if err := s.policies.Update(ctx, policy); err != nil {
		return nil, lookupError(err, "insurance policy", map[string]any{"policy_id": id})
	}
	s.cache.Invalidate(ctx)
	return policy, nil
}

// Verify marks the policy verified by verifierID.
func (s *InsuranceService) Verify(ctx context.Context, id, verifierID string) (*domain.InsurancePolicy, error) {
	policy, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	policy.Verify(verifierID, s.now())
	if _, err := s.save(ctx, policy); err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventInsuranceVerified, policy.ID, verifierID, s.now(),
		events.InsuranceReviewedPayload{PolicyNumber: policy.PolicyNumber}))
	return policy, nil
}

// Reject marks the policy rejected. A blank reason fails before anything is read or written.
func (s *InsuranceService) Reject(ctx context.Context, id, verifierID, reason string) (*domain.InsurancePolicy, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, lifecycleError(domain.ErrRejectionReasonRequired)
	}
	policy, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Reject(verifierID, reason, s.now()); err != nil {
		return nil, lifecycleError(err)
	}
	if _, err := s.save(ctx, policy); err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventInsuranceRejected, policy.ID, verifierID, s.now(),
		events.InsuranceReviewedPayload{PolicyNumber: policy.PolicyNumber, Reason: policy.RejectionReason}))
	return policy, nil
}

// RequestUpdate flags the policy as needing corrected information.
func (s *InsuranceService) RequestUpdate(ctx context.Context, id string) (*domain.InsurancePolicy, error) {
	policy, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	policy.RequestUpdate()
	return s.save(ctx, policy)
}

// AttachDocument appends an uploaded document to the policy.
func (s *InsuranceService) AttachDocument(ctx context.Context, id, documentID string, docType domain.PolicyDocumentType) (*domain.InsurancePolicy, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, lifecycleError(domain.ErrDocumentRequired)
	}
	if docType != "" && !docType.Valid() {
		return nil, apperrors.NewValidationError("invalid document type", map[string]any{"documentType": docType})
	}
	policy, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.documents.GetByID(ctx, documentID); err != nil {
		return nil, lookupError(err, "document", map[string]any{"document_id": documentID})
	}
	if err := policy.AttachDocument(documentID, docType, s.now()); err != nil {
		return nil, lifecycleError(err)
	}
	return s.save(ctx, policy)
}

// LinkDocuSign records the signing envelope for the policy.
func (s *InsuranceService) LinkDocuSign(ctx context.Context, id, envelopeID string) (*domain.InsurancePolicy, error) {
	envelopeID = strings.TrimSpace(envelopeID)
	if envelopeID == "" {
		return nil, apperrors.NewValidationError("envelope id is required", map[string]any{"envelopeId": "is required"})
	}
	policy, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	policy.DocusignEnvelopeID = envelopeID
	return s.save(ctx, policy)
}

// MarkNotified stamps lastNotificationSent without touching status or verification.
func (s *InsuranceService) MarkNotified(ctx context.Context, id string) (*domain.InsurancePolicy, error) {
	now := s.now()
	if err := s.policies.SetLastNotification(ctx, id, now); err != nil {
		return nil, lookupError(err, "insurance policy", map[string]any{"policy_id": id})
	}
	s.cache.Invalidate(ctx)
	return s.Get(ctx, id)
}

// Stats returns the dashboard aggregate, served from cache when fresh.
func (s *InsuranceService) Stats(ctx context.Context) (domain.InsuranceStats, error) {
	if stats, ok := s.cache.Get(ctx); ok {
		return stats, nil
	}
	stats, err := s.policies.Stats(ctx, s.now())
	if err != nil {
		return domain.InsuranceStats{}, apperrors.MapError(err)
	}
	s.cache.Set(ctx, stats)
	return stats, nil
}

// SendDueReminders publishes a reminder for every policy due one and marks it notified.
// Policies whose delivery failed stay unmarked and are retried on the next run.
func (s *InsuranceService) SendDueReminders(ctx context.Context) (int, error) {
	now := s.now()
	candidates, err := s.policies.ListReminderCandidates(ctx, now, reminderBatchSize)
	if err != nil {
		return 0, apperrors.MapError(err)
	}

	if s.dispatcher == nil {
		s.logger.Warn("no event dispatcher; reminders not sent", zap.Int("candidates", len(candidates)))
		return 0, nil
	}

	sent := 0
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		p := &candidates[i]
		if !domain.DueForReminder(now, p) {
			continue
		}
		status, _ := domain.DeriveStatus(now, p)
		event := events.New(events.EventInsuranceReminderDue, p.ID, "", now, events.InsuranceReminderPayload{
			PolicyNumber:    p.PolicyNumber,
			Provider:        p.Provider,
			TrailerID:       p.TrailerID,
			ExpiryDate:      p.ExpiryDate,
			DaysUntilExpiry: domain.DaysUntilExpiry(now, p.ExpiryDate),
			Status:          status,
			NotifyByEmail:   p.NotifyByEmail,
			NotifyBySMS:     p.NotifyBySMS,
		})
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("reminder delivery failed", zap.String("policy_id", p.ID), zap.Error(err))
			continue
		}
		if _, err := s.MarkNotified(ctx, p.ID); err != nil {
			s.logger.Warn("mark reminder sent", zap.String("policy_id", p.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}
