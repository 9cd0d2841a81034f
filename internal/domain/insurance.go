package domain

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InsuranceStatus is the lifecycle status of a policy. Apart from InsuranceCancelled it is
// derived from the expiry date and never set directly.
type InsuranceStatus string

const (
	InsuranceActive    InsuranceStatus = "active"
	InsuranceExpiring  InsuranceStatus = "expiring"
	InsuranceExpired   InsuranceStatus = "expired"
	InsuranceCancelled InsuranceStatus = "cancelled"
)

// VerificationStatus is the review sub-state of a policy, independent of InsuranceStatus.
type VerificationStatus string

const (
	VerificationPending        VerificationStatus = "pending"
	VerificationVerified       VerificationStatus = "verified"
	VerificationRejected       VerificationStatus = "rejected"
	VerificationRequiresUpdate VerificationStatus = "requires_update"
)

// PolicyType classifies coverage.
type PolicyType string

const (
	PolicyComprehensive  PolicyType = "Comprehensive"
	PolicyLiability      PolicyType = "Liability"
	PolicyCollision      PolicyType = "Collision"
	PolicyPhysicalDamage PolicyType = "Physical Damage"
	PolicyCargo          PolicyType = "Cargo"
	PolicyOther          PolicyType = "Other"
)

// Valid reports whether t is a known policy type.
func (t PolicyType) Valid() bool {
	switch t {
	case PolicyComprehensive, PolicyLiability, PolicyCollision, PolicyPhysicalDamage, PolicyCargo, PolicyOther:
		return true
	}
	return false
}

// PremiumFrequency is how often the premium is billed.
type PremiumFrequency string

const (
	PremiumMonthly    PremiumFrequency = "Monthly"
	PremiumQuarterly  PremiumFrequency = "Quarterly"
	PremiumSemiAnnual PremiumFrequency = "Semi-Annual"
	PremiumAnnual     PremiumFrequency = "Annual"
)

// Valid reports whether f is a known frequency.
func (f PremiumFrequency) Valid() bool {
	switch f {
	case PremiumMonthly, PremiumQuarterly, PremiumSemiAnnual, PremiumAnnual:
		return true
	}
	return false
}

// PolicyDocumentType classifies documents attached to a policy.
type PolicyDocumentType string

const (
	PolicyDocumentPolicy      PolicyDocumentType = "Policy Document"
	PolicyDocumentCertificate PolicyDocumentType = "Certificate"
	PolicyDocumentEndorsement PolicyDocumentType = "Endorsement"
	PolicyDocumentOther       PolicyDocumentType = "Other"
)

// Valid reports whether t is a known document type.
func (t PolicyDocumentType) Valid() bool {
	switch t {
	case PolicyDocumentPolicy, PolicyDocumentCertificate, PolicyDocumentEndorsement, PolicyDocumentOther:
		return true
	}
	return false
}

// DefaultNotifyBeforeDays is the reminder window applied to new policies.
const DefaultNotifyBeforeDays = 30

// PolicyDocument references an uploaded document attached to a policy.
type PolicyDocument struct {
	DocumentID   string             `json:"document_id"`
	DocumentType PolicyDocumentType `json:"document_type"`
	UploadedAt   time.Time          `json:"uploaded_at"`
}

// InsurancePolicy covers a single company-owned trailer.
type InsurancePolicy struct {
	ID                   string
	TrailerID            string
	Provider             string
	PolicyNumber         string
	PolicyType           PolicyType
	StartDate            time.Time
	ExpiryDate           time.Time
	Premium              decimal.Decimal
	PremiumFrequency     PremiumFrequency
	CoverageAmount       *decimal.Decimal
	Deductible           *decimal.Decimal
	Documents            []PolicyDocument
	DocusignEnvelopeID   string
	VerificationStatus   VerificationStatus
	VerifiedBy           *string
	VerifiedAt           *time.Time
	RejectionReason      string
	Status               InsuranceStatus
	NotifyBeforeDays     int
	NotifyByEmail        bool
	NotifyBySMS          bool
	LastNotificationSent *time.Time
	Notes                string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// DaysUntilExpiry rounds the remaining time up to whole days; negative once expired.
func DaysUntilExpiry(now, expiry time.Time) int {
	const day = 24 * time.Hour
	return int(math.Ceil(float64(expiry.Sub(now)) / float64(day)))
}

// DeriveStatus computes the lifecycle status the policy should carry at now.
// Cancelled is only retained while the policy is outside its reminder window.
func DeriveStatus(now time.Time, p *InsurancePolicy) (InsuranceStatus, error) {
	if p.ExpiryDate.IsZero() {
		return "", ErrExpiryDateRequired
	}
	days := DaysUntilExpiry(now, p.ExpiryDate)
	switch {
	case days < 0:
		return InsuranceExpired, nil
	case days <= p.NotifyBeforeDays:
		return InsuranceExpiring, nil
	case p.Status != InsuranceCancelled:
		return InsuranceActive, nil
	default:
		return InsuranceCancelled, nil
	}
}

// RefreshStatus applies DeriveStatus to the policy in place.
func (p *InsurancePolicy) RefreshStatus(now time.Time) error {
	status, err := DeriveStatus(now, p)
	if err != nil {
		return err
	}
	p.Status = status
	return nil
}

// StartOfMonth returns midnight on the first day of now's month in now's location.
func StartOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// DueForReminder reports whether an expiry reminder should go out at now: the policy is inside
// its reminder window (or past expiry) and nothing was sent yet this calendar month.
func DueForReminder(now time.Time, p *InsurancePolicy) bool {
	status, err := DeriveStatus(now, p)
	if err != nil {
		return false
	}
	if status != InsuranceExpiring && status != InsuranceExpired {
		return false
	}
	return p.LastNotificationSent == nil || p.LastNotificationSent.Before(StartOfMonth(now))
}

// Verify marks the policy as reviewed and accepted.
func (p *InsurancePolicy) Verify(verifierID string, at time.Time) {
	p.VerificationStatus = VerificationVerified
	p.VerifiedBy = &verifierID
	p.VerifiedAt = &at
	p.RejectionReason = ""
}

// Reject marks the policy as reviewed and refused; a reason is mandatory.
func (p *InsurancePolicy) Reject(verifierID, reason string, at time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrRejectionReasonRequired
	}
	p.VerificationStatus = VerificationRejected
	p.VerifiedBy = &verifierID
	p.VerifiedAt = &at
	p.RejectionReason = reason
	return nil
}

// RequestUpdate flags the policy as needing corrected information from the provider.
func (p *InsurancePolicy) RequestUpdate() {
	p.VerificationStatus = VerificationRequiresUpdate
}

// Cancel applies the terminal cancelled override.
func (p *InsurancePolicy) Cancel() {
	p.Status = InsuranceCancelled
}

// AttachDocument appends a document reference. Existing entries are never replaced.
func (p *InsurancePolicy) AttachDocument(documentID string, docType PolicyDocumentType, at time.Time) error {
	if strings.TrimSpace(documentID) == "" {
		return ErrDocumentRequired
	}
	if docType == "" {
		docType = PolicyDocumentPolicy
	}
	p.Documents = append(p.Documents, PolicyDocument{
		DocumentID:   documentID,
		DocumentType: docType,
		UploadedAt:   at,
	})
	return nil
}

// InsuranceStats is the dashboard summary of all policies.
type InsuranceStats struct {
	TotalPolicies       int64 `json:"totalPolicies"`
	ActivePolicies      int64 `json:"activePolicies"`
	ExpiredPolicies     int64 `json:"expiredPolicies"`
	ExpiringPolicies    int64 `json:"expiringPolicies"`
	RemindersSent       int64 `json:"remindersSent"`
	DueForReminder      int64 `json:"dueForReminder"`
	PendingVerification int64 `json:"pendingVerification"`
	Verified            int64 `json:"verified"`
	Rejected            int64 `json:"rejected"`
	RequiresUpdate      int64 `json:"requiresUpdate"`
}
