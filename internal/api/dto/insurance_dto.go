package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/service"
)

// InsuranceRequest payload for creating or updating a policy. Omitted fields keep their
// stored value on update.
type InsuranceRequest struct {
	Trailer          string                  `json:"trailer"`
	Provider         string                  `json:"provider"`
	PolicyNumber     string                  `json:"policyNumber"`
	PolicyType       domain.PolicyType       `json:"policyType"`
	StartDate        *Date                   `json:"startDate"`
	ExpiryDate       *Date                   `json:"expiryDate"`
	Premium          *decimal.Decimal        `json:"premium"`
	PremiumFrequency domain.PremiumFrequency `json:"premiumFrequency"`
	CoverageAmount   *decimal.Decimal        `json:"coverageAmount"`
	Deductible       *decimal.Decimal        `json:"deductible"`
	NotifyBeforeDays *int                    `json:"notifyBeforeDays"`
	NotifyByEmail    *bool                   `json:"notifyByEmail"`
	NotifyBySMS      *bool                   `json:"notifyBySMS"`
	Notes            *string                 `json:"notes"`
}

// Input converts the request for the service.
func (r InsuranceRequest) Input() service.InsuranceInput {
	return service.InsuranceInput{
		TrailerID:        r.Trailer,
		Provider:         r.Provider,
		PolicyNumber:     r.PolicyNumber,
		PolicyType:       r.PolicyType,
		StartDate:        r.StartDate.Ptr(),
		ExpiryDate:       r.ExpiryDate.Ptr(),
		Premium:          r.Premium,
		PremiumFrequency: r.PremiumFrequency,
		CoverageAmount:   r.CoverageAmount,
		Deductible:       r.Deductible,
		NotifyBeforeDays: r.NotifyBeforeDays,
		NotifyByEmail:    r.NotifyByEmail,
		NotifyBySMS:      r.NotifyBySMS,
		Notes:            r.Notes,
	}
}

// AttachDocumentRequest links an uploaded document to a policy.
type AttachDocumentRequest struct {
	DocumentID   string                    `json:"documentId"`
	DocumentType domain.PolicyDocumentType `json:"documentType"`
}

// DocuSignRequest links a signing envelope.
type DocuSignRequest struct {
	EnvelopeID string `json:"envelopeId"`
}

// PolicyDocumentResponse is one attached document.
type PolicyDocumentResponse struct {
	DocumentID   string                    `json:"documentId"`
	DocumentType domain.PolicyDocumentType `json:"documentType"`
	UploadedAt   time.Time                 `json:"uploadedAt"`
}

// InsuranceResponse is the public view of a policy.
type InsuranceResponse struct {
	ID                   string                    `json:"id"`
	Trailer              string                    `json:"trailer"`
	Provider             string                    `json:"provider"`
	PolicyNumber         string                    `json:"policyNumber"`
	PolicyType           domain.PolicyType         `json:"policyType"`
	StartDate            time.Time                 `json:"startDate"`
	ExpiryDate           time.Time                 `json:"expiryDate"`
	DaysUntilExpiry      int                       `json:"daysUntilExpiry"`
	Premium              decimal.Decimal           `json:"premium"`
	PremiumFrequency     domain.PremiumFrequency   `json:"premiumFrequency"`
	CoverageAmount       *decimal.Decimal          `json:"coverageAmount,omitempty"`
	Deductible           *decimal.Decimal          `json:"deductible,omitempty"`
	Documents            []PolicyDocumentResponse  `json:"documents"`
	DocusignEnvelopeID   string                    `json:"docusignEnvelopeId,omitempty"`
	VerificationStatus   domain.VerificationStatus `json:"verificationStatus"`
	VerifiedBy           *string                   `json:"verifiedBy,omitempty"`
	VerifiedAt           *time.Time                `json:"verifiedAt,omitempty"`
	RejectionReason      string                    `json:"rejectionReason,omitempty"`
	Status               domain.InsuranceStatus    `json:"status"`
	NotifyBeforeDays     int                       `json:"notifyBeforeDays"`
	NotifyByEmail        bool                      `json:"notifyByEmail"`
	NotifyBySMS          bool                      `json:"notifyBySMS"`
	LastNotificationSent *time.Time                `json:"lastNotificationSent,omitempty"`
	Notes                string                    `json:"notes,omitempty"`
	CreatedAt            time.Time                 `json:"createdAt"`
	UpdatedAt            time.Time                 `json:"updatedAt"`
}

// NewInsuranceResponse maps a policy as seen at now.
func NewInsuranceResponse(p *domain.InsurancePolicy, now time.Time) InsuranceResponse {
	docs := make([]PolicyDocumentResponse, 0, len(p.Documents))
	for _, d := range p.Documents {
		docs = append(docs, PolicyDocumentResponse{DocumentID: d.DocumentID, DocumentType: d.DocumentType, UploadedAt: d.UploadedAt})
	}
	return InsuranceResponse{
		ID:                   p.ID,
		Trailer:              p.TrailerID,
		Provider:             p.Provider,
		PolicyNumber:         p.PolicyNumber,
		PolicyType:           p.PolicyType,
		StartDate:            p.StartDate,
		ExpiryDate:           p.ExpiryDate,
		DaysUntilExpiry:      domain.DaysUntilExpiry(now, p.ExpiryDate),
		Premium:              p.Premium,
		PremiumFrequency:     p.PremiumFrequency,
		CoverageAmount:       p.CoverageAmount,
		Deductible:           p.Deductible,
		Documents:            docs,
		DocusignEnvelopeID:   p.DocusignEnvelopeID,
		VerificationStatus:   p.VerificationStatus,
		VerifiedBy:           p.VerifiedBy,
		VerifiedAt:           p.VerifiedAt,
		RejectionReason:      p.RejectionReason,
		Status:               p.Status,
		NotifyBeforeDays:     p.NotifyBeforeDays,
		NotifyByEmail:        p.NotifyByEmail,
		NotifyBySMS:          p.NotifyBySMS,
		LastNotificationSent: p.LastNotificationSent,
		Notes:                p.Notes,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

// NewInsuranceList maps policies.
func NewInsuranceList(policies []domain.InsurancePolicy, now time.Time) []InsuranceResponse {
	out := make([]InsuranceResponse, 0, len(policies))
	for i := range policies {
		out = append(out, NewInsuranceResponse(&policies[i], now))
	}
	return out
}
