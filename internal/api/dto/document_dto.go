package dto

import (
	"time"

	"github.com/spec-kit/trailer-admin/internal/domain"
)

// DocumentResponse is the metadata of an uploaded file.
type DocumentResponse struct {
	ID           string              `json:"id"`
	Customer     *string             `json:"customer,omitempty"`
	DocumentType domain.DocumentType `json:"documentType"`
	OriginalName string              `json:"originalName"`
	MimeType     string              `json:"mimeType"`
	Size         int64               `json:"size"`
	UploadedBy   *string             `json:"uploadedBy,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// NewDocumentResponse maps a document. The storage key stays internal.
func NewDocumentResponse(d *domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:           d.ID,
		Customer:     d.CustomerID,
		DocumentType: d.Type,
		OriginalName: d.OriginalName,
		MimeType:     d.MimeType,
		Size:         d.SizeBytes,
		UploadedBy:   d.UploadedBy,
		CreatedAt:    d.CreatedAt,
	}
}

// NewDocumentList maps documents.
func NewDocumentList(docs []domain.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, NewDocumentResponse(&docs[i]))
	}
	return out
}
