package domain

import "time"

// DocumentType classifies uploaded files.
type DocumentType string

const (
	DocumentIDProof   DocumentType = "ID Proof"
	DocumentAgreement DocumentType = "Agreement"
	DocumentInsurance DocumentType = "Insurance"
	DocumentOther     DocumentType = "Other Document"
)

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentIDProof, DocumentAgreement, DocumentInsurance, DocumentOther:
		return true
	}
	return false
}

// Document is the metadata of a file held in object storage.
type Document struct {
	ID           string
	CustomerID   *string
	Type         DocumentType
	StorageKey   string
	OriginalName string
	MimeType     string
	SizeBytes    int64
	UploadedBy   *string
	CreatedAt    time.Time
}
