package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/repository"
	"github.com/spec-kit/trailer-admin/internal/storage"
	apperrors "github.com/spec-kit/trailer-admin/pkg/util"
)

const (
	// DefaultMaxUploadBytes applies when no limit is configured.
	DefaultMaxUploadBytes int64 = 10 * 1024 * 1024

	cleanupTimeout = 10 * time.Second
)

var allowedUploads = map[string][]string{
	".jpeg": {"image/jpeg"},
	".jpg":  {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
}

// UploadInput describes a file received from a client.
type UploadInput struct {
	Body        io.Reader
	Filename    string
	Size        int64
	ContentType string
	CustomerID  *string
	Type        domain.DocumentType
}

// DocumentService stores uploaded files in object storage and their metadata in the record store.
type DocumentService struct {
	documents repository.DocumentRepository
	customers repository.CustomerRepository
	objects   storage.ObjectStore
	maxBytes  int64
	logger    *zap.Logger
}

// DocumentDependencies bundles collaborators.
type DocumentDependencies struct {
	DocumentRepo   repository.DocumentRepository
	CustomerRepo   repository.CustomerRepository
	Objects        storage.ObjectStore
	MaxUploadBytes int64
	Logger         *zap.Logger
}

// NewDocumentService constructs the service.
func NewDocumentService(deps DocumentDependencies) *DocumentService {
	maxBytes := deps.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &DocumentService{
		documents: deps.DocumentRepo,
		customers: deps.CustomerRepo,
		objects:   deps.Objects,
		maxBytes:  maxBytes,
		logger:    defaultLogger(deps.Logger),
	}
}

// MaxUploadBytes is the accepted upload size limit.
func (s *DocumentService) MaxUploadBytes() int64 {
	return s.maxBytes
}

func validateUpload(in *UploadInput, maxBytes int64) error {
	errs := fieldErrors{}
	ext := strings.ToLower(filepath.Ext(in.Filename))
	mimes, ok := allowedUploads[ext]
	if !ok {
		errs.add("document", "only jpeg, jpg, png, gif, pdf, doc and docx files are allowed")
	} else {
		contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(in.ContentType, ";", 2)[0]))
		if contentType == "" || contentType == "application/octet-stream" {
			in.ContentType = mimes[0]
		} else if !containsString(mimes, contentType) {
			errs.add("document", "file content type does not match its extension")
		} else {
			in.ContentType = contentType
		}
	}
	if in.Size <= 0 {
		errs.add("document", "file is empty")
	} else if in.Size > maxBytes {
		errs.add("document", "file exceeds the upload size limit")
	}
	if in.Type == "" {
		in.Type = domain.DocumentOther
	} else if !in.Type.Valid() {
		errs.add("documentType", "must be one of ID Proof, Agreement, Insurance, Other Document")
	}
	return errs.err()
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Upload writes the object then records it. When the record cannot be written the object
// is removed again; cleanup failures are only logged.
func (s *DocumentService) Upload(ctx context.Context, actor domain.Actor, in UploadInput) (doc *domain.Document, err error) {
	if err := validateUpload(&in, s.maxBytes); err != nil {
		return nil, err
	}
	if in.CustomerID != nil && *in.CustomerID != "" {
		if _, err := s.customers.GetByID(ctx, *in.CustomerID); err != nil {
			return nil, lookupError(err, "customer", map[string]any{"customer_id": *in.CustomerID})
		}
	} else {
		in.CustomerID = nil
	}

	key := "documents/" + uuid.NewString() + strings.ToLower(filepath.Ext(in.Filename))
	if err := s.objects.Put(ctx, key, in.Body, in.Size, in.ContentType); err != nil {
		return nil, apperrors.NewUpstreamFailure(err)
	}
	defer func() {
		if err != nil {
			s.removeObject(key)
		}
	}()

	uploader := actor.ID
	doc = &domain.Document{
		CustomerID:   in.CustomerID,
		Type:         in.Type,
		StorageKey:   key,
		OriginalName: filepath.Base(in.Filename),
		MimeType:     in.ContentType,
		SizeBytes:    in.Size,
		UploadedBy:   &uploader,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, apperrors.MapError(err)
	}
	return doc, nil
}

// removeObject runs detached from the request so a cancelled request still cleans up.
func (s *DocumentService) removeObject(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	if err := s.objects.Remove(ctx, key); err != nil {
		s.logger.Warn("remove orphaned upload", zap.String("storage_key", key), zap.Error(err))
	}
}

// List lists document metadata.
func (s *DocumentService) List(ctx context.Context, filter repository.DocumentFilter) ([]domain.Document, error) {
	docs, err := s.documents.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return docs, nil
}

// Get fetches document metadata.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "document", map[string]any{"document_id": id})
	}
	return doc, nil
}

// Download opens the stored file. The caller closes the object body.
func (s *DocumentService) Download(ctx context.Context, id string) (*domain.Document, *storage.Object, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	obj, err := s.objects.Get(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, apperrors.NewNotFound("document file", map[string]any{"document_id": id})
		}
		return nil, nil, apperrors.NewUpstreamFailure(err)
	}
	return doc, obj, nil
}

// Delete removes the stored object, then the record.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.objects.Remove(ctx, doc.StorageKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return apperrors.NewUpstreamFailure(err)
	}
	if err := s.documents.Delete(ctx, id); err != nil {
		return lookupError(err, "document", map[string]any{"document_id": id})
	}
	return nil
}
