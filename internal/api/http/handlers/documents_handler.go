package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trailer-admin/internal/api/dto"
	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/repository"
	"github.com/spec-kit/trailer-admin/internal/service"
	apperrors "github.com/spec-kit/trailer-admin/pkg/util"
)

const uploadField = "document"

// DocumentsHandler manages file uploads.
type DocumentsHandler struct {
	documents *service.DocumentService
}

// NewDocumentsHandler constructs handler.
func NewDocumentsHandler(documentService *service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{documents: documentService}
}

// Upload handles POST /documents (multipart field "document").
func (h *DocumentsHandler) Upload(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	header, err := c.FormFile(uploadField)
	if err != nil {
		return apperrors.NewValidationError("no file uploaded", map[string]any{uploadField: "is required"})
	}
	if header.Size > h.documents.MaxUploadBytes() {
		return apperrors.NewValidationError("validation failed", map[string]any{uploadField: "file exceeds the upload size limit"})
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable upload", map[string]any{uploadField: err.Error()})
	}
	defer file.Close()

	doc, err := h.documents.Upload(c.UserContext(), a, service.UploadInput{
		Body:        file,
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		CustomerID:  optional(c.FormValue("customer")),
		Type:        domain.DocumentType(c.FormValue("documentType")),
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewDocumentResponse(doc))
}

// List handles GET /documents.
func (h *DocumentsHandler) List(c *fiber.Ctx) error {
	filter := repository.DocumentFilter{CustomerID: optional(c.Query("customer"))}
	if v := optional(c.Query("documentType")); v != nil {
		t := domain.DocumentType(*v)
		filter.Type = &t
	}
	filter.Limit, filter.Offset = page(c)

	docs, err := h.documents.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return data(c, dto.NewDocumentList(docs))
}

// Get handles GET /documents/:id.
func (h *DocumentsHandler) Get(c *fiber.Ctx) error {
	doc, err := h.documents.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, dto.NewDocumentResponse(doc))
}

// Download handles GET /documents/:id/download.
func (h *DocumentsHandler) Download(c *fiber.Ctx) error {
	doc, obj, err := h.documents.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	contentType := obj.ContentType
	if contentType == "" {
		contentType = doc.MimeType
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=`+strconv.Quote(doc.OriginalName))
	return c.SendStream(obj.Body, int(obj.Size))
}

// Delete handles DELETE /documents/:id.
func (h *DocumentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.documents.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
