package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// FilesHandler manages attachment upload and download.
type FilesHandler struct {
	files *service.FileService
}

// NewFilesHandler constructs handler.
func NewFilesHandler(files *service.FileService) *FilesHandler {
	return &FilesHandler{files: files}
}

// Upload POST /api/tickets/:id/attachments. Expects multipart form field "file".
func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("multipart field 'file' required", nil)
	}
	src, err := header.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable upload", nil)
	}
	defer src.Close()

	attachment, err := h.files.Upload(c.Context(), actor, c.Params("id"),
		header.Filename, header.Header.Get("Content-Type"), header.Size, src)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.AttachmentFromDomain(attachment)})
}

// List GET /api/tickets/:id/attachments.
func (h *FilesHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	attachments, err := h.files.ListByTicket(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		items = append(items, dto.AttachmentFromDomain(&attachments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Download GET /api/files/:id. Streams the stored content.
func (h *FilesHandler) Download(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	attachment, content, err := h.files.Open(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, attachment.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", attachment.FileName))
	return c.SendStream(content, int(attachment.SizeBytes))
}
