package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/access"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

var allowedUploadTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
}

// FileService stores ticket attachments on local disk and their metadata in
// Postgres. Access follows ticket visibility: whoever may view the ticket may
// upload to it and download from it.
type FileService struct {
	attachments repository.AttachmentRepository
	tickets     repository.TicketRepository
	cfg         config.StorageConfig
}

// FileDependencies bundles collaborators for the file service.
type FileDependencies struct {
	AttachmentRepo repository.AttachmentRepository
	TicketRepo     repository.TicketRepository
	Storage        config.StorageConfig
}

// NewFileService constructs the service and ensures the upload directory exists.
func NewFileService(deps FileDependencies) (*FileService, error) {
	if err := os.MkdirAll(deps.Storage.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileService{
		attachments: deps.AttachmentRepo,
		tickets:     deps.TicketRepo,
		cfg:         deps.Storage,
	}, nil
}

// Upload validates and stores a file for a ticket the actor may view.
func (s *FileService) Upload(ctx context.Context, actor *domain.User, ticketID, fileName, mimeType string, size int64, r io.Reader) (*domain.Attachment, error) {
	ticket, err := s.viewableTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	if size <= 0 {
		return nil, apperrors.NewValidationError("empty file", nil)
	}
	if size > s.cfg.MaxUploadBytes {
		return nil, apperrors.NewValidationError("file exceeds size limit", map[string]any{
			"size_bytes": size,
			"max_bytes":  s.cfg.MaxUploadBytes,
		})
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	expectedMime, ok := allowedUploadTypes[ext]
	if !ok {
		return nil, apperrors.NewValidationError("file type not allowed", map[string]any{"extension": ext})
	}
	if mimeType != "" && !strings.HasPrefix(mimeType, expectedMime) {
		return nil, apperrors.NewValidationError("content type does not match extension", map[string]any{
			"content_type": mimeType,
			"expected":     expectedMime,
		})
	}

	storageKey := uuid.NewString() + ext
	path := filepath.Join(s.cfg.UploadDir, storageKey)
	written, err := s.writeFile(path, size, r)
	if err != nil {
		return nil, err
	}

	attachment := &domain.Attachment{
		TicketID:     ticket.ID,
		UploadedByID: actor.ID,
		FileName:     sanitizeFileName(fileName),
		StorageKey:   storageKey,
		MimeType:     expectedMime,
		SizeBytes:    written,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		_ = os.Remove(path)
		return nil, apperrors.MapError(err)
	}
	return attachment, nil
}

// Open returns the attachment metadata and a reader over its content. The
// caller owns the reader and must close it.
func (s *FileService) Open(ctx context.Context, actor *domain.User, attachmentID string) (*domain.Attachment, io.ReadCloser, error) {
	attachment, err := s.attachments.GetByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("attachment", map[string]any{"attachment_id": attachmentID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	if _, err := s.viewableTicket(ctx, actor, attachment.TicketID); err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filepath.Join(s.cfg.UploadDir, attachment.StorageKey))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, apperrors.NewNotFound("attachment content", map[string]any{"attachment_id": attachmentID})
		}
		return nil, nil, apperrors.NewInternalError(err)
	}
	return attachment, file, nil
}

// ListByTicket returns attachment metadata for a viewable ticket.
func (s *FileService) ListByTicket(ctx context.Context, actor *domain.User, ticketID string) ([]domain.Attachment, error) {
	if _, err := s.viewableTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticketID)
	return attachments, apperrors.MapError(err)
}

func (s *FileService) viewableTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !access.CanViewTicket(actor.Role, ticket.OwnerID == actor.ID, isAssignee(ticket, actor.ID)) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

func (s *FileService) writeFile(path string, limit int64, r io.Reader) (int64, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	defer out.Close()

	// LimitReader with one extra byte detects senders lying about size.
	written, err := io.Copy(out, io.LimitReader(r, limit+1))
	if err != nil {
		_ = os.Remove(path)
		return 0, apperrors.NewInternalError(err)
	}
	if written > limit {
		_ = os.Remove(path)
		return 0, apperrors.NewValidationError("file exceeds declared size", nil)
	}
	return written, nil
}

func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "upload"
	}
	return name
}
