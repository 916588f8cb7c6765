package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

type fakeAttachmentRepo struct {
	seq         int
	attachments map[string]domain.Attachment
}

func (r *fakeAttachmentRepo) Create(_ context.Context, attachment *domain.Attachment) error {
	if r.attachments == nil {
		r.attachments = map[string]domain.Attachment{}
	}
	r.seq++
	attachment.ID = fmt.Sprintf("att-%d", r.seq)
	r.attachments[attachment.ID] = *attachment
	return nil
}

func (r *fakeAttachmentRepo) GetByID(_ context.Context, id string) (*domain.Attachment, error) {
	attachment, ok := r.attachments[id]
	if !ok {
		return nil, apperrors.NewNotFound("attachment", nil)
	}
	copied := attachment
	return &copied, nil
}

func (r *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Attachment, error) {
	var result []domain.Attachment
	for _, attachment := range r.attachments {
		if attachment.TicketID == ticketID {
			result = append(result, attachment)
		}
	}
	return result, nil
}

func newFileServiceForTest(t *testing.T) (*FileService, *fakeTicketRepo) {
	t.Helper()
	ticketRepo := newFakeTicketRepo()
	svc, err := NewFileService(FileDependencies{
		AttachmentRepo: &fakeAttachmentRepo{},
		TicketRepo:     ticketRepo,
		Storage: config.StorageConfig{
			UploadDir:      t.TempDir(),
			MaxUploadBytes: 64,
		},
	})
	require.NoError(t, err)
	return svc, ticketRepo
}

func TestUploadStoresAllowedFile(t *testing.T) {
	svc, repo := newFileServiceForTest(t)
	ticket := seedTicket(t, repo, "owner", domain.TicketStatusOpen)

	body := "log line one\nlog line two\n"
	attachment, err := svc.Upload(context.Background(), endUser("owner"), ticket.ID,
		"crash.txt", "text/plain", int64(len(body)), strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "crash.txt", attachment.FileName)
	assert.Equal(t, "text/plain", attachment.MimeType)
	assert.Equal(t, int64(len(body)), attachment.SizeBytes)

	stored, content, err := svc.Open(context.Background(), endUser("owner"), attachment.ID)
	require.NoError(t, err)
	defer content.Close()
	assert.Equal(t, attachment.ID, stored.ID)

	data, err := io.ReadAll(content)
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	svc, repo := newFileServiceForTest(t)
	ticket := seedTicket(t, repo, "owner", domain.TicketStatusOpen)

	_, err := svc.Upload(context.Background(), endUser("owner"), ticket.ID,
		"tool.exe", "application/octet-stream", 10, strings.NewReader("0123456789"))
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc, repo := newFileServiceForTest(t)
	ticket := seedTicket(t, repo, "owner", domain.TicketStatusOpen)

	big := strings.Repeat("x", 65)
	_, err := svc.Upload(context.Background(), endUser("owner"), ticket.ID,
		"big.txt", "text/plain", int64(len(big)), strings.NewReader(big))
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestUploadFollowsViewPolicy(t *testing.T) {
	svc, repo := newFileServiceForTest(t)
	ticket := seedTicket(t, repo, "owner", domain.TicketStatusOpen)

	_, err := svc.Upload(context.Background(), endUser("stranger"), ticket.ID,
		"notes.txt", "text/plain", 5, strings.NewReader("notes"))
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}
