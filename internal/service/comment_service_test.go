package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func newCommentServiceForTest() (*CommentService, *fakeTicketRepo) {
	ticketRepo := newFakeTicketRepo()
	svc := NewCommentService(CommentDependencies{
		CommentRepo: &fakeCommentRepo{},
		TicketRepo:  ticketRepo,
	})
	return svc, ticketRepo
}

type fakeCommentRepo struct {
	seq      int
	comments []domain.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	var result []domain.Comment
	for _, c := range r.comments {
		if c.TicketID == ticketID {
			result = append(result, c)
		}
	}
	return result, nil
}

func TestAddCommentRequiresContent(t *testing.T) {
	svc, repo := newCommentServiceForTest()
	ticket := seedTicket(t, repo, "owner", domain.TicketStatusOpen)

	_, err := svc.AddComment(context.Background(), endUser("owner"), ticket.ID, "   ")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestAddCommentFollowsViewPolicy(t *testing.T) {
	svc, repo := newCommentServiceForTest()
	ticket := seedTicket(t, repo, "owner", domain.TicketStatusOpen)

	_, err := svc.AddComment(context.Background(), endUser("stranger"), ticket.ID, "hello")
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	comment, err := svc.AddComment(context.Background(), agent("agent-1"), ticket.ID, "looking into it")
	require.NoError(t, err)
	assert.Equal(t, "agent-1", comment.AuthorID)

	comments, err := svc.ListComments(context.Background(), endUser("owner"), ticket.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "looking into it", comments[0].Content)
}
