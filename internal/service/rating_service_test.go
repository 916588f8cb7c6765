package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func newRatingServiceForTest() (*RatingService, *fakeTicketRepo, *fakeRatingRepo, *capturingDispatcher) {
	ticketRepo := newFakeTicketRepo()
	ratingRepo := newFakeRatingRepo()
	dispatcher := &capturingDispatcher{}
	svc := NewRatingService(RatingDependencies{
		TicketRepo: ticketRepo,
		RatingRepo: ratingRepo,
		TxManager:  passthroughTx{},
		Dispatcher: dispatcher,
	})
	return svc, ticketRepo, ratingRepo, dispatcher
}

func seedTicket(t *testing.T, repo *fakeTicketRepo, ownerID string, status domain.TicketStatus) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		OwnerID:     ownerID,
		Title:       "Seeded",
		Description: "Seeded ticket",
		Status:      status,
		Priority:    domain.TicketPriorityMedium,
	}
	require.NoError(t, repo.Create(context.Background(), ticket))
	return ticket
}

func TestRateTicketRejectsOutOfRangeScore(t *testing.T) {
	svc, repo, _, _ := newRatingServiceForTest()
	ticket := seedTicket(t, repo, "owner", domain.TicketStatusResolved)

	_, err := svc.RateTicket(context.Background(), endUser("owner"), ticket.ID, 0, "")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = svc.RateTicket(context.Background(), endUser("owner"), ticket.ID, 6, "")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestRateTicketRequiresTerminalStatus(t *testing.T) {
	svc, repo, _, _ := newRatingServiceForTest()
	ticket := seedTicket(t, repo, "owner", domain.TicketStatusOpen)

	_, err := svc.RateTicket(context.Background(), endUser("owner"), ticket.ID, 4, "")
	assert.True(t, apperrors.IsCode(err, "INVALID_STATE"))
}

func TestRateTicketOwnerOnly(t *testing.T) {
	svc, repo, _, _ := newRatingServiceForTest()
	ticket := seedTicket(t, repo, "owner", domain.TicketStatusResolved)

	_, err := svc.RateTicket(context.Background(), endUser("stranger"), ticket.ID, 4, "")
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	// staff can close tickets but never rate someone else's experience
	_, err = svc.RateTicket(context.Background(), agent("agent-1"), ticket.ID, 4, "")
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestRateTicketCreatesAndMirrors(t *testing.T) {
	svc, repo, _, dispatcher := newRatingServiceForTest()
	ticket := seedTicket(t, repo, "owner", domain.TicketStatusClosed)

	rating, err := svc.RateTicket(context.Background(), endUser("owner"), ticket.ID, 5, "great support")
	require.NoError(t, err)
	assert.Equal(t, 5, rating.Score)
	assert.Equal(t, "great support", rating.Feedback)

	stored, err := repo.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Rating)
	assert.Equal(t, 5, *stored.Rating)
	assert.NotNil(t, stored.ResolvedAt)

	captured := dispatcher.captured()
	require.Len(t, captured, 1)
	assert.Equal(t, events.EventTicketRated, captured[0].Type)
}

func TestRateTicketTwiceUpdatesInPlace(t *testing.T) {
	svc, repo, ratings, _ := newRatingServiceForTest()
	ticket := seedTicket(t, repo, "owner", domain.TicketStatusResolved)

	first, err := svc.RateTicket(context.Background(), endUser("owner"), ticket.ID, 2, "slow")
	require.NoError(t, err)

	second, err := svc.RateTicket(context.Background(), endUser("owner"), ticket.ID, 4, "better after follow-up")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	stored, err := ratings.GetByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Score)
	assert.Equal(t, "better after follow-up", stored.Feedback)

	mirrored, err := repo.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, mirrored.Rating)
	assert.Equal(t, 4, *mirrored.Rating)
}

func TestRateTicketStampsMissingResolvedAt(t *testing.T) {
	svc, repo, _, _ := newRatingServiceForTest()
	ticket := seedTicket(t, repo, "owner", domain.TicketStatusResolved)
	require.Nil(t, ticket.ResolvedAt)

	_, err := svc.RateTicket(context.Background(), endUser("owner"), ticket.ID, 3, "")
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.ResolvedAt)
}

func TestRateTicketUnknownTicket(t *testing.T) {
	svc, _, _, _ := newRatingServiceForTest()

	_, err := svc.RateTicket(context.Background(), endUser("owner"), "missing", 3, "")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
