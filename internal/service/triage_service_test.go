package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func newTriageServiceForTest(users ...domain.User) (*TriageService, *fakeTriageLogRepo) {
	logs := &fakeTriageLogRepo{}
	svc := NewTriageService(TriageDependencies{
		UserRepo:   newFakeUserRepo(users...),
		LogRepo:    logs,
		Picker:     headPicker{},
		Dispatcher: &capturingDispatcher{},
	})
	return svc, logs
}

func TestPredictRejectsEmptyInput(t *testing.T) {
	svc, _ := newTriageServiceForTest()

	_, err := svc.Predict(context.Background(), "  ", "")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestPredictWithEmptyStaffPool(t *testing.T) {
	svc, _ := newTriageServiceForTest()

	prediction, err := svc.Predict(context.Background(), "Critical system down", "nothing works")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityCritical, prediction.SuggestedPriority)
	assert.Nil(t, prediction.SuggestedAssigneeID)
}

func TestPredictPrefersAdminsForCriticalWork(t *testing.T) {
	staffAgent := domain.User{ID: "agent-1", Role: domain.RoleAgent}
	staffAdmin := domain.User{ID: "admin-1", Role: domain.RoleAdmin}
	svc, _ := newTriageServiceForTest(staffAgent, staffAdmin)

	prediction, err := svc.Predict(context.Background(), "Critical database down", "production outage")
	require.NoError(t, err)
	require.NotNil(t, prediction.SuggestedAssigneeID)
	assert.Equal(t, "admin-1", *prediction.SuggestedAssigneeID)
}

func TestPredictSuggestsAgentForRoutineWork(t *testing.T) {
	staffAgent := domain.User{ID: "agent-1", Role: domain.RoleAgent}
	svc, _ := newTriageServiceForTest(staffAgent)

	prediction, err := svc.Predict(context.Background(), "question about invoice", "where can I find it")
	require.NoError(t, err)
	require.NotNil(t, prediction.SuggestedAssigneeID)
	assert.Equal(t, "agent-1", *prediction.SuggestedAssigneeID)
	assert.Equal(t, domain.TicketPriorityLow, prediction.SuggestedPriority)
}

func TestLogPredictionPersistsAuditRecord(t *testing.T) {
	svc, _ := newTriageServiceForTest()

	prediction, err := svc.Predict(context.Background(), "server error", "500s on checkout")
	require.NoError(t, err)

	ticketID := "ticket-9"
	record, err := svc.LogPrediction(context.Background(), &ticketID, "server error", "500s on checkout", prediction)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, prediction.SuggestedPriority, record.PredictedPriority)
	assert.Equal(t, prediction.Category, record.PredictedCategory)

	history, err := svc.History(context.Background(), ticketID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, record.ID, history[0].ID)
}

func TestModelInfoDescribesHeuristic(t *testing.T) {
	svc, _ := newTriageServiceForTest()

	info := svc.ModelInfo()
	assert.Equal(t, "keyword-heuristic", info["model_type"])
	categories, ok := info["categories"].([]string)
	require.True(t, ok)
	assert.Contains(t, categories, "Authentication")
	assert.Contains(t, categories, "General")
}
