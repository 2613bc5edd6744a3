package fraud

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/config"
)

// MockRepository is a mock implementation of RepositoryInterface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateAlert(ctx context.Context, alert *ModerationAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockRepository) GetAlertByID(ctx context.Context, id uuid.UUID) (*ModerationAlert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ModerationAlert), args.Error(1)
}

func (m *MockRepository) ListAlerts(ctx context.Context, status AlertStatus, limit, offset int64) ([]*ModerationAlert, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*ModerationAlert), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ResolveAlert(ctx context.Context, id uuid.UUID, status AlertStatus, reviewerID uuid.UUID, notes string) (*ModerationAlert, error) {
	args := m.Called(ctx, id, status, reviewerID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ModerationAlert), args.Error(1)
}

// MockPublisher records published events
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(subject string, payload interface{}) {
	m.Called(subject, payload)
}

func newTestService(mode string, repo RepositoryInterface, publisher EventPublisher) *Service {
	engine := NewEngine(config.FraudConfig{Mode: mode, MaxInputSize: 4096})
	return NewService(engine, repo, publisher)
}

func TestCheckMessage_LowRiskRecordsNothing(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)
	service := newTestService(ModeProduction, repo, publisher)

	verdict := service.CheckMessage(context.Background(), CheckRequest{
		Content: "Is the bike still available this weekend?",
	})

	assert.Equal(t, RiskLevelLow, verdict.RiskLevel)
	repo.AssertNotCalled(t, "CreateAlert")
	publisher.AssertNotCalled(t, "Publish")
}

func TestCheckMessage_CriticalRecordsAlertAndPublishes(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)
	service := newTestService(ModeProduction, repo, publisher)

	senderID := uuid.New()
	conversationID := uuid.New()

	repo.On("CreateAlert", mock.Anything, mock.MatchedBy(func(alert *ModerationAlert) bool {
		return alert.Status == AlertStatusPending &&
			alert.RiskLevel == RiskLevelCritical &&
			alert.Blocked &&
			alert.SenderID != nil && *alert.SenderID == senderID &&
			alert.ConversationID != nil && *alert.ConversationID == conversationID
	})).Return(nil)
	publisher.On("Publish", SubjectFraudAlert, mock.Anything).Return()

	verdict := service.CheckMessage(context.Background(), CheckRequest{
		Content:        criticalScamMessage,
		SenderID:       senderID.String(),
		ConversationID: conversationID.String(),
	})

	assert.Equal(t, RiskLevelCritical, verdict.RiskLevel)
	assert.True(t, verdict.Blocked)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCheckMessage_HighRiskRecordsAlert(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(ModeProduction, repo, nil)

	repo.On("CreateAlert", mock.Anything, mock.MatchedBy(func(alert *ModerationAlert) bool {
		return alert.RiskLevel == RiskLevelHigh && !alert.Blocked
	})).Return(nil)

	verdict := service.CheckMessage(context.Background(), CheckRequest{
		Content: "I only accept payment by wire transfer before pickup.",
	})

	assert.Equal(t, RiskLevelHigh, verdict.RiskLevel)
	repo.AssertExpectations(t)
}

func TestCheckMessage_RepositoryFailureDoesNotChangeVerdict(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)
	service := newTestService(ModeProduction, repo, publisher)

	repo.On("CreateAlert", mock.Anything, mock.Anything).Return(errors.New("db down"))

	verdict := service.CheckMessage(context.Background(), CheckRequest{
		Content: criticalScamMessage,
	})

	assert.Equal(t, RiskLevelCritical, verdict.RiskLevel)
	assert.True(t, verdict.Blocked)
	// No event when the alert could not be recorded
	publisher.AssertNotCalled(t, "Publish")
}

func TestCheckMessage_InvalidIdentifiersAreDropped(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(ModeProduction, repo, nil)

	repo.On("CreateAlert", mock.Anything, mock.MatchedBy(func(alert *ModerationAlert) bool {
		return alert.SenderID == nil && alert.ConversationID == nil
	})).Return(nil)

	service.CheckMessage(context.Background(), CheckRequest{
		Content:  criticalScamMessage,
		SenderID: "not-a-uuid",
	})

	repo.AssertExpectations(t)
}

func TestResolveAlert(t *testing.T) {
	tests := []struct {
		name       string
		confirmed  bool
		wantStatus AlertStatus
	}{
		{"confirmed fraud", true, AlertStatusConfirmed},
		{"false positive", false, AlertStatusFalsePositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			service := newTestService(ModeProduction, repo, nil)

			alertID := uuid.New()
			reviewerID := uuid.New()
			resolved := &ModerationAlert{ID: alertID, Status: tt.wantStatus}

			repo.On("ResolveAlert", mock.Anything, alertID, tt.wantStatus, reviewerID, "checked listing history").
				Return(resolved, nil)

			alert, err := service.ResolveAlert(context.Background(), alertID, reviewerID, ResolveAlertRequest{
				Confirmed: tt.confirmed,
				Notes:     "checked listing history",
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, alert.Status)
			repo.AssertExpectations(t)
		})
	}
}

func TestListAlerts(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(ModeProduction, repo, nil)

	expected := []*ModerationAlert{{ID: uuid.New(), Status: AlertStatusPending}}
	repo.On("ListAlerts", mock.Anything, AlertStatusPending, int64(20), int64(0)).
		Return(expected, int64(1), nil)

	alerts, total, err := service.ListAlerts(context.Background(), AlertStatusPending, 20, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, expected, alerts)
	repo.AssertExpectations(t)
}
