package verification

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/websocket"
)

// MockRepository is a mock implementation of RepositoryInterface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateAttempt(ctx context.Context, attempt *Attempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockRepository) GetLatestAttemptByUser(ctx context.Context, userID uuid.UUID) (*Attempt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Attempt), args.Error(1)
}

func (m *MockRepository) GetAttemptBySessionID(ctx context.Context, sessionID string) (*Attempt, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Attempt), args.Error(1)
}

func (m *MockRepository) CompleteAttempt(ctx context.Context, sessionID string, status Status, reason string) (*Attempt, error) {
	args := m.Called(ctx, sessionID, status, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Attempt), args.Error(1)
}

// MockHub is a mock implementation of HubInterface
type MockHub struct {
	mock.Mock
}

func (m *MockHub) SendToUser(userID string, msg *websocket.Message) {
	m.Called(userID, msg)
}

// MockPublisher records published events
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(subject string, payload interface{}) {
	m.Called(subject, payload)
}

var errNoAttempt = common.NewNotFoundError("no verification attempt found", nil)

func TestStartAttempt_FirstAttempt(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, nil, nil)
	userID := uuid.New()

	repo.On("GetLatestAttemptByUser", mock.Anything, userID).Return(nil, errNoAttempt)
	repo.On("CreateAttempt", mock.Anything, mock.MatchedBy(func(a *Attempt) bool {
		return a.UserID == userID && a.Status == StatusPending && a.SessionID != ""
	})).Return(nil)

	attempt, err := service.StartAttempt(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, StatusPending, attempt.Status)
	repo.AssertExpectations(t)
}

func TestStartAttempt_RetryAfterFailure(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, nil, nil)
	userID := uuid.New()

	repo.On("GetLatestAttemptByUser", mock.Anything, userID).
		Return(&Attempt{UserID: userID, Status: StatusFailed}, nil)
	repo.On("CreateAttempt", mock.Anything, mock.Anything).Return(nil)

	_, err := service.StartAttempt(context.Background(), userID)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestStartAttempt_Conflicts(t *testing.T) {
	for _, status := range []Status{StatusApproved, StatusPending} {
		repo := new(MockRepository)
		service := NewService(repo, nil, nil)
		userID := uuid.New()

		repo.On("GetLatestAttemptByUser", mock.Anything, userID).
			Return(&Attempt{UserID: userID, Status: status}, nil)

		_, err := service.StartAttempt(context.Background(), userID)

		var appErr *common.AppError
		require.ErrorAs(t, err, &appErr, "status %s", status)
		assert.Equal(t, http.StatusConflict, appErr.StatusCode)
		repo.AssertNotCalled(t, "CreateAttempt")
	}
}

func TestHandleCallback_ApprovalNotifiesUser(t *testing.T) {
	repo := new(MockRepository)
	hub := new(MockHub)
	publisher := new(MockPublisher)
	service := NewService(repo, hub, publisher)

	userID := uuid.New()
	now := time.Now().UTC()
	settled := &Attempt{
		ID:          uuid.New(),
		UserID:      userID,
		SessionID:   "session-1",
		Status:      StatusApproved,
		CompletedAt: &now,
	}

	repo.On("GetAttemptBySessionID", mock.Anything, "session-1").
		Return(&Attempt{ID: settled.ID, UserID: userID, SessionID: "session-1", Status: StatusPending}, nil)
	repo.On("CompleteAttempt", mock.Anything, "session-1", StatusApproved, "").Return(settled, nil)
	hub.On("SendToUser", userID.String(), mock.MatchedBy(func(msg *websocket.Message) bool {
		return msg.Type == "verification.updated"
	})).Return()
	publisher.On("Publish", SubjectVerificationReviewed, mock.Anything).Return()

	attempt, err := service.HandleCallback(context.Background(), CallbackRequest{
		SessionID: "session-1",
		Approved:  true,
	})

	require.NoError(t, err)
	assert.Equal(t, StatusApproved, attempt.Status)
	hub.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestHandleCallback_RejectionRecordsReason(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, nil, nil)

	settled := &Attempt{ID: uuid.New(), UserID: uuid.New(), Status: StatusFailed, Reason: "document unreadable"}
	repo.On("GetAttemptBySessionID", mock.Anything, "session-2").
		Return(&Attempt{ID: settled.ID, UserID: settled.UserID, SessionID: "session-2", Status: StatusPending}, nil)
	repo.On("CompleteAttempt", mock.Anything, "session-2", StatusFailed, "document unreadable").Return(settled, nil)

	attempt, err := service.HandleCallback(context.Background(), CallbackRequest{
		SessionID: "session-2",
		Approved:  false,
		Reason:    "document unreadable",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusFailed, attempt.Status)
}

func TestHandleCallback_MissingSessionID(t *testing.T) {
	service := NewService(new(MockRepository), nil, nil)

	_, err := service.HandleCallback(context.Background(), CallbackRequest{Approved: true})

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
}

func TestHandleCallback_UnknownSession(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, nil, nil)

	repo.On("GetAttemptBySessionID", mock.Anything, "session-gone").
		Return(nil, common.NewNotFoundError("verification attempt not found", nil))

	_, err := service.HandleCallback(context.Background(), CallbackRequest{SessionID: "session-gone", Approved: true})

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
	repo.AssertNotCalled(t, "CompleteAttempt")
}

func TestHandleCallback_AlreadySettled(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, nil, nil)

	repo.On("GetAttemptBySessionID", mock.Anything, "session-3").
		Return(&Attempt{ID: uuid.New(), SessionID: "session-3", Status: StatusApproved}, nil)

	_, err := service.HandleCallback(context.Background(), CallbackRequest{SessionID: "session-3", Approved: false})

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.StatusCode)
	repo.AssertNotCalled(t, "CompleteAttempt")
}

func TestGetStatus_NoAttempts(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, nil, nil)
	userID := uuid.New()

	repo.On("GetLatestAttemptByUser", mock.Anything, userID).Return(nil, errNoAttempt)

	status, err := service.GetStatus(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, StatusUnverified, status.Status)
	assert.Nil(t, status.AttemptID)
}

func TestIsVerified(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusApproved, true},
		{StatusPending, false},
		{StatusFailed, false},
	}

	for _, tt := range tests {
		repo := new(MockRepository)
		service := NewService(repo, nil, nil)
		userID := uuid.New()

		repo.On("GetLatestAttemptByUser", mock.Anything, userID).
			Return(&Attempt{ID: uuid.New(), UserID: userID, Status: tt.status}, nil)

		verified, err := service.IsVerified(context.Background(), userID)

		require.NoError(t, err)
		assert.Equal(t, tt.want, verified, "status %s", tt.status)
	}
}
