package fraud

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/middleware"
)

// MockService is a mock implementation of ServiceInterface
type MockService struct {
	mock.Mock
}

func (m *MockService) CheckMessage(ctx context.Context, req CheckRequest) Verdict {
	args := m.Called(ctx, req)
	return args.Get(0).(Verdict)
}

func (m *MockService) ListAlerts(ctx context.Context, status AlertStatus, limit, offset int64) ([]*ModerationAlert, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*ModerationAlert), args.Get(1).(int64), args.Error(2)
}

func (m *MockService) GetAlert(ctx context.Context, id uuid.UUID) (*ModerationAlert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ModerationAlert), args.Error(1)
}

func (m *MockService) ResolveAlert(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID, req ResolveAlertRequest) (*ModerationAlert, error) {
	args := m.Called(ctx, id, reviewerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ModerationAlert), args.Error(1)
}

func setupHandlerTest(service ServiceInterface, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(service)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID.String())
		c.Next()
	})

	router.POST("/fraud/check", handler.CheckMessage)
	router.GET("/fraud/alerts", handler.ListAlerts)
	router.GET("/fraud/alerts/:id", handler.GetAlert)
	router.PUT("/fraud/alerts/:id/resolve", handler.ResolveAlert)
	return router
}

func TestHandler_CheckMessage(t *testing.T) {
	service := new(MockService)
	router := setupHandlerTest(service, uuid.New())

	verdict := Verdict{
		Score:     15,
		RiskLevel: RiskLevelMedium,
		Flags:     []string{FlagPriceManipulation},
		Reasons:   []string{"Price or payment terms engineered to pressure the buyer"},
		Warning:   "warning",
	}
	service.On("CheckMessage", mock.Anything, mock.MatchedBy(func(req CheckRequest) bool {
		return req.Content == "cash only deal"
	})).Return(verdict)

	body, _ := json.Marshal(CheckRequest{Content: "cash only deal"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/fraud/check", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool          `json:"success"`
		Data    CheckResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, verdict, resp.Data.FraudScore)
	service.AssertExpectations(t)
}

func TestHandler_CheckMessage_MalformedBodyFailsOpen(t *testing.T) {
	service := new(MockService)
	router := setupHandlerTest(service, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/fraud/check", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool          `json:"success"`
		Data    CheckResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 0, resp.Data.FraudScore.Score)
	assert.Equal(t, RiskLevelLow, resp.Data.FraudScore.RiskLevel)
	assert.False(t, resp.Data.FraudScore.Blocked)
	service.AssertNotCalled(t, "CheckMessage")
}

func TestHandler_ListAlerts(t *testing.T) {
	service := new(MockService)
	router := setupHandlerTest(service, uuid.New())

	alerts := []*ModerationAlert{{ID: uuid.New(), Status: AlertStatusPending}}
	service.On("ListAlerts", mock.Anything, AlertStatusPending, int64(20), int64(0)).
		Return(alerts, int64(1), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/fraud/alerts?status=pending", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Meta    struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(1), resp.Meta.Total)
	service.AssertExpectations(t)
}

func TestHandler_ListAlerts_InvalidStatus(t *testing.T) {
	service := new(MockService)
	router := setupHandlerTest(service, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/fraud/alerts?status=bogus", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "ListAlerts")
}

func TestHandler_ResolveAlert(t *testing.T) {
	service := new(MockService)
	reviewerID := uuid.New()
	router := setupHandlerTest(service, reviewerID)

	alertID := uuid.New()
	resolved := &ModerationAlert{ID: alertID, Status: AlertStatusConfirmed}
	service.On("ResolveAlert", mock.Anything, alertID, reviewerID, ResolveAlertRequest{Confirmed: true}).
		Return(resolved, nil)

	body, _ := json.Marshal(ResolveAlertRequest{Confirmed: true})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/fraud/alerts/"+alertID.String()+"/resolve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}

func TestHandler_GetAlert_InvalidID(t *testing.T) {
	service := new(MockService)
	router := setupHandlerTest(service, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/fraud/alerts/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "GetAlert")
}
