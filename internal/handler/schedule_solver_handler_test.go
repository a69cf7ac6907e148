package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-adp-api/internal/dto"
	"github.com/noah-isme/sma-adp-api/internal/middleware"
	"github.com/noah-isme/sma-adp-api/internal/models"
)

type scheduleSolverServiceMock struct {
	solveResp    *dto.SolveResponse
	solveErr     error
	asyncResp    *dto.ScheduleSolveJobResponse
	asyncErr     error
	statusResp   *dto.ScheduleSolveStatusResponse
	statusErr    error
	validateResp *dto.ValidateMoveResponse
	validateErr  error
	exportData   []byte
	exportType   string
	exportErr    error
}

func (m *scheduleSolverServiceMock) Solve(ctx context.Context, req dto.SolveRequest) (*dto.SolveResponse, error) {
	return m.solveResp, m.solveErr
}

func (m *scheduleSolverServiceMock) CreateAsyncJob(ctx context.Context, req dto.SolveRequest, actorID string) (*dto.ScheduleSolveJobResponse, error) {
	return m.asyncResp, m.asyncErr
}

func (m *scheduleSolverServiceMock) JobStatus(ctx context.Context, id string) (*dto.ScheduleSolveStatusResponse, error) {
	return m.statusResp, m.statusErr
}

func (m *scheduleSolverServiceMock) ValidateMove(ctx context.Context, req dto.ValidateMoveRequest) (*dto.ValidateMoveResponse, error) {
	return m.validateResp, m.validateErr
}

func (m *scheduleSolverServiceMock) ExportResult(result dto.SolveResponse, format string) ([]byte, string, error) {
	return m.exportData, m.exportType, m.exportErr
}

func newSolverGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestScheduleSolverHandlerSolveSync(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleSolverServiceMock{solveResp: &dto.SolveResponse{FitnessScore: 0.9}}
	h := NewScheduleSolverHandler(mockSvc)

	payload, _ := json.Marshal(dto.SolveRequest{TermID: "term-1"})
	c, w := newSolverGinContext(http.MethodPost, "/schedules/solve", payload)

	h.Solve(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestScheduleSolverHandlerSolveAsyncRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleSolverServiceMock{asyncResp: &dto.ScheduleSolveJobResponse{ID: "job-1"}}
	h := NewScheduleSolverHandler(mockSvc)

	payload, _ := json.Marshal(dto.SolveRequest{TermID: "term-1", Async: true})
	c, w := newSolverGinContext(http.MethodPost, "/schedules/solve", payload)

	h.Solve(c)
	require.NotEqual(t, http.StatusAccepted, w.Code)
}

func TestScheduleSolverHandlerSolveAsync(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleSolverServiceMock{asyncResp: &dto.ScheduleSolveJobResponse{ID: "job-1", Status: "QUEUED"}}
	h := NewScheduleSolverHandler(mockSvc)

	payload, _ := json.Marshal(dto.SolveRequest{TermID: "term-1", Async: true})
	c, w := newSolverGinContext(http.MethodPost, "/schedules/solve", payload)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	h.Solve(c)
	require.Equal(t, http.StatusAccepted, w.Code)
}

func TestScheduleSolverHandlerJobStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleSolverServiceMock{statusResp: &dto.ScheduleSolveStatusResponse{ID: "job-1", Status: "FINISHED"}}
	h := NewScheduleSolverHandler(mockSvc)

	c, w := newSolverGinContext(http.MethodGet, "/schedules/solve/job-1", nil)
	c.Params = gin.Params{{Key: "jobId", Value: "job-1"}}

	h.JobStatus(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestScheduleSolverHandlerValidateMove(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleSolverServiceMock{validateResp: &dto.ValidateMoveResponse{Valid: true}}
	h := NewScheduleSolverHandler(mockSvc)

	payload, _ := json.Marshal(dto.ValidateMoveRequest{TermID: "term-1"})
	c, w := newSolverGinContext(http.MethodPost, "/schedules/solve/validate-move", payload)

	h.ValidateMove(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestScheduleSolverHandlerExportJobResultNoResult(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleSolverServiceMock{statusResp: &dto.ScheduleSolveStatusResponse{ID: "job-1", Status: "PROCESSING"}}
	h := NewScheduleSolverHandler(mockSvc)

	c, w := newSolverGinContext(http.MethodGet, "/schedules/solve/job-1/export", nil)
	c.Params = gin.Params{{Key: "jobId", Value: "job-1"}}

	h.ExportJobResult(c)
	require.NotEqual(t, http.StatusOK, w.Code)
}

func TestScheduleSolverHandlerExportJobResult(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleSolverServiceMock{
		statusResp: &dto.ScheduleSolveStatusResponse{ID: "job-1", Status: "FINISHED", Result: &dto.SolveResponse{}},
		exportData: []byte("course,instructor\n"),
		exportType: "text/csv",
	}
	h := NewScheduleSolverHandler(mockSvc)

	c, w := newSolverGinContext(http.MethodGet, "/schedules/solve/job-1/export", nil)
	c.Params = gin.Params{{Key: "jobId", Value: "job-1"}}

	h.ExportJobResult(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "course,instructor")
}
