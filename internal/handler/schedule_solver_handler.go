package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-adp-api/internal/dto"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
	"github.com/noah-isme/sma-adp-api/pkg/response"
)

// scheduleSolverService is the subset of ScheduleSolverService the handler drives.
type scheduleSolverService interface {
	Solve(ctx context.Context, req dto.SolveRequest) (*dto.SolveResponse, error)
	CreateAsyncJob(ctx context.Context, req dto.SolveRequest, actorID string) (*dto.ScheduleSolveJobResponse, error)
	JobStatus(ctx context.Context, id string) (*dto.ScheduleSolveStatusResponse, error)
	ValidateMove(ctx context.Context, req dto.ValidateMoveRequest) (*dto.ValidateMoveResponse, error)
	ExportResult(result dto.SolveResponse, format string) ([]byte, string, error)
}

// ScheduleSolverHandler exposes the constraint solver over HTTP.
type ScheduleSolverHandler struct {
	solver scheduleSolverService
}

// NewScheduleSolverHandler constructs the handler.
func NewScheduleSolverHandler(solver scheduleSolverService) *ScheduleSolverHandler {
	return &ScheduleSolverHandler{solver: solver}
}

// Solve godoc
// @Summary Solve a timetable
// @Description Runs the constraint solver against the supplied snapshot. Set async=true to queue it and poll /schedules/solve/{jobId} instead of blocking.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.SolveRequest true "Solve request"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Router /schedules/solve [post]
func (h *ScheduleSolverHandler) Solve(c *gin.Context) {
	if h.solver == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "solver service not configured"))
		return
	}
	var req dto.SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid solve payload"))
		return
	}

	if req.Async {
		claims := claimsFromContext(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		job, err := h.solver.CreateAsyncJob(c.Request.Context(), req, claims.UserID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusAccepted, job, nil)
		return
	}

	result, err := h.solver.Solve(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ValidateMove godoc
// @Summary Validate a proposed assignment move
// @Description Checks whether moving one assignment to a new day/time/room would break a hard constraint, without re-solving.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.ValidateMoveRequest true "Move request"
// @Success 200 {object} response.Envelope
// @Router /schedules/solve/validate-move [post]
func (h *ScheduleSolverHandler) ValidateMove(c *gin.Context) {
	if h.solver == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "solver service not configured"))
		return
	}
	var req dto.ValidateMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid move payload"))
		return
	}
	result, err := h.solver.ValidateMove(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// JobStatus godoc
// @Summary Get async solve job status
// @Tags Scheduler
// @Produce json
// @Param jobId path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/solve/{jobId} [get]
func (h *ScheduleSolverHandler) JobStatus(c *gin.Context) {
	if h.solver == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "solver service not configured"))
		return
	}
	status, err := h.solver.JobStatus(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// ExportJobResult godoc
// @Summary Export a finished async solve job's result
// @Tags Scheduler
// @Produce octet-stream
// @Param jobId path string true "Job ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /schedules/solve/{jobId}/export [get]
func (h *ScheduleSolverHandler) ExportJobResult(c *gin.Context) {
	if h.solver == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "solver service not configured"))
		return
	}
	status, err := h.solver.JobStatus(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if status.Result == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrConflict, "solve job has no finished result yet"))
		return
	}
	format := c.DefaultQuery("format", "csv")
	data, contentType, err := h.solver.ExportResult(*status.Result, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"timetable-%s.%s\"", status.ID, format))
	c.Data(http.StatusOK, contentType, data)
}
