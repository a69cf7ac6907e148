package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// ScheduleSolveJobRepository persists asynchronous solve job metadata.
type ScheduleSolveJobRepository struct {
	db *sqlx.DB
}

// NewScheduleSolveJobRepository constructs the repository.
func NewScheduleSolveJobRepository(db *sqlx.DB) *ScheduleSolveJobRepository {
	return &ScheduleSolveJobRepository{db: db}
}

// Create inserts a new solve job row with generated defaults.
func (r *ScheduleSolveJobRepository) Create(ctx context.Context, job *models.ScheduleSolveJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.ScheduleSolveStatusQueued
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO schedule_solve_jobs (id, term_id, status, progress, request_payload, result_payload, created_by, created_at, finished_at, error_message)
VALUES (:id, :term_id, :status, :progress, :request_payload, :result_payload, :created_by, :created_at, :finished_at, :error_message)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create schedule solve job: %w", err)
	}
	return nil
}

// GetByID returns a job row by its identifier.
func (r *ScheduleSolveJobRepository) GetByID(ctx context.Context, id string) (*models.ScheduleSolveJob, error) {
	const query = `SELECT id, term_id, status, progress, request_payload, result_payload, created_by, created_at, finished_at, error_message
FROM schedule_solve_jobs WHERE id = $1`
	var job models.ScheduleSolveJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, fmt.Errorf("get schedule solve job: %w", err)
	}
	return &job, nil
}

// UpdateScheduleSolveJobParams defines the mutable fields.
type UpdateScheduleSolveJobParams struct {
	Status         *models.ScheduleSolveStatus
	Progress       *int
	ResultPayload  *models.ScheduleSolvePayload
	ErrorMessage   *string
	FinishedAt     *time.Time
}

// Update persists the provided changes for a job row.
func (r *ScheduleSolveJobRepository) Update(ctx context.Context, id string, params UpdateScheduleSolveJobParams) error {
	set := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	argPos := 1

	if params.Status != nil {
		set = append(set, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *params.Status)
		argPos++
	}
	if params.Progress != nil {
		set = append(set, fmt.Sprintf("progress = $%d", argPos))
		args = append(args, *params.Progress)
		argPos++
	}
	if params.ResultPayload != nil {
		set = append(set, fmt.Sprintf("result_payload = $%d", argPos))
		args = append(args, *params.ResultPayload)
		argPos++
	}
	if params.ErrorMessage != nil {
		set = append(set, fmt.Sprintf("error_message = $%d", argPos))
		args = append(args, *params.ErrorMessage)
		argPos++
	}
	if params.FinishedAt != nil {
		set = append(set, fmt.Sprintf("finished_at = $%d", argPos))
		args = append(args, *params.FinishedAt)
		argPos++
	}

	if len(set) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE schedule_solve_jobs SET %s WHERE id = $%d", strings.Join(set, ", "), argPos)
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update schedule solve job: %w", err)
	}
	return nil
}

// ListQueued fetches queued jobs (used for cold start recovery).
func (r *ScheduleSolveJobRepository) ListQueued(ctx context.Context, limit int) ([]models.ScheduleSolveJob, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT id, term_id, status, progress, request_payload, result_payload, created_by, created_at, finished_at, error_message
FROM schedule_solve_jobs WHERE status = 'QUEUED' ORDER BY created_at ASC LIMIT $1`
	var jobs []models.ScheduleSolveJob
	if err := r.db.SelectContext(ctx, &jobs, query, limit); err != nil {
		return nil, fmt.Errorf("list queued schedule solve jobs: %w", err)
	}
	return jobs, nil
}
