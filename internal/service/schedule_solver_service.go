package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/dto"
	"github.com/noah-isme/sma-adp-api/internal/models"
	"github.com/noah-isme/sma-adp-api/internal/repository"
	"github.com/noah-isme/sma-adp-api/internal/timetable"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
	"github.com/noah-isme/sma-adp-api/pkg/export"
	"github.com/noah-isme/sma-adp-api/pkg/jobs"
)

type scheduleSolveJobStore interface {
	Create(ctx context.Context, job *models.ScheduleSolveJob) error
	GetByID(ctx context.Context, id string) (*models.ScheduleSolveJob, error)
	Update(ctx context.Context, id string, params repository.UpdateScheduleSolveJobParams) error
	ListQueued(ctx context.Context, limit int) ([]models.ScheduleSolveJob, error)
}

type roomLister interface {
	ListActive(ctx context.Context) ([]models.Room, error)
}

type constraintConfigReader interface {
	FindByID(ctx context.Context, id string) (*models.ConstraintConfig, error)
	FindDefault(ctx context.Context, termID string) (*models.ConstraintConfig, error)
}

type solveMetricsRecorder interface {
	ObserveSolveRun(duration time.Duration, iterations int, hardViolations int)
}

// ScheduleSolverDispatcher enqueues async solve jobs; satisfied by pkg/jobs.Queue.
type ScheduleSolverDispatcher interface {
	Enqueue(job jobs.Job) error
}

// ScheduleSolverServiceConfig governs async job defaults and the simulated
// annealing baseline applied whenever a request doesn't override it.
type ScheduleSolverServiceConfig struct {
	DefaultTimeLimitSeconds int
	DefaultSeed             int64
	MaxRetries              int
	DefaultAnnealing        timetable.AnnealingParams
}

// ScheduleSolverService bridges HTTP/persistence and the timetable CORE:
// it builds a timetable.Snapshot from a request, runs the solver or the
// move validator, and translates results back to wire DTOs.
type ScheduleSolverService struct {
	jobs      scheduleSolveJobStore
	rooms     roomLister
	configs   constraintConfigReader
	queue     ScheduleSolverDispatcher
	metrics   solveMetricsRecorder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ScheduleSolverServiceConfig
}

// NewScheduleSolverService constructs the service. cache may be nil or
// disabled; a disabled CacheService is a no-op so the DB remains the
// source of truth.
func NewScheduleSolverService(jobStore scheduleSolveJobStore, rooms roomLister, configs constraintConfigReader, queue ScheduleSolverDispatcher, metrics solveMetricsRecorder, cache *CacheService, validate *validator.Validate, logger *zap.Logger, cfg ScheduleSolverServiceConfig) *ScheduleSolverService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultTimeLimitSeconds <= 0 {
		cfg.DefaultTimeLimitSeconds = 300
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	if cfg.DefaultAnnealing == (timetable.AnnealingParams{}) {
		cfg.DefaultAnnealing = timetable.DefaultAnnealingParams()
	}
	return &ScheduleSolverService{
		jobs:      jobStore,
		rooms:     rooms,
		configs:   configs,
		queue:     queue,
		metrics:   metrics,
		cache:     cache,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// jobCacheKey is the Redis mirror key for a solve job's status, shared by
// every API instance so GET /schedules/solve/:jobId doesn't need to hit
// whichever instance's worker happens to own the job.
func jobCacheKey(id string) string {
	return "schedule:solve:" + id
}

// mirrorJobStatus writes the current job status to the cache mirror; a
// disabled or nil cache is a no-op, so callers never need to branch on it.
func (s *ScheduleSolverService) mirrorJobStatus(ctx context.Context, resp *dto.ScheduleSolveStatusResponse) {
	if s.cache == nil || !s.cache.Enabled() {
		return
	}
	ttl := 30 * time.Minute
	if err := s.cache.Set(ctx, jobCacheKey(resp.ID), resp, ttl); err != nil {
		s.logger.Sugar().Warnw("failed to mirror solve job status", "job_id", resp.ID, "error", err)
	}
}

// SetDispatcher binds the queue after construction, breaking the
// construction cycle between a jobs.Queue (which needs this service's
// RunQueuedJob as its handler) and this service (which needs the queue to
// enqueue new jobs).
func (s *ScheduleSolverService) SetDispatcher(queue ScheduleSolverDispatcher) {
	s.queue = queue
}

// Solve runs the solver synchronously and returns the packaged result.
func (s *ScheduleSolverService) Solve(ctx context.Context, req dto.SolveRequest) (*dto.SolveResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid solve request")
	}
	snapshot, err := s.buildSnapshot(ctx, req.TermID, req.Courses, req.Instructors, req.Rooms, req.Groups, req.ConstraintConfigID, req.Constraints)
	if err != nil {
		return nil, err
	}

	seed := s.cfg.DefaultSeed
	if req.Seed != nil {
		seed = *req.Seed
	}
	timeLimit := req.TimeLimitSeconds
	if timeLimit <= 0 {
		timeLimit = s.cfg.DefaultTimeLimitSeconds
	}

	start := time.Now()
	result, err := timetable.Solve(timetable.SolveRequest{
		Snapshot:         snapshot,
		TimeLimitSeconds: timeLimit,
		Seed:             seed,
	})
	if err != nil {
		return nil, translateCoreError(err)
	}
	elapsed := time.Since(start)
	s.metrics.ObserveSolveRun(elapsed, result.Iterations, result.HardViolationCount)
	s.logger.Sugar().Infow("schedule_solved",
		"term_id", req.TermID,
		"hard_violations", result.HardViolationCount,
		"score", result.FitnessScore,
		"elapsed_seconds", elapsed.Seconds(),
		"cancelled", result.Cancelled,
	)

	response := toSolveResponse(result)
	return &response, nil
}

// CreateAsyncJob validates the request, persists a queued job row, and
// enqueues it for background processing, mirroring ReportService.CreateJob.
func (s *ScheduleSolverService) CreateAsyncJob(ctx context.Context, req dto.SolveRequest, actorID string) (*dto.ScheduleSolveJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid solve request")
	}

	job := &models.ScheduleSolveJob{
		TermID:    req.TermID,
		Status:    models.ScheduleSolveStatusQueued,
		Progress:  0,
		CreatedBy: actorID,
	}
	if err := job.RequestPayload.Encode(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode solve request")
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create solve job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "schedule_solve"}); err != nil {
		failed := models.ScheduleSolveStatusFailed
		msg := "failed to enqueue job"
		now := time.Now().UTC()
		progress := 100
		_ = s.jobs.Update(ctx, job.ID, repository.UpdateScheduleSolveJobParams{
			Status:       &failed,
			Progress:     &progress,
			ErrorMessage: &msg,
			FinishedAt:   &now,
		})
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue solve job")
	}
	s.mirrorJobStatus(ctx, &dto.ScheduleSolveStatusResponse{ID: job.ID, Status: string(job.Status), Progress: job.Progress})
	return &dto.ScheduleSolveJobResponse{ID: job.ID, Status: string(job.Status), Progress: job.Progress}, nil
}

// JobStatus returns the current status of an async solve job, including the
// finished result once it lands. It tries the Redis mirror first so any
// API instance can serve polling requests; a cache miss falls back to the
// database row.
func (s *ScheduleSolverService) JobStatus(ctx context.Context, id string) (*dto.ScheduleSolveStatusResponse, error) {
	if s.cache != nil && s.cache.Enabled() {
		var cached dto.ScheduleSolveStatusResponse
		if hit, err := s.cache.Get(ctx, jobCacheKey(id), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "solve job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load solve job")
	}
	resp := &dto.ScheduleSolveStatusResponse{ID: job.ID, Status: string(job.Status), Progress: job.Progress}
	if job.Status == models.ScheduleSolveStatusFinished {
		var result dto.SolveResponse
		if err := job.ResultPayload.Decode(&result); err == nil {
			resp.Result = &result
		}
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		resp.Error = job.ErrorMessage
	}
	s.mirrorJobStatus(ctx, resp)
	return resp, nil
}

// RunQueuedJob is the pkg/jobs.Handler invoked by the worker pool for each
// enqueued solve job: decode the persisted request, solve, persist the
// result. Grounded on ReportWorker.Handle's processing/finish/fail shape.
func (s *ScheduleSolverService) RunQueuedJob(ctx context.Context, job jobs.Job) error {
	record, err := s.jobs.GetByID(ctx, job.ID)
	if err != nil {
		return err
	}
	var req dto.SolveRequest
	if err := record.RequestPayload.Decode(&req); err != nil {
		return fmt.Errorf("decode solve job payload: %w", err)
	}

	processing := models.ScheduleSolveStatusProcessing
	progress := 10
	if err := s.jobs.Update(ctx, job.ID, repository.UpdateScheduleSolveJobParams{Status: &processing, Progress: &progress}); err != nil {
		return err
	}
	s.mirrorJobStatus(ctx, &dto.ScheduleSolveStatusResponse{ID: job.ID, Status: string(processing), Progress: progress})

	result, err := s.Solve(ctx, req)
	if err != nil {
		msg := err.Error()
		failed := models.ScheduleSolveStatusFailed
		now := time.Now().UTC()
		finishedProgress := 100
		if updateErr := s.jobs.Update(ctx, job.ID, repository.UpdateScheduleSolveJobParams{
			Status: &failed, Progress: &finishedProgress, ErrorMessage: &msg, FinishedAt: &now,
		}); updateErr != nil {
			s.logger.Sugar().Warnw("failed to mark solve job failed", "job_id", job.ID, "error", updateErr)
		}
		s.mirrorJobStatus(ctx, &dto.ScheduleSolveStatusResponse{ID: job.ID, Status: string(failed), Progress: finishedProgress, Error: &msg})
		return err
	}

	var payload models.ScheduleSolvePayload
	if err := payload.Encode(result); err != nil {
		return fmt.Errorf("encode solve result: %w", err)
	}
	finished := models.ScheduleSolveStatusFinished
	now := time.Now().UTC()
	finishedProgress := 100
	if err := s.jobs.Update(ctx, job.ID, repository.UpdateScheduleSolveJobParams{
		Status: &finished, Progress: &finishedProgress, ResultPayload: &payload, FinishedAt: &now,
	}); err != nil {
		s.logger.Sugar().Warnw("failed to mark solve job finished", "job_id", job.ID, "error", err)
		return err
	}
	s.mirrorJobStatus(ctx, &dto.ScheduleSolveStatusResponse{ID: job.ID, Status: string(finished), Progress: finishedProgress, Result: result})
	return nil
}

// RecoverPendingJobs replays queued jobs after a process restart.
func (s *ScheduleSolverService) RecoverPendingJobs(ctx context.Context) {
	pending, err := s.jobs.ListQueued(ctx, 50)
	if err != nil {
		s.logger.Sugar().Warnw("failed to recover queued solve jobs", "error", err)
		return
	}
	for _, job := range pending {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "schedule_solve"}); err != nil {
			s.logger.Sugar().Warnw("failed to requeue pending solve job", "job_id", job.ID, "error", err)
		}
	}
}

// ValidateMove runs the move validator against a proposed single-assignment
// edit and reports every hard predicate it would fail.
func (s *ScheduleSolverService) ValidateMove(ctx context.Context, req dto.ValidateMoveRequest) (*dto.ValidateMoveResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move request")
	}
	snapshot, err := s.buildSnapshot(ctx, req.TermID, req.Courses, req.Instructors, req.Rooms, req.Groups, req.ConstraintConfigID, req.Constraints)
	if err != nil {
		return nil, err
	}

	vector := make([]timetable.Assignment, len(req.Assignments))
	for i, a := range req.Assignments {
		assignment, err := fromAssignmentDTO(a)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment in request")
		}
		vector[i] = assignment
	}

	day, ok := timetable.ParseDay(strings.ToUpper(req.NewDay))
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "newDay must be a weekday name")
	}
	newStart, err := parseClock(req.NewStart)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "newStart must be an HH:MM time")
	}

	idx := timetable.BuildIndexes(snapshot)
	eval := timetable.NewEvaluator(idx, snapshot.Constraints, snapshot.RoomHistory)
	val := timetable.NewValidator(eval)

	conflicts, err := val.ValidateMove(vector, timetable.MoveRequest{
		Index:     req.Index,
		NewDay:    day,
		NewStart:  newStart,
		NewRoomID: req.NewRoomID,
	})
	if err != nil {
		return nil, translateCoreError(err)
	}

	out := make([]dto.ConflictDTO, len(conflicts))
	for i, c := range conflicts {
		out[i] = dto.ConflictDTO{Type: c.Type, Message: c.Message}
	}
	return &dto.ValidateMoveResponse{Valid: len(out) == 0, Conflicts: out}, nil
}

// ExportResult renders a finished solve result into CSV or PDF bytes plus
// its content type, reusing pkg/export.Dataset unchanged. Assignments are
// ordered day-then-time so the rendered table reads as a weekly grid
// rather than solver emission order.
func (s *ScheduleSolverService) ExportResult(result dto.SolveResponse, format string) ([]byte, string, error) {
	assignments := append([]dto.AssignmentDTO(nil), result.Assignments...)
	sort.Slice(assignments, func(i, j int) bool {
		di, dj := weekdayOrder(assignments[i].Day), weekdayOrder(assignments[j].Day)
		if di != dj {
			return di < dj
		}
		return assignments[i].StartMinute < assignments[j].StartMinute
	})

	dataset := export.Dataset{
		Headers: []string{"course", "instructor", "room", "group", "day", "start", "end"},
		Rows:    make([]map[string]string, len(assignments)),
	}
	for i, a := range assignments {
		dataset.Rows[i] = map[string]string{
			"course":     a.CourseID,
			"instructor": a.InstructorID,
			"room":       a.RoomID,
			"group":      a.GroupID,
			"day":        a.Day,
			"start":      formatClock(a.StartMinute),
			"end":        formatClock(a.EndMinute),
		}
	}
	switch strings.ToLower(format) {
	case "pdf":
		data, err := export.NewPDFExporter().Render(dataset, "weekly timetable")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable pdf")
		}
		return data, "application/pdf", nil
	default:
		data, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable csv")
		}
		return data, "text/csv", nil
	}
}

func (s *ScheduleSolverService) buildSnapshot(ctx context.Context, termID string, courseInputs []dto.CourseInput, instructorInputs []dto.InstructorInput, roomInputs []dto.RoomInput, groupInputs []dto.GroupInput, constraintConfigID *string, inline *dto.ConstraintConfigInput) (timetable.Snapshot, error) {
	courses := make([]timetable.Course, len(courseInputs))
	for i, c := range courseInputs {
		courses[i] = timetable.Course{
			ID:               c.ID,
			Code:             c.Code,
			Title:            c.Title,
			DurationMinutes:  c.DurationMinutes,
			RequiredRoomType: c.RequiredRoomType,
			InstructorIDs:    c.InstructorIDs,
			GroupIDs:         c.GroupIDs,
			DepartmentName:   c.DepartmentName,
		}
	}

	instructors := make([]timetable.Instructor, len(instructorInputs))
	for i, in := range instructorInputs {
		availability := map[timetable.Day][]timetable.TimeRange{}
		for day, ranges := range in.Availability {
			d, ok := timetable.ParseDay(strings.ToUpper(day))
			if !ok {
				return timetable.Snapshot{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("instructor %s: unknown availability day %q", in.ID, day))
			}
			parsed := make([]timetable.TimeRange, len(ranges))
			for j, raw := range ranges {
				tr, err := timetable.ParseRange(raw)
				if err != nil {
					return timetable.Snapshot{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("instructor %s: invalid availability range %q", in.ID, raw))
				}
				parsed[j] = tr
			}
			availability[d] = parsed
		}
		instructor := timetable.Instructor{
			ID:                   in.ID,
			Name:                 in.Name,
			Availability:         availability,
			PreferredRoomHistory: in.PreferredRoomHistory,
		}
		if in.Preferences != nil {
			prefs := &timetable.InstructorPreferences{PreferredDays: map[timetable.Day]bool{}}
			for _, day := range in.Preferences.PreferredDays {
				if d, ok := timetable.ParseDay(strings.ToUpper(day)); ok {
					prefs.PreferredDays[d] = true
				}
			}
			for _, raw := range in.Preferences.PreferredTimes {
				tr, err := timetable.ParseRange(raw)
				if err == nil {
					prefs.PreferredTimes = append(prefs.PreferredTimes, tr)
				}
			}
			instructor.Preferences = prefs
		}
		instructors[i] = instructor
	}

	var rooms []timetable.Room
	if len(roomInputs) > 0 {
		rooms = make([]timetable.Room, len(roomInputs))
		for i, r := range roomInputs {
			rooms[i] = timetable.Room{ID: r.ID, Name: r.Name, Capacity: r.Capacity, RoomType: r.RoomType, Equipment: r.Equipment}
		}
	} else if s.rooms != nil {
		persisted, err := s.rooms.ListActive(ctx)
		if err != nil {
			return timetable.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
		}
		rooms = make([]timetable.Room, len(persisted))
		for i, r := range persisted {
			rooms[i] = timetable.Room{ID: r.ID, Name: r.Name, Capacity: r.Capacity, RoomType: r.RoomType}
		}
	}

	groups := make([]timetable.StudentGroup, len(groupInputs))
	for i, g := range groupInputs {
		groups[i] = timetable.StudentGroup{ID: g.ID, Name: g.Name, Size: g.Size, CourseIDs: g.CourseIDs}
	}

	constraints, err := s.resolveConstraints(ctx, termID, constraintConfigID, inline)
	if err != nil {
		return timetable.Snapshot{}, err
	}

	return timetable.Snapshot{
		Courses:     courses,
		Instructors: instructors,
		Rooms:       rooms,
		Groups:      groups,
		Constraints: constraints,
	}, nil
}

func (s *ScheduleSolverService) resolveConstraints(ctx context.Context, termID string, constraintConfigID *string, inline *dto.ConstraintConfigInput) (timetable.ConstraintConfig, error) {
	if inline != nil {
		return s.fromConstraintConfigInput(*inline)
	}
	if s.configs == nil {
		return timetable.ConstraintConfig{}, appErrors.Clone(appErrors.ErrValidation, "constraints or constraintConfigId is required")
	}
	var persisted *models.ConstraintConfig
	var err error
	if constraintConfigID != nil && *constraintConfigID != "" {
		persisted, err = s.configs.FindByID(ctx, *constraintConfigID)
	} else {
		persisted, err = s.configs.FindDefault(ctx, termID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return timetable.ConstraintConfig{}, appErrors.Clone(appErrors.ErrValidation, "no constraint configuration found; supply constraints inline")
		}
		return timetable.ConstraintConfig{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraint configuration")
	}
	var input dto.ConstraintConfigInput
	if err := json.Unmarshal(persisted.Payload, &input); err != nil {
		return timetable.ConstraintConfig{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode constraint configuration")
	}
	return s.fromConstraintConfigInput(input)
}

func (s *ScheduleSolverService) fromConstraintConfigInput(in dto.ConstraintConfigInput) (timetable.ConstraintConfig, error) {
	start, err := parseClock(in.WorkingHoursStart)
	if err != nil {
		return timetable.ConstraintConfig{}, appErrors.Clone(appErrors.ErrValidation, "constraints.workingHoursStart must be an HH:MM time")
	}
	end, err := parseClock(in.WorkingHoursEnd)
	if err != nil {
		return timetable.ConstraintConfig{}, appErrors.Clone(appErrors.ErrValidation, "constraints.workingHoursEnd must be an HH:MM time")
	}
	annealing := s.cfg.DefaultAnnealing
	if in.Annealing != nil {
		if in.Annealing.InitialTemperature > 0 {
			annealing.InitialTemperature = in.Annealing.InitialTemperature
		}
		if in.Annealing.CoolingRate > 0 {
			annealing.CoolingRate = in.Annealing.CoolingRate
		}
		if in.Annealing.MinTemperature > 0 {
			annealing.MinTemperature = in.Annealing.MinTemperature
		}
		if in.Annealing.MaxIterations > 0 {
			annealing.MaxIterations = in.Annealing.MaxIterations
		}
		if in.Annealing.IterationRate > 0 {
			annealing.IterationRate = in.Annealing.IterationRate
		}
	}
	return timetable.ConstraintConfig{
		Hard: timetable.HardFlags{
			NoRoomDoubleBooking:       in.Hard.NoRoomDoubleBooking,
			NoInstructorDoubleBooking: in.Hard.NoInstructorDoubleBooking,
			RoomCapacityCheck:         in.Hard.RoomCapacityCheck,
			RoomTypeMatch:             in.Hard.RoomTypeMatch,
			WorkingHoursOnly:          in.Hard.WorkingHoursOnly,
		},
		Soft: timetable.SoftWeights{
			InstructorPreferences: in.Soft.InstructorPreferences,
			CompactSchedules:      in.Soft.CompactSchedules,
			BalancedDailyLoad:     in.Soft.BalancedDailyLoad,
			PreferredRooms:        in.Soft.PreferredRooms,
		},
		WorkingHoursStart: start,
		WorkingHoursEnd:   end,
		Annealing:         annealing,
	}, nil
}

func fromAssignmentDTO(a dto.AssignmentDTO) (timetable.Assignment, error) {
	day, ok := timetable.ParseDay(strings.ToUpper(a.Day))
	if !ok {
		return timetable.Assignment{}, fmt.Errorf("unknown day %q", a.Day)
	}
	return timetable.Assignment{
		CourseID:     a.CourseID,
		InstructorID: a.InstructorID,
		RoomID:       a.RoomID,
		GroupID:      a.GroupID,
		Day:          day,
		StartMinute:  a.StartMinute,
		EndMinute:    a.EndMinute,
	}, nil
}

func toSolveResponse(result timetable.Result) dto.SolveResponse {
	assignments := make([]dto.AssignmentDTO, len(result.Assignments))
	for i, a := range result.Assignments {
		assignments[i] = dto.AssignmentDTO{
			CourseID:     a.CourseID,
			InstructorID: a.InstructorID,
			RoomID:       a.RoomID,
			GroupID:      a.GroupID,
			Day:          a.Day.String(),
			StartMinute:  a.StartMinute,
			EndMinute:    a.EndMinute,
		}
	}
	violations := make([]dto.ViolationDTO, len(result.Violations))
	for i, v := range result.Violations {
		violations[i] = dto.ViolationDTO{
			Type:                      v.Type,
			Severity:                  string(v.Severity),
			Description:               v.Description,
			AffectedAssignmentIndices: v.AffectedAssignmentIndices,
		}
	}
	return dto.SolveResponse{
		Assignments:        assignments,
		HardViolationCount: result.HardViolationCount,
		FitnessScore:       result.FitnessScore,
		SolveTimeSeconds:   result.SolveTimeSeconds,
		Violations:         violations,
		Cancelled:          result.Cancelled,
	}
}

// translateCoreError maps the CORE's own error taxonomy onto pkg/errors at
// the service boundary, per the driver/validator's InputMissing/InputInvalid/
// Internal cases (Infeasible/Cancelled never surface as errors — they are
// reflected in a populated Result instead).
func translateCoreError(err error) error {
	var coreErr *timetable.Error
	if !errors.As(err, &coreErr) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "solver failed")
	}
	switch coreErr.Kind {
	case timetable.InputMissing, timetable.InputInvalid:
		message := coreErr.Message
		if coreErr.FieldPath != "" {
			message = fmt.Sprintf("%s (%s)", coreErr.Message, coreErr.FieldPath)
		}
		return appErrors.Clone(appErrors.ErrValidation, message)
	default:
		return appErrors.Wrap(coreErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "solver failed")
	}
}

func parseClock(raw string) (int, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", raw)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// weekdayOrder maps a day name to its Monday..Sunday position; unknown
// names sort last so a malformed day never displaces a real one.
func weekdayOrder(day string) int {
	d, ok := timetable.ParseDay(strings.ToUpper(day))
	if !ok {
		return int(timetable.Sunday) + 1
	}
	return int(d)
}
