package dto

// TimeRangeInput is a wire "HH:MM-HH:MM" availability window.
type TimeRangeInput struct {
	Range string `json:"range" validate:"required"`
}

// InstructorPreferencesInput captures soft scheduling wishes for an instructor.
type InstructorPreferencesInput struct {
	PreferredDays  []string `json:"preferredDays" validate:"omitempty,dive,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	PreferredTimes []string `json:"preferredTimes" validate:"omitempty,dive,required"`
}

// InstructorInput is one instructor entry in a solve request snapshot.
type InstructorInput struct {
	ID                   string              `json:"id" validate:"required"`
	Name                 string              `json:"name"`
	Availability         map[string][]string `json:"availability" validate:"required"`
	Preferences          *InstructorPreferencesInput `json:"preferences,omitempty"`
	PreferredRoomHistory []string           `json:"preferredRoomHistory,omitempty"`
}

// RoomInput is one room entry in a solve request snapshot. When Rooms is
// omitted from SolveRequest, the service loads every active persisted room.
type RoomInput struct {
	ID        string          `json:"id" validate:"required"`
	Name      string          `json:"name"`
	Capacity  int             `json:"capacity" validate:"required,min=1"`
	RoomType  string          `json:"roomType"`
	Equipment map[string]bool `json:"equipment,omitempty"`
}

// GroupInput is one student-group entry in a solve request snapshot.
type GroupInput struct {
	ID        string   `json:"id" validate:"required"`
	Name      string   `json:"name"`
	Size      int      `json:"size" validate:"required,min=1"`
	CourseIDs []string `json:"courseIds" validate:"required,min=1"`
}

// CourseInput is one course entry in a solve request snapshot.
type CourseInput struct {
	ID               string   `json:"id" validate:"required"`
	Code             string   `json:"code"`
	Title            string   `json:"title"`
	DurationMinutes  int      `json:"durationMinutes" validate:"required,min=1"`
	RequiredRoomType string   `json:"requiredRoomType"`
	InstructorIDs    []string `json:"instructorIds" validate:"required,min=1"`
	GroupIDs         []string `json:"groupIds" validate:"required,min=1"`
	DepartmentName   string   `json:"departmentName"`
}

// HardFlagsInput toggles the hard predicates a solve run enforces.
type HardFlagsInput struct {
	NoRoomDoubleBooking       bool `json:"noRoomDoubleBooking"`
	NoInstructorDoubleBooking bool `json:"noInstructorDoubleBooking"`
	RoomCapacityCheck         bool `json:"roomCapacityCheck"`
	RoomTypeMatch             bool `json:"roomTypeMatch"`
	WorkingHoursOnly          bool `json:"workingHoursOnly"`
}

// SoftWeightsInput weighs each soft scoring term, 0..10.
type SoftWeightsInput struct {
	InstructorPreferences int `json:"instructorPreferences" validate:"min=0,max=10"`
	CompactSchedules      int `json:"compactSchedules" validate:"min=0,max=10"`
	BalancedDailyLoad     int `json:"balancedDailyLoad" validate:"min=0,max=10"`
	PreferredRooms        int `json:"preferredRooms" validate:"min=0,max=10"`
}

// AnnealingParamsInput overrides the simulated-annealing defaults.
type AnnealingParamsInput struct {
	InitialTemperature float64 `json:"initialTemperature" validate:"omitempty,gt=0"`
	CoolingRate        float64 `json:"coolingRate" validate:"omitempty,gt=0,lt=1"`
	MinTemperature     float64 `json:"minTemperature" validate:"omitempty,gt=0"`
	MaxIterations      int     `json:"maxIterations" validate:"omitempty,min=1"`
	IterationRate      float64 `json:"iterationRate" validate:"omitempty,gt=0"`
}

// ConstraintConfigInput is the wire shape of timetable.ConstraintConfig.
type ConstraintConfigInput struct {
	Hard              HardFlagsInput        `json:"hard"`
	Soft              SoftWeightsInput      `json:"soft"`
	WorkingHoursStart string                `json:"workingHoursStart" validate:"required"`
	WorkingHoursEnd   string                `json:"workingHoursEnd" validate:"required"`
	Annealing         *AnnealingParamsInput `json:"annealing,omitempty"`
}

// SolveRequest is the wire payload for POST /schedules/solve.
type SolveRequest struct {
	TermID             string                 `json:"termId" validate:"required"`
	Courses            []CourseInput          `json:"courses" validate:"required,min=1,dive"`
	Instructors        []InstructorInput      `json:"instructors" validate:"required,min=1,dive"`
	Rooms              []RoomInput            `json:"rooms" validate:"omitempty,dive"`
	Groups             []GroupInput           `json:"groups" validate:"required,min=1,dive"`
	ConstraintConfigID *string                `json:"constraintConfigId,omitempty"`
	Constraints        *ConstraintConfigInput `json:"constraints,omitempty"`
	TimeLimitSeconds   int                    `json:"timeLimitSeconds" validate:"omitempty,min=1"`
	Seed               *int64                 `json:"seed,omitempty"`
	Async              bool                   `json:"async"`
}

// AssignmentDTO is one scheduled session in wire form.
type AssignmentDTO struct {
	CourseID     string `json:"courseId"`
	InstructorID string `json:"instructorId"`
	RoomID       string `json:"roomId"`
	GroupID      string `json:"groupId"`
	Day          string `json:"day"`
	StartMinute  int    `json:"startMinute"`
	EndMinute    int    `json:"endMinute"`
}

// ViolationDTO reports one feasibility breach or soft penalty contributor.
type ViolationDTO struct {
	Type                      string `json:"type"`
	Severity                  string `json:"severity"`
	Description               string `json:"description"`
	AffectedAssignmentIndices []int  `json:"affectedAssignmentIndices"`
}

// SolveResponse is the wire payload returned by a finished solve.
type SolveResponse struct {
	Assignments        []AssignmentDTO `json:"assignments"`
	HardViolationCount int             `json:"hardViolationCount"`
	FitnessScore       float64         `json:"fitnessScore"`
	SolveTimeSeconds   float64         `json:"solveTimeSeconds"`
	Violations         []ViolationDTO  `json:"violations"`
	Cancelled          bool            `json:"cancelled"`
}

// ValidateMoveRequest is the wire payload for POST /schedules/solve/validate-move.
type ValidateMoveRequest struct {
	TermID             string                 `json:"termId" validate:"required"`
	Courses            []CourseInput          `json:"courses" validate:"required,min=1,dive"`
	Instructors        []InstructorInput      `json:"instructors" validate:"required,min=1,dive"`
	Rooms              []RoomInput            `json:"rooms" validate:"omitempty,dive"`
	Groups             []GroupInput           `json:"groups" validate:"required,min=1,dive"`
	ConstraintConfigID *string                `json:"constraintConfigId,omitempty"`
	Constraints        *ConstraintConfigInput `json:"constraints,omitempty"`
	Assignments        []AssignmentDTO        `json:"assignments" validate:"required,min=1,dive"`
	Index              int                    `json:"index"`
	NewDay             string                 `json:"newDay" validate:"required"`
	NewStart           string                 `json:"newStart" validate:"required"`
	NewRoomID          string                 `json:"newRoomId"`
}

// ConflictDTO reports one reason a proposed move is invalid.
type ConflictDTO struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ValidateMoveResponse reports whether a proposed move is valid.
type ValidateMoveResponse struct {
	Valid     bool          `json:"valid"`
	Conflicts []ConflictDTO `json:"conflicts"`
}

// ScheduleSolveJobResponse is returned after enqueueing an async solve.
type ScheduleSolveJobResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
}

// ScheduleSolveStatusResponse exposes async solve job progress.
type ScheduleSolveStatusResponse struct {
	ID       string         `json:"id"`
	Status   string         `json:"status"`
	Progress int            `json:"progress"`
	Result   *SolveResponse `json:"result,omitempty"`
	Error    *string        `json:"error,omitempty"`
}
