// Package timetable implements the constraint-based timetable solver: the
// greedy initializer, the simulated-annealing optimizer, the constraint
// evaluator they share, and the interactive move validator. The package has
// no persistence or HTTP awareness; callers (internal/service) translate
// database snapshots into a Snapshot and translate a Result back out.
package timetable

import "sort"

// Day is one of the seven weekdays, 1 (Monday) through 7 (Sunday).
type Day int

const (
	Monday Day = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = map[Day]string{
	Monday:    "MONDAY",
	Tuesday:   "TUESDAY",
	Wednesday: "WEDNESDAY",
	Thursday:  "THURSDAY",
	Friday:    "FRIDAY",
	Saturday:  "SATURDAY",
	Sunday:    "SUNDAY",
}

var nameDays = map[string]Day{
	"MONDAY":    Monday,
	"TUESDAY":   Tuesday,
	"WEDNESDAY": Wednesday,
	"THURSDAY":  Thursday,
	"FRIDAY":    Friday,
	"SATURDAY":  Saturday,
	"SUNDAY":    Sunday,
}

// String renders the day as its wire name, e.g. "MONDAY".
func (d Day) String() string {
	if name, ok := dayNames[d]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseDay maps a wire day name back to a Day. ok is false for anything but
// the seven recognized weekday names.
func ParseDay(name string) (Day, bool) {
	d, ok := nameDays[name]
	return d, ok
}

// allDays is the fixed MON..SUN iteration order used throughout the solver.
var allDays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// TimeRange is a half-open [Start, End) interval in minutes-since-midnight.
type TimeRange struct {
	Start int
	End   int
}

// Overlaps reports whether two ranges on the same day/resource intersect,
// using the open/closed-consistent rule a<d && c<b.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start < o.End && o.Start < r.End
}

// Contains reports whether o lies fully within r.
func (r TimeRange) Contains(o TimeRange) bool {
	return r.Start <= o.Start && o.End <= r.End
}

// Course is an immutable course snapshot.
type Course struct {
	ID               string
	Code             string
	Title            string
	DurationMinutes  int
	RequiredRoomType string // empty means unconstrained
	InstructorIDs    []string
	GroupIDs         []string
	DepartmentName   string
}

// InstructorPreferences captures an instructor's soft scheduling wishes.
type InstructorPreferences struct {
	PreferredDays  map[Day]bool
	PreferredTimes []TimeRange
}

// Instructor is an immutable instructor snapshot.
type Instructor struct {
	ID                   string
	Name                 string
	DepartmentName       string
	WeeklyTeachingLoad   float64
	Availability         map[Day][]TimeRange
	Preferences          *InstructorPreferences
	PreferredRoomHistory []string // optional, §9(b); nil means no history supplied
}

// Room is an immutable room snapshot.
type Room struct {
	ID        string
	Name      string
	Building  string
	Capacity  int
	RoomType  string
	Equipment map[string]bool
}

// StudentGroup is an immutable group-of-students snapshot.
type StudentGroup struct {
	ID        string
	Name      string
	Size      int
	CourseIDs []string
}

// HardFlags toggles which hard predicates are gated on/off. noGroupDoubleBooking
// and instructorAvailability are always evaluated regardless of these flags,
// per spec.
type HardFlags struct {
	NoRoomDoubleBooking       bool
	NoInstructorDoubleBooking bool
	RoomCapacityCheck         bool
	RoomTypeMatch             bool
	WorkingHoursOnly          bool
}

// SoftWeights weighs each soft scoring term, 0..10.
type SoftWeights struct {
	InstructorPreferences int
	CompactSchedules      int
	BalancedDailyLoad     int
	PreferredRooms        int
}

// AnnealingParams overrides the simulated-annealing defaults from spec §4.3.
type AnnealingParams struct {
	InitialTemperature float64
	CoolingRate        float64
	MinTemperature     float64
	MaxIterations      int
	IterationRate      float64 // iterations per second of time budget
}

// DefaultAnnealingParams returns the spec's stated defaults.
func DefaultAnnealingParams() AnnealingParams {
	return AnnealingParams{
		InitialTemperature: 1000.0,
		CoolingRate:        0.995,
		MinTemperature:     0.1,
		MaxIterations:      100000,
		IterationRate:      1000, // iterations/sec, tuned to the time budget in driver.go
	}
}

// ConstraintConfig is the immutable per-run constraint configuration.
type ConstraintConfig struct {
	Hard               HardFlags
	Soft               SoftWeights
	WorkingHoursStart  int // minutes since midnight
	WorkingHoursEnd    int
	Annealing          AnnealingParams
}

// Assignment is one scheduled session-task.
type Assignment struct {
	CourseID     string
	InstructorID string
	RoomID       string
	GroupID      string
	Day          Day
	StartMinute  int
	EndMinute    int
}

// Range returns the assignment's occupied interval.
func (a Assignment) Range() TimeRange {
	return TimeRange{Start: a.StartMinute, End: a.EndMinute}
}

// Severity classifies a Violation.
type Severity string

const (
	SeverityHard Severity = "HARD"
	SeveritySoft Severity = "SOFT"
)

// Violation describes one feasibility breach or soft penalty contributor.
type Violation struct {
	Type                       string
	Severity                   Severity
	Description                string
	AffectedAssignmentIndices  []int
}

// Snapshot is the full immutable input to one solver run: all entities plus
// the constraint configuration. It is built once by the caller and never
// mutated.
type Snapshot struct {
	Courses       []Course
	Instructors   []Instructor
	Rooms         []Room
	Groups        []StudentGroup
	Constraints   ConstraintConfig
	RoomHistory   map[string][]string // instructorID -> preferred room IDs, §9(b)
}

// Indexes holds the derived, read-only lookup tables built once at driver
// startup (spec §3).
type Indexes struct {
	CoursesByID     map[string]Course
	InstructorsByID map[string]Instructor
	RoomsByID       map[string]Room
	GroupsByID      map[string]StudentGroup
	RoomsByType     map[string][]Room
	RoomsSorted     []Room // by id, deterministic iteration
}

// BuildIndexes constructs the derived lookup tables from a Snapshot.
func BuildIndexes(snap Snapshot) Indexes {
	idx := Indexes{
		CoursesByID:     make(map[string]Course, len(snap.Courses)),
		InstructorsByID: make(map[string]Instructor, len(snap.Instructors)),
		RoomsByID:       make(map[string]Room, len(snap.Rooms)),
		GroupsByID:      make(map[string]StudentGroup, len(snap.Groups)),
		RoomsByType:     make(map[string][]Room),
	}
	for _, c := range snap.Courses {
		idx.CoursesByID[c.ID] = c
	}
	for _, i := range snap.Instructors {
		idx.InstructorsByID[i.ID] = i
	}
	for _, r := range snap.Rooms {
		idx.RoomsByID[r.ID] = r
		idx.RoomsByType[r.RoomType] = append(idx.RoomsByType[r.RoomType], r)
	}
	for _, g := range snap.Groups {
		idx.GroupsByID[g.ID] = g
	}
	idx.RoomsSorted = make([]Room, len(snap.Rooms))
	copy(idx.RoomsSorted, snap.Rooms)
	sort.Slice(idx.RoomsSorted, func(i, j int) bool { return idx.RoomsSorted[i].ID < idx.RoomsSorted[j].ID })
	for t := range idx.RoomsByType {
		rooms := idx.RoomsByType[t]
		sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
		idx.RoomsByType[t] = rooms
	}
	return idx
}

// SessionTask is one concrete teaching session derived from a single
// (course, instructor, group) triple — the unit of assignment.
type SessionTask struct {
	CourseID     string
	InstructorID string
	GroupID      string
}

// BuildSessionTasks expands every course into one task per
// (instructor, group) pair, per spec §3's expansion rule.
func BuildSessionTasks(courses []Course) []SessionTask {
	var tasks []SessionTask
	for _, c := range courses {
		for _, instructorID := range c.InstructorIDs {
			for _, groupID := range c.GroupIDs {
				tasks = append(tasks, SessionTask{CourseID: c.ID, InstructorID: instructorID, GroupID: groupID})
			}
		}
	}
	return tasks
}
