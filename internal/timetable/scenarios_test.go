package timetable

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hasViolationType(violations []Violation, typ string) bool {
	for _, v := range violations {
		if v.Type == typ {
			return true
		}
	}
	return false
}

// S1: trivial feasible single session.
func TestScenarioS1TrivialFeasible(t *testing.T) {
	snap := Snapshot{
		Courses:     []Course{{ID: "c1", DurationMinutes: 60, InstructorIDs: []string{"i1"}, GroupIDs: []string{"g1"}}},
		Instructors: []Instructor{{ID: "i1", Availability: map[Day][]TimeRange{Monday: {mustRange(t, "09:00-12:00")}}}},
		Rooms:       []Room{{ID: "r1", Capacity: 30}},
		Groups:      []StudentGroup{{ID: "g1", Size: 20, CourseIDs: []string{"c1"}}},
		Constraints: baseConstraints(),
	}

	result, err := Solve(SolveRequest{Snapshot: snap, Seed: 42, TimeLimitSeconds: 5})
	require.NoError(t, err)

	require.Len(t, result.Assignments, 1)
	a := result.Assignments[0]
	assert.Equal(t, Monday, a.Day)
	assert.Equal(t, 9*60, a.StartMinute)
	assert.Equal(t, 10*60, a.EndMinute)
	assert.Equal(t, 0, result.HardViolationCount)
	assert.Equal(t, 1000.0, result.FitnessScore)
}

// S2: capacity conflict the solver cannot resolve (only one room, too small).
func TestScenarioS2CapacityConflict(t *testing.T) {
	snap := Snapshot{
		Courses:     []Course{{ID: "c1", DurationMinutes: 60, InstructorIDs: []string{"i1"}, GroupIDs: []string{"g1"}}},
		Instructors: []Instructor{{ID: "i1", Availability: map[Day][]TimeRange{Monday: {mustRange(t, "09:00-12:00")}}}},
		Rooms:       []Room{{ID: "r1", Capacity: 30}},
		Groups:      []StudentGroup{{ID: "g1", Size: 50, CourseIDs: []string{"c1"}}},
		Constraints: baseConstraints(),
	}

	result, err := Solve(SolveRequest{Snapshot: snap, Seed: 42, TimeLimitSeconds: 5})
	require.NoError(t, err)

	require.Len(t, result.Assignments, 1)
	assert.GreaterOrEqual(t, result.HardViolationCount, 1)
	assert.True(t, hasViolationType(result.Violations, "roomCapacityCheck"))
}

// S3: two sessions forced onto the same single-hour instructor window.
func TestScenarioS3ForcedOverlap(t *testing.T) {
	avail := map[Day][]TimeRange{Monday: {mustRange(t, "09:00-10:00")}}
	snap := Snapshot{
		Courses: []Course{
			{ID: "c1", DurationMinutes: 60, InstructorIDs: []string{"i1"}, GroupIDs: []string{"g1"}},
			{ID: "c2", DurationMinutes: 60, InstructorIDs: []string{"i1"}, GroupIDs: []string{"g1"}},
		},
		Instructors: []Instructor{{ID: "i1", Availability: avail}},
		Rooms:       []Room{{ID: "r1", Capacity: 30}, {ID: "r2", Capacity: 30}},
		Groups:      []StudentGroup{{ID: "g1", Size: 20, CourseIDs: []string{"c1", "c2"}}},
		Constraints: baseConstraints(),
	}

	result, err := Solve(SolveRequest{Snapshot: snap, Seed: 42, TimeLimitSeconds: 5})
	require.NoError(t, err)

	require.Len(t, result.Assignments, 2)
	assert.GreaterOrEqual(t, result.HardViolationCount, 1, "one instructor cannot teach two overlapping 60-minute sessions inside a single available hour")
}

// S4: course requires a room type nothing in the snapshot provides.
func TestScenarioS4RoomTypeMismatch(t *testing.T) {
	full := map[Day][]TimeRange{}
	for _, d := range allDays {
		full[d] = []TimeRange{{Start: 8 * 60, End: 18 * 60}}
	}
	snap := Snapshot{
		Courses:     []Course{{ID: "c1", DurationMinutes: 60, RequiredRoomType: "LAB", InstructorIDs: []string{"i1"}, GroupIDs: []string{"g1"}}},
		Instructors: []Instructor{{ID: "i1", Availability: full}},
		Rooms:       []Room{{ID: "r1", Capacity: 30, RoomType: "LECTURE_HALL"}},
		Groups:      []StudentGroup{{ID: "g1", Size: 20, CourseIDs: []string{"c1"}}},
		Constraints: baseConstraints(),
	}

	result, err := Solve(SolveRequest{Snapshot: snap, Seed: 42, TimeLimitSeconds: 5})
	require.NoError(t, err)

	require.Len(t, result.Assignments, 1)
	assert.GreaterOrEqual(t, result.HardViolationCount, 1)
	assert.True(t, hasViolationType(result.Violations, "roomTypeMatch"))
}

// S5: instructor preference score difference is exactly the configured
// weight between a preferred and non-preferred placement — checked directly
// at the evaluator level since the annealing phase's exact landing day is
// seed-sensitive in a way this suite does not re-derive by hand.
func TestScenarioS5SoftPreferenceScoreGap(t *testing.T) {
	snap := Snapshot{
		Courses: []Course{{ID: "c1", DurationMinutes: 60, InstructorIDs: []string{"i1"}, GroupIDs: []string{"g1"}}},
		Instructors: []Instructor{{
			ID: "i1",
			Availability: map[Day][]TimeRange{
				Monday:  {mustRange(t, "09:00-10:00")},
				Tuesday: {mustRange(t, "09:00-10:00")},
			},
			Preferences: &InstructorPreferences{PreferredDays: map[Day]bool{Tuesday: true}},
		}},
		Rooms:       []Room{{ID: "r1", Capacity: 30}},
		Groups:      []StudentGroup{{ID: "g1", Size: 20, CourseIDs: []string{"c1"}}},
		Constraints: baseConstraints(),
	}
	idx := BuildIndexes(snap)
	eval := NewEvaluator(idx, snap.Constraints, nil)

	onMonday := []Assignment{{CourseID: "c1", InstructorID: "i1", RoomID: "r1", GroupID: "g1", Day: Monday, StartMinute: 9 * 60, EndMinute: 10 * 60}}
	onTuesday := []Assignment{{CourseID: "c1", InstructorID: "i1", RoomID: "r1", GroupID: "g1", Day: Tuesday, StartMinute: 9 * 60, EndMinute: 10 * 60}}

	mondayResult := eval.Evaluate(onMonday)
	tuesdayResult := eval.Evaluate(onTuesday)

	assert.Equal(t, 0, mondayResult.HardCount)
	assert.Equal(t, 0, tuesdayResult.HardCount)
	assert.Equal(t, float64(snap.Constraints.Soft.InstructorPreferences), tuesdayResult.Score-mondayResult.Score)
}

// S6: three same-length sessions for one instructor/group tile back-to-back
// with zero idle time under the greedy initializer alone.
func TestScenarioS6CompactSchedule(t *testing.T) {
	full := map[Day][]TimeRange{Monday: {{Start: 8 * 60, End: 18 * 60}}}
	snap := Snapshot{
		Courses: []Course{
			{ID: "c1", DurationMinutes: 60, InstructorIDs: []string{"i1"}, GroupIDs: []string{"g1"}},
			{ID: "c2", DurationMinutes: 60, InstructorIDs: []string{"i1"}, GroupIDs: []string{"g1"}},
			{ID: "c3", DurationMinutes: 60, InstructorIDs: []string{"i1"}, GroupIDs: []string{"g1"}},
		},
		Instructors: []Instructor{{ID: "i1", Availability: full}},
		Rooms:       []Room{{ID: "r1", Capacity: 30}},
		Groups:      []StudentGroup{{ID: "g1", Size: 20, CourseIDs: []string{"c1", "c2", "c3"}}},
		Constraints: baseConstraints(),
	}
	idx := BuildIndexes(snap)
	eval := NewEvaluator(idx, snap.Constraints, nil)
	tasks := BuildSessionTasks(snap.Courses)

	state := Greedy(eval, tasks)
	require.Equal(t, 0, state.HardCount())

	vector := state.Vector()
	require.Len(t, vector, 3)
	ranges := make([]TimeRange, len(vector))
	for i, a := range vector {
		ranges[i] = a.Range()
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	assert.Equal(t, ranges[0].End, ranges[1].Start)
	assert.Equal(t, ranges[1].End, ranges[2].Start)
}
