package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mediumSnapshot() Snapshot {
	full := map[Day][]TimeRange{}
	for _, d := range allDays {
		full[d] = []TimeRange{{Start: 8 * 60, End: 18 * 60}}
	}
	return Snapshot{
		Courses: []Course{
			{ID: "c1", DurationMinutes: 60, InstructorIDs: []string{"i1"}, GroupIDs: []string{"g1"}},
			{ID: "c2", DurationMinutes: 60, InstructorIDs: []string{"i1", "i2"}, GroupIDs: []string{"g1"}},
			{ID: "c3", DurationMinutes: 120, InstructorIDs: []string{"i2"}, GroupIDs: []string{"g1", "g2"}},
		},
		Instructors: []Instructor{
			{ID: "i1", Availability: full},
			{ID: "i2", Availability: full},
		},
		Rooms: []Room{
			{ID: "r1", Capacity: 40, RoomType: "LECTURE_HALL"},
			{ID: "r2", Capacity: 25, RoomType: "LAB"},
		},
		Groups: []StudentGroup{
			{ID: "g1", Size: 20, CourseIDs: []string{"c1", "c2", "c3"}},
			{ID: "g2", Size: 15, CourseIDs: []string{"c3"}},
		},
		Constraints: baseConstraints(),
	}
}

// Property 1: assignment completeness.
func TestPropertyCompleteness(t *testing.T) {
	snap := mediumSnapshot()
	idx := BuildIndexes(snap)
	eval := NewEvaluator(idx, snap.Constraints, nil)
	tasks := BuildSessionTasks(snap.Courses)

	state := Greedy(eval, tasks)
	assert.Len(t, state.Vector(), len(tasks))

	seen := map[SessionTask]int{}
	for _, task := range tasks {
		seen[task]++
	}
	for _, v := range seen {
		assert.Equal(t, 1, v, "every session-task must appear exactly once in the task list")
	}
}

// Property 2: interval well-formedness. Candidate generation is always
// confined to CandidateStarts, so every assignment this package ever
// produces lies within working hours and has a duration-consistent end.
func TestPropertyIntervalWellFormedness(t *testing.T) {
	snap := mediumSnapshot()
	result, err := Solve(SolveRequest{Snapshot: snap, Seed: 7, TimeLimitSeconds: 2})
	require.NoError(t, err)

	idx := BuildIndexes(snap)
	for _, a := range result.Assignments {
		course := idx.CoursesByID[a.CourseID]
		assert.Equal(t, a.StartMinute+course.DurationMinutes, a.EndMinute)
		assert.GreaterOrEqual(t, a.StartMinute, snap.Constraints.WorkingHoursStart)
		assert.LessOrEqual(t, a.EndMinute, snap.Constraints.WorkingHoursEnd)
	}
}

// Property 3: monotone best. Running the optimizer for k1 <= k2 iterations
// with the same seed must not yield a worse best score for the longer run,
// since math/rand draws the same deterministic sequence prefix regardless of
// how many iterations are ultimately taken.
func TestPropertyMonotoneBest(t *testing.T) {
	snap := mediumSnapshot()
	idx := BuildIndexes(snap)
	eval := NewEvaluator(idx, snap.Constraints, nil)
	tasks := BuildSessionTasks(snap.Courses)

	short := Greedy(eval, tasks)
	shortResult := Anneal(short, idx, snap.Constraints.Annealing, seededRNG(99), 50, nil)

	long := Greedy(eval, tasks)
	longResult := Anneal(long, idx, snap.Constraints.Annealing, seededRNG(99), 500, nil)

	assert.GreaterOrEqual(t, longResult.BestScore, shortResult.BestScore)
}

// Property 4: determinism. Two runs with identical inputs and seed must
// produce byte-identical (here: deep-equal) assignment vectors and
// violation lists.
func TestPropertyDeterminism(t *testing.T) {
	snap := mediumSnapshot()

	first, err := Solve(SolveRequest{Snapshot: snap, Seed: 42, TimeLimitSeconds: 2})
	require.NoError(t, err)
	second, err := Solve(SolveRequest{Snapshot: snap, Seed: 42, TimeLimitSeconds: 2})
	require.NoError(t, err)

	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Equal(t, first.Violations, second.Violations)
	assert.Equal(t, first.HardViolationCount, second.HardViolationCount)
	assert.Equal(t, first.FitnessScore, second.FitnessScore)
}

// Property 5: delta fidelity. TryDelta's signed change must equal the
// difference between a full rescore of the candidate vector and a full
// rescore of the current vector.
func TestPropertyDeltaFidelity(t *testing.T) {
	snap := mediumSnapshot()
	idx := BuildIndexes(snap)
	eval := NewEvaluator(idx, snap.Constraints, nil)
	tasks := BuildSessionTasks(snap.Courses)
	state := Greedy(eval, tasks)

	require.GreaterOrEqual(t, state.Len(), 2)

	target := 1
	old := state.At(target)
	candidate := old
	candidate.Day = Wednesday
	candidate.StartMinute = 9 * 60
	candidate.EndMinute = candidate.StartMinute + (old.EndMinute - old.StartMinute)

	deltaHard, deltaScore := state.TryDelta(target, candidate)

	currentHard, currentScore := state.fullRescore()

	candidateVector := state.Vector()
	candidateVector[target] = candidate
	candidateState := NewState(eval, candidateVector)
	candidateHard, candidateScore := candidateState.fullRescore()

	assert.Equal(t, candidateHard-currentHard, deltaHard)
	assert.InDelta(t, candidateScore-currentScore, deltaScore, 1e-9)
}

// Property 6: validator/evaluator agreement. The validator reports a
// non-empty conflict list iff applying the same move increases the hard
// violation count.
func TestPropertyValidatorEvaluatorAgreement(t *testing.T) {
	snap := mediumSnapshot()
	idx := BuildIndexes(snap)
	eval := NewEvaluator(idx, snap.Constraints, nil)
	tasks := BuildSessionTasks(snap.Courses)
	state := Greedy(eval, tasks)
	vector := state.Vector()

	validator := NewValidator(eval)

	type probe struct {
		index int
		day   Day
		start int
	}
	probes := []probe{
		{0, Tuesday, 8 * 60},
		{0, state.At(0).Day, state.At(0).StartMinute},
	}
	if state.Len() > 1 {
		probes = append(probes, probe{1, state.At(0).Day, state.At(0).StartMinute})
	}

	for _, p := range probes {
		conflicts, err := validator.ValidateMove(vector, MoveRequest{Index: p.index, NewDay: p.day, NewStart: p.start})
		require.NoError(t, err)

		course := idx.CoursesByID[vector[p.index].CourseID]
		candidate := vector[p.index]
		candidate.Day = p.day
		candidate.StartMinute = p.start
		candidate.EndMinute = p.start + course.DurationMinutes

		afterVector := append([]Assignment(nil), vector...)
		afterVector[p.index] = candidate
		afterHard := eval.Evaluate(afterVector).HardCount
		beforeHard := eval.Evaluate(vector).HardCount

		if afterHard > beforeHard {
			assert.NotEmpty(t, conflicts, "hard count increased but validator reported no conflicts")
		} else {
			assert.Empty(t, conflicts, "hard count did not increase but validator reported conflicts")
		}
	}
}

// Property 7: interval-overlap law. Overlap detection is symmetric and
// agrees with a<d && c<b.
func TestPropertyIntervalOverlapLaw(t *testing.T) {
	cases := []struct {
		a, b TimeRange
		want bool
	}{
		{TimeRange{0, 60}, TimeRange{60, 120}, false},
		{TimeRange{0, 61}, TimeRange{60, 120}, true},
		{TimeRange{30, 90}, TimeRange{0, 45}, true},
		{TimeRange{100, 200}, TimeRange{200, 300}, false},
		{TimeRange{0, 10}, TimeRange{0, 10}, true},
	}
	for _, c := range cases {
		want := c.a.Start < c.b.End && c.b.Start < c.a.End
		assert.Equal(t, c.want, want)
		assert.Equal(t, want, c.a.Overlaps(c.b))
		assert.Equal(t, want, c.b.Overlaps(c.a), "overlap must be symmetric")
	}
}

// Property 8: cancellation safety. Setting the cancellation flag terminates
// within one additional iteration and returns a result consistent with a
// point-in-time snapshot, never a partially-moved task.
func TestPropertyCancellationSafety(t *testing.T) {
	snap := mediumSnapshot()
	idx := BuildIndexes(snap)
	eval := NewEvaluator(idx, snap.Constraints, nil)
	tasks := BuildSessionTasks(snap.Courses)
	state := Greedy(eval, tasks)
	before := state.Vector()

	cancelled := func() bool { return true }
	result := Anneal(state, idx, snap.Constraints.Annealing, seededRNG(1), 1000, cancelled)

	assert.True(t, result.Cancelled)
	assert.Equal(t, 0, result.Iterations)
	assert.Equal(t, before, result.Best)
}
