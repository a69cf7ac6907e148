package timetable

// Evaluator is the stateless half of constraint evaluation: it knows the
// indexes and configuration for one run and builds room-history lookups, but
// holds no assignment vector of its own. Evaluate and NewState are the two
// entry points: Evaluate does a one-shot full rescore (used by the driver's
// post-flight packaging and by tests); NewState builds an incrementally
// maintained State for the greedy/annealing inner loop.
type Evaluator struct {
	idx         Indexes
	cfg         ConstraintConfig
	roomHistory map[string]map[string]bool // instructorID -> preferred room id set
}

// NewEvaluator builds an Evaluator over the given indexes and configuration.
// extraHistory, if non-nil, extends each instructor's PreferredRoomHistory:
// its rooms are added to the instructor's set, never replacing it
// (spec §9(b) extension point).
func NewEvaluator(idx Indexes, cfg ConstraintConfig, extraHistory map[string][]string) *Evaluator {
	history := make(map[string]map[string]bool, len(idx.InstructorsByID))
	for id, ins := range idx.InstructorsByID {
		if len(ins.PreferredRoomHistory) == 0 {
			continue
		}
		set := make(map[string]bool, len(ins.PreferredRoomHistory))
		for _, r := range ins.PreferredRoomHistory {
			set[r] = true
		}
		history[id] = set
	}
	for id, rooms := range extraHistory {
		set := history[id]
		if set == nil {
			set = make(map[string]bool, len(rooms))
		}
		for _, r := range rooms {
			set[r] = true
		}
		history[id] = set
	}
	return &Evaluator{idx: idx, cfg: cfg, roomHistory: history}
}

// EvalResult is the outcome of a full evaluation.
type EvalResult struct {
	HardCount int
	Score     float64
	Violations []Violation
}

// Evaluate performs a one-shot full rescore of vector, returning the hard
// violation count, the fitness score, and the violation list (spec §4.1's
// full-scan mode, used for final packaging and tests, not the inner loop).
func (e *Evaluator) Evaluate(vector []Assignment) EvalResult {
	s := NewState(e, vector)
	return EvalResult{HardCount: s.hardCount, Score: s.score, Violations: s.Violations()}
}
