package timetable

import "sort"

// Hard violation penalties, independent of soft weights (spec §4.1).
const (
	penaltyOverlap  = 100.0 // room/instructor/group double-booking
	penaltyCapacity = 50.0
	// roomTypeMatch, workingHoursOnly and instructorAvailability carry no
	// explicit score in spec.md's formula; this implementation prices them
	// the same as the overlap predicates (100) so greedy/annealing have a
	// gradient away from them too.
	penaltyOther = 100.0
)

type dayResKey struct {
	id  string
	day Day
}

// State is the mutable, incrementally-maintained evaluation state that backs
// the greedy and annealing inner loops. All bucket lookups below are keyed
// by (resource id, day), so a single-assignment replacement only touches the
// buckets for its old and new day — the delta cost is proportional to the
// size of those buckets, not to the length of the whole vector.
type State struct {
	eval   *Evaluator
	vector []Assignment

	byRoomDay       map[dayResKey][]int
	byInstructorDay map[dayResKey][]int
	byGroupDay      map[dayResKey][]int

	instructorDayMinutes map[string]map[Day]int

	hardCount int
	score     float64
}

// NewState builds a State from an initial (possibly infeasible) vector.
func NewState(eval *Evaluator, initial []Assignment) *State {
	s := &State{
		eval:                 eval,
		vector:               append([]Assignment(nil), initial...),
		byRoomDay:            make(map[dayResKey][]int),
		byInstructorDay:      make(map[dayResKey][]int),
		byGroupDay:           make(map[dayResKey][]int),
		instructorDayMinutes: make(map[string]map[Day]int),
	}
	for i, a := range s.vector {
		s.insertBuckets(i, a)
	}
	s.hardCount, s.score = s.fullRescore()
	return s
}

// Vector returns a defensive copy of the current assignment vector.
func (s *State) Vector() []Assignment {
	return append([]Assignment(nil), s.vector...)
}

// HardCount and Score return the running totals, maintained incrementally.
func (s *State) HardCount() int      { return s.hardCount }
func (s *State) Score() float64      { return s.score }
func (s *State) Len() int            { return len(s.vector) }
func (s *State) At(i int) Assignment { return s.vector[i] }

func (s *State) insertBuckets(i int, a Assignment) {
	s.byRoomDay[dayResKey{a.RoomID, a.Day}] = append(s.byRoomDay[dayResKey{a.RoomID, a.Day}], i)
	s.byInstructorDay[dayResKey{a.InstructorID, a.Day}] = append(s.byInstructorDay[dayResKey{a.InstructorID, a.Day}], i)
	s.byGroupDay[dayResKey{a.GroupID, a.Day}] = append(s.byGroupDay[dayResKey{a.GroupID, a.Day}], i)
	if s.instructorDayMinutes[a.InstructorID] == nil {
		s.instructorDayMinutes[a.InstructorID] = make(map[Day]int)
	}
	s.instructorDayMinutes[a.InstructorID][a.Day] += a.EndMinute - a.StartMinute
}

func (s *State) removeBuckets(i int, a Assignment) {
	removeIndex(s.byRoomDay, dayResKey{a.RoomID, a.Day}, i)
	removeIndex(s.byInstructorDay, dayResKey{a.InstructorID, a.Day}, i)
	removeIndex(s.byGroupDay, dayResKey{a.GroupID, a.Day}, i)
	if m := s.instructorDayMinutes[a.InstructorID]; m != nil {
		m[a.Day] -= a.EndMinute - a.StartMinute
		if m[a.Day] <= 0 {
			delete(m, a.Day)
		}
	}
}

func removeIndex(m map[dayResKey][]int, key dayResKey, i int) {
	lst := m[key]
	for pos, v := range lst {
		if v == i {
			lst = append(lst[:pos], lst[pos+1:]...)
			break
		}
	}
	if len(lst) == 0 {
		delete(m, key)
	} else {
		m[key] = lst
	}
}

// pairCount returns the number of OTHER indices in bucket (excluding self)
// whose interval overlaps a's interval.
func (s *State) pairCount(bucket []int, self int, a Assignment) int {
	count := 0
	for _, j := range bucket {
		if j == self {
			continue
		}
		if a.Range().Overlaps(s.vector[j].Range()) {
			count++
		}
	}
	return count
}

// soloHardCount returns the number of hard violations entry a alone
// contributes, independent of other assignments: capacity, room type,
// working hours, instructor availability.
func (s *State) soloHardCount(a Assignment) (capacity, other int) {
	idx := s.eval.idx
	cfg := s.eval.cfg
	room := idx.RoomsByID[a.RoomID]
	group := idx.GroupsByID[a.GroupID]
	course := idx.CoursesByID[a.CourseID]
	instructor := idx.InstructorsByID[a.InstructorID]

	if cfg.Hard.RoomCapacityCheck && room.Capacity < group.Size {
		capacity++
	}
	if cfg.Hard.RoomTypeMatch && course.RequiredRoomType != "" && course.RequiredRoomType != room.RoomType {
		other++
	}
	if cfg.Hard.WorkingHoursOnly && (a.StartMinute < cfg.WorkingHoursStart || a.EndMinute > cfg.WorkingHoursEnd) {
		other++
	}
	if !availabilityContains(instructor.Availability[a.Day], a.Range()) {
		other++
	}
	return capacity, other
}

// pairHardCounts returns how many overlap-violation pairs entry a
// participates in, split by predicate, honoring the config gates
// (noGroupDoubleBooking is always on).
func (s *State) pairHardCounts(self int, a Assignment) (room, instructor, group int) {
	cfg := s.eval.cfg
	if cfg.Hard.NoRoomDoubleBooking {
		room = s.pairCount(s.byRoomDay[dayResKey{a.RoomID, a.Day}], self, a)
	}
	if cfg.Hard.NoInstructorDoubleBooking {
		instructor = s.pairCount(s.byInstructorDay[dayResKey{a.InstructorID, a.Day}], self, a)
	}
	group = s.pairCount(s.byGroupDay[dayResKey{a.GroupID, a.Day}], self, a)
	return room, instructor, group
}

// softSoloScore returns the instructorPreferences and preferredRooms
// per-assignment penalty units contributed by a (before weighting).
func (s *State) softSoloScore(a Assignment) (prefPenalty, roomPenalty int) {
	idx := s.eval.idx
	instructor := idx.InstructorsByID[a.InstructorID]
	if instructor.Preferences != nil {
		p := instructor.Preferences
		if len(p.PreferredDays) > 0 && !p.PreferredDays[a.Day] {
			prefPenalty++
		}
		if len(p.PreferredTimes) > 0 {
			within := false
			for _, r := range p.PreferredTimes {
				if r.Contains(a.Range()) {
					within = true
					break
				}
			}
			if !within {
				prefPenalty++
			}
		}
	}
	if history := s.eval.roomHistory[a.InstructorID]; history != nil {
		if !history[a.RoomID] {
			roomPenalty++
		}
	}
	return prefPenalty, roomPenalty
}

// idleMinutes computes total idle minutes between consecutive (sorted)
// assignments referenced by indices, treating them as occupying the whole
// day's bucket for one resource.
func (s *State) idleMinutes(indices []int) int {
	ranges := make([]TimeRange, 0, len(indices))
	for _, i := range indices {
		ranges = append(ranges, s.vector[i].Range())
	}
	return idleFromRanges(ranges)
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return sumSq / float64(len(values))
}

// compactSchedulesPenalty sums idle-hours across every (instructor,day) and
// (group,day) bucket that currently has at least one assignment.
func (s *State) compactSchedulesPenalty() float64 {
	var totalMinutes int
	for _, indices := range s.byInstructorDay {
		totalMinutes += s.idleMinutes(indices)
	}
	for _, indices := range s.byGroupDay {
		totalMinutes += s.idleMinutes(indices)
	}
	return float64(totalMinutes) / 60.0
}

// balancedDailyLoadPenalty sums, over every instructor who teaches at least
// one session, the variance (in hours^2) of per-day total teaching minutes
// (converted to hours) across the days they teach.
func (s *State) balancedDailyLoadPenalty() float64 {
	var total float64
	for _, perDay := range s.instructorDayMinutes {
		if len(perDay) == 0 {
			continue
		}
		hours := make([]float64, 0, len(perDay))
		for _, minutes := range perDay {
			hours = append(hours, float64(minutes)/60.0)
		}
		total += variance(hours)
	}
	return total
}

// fullRescore computes the hard violation count and fitness score from
// scratch. It is O(n) thanks to the day/resource buckets (each overlap pair
// is discovered once per bucket scan) and is used only at state-construction
// time and for the driver's final packaging, never inside the annealing
// loop.
func (s *State) fullRescore() (int, float64) {
	hard := 0
	hardPenalty := 0.0
	softRaw := struct{ pref, room int }{}

	seenRoomPairs := 0
	seenInstructorPairs := 0
	seenGroupPairs := 0
	capacity, other := 0, 0

	for i, a := range s.vector {
		cap1, other1 := s.soloHardCount(a)
		capacity += cap1
		other += other1

		room, instructor, group := s.pairHardCounts(i, a)
		// pairHardCounts counts both participants of every pair once each
		// (symmetric scan), so halve to get unordered-pair counts.
		seenRoomPairs += room
		seenInstructorPairs += instructor
		seenGroupPairs += group

		pref, rm := s.softSoloScore(a)
		softRaw.pref += pref
		softRaw.room += rm
	}
	seenRoomPairs /= 2
	seenInstructorPairs /= 2
	seenGroupPairs /= 2

	hard = seenRoomPairs + seenInstructorPairs + seenGroupPairs + capacity + other
	hardPenalty = float64(seenRoomPairs+seenInstructorPairs+seenGroupPairs)*penaltyOverlap +
		float64(capacity)*penaltyCapacity + float64(other)*penaltyOther

	cfg := s.eval.cfg
	softPenalty := float64(cfg.Soft.InstructorPreferences)*float64(softRaw.pref) +
		float64(cfg.Soft.PreferredRooms)*float64(softRaw.room) +
		float64(cfg.Soft.CompactSchedules)*s.compactSchedulesPenalty() +
		float64(cfg.Soft.BalancedDailyLoad)*s.balancedDailyLoadPenalty()

	score := 1000.0 - hardPenalty - softPenalty
	return hard, score
}

// TryDelta computes, without mutating state, the signed change in hard
// violation count and fitness score that replacing vector[i] with candidate
// would cause. Cost is proportional to the size of the (room,day),
// (instructor,day) and (group,day) buckets touched by the old and new
// assignment, not to len(vector).
func (s *State) TryDelta(i int, candidate Assignment) (deltaHard int, deltaScore float64) {
	old := s.vector[i]
	cfg := s.eval.cfg

	oldCap, oldOther := s.soloHardCount(old)
	newCap, newOther := s.soloHardCount(candidate)
	oldRoom, oldInstr, oldGroup := s.pairHardCounts(i, old)
	newRoom, newInstr, newGroup := s.pairHardCounts(i, candidate)

	deltaHard = (newRoom - oldRoom) + (newInstr - oldInstr) + (newGroup - oldGroup) +
		(newCap - oldCap) + (newOther - oldOther)

	deltaHardPenalty := float64(newRoom-oldRoom+newInstr-oldInstr+newGroup-oldGroup)*penaltyOverlap +
		float64(newCap-oldCap)*penaltyCapacity + float64(newOther-oldOther)*penaltyOther

	oldPref, oldRoomPref := s.softSoloScore(old)
	newPref, newRoomPref := s.softSoloScore(candidate)
	deltaSoloSoft := float64(cfg.Soft.InstructorPreferences)*float64(newPref-oldPref) +
		float64(cfg.Soft.PreferredRooms)*float64(newRoomPref-oldRoomPref)

	deltaAggregateSoft := s.aggregateSoftDelta(i, old, candidate)

	deltaScore = -deltaHardPenalty - deltaSoloSoft - deltaAggregateSoft
	return deltaHard, deltaScore
}

// aggregateSoftDelta computes the change in the two bucket-aggregate soft
// terms (compactSchedules, balancedDailyLoad) that replacing vector[i] with
// candidate causes, by recomputing only the (instructor,day)/(group,day)
// buckets touched.
func (s *State) aggregateSoftDelta(i int, old, candidate Assignment) float64 {
	cfg := s.eval.cfg

	instructorOldKey := dayResKey{old.InstructorID, old.Day}
	instructorNewKey := dayResKey{candidate.InstructorID, candidate.Day}
	groupOldKey := dayResKey{old.GroupID, old.Day}
	groupNewKey := dayResKey{candidate.GroupID, candidate.Day}

	beforeIdle, afterIdle := 0, 0
	for _, key := range dedupKeys(instructorOldKey, instructorNewKey) {
		beforeIdle += s.idleMinutes(s.byInstructorDay[key])
		afterIdle += s.bucketIdleAfter(s.byInstructorDay[key], i, key == instructorNewKey, candidate.Range())
	}
	for _, key := range dedupKeys(groupOldKey, groupNewKey) {
		beforeIdle += s.idleMinutes(s.byGroupDay[key])
		afterIdle += s.bucketIdleAfter(s.byGroupDay[key], i, key == groupNewKey, candidate.Range())
	}
	deltaCompact := float64(afterIdle-beforeIdle) / 60.0 * float64(cfg.Soft.CompactSchedules)

	instructors := map[string]bool{old.InstructorID: true, candidate.InstructorID: true}
	var beforeVar, afterVar float64
	for instructorID := range instructors {
		perDay := s.instructorDayMinutes[instructorID]
		beforeVar += varianceOfMinutes(perDay)
		afterVar += varianceOfMinutes(projectedMinutes(perDay, instructorID, old, candidate))
	}
	deltaBalance := (afterVar - beforeVar) * float64(cfg.Soft.BalancedDailyLoad)

	return deltaCompact + deltaBalance
}

// bucketIdleAfter computes idle minutes for a bucket as it would be after
// the move: if active is true, entry i is counted using candidateRange
// (added if not already a member); if active is false, entry i is excluded.
// Every other member keeps its current stored range.
func (s *State) bucketIdleAfter(bucket []int, i int, active bool, candidateRange TimeRange) int {
	ranges := make([]TimeRange, 0, len(bucket)+1)
	found := false
	for _, j := range bucket {
		if j == i {
			found = true
			if active {
				ranges = append(ranges, candidateRange)
			}
			continue
		}
		ranges = append(ranges, s.vector[j].Range())
	}
	if active && !found {
		ranges = append(ranges, candidateRange)
	}
	return idleFromRanges(ranges)
}

func idleFromRanges(ranges []TimeRange) int {
	if len(ranges) < 2 {
		return 0
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	total := 0
	for i := 0; i+1 < len(ranges); i++ {
		if gap := ranges[i+1].Start - ranges[i].End; gap > 0 {
			total += gap
		}
	}
	return total
}

func dedupKeys(keys ...dayResKey) []dayResKey {
	out := make([]dayResKey, 0, len(keys))
	seen := make(map[dayResKey]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func varianceOfMinutes(perDay map[Day]int) float64 {
	if len(perDay) == 0 {
		return 0
	}
	hours := make([]float64, 0, len(perDay))
	for _, m := range perDay {
		hours = append(hours, float64(m)/60.0)
	}
	return variance(hours)
}

// projectedMinutes returns instructorID's per-day minute totals as they
// would be after replacing old with candidate for entry i, without
// mutating state.
func projectedMinutes(perDay map[Day]int, instructorID string, old, candidate Assignment) map[Day]int {
	out := make(map[Day]int, len(perDay)+1)
	for d, m := range perDay {
		out[d] = m
	}
	if old.InstructorID == instructorID {
		out[old.Day] -= old.EndMinute - old.StartMinute
		if out[old.Day] <= 0 {
			delete(out, old.Day)
		}
	}
	if candidate.InstructorID == instructorID {
		out[candidate.Day] += candidate.EndMinute - candidate.StartMinute
	}
	return out
}

// Apply mutates state to replace vector[i] with candidate and returns the
// same delta TryDelta would have reported. Reverting a rejected move is just
// calling Apply(i, old) again.
func (s *State) Apply(i int, candidate Assignment) (deltaHard int, deltaScore float64) {
	deltaHard, deltaScore = s.TryDelta(i, candidate)
	old := s.vector[i]
	s.removeBuckets(i, old)
	s.vector[i] = candidate
	s.insertBuckets(i, candidate)
	s.hardCount += deltaHard
	s.score += deltaScore
	return deltaHard, deltaScore
}

// PeekAppend computes, without mutating state, the hard violation count and
// score delta that appending candidate as a brand new entry would cause. It
// is the greedy initializer's per-candidate probe (spec §4.2): unlike
// TryDelta it has no old entry to replace, since the candidate does not yet
// occupy a slot in vector.
func (s *State) PeekAppend(candidate Assignment) (hard int, deltaScore float64) {
	cfg := s.eval.cfg

	capacity, other := s.soloHardCount(candidate)
	room, instr, group := s.pairHardCounts(-1, candidate)
	hard = room + instr + group + capacity + other

	hardPenalty := float64(room+instr+group)*penaltyOverlap +
		float64(capacity)*penaltyCapacity + float64(other)*penaltyOther

	pref, roomPref := s.softSoloScore(candidate)
	soloSoft := float64(cfg.Soft.InstructorPreferences)*float64(pref) +
		float64(cfg.Soft.PreferredRooms)*float64(roomPref)

	deltaScore = -hardPenalty - soloSoft - s.aggregateAppendSoftDelta(candidate)
	return hard, deltaScore
}

// aggregateAppendSoftDelta is aggregateSoftDelta's insertion-only
// counterpart: there is no old assignment to remove from the touched
// buckets, only candidate to add.
func (s *State) aggregateAppendSoftDelta(candidate Assignment) float64 {
	cfg := s.eval.cfg

	instructorKey := dayResKey{candidate.InstructorID, candidate.Day}
	groupKey := dayResKey{candidate.GroupID, candidate.Day}

	beforeIdle := s.idleMinutes(s.byInstructorDay[instructorKey]) + s.idleMinutes(s.byGroupDay[groupKey])
	afterIdle := s.bucketIdleAfter(s.byInstructorDay[instructorKey], -1, true, candidate.Range()) +
		s.bucketIdleAfter(s.byGroupDay[groupKey], -1, true, candidate.Range())
	deltaCompact := float64(afterIdle-beforeIdle) / 60.0 * float64(cfg.Soft.CompactSchedules)

	perDay := s.instructorDayMinutes[candidate.InstructorID]
	beforeVar := varianceOfMinutes(perDay)
	afterVar := varianceOfMinutes(projectedMinutes(perDay, candidate.InstructorID, Assignment{}, candidate))
	deltaBalance := (afterVar - beforeVar) * float64(cfg.Soft.BalancedDailyLoad)

	return deltaCompact + deltaBalance
}

// Append adds candidate as a new entry at the end of vector and returns its
// index, updating buckets and running totals incrementally.
func (s *State) Append(candidate Assignment) int {
	hard, deltaScore := s.PeekAppend(candidate)
	i := len(s.vector)
	s.vector = append(s.vector, candidate)
	s.insertBuckets(i, candidate)
	s.hardCount += hard
	s.score += deltaScore
	return i
}

// Violations performs a full scan and returns the concrete violation list
// for the current vector (spec §3's Violation records), used once by the
// driver's post-flight packaging, not in the inner loop.
func (s *State) Violations() []Violation {
	var out []Violation
	idx := s.eval.idx
	cfg := s.eval.cfg

	reportedRoom := make(map[[2]int]bool)
	reportedInstructor := make(map[[2]int]bool)
	reportedGroup := make(map[[2]int]bool)
	for i, a := range s.vector {
		if cfg.Hard.NoRoomDoubleBooking {
			addPairViolations(s, i, a, s.byRoomDay[dayResKey{a.RoomID, a.Day}], "noRoomDoubleBooking", reportedRoom, &out)
		}
		if cfg.Hard.NoInstructorDoubleBooking {
			addPairViolations(s, i, a, s.byInstructorDay[dayResKey{a.InstructorID, a.Day}], "noInstructorDoubleBooking", reportedInstructor, &out)
		}
		addPairViolations(s, i, a, s.byGroupDay[dayResKey{a.GroupID, a.Day}], "noGroupDoubleBooking", reportedGroup, &out)

		room := idx.RoomsByID[a.RoomID]
		group := idx.GroupsByID[a.GroupID]
		course := idx.CoursesByID[a.CourseID]
		instructor := idx.InstructorsByID[a.InstructorID]

		if cfg.Hard.RoomCapacityCheck && room.Capacity < group.Size {
			out = append(out, Violation{Type: "roomCapacityCheck", Severity: SeverityHard,
				Description: "room capacity is smaller than group size", AffectedAssignmentIndices: []int{i}})
		}
		if cfg.Hard.RoomTypeMatch && course.RequiredRoomType != "" && course.RequiredRoomType != room.RoomType {
			out = append(out, Violation{Type: "roomTypeMatch", Severity: SeverityHard,
				Description: "room type does not match course requirement", AffectedAssignmentIndices: []int{i}})
		}
		if cfg.Hard.WorkingHoursOnly && (a.StartMinute < cfg.WorkingHoursStart || a.EndMinute > cfg.WorkingHoursEnd) {
			out = append(out, Violation{Type: "workingHoursOnly", Severity: SeverityHard,
				Description: "assignment falls outside working hours", AffectedAssignmentIndices: []int{i}})
		}
		if !availabilityContains(instructor.Availability[a.Day], a.Range()) {
			out = append(out, Violation{Type: "instructorAvailability", Severity: SeverityHard,
				Description: "assignment falls outside instructor availability", AffectedAssignmentIndices: []int{i}})
		}
	}
	return out
}

func addPairViolations(s *State, i int, a Assignment, bucket []int, violationType string, reported map[[2]int]bool, out *[]Violation) {
	for _, j := range bucket {
		if j <= i {
			continue
		}
		if !a.Range().Overlaps(s.vector[j].Range()) {
			continue
		}
		key := [2]int{i, j}
		if reported[key] {
			continue
		}
		reported[key] = true
		*out = append(*out, Violation{
			Type:                      violationType,
			Severity:                  SeverityHard,
			Description:               "overlapping assignments share a resource",
			AffectedAssignmentIndices: []int{i, j},
		})
	}
}
