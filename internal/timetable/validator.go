package timetable

import "fmt"

// Conflict is one reported reason a proposed move is invalid.
type Conflict struct {
	Type    string
	Message string
}

// MoveRequest is an interactive edit proposed by the drag-and-drop editor:
// move the assignment at Index to NewDay/NewStart, optionally also to a
// different room.
type MoveRequest struct {
	Index     int
	NewDay    Day
	NewStart  int
	NewRoomID string // empty means keep the current room
}

// Validator reuses an Evaluator's predicates against a fixed, externally
// owned current vector (spec §4.4). It holds no vector of its own; callers
// pass the latest persisted vector on every call, since the UI — not the
// core — owns it between edits.
type Validator struct {
	eval *Evaluator
}

// NewValidator builds a Validator over the given Evaluator.
func NewValidator(eval *Evaluator) *Validator {
	return &Validator{eval: eval}
}

// ValidateMove constructs the candidate replacement for req and runs the
// hard-only portion of §4.1 in delta mode against vector, returning every
// hard predicate the candidate would fail. The result is empty iff the move
// is valid.
func (v *Validator) ValidateMove(vector []Assignment, req MoveRequest) ([]Conflict, error) {
	if req.Index < 0 || req.Index >= len(vector) {
		return nil, &Error{Kind: Internal, Message: fmt.Sprintf("assignment index %d out of range", req.Index)}
	}

	idx := v.eval.idx
	cfg := v.eval.cfg

	old := vector[req.Index]
	course := idx.CoursesByID[old.CourseID]
	candidate := old
	candidate.Day = req.NewDay
	candidate.StartMinute = req.NewStart
	candidate.EndMinute = req.NewStart + course.DurationMinutes
	if req.NewRoomID != "" {
		candidate.RoomID = req.NewRoomID
	}

	state := NewState(v.eval, vector)
	roomHard, instructorHard, groupHard := state.pairHardCounts(req.Index, candidate)
	capacityHard, _ := state.soloHardCount(candidate)

	room := idx.RoomsByID[candidate.RoomID]
	instructor := idx.InstructorsByID[candidate.InstructorID]

	var conflicts []Conflict
	if cfg.Hard.NoRoomDoubleBooking && roomHard > 0 {
		conflicts = append(conflicts, Conflict{Type: "noRoomDoubleBooking", Message: "the target room is already booked for an overlapping interval"})
	}
	if cfg.Hard.NoInstructorDoubleBooking && instructorHard > 0 {
		conflicts = append(conflicts, Conflict{Type: "noInstructorDoubleBooking", Message: "the instructor is already booked for an overlapping interval"})
	}
	if groupHard > 0 {
		conflicts = append(conflicts, Conflict{Type: "noGroupDoubleBooking", Message: "the group is already booked for an overlapping interval"})
	}
	if req.NewRoomID != "" && capacityHard > 0 {
		conflicts = append(conflicts, Conflict{Type: "roomCapacityCheck", Message: "room capacity is smaller than group size"})
	}
	if cfg.Hard.RoomTypeMatch && course.RequiredRoomType != "" && course.RequiredRoomType != room.RoomType {
		conflicts = append(conflicts, Conflict{Type: "roomTypeMatch", Message: "room type does not match course requirement"})
	}
	if cfg.Hard.WorkingHoursOnly && (candidate.StartMinute < cfg.WorkingHoursStart || candidate.EndMinute > cfg.WorkingHoursEnd) {
		conflicts = append(conflicts, Conflict{Type: "workingHoursOnly", Message: "assignment falls outside working hours"})
	}
	if !availabilityContains(instructor.Availability[candidate.Day], candidate.Range()) {
		conflicts = append(conflicts, Conflict{Type: "instructorAvailability", Message: "assignment falls outside instructor availability"})
	}
	return conflicts, nil
}
