package timetable

import "sort"

// Greedy builds a feasible-as-possible starting Assignment vector (spec
// §4.2): tasks are placed in descending priority order, each into the first
// candidate (day, start, room) triple that introduces zero hard violations
// against assignments already placed; if none exists the task is placed at
// the lexicographically first triple anyway and its violations are carried
// forward into the annealing phase.
func Greedy(eval *Evaluator, tasks []SessionTask) *State {
	idx := eval.idx
	cfg := eval.cfg

	ordered := append([]SessionTask(nil), tasks...)
	sort.SliceStable(ordered, func(i, j int) bool {
		gi := idx.GroupsByID[ordered[i].GroupID]
		gj := idx.GroupsByID[ordered[j].GroupID]
		if gi.Size != gj.Size {
			return gi.Size > gj.Size
		}
		ci := idx.CoursesByID[ordered[i].CourseID]
		cj := idx.CoursesByID[ordered[j].CourseID]
		if ci.DurationMinutes != cj.DurationMinutes {
			return ci.DurationMinutes > cj.DurationMinutes
		}
		return ci.ID < cj.ID
	})

	state := NewState(eval, nil)
	for _, task := range ordered {
		placeTask(state, idx, cfg, task)
	}
	return state
}

func placeTask(state *State, idx Indexes, cfg ConstraintConfig, task SessionTask) {
	course := idx.CoursesByID[task.CourseID]
	group := idx.GroupsByID[task.GroupID]
	rooms := candidateRooms(idx.RoomsSorted, course, group)
	starts := CandidateStarts(cfg.WorkingHoursStart, cfg.WorkingHoursEnd, course.DurationMinutes)

	var firstCandidate Assignment
	haveFirst := false
	for _, day := range allDays {
		for _, start := range starts {
			for _, room := range rooms {
				candidate := Assignment{
					CourseID:     task.CourseID,
					InstructorID: task.InstructorID,
					RoomID:       room.ID,
					GroupID:      task.GroupID,
					Day:          day,
					StartMinute:  start,
					EndMinute:    start + course.DurationMinutes,
				}
				if !haveFirst {
					firstCandidate = candidate
					haveFirst = true
				}
				if hard, _ := state.PeekAppend(candidate); hard == 0 {
					state.Append(candidate)
					return
				}
			}
		}
	}
	// No conflict-free triple exists; place at the lexicographically first
	// candidate anyway and let its violations surface in the final report.
	if haveFirst {
		state.Append(firstCandidate)
	}
}

// candidateRooms sorts rooms by (type-matches-first, capacity ascending,
// id ascending), per spec §4.2. Rooms are not filtered out for insufficient
// capacity; the capacity predicate is reported as a hard violation like any
// other if no adequately sized room exists.
func candidateRooms(rooms []Room, course Course, group StudentGroup) []Room {
	out := append([]Room(nil), rooms...)
	matches := func(r Room) bool {
		return course.RequiredRoomType == "" || course.RequiredRoomType == r.RoomType
	}
	sort.SliceStable(out, func(i, j int) bool {
		mi, mj := matches(out[i]), matches(out[j])
		if mi != mj {
			return mi
		}
		if out[i].Capacity != out[j].Capacity {
			return out[i].Capacity < out[j].Capacity
		}
		return out[i].ID < out[j].ID
	})
	_ = group
	return out
}
