package timetable

import "fmt"

// validateSnapshot performs the driver's pre-flight checks (spec §4.5, §7):
// presence of every entity collection and the constraint config, referential
// integrity of ids, and structural well-formedness of times/durations/weights.
func validateSnapshot(snap Snapshot) error {
	if len(snap.Courses) == 0 {
		return newMissing("snapshot has no courses")
	}
	if len(snap.Instructors) == 0 {
		return newMissing("snapshot has no instructors")
	}
	if len(snap.Rooms) == 0 {
		return newMissing("snapshot has no rooms")
	}
	if len(snap.Groups) == 0 {
		return newMissing("snapshot has no student groups")
	}

	cfg := snap.Constraints
	if cfg.WorkingHoursEnd-cfg.WorkingHoursStart < 120 {
		return newInvalid("constraints.working_hours", "working hours window must be at least 120 minutes")
	}
	if cfg.WorkingHoursStart < 0 || cfg.WorkingHoursEnd > 24*60 {
		return newInvalid("constraints.working_hours", "working hours must lie within [00:00, 24:00]")
	}
	for name, w := range map[string]int{
		"instructorPreferences": cfg.Soft.InstructorPreferences,
		"compactSchedules":      cfg.Soft.CompactSchedules,
		"balancedDailyLoad":     cfg.Soft.BalancedDailyLoad,
		"preferredRooms":        cfg.Soft.PreferredRooms,
	} {
		if w < 0 || w > 10 {
			return newInvalid(fmt.Sprintf("constraints.soft_weights.%s", name), "weight must be within [0,10]")
		}
	}
	if cfg.Soft.InstructorPreferences == 0 && cfg.Soft.CompactSchedules == 0 &&
		cfg.Soft.BalancedDailyLoad == 0 && cfg.Soft.PreferredRooms == 0 {
		return newInvalid("constraints.soft_weights", "at least one soft weight must be > 0")
	}

	instructors := make(map[string]bool, len(snap.Instructors))
	for i, ins := range snap.Instructors {
		instructors[ins.ID] = true
		for day, ranges := range ins.Availability {
			if day < Monday || day > Sunday {
				return newInvalid(fmt.Sprintf("instructors[%d].availability", i), "unrecognized day key")
			}
			for _, r := range ranges {
				if r.Start < 0 || r.End > 24*60 || r.Start >= r.End {
					return newInvalid(fmt.Sprintf("instructors[%d].availability", i), "malformed availability range")
				}
			}
		}
	}
	rooms := make(map[string]bool, len(snap.Rooms))
	for i, r := range snap.Rooms {
		if r.Capacity < 1 {
			return newInvalid(fmt.Sprintf("rooms[%d].capacity", i), "capacity must be >= 1")
		}
		rooms[r.ID] = true
	}
	groups := make(map[string]bool, len(snap.Groups))
	for i, g := range snap.Groups {
		if g.Size < 1 {
			return newInvalid(fmt.Sprintf("groups[%d].size", i), "size must be >= 1")
		}
		if len(g.CourseIDs) == 0 {
			return newInvalid(fmt.Sprintf("groups[%d].course_ids", i), "group must reference at least one course")
		}
		groups[g.ID] = true
	}

	for i, c := range snap.Courses {
		if c.DurationMinutes <= 0 || c.DurationMinutes%SlotGranularityMinutes != 0 {
			return newInvalid(fmt.Sprintf("courses[%d].duration", i), "duration must be a positive multiple of the slot granularity")
		}
		if len(c.InstructorIDs) == 0 {
			return newInvalid(fmt.Sprintf("courses[%d].instructor_ids", i), "course must reference at least one instructor")
		}
		if len(c.GroupIDs) == 0 {
			return newInvalid(fmt.Sprintf("courses[%d].group_ids", i), "course must reference at least one group")
		}
		for _, id := range c.InstructorIDs {
			if !instructors[id] {
				return newInvalid(fmt.Sprintf("courses[%d].instructor_ids", i), fmt.Sprintf("unknown instructor id %q", id))
			}
		}
		for _, id := range c.GroupIDs {
			if !groups[id] {
				return newInvalid(fmt.Sprintf("courses[%d].group_ids", i), fmt.Sprintf("unknown group id %q", id))
			}
		}
	}
	return nil
}
