package timetable

import "math/rand"

func seededRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// fixedWeights is the soft-weight vector the spec's concrete scenarios use:
// {instructorPreferences, compactSchedules, balancedDailyLoad, preferredRooms}.
func fixedWeights() SoftWeights {
	return SoftWeights{InstructorPreferences: 5, CompactSchedules: 7, BalancedDailyLoad: 6, PreferredRooms: 3}
}

func allHardFlags() HardFlags {
	return HardFlags{
		NoRoomDoubleBooking:       true,
		NoInstructorDoubleBooking: true,
		RoomCapacityCheck:         true,
		RoomTypeMatch:             true,
		WorkingHoursOnly:          true,
	}
}

func baseConstraints() ConstraintConfig {
	return ConstraintConfig{
		Hard:              allHardFlags(),
		Soft:              fixedWeights(),
		WorkingHoursStart: 8 * 60,
		WorkingHoursEnd:   18 * 60,
		Annealing:         DefaultAnnealingParams(),
	}
}

func mustRange(t interface{ Fatalf(string, ...interface{}) }, raw string) TimeRange {
	r, err := ParseRange(raw)
	if err != nil {
		t.Fatalf("ParseRange(%q): %v", raw, err)
	}
	return r
}
