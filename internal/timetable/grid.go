package timetable

import (
	"fmt"
	"strconv"
	"strings"
)

// SlotGranularityMinutes is the fixed slot size candidate start times are
// drawn from. The spec permits deriving this as a GCD of course durations
// bounded below by 30; this implementation fixes 60-minute slots and
// requires every course duration to be a positive multiple of it.
const SlotGranularityMinutes = 60

// ParseClockTime parses an "HH:MM" string into minutes-since-midnight. It
// accepts the closed range [00:00, 24:00].
func ParseClockTime(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("malformed hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m >= 60 {
		return 0, fmt.Errorf("malformed minute in %q", s)
	}
	total := h*60 + m
	if total > 24*60 {
		return 0, fmt.Errorf("time %q out of range [00:00, 24:00]", s)
	}
	return total, nil
}

// FormatClockTime renders minutes-since-midnight back to "HH:MM".
func FormatClockTime(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// ParseRange parses a wire availability string "HH:MM-HH:MM" into a
// TimeRange. Well-formedness (start < end, within [00:00, 24:00)) is checked.
func ParseRange(raw string) (TimeRange, error) {
	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 {
		return TimeRange{}, fmt.Errorf("malformed range %q: want HH:MM-HH:MM", raw)
	}
	start, err := ParseClockTime(strings.TrimSpace(parts[0]))
	if err != nil {
		return TimeRange{}, err
	}
	end, err := ParseClockTime(strings.TrimSpace(parts[1]))
	if err != nil {
		return TimeRange{}, err
	}
	if start >= end {
		return TimeRange{}, fmt.Errorf("range %q has start >= end", raw)
	}
	if end > 24*60 {
		return TimeRange{}, fmt.Errorf("range %q extends past 24:00", raw)
	}
	return TimeRange{Start: start, End: end}, nil
}

// CandidateStarts returns, in ascending order, every slot-granularity-aligned
// minute offset within [workingStart, workingEnd) at which a session of the
// given duration could begin without running past working hours.
func CandidateStarts(workingStart, workingEnd, duration int) []int {
	var starts []int
	for t := roundUpToSlot(workingStart); t+duration <= workingEnd; t += SlotGranularityMinutes {
		if t < workingStart {
			continue
		}
		starts = append(starts, t)
	}
	return starts
}

func roundUpToSlot(minutes int) int {
	if minutes%SlotGranularityMinutes == 0 {
		return minutes
	}
	return minutes + (SlotGranularityMinutes - minutes%SlotGranularityMinutes)
}

// availabilityContains reports whether the union of ranges fully contains r.
func availabilityContains(ranges []TimeRange, r TimeRange) bool {
	covered := r.Start
	for progressed := true; progressed && covered < r.End; {
		progressed = false
		for _, avail := range ranges {
			if avail.Start <= covered && avail.End > covered {
				covered = avail.End
				progressed = true
			}
		}
	}
	return covered >= r.End
}
