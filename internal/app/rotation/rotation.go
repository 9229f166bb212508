// Package rotation computes which quiz sets are active for a given
// week. Three consecutive sets go live each ISO week, stepping by
// three sets per week and wrapping around the configured total.
package rotation

import "time"

// DefaultTotalSets is the rotation modulus used when no explicit total
// is configured.
const DefaultTotalSets = 52

// Week returns the ISO-8601 week number for now (Monday-start weeks,
// week 1 contains the year's first Thursday).
func Week(now time.Time) int {
	_, week := now.ISOWeek()
	return week
}

// ActiveSets maps the ISO week of now onto three active set numbers in
// [1, totalSets]. The result is deterministic for a given (date,
// totalSets) pair and needs no I/O.
//
// The three set numbers are not guaranteed pairwise distinct for every
// totalSets value; callers must tolerate coinciding entries.
func ActiveSets(now time.Time, totalSets int) [3]int {
	return ActiveSetsForWeek(Week(now), totalSets)
}

// ActiveSetsForWeek is ActiveSets with the week number supplied
// directly, for callers that already computed it.
func ActiveSetsForWeek(week, totalSets int) [3]int {
	if totalSets < 1 {
		totalSets = DefaultTotalSets
	}

	start := ((week-1)*3)%totalSets + 1
	sets := [3]int{
		start,
		(start % totalSets) + 1,
		((start + 1) % totalSets) + 1,
	}
	// The modulo can push a value past totalSets before the +1; clamp
	// back into [1, totalSets].
	for i, s := range sets {
		if s > totalSets {
			sets[i] = s - totalSets
		}
		if sets[i] < 1 {
			sets[i] = totalSets
		}
	}
	return sets
}

// WeekStart returns the instant the current ISO week began (Monday
// 00:00 in now's location). The cleanup job uses it as the deletion
// cutoff for prior-week answers.
func WeekStart(now time.Time) time.Time {
	weekday := int(now.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	day := now.AddDate(0, 0, -(weekday - 1))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
}
