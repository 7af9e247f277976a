// Package hours converts between the provider's per-weekday text lines and
// the compact human-readable range string used in the published schema.
package hours

import (
	"sort"
	"strings"
)

// Fallback is the opening-hours string substituted whenever a record
// carries no usable hours at all. It is part of the output contract.
const Fallback = "Mon-Fri: 9:00-18:00, Sat: 9:00-16:00"

// dayAbbrev maps full English weekday names to the canonical
// three-letter abbreviations used as mapping keys.
var dayAbbrev = map[string]string{
	"Monday":    "Mon",
	"Tuesday":   "Tue",
	"Wednesday": "Wed",
	"Thursday":  "Thu",
	"Friday":    "Fri",
	"Saturday":  "Sat",
	"Sunday":    "Sun",
}

// dayOrder assigns each abbreviation its position in the week, Mon=0.
var dayOrder = map[string]int{
	"Mon": 0,
	"Tue": 1,
	"Wed": 2,
	"Thu": 3,
	"Fri": 4,
	"Sat": 5,
	"Sun": 6,
}

// unknownDayOrder sorts after every real weekday. Days outside the
// canonical table keep this key so they land at the end and are never
// merged into a range.
const unknownDayOrder = 7

// ParseWeekdayText converts provider lines of the form
// "<FullWeekdayName>: <hours text>" into a day→hours mapping keyed by
// abbreviation. Lines without the ": " separator are skipped; unrecognized
// day names are kept verbatim as keys.
func ParseWeekdayText(lines []string) map[string]string {
	byDay := make(map[string]string)

	for _, line := range lines {
		parts := strings.SplitN(line, ": ", 2)
		if len(parts) != 2 {
			continue
		}

		day := parts[0]
		if abbrev, ok := dayAbbrev[day]; ok {
			day = abbrev
		}
		byDay[day] = parts[1]
	}

	return byDay
}

// Format renders a day→hours mapping as a compact range string, e.g.
// {Mon..Wed: "9:00-18:00", Sat: "9:00-16:00"} → "Mon-Wed: 9:00-18:00,
// Sat: 9:00-16:00". Days sharing identical hours are grouped, maximal runs
// of consecutive weekdays collapse to "First-Last", and dash variants in
// the hours text are normalized to a bare "-". An empty mapping formats to
// the fixed Fallback string.
func Format(byDay map[string]string) string {
	if len(byDay) == 0 {
		return Fallback
	}

	// Deterministic base order: week order first, unknown days last,
	// ties broken by name.
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		oi, oj := orderOf(days[i]), orderOf(days[j])
		if oi != oj {
			return oi < oj
		}
		return days[i] < days[j]
	})

	// Group days sharing identical (normalized) hours, keeping groups in
	// order of their earliest day.
	type group struct {
		hours string
		days  []string
	}
	var groups []group
	index := make(map[string]int)

	for _, day := range days {
		text := normalizeDashes(byDay[day])
		if i, ok := index[text]; ok {
			groups[i].days = append(groups[i].days, day)
			continue
		}
		index[text] = len(groups)
		groups = append(groups, group{hours: text, days: []string{day}})
	}

	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, formatDayRuns(g.days)+": "+g.hours)
	}
	return strings.Join(parts, ", ")
}

// formatDayRuns collapses a week-ordered day list into range labels:
// [Mon Tue Wed Sat] → "Mon-Wed, Sat". Unknown days stay singletons.
func formatDayRuns(days []string) string {
	var labels []string

	for i := 0; i < len(days); {
		j := i
		for j+1 < len(days) && consecutive(days[j], days[j+1]) {
			j++
		}
		if j > i {
			labels = append(labels, days[i]+"-"+days[j])
		} else {
			labels = append(labels, days[i])
		}
		i = j + 1
	}

	return strings.Join(labels, ", ")
}

// consecutive reports whether b directly follows a in the week. Unknown
// days never chain.
func consecutive(a, b string) bool {
	oa, ob := orderOf(a), orderOf(b)
	if oa == unknownDayOrder || ob == unknownDayOrder {
		return false
	}
	return ob == oa+1
}

// orderOf returns a day's week position, or unknownDayOrder for names
// outside the canonical table.
func orderOf(day string) int {
	if o, ok := dayOrder[day]; ok {
		return o
	}
	return unknownDayOrder
}

// normalizeDashes collapses the spaced dash variants providers emit into a
// bare hyphen.
func normalizeDashes(text string) string {
	text = strings.ReplaceAll(text, " – ", "-")
	text = strings.ReplaceAll(text, " - ", "-")
	return text
}
