package record

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims and NFC-normalizes a student name so that names typed
// on different systems compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Group sorts records by (name, date) and partitions them per student.
// Records with an empty name are dropped. Groups come out in ascending
// name order; each group's records are in ascending date order.
func Group(records []ObservationRecord) []StudentGroup {
	kept := make([]ObservationRecord, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Name) == "" {
			continue
		}
		kept = append(kept, r)
	}
	slices.SortStableFunc(kept, func(a, b ObservationRecord) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Date, b.Date)
	})

	var groups []StudentGroup
	for _, r := range kept {
		if n := len(groups); n > 0 && groups[n-1].Name == r.Name {
			groups[n-1].Records = append(groups[n-1].Records, r)
			continue
		}
		groups = append(groups, StudentGroup{Name: r.Name, Records: []ObservationRecord{r}})
	}
	return groups
}
