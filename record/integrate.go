package record

import (
	"maps"
	"slices"
)

// Integrate merges course and homeroom results into one record per student.
// The result covers the union of names in ascending order; missing areas are "".
func Integrate(course map[string]string, homeroom map[string]HomeroomResult) []IntegratedRecord {
	names := make(map[string]struct{}, len(course)+len(homeroom))
	for n := range course {
		names[n] = struct{}{}
	}
	for n := range homeroom {
		names[n] = struct{}{}
	}

	out := make([]IntegratedRecord, 0, len(names))
	for _, n := range slices.Sorted(maps.Keys(names)) {
		h := homeroom[n]
		out = append(out, IntegratedRecord{
			Name:       n,
			Course:     course[n],
			Career:     h.Career,
			Autonomous: h.Autonomous,
			Behavior:   h.Behavior,
		})
	}
	return out
}

// Find returns the record whose name matches exactly after normalization.
func Find(records []IntegratedRecord, name string) (int, IntegratedRecord, error) {
	want := NormalizeName(name)
	for i, r := range records {
		if NormalizeName(r.Name) == want {
			return i, r, nil
		}
	}
	return -1, IntegratedRecord{}, ErrNotFound
}
