package record

import (
	"strings"
	"unicode/utf8"
)

var roleMarkers = []string{"역", "도우미", "부장"}

// ScanRoles extracts name→role pairs from a loosely laid out grid. A cell of
// two to four characters followed by a cell naming a role is taken as a pair;
// later pairs overwrite earlier ones in row-then-column order.
func ScanRoles(grid [][]string) RoleMap {
	roles := RoleMap{}
	for _, row := range grid {
		for i := 0; i+1 < len(row); i++ {
			name := NormalizeName(row[i])
			role := strings.TrimSpace(row[i+1])
			if n := utf8.RuneCountInString(name); n < 2 || n > 4 || role == "" {
				continue
			}
			if isRole(role) {
				roles[name] = role
			}
		}
	}
	return roles
}

func isRole(s string) bool {
	for _, m := range roleMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
