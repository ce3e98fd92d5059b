package generator

import "strings"

// DefaultProhibitedTerms is the school-record policy list: outside activities
// and awards, certified tests, family background and superlatives.
var DefaultProhibitedTerms = []string{
	"대학교", "대학원", "교외", "외부", "상장", "수상", "1위", "우승", "금상", "은상", "동상",
	"토익", "TOEIC", "토플", "TOEFL", "텝스", "TEPS", "HSK", "JLPT", "자격증", "영재원",
	"아버지", "어머니", "부모", "교수", "의사", "변호사", "회장님", "학원", "과외",
	"매우", "너무", "최고의", "천재적인",
}

// TermSet is an ordered set of prohibited terms.
type TermSet struct {
	terms []string
}

// NewTermSet keeps the first occurrence of every term. Terms are matched
// verbatim, surrounding spaces included; blank terms are dropped.
func NewTermSet(terms []string) TermSet {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if strings.TrimSpace(t) == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return TermSet{terms: out}
}

// Terms returns a copy of the terms in insertion order.
func (s TermSet) Terms() []string {
	return append([]string(nil), s.terms...)
}

// Len returns the number of terms.
func (s TermSet) Len() int { return len(s.terms) }

// ScanProhibited returns the terms that occur in text, in set order.
// Matching is a case-sensitive substring test.
func ScanProhibited(text string, terms TermSet) []string {
	var found []string
	for _, t := range terms.terms {
		if strings.Contains(text, t) {
			found = append(found, t)
		}
	}
	return found
}
