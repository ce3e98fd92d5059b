package generator

import "strings"

// ValidationResult is the outcome of sanitizing and scanning one generated text.
type ValidationResult struct {
	Text    string   `json:"text"`
	Flagged []string `json:"flagged,omitempty"`
}

const (
	StatusClean    = "검증완료"
	StatusAllClean = "✅ 모든 검사 통과"
	warningPrefix  = "⚠️금지어주의"
)

// Clean reports whether no prohibited term was found.
func (r ValidationResult) Clean() bool { return len(r.Flagged) == 0 }

// Status renders the batch status string, e.g. "⚠️금지어주의(대학교,수상)".
func (r ValidationResult) Status() string {
	if r.Clean() {
		return StatusClean
	}
	return warningPrefix + "(" + strings.Join(r.Flagged, ",") + ")"
}

// Warning renders the inline tag prepended in embed mode.
func (r ValidationResult) Warning() string {
	if r.Clean() {
		return ""
	}
	return "[" + warningPrefix + ": " + strings.Join(r.Flagged, ", ") + "] "
}

// IsWarning reports whether a status string carries a prohibited-term warning.
func IsWarning(status string) bool {
	return strings.Contains(status, "⚠️")
}
