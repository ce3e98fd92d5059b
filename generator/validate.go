package generator

// Mode selects how a validation warning is surfaced.
type Mode int

const (
	// ModeReport keeps the sanitized text untouched; flags travel as metadata.
	ModeReport Mode = iota
	// ModeEmbed prepends a visible warning tag to the returned text.
	ModeEmbed
)

// Validate sanitizes raw and scans the result for prohibited terms.
// In ModeEmbed a flagged result's Text starts with the warning tag.
func Validate(raw, studentName string, terms TermSet, mode Mode) ValidationResult {
	res := ValidationResult{Text: Sanitize(raw, studentName)}
	res.Flagged = ScanProhibited(res.Text, terms)
	if mode == ModeEmbed && !res.Clean() {
		res.Text = res.Warning() + res.Text
	}
	return res
}
