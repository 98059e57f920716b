package entities

// ValidationResult is the consolidated verdict of rule-based and LLM-based
// quality checks over a section set.
type ValidationResult struct {
	FactualConsistency   bool     `json:"factual_consistency"`
	Completeness         bool     `json:"completeness"`
	Quality              bool     `json:"quality"`
	Issues               []string `json:"issues"`
	Improvements         []string `json:"improvements"`
	RequiresImprovements bool     `json:"requires_improvements"`
	MissingCriticalInfo  []string `json:"missing_critical_info"`
}

// NewValidationResult returns the "no problems found" verdict, also used
// when the qualitative review itself is unavailable.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		FactualConsistency:  true,
		Completeness:        true,
		Quality:             true,
		Issues:              []string{},
		Improvements:        []string{},
		MissingCriticalInfo: []string{},
	}
}

// IsValid reports whether all quality checks passed.
func (v *ValidationResult) IsValid() bool {
	return v.FactualConsistency && v.Completeness && v.Quality
}

// IssueCount returns the total number of issues.
func (v *ValidationResult) IssueCount() int {
	return len(v.Issues)
}
