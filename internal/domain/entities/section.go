package entities

import "fmt"

// SectionMetadata describes how a section's content was generated.
type SectionMetadata struct {
	Model        string         `json:"model,omitempty"`
	TokensUsed   map[string]int `json:"tokens_used,omitempty"`
	FinishReason string         `json:"finish_reason,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// SectionResult is one section's generation outcome. Created once per
// section per pipeline run and never mutated afterwards; a failed
// generation yields a substitute instance instead.
type SectionResult struct {
	SectionName   string          `json:"section_name"`
	Content       string          `json:"content"`
	Confidence    float64         `json:"confidence"`
	MissingFields []string        `json:"missing_fields"`
	Metadata      SectionMetadata `json:"metadata"`
}

// NewErrorPlaceholder creates the substitute SectionResult used when a
// section's generation call fails, preserving pipeline completion.
func NewErrorPlaceholder(sectionName string, err error) *SectionResult {
	return &SectionResult{
		SectionName:   sectionName,
		Content:       fmt.Sprintf("[Section generation failed: %v]", err),
		Confidence:    0.0,
		MissingFields: []string{},
		Metadata:      SectionMetadata{Error: err.Error()},
	}
}
