package entities

// SectionContent is a section as it appears in the final snapshot output.
type SectionContent struct {
	Content       string   `json:"content"`
	Confidence    float64  `json:"confidence"`
	MissingFields []string `json:"missing_fields"`
}

// SnapshotMetadata aggregates generation-level statistics.
type SnapshotMetadata struct {
	AvgConfidence     float64             `json:"avg_confidence"`
	TotalSections     int                 `json:"total_sections"`
	EntitiesExtracted map[string][]string `json:"entities_extracted"`
	TopicsIdentified  []string            `json:"topics_identified"`
}

// SnapshotOutput is the complete Customer Success Snapshot. Assembled
// exactly once, at the end of a successful pipeline run.
type SnapshotOutput struct {
	Sections      map[string]SectionContent `json:"sections"`
	Metadata      SnapshotMetadata          `json:"metadata"`
	Validation    ValidationResult          `json:"validation"`
	MissingFields []string                  `json:"missing_fields"`
}

// SectionCount returns the number of sections.
func (s *SnapshotOutput) SectionCount() int {
	return len(s.Sections)
}
