package snapshot

// GenerateSnapshotRequest represents the request to generate a snapshot
// from raw VTT transcript content.
type GenerateSnapshotRequest struct {
	VTTContent   string `json:"vtt_content" validate:"required"`
	Filename     string `json:"filename,omitempty"`
	OutputFormat string `json:"output_format,omitempty" validate:"omitempty,oneof=json markdown"`
}

// ListRecordingsRequest represents query parameters for listing Zoom
// cloud recordings.
type ListRecordingsRequest struct {
	FromDate      string `query:"from_date"`
	ToDate        string `query:"to_date"`
	PageSize      int    `query:"page_size" validate:"omitempty,min=1,max=300"`
	Topic         string `query:"topic"`
	HasTranscript bool   `query:"has_transcript"`
}
