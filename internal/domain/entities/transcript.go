package entities

// SpeakerTurn is one speaking turn within a transcript.
type SpeakerTurn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// TranscriptMetadata carries parse-time context for a transcript.
type TranscriptMetadata struct {
	Filename     string `json:"filename"`
	CaptionCount int    `json:"caption_count"`
	SpeakerCount int    `json:"speaker_count"`
}

// TranscriptData is a parsed VTT transcript. Immutable once parsed.
type TranscriptData struct {
	Text     string             `json:"text"`
	Speakers []string           `json:"speakers"`
	Turns    []SpeakerTurn      `json:"speaker_turns"`
	Duration float64            `json:"duration"`
	Metadata TranscriptMetadata `json:"metadata"`
}
