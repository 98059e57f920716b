package entities

// TranscriptStructure summarizes the conversational shape of a transcript.
type TranscriptStructure struct {
	MeetingType      string         `json:"meeting_type"`
	SpeakerCount     int            `json:"speaker_count"`
	TotalTurns       int            `json:"total_turns"`
	DurationSeconds  float64        `json:"duration_seconds"`
	SpeakerTurnCount map[string]int `json:"speaker_turns_count"`
	SpeakerWordCount map[string]int `json:"speaker_word_count"`
	AvgTurnLength    float64        `json:"avg_turn_length"`
}

// AnalysisMetadata records how the analysis was produced.
type AnalysisMetadata struct {
	Method     string `json:"analysis_method"`
	NLPEnabled bool   `json:"nlp_enabled"`
}

// AnalysisResult is the full output of the transcript analyzer.
// Consumed read-only downstream.
type AnalysisResult struct {
	Entities         map[string][]string `json:"entities"`
	Topics           []string            `json:"topics"`
	KeyPhrases       []string            `json:"key_phrases"`
	Structure        TranscriptStructure `json:"structure"`
	DataAvailability map[string]float64  `json:"data_availability"`
	Metadata         AnalysisMetadata    `json:"metadata"`
}

// AnalysisView is the uniform projection of an analysis that section
// generators consume: entity lists keyed by type plus ordered topics.
type AnalysisView struct {
	Entities map[string][]string
	Topics   []string
}

// AnalysisSource is anything that can present an AnalysisView. The two
// concrete shapes are *AnalysisResult (a real analysis) and PlainAnalysis
// (a bare key-value view, used when no analysis exists, e.g. for the
// Executive Summary call).
type AnalysisSource interface {
	AnalysisView() AnalysisView
}

// AnalysisView implements AnalysisSource.
func (r *AnalysisResult) AnalysisView() AnalysisView {
	if r == nil {
		return AnalysisView{}
	}
	return AnalysisView{Entities: r.Entities, Topics: r.Topics}
}

// PlainAnalysis is an unstructured analysis substitute.
type PlainAnalysis struct {
	Entities map[string][]string
	Topics   []string
}

// AnalysisView implements AnalysisSource.
func (p PlainAnalysis) AnalysisView() AnalysisView {
	return AnalysisView{Entities: p.Entities, Topics: p.Topics}
}
