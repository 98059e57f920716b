// Package analysis extracts structured information from parsed transcripts.
// It combines pattern-based extraction (entities, topics, key phrases,
// structure) with an optional LLM pass for deeper insight; the LLM pass is
// best-effort and its failure never fails the analysis.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/snapshotdev/snapshot-server/internal/domain/entities"
	"github.com/snapshotdev/snapshot-server/pkg/config"
	"github.com/snapshotdev/snapshot-server/pkg/llm"
)

const analyzerSystemPrompt = `You are an expert meeting analyst. You extract structured, factual information from meeting transcripts: named entities, discussion topics, conversation structure, and how much usable data the transcript holds for a customer success report. You respond with valid JSON only.`

const maxTranscriptChars = 3000

// llmInsights is the shape of the analyzer LLM response.
type llmInsights struct {
	Entities         map[string][]string `json:"entities"`
	Topics           []string            `json:"topics"`
	Structure        map[string]any      `json:"structure"`
	DataAvailability map[string]float64  `json:"data_availability"`
}

// Analyzer performs hybrid transcript analysis.
type Analyzer struct {
	sampler llm.Sampler
	cfg     *config.Config
	logger  *zap.Logger
}

// NewAnalyzer creates a new Analyzer instance
func NewAnalyzer(sampler llm.Sampler, cfg *config.Config, logger *zap.Logger) *Analyzer {
	return &Analyzer{sampler: sampler, cfg: cfg, logger: logger}
}

// Analyze extracts entities, topics, key phrases, structure, and per-section
// data availability from a parsed transcript. Individual extraction steps
// degrade to empty results on failure; Analyze itself does not fail.
func (a *Analyzer) Analyze(ctx context.Context, data *entities.TranscriptData, additionalContext string) *entities.AnalysisResult {
	transcript := data.Text

	a.logger.Info("starting transcript analysis",
		zap.Int("transcript_length", len(transcript)))

	ents := map[string][]string{}
	if a.cfg.NLP.ExtractEntities {
		ents = ExtractEntities(transcript)
	}

	var topics []string
	if a.cfg.NLP.ExtractTopics {
		topics = ExtractTopics(transcript, a.cfg.NLP.TopTopics)
	}

	keyPhrases := ExtractKeyPhrases(transcript, a.cfg.NLP.TopKeyPhrases)

	structure := AnalyzeStructure(data)

	insights := a.llmAnalysis(ctx, transcript, ents, topics, additionalContext)

	availability := a.assessDataAvailability(transcript, ents, insights)

	totalEntities := 0
	for _, v := range ents {
		totalEntities += len(v)
	}
	a.logger.Info("transcript analysis complete",
		zap.Int("entities_found", totalEntities),
		zap.Int("topics_found", len(topics)),
		zap.Int("key_phrases_found", len(keyPhrases)),
	)

	return &entities.AnalysisResult{
		Entities:         ents,
		Topics:           topics,
		KeyPhrases:       keyPhrases,
		Structure:        structure,
		DataAvailability: availability,
		Metadata: entities.AnalysisMetadata{
			Method:     "hybrid_nlp_llm",
			NLPEnabled: a.cfg.NLP.ExtractEntities,
		},
	}
}

// llmAnalysis runs the deep-analysis LLM call. Returns nil when the call or
// its JSON parse fails.
func (a *Analyzer) llmAnalysis(ctx context.Context, transcript string, ents map[string][]string, topics []string, additionalContext string) *llmInsights {
	if a.sampler == nil {
		return nil
	}

	truncated := transcript
	suffix := ""
	if len(truncated) > maxTranscriptChars {
		truncated = truncated[:maxTranscriptChars]
		suffix = "..."
	}

	entsJSON, _ := json.MarshalIndent(ents, "", "  ")

	contextSection := ""
	if additionalContext != "" {
		contextSection = fmt.Sprintf("ADDITIONAL CONTEXT:\n%s\n\n", additionalContext)
	}

	prompt := fmt.Sprintf(`Analyze this meeting transcript and extract structured information:

TRANSCRIPT:
%s%s

ALREADY EXTRACTED ENTITIES:
%s

ALREADY EXTRACTED TOPICS:
%s

%sExtract and structure the following information in JSON format:

1. NAMED ENTITIES (supplement the above with any missing):
   - People (names and roles)
   - Companies/Organizations
   - Products/Services
   - Locations
   - Technologies

2. KEY TOPICS:
   - Main discussion themes
   - Problems/challenges discussed
   - Solutions mentioned
   - Metrics and results discussed

3. CONVERSATION STRUCTURE:
   - Meeting type (kickoff, review, planning, consultation, etc.)
   - Number of speakers
   - Discussion flow and phases
   - Key decision points

4. DATA AVAILABILITY ASSESSMENT:
   For each of these sections, rate data availability (0.0 to 1.0):
   - Customer Information
   - Background (problems/challenges)
   - Solution (products/services)
   - Engagement Details (timeline, team)
   - Results and Achievements
   - Adoption and Usage
   - Financial Impact
   - Long-Term Impact
   - Additional Commentary

OUTPUT: Valid JSON only, no additional text.
`, truncated, suffix, entsJSON, strings.Join(topics, ", "), contextSection)

	resp, err := a.sampler.Sample(ctx, llm.Request{
		Prompt:       prompt,
		SystemPrompt: analyzerSystemPrompt,
		Temperature:  0.2,
		MaxTokens:    a.cfg.LLM.MaxTokensAnalysis,
	})
	if err != nil {
		a.logger.Warn("LLM analysis failed", zap.Error(err))
		return nil
	}

	var insights llmInsights
	if err := json.Unmarshal([]byte(extractJSON(resp.Content)), &insights); err != nil {
		a.logger.Warn("LLM analysis response not valid JSON", zap.Error(err))
		return nil
	}
	return &insights
}

// assessDataAvailability rates how much material the transcript holds per
// report section. The LLM assessment wins when present; otherwise keyword
// and entity heuristics apply.
func (a *Analyzer) assessDataAvailability(transcript string, ents map[string][]string, insights *llmInsights) map[string]float64 {
	if insights != nil && len(insights.DataAvailability) > 0 {
		return insights.DataAvailability
	}

	textLower := strings.ToLower(transcript)
	availability := map[string]float64{}

	hasAny := func(keywords ...string) bool {
		for _, kw := range keywords {
			if strings.Contains(textLower, kw) {
				return true
			}
		}
		return false
	}

	if len(ents["ORG"]) > 0 && len(ents["PERSON"]) > 0 {
		availability["Customer Information"] = 0.9
	} else {
		availability["Customer Information"] = 0.5
	}

	if hasAny("problem", "challenge", "issue", "pain") {
		availability["Background"] = 0.8
	} else {
		availability["Background"] = 0.3
	}

	if hasAny("solution", "implement", "deploy", "product") {
		availability["Solution"] = 0.7
	} else {
		availability["Solution"] = 0.3
	}

	if hasAny("result", "improvement", "saved", "increased") {
		availability["Results and Achievements"] = 0.7
	} else {
		availability["Results and Achievements"] = 0.2
	}

	if len(ents["MONEY"]) > 0 || len(ents["PERCENT"]) > 0 {
		availability["Financial Impact"] = 0.7
	} else {
		availability["Financial Impact"] = 0.2
	}

	for _, section := range []string{"Engagement Details", "Adoption and Usage", "Long-Term Impact"} {
		availability[section] = 0.4
	}

	return availability
}

// extractJSON strips markdown code fences that models sometimes wrap JSON
// responses in.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
	}
	return strings.TrimSpace(content)
}
