package snapshot

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/snapshotdev/snapshot-server/internal/domain/entities"
	"github.com/snapshotdev/snapshot-server/pkg/config"
	"github.com/snapshotdev/snapshot-server/pkg/llm"
)

const maxTranscriptPromptChars = 5000

// placeholderPhrases are the fixed strings that both penalize confidence and
// mark an unfilled field.
var placeholderPhrases = []string{
	"not mentioned",
	"not specified",
	"not available",
	"not stated",
	"unclear from transcript",
	"no information provided",
}

// fieldPlaceholders is the shorter list used when checking the window after
// a field label.
var fieldPlaceholders = []string{
	"not mentioned",
	"not specified",
	"not available",
	"not stated",
	"unclear",
}

var (
	resultsNumberPattern = regexp.MustCompile(`\d+%|\d+\s*hours?|\$\d+`)
	financialPattern     = regexp.MustCompile(`\$\d+|\d+%\s*roi|savings`)
	costSavingsPattern   = regexp.MustCompile(`\$\d+|cost savings`)
)

// Generator produces one named section of the snapshot. One instance exists
// per section name; instances are stateless per invocation.
type Generator struct {
	sectionName  string
	systemPrompt string
	template     string
	sampler      llm.Sampler
	cfg          *config.Config
	logger       *zap.Logger
}

// NewGenerator creates a Generator for the named section. Unknown section
// names get the generic system prompt and the named template must exist.
func NewGenerator(sectionName string, sampler llm.Sampler, cfg *config.Config, logger *zap.Logger) *Generator {
	systemPrompt, ok := sectionSystemPrompts[sectionName]
	if !ok {
		systemPrompt = genericSectionSystemPrompt
	}
	return &Generator{
		sectionName:  sectionName,
		systemPrompt: systemPrompt,
		template:     sectionTemplates[sectionName],
		sampler:      sampler,
		cfg:          cfg,
		logger:       logger,
	}
}

// Generate produces the section's content from the transcript, the analysis,
// and any extra template context. LLM failures are propagated so the caller
// can apply its placeholder policy uniformly.
func (g *Generator) Generate(ctx context.Context, transcriptText string, analysis entities.AnalysisSource, extra map[string]string) (*entities.SectionResult, error) {
	view := analysis.AnalysisView()

	g.logger.Info("generating section",
		zap.String("section", g.sectionName),
		zap.Int("entities_available", len(view.Entities)),
		zap.Int("topics_available", len(view.Topics)),
	)

	prompt := g.buildPrompt(transcriptText, view, extra)

	resp, err := g.sampler.Sample(ctx, llm.Request{
		Prompt:       prompt,
		SystemPrompt: g.systemPrompt,
		Temperature:  g.cfg.LLM.Temperature,
		MaxTokens:    g.cfg.LLM.MaxTokensPerSection,
	})
	if err != nil {
		return nil, err
	}

	content := resp.Content
	confidence := g.calculateConfidence(content)
	missingFields := g.identifyMissingFields(content)

	g.logger.Info("section generated",
		zap.String("section", g.sectionName),
		zap.Float64("confidence", confidence),
		zap.Int("missing_fields_count", len(missingFields)),
		zap.Int("content_length", len(content)),
	)

	return &entities.SectionResult{
		SectionName:   g.sectionName,
		Content:       content,
		Confidence:    confidence,
		MissingFields: missingFields,
		Metadata: entities.SectionMetadata{
			Model: resp.Metadata.Model,
			TokensUsed: map[string]int{
				"input":  resp.Metadata.TokensUsed.Input,
				"output": resp.Metadata.TokensUsed.Output,
			},
			FinishReason: resp.Metadata.FinishReason,
		},
	}, nil
}

// buildPrompt fills the section template with the transcript excerpt, entity
// and topic digests, and any extra context keys. If markers remain unfilled
// they are blanked rather than failing the call.
func (g *Generator) buildPrompt(transcriptText string, view entities.AnalysisView, extra map[string]string) string {
	transcript := transcriptText
	if len(transcript) > maxTranscriptPromptChars {
		transcript = transcript[:maxTranscriptPromptChars] + "..."
	}

	vars := map[string]string{
		"transcript": transcript,
		"entities":   formatEntities(view.Entities),
		"topics":     formatTopics(view.Topics),
	}
	for k, v := range extra {
		vars[k] = v
	}

	prompt := fillTemplate(g.template, vars)

	if missing := hasUnfilledVars(prompt, templateVarNames); len(missing) > 0 {
		g.logger.Warn("missing template variables",
			zap.String("section", g.sectionName),
			zap.Strings("variables", missing))
		vars["all_sections"] = ""
		for _, key := range missing {
			if _, known := vars[key]; !known {
				vars[key] = ""
			}
		}
		prompt = fillTemplate(g.template, vars)
	}

	return prompt
}

// calculateConfidence scores the generated text. The score starts at 1.0,
// every adjustment applies, and the result is clamped to [0, 1].
func (g *Generator) calculateConfidence(content string) float64 {
	score := 1.0
	contentLower := strings.ToLower(content)

	for _, phrase := range placeholderPhrases {
		if strings.Contains(contentLower, phrase) {
			score -= 0.1
		}
	}

	score -= 0.05 * float64(strings.Count(content, "[INFERRED]"))

	switch g.sectionName {
	case "Customer Information":
		if idx := strings.Index(contentLower, "company name:"); idx >= 0 {
			window := windowAfter(contentLower, idx+len("company name:"), 50)
			if !containsAny(window, fieldPlaceholders) {
				score += 0.1
			}
		} else {
			score -= 0.2
		}
		if !strings.Contains(contentLower, "industry:") {
			score -= 0.1
		}

	case "Background":
		if strings.Contains(contentLower, "problem") || strings.Contains(contentLower, "challenge") {
			score += 0.05
		}

	case "Solution":
		if strings.Contains(contentLower, "product") || strings.Contains(contentLower, "service") {
			score += 0.05
		}

	case "Results and Achievements":
		if resultsNumberPattern.MatchString(content) {
			score += 0.1
		}

	case "Financial Impact":
		if financialPattern.MatchString(contentLower) {
			score += 0.15
		} else {
			score -= 0.2
		}
	}

	if len(content) < 100 {
		score -= 0.2
	} else if len(content) < 200 {
		score -= 0.1
	}

	return max(0.0, min(1.0, score))
}

// identifyMissingFields reports the section's labeled fields that are absent
// or filled with a placeholder.
func (g *Generator) identifyMissingFields(content string) []string {
	missing := []string{}
	contentLower := strings.ToLower(content)

	switch g.sectionName {
	case "Customer Information":
		for _, f := range []struct{ label, id string }{
			{"company name", "company_name"},
			{"industry", "industry"},
			{"location", "location"},
			{"primary contact", "primary_contact"},
		} {
			if isFieldMissing(contentLower, f.label) {
				missing = append(missing, f.id)
			}
		}

	case "Engagement Details":
		if isFieldMissing(contentLower, "start date") {
			missing = append(missing, "start_date")
		}
		if isFieldMissing(contentLower, "completion date") {
			missing = append(missing, "completion_date")
		}

	case "Financial Impact":
		if !costSavingsPattern.MatchString(contentLower) {
			missing = append(missing, "cost_savings")
		}
		if !strings.Contains(contentLower, "roi") && !strings.Contains(contentLower, "return on investment") {
			missing = append(missing, "roi_percentage")
		}

	case "Adoption and Usage":
		if !strings.Contains(contentLower, "users") && !strings.Contains(contentLower, "adoption") {
			missing = append(missing, "user_count", "adoption_rate")
		}
	}

	return missing
}

// isFieldMissing reports whether a field label is absent or whether the 100
// characters after its first occurrence hold a placeholder.
func isFieldMissing(contentLower, label string) bool {
	idx := strings.Index(contentLower, label)
	if idx < 0 {
		return true
	}
	window := windowAfter(contentLower, idx, 100)
	return containsAny(window, fieldPlaceholders)
}

func windowAfter(s string, start, size int) string {
	if start >= len(s) {
		return ""
	}
	end := start + size
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// formatEntities builds the compact entity digest for prompts: up to five
// entities per type, types joined by "; ".
func formatEntities(ents map[string][]string) string {
	if len(ents) == 0 {
		return "No entities extracted"
	}

	var parts []string
	for _, entType := range []string{"PERSON", "ORG", "PRODUCT", "GPE", "DATE", "MONEY", "PERCENT"} {
		list := ents[entType]
		if len(list) == 0 {
			continue
		}
		if len(list) > 5 {
			list = list[:5]
		}
		parts = append(parts, entType+": "+strings.Join(list, ", "))
	}
	if len(parts) == 0 {
		return "No entities extracted"
	}
	return strings.Join(parts, "; ")
}

// formatTopics builds the compact topic digest: first ten topics,
// comma-joined.
func formatTopics(topics []string) string {
	if len(topics) == 0 {
		return "No specific topics identified"
	}
	if len(topics) > 10 {
		topics = topics[:10]
	}
	return strings.Join(topics, ", ")
}
