package snapshot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/snapshotdev/snapshot-server/internal/domain/entities"
	"github.com/snapshotdev/snapshot-server/pkg/llm"
)

const maxValidationChars = 4000

// criticalSections must be present in every section set.
var criticalSections = []string{"Customer Information", "Background", "Solution"}

// qualityProblemKeywords flag a real problem in the quality-issues block.
var qualityProblemKeywords = []string{"problem", "concern", "poor", "unclear", "unprofessional", "issue"}

// Validator combines rule-based checks with one LLM-based qualitative
// review into a single consolidated verdict.
type Validator struct {
	sampler llm.Sampler
	logger  *zap.Logger
}

// NewValidator creates a new Validator instance
func NewValidator(sampler llm.Sampler, logger *zap.Logger) *Validator {
	return &Validator{sampler: sampler, logger: logger}
}

// Validate reviews the section set for consistency and quality. The
// heuristic checks always run; the LLM review is best-effort and degrades to
// an optimistic default when the call fails.
func (v *Validator) Validate(ctx context.Context, sections map[string]*entities.SectionResult) *entities.ValidationResult {
	v.logger.Info("starting section validation",
		zap.Int("sections_count", len(sections)))

	sectionsText := buildSectionsText(sections)

	llmResult := v.llmValidate(ctx, sectionsText)
	heuristicIssues := v.heuristicValidate(sections)

	merged := mergeValidation(llmResult, heuristicIssues)

	v.logger.Info("validation complete",
		zap.Int("issues_found", merged.IssueCount()),
		zap.Bool("requires_improvements", merged.RequiresImprovements),
	)

	return merged
}

// buildSectionsText concatenates sections as "## name\ncontent" blocks in
// catalogue order.
func buildSectionsText(sections map[string]*entities.SectionResult) string {
	var parts []string
	for _, name := range SectionNames {
		section, ok := sections[name]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("## %s\n%s", name, section.Content))
	}
	return strings.Join(parts, "\n\n")
}

// heuristicValidate runs the rule-based checks. It never fails.
func (v *Validator) heuristicValidate(sections map[string]*entities.SectionResult) []string {
	issues := []string{}

	for _, critical := range criticalSections {
		if _, ok := sections[critical]; !ok {
			issues = append(issues, fmt.Sprintf("Missing critical section: %s", critical))
		}
	}

	for _, name := range SectionNames {
		section, ok := sections[name]
		if !ok {
			continue
		}
		if len(section.Content) < 50 {
			issues = append(issues, fmt.Sprintf("Section '%s' is very short (< 50 chars)", name))
		}
	}

	return issues
}

// llmValidate requests a four-block structured review and parses it. A nil
// return means the review was unavailable.
func (v *Validator) llmValidate(ctx context.Context, sectionsText string) *entities.ValidationResult {
	if v.sampler == nil {
		return nil
	}

	if len(sectionsText) > maxValidationChars {
		sectionsText = sectionsText[:maxValidationChars]
	}

	prompt := fmt.Sprintf(`Review these Customer Success Snapshot sections for consistency and quality:

%s

Provide validation feedback in this format:

FACTUAL CONSISTENCY:
[List any contradictions in dates, names, numbers, or facts]

COMPLETENESS:
[Note any critical missing information]

QUALITY ISSUES:
[Flag tone, clarity, or professionalism problems]

IMPROVEMENTS:
[Suggest specific enhancements]

OUTPUT: Structured feedback as shown above
`, sectionsText)

	resp, err := v.sampler.Sample(ctx, llm.Request{
		Prompt:       prompt,
		SystemPrompt: validatorSystemPrompt,
		Temperature:  0.2,
		MaxTokens:    1500,
	})
	if err != nil {
		v.logger.Warn("LLM validation failed", zap.Error(err))
		return nil
	}

	return parseValidationResponse(resp.Content)
}

// parseValidationResponse derives the three boolean verdicts and the issue
// and improvement lists from the raw review text.
func parseValidationResponse(response string) *entities.ValidationResult {
	responseLower := strings.ToLower(response)

	hasQualityIssues := false
	for _, line := range extractBlock(response, "QUALITY ISSUES:") {
		lineLower := strings.ToLower(line)
		if strings.HasPrefix(lineLower, "no ") ||
			strings.Contains(lineLower, "no problems") ||
			strings.Contains(lineLower, "none") {
			continue
		}
		if containsAny(lineLower, qualityProblemKeywords) {
			hasQualityIssues = true
			break
		}
	}

	return &entities.ValidationResult{
		FactualConsistency:   !strings.Contains(responseLower, "contradiction"),
		Completeness:         !strings.Contains(responseLower, "missing"),
		Quality:              !hasQualityIssues,
		Issues:               extractBlock(response, "FACTUAL CONSISTENCY:"),
		Improvements:         extractBlock(response, "IMPROVEMENTS:"),
		RequiresImprovements: strings.Contains(responseLower, "improvement"),
		MissingCriticalInfo:  []string{},
	}
}

// extractBlock returns the non-empty lines between a header and the next
// blank line.
func extractBlock(response, header string) []string {
	lines := []string{}
	_, after, found := strings.Cut(response, header)
	if !found {
		return lines
	}
	block, _, _ := strings.Cut(after, "\n\n")
	for _, line := range strings.Split(block, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// mergeValidation combines the LLM verdict with the heuristic issues. A nil
// LLM verdict means the review failed and the optimistic default applies.
func mergeValidation(llmResult *entities.ValidationResult, heuristicIssues []string) *entities.ValidationResult {
	if llmResult == nil {
		llmResult = entities.NewValidationResult()
	}

	return &entities.ValidationResult{
		FactualConsistency:   llmResult.FactualConsistency,
		Completeness:         llmResult.Completeness,
		Quality:              llmResult.Quality,
		Issues:               append(append([]string{}, llmResult.Issues...), heuristicIssues...),
		Improvements:         llmResult.Improvements,
		RequiresImprovements: llmResult.RequiresImprovements || len(heuristicIssues) > 0,
		MissingCriticalInfo:  llmResult.MissingCriticalInfo,
	}
}
