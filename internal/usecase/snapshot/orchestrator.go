// Package snapshot implements the Customer Success Snapshot generation
// pipeline: section generation with confidence scoring, hybrid validation,
// and the orchestrator that sequences the full workflow.
package snapshot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/snapshotdev/snapshot-server/errors"
	"github.com/snapshotdev/snapshot-server/internal/domain/entities"
	"github.com/snapshotdev/snapshot-server/internal/usecase/analysis"
	"github.com/snapshotdev/snapshot-server/internal/usecase/transcript"
	"github.com/snapshotdev/snapshot-server/pkg/config"
	"github.com/snapshotdev/snapshot-server/pkg/llm"
)

// Orchestrator sequences the snapshot pipeline: parse, analyze, generate,
// validate, improve, synthesize the executive summary, re-validate, and
// assemble. It owns the fan-out concurrency policy and the error-isolation
// policy for individual section failures.
type Orchestrator struct {
	parser     *transcript.Parser
	analyzer   *analysis.Analyzer
	validator  *Validator
	generators map[string]*Generator
	sampler    llm.Sampler
	cfg        *config.Config
	logger     *zap.Logger
}

// NewOrchestrator wires the pipeline components. One generator is created
// per non-summary section; the Executive Summary generator is created per
// run with the combined section text as its context.
func NewOrchestrator(sampler llm.Sampler, cfg *config.Config, logger *zap.Logger) *Orchestrator {
	generators := make(map[string]*Generator, len(SectionNames)-1)
	for _, name := range SectionNames[:len(SectionNames)-1] {
		generators[name] = NewGenerator(name, sampler, cfg, logger)
	}

	return &Orchestrator{
		parser:     transcript.NewParser(logger),
		analyzer:   analysis.NewAnalyzer(sampler, cfg, logger),
		validator:  NewValidator(sampler, logger),
		generators: generators,
		sampler:    sampler,
		cfg:        cfg,
		logger:     logger,
	}
}

// Generate runs the full pipeline over raw VTT content and returns the
// assembled snapshot. Section-level generation failures degrade to
// zero-confidence placeholders; any other stage failure is fatal.
func (o *Orchestrator) Generate(ctx context.Context, vttContent, filename string) (*entities.SnapshotOutput, error) {
	o.logger.Info("starting snapshot generation workflow",
		zap.String("filename", filename))

	transcriptData, err := o.parser.Parse(vttContent, filename)
	if err != nil {
		return nil, err
	}

	analysisResult := o.analyzer.Analyze(ctx, transcriptData, "")

	sections := o.generateSections(ctx, transcriptData.Text, analysisResult)

	validation := o.validator.Validate(ctx, sections)

	if validation.RequiresImprovements {
		sections = o.improveSections(sections, validation)
	}

	execSummary, err := o.generateExecutiveSummary(ctx, sections)
	if err != nil {
		o.logger.Error("snapshot generation failed",
			zap.String("filename", filename), zap.Error(err))
		return nil, apperrors.ErrSnapshotFailed(err, filename)
	}
	sections["Executive Summary"] = execSummary

	finalValidation := o.validator.Validate(ctx, sections)

	output := assembleOutput(sections, analysisResult, finalValidation)

	o.logger.Info("snapshot generation complete",
		zap.Int("sections_count", len(sections)),
		zap.Bool("validation_passed", !finalValidation.RequiresImprovements),
	)

	return output, nil
}

// generateSections produces the ten non-summary sections, in parallel or
// sequentially per configuration. Both modes yield structurally identical
// section sets; a failed call is replaced by an error placeholder.
func (o *Orchestrator) generateSections(ctx context.Context, transcriptText string, analysisResult *entities.AnalysisResult) map[string]*entities.SectionResult {
	names := SectionNames[:len(SectionNames)-1]

	o.logger.Info("starting section generation",
		zap.Int("section_count", len(names)),
		zap.Bool("parallel", o.cfg.Workflow.ParallelSectionGeneration),
	)

	results := make([]*entities.SectionResult, len(names))
	errs := make([]error, len(names))

	if o.cfg.Workflow.ParallelSectionGeneration {
		var wg sync.WaitGroup
		for i, name := range names {
			wg.Add(1)
			go func(i int, name string) {
				defer wg.Done()
				results[i], errs[i] = o.generators[name].Generate(ctx, transcriptText, analysisResult, nil)
			}(i, name)
		}
		wg.Wait()
	} else {
		for i, name := range names {
			results[i], errs[i] = o.generators[name].Generate(ctx, transcriptText, analysisResult, nil)
		}
	}

	sections := make(map[string]*entities.SectionResult, len(names))
	totalConfidence := 0.0
	for i, name := range names {
		if errs[i] != nil {
			o.logger.Warn("section generation failed",
				zap.String("section", name), zap.Error(errs[i]))
			sections[name] = entities.NewErrorPlaceholder(name, errs[i])
		} else {
			sections[name] = results[i]
		}
		totalConfidence += sections[name].Confidence
	}

	o.logger.Info("section generation complete",
		zap.Int("sections_generated", len(sections)),
		zap.Float64("avg_confidence", totalConfidence/float64(len(sections))),
	)

	return sections
}

// improveSections logs sections whose confidence falls below the configured
// threshold and returns the set unchanged. Real regeneration is not
// implemented; this stage is diagnostic only.
func (o *Orchestrator) improveSections(sections map[string]*entities.SectionResult, validation *entities.ValidationResult) map[string]*entities.SectionResult {
	o.logger.Info("attempting to improve sections",
		zap.Int("issues", len(validation.Issues)))

	for _, issue := range validation.Issues {
		o.logger.Info("validation issue", zap.String("issue", issue))
	}

	threshold := o.cfg.Workflow.MinConfidenceThreshold
	var lowConfidence []string
	for _, name := range SectionNames {
		if section, ok := sections[name]; ok && section.Confidence < threshold {
			lowConfidence = append(lowConfidence, name)
		}
	}

	if len(lowConfidence) > 0 {
		o.logger.Info("low confidence sections identified",
			zap.Strings("sections", lowConfidence),
			zap.Float64("threshold", threshold),
		)
	}

	return sections
}

// generateExecutiveSummary synthesizes the final section from the other
// ten's content. The transcript field is left empty; the combined section
// text is the only contextual input.
func (o *Orchestrator) generateExecutiveSummary(ctx context.Context, sections map[string]*entities.SectionResult) (*entities.SectionResult, error) {
	o.logger.Info("generating executive summary")

	var parts []string
	for _, name := range SectionNames {
		if name == "Executive Summary" {
			continue
		}
		if section, ok := sections[name]; ok {
			parts = append(parts, fmt.Sprintf("## %s\n%s", name, section.Content))
		}
	}
	allSections := strings.Join(parts, "\n\n")

	generator := NewGenerator("Executive Summary", o.sampler, o.cfg, o.logger)
	result, err := generator.Generate(ctx, "", entities.PlainAnalysis{}, map[string]string{
		"all_sections": allSections,
	})
	if err != nil {
		return nil, err
	}

	o.logger.Info("executive summary generated",
		zap.Float64("confidence", result.Confidence))

	return result, nil
}

// assembleOutput packages the final snapshot: deduplicated missing fields,
// the mean of all section confidences, and the post-summary verdict.
func assembleOutput(sections map[string]*entities.SectionResult, analysisResult *entities.AnalysisResult, validation *entities.ValidationResult) *entities.SnapshotOutput {
	outSections := make(map[string]entities.SectionContent, len(sections))
	missingSet := map[string]struct{}{}
	totalConfidence := 0.0

	for name, section := range sections {
		outSections[name] = entities.SectionContent{
			Content:       section.Content,
			Confidence:    section.Confidence,
			MissingFields: section.MissingFields,
		}
		for _, field := range section.MissingFields {
			missingSet[field] = struct{}{}
		}
		totalConfidence += section.Confidence
	}

	avgConfidence := 0.0
	if len(sections) > 0 {
		avgConfidence = totalConfidence / float64(len(sections))
	}

	missingFields := make([]string, 0, len(missingSet))
	for field := range missingSet {
		missingFields = append(missingFields, field)
	}
	sort.Strings(missingFields)

	return &entities.SnapshotOutput{
		Sections: outSections,
		Metadata: entities.SnapshotMetadata{
			AvgConfidence:     avgConfidence,
			TotalSections:     len(sections),
			EntitiesExtracted: analysisResult.Entities,
			TopicsIdentified:  analysisResult.Topics,
		},
		Validation:    *validation,
		MissingFields: missingFields,
	}
}

// RenderMarkdown formats a snapshot as a Markdown document, sections in
// catalogue order.
func RenderMarkdown(output *entities.SnapshotOutput) string {
	lines := []string{"# Customer Success Snapshot\n"}

	lines = append(lines, "## Metadata\n")
	lines = append(lines, fmt.Sprintf("- **Average Confidence**: %.2f", output.Metadata.AvgConfidence))
	lines = append(lines, fmt.Sprintf("- **Total Sections**: %d", output.Metadata.TotalSections))
	lines = append(lines, "")

	for _, name := range SectionNames {
		section, ok := output.Sections[name]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("## %s\n", name))
		lines = append(lines, section.Content)
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("*Confidence: %.2f*", section.Confidence))
		lines = append(lines, "")
	}

	if !output.Validation.RequiresImprovements {
		lines = append(lines, "## Validation\n")
		lines = append(lines, "✅ All quality checks passed")
	} else {
		lines = append(lines, "## Validation Issues\n")
		for _, issue := range output.Validation.Issues {
			lines = append(lines, fmt.Sprintf("- %s", issue))
		}
	}

	return strings.Join(lines, "\n")
}
