package snapshot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/snapshotdev/snapshot-server/internal/domain/entities"
)

func makeSections(names ...string) map[string]*entities.SectionResult {
	sections := map[string]*entities.SectionResult{}
	for _, name := range names {
		sections[name] = &entities.SectionResult{
			SectionName: name,
			Content:     strings.Repeat("Substantial section content. ", 5),
			Confidence:  0.9,
		}
	}
	return sections
}

func TestValidateCleanReview(t *testing.T) {
	sampler := &stubSampler{response: `FACTUAL CONSISTENCY:
All facts align across sections.

COMPLETENESS:
All required information present.

QUALITY ISSUES:
No problems found
`}
	v := NewValidator(sampler, zap.NewNop())

	result := v.Validate(context.Background(), makeSections(SectionNames...))

	if !result.FactualConsistency {
		t.Error("factual consistency should be true")
	}
	if !result.Quality {
		t.Error("quality should be true, negation line must not match problem keywords")
	}
	if result.RequiresImprovements {
		t.Error("clean review over complete sections should not require improvements")
	}
}

func TestValidateContradiction(t *testing.T) {
	sampler := &stubSampler{response: `FACTUAL CONSISTENCY:
There is a contradiction between the start dates in two sections.

COMPLETENESS:
All present.

QUALITY ISSUES:
None

IMPROVEMENTS:
Align the dates.
`}
	v := NewValidator(sampler, zap.NewNop())

	result := v.Validate(context.Background(), makeSections(SectionNames...))

	if result.FactualConsistency {
		t.Error("contradiction in review must set factual_consistency false")
	}
	if len(result.Issues) == 0 {
		t.Error("factual consistency block lines should surface as issues")
	}
	if !result.RequiresImprovements {
		t.Error("review containing 'improvement' suggestions requires improvements")
	}
}

func TestValidateQualityKeyword(t *testing.T) {
	sampler := &stubSampler{response: `FACTUAL CONSISTENCY:
Consistent.

COMPLETENESS:
Complete.

QUALITY ISSUES:
The tone is unprofessional in the financial section.

IMPROVEMENTS:
`}
	v := NewValidator(sampler, zap.NewNop())

	result := v.Validate(context.Background(), makeSections(SectionNames...))
	if result.Quality {
		t.Error("quality keyword in quality block must set quality false")
	}
}

func TestValidateMissingCriticalSection(t *testing.T) {
	v := NewValidator(&stubSampler{response: "FACTUAL CONSISTENCY:\nFine.\n\nQUALITY ISSUES:\nNone\n"}, zap.NewNop())

	names := []string{}
	for _, name := range SectionNames {
		if name != "Solution" {
			names = append(names, name)
		}
	}

	result := v.Validate(context.Background(), makeSections(names...))

	found := false
	for _, issue := range result.Issues {
		if issue == "Missing critical section: Solution" {
			found = true
		}
	}
	if !found {
		t.Errorf("issues = %v, want missing-critical-section entry", result.Issues)
	}
	if !result.RequiresImprovements {
		t.Error("heuristic issues must force requires_improvements")
	}
}

func TestValidateShortSection(t *testing.T) {
	v := NewValidator(&stubSampler{response: "all good"}, zap.NewNop())

	sections := makeSections(SectionNames...)
	sections["Visuals"].Content = "too short"

	result := v.Validate(context.Background(), sections)

	found := false
	for _, issue := range result.Issues {
		if issue == "Section 'Visuals' is very short (< 50 chars)" {
			found = true
		}
	}
	if !found {
		t.Errorf("issues = %v, want short-section entry", result.Issues)
	}
}

func TestValidateLLMFailureOptimisticDefault(t *testing.T) {
	v := NewValidator(&stubSampler{err: errors.New("llm down")}, zap.NewNop())

	result := v.Validate(context.Background(), makeSections(SectionNames...))

	if !result.IsValid() {
		t.Error("failed review must default to all checks passing")
	}
	if result.RequiresImprovements {
		t.Error("no heuristic issues and failed review must not require improvements")
	}
	if len(result.Issues) != 0 {
		t.Errorf("issues = %v, want none", result.Issues)
	}
}

func TestValidateHeuristicOverridesLLM(t *testing.T) {
	// LLM reports nothing, but a heuristic issue alone must set the flag.
	v := NewValidator(&stubSampler{err: errors.New("llm down")}, zap.NewNop())

	sections := makeSections(SectionNames...)
	sections["Background"].Content = "tiny"

	result := v.Validate(context.Background(), sections)
	if !result.RequiresImprovements {
		t.Error("heuristic issue count >= 1 must force requires_improvements")
	}
}

func TestParseValidationResponseCompleteness(t *testing.T) {
	result := parseValidationResponse("COMPLETENESS:\nSome details are missing from the timeline.\n")
	if result.Completeness {
		t.Error("'missing' anywhere in review must set completeness false")
	}
}

func TestExtractBlock(t *testing.T) {
	response := "IMPROVEMENTS:\nFirst suggestion.\nSecond suggestion.\n\nTRAILING:\nignored"

	lines := extractBlock(response, "IMPROVEMENTS:")
	if len(lines) != 2 {
		t.Fatalf("lines = %v, want 2", lines)
	}
	if lines[0] != "First suggestion." {
		t.Errorf("first line = %q", lines[0])
	}

	if got := extractBlock(response, "ABSENT:"); len(got) != 0 {
		t.Errorf("absent header should yield no lines, got %v", got)
	}
}

func TestBuildSectionsText(t *testing.T) {
	sections := makeSections("Background", "Customer Information")

	text := buildSectionsText(sections)

	// Catalogue order, not map order.
	ci := strings.Index(text, "## Customer Information")
	bg := strings.Index(text, "## Background")
	if ci < 0 || bg < 0 || ci > bg {
		t.Errorf("sections out of catalogue order:\n%s", text)
	}
}
