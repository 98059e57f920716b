package snapshot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/snapshotdev/snapshot-server/internal/domain/entities"
	"github.com/snapshotdev/snapshot-server/pkg/config"
	"github.com/snapshotdev/snapshot-server/pkg/llm"
)

type stubSampler struct {
	response string
	err      error
	requests []llm.Request
}

func (s *stubSampler) Sample(_ context.Context, req llm.Request) (*llm.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Response{
		Content: s.response,
		Metadata: llm.Metadata{
			Model:        "gpt-4o-mini",
			TokensUsed:   llm.TokenUsage{Input: 100, Output: 50},
			FinishReason: "stop",
		},
	}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Temperature:         0.3,
			MaxTokensPerSection: 1500,
		},
		Workflow: config.WorkflowConfig{
			MinConfidenceThreshold: 0.5,
		},
	}
}

func testAnalysis() *entities.AnalysisResult {
	return &entities.AnalysisResult{
		Entities: map[string][]string{
			"ORG":    {"Acme Corp"},
			"PERSON": {"Sarah Chen", "John Smith"},
		},
		Topics: []string{"deployment", "reporting", "automation"},
	}
}

func TestGenerate(t *testing.T) {
	content := strings.Repeat("The customer achieved strong results after the rollout. ", 5)
	sampler := &stubSampler{response: content}
	g := NewGenerator("Background", sampler, testConfig(), zap.NewNop())

	result, err := g.Generate(context.Background(), "Speaker: we had a problem", testAnalysis(), nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if result.SectionName != "Background" {
		t.Errorf("section name = %q", result.SectionName)
	}
	if result.Content != content {
		t.Errorf("content mismatch")
	}
	if result.Metadata.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", result.Metadata.Model)
	}
	if result.Metadata.TokensUsed["input"] != 100 || result.Metadata.TokensUsed["output"] != 50 {
		t.Errorf("tokens = %v", result.Metadata.TokensUsed)
	}

	req := sampler.requests[0]
	if !strings.Contains(req.Prompt, "Speaker: we had a problem") {
		t.Error("prompt missing transcript")
	}
	if req.SystemPrompt != sectionSystemPrompts["Background"] {
		t.Error("wrong system prompt")
	}
}

func TestGeneratePropagatesSamplerError(t *testing.T) {
	sampler := &stubSampler{err: errors.New("rate limited")}
	g := NewGenerator("Solution", sampler, testConfig(), zap.NewNop())

	_, err := g.Generate(context.Background(), "text", testAnalysis(), nil)
	if err == nil {
		t.Fatal("expected sampler error to propagate")
	}
}

func TestBuildPromptTruncatesTranscript(t *testing.T) {
	sampler := &stubSampler{response: "ok"}
	g := NewGenerator("Background", sampler, testConfig(), zap.NewNop())

	long := strings.Repeat("a", maxTranscriptPromptChars+500)
	prompt := g.buildPrompt(long, entities.AnalysisView{}, nil)

	if strings.Contains(prompt, long) {
		t.Error("transcript not truncated")
	}
	if !strings.Contains(prompt, strings.Repeat("a", maxTranscriptPromptChars)+"...") {
		t.Error("truncated transcript missing ellipsis")
	}
}

func TestBuildPromptExecutiveSummaryContext(t *testing.T) {
	sampler := &stubSampler{response: "ok"}
	g := NewGenerator("Executive Summary", sampler, testConfig(), zap.NewNop())

	prompt := g.buildPrompt("", entities.PlainAnalysis{}.AnalysisView(), map[string]string{
		"all_sections": "## Background\nsome content",
	})

	if !strings.Contains(prompt, "## Background\nsome content") {
		t.Error("prompt missing all_sections context")
	}
	if strings.Contains(prompt, "{all_sections}") {
		t.Error("unfilled all_sections marker left in prompt")
	}
}

func TestBuildPromptMissingContextBlanked(t *testing.T) {
	sampler := &stubSampler{response: "ok"}
	g := NewGenerator("Executive Summary", sampler, testConfig(), zap.NewNop())

	// No all_sections supplied; the marker must be blanked, not left behind.
	prompt := g.buildPrompt("", entities.PlainAnalysis{}.AnalysisView(), nil)
	if strings.Contains(prompt, "{all_sections}") {
		t.Error("unfilled marker should be blanked on retry")
	}
}

func TestCalculateConfidencePlaceholders(t *testing.T) {
	g := NewGenerator("Visuals", &stubSampler{}, testConfig(), zap.NewNop())

	base := strings.Repeat("x", 200)
	full := g.calculateConfidence(base)

	withOne := g.calculateConfidence(base + " not mentioned")
	if diff := full - withOne; diff < 0.099 || diff > 0.101 {
		t.Errorf("one placeholder should cost 0.1, cost %v", diff)
	}

	// Repeats of the same phrase count once.
	withRepeat := g.calculateConfidence(base + " not mentioned and also not mentioned")
	if withRepeat != withOne {
		t.Errorf("repeat phrase = %v, want %v", withRepeat, withOne)
	}

	withTwo := g.calculateConfidence(base + " not mentioned, not specified")
	if diff := full - withTwo; diff < 0.199 || diff > 0.201 {
		t.Errorf("two distinct placeholders should cost 0.2, cost %v", diff)
	}
}

func TestCalculateConfidenceInferredTags(t *testing.T) {
	g := NewGenerator("Visuals", &stubSampler{}, testConfig(), zap.NewNop())

	base := strings.Repeat("x", 200)
	full := g.calculateConfidence(base)
	withTags := g.calculateConfidence(base + " [INFERRED] [INFERRED]")

	if diff := full - withTags; diff < 0.099 || diff > 0.101 {
		t.Errorf("two inferred tags should cost 0.1, cost %v", diff)
	}
}

func TestCalculateConfidenceCustomerInformation(t *testing.T) {
	g := NewGenerator("Customer Information", &stubSampler{}, testConfig(), zap.NewNop())
	pad := strings.Repeat("x", 200)

	// Filled label earns the bonus; industry label present avoids its penalty.
	filled := g.calculateConfidence("Company Name: Acme Corp\nIndustry: Manufacturing\n" + pad)
	if filled != 1.0 {
		t.Errorf("filled labels = %v, want 1.0 (clamped)", filled)
	}

	// Placeholder right after the label forfeits the bonus.
	unfilled := g.calculateConfidence("Company Name: Not mentioned in transcript\nIndustry: Retail\n" + pad)
	if unfilled >= filled {
		t.Errorf("placeholder value %v should score below filled %v", unfilled, filled)
	}

	// Absent labels are penalized.
	absent := g.calculateConfidence(pad)
	if want := 1.0 - 0.2 - 0.1; !nearly(absent, want) {
		t.Errorf("absent labels = %v, want %v", absent, want)
	}
}

func TestCalculateConfidenceFinancialImpact(t *testing.T) {
	g := NewGenerator("Financial Impact", &stubSampler{}, testConfig(), zap.NewNop())
	pad := strings.Repeat("x", 200)

	withFigures := g.calculateConfidence("Cost savings of $250,000 annually. " + pad)
	if withFigures != 1.0 {
		t.Errorf("with figures = %v, want 1.0 (clamped)", withFigures)
	}

	without := g.calculateConfidence(pad)
	if want := 0.8; !nearly(without, want) {
		t.Errorf("without figures = %v, want %v", without, want)
	}
}

func TestCalculateConfidenceLengthPenalty(t *testing.T) {
	g := NewGenerator("Visuals", &stubSampler{}, testConfig(), zap.NewNop())

	short := g.calculateConfidence(strings.Repeat("x", 50))
	if want := 0.8; !nearly(short, want) {
		t.Errorf("short content = %v, want %v", short, want)
	}

	medium := g.calculateConfidence(strings.Repeat("x", 150))
	if want := 0.9; !nearly(medium, want) {
		t.Errorf("medium content = %v, want %v", medium, want)
	}
}

func TestCalculateConfidenceBounds(t *testing.T) {
	sections := []string{"Customer Information", "Background", "Solution",
		"Results and Achievements", "Financial Impact", "Visuals"}
	contents := []string{
		"",
		"short",
		strings.Repeat("not mentioned not specified not available not stated ", 10),
		strings.Repeat("[INFERRED] ", 50),
		"Company Name: Acme\nIndustry: Tech\nSaved $500 and 40 hours, 25% roi savings " + strings.Repeat("x", 200),
		strings.Repeat("problem challenge product service ", 20),
	}

	for _, name := range sections {
		g := NewGenerator(name, &stubSampler{}, testConfig(), zap.NewNop())
		for _, content := range contents {
			score := g.calculateConfidence(content)
			if score < 0.0 || score > 1.0 {
				t.Errorf("section %q content %q: score %v out of bounds", name, content[:min(20, len(content))], score)
			}
		}
	}
}

func TestIdentifyMissingFields(t *testing.T) {
	g := NewGenerator("Customer Information", &stubSampler{}, testConfig(), zap.NewNop())

	content := "Company Name: Acme Corp\nLocation: Austin, Texas\nPrimary Contact: Sarah Chen"
	missing := g.identifyMissingFields(content)

	if len(missing) != 1 || missing[0] != "industry" {
		t.Fatalf("missing = %v, want [industry]", missing)
	}
}

func TestIsFieldMissing(t *testing.T) {
	tests := []struct {
		content string
		label   string
		want    bool
	}{
		{"company name: acme corp", "company name", false},
		{"location: not specified", "location", true},
		{"industry was never brought up", "company name", true},
	}

	for _, tt := range tests {
		if got := isFieldMissing(tt.content, tt.label); got != tt.want {
			t.Errorf("isFieldMissing(%q, %q) = %v, want %v", tt.content, tt.label, got, tt.want)
		}
	}
}

func TestIdentifyMissingFieldsFinancial(t *testing.T) {
	g := NewGenerator("Financial Impact", &stubSampler{}, testConfig(), zap.NewNop())

	missing := g.identifyMissingFields("No figures were discussed in this meeting.")
	if len(missing) != 2 {
		t.Fatalf("missing = %v, want [cost_savings roi_percentage]", missing)
	}

	missing = g.identifyMissingFields("Cost savings of $10,000 with 150% ROI over 18 months.")
	if len(missing) != 0 {
		t.Errorf("missing = %v, want none", missing)
	}
}

func TestIdentifyMissingFieldsAdoption(t *testing.T) {
	g := NewGenerator("Adoption and Usage", &stubSampler{}, testConfig(), zap.NewNop())

	missing := g.identifyMissingFields("Nothing relevant here.")
	if len(missing) != 2 {
		t.Errorf("missing = %v, want user_count and adoption_rate", missing)
	}

	missing = g.identifyMissingFields("Adoption reached 95% among 500 users.")
	if len(missing) != 0 {
		t.Errorf("missing = %v, want none", missing)
	}
}

func TestFormatEntities(t *testing.T) {
	got := formatEntities(map[string][]string{
		"ORG":    {"Acme", "Beta", "Gamma", "Delta", "Epsilon", "Zeta"},
		"PERSON": {"Sarah Chen"},
	})

	if !strings.Contains(got, "PERSON: Sarah Chen") {
		t.Errorf("digest = %q", got)
	}
	if !strings.Contains(got, "ORG: Acme, Beta, Gamma, Delta, Epsilon") {
		t.Errorf("digest should cap at five per type: %q", got)
	}
	if strings.Contains(got, "Zeta") {
		t.Errorf("sixth entity should be dropped: %q", got)
	}

	if got := formatEntities(nil); got != "No entities extracted" {
		t.Errorf("empty digest = %q", got)
	}
}

func TestFormatTopics(t *testing.T) {
	topics := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
	got := formatTopics(topics)

	if strings.Contains(got, "k") {
		t.Errorf("eleventh topic should be dropped: %q", got)
	}
	if got := formatTopics(nil); got != "No specific topics identified" {
		t.Errorf("empty topics = %q", got)
	}
}

func nearly(got, want float64) bool {
	diff := got - want
	return diff > -1e-9 && diff < 1e-9
}
