package transcript

import (
	stderrors "errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	apperrors "github.com/snapshotdev/snapshot-server/errors"
)

const sampleVTT = `WEBVTT

1
00:00:01.000 --> 00:00:05.000
Sarah Chen (Acme Corp): Thanks for joining today.

2
00:00:05.500 --> 00:00:12.000
John Smith: Happy to be here. Let's review the rollout.

3
00:00:12.500 --> 00:01:30.000
Sarah Chen (Acme Corp): We saved 40 hours per week after deployment.
`

func TestParse(t *testing.T) {
	p := NewParser(zap.NewNop())

	data, err := p.Parse(sampleVTT, "meeting.vtt")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(data.Speakers) != 2 {
		t.Fatalf("speakers = %v, want 2 entries", data.Speakers)
	}
	if data.Speakers[0] != "John Smith" || data.Speakers[1] != "Sarah Chen" {
		t.Errorf("speakers = %v, want sorted [John Smith, Sarah Chen]", data.Speakers)
	}

	if len(data.Turns) != 3 {
		t.Fatalf("turns = %d, want 3", len(data.Turns))
	}
	if data.Turns[0].Speaker != "Sarah Chen" {
		t.Errorf("first turn speaker = %q, want %q", data.Turns[0].Speaker, "Sarah Chen")
	}
	if data.Turns[0].Text != "Thanks for joining today." {
		t.Errorf("first turn text = %q", data.Turns[0].Text)
	}

	if data.Duration != 90 {
		t.Errorf("duration = %v, want 90", data.Duration)
	}

	if !strings.Contains(data.Text, "Sarah Chen: Thanks for joining today.") {
		t.Errorf("text missing speaker-labeled line:\n%s", data.Text)
	}

	if data.Metadata.CaptionCount != 3 {
		t.Errorf("caption count = %d, want 3", data.Metadata.CaptionCount)
	}
	if data.Metadata.SpeakerCount != 2 {
		t.Errorf("speaker count = %d, want 2", data.Metadata.SpeakerCount)
	}
	if data.Metadata.Filename != "meeting.vtt" {
		t.Errorf("filename = %q", data.Metadata.Filename)
	}
}

func TestParseEmptyContent(t *testing.T) {
	p := NewParser(zap.NewNop())

	_, err := p.Parse("   \n  ", "empty.vtt")
	if err == nil {
		t.Fatal("expected error for empty content")
	}

	var appErr apperrors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("error type = %T, want *AppError", err)
	}
	if appErr.Code != apperrors.ErrorCode_INVALID_INPUT {
		t.Errorf("code = %s, want INVALID_INPUT", appErr.Code)
	}
}

func TestParseMissingHeader(t *testing.T) {
	p := NewParser(zap.NewNop())

	_, err := p.Parse("00:00:01.000 --> 00:00:05.000\nHello", "bad.vtt")
	if err == nil {
		t.Fatal("expected error for missing WEBVTT header")
	}

	var appErr apperrors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("error type = %T, want *AppError", err)
	}
	if appErr.Code != apperrors.ErrorCode_PARSE_ERROR {
		t.Errorf("code = %s, want PARSE_ERROR", appErr.Code)
	}
}

func TestParseNoCues(t *testing.T) {
	p := NewParser(zap.NewNop())

	_, err := p.Parse("WEBVTT\n\nNOTE just a comment\n", "nocues.vtt")
	if err == nil {
		t.Fatal("expected error for VTT with no cues")
	}

	var appErr apperrors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("error type = %T, want *AppError", err)
	}
	if appErr.Code != apperrors.ErrorCode_PARSE_ERROR {
		t.Errorf("code = %s, want PARSE_ERROR", appErr.Code)
	}
}

func TestParseUnlabeledCue(t *testing.T) {
	p := NewParser(zap.NewNop())

	content := "WEBVTT\n\n00:00:01.000 --> 00:00:03.000\nApplause from the room\n"
	data, err := p.Parse(content, "plain.vtt")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(data.Speakers) != 0 {
		t.Errorf("speakers = %v, want none", data.Speakers)
	}
	if len(data.Turns) != 1 {
		t.Fatalf("turns = %d, want 1", len(data.Turns))
	}
	if data.Turns[0].Speaker != "Unknown" {
		t.Errorf("speaker = %q, want Unknown", data.Turns[0].Speaker)
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<v Sarah>Hello there</v>", "Hello there"},
		{"multiple   spaces\n\there", "multiple spaces here"},
		{"“smart” and ‘quotes’", `"smart" and 'quotes'`},
	}

	for _, tt := range tests {
		if got := cleanText(tt.in); got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractSpeaker(t *testing.T) {
	tests := []struct {
		in          string
		wantSpeaker string
		wantText    string
	}{
		{"Sarah Chen (Acme Corp): Hello", "Sarah Chen", "Hello"},
		{"John: Quick update", "John", "Quick update"},
		{"no speaker here", "", "no speaker here"},
	}

	for _, tt := range tests {
		speaker, text := extractSpeaker(tt.in)
		if speaker != tt.wantSpeaker || text != tt.wantText {
			t.Errorf("extractSpeaker(%q) = (%q, %q), want (%q, %q)",
				tt.in, speaker, text, tt.wantSpeaker, tt.wantText)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"00:00:05.500", 5.5},
		{"00:01:30.000", 90},
		{"01:00:00.000", 3600},
		{"02:15.250", 135.25},
	}

	for _, tt := range tests {
		if got := parseTimestamp(tt.in); got != tt.want {
			t.Errorf("parseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
