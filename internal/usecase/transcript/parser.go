// Package transcript parses WebVTT captioning content into structured
// transcript data: speaker-labeled text, individual speaking turns, the
// distinct speaker set, and total duration.
package transcript

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/snapshotdev/snapshot-server/errors"
	"github.com/snapshotdev/snapshot-server/internal/domain/entities"
)

var (
	// "Name (Role): text" or "Name: text"
	speakerPattern = regexp.MustCompile(`^([^:(]+?)(?:\s*\([^)]+\))?\s*:\s*(.*)$`)
	tagPattern     = regexp.MustCompile(`<[^>]+>`)
	wsPattern      = regexp.MustCompile(`\s+`)
	cuePattern     = regexp.MustCompile(`^(\d{1,2}:)?\d{2}:\d{2}[.,]\d{3}\s+-->\s+((\d{1,2}:)?\d{2}:\d{2}[.,]\d{3})`)
)

// Parser parses VTT transcript content.
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a new Parser instance
func NewParser(logger *zap.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse parses VTT transcript content directly from a string.
// Returns INVALID_INPUT for empty content and PARSE_ERROR for content that
// is not valid WebVTT.
func (p *Parser) Parse(content, filename string) (*entities.TranscriptData, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.ErrEmptyTranscript(filename)
	}

	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "WEBVTT") {
		firstLine := strings.SplitN(trimmed, "\n", 2)[0]
		return nil, errors.ErrParseFailed(
			fmt.Errorf("content must start with 'WEBVTT', got %q", firstLine), filename)
	}

	cues, err := parseCues(trimmed)
	if err != nil {
		return nil, errors.ErrParseFailed(err, filename)
	}

	speakerSet := make(map[string]struct{})
	var turns []entities.SpeakerTurn
	var textParts []string

	for _, cue := range cues {
		clean := cleanText(cue.text)
		speaker, body := extractSpeaker(clean)

		if speaker != "" {
			speakerSet[speaker] = struct{}{}
			turns = append(turns, entities.SpeakerTurn{
				Speaker: speaker,
				Text:    body,
				Start:   cue.start,
				End:     cue.end,
			})
			textParts = append(textParts, fmt.Sprintf("%s: %s", speaker, body))
		} else if body != "" {
			turns = append(turns, entities.SpeakerTurn{
				Speaker: "Unknown",
				Text:    body,
				Start:   cue.start,
				End:     cue.end,
			})
			textParts = append(textParts, body)
		}
	}

	var duration float64
	if len(cues) > 0 {
		duration = parseTimestamp(cues[len(cues)-1].end)
	}

	speakers := make([]string, 0, len(speakerSet))
	for s := range speakerSet {
		speakers = append(speakers, s)
	}
	sort.Strings(speakers)

	data := &entities.TranscriptData{
		Text:     strings.Join(textParts, "\n"),
		Speakers: speakers,
		Turns:    turns,
		Duration: duration,
		Metadata: entities.TranscriptMetadata{
			Filename:     filename,
			CaptionCount: len(cues),
			SpeakerCount: len(speakers),
		},
	}

	p.logger.Info("parsed VTT content",
		zap.String("filename", filename),
		zap.Int("speakers_count", len(speakers)),
		zap.Int("turns_count", len(turns)),
		zap.Float64("duration_seconds", duration),
		zap.Int("text_length", len(data.Text)),
	)

	return data, nil
}

// Summary returns a brief human-readable summary of parsed transcript data.
func Summary(data *entities.TranscriptData) string {
	minutes := int(data.Duration) / 60
	seconds := int(data.Duration) % 60

	names := data.Speakers
	suffix := ""
	if len(names) > 3 {
		names = names[:3]
		suffix = "..."
	}

	return fmt.Sprintf(`Transcript Summary:
- Speakers: %d (%s%s)
- Duration: %dm %ds
- Speaking turns: %d
- Total text length: %d characters
`, len(data.Speakers), strings.Join(names, ", "), suffix, minutes, seconds, len(data.Turns), len(data.Text))
}

type cue struct {
	start string
	end   string
	text  string
}

// parseCues walks the VTT body block by block, collecting timed cues and
// skipping NOTE/STYLE blocks and cue identifiers.
func parseCues(content string) ([]cue, error) {
	lines := strings.Split(content, "\n")

	var cues []cue
	var current *cue
	sawCue := false

	for i := 1; i < len(lines); i++ { // line 0 is the WEBVTT header
		line := strings.TrimRight(lines[i], "\r")
		trimmed := strings.TrimSpace(line)

		if m := cuePattern.FindStringSubmatch(trimmed); m != nil {
			if current != nil {
				cues = append(cues, *current)
			}
			parts := strings.SplitN(trimmed, "-->", 2)
			current = &cue{
				start: strings.TrimSpace(parts[0]),
				end:   strings.Fields(strings.TrimSpace(parts[1]))[0],
			}
			sawCue = true
			continue
		}

		if trimmed == "" {
			if current != nil {
				cues = append(cues, *current)
				current = nil
			}
			continue
		}

		if current != nil {
			if current.text != "" {
				current.text += "\n"
			}
			current.text += trimmed
		}
	}
	if current != nil {
		cues = append(cues, *current)
	}

	if !sawCue {
		return nil, fmt.Errorf("no timed cues found")
	}
	return cues, nil
}

// cleanText strips markup tags, collapses whitespace, and normalizes
// smart quotes.
func cleanText(text string) string {
	text = tagPattern.ReplaceAllString(text, "")
	text = wsPattern.ReplaceAllString(text, " ")

	replacer := strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
	)
	return strings.TrimSpace(replacer.Replace(text))
}

// extractSpeaker splits "Name (Role): text" into speaker and clean text.
func extractSpeaker(text string) (string, string) {
	m := speakerPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return "", strings.TrimSpace(text)
}

// parseTimestamp converts "HH:MM:SS.mmm" (or "MM:SS.mmm") to seconds.
func parseTimestamp(ts string) float64 {
	ts = strings.ReplaceAll(ts, ",", ".")
	parts := strings.Split(ts, ":")

	var total float64
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0
		}
		total = total*60 + v
	}
	return total
}
