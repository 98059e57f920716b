package analysis

import (
	"regexp"
	"sort"
	"strings"

	"github.com/snapshotdev/snapshot-server/internal/domain/entities"
)

var (
	moneyPattern   = regexp.MustCompile(`\$[\d,]+(?:\.\d+)?(?:\s*(?:million|billion|thousand|[KkMmBb]\b))?`)
	percentPattern = regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:%|percent\b)`)
	datePattern    = regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\b(?:\s+\d{1,2})?(?:,?\s+\d{4})?|\bQ[1-4]\s*\d{4}\b|\b\d{4}\b|\b\d+\s+(?:weeks?|months?|years?)\b`)
	orgPattern     = regexp.MustCompile(`\b(?:[A-Z][A-Za-z0-9&]+\s+)*[A-Z][A-Za-z0-9&]*\s+(?:Corp(?:oration)?|Inc|LLC|Ltd|Group|Technologies|Systems|Solutions|Labs|Software|Industries)\b\.?`)
	personPattern  = regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`)
	productPattern = regexp.MustCompile(`\b((?:[A-Z][A-Za-z0-9]+\s?)+)\s+(?:platform|product|tool|suite|dashboard|module|API)\b`)
	gpePattern     = regexp.MustCompile(`\b(?:based in|located in|office in|headquartered in|from)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)
)

// stopWords is a standard English stop list; tokens in it never count as
// topics or phrase members.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`a about above after again against all also back because been before
being below between both cannot could does doing down during each even
from further have having here hers herself himself https into itself
just like more most much need once only other ought ours ourselves over
same should some such than that their theirs them themselves then there
these they this those through under until very want well were what when
where which while whom with would your yours yourself yourselves going
really think know yeah okay right thing things gonna want said just`) {
		stopWords[w] = struct{}{}
	}
}

// ExtractEntities extracts named entities by pattern matching. Results are
// keyed by entity type (PERSON, ORG, PRODUCT, GPE, DATE, MONEY, PERCENT);
// empty types are omitted.
func ExtractEntities(text string) map[string][]string {
	byType := map[string][]string{}

	appendUnique := func(entType, value string) {
		value = strings.TrimSpace(strings.TrimSuffix(value, "."))
		if value == "" {
			return
		}
		for _, existing := range byType[entType] {
			if existing == value {
				return
			}
		}
		byType[entType] = append(byType[entType], value)
	}

	for _, m := range orgPattern.FindAllString(text, -1) {
		appendUnique("ORG", m)
	}

	orgs := byType["ORG"]
	for _, m := range personPattern.FindAllString(text, -1) {
		if isOrgMember(m, orgs) || looksLikeSentenceStart(text, m) {
			continue
		}
		appendUnique("PERSON", m)
	}

	for _, m := range productPattern.FindAllStringSubmatch(text, -1) {
		appendUnique("PRODUCT", m[1])
	}
	for _, m := range gpePattern.FindAllStringSubmatch(text, -1) {
		appendUnique("GPE", m[1])
	}
	for _, m := range datePattern.FindAllString(text, -1) {
		appendUnique("DATE", m)
	}
	for _, m := range moneyPattern.FindAllString(text, -1) {
		appendUnique("MONEY", m)
	}
	for _, m := range percentPattern.FindAllString(text, -1) {
		appendUnique("PERCENT", m)
	}

	return byType
}

func isOrgMember(candidate string, orgs []string) bool {
	for _, org := range orgs {
		if strings.Contains(org, candidate) {
			return true
		}
	}
	return false
}

// looksLikeSentenceStart filters capitalized bigrams that begin a sentence,
// the main false-positive source for the person pattern.
func looksLikeSentenceStart(text, candidate string) bool {
	idx := strings.Index(text, candidate)
	if idx <= 0 {
		return idx == 0
	}
	before := strings.TrimRight(text[:idx], " \n\t")
	if before == "" {
		return true
	}
	last := before[len(before)-1]
	return last == '.' || last == '!' || last == '?'
}

// ExtractTopics returns the topN most frequent content words in the text.
func ExtractTopics(text string, topN int) []string {
	tokens := tokenize(text)

	freq := map[string]int{}
	for _, tok := range tokens {
		freq[tok]++
	}

	return topByCount(freq, topN)
}

// ExtractKeyPhrases returns the most frequent bigrams and trigrams built
// from content words. Trigrams are listed first.
func ExtractKeyPhrases(text string, topN int) []string {
	tokens := tokenize(text)

	bigramFreq := map[string]int{}
	for i := 0; i+1 < len(tokens); i++ {
		bigramFreq[tokens[i]+" "+tokens[i+1]]++
	}
	trigramFreq := map[string]int{}
	for i := 0; i+2 < len(tokens); i++ {
		trigramFreq[tokens[i]+" "+tokens[i+1]+" "+tokens[i+2]]++
	}

	topBigrams := topByCount(bigramFreq, topN/2)
	topTrigrams := topByCount(trigramFreq, topN-len(topBigrams))

	phrases := append(topTrigrams, topBigrams...)
	if len(phrases) > topN {
		phrases = phrases[:topN]
	}
	return phrases
}

// AnalyzeStructure derives the conversational shape of a transcript:
// meeting type, per-speaker activity, and average turn length.
func AnalyzeStructure(data *entities.TranscriptData) entities.TranscriptStructure {
	turnCount := map[string]int{}
	wordCount := map[string]int{}
	totalWords := 0

	for _, turn := range data.Turns {
		words := len(strings.Fields(turn.Text))
		turnCount[turn.Speaker]++
		wordCount[turn.Speaker] += words
		totalWords += words
	}

	meetingType := "discussion"
	switch n := len(data.Speakers); {
	case n == 2:
		meetingType = "one_on_one"
	case n > 0 && n <= 4:
		meetingType = "small_group"
	case n > 4:
		meetingType = "large_group"
	}

	textLower := strings.ToLower(data.Text)
	if strings.Contains(textLower, "kickoff") || strings.Contains(textLower, "introduction") {
		meetingType = "kickoff"
	} else if strings.Contains(textLower, "review") || strings.Contains(textLower, "retrospective") {
		meetingType = "review"
	}

	avgTurnLength := 0.0
	if len(data.Turns) > 0 {
		avgTurnLength = float64(totalWords) / float64(len(data.Turns))
	}

	return entities.TranscriptStructure{
		MeetingType:      meetingType,
		SpeakerCount:     len(data.Speakers),
		TotalTurns:       len(data.Turns),
		DurationSeconds:  data.Duration,
		SpeakerTurnCount: turnCount,
		SpeakerWordCount: wordCount,
		AvgTurnLength:    avgTurnLength,
	}
}

// tokenize lowercases the text and keeps alphabetic content words longer
// than three characters.
func tokenize(text string) []string {
	var tokens []string
	for _, field := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '\'')
	}) {
		field = strings.Trim(field, "'")
		if len(field) <= 3 {
			continue
		}
		if _, stop := stopWords[field]; stop {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

// topByCount returns up to n keys ordered by descending count, ties broken
// alphabetically so output is deterministic.
func topByCount(freq map[string]int, n int) []string {
	if n <= 0 {
		return nil
	}
	keys := make([]string, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if freq[keys[i]] != freq[keys[j]] {
			return freq[keys[i]] > freq[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
