package metagen

import (
	"sort"
	"strings"
	"unicode"
)

// Word lists used by the candidate scoring heuristics.
var (
	powerWords = []string{
		"best", "ultimate", "essential", "proven", "complete",
		"guide", "top", "easy", "free", "new", "exclusive",
	}

	ctaVerbs = []string{
		"learn", "discover", "get", "find", "try",
		"start", "explore", "download", "join", "read",
	}

	benefitWords = []string{
		"save", "improve", "boost", "grow", "results",
		"faster", "better", "success", "value", "quality",
	}

	stopWords = map[string]bool{
		"this": true, "that": true, "with": true, "from": true,
		"your": true, "have": true, "more": true, "will": true,
		"about": true, "what": true, "when": true, "where": true,
		"their": true, "which": true, "were": true, "been": true,
		"into": true, "them": true, "then": true, "than": true,
		"they": true, "some": true, "such": true, "also": true,
	}
)

// scoreTitle rates a title candidate 0-100: length window (40), keyword
// occurrences (40) and readability signals (20).
func scoreTitle(text string, keywords []string) int {
	score := 0

	switch l := len(text); {
	case l >= 50 && l <= 60:
		score += 40
	case l >= 45 && l <= 49:
		score += 30
	case l >= 61 && l <= 65:
		score += 25
	default:
		score += 10
	}

	switch hits := countKeywordHits(text, keywords); {
	case hits >= 2:
		score += 40
	case hits == 1:
		score += 25
	default:
		score += 5
	}

	if strings.ContainsFunc(text, unicode.IsDigit) {
		score += 10
	}
	if containsAnyWord(text, powerWords) {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

// scoreDescription rates a description candidate 0-100: length window (30),
// keyword density window (30), call-to-action presence (20) and benefit
// wording (20).
func scoreDescription(text string, keywords []string) int {
	score := 0

	switch l := len(text); {
	case l >= 150 && l <= 160:
		score += 30
	case l >= 140 && l <= 149:
		score += 22
	case l >= 161 && l <= 170:
		score += 18
	default:
		score += 10
	}

	words := len(strings.Fields(text))
	hits := countKeywordHits(text, keywords)
	density := 0.0
	if words > 0 {
		density = float64(hits) / float64(words)
	}
	switch {
	case density >= 0.02 && density <= 0.04:
		score += 30
	case hits > 0:
		score += 15
	default:
		score += 5
	}

	if containsAnyWord(text, ctaVerbs) {
		score += 20
	}
	if containsAnyWord(text, benefitWords) {
		score += 20
	}

	if score > 100 {
		score = 100
	}
	return score
}

// countKeywordHits counts case-insensitive keyword occurrences in text.
func countKeywordHits(text string, keywords []string) int {
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		hits += strings.Count(lower, kw)
	}
	return hits
}

func containsAnyWord(text string, words []string) bool {
	lower := strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// deriveKeywords extracts up to five frequent content words, skipping short
// tokens and stop words. Ties break alphabetically so the result is stable.
func deriveKeywords(content string) []string {
	freq := make(map[string]int)
	tokens := strings.FieldsFunc(strings.ToLower(content), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		if len(tok) <= 3 || stopWords[tok] {
			continue
		}
		freq[tok]++
	}

	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > 5 {
		words = words[:5]
	}
	return words
}
