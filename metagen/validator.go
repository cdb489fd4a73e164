package metagen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/site-audit/backend/stats"
)

// ErrMissingTitle indicates a caller bug: the title field is required for
// every meta-generation request.
var ErrMissingTitle = errors.New("title is required")

const minVariations = 3

// Service validates externally generated meta candidates and backfills them
// with deterministic fallbacks. The provider is treated as unreliable: any
// failure or unparsable output routes to the fallback path, never to the
// caller as an error.
type Service struct {
	provider        Provider
	providerTimeout time.Duration
	stats           *stats.Storage
}

// NewService creates a meta-generation service. Both provider and storage
// may be nil; a nil provider always takes the fallback path.
func NewService(provider Provider, storage *stats.Storage) *Service {
	return &Service{
		provider:        provider,
		providerTimeout: 10 * time.Second,
		stats:           storage,
	}
}

// ValidateTitle validates one title candidate against the 50-60 character
// window, truncating overflow and penalizing out-of-window lengths.
func ValidateTitle(text string, keywords []string) MetaVariation {
	return validateCandidate(text, TitleMinLength, TitleMaxLength, func(t string) int {
		return scoreTitle(t, keywords)
	})
}

// ValidateDescription validates one description candidate against the
// 150-160 character window.
func ValidateDescription(text string, keywords []string) MetaVariation {
	return validateCandidate(text, DescMinLength, DescMaxLength, func(t string) int {
		return scoreDescription(t, keywords)
	})
}

func validateCandidate(text string, minLen, maxLen int, score func(string) int) MetaVariation {
	text = strings.TrimSpace(text)
	length := len(text)

	switch {
	case length > maxLen:
		original := length
		text = truncateWithEllipsis(text, maxLen)
		return MetaVariation{
			Text:    text,
			Length:  len(text),
			Score:   floorScore(score(text) - 10),
			Valid:   false,
			Warning: fmt.Sprintf("Truncated from %d characters", original),
		}
	case length < minLen:
		return MetaVariation{
			Text:    text,
			Length:  length,
			Score:   floorScore(score(text) - 15),
			Valid:   false,
			Warning: fmt.Sprintf("Text is too short (%d characters, target %d-%d)", length, minLen, maxLen),
		}
	default:
		return MetaVariation{
			Text:   text,
			Length: length,
			Score:  score(text),
			Valid:  true,
		}
	}
}

// truncateWithEllipsis cuts text to maxLen-3 characters plus an ellipsis,
// backing up to a rune boundary so multi-byte text stays well formed.
func truncateWithEllipsis(text string, maxLen int) string {
	cut := maxLen - 3
	for cut > 0 && !isRuneStart(text[cut]) {
		cut--
	}
	return strings.TrimRight(text[:cut], " ") + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

func floorScore(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// GenerateVariations produces the ranked candidate bundle. Provider output
// seeds the candidate pool; the deterministic fallback generator guarantees
// at least three title and three description variations regardless.
func (s *Service) GenerateVariations(ctx context.Context, req TagRequest) (*MetaVariationSet, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrMissingTitle
	}

	titles, descriptions, providerOK := s.requestCandidates(ctx, req)

	set := s.BuildVariationSet(req, titles, descriptions)

	if s.stats != nil {
		fallbacks := 0
		if !providerOK {
			fallbacks = 1
		}
		s.stats.IncrementStats(0, 0, 1, fallbacks)
	}

	return set, nil
}

// BuildVariationSet validates and ranks the given candidates, backfilling
// with deterministic fallbacks when fewer than three survive per field.
func (s *Service) BuildVariationSet(req TagRequest, titles, descriptions []Candidate) *MetaVariationSet {
	keywords := requestKeywords(req)

	titleVars := make([]MetaVariation, 0, len(titles)+minVariations)
	for _, cand := range titles {
		if strings.TrimSpace(cand.Text) == "" {
			continue
		}
		titleVars = append(titleVars, ValidateTitle(cand.Text, keywords))
	}
	if len(titleVars) < minVariations {
		for _, cand := range fallbackTitles(req, keywords) {
			titleVars = append(titleVars, ValidateTitle(cand, keywords))
		}
	}

	descVars := make([]MetaVariation, 0, len(descriptions)+minVariations)
	for _, cand := range descriptions {
		if strings.TrimSpace(cand.Text) == "" {
			continue
		}
		descVars = append(descVars, ValidateDescription(cand.Text, keywords))
	}
	if len(descVars) < minVariations {
		for _, cand := range fallbackDescriptions(req, keywords) {
			descVars = append(descVars, ValidateDescription(cand, keywords))
		}
	}

	sort.SliceStable(titleVars, func(i, j int) bool { return titleVars[i].Score > titleVars[j].Score })
	sort.SliceStable(descVars, func(i, j int) bool { return descVars[i].Score > descVars[j].Score })

	topTitle := titleVars[0].Text
	topDesc := descVars[0].Text

	return &MetaVariationSet{
		TitleVariations:       titleVars,
		DescriptionVariations: descVars,
		MetaKeywords:          keywords,
		FocusKeyword:          focusKeyword(keywords),
		OGTitle:               topTitle,
		OGDescription:         topDesc,
		TwitterTitle:          clampWithEllipsis(topTitle, TwitterTitleMaxLength),
		TwitterDescription:    clampWithEllipsis(topDesc, TwitterDescMaxLength),
	}
}

// GenerateTags is the single-variation mode: one clamped bundle, no ranking
// and no penalty math. Provider failure falls back to the clamped raw
// title and content.
func (s *Service) GenerateTags(ctx context.Context, req TagRequest) (*TagBundle, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrMissingTitle
	}

	keywords := requestKeywords(req)
	title := strings.TrimSpace(req.Title)
	description := descriptionSource(req)
	providerOK := false

	if s.provider != nil {
		callCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
		raw, err := s.provider.Generate(callCtx, singlePrompt(req), Options{MaxTokens: 300, Temperature: 0.7})
		cancel()
		if err == nil {
			var parsed struct {
				Title       string   `json:"title"`
				Description string   `json:"description"`
				Keywords    []string `json:"keywords"`
			}
			if jsonBody := extractJSON(raw); jsonBody != "" && json.Unmarshal([]byte(jsonBody), &parsed) == nil {
				if strings.TrimSpace(parsed.Title) != "" {
					title = strings.TrimSpace(parsed.Title)
				}
				if strings.TrimSpace(parsed.Description) != "" {
					description = strings.TrimSpace(parsed.Description)
				}
				if len(parsed.Keywords) > 0 {
					keywords = parsed.Keywords
				}
				providerOK = true
			}
		}
	}

	title = clampWithEllipsis(title, TitleMaxLength)
	description = clampWithEllipsis(description, DescMaxLength)

	if s.stats != nil {
		fallbacks := 0
		if !providerOK {
			fallbacks = 1
		}
		s.stats.IncrementStats(0, 0, 1, fallbacks)
	}

	return &TagBundle{
		MetaTitle:          title,
		MetaDescription:    description,
		MetaKeywords:       keywords,
		OGTitle:            title,
		OGDescription:      description,
		TwitterTitle:       clampWithEllipsis(title, TwitterTitleMaxLength),
		TwitterDescription: clampWithEllipsis(description, TwitterDescMaxLength),
		FocusKeyword:       focusKeyword(keywords),
	}, nil
}

// requestCandidates asks the provider for candidate titles and descriptions.
// The returned flag reports whether usable provider output was obtained.
func (s *Service) requestCandidates(ctx context.Context, req TagRequest) ([]Candidate, []Candidate, bool) {
	if s.provider == nil {
		return nil, nil, false
	}

	callCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	raw, err := s.provider.Generate(callCtx, variationsPrompt(req), Options{MaxTokens: 600, Temperature: 0.8})
	if err != nil {
		return nil, nil, false
	}

	var parsed struct {
		Titles       []string `json:"titles"`
		Descriptions []string `json:"descriptions"`
	}
	jsonBody := extractJSON(raw)
	if jsonBody == "" || json.Unmarshal([]byte(jsonBody), &parsed) != nil {
		return nil, nil, false
	}
	if len(parsed.Titles) == 0 && len(parsed.Descriptions) == 0 {
		return nil, nil, false
	}

	titles := make([]Candidate, 0, len(parsed.Titles))
	for _, t := range parsed.Titles {
		titles = append(titles, Candidate{Text: t})
	}
	descriptions := make([]Candidate, 0, len(parsed.Descriptions))
	for _, d := range parsed.Descriptions {
		descriptions = append(descriptions, Candidate{Text: d})
	}
	return titles, descriptions, true
}

// extractJSON pulls the first JSON object out of free-form provider text.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

func variationsPrompt(req TagRequest) string {
	var b strings.Builder
	b.WriteString("Propose 5 SEO title variations (50-60 characters) and 5 meta description variations (150-160 characters) for the page below. ")
	b.WriteString(`Respond with JSON only: {"titles": [...], "descriptions": [...]}.`)
	b.WriteString("\n\nTitle: ")
	b.WriteString(req.Title)
	if req.Category != "" {
		b.WriteString("\nCategory: ")
		b.WriteString(req.Category)
	}
	if len(req.Keywords) > 0 {
		b.WriteString("\nKeywords: ")
		b.WriteString(strings.Join(req.Keywords, ", "))
	}
	if req.Excerpt != "" {
		b.WriteString("\nExcerpt: ")
		b.WriteString(req.Excerpt)
	}
	b.WriteString("\nContent: ")
	b.WriteString(firstWords(req.Content, 200))
	return b.String()
}

func singlePrompt(req TagRequest) string {
	var b strings.Builder
	b.WriteString("Write one SEO title (50-60 characters), one meta description (150-160 characters) and up to 5 keywords for the page below. ")
	b.WriteString(`Respond with JSON only: {"title": "...", "description": "...", "keywords": [...]}.`)
	b.WriteString("\n\nTitle: ")
	b.WriteString(req.Title)
	if req.Excerpt != "" {
		b.WriteString("\nExcerpt: ")
		b.WriteString(req.Excerpt)
	}
	b.WriteString("\nContent: ")
	b.WriteString(firstWords(req.Content, 200))
	return b.String()
}

// fallbackTitles derives three candidates from the request alone. This path
// never touches the provider and never fails.
func fallbackTitles(req TagRequest, keywords []string) []string {
	base := strings.TrimSpace(req.Title)
	if base == "" {
		base = firstWords(req.Content, 8)
	}
	kw := focusKeyword(keywords)
	if kw == "" {
		kw = "Overview"
	}

	return []string{
		clampWithEllipsis(base, TitleMaxLength),
		clampWithEllipsis(base+" | "+titleCase(kw), TitleMaxLength),
		clampWithEllipsis("The Complete Guide to "+base, TitleMaxLength),
	}
}

// fallbackDescriptions derives three candidates from the excerpt or content.
func fallbackDescriptions(req TagRequest, keywords []string) []string {
	base := strings.TrimSpace(req.Title)
	source := strings.TrimSpace(req.Excerpt)
	if source == "" {
		source = strings.TrimSpace(req.Content)
	}
	if source == "" {
		source = base
	}
	source = strings.Join(strings.Fields(source), " ")

	kw := focusKeyword(keywords)
	if kw == "" {
		kw = strings.ToLower(base)
	}

	return []string{
		clampWithEllipsis(source, DescMaxLength),
		clampWithEllipsis("Learn about "+base+". "+source, DescMaxLength),
		clampWithEllipsis(source+" Discover more about "+kw+".", DescMaxLength),
	}
}

// clampWithEllipsis truncates overflow without any penalty bookkeeping.
func clampWithEllipsis(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return truncateWithEllipsis(text, maxLen)
}

// descriptionSource picks the raw description text: excerpt first, then
// content, then the title itself.
func descriptionSource(req TagRequest) string {
	if s := strings.TrimSpace(req.Excerpt); s != "" {
		return strings.Join(strings.Fields(s), " ")
	}
	if s := strings.TrimSpace(req.Content); s != "" {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.TrimSpace(req.Title)
}

func requestKeywords(req TagRequest) []string {
	keywords := make([]string, 0, len(req.Keywords))
	for _, kw := range req.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		keywords = deriveKeywords(req.Content)
	}
	return keywords
}

func focusKeyword(keywords []string) string {
	if len(keywords) == 0 {
		return ""
	}
	return keywords[0]
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func firstWords(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}
