package metagen

// Length windows for generated meta fields, in characters.
const (
	TitleMinLength = 50
	TitleMaxLength = 60
	DescMinLength  = 150
	DescMaxLength  = 160

	TwitterTitleMaxLength = 70
	TwitterDescMaxLength  = 200
)

// MetaVariation is one scored candidate title or description.
type MetaVariation struct {
	Text    string `json:"text"`
	Length  int    `json:"length"`
	Score   int    `json:"score"`
	Valid   bool   `json:"valid"`
	Warning string `json:"warning,omitempty"`
}

// MetaVariationSet is the full ranked candidate bundle.
type MetaVariationSet struct {
	TitleVariations       []MetaVariation `json:"titleVariations"`
	DescriptionVariations []MetaVariation `json:"descriptionVariations"`
	MetaKeywords          []string        `json:"metaKeywords"`
	FocusKeyword          string          `json:"focusKeyword"`
	OGTitle               string          `json:"ogTitle"`
	OGDescription         string          `json:"ogDescription"`
	TwitterTitle          string          `json:"twitterTitle"`
	TwitterDescription    string          `json:"twitterDescription"`
}

// TagRequest carries the page context used for meta generation.
type TagRequest struct {
	Title              string   `json:"title" binding:"required"`
	Content            string   `json:"content"`
	Excerpt            string   `json:"excerpt"`
	Keywords           []string `json:"keywords"`
	Category           string   `json:"category"`
	GenerateVariations bool     `json:"generateVariations"`
}

// TagBundle is the single-variation (no ranking) output, length-clamped.
type TagBundle struct {
	MetaTitle          string   `json:"metaTitle"`
	MetaDescription    string   `json:"metaDescription"`
	MetaKeywords       []string `json:"metaKeywords"`
	OGTitle            string   `json:"ogTitle"`
	OGDescription      string   `json:"ogDescription"`
	TwitterTitle       string   `json:"twitterTitle"`
	TwitterDescription string   `json:"twitterDescription"`
	FocusKeyword       string   `json:"focusKeyword"`
}

// Candidate is one externally proposed title or description.
type Candidate struct {
	Text string `json:"text"`
}
