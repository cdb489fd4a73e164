package audit

import (
	"fmt"
	"regexp"
)

var (
	ogTitleRe   = regexp.MustCompile(`<meta[^>]*property=["']og:title["']`)
	ogDescRe    = regexp.MustCompile(`<meta[^>]*property=["']og:description["']`)
	ogImageRe   = regexp.MustCompile(`<meta[^>]*property=["']og:image["']`)
	canonicalRe = regexp.MustCompile(`<link[^>]*rel=["']canonical["']`)
)

// analyzeMetaTags scores title, description, H1 usage, Open Graph coverage
// and canonical link. Point budget: 25 + 25 + 20 + 15 + 15 = 100.
func analyzeMetaTags(markup string, facts *ContentFacts, pageURL string) ComponentScore {
	c := newChecklist()

	// Title: 25 points for a 30-60 character title
	titleLen := len(facts.Title)
	switch {
	case titleLen == 0:
		c.flag(SeverityCritical, "Missing title tag")
	case titleLen >= 30 && titleLen <= 60:
		c.award(25, "Title length is within the 30-60 character range")
	case titleLen < 30:
		c.partial(10, SeverityMedium, fmt.Sprintf("Title is too short (%d characters, aim for 30-60)", titleLen))
	default:
		c.partial(10, SeverityMedium, fmt.Sprintf("Title is too long (%d characters, aim for 30-60)", titleLen))
	}

	// Description: 25 points for 120-160 characters
	descLen := len(facts.Description)
	switch {
	case descLen == 0:
		c.flag(SeverityCritical, "Missing meta description")
	case descLen >= 120 && descLen <= 160:
		c.award(25, "Meta description length is within the 120-160 character range")
	case descLen < 120:
		c.partial(10, SeverityMedium, fmt.Sprintf("Meta description is too short (%d characters, aim for 120-160)", descLen))
	default:
		c.partial(10, SeverityMedium, fmt.Sprintf("Meta description is too long (%d characters, aim for 120-160)", descLen))
	}

	// H1: 20 points for exactly one
	h1Count := len(facts.Headings.H1)
	switch {
	case h1Count == 1:
		c.award(20, "Page has exactly one H1 heading")
	case h1Count == 0:
		c.flag(SeverityHigh, "Missing H1 heading")
	default:
		c.partial(10, SeverityMedium, fmt.Sprintf("Multiple H1 headings found (%d), use only one", h1Count))
	}

	// Open Graph: 15 points when title, description and image are all set
	ogCount := 0
	for _, re := range []*regexp.Regexp{ogTitleRe, ogDescRe, ogImageRe} {
		if re.MatchString(markup) {
			ogCount++
		}
	}
	switch {
	case ogCount == 3:
		c.award(15, "Open Graph title, description and image are present")
	case ogCount > 0:
		c.partial(5, SeverityMedium, "Incomplete Open Graph tags, add og:title, og:description and og:image")
	default:
		c.flag(SeverityMedium, "Missing Open Graph tags for social sharing")
	}

	// Canonical: 15 points
	if canonicalRe.MatchString(markup) {
		c.award(15, "Canonical link is present")
	} else {
		c.flag(SeverityLow, "Add a canonical link to avoid duplicate-content issues")
	}

	return c.result()
}
