package audit

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	robotsMetaRe  = regexp.MustCompile(`<meta[^>]*name=["']robots["'][^>]*content=["']([^"']*)["']`)
	jsonLDRe      = regexp.MustCompile(`<script[^>]*type=["']application/ld\+json["']`)
	externalRefRe = regexp.MustCompile(`(?:src|href)=["']https?://[^"']+["']`)
)

const maxReasonableExternalRefs = 30

// analyzeTechnical scores HTTPS usage, robots directives, structured data,
// URL hygiene and external-resource load.
// Point budget: 25 + 15 + 20 + 15 + 15 + 10 = 100.
func analyzeTechnical(markup string, facts *ContentFacts, pageURL string) ComponentScore {
	c := newChecklist()

	// HTTPS: 25 points
	if strings.HasPrefix(pageURL, "https://") {
		c.award(25, "Page is served over HTTPS")
	} else {
		c.flag(SeverityCritical, "Page is not served over HTTPS")
	}

	// Robots: 15 points unless a noindex directive blocks the page
	if m := robotsMetaRe.FindStringSubmatch(markup); m != nil && strings.Contains(strings.ToLower(m[1]), "noindex") {
		c.flag(SeverityHigh, "Robots meta tag contains noindex, page will not be indexed")
	} else {
		c.award(15, "Page is indexable (no noindex directive)")
	}

	// Structured data: 20 points for JSON-LD
	if jsonLDRe.MatchString(markup) {
		c.award(20, "JSON-LD structured data is present")
	} else {
		c.flag(SeverityMedium, "Add JSON-LD structured data to help search engines understand the page")
	}

	// Sitemap: static inspection cannot verify the sitemap, so constant
	// partial credit with a reminder (10 of the 15 budgeted points).
	c.partial(10, SeverityInfo, "Verify that an XML sitemap exists and is referenced in robots.txt")

	// Clean URL: 15 points when short and query-free
	u, err := url.Parse(pageURL)
	switch {
	case err != nil:
		c.flag(SeverityMedium, "Page URL could not be parsed")
	case u.RawQuery != "":
		c.partial(5, SeverityMedium, "URL contains query parameters, prefer clean paths")
	case len(pageURL) >= 100:
		c.partial(5, SeverityLow, fmt.Sprintf("URL is long (%d characters), keep URLs under 100", len(pageURL)))
	default:
		c.award(15, "URL is clean and reasonably short")
	}

	// External resources: 10 points for a reasonable count
	refs := len(externalRefRe.FindAllString(markup, -1))
	if refs <= maxReasonableExternalRefs {
		c.award(10, fmt.Sprintf("Reasonable number of external resource references (%d)", refs))
	} else {
		c.partial(3, SeverityMedium, fmt.Sprintf("High number of external resource references (%d), consider consolidating", refs))
	}

	return c.result()
}
