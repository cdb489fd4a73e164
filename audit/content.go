package audit

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var listMarkupRe = regexp.MustCompile(`<(ul|ol)[\s>]`)

// analyzeContent scores word count, H2 structure, image alt coverage,
// internal linking and list markup. Point budget: 30 + 25 + 20 + 15 + 10 = 100.
func analyzeContent(markup string, facts *ContentFacts, pageURL string) ComponentScore {
	c := newChecklist()

	// Word count: 30 points at 300-2500 words, partial credit at 200-299
	switch {
	case facts.WordCount >= 300 && facts.WordCount <= 2500:
		c.award(30, fmt.Sprintf("Content length is good (%d words)", facts.WordCount))
	case facts.WordCount >= 200 && facts.WordCount < 300:
		c.partial(15, SeverityMedium, fmt.Sprintf("Content is a little thin (%d words, aim for at least 300)", facts.WordCount))
	case facts.WordCount > 2500:
		c.partial(15, SeverityLow, fmt.Sprintf("Content is very long (%d words), consider splitting it up", facts.WordCount))
	default:
		c.flag(SeverityHigh, fmt.Sprintf("Thin content (%d words, aim for at least 300)", facts.WordCount))
	}

	// H2 structure: 25 points at 2-10 subheadings
	h2Count := len(facts.Headings.H2)
	switch {
	case h2Count >= 2 && h2Count <= 10:
		c.award(25, fmt.Sprintf("Content is well structured with %d H2 headings", h2Count))
	case h2Count == 1 || h2Count > 10:
		c.partial(10, SeverityMedium, fmt.Sprintf("Suboptimal H2 count (%d), aim for 2-10 subheadings", h2Count))
	default:
		c.flag(SeverityMedium, "No H2 headings found, break content into sections")
	}

	// Image alt coverage: 20 points at 100%, reduced at 80%+
	total := len(facts.Images)
	if total == 0 {
		c.award(20, "No images missing alt text")
	} else {
		withAlt := 0
		for _, img := range facts.Images {
			if img.HasAlt {
				withAlt++
			}
		}
		coverage := float64(withAlt) / float64(total) * 100
		switch {
		case withAlt == total:
			c.award(20, "All images have alt text")
		case coverage >= 80:
			c.partial(12, SeverityMedium, fmt.Sprintf("%d of %d images are missing alt text", total-withAlt, total))
		default:
			c.partial(5, SeverityHigh, fmt.Sprintf("%d of %d images are missing alt text", total-withAlt, total))
		}
	}

	// Internal links: 15 points for 3 or more
	internal := countInternalLinks(facts.Links, pageURL)
	if internal >= 3 {
		c.award(15, fmt.Sprintf("Good internal linking (%d internal links)", internal))
	} else {
		c.partial(5, SeverityMedium, fmt.Sprintf("Only %d internal links, aim for at least 3", internal))
	}

	// List markup: 10 points
	if listMarkupRe.MatchString(markup) {
		c.award(10, "Content uses list markup")
	} else {
		c.flag(SeverityLow, "Consider using lists to structure scannable content")
	}

	return c.result()
}

func countInternalLinks(links []LinkFact, pageURL string) int {
	host := ""
	if u, err := url.Parse(pageURL); err == nil {
		host = u.Host
	}

	count := 0
	for _, l := range links {
		href := l.Href
		if href == "" || strings.HasPrefix(href, "#") {
			continue
		}
		if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
			count++
			continue
		}
		if host != "" {
			if u, err := url.Parse(href); err == nil && u.Host == host {
				count++
			}
		}
	}
	return count
}
