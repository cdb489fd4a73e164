package audit

import (
	"fmt"
	"regexp"
	"strings"
)

var resourceHintRe = regexp.MustCompile(`<link[^>]*rel=["'](?:dns-prefetch|preconnect)["']`)

// analyzePerformance applies static heuristics: lazy-loading coverage,
// resource hints and minified asset references on top of a base score.
// Point budget: 40 base + 30 + 15 + 15 = 100.
func analyzePerformance(markup string, facts *ContentFacts, pageURL string) ComponentScore {
	c := newChecklist()

	// Static inspection cannot measure real timings, so start from a base.
	c.score += 40

	// Lazy loading: 30 points when every image opts in
	imgTags := imgTagRe.FindAllString(markup, -1)
	if len(imgTags) == 0 {
		c.award(30, "No images requiring lazy loading")
	} else {
		lazy := 0
		for _, tag := range imgTags {
			if strings.Contains(tag, `loading="lazy"`) || strings.Contains(tag, "loading='lazy'") {
				lazy++
			}
		}
		coverage := float64(lazy) / float64(len(imgTags)) * 100
		switch {
		case lazy == len(imgTags):
			c.award(30, "All images use lazy loading")
		case coverage >= 50:
			c.partial(18, SeverityLow, fmt.Sprintf("%d of %d images are not lazy loaded", len(imgTags)-lazy, len(imgTags)))
		case lazy > 0:
			c.partial(8, SeverityMedium, fmt.Sprintf("%d of %d images are not lazy loaded", len(imgTags)-lazy, len(imgTags)))
		default:
			c.flag(SeverityMedium, "No lazy-loaded images, add loading=\"lazy\" to below-the-fold images")
		}
	}

	// Resource hints: 15 points
	if resourceHintRe.MatchString(markup) {
		c.award(15, "Resource hints (dns-prefetch/preconnect) are present")
	} else {
		c.flag(SeverityLow, "Add dns-prefetch or preconnect hints for third-party origins")
	}

	// Minified assets: 15 points
	if strings.Contains(markup, ".min.js") || strings.Contains(markup, ".min.css") {
		c.award(15, "Minified asset references detected")
	} else {
		c.flag(SeverityLow, "No minified asset references detected, serve minified CSS/JS")
	}

	// Static heuristics are no substitute for field data.
	c.flag(SeverityInfo, "Run a dedicated performance tool (e.g. Lighthouse) for real Core Web Vitals measurements")

	return c.result()
}
