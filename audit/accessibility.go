package audit

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	ariaAttrRe  = regexp.MustCompile(`aria-(?:label|labelledby|describedby)=`)
	landmarkRe  = regexp.MustCompile(`<(?:main|nav|header|footer|aside)[\s>]`)
	labelableRe = regexp.MustCompile(`<input[^>]*type=["']?(?:text|email|password|tel|number|search|url|date|time)["']?[^>]*>|<textarea|<select`)
	langAttrRe  = regexp.MustCompile(`<html[^>]*\slang=["'][^"']+["']`)
	headingRe   = regexp.MustCompile(`<h[1-6][\s>]`)
)

// analyzeAccessibility scores alt coverage, ARIA usage, landmarks, form
// labels, the lang attribute and heading presence.
// Point budget: 25 + 20 + 20 + 15 + 10 + 10 = 100.
func analyzeAccessibility(markup string, facts *ContentFacts, pageURL string) ComponentScore {
	c := newChecklist()

	// Image alt coverage: 25 points at 100%, reduced at 80%+
	total := len(facts.Images)
	if total == 0 {
		c.award(25, "No images missing alt text")
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
			c.award(25, "All images have alt text")
		case coverage >= 80:
			c.partial(15, SeverityMedium, fmt.Sprintf("%d of %d images are missing alt text", total-withAlt, total))
		default:
			c.partial(5, SeverityHigh, fmt.Sprintf("%d of %d images are missing alt text", total-withAlt, total))
		}
	}

	// ARIA attributes: 20 points
	if ariaAttrRe.MatchString(markup) {
		c.award(20, "ARIA label/description attributes are present")
	} else {
		c.flag(SeverityMedium, "No ARIA label or description attributes found")
	}

	// Landmarks: 20 points
	if landmarkRe.MatchString(markup) {
		c.award(20, "Semantic landmark elements are present")
	} else {
		c.flag(SeverityMedium, "No semantic landmark elements (main, nav, header, footer) found")
	}

	// Form labels: 15 points when every labelable input is covered
	inputs := len(labelableRe.FindAllString(markup, -1))
	if inputs == 0 {
		c.award(15, "No form inputs missing labels")
	} else {
		labels := strings.Count(markup, "<label") +
			len(regexp.MustCompile(`aria-label(?:ledby)?=`).FindAllString(markup, -1))
		if labels >= inputs {
			c.award(15, "All form inputs have label associations")
		} else {
			c.partial(5, SeverityMedium, fmt.Sprintf("%d form inputs appear to be missing labels", inputs-labels))
		}
	}

	// Lang attribute: 10 points
	if langAttrRe.MatchString(markup) {
		c.award(10, "Root element declares a lang attribute")
	} else {
		c.flag(SeverityMedium, "Missing lang attribute on the html element")
	}

	// Headings: 10 points for any heading at all
	if headingRe.MatchString(markup) {
		c.award(10, "Page contains headings")
	} else {
		c.flag(SeverityMedium, "Page contains no headings")
	}

	return c.result()
}
