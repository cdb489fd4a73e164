package audit

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	viewportRe = regexp.MustCompile(`<meta[^>]*name=["']viewport["'][^>]*content=["']([^"']+)["']`)
	imgTagRe   = regexp.MustCompile(`<img[^>]*>`)
)

// analyzeMobile scores viewport configuration, responsive images, touch
// friendliness and responsive CSS. Point budget: 40 + 20 + 20 + 20 = 100.
func analyzeMobile(markup string, facts *ContentFacts, pageURL string) ComponentScore {
	c := newChecklist()

	// Viewport: 40 points for width=device-width
	viewport := ""
	if m := viewportRe.FindStringSubmatch(markup); m != nil {
		viewport = strings.ToLower(m[1])
	}
	switch {
	case viewport == "":
		c.flag(SeverityHigh, "Missing viewport meta tag")
	case strings.Contains(viewport, "width=device-width"):
		c.award(40, "Viewport is configured for device width")
	default:
		c.partial(15, SeverityMedium, "Viewport does not use width=device-width")
	}

	// Responsive images: 20 points when every image declares srcset or sizes
	imgTags := imgTagRe.FindAllString(markup, -1)
	if len(imgTags) == 0 {
		c.award(20, "No images without responsive attributes")
	} else {
		responsive := 0
		for _, tag := range imgTags {
			if strings.Contains(tag, "srcset") || strings.Contains(tag, "sizes") {
				responsive++
			}
		}
		coverage := float64(responsive) / float64(len(imgTags)) * 100
		switch {
		case responsive == len(imgTags):
			c.award(20, "All images declare responsive attributes (srcset/sizes)")
		case coverage >= 50:
			c.partial(12, SeverityLow, fmt.Sprintf("%d of %d images lack srcset/sizes attributes", len(imgTags)-responsive, len(imgTags)))
		default:
			c.partial(5, SeverityMedium, fmt.Sprintf("%d of %d images lack srcset/sizes attributes", len(imgTags)-responsive, len(imgTags)))
		}
	}

	// Touch friendliness: 20 points when zooming is not disabled
	zoomDisabled := strings.Contains(viewport, "user-scalable=no") ||
		strings.Contains(viewport, "user-scalable=0") ||
		strings.Contains(viewport, "maximum-scale=1")
	switch {
	case viewport == "":
		c.flag(SeverityMedium, "Touch friendliness cannot be verified without a viewport meta tag")
	case zoomDisabled:
		c.partial(5, SeverityMedium, "Viewport disables user zooming, which hurts touch usability")
	default:
		c.award(20, "User zooming is not disabled")
	}

	// Responsive CSS: 20 points when media queries are present
	if strings.Contains(markup, "@media") {
		c.award(20, "Responsive CSS media queries are present")
	} else {
		c.flag(SeverityMedium, "No CSS media queries detected, page may not adapt to small screens")
	}

	return c.result()
}
