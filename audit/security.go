package audit

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	mixedContentRe = regexp.MustCompile(`(?:src=["']|<link[^>]*href=["'])http://`)
	blankTargetRe  = regexp.MustCompile(`<a[^>]*target=["']_blank["'][^>]*>`)
	httpFormRe     = regexp.MustCompile(`<form[^>]*action=["']http://`)
)

// analyzeSecurity scores transport security and safe markup patterns.
// Point budget: 40 + 20 + 10 + 10 + 10 = 90 scoreable plus a constant
// reminder credit, totalling 100.
func analyzeSecurity(markup string, facts *ContentFacts, pageURL string) ComponentScore {
	c := newChecklist()

	isHTTPS := strings.HasPrefix(pageURL, "https://")

	// HTTPS: 40 points
	if isHTTPS {
		c.award(40, "Page is served over HTTPS")
	} else {
		c.flag(SeverityCritical, "Page is not served over HTTPS")
	}

	// Mixed content: 20 points, only meaningful on an HTTPS page
	if isHTTPS {
		if mixedContentRe.MatchString(markup) {
			c.flag(SeverityHigh, "Mixed content: HTTPS page references resources over plain HTTP")
		} else {
			c.award(20, "No mixed-content resource references")
		}
	}

	// Security headers live on the server, not in the markup: constant
	// partial credit with a reminder (5 of the 10 budgeted points).
	c.partial(5, SeverityInfo, "Verify security headers (Content-Security-Policy, Strict-Transport-Security, X-Frame-Options) on the server")

	// External links opened in new tabs: 10 points when all carry rel=noopener
	blanks := blankTargetRe.FindAllString(markup, -1)
	if len(blanks) == 0 {
		c.award(10, "No target=\"_blank\" links without rel=\"noopener\"")
	} else {
		unsafe := 0
		for _, tag := range blanks {
			if !strings.Contains(tag, "noopener") {
				unsafe++
			}
		}
		if unsafe == 0 {
			c.award(10, "All target=\"_blank\" links carry rel=\"noopener\"")
		} else {
			c.partial(3, SeverityMedium, fmt.Sprintf("%d target=\"_blank\" links are missing rel=\"noopener\"", unsafe))
		}
	}

	// Form actions: 10 points when no form submits over plain HTTP
	if httpFormRe.MatchString(markup) {
		c.flag(SeverityHigh, "Form submits over plain HTTP")
	} else {
		c.award(10, "No forms submitting over plain HTTP")
	}

	return c.result()
}
