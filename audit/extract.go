package audit

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractor turns raw markup into a ContentFacts sheet. It sits behind an
// interface so the goquery implementation can be swapped for a different
// parser without touching any analyzer.
type Extractor interface {
	Extract(markup string) *ContentFacts
}

// DocumentExtractor extracts page facts using goquery. It never fails:
// markup that cannot be parsed produces an empty fact sheet.
type DocumentExtractor struct{}

// NewExtractor creates a goquery-backed extractor.
func NewExtractor() *DocumentExtractor {
	return &DocumentExtractor{}
}

// Extract builds the fact sheet for a page. Missing fields default to
// empty strings, empty slices, or zero.
func (e *DocumentExtractor) Extract(markup string) *ContentFacts {
	facts := &ContentFacts{
		Keywords: make([]string, 0),
		Headings: Headings{
			H1: make([]string, 0),
			H2: make([]string, 0),
		},
		Images: make([]ImageFact, 0),
		Links:  make([]LinkFact, 0),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return facts
	}

	facts.Title = strings.TrimSpace(doc.Find("title").First().Text())

	if desc, ok := doc.Find("meta[name='description']").First().Attr("content"); ok {
		facts.Description = strings.TrimSpace(desc)
	}

	if kw, ok := doc.Find("meta[name='keywords']").First().Attr("content"); ok {
		for _, k := range strings.Split(kw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				facts.Keywords = append(facts.Keywords, k)
			}
		}
	}

	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		facts.Headings.H1 = append(facts.Headings.H1, strings.TrimSpace(s.Text()))
	})
	doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		facts.Headings.H2 = append(facts.Headings.H2, strings.TrimSpace(s.Text()))
	})

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, hasAlt := s.Attr("alt")
		facts.Images = append(facts.Images, ImageFact{
			Src:    src,
			Alt:    strings.TrimSpace(alt),
			HasAlt: hasAlt,
		})
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" {
			return
		}
		facts.Links = append(facts.Links, LinkFact{
			Href: strings.TrimSpace(href),
			Text: strings.TrimSpace(s.Text()),
		})
	})

	facts.WordCount = len(strings.Fields(doc.Text()))

	return facts
}
