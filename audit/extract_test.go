package audit

import "testing"

func TestExtractFullDocument(t *testing.T) {
	markup := `<!DOCTYPE html>
<html lang="en">
<head>
<title> Widget Catalog </title>
<meta name="description" content="All widgets, catalogued.">
<meta name="keywords" content="widgets, catalog , , gadgets">
</head>
<body>
<h1>Widget Catalog</h1>
<h2>Small Widgets</h2>
<h2>Large Widgets</h2>
<img src="/w1.png" alt="A small widget">
<img src="/w2.png">
<a href="/small">Small</a>
<a href="https://example.org/spec">Spec</a>
<p>Widgets come in many shapes and sizes.</p>
</body>
</html>`

	facts := NewExtractor().Extract(markup)

	if facts.Title != "Widget Catalog" {
		t.Errorf("Title = %q, want %q", facts.Title, "Widget Catalog")
	}
	if facts.Description != "All widgets, catalogued." {
		t.Errorf("Description = %q", facts.Description)
	}
	if len(facts.Keywords) != 3 {
		t.Fatalf("Keywords = %v, want 3 entries", facts.Keywords)
	}
	if facts.Keywords[0] != "widgets" || facts.Keywords[1] != "catalog" || facts.Keywords[2] != "gadgets" {
		t.Errorf("Keywords = %v", facts.Keywords)
	}
	if len(facts.Headings.H1) != 1 || facts.Headings.H1[0] != "Widget Catalog" {
		t.Errorf("H1 = %v", facts.Headings.H1)
	}
	if len(facts.Headings.H2) != 2 {
		t.Errorf("H2 = %v, want 2 entries", facts.Headings.H2)
	}
	if len(facts.Images) != 2 {
		t.Fatalf("Images = %v, want 2 entries", facts.Images)
	}
	if !facts.Images[0].HasAlt || facts.Images[0].Alt != "A small widget" {
		t.Errorf("first image = %+v, want alt text", facts.Images[0])
	}
	if facts.Images[1].HasAlt {
		t.Errorf("second image = %+v, want hasAlt=false", facts.Images[1])
	}
	if len(facts.Links) != 2 {
		t.Fatalf("Links = %v, want 2 entries", facts.Links)
	}
	if facts.Links[0].Href != "/small" || facts.Links[0].Text != "Small" {
		t.Errorf("first link = %+v", facts.Links[0])
	}
	if facts.WordCount == 0 {
		t.Error("WordCount = 0, want > 0")
	}
}

func TestExtractEmptyMarkup(t *testing.T) {
	facts := NewExtractor().Extract("")

	if facts.Title != "" || facts.Description != "" {
		t.Errorf("empty markup should yield empty title/description, got %q / %q", facts.Title, facts.Description)
	}
	if facts.Keywords == nil || facts.Images == nil || facts.Links == nil {
		t.Error("slices should default to empty, not nil")
	}
	if len(facts.Keywords)+len(facts.Images)+len(facts.Links) != 0 {
		t.Error("empty markup should yield no keywords, images or links")
	}
	if len(facts.Headings.H1)+len(facts.Headings.H2) != 0 {
		t.Error("empty markup should yield no headings")
	}
	if facts.WordCount != 0 {
		t.Errorf("WordCount = %d, want 0", facts.WordCount)
	}
}

func TestExtractPlainText(t *testing.T) {
	facts := NewExtractor().Extract("just some plain words without any markup")

	if facts.WordCount != 7 {
		t.Errorf("WordCount = %d, want 7", facts.WordCount)
	}
	if facts.Title != "" {
		t.Errorf("Title = %q, want empty", facts.Title)
	}
}
