package metagen

import (
	"reflect"
	"testing"
)

func TestScoreTitle(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		keywords []string
		want     int
	}{
		{
			// 56 chars, 2 keyword hits, digit, power word: every bucket maxed.
			name:     "ideal title",
			text:     "7 Best Go Tools and Go Workflows for Faster Daily Builds",
			keywords: []string{"go"},
			want:     100,
		},
		{
			// 54 chars (40), 1 hit (25), power word "guide" (10).
			name:     "good title",
			text:     "Practical Guide to Shipping Fast Reliable Web Services",
			keywords: []string{"shipping"},
			want:     75,
		},
		{
			// Far too short (10), no hits (5), no signals.
			name:     "weak title",
			text:     "Buy",
			keywords: nil,
			want:     15,
		},
	}

	for _, tc := range cases {
		if got := scoreTitle(tc.text, tc.keywords); got != tc.want {
			t.Errorf("%s: scoreTitle(%q) = %d, want %d", tc.name, tc.text, got, tc.want)
		}
	}
}

func TestScoreDescription(t *testing.T) {
	// Too short (10), saturated density (15), CTA "learn" (20).
	got := scoreDescription("Learn about cache design.", []string{"cache"})
	if got != 45 {
		t.Errorf("scoreDescription = %d, want 45", got)
	}

	// Out-of-window length (10), no hits (5), no CTA, no benefit wording.
	if got := scoreDescription("Nothing remarkable here.", nil); got != 15 {
		t.Errorf("bare description = %d, want 15", got)
	}
}

func TestCountKeywordHits(t *testing.T) {
	hits := countKeywordHits("Go tooling for Go developers", []string{"go", " tooling "})
	if hits != 3 {
		t.Errorf("hits = %d, want 3", hits)
	}

	if countKeywordHits("anything", nil) != 0 {
		t.Error("nil keywords should yield 0 hits")
	}
}

func TestDeriveKeywords(t *testing.T) {
	content := "gophers gophers gophers build fast pipelines pipelines"
	got := deriveKeywords(content)
	want := []string{"gophers", "pipelines", "build", "fast"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("deriveKeywords = %v, want %v", got, want)
	}

	if kws := deriveKeywords(""); len(kws) != 0 {
		t.Errorf("empty content should yield no keywords, got %v", kws)
	}

	// Short tokens and stop words are excluded.
	if kws := deriveKeywords("the and with from this that"); len(kws) != 0 {
		t.Errorf("stop words should be excluded, got %v", kws)
	}
}
