package audit

import "testing"

func TestGrade(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "A+"},
		{90, "A+"},
		{89, "A"},
		{80, "A"},
		{79, "B"},
		{70, "B"},
		{69, "C"},
		{60, "C"},
		{59, "D"},
		{50, "D"},
		{49, "F"},
		{0, "F"},
	}

	for _, tc := range cases {
		if got := Grade(tc.score); got != tc.want {
			t.Errorf("Grade(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestClampScore(t *testing.T) {
	if clampScore(-5) != 0 {
		t.Error("negative scores should clamp to 0")
	}
	if clampScore(120) != 100 {
		t.Error("scores above 100 should clamp to 100")
	}
	if clampScore(55) != 55 {
		t.Error("in-range scores should pass through")
	}
}
