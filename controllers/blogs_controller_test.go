package controllers

import "testing"

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Feeding 1,000 Families!  ", "feeding-1-000-families"},
		{"Back-to-School Drive 2026", "back-to-school-drive-2026"},
		{"---", ""},
		{"UPPER case Title", "upper-case-title"},
	}

	for _, tc := range cases {
		if got := GenerateSlug(tc.title); got != tc.want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}
