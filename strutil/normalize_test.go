package strutil

import "testing"

func TestNormalizeLower(t *testing.T) {
	cases := map[string]string{
		"  TView ": "tview",
		"ANSI":     "ansi",
		"":         "",
	}
	for in, want := range cases {
		if got := NormalizeLower(in); got != want {
			t.Fatalf("NormalizeLower(%q) = %q, want %q", in, got, want)
		}
	}
}
