package models

import "testing"

func TestValidASINLength(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"B07PXGQC1Q", true},
		{"  B07PXGQC1Q  ", true},
		{"b07-badchr", true}, // length-only: character set is not this check's job
		{"short", false},
		{"", false},
		{"B07PXGQC1Q1", false},
	}
	for _, tc := range cases {
		if got := ValidASINLength(tc.in); got != tc.want {
			t.Errorf("ValidASINLength(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseRefresh(t *testing.T) {
	truthy := []string{"true", "TRUE", "1", "yes", "Yes", "y", " y "}
	for _, v := range truthy {
		if !ParseRefresh(v) {
			t.Errorf("ParseRefresh(%q) = false, want true", v)
		}
	}

	falsy := []string{"", "false", "0", "no", "n", "refresh", "2"}
	for _, v := range falsy {
		if ParseRefresh(v) {
			t.Errorf("ParseRefresh(%q) = true, want false", v)
		}
	}
}
