package utils

import "testing"

func TestStringToInt(t *testing.T) {
	cases := map[string]int{
		"12":  12,
		"-3":  -3,
		"":    0,
		"abc": 0,
		"1.5": 0,
	}
	for in, want := range cases {
		if got := StringToInt(in); got != want {
			t.Errorf("StringToInt(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParsePage(t *testing.T) {
	cases := map[string]int{
		"3":  3,
		"1":  1,
		"0":  1,
		"-2": 1,
		"":   1,
		"x":  1,
	}
	for in, want := range cases {
		if got := ParsePage(in); got != want {
			t.Errorf("ParsePage(%q) = %d, want %d", in, got, want)
		}
	}
}
