package normalization

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"roma tomatoes", []string{"roma", "tomatoes"}},
		{"Salt, Pepper", []string{"salt", "pepper"}},
		{"2 lb of it", []string{}},
		{"chicken,thigh", []string{"chicken", "thigh"}},
		{"  Heavy   Cream  ", []string{"heavy", "cream"}},
	}
	for _, tc := range cases {
		got := Tokenize(tc.in)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestScoreNames(t *testing.T) {
	if got := ScoreNames("roma tomatoes", "tomato"); got != 1 {
		t.Errorf("substring match score = %d, want 1", got)
	}
	if got := ScoreNames("roma tomatoes", "tomato paste"); got != 1 {
		t.Errorf("tomato paste score = %d, want 1", got)
	}
	if got := ScoreNames("tomato", "tomato"); got != 2 {
		t.Errorf("exact token score = %d, want 2", got)
	}
	if got := ScoreNames("chicken thigh", "chicken thigh fillet"); got != 4 {
		t.Errorf("two exact tokens score = %d, want 4", got)
	}
	if got := ScoreNames("an of to", "tomato"); got != 0 {
		t.Errorf("short tokens must be dropped, score = %d, want 0", got)
	}
}
