package tokenizer

import "testing"

func TestWordCounter(t *testing.T) {
	c := WordCounter{}

	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"aspirin", 1},
		{"Take aspirin daily.", 3},
		{"A B C.", 3},
		{"one\ttwo\nthree", 3},
	}

	for _, tc := range cases {
		if got := c.Count(tc.text); got != tc.want {
			t.Errorf("Count(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestWordCounterDeterministic(t *testing.T) {
	c := WordCounter{}
	text := "Take 2 tablets twice daily with food."
	first := c.Count(text)
	for i := 0; i < 10; i++ {
		if got := c.Count(text); got != first {
			t.Fatalf("Count not deterministic: got %d, want %d", got, first)
		}
	}
}
