package markov

import (
	"errors"
	"math"
	"testing"
	"unicode/utf8"
)

func distributionOf(chars string) *Distribution {
	d := &Distribution{}
	for _, c := range chars {
		d.Observe(c)
	}
	return d
}

func TestDistributionObserve(t *testing.T) {
	d := distributionOf("babcab")

	entries := d.Entries()
	want := []struct {
		char  rune
		count int
	}{{'b', 3}, {'a', 2}, {'c', 1}}

	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d: %v", len(want), len(entries), entries)
	}
	for i, w := range want {
		if entries[i].Char != w.char || entries[i].Count != w.count {
			t.Errorf("entry %d: expected %q x%d, got %q x%d", i, w.char, w.count, entries[i].Char, entries[i].Count)
		}
	}
	if d.Total() != 6 {
		t.Errorf("expected total of 6, got %d", d.Total())
	}
}

func TestDistributionFinalize(t *testing.T) {
	testCases := []struct {
		name  string
		chars string
	}{
		{name: "Single entry", chars: "x"},
		{name: "Uneven counts", chars: "aaabbc"},
		{name: "Thirds", chars: "abc"},
		{name: "Many sevenths", chars: "abcdefgabcdefgabcdefg"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := distributionOf(tc.chars)
			if err := d.Finalize(); err != nil {
				t.Fatalf("Finalize() failed: %v", err)
			}
			entries := d.Entries()

			sum := 0.0
			prev := 0.0
			for i, e := range entries {
				sum += e.Probability
				if e.CumulativeProbability < prev {
					t.Errorf("cumulative probability decreased at entry %d: %v < %v", i, e.CumulativeProbability, prev)
				}
				prev = e.CumulativeProbability
			}
			if math.Abs(sum-1.0) > 1e-9 {
				t.Errorf("expected probabilities to sum to 1, got %v", sum)
			}
			if last := entries[len(entries)-1].CumulativeProbability; last != 1.0 {
				t.Errorf("expected last cumulative probability to be exactly 1.0, got %v", last)
			}
		})
	}
}

func TestDistributionFinalizeValues(t *testing.T) {
	d := distributionOf("aaab")
	if err := d.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	entries := d.Entries()
	if entries[0].Probability != 0.75 || entries[0].CumulativeProbability != 0.75 {
		t.Errorf("unexpected first entry: %v", entries[0])
	}
	if entries[1].Probability != 0.25 || entries[1].CumulativeProbability != 1.0 {
		t.Errorf("unexpected second entry: %v", entries[1])
	}

	// A second pass must leave everything unchanged.
	if err := d.Finalize(); err != nil {
		t.Fatalf("second Finalize() failed: %v", err)
	}
	again := d.Entries()
	for i := range entries {
		if entries[i] != again[i] {
			t.Errorf("entry %d changed after second Finalize: %v -> %v", i, entries[i], again[i])
		}
	}
}

func TestDistributionFinalizeEmpty(t *testing.T) {
	d := &Distribution{}
	err := d.Finalize()
	if !errors.Is(err, ErrEmptyDistribution) {
		t.Errorf("expected ErrEmptyDistribution, got %v", err)
	}
}

func TestSampleCharacter(t *testing.T) {
	d := distributionOf("aabcccc") // a=2/7, b=1/7, c=4/7
	if err := d.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	entries := d.Entries()

	// Every draw in [cp[i-1], cp[i]) selects entry i.
	lower := 0.0
	for _, e := range entries {
		for _, draw := range []float64{lower, (lower + e.CumulativeProbability) / 2, math.Nextafter(e.CumulativeProbability, 0)} {
			if got := d.SampleCharacter(draw); got != e.Char {
				t.Errorf("SampleCharacter(%v) = %q, want %q", draw, got, e.Char)
			}
		}
		lower = e.CumulativeProbability
	}

	testCases := []struct {
		name string
		draw float64
		want rune
	}{
		{name: "Zero draw", draw: 0, want: 'a'},
		{name: "Largest draw below one", draw: math.Nextafter(1, 0), want: 'c'},
		{name: "Out of range draw falls back to last", draw: 1.5, want: 'c'},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.SampleCharacter(tc.draw); got != tc.want {
				t.Errorf("SampleCharacter(%v) = %q, want %q", tc.draw, got, tc.want)
			}
		})
	}
}

func TestSampleCharacterEmpty(t *testing.T) {
	d := &Distribution{}
	if got := d.SampleCharacter(0.5); got != utf8.RuneError {
		t.Errorf("expected RuneError from an empty distribution, got %q", got)
	}
}

func TestDistributionString(t *testing.T) {
	d := distributionOf("bba")
	_ = d.Finalize()
	got := d.String()
	want := "(('b' 2 0.6666666666666666 0.6666666666666666) ('a' 1 0.3333333333333333 1))"
	if got != want {
		t.Errorf("String() got = %q, want %q", got, want)
	}
}
