package markov

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNewInvalidWindowLength(t *testing.T) {
	for _, n := range []int{0, -3} {
		if _, err := New(n); !errors.Is(err, ErrInvalidWindowLength) {
			t.Errorf("New(%d): expected ErrInvalidWindowLength, got %v", n, err)
		}
		if _, err := NewSeeded(n, 1); !errors.Is(err, ErrInvalidWindowLength) {
			t.Errorf("NewSeeded(%d): expected ErrInvalidWindowLength, got %v", n, err)
		}
	}
}

func TestNewWithSource(t *testing.T) {
	// A source that always draws the top of the range picks the last entry.
	m, err := NewWithSource(1, constSource(0.99))
	if err != nil {
		t.Fatalf("NewWithSource() failed: %v", err)
	}
	ctx := context.Background()
	if err := m.Train(ctx, strings.NewReader("abac")); err != nil {
		t.Fatalf("Train() failed: %v", err)
	}
	if got := m.Generate(ctx, "a", 1); got != "ac" {
		t.Errorf("expected %q, got %q", "ac", got)
	}

	m, _ = NewWithSource(1, constSource(0))
	_ = m.Train(ctx, strings.NewReader("abac"))
	if got := m.Generate(ctx, "a", 1); got != "ab" {
		t.Errorf("expected %q, got %q", "ab", got)
	}
}

func TestModelString(t *testing.T) {
	m := newTrainedModel(t, 1, 1, "abab")
	want := "\"a\" : (('b' 2 1 1))\n\"b\" : (('a' 1 1 1))\n"
	if got := m.String(); got != want {
		t.Errorf("String() got = %q, want %q", got, want)
	}
}

func TestDistributionReturnsCopy(t *testing.T) {
	m := newTrainedModel(t, 1, 1, "abab")
	entries, _ := m.Distribution("a")
	entries[0].Count = 100

	again, _ := m.Distribution("a")
	if again[0].Count != 2 {
		t.Errorf("expected internal state to be unaffected, got count %d", again[0].Count)
	}
}

type constSource float64

func (c constSource) Float64() float64 { return float64(c) }
