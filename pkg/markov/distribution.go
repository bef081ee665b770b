package markov

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrEmptyDistribution is returned when a Distribution with no observations
// is finalized. Probabilities cannot be derived from a zero total.
var ErrEmptyDistribution = errors.New("markov: distribution has no observations")

// CharFrequency is a single character observed after a window, together with
// its occurrence count and the probabilities derived from it by Finalize.
type CharFrequency struct {
	Char                  rune
	Count                 int
	Probability           float64
	CumulativeProbability float64
}

// String renders the entry as "(c count p cp)".
func (cf CharFrequency) String() string {
	return fmt.Sprintf("(%q %d %g %g)", cf.Char, cf.Count, cf.Probability, cf.CumulativeProbability)
}

// Distribution is the ordered table of characters seen after one window.
// Entries keep the order in which their character was first observed, and a
// character never appears twice.
type Distribution struct {
	entries []CharFrequency
}

// Observe records one occurrence of c. Per-window alphabets are small, so the
// lookup is a linear scan.
func (d *Distribution) Observe(c rune) {
	for i := range d.entries {
		if d.entries[i].Char == c {
			d.entries[i].Count++
			return
		}
	}
	d.entries = append(d.entries, CharFrequency{Char: c, Count: 1})
}

// Total returns the sum of all entry counts.
func (d *Distribution) Total() int {
	total := 0
	for _, e := range d.entries {
		total += e.Count
	}
	return total
}

// Len returns the number of distinct characters in the distribution.
func (d *Distribution) Len() int {
	return len(d.entries)
}

// Entries returns a copy of the entries in insertion order.
func (d *Distribution) Entries() []CharFrequency {
	out := make([]CharFrequency, len(d.entries))
	copy(out, d.entries)
	return out
}

// Finalize computes Probability and CumulativeProbability for every entry.
// The last entry's cumulative probability is set to exactly 1.0 so that any
// draw in [0, 1) selects some entry. Calling Finalize again recomputes the
// same values.
func (d *Distribution) Finalize() error {
	total := d.Total()
	if total == 0 {
		return ErrEmptyDistribution
	}

	last := len(d.entries) - 1
	running := 0.0
	for i := range d.entries {
		e := &d.entries[i]
		e.Probability = float64(e.Count) / float64(total)
		running += e.Probability
		if i == last {
			e.CumulativeProbability = 1.0
		} else {
			e.CumulativeProbability = running
		}
	}
	return nil
}

// SampleCharacter maps a draw in [0, 1) to the first entry whose cumulative
// probability is strictly greater than the draw. If no entry matches, the
// last entry's character is returned. An empty distribution yields
// utf8.RuneError.
func (d *Distribution) SampleCharacter(draw float64) rune {
	if len(d.entries) == 0 {
		return utf8.RuneError
	}
	for _, e := range d.entries {
		if e.CumulativeProbability > draw {
			return e.Char
		}
	}
	return d.entries[len(d.entries)-1].Char
}

// prune drops every entry with a count less than or equal to minCount and
// returns how many were removed. Probabilities of the remaining entries are
// stale until the next Finalize.
func (d *Distribution) prune(minCount int) int {
	kept := d.entries[:0]
	for _, e := range d.entries {
		if e.Count > minCount {
			kept = append(kept, e)
		}
	}
	removed := len(d.entries) - len(kept)
	d.entries = kept
	return removed
}

// String renders the distribution as "((c count p cp) ...)".
func (d *Distribution) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, e := range d.entries {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
