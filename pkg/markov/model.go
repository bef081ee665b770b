package markov

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// ErrInvalidWindowLength is returned by the constructors for a window length
// smaller than one.
var ErrInvalidWindowLength = errors.New("markov: window length must be positive")

// LanguageModel maps every window of WindowLength characters seen during
// training to the Distribution of characters that followed it.
//
// A model may be trained any number of times; each call extends the same
// statistics. All methods are safe for concurrent use, though training and
// generation are serialized.
type LanguageModel struct {
	mu           sync.Mutex
	windowLength int
	windows      map[string]*Distribution
	random       RandomSource
	// dirty is set when observations changed since the last Finalize.
	dirty  bool
	logger *slog.Logger
}

// New creates a model whose generation draws from the process-wide entropy
// source. Output differs from run to run.
func New(windowLength int) (*LanguageModel, error) {
	return NewWithSource(windowLength, NewEntropySource())
}

// NewSeeded creates a model whose generation is reproducible for a given seed.
func NewSeeded(windowLength int, seed int64) (*LanguageModel, error) {
	return NewWithSource(windowLength, NewSeededSource(seed))
}

// NewWithSource creates a model that draws from src.
func NewWithSource(windowLength int, src RandomSource) (*LanguageModel, error) {
	if windowLength < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindowLength, windowLength)
	}
	if src == nil {
		src = NewEntropySource()
	}
	return &LanguageModel{
		windowLength: windowLength,
		windows:      make(map[string]*Distribution),
		random:       src,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// SetLogger sets the logger for the model. By default, all logs are discarded.
func (m *LanguageModel) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.mu.Lock()
		m.logger = logger
		m.mu.Unlock()
	}
}

// WindowLength returns the number of characters in each window.
func (m *LanguageModel) WindowLength() int {
	return m.windowLength
}

// Distribution returns a copy of the entries learned for window, in the order
// their characters were first observed.
func (m *LanguageModel) Distribution(window string) ([]CharFrequency, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.windows[window]
	if !ok {
		return nil, false
	}
	return d.Entries(), true
}

// Finalize converts the counts of every window into probabilities. It is
// safe to call repeatedly; training after a Finalize requires another one,
// which Generate performs on its own if needed.
func (m *LanguageModel) Finalize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finalizeLocked(ctx)
}

func (m *LanguageModel) finalizeLocked(ctx context.Context) error {
	for window, d := range m.windows {
		if err := d.Finalize(); err != nil {
			return fmt.Errorf("finalize window %q: %w", window, err)
		}
	}
	m.dirty = false
	m.logger.InfoContext(ctx, "Model finalized",
		slog.Int("window_length", m.windowLength),
		slog.Int("windows", len(m.windows)),
	)
	return nil
}

// String returns one line per window, sorted by window, in the form
// "window : ((c count p cp) ...)".
func (m *LanguageModel) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.windows))
	for k := range m.windows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%q : %s\n", k, m.windows[k])
	}
	return sb.String()
}
