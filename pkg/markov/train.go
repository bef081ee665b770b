package markov

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ctxCheckInterval is how many characters are consumed between context checks.
const ctxCheckInterval = 4096

// Train reads characters from r and adds them to the model's statistics.
// See TrainStream.
func (m *LanguageModel) Train(ctx context.Context, r io.Reader) error {
	return m.TrainStream(ctx, NewReaderStream(r))
}

// TrainFile trains the model on the contents of the file at path. The file is
// closed before TrainFile returns.
func (m *LanguageModel) TrainFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open corpus: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	if err = m.TrainStream(ctx, NewReaderStream(f)); err != nil {
		return fmt.Errorf("training on %s failed: %w", path, err)
	}
	return nil
}

// TrainStream consumes s, ignoring carriage returns. The first WindowLength
// characters form the initial window; every following character is counted
// against the current window, which then slides forward by one. A stream
// shorter than the window contributes nothing.
//
// Probabilities are not computed here so that several training calls can
// accumulate into the same distributions before Finalize. If s fails,
// observations made so far are kept and the wrapped error is returned.
func (m *LanguageModel) TrainStream(ctx context.Context, s CharStream) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	window := make([]rune, 0, m.windowLength)
	for len(window) < m.windowLength {
		c, err := s.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				m.logger.DebugContext(ctx, "Corpus shorter than window, nothing learned",
					slog.Int("window_length", m.windowLength),
					slog.Int("characters_read", len(window)),
				)
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}
		if c == '\r' {
			continue
		}
		window = append(window, c)
	}

	var observed int64
	var created int
	for {
		if observed%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		c, err := s.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("read error: %w", err)
		}
		if c == '\r' {
			continue
		}

		key := string(window)
		d, ok := m.windows[key]
		if !ok {
			d = &Distribution{}
			m.windows[key] = d
			created++
		}
		d.Observe(c)
		m.dirty = true
		observed++

		slide(window, c)
	}

	m.logger.InfoContext(ctx, "Training completed",
		slog.Int("window_length", m.windowLength),
		slog.Int64("characters_observed", observed),
		slog.Int("windows_created", created),
		slog.Int("windows_total", len(m.windows)),
	)
	return nil
}
