package markov

import (
	"context"
	"log/slog"
	"unicode/utf8"
)

// GenerateStream behaves like Generate but delivers the output one character
// at a time: first the characters of initialText, then each generated one.
// The channel is closed once generation is complete or ctx is cancelled.
// The model stays locked until the channel is closed, so callers must drain
// it or cancel ctx.
func (m *LanguageModel) GenerateStream(ctx context.Context, initialText string, targetLength int) <-chan rune {
	out := make(chan rune)

	go func() {
		defer close(out)
		m.mu.Lock()
		defer m.mu.Unlock()

		for _, c := range initialText {
			select {
			case <-ctx.Done():
				return
			case out <- c:
			}
		}

		window, ok := m.seedWindow(initialText)
		if !ok {
			return
		}
		m.ensureFinalized(ctx)

		length := utf8.RuneCountInString(initialText)
		limit := targetLength + m.windowLength
		for length < limit {
			c, found := m.next(window)
			if !found {
				m.logger.DebugContext(ctx, "Generation stream terminated due to unseen window",
					slog.String("window", string(window)),
					slog.Int("generated_length", length),
				)
				return
			}
			select {
			case <-ctx.Done():
				m.logger.DebugContext(ctx, "Generation stream cancelled by context")
				return
			case out <- c:
			}
			length++
			slide(window, c)
		}
	}()

	return out
}
