package markov

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Generate extends initialText with characters sampled from the model.
//
// If initialText is shorter than the window length it is returned unchanged.
// Otherwise characters are appended while the output holds fewer than
// targetLength+WindowLength characters, so the result may exceed targetLength
// by up to one window. Generation stops early, without error, when the
// current window was never seen in training.
func (m *LanguageModel) Generate(ctx context.Context, initialText string, targetLength int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	window, ok := m.seedWindow(initialText)
	if !ok {
		return initialText
	}
	m.ensureFinalized(ctx)

	var sb strings.Builder
	sb.WriteString(initialText)
	length := utf8.RuneCountInString(initialText)
	limit := targetLength + m.windowLength

	for length < limit {
		c, found := m.next(window)
		if !found {
			m.logger.DebugContext(ctx, "Generation terminated due to unseen window",
				slog.String("window", string(window)),
				slog.Int("generated_length", length),
			)
			return sb.String()
		}
		sb.WriteRune(c)
		length++
		slide(window, c)
	}

	m.logger.DebugContext(ctx, "Generation terminated by reaching target length",
		slog.Int("target_length", targetLength),
		slog.Int("generated_length", length),
	)
	return sb.String()
}

// seedWindow returns the last WindowLength characters of text, or false if
// text is too short.
func (m *LanguageModel) seedWindow(text string) ([]rune, bool) {
	runes := []rune(text)
	if len(runes) < m.windowLength {
		return nil, false
	}
	window := make([]rune, m.windowLength)
	copy(window, runes[len(runes)-m.windowLength:])
	return window, true
}

// next draws the character following window. It reports false, without
// consuming a draw, if the window has no distribution.
func (m *LanguageModel) next(window []rune) (rune, bool) {
	d, ok := m.windows[string(window)]
	if !ok {
		return 0, false
	}
	return d.SampleCharacter(m.random.Float64()), true
}

// ensureFinalized finalizes the model if it was trained since the last
// Finalize. Errors are logged; affected windows keep stale probabilities.
func (m *LanguageModel) ensureFinalized(ctx context.Context) {
	if !m.dirty {
		return
	}
	if err := m.finalizeLocked(ctx); err != nil {
		m.logger.ErrorContext(ctx, "Failed to finalize model before generation", slog.Any("error", err))
	}
}

// slide shifts window left by one and appends c.
func slide(window []rune, c rune) {
	copy(window, window[1:])
	window[len(window)-1] = c
}
