package markov

import (
	"context"
	"log/slog"
)

// Prune removes every window->character link observed minCount times or
// fewer. This is useful for dropping rare, and often noisy, transitions.
// Windows left without any link are removed entirely. The model must be
// finalized again afterwards; Generate does so automatically.
func (m *LanguageModel) Prune(ctx context.Context, minCount int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var linksRemoved, windowsRemoved int
	for window, d := range m.windows {
		n := d.prune(minCount)
		if n == 0 {
			continue
		}
		linksRemoved += n
		m.dirty = true
		if d.Len() == 0 {
			delete(m.windows, window)
			windowsRemoved++
		}
	}

	m.logger.InfoContext(ctx, "Model pruned",
		slog.Int("min_count", minCount),
		slog.Int("links_removed", linksRemoved),
		slog.Int("windows_removed", windowsRemoved),
	)
}
