package markov

// ModelStats holds aggregated statistics for a LanguageModel.
type ModelStats struct {
	WindowLength      int  // The number of characters in each window
	Windows           int  // The number of distinct windows seen in training
	Transitions       int  // The number of distinct window->character links
	TotalObservations int  // The sum of all counts; the number of trained transitions
	Finalized         bool // Whether probabilities reflect the current counts
}

// Stats returns a snapshot of the model's statistics.
func (m *LanguageModel) Stats() ModelStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := ModelStats{
		WindowLength: m.windowLength,
		Windows:      len(m.windows),
		Finalized:    !m.dirty,
	}
	for _, d := range m.windows {
		stats.Transitions += d.Len()
		stats.TotalObservations += d.Total()
	}
	return stats
}
