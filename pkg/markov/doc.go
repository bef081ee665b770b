/*
Package markov provides a fixed-order, character-level Markov chain language
model.

A LanguageModel learns, from one or more training texts, how often each
character follows every window of N preceding characters. Once finalized, the
counts become per-window probability distributions that Generate walks with
uniform draws from a pluggable RandomSource, extending a seed text one
character at a time until the requested length is reached or an unseen window
is hit.

Models built with NewSeeded are fully deterministic: the same window length,
seed, training input and generation arguments always produce the same text.
*/
package markov
