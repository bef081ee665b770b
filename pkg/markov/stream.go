package markov

import (
	"bufio"
	"io"
)

// CharStream is a sequential source of characters. Next returns io.EOF once
// the stream is exhausted; any other error is a read failure.
type CharStream interface {
	Next() (rune, error)
}

// ReaderStream decodes UTF-8 characters from an io.Reader.
type ReaderStream struct {
	r *bufio.Reader
}

// NewReaderStream wraps r in a buffered CharStream.
func NewReaderStream(r io.Reader) *ReaderStream {
	return &ReaderStream{r: bufio.NewReader(r)}
}

// Next returns the next character, or io.EOF when r is exhausted.
func (s *ReaderStream) Next() (rune, error) {
	c, _, err := s.r.ReadRune()
	if err != nil {
		return 0, err
	}
	return c, nil
}
