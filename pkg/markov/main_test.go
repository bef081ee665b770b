package markov

import (
	"context"
	"go/build"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// newTrainedModel creates a seeded model, trains it on each corpus in turn and
// finalizes it.
func newTrainedModel(t *testing.T, windowLength int, seed int64, corpora ...string) *LanguageModel {
	t.Helper()
	m, err := NewSeeded(windowLength, seed)
	if err != nil {
		t.Fatalf("NewSeeded() error = %v", err)
	}
	ctx := context.Background()
	for _, corpus := range corpora {
		if err := m.Train(ctx, strings.NewReader(corpus)); err != nil {
			t.Fatalf("setup: Train() failed: %v", err)
		}
	}
	if err := m.Finalize(ctx); err != nil {
		t.Fatalf("setup: Finalize() failed: %v", err)
	}
	return m
}

// cyclicCorpus repeats a sentence so that every window has a successor.
func cyclicCorpus() string {
	return strings.Repeat("the quick brown fox jumps over the lazy dog. ", 20)
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = "this is a fallback corpus for benchmarking. it is not very long but will prevent a crash. "
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
