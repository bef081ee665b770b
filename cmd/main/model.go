package main

import (
	"context"
	"log/slog"

	"github.com/CTAG07/charmarkov/pkg/markov"
)

// buildModel creates a model from cfg, trains it on every configured corpus
// followed by extra, and finalizes it.
func buildModel(ctx context.Context, cfg *ModelConfig, extra []string, logger *slog.Logger) (*markov.LanguageModel, error) {
	var (
		model *markov.LanguageModel
		err   error
	)
	if cfg.Seed != nil {
		model, err = markov.NewSeeded(cfg.WindowLength, *cfg.Seed)
	} else {
		model, err = markov.New(cfg.WindowLength)
	}
	if err != nil {
		return nil, err
	}
	model.SetLogger(logger)

	corpora := make([]string, 0, len(cfg.Corpora)+len(extra))
	corpora = append(corpora, cfg.Corpora...)
	corpora = append(corpora, extra...)

	for _, path := range corpora {
		logger.Debug("Training on corpus", "path", path)
		if err = model.TrainFile(ctx, path); err != nil {
			return nil, err
		}
	}
	if err = model.Finalize(ctx); err != nil {
		return nil, err
	}
	return model, nil
}
