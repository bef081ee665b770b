package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "./config.json"

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	configPath   string
	windowLength int
	seed         int64
	logLevel     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:          "charmarkov",
		Short:        "Character-level Markov chain text generator",
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", defaultConfigPath, "path to a .json or .toml config file")
	flags.IntVar(&opts.windowLength, "window", 0, "window length (overrides config)")
	flags.Int64Var(&opts.seed, "seed", 0, "random seed for reproducible output (overrides config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(newGenerateCmd(opts))
	rootCmd.AddCommand(newDumpCmd(opts))
	rootCmd.AddCommand(newStatsCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newHistoryCmd(opts))
	return rootCmd
}

// loadCommandConfig loads the config file and applies explicitly set root
// flags on top of it.
func loadCommandConfig(cmd *cobra.Command, opts *rootOptions) (*Config, *slog.Logger, error) {
	config, err := LoadConfig(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("window") {
		config.Model.WindowLength = opts.windowLength
	}
	if flags.Changed("seed") {
		seed := opts.seed
		config.Model.Seed = &seed
	}
	if flags.Changed("log-level") {
		config.Server.LogLevel = opts.logLevel
	}
	if err = config.Validate(); err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: parseLogLevel(config.Server.LogLevel)}))
	return config, logger, nil
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		text    string
		length  int
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "generate [corpus...]",
		Short: "Train on the corpora and generate text",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := loadCommandConfig(cmd, opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("text") {
				config.Generate.InitialText = text
			}
			if cmd.Flags().Changed("length") {
				if length < 0 {
					return fmt.Errorf("length must not be negative, got %d", length)
				}
				config.Generate.Length = length
			}

			ctx := cmd.Context()
			model, err := buildModel(ctx, config.Model, args, logger)
			if err != nil {
				return err
			}
			output := model.Generate(ctx, config.Generate.InitialText, config.Generate.Length)

			if config.Server.HistoryDatabasePath != "" {
				recordGeneration(ctx, config, output, logger)
			}

			if outPath != "" {
				if err = atomic.WriteFile(outPath, strings.NewReader(output)); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				logger.Info("Generated text written", "path", outPath, "characters", utf8.RuneCountInString(output))
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
			return err
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "initial text to continue (overrides config)")
	cmd.Flags().IntVar(&length, "length", 0, "target length of the output (overrides config)")
	cmd.Flags().StringVar(&outPath, "out", "", "write the output to this file instead of stdout")
	return cmd
}

// recordGeneration stores a generation in the history database. Failures are
// logged and otherwise ignored.
func recordGeneration(ctx context.Context, config *Config, output string, logger *slog.Logger) {
	history, err := OpenHistory(config.Server.HistoryDatabasePath)
	if err != nil {
		logger.Warn("Failed to open history database", "error", err)
		return
	}
	defer func() {
		_ = history.Close()
	}()

	rec, err := history.Record(ctx, GenerationRecord{
		WindowLength: config.Model.WindowLength,
		Seed:         config.Model.Seed,
		InitialText:  config.Generate.InitialText,
		TargetLength: config.Generate.Length,
		Output:       output,
	})
	if err != nil {
		logger.Warn("Failed to record generation", "error", err)
		return
	}
	logger.Debug("Generation recorded", "run_id", rec.ID)
}

func newDumpCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump [corpus...]",
		Short: "Train on the corpora and print every window's distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := loadCommandConfig(cmd, opts)
			if err != nil {
				return err
			}
			model, err := buildModel(cmd.Context(), config.Model, args, logger)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), model.String())
			return err
		},
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [corpus...]",
		Short: "Train on the corpora and print model statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := loadCommandConfig(cmd, opts)
			if err != nil {
				return err
			}
			model, err := buildModel(cmd.Context(), config.Model, args, logger)
			if err != nil {
				return err
			}
			stats := model.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "window length:      %d\n", stats.WindowLength)
			fmt.Fprintf(out, "windows:            %d\n", stats.Windows)
			fmt.Fprintf(out, "transitions:        %d\n", stats.Transitions)
			fmt.Fprintf(out, "total observations: %d\n", stats.TotalObservations)
			return nil
		},
	}
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Train on the configured corpora and serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, logger, err := loadCommandConfig(cmd, opts)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), config, logger)
		},
	}
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent generations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, _, err := loadCommandConfig(cmd, opts)
			if err != nil {
				return err
			}
			if config.Server.HistoryDatabasePath == "" {
				return fmt.Errorf("history is disabled: history_database_path is empty")
			}
			history, err := OpenHistory(config.Server.HistoryDatabasePath)
			if err != nil {
				return err
			}
			defer func() {
				_ = history.Close()
			}()

			records, err := history.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, rec := range records {
				seed := "-"
				if rec.Seed != nil {
					seed = fmt.Sprint(*rec.Seed)
				}
				fmt.Fprintf(out, "%s  %s  window=%d seed=%s length=%d  %q\n",
					rec.ID, rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.WindowLength, seed, rec.TargetLength, truncate(rec.Output, 60))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of records to list")
	return cmd
}

// truncate shortens s to at most n characters, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
