package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/filmquery/config"
	"github.com/s0up4200/filmquery/film"
	"github.com/s0up4200/filmquery/filter"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	source  film.Source
	engine  *filter.Engine
	presets *filter.Manager
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "filmquery",
	Short: "Query a catalog of Oscar-nominated films",
	Long: `filmquery filters, sorts and limits a catalog of Oscar-nominated films
read from a content store export. Queries run from the command line or
through the HTTP listing endpoint.`,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
	SilenceUsage:       true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads the configuration and wires the query engine
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging, os.Stderr)

	source = film.FileSource{Path: cfg.Data.Path, Container: cfg.Data.Container}
	engine = newEngine(cfg.Query, logger)
	presets = filter.NewManager(engine)

	if err := presets.RegisterPresets(presetSpecs(cfg.Presets)); err != nil {
		return fmt.Errorf("failed to register presets: %w", err)
	}

	logger.Debug().
		Str("path", cfg.Data.Path).
		Str("container", cfg.Data.Container).
		Int("presets", len(cfg.Presets)).
		Msg("Initialized")

	return nil
}

func shutdownApp(cmd *cobra.Command, args []string) error {
	if engine == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return engine.Close(ctx)
}

func newEngine(cfg config.QueryConfig, logger zerolog.Logger) *filter.Engine {
	evaluator := filter.NewConcurrentEvaluator(
		filter.WithWorkers(cfg.Workers),
		filter.WithBatchSize(cfg.BatchSize),
	)

	return filter.NewEngine(
		filter.WithEvaluator(evaluator),
		filter.WithLogger(logger.With().Str("component", "engine").Logger()),
	)
}

func presetSpecs(presets map[string]config.PresetConfig) map[string]filter.PresetSpec {
	specs := make(map[string]filter.PresetSpec, len(presets))
	for name, p := range presets {
		specs[name] = filter.PresetSpec{Params: p.Params, Where: p.Where}
	}
	return specs
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out *os.File) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}

	return zerolog.New(consoleWriter(out, cfg.Color && isTerminal(out))).With().Timestamp().Logger()
}

func consoleWriter(out io.Writer, color bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
