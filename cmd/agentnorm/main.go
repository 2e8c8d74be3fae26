// Package main provides the agentnorm CLI, which turns the captured output of
// a coding-agent run into one normalized result record.
package main

import (
	// Import both provider packages to trigger init() registration
	_ "agentnorm/internal/claude"
	_ "agentnorm/internal/codex"
	"agentnorm/internal/config"
	"agentnorm/internal/format"
	"agentnorm/internal/logger"
	"agentnorm/internal/model"
	"agentnorm/internal/store"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var version = "dev"

// cli carries state shared by every sub-command. It is filled in by the root
// command's PersistentPreRunE.
type cli struct {
	configPath string
	provider   string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	app := &cli{log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "agentnorm",
		Short:         "Normalize coding-agent run output into a single result record",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&app.configPath, "config", "", "path to a YAML config file (default: ./agentnorm.yaml or $HOME/.agentnorm/agentnorm.yaml)")
	flags.StringVar(&app.provider, "provider", "", "provider whose output is read: 'codex' or 'claude' (env: AGENTNORM_PROVIDER, default: codex)")
	flags.StringVar(&app.logLevel, "log-level", "", "diagnostic log level written to stderr (env: AGENTNORM_LOG_LEVEL, default: warn)")
	flags.StringVar(&app.logFormat, "log-format", "", "diagnostic log format: auto, console, or json")

	cmd.AddCommand(newNormalizeCmd(app))
	cmd.AddCommand(newBatchCmd(app))
	cmd.AddCommand(newProvidersCmd(app))

	return cmd
}

// setup loads configuration, applies explicit flags on top, and builds the
// stderr logger.
func (a *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = strings.ToLower(strings.TrimSpace(a.provider))
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	a.cfg = cfg
	a.log = logger.New(cfg.Log, cmd.ErrOrStderr())
	return nil
}

func (a *cli) normalizer() (model.Normalizer, error) {
	n, err := model.NewNormalizer(a.cfg.Provider, logger.For(a.log, a.cfg.Provider))
	if err != nil {
		return nil, fmt.Errorf("create normalizer: %w", err)
	}
	return n, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "agentnorm: %v\n", err)
		os.Exit(1)
	}
}

func newNormalizeCmd(app *cli) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Normalize one captured run read from a file or stdin",
		Long: "Reads the complete event stream of one agent run and writes the normalized\n" +
			"result record to stdout. Blank and malformed lines are skipped. With no file\n" +
			"argument, or with '-', the stream is read from stdin.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.normalizer()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("format") {
				formatFlag = app.cfg.Format
			}

			var result model.NormalizedResult
			if len(args) == 0 || args[0] == "-" {
				result, err = n.Normalize(cmd.InOrStdin())
			} else {
				result, err = store.NormalizeFile(n, args[0])
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			width := 0
			if strings.EqualFold(formatFlag, format.FormatTable) {
				width = format.TerminalWidth(out)
			}
			return format.WriteResult(out, result, formatFlag, width)
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "json", "output format: json (or jsonl), table, or plain")

	return cmd
}

func newBatchCmd(app *cli) *cobra.Command {
	var (
		formatFlag   string
		noHeader     bool
		summaryWidth int
		patterns     []string
		sessionID    string
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Normalize every captured run file under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.normalizer()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if !flags.Changed("format") {
				formatFlag = app.cfg.Format
			}
			if !flags.Changed("pattern") {
				patterns = app.cfg.Batch.Patterns
			}
			if !flags.Changed("summary-width") {
				summaryWidth = app.cfg.Batch.SummaryWidth
			}

			result, err := store.ListRuns(store.ListOptions{
				Root:       args[0],
				Patterns:   patterns,
				SessionID:  sessionID,
				Limit:      limit,
				Normalizer: n,
			})
			if err != nil {
				return err
			}

			for _, warn := range result.Warnings {
				app.log.Warn().Err(warn).Msg("skipped run file")
			}
			app.log.Debug().Int("runs", len(result.Runs)).Str("root", args[0]).Msg("batch complete")

			return format.WriteRuns(cmd.OutOrStdout(), result.Runs, !noHeader, formatFlag, summaryWidth)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&formatFlag, "format", "jsonl", "output format: jsonl, table, or plain")
	flags.BoolVar(&noHeader, "no-header", false, "omit header row for table and plain output")
	flags.IntVar(&summaryWidth, "summary-width", 60, "maximum display width of the result column")
	flags.StringSliceVar(&patterns, "pattern", []string{store.DefaultPattern}, "globs matched against file base names (repeatable or comma-separated)")
	flags.StringVar(&sessionID, "session", "", "only include runs with this session id")
	flags.IntVar(&limit, "limit", 0, "limit number of runs returned (0 means no limit)")

	return cmd
}

func newProvidersCmd(app *cli) *cobra.Command {
	var showConfig bool

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List registered providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if showConfig {
				return app.cfg.Write(out)
			}
			return writeProviders(out, model.Providers(), app.cfg.Provider)
		},
	}

	cmd.Flags().BoolVar(&showConfig, "show-config", false, "print the effective configuration as YAML")

	return cmd
}

// writeProviders prints one provider per line, marking the active one.
func writeProviders(w io.Writer, names []string, active string) error {
	lines := lo.Map(names, func(name string, _ int) string {
		if name == active {
			return "* " + name
		}
		return "  " + name
	})
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}
