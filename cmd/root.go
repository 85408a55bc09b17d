package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	celfilter "github.com/oakwood-commons/streamview/internal/cel"
	"github.com/oakwood-commons/streamview/internal/config"
	"github.com/oakwood-commons/streamview/internal/formatter"
	"github.com/oakwood-commons/streamview/internal/limiter"
	"github.com/oakwood-commons/streamview/pkg/display"
	"github.com/oakwood-commons/streamview/pkg/logger"
	"github.com/oakwood-commons/streamview/pkg/settings"
)

// errShowHelp is returned by openInput when there is nothing to read.
var errShowHelp = errors.New("no input provided")

var (
	output            string
	maxWidth          int
	borderName        string
	noColor           bool
	allowUnknownTypes bool
	filterExpr        string
	limitRecords      int
	offsetRecords     int
	tailRecords       int
	keepGoing         bool
	configFile        string
	debug             bool
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName + " [file]",
	Short: "Render Reddit submissions and comments as terminal tables",
	Long: `streamview reads a stream of Reddit submission and comment records
(NDJSON, JSON, YAML or TOML) from a file or stdin and prints each record as a
two-column table of its display fields. Comments also show the title, score,
url and a few other fields of their parent submission.`,
	Example: "\n  streamview posts.ndjson\n  tail -f stream.ndjson | streamview --border rounded\n  streamview posts.ndjson -f '_.type == \"comment\" && _.score > 10' --limit 5\n  streamview posts.ndjson -o yaml\n",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		run := settings.NewCliParams()
		// debug maps to zap.DebugLevel (-1), otherwise zap.InfoLevel (0)
		if debug {
			run.MinLogLevel = -1
		}
		lgr := logger.Get(run.MinLogLevel)
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
		cmd.SetContext(settings.IntoContext(logger.WithLogger(cmd.Context(), lgr), run))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		limitCfg := limiter.Config{
			Limit:  limitRecords,
			Offset: offsetRecords,
			Tail:   tailRecords,
		}
		if err := limitCfg.Validate(); err != nil {
			return usageErrorf("record limiting error: %w", err)
		}

		cfg, err := loadEffectiveConfig(cmd)
		if err != nil {
			return usageErrorf("config: %w", err)
		}

		filter, err := celfilter.NewFilter(filterExpr)
		if err != nil {
			return usageErrorf("%w", err)
		}

		in, inputSettings, err := openInput(args)
		if errors.Is(err, errShowHelp) {
			return cmd.Help()
		}
		if err != nil {
			return err
		}
		defer func() { _ = in.Close() }()

		run, ok := settings.FromContext(cmd.Context())
		if !ok {
			run = settings.NewCliParams()
		}
		run.Input = inputSettings
		run.NoColor = resolveNoColor(cfg)
		run.ExitOnError = !keepGoing

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = settings.IntoContext(ctx, run)

		lgr := logger.FromContext(ctx)
		source := run.Input.Path
		if run.Input.FromStdin {
			source = "stdin"
		}
		lgr.V(1).Info("reading records", logger.InputKey, source, logger.OutputKey, cfg.Display.Format().String(), "logLevel", run.MinLogLevel)
		if filter != nil {
			lgr.V(1).Info("filtering records", "filter", filter.String())
		}
		if limitCfg.IsActive() {
			lgr.V(1).Info("record window", "limit", limitCfg.Limit, "offset", limitCfg.Offset, "tail", limitCfg.Tail)
		}
		formatter.SetTableTheme(cfg.Theme.TableColors())
		p := &pipeline{
			formatter: display.New(
				display.WithWriter(cmd.OutOrStdout()),
				display.WithMaxWidth(cfg.Display.MaxWidthOrZero()),
				display.WithBorder(cfg.Display.BorderStyle()),
				display.WithNoColor(run.NoColor),
				display.WithAllowUnknownTypes(cfg.Display.AllowUnknownTypesEnabled()),
				display.WithLogger(*lgr),
			),
			filter: filter,
			window: limiter.NewWindow[indexedRecord](limitCfg),
			format: cfg.Display.Format(),
			out:    cmd.OutOrStdout(),
		}
		return p.run(ctx, in)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print streamview version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the merged streamview configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadEffectiveConfig(cmd)
		if err != nil {
			return usageErrorf("config: %w", err)
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "output format: "+formatNames()+" (default from config or table)")
	rootCmd.Flags().IntVar(&maxWidth, "max-width", display.DefaultMaxWidth, "wrap cell text wider than this many columns (0 = no limit)")
	rootCmd.Flags().StringVar(&borderName, "border", "", "table border: ascii|rounded|heavy|double|none (default from config or ascii)")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.Flags().BoolVar(&allowUnknownTypes, "allow-unknown-types", false, "render records with an unrecognized type as an empty table instead of failing")
	rootCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "CEL expression over the record bound to '_'; only records where it is true are shown")
	rootCmd.Flags().IntVar(&limitRecords, "limit", 0, "Limit total number of records displayed")
	rootCmd.Flags().IntVar(&offsetRecords, "offset", 0, "Skip the first N records")
	rootCmd.Flags().IntVar(&tailRecords, "tail", 0, "Show the last N records (mutually exclusive with --limit; ignores --offset)")
	rootCmd.Flags().BoolVar(&keepGoing, "keep-going", false, "log records that cannot be displayed and continue")
	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
