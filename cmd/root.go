// Package cmd provides the command-line interface of gantt.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/gantt/config"
	"github.com/sarchlab/gantt/telemetry"
)

// Version is the version reported by the CLI and attached to spans.
var Version = "dev"

var (
	cfg    = config.Default()
	logger = slog.Default()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gantt",
	Short: "Gantt turns CPU scheduling traces into Gantt charts.",
	Long: `Gantt reads a trace of which process held the CPU at each time ` +
		`unit and draws it as a Gantt chart, one row per process with the ` +
		`idle process last. Traces can be CSV files, SQLite or MySQL ` +
		`databases. Charts can be written to files or served in a browser.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "gantt.yaml",
		"YAML configuration file, ignored if missing")
	flags.String("idle", "", "name of the idle process")
	flags.String("table", "", "trace table of SQL sources")
	flags.String("title", "", "chart title")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("log-format", "", "text or json")
	flags.String("trace-output", "",
		"file that receives OpenTelemetry spans, - for stderr")
}

// setup loads the configuration and starts logging and tracing. The first
// positional argument, if any, is the trace location.
func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}

	applyFlags(cmd.Flags(), &loaded)

	if len(args) > 0 && cmd.Annotations[inputArgAnnotation] == "true" {
		loaded.Input = args[0]
	}

	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded

	logger, err = telemetry.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	slog.SetDefault(logger)

	shutdown, err := telemetry.InitTracing("gantt", Version, cfg.TraceOutput)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}

	atexit.Register(func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("flushing spans failed", "error", err)
		}
	})

	return nil
}

const inputArgAnnotation = "input-arg"

// applyFlags copies the flags set on the command line into c.
func applyFlags(flags *pflag.FlagSet, c *config.Config) {
	stringFlags := map[string]*string{
		"idle":         &c.IdleProcess,
		"table":        &c.Table,
		"title":        &c.Title,
		"log-level":    &c.LogLevel,
		"log-format":   &c.LogFormat,
		"trace-output": &c.TraceOutput,
		"output":       &c.Output,
		"format":       &c.Format,
		"listen":       &c.Listen,
	}

	for name, dst := range stringFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}

	intFlags := map[string]*int{
		"width":  &c.Width,
		"height": &c.Height,
	}

	for name, dst := range intFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}

	if flags.Changed("open") {
		c.OpenBrowser, _ = flags.GetBool("open")
	}

	if flags.Changed("watch") {
		c.WatchInterval, _ = flags.GetDuration("watch")
	}
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Functions registered with atexit run before the process
// exits.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
