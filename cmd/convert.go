package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/gantt/config"
	"github.com/sarchlab/gantt/tracing"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Convert a trace between CSV and SQLite.",
	Long: "`convert <in> <out>` reads a whole trace and writes it again. " +
		"Locations ending in .sqlite, .sqlite3 or .db, or starting with " +
		"sqlite://, are SQLite databases. Others are CSV files. The input is " +
		"validated first, so a bad record leaves no output behind.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd.Context(), cfg, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(ctx context.Context, c config.Config, in, out string) error {
	reader, err := tracing.Open(in, c.SourceOptions())
	if err != nil {
		return err
	}

	records, err := reader.ReadAll(ctx)
	if err != nil {
		return err
	}

	writer, err := tracing.Create(out, c.Table)
	if err != nil {
		return err
	}

	if err := writer.Init(); err != nil {
		return err
	}

	for _, record := range records {
		if err := writer.Write(record); err != nil {
			_ = writer.Close()
			return fmt.Errorf("writing %s: %w", out, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	logger.Info("trace converted", "input", in, "output", out,
		"records", len(records))

	return nil
}
