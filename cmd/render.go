package cmd

import (
	"bytes"
	"context"

	"github.com/spf13/cobra"

	"github.com/sarchlab/gantt/config"
	"github.com/sarchlab/gantt/render"
)

var renderCmd = &cobra.Command{
	Use:   "render [trace]",
	Short: "Render a trace into a chart file.",
	Long: "`render [trace]` draws the trace as a Gantt chart. The format " +
		"follows the extension of the output unless --format is given. " +
		"Nothing is written if any record of the trace is bad.",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{inputArgAnnotation: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRender(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("output", "o", "", "chart path or URL")
	renderCmd.Flags().String("format", "",
		"svg, png, jpg, pdf, eps or tif")
	renderCmd.Flags().Int("width", 0, "chart width in pixels")
	renderCmd.Flags().Int("height", 0, "chart height in pixels")
}

func runRender(ctx context.Context, c config.Config) error {
	format, err := c.OutputFormat()
	if err != nil {
		return err
	}

	renderer, err := render.New(format, c.Size())
	if err != nil {
		return err
	}

	p, err := newPipeline(c, renderer)
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)

	chart, err := p.Run(ctx, buf)
	if err != nil {
		return err
	}

	if err := upload(ctx, c.Output, buf); err != nil {
		return err
	}

	logger.Info("chart written",
		"input", c.Input,
		"output", c.Output,
		"format", format,
		"rows", len(chart.Rows),
		"intervals", len(chart.Intervals))

	return nil
}
