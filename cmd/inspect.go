package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/gantt/config"
	"github.com/sarchlab/gantt/gantt"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [trace]",
	Short: "Print the rows, intervals and axis of a trace.",
	Long: "`inspect [trace]` runs the chart transform without drawing and " +
		"prints what would be drawn.",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{inputArgAnnotation: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		intervals, _ := cmd.Flags().GetBool("intervals")

		return runInspect(cmd.Context(), cfg, cmd.OutOrStdout(),
			inspectOptions{json: asJSON, intervals: intervals})
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("json", false, "print the chart as JSON")
	inspectCmd.Flags().Bool("intervals", false, "list every interval")
}

type inspectOptions struct {
	json      bool
	intervals bool
}

type inspectReport struct {
	Chart   *gantt.Chart  `json:"chart"`
	Ticks   []int         `json:"ticks"`
	Summary gantt.Summary `json:"summary"`
}

func runInspect(
	ctx context.Context,
	c config.Config,
	w io.Writer,
	opts inspectOptions,
) error {
	p, err := newPipeline(c, nil)
	if err != nil {
		return err
	}

	chart, err := p.Build(ctx)
	if err != nil {
		return err
	}

	summary := gantt.Summarize(chart)

	if opts.json {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(inspectReport{
			Chart:   chart,
			Ticks:   chart.Ticks(),
			Summary: summary,
		})
	}

	printChart(w, chart, summary, opts.intervals)

	return nil
}

func printChart(
	w io.Writer,
	chart *gantt.Chart,
	summary gantt.Summary,
	intervals bool,
) {
	fmt.Fprintf(w, "Axis: %d to %d, %d ticks\n",
		chart.Axis.Min, chart.Axis.Max, chart.Axis.TickCount())
	fmt.Fprintf(w, "Utilization: %.1f%% (%d of %d slots idle)\n\n",
		summary.Utilization*100, summary.IdleSlots, summary.TotalSlots)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tPROCESS\tSLOTS\tFIRST\tLAST\tCOLOR")

	for _, rs := range summary.Rows {
		color := ""
		for _, iv := range chart.Intervals {
			if iv.Row == rs.Row {
				color = gantt.HexColor(iv.Color)
				break
			}
		}

		name := rs.Process
		if chart.IsIdleRow(rs.Row) {
			name += " (idle)"
		}

		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n",
			rs.Row, name, rs.Slots, rs.First, rs.Last, color)
	}

	tw.Flush()

	if !intervals {
		return
	}

	fmt.Fprintln(w)

	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "START\tEND\tPROCESS")

	for _, iv := range chart.Intervals {
		fmt.Fprintf(tw, "%d\t%d\t%s\n",
			iv.Start, iv.End(), chart.Rows[iv.Row].Process)
	}

	tw.Flush()
}
