package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/gantt/config"
	"github.com/sarchlab/gantt/viewer"
)

var serveCmd = &cobra.Command{
	Use:   "serve [trace]",
	Short: "Show the chart of a trace in a browser.",
	Long: "`serve [trace]` starts a web server that displays the chart and " +
		"reloads it whenever the trace changes.",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{inputArgAnnotation: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(),
			os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServe(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "address to listen on")
	serveCmd.Flags().Bool("open", false, "open the chart in a browser")
	serveCmd.Flags().Duration("watch", 0, "how often to reload the trace")
	serveCmd.Flags().Int("width", 0, "chart width in pixels")
	serveCmd.Flags().Int("height", 0, "chart height in pixels")
}

func runServe(ctx context.Context, c config.Config) error {
	p, err := newPipeline(c, nil)
	if err != nil {
		return err
	}

	v := viewer.NewViewer(p).
		WithAddr(c.Listen).
		WithSize(c.Size()).
		WithLogger(logger)

	if _, err := v.Reload(ctx); err != nil {
		logger.Warn("first load failed, serving anyway", "error", err)
	}

	url, err := v.Listen()
	if err != nil {
		return err
	}

	if c.OpenBrowser {
		v.OpenBrowser(url)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return v.Serve(ctx)
	})

	g.Go(func() error {
		return v.Watch(ctx, c.WatchInterval)
	})

	return g.Wait()
}
