package cmd

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/sarchlab/gantt/config"
	"github.com/sarchlab/gantt/pipeline"
	"github.com/sarchlab/gantt/render"
	"github.com/sarchlab/gantt/tracing"
)

// newPipeline wires the trace source and the chart options of c. The
// renderer may be nil for commands that do not draw.
func newPipeline(
	c config.Config,
	renderer render.Renderer,
) (*pipeline.Pipeline, error) {
	reader, err := tracing.Open(c.Input, c.SourceOptions())
	if err != nil {
		return nil, err
	}

	opts, err := c.ChartOptions()
	if err != nil {
		return nil, err
	}

	return pipeline.New(reader, renderer).
		WithOptions(opts).
		WithLogger(logger), nil
}

// upload writes a finished chart to a local path or to any URL afs supports.
func upload(ctx context.Context, location string, data *bytes.Buffer) error {
	url := location
	if !strings.Contains(location, "://") {
		abs, err := filepath.Abs(location)
		if err != nil {
			return err
		}

		url = abs
	}

	fs := afs.New()

	err := fs.Upload(ctx, url, file.DefaultFileOsMode, data)
	if err != nil {
		return fmt.Errorf("writing chart to %s: %w", location, err)
	}

	return nil
}
