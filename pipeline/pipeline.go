// Package pipeline wires a trace source, the gantt transform and a renderer.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sarchlab/gantt/gantt"
	"github.com/sarchlab/gantt/render"
	"github.com/sarchlab/gantt/tracing"
)

const instrumentationName = "github.com/sarchlab/gantt/pipeline"

// ErrNoRenderer is returned by Run on a pipeline created without a renderer.
var ErrNoRenderer = errors.New("pipeline has no renderer")

// A Pipeline loads a trace, builds its chart and renders it.
type Pipeline struct {
	reader   tracing.TraceReader
	renderer render.Renderer
	options  gantt.Options
	logger   *slog.Logger
	tracer   trace.Tracer
}

// New creates a pipeline. The renderer may be nil if only Build is used.
func New(reader tracing.TraceReader, renderer render.Renderer) *Pipeline {
	return &Pipeline{
		reader:   reader,
		renderer: renderer,
		options:  gantt.DefaultOptions(),
		logger:   slog.Default(),
		tracer:   otel.Tracer(instrumentationName),
	}
}

// WithOptions sets the chart options.
func (p *Pipeline) WithOptions(opts gantt.Options) *Pipeline {
	p.options = opts
	return p
}

// WithLogger sets the logger.
func (p *Pipeline) WithLogger(logger *slog.Logger) *Pipeline {
	p.logger = logger.With("component", "pipeline")
	return p
}

// Build loads the whole trace and turns it into a chart.
func (p *Pipeline) Build(ctx context.Context) (*gantt.Chart, error) {
	records, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	return p.transform(ctx, records)
}

// Run builds the chart and renders it into w. Nothing is written to w
// unless every stage succeeds.
func (p *Pipeline) Run(ctx context.Context, w io.Writer) (*gantt.Chart, error) {
	if p.renderer == nil {
		return nil, ErrNoRenderer
	}

	chart, err := p.Build(ctx)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := p.render(ctx, chart, buf); err != nil {
		return nil, err
	}

	if _, err := buf.WriteTo(w); err != nil {
		return nil, err
	}

	return chart, nil
}

func (p *Pipeline) load(ctx context.Context) ([]tracing.Record, error) {
	ctx, span := p.tracer.Start(ctx, "load")
	defer span.End()

	records, err := p.reader.ReadAll(ctx)
	if err != nil {
		fail(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	p.logger.Debug("trace loaded", "records", len(records))

	return records, nil
}

func (p *Pipeline) transform(
	ctx context.Context,
	records []tracing.Record,
) (*gantt.Chart, error) {
	_, span := p.tracer.Start(ctx, "transform")
	defer span.End()

	chart, err := gantt.Build(records, p.options)
	if err != nil {
		fail(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("rows", len(chart.Rows)),
		attribute.Int("intervals", len(chart.Intervals)),
		attribute.Int("axis.min", chart.Axis.Min),
		attribute.Int("axis.max", chart.Axis.Max),
	)
	p.logger.Debug("chart built",
		"rows", len(chart.Rows),
		"intervals", len(chart.Intervals),
		"min", chart.Axis.Min,
		"max", chart.Axis.Max)

	return chart, nil
}

func (p *Pipeline) render(
	ctx context.Context,
	chart *gantt.Chart,
	w io.Writer,
) error {
	ctx, span := p.tracer.Start(ctx, "render")
	defer span.End()

	if err := p.renderer.Render(ctx, chart, w); err != nil {
		fail(span, err)
		return err
	}

	p.logger.Debug("chart rendered")

	return nil
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
