package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"

	"go.uber.org/mock/gomock"

	"github.com/sarchlab/gantt/gantt"
	"github.com/sarchlab/gantt/render"
	"github.com/sarchlab/gantt/tracing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Pipeline", func() {
	var (
		mockCtrl *gomock.Controller
		reader   *MockTraceReader
		renderer *MockRenderer
		p        *Pipeline
		ctx      context.Context
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		reader = NewMockTraceReader(mockCtrl)
		renderer = NewMockRenderer(mockCtrl)
		p = New(reader, renderer)
		ctx = context.Background()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should load, transform and render", func() {
		reader.EXPECT().ReadAll(gomock.Any()).Return([]tracing.Record{
			{Time: 0, Process: "P1"},
			{Time: 1, Process: "P2"},
			{Time: 2, Process: "Idle"},
			{Time: 3, Process: "P1"},
		}, nil)
		renderer.EXPECT().
			Render(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *gantt.Chart, w io.Writer) error {
				Expect(c.Intervals).To(HaveLen(4))
				_, err := io.WriteString(w, "chart")
				return err
			})

		out := new(bytes.Buffer)
		chart, err := p.Run(ctx, out)

		Expect(err).NotTo(HaveOccurred())
		Expect(chart.Labels()).To(Equal([]string{"P1", "P2", "Idle"}))
		Expect(out.String()).To(Equal("chart"))
	})

	It("should not render an empty trace", func() {
		reader.EXPECT().ReadAll(gomock.Any()).Return(nil, tracing.ErrEmptyTrace)

		out := new(bytes.Buffer)
		_, err := p.Run(ctx, out)

		Expect(err).To(MatchError(tracing.ErrEmptyTrace))
		Expect(out.Len()).To(BeZero())
	})

	It("should not render when the loader fails", func() {
		reader.EXPECT().ReadAll(gomock.Any()).
			Return(nil, &tracing.MalformedRecordError{Line: 3, Reason: "bad time"})

		_, err := p.Run(ctx, new(bytes.Buffer))

		Expect(err).To(MatchError(tracing.ErrMalformedRecord))
	})

	It("should not write partial output when rendering fails", func() {
		reader.EXPECT().ReadAll(gomock.Any()).
			Return([]tracing.Record{{Time: 0, Process: "P1"}}, nil)
		renderer.EXPECT().
			Render(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *gantt.Chart, w io.Writer) error {
				_, _ = io.WriteString(w, "half")
				return render.ErrUnsupportedFormat
			})

		out := new(bytes.Buffer)
		_, err := p.Run(ctx, out)

		Expect(err).To(MatchError(render.ErrUnsupportedFormat))
		Expect(out.Len()).To(BeZero())
	})

	It("should use the chart options", func() {
		reader.EXPECT().ReadAll(gomock.Any()).
			Return([]tracing.Record{{Time: 0, Process: "-"}, {Time: 1, Process: "P1"}}, nil)

		opts := gantt.DefaultOptions()
		opts.IdleProcess = "-"
		opts.Title = "Run 7"

		chart, err := New(reader, nil).WithOptions(opts).Build(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(chart.Title).To(Equal("Run 7"))
		Expect(chart.Labels()).To(Equal([]string{"P1", "-"}))
	})

	It("should refuse to run without a renderer", func() {
		_, err := New(reader, nil).Run(ctx, new(bytes.Buffer))

		Expect(errors.Is(err, ErrNoRenderer)).To(BeTrue())
	})
})
