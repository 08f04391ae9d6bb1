package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/sarchlab/gantt/config"
	"github.com/sarchlab/gantt/tracing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const sampleTrace = "Time,Process\n0,P1\n1,P2\n2,Idle\n3,P1\n"

var _ = Describe("Commands", func() {
	var (
		dir string
		c   config.Config
		ctx context.Context
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		ctx = context.Background()

		c = config.Default()
		c.Input = filepath.Join(dir, "trace.csv")
		c.Output = filepath.Join(dir, "chart.svg")

		Expect(os.WriteFile(c.Input, []byte(sampleTrace), 0o644)).To(Succeed())
	})

	Context("render", func() {
		It("should write the chart", func() {
			Expect(runRender(ctx, c)).To(Succeed())

			data, err := os.ReadFile(c.Output)
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.Count(string(data), `class="bar"`)).To(Equal(4))
		})

		It("should write PNG when asked to", func() {
			c.Output = filepath.Join(dir, "chart.png")

			Expect(runRender(ctx, c)).To(Succeed())

			data, err := os.ReadFile(c.Output)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data[1:4])).To(Equal("PNG"))
		})

		It("should not write anything for a malformed trace", func() {
			Expect(os.WriteFile(c.Input,
				[]byte("Time,Process\n0,P1\nx,P2\n"), 0o644)).To(Succeed())

			err := runRender(ctx, c)

			Expect(err).To(MatchError(tracing.ErrMalformedRecord))
			Expect(c.Output).NotTo(BeAnExistingFile())
		})

		It("should report a missing trace", func() {
			c.Input = filepath.Join(dir, "missing.csv")

			err := runRender(ctx, c)

			Expect(err).To(MatchError(tracing.ErrMissingFile))
			Expect(c.Output).NotTo(BeAnExistingFile())
		})

		It("should report an empty trace", func() {
			Expect(os.WriteFile(c.Input, []byte("Time,Process\n"), 0o644)).
				To(Succeed())

			Expect(runRender(ctx, c)).To(MatchError(tracing.ErrEmptyTrace))
		})
	})

	Context("inspect", func() {
		It("should print the rows", func() {
			out := new(bytes.Buffer)

			Expect(runInspect(ctx, c, out, inspectOptions{intervals: true})).
				To(Succeed())

			text := out.String()
			Expect(text).To(ContainSubstring("Axis: 0 to 3, 4 ticks"))
			Expect(text).To(ContainSubstring("Idle (idle)"))
			Expect(text).To(ContainSubstring("START"))
		})

		It("should print JSON", func() {
			out := new(bytes.Buffer)

			Expect(runInspect(ctx, c, out, inspectOptions{json: true})).
				To(Succeed())

			var report struct {
				Ticks []int `json:"ticks"`
				Chart struct {
					IdleRow int `json:"idle_row"`
				} `json:"chart"`
			}
			Expect(json.Unmarshal(out.Bytes(), &report)).To(Succeed())
			Expect(report.Ticks).To(Equal([]int{0, 1, 2, 3}))
			Expect(report.Chart.IdleRow).To(Equal(2))
		})
	})

	Context("convert", func() {
		It("should convert CSV to SQLite and back", func() {
			db := filepath.Join(dir, "trace.sqlite")
			back := filepath.Join(dir, "back.csv")

			Expect(runConvert(ctx, c, c.Input, db)).To(Succeed())
			Expect(runConvert(ctx, c, db, back)).To(Succeed())

			data, err := os.ReadFile(back)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(sampleTrace))
		})

		It("should not create the output for a bad input", func() {
			Expect(os.WriteFile(c.Input,
				[]byte("Time,Process\n0,\n"), 0o644)).To(Succeed())
			out := filepath.Join(dir, "out.sqlite")

			err := runConvert(ctx, c, c.Input, out)

			Expect(err).To(MatchError(tracing.ErrMalformedRecord))
			Expect(out).NotTo(BeAnExistingFile())
		})
	})

	Context("flags", func() {
		It("should only apply the flags that are set", func() {
			flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
			flags.String("idle", "", "")
			flags.String("title", "", "")
			flags.Int("width", 0, "")
			flags.Bool("open", false, "")

			Expect(flags.Parse([]string{"--idle", "IDLE", "--width", "640", "--open"})).
				To(Succeed())

			applyFlags(flags, &c)

			Expect(c.IdleProcess).To(Equal("IDLE"))
			Expect(c.Width).To(Equal(640))
			Expect(c.OpenBrowser).To(BeTrue())
			Expect(c.Title).To(Equal(config.Default().Title))
		})
	})
})
