package gantt

import (
	"image/color"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Palette", func() {
	It("should have ten distinct default colors", func() {
		p := DefaultPalette()

		Expect(p.Size()).To(Equal(10))
		Expect(HexColor(p.RowColor(0))).To(Equal("#1f77b4"))
		Expect(HexColor(p.IdleColor())).To(Equal("#808080"))
	})

	It("should cycle by row index", func() {
		p := DefaultPalette()

		Expect(p.RowColor(12)).To(Equal(p.RowColor(2)))
		Expect(p.RowColor(10)).To(Equal(p.RowColor(0)))
	})

	It("should always give the idle row the idle color", func() {
		p := DefaultPalette()

		for _, n := range []int{1, 3, 11, 25} {
			records := trace()
			for i := 0; i < n-1; i++ {
				records = append(records, trace(i, string(rune('A'+i)))...)
			}
			records = append(records, trace(n, "Idle")...)

			layout, err := AssignRows(records, "Idle")
			Expect(err).NotTo(HaveOccurred())

			assign := p.Assignment(layout)
			Expect(assign(layout.IdleRow())).To(Equal(p.IdleColor()))
		}
	})

	It("should reject a palette with fewer than ten distinct colors", func() {
		colors := append([]string{}, DefaultColors[:9]...)
		colors = append(colors, DefaultColors[0])

		_, err := NewPalette(colors, DefaultIdleColor)

		Expect(err).To(MatchError(ErrPaletteTooSmall))
	})

	It("should reject bad hex colors", func() {
		_, err := NewPalette(DefaultColors, "grey")

		Expect(err).To(HaveOccurred())
	})

	It("should parse short and long hex colors", func() {
		Expect(ParseHexColor("#fff")).To(Equal(color.RGBA{R: 255, G: 255, B: 255, A: 255}))
		Expect(ParseHexColor("17becf")).To(Equal(color.RGBA{R: 0x17, G: 0xbe, B: 0xcf, A: 255}))
	})
})
