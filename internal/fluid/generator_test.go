package fluid_test

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fluidbg/internal/anim"
	"github.com/san-kum/fluidbg/internal/compute"
	"github.com/san-kum/fluidbg/internal/field"
	"github.com/san-kum/fluidbg/internal/fluid"
	"github.com/san-kum/fluidbg/internal/frame"
	"github.com/san-kum/fluidbg/internal/render"
)

var _ = Describe("Generator", func() {
	var gen *fluid.Generator

	BeforeEach(func() {
		var err error
		gen, err = fluid.New(fluid.Options{Width: 8, Height: 6, Backend: compute.NewSerialBackend()})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(gen.Close)
	})

	Describe("construction", func() {
		DescribeTable("rejects non-positive resolutions",
			func(w, h int) {
				_, err := fluid.New(fluid.Options{Width: w, Height: h})
				Expect(err).To(MatchError(field.ErrInvalidResolution))
			},
			Entry("zero width", 0, 6),
			Entry("zero height", 8, 0),
			Entry("negative", -1, -1),
		)

		It("rejects an unknown default scheme", func() {
			_, err := fluid.New(fluid.Options{Width: 8, Height: 6, Scheme: "sunset"})
			Expect(err).To(MatchError(fluid.ErrInvalidOptions))
			Expect(err).To(MatchError(render.ErrUnsupportedScheme))
		})

		It("rejects a negative advection step", func() {
			_, err := fluid.New(fluid.Options{Width: 8, Height: 6, AdvectionDt: -0.01})
			Expect(err).To(MatchError(fluid.ErrInvalidOptions))
		})

		It("reports its configuration", func() {
			info := gen.Info()
			Expect(info.Width).To(Equal(8))
			Expect(info.Height).To(Equal(6))
			Expect(info.Device).To(Equal("serial"))
			Expect(info.Scheme).To(Equal("ai_theme"))
			Expect(info.Palette).To(Equal("cloud"))
			Expect(info.String()).To(ContainSubstring("8x6 on serial"))
		})
	})

	Describe("Frame", func() {
		It("renders an 8x6 ai_theme frame with an accented center", func() {
			buf, err := gen.Frame(0.0, "ai_theme")
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.Width).To(Equal(8))
			Expect(buf.Height).To(Equal(6))
			Expect(buf.Pix).To(HaveLen(6 * 8 * 3))

			r, g, b := buf.At(4, 3)
			Expect(g).To(BeNumerically(">=", r))
			Expect(b).To(BeNumerically(">=", r))
		})

		It("is deterministic for the same time", func() {
			a, err := gen.Frame(2.5, "")
			Expect(err).NotTo(HaveOccurred())
			b, err := gen.Frame(2.5, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Pix).To(Equal(b.Pix))
		})

		It("matches across compute backends", func() {
			parallel, err := fluid.New(fluid.Options{Width: 64, Height: 48, Backend: compute.NewCPUBackend(4)})
			Expect(err).NotTo(HaveOccurred())
			serial, err := fluid.New(fluid.Options{Width: 64, Height: 48, Backend: compute.NewSerialBackend()})
			Expect(err).NotTo(HaveOccurred())

			for _, t := range []float64{0, 0.7, 13.1} {
				p, err := parallel.Frame(t, "ocean")
				Expect(err).NotTo(HaveOccurred())
				s, err := serial.Frame(t, "ocean")
				Expect(err).NotTo(HaveOccurred())
				Expect(p.Pix).To(Equal(s.Pix))
			}
		})

		It("changes over time", func() {
			a, _ := gen.Frame(0, "")
			b, _ := gen.Frame(1, "")
			Expect(a.Pix).NotTo(Equal(b.Pix))
		})

		It("stays usable after an unsupported scheme", func() {
			_, err := gen.Frame(0.0, "sunset")
			Expect(err).To(MatchError(render.ErrUnsupportedScheme))

			buf, err := gen.Frame(0.0, "ai_theme")
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.Pix).To(HaveLen(8 * 6 * 3))
		})
	})

	Describe("non-finite time", func() {
		DescribeTable("is rejected instead of rendering",
			func(t float64) {
				buf, err := gen.Frame(t, "")
				Expect(err).To(MatchError(fluid.ErrInvalidTime))
				Expect(buf).To(BeNil())

				_, err = gen.FrameDataURI(t, "", frame.PNG)
				Expect(err).To(MatchError(fluid.ErrInvalidTime))
			},
			Entry("NaN", math.NaN()),
			Entry("+Inf", math.Inf(1)),
			Entry("-Inf", math.Inf(-1)),
		)
	})

	Describe("Fields", func() {
		It("advects the raw density by one small step", func() {
			f, err := gen.Fields(0.4)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Density.Len()).To(Equal(48))
			Expect(f.Raw.Len()).To(Equal(48))
			for i := range f.Density.Data {
				Expect(f.Density.Data[i] - f.Raw.Data[i]).To(BeNumerically("~", 0, 0.1+1e-12))
			}
		})
	})

	Describe("encoding", func() {
		It("produces PNG and JPEG data URIs", func() {
			png, err := gen.FrameDataURI(0, "", frame.PNG)
			Expect(err).NotTo(HaveOccurred())
			Expect(png).To(HavePrefix("data:image/png;base64,"))

			jpg, err := gen.FrameDataURI(0, "", frame.JPEG)
			Expect(err).NotTo(HaveOccurred())
			Expect(jpg).To(HavePrefix("data:image/jpeg;base64,"))

			decoded, format, err := frame.DecodeDataURI(jpg)
			Expect(err).NotTo(HaveOccurred())
			Expect(format).To(Equal(frame.JPEG))
			Expect(decoded.Width).To(Equal(8))
			Expect(decoded.Height).To(Equal(6))
		})

		It("round-trips PNG exactly", func() {
			buf, err := gen.Frame(1.0, "")
			Expect(err).NotTo(HaveOccurred())
			data, err := gen.FrameBytes(1.0, "", frame.PNG)
			Expect(err).NotTo(HaveOccurred())
			decoded, err := frame.Decode(data)
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded).To(Equal(buf))
		})

		It("rejects unknown formats", func() {
			_, err := gen.FrameBytes(0, "", frame.Format("BMP"))
			Expect(err).To(MatchError(frame.ErrUnsupportedFormat))
		})
	})

	Describe("animation", func() {
		It("renders frames at evenly spaced times", func() {
			frames, err := gen.Sequence(context.Background(), 4, 4.0)
			Expect(err).NotTo(HaveOccurred())
			Expect(frames).To(HaveLen(4))

			times := make([]float64, len(frames))
			for i, f := range frames {
				times[i] = f.Time
				single, err := gen.Frame(f.Time, "")
				Expect(err).NotTo(HaveOccurred())
				Expect(f.Buffer.Pix).To(Equal(single.Pix))
			}
			Expect(times).To(Equal([]float64{0, 1, 2, 3}))
		})

		It("renders a single frame at t=0", func() {
			frames, err := gen.Sequence(context.Background(), 1, 4.0)
			Expect(err).NotTo(HaveOccurred())
			Expect(frames).To(HaveLen(1))
			Expect(frames[0].Time).To(BeZero())
		})

		It("rejects an empty sequence", func() {
			_, err := gen.Sequence(context.Background(), 0, 4.0)
			Expect(err).To(MatchError(anim.ErrInvalidSequence))
		})

		It("exports a looping GIF", func() {
			path := filepath.Join(GinkgoT().TempDir(), "fluid.gif")
			err := gen.ExportGIF(context.Background(), path, 5, 1.0, 67, anim.GIFOptions{Quantizer: anim.QuantizerTheme})
			Expect(err).NotTo(HaveOccurred())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.HasPrefix(string(data), "GIF89a")).To(BeTrue())
		})
	})
})
