package analysis

import (
	"math"

	"github.com/san-kum/fluidbg/internal/anim"
	"github.com/san-kum/fluidbg/internal/frame"
)

// FrameStats summarises the colors of one frame. Channel values are in
// [0, 255].
type FrameStats struct {
	Time      float64 `json:"time"`
	MeanR     float64 `json:"mean_r"`
	MeanG     float64 `json:"mean_g"`
	MeanB     float64 `json:"mean_b"`
	Luminance float64 `json:"luminance"`
	MinLum    float64 `json:"min_luminance"`
	MaxLum    float64 `json:"max_luminance"`
}

// luminance uses Rec. 709 weights.
func luminance(r, g, b float64) float64 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func Stats(t float64, buf *frame.PixelBuffer) FrameStats {
	st := FrameStats{Time: t, MinLum: math.Inf(1), MaxLum: math.Inf(-1)}
	n := len(buf.Pix) / frame.BytesPerPixel
	if n == 0 {
		st.MinLum, st.MaxLum = 0, 0
		return st
	}

	var sr, sg, sb float64
	for i := 0; i < n; i++ {
		r := float64(buf.Pix[i*3])
		g := float64(buf.Pix[i*3+1])
		b := float64(buf.Pix[i*3+2])
		sr += r
		sg += g
		sb += b

		l := luminance(r, g, b)
		st.MinLum = math.Min(st.MinLum, l)
		st.MaxLum = math.Max(st.MaxLum, l)
	}
	st.MeanR = sr / float64(n)
	st.MeanG = sg / float64(n)
	st.MeanB = sb / float64(n)
	st.Luminance = luminance(st.MeanR, st.MeanG, st.MeanB)
	return st
}

func SequenceStats(frames []anim.Frame) []FrameStats {
	out := make([]FrameStats, len(frames))
	for i, f := range frames {
		out[i] = Stats(f.Time, f.Buffer)
	}
	return out
}

func LuminanceSeries(stats []FrameStats) []float64 {
	out := make([]float64, len(stats))
	for i, s := range stats {
		out[i] = s.Luminance
	}
	return out
}

// Summary describes a whole sequence.
type Summary struct {
	Frames         int          `json:"frames"`
	MeanLuminance  float64      `json:"mean_luminance"`
	LuminanceRange float64      `json:"luminance_range"`
	Period         float64      `json:"dominant_period,omitempty"`
	PerFrame       []FrameStats `json:"per_frame,omitempty"`
}

// Summarize computes per-frame stats and the dominant luminance period.
// dt is the time between frames.
func Summarize(frames []anim.Frame, dt float64) Summary {
	stats := SequenceStats(frames)
	series := LuminanceSeries(stats)

	s := Summary{Frames: len(frames), PerFrame: stats, MeanLuminance: mean(series)}
	if len(series) > 0 {
		lo, hi := series[0], series[0]
		for _, v := range series {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		s.LuminanceRange = hi - lo
	}
	if p, ok := DominantPeriod(series, dt); ok {
		s.Period = p
	}
	return s
}
