// Package render turns a stream of step snapshots into an animated GIF:
// arena boundary, accumulated path trail, and the agent's current position.
// It consumes only snapshot data; the simulator never sees any of this.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"

	"github.com/wanderlab/brownian/internal/core/sim"
)

const (
	colorBackground = iota
	colorBoundary
	colorTrail
	colorAgent
)

var palette = color.Palette{
	color.RGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}, // background
	color.RGBA{B: 0x8b, A: 0xff},                   // boundary, dark blue
	color.RGBA{R: 0x64, G: 0x95, B: 0xed, A: 0xff}, // trail
	color.RGBA{R: 0xd4, B: 0x2b, A: 0xff},          // agent
}

// Options control frame geometry and pacing.
type Options struct {
	// SizePx is the square frame edge in pixels.
	SizePx int
	// Stride renders every Stride-th snapshot as a frame; intermediate
	// snapshots still extend the trail.
	Stride int
	// DelayCS is the per-frame delay in hundredths of a second.
	DelayCS int
}

// DefaultOptions matches the pacing of the original sample animation.
func DefaultOptions() Options {
	return Options{SizePx: 400, Stride: 1, DelayCS: 3}
}

type point struct{ x, y int }

// Renderer accumulates frames. Feed it snapshots in step order via Observe,
// then WriteGIF once.
type Renderer struct {
	halfWidth float64
	opts      Options

	margin int
	scale  float64

	trail    []point
	frames   []*image.Paletted
	delays   []int
	observed int
	lastAt   int // observed count at the moment of the last rendered frame
	last     point
}

// NewRenderer builds a renderer for an arena of the given half-width.
func NewRenderer(halfWidth float64, opts Options) (*Renderer, error) {
	if halfWidth <= 0 {
		return nil, fmt.Errorf("render: half-width must be > 0, got %v", halfWidth)
	}
	if opts.SizePx < 16 {
		return nil, fmt.Errorf("render: frame size %dpx is too small", opts.SizePx)
	}
	if opts.Stride < 1 {
		return nil, fmt.Errorf("render: stride must be >= 1, got %d", opts.Stride)
	}
	if opts.DelayCS < 0 {
		return nil, fmt.Errorf("render: delay must be >= 0, got %d", opts.DelayCS)
	}

	margin := 4
	r := &Renderer{
		halfWidth: halfWidth,
		opts:      opts,
		margin:    margin,
		scale:     float64(opts.SizePx-2*margin-1) / (2 * halfWidth),
	}
	start := r.toPixel(0, 0)
	r.trail = append(r.trail, start)
	r.last = start
	return r, nil
}

// Observe folds one snapshot into the trail and renders a frame on every
// Stride-th call.
func (r *Renderer) Observe(s sim.StepSnapshot) {
	p := r.toPixel(s.X, s.Y)
	if p != r.last {
		r.trail = append(r.trail, p)
	}
	r.last = p
	r.observed++

	if r.observed%r.opts.Stride == 0 {
		r.renderFrame()
	}
}

// FrameCount returns the number of frames rendered so far.
func (r *Renderer) FrameCount() int {
	return len(r.frames)
}

// WriteGIF encodes the animation. When the final snapshot fell between
// strides, one last frame is added so the GIF always ends on the end state.
func (r *Renderer) WriteGIF(w io.Writer) error {
	if r.observed > r.lastAt || len(r.frames) == 0 {
		r.renderFrame()
	}
	return gif.EncodeAll(w, &gif.GIF{
		Image: r.frames,
		Delay: r.delays,
	})
}

func (r *Renderer) renderFrame() {
	size := r.opts.SizePx
	img := image.NewPaletted(image.Rect(0, 0, size, size), palette)

	r.drawBoundary(img)
	for _, p := range r.trail {
		img.SetColorIndex(p.x, p.y, colorTrail)
	}
	r.drawAgent(img, r.last)

	r.frames = append(r.frames, img)
	r.delays = append(r.delays, r.opts.DelayCS)
	r.lastAt = r.observed
}

func (r *Renderer) drawBoundary(img *image.Paletted) {
	w := r.halfWidth
	lo := r.toPixel(-w, w) // top-left in pixel space
	hi := r.toPixel(w, -w) // bottom-right
	for x := lo.x; x <= hi.x; x++ {
		img.SetColorIndex(x, lo.y, colorBoundary)
		img.SetColorIndex(x, hi.y, colorBoundary)
	}
	for y := lo.y; y <= hi.y; y++ {
		img.SetColorIndex(lo.x, y, colorBoundary)
		img.SetColorIndex(hi.x, y, colorBoundary)
	}
}

func (r *Renderer) drawAgent(img *image.Paletted, p point) {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			img.SetColorIndex(p.x+dx, p.y+dy, colorAgent)
		}
	}
}

// toPixel maps world coordinates (origin-centered, +y up) to pixel
// coordinates (top-left origin, +y down).
func (r *Renderer) toPixel(x, y float64) point {
	return point{
		x: r.margin + int((x+r.halfWidth)*r.scale+0.5),
		y: r.margin + int((r.halfWidth-y)*r.scale+0.5),
	}
}
