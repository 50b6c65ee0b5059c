package render

import (
	"bytes"
	"image/gif"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlab/brownian/internal/core/sim"
)

func TestNewRendererValidatesOptions(t *testing.T) {
	_, err := NewRenderer(0, DefaultOptions())
	assert.Error(t, err)

	opts := DefaultOptions()
	opts.SizePx = 4
	_, err = NewRenderer(10, opts)
	assert.Error(t, err)

	opts = DefaultOptions()
	opts.Stride = 0
	_, err = NewRenderer(10, opts)
	assert.Error(t, err)
}

func TestStrideControlsFrameCount(t *testing.T) {
	opts := DefaultOptions()
	opts.Stride = 10
	r, err := NewRenderer(10, opts)
	require.NoError(t, err)

	for i := uint64(1); i <= 100; i++ {
		r.Observe(sim.StepSnapshot{Step: i, X: float64(i) * 0.1, Speed: 0.1})
	}
	assert.Equal(t, 10, r.FrameCount())
}

func TestWriteGIFEncodesAllFrames(t *testing.T) {
	opts := DefaultOptions()
	opts.Stride = 5
	r, err := NewRenderer(5, opts)
	require.NoError(t, err)

	// 12 snapshots: frames at 5 and 10, plus the final frame WriteGIF adds
	// for the trailing partial stride.
	for i := uint64(1); i <= 12; i++ {
		r.Observe(sim.StepSnapshot{Step: i, X: 0.2 * float64(i), Y: -0.1 * float64(i)})
	}

	var buf bytes.Buffer
	require.NoError(t, r.WriteGIF(&buf))

	decoded, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, decoded.Image, 3)
	for _, frame := range decoded.Image {
		b := frame.Bounds()
		assert.Equal(t, opts.SizePx, b.Dx())
		assert.Equal(t, opts.SizePx, b.Dy())
	}
}

func TestAgentIsDrawnAtSnapshotPosition(t *testing.T) {
	r, err := NewRenderer(10, DefaultOptions())
	require.NoError(t, err)

	r.Observe(sim.StepSnapshot{Step: 1, X: 10, Y: 10})

	require.Equal(t, 1, r.FrameCount())
	frame := r.frames[0]
	corner := r.toPixel(10, 10)
	assert.EqualValues(t, colorAgent, frame.ColorIndexAt(corner.x, corner.y),
		"agent marker should sit on the top-right corner pixel")

	center := r.toPixel(0, 0)
	assert.EqualValues(t, colorTrail, frame.ColorIndexAt(center.x, center.y),
		"start position stays on the trail")
}

func TestStationaryAgentStillProducesFrames(t *testing.T) {
	r, err := NewRenderer(10, DefaultOptions())
	require.NoError(t, err)

	for i := uint64(1); i <= 3; i++ {
		r.Observe(sim.StepSnapshot{Step: i})
	}

	var buf bytes.Buffer
	require.NoError(t, r.WriteGIF(&buf))

	decoded, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, decoded.Image, 3, "stride 1 renders every snapshot")
}
