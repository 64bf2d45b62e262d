package segment

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestSegment_FixedRangeOnGradient(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := uint8(2 * x)
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	s := New(DefaultConfig())
	poly, ok := s.Region(img)
	require.True(t, ok)

	// 相邻像素只差 2，但与种子颜色的差超过 15 的列不会被填充
	assert.ElementsMatch(t, []image.Point{{X: 25, Y: 0}, {X: 39, Y: 0}, {X: 39, Y: 63}, {X: 25, Y: 63}}, poly.Points)
	assert.Equal(t, 882.0, poly.AreaPixels)
}

func TestSegment_CentreRectangle(t *testing.T) {
	img := solid(64, 64, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	for y := 16; y < 48; y++ {
		for x := 16; x < 48; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 50, B: 50, A: 255})
		}
	}

	points := New(DefaultConfig()).Segment(img)
	require.Len(t, points, 4)
	for _, p := range points {
		assert.True(t, p.In(image.Rect(16, 16, 48, 48)), "%v outside roof", p)
	}
}

func TestSegment_UniformImage(t *testing.T) {
	img := solid(20, 10, color.RGBA{R: 90, G: 90, B: 90, A: 255})

	poly, ok := New(DefaultConfig()).Region(img)
	require.True(t, ok)
	assert.Equal(t, 171.0, poly.AreaPixels)
	assert.Len(t, poly.Footprint, 200)
}

func TestSegment_EmptyImage(t *testing.T) {
	s := New(DefaultConfig())
	assert.Empty(t, s.Segment(image.NewRGBA(image.Rect(0, 0, 0, 0))))
	assert.Empty(t, s.Segment(nil))
}

func TestNew_Defaults(t *testing.T) {
	s := New(Config{Kernel: 4, Tolerance: -1, Connectivity: 6})
	assert.Equal(t, Config{Kernel: 5, Tolerance: 15, EpsilonRatio: 0.02, Connectivity: 4}, s.Config())
}

func TestSegment_DegenerateRegion(t *testing.T) {
	s := New(Config{Kernel: 1, Tolerance: 15, Connectivity: 4})

	line := solid(9, 9, color.RGBA{R: 20, G: 20, B: 20, A: 255})
	for y := 0; y < 9; y++ {
		line.Set(4, y, color.RGBA{R: 220, G: 220, B: 220, A: 255})
	}
	poly, ok := s.Region(line)
	require.True(t, ok)
	assert.Less(t, len(poly.Points), 3)
	assert.Len(t, poly.Footprint, 9)
	assert.NotNil(t, s.Segment(line))
	assert.Empty(t, s.Segment(line))

	dot := solid(9, 9, color.RGBA{R: 20, G: 20, B: 20, A: 255})
	dot.Set(4, 4, color.RGBA{R: 220, G: 220, B: 220, A: 255})
	assert.Empty(t, s.Segment(dot))
}

func TestBlur_UniformUnchanged(t *testing.T) {
	img := solid(12, 8, color.RGBA{R: 30, G: 60, B: 90, A: 255})

	out, err := blur(img, 5)
	require.NoError(t, err)
	require.Equal(t, 12, out.width)
	require.Equal(t, 8, out.height)
	require.Len(t, out.pix, 12*8*3)
	for i := 0; i < len(out.pix); i += 3 {
		assert.Equal(t, []uint8{90, 60, 30}, out.pix[i:i+3])
	}
}
